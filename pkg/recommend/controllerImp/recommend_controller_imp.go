package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"plantcare/pkg/apperr"
	"plantcare/pkg/recommend/service"
)

type RecommendCtrl struct{ s service.RecommendService }

func New(s service.RecommendService) *RecommendCtrl { return &RecommendCtrl{s} }

func (h *RecommendCtrl) ForTask(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	res, err := h.s.ForTask(c.Request().Context(), uid, uint(id))
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
