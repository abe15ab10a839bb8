package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"plantcare/pkg/apperr"
	"plantcare/pkg/careplan/service"
)

type CarePlanCtrl struct{ s service.CarePlanService }

func New(s service.CarePlanService) *CarePlanCtrl { return &CarePlanCtrl{s} }

func plantID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *CarePlanCtrl) Get(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, ok := plantID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	plan, err := h.s.Active(c.Request().Context(), uid, id)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"care_plan": plan, "tasks": plan.Tasks})
}

func (h *CarePlanCtrl) Regenerate(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, ok := plantID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	plan, err := h.s.Regenerate(c.Request().Context(), uid, id)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"care_plan": plan, "tasks": plan.Tasks})
}
