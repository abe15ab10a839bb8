package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"plantcare/pkg/apperr"
	"plantcare/pkg/carelog/service"
)

type CareLogCtrl struct{ s service.CareLogService }

func New(s service.CareLogService) *CareLogCtrl { return &CareLogCtrl{s} }

func (h *CareLogCtrl) List(c echo.Context) error {
	uid := c.Get("uid").(string)
	pid, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	out, err := h.s.List(c.Request().Context(), uid, uint(pid))
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"entries": out})
}

func (h *CareLogCtrl) Create(c echo.Context) error {
	uid := c.Get("uid").(string)
	pid, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var req service.NewEntry
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	e, err := h.s.Add(c.Request().Context(), uid, uint(pid), req)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}
