package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"plantcare/pkg/apperr"
	"plantcare/pkg/settings/service"
)

type SettingsCtrl struct{ s service.SettingsService }

func New(s service.SettingsService) *SettingsCtrl { return &SettingsCtrl{s} }

func (h *SettingsCtrl) TaskTypes(c echo.Context) error {
	uid := c.Get("uid").(string)
	out, err := h.s.TaskTypes(c.Request().Context(), uid)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"task_types": out})
}

func (h *SettingsCtrl) PutTaskTypes(c echo.Context) error {
	uid := c.Get("uid").(string)
	var body struct {
		Disabled []string `json:"disabled"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	out, err := h.s.SetDisabled(c.Request().Context(), uid, body.Disabled)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"task_types": out})
}
