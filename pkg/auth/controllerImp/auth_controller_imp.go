package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"plantcare/pkg/auth/controller"
	"plantcare/pkg/middleware"
)

type authCtrl struct {
	enabled bool
}

// NewAuthController exposes DevLogin only when identities are not required.
func NewAuthController(requireUser bool) controller.AuthController {
	return &authCtrl{enabled: !requireUser}
}

func (h *authCtrl) DevLogin(c echo.Context) error {
	if !h.enabled {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
	uid := c.QueryParam("uid")
	if uid == "" {
		uid = middleware.DevUser
	}
	c.SetCookie(&http.Cookie{Name: middleware.UserCookie, Value: uid, Path: "/", HttpOnly: true})
	return c.JSON(http.StatusOK, map[string]string{"uid": uid})
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	return c.JSON(http.StatusOK, map[string]string{"uid": uid})
}
