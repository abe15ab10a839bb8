package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	UserHeader = "X-User-ID"
	UserCookie = "uid"
	DevUser    = "dev-user"
)

// Identity resolves the caller from the X-User-ID header or the uid cookie
// and stores it under "uid". When required is false a missing identity
// falls back to the dev user; otherwise the request is rejected with 401.
func Identity(required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := strings.TrimSpace(c.Request().Header.Get(UserHeader))
			if uid == "" {
				if ck, err := c.Cookie(UserCookie); err == nil {
					uid = strings.TrimSpace(ck.Value)
				}
			}
			if uid == "" {
				if required {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing user identity"})
				}
				uid = DevUser
			}
			c.Set("uid", uid)
			return next(c)
		}
	}
}
