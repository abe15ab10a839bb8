package controller

import "github.com/labstack/echo/v4"

type CarePlanController interface {
	Get(c echo.Context) error
	Regenerate(c echo.Context) error
}
