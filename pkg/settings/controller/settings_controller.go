package controller

import "github.com/labstack/echo/v4"

type SettingsController interface {
	TaskTypes(c echo.Context) error
	PutTaskTypes(c echo.Context) error
}
