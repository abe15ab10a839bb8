package controller

import "github.com/labstack/echo/v4"

type TaskController interface {
	Today(c echo.Context) error
	Upcoming(c echo.Context) error
	ForPlant(c echo.Context) error
	Complete(c echo.Context) error
	Skip(c echo.Context) error
	BulkComplete(c echo.Context) error
	AdjustSchedule(c echo.Context) error
	ApplyAdjustment(c echo.Context) error
}
