package controller

import "github.com/labstack/echo/v4"

type HouseholdController interface {
	Create(c echo.Context) error
	AddMember(c echo.Context) error
	SharePlant(c echo.Context) error
}
