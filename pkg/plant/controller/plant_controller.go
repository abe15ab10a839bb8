package controller

import "github.com/labstack/echo/v4"

type PlantController interface {
	Create(c echo.Context) error
	Get(c echo.Context) error
	Update(c echo.Context) error
	Archive(c echo.Context) error
	ConfirmSpecies(c echo.Context) error
	Identify(c echo.Context) error
	HealthCheck(c echo.Context) error
}
