package controller

import "github.com/labstack/echo/v4"

type RecommendController interface {
	ForTask(c echo.Context) error
}
