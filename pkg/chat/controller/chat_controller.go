package controller

import "github.com/labstack/echo/v4"

type ChatController interface {
	Chat(c echo.Context) error
	ApplyAction(c echo.Context) error
}
