package controllerImp

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"plantcare/pkg/ai"
	"plantcare/pkg/apperr"
	"plantcare/pkg/chat/service"
)

type ChatCtrl struct{ s service.ChatService }

func New(s service.ChatService) *ChatCtrl { return &ChatCtrl{s} }

func plantID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// Chat accepts either a single message or the running conversation.
func (h *ChatCtrl) Chat(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, ok := plantID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var body struct {
		Message string       `json:"message"`
		History []ai.Message `json:"history"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	msgs := body.History
	if body.Message != "" {
		msgs = append(msgs, ai.Message{Role: "user", Content: body.Message})
	}
	out, err := h.s.Chat(c.Request().Context(), uid, id, msgs)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChatCtrl) ApplyAction(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, ok := plantID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var body struct {
		Action json.RawMessage `json:"action"`
	}
	if err := c.Bind(&body); err != nil || len(body.Action) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid action"})
	}
	action, err := ai.DecodeAction(body.Action)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	out, err := h.s.ApplyAction(c.Request().Context(), uid, id, action)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
