package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"plantcare/pkg/apperr"
	"plantcare/pkg/task/service"
)

type TaskCtrl struct{ s service.TaskService }

func New(s service.TaskService) *TaskCtrl { return &TaskCtrl{s} }

func idParam(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func badID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
}

func (h *TaskCtrl) Today(c echo.Context) error {
	uid := c.Get("uid").(string)
	out, err := h.s.Today(c.Request().Context(), uid)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"tasks": out})
}

func (h *TaskCtrl) Upcoming(c echo.Context) error {
	uid := c.Get("uid").(string)
	days, _ := strconv.Atoi(c.QueryParam("days"))
	out, err := h.s.Upcoming(c.Request().Context(), uid, days)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"tasks": out})
}

func (h *TaskCtrl) ForPlant(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	out, err := h.s.ForPlant(c.Request().Context(), uid, id)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"tasks": out})
}

func (h *TaskCtrl) Complete(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	var body struct {
		Notes string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	res, err := h.s.Complete(c.Request().Context(), uid, id, body.Notes)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *TaskCtrl) Skip(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	res, err := h.s.Skip(c.Request().Context(), uid, id, body.Reason)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *TaskCtrl) BulkComplete(c echo.Context) error {
	uid := c.Get("uid").(string)
	var body struct {
		TaskIDs []uint `json:"task_ids"`
		Notes   string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	res, err := h.s.BulkComplete(c.Request().Context(), uid, body.TaskIDs, body.Notes)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *TaskCtrl) AdjustSchedule(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	adj, err := h.s.SuggestAdjustment(c.Request().Context(), uid, id, body.Reason)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, adj)
}

func (h *TaskCtrl) ApplyAdjustment(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	var body struct {
		Reason      string `json:"reason"`
		NewInterval int    `json:"new_interval"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	res, err := h.s.ApplyScheduleChange(c.Request().Context(), uid, id, body.NewInterval, body.Reason)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
