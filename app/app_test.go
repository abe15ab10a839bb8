package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantcare/config"
	"plantcare/pkg/ai"
	"plantcare/pkg/testutil"
)

type client struct {
	t *testing.T
	e *echo.Echo
}

func (c client) do(method, path, uid, body string) (int, map[string]any) {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if uid != "" {
		req.Header.Set("X-User-ID", uid)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	out := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func newClient(t *testing.T, cfg config.AppConfig) client {
	a := New(cfg, testutil.OpenDB(t), ai.NewMock(), testutil.FixedClock("2024-06-03"))
	return client{t: t, e: a.Echo()}
}

func TestPlantLifecycleOverHTTP(t *testing.T) {
	c := newClient(t, config.AppConfig{RequireUser: true})

	code, body := c.do(http.MethodPost, "/plants", "ana", `{"name":"Monty","pot_size":"large"}`)
	require.Equal(t, http.StatusCreated, code, body)
	plantID := int(body["plant"].(map[string]any)["id"].(float64))

	code, body = c.do(http.MethodGet, fmt.Sprintf("/plants/%d/care-plan", plantID), "ana", "")
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "fallback", body["care_plan"].(map[string]any)["source"])
	assert.Len(t, body["tasks"], 3)

	code, body = c.do(http.MethodGet, "/tasks/today", "ana", "")
	require.Equal(t, http.StatusOK, code)
	tasks := body["tasks"].([]any)
	require.Len(t, tasks, 1)
	task := tasks[0].(map[string]any)
	assert.Equal(t, "water", task["task_type"])
	assert.Equal(t, "Monty", task["plant_name"])
	taskID := int(task["id"].(float64))

	code, body = c.do(http.MethodPost, fmt.Sprintf("/tasks/%d/complete", taskID), "ana", `{"notes":"deep soak"}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "2024-06-08", body["next_task"].(map[string]any)["due_date"])

	code, body = c.do(http.MethodPost, fmt.Sprintf("/tasks/%d/complete", taskID), "ana", `{}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, body["error"], "already completed")

	code, _ = c.do(http.MethodPost, fmt.Sprintf("/tasks/%d/skip", taskID), "bea", `{}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = c.do(http.MethodGet, fmt.Sprintf("/tasks/%d/recommendations", taskID), "ana", "")
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "500-750ml", body["recommendations"].(map[string]any)["amount"])

	code, body = c.do(http.MethodGet, fmt.Sprintf("/plants/%d/care-log", plantID), "ana", "")
	require.Equal(t, http.StatusOK, code, body)
}

func TestIdentityIsRequired(t *testing.T) {
	c := newClient(t, config.AppConfig{RequireUser: true})

	code, body := c.do(http.MethodGet, "/tasks/today", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "missing user identity", body["error"])

	code, _ = c.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = c.do(http.MethodGet, "/plants/abc", "ana", "")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = c.do(http.MethodPost, "/plants", "ana", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDevUserFallback(t *testing.T) {
	c := newClient(t, config.AppConfig{})

	code, body := c.do(http.MethodGet, "/whoami", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, fmt.Sprint(body), "dev-user")
}
