package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"plantcare/pkg/ai"
	"plantcare/pkg/apperr"
	"plantcare/pkg/plant/service"
)

type PlantCtrl struct{ s service.PlantService }

func New(s service.PlantService) *PlantCtrl { return &PlantCtrl{s} }

// imageReq carries the photo inline; data is base64 in JSON.
type imageReq struct {
	MediaType string `json:"media_type"`
	Data      []byte `json:"data"`
}

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

func badJSON(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
}

func (h *PlantCtrl) Create(c echo.Context) error {
	uid := c.Get("uid").(string)
	var in service.NewPlant
	if err := c.Bind(&in); err != nil {
		return badJSON(c)
	}
	p, err := h.s.Create(c.Request().Context(), uid, in)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"plant": p})
}

func (h *PlantCtrl) Get(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	p, err := h.s.Get(c.Request().Context(), uid, id)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"plant": p, "is_owned": p.UserID == uid})
}

func (h *PlantCtrl) Update(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	var patch service.PlantPatch
	if err := c.Bind(&patch); err != nil {
		return badJSON(c)
	}
	p, err := h.s.Update(c.Request().Context(), uid, id, patch)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"plant": p})
}

func (h *PlantCtrl) Archive(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	var body struct {
		DeathReason string `json:"death_reason"`
	}
	if err := c.Bind(&body); err != nil {
		return badJSON(c)
	}
	p, err := h.s.Archive(c.Request().Context(), uid, id, body.DeathReason)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Plant archived", "archived_at": p.ArchivedAt})
}

func (h *PlantCtrl) ConfirmSpecies(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	var body struct {
		Species string `json:"species"`
	}
	if err := c.Bind(&body); err != nil {
		return badJSON(c)
	}
	p, err := h.s.ConfirmSpecies(c.Request().Context(), uid, id, body.Species)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"plant": p})
}

func (h *PlantCtrl) Identify(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	var body imageReq
	if err := c.Bind(&body); err != nil {
		return badJSON(c)
	}
	res, err := h.s.Identify(c.Request().Context(), uid, id, ai.Image{MediaType: body.MediaType, Data: body.Data})
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *PlantCtrl) HealthCheck(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, ok := idParam(c)
	if !ok {
		return badID(c)
	}
	var body imageReq
	if err := c.Bind(&body); err != nil {
		return badJSON(c)
	}
	res, err := h.s.HealthCheck(c.Request().Context(), uid, id, ai.Image{MediaType: body.MediaType, Data: body.Data})
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
