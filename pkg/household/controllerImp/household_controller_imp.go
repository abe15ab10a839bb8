package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"plantcare/pkg/apperr"
	"plantcare/pkg/household/service"
)

type HouseholdCtrl struct{ s service.HouseholdService }

func New(s service.HouseholdService) *HouseholdCtrl { return &HouseholdCtrl{s} }

func (h *HouseholdCtrl) Create(c echo.Context) error {
	uid := c.Get("uid").(string)
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	hh, err := h.s.Create(c.Request().Context(), uid, body.Name)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, hh)
}

func (h *HouseholdCtrl) AddMember(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var body struct {
		UserID string `json:"user_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	m, err := h.s.AddMember(c.Request().Context(), uid, uint(id), body.UserID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *HouseholdCtrl) SharePlant(c echo.Context) error {
	uid := c.Get("uid").(string)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var body struct {
		PlantID uint `json:"plant_id"`
	}
	if err := c.Bind(&body); err != nil || body.PlantID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "plant_id required"})
	}
	hp, err := h.s.SharePlant(c.Request().Context(), uid, uint(id), body.PlantID)
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, hp)
}
