package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vkhromov/retail_orders/internal/models"
	"github.com/vkhromov/retail_orders/internal/repo"
)

type ContactHandler struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

func (h *ContactHandler) GetContacts(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	contacts, err := h.Repo.ListContacts(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, contacts)
}

func (h *ContactHandler) CreateContact(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	var req struct {
		City      string `json:"city"`
		Street    string `json:"street"`
		House     string `json:"house"`
		Structure string `json:"structure"`
		Building  string `json:"building"`
		Apartment string `json:"apartment"`
		Phone     string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	contact := models.Contact{
		UserID:    userID,
		City:      req.City,
		Street:    req.Street,
		House:     req.House,
		Structure: req.Structure,
		Building:  req.Building,
		Apartment: req.Apartment,
		Phone:     req.Phone,
	}
	if err := h.Repo.CreateContact(c.Request().Context(), &contact); err != nil {
		if errors.Is(err, repo.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) UpdateContact(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req map[string]any
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	updates := map[string]any{}
	for _, field := range []string{"city", "street", "house", "structure", "building", "apartment", "phone"} {
		if v, ok := req[field]; ok {
			updates[field] = v
		}
	}

	contact, err := h.Repo.UpdateContact(c.Request().Context(), userID, uint(id), updates)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) DeleteContact(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Repo.DeleteContact(c.Request().Context(), userID, uint(id)); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
}
