package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vkhromov/retail_orders/internal/mykafka"
	"github.com/vkhromov/retail_orders/internal/notify"
	"github.com/vkhromov/retail_orders/internal/repo"
	"github.com/vkhromov/retail_orders/internal/util"
)

type OrderHandler struct {
	Repo      *repo.GormRepo
	Producer  *mykafka.Producer
	JWTSecret []byte
}

func (h *OrderHandler) GetBasket(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	basket, err := h.Repo.GetOrCreateBasket(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	items, err := h.Repo.ListOrderItems(ctx, basket.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"order": basket,
		"items": items,
	})
}

func (h *OrderHandler) AddToBasket(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	var req struct {
		ProductInfoID uint `json:"product_info_id"`
		Quantity      uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	ctx := c.Request().Context()
	if _, err := h.Repo.GetListing(ctx, req.ProductInfoID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	basket, err := h.Repo.GetOrCreateBasket(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	item, err := h.Repo.AddOrderItem(ctx, basket.ID, req.ProductInfoID, req.Quantity)
	if err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return echo.NewHTTPError(http.StatusConflict, "listing already in order")
		}
		if errors.Is(err, repo.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, item)
}

func (h *OrderHandler) DeleteBasketItem(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ctx := c.Request().Context()
	basket, err := h.Repo.GetOrCreateBasket(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.Repo.DeleteOrderItem(ctx, basket.ID, uint(id)); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
}

// Confirm attaches a delivery contact, marks the order confirmed and
// enqueues the status notice for the worker.
func (h *OrderHandler) Confirm(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	var req struct {
		ID        uint `json:"id"`
		ContactID uint `json:"contact_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	order, err := h.Repo.ConfirmOrder(c.Request().Context(), userID, req.ID, req.ContactID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publishTask(c, h.Producer, notify.TopicOrderEvents, notify.Task{
		Type:   notify.TaskNewOrder,
		UserID: userID,
	})

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, total, err := h.Repo.ListOrders(c.Request().Context(), userID, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return paginated(c, orders, page, limit, offset, total)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ctx := c.Request().Context()
	order, err := h.Repo.GetOrder(ctx, userID, uint(id))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	items, err := h.Repo.ListOrderItems(ctx, order.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"order": order,
		"items": items,
	})
}

// SetStatus writes a new status and enqueues the notice for the order
// owner. Any known status is accepted regardless of the current one.
func (h *OrderHandler) SetStatus(c echo.Context) error {
	if _, err := GetID(c, h.JWTSecret); err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	order, err := h.Repo.SetOrderStatus(c.Request().Context(), uint(id), req.Status)
	if err != nil {
		if errors.Is(err, repo.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publishTask(c, h.Producer, notify.TopicOrderEvents, notify.Task{
		Type:   notify.TaskNewOrder,
		UserID: order.UserID,
	})

	return c.JSON(http.StatusOK, order)
}
