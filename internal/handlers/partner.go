package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/labstack/echo/v4"

	"github.com/vkhromov/retail_orders/internal/models"
	"github.com/vkhromov/retail_orders/internal/pricelist"
	"github.com/vkhromov/retail_orders/internal/repo"
	"github.com/vkhromov/retail_orders/internal/service/search"
	"github.com/vkhromov/retail_orders/internal/util"
)

type PartnerHandler struct {
	Repo      *repo.GormRepo
	ES        *elasticsearch.Client
	Index     string
	JWTSecret []byte
}

func (h *PartnerHandler) requireShopUser(c echo.Context) (*models.User, error) {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return nil, err
	}
	user, err := h.Repo.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if user.Type != models.UserTypeShop {
		return nil, echo.NewHTTPError(http.StatusForbidden, "only for shops")
	}
	return user, nil
}

// Update ingests a YAML price list, replacing the shop's catalog.
func (h *PartnerHandler) Update(c echo.Context) error {
	user, err := h.requireShopUser(c)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pl, err := pricelist.Parse(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	shop, imported, err := h.Repo.ImportPriceList(ctx, user.ID, pl)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.ES != nil {
		listings, err := h.Repo.ListingsByShop(ctx, shop.ID)
		if err == nil {
			err = search.IndexListings(ctx, h.ES, h.Index, listings)
		}
		if err != nil {
			c.Logger().Errorf("search index error: %v", err)
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":   "ok",
		"shop_id":  shop.ID,
		"imported": imported,
	})
}

func (h *PartnerHandler) GetState(c echo.Context) error {
	user, err := h.requireShopUser(c)
	if err != nil {
		return err
	}

	shop, err := h.Repo.GetShopByUser(c.Request().Context(), user.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, shop)
}

func (h *PartnerHandler) SetState(c echo.Context) error {
	user, err := h.requireShopUser(c)
	if err != nil {
		return err
	}

	var req struct {
		State bool `json:"state"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	shop, err := h.Repo.SetShopState(c.Request().Context(), user.ID, req.State)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, shop)
}

// GetOrders lists orders that include the partner shop's listings.
func (h *PartnerHandler) GetOrders(c echo.Context) error {
	user, err := h.requireShopUser(c)
	if err != nil {
		return err
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, total, err := h.Repo.ListShopOrders(c.Request().Context(), user.ID, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return paginated(c, orders, page, limit, offset, total)
}
