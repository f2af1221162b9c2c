package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vkhromov/retail_orders/internal/repo"
	"github.com/vkhromov/retail_orders/internal/util"
)

type CatalogHandler struct {
	Repo *repo.GormRepo
}

func paginated(c echo.Context, items any, page, limit, offset int, total int64) error {
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *CatalogHandler) GetCategories(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	categories, total, err := h.Repo.ListCategories(c.Request().Context(), offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return paginated(c, categories, page, limit, offset, total)
}

func (h *CatalogHandler) GetShops(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	shops, total, err := h.Repo.ListShops(c.Request().Context(), offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return paginated(c, shops, page, limit, offset, total)
}

func (h *CatalogHandler) GetListings(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	shopID := uint(parseIntDefault(c.QueryParam("shop_id"), 0))
	categoryID := uint(parseIntDefault(c.QueryParam("category_id"), 0))

	listings, total, err := h.Repo.ListListings(c.Request().Context(), shopID, categoryID, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return paginated(c, listings, page, limit, offset, total)
}

func (h *CatalogHandler) GetListing(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ctx := c.Request().Context()
	listing, err := h.Repo.GetListing(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	params, err := h.Repo.ListingParameters(ctx, listing.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"listing":    listing,
		"parameters": params,
	})
}
