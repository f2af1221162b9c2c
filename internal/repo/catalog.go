package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vkhromov/retail_orders/internal/models"
	"github.com/vkhromov/retail_orders/internal/pricelist"
)

func (r *GormRepo) ListCategories(ctx context.Context, offset, limit int) ([]models.Category, int64, error) {
	db := r.DB.WithContext(ctx).Model(&models.Category{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var categories []models.Category
	if err := db.Order("name ASC").Offset(offset).Limit(limit).Find(&categories).Error; err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

// ListShops returns shops currently accepting orders.
func (r *GormRepo) ListShops(ctx context.Context, offset, limit int) ([]models.Shop, int64, error) {
	db := r.DB.WithContext(ctx).Model(&models.Shop{}).Where("state = ?", true)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var shops []models.Shop
	if err := db.Order("name ASC").Offset(offset).Limit(limit).Find(&shops).Error; err != nil {
		return nil, 0, err
	}
	return shops, total, nil
}

func (r *GormRepo) GetShopByUser(ctx context.Context, userID uint) (*models.Shop, error) {
	var shop models.Shop
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: shop for user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	return &shop, nil
}

// SetShopState toggles whether the shop accepts orders.
func (r *GormRepo) SetShopState(ctx context.Context, userID uint, state bool) (*models.Shop, error) {
	shop, err := r.GetShopByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Model(shop).Update("state", state).Error; err != nil {
		return nil, err
	}
	shop.State = state
	return shop, nil
}

// ListListings returns listings from orderable shops, optionally narrowed
// to one shop or one category.
func (r *GormRepo) ListListings(ctx context.Context, shopID, categoryID uint, offset, limit int) ([]models.ProductInfo, int64, error) {
	db := r.DB.WithContext(ctx).Model(&models.ProductInfo{}).
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Where("shops.state = ?", true)

	if shopID != 0 {
		db = db.Where("product_infos.shop_id = ?", shopID)
	}
	if categoryID != 0 {
		db = db.Joins("JOIN products ON products.id = product_infos.product_id").
			Where("products.category_id = ?", categoryID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var listings []models.ProductInfo
	if err := db.Order("product_infos.id ASC").Offset(offset).Limit(limit).Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// ListingsByShop returns every listing of one shop regardless of the
// shop's orderable state.
func (r *GormRepo) ListingsByShop(ctx context.Context, shopID uint) ([]models.ProductInfo, error) {
	var listings []models.ProductInfo
	if err := r.DB.WithContext(ctx).Where("shop_id = ?", shopID).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *GormRepo) GetListing(ctx context.Context, id uint) (*models.ProductInfo, error) {
	var listing models.ProductInfo
	if err := r.DB.WithContext(ctx).First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: listing %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &listing, nil
}

func (r *GormRepo) ListingParameters(ctx context.Context, listingID uint) ([]models.ProductParameter, error) {
	var params []models.ProductParameter
	if err := r.DB.WithContext(ctx).
		Where("product_info_id = ?", listingID).
		Preload("Parameter").
		Find(&params).Error; err != nil {
		return nil, err
	}
	return params, nil
}

// ImportPriceList replaces the shop's previous listings with the uploaded
// price list. Categories, products and parameters are get-or-created by
// name; the shop itself is get-or-created for the uploading user.
func (r *GormRepo) ImportPriceList(ctx context.Context, userID uint, pl *pricelist.PriceList) (*models.Shop, int, error) {
	db := r.DB.WithContext(ctx)

	var shop models.Shop
	err := db.Where("user_id = ?", userID).First(&shop).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		shop = models.Shop{Name: pl.Shop, UserID: &userID}
		if err := db.Create(&shop).Error; err != nil {
			return nil, 0, err
		}
	case err != nil:
		return nil, 0, err
	default:
		if shop.Name != pl.Shop {
			if err := db.Model(&shop).Update("name", pl.Shop).Error; err != nil {
				return nil, 0, err
			}
			shop.Name = pl.Shop
		}
	}

	categoriesByExternalID := make(map[uint]*models.Category, len(pl.Categories))
	for _, c := range pl.Categories {
		category := models.Category{Name: c.Name}
		if err := db.Where("name = ?", c.Name).FirstOrCreate(&category).Error; err != nil {
			return nil, 0, err
		}
		if err := db.Model(&category).Association("Shops").Append(&shop); err != nil {
			return nil, 0, err
		}
		categoriesByExternalID[c.ID] = &category
	}

	// Drop the previous import before writing the new one.
	if err := db.Where(
		"product_info_id IN (?)",
		db.Session(&gorm.Session{NewDB: true}).Model(&models.ProductInfo{}).Select("id").Where("shop_id = ?", shop.ID),
	).Delete(&models.ProductParameter{}).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Where("shop_id = ?", shop.ID).Delete(&models.ProductInfo{}).Error; err != nil {
		return nil, 0, err
	}

	imported := 0
	for _, good := range pl.Goods {
		category := categoriesByExternalID[good.Category]

		product := models.Product{Name: good.Name, CategoryID: &category.ID}
		if err := db.Where("name = ? AND category_id = ?", good.Name, category.ID).
			FirstOrCreate(&product).Error; err != nil {
			return nil, 0, err
		}

		listing := models.ProductInfo{
			ExternalID: good.ID,
			Name:       good.Name,
			ShopID:     shop.ID,
			ProductID:  product.ID,
			Quantity:   good.Quantity,
			Price:      good.Price,
			PriceRRC:   good.PriceRRC,
		}
		if err := db.Create(&listing).Error; err != nil {
			return nil, 0, err
		}

		for name, value := range good.Parameters {
			parameter := models.Parameter{Name: name}
			if err := db.Where("name = ?", name).FirstOrCreate(&parameter).Error; err != nil {
				return nil, 0, err
			}
			pp := models.ProductParameter{
				ProductInfoID: listing.ID,
				ParameterID:   parameter.ID,
				Value:         value,
			}
			if err := db.Create(&pp).Error; err != nil {
				return nil, 0, err
			}
		}
		imported++
	}

	return &shop, imported, nil
}
