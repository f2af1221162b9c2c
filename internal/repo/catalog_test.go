package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkhromov/retail_orders/internal/models"
	"github.com/vkhromov/retail_orders/internal/pricelist"
)

func samplePriceList() *pricelist.PriceList {
	return &pricelist.PriceList{
		Shop: "Связной",
		Categories: []pricelist.Category{
			{ID: 224, Name: "Смартфоны"},
			{ID: 15, Name: "Аксессуары"},
		},
		Goods: []pricelist.Good{
			{
				ID:       4216292,
				Category: 224,
				Model:    "apple/iphone/xs-max",
				Name:     "Смартфон Apple iPhone XS Max 512GB (золотистый)",
				Price:    110000,
				PriceRRC: 116990,
				Quantity: 14,
				Parameters: map[string]string{
					"Диагональ (дюйм)": "6.5",
					"Цвет":             "золотистый",
				},
			},
			{
				ID:       728294,
				Category: 15,
				Name:     "Чехол для iPhone XS Max",
				Price:    1500,
				PriceRRC: 1990,
				Quantity: 50,
			},
		},
	}
}

func createShopUser(t *testing.T, r *GormRepo, email string) *models.User {
	t.Helper()
	user, err := r.CreateUser(context.Background(), CreateUserParams{
		Email:    email,
		Password: "secret",
		Type:     models.UserTypeShop,
	})
	require.NoError(t, err)
	return user
}

func TestImportPriceList(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := createShopUser(t, r, "shop@example.com")

	shop, imported, err := r.ImportPriceList(ctx, user.ID, samplePriceList())
	require.NoError(t, err)
	assert.Equal(t, "Связной", shop.Name)
	assert.Equal(t, 2, imported)

	listings, err := r.ListingsByShop(ctx, shop.ID)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	var phone models.ProductInfo
	for _, l := range listings {
		if l.ExternalID == 4216292 {
			phone = l
		}
	}
	require.NotZero(t, phone.ID)
	assert.Equal(t, uint(110000), phone.Price)
	assert.Equal(t, uint(116990), phone.PriceRRC)
	assert.Equal(t, uint(14), phone.Quantity)

	params, err := r.ListingParameters(ctx, phone.ID)
	require.NoError(t, err)
	assert.Len(t, params, 2)

	categories, total, err := r.ListCategories(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, categories, 2)
}

func TestImportPriceList_ReplacesPreviousListings(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := createShopUser(t, r, "shop@example.com")

	_, _, err := r.ImportPriceList(ctx, user.ID, samplePriceList())
	require.NoError(t, err)

	next := &pricelist.PriceList{
		Shop:       "Связной",
		Categories: []pricelist.Category{{ID: 224, Name: "Смартфоны"}},
		Goods: []pricelist.Good{
			{
				ID:       999001,
				Category: 224,
				Name:     "Смартфон Apple iPhone 11 64GB",
				Price:    55000,
				PriceRRC: 59990,
				Quantity: 3,
			},
		},
	}

	shop, imported, err := r.ImportPriceList(ctx, user.ID, next)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	listings, err := r.ListingsByShop(ctx, shop.ID)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.EqualValues(t, 999001, listings[0].ExternalID)

	// Parameters of the dropped listings must be gone too.
	var paramCount int64
	require.NoError(t, r.DB.Model(&models.ProductParameter{}).Count(&paramCount).Error)
	assert.EqualValues(t, 0, paramCount)
}

func TestListingUniqueOnProductShopExternalID(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := createShopUser(t, r, "shop@example.com")

	shop, _, err := r.ImportPriceList(ctx, user.ID, samplePriceList())
	require.NoError(t, err)

	listings, err := r.ListingsByShop(ctx, shop.ID)
	require.NoError(t, err)
	require.NotEmpty(t, listings)

	dup := models.ProductInfo{
		ExternalID: listings[0].ExternalID,
		Name:       listings[0].Name,
		ShopID:     listings[0].ShopID,
		ProductID:  listings[0].ProductID,
		Quantity:   1,
		Price:      1,
		PriceRRC:   1,
	}
	require.Error(t, r.DB.Create(&dup).Error)
}

func TestProductParameterUniquePerListing(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := createShopUser(t, r, "shop@example.com")

	shop, _, err := r.ImportPriceList(ctx, user.ID, samplePriceList())
	require.NoError(t, err)

	listings, err := r.ListingsByShop(ctx, shop.ID)
	require.NoError(t, err)

	var phone models.ProductInfo
	for _, l := range listings {
		if l.ExternalID == 4216292 {
			phone = l
		}
	}
	params, err := r.ListingParameters(ctx, phone.ID)
	require.NoError(t, err)
	require.NotEmpty(t, params)

	dup := models.ProductParameter{
		ProductInfoID: params[0].ProductInfoID,
		ParameterID:   params[0].ParameterID,
		Value:         "другое значение",
	}
	require.Error(t, r.DB.Create(&dup).Error)
}

func TestListListings_Filters(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := createShopUser(t, r, "shop@example.com")

	shop, _, err := r.ImportPriceList(ctx, user.ID, samplePriceList())
	require.NoError(t, err)

	var category models.Category
	require.NoError(t, r.DB.Where("name = ?", "Смартфоны").First(&category).Error)

	listings, total, err := r.ListListings(ctx, 0, category.ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, listings, 1)
	assert.EqualValues(t, 4216292, listings[0].ExternalID)

	// A disabled shop disappears from the public catalog.
	_, err = r.SetShopState(ctx, user.ID, false)
	require.NoError(t, err)

	_, total, err = r.ListListings(ctx, shop.ID, 0, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}
