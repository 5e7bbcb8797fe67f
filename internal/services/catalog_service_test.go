package services_test

import (
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, name string, cat models.Category, price string, discount int, colors ...string) models.Product {
	return models.Product{
		ID:              id,
		Name:            name,
		Category:        cat,
		DiscountedPrice: decimal.RequireFromString(price),
		OriginalPrice:   decimal.RequireFromString(price).Mul(decimal.NewFromInt(2)),
		Discount:        discount,
		Colors:          colors,
		InStock:         true,
	}
}

func seededProducts(t *testing.T) *repositories.MockProductRepository {
	repo := repositories.NewMockProductRepository()
	for _, p := range []models.Product{
		product("iphone-15", "iPhone 15", models.CategoryIPhone, "599", 50, "Black", "Blue"),
		product("iphone-15-pro", "iPhone 15 Pro", models.CategoryIPhone, "699", 42, "Natural Titanium"),
		product("airpods-pro", "AirPods Pro", models.CategoryAirPods, "129", 48),
		product("case", "Silicone Case", models.CategoryAccessories, "30", 40, "Black"),
	} {
		p := p
		require.NoError(t, repo.Upsert(&p))
	}
	return repo
}

func ids(ps []models.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestCatalogService_List(t *testing.T) {
	svc := services.NewCatalogService(seededProducts(t))

	all, err := svc.List(services.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"airpods-pro", "iphone-15", "iphone-15-pro", "case"}, ids(all))

	phones, err := svc.List(services.ListOptions{Category: "iphone"})
	require.NoError(t, err)
	assert.Equal(t, []string{"iphone-15", "iphone-15-pro"}, ids(phones))

	cheap, err := svc.List(services.ListOptions{Sort: services.SortPriceLow})
	require.NoError(t, err)
	assert.Equal(t, []string{"case", "airpods-pro", "iphone-15", "iphone-15-pro"}, ids(cheap))

	pricey, err := svc.List(services.ListOptions{Sort: services.SortPriceHigh})
	require.NoError(t, err)
	assert.Equal(t, "iphone-15-pro", pricey[0].ID)

	deals, err := svc.List(services.ListOptions{Sort: services.SortDiscount})
	require.NoError(t, err)
	assert.Equal(t, "iphone-15", deals[0].ID)

	found, err := svc.List(services.ListOptions{Query: "  PRO "})
	require.NoError(t, err)
	assert.Equal(t, []string{"airpods-pro", "iphone-15-pro"}, ids(found))
}

func TestCatalogService_List_UnknownSort(t *testing.T) {
	svc := services.NewCatalogService(seededProducts(t))
	_, err := svc.List(services.ListOptions{Sort: "random"})
	ve, ok := apperrors.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "sort", ve.Field)
}

func TestCatalogService_GetAndCategories(t *testing.T) {
	svc := services.NewCatalogService(seededProducts(t))

	p, err := svc.Get("airpods-pro")
	require.NoError(t, err)
	assert.Equal(t, "AirPods Pro", p.Name)

	_, err = svc.Get("nope")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	cats, err := svc.Categories()
	require.NoError(t, err)
	assert.Equal(t, []services.CategorySummary{
		{Category: models.CategoryIPhone, Count: 2},
		{Category: models.CategoryAirPods, Count: 1},
		{Category: models.CategoryAccessories, Count: 1},
	}, cats)
}
