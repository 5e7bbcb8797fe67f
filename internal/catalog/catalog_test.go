package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

func TestLoad_DefaultCatalogIsConsistent(t *testing.T) {
	products, err := catalog.Load("")
	require.NoError(t, err)
	require.NotEmpty(t, products)

	for _, p := range products {
		assert.NoError(t, catalog.Validate(p), p.ID)
		assert.NotNil(t, p.Colors, p.ID)
		assert.NotNil(t, p.Features, p.ID)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := []byte(`
products:
  - id: p1
    name: Thing
    category: iPad
    originalPrice: 100
    discountedPrice: 75.00
    discount: 25
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	products, err := catalog.Load(path)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "75.00", products[0].DiscountedPrice.StringFixed(2))
	assert.Equal(t, []string{}, products[0].Colors)

	_, err = catalog.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_RejectsInconsistentProducts(t *testing.T) {
	cases := map[string]string{
		"discount mismatch": `
products:
  - {id: p1, name: A, category: iPad, originalPrice: "100", discountedPrice: "50", discount: 10}`,
		"discounted above original": `
products:
  - {id: p1, name: A, category: iPad, originalPrice: "10", discountedPrice: "20", discount: 0}`,
		"unknown category": `
products:
  - {id: p1, name: A, category: Toaster, originalPrice: "10", discountedPrice: "10", discount: 0}`,
		"duplicate id": `
products:
  - {id: p1, name: A, category: iPad, originalPrice: "10", discountedPrice: "10", discount: 0}
  - {id: p1, name: B, category: iPad, originalPrice: "10", discountedPrice: "10", discount: 0}`,
		"duplicate color": `
products:
  - {id: p1, name: A, category: iPad, originalPrice: "10", discountedPrice: "10", discount: 0, colors: [Red, Red]}`,
		"missing name": `
products:
  - {id: p1, category: iPad, originalPrice: "10", discountedPrice: "10", discount: 0}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestImpliedDiscount(t *testing.T) {
	d := decimal.RequireFromString
	assert.Equal(t, 50, catalog.ImpliedDiscount(d("1199.00"), d("599.00")))
	assert.Equal(t, 40, catalog.ImpliedDiscount(d("599.00"), d("359.40")))
	assert.Equal(t, 0, catalog.ImpliedDiscount(d("0"), d("0")))
	assert.Equal(t, 0, catalog.ImpliedDiscount(d("10"), d("10")))
}

func TestSeed(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	products := []models.Product{
		{ID: "a", Name: "A", Category: models.CategoryVR},
		{ID: "b", Name: "B", Category: models.CategoryVR},
	}
	require.NoError(t, catalog.Seed(repo, products))

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
