// Package catalog loads the static product list and checks its pricing invariants.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// DiscountTolerance is how far a stored discount may drift from the price-implied one.
const DiscountTolerance = 1

type file struct {
	Products []entry `yaml:"products"`
}

type entry struct {
	ID              string          `yaml:"id"`
	Name            string          `yaml:"name"`
	Category        string          `yaml:"category"`
	Series          string          `yaml:"series"`
	OriginalPrice   decimal.Decimal `yaml:"originalPrice"`
	DiscountedPrice decimal.Decimal `yaml:"discountedPrice"`
	Discount        int             `yaml:"discount"`
	Description     string          `yaml:"description"`
	Features        []string        `yaml:"features"`
	Colors          []string        `yaml:"colors"`
	InStock         bool            `yaml:"inStock"`
	Image           string          `yaml:"image"`
}

// Load reads a catalog file. An empty path loads the catalog bundled with the binary.
func Load(path string) ([]models.Product, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog and validates every product.
func Parse(data []byte) ([]models.Product, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	products := make([]models.Product, 0, len(f.Products))
	seen := make(map[string]struct{}, len(f.Products))
	for i, e := range f.Products {
		p := models.Product{
			ID:              strings.TrimSpace(e.ID),
			Name:            strings.TrimSpace(e.Name),
			Category:        models.Category(e.Category),
			Series:          e.Series,
			OriginalPrice:   e.OriginalPrice,
			DiscountedPrice: e.DiscountedPrice,
			Discount:        e.Discount,
			Description:     e.Description,
			Features:        nonNil(e.Features),
			Colors:          nonNil(e.Colors),
			InStock:         e.InStock,
			Image:           e.Image,
		}
		if err := Validate(p); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate product id %q", i, p.ID)
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
	}
	return products, nil
}

// Validate checks the product invariants: identity, category, prices and the stored discount.
func Validate(p models.Product) error {
	if p.ID == "" {
		return fmt.Errorf("product id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("product %s: name is required", p.ID)
	}
	if !p.Category.IsValid() {
		return fmt.Errorf("product %s: unknown category %q", p.ID, p.Category)
	}
	if p.OriginalPrice.IsNegative() || p.DiscountedPrice.IsNegative() {
		return fmt.Errorf("product %s: prices must not be negative", p.ID)
	}
	if p.DiscountedPrice.GreaterThan(p.OriginalPrice) {
		return fmt.Errorf("product %s: discounted price %s exceeds original price %s",
			p.ID, p.DiscountedPrice.StringFixed(2), p.OriginalPrice.StringFixed(2))
	}
	implied := ImpliedDiscount(p.OriginalPrice, p.DiscountedPrice)
	if diff := p.Discount - implied; diff > DiscountTolerance || diff < -DiscountTolerance {
		return fmt.Errorf("product %s: discount %d%% does not match prices (expected about %d%%)",
			p.ID, p.Discount, implied)
	}
	colors := make(map[string]struct{}, len(p.Colors))
	for _, c := range p.Colors {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("product %s: empty color name", p.ID)
		}
		if _, dup := colors[c]; dup {
			return fmt.Errorf("product %s: duplicate color %q", p.ID, c)
		}
		colors[c] = struct{}{}
	}
	return nil
}

// ImpliedDiscount is round(100 * (1 - discounted/original)); zero when original is zero.
func ImpliedDiscount(original, discounted decimal.Decimal) int {
	if original.IsZero() {
		return 0
	}
	hundred := decimal.NewFromInt(100)
	pct := hundred.Sub(discounted.Mul(hundred).Div(original))
	return int(pct.Round(0).IntPart())
}

// Seed writes products into the repository.
func Seed(repo repositories.ProductRepository, products []models.Product) error {
	for i := range products {
		if err := repo.Upsert(&products[i]); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", products[i].ID, err)
		}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
