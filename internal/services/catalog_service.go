package services

import (
	"fmt"
	"sort"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// Sort orders understood by CatalogService.List.
const (
	SortName      = "name"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortDiscount  = "discount"
)

// ListOptions filters and orders the product listing. Zero values mean no filter.
type ListOptions struct {
	Category string
	Series   string
	Query    string
	Sort     string
}

// CategorySummary is one category with the number of products in it.
type CategorySummary struct {
	Category models.Category `json:"category"`
	Count    int             `json:"count"`
}

// CatalogService handles read access to the product catalog.
type CatalogService struct {
	repo repositories.ProductRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.ProductRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// List returns the products matching opts.
func (s *CatalogService) List(opts ListOptions) ([]models.Product, error) {
	less, err := sorter(opts.Sort)
	if err != nil {
		return nil, err
	}

	all, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(opts.Query))
	out := make([]models.Product, 0, len(all))
	for _, p := range all {
		if opts.Category != "" && !strings.EqualFold(string(p.Category), opts.Category) {
			continue
		}
		if opts.Series != "" && !strings.EqualFold(p.Series, opts.Series) {
			continue
		}
		if query != "" && !matches(p, query) {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

// Get returns a single product.
func (s *CatalogService) Get(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// Categories returns the non-empty categories in display order.
func (s *CatalogService) Categories() ([]CategorySummary, error) {
	all, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	counts := make(map[models.Category]int)
	for _, p := range all {
		counts[p.Category]++
	}
	out := make([]CategorySummary, 0, len(counts))
	for _, c := range models.Categories {
		if n := counts[c]; n > 0 {
			out = append(out, CategorySummary{Category: c, Count: n})
		}
	}
	return out, nil
}

func matches(p models.Product, query string) bool {
	for _, field := range []string{p.Name, p.Description, p.Series, string(p.Category)} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func sorter(order string) (func(a, b models.Product) bool, error) {
	switch order {
	case "", SortName:
		return func(a, b models.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }, nil
	case SortPriceLow:
		return func(a, b models.Product) bool { return a.DiscountedPrice.LessThan(b.DiscountedPrice) }, nil
	case SortPriceHigh:
		return func(a, b models.Product) bool { return a.DiscountedPrice.GreaterThan(b.DiscountedPrice) }, nil
	case SortDiscount:
		return func(a, b models.Product) bool { return a.Discount > b.Discount }, nil
	default:
		return nil, newValidationError("sort", "oneof", fmt.Sprintf("Unknown sort order '%s'.", order))
	}
}
