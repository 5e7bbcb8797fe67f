package repositories

import (
	"storefront/internal/models"
)

// ProductRepository defines the interface for catalog data access.
// The catalog is read-only at runtime; Upsert exists for seeding at startup.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Upsert(product *models.Product) error
}
