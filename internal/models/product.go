package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products on the shop page.
type Category string

const (
	CategoryIPhone      Category = "iPhone"
	CategoryIPad        Category = "iPad"
	CategoryAirPods     Category = "AirPods"
	CategoryVR          Category = "VR"
	CategoryAppleWatch  Category = "Apple Watch"
	CategoryMacBook     Category = "MacBook"
	CategoryAccessories Category = "Accessories"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryIPhone,
	CategoryIPad,
	CategoryAirPods,
	CategoryVR,
	CategoryAppleWatch,
	CategoryMacBook,
	CategoryAccessories,
}

// IsValid checks if the category is one of the known categories.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product represents a catalog entry. Products are read-only once the catalog is loaded.
type Product struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name            string          `json:"name" gorm:"type:varchar(200);not null"`
	Category        Category        `json:"category" gorm:"type:varchar(50);index"`
	Series          string          `json:"series,omitempty" gorm:"type:varchar(100)"`
	OriginalPrice   decimal.Decimal `json:"originalPrice" gorm:"type:decimal(10,2)"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice" gorm:"type:decimal(10,2)"`
	Discount        int             `json:"discount"`
	Description     string          `json:"description" gorm:"type:text"`
	Features        []string        `json:"features" gorm:"serializer:json;type:text"`
	Colors          []string        `json:"colors" gorm:"serializer:json;type:text"`
	InStock         bool            `json:"inStock"`
	Image           string          `json:"image"`
	CreatedAt       time.Time       `json:"-"`
	UpdatedAt       time.Time       `json:"-"`
}

// HasColor reports whether color is one of the product's variants.
func (p Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so that slices are not shared with the catalog.
func (p Product) Clone() Product {
	out := p
	if p.Features != nil {
		out.Features = append([]string(nil), p.Features...)
	}
	if p.Colors != nil {
		out.Colors = append([]string(nil), p.Colors...)
	}
	return out
}
