package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CartLineItem is one product variant in the cart together with its quantity.
type CartLineItem struct {
	Key           string  `json:"key"`
	Product       Product `json:"product"`
	SelectedColor string  `json:"selectedColor,omitempty"`
	Quantity      int     `json:"quantity"`
}

// LineTotal is the discounted price times the quantity.
func (li CartLineItem) LineTotal() decimal.Decimal {
	return li.Product.DiscountedPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Clone returns a copy of the line item that shares no slices with the original.
func (li CartLineItem) Clone() CartLineItem {
	out := li
	out.Product = li.Product.Clone()
	return out
}

// LineKey composes the identity of a line item. Two colors of one product are distinct lines.
func LineKey(productID, color string) string {
	if color == "" {
		return productID
	}
	return productID + "-" + strings.Join(strings.Fields(strings.ToLower(color)), "-")
}

// CartSnapshot is a detached view of a cart at one point in time.
type CartSnapshot struct {
	Items     []CartLineItem  `json:"items"`
	ItemCount int             `json:"itemCount"`
	Total     decimal.Decimal `json:"total"`
}

// IsEmpty reports whether the snapshot has no line items.
func (s CartSnapshot) IsEmpty() bool {
	return len(s.Items) == 0
}
