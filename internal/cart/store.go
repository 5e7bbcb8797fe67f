// Package cart holds the shopping cart state machine for a single browser session.
//
// A Store is not safe for concurrent use; callers serialize access per session.
package cart

import (
	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// Store is an ordered collection of line items with derived totals.
type Store struct {
	items     []models.CartLineItem
	itemCount int
	total     decimal.Decimal
}

// New returns an empty cart.
func New() *Store {
	return &Store{total: decimal.Zero}
}

// AddItem adds one unit of product in the given color and returns the line key.
// An existing line with the same key is incremented, otherwise a new line is appended.
// When no color is given for a product that has colors, the first color is selected.
func (s *Store) AddItem(product models.Product, selectedColor string) string {
	if selectedColor == "" && len(product.Colors) > 0 {
		selectedColor = product.Colors[0]
	}
	key := models.LineKey(product.ID, selectedColor)

	if i := s.indexOf(key); i >= 0 {
		s.items[i].Quantity++
	} else {
		s.items = append(s.items, models.CartLineItem{
			Key:           key,
			Product:       product.Clone(),
			SelectedColor: selectedColor,
			Quantity:      1,
		})
	}
	s.recompute()
	return key
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less removes it.
func (s *Store) UpdateQuantity(key string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(key)
		return
	}
	i := s.indexOf(key)
	if i < 0 {
		return
	}
	s.items[i].Quantity = quantity
	s.recompute()
}

// RemoveItem deletes the line with the given key, if present.
func (s *Store) RemoveItem(key string) {
	i := s.indexOf(key)
	if i < 0 {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.recompute()
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.items = nil
	s.recompute()
}

// Deduct subtracts the quantities of lines from the matching lines of the
// cart, removing those that reach zero. Lines not in the cart are ignored.
func (s *Store) Deduct(lines []models.CartLineItem) {
	for _, l := range lines {
		i := s.indexOf(l.Key)
		if i < 0 {
			continue
		}
		s.items[i].Quantity -= l.Quantity
		if s.items[i].Quantity <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
	}
	s.recompute()
}

// Has reports whether a line with key exists.
func (s *Store) Has(key string) bool {
	return s.indexOf(key) >= 0
}

// Len is the number of distinct lines.
func (s *Store) Len() int {
	return len(s.items)
}

// ItemCount is the sum of all quantities.
func (s *Store) ItemCount() int {
	return s.itemCount
}

// Total is the sum of all line totals.
func (s *Store) Total() decimal.Decimal {
	return s.total
}

// Items returns a deep copy of the lines in insertion order.
func (s *Store) Items() []models.CartLineItem {
	out := make([]models.CartLineItem, len(s.items))
	for i, it := range s.items {
		out[i] = it.Clone()
	}
	return out
}

// Snapshot returns a detached copy of the cart state.
func (s *Store) Snapshot() models.CartSnapshot {
	return models.CartSnapshot{
		Items:     s.Items(),
		ItemCount: s.itemCount,
		Total:     s.total,
	}
}

func (s *Store) indexOf(key string) int {
	for i := range s.items {
		if s.items[i].Key == key {
			return i
		}
	}
	return -1
}

func (s *Store) recompute() {
	count := 0
	total := decimal.Zero
	for _, it := range s.items {
		count += it.Quantity
		total = total.Add(it.LineTotal())
	}
	s.itemCount = count
	s.total = total
}
