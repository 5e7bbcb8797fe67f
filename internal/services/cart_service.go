package services

import (
	"fmt"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// MaxAddQuantity caps how many units a single add request may carry.
const MaxAddQuantity = 99

// CartService applies cart mutations for a browser session.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// Get returns the session's cart.
func (s *CartService) Get(sessionID string) (models.CartSnapshot, error) {
	var snap models.CartSnapshot
	err := s.carts.View(sessionID, func(st *cart.Store) error {
		snap = st.Snapshot()
		return nil
	})
	return snap, err
}

// AddItem adds quantity units of a product variant. A zero quantity adds one unit.
func (s *CartService) AddItem(sessionID, productID, color string, quantity int) (models.CartSnapshot, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 || quantity > MaxAddQuantity {
		return models.CartSnapshot{}, newValidationError("quantity", "range",
			fmt.Sprintf("Quantity must be between 1 and %d.", MaxAddQuantity))
	}

	product, err := s.products.GetByID(productID)
	if err != nil {
		return models.CartSnapshot{}, err
	}
	if color != "" && !product.HasColor(color) {
		return models.CartSnapshot{}, newValidationError("selectedColor", "oneof",
			fmt.Sprintf("%s is not available in %s.", product.Name, color))
	}

	var snap models.CartSnapshot
	err = s.carts.Update(sessionID, func(st *cart.Store) error {
		for i := 0; i < quantity; i++ {
			st.AddItem(*product, color)
		}
		snap = st.Snapshot()
		return nil
	})
	return snap, err
}

// UpdateQuantity sets the quantity of a line item. Zero or less removes it.
func (s *CartService) UpdateQuantity(sessionID, key string, quantity int) (models.CartSnapshot, error) {
	return s.mutate(sessionID, func(st *cart.Store) { st.UpdateQuantity(key, quantity) })
}

// RemoveItem deletes a line item.
func (s *CartService) RemoveItem(sessionID, key string) (models.CartSnapshot, error) {
	return s.mutate(sessionID, func(st *cart.Store) { st.RemoveItem(key) })
}

// Clear empties the cart.
func (s *CartService) Clear(sessionID string) (models.CartSnapshot, error) {
	return s.mutate(sessionID, func(st *cart.Store) { st.Clear() })
}

func (s *CartService) mutate(sessionID string, fn func(*cart.Store)) (models.CartSnapshot, error) {
	var snap models.CartSnapshot
	err := s.carts.Update(sessionID, func(st *cart.Store) error {
		fn(st)
		snap = st.Snapshot()
		return nil
	})
	return snap, err
}
