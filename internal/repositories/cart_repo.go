package repositories

import (
	"time"

	"storefront/internal/cart"
)

// CartRepository keeps one cart per browser session.
type CartRepository interface {
	// Update runs fn against the session's cart, creating an empty cart if needed.
	// Calls for the same session never overlap.
	Update(sessionID string, fn func(*cart.Store) error) error
	// View runs fn against the session's cart without creating one.
	// A session without a cart is presented as an empty cart.
	View(sessionID string, fn func(*cart.Store) error) error
	Delete(sessionID string)
	// Prune drops carts that have not been updated or viewed since before.
	Prune(before time.Time) int
}
