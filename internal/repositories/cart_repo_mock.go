package repositories

import (
	"sync"
	"time"

	"storefront/internal/cart"
)

type sessionCart struct {
	mu      sync.Mutex
	store   *cart.Store
	touched time.Time
	// dropped is set, under mu, once the cart has left the map.
	dropped bool
}

// MemoryCartRepository is an in-memory, session-scoped implementation of CartRepository.
type MemoryCartRepository struct {
	carts map[string]*sessionCart
	mu    sync.RWMutex
	now   func() time.Time
}

// NewMemoryCartRepository creates a new instance of MemoryCartRepository.
func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{
		carts: make(map[string]*sessionCart),
		now:   time.Now,
	}
}

// Update runs fn with the session's cart locked.
func (r *MemoryCartRepository) Update(sessionID string, fn func(*cart.Store) error) error {
	for {
		if done, err := r.tryUpdate(r.getOrCreate(sessionID), fn); done {
			return err
		}
	}
}

// tryUpdate applies fn unless sc was pruned or deleted between lookup and lock.
func (r *MemoryCartRepository) tryUpdate(sc *sessionCart, fn func(*cart.Store) error) (bool, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.dropped {
		return false, nil
	}
	sc.touched = r.now()
	return true, fn(sc.store)
}

// View runs fn with the session's cart locked, or with an empty cart if none exists.
func (r *MemoryCartRepository) View(sessionID string, fn func(*cart.Store) error) error {
	r.mu.RLock()
	sc, ok := r.carts[sessionID]
	r.mu.RUnlock()
	if !ok {
		return fn(cart.New())
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.dropped {
		return fn(cart.New())
	}
	sc.touched = r.now()
	return fn(sc.store)
}

// Delete forgets the session's cart.
func (r *MemoryCartRepository) Delete(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sc, ok := r.carts[sessionID]
	if !ok {
		return
	}
	sc.mu.Lock()
	r.drop(sessionID, sc)
	sc.mu.Unlock()
}

// Prune drops carts idle since before and returns how many were dropped.
func (r *MemoryCartRepository) Prune(before time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, sc := range r.carts {
		sc.mu.Lock()
		if sc.touched.Before(before) {
			r.drop(id, sc)
			n++
		}
		sc.mu.Unlock()
	}
	return n
}

// drop removes sc from the map. Callers hold r.mu and sc.mu.
func (r *MemoryCartRepository) drop(sessionID string, sc *sessionCart) {
	delete(r.carts, sessionID)
	sc.dropped = true
}

func (r *MemoryCartRepository) getOrCreate(sessionID string) *sessionCart {
	r.mu.RLock()
	sc, ok := r.carts[sessionID]
	r.mu.RUnlock()
	if ok {
		return sc
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if sc, ok = r.carts[sessionID]; ok {
		return sc
	}
	sc = &sessionCart{store: cart.New(), touched: r.now()}
	r.carts[sessionID] = sc
	return sc
}
