package cart

import (
	"errors"
	"sync"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

// Repository stores the authoritative per-user cart. A cart is created lazily
// on first write and persists until explicitly cleared. Read-modify-write is
// best effort: there is no locking across concurrent sessions.
type Repository interface {
	GetCart(userID int) ([]Line, error)
	SaveCart(userID int, items []Line, updatedAt string) error
	ClearCart(userID int, updatedAt string) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[int][]Line
	known map[int]bool
}

func NewInMemoryRepository(userIDs []int) *InMemoryRepository {
	known := make(map[int]bool, len(userIDs))
	for _, id := range userIDs {
		known[id] = true
	}
	return &InMemoryRepository{carts: make(map[int][]Line), known: known}
}

func (r *InMemoryRepository) GetCart(userID int) ([]Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.known[userID] {
		return nil, ErrUserNotFound
	}
	return CloneLines(r.carts[userID]), nil
}

func (r *InMemoryRepository) SaveCart(userID int, items []Line, updatedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.known[userID] {
		return ErrUserNotFound
	}
	r.carts[userID] = CloneLines(items)
	return nil
}

func (r *InMemoryRepository) ClearCart(userID int, updatedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.known[userID] {
		return ErrUserNotFound
	}
	r.carts[userID] = nil
	return nil
}
