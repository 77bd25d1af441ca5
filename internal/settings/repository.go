package settings

import (
	"errors"
	"sync"
)

var (
	ErrNotFound = errors.New("setting not found")
)

type Repository interface {
	GetCartConfig() (CartConfig, error)
	SaveCartConfig(cfg CartConfig) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	cfg    *CartConfig
	broken bool
}

func NewInMemoryRepository(cfg *CartConfig) *InMemoryRepository {
	return &InMemoryRepository{cfg: cfg}
}

// Break makes every call fail, for exercising fallback paths in tests.
func (r *InMemoryRepository) Break() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broken = true
}

func (r *InMemoryRepository) GetCartConfig() (CartConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.broken {
		return CartConfig{}, errors.New("settings store unavailable")
	}
	if r.cfg == nil {
		return CartConfig{}, ErrNotFound
	}
	return *r.cfg, nil
}

func (r *InMemoryRepository) SaveCartConfig(cfg CartConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.broken {
		return errors.New("settings store unavailable")
	}
	r.cfg = &cfg
	return nil
}
