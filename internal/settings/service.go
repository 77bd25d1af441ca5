package settings

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/velomart/storefront-backend/internal/cache"
)

const cacheKey = "settings:cart"
const cacheTTL = 5 * time.Minute

// Service reads and updates the cart policy, fronted by a short-lived cache
// so every storefront request does not hit the settings table.
type Service struct {
	repo  Repository
	cache cache.Cache
}

func NewService(repo Repository, c cache.Cache) *Service {
	if c == nil {
		c = cache.NewInMemoryCache()
	}
	return &Service{repo: repo, cache: c}
}

// GetCartConfig returns the stored policy, or the default when nothing is
// stored. Storage errors degrade to the default as well: settings must never
// block cart usage.
func (s *Service) GetCartConfig(ctx context.Context) CartConfig {
	if b, err := s.cache.Get(ctx, cacheKey); err == nil {
		var cfg CartConfig
		if err := json.Unmarshal(b, &cfg); err == nil {
			return cfg
		}
	}

	cfg, err := s.repo.GetCartConfig()
	if err != nil {
		if err != ErrNotFound {
			log.Printf("settings: cart config read failed, using defaults: %v", err)
		}
		return DefaultCartConfig()
	}

	if b, err := json.Marshal(cfg); err == nil {
		if err := s.cache.Set(ctx, cacheKey, b, cacheTTL); err != nil {
			log.Printf("settings: cache write failed: %v", err)
		}
	}
	return cfg
}

// UpdateCartConfig stores a new policy and drops the cached copy.
func (s *Service) UpdateCartConfig(ctx context.Context, cfg CartConfig) error {
	if cfg.CartExpirationDays < 0 {
		cfg.CartExpirationDays = 0
	}
	if err := s.repo.SaveCartConfig(cfg); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		log.Printf("settings: cache invalidation failed: %v", err)
	}
	return nil
}
