package product

import (
	"time"

	"github.com/velomart/storefront-backend/internal/pricing"
)

// Service serves storefront product reads with resolved pricing attached.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List() []StorefrontProduct {
	now := s.now()
	products := s.repo.List()
	out := make([]StorefrontProduct, 0, len(products))
	for _, p := range products {
		out = append(out, StorefrontProduct{Product: p, Pricing: pricing.Resolve(p.PricingFacts(), now)})
	}
	return out
}

func (s *Service) GetByID(id int) (StorefrontProduct, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return StorefrontProduct{}, err
	}
	return StorefrontProduct{Product: p, Pricing: pricing.Resolve(p.PricingFacts(), s.now())}, nil
}
