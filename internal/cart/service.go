package cart

import (
	"errors"
	"time"

	"github.com/velomart/storefront-backend/internal/pricing"
	"github.com/velomart/storefront-backend/internal/product"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductSource supplies pricing facts for lines being written. The cart
// never trusts a price sent by a client; it re-resolves at upsert time so
// the cart can never disagree with the product page.
type ProductSource interface {
	GetByID(id int) (product.Product, error)
	ListByIDs(ids []int) ([]product.Product, error)
}

// SyncItem is one entry of a bulk upsert (merge-on-login flows).
type SyncItem struct {
	ProductID int             `json:"productID"`
	Quantity  int             `json:"quantity"`
	Variants  []VariantOption `json:"variants,omitempty"`
}

// Service orchestrates the authoritative server cart. Upserts carry the
// absolute target quantity for a line identity: a quantity below 1 removes
// the line.
type Service struct {
	repo     Repository
	products ProductSource
	now      func() time.Time
}

func NewService(repo Repository, products ProductSource) *Service {
	return &Service{repo: repo, products: products, now: time.Now}
}

func (s *Service) Get(userID int) ([]Line, int, error) {
	if userID <= 0 {
		return nil, 0, ErrUserNotFound
	}
	items, err := s.repo.GetCart(userID)
	if err != nil {
		return nil, 0, err
	}
	return items, Total(items), nil
}

// Upsert sets the quantity for a line identity, creating the line (priced
// through the resolver) when absent and removing it when quantity < 1.
func (s *Service) Upsert(userID, productID, quantity int, variants []VariantOption) ([]Line, int, error) {
	if userID <= 0 {
		return nil, 0, ErrUserNotFound
	}
	if quantity < 1 {
		return s.Remove(userID, productID, variants)
	}

	items, err := s.repo.GetCart(userID)
	if err != nil {
		return nil, 0, err
	}

	p, err := s.products.GetByID(productID)
	if err != nil {
		if err == product.ErrNotFound {
			return nil, 0, ErrProductNotFound
		}
		return nil, 0, err
	}

	line := s.buildLine(p, quantity, variants)
	if i := FindLine(items, productID, variants); i >= 0 {
		items[i] = line
	} else {
		items = append(items, line)
	}

	if err := s.repo.SaveCart(userID, items, s.timestamp()); err != nil {
		return nil, 0, err
	}
	return items, Total(items), nil
}

// Sync bulk-upserts the given items, repricing every line. Used by the
// external merge-on-login collaborator; entries for unknown products are
// skipped rather than failing the whole batch.
func (s *Service) Sync(userID int, reqs []SyncItem) ([]Line, int, error) {
	if userID <= 0 {
		return nil, 0, ErrUserNotFound
	}

	items, err := s.repo.GetCart(userID)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.ProductID)
	}
	products, err := s.products.ListByIDs(ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[int]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, req := range reqs {
		if req.Quantity < 1 {
			items = RemoveLine(items, req.ProductID, req.Variants)
			continue
		}
		p, ok := byID[req.ProductID]
		if !ok {
			continue
		}
		line := s.buildLine(p, req.Quantity, req.Variants)
		if i := FindLine(items, req.ProductID, req.Variants); i >= 0 {
			items[i] = line
		} else {
			items = append(items, line)
		}
	}

	if err := s.repo.SaveCart(userID, items, s.timestamp()); err != nil {
		return nil, 0, err
	}
	return items, Total(items), nil
}

func (s *Service) Remove(userID, productID int, variants []VariantOption) ([]Line, int, error) {
	if userID <= 0 {
		return nil, 0, ErrUserNotFound
	}
	items, err := s.repo.GetCart(userID)
	if err != nil {
		return nil, 0, err
	}

	items = RemoveLine(items, productID, variants)
	if err := s.repo.SaveCart(userID, items, s.timestamp()); err != nil {
		return nil, 0, err
	}
	return items, Total(items), nil
}

func (s *Service) Clear(userID int) error {
	if userID <= 0 {
		return ErrUserNotFound
	}
	return s.repo.ClearCart(userID, s.timestamp())
}

func (s *Service) buildLine(p product.Product, quantity int, variants []VariantOption) Line {
	res := pricing.Resolve(p.PricingFacts(), s.now())
	return Line{
		ProductID:     p.ID,
		ProductName:   p.Name,
		UnitPrice:     res.FinalPrice,
		OriginalPrice: res.OriginalPrice,
		Quantity:      quantity,
		Variants:      variants,
		FlashDeal:     res.FlashActive,
		FlashEndsAt:   flashEnd(res),
		SpecialOffer:  res.SpecialActive,
		SpecialEndsAt: specialEnd(res),
		CampaignLabel: res.CampaignLabel,
	}
}

func (s *Service) timestamp() string {
	return s.now().Format(time.RFC3339)
}

func flashEnd(res pricing.Result) string {
	if res.FlashActive {
		return res.EndsAt
	}
	return ""
}

func specialEnd(res pricing.Result) string {
	if res.SpecialActive {
		return res.EndsAt
	}
	return ""
}
