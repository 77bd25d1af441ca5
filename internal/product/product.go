package product

import "github.com/velomart/storefront-backend/internal/pricing"

// Product represents a storefront product and maps to the `public.products`
// table. JSON tags follow the camelCase convention used elsewhere in the
// project. Campaign end times are stored as RFC3339 strings.
type Product struct {
	ID              int     `json:"productID"`
	Name            string  `json:"productName"`
	Price           int     `json:"productPrice"`
	DiscountPercent int     `json:"discountPercent,omitempty"`
	CompareAtPrice  *int    `json:"compareAtPrice,omitempty"`
	FlashDeal       bool    `json:"flashDeal,omitempty"`
	FlashEndsAt     string  `json:"flashEndsAt,omitempty"`
	SpecialOffer    bool    `json:"specialOffer,omitempty"`
	SpecialEndsAt   string  `json:"specialEndsAt,omitempty"`
	CampaignLabel   string  `json:"campaignLabel,omitempty"`
	Description     string  `json:"productDesc,omitempty"`
	Category        *string `json:"category,omitempty"`
	Pic             *string `json:"productPic,omitempty"`
	CreatedAt       *string `json:"createdAt,omitempty"`
	UpdatedAt       *string `json:"updatedAt,omitempty"`
}

// PricingFacts exposes the product's immutable pricing inputs for the
// resolver.
func (p Product) PricingFacts() pricing.Facts {
	return pricing.Facts{
		BasePrice:       p.Price,
		DiscountPercent: p.DiscountPercent,
		CompareAtPrice:  p.CompareAtPrice,
		FlashDeal:       p.FlashDeal,
		FlashEndsAt:     p.FlashEndsAt,
		SpecialOffer:    p.SpecialOffer,
		SpecialEndsAt:   p.SpecialEndsAt,
		CampaignLabel:   p.CampaignLabel,
	}
}

// StorefrontProduct is the read shape served to the storefront: the raw
// product plus the one resolved pricing answer the UI is allowed to show.
type StorefrontProduct struct {
	Product
	Pricing pricing.Result `json:"pricing"`
}
