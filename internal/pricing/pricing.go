package pricing

import (
	"math"
	"time"
)

// Facts are the immutable pricing inputs read off a product. End timestamps
// are kept as RFC3339 strings because that is how they arrive from storage;
// anything unparseable simply means the campaign is not active.
type Facts struct {
	BasePrice       int
	DiscountPercent int
	CompareAtPrice  *int
	FlashDeal       bool
	FlashEndsAt     string
	SpecialOffer    bool
	SpecialEndsAt   string
	CampaignLabel   string
}

// Result is the single authoritative pricing answer for a product. Downstream
// code must display and store this, never recompute its own price.
// At most one of FlashActive/SpecialActive is ever true.
type Result struct {
	FinalPrice      int    `json:"finalPrice"`
	OriginalPrice   *int   `json:"originalPrice,omitempty"`
	DiscountPercent int    `json:"discountPercent,omitempty"`
	FlashActive     bool   `json:"flashActive,omitempty"`
	SpecialActive   bool   `json:"specialActive,omitempty"`
	EndsAt          string `json:"endsAt,omitempty"`
	CampaignLabel   string `json:"campaignLabel,omitempty"`
}

// Resolve computes the displayed price for the given facts at the given
// instant. It is total: bad data never produces an error, only a price.
//
// Precedence when stored flags conflict: special offer beats flash deal,
// flash deal beats a plain discount, plain discount beats compare-at-only.
// The losing campaign's flag is forced false and its end time dropped so a
// caller can never render two countdowns for one product.
func Resolve(f Facts, now time.Time) Result {
	flashActive := campaignActive(f.FlashDeal, f.FlashEndsAt, now)
	specialActive := campaignActive(f.SpecialOffer, f.SpecialEndsAt, now)

	switch {
	case specialActive:
		res := discounted(f)
		res.SpecialActive = true
		res.EndsAt = f.SpecialEndsAt
		res.CampaignLabel = f.CampaignLabel
		return res
	case flashActive:
		res := discounted(f)
		res.FlashActive = true
		res.EndsAt = f.FlashEndsAt
		res.CampaignLabel = f.CampaignLabel
		return res
	default:
		return discounted(f)
	}
}

// campaignActive applies the strict end > now test. An end time exactly equal
// to now counts as expired.
func campaignActive(flag bool, endsAt string, now time.Time) bool {
	if !flag || endsAt == "" {
		return false
	}
	end, err := time.Parse(time.RFC3339, endsAt)
	if err != nil {
		return false
	}
	return end.After(now)
}

// discounted computes the price cut without any campaign flags: stored
// discount percent first, compare-at difference second, base price last.
func discounted(f Facts) Result {
	if f.DiscountPercent > 0 {
		base := f.BasePrice
		final := percentOff(base, f.DiscountPercent)
		if final == base {
			// Rounding ate the whole discount, so nothing is in effect.
			return Result{FinalPrice: base}
		}
		return Result{
			FinalPrice:      final,
			OriginalPrice:   &base,
			DiscountPercent: f.DiscountPercent,
		}
	}
	if f.CompareAtPrice != nil && *f.CompareAtPrice != f.BasePrice {
		compare := *f.CompareAtPrice
		return Result{
			FinalPrice:      f.BasePrice,
			OriginalPrice:   &compare,
			DiscountPercent: percentDiff(compare, f.BasePrice),
		}
	}
	return Result{FinalPrice: f.BasePrice}
}

// percentOff reduces price by pct percent, rounded to the nearest whole
// currency unit.
func percentOff(price, pct int) int {
	return int(math.Round(float64(price) * float64(100-pct) / 100))
}

// percentDiff is the discount implied by selling at price against compare.
func percentDiff(compare, price int) int {
	if compare == 0 {
		return 0
	}
	return int(math.Round(float64(compare-price) / float64(compare) * 100))
}
