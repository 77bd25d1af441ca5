package pricing

import (
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func inFuture(d time.Duration) string {
	return testNow.Add(d).Format(time.RFC3339)
}

func TestResolve_PlainDiscount(t *testing.T) {
	res := Resolve(Facts{BasePrice: 100000, DiscountPercent: 20}, testNow)
	if res.FinalPrice != 80000 {
		t.Fatalf("expected final 80000, got %d", res.FinalPrice)
	}
	if res.OriginalPrice == nil || *res.OriginalPrice != 100000 {
		t.Fatalf("expected original 100000, got %v", res.OriginalPrice)
	}
	if res.DiscountPercent != 20 {
		t.Fatalf("expected discount 20, got %d", res.DiscountPercent)
	}
	if res.FlashActive || res.SpecialActive {
		t.Fatalf("no campaign should be active: %+v", res)
	}
}

func TestResolve_FlashDeal(t *testing.T) {
	f := Facts{
		BasePrice:       100000,
		DiscountPercent: 20,
		FlashDeal:       true,
		FlashEndsAt:     inFuture(time.Hour),
		CampaignLabel:   "midnight",
	}
	res := Resolve(f, testNow)
	if !res.FlashActive || res.SpecialActive {
		t.Fatalf("expected flash only, got %+v", res)
	}
	if res.FinalPrice != 80000 {
		t.Fatalf("expected final 80000, got %d", res.FinalPrice)
	}
	if res.EndsAt != f.FlashEndsAt {
		t.Fatalf("expected winning end time %q, got %q", f.FlashEndsAt, res.EndsAt)
	}
	if res.CampaignLabel != "midnight" {
		t.Fatalf("expected label kept, got %q", res.CampaignLabel)
	}
}

// Dirty data can set both flags; special offer must win and flash must be
// forced false with its end time dropped.
func TestResolve_SpecialBeatsFlash(t *testing.T) {
	f := Facts{
		BasePrice:       5000,
		DiscountPercent: 10,
		FlashDeal:       true,
		FlashEndsAt:     inFuture(2 * time.Hour),
		SpecialOffer:    true,
		SpecialEndsAt:   inFuture(time.Hour),
	}
	res := Resolve(f, testNow)
	if !res.SpecialActive {
		t.Fatalf("expected special active, got %+v", res)
	}
	if res.FlashActive {
		t.Fatalf("flash must be forced false when special wins")
	}
	if res.EndsAt != f.SpecialEndsAt {
		t.Fatalf("expected special end time, got %q", res.EndsAt)
	}
}

func TestResolve_ExpiryBoundary(t *testing.T) {
	// end exactly equal to now is inactive: strict greater-than
	f := Facts{
		BasePrice:   1000,
		FlashDeal:   true,
		FlashEndsAt: testNow.Format(time.RFC3339),
	}
	res := Resolve(f, testNow)
	if res.FlashActive {
		t.Fatalf("campaign ending exactly now must be inactive")
	}
}

func TestResolve_InvalidTimestamp(t *testing.T) {
	f := Facts{
		BasePrice:       1000,
		DiscountPercent: 5,
		FlashDeal:       true,
		FlashEndsAt:     "not-a-timestamp",
	}
	res := Resolve(f, testNow)
	if res.FlashActive {
		t.Fatalf("unparseable end time must read as inactive")
	}
	if res.FinalPrice != 950 {
		t.Fatalf("expected plain discount fallback 950, got %d", res.FinalPrice)
	}
}

func TestResolve_CompareAtFallback(t *testing.T) {
	compare := 1250
	res := Resolve(Facts{BasePrice: 1000, CompareAtPrice: &compare}, testNow)
	if res.FinalPrice != 1000 {
		t.Fatalf("expected base price, got %d", res.FinalPrice)
	}
	if res.OriginalPrice == nil || *res.OriginalPrice != 1250 {
		t.Fatalf("expected original 1250, got %v", res.OriginalPrice)
	}
	if res.DiscountPercent != 20 {
		t.Fatalf("expected derived discount 20, got %d", res.DiscountPercent)
	}
}

// A discount so small that rounding leaves the price untouched must not
// advertise itself: no original price, no discount percent.
func TestResolve_DiscountRoundsToNothing(t *testing.T) {
	res := Resolve(Facts{BasePrice: 10, DiscountPercent: 2}, testNow)
	if res.FinalPrice != 10 {
		t.Fatalf("expected final 10, got %d", res.FinalPrice)
	}
	if res.OriginalPrice != nil {
		t.Fatalf("original price must be absent when it equals final, got %v", *res.OriginalPrice)
	}
	if res.DiscountPercent != 0 {
		t.Fatalf("no discount is in effect, got %d", res.DiscountPercent)
	}
}

func TestResolve_NoPromotion(t *testing.T) {
	res := Resolve(Facts{BasePrice: 4990}, testNow)
	if res.FinalPrice != 4990 || res.OriginalPrice != nil || res.DiscountPercent != 0 {
		t.Fatalf("expected untouched price, got %+v", res)
	}
}

func TestResolve_Rounding(t *testing.T) {
	// 999 * 0.85 = 849.15 -> 849; 999 * 0.665 would not occur, but 33% of 999
	// is 669.33 -> 669
	res := Resolve(Facts{BasePrice: 999, DiscountPercent: 15}, testNow)
	if res.FinalPrice != 849 {
		t.Fatalf("expected 849, got %d", res.FinalPrice)
	}
	res = Resolve(Facts{BasePrice: 999, DiscountPercent: 33}, testNow)
	if res.FinalPrice != 669 {
		t.Fatalf("expected 669, got %d", res.FinalPrice)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	f := Facts{
		BasePrice:       123456,
		DiscountPercent: 7,
		SpecialOffer:    true,
		SpecialEndsAt:   inFuture(30 * time.Minute),
		CampaignLabel:   "eid",
	}
	a := Resolve(f, testNow)
	b := Resolve(f, testNow)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("resolver not deterministic: %+v vs %+v", a, b)
	}
}
