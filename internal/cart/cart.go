package cart

// VariantOption is one (name, value) selection on a cart line, e.g.
// color=red. Order of options on a line is presentational only and never
// part of the line's identity.
type VariantOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Line is one purchasable entry in a cart. Unit and original prices are
// captured at resolution time; the campaign fields are copies kept so a live
// countdown can render without re-fetching the product.
type Line struct {
	ProductID     int             `json:"productID"`
	ProductName   string          `json:"productName"`
	UnitPrice     int             `json:"unitPrice"`
	OriginalPrice *int            `json:"originalPrice,omitempty"`
	Quantity      int             `json:"quantity"`
	Variants      []VariantOption `json:"variants,omitempty"`
	FlashDeal     bool            `json:"flashDeal,omitempty"`
	FlashEndsAt   string          `json:"flashEndsAt,omitempty"`
	SpecialOffer  bool            `json:"specialOffer,omitempty"`
	SpecialEndsAt string          `json:"specialEndsAt,omitempty"`
	CampaignLabel string          `json:"campaignLabel,omitempty"`
}

// SameVariants reports whether two variant-option sets describe the same
// selections regardless of order. This predicate is the single source of
// truth for line identity; guest and authenticated paths must both go
// through it.
func SameVariants(a, b []VariantOption) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[VariantOption]int, len(a))
	for _, opt := range a {
		counts[opt]++
	}
	for _, opt := range b {
		counts[opt]--
		if counts[opt] < 0 {
			return false
		}
	}
	return true
}

// Matches reports whether the line represents the same purchasable thing as
// (productID, variants).
func (l Line) Matches(productID int, variants []VariantOption) bool {
	return l.ProductID == productID && SameVariants(l.Variants, variants)
}

// FindLine returns the index of the line matching the identity, or -1.
func FindLine(items []Line, productID int, variants []VariantOption) int {
	for i, l := range items {
		if l.Matches(productID, variants) {
			return i
		}
	}
	return -1
}

// MergeLine folds a line into items: an existing line with the same identity
// has its quantity summed and its pricing snapshot refreshed from the
// incoming line; otherwise the line is appended. Never produces duplicates.
func MergeLine(items []Line, line Line) []Line {
	if i := FindLine(items, line.ProductID, line.Variants); i >= 0 {
		qty := items[i].Quantity + line.Quantity
		items[i] = line
		items[i].Quantity = qty
		return items
	}
	return append(items, line)
}

// RemoveLine drops the line matching the identity, if present.
func RemoveLine(items []Line, productID int, variants []VariantOption) []Line {
	if i := FindLine(items, productID, variants); i >= 0 {
		return append(items[:i], items[i+1:]...)
	}
	return items
}

// Total is the aggregate price of all lines.
func Total(items []Line) int {
	sum := 0
	for _, l := range items {
		sum += l.UnitPrice * l.Quantity
	}
	return sum
}

// CloneLines deep-copies a line slice so snapshots are safe against later
// in-place merges.
func CloneLines(items []Line) []Line {
	out := make([]Line, len(items))
	copy(out, items)
	for i := range out {
		if len(out[i].Variants) > 0 {
			variants := make([]VariantOption, len(out[i].Variants))
			copy(variants, out[i].Variants)
			out[i].Variants = variants
		}
		if out[i].OriginalPrice != nil {
			v := *out[i].OriginalPrice
			out[i].OriginalPrice = &v
		}
	}
	return out
}

// Data is the payload half of the cart API envelope.
type Data struct {
	Items      []Line `json:"items"`
	TotalPrice int    `json:"totalPrice"`
}

// Envelope is the response shape shared by every cart endpoint. A response
// with Success false (or a transport error) is the only failure signal
// clients recognize.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *Data  `json:"data,omitempty"`
}
