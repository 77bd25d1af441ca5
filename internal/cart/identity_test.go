package cart

import "testing"

func TestSameVariants_OrderIndependent(t *testing.T) {
	a := []VariantOption{{Name: "color", Value: "red"}, {Name: "size", Value: "M"}}
	b := []VariantOption{{Name: "size", Value: "M"}, {Name: "color", Value: "red"}}
	if !SameVariants(a, b) {
		t.Fatalf("expected variant sets to match regardless of order")
	}
}

func TestSameVariants_LengthMismatch(t *testing.T) {
	a := []VariantOption{{Name: "color", Value: "red"}}
	b := []VariantOption{{Name: "color", Value: "red"}, {Name: "size", Value: "M"}}
	if SameVariants(a, b) {
		t.Fatalf("sets of different length must not match")
	}
}

func TestSameVariants_ValueMismatch(t *testing.T) {
	a := []VariantOption{{Name: "color", Value: "red"}}
	b := []VariantOption{{Name: "color", Value: "blue"}}
	if SameVariants(a, b) {
		t.Fatalf("different values must not match")
	}
}

// Duplicate pairs on one side must not be absorbed by a single matching pair
// on the other, in either direction.
func TestSameVariants_DuplicatePairs(t *testing.T) {
	doubled := []VariantOption{{Name: "color", Value: "red"}, {Name: "color", Value: "red"}}
	mixed := []VariantOption{{Name: "color", Value: "red"}, {Name: "size", Value: "M"}}
	if SameVariants(doubled, mixed) {
		t.Fatalf("duplicated pair must not cover two distinct pairs")
	}
	if SameVariants(mixed, doubled) {
		t.Fatalf("predicate must be symmetric")
	}
	if !SameVariants(doubled, []VariantOption{{Name: "color", Value: "red"}, {Name: "color", Value: "red"}}) {
		t.Fatalf("identical multisets must match")
	}
}

func TestSameVariants_Empty(t *testing.T) {
	if !SameVariants(nil, nil) {
		t.Fatalf("two empty sets must match")
	}
	if !SameVariants(nil, []VariantOption{}) {
		t.Fatalf("nil and empty slice must match")
	}
}

func TestMergeLine_SumsQuantity(t *testing.T) {
	red := []VariantOption{{Name: "color", Value: "red"}}
	items := []Line{{ProductID: 1, Quantity: 1, UnitPrice: 100, Variants: red}}

	items = MergeLine(items, Line{ProductID: 1, Quantity: 2, UnitPrice: 90, Variants: red})
	if len(items) != 1 {
		t.Fatalf("expected single merged line, got %d", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", items[0].Quantity)
	}
	// the merge refreshes the pricing snapshot from the incoming line
	if items[0].UnitPrice != 90 {
		t.Fatalf("expected refreshed unit price 90, got %d", items[0].UnitPrice)
	}
}

func TestMergeLine_DifferentVariantsAppend(t *testing.T) {
	items := []Line{{ProductID: 1, Quantity: 1, Variants: []VariantOption{{Name: "color", Value: "red"}}}}
	items = MergeLine(items, Line{ProductID: 1, Quantity: 1, Variants: []VariantOption{{Name: "color", Value: "blue"}}})
	if len(items) != 2 {
		t.Fatalf("expected two lines for different variants, got %d", len(items))
	}
}

func TestRemoveLine(t *testing.T) {
	red := []VariantOption{{Name: "color", Value: "red"}}
	blue := []VariantOption{{Name: "color", Value: "blue"}}
	items := []Line{
		{ProductID: 1, Quantity: 1, Variants: red},
		{ProductID: 1, Quantity: 1, Variants: blue},
	}

	items = RemoveLine(items, 1, []VariantOption{{Name: "color", Value: "red"}})
	if len(items) != 1 {
		t.Fatalf("expected one line after removal, got %d", len(items))
	}
	if !SameVariants(items[0].Variants, blue) {
		t.Fatalf("wrong line removed: %+v", items[0])
	}

	// removing a missing identity is a no-op
	items = RemoveLine(items, 9, nil)
	if len(items) != 1 {
		t.Fatalf("remove of missing identity must not change items")
	}
}

func TestTotal(t *testing.T) {
	items := []Line{
		{ProductID: 1, UnitPrice: 100, Quantity: 2},
		{ProductID: 2, UnitPrice: 250, Quantity: 1},
	}
	if got := Total(items); got != 450 {
		t.Fatalf("expected total 450, got %d", got)
	}
}
