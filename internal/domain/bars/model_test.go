package bars

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Spok95/poolscreen/internal/domain/catalog"
)

func material(t *testing.T, name string) catalog.MaterialType {
	t.Helper()
	m, err := catalog.MustDefault().Require(name)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestCostIsLengthTimesUnitPrice(t *testing.T) {
	for _, m := range catalog.MustDefault().Selectable() {
		for _, l := range []float64{0, 0.5, 3, 12.25, 100} {
			b, err := New(m, l)
			if err != nil {
				t.Fatalf("New(%s, %v): %v", m.Name, l, err)
			}
			want := decimal.NewFromFloat(l).Mul(decimal.NewFromFloat(m.CostPerUnit))
			if !b.Cost().Equal(want) {
				t.Fatalf("%s x %v: cost %s, want %s", m.Name, l, b.Cost(), want)
			}
			if l == 0 && !b.Cost().IsZero() {
				t.Fatalf("zero length must cost zero, got %s", b.Cost())
			}
		}
	}
}

func TestCostScenario(t *testing.T) {
	b, err := New(material(t, "2X4"), 3.0)
	if err != nil {
		t.Fatal(err)
	}
	if got := b.Cost().StringFixed(2); got != "4.74" {
		t.Fatalf("cost = %s, want 4.74", got)
	}
}

func TestNewRejects(t *testing.T) {
	if _, err := New(catalog.Sentinel(), 1); !errors.Is(err, catalog.ErrNoMaterialSelected) {
		t.Fatalf("sentinel: err = %v", err)
	}
	for _, l := range []float64{-0.01, math.NaN(), math.Inf(1)} {
		if _, err := New(material(t, "2X4"), l); !errors.Is(err, ErrInvalidLength) {
			t.Fatalf("length %v: err = %v", l, err)
		}
	}
}

func TestSettersValidateBeforeMutating(t *testing.T) {
	b, _ := New(material(t, "2X4"), 3)

	if err := b.SetLength(-1); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("SetLength(-1) err = %v", err)
	}
	if b.Length() != 3 {
		t.Fatalf("length mutated on error: %v", b.Length())
	}

	if err := b.SetMaterial(catalog.Sentinel()); !errors.Is(err, catalog.ErrNoMaterialSelected) {
		t.Fatalf("SetMaterial(sentinel) err = %v", err)
	}
	if b.Material().Name != "2X4" {
		t.Fatalf("material mutated on error: %v", b.Material().Name)
	}

	if err := b.SetLength(6); err != nil {
		t.Fatal(err)
	}
	if got := b.Cost().StringFixed(2); got != "9.48" {
		t.Fatalf("cost after SetLength = %s", got)
	}
	if err := b.SetMaterial(material(t, "2X2 Post")); err != nil {
		t.Fatal(err)
	}
	if got := b.Cost().StringFixed(2); got != "214.56" {
		t.Fatalf("cost after SetMaterial = %s", got)
	}
}

func TestIdentityIsNotValue(t *testing.T) {
	a, _ := New(material(t, "2X4"), 3)
	b, _ := New(material(t, "2X4"), 3)
	if a.ID() == b.ID() {
		t.Fatal("equal bars must have distinct handles")
	}
}

func TestLabel(t *testing.T) {
	b, _ := New(material(t, "2X4"), 3)
	if got := b.Label(); got != "2X4 (3.00 ft)" {
		t.Fatalf("Label = %q", got)
	}
}
