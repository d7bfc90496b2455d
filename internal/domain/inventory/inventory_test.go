package inventory

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Spok95/poolscreen/internal/domain/bars"
	"github.com/Spok95/poolscreen/internal/domain/catalog"
)

var cat = catalog.MustDefault()

func newBar(t *testing.T, name string, length float64) *bars.Bar {
	t.Helper()
	m, err := cat.Require(name)
	if err != nil {
		t.Fatal(err)
	}
	b, err := bars.New(m, length)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func sumCosts(bs []*bars.Bar) decimal.Decimal {
	s := decimal.Zero
	for _, b := range bs {
		s = s.Add(decimal.NewFromFloat(b.Length()).Mul(decimal.NewFromFloat(b.Material().CostPerUnit)))
	}
	return s
}

func TestScenarioAddAddRemove(t *testing.T) {
	inv := New()
	first := newBar(t, "2X4", 3.0)
	if err := inv.Add(first); err != nil {
		t.Fatal(err)
	}
	if got := inv.TotalCost().StringFixed(2); got != "4.74" {
		t.Fatalf("total = %s, want 4.74", got)
	}

	second := newBar(t, "2X2 Post", 5.0)
	if err := inv.Add(second); err != nil {
		t.Fatal(err)
	}
	if got := inv.TotalCost().StringFixed(2); got != "183.54" {
		t.Fatalf("total = %s, want 183.54", got)
	}

	if _, err := inv.Remove(first.ID()); err != nil {
		t.Fatal(err)
	}
	if got := inv.TotalCost().StringFixed(2); got != "178.80" {
		t.Fatalf("total = %s, want 178.80", got)
	}
	for _, c := range inv.Counts() {
		if c.Name == "2X4" {
			t.Fatalf("2X4 entry must be gone, counts = %+v", inv.Counts())
		}
	}
}

func TestRemoveByIdentity(t *testing.T) {
	inv := New()
	a := newBar(t, "2X4", 3)
	b := newBar(t, "2X4", 3)
	_ = inv.Add(a)
	_ = inv.Add(b)

	removed, err := inv.Remove(b.ID())
	if err != nil {
		t.Fatal(err)
	}
	if removed != b {
		t.Fatal("removed the wrong bar")
	}
	if !inv.Has(a.ID()) || inv.Has(b.ID()) {
		t.Fatal("identity-based removal failed")
	}
	if inv.Count("2X4") != 1 {
		t.Fatalf("count = %d", inv.Count("2X4"))
	}
}

func TestRemoveMissing(t *testing.T) {
	inv := New()
	_ = inv.Add(newBar(t, "2X6", 1))
	if _, err := inv.Remove(uuid.New()); !errors.Is(err, ErrBarNotFound) {
		t.Fatalf("err = %v", err)
	}
	if inv.Len() != 1 || inv.Count("2X6") != 1 {
		t.Fatal("failed removal must not mutate")
	}
}

func TestAddDuplicateHandle(t *testing.T) {
	inv := New()
	b := newBar(t, "2X6", 1)
	_ = inv.Add(b)
	if err := inv.Add(b); !errors.Is(err, ErrDuplicateBar) {
		t.Fatalf("err = %v", err)
	}
	if inv.Count("2X6") != 1 {
		t.Fatalf("count = %d", inv.Count("2X6"))
	}
}

func TestTotalReflectsInPlaceEdits(t *testing.T) {
	inv := New()
	a := newBar(t, "2X4", 3)
	other := newBar(t, "2X2 Post", 5)
	_ = inv.Add(a)
	_ = inv.Add(other)

	if err := a.SetLength(6); err != nil {
		t.Fatal(err)
	}
	if got := inv.TotalCost().StringFixed(2); got != "188.28" {
		t.Fatalf("total = %s, want 188.28", got)
	}
	if inv.Count("2X4") != 1 || inv.Count("2X2 Post") != 1 {
		t.Fatalf("counts changed: %+v", inv.Counts())
	}
}

func TestRetypeMovesCount(t *testing.T) {
	inv := New()
	a := newBar(t, "2X4", 2)
	_ = inv.Add(a)
	post, _ := cat.Require("4X4 Post")

	if err := inv.Retype(a.ID(), post); err != nil {
		t.Fatal(err)
	}
	if inv.Count("2X4") != 0 || inv.Count("4X4 Post") != 1 {
		t.Fatalf("counts = %+v", inv.Counts())
	}
	if err := inv.Retype(a.ID(), cat.Sentinel()); !errors.Is(err, catalog.ErrNoMaterialSelected) {
		t.Fatalf("err = %v", err)
	}
	if inv.Count("4X4 Post") != 1 {
		t.Fatal("failed retype must not touch counts")
	}
}

func TestRandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	types := cat.Selectable()
	inv := New()
	var live []*bars.Bar

	for step := 0; step < 500; step++ {
		if len(live) == 0 || rng.Intn(3) > 0 {
			m := types[rng.Intn(len(types))]
			b, _ := bars.New(m, float64(rng.Intn(400))/10)
			if err := inv.Add(b); err != nil {
				t.Fatal(err)
			}
			live = append(live, b)
		} else {
			i := rng.Intn(len(live))
			if _, err := inv.Remove(live[i].ID()); err != nil {
				t.Fatal(err)
			}
			live = append(live[:i], live[i+1:]...)
		}

		if !inv.TotalCost().Equal(sumCosts(live)) {
			t.Fatalf("step %d: total %s != %s", step, inv.TotalCost(), sumCosts(live))
		}
		want := map[string]int{}
		for _, b := range live {
			want[b.Material().Name]++
		}
		got := inv.Counts()
		if len(got) != len(want) {
			t.Fatalf("step %d: %d count entries, want %d", step, len(got), len(want))
		}
		for _, c := range got {
			if c.Count <= 0 || want[c.Name] != c.Count {
				t.Fatalf("step %d: count %s = %d, want %d", step, c.Name, c.Count, want[c.Name])
			}
		}
	}
}

func TestSummary(t *testing.T) {
	inv := New()
	_ = inv.Add(newBar(t, "2X4", 3))
	_ = inv.Add(newBar(t, "2X4", 2))
	_ = inv.Add(newBar(t, "2X2 Post", 5))

	s := inv.Summary()
	if len(s) != 2 {
		t.Fatalf("summary = %+v", s)
	}
	if s[0].Name != "2X2 Post" || s[1].Name != "2X4" {
		t.Fatalf("order = %+v", s)
	}
	if s[1].Count != 2 || s[1].Length != 5 || s[1].Cost.StringFixed(2) != "7.90" {
		t.Fatalf("2X4 totals = %+v", s[1])
	}
}
