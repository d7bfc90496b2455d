package session

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Spok95/poolscreen/internal/domain/bars"
	"github.com/Spok95/poolscreen/internal/domain/catalog"
	"github.com/Spok95/poolscreen/internal/domain/inventory"
	"github.com/Spok95/poolscreen/internal/geometry"
)

type recorder struct {
	events    []Event
	placed    int
	removed   int
	changed   int
	lastTotal decimal.Decimal
	lastCount []inventory.TypeCount
	updates   int
}

func (r *recorder) Publish(e Event) { r.events = append(r.events, e) }

func (r *recorder) BarPlaced(Placed)  { r.placed++ }
func (r *recorder) BarRemoved(Placed) { r.removed++ }
func (r *recorder) BarChanged(Placed) { r.changed++ }
func (r *recorder) InventoryChanged(c []inventory.TypeCount, total decimal.Decimal) {
	r.lastCount, r.lastTotal = c, total
	r.updates++
}

func newSession(t *testing.T) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	return New(catalog.MustDefault(), WithPublisher(rec), WithListener(rec)), rec
}

func mat(t *testing.T, s *Session, name string) catalog.MaterialType {
	t.Helper()
	m, err := s.Catalog().Require(name)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func countsMap(cs []inventory.TypeCount) map[string]int {
	out := map[string]int{}
	for _, c := range cs {
		out[c.Name] = c.Count
	}
	return out
}

func sameCounts(a, b []inventory.TypeCount) bool {
	ma, mb := countsMap(a), countsMap(b)
	if len(ma) != len(mb) {
		return false
	}
	for k, v := range ma {
		if mb[k] != v {
			return false
		}
	}
	return true
}

func TestBeginAddComputesLengthAndPublishes(t *testing.T) {
	s, rec := newSession(t)
	p, err := s.BeginAdd(mat(t, s, "2X4"), geometry.Pt(0, 0), geometry.Pt(30, 0), "red")
	if err != nil {
		t.Fatal(err)
	}
	if p.Length != 3 || p.Cost.StringFixed(2) != "4.74" {
		t.Fatalf("placed = %+v", p)
	}
	if p.Label != "2X4 (3.00 ft)" || p.Color != "red" {
		t.Fatalf("presentation = %q / %q", p.Label, p.Color)
	}
	if s.History() != 1 {
		t.Fatalf("history = %d", s.History())
	}
	if len(rec.events) != 1 {
		t.Fatalf("events = %d", len(rec.events))
	}
	want := Event{BarType: "2X4", Length: 3, StartX: 0, StartY: 0, EndX: 30, EndY: 0}
	if rec.events[0] != want {
		t.Fatalf("event = %+v", rec.events[0])
	}
	if rec.placed != 1 || rec.lastTotal.StringFixed(2) != "4.74" {
		t.Fatalf("listener: placed=%d total=%s", rec.placed, rec.lastTotal)
	}
}

func TestEventIsCopy(t *testing.T) {
	s, rec := newSession(t)
	p, _ := s.BeginAdd(mat(t, s, "2X4"), geometry.Pt(0, 0), geometry.Pt(30, 0), "")
	if _, err := s.EditLength(p.ID, 9); err != nil {
		t.Fatal(err)
	}
	if rec.events[0].Length != 3 || rec.events[0].EndX != 30 {
		t.Fatalf("event changed after edit: %+v", rec.events[0])
	}
}

func TestBeginAddSentinelHasNoSideEffects(t *testing.T) {
	s, rec := newSession(t)
	_, _ = s.BeginAdd(mat(t, s, "2X6"), geometry.Pt(0, 0), geometry.Pt(10, 0), "")
	beforeTotal, beforeCounts, beforeHist := s.TotalCost(), s.Counts(), s.History()
	beforeEvents := len(rec.events)

	_, err := s.BeginAdd(s.Catalog().Sentinel(), geometry.Pt(0, 0), geometry.Pt(50, 0), "")
	if !errors.Is(err, catalog.ErrNoMaterialSelected) {
		t.Fatalf("err = %v", err)
	}
	if !s.TotalCost().Equal(beforeTotal) || !sameCounts(s.Counts(), beforeCounts) ||
		s.History() != beforeHist || len(rec.events) != beforeEvents || s.Len() != 1 {
		t.Fatal("sentinel add mutated state")
	}
}

func TestBeginAddUsesCatalogPrice(t *testing.T) {
	s, rec := newSession(t)
	forged := catalog.MaterialType{Name: "2X4", CostPerUnit: 0.01, Thickness: 9}

	p, err := s.BeginAdd(forged, geometry.Pt(0, 0), geometry.Pt(30, 0), "")
	if err != nil {
		t.Fatal(err)
	}
	if p.Cost.StringFixed(2) != "4.74" || s.TotalCost().StringFixed(2) != "4.74" {
		t.Fatalf("cost = %s total = %s", p.Cost, s.TotalCost())
	}
	if p.Material != mat(t, s, "2X4") {
		t.Fatalf("material = %+v", p.Material)
	}
	if rec.lastTotal.StringFixed(2) != "4.74" {
		t.Fatalf("reported total = %s", rec.lastTotal)
	}
}

func TestBeginAddUnknownMaterial(t *testing.T) {
	s, _ := newSession(t)
	_, err := s.BeginAdd(catalog.MaterialType{Name: "Titanium", CostPerUnit: 1, Thickness: 1},
		geometry.Pt(0, 0), geometry.Pt(1, 0), "")
	if !errors.Is(err, catalog.ErrUnknownMaterial) || s.Len() != 0 {
		t.Fatalf("err = %v len = %d", err, s.Len())
	}
}

func TestUndoAddRestoresPreAddState(t *testing.T) {
	s, _ := newSession(t)
	_, _ = s.BeginAdd(mat(t, s, "2X2 Post"), geometry.Pt(0, 0), geometry.Pt(0, 50), "")
	preTotal, preCounts := s.TotalCost(), s.Counts()

	added, _ := s.BeginAdd(mat(t, s, "2X4"), geometry.Pt(0, 0), geometry.Pt(30, 0), "")
	e, ok := s.Undo()
	if !ok || e.Op != OpAdd || e.Bar.ID() != added.ID {
		t.Fatalf("undo = %+v, %v", e, ok)
	}
	if !s.TotalCost().Equal(preTotal) || !sameCounts(s.Counts(), preCounts) {
		t.Fatalf("total %s counts %+v", s.TotalCost(), s.Counts())
	}
	if _, err := s.Placement(added.ID); !errors.Is(err, inventory.ErrBarNotFound) {
		t.Fatalf("placement still present: %v", err)
	}
	if s.History() != 1 {
		t.Fatalf("undo must not push entries, history = %d", s.History())
	}
}

func TestUndoDeleteRestoresExactBar(t *testing.T) {
	s, _ := newSession(t)
	a, _ := s.BeginAdd(mat(t, s, "2X4"), geometry.Pt(0, 0), geometry.Pt(30, 0), "blue")
	_, _ = s.BeginAdd(mat(t, s, "2X4"), geometry.Pt(0, 0), geometry.Pt(30, 0), "")
	preTotal, preCounts := s.TotalCost(), s.Counts()

	if _, err := s.Remove(a.ID); err != nil {
		t.Fatal(err)
	}
	if s.Counts()[0].Count != 1 {
		t.Fatalf("counts after remove: %+v", s.Counts())
	}

	e, ok := s.Undo()
	if !ok || e.Op != OpDelete {
		t.Fatalf("undo = %+v, %v", e, ok)
	}
	got, err := s.Placement(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Color != "blue" || got.End != geometry.Pt(30, 0) {
		t.Fatalf("restored placement = %+v", got)
	}
	if !s.TotalCost().Equal(preTotal) || !sameCounts(s.Counts(), preCounts) {
		t.Fatal("undo delete did not restore aggregates")
	}
}

func TestUndoEmptyIsNoop(t *testing.T) {
	s, _ := newSession(t)
	for i := 0; i < 3; i++ {
		if _, ok := s.Undo(); ok {
			t.Fatal("undo on empty log must report false")
		}
	}
	_, _ = s.BeginAdd(mat(t, s, "2X4"), geometry.Pt(0, 0), geometry.Pt(10, 0), "")
	s.Undo()
	if _, ok := s.Undo(); ok || s.Len() != 0 {
		t.Fatal("second undo must be a no-op")
	}
}

func TestRemoveMissing(t *testing.T) {
	s, _ := newSession(t)
	if _, err := s.Remove(uuid.New()); !errors.Is(err, inventory.ErrBarNotFound) {
		t.Fatalf("err = %v", err)
	}
	if s.History() != 0 {
		t.Fatal("failed remove must not log")
	}
}

func TestEditLengthDoublesContribution(t *testing.T) {
	s, _ := newSession(t)
	a, _ := s.BeginAdd(mat(t, s, "2X4"), geometry.Pt(0, 0), geometry.Pt(30, 0), "")
	other, _ := s.BeginAdd(mat(t, s, "2X2 Post"), geometry.Pt(0, 0), geometry.Pt(0, 50), "")
	hist := s.History()

	p, err := s.EditLength(a.ID, 6)
	if err != nil {
		t.Fatal(err)
	}
	if p.End != geometry.Pt(60, 0) || p.Label != "2X4 (6.00 ft)" {
		t.Fatalf("placed = %+v", p)
	}
	if got := s.TotalCost().StringFixed(2); got != "188.28" {
		t.Fatalf("total = %s", got)
	}
	o, _ := s.Placement(other.ID)
	if !o.Cost.Equal(other.Cost) {
		t.Fatal("other bar cost changed")
	}
	if s.History() != hist {
		t.Fatal("edits are not recorded in the undo log")
	}
}

func TestEditLengthValidation(t *testing.T) {
	s, _ := newSession(t)
	a, _ := s.BeginAdd(mat(t, s, "2X4"), geometry.Pt(0, 0), geometry.Pt(30, 0), "")
	for _, l := range []float64{-1, math.NaN()} {
		if _, err := s.EditLength(a.ID, l); !errors.Is(err, bars.ErrInvalidLength) {
			t.Fatalf("EditLength(%v) err = %v", l, err)
		}
	}
	p, _ := s.Placement(a.ID)
	if p.Length != 3 || p.End != geometry.Pt(30, 0) {
		t.Fatalf("state mutated: %+v", p)
	}
	if _, err := s.EditLength(uuid.New(), 2); !errors.Is(err, inventory.ErrBarNotFound) {
		t.Fatalf("missing: err = %v", err)
	}
}

func TestEditLengthDegenerateKeepsEnd(t *testing.T) {
	s, _ := newSession(t)
	a, _ := s.BeginAdd(mat(t, s, "2X4"), geometry.Pt(5, 5), geometry.Pt(5, 5), "")
	p, err := s.EditLength(a.ID, 4)
	if err != nil {
		t.Fatal(err)
	}
	if p.Length != 4 || p.End != geometry.Pt(5, 5) {
		t.Fatalf("placed = %+v", p)
	}
}

func TestEditLengthZeroKeepsDirection(t *testing.T) {
	s, _ := newSession(t)
	a, _ := s.BeginAdd(mat(t, s, "2X4"), geometry.Pt(0, 0), geometry.Pt(30, 0), "")

	p, err := s.EditLength(a.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if p.Length != 0 || p.End != geometry.Pt(0, 0) {
		t.Fatalf("collapsed = %+v", p)
	}

	p, err = s.EditLength(a.ID, 5)
	if err != nil {
		t.Fatal(err)
	}
	if p.End != geometry.Pt(50, 0) || p.Label != "2X4 (5.00 ft)" {
		t.Fatalf("regrown = %+v", p)
	}
	if got := geometry.Feet(p.Start, p.End); got != p.Length {
		t.Fatalf("drawn %v ft, bar %v ft", got, p.Length)
	}
}

func TestEditLengthZeroThenMoveKeepsDirection(t *testing.T) {
	s, _ := newSession(t)
	a, _ := s.BeginAdd(mat(t, s, "2X4"), geometry.Pt(0, 0), geometry.Pt(0, 20), "")
	if _, err := s.EditLength(a.ID, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Move(a.ID, 10, 10); err != nil {
		t.Fatal(err)
	}
	p, err := s.EditLength(a.ID, 3)
	if err != nil {
		t.Fatal(err)
	}
	if p.Start != geometry.Pt(10, 10) || p.End != geometry.Pt(10, 40) {
		t.Fatalf("placed = %+v", p)
	}
}

func TestEditMaterial(t *testing.T) {
	s, rec := newSession(t)
	a, _ := s.BeginAdd(mat(t, s, "2X4"), geometry.Pt(0, 0), geometry.Pt(30, 0), "")

	if _, err := s.EditMaterial(a.ID, catalog.SentinelName); !errors.Is(err, catalog.ErrNoMaterialSelected) {
		t.Fatalf("err = %v", err)
	}
	p, err := s.EditMaterial(a.ID, "2X2 Post")
	if err != nil {
		t.Fatal(err)
	}
	if p.Cost.StringFixed(2) != "107.28" {
		t.Fatalf("cost = %s", p.Cost)
	}
	cm := countsMap(s.Counts())
	if cm["2X4"] != 0 || cm["2X2 Post"] != 1 {
		t.Fatalf("counts = %+v", s.Counts())
	}
	if rec.changed != 1 {
		t.Fatalf("changed notifications = %d", rec.changed)
	}
}

func TestMoveKeepsCost(t *testing.T) {
	s, _ := newSession(t)
	a, _ := s.BeginAdd(mat(t, s, "2X4"), geometry.Pt(0, 0), geometry.Pt(30, 0), "")
	p, err := s.Move(a.ID, 5, -5)
	if err != nil {
		t.Fatal(err)
	}
	if p.Start != geometry.Pt(5, -5) || p.End != geometry.Pt(35, -5) || !p.Cost.Equal(a.Cost) {
		t.Fatalf("moved = %+v", p)
	}
}

func TestFind(t *testing.T) {
	s, _ := newSession(t)
	a, _ := s.BeginAdd(mat(t, s, "2X4"), geometry.Pt(0, 0), geometry.Pt(30, 0), "")
	id, err := s.Find(a.ID.String()[:8])
	if err != nil || id != a.ID {
		t.Fatalf("Find = %v, %v", id, err)
	}
	if _, err := s.Find("zzzz"); !errors.Is(err, inventory.ErrBarNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestRestoreIsAllOrNothing(t *testing.T) {
	s, _ := newSession(t)
	a, _ := s.BeginAdd(mat(t, s, "2X4"), geometry.Pt(0, 0), geometry.Pt(30, 0), "")
	recs := s.Records()

	bad := append([]Record{}, recs...)
	bad = append(bad, Record{ID: uuid.New(), BarType: "nope", Length: 1})
	if err := s.Restore(bad); !errors.Is(err, catalog.ErrUnknownMaterial) {
		t.Fatalf("err = %v", err)
	}
	if s.Len() != 1 || s.History() != 1 {
		t.Fatal("failed restore changed state")
	}

	s.Reset()
	if s.Len() != 0 || !s.TotalCost().IsZero() {
		t.Fatal("reset left bars behind")
	}
	if err := s.Restore(recs); err != nil {
		t.Fatal(err)
	}
	p, err := s.Placement(a.ID)
	if err != nil || p.Length != 3 || p.End != geometry.Pt(30, 0) {
		t.Fatalf("restored = %+v, %v", p, err)
	}
	if s.History() != 0 {
		t.Fatal("restore must clear undo log")
	}
}

func TestFormatCost(t *testing.T) {
	cases := map[string]string{
		"0":         "$0.00",
		"4.74":      "$4.74",
		"183.54":    "$183.54",
		"1234.5":    "$1,234.50",
		"1234567.8": "$1,234,567.80",
		"-12.345":   "-$12.35",
	}
	for in, want := range cases {
		if got := FormatCost(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatCost(%s) = %s, want %s", in, got, want)
		}
	}
}
