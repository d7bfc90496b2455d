package inventory

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Spok95/poolscreen/internal/domain/bars"
	"github.com/Spok95/poolscreen/internal/domain/catalog"
)

// Inventory (проект) упорядоченный список брусьев + счётчики по типам.
// Не потокобезопасен: владелец один (сессия редактирования).
type Inventory struct {
	bars   []*bars.Bar
	counts map[string]int
}

func New() *Inventory {
	return &Inventory{counts: map[string]int{}}
}

// Add добавляет брус в конец и увеличивает счётчик его типа.
func (inv *Inventory) Add(b *bars.Bar) error {
	if inv.indexOf(b.ID()) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateBar, b.ID())
	}
	inv.bars = append(inv.bars, b)
	inv.counts[b.Material().Name]++
	return nil
}

// Remove удаляет брус по хэндлу (не по равенству значений).
func (inv *Inventory) Remove(id bars.ID) (*bars.Bar, error) {
	i := inv.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrBarNotFound, id)
	}
	b := inv.bars[i]
	inv.bars = append(inv.bars[:i], inv.bars[i+1:]...)
	inv.decrement(b.Material().Name)
	return b, nil
}

// SetLength меняет длину бруса на месте.
func (inv *Inventory) SetLength(id bars.ID, length float64) error {
	b, err := inv.Get(id)
	if err != nil {
		return err
	}
	return b.SetLength(length)
}

// Retype меняет материал и переносит единицу счётчика со старого типа на новый.
func (inv *Inventory) Retype(id bars.ID, m catalog.MaterialType) error {
	b, err := inv.Get(id)
	if err != nil {
		return err
	}
	old := b.Material().Name
	if err := b.SetMaterial(m); err != nil {
		return err
	}
	if old != m.Name {
		inv.decrement(old)
		inv.counts[m.Name]++
	}
	return nil
}

func (inv *Inventory) decrement(name string) {
	inv.counts[name]--
	if inv.counts[name] <= 0 {
		delete(inv.counts, name)
	}
}

func (inv *Inventory) indexOf(id bars.ID) int {
	for i, b := range inv.bars {
		if b.ID() == id {
			return i
		}
	}
	return -1
}

func (inv *Inventory) Get(id bars.ID) (*bars.Bar, error) {
	i := inv.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrBarNotFound, id)
	}
	return inv.bars[i], nil
}

func (inv *Inventory) Has(id bars.ID) bool { return inv.indexOf(id) >= 0 }

func (inv *Inventory) Len() int { return len(inv.bars) }

// Bars копия списка в порядке добавления.
func (inv *Inventory) Bars() []*bars.Bar {
	out := make([]*bars.Bar, len(inv.bars))
	copy(out, inv.bars)
	return out
}

// TotalCost пересчитывается при каждом вызове: правки длины/типа
// внутри Bar не проходят через Add/Remove.
func (inv *Inventory) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, b := range inv.bars {
		total = total.Add(b.Cost())
	}
	return total
}

func (inv *Inventory) Count(name string) int { return inv.counts[name] }

// Counts строки таблицы инвентаря, отсортированы по имени.
func (inv *Inventory) Counts() []TypeCount {
	out := make([]TypeCount, 0, len(inv.counts))
	for name, n := range inv.counts {
		out = append(out, TypeCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Summary агрегаты по типам для отчёта.
func (inv *Inventory) Summary() []Totals {
	idx := map[string]int{}
	var out []Totals
	for _, b := range inv.bars {
		name := b.Material().Name
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, Totals{Name: name, Cost: decimal.Zero})
		}
		out[i].Count++
		out[i].Length += b.Length()
		out[i].Cost = out[i].Cost.Add(b.Cost())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Clear удаляет всё.
func (inv *Inventory) Clear() {
	inv.bars = nil
	inv.counts = map[string]int{}
}
