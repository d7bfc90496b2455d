package session

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Spok95/poolscreen/internal/domain/bars"
	"github.com/Spok95/poolscreen/internal/domain/catalog"
	"github.com/Spok95/poolscreen/internal/domain/inventory"
	"github.com/Spok95/poolscreen/internal/geometry"
)

// Session сессия редактирования: владеет инвентарём, размещениями и журналом отмены.
// Каждая операция либо применяется к трём хранилищам целиком, либо не меняет ничего.
// Не потокобезопасна.
type Session struct {
	cat        *catalog.Catalog
	inv        *inventory.Inventory
	placements map[bars.ID]Placement
	history    []Entry

	pub       Publisher
	listeners []Listener
	log       *slog.Logger
}

type Option func(*Session)

func WithPublisher(p Publisher) Option { return func(s *Session) { s.pub = p } }

func WithListener(l Listener) Option {
	return func(s *Session) { s.listeners = append(s.listeners, l) }
}

func WithLogger(l *slog.Logger) Option { return func(s *Session) { s.log = l } }

func New(cat *catalog.Catalog, opts ...Option) *Session {
	s := &Session{
		cat:        cat,
		inv:        inventory.New(),
		placements: map[bars.ID]Placement{},
		log:        slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) Catalog() *catalog.Catalog { return s.cat }

// BeginAdd регистрирует брус, нарисованный от start до end.
// Длина = расстояние / PixelsPerFoot. Sentinel отклоняется без побочных эффектов.
func (s *Session) BeginAdd(m catalog.MaterialType, start, end geometry.Point, color string) (Placed, error) {
	if m.IsSentinel() {
		return Placed{}, catalog.ErrNoMaterialSelected
	}
	// Цена и толщина всегда из каталога, не из аргумента
	canon, ok := s.cat.ByName(m.Name)
	if !ok {
		return Placed{}, fmt.Errorf("%w: %q", catalog.ErrUnknownMaterial, m.Name)
	}
	m = canon
	if color == "" {
		color = DefaultColor
	}

	b, err := bars.New(m, geometry.Feet(start, end))
	if err != nil {
		return Placed{}, err
	}
	if err := s.inv.Add(b); err != nil {
		return Placed{}, err
	}
	pl := newPlacement(start, end, color)
	s.placements[b.ID()] = pl
	s.history = append(s.history, Entry{Op: OpAdd, Bar: b, Placement: pl})

	placed := s.placed(b, pl)
	s.log.Debug("bar added", "id", b.ID(), "type", m.Name, "length", b.Length())
	for _, l := range s.listeners {
		l.BarPlaced(placed)
	}
	s.notifyInventory()

	if s.pub != nil {
		s.pub.Publish(Event{
			BarType: m.Name,
			Length:  b.Length(),
			StartX:  start.X,
			StartY:  start.Y,
			EndX:    end.X,
			EndY:    end.Y,
		})
	}
	return placed, nil
}

// Remove удаляет брус и кладёт в журнал полный снимок для отмены.
func (s *Session) Remove(id bars.ID) (Placed, error) {
	b, err := s.inv.Remove(id)
	if err != nil {
		return Placed{}, err
	}
	pl := s.placements[id]
	delete(s.placements, id)
	s.history = append(s.history, Entry{Op: OpDelete, Bar: b, Placement: pl})

	placed := s.placed(b, pl)
	s.log.Debug("bar removed", "id", id, "type", b.Material().Name)
	for _, l := range s.listeners {
		l.BarRemoved(placed)
	}
	s.notifyInventory()
	return placed, nil
}

// EditLength меняет длину и пересчитывает конец вдоль исходного направления.
// В журнал отмены не попадает.
func (s *Session) EditLength(id bars.ID, length float64) (Placed, error) {
	if err := bars.CheckLength(length); err != nil {
		return Placed{}, err
	}
	b, err := s.inv.Get(id)
	if err != nil {
		return Placed{}, err
	}
	pl := s.placements[id]
	if dir, ok := pl.direction(); ok {
		pl.Dir = dir
		pl.End = pl.Start.Add(dir.Scale(length * geometry.PixelsPerFoot))
	}
	if err := b.SetLength(length); err != nil {
		return Placed{}, err
	}
	s.placements[id] = pl
	return s.changed(b, pl), nil
}

// EditMaterial меняет тип бруса. В журнал отмены не попадает.
func (s *Session) EditMaterial(id bars.ID, name string) (Placed, error) {
	m, err := s.cat.Require(name)
	if err != nil {
		return Placed{}, err
	}
	if err := s.inv.Retype(id, m); err != nil {
		return Placed{}, err
	}
	b, _ := s.inv.Get(id)
	return s.changed(b, s.placements[id]), nil
}

// Move сдвигает обе точки размещения. Длина и стоимость не меняются.
func (s *Session) Move(id bars.ID, dx, dy float64) (Placed, error) {
	b, err := s.inv.Get(id)
	if err != nil {
		return Placed{}, err
	}
	pl := s.placements[id]
	d := geometry.Pt(dx, dy)
	pl.Start = pl.Start.Add(d)
	pl.End = pl.End.Add(d)
	s.placements[id] = pl

	placed := s.placed(b, pl)
	for _, l := range s.listeners {
		l.BarChanged(placed)
	}
	return placed, nil
}

func (s *Session) changed(b *bars.Bar, pl Placement) Placed {
	placed := s.placed(b, pl)
	s.log.Debug("bar changed", "id", b.ID(), "type", b.Material().Name, "length", b.Length())
	for _, l := range s.listeners {
		l.BarChanged(placed)
	}
	s.notifyInventory()
	return placed
}

// Undo снимает последнюю запись журнала и применяет обратную операцию,
// не добавляя новых записей. ok=false, если журнал пуст.
func (s *Session) Undo() (Entry, bool) {
	if len(s.history) == 0 {
		return Entry{}, false
	}
	e := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]

	switch e.Op {
	case OpAdd:
		if _, err := s.inv.Remove(e.Bar.ID()); err != nil {
			s.log.Warn("undo add: bar already gone", "id", e.Bar.ID(), "err", err)
			return e, true
		}
		delete(s.placements, e.Bar.ID())
		placed := s.placed(e.Bar, e.Placement)
		for _, l := range s.listeners {
			l.BarRemoved(placed)
		}
	case OpDelete:
		if err := s.inv.Add(e.Bar); err != nil {
			s.log.Warn("undo delete: bar already present", "id", e.Bar.ID(), "err", err)
			return e, true
		}
		s.placements[e.Bar.ID()] = e.Placement
		placed := s.placed(e.Bar, e.Placement)
		for _, l := range s.listeners {
			l.BarPlaced(placed)
		}
	}
	s.log.Debug("undo", "op", e.Op, "id", e.Bar.ID())
	s.notifyInventory()
	return e, true
}

func (s *Session) notifyInventory() {
	if len(s.listeners) == 0 {
		return
	}
	counts, total := s.inv.Counts(), s.inv.TotalCost()
	for _, l := range s.listeners {
		l.InventoryChanged(counts, total)
	}
}

func (s *Session) placed(b *bars.Bar, pl Placement) Placed {
	return Placed{
		ID:       b.ID(),
		Material: b.Material(),
		Length:   b.Length(),
		Cost:     b.Cost(),
		Start:    pl.Start,
		End:      pl.End,
		Color:    pl.Color,
		Label:    b.Label(),
	}
}

/* Запросы */

func (s *Session) TotalCost() decimal.Decimal { return s.inv.TotalCost() }

func (s *Session) Counts() []inventory.TypeCount { return s.inv.Counts() }

func (s *Session) Summary() []inventory.Totals { return s.inv.Summary() }

func (s *Session) Len() int { return s.inv.Len() }

// History глубина журнала отмены.
func (s *Session) History() int { return len(s.history) }

func (s *Session) Placement(id bars.ID) (Placed, error) {
	b, err := s.inv.Get(id)
	if err != nil {
		return Placed{}, err
	}
	return s.placed(b, s.placements[id]), nil
}

// Placements все брусья в порядке добавления.
func (s *Session) Placements() []Placed {
	bs := s.inv.Bars()
	out := make([]Placed, 0, len(bs))
	for _, b := range bs {
		out = append(out, s.placed(b, s.placements[b.ID()]))
	}
	return out
}

// Find ищет брус по уникальному префиксу хэндла.
func (s *Session) Find(prefix string) (bars.ID, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return bars.ID{}, fmt.Errorf("%w: empty id", inventory.ErrBarNotFound)
	}
	var (
		found bars.ID
		n     int
	)
	for _, b := range s.inv.Bars() {
		if strings.HasPrefix(b.ID().String(), prefix) {
			found = b.ID()
			n++
		}
	}
	switch n {
	case 0:
		return bars.ID{}, fmt.Errorf("%w: %q", inventory.ErrBarNotFound, prefix)
	case 1:
		return found, nil
	default:
		return bars.ID{}, fmt.Errorf("%w: %q matches %d bars", ErrAmbiguousID, prefix, n)
	}
}

/* Сохранение/загрузка */

// Records текущий проект для сохранения.
func (s *Session) Records() []Record {
	bs := s.inv.Bars()
	out := make([]Record, 0, len(bs))
	for _, b := range bs {
		pl := s.placements[b.ID()]
		out = append(out, Record{
			ID:      b.ID(),
			BarType: b.Material().Name,
			Length:  b.Length(),
			Start:   pl.Start,
			End:     pl.End,
			Color:   pl.Color,
		})
	}
	return out
}

// Restore заменяет проект сохранёнными записями. Сначала валидируются все записи;
// при ошибке текущее состояние не меняется. Журнал отмены очищается.
func (s *Session) Restore(records []Record) error {
	inv := inventory.New()
	placements := make(map[bars.ID]Placement, len(records))
	for i, r := range records {
		m, err := s.cat.Require(r.BarType)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		b, err := bars.WithID(r.ID, m, r.Length)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if err := inv.Add(b); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		color := r.Color
		if color == "" {
			color = DefaultColor
		}
		placements[b.ID()] = newPlacement(r.Start, r.End, color)
	}
	s.inv = inv
	s.placements = placements
	s.history = nil
	s.notifyInventory()
	return nil
}

// Reset новый пустой проект.
func (s *Session) Reset() {
	s.inv.Clear()
	s.placements = map[bars.ID]Placement{}
	s.history = nil
	s.notifyInventory()
}
