package session

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Spok95/poolscreen/internal/domain/bars"
	"github.com/Spok95/poolscreen/internal/domain/catalog"
	"github.com/Spok95/poolscreen/internal/domain/inventory"
	"github.com/Spok95/poolscreen/internal/geometry"
)

var ErrAmbiguousID = errors.New("session: ambiguous bar id")

type Op string

const (
	OpAdd    Op = "add"
	OpDelete Op = "delete"
)

// DefaultColor цвет линии, если пользователь не выбирал.
const DefaultColor = "white"

// Placement отображение бруса на холсте, ключ тот же хэндл, что у Bar.
// Dir единичное направление рисования; переживает правку длины до нуля.
type Placement struct {
	Start geometry.Point
	End   geometry.Point
	Dir   geometry.Point
	Color string
}

func newPlacement(start, end geometry.Point, color string) Placement {
	pl := Placement{Start: start, End: end, Color: color}
	pl.Dir, _ = geometry.Direction(start, end)
	return pl
}

// direction текущее направление отрезка, а для схлопнутого отрезка запомненное.
func (pl Placement) direction() (geometry.Point, bool) {
	if dir, ok := geometry.Direction(pl.Start, pl.End); ok {
		return dir, true
	}
	return pl.Dir, pl.Dir != (geometry.Point{})
}

// Placed всё, что нужно поверхности отрисовки для одного бруса.
type Placed struct {
	ID       bars.ID
	Material catalog.MaterialType
	Length   float64
	Cost     decimal.Decimal
	Start    geometry.Point
	End      geometry.Point
	Color    string
	Label    string
}

// Entry запись журнала отмены: снимок, достаточный для обратной операции.
type Entry struct {
	Op        Op
	Bar       *bars.Bar
	Placement Placement
}

// Event исходящее событие о новом брусе. Копия по значению,
// поздние правки бруса на него не влияют.
type Event struct {
	BarType string  `json:"bar_type"`
	Length  float64 `json:"length"`
	StartX  float64 `json:"start_x"`
	StartY  float64 `json:"start_y"`
	EndX    float64 `json:"end_x"`
	EndY    float64 `json:"end_y"`
}

// Publisher получает события после фиксации добавления. Не должен блокировать.
type Publisher interface {
	Publish(Event)
}

// Listener уведомления для отрисовки, таблицы инвентаря и строки статуса.
type Listener interface {
	BarPlaced(Placed)
	BarRemoved(Placed)
	BarChanged(Placed)
	InventoryChanged(counts []inventory.TypeCount, total decimal.Decimal)
}

// Record строка сохранённого проекта.
type Record struct {
	ID      bars.ID
	BarType string
	Length  float64
	Start   geometry.Point
	End     geometry.Point
	Color   string
}
