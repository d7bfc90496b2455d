package bars

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Spok95/poolscreen/internal/domain/catalog"
)

var ErrInvalidLength = errors.New("bars: invalid length")

// ID стабильный хэндл бруса, не зависит от значений полей.
type ID = uuid.UUID

// Bar размещённый брус: материал + длина в футах.
type Bar struct {
	id       ID
	material catalog.MaterialType
	length   float64
}

// Snapshot копия состояния бруса для событий и сохранения.
type Snapshot struct {
	ID       ID
	Material catalog.MaterialType
	Length   float64
}

func New(m catalog.MaterialType, length float64) (*Bar, error) {
	return WithID(uuid.New(), m, length)
}

// WithID восстанавливает брус с известным хэндлом (загрузка проекта).
func WithID(id ID, m catalog.MaterialType, length float64) (*Bar, error) {
	if err := checkMaterial(m); err != nil {
		return nil, err
	}
	if err := CheckLength(length); err != nil {
		return nil, err
	}
	return &Bar{id: id, material: m, length: length}, nil
}

// CheckLength длина должна быть конечной и >= 0.
func CheckLength(length float64) error {
	if math.IsNaN(length) || math.IsInf(length, 0) || length < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidLength, length)
	}
	return nil
}

func checkMaterial(m catalog.MaterialType) error {
	if m.IsSentinel() {
		return catalog.ErrNoMaterialSelected
	}
	return nil
}

func (b *Bar) ID() ID                         { return b.id }
func (b *Bar) Material() catalog.MaterialType { return b.material }
func (b *Bar) Length() float64                { return b.length }

// Cost длина * цена за фут. Без кэширования.
func (b *Bar) Cost() decimal.Decimal {
	return decimal.NewFromFloat(b.length).Mul(decimal.NewFromFloat(b.material.CostPerUnit))
}

func (b *Bar) SetLength(length float64) error {
	if err := CheckLength(length); err != nil {
		return err
	}
	b.length = length
	return nil
}

func (b *Bar) SetMaterial(m catalog.MaterialType) error {
	if err := checkMaterial(m); err != nil {
		return err
	}
	b.material = m
	return nil
}

func (b *Bar) Snapshot() Snapshot {
	return Snapshot{ID: b.id, Material: b.material, Length: b.length}
}

// Label подпись на холсте: "2X4 (3.00 ft)".
func (b *Bar) Label() string {
	return fmt.Sprintf("%s (%.2f ft)", b.material.Name, b.length)
}
