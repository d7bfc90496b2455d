package catalog

import "errors"

var (
	ErrNoMaterialSelected = errors.New("catalog: no material selected")
	ErrUnknownMaterial    = errors.New("catalog: unknown material")
	ErrInvalidMaterial    = errors.New("catalog: invalid material")
)

// SentinelName пункт «ничего не выбрано», стоимость 0.
const SentinelName = "Select Bar Type"

// MaterialType тип бруса: стоимость за фут и толщина линии на холсте.
type MaterialType struct {
	Name        string  `json:"name"`
	CostPerUnit float64 `json:"cost_per_unit"`
	Thickness   int     `json:"thickness"`
}

func (m MaterialType) IsSentinel() bool { return m.Name == SentinelName }

// Sentinel возвращает пустой выбор.
func Sentinel() MaterialType {
	return MaterialType{Name: SentinelName, CostPerUnit: 0, Thickness: 2}
}

// Default таблица материалов, с которой работает дизайнер по умолчанию.
func Default() []MaterialType {
	return []MaterialType{
		Sentinel(),
		{Name: "1X2 Open Back", CostPerUnit: 0.912, Thickness: 2},
		{Name: "2X2 Post", CostPerUnit: 35.76, Thickness: 2},
		{Name: "2X4", CostPerUnit: 1.58, Thickness: 2},
		{Name: "2X5", CostPerUnit: 1.98, Thickness: 2},
		{Name: "2X6", CostPerUnit: 2.25, Thickness: 2},
		{Name: "2X7", CostPerUnit: 2.50, Thickness: 2},
		{Name: "2X8", CostPerUnit: 3.45, Thickness: 2},
		{Name: "2X9", CostPerUnit: 3.98, Thickness: 2},
		{Name: "2X10", CostPerUnit: 6.13, Thickness: 2},
		{Name: "7in Super Gutter", CostPerUnit: 6.50, Thickness: 2},
		{Name: "5in Super Gutter", CostPerUnit: 4.60, Thickness: 2},
		{Name: "2X10 Rec Tube", CostPerUnit: 16.80, Thickness: 4},
		{Name: "2X8 Rec Tube", CostPerUnit: 9.50, Thickness: 4},
		{Name: "4X4 Post", CostPerUnit: 8.30, Thickness: 4},
		{Name: "4X4 Casting", CostPerUnit: 7.81, Thickness: 4},
	}
}
