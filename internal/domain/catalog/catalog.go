package catalog

import (
	"fmt"
	"math"
	"strings"
)

// Catalog неизменяемый упорядоченный список материалов.
// Первый элемент всегда sentinel.
type Catalog struct {
	types  []MaterialType
	byName map[string]int
}

// New валидирует таблицу. Если sentinel отсутствует, он добавляется в начало.
func New(types []MaterialType) (*Catalog, error) {
	sentinel := Sentinel()
	seen := false
	list := make([]MaterialType, 1, len(types)+1)
	for _, t := range types {
		if !t.IsSentinel() {
			list = append(list, t)
			continue
		}
		if seen {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidMaterial, t.Name)
		}
		if t.CostPerUnit != 0 {
			return nil, fmt.Errorf("%w: sentinel must cost 0", ErrInvalidMaterial)
		}
		sentinel, seen = t, true
	}
	list[0] = sentinel

	c := &Catalog{byName: make(map[string]int, len(list))}
	for i, t := range list {
		if err := validate(t); err != nil {
			return nil, err
		}
		if _, dup := c.byName[t.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidMaterial, t.Name)
		}
		c.byName[t.Name] = i
	}
	c.types = list
	return c, nil
}

// MustDefault каталог из Default(); паникует только при ошибке в самой таблице.
func MustDefault() *Catalog {
	c, err := New(Default())
	if err != nil {
		panic(err)
	}
	return c
}

func validate(t MaterialType) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidMaterial)
	}
	if t.CostPerUnit < 0 || math.IsNaN(t.CostPerUnit) || math.IsInf(t.CostPerUnit, 0) {
		return fmt.Errorf("%w: %q cost %v", ErrInvalidMaterial, t.Name, t.CostPerUnit)
	}
	if t.Thickness <= 0 {
		return fmt.Errorf("%w: %q thickness %d", ErrInvalidMaterial, t.Name, t.Thickness)
	}
	return nil
}

// Types копия списка в исходном порядке.
func (c *Catalog) Types() []MaterialType {
	out := make([]MaterialType, len(c.types))
	copy(out, c.types)
	return out
}

func (c *Catalog) Len() int { return len(c.types) }

func (c *Catalog) At(i int) (MaterialType, bool) {
	if i < 0 || i >= len(c.types) {
		return MaterialType{}, false
	}
	return c.types[i], true
}

func (c *Catalog) Sentinel() MaterialType { return c.types[0] }

func (c *Catalog) ByName(name string) (MaterialType, bool) {
	i, ok := c.byName[name]
	if !ok {
		return MaterialType{}, false
	}
	return c.types[i], true
}

// Lookup ищет без учёта регистра и пробелов по краям.
func (c *Catalog) Lookup(name string) (MaterialType, bool) {
	if t, ok := c.ByName(name); ok {
		return t, true
	}
	name = strings.TrimSpace(name)
	for _, t := range c.types {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return MaterialType{}, false
}

// Require возвращает настоящий материал или ошибку:
// sentinel -> ErrNoMaterialSelected, неизвестное имя -> ErrUnknownMaterial.
func (c *Catalog) Require(name string) (MaterialType, error) {
	t, ok := c.Lookup(name)
	if !ok {
		return MaterialType{}, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	if t.IsSentinel() {
		return MaterialType{}, ErrNoMaterialSelected
	}
	return t, nil
}

// Selectable материалы без sentinel (для клавиатуры выбора).
func (c *Catalog) Selectable() []MaterialType {
	out := make([]MaterialType, 0, len(c.types)-1)
	for _, t := range c.types {
		if !t.IsSentinel() {
			out = append(out, t)
		}
	}
	return out
}
