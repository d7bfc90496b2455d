package inventory

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrBarNotFound  = errors.New("inventory: bar not found")
	ErrDuplicateBar = errors.New("inventory: bar already present")
)

// TypeCount строка таблицы инвентаря: тип -> количество.
type TypeCount struct {
	Name  string
	Count int
}

// Totals сводка по типу: количество, суммарная длина и стоимость.
type Totals struct {
	Name   string
	Count  int
	Length float64
	Cost   decimal.Decimal
}
