package session

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Spok95/poolscreen/internal/domain/inventory"
)

// FormatCost строка статуса: "$1,234.56".
func FormatCost(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	fixed := v.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s$%s.%s", sign, b.String(), frac)
}

// StatusLine "Total cost: $183.54".
func StatusLine(total decimal.Decimal) string {
	return "Total cost: " + FormatCost(total)
}

// InventoryTable таблица (тип, количество) одной строкой на тип.
func InventoryTable(counts []inventory.TypeCount) string {
	if len(counts) == 0 {
		return "Inventory is empty"
	}
	var b strings.Builder
	for i, c := range counts {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %d", c.Name, c.Count)
	}
	return b.String()
}
