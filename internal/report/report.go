package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/poolscreen/internal/domain/catalog"
	"github.com/Spok95/poolscreen/internal/domain/inventory"
	"github.com/Spok95/poolscreen/internal/session"
)

const (
	SheetBars    = "Bars"
	SheetSummary = "Summary"
	SheetPrices  = "Prices"
)

// FileName имя файла выгрузки: prefix_20060102_150405.xlsx
func FileName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.Format("20060102_150405"))
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func writeRows(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return nil
}

// Inventory отчёт по проекту: лист Bars (брус на строку) и Summary
// (количество, суммарная длина и стоимость по типам плюс итог).
func Inventory(placed []session.Placed, summary []inventory.Totals, total decimal.Decimal) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetBars); err != nil {
		return nil, err
	}
	barRows := make([][]interface{}, 0, len(placed))
	for i, p := range placed {
		barRows = append(barRows, []interface{}{
			i + 1,
			p.ID.String(),
			p.Material.Name,
			p.Length,
			p.Material.CostPerUnit,
			money(p.Cost),
			p.Start.X, p.Start.Y, p.End.X, p.End.Y,
			p.Color,
		})
	}
	if err := writeRows(f, SheetBars, []interface{}{
		"#", "id", "bar_type", "length_ft", "cost_per_ft", "cost",
		"start_x", "start_y", "end_x", "end_y", "color",
	}, barRows); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, err
	}
	sumRows := make([][]interface{}, 0, len(summary)+1)
	for _, s := range summary {
		sumRows = append(sumRows, []interface{}{s.Name, s.Count, s.Length, money(s.Cost)})
	}
	sumRows = append(sumRows, []interface{}{"Total", len(placed), nil, money(total)})
	if err := writeRows(f, SheetSummary, []interface{}{"bar_type", "count", "length_ft", "cost"}, sumRows); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Prices прайс каталога без пункта-заглушки.
func Prices(cat *catalog.Catalog) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetPrices); err != nil {
		return nil, err
	}
	types := cat.Selectable()
	rows := make([][]interface{}, 0, len(types))
	for _, t := range types {
		rows = append(rows, []interface{}{t.Name, t.CostPerUnit, t.Thickness})
	}
	if err := writeRows(f, SheetPrices, []interface{}{"bar_type", "cost_per_ft", "thickness"}, rows); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
