package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mgoulart/precifica/internal/domain/materials"
	"github.com/mgoulart/precifica/internal/domain/quotes"
)

// PriceList renders the material catalog with derived per-base-unit costs,
// one row per material.
func PriceList(items []materials.Material) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"material_id",
		"name",
		"purchase_unit",
		"purchase_qty",
		"purchase_cost",
		"base_unit",
		"conversion_factor",
		"wastage_percent",
		"cost_per_base_unit",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, m := range items {
		excelRow := []interface{}{
			m.ID,
			m.Name,
			string(m.PurchaseUnit),
			m.PurchaseQty.String(),
			m.PurchaseCost.StringFixed(2),
			string(m.BaseUnit),
			m.ConversionFactor.String(),
			m.WastagePercent.String(),
			m.CostPerBaseUnit().StringFixed(4),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("row %d cell: %w", row, err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// QuoteSheet renders one quote with its frozen lines and totals.
func QuoteSheet(q quotes.Quote) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{"product_id", "description", "quantity", "unit_price", "subtotal"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, l := range q.Lines {
		excelRow := []interface{}{
			l.ProductID,
			l.Description,
			l.Quantity.String(),
			l.UnitPrice.StringFixed(2),
			l.Subtotal().StringFixed(2),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("row %d cell: %w", row, err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	footer := [][]interface{}{
		{"discount_percent", q.DiscountPercent.String()},
		{"surcharge_percent", q.SurchargePercent.String()},
		{"total", q.Total.StringFixed(2)},
	}
	row++ // blank separator
	for _, fr := range footer {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("footer cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &fr); err != nil {
			return nil, fmt.Errorf("write footer: %w", err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
