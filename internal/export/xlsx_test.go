package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mgoulart/precifica/internal/domain/materials"
	"github.com/mgoulart/precifica/internal/domain/quotes"
	"github.com/mgoulart/precifica/internal/domain/units"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func cellValue(t *testing.T, f *excelize.File, cell string) string {
	t.Helper()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	v, err := f.GetCellValue(sheet, cell)
	if err != nil {
		t.Fatalf("read cell %s: %v", cell, err)
	}
	return v
}

func TestPriceList_RoundTrip(t *testing.T) {
	items := []materials.Material{{
		ID:               3,
		Name:             "couche 300g",
		PurchaseUnit:     units.UnitReam,
		PurchaseQty:      dec(t, "1"),
		PurchaseCost:     dec(t, "25.00"),
		BaseUnit:         units.UnitSheet,
		ConversionFactor: dec(t, "500"),
		WastagePercent:   dec(t, "2"),
	}}

	data, err := PriceList(items)
	if err != nil {
		t.Fatalf("export price list: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	if got := cellValue(t, f, "B1"); got != "name" {
		t.Fatalf("header B1 = %q, want name", got)
	}
	if got := cellValue(t, f, "B2"); got != "couche 300g" {
		t.Fatalf("B2 = %q, want material name", got)
	}
	if got := cellValue(t, f, "I2"); got != "0.0500" {
		t.Fatalf("I2 cost per base unit = %q, want 0.0500", got)
	}
}

func TestQuoteSheet_RoundTrip(t *testing.T) {
	q := quotes.Quote{
		DiscountPercent:  dec(t, "10"),
		SurchargePercent: dec(t, "5"),
		Lines: []quotes.Line{
			{ProductID: 1, Description: "cartão de visita", Quantity: dec(t, "1"), UnitPrice: dec(t, "50.00")},
			{ProductID: 2, Description: "flyer A5", Quantity: dec(t, "1"), UnitPrice: dec(t, "30.00")},
		},
	}
	q.Total = quotes.Total(q.Lines, q.DiscountPercent, q.SurchargePercent)

	data, err := QuoteSheet(q)
	if err != nil {
		t.Fatalf("export quote: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	if got := cellValue(t, f, "E2"); got != "50.00" {
		t.Fatalf("E2 subtotal = %q, want 50.00", got)
	}
	if got := cellValue(t, f, "B7"); got != "75.60" {
		t.Fatalf("B7 total = %q, want 75.60", got)
	}
}
