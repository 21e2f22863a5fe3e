package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mgoulart/precifica/internal/domain/materials"
	"github.com/mgoulart/precifica/internal/domain/params"
	"github.com/mgoulart/precifica/internal/domain/pricing"
	"github.com/mgoulart/precifica/internal/domain/quotes"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

type stubQuotes struct {
	q      *quotes.Quote
	status quotes.Status
}

func (s *stubQuotes) Create(_ context.Context, _ int64, _ string, _, _ decimal.Decimal, _ []quotes.LineRequest) (*quotes.Quote, error) {
	return s.q, nil
}

func (s *stubQuotes) Get(_ context.Context, orgID, id int64) (*quotes.Quote, error) {
	if s.q != nil && s.q.ID == id && s.q.OrgID == orgID {
		return s.q, nil
	}
	return nil, nil
}

func (s *stubQuotes) SetStatus(_ context.Context, orgID, id int64, status quotes.Status) error {
	if s.q == nil || s.q.ID != id || s.q.OrgID != orgID {
		return quotes.ErrQuoteNotFound
	}
	s.status = status
	return nil
}

type stubMaterials struct {
	items     []materials.Material
	deleteErr error
}

func (s *stubMaterials) List(_ context.Context, _ int64, _ bool) ([]materials.Material, error) {
	return s.items, nil
}

func (s *stubMaterials) Delete(_ context.Context, _, _ int64) error { return s.deleteErr }

type stubPricing struct {
	bd  pricing.Breakdown
	err error
}

func (s *stubPricing) PriceProduct(_ context.Context, _, _ int64) (pricing.Breakdown, error) {
	return s.bd, s.err
}

type stubParams struct {
	saved *params.GlobalParams
}

func (s *stubParams) SaveGlobalParams(_ context.Context, p params.GlobalParams) error {
	s.saved = &p
	return nil
}

func (s *stubParams) SaveLaborRateTable(_ context.Context, _ params.LaborRateTable) error {
	return nil
}

func testMux(h *Handlers) *http.ServeMux {
	if h.Log == nil {
		h.Log = slog.New(slog.DiscardHandler)
	}
	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

func testQuote(t *testing.T) *quotes.Quote {
	t.Helper()
	q := &quotes.Quote{
		ID:               5,
		OrgID:            1,
		Number:           "Q-100",
		DiscountPercent:  dec(t, "10"),
		SurchargePercent: dec(t, "5"),
		Status:           quotes.StatusDraft,
		Lines: []quotes.Line{
			{ProductID: 1, Description: "cartão de visita", Quantity: dec(t, "1"), UnitPrice: dec(t, "50.00")},
			{ProductID: 2, Description: "flyer A5", Quantity: dec(t, "1"), UnitPrice: dec(t, "30.00")},
		},
	}
	q.Total = quotes.Total(q.Lines, q.DiscountPercent, q.SurchargePercent)
	return q
}

func TestQuoteSheetRoute(t *testing.T) {
	mux := testMux(&Handlers{Quotes: &stubQuotes{q: testQuote(t)}})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("GET", "/orgs/1/quotes/5/sheet.xlsx", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("content type = %q, want xlsx", ct)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if got, _ := f.GetCellValue(sheet, "E2"); got != "50.00" {
		t.Fatalf("E2 subtotal = %q, want 50.00", got)
	}
	if got, _ := f.GetCellValue(sheet, "B7"); got != "75.60" {
		t.Fatalf("B7 total = %q, want 75.60", got)
	}
}

func TestGetQuote_ScopedToOrganization(t *testing.T) {
	mux := testMux(&Handlers{Quotes: &stubQuotes{q: testQuote(t)}})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("GET", "/orgs/2/quotes/5", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("foreign org read: status = %d, want 404", rr.Code)
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("GET", "/orgs/1/quotes/5", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("owner read: status = %d, want 200", rr.Code)
	}
}

func TestSetQuoteStatus(t *testing.T) {
	stub := &stubQuotes{q: testQuote(t)}
	mux := testMux(&Handlers{Quotes: stub})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("PUT", "/orgs/1/quotes/5/status",
		strings.NewReader(`{"status":"sent"}`)))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	if stub.status != quotes.StatusSent {
		t.Fatalf("recorded status = %q, want sent", stub.status)
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("PUT", "/orgs/1/quotes/5/status",
		strings.NewReader(`{"status":"bogus"}`)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bogus status: status = %d, want 400", rr.Code)
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("PUT", "/orgs/2/quotes/5/status",
		strings.NewReader(`{"status":"sent"}`)))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("foreign org: status = %d, want 404", rr.Code)
	}
}

func TestDeleteMaterial_ProtectsReferencedMaterials(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"in use", materials.ErrMaterialInUse, http.StatusConflict},
		{"missing", materials.ErrMaterialNotFound, http.StatusNotFound},
		{"deleted", nil, http.StatusNoContent},
	}
	for _, tc := range cases {
		mux := testMux(&Handlers{Materials: &stubMaterials{deleteErr: tc.err}})
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest("DELETE", "/orgs/1/materials/3", nil))
		if rr.Code != tc.want {
			t.Fatalf("%s: status = %d, want %d", tc.name, rr.Code, tc.want)
		}
	}
}

func TestConvertReam_UsesConfiguredReamSize(t *testing.T) {
	mux := testMux(&Handlers{SheetsPerReam: 250})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("GET", "/convert/ream?reams=2", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp map[string]decimal.Decimal
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp["sheets"].Equal(dec(t, "500")) {
		t.Fatalf("sheets = %s, want 500 (2 reams of 250)", resp["sheets"])
	}

	// Unset config falls back to the conventional ream.
	mux = testMux(&Handlers{})
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("GET", "/convert/ream?reams=2", nil))
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp["sheets"].Equal(dec(t, "1000")) {
		t.Fatalf("sheets = %s, want 1000 (default ream)", resp["sheets"])
	}
}

func TestConvertPages(t *testing.T) {
	mux := testMux(&Handlers{})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("GET", "/convert/pages?pages=100&per_sheet=2&duplex=1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp map[string]int64
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["sheets"] != 25 {
		t.Fatalf("sheets = %d, want 25", resp["sheets"])
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("GET", "/convert/pages?pages=100&per_sheet=0", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("zero capacity: status = %d, want 400", rr.Code)
	}
}

func TestSaveParams_RejectsNegativePercent(t *testing.T) {
	store := &stubParams{}
	mux := testMux(&Handlers{Params: store})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("PUT", "/orgs/1/params",
		strings.NewReader(`{"tax_percent":"-5"}`)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if store.saved != nil {
		t.Fatal("negative percent must not be persisted")
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("PUT", "/orgs/1/params",
		strings.NewReader(`{"default_margin_percent":"35","round_to":"0.05"}`)))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	if store.saved == nil || !store.saved.DefaultMarginPercent.Equal(dec(t, "35")) {
		t.Fatalf("saved params = %+v, want margin 35", store.saved)
	}
}
