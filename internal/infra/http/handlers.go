package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mgoulart/precifica/internal/domain/materials"
	"github.com/mgoulart/precifica/internal/domain/params"
	"github.com/mgoulart/precifica/internal/domain/pricing"
	"github.com/mgoulart/precifica/internal/domain/quotes"
	"github.com/mgoulart/precifica/internal/domain/units"
	"github.com/mgoulart/precifica/internal/export"
)

// PriceService is what the handlers need from the pricing engine.
type PriceService interface {
	PriceProduct(ctx context.Context, orgID, productID int64) (pricing.Breakdown, error)
}

// QuoteService is the org-scoped quote surface.
type QuoteService interface {
	Create(ctx context.Context, orgID int64, customer string,
		discountPercent, surchargePercent decimal.Decimal, reqs []quotes.LineRequest) (*quotes.Quote, error)
	Get(ctx context.Context, orgID, id int64) (*quotes.Quote, error)
	SetStatus(ctx context.Context, orgID, id int64, status quotes.Status) error
}

// MaterialStore is the catalog surface the handlers touch.
type MaterialStore interface {
	List(ctx context.Context, orgID int64, onlyActive bool) ([]materials.Material, error)
	Delete(ctx context.Context, orgID, id int64) error
}

// ParamStore persists the organization's markup configuration and labor calendar.
type ParamStore interface {
	SaveGlobalParams(ctx context.Context, p params.GlobalParams) error
	SaveLaborRateTable(ctx context.Context, t params.LaborRateTable) error
}

// Handlers is the thin JSON shim over the engine for its collaborators. It
// carries no pricing logic of its own; data-entry validation (negative
// quantities, out-of-range percentages) happens here, at the boundary.
type Handlers struct {
	Pricing   PriceService
	Quotes    QuoteService
	Materials MaterialStore
	Params    ParamStore

	// Ream size used by the conversion helpers, from config.
	SheetsPerReam int64

	Log *slog.Logger
}

func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /orgs/{org}/products/{id}/price", h.productPrice)
	mux.HandleFunc("POST /orgs/{org}/quotes", h.createQuote)
	mux.HandleFunc("GET /orgs/{org}/quotes/{id}", h.getQuote)
	mux.HandleFunc("GET /orgs/{org}/quotes/{id}/sheet.xlsx", h.quoteSheet)
	mux.HandleFunc("PUT /orgs/{org}/quotes/{id}/status", h.setQuoteStatus)
	mux.HandleFunc("GET /orgs/{org}/pricelist.xlsx", h.priceList)
	mux.HandleFunc("DELETE /orgs/{org}/materials/{id}", h.deleteMaterial)
	mux.HandleFunc("PUT /orgs/{org}/params", h.saveParams)
	mux.HandleFunc("PUT /orgs/{org}/rates", h.saveRates)
	mux.HandleFunc("GET /convert/ream", h.convertReam)
	mux.HandleFunc("GET /convert/roll", h.convertRoll)
	mux.HandleFunc("GET /convert/pages", h.convertPages)
}

func (h *Handlers) productPrice(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathID(r, "org")
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid org id")
		return
	}
	productID, err := pathID(r, "id")
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	bd, err := h.Pricing.PriceProduct(r.Context(), orgID, productID)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrProductNotFound):
			httpError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, params.ErrOrganizationNotFound):
			httpError(w, http.StatusNotFound, "organization not found")
		default:
			h.Log.Error("price computation failed", "org_id", orgID, "product_id", productID, "err", err)
			httpError(w, http.StatusInternalServerError, "price computation failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, bd)
}

type quoteLineRequest struct {
	ProductID   int64           `json:"product_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
}

type quoteRequest struct {
	CustomerName     string             `json:"customer_name"`
	DiscountPercent  decimal.Decimal    `json:"discount_percent"`
	SurchargePercent decimal.Decimal    `json:"surcharge_percent"`
	Lines            []quoteLineRequest `json:"lines"`
}

func (h *Handlers) createQuote(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathID(r, "org")
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid org id")
		return
	}

	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Lines) == 0 {
		httpError(w, http.StatusBadRequest, "quote needs at least one line")
		return
	}
	for _, l := range req.Lines {
		if l.Quantity.Sign() <= 0 {
			httpError(w, http.StatusBadRequest, fmt.Sprintf("product %d: quantity must be positive", l.ProductID))
			return
		}
	}
	if req.DiscountPercent.Sign() < 0 || req.SurchargePercent.Sign() < 0 {
		httpError(w, http.StatusBadRequest, "percentages must not be negative")
		return
	}

	reqs := make([]quotes.LineRequest, 0, len(req.Lines))
	for _, l := range req.Lines {
		reqs = append(reqs, quotes.LineRequest{
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
		})
	}

	q, err := h.Quotes.Create(r.Context(), orgID, req.CustomerName,
		req.DiscountPercent, req.SurchargePercent, reqs)
	if err != nil {
		if errors.Is(err, pricing.ErrProductNotFound) {
			httpError(w, http.StatusNotFound, "product not found")
			return
		}
		h.Log.Error("quote creation failed", "org_id", orgID, "err", err)
		httpError(w, http.StatusInternalServerError, "quote creation failed")
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

// loadQuote resolves the org-scoped quote from the request path, writing the
// error response itself when the quote cannot be served.
func (h *Handlers) loadQuote(w http.ResponseWriter, r *http.Request) *quotes.Quote {
	orgID, err := pathID(r, "org")
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid org id")
		return nil
	}
	id, err := pathID(r, "id")
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid quote id")
		return nil
	}
	q, err := h.Quotes.Get(r.Context(), orgID, id)
	if err != nil {
		h.Log.Error("quote load failed", "org_id", orgID, "quote_id", id, "err", err)
		httpError(w, http.StatusInternalServerError, "quote load failed")
		return nil
	}
	if q == nil {
		httpError(w, http.StatusNotFound, "quote not found")
		return nil
	}
	return q
}

func (h *Handlers) getQuote(w http.ResponseWriter, r *http.Request) {
	q := h.loadQuote(w, r)
	if q == nil {
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handlers) quoteSheet(w http.ResponseWriter, r *http.Request) {
	q := h.loadQuote(w, r)
	if q == nil {
		return
	}
	data, err := export.QuoteSheet(*q)
	if err != nil {
		h.Log.Error("quote export failed", "quote_id", q.ID, "err", err)
		httpError(w, http.StatusInternalServerError, "export failed")
		return
	}
	serveXLSX(w, fmt.Sprintf("quote_%s.xlsx", q.Number), data)
}

type statusRequest struct {
	Status quotes.Status `json:"status"`
}

func (h *Handlers) setQuoteStatus(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathID(r, "org")
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid org id")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid quote id")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Status.Valid() {
		httpError(w, http.StatusBadRequest, "invalid status")
		return
	}

	if err := h.Quotes.SetStatus(r.Context(), orgID, id, req.Status); err != nil {
		if errors.Is(err, quotes.ErrQuoteNotFound) {
			httpError(w, http.StatusNotFound, "quote not found")
			return
		}
		h.Log.Error("quote status update failed", "quote_id", id, "err", err)
		httpError(w, http.StatusInternalServerError, "status update failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) priceList(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathID(r, "org")
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid org id")
		return
	}
	items, err := h.Materials.List(r.Context(), orgID, true)
	if err != nil {
		h.Log.Error("material list failed", "org_id", orgID, "err", err)
		httpError(w, http.StatusInternalServerError, "material list failed")
		return
	}
	data, err := export.PriceList(items)
	if err != nil {
		h.Log.Error("price list export failed", "org_id", orgID, "err", err)
		httpError(w, http.StatusInternalServerError, "export failed")
		return
	}
	serveXLSX(w, fmt.Sprintf("pricelist_%d_%s.xlsx", orgID, time.Now().Format("20060102_150405")), data)
}

func (h *Handlers) deleteMaterial(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathID(r, "org")
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid org id")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid material id")
		return
	}

	switch err := h.Materials.Delete(r.Context(), orgID, id); {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, materials.ErrMaterialInUse):
		httpError(w, http.StatusConflict, "material is referenced by product components")
	case errors.Is(err, materials.ErrMaterialNotFound):
		httpError(w, http.StatusNotFound, "material not found")
	default:
		h.Log.Error("material delete failed", "material_id", id, "err", err)
		httpError(w, http.StatusInternalServerError, "material delete failed")
	}
}

type paramsRequest struct {
	DefaultMarginPercent    decimal.Decimal `json:"default_margin_percent"`
	DefaultSurchargePercent decimal.Decimal `json:"default_surcharge_percent"`
	MaxDiscountPercent      decimal.Decimal `json:"max_discount_percent"`
	TaxPercent              decimal.Decimal `json:"tax_percent"`
	CardFeePercent          decimal.Decimal `json:"card_fee_percent"`
	EnergyMonthly           decimal.Decimal `json:"energy_monthly"`
	InternetMonthly         decimal.Decimal `json:"internet_monthly"`
	OtherFixedMonthly       decimal.Decimal `json:"other_fixed_monthly"`
	InkCostPerPercent       decimal.Decimal `json:"ink_cost_per_percent"`
	RoundTo                 decimal.Decimal `json:"round_to"`
	IncludeTaxesInBase      bool            `json:"include_taxes_in_base"`
}

func (req paramsRequest) validate() error {
	percents := map[string]decimal.Decimal{
		"default_margin_percent":    req.DefaultMarginPercent,
		"default_surcharge_percent": req.DefaultSurchargePercent,
		"max_discount_percent":      req.MaxDiscountPercent,
		"tax_percent":               req.TaxPercent,
		"card_fee_percent":          req.CardFeePercent,
	}
	for name, v := range percents {
		if v.Sign() < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	costs := map[string]decimal.Decimal{
		"energy_monthly":       req.EnergyMonthly,
		"internet_monthly":     req.InternetMonthly,
		"other_fixed_monthly":  req.OtherFixedMonthly,
		"ink_cost_per_percent": req.InkCostPerPercent,
		"round_to":             req.RoundTo,
	}
	for name, v := range costs {
		if v.Sign() < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

func (h *Handlers) saveParams(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathID(r, "org")
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid org id")
		return
	}

	var req paramsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := params.GlobalParams{
		OrgID:                   orgID,
		DefaultMarginPercent:    req.DefaultMarginPercent,
		DefaultSurchargePercent: req.DefaultSurchargePercent,
		MaxDiscountPercent:      req.MaxDiscountPercent,
		TaxPercent:              req.TaxPercent,
		CardFeePercent:          req.CardFeePercent,
		EnergyMonthly:           req.EnergyMonthly,
		InternetMonthly:         req.InternetMonthly,
		OtherFixedMonthly:       req.OtherFixedMonthly,
		InkCostPerPercent:       req.InkCostPerPercent,
		RoundTo:                 req.RoundTo,
		IncludeTaxesInBase:      req.IncludeTaxesInBase,
	}
	if err := h.Params.SaveGlobalParams(r.Context(), p); err != nil {
		if errors.Is(err, params.ErrOrganizationNotFound) {
			httpError(w, http.StatusNotFound, "organization not found")
			return
		}
		h.Log.Error("params save failed", "org_id", orgID, "err", err)
		httpError(w, http.StatusInternalServerError, "params save failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type ratesRequest struct {
	DesiredMonthlyIncome decimal.Decimal `json:"desired_monthly_income"`
	WorkingDaysPerMonth  int64           `json:"working_days_per_month"`
	HoursPerDay          decimal.Decimal `json:"hours_per_day"`
}

func (h *Handlers) saveRates(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathID(r, "org")
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid org id")
		return
	}

	var req ratesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DesiredMonthlyIncome.Sign() < 0 || req.WorkingDaysPerMonth < 0 || req.HoursPerDay.Sign() < 0 {
		httpError(w, http.StatusBadRequest, "rate table values must not be negative")
		return
	}

	t := params.LaborRateTable{
		OrgID:                orgID,
		DesiredMonthlyIncome: req.DesiredMonthlyIncome,
		WorkingDaysPerMonth:  req.WorkingDaysPerMonth,
		HoursPerDay:          req.HoursPerDay,
	}
	if err := h.Params.SaveLaborRateTable(r.Context(), t); err != nil {
		if errors.Is(err, params.ErrOrganizationNotFound) {
			httpError(w, http.StatusNotFound, "organization not found")
			return
		}
		h.Log.Error("rate table save failed", "org_id", orgID, "err", err)
		httpError(w, http.StatusInternalServerError, "rate table save failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Conversion helpers for material data entry: purchase records are keyed in
// reams, rolls or page counts but stored in base units.

func (h *Handlers) sheetsPerReam() int64 {
	if h.SheetsPerReam > 0 {
		return h.SheetsPerReam
	}
	return units.DefaultSheetsPerReam
}

func (h *Handlers) convertReam(w http.ResponseWriter, r *http.Request) {
	reams, err := queryDecimal(r, "reams")
	if err != nil || reams.Sign() <= 0 {
		httpError(w, http.StatusBadRequest, "reams must be a positive number")
		return
	}
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{
		"sheets": units.ReamToSheets(reams, h.sheetsPerReam()),
	})
}

func (h *Handlers) convertRoll(w http.ResponseWriter, r *http.Request) {
	widthCM, err := queryDecimal(r, "width_cm")
	if err != nil || widthCM.Sign() <= 0 {
		httpError(w, http.StatusBadRequest, "width_cm must be a positive number")
		return
	}
	lengthM, err := queryDecimal(r, "length_m")
	if err != nil || lengthM.Sign() <= 0 {
		httpError(w, http.StatusBadRequest, "length_m must be a positive number")
		return
	}
	rolls := decimal.NewFromInt(1)
	if r.URL.Query().Get("rolls") != "" {
		rolls, err = queryDecimal(r, "rolls")
		if err != nil || rolls.Sign() <= 0 {
			httpError(w, http.StatusBadRequest, "rolls must be a positive number")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{
		"area_m2":  units.RollToArea(widthCM, lengthM, rolls),
		"length_m": units.RollToLength(lengthM, rolls),
	})
}

func (h *Handlers) convertPages(w http.ResponseWriter, r *http.Request) {
	pages, err := strconv.ParseInt(r.URL.Query().Get("pages"), 10, 64)
	if err != nil || pages < 0 {
		httpError(w, http.StatusBadRequest, "pages must be a non-negative integer")
		return
	}
	perSheet, err := strconv.ParseInt(r.URL.Query().Get("per_sheet"), 10, 64)
	if err != nil {
		httpError(w, http.StatusBadRequest, "per_sheet must be an integer")
		return
	}
	duplex := r.URL.Query().Get("duplex") == "1" || r.URL.Query().Get("duplex") == "true"

	sheets, err := units.SheetsForPages(pages, perSheet, duplex)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"sheets": sheets})
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(r.PathValue(key), 10, 64)
}

func queryDecimal(r *http.Request, key string) (decimal.Decimal, error) {
	return decimal.NewFromString(r.URL.Query().Get(key))
}

func serveXLSX(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
