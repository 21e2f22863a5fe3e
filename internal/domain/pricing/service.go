package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mgoulart/precifica/internal/domain/params"
	"github.com/mgoulart/precifica/internal/domain/products"
	"github.com/mgoulart/precifica/internal/infra/metrics"
)

var ErrProductNotFound = errors.New("product not found")

// Service glues storage to the pure pipeline: it resolves the product, its
// components and the organization context, materializes defaults where
// missing, computes the breakdown, and refreshes the informational price
// cache on the product.
type Service struct {
	products *products.Repo
	params   *params.Repo
	log      *slog.Logger
}

func NewService(productRepo *products.Repo, paramRepo *params.Repo, log *slog.Logger) *Service {
	return &Service{products: productRepo, params: paramRepo, log: log}
}

// PriceProduct runs the full pipeline for one product against current
// catalog state. Degenerate data never errors; only an unresolvable product
// or organization does.
func (s *Service) PriceProduct(ctx context.Context, orgID, productID int64) (Breakdown, error) {
	bd, err := s.priceProduct(ctx, orgID, productID)
	if err != nil {
		metrics.PriceComputationErrors.Inc()
		return Breakdown{}, err
	}
	metrics.PriceComputations.Inc()
	return bd, nil
}

func (s *Service) priceProduct(ctx context.Context, orgID, productID int64) (Breakdown, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return Breakdown{}, fmt.Errorf("load product %d: %w", productID, err)
	}
	if product == nil || product.OrgID != orgID {
		return Breakdown{}, ErrProductNotFound
	}

	gp, err := s.params.EnsureGlobalParams(ctx, orgID)
	if err != nil {
		return Breakdown{}, fmt.Errorf("ensure global params for org %d: %w", orgID, err)
	}
	rates, err := s.params.EnsureLaborRateTable(ctx, orgID)
	if err != nil {
		return Breakdown{}, fmt.Errorf("ensure labor rate table for org %d: %w", orgID, err)
	}

	comps, err := s.products.ListComponents(ctx, productID)
	if err != nil {
		return Breakdown{}, fmt.Errorf("load components of product %d: %w", productID, err)
	}

	in := Input{
		ProductionMinutes:  product.ProductionMinutes,
		UsesInkCoverage:    product.UsesInkCoverage,
		InkCoveragePercent: product.InkCoveragePercent,
		MarginOverride:     product.MarginOverride,
		Params:             *gp,
		Rates:              *rates,
	}
	for _, c := range comps {
		if c.Material.PurchaseBroken() {
			in.Advisories = append(in.Advisories, AdviseBrokenPurchase(c.Material.Name))
		}
		in.Components = append(in.Components, ComponentInput{
			MaterialName:    c.Material.Name,
			CostPerBaseUnit: c.Material.CostPerBaseUnit(),
			Quantity:        c.Quantity,
			WastagePercent:  c.WastagePercent,
		})
	}

	bd := Compute(in)

	// Best-effort cache snapshot; a failed write is logged and counted but
	// never fails the computation.
	if err := s.products.UpdateCachedPrice(ctx, product.ID, bd.CostTotal, bd.FinalPrice); err != nil {
		metrics.CacheRefreshFailures.Inc()
		s.log.Warn("price cache refresh failed", "product_id", product.ID, "err", err)
	}

	return bd, nil
}
