package quotes

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mgoulart/precifica/internal/domain/pricing"
	"github.com/mgoulart/precifica/internal/infra/metrics"
)

var ErrQuoteNotFound = errors.New("quote not found")

// Pricer is what the quote service needs from the pricing engine.
type Pricer interface {
	PriceProduct(ctx context.Context, orgID, productID int64) (pricing.Breakdown, error)
}

// LineRequest asks for one product at a quantity.
type LineRequest struct {
	ProductID   int64
	Description string
	Quantity    decimal.Decimal
}

type Service struct {
	repo   *Repo
	pricer Pricer
}

func NewService(repo *Repo, pricer Pricer) *Service {
	return &Service{repo: repo, pricer: pricer}
}

// Create prices each requested product through the live pipeline and freezes
// the resulting final price onto the line. Later catalog or parameter
// changes do not reach lines created here.
func (s *Service) Create(ctx context.Context, orgID int64, customer string,
	discountPercent, surchargePercent decimal.Decimal, reqs []LineRequest) (*Quote, error) {

	q := Quote{
		OrgID:            orgID,
		CustomerName:     customer,
		DiscountPercent:  discountPercent,
		SurchargePercent: surchargePercent,
	}
	for _, req := range reqs {
		bd, err := s.pricer.PriceProduct(ctx, orgID, req.ProductID)
		if err != nil {
			return nil, fmt.Errorf("price product %d: %w", req.ProductID, err)
		}
		q.Lines = append(q.Lines, Line{
			ProductID:   req.ProductID,
			Description: req.Description,
			Quantity:    req.Quantity,
			UnitPrice:   bd.FinalPrice,
		})
	}

	created, err := s.repo.Create(ctx, q)
	if err != nil {
		return nil, err
	}
	metrics.QuotesCreated.Inc()
	return created, nil
}

// Get returns the quote only when it belongs to the organization; quotes of
// other tenants read as absent.
func (s *Service) Get(ctx context.Context, orgID, id int64) (*Quote, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil || q == nil {
		return nil, err
	}
	if q.OrgID != orgID {
		return nil, nil
	}
	return q, nil
}

// SetStatus moves an org's quote through its lifecycle. The frozen lines and
// totals are untouched.
func (s *Service) SetStatus(ctx context.Context, orgID, id int64, status Status) error {
	q, err := s.Get(ctx, orgID, id)
	if err != nil {
		return err
	}
	if q == nil {
		return ErrQuoteNotFound
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
