package products

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mgoulart/precifica/internal/domain/materials"
)

// Product is the item being priced.
type Product struct {
	ID          int64
	OrgID       int64
	Name        string
	Code        string
	Description string

	ProductionMinutes int64

	// Optional ink cost modeled as a coverage percentage of a reference page.
	UsesInkCoverage    bool
	InkCoveragePercent decimal.Decimal

	// When invalid, the organization's default margin applies.
	MarginOverride decimal.NullDecimal

	Active bool

	// Informational snapshots of the last pipeline run. Never authoritative:
	// quoting and display recompute from current state.
	CachedCost  decimal.Decimal
	CachedPrice decimal.Decimal

	CreatedAt time.Time
}

// Component ties a product to a raw material: how much of the material's
// base unit one piece consumes, plus the wastage applied to that usage.
type Component struct {
	ID         int64
	ProductID  int64
	MaterialID int64

	Quantity       decimal.Decimal
	WastagePercent decimal.Decimal
	Notes          string
}

// ComponentWithMaterial is a component joined with its material, the shape
// the cost calculator consumes.
type ComponentWithMaterial struct {
	Component
	Material materials.Material
}
