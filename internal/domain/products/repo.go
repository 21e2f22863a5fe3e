package products

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const productColumns = `
	id, org_id, name, code, description, production_minutes,
	uses_ink_coverage, ink_coverage_percent, margin_override,
	active, cached_cost, cached_price, created_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	if err := row.Scan(
		&p.ID,
		&p.OrgID,
		&p.Name,
		&p.Code,
		&p.Description,
		&p.ProductionMinutes,
		&p.UsesInkCoverage,
		&p.InkCoveragePercent,
		&p.MarginOverride,
		&p.Active,
		&p.CachedCost,
		&p.CachedPrice,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Create(ctx context.Context, p Product) (*Product, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (org_id, name, code, description, production_minutes,
		                      uses_ink_coverage, ink_coverage_percent, margin_override, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,TRUE)
		RETURNING`+productColumns,
		p.OrgID, p.Name, p.Code, p.Description, p.ProductionMinutes,
		p.UsesInkCoverage, p.InkCoveragePercent, p.MarginOverride)
	return scanProduct(row)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *Repo) List(ctx context.Context, orgID int64, onlyActive bool) ([]Product, error) {
	q := `SELECT` + productColumns + ` FROM products WHERE org_id = $1`
	if onlyActive {
		q += ` AND active = TRUE`
	}
	q += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// UpsertComponent sets the material usage on a product. One row per
// (product, material); re-adding the same material updates it.
func (r *Repo) UpsertComponent(ctx context.Context, c Component) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO product_components (product_id, material_id, quantity, wastage_percent, notes)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (product_id, material_id)
		DO UPDATE SET quantity=EXCLUDED.quantity, wastage_percent=EXCLUDED.wastage_percent,
		              notes=EXCLUDED.notes
		RETURNING id
	`, c.ProductID, c.MaterialID, c.Quantity, c.WastagePercent, c.Notes).Scan(&id)
	return id, err
}

func (r *Repo) RemoveComponent(ctx context.Context, productID, materialID int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM product_components WHERE product_id=$1 AND material_id=$2`,
		productID, materialID)
	return err
}

// ListComponents returns a product's components joined with their materials,
// ordered as entered.
func (r *Repo) ListComponents(ctx context.Context, productID int64) ([]ComponentWithMaterial, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.product_id, c.material_id, c.quantity, c.wastage_percent, c.notes,
		       m.id, m.org_id, m.name, m.purchase_unit, m.purchase_qty, m.purchase_cost,
		       m.base_unit, m.conversion_factor, m.wastage_percent, m.notes, m.active, m.created_at
		FROM product_components c
		JOIN materials m ON m.id = c.material_id
		WHERE c.product_id = $1
		ORDER BY c.id
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ComponentWithMaterial
	for rows.Next() {
		var cm ComponentWithMaterial
		if err := rows.Scan(
			&cm.ID, &cm.ProductID, &cm.MaterialID, &cm.Quantity, &cm.WastagePercent, &cm.Notes,
			&cm.Material.ID, &cm.Material.OrgID, &cm.Material.Name, &cm.Material.PurchaseUnit,
			&cm.Material.PurchaseQty, &cm.Material.PurchaseCost, &cm.Material.BaseUnit,
			&cm.Material.ConversionFactor, &cm.Material.WastagePercent, &cm.Material.Notes,
			&cm.Material.Active, &cm.Material.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, cm)
	}
	return out, rows.Err()
}

// UpdateCachedPrice stores the informational cost/price snapshot.
func (r *Repo) UpdateCachedPrice(ctx context.Context, id int64, cost, price decimal.Decimal) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE products SET cached_cost=$2, cached_price=$3 WHERE id=$1`,
		id, cost, price)
	return err
}
