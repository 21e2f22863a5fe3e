package materials

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrMaterialInUse is returned when deleting a material still referenced
	// by product components (FK RESTRICT).
	ErrMaterialInUse = errors.New("material is referenced by product components")

	ErrMaterialNotFound = errors.New("material not found")
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const materialColumns = `
	id, org_id, name, purchase_unit, purchase_qty, purchase_cost,
	base_unit, conversion_factor, wastage_percent, notes, active, created_at`

func scanMaterial(row pgx.Row) (*Material, error) {
	var m Material
	if err := row.Scan(
		&m.ID,
		&m.OrgID,
		&m.Name,
		&m.PurchaseUnit,
		&m.PurchaseQty,
		&m.PurchaseCost,
		&m.BaseUnit,
		&m.ConversionFactor,
		&m.WastagePercent,
		&m.Notes,
		&m.Active,
		&m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) Create(ctx context.Context, m Material) (*Material, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO materials (org_id, name, purchase_unit, purchase_qty, purchase_cost,
		                       base_unit, conversion_factor, wastage_percent, notes, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,TRUE)
		RETURNING`+materialColumns,
		m.OrgID, m.Name, m.PurchaseUnit, m.PurchaseQty, m.PurchaseCost,
		m.BaseUnit, m.ConversionFactor, m.WastagePercent, m.Notes)
	return scanMaterial(row)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Material, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+materialColumns+` FROM materials WHERE id = $1`, id)
	m, err := scanMaterial(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (r *Repo) List(ctx context.Context, orgID int64, onlyActive bool) ([]Material, error) {
	q := `SELECT` + materialColumns + ` FROM materials WHERE org_id = $1`
	if onlyActive {
		q += ` AND active = TRUE`
	}
	q += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *Repo) UpdatePurchase(ctx context.Context, id int64, m Material) (*Material, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE materials
		SET purchase_unit=$2, purchase_qty=$3, purchase_cost=$4,
		    base_unit=$5, conversion_factor=$6, wastage_percent=$7
		WHERE id=$1
		RETURNING`+materialColumns,
		id, m.PurchaseUnit, m.PurchaseQty, m.PurchaseCost,
		m.BaseUnit, m.ConversionFactor, m.WastagePercent)
	return scanMaterial(row)
}

func (r *Repo) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE materials SET active=$2 WHERE id=$1`, id, active)
	return err
}

// Delete removes an organization's material. Materials referenced by any
// product component are protected; the FK violation maps to ErrMaterialInUse.
func (r *Repo) Delete(ctx context.Context, orgID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM materials WHERE id=$1 AND org_id=$2`, id, orgID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrMaterialInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMaterialNotFound
	}
	return nil
}
