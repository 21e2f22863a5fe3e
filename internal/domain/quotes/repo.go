package quotes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Create inserts a quote and its lines in one transaction. Lines carry
// already-frozen unit prices; the stored total is denormalized from them.
func (r *Repo) Create(ctx context.Context, q Quote) (*Quote, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q.Total = Total(q.Lines, q.DiscountPercent, q.SurchargePercent)
	if q.Status == "" {
		q.Status = StatusDraft
	}
	if q.Number == "" {
		q.Number = fmt.Sprintf("Q-%d", time.Now().UnixNano())
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO quotes (org_id, customer_name, number, discount_percent, surcharge_percent,
		                    status, notes, total)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at
	`, q.OrgID, q.CustomerName, q.Number, q.DiscountPercent, q.SurchargePercent,
		q.Status, q.Notes, q.Total)
	if err := row.Scan(&q.ID, &q.CreatedAt); err != nil {
		return nil, err
	}

	for i := range q.Lines {
		l := &q.Lines[i]
		l.QuoteID = q.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO quote_lines (quote_id, product_id, description, quantity, unit_price)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING id
		`, l.QuoteID, l.ProductID, l.Description, l.Quantity, l.UnitPrice).Scan(&l.ID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Quote, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, org_id, customer_name, number, discount_percent, surcharge_percent,
		       status, notes, total, created_at
		FROM quotes WHERE id = $1
	`, id)

	var q Quote
	if err := row.Scan(
		&q.ID, &q.OrgID, &q.CustomerName, &q.Number, &q.DiscountPercent,
		&q.SurchargePercent, &q.Status, &q.Notes, &q.Total, &q.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, quote_id, product_id, description, quantity, unit_price
		FROM quote_lines WHERE quote_id = $1 ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.QuoteID, &l.ProductID, &l.Description, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		q.Lines = append(q.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *Repo) List(ctx context.Context, orgID int64) ([]Quote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, org_id, customer_name, number, discount_percent, surcharge_percent,
		       status, notes, total, created_at
		FROM quotes WHERE org_id = $1 ORDER BY created_at DESC, id DESC
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Quote
	for rows.Next() {
		var q Quote
		if err := rows.Scan(
			&q.ID, &q.OrgID, &q.CustomerName, &q.Number, &q.DiscountPercent,
			&q.SurchargePercent, &q.Status, &q.Notes, &q.Total, &q.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	_, err := r.pool.Exec(ctx, `UPDATE quotes SET status=$2 WHERE id=$1`, id, status)
	return err
}
