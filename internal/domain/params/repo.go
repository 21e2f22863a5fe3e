package params

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrOrganizationNotFound means the org key cannot be resolved at all; it is
// the only hard error price computation surfaces for configuration state.
var ErrOrganizationNotFound = errors.New("organization not found")

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// EnsureGlobalParams returns the organization's parameter row, materializing
// the documented defaults on first access. Two callers racing the first
// access both insert with ON CONFLICT DO NOTHING and converge on the one row
// the unique org key permits.
func (r *Repo) EnsureGlobalParams(ctx context.Context, orgID int64) (*GlobalParams, error) {
	d := DefaultGlobalParams(orgID)
	_, err := r.pool.Exec(ctx, `
		INSERT INTO global_params (org_id, default_margin_percent, default_surcharge_percent,
		                           max_discount_percent, tax_percent, card_fee_percent,
		                           energy_monthly, internet_monthly, other_fixed_monthly,
		                           ink_cost_per_percent, round_to, include_taxes_in_base)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (org_id) DO NOTHING
	`, d.OrgID, d.DefaultMarginPercent, d.DefaultSurchargePercent,
		d.MaxDiscountPercent, d.TaxPercent, d.CardFeePercent,
		d.EnergyMonthly, d.InternetMonthly, d.OtherFixedMonthly,
		d.InkCostPerPercent, d.RoundTo, d.IncludeTaxesInBase)
	if err != nil {
		return nil, mapMissingOrg(err)
	}

	row := r.pool.QueryRow(ctx, `
		SELECT org_id, default_margin_percent, default_surcharge_percent, max_discount_percent,
		       tax_percent, card_fee_percent, energy_monthly, internet_monthly, other_fixed_monthly,
		       ink_cost_per_percent, round_to, include_taxes_in_base
		FROM global_params WHERE org_id = $1
	`, orgID)

	var p GlobalParams
	if err := row.Scan(
		&p.OrgID,
		&p.DefaultMarginPercent,
		&p.DefaultSurchargePercent,
		&p.MaxDiscountPercent,
		&p.TaxPercent,
		&p.CardFeePercent,
		&p.EnergyMonthly,
		&p.InternetMonthly,
		&p.OtherFixedMonthly,
		&p.InkCostPerPercent,
		&p.RoundTo,
		&p.IncludeTaxesInBase,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// EnsureLaborRateTable mirrors EnsureGlobalParams for the labor calendar.
func (r *Repo) EnsureLaborRateTable(ctx context.Context, orgID int64) (*LaborRateTable, error) {
	d := DefaultLaborRateTable(orgID)
	_, err := r.pool.Exec(ctx, `
		INSERT INTO labor_rate_tables (org_id, desired_monthly_income, working_days_per_month, hours_per_day)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (org_id) DO NOTHING
	`, d.OrgID, d.DesiredMonthlyIncome, d.WorkingDaysPerMonth, d.HoursPerDay)
	if err != nil {
		return nil, mapMissingOrg(err)
	}

	row := r.pool.QueryRow(ctx, `
		SELECT org_id, desired_monthly_income, working_days_per_month, hours_per_day
		FROM labor_rate_tables WHERE org_id = $1
	`, orgID)

	var t LaborRateTable
	if err := row.Scan(&t.OrgID, &t.DesiredMonthlyIncome, &t.WorkingDaysPerMonth, &t.HoursPerDay); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) SaveGlobalParams(ctx context.Context, p GlobalParams) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO global_params (org_id, default_margin_percent, default_surcharge_percent,
		                           max_discount_percent, tax_percent, card_fee_percent,
		                           energy_monthly, internet_monthly, other_fixed_monthly,
		                           ink_cost_per_percent, round_to, include_taxes_in_base)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (org_id)
		DO UPDATE SET default_margin_percent=EXCLUDED.default_margin_percent,
		              default_surcharge_percent=EXCLUDED.default_surcharge_percent,
		              max_discount_percent=EXCLUDED.max_discount_percent,
		              tax_percent=EXCLUDED.tax_percent,
		              card_fee_percent=EXCLUDED.card_fee_percent,
		              energy_monthly=EXCLUDED.energy_monthly,
		              internet_monthly=EXCLUDED.internet_monthly,
		              other_fixed_monthly=EXCLUDED.other_fixed_monthly,
		              ink_cost_per_percent=EXCLUDED.ink_cost_per_percent,
		              round_to=EXCLUDED.round_to,
		              include_taxes_in_base=EXCLUDED.include_taxes_in_base,
		              updated_at=NOW()
	`, p.OrgID, p.DefaultMarginPercent, p.DefaultSurchargePercent,
		p.MaxDiscountPercent, p.TaxPercent, p.CardFeePercent,
		p.EnergyMonthly, p.InternetMonthly, p.OtherFixedMonthly,
		p.InkCostPerPercent, p.RoundTo, p.IncludeTaxesInBase)
	return mapMissingOrg(err)
}

func (r *Repo) SaveLaborRateTable(ctx context.Context, t LaborRateTable) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO labor_rate_tables (org_id, desired_monthly_income, working_days_per_month, hours_per_day)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (org_id)
		DO UPDATE SET desired_monthly_income=EXCLUDED.desired_monthly_income,
		              working_days_per_month=EXCLUDED.working_days_per_month,
		              hours_per_day=EXCLUDED.hours_per_day,
		              updated_at=NOW()
	`, t.OrgID, t.DesiredMonthlyIncome, t.WorkingDaysPerMonth, t.HoursPerDay)
	return mapMissingOrg(err)
}

func mapMissingOrg(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrOrganizationNotFound
	}
	return err
}
