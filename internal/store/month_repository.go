package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spanishgas/churnpipe/internal/contracts"
)

// CustomerMonthRepository persists the silver customer-month table. The
// margin breakdown travels as JSONB; everything else is a plain column.
type CustomerMonthRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerMonthRepository(pool *pgxpool.Pool) *CustomerMonthRepository {
	return &CustomerMonthRepository{pool: pool}
}

const upsertMonthSQL = `
	INSERT INTO silver.customer_months (
		customer_id, month,
		elec_kwh, gas_m3, gas_kwh,
		elec_kwh_peak, elec_kwh_standard, elec_kwh_offpeak,
		gas_m3_peak, gas_m3_standard, gas_m3_offpeak,
		gas_kwh_peak, gas_kwh_standard, gas_kwh_offpeak,
		province_code,
		price_tier_1, price_tier_2, price_tier_3,
		gas_price, elec_fixed_fee, gas_fixed_revenue_year,
		elec_var_cost, elec_network_cost, elec_fixed_cost,
		gas_var_cost, gas_fixed_cost_year,
		margins
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
	        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
	ON CONFLICT (customer_id, month) DO UPDATE SET
		elec_kwh = EXCLUDED.elec_kwh,
		gas_m3 = EXCLUDED.gas_m3,
		gas_kwh = EXCLUDED.gas_kwh,
		elec_kwh_peak = EXCLUDED.elec_kwh_peak,
		elec_kwh_standard = EXCLUDED.elec_kwh_standard,
		elec_kwh_offpeak = EXCLUDED.elec_kwh_offpeak,
		gas_m3_peak = EXCLUDED.gas_m3_peak,
		gas_m3_standard = EXCLUDED.gas_m3_standard,
		gas_m3_offpeak = EXCLUDED.gas_m3_offpeak,
		gas_kwh_peak = EXCLUDED.gas_kwh_peak,
		gas_kwh_standard = EXCLUDED.gas_kwh_standard,
		gas_kwh_offpeak = EXCLUDED.gas_kwh_offpeak,
		province_code = EXCLUDED.province_code,
		price_tier_1 = EXCLUDED.price_tier_1,
		price_tier_2 = EXCLUDED.price_tier_2,
		price_tier_3 = EXCLUDED.price_tier_3,
		gas_price = EXCLUDED.gas_price,
		elec_fixed_fee = EXCLUDED.elec_fixed_fee,
		gas_fixed_revenue_year = EXCLUDED.gas_fixed_revenue_year,
		elec_var_cost = EXCLUDED.elec_var_cost,
		elec_network_cost = EXCLUDED.elec_network_cost,
		elec_fixed_cost = EXCLUDED.elec_fixed_cost,
		gas_var_cost = EXCLUDED.gas_var_cost,
		gas_fixed_cost_year = EXCLUDED.gas_fixed_cost_year,
		margins = EXCLUDED.margins
`

// SaveBatch upserts customer-month rows in one round trip per batch.
func (r *CustomerMonthRepository) SaveBatch(ctx context.Context, months []contracts.CustomerMonth) error {
	if len(months) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range months {
		m := &months[i]

		var margins []byte
		if m.Margins != nil {
			var err error
			if margins, err = json.Marshal(m.Margins); err != nil {
				return fmt.Errorf("marshal margins: %w", err)
			}
		}

		batch.Queue(upsertMonthSQL,
			m.CustomerID, string(m.Month),
			m.ElecKWh, m.GasM3, m.GasKWh,
			m.ElecKWhPeak, m.ElecKWhStandard, m.ElecKWhOffPeak,
			m.GasM3Peak, m.GasM3Standard, m.GasM3OffPeak,
			m.GasKWhPeak, m.GasKWhStandard, m.GasKWhOffPeak,
			m.ProvinceCode,
			m.PriceTier1, m.PriceTier2, m.PriceTier3,
			m.GasPrice, m.ElecFixedFee, m.GasFixedRevenueYear,
			m.ElecVarCost, m.ElecNetworkCost, m.ElecFixedCost,
			m.GasVarCost, m.GasFixedCostYear,
			margins,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range months {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert customer month: %w", err)
		}
	}
	return nil
}

// GetByCustomer retrieves a customer's months in chronological order.
func (r *CustomerMonthRepository) GetByCustomer(ctx context.Context, customerID string) ([]contracts.CustomerMonth, error) {
	query := `
		SELECT customer_id, month,
		       elec_kwh, gas_m3, gas_kwh,
		       elec_kwh_peak, elec_kwh_standard, elec_kwh_offpeak,
		       gas_m3_peak, gas_m3_standard, gas_m3_offpeak,
		       gas_kwh_peak, gas_kwh_standard, gas_kwh_offpeak,
		       province_code,
		       price_tier_1, price_tier_2, price_tier_3,
		       gas_price, elec_fixed_fee, gas_fixed_revenue_year,
		       elec_var_cost, elec_network_cost, elec_fixed_cost,
		       gas_var_cost, gas_fixed_cost_year,
		       margins
		FROM silver.customer_months
		WHERE customer_id = $1
		ORDER BY month ASC
	`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []contracts.CustomerMonth
	for rows.Next() {
		var m contracts.CustomerMonth
		var month string
		var margins []byte
		err := rows.Scan(
			&m.CustomerID, &month,
			&m.ElecKWh, &m.GasM3, &m.GasKWh,
			&m.ElecKWhPeak, &m.ElecKWhStandard, &m.ElecKWhOffPeak,
			&m.GasM3Peak, &m.GasM3Standard, &m.GasM3OffPeak,
			&m.GasKWhPeak, &m.GasKWhStandard, &m.GasKWhOffPeak,
			&m.ProvinceCode,
			&m.PriceTier1, &m.PriceTier2, &m.PriceTier3,
			&m.GasPrice, &m.ElecFixedFee, &m.GasFixedRevenueYear,
			&m.ElecVarCost, &m.ElecNetworkCost, &m.ElecFixedCost,
			&m.GasVarCost, &m.GasFixedCostYear,
			&margins,
		)
		if err != nil {
			return nil, err
		}
		m.Month = contracts.Month(month)
		if len(margins) > 0 {
			m.Margins = &contracts.MarginBreakdown{}
			if err := json.Unmarshal(margins, m.Margins); err != nil {
				return nil, fmt.Errorf("unmarshal margins: %w", err)
			}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
