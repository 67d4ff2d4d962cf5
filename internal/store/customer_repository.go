package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spanishgas/churnpipe/internal/contracts"
)

// CustomerRepository persists the silver customer table.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

const upsertCustomerSQL = `
	INSERT INTO silver.customers (
		customer_id, churn, is_industrial, contracted_power_kw,
		is_second_residence, province_code, sales_channel,
		first_activation_date, next_renewal_date, last_product_change_date,
		has_interaction, last_interaction_date, interaction_summary,
		customer_intent, sentiment_label, sentiment_neg, sentiment_neu,
		sentiment_pos, segment, residential_type
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
	        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	ON CONFLICT (customer_id) DO UPDATE SET
		churn = EXCLUDED.churn,
		is_industrial = EXCLUDED.is_industrial,
		contracted_power_kw = EXCLUDED.contracted_power_kw,
		is_second_residence = EXCLUDED.is_second_residence,
		province_code = EXCLUDED.province_code,
		sales_channel = EXCLUDED.sales_channel,
		first_activation_date = EXCLUDED.first_activation_date,
		next_renewal_date = EXCLUDED.next_renewal_date,
		last_product_change_date = EXCLUDED.last_product_change_date,
		has_interaction = EXCLUDED.has_interaction,
		last_interaction_date = EXCLUDED.last_interaction_date,
		interaction_summary = EXCLUDED.interaction_summary,
		customer_intent = EXCLUDED.customer_intent,
		sentiment_label = EXCLUDED.sentiment_label,
		sentiment_neg = EXCLUDED.sentiment_neg,
		sentiment_neu = EXCLUDED.sentiment_neu,
		sentiment_pos = EXCLUDED.sentiment_pos,
		segment = EXCLUDED.segment,
		residential_type = EXCLUDED.residential_type
`

func customerArgs(c *contracts.Customer) []interface{} {
	return []interface{}{
		c.CustomerID, c.Churn, c.IsIndustrial, c.ContractedPowerKW,
		c.IsSecondResidence, c.ProvinceCode, c.SalesChannel,
		c.FirstActivationDate, c.NextRenewalDate, c.LastProductChangeDate,
		c.HasInteraction, c.LastInteractionDate, c.InteractionSummary,
		c.CustomerIntent, c.SentimentLabel, c.SentimentNeg, c.SentimentNeu,
		c.SentimentPos, c.Segment, c.ResidentialType,
	}
}

// SaveBatch upserts customers in one round trip per batch.
func (r *CustomerRepository) SaveBatch(ctx context.Context, customers []contracts.Customer) error {
	if len(customers) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range customers {
		batch.Queue(upsertCustomerSQL, customerArgs(&customers[i])...)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range customers {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert customer: %w", err)
		}
	}
	return nil
}

const selectCustomerSQL = `
	SELECT customer_id, churn, is_industrial, contracted_power_kw,
	       is_second_residence, province_code, sales_channel,
	       first_activation_date, next_renewal_date, last_product_change_date,
	       has_interaction, last_interaction_date, interaction_summary,
	       customer_intent, sentiment_label, sentiment_neg, sentiment_neu,
	       sentiment_pos, segment, residential_type
	FROM silver.customers
`

func scanCustomer(row pgx.Row) (contracts.Customer, error) {
	var c contracts.Customer
	err := row.Scan(
		&c.CustomerID, &c.Churn, &c.IsIndustrial, &c.ContractedPowerKW,
		&c.IsSecondResidence, &c.ProvinceCode, &c.SalesChannel,
		&c.FirstActivationDate, &c.NextRenewalDate, &c.LastProductChangeDate,
		&c.HasInteraction, &c.LastInteractionDate, &c.InteractionSummary,
		&c.CustomerIntent, &c.SentimentLabel, &c.SentimentNeg, &c.SentimentNeu,
		&c.SentimentPos, &c.Segment, &c.ResidentialType,
	)
	return c, err
}

// GetByID retrieves one customer.
func (r *CustomerRepository) GetByID(ctx context.Context, customerID string) (*contracts.Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx, selectCustomerSQL+` WHERE customer_id = $1`, customerID))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetAll retrieves the full customer table, ordered by id.
func (r *CustomerRepository) GetAll(ctx context.Context) ([]contracts.Customer, error) {
	rows, err := r.pool.Query(ctx, selectCustomerSQL+` ORDER BY customer_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []contracts.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
