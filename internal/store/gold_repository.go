package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spanishgas/churnpipe/internal/contracts"
)

// GoldRepository persists the gold master. The feature tiers travel as one
// JSONB document per customer: the feature set evolves run to run, so a
// fixed column list would churn the schema with it.
type GoldRepository struct {
	pool *pgxpool.Pool
}

func NewGoldRepository(pool *pgxpool.Pool) *GoldRepository {
	return &GoldRepository{pool: pool}
}

const upsertGoldSQL = `
	INSERT INTO gold.master (customer_id, run_id, churn, features)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (customer_id) DO UPDATE SET
		run_id = EXCLUDED.run_id,
		churn = EXCLUDED.churn,
		features = EXCLUDED.features
`

// SaveBatch upserts gold rows tagged with the run that produced them.
func (r *GoldRepository) SaveBatch(ctx context.Context, runID string, rows []contracts.GoldRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range rows {
		row := &rows[i]
		features, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshal gold features: %w", err)
		}
		batch.Queue(upsertGoldSQL, row.CustomerID, runID, row.Churn, features)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert gold row: %w", err)
		}
	}
	return nil
}

// GetByID retrieves one customer's gold row.
func (r *GoldRepository) GetByID(ctx context.Context, customerID string) (*contracts.GoldRow, error) {
	query := `SELECT features FROM gold.master WHERE customer_id = $1`

	var features []byte
	if err := r.pool.QueryRow(ctx, query, customerID).Scan(&features); err != nil {
		return nil, err
	}

	var row contracts.GoldRow
	if err := json.Unmarshal(features, &row); err != nil {
		return nil, fmt.Errorf("unmarshal gold features: %w", err)
	}
	return &row, nil
}

// CountByRun returns how many gold rows the given run produced.
func (r *GoldRepository) CountByRun(ctx context.Context, runID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM gold.master WHERE run_id = $1`, runID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
