package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"fixedrate-amm-lab/internal/domain"
	"fixedrate-amm-lab/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(ctx context.Context, r *domain.RunRecord) error {
	query := `
		INSERT INTO simulation_runs (
			run_id, started_at_ms, steps, step_size_years,
			position_duration_years, agent_count, final_spot_price, final_market_time
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8
		)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID, r.StartedAtMs, r.Steps, r.StepSizeYears,
		r.PositionDuration, r.AgentCount, r.FinalSpotPrice, r.FinalMarketTime,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.RunRecord, error) {
	query := `
		SELECT
			run_id, started_at_ms, steps, step_size_years,
			position_duration_years, agent_count, final_spot_price, final_market_time
		FROM simulation_runs
		WHERE run_id = $1
	`

	row := s.pool.QueryRow(ctx, query, runID)
	r, err := scanRun(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get run by id: %w", err)
	}
	return r, nil
}

// GetAll retrieves all runs, ordered by started_at ASC.
func (s *RunStore) GetAll(ctx context.Context) ([]*domain.RunRecord, error) {
	query := `
		SELECT
			run_id, started_at_ms, steps, step_size_years,
			position_duration_years, agent_count, final_spot_price, final_market_time
		FROM simulation_runs
		ORDER BY started_at_ms ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return runs, nil
}

// scanRun scans a single row into a RunRecord.
func scanRun(row pgx.Row) (*domain.RunRecord, error) {
	var r domain.RunRecord

	err := row.Scan(
		&r.RunID, &r.StartedAtMs, &r.Steps, &r.StepSizeYears,
		&r.PositionDuration, &r.AgentCount, &r.FinalSpotPrice, &r.FinalMarketTime,
	)
	if err != nil {
		return nil, err
	}

	return &r, nil
}
