package postgres

import (
	"context"
	"fmt"

	"fixedrate-amm-lab/internal/domain"
	"fixedrate-amm-lab/internal/storage"
)

// AgentReportStore implements storage.AgentReportStore using PostgreSQL.
type AgentReportStore struct {
	pool *Pool
}

// NewAgentReportStore creates a new AgentReportStore.
func NewAgentReportStore(pool *Pool) *AgentReportStore {
	return &AgentReportStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AgentReportStore = (*AgentReportStore)(nil)

// InsertBulk adds multiple reports atomically. Fails entire batch on duplicate
// (run_id, address).
func (s *AgentReportStore) InsertBulk(ctx context.Context, reports []*domain.AgentReportRecord) error {
	if len(reports) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO agent_reports (
			run_id, address, policy_name, budget,
			worth, profit_and_loss, holding_period_rate, annualized_rate
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8
		)
	`

	for _, r := range reports {
		_, err := tx.Exec(ctx, query,
			r.RunID, r.Address, r.PolicyName, r.Budget,
			r.Worth, r.ProfitAndLoss, r.HoldingPeriodRate, r.AnnualizedRate,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert agent report in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByRunID retrieves all reports for a run, ordered by address ASC.
func (s *AgentReportStore) GetByRunID(ctx context.Context, runID string) ([]*domain.AgentReportRecord, error) {
	query := `
		SELECT
			run_id, address, policy_name, budget,
			worth, profit_and_loss, holding_period_rate, annualized_rate
		FROM agent_reports
		WHERE run_id = $1
		ORDER BY address ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get agent reports by run id: %w", err)
	}
	defer rows.Close()

	var reports []*domain.AgentReportRecord
	for rows.Next() {
		var r domain.AgentReportRecord

		err := rows.Scan(
			&r.RunID, &r.Address, &r.PolicyName, &r.Budget,
			&r.Worth, &r.ProfitAndLoss, &r.HoldingPeriodRate, &r.AnnualizedRate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan agent report row: %w", err)
		}

		reports = append(reports, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agent report rows: %w", err)
	}

	return reports, nil
}
