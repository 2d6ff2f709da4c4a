package clickhouse

import (
	"context"
	"fmt"

	"fixedrate-amm-lab/internal/domain"
	"fixedrate-amm-lab/internal/storage"
)

// StepSnapshotStore implements storage.StepSnapshotStore using ClickHouse.
type StepSnapshotStore struct {
	conn *Conn
}

// NewStepSnapshotStore creates a new StepSnapshotStore.
func NewStepSnapshotStore(conn *Conn) *StepSnapshotStore {
	return &StepSnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.StepSnapshotStore = (*StepSnapshotStore)(nil)

// InsertBulk adds multiple snapshots. Fails entire batch on duplicate
// (run_id, step). ClickHouse MergeTree does not enforce uniqueness, so
// duplicates are checked explicitly before the batch is sent.
func (s *StepSnapshotStore) InsertBulk(ctx context.Context, snapshots []*domain.StepSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		runID string
		step  int
	}
	seen := make(map[key]struct{})
	for _, snap := range snapshots {
		if snap == nil || snap.RunID == "" {
			return storage.ErrInvalidInput
		}
		k := key{snap.RunID, snap.Step}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, snap := range snapshots {
		exists, err := s.exists(ctx, snap.RunID, snap.Step)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO step_snapshots (
			run_id, step, market_time, spot_price,
			share_reserves, bond_reserves, lp_total_supply,
			agent_base, agent_fees
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, snap := range snapshots {
		err = batch.Append(
			snap.RunID, uint32(snap.Step), snap.MarketTime, snap.SpotPrice,
			snap.ShareReserves, snap.BondReserves, snap.LPTotalSupply,
			snap.AgentBase, snap.AgentFees,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunID retrieves all snapshots for a run, ordered by step ASC.
func (s *StepSnapshotStore) GetByRunID(ctx context.Context, runID string) ([]*domain.StepSnapshot, error) {
	query := `
		SELECT run_id, step, market_time, spot_price,
			share_reserves, bond_reserves, lp_total_supply,
			agent_base, agent_fees
		FROM step_snapshots
		WHERE run_id = ?
		ORDER BY step ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run id: %w", err)
	}
	defer rows.Close()

	return scanStepSnapshots(rows)
}

// GetByStepRange retrieves snapshots for a run within [from, to] (inclusive).
func (s *StepSnapshotStore) GetByStepRange(ctx context.Context, runID string, from, to int) ([]*domain.StepSnapshot, error) {
	query := `
		SELECT run_id, step, market_time, spot_price,
			share_reserves, bond_reserves, lp_total_supply,
			agent_base, agent_fees
		FROM step_snapshots
		WHERE run_id = ? AND step >= ? AND step <= ?
		ORDER BY step ASC
	`

	rows, err := s.conn.Query(ctx, query, runID, uint32(from), uint32(to))
	if err != nil {
		return nil, fmt.Errorf("query by step range: %w", err)
	}
	defer rows.Close()

	return scanStepSnapshots(rows)
}

// exists checks if a snapshot with the given key exists.
func (s *StepSnapshotStore) exists(ctx context.Context, runID string, step int) (bool, error) {
	query := `
		SELECT count(*) FROM step_snapshots
		WHERE run_id = ? AND step = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, runID, uint32(step)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// chRows abstracts driver rows for scanning.
type chRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanStepSnapshots scans multiple rows.
func scanStepSnapshots(rows chRows) ([]*domain.StepSnapshot, error) {
	var snapshots []*domain.StepSnapshot

	for rows.Next() {
		var snap domain.StepSnapshot
		var step uint32

		err := rows.Scan(
			&snap.RunID, &step, &snap.MarketTime, &snap.SpotPrice,
			&snap.ShareReserves, &snap.BondReserves, &snap.LPTotalSupply,
			&snap.AgentBase, &snap.AgentFees,
		)
		if err != nil {
			return nil, fmt.Errorf("scan step snapshot row: %w", err)
		}

		snap.Step = int(step)
		snapshots = append(snapshots, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate step snapshot rows: %w", err)
	}

	return snapshots, nil
}
