package storage

import (
	"context"

	"fixedrate-amm-lab/internal/domain"
)

// RunStore provides access to simulation_runs storage.
type RunStore interface {
	// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.RunRecord) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.RunRecord, error)

	// GetAll retrieves all runs, ordered by started_at ASC.
	GetAll(ctx context.Context) ([]*domain.RunRecord, error)
}

// AgentReportStore provides access to agent_reports storage.
type AgentReportStore interface {
	// InsertBulk adds multiple reports atomically. Fails entire batch on
	// duplicate (run_id, address).
	InsertBulk(ctx context.Context, reports []*domain.AgentReportRecord) error

	// GetByRunID retrieves all reports for a run, ordered by address ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.AgentReportRecord, error)
}

// StepSnapshotStore provides access to step_snapshots storage.
type StepSnapshotStore interface {
	// InsertBulk adds multiple snapshots. Fails entire batch on duplicate
	// (run_id, step).
	InsertBulk(ctx context.Context, snapshots []*domain.StepSnapshot) error

	// GetByRunID retrieves all snapshots for a run, ordered by step ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.StepSnapshot, error)

	// GetByStepRange retrieves snapshots for a run within [from, to] (inclusive).
	GetByStepRange(ctx context.Context, runID string, from, to int) ([]*domain.StepSnapshot, error)
}
