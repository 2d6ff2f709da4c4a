package memory

import (
	"context"
	"errors"
	"testing"

	"fixedrate-amm-lab/internal/domain"
	"fixedrate-amm-lab/internal/storage"
)

func TestStepSnapshotStore_InsertBulkAndGet(t *testing.T) {
	store := NewStepSnapshotStore()
	ctx := context.Background()

	snapshots := []*domain.StepSnapshot{
		{RunID: "run-1", Step: 2, SpotPrice: 0.98},
		{RunID: "run-1", Step: 1, SpotPrice: 0.99},
		{RunID: "run-2", Step: 1, SpotPrice: 1.00},
	}

	if err := store.InsertBulk(ctx, snapshots); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 snapshots, got %d", len(got))
	}
	// Ordered by step ASC
	if got[0].Step != 1 || got[1].Step != 2 {
		t.Errorf("Snapshots out of order: %d, %d", got[0].Step, got[1].Step)
	}
}

func TestStepSnapshotStore_DuplicateKey(t *testing.T) {
	store := NewStepSnapshotStore()
	ctx := context.Background()

	first := []*domain.StepSnapshot{{RunID: "run-1", Step: 1}}
	if err := store.InsertBulk(ctx, first); err != nil {
		t.Fatalf("First InsertBulk failed: %v", err)
	}

	err := store.InsertBulk(ctx, []*domain.StepSnapshot{{RunID: "run-1", Step: 1}})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestStepSnapshotStore_GetByStepRange(t *testing.T) {
	store := NewStepSnapshotStore()
	ctx := context.Background()

	var snapshots []*domain.StepSnapshot
	for step := 1; step <= 10; step++ {
		snapshots = append(snapshots, &domain.StepSnapshot{RunID: "run-1", Step: step})
	}
	if err := store.InsertBulk(ctx, snapshots); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByStepRange(ctx, "run-1", 3, 6)
	if err != nil {
		t.Fatalf("GetByStepRange failed: %v", err)
	}

	if len(got) != 4 {
		t.Fatalf("Expected 4 snapshots, got %d", len(got))
	}
	if got[0].Step != 3 || got[3].Step != 6 {
		t.Errorf("Range bounds wrong: first %d last %d", got[0].Step, got[3].Step)
	}
}

func TestStepSnapshotStore_InvalidInput(t *testing.T) {
	store := NewStepSnapshotStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.StepSnapshot{{Step: 1}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
