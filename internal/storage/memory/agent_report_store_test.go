package memory

import (
	"context"
	"errors"
	"testing"

	"fixedrate-amm-lab/internal/domain"
	"fixedrate-amm-lab/internal/storage"
)

func TestAgentReportStore_InsertBulkAndGet(t *testing.T) {
	store := NewAgentReportStore()
	ctx := context.Background()

	reports := []*domain.AgentReportRecord{
		{RunID: "run-1", Address: 1, PolicyName: "SINGLE_SHORT_0.10", Worth: 998},
		{RunID: "run-1", Address: 0, PolicyName: "SINGLE_LONG_0.25", Worth: 1002},
		{RunID: "run-2", Address: 0, PolicyName: "NO_ACTION", Worth: 1000},
	}

	if err := store.InsertBulk(ctx, reports); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 reports, got %d", len(got))
	}
	// Ordered by address ASC
	if got[0].Address != 0 || got[1].Address != 1 {
		t.Errorf("Reports out of order: %d, %d", got[0].Address, got[1].Address)
	}
	if got[0].PolicyName != "SINGLE_LONG_0.25" {
		t.Errorf("PolicyName mismatch: %s", got[0].PolicyName)
	}
}

func TestAgentReportStore_DuplicateAcrossBatches(t *testing.T) {
	store := NewAgentReportStore()
	ctx := context.Background()

	first := []*domain.AgentReportRecord{{RunID: "run-1", Address: 0}}
	if err := store.InsertBulk(ctx, first); err != nil {
		t.Fatalf("First InsertBulk failed: %v", err)
	}

	second := []*domain.AgentReportRecord{
		{RunID: "run-1", Address: 1},
		{RunID: "run-1", Address: 0}, // duplicate
	}

	err := store.InsertBulk(ctx, second)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// Verify all-or-nothing
	all, _ := store.GetByRunID(ctx, "run-1")
	if len(all) != 1 {
		t.Errorf("Expected 1 report (no partial insert), got %d", len(all))
	}
}

func TestAgentReportStore_IntraBatchDuplicate(t *testing.T) {
	store := NewAgentReportStore()
	ctx := context.Background()

	reports := []*domain.AgentReportRecord{
		{RunID: "run-1", Address: 0},
		{RunID: "run-1", Address: 0},
	}

	err := store.InsertBulk(ctx, reports)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestAgentReportStore_EmptyBatch(t *testing.T) {
	store := NewAgentReportStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, nil); err != nil {
		t.Errorf("Empty batch should be a no-op, got %v", err)
	}
}
