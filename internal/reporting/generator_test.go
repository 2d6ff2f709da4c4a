package reporting

import (
	"context"
	"errors"
	"testing"

	"fixedrate-amm-lab/internal/domain"
	"fixedrate-amm-lab/internal/storage"
	"fixedrate-amm-lab/internal/storage/memory"
)

func seedStores(t *testing.T) (*memory.RunStore, *memory.AgentReportStore, *memory.StepSnapshotStore) {
	t.Helper()
	ctx := context.Background()

	runStore := memory.NewRunStore()
	reportStore := memory.NewAgentReportStore()
	snapStore := memory.NewStepSnapshotStore()

	run := &domain.RunRecord{
		RunID:           "run-1",
		Steps:           3,
		StepSizeYears:   1.0 / 365,
		AgentCount:      2,
		FinalSpotPrice:  0.97,
		FinalMarketTime: 3.0 / 365,
	}
	if err := runStore.Insert(ctx, run); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	reports := []*domain.AgentReportRecord{
		{RunID: "run-1", Address: 0, PolicyName: "SINGLE_LONG_0.25", Budget: 1000, Worth: 1010, ProfitAndLoss: 10},
		{RunID: "run-1", Address: 1, PolicyName: "NO_ACTION", Budget: 1000, Worth: 1000, ProfitAndLoss: 0},
	}
	if err := reportStore.InsertBulk(ctx, reports); err != nil {
		t.Fatalf("seed reports: %v", err)
	}

	snapshots := []*domain.StepSnapshot{
		{RunID: "run-1", Step: 1, SpotPrice: 0.99},
		{RunID: "run-1", Step: 2, SpotPrice: 0.95},
		{RunID: "run-1", Step: 3, SpotPrice: 0.97},
	}
	if err := snapStore.InsertBulk(ctx, snapshots); err != nil {
		t.Fatalf("seed snapshots: %v", err)
	}

	return runStore, reportStore, snapStore
}

func TestGenerator_Generate(t *testing.T) {
	runStore, reportStore, snapStore := seedStores(t)

	gen := NewGenerator(GeneratorOptions{
		RunStore:      runStore,
		ReportStore:   reportStore,
		SnapshotStore: snapStore,
	})

	report, err := gen.Generate(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if report.Summary.AgentCount != 2 {
		t.Errorf("AgentCount = %d, want 2", report.Summary.AgentCount)
	}
	if report.Summary.TotalPnL != 10 {
		t.Errorf("TotalPnL = %f, want 10", report.Summary.TotalPnL)
	}
	if len(report.AgentRows) != 2 {
		t.Fatalf("Expected 2 agent rows, got %d", len(report.AgentRows))
	}

	path := report.MarketPath
	if path.SnapshotCount != 3 {
		t.Errorf("SnapshotCount = %d, want 3", path.SnapshotCount)
	}
	if path.OpenPrice != 0.99 || path.ClosePrice != 0.97 {
		t.Errorf("Open/Close = %f/%f, want 0.99/0.97", path.OpenPrice, path.ClosePrice)
	}
	if path.MinPrice != 0.95 || path.MaxPrice != 0.99 {
		t.Errorf("Min/Max = %f/%f, want 0.95/0.99", path.MinPrice, path.MaxPrice)
	}
}

func TestGenerator_WithoutSnapshotStore(t *testing.T) {
	runStore, reportStore, _ := seedStores(t)

	gen := NewGenerator(GeneratorOptions{
		RunStore:    runStore,
		ReportStore: reportStore,
	})

	report, err := gen.Generate(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if report.MarketPath.SnapshotCount != 0 {
		t.Errorf("Expected empty market path, got %d snapshots", report.MarketPath.SnapshotCount)
	}
}

func TestGenerator_RunNotFound(t *testing.T) {
	runStore, reportStore, snapStore := seedStores(t)

	gen := NewGenerator(GeneratorOptions{
		RunStore:      runStore,
		ReportStore:   reportStore,
		SnapshotStore: snapStore,
	})

	_, err := gen.Generate(context.Background(), "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
