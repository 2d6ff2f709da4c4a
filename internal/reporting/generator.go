package reporting

import (
	"context"
	"fmt"
	"time"

	"fixedrate-amm-lab/internal/storage"
)

// Generator builds run reports from persisted records.
type Generator struct {
	runStore    storage.RunStore
	reportStore storage.AgentReportStore
	snapStore   storage.StepSnapshotStore
}

// GeneratorOptions contains configuration for creating a Generator.
// SnapshotStore is optional; without it the market path section is empty.
type GeneratorOptions struct {
	RunStore      storage.RunStore
	ReportStore   storage.AgentReportStore
	SnapshotStore storage.StepSnapshotStore
}

// NewGenerator creates a report generator.
func NewGenerator(opts GeneratorOptions) *Generator {
	return &Generator{
		runStore:    opts.RunStore,
		reportStore: opts.ReportStore,
		snapStore:   opts.SnapshotStore,
	}
}

// Generate builds the report for a run. Propagates storage.ErrNotFound when
// the run does not exist.
func (g *Generator) Generate(ctx context.Context, runID string) (*Report, error) {
	run, err := g.runStore.GetByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}

	records, err := g.reportStore.GetByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load agent reports for %s: %w", runID, err)
	}

	report := &Report{
		GeneratedAt: time.Now().UTC(),
		RunID:       runID,
		Summary: RunSummary{
			Steps:            run.Steps,
			StepSizeYears:    run.StepSizeYears,
			PositionDuration: run.PositionDuration,
			AgentCount:       run.AgentCount,
			FinalMarketTime:  run.FinalMarketTime,
			FinalSpotPrice:   run.FinalSpotPrice,
		},
	}

	for _, r := range records {
		report.Summary.TotalPnL += r.ProfitAndLoss
		report.AgentRows = append(report.AgentRows, AgentRow{
			Address:           r.Address,
			PolicyName:        r.PolicyName,
			Budget:            r.Budget,
			Worth:             r.Worth,
			ProfitAndLoss:     r.ProfitAndLoss,
			HoldingPeriodRate: r.HoldingPeriodRate,
			AnnualizedRate:    r.AnnualizedRate,
		})
	}

	if g.snapStore != nil {
		snapshots, err := g.snapStore.GetByRunID(ctx, runID)
		if err != nil {
			return nil, fmt.Errorf("load step snapshots for %s: %w", runID, err)
		}
		prices := make([]float64, 0, len(snapshots))
		for _, snap := range snapshots {
			prices = append(prices, snap.SpotPrice)
		}
		report.MarketPath = summarizePath(prices)
	}

	return report, nil
}

// summarizePath aggregates a chronological price path.
func summarizePath(prices []float64) MarketPathSummary {
	if len(prices) == 0 {
		return MarketPathSummary{}
	}

	summary := MarketPathSummary{
		SnapshotCount: len(prices),
		OpenPrice:     prices[0],
		ClosePrice:    prices[len(prices)-1],
		MinPrice:      prices[0],
		MaxPrice:      prices[0],
	}
	for _, p := range prices[1:] {
		if p < summary.MinPrice {
			summary.MinPrice = p
		}
		if p > summary.MaxPrice {
			summary.MaxPrice = p
		}
	}
	return summary
}
