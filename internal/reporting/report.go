package reporting

import "time"

// Report is the rendered view of one simulation run.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string

	// Run Summary
	Summary RunSummary

	// Per-agent performance (sorted by address)
	AgentRows []AgentRow

	// Market path summary over the run's step snapshots
	MarketPath MarketPathSummary
}

// RunSummary describes the run configuration and aggregate outcome.
type RunSummary struct {
	Steps            int
	StepSizeYears    float64
	PositionDuration float64 // years
	AgentCount       int
	FinalMarketTime  float64 // years
	FinalSpotPrice   float64
	TotalPnL         float64
}

// AgentRow represents one agent in the performance table.
type AgentRow struct {
	Address           int
	PolicyName        string
	Budget            float64
	Worth             float64
	ProfitAndLoss     float64
	HoldingPeriodRate float64
	AnnualizedRate    float64
}

// MarketPathSummary aggregates the recorded price path.
type MarketPathSummary struct {
	SnapshotCount int
	OpenPrice     float64
	ClosePrice    float64
	MinPrice      float64
	MaxPrice      float64
}
