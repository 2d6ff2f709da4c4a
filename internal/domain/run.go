package domain

// RunRecord describes one completed simulation run.
type RunRecord struct {
	RunID            string
	StartedAtMs      int64
	Steps            int
	StepSizeYears    float64
	PositionDuration float64 // years
	AgentCount       int
	FinalSpotPrice   float64
	FinalMarketTime  float64 // years
}

// StepSnapshot is one per-step observation of market and aggregate agent
// state, persisted as a timeseries.
type StepSnapshot struct {
	RunID         string
	Step          int
	MarketTime    float64 // years
	SpotPrice     float64
	ShareReserves float64
	BondReserves  float64
	LPTotalSupply float64
	AgentBase     float64 // summed across agents
	AgentFees     float64 // summed across agents
}

// AgentReportRecord is a persisted final performance report for one agent in
// a run.
type AgentReportRecord struct {
	RunID             string
	Address           int
	PolicyName        string
	Budget            float64
	Worth             float64
	ProfitAndLoss     float64
	HoldingPeriodRate float64
	AnnualizedRate    float64
}
