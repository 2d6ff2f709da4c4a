package domain

// PerformanceReport is a point-in-time view of an agent's realized
// performance. AnnualizedRate is NaN when the report is taken at time zero;
// there is no meaningful annualization before any time has elapsed.
type PerformanceReport struct {
	Address           int
	MarketTime        float64
	MarkPrice         float64
	Worth             float64
	Base              float64
	PositionTotal     float64
	ProfitAndLoss     float64
	WeightedSpend     float64
	HoldingPeriodRate float64
	AnnualizedRate    float64
}
