package domain

// MarketSnapshot is the read-only market view handed to policies and used for
// reporting. SpotPrice is zero when reserves are degenerate.
type MarketSnapshot struct {
	MarketTime            float64 // years
	SpotPrice             float64
	ShareReserves         float64
	BondReserves          float64
	SharePrice            float64
	LPTotalSupply         float64
	PositionDurationYears float64
}
