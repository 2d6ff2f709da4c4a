package market

// State holds the pool's reserve balances.
type State struct {
	ShareReserves float64
	BondReserves  float64
	SharePrice    float64
	LPTotalSupply float64
}

// Delta is a sparse set of reserve changes produced by executing a trade,
// applied additively to the pool state.
type Delta struct {
	DShareReserves float64
	DBondReserves  float64
	DLPTotalSupply float64
}

// ApplyDelta adds a reserve delta to the state in place.
func (s *State) ApplyDelta(d Delta) {
	s.ShareReserves += d.DShareReserves
	s.BondReserves += d.DBondReserves
	s.LPTotalSupply += d.DLPTotalSupply
}
