package market

import (
	"errors"
	"math"

	"fixedrate-amm-lab/internal/simtime"
)

// ErrDegenerateMarketState is returned when spot price is requested while
// share reserves are non-positive. Reporting paths substitute a zero price
// instead of propagating this.
var ErrDegenerateMarketState = errors.New("share reserves are non-positive")

// PricingModel converts market state to a spot price. Trade sizing math lives
// with the model's owner, not in this package.
type PricingModel interface {
	// SpotPrice returns the current price of a bond in base terms.
	SpotPrice(state State, positionDuration simtime.StretchedTime) (float64, error)

	// Name returns the model identifier.
	Name() string
}

// ReservePricingModel prices bonds from the reserve ratio raised to the
// stretched time remaining on the term. It carries no trade execution math.
type ReservePricingModel struct{}

// NewReservePricingModel creates a ReservePricingModel.
func NewReservePricingModel() *ReservePricingModel {
	return &ReservePricingModel{}
}

// Name returns the model identifier.
func (m *ReservePricingModel) Name() string {
	return "RESERVE_RATIO"
}

// SpotPrice returns (shareReserves * sharePrice / bondReserves) ^ stretchedTime.
// Returns ErrDegenerateMarketState when share reserves are non-positive and a
// degenerate zero when bond reserves are empty.
func (m *ReservePricingModel) SpotPrice(state State, positionDuration simtime.StretchedTime) (float64, error) {
	if state.ShareReserves <= 0 {
		return 0, ErrDegenerateMarketState
	}
	if state.BondReserves <= 0 {
		return 0, nil
	}
	ratio := state.ShareReserves * state.SharePrice / state.BondReserves
	return math.Pow(ratio, positionDuration.StretchedTime()), nil
}

var _ PricingModel = (*ReservePricingModel)(nil)
