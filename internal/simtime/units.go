package simtime

import (
	"errors"
	"math"
)

// Unit conversion errors.
var (
	// ErrInvalidTimeOrdering is returned when a position's mint time is after
	// the market time it is being queried against. This signals a caller bug.
	ErrInvalidTimeOrdering = errors.New("mint time is after market time")
)

// DefaultNormalizingConstant is the number of days treated as one unit of
// normalized time.
const DefaultNormalizingConstant = 365.0

// NormDays converts an amount of days to fractions of a normalizing constant.
func NormDays(days, normalizingConstant float64) float64 {
	return days / normalizingConstant
}

// UnnormDays converts normalized days back to days. Exact inverse of NormDays
// for the same normalizing constant.
func UnnormDays(normedDays, normalizingConstant float64) float64 {
	return normedDays * normalizingConstant
}

// DaysToTimeRemaining converts remaining term length in days to normalized and
// stretched time, the representation consumed by the pricing curve.
func DaysToTimeRemaining(daysRemaining, timeStretch, normalizingConstant float64) float64 {
	return NormDays(daysRemaining, normalizingConstant) / timeStretch
}

// TimeToDaysRemaining converts normalized and stretched time remaining back to
// days. Exact inverse of DaysToTimeRemaining for matching parameters.
func TimeToDaysRemaining(timeRemaining, timeStretch, normalizingConstant float64) float64 {
	return UnnormDays(timeRemaining*timeStretch, normalizingConstant)
}

// YearsRemaining returns the time left until maturity, in years, for a position
// minted at mintTime and queried at marketTime. Saturates at zero once the
// position duration has elapsed. Returns ErrInvalidTimeOrdering if the position
// was minted after the query time.
func YearsRemaining(marketTime, mintTime, positionDurationYears float64) (float64, error) {
	if mintTime > marketTime {
		return 0, ErrInvalidTimeOrdering
	}
	yearsElapsed := marketTime - mintTime
	return math.Max(positionDurationYears-yearsElapsed, 0), nil
}
