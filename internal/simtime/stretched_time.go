package simtime

import "errors"

// StretchedTime construction errors.
var (
	ErrNonPositiveTimeStretch  = errors.New("time stretch must be positive")
	ErrNonPositiveNormConstant = errors.New("normalizing constant must be positive")
)

// StretchedTime is a fixed span of days paired with the stretch factor and
// normalizing constant the pricing curve uses to compress effective time.
// Values are immutable after construction; derived views are pure functions
// over the fields, never cached state.
type StretchedTime struct {
	days                float64
	timeStretch         float64
	normalizingConstant float64
}

// NewStretchedTime creates an immutable stretched-time value.
func NewStretchedTime(days, timeStretch, normalizingConstant float64) (StretchedTime, error) {
	if timeStretch <= 0 {
		return StretchedTime{}, ErrNonPositiveTimeStretch
	}
	if normalizingConstant <= 0 {
		return StretchedTime{}, ErrNonPositiveNormConstant
	}
	return StretchedTime{
		days:                days,
		timeStretch:         timeStretch,
		normalizingConstant: normalizingConstant,
	}, nil
}

// Days returns the term length in days.
func (t StretchedTime) Days() float64 {
	return t.days
}

// TimeStretch returns the curve's time-stretch factor.
func (t StretchedTime) TimeStretch() float64 {
	return t.timeStretch
}

// NormalizingConstant returns the day count treated as one unit of time.
func (t StretchedTime) NormalizingConstant() float64 {
	return t.normalizingConstant
}

// NormalizedTime returns the term length as a fraction of the normalizing
// constant.
func (t StretchedTime) NormalizedTime() float64 {
	return NormDays(t.days, t.normalizingConstant)
}

// StretchedTime returns the normalized term length divided by the time
// stretch, the exponent form used by curve math.
func (t StretchedTime) StretchedTime() float64 {
	return DaysToTimeRemaining(t.days, t.timeStretch, t.normalizingConstant)
}
