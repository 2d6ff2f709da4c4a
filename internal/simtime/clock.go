package simtime

// SecondsPerYear converts year-denominated time to seconds (mean Gregorian year).
const SecondsPerYear = 31_556_952

// Clock is the simulation's time source. Time is expressed in years and
// advances only through explicit ticks; components receive the clock by
// reference rather than consulting ambient global time.
type Clock struct {
	timeInYears float64
}

// NewClock creates a clock starting at the given time in years.
func NewClock(startYears float64) *Clock {
	return &Clock{timeInYears: startYears}
}

// Tick advances the clock by deltaYears. Negative deltas are accepted and move
// the clock backward; callers that need monotonic time must pass non-negative
// values.
func (c *Clock) Tick(deltaYears float64) {
	c.timeInYears += deltaYears
}

// Years returns the current time in years.
func (c *Clock) Years() float64 {
	return c.timeInYears
}

// Seconds returns the current time in seconds.
func (c *Clock) Seconds() float64 {
	return c.timeInYears * SecondsPerYear
}
