package domain

// PolicyConfig represents agent policy configuration parameters.
type PolicyConfig struct {
	PolicyType string // "NO_ACTION" | "SINGLE_LONG" | "SINGLE_SHORT" | "LIQUIDITY_PROVIDER"

	// SINGLE_LONG / SINGLE_SHORT / LIQUIDITY_PROVIDER parameters
	TradeFraction *float64 // fraction of budget committed by the opening trade
}

// Policy type constants.
const (
	PolicyTypeNoAction          = "NO_ACTION"
	PolicyTypeSingleLong        = "SINGLE_LONG"
	PolicyTypeSingleShort       = "SINGLE_SHORT"
	PolicyTypeLiquidityProvider = "LIQUIDITY_PROVIDER"
)
