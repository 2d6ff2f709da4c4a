package domain

// ActionType identifies a market operation.
type ActionType string

// Action type constants.
const (
	ActionOpenLong        ActionType = "OPEN_LONG"
	ActionCloseLong       ActionType = "CLOSE_LONG"
	ActionOpenShort       ActionType = "OPEN_SHORT"
	ActionCloseShort      ActionType = "CLOSE_SHORT"
	ActionAddLiquidity    ActionType = "ADD_LIQUIDITY"
	ActionRemoveLiquidity ActionType = "REMOVE_LIQUIDITY"
)

// Action is a proposed trade. MintTime is nil until it is stamped: policies
// may leave it unset, in which case the agent fills in the current market time
// before the action is submitted.
type Action struct {
	Type        ActionType
	TradeAmount float64
	MintTime    *float64
	Address     int
}
