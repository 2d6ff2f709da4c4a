package policy

import (
	"fixedrate-amm-lab/internal/domain"
)

// Policy chooses trades for an agent. The agent core treats it as an opaque
// capability: all trading logic lives behind this interface.
type Policy interface {
	// Propose returns the actions to submit for the current step, given a
	// read-only market snapshot and the proposing agent's wallet.
	Propose(snapshot domain.MarketSnapshot, wallet *domain.Wallet) ([]domain.Action, error)

	// Name returns the policy identifier.
	Name() string
}
