package policy

import (
	"fmt"

	"fixedrate-amm-lab/internal/domain"
)

// SingleLongPolicy opens one long with a fraction of the agent's base balance
// on its first opportunity, then holds.
type SingleLongPolicy struct {
	TradeFraction float64
	opened        bool
}

// NewSingleLongPolicy creates a SingleLongPolicy.
func NewSingleLongPolicy(tradeFraction float64) *SingleLongPolicy {
	return &SingleLongPolicy{TradeFraction: tradeFraction}
}

// Name returns the policy identifier including parameters.
func (p *SingleLongPolicy) Name() string {
	return fmt.Sprintf("%s_%.2f", domain.PolicyTypeSingleLong, p.TradeFraction)
}

// Propose opens a single long sized from the wallet's base balance. Skips the
// step when the market is degenerate or the wallet has no base to commit.
func (p *SingleLongPolicy) Propose(snapshot domain.MarketSnapshot, wallet *domain.Wallet) ([]domain.Action, error) {
	if p.opened || snapshot.SpotPrice <= 0 {
		return nil, nil
	}
	amount := wallet.Base * p.TradeFraction
	if amount <= 0 {
		return nil, nil
	}
	p.opened = true
	return []domain.Action{{
		Type:        domain.ActionOpenLong,
		TradeAmount: amount,
		Address:     wallet.Address,
	}}, nil
}

var _ Policy = (*SingleLongPolicy)(nil)
