package policy

import (
	"fmt"

	"fixedrate-amm-lab/internal/domain"
)

// SingleShortPolicy opens one short sized as a fraction of the agent's base
// balance on its first opportunity, then holds until liquidation.
type SingleShortPolicy struct {
	TradeFraction float64
	opened        bool
}

// NewSingleShortPolicy creates a SingleShortPolicy.
func NewSingleShortPolicy(tradeFraction float64) *SingleShortPolicy {
	return &SingleShortPolicy{TradeFraction: tradeFraction}
}

// Name returns the policy identifier including parameters.
func (p *SingleShortPolicy) Name() string {
	return fmt.Sprintf("%s_%.2f", domain.PolicyTypeSingleShort, p.TradeFraction)
}

// Propose opens a single short. The bond amount equals the base committed, so
// the posted margin never exceeds the wallet's balance.
func (p *SingleShortPolicy) Propose(snapshot domain.MarketSnapshot, wallet *domain.Wallet) ([]domain.Action, error) {
	if p.opened || snapshot.SpotPrice <= 0 {
		return nil, nil
	}
	amount := wallet.Base * p.TradeFraction
	if amount <= 0 {
		return nil, nil
	}
	p.opened = true
	return []domain.Action{{
		Type:        domain.ActionOpenShort,
		TradeAmount: amount,
		Address:     wallet.Address,
	}}, nil
}

var _ Policy = (*SingleShortPolicy)(nil)
