package policy

import (
	"fmt"

	"fixedrate-amm-lab/internal/domain"
)

// LiquidityProviderPolicy contributes a fraction of the agent's base balance
// to the pool once, then holds the LP position until liquidation.
type LiquidityProviderPolicy struct {
	TradeFraction float64
	added         bool
}

// NewLiquidityProviderPolicy creates a LiquidityProviderPolicy.
func NewLiquidityProviderPolicy(tradeFraction float64) *LiquidityProviderPolicy {
	return &LiquidityProviderPolicy{TradeFraction: tradeFraction}
}

// Name returns the policy identifier including parameters.
func (p *LiquidityProviderPolicy) Name() string {
	return fmt.Sprintf("%s_%.2f", domain.PolicyTypeLiquidityProvider, p.TradeFraction)
}

// Propose adds liquidity once.
func (p *LiquidityProviderPolicy) Propose(_ domain.MarketSnapshot, wallet *domain.Wallet) ([]domain.Action, error) {
	if p.added {
		return nil, nil
	}
	amount := wallet.Base * p.TradeFraction
	if amount <= 0 {
		return nil, nil
	}
	p.added = true
	return []domain.Action{{
		Type:        domain.ActionAddLiquidity,
		TradeAmount: amount,
		Address:     wallet.Address,
	}}, nil
}

var _ Policy = (*LiquidityProviderPolicy)(nil)
