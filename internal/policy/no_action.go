package policy

import (
	"fixedrate-amm-lab/internal/domain"
)

// NoActionPolicy never trades. Useful as a control agent and in tests.
type NoActionPolicy struct{}

// NewNoActionPolicy creates a NoActionPolicy.
func NewNoActionPolicy() *NoActionPolicy {
	return &NoActionPolicy{}
}

// Name returns the policy identifier.
func (p *NoActionPolicy) Name() string {
	return domain.PolicyTypeNoAction
}

// Propose returns no actions.
func (p *NoActionPolicy) Propose(_ domain.MarketSnapshot, _ *domain.Wallet) ([]domain.Action, error) {
	return nil, nil
}

var _ Policy = (*NoActionPolicy)(nil)
