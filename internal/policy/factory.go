package policy

import (
	"errors"

	"fixedrate-amm-lab/internal/domain"
)

// Factory errors
var (
	ErrUnknownPolicyType    = errors.New("unknown policy type")
	ErrMissingTradeFraction = errors.New("policy requires TradeFraction")
	ErrInvalidTradeFraction = errors.New("TradeFraction must be in (0, 1]")
)

// FromConfig creates a Policy from domain.PolicyConfig.
// Validates required parameters per policy type.
func FromConfig(cfg domain.PolicyConfig) (Policy, error) {
	switch cfg.PolicyType {
	case domain.PolicyTypeNoAction:
		return NewNoActionPolicy(), nil
	case domain.PolicyTypeSingleLong:
		fraction, err := tradeFraction(cfg)
		if err != nil {
			return nil, err
		}
		return NewSingleLongPolicy(fraction), nil
	case domain.PolicyTypeSingleShort:
		fraction, err := tradeFraction(cfg)
		if err != nil {
			return nil, err
		}
		return NewSingleShortPolicy(fraction), nil
	case domain.PolicyTypeLiquidityProvider:
		fraction, err := tradeFraction(cfg)
		if err != nil {
			return nil, err
		}
		return NewLiquidityProviderPolicy(fraction), nil
	default:
		return nil, ErrUnknownPolicyType
	}
}

// tradeFraction extracts and validates the TradeFraction parameter.
func tradeFraction(cfg domain.PolicyConfig) (float64, error) {
	if cfg.TradeFraction == nil {
		return 0, ErrMissingTradeFraction
	}
	if *cfg.TradeFraction <= 0 || *cfg.TradeFraction > 1 {
		return 0, ErrInvalidTradeFraction
	}
	return *cfg.TradeFraction, nil
}
