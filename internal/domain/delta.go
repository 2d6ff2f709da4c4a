package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownWalletField is returned when a delta names a slot outside the
// recognized wallet fields. Surfaced immediately so value is never silently
// dropped.
var ErrUnknownWalletField = errors.New("unknown wallet field")

// WalletDelta is a sparse set of wallet changes produced by executing a trade.
// Scalar slots (Base, LPTokens, FeesPaid) are added to the matching wallet
// scalar. Keyed slots (Margin, Longs, Shorts) are added per mint-time entry,
// inserting absent keys. EffectivePrice and Address are carried for logging
// and identification only and are never applied.
type WalletDelta struct {
	Base     float64
	LPTokens float64
	FeesPaid float64

	Margin map[float64]float64
	Longs  map[float64]float64
	Shorts map[float64]float64

	EffectivePrice *float64
	Address        int
}

// Wallet field names accepted by ParseDelta.
const (
	FieldBase           = "base"
	FieldLPTokens       = "lp_tokens"
	FieldFeesPaid       = "fees_paid"
	FieldMargin         = "margin"
	FieldLongs          = "longs"
	FieldShorts         = "shorts"
	FieldEffectivePrice = "effective_price"
	FieldAddress        = "address"
)

// ParseDelta builds a WalletDelta from name-keyed scalar and keyed slots, the
// form scenario files use. Any slot name outside the recognized set fails with
// ErrUnknownWalletField.
func ParseDelta(scalars map[string]float64, keyed map[string]map[float64]float64) (*WalletDelta, error) {
	delta := &WalletDelta{}

	for name, value := range scalars {
		switch name {
		case FieldBase:
			delta.Base = value
		case FieldLPTokens:
			delta.LPTokens = value
		case FieldFeesPaid:
			delta.FeesPaid = value
		case FieldEffectivePrice:
			v := value
			delta.EffectivePrice = &v
		case FieldAddress:
			delta.Address = int(value)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownWalletField, name)
		}
	}

	for name, entries := range keyed {
		target := make(map[float64]float64, len(entries))
		for mintTime, amount := range entries {
			target[mintTime] = amount
		}
		switch name {
		case FieldMargin:
			delta.Margin = target
		case FieldLongs:
			delta.Longs = target
		case FieldShorts:
			delta.Shorts = target
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownWalletField, name)
		}
	}

	return delta, nil
}
