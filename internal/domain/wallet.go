package domain

// Wallet is an agent's position ledger: scalar balances plus per-maturity
// position mappings keyed by mint time (years).
type Wallet struct {
	Address  int
	Base     float64
	LPTokens float64
	FeesPaid float64

	Margin map[float64]float64
	Longs  map[float64]float64
	Shorts map[float64]float64
}

// NewWallet creates a wallet for an address funded with a base balance.
func NewWallet(address int, base float64) *Wallet {
	return &Wallet{
		Address: address,
		Base:    base,
		Margin:  make(map[float64]float64),
		Longs:   make(map[float64]float64),
		Shorts:  make(map[float64]float64),
	}
}

// PositionTotal sums all long and short position quantities across maturities.
func (w *Wallet) PositionTotal() float64 {
	total := 0.0
	for _, amount := range w.Longs {
		total += amount
	}
	for _, amount := range w.Shorts {
		total += amount
	}
	return total
}
