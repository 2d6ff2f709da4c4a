package market

import (
	"errors"
	"fmt"

	"fixedrate-amm-lab/internal/domain"
	"fixedrate-amm-lab/internal/simtime"
)

// Execution errors.
var (
	ErrUnknownActionType      = errors.New("unknown action type")
	ErrNonPositiveTradeAmount = errors.New("trade amount must be positive")
)

// Market is the execution venue the simulation driver trades against.
type Market interface {
	// Time returns the current market time in years.
	Time() float64

	// SpotPrice returns the current bond price. Fails with
	// ErrDegenerateMarketState when share reserves are non-positive.
	SpotPrice() (float64, error)

	// Snapshot returns a read-only market view for policies and reporting.
	Snapshot() domain.MarketSnapshot

	// Apply executes an action, mutates the pool state, and returns the
	// reserve delta applied plus the wallet delta owed to the acting agent.
	Apply(action domain.Action) (Delta, *domain.WalletDelta, error)
}

// SimMarket is the reference venue used by the simulation driver: fills
// execute at the model's spot price with a proportional fee, and every fill's
// base leg is mirrored between the pool and the agent's wallet so that no
// value is created or destroyed.
type SimMarket struct {
	clock            *simtime.Clock
	model            PricingModel
	state            State
	positionDuration simtime.StretchedTime
	feeRate          float64
}

// NewSimMarket creates a reference market over an initial pool state.
func NewSimMarket(clock *simtime.Clock, model PricingModel, state State, positionDuration simtime.StretchedTime, feeRate float64) *SimMarket {
	return &SimMarket{
		clock:            clock,
		model:            model,
		state:            state,
		positionDuration: positionDuration,
		feeRate:          feeRate,
	}
}

// Time returns the current market time in years.
func (m *SimMarket) Time() float64 {
	return m.clock.Years()
}

// State returns a copy of the current pool state.
func (m *SimMarket) State() State {
	return m.state
}

// PositionDuration returns the term definition the market trades.
func (m *SimMarket) PositionDuration() simtime.StretchedTime {
	return m.positionDuration
}

// SpotPrice returns the model's current bond price.
func (m *SimMarket) SpotPrice() (float64, error) {
	return m.model.SpotPrice(m.state, m.positionDuration)
}

// Snapshot returns a read-only market view. A degenerate pool reports a zero
// spot price rather than an error; price-dependent reporting must always
// produce a value.
func (m *SimMarket) Snapshot() domain.MarketSnapshot {
	price, err := m.SpotPrice()
	if err != nil {
		price = 0
	}
	return domain.MarketSnapshot{
		MarketTime:            m.clock.Years(),
		SpotPrice:             price,
		ShareReserves:         m.state.ShareReserves,
		BondReserves:          m.state.BondReserves,
		SharePrice:            m.state.SharePrice,
		LPTotalSupply:         m.state.LPTotalSupply,
		PositionDurationYears: m.positionDuration.NormalizedTime(),
	}
}

// Apply executes an action against the pool. The returned wallet delta's base
// leg mirrors the pool's share-reserve change valued at the share price, less
// fees, which are recorded on the wallet's fee accumulator.
func (m *SimMarket) Apply(action domain.Action) (Delta, *domain.WalletDelta, error) {
	if action.TradeAmount <= 0 {
		return Delta{}, nil, fmt.Errorf("%w: %s %g", ErrNonPositiveTradeAmount, action.Type, action.TradeAmount)
	}

	price, err := m.SpotPrice()
	if err != nil {
		return Delta{}, nil, err
	}

	mintTime := m.clock.Years()
	if action.MintTime != nil {
		mintTime = *action.MintTime
	}

	var marketDelta Delta
	var walletDelta *domain.WalletDelta

	switch action.Type {
	case domain.ActionOpenLong:
		marketDelta, walletDelta = m.openLong(action.TradeAmount, price, mintTime)
	case domain.ActionCloseLong:
		marketDelta, walletDelta = m.closeLong(action.TradeAmount, price, mintTime)
	case domain.ActionOpenShort:
		marketDelta, walletDelta = m.openShort(action.TradeAmount, price, mintTime)
	case domain.ActionCloseShort:
		marketDelta, walletDelta = m.closeShort(action.TradeAmount, price, mintTime)
	case domain.ActionAddLiquidity:
		marketDelta, walletDelta = m.addLiquidity(action.TradeAmount)
	case domain.ActionRemoveLiquidity:
		marketDelta, walletDelta = m.removeLiquidity(action.TradeAmount)
	default:
		return Delta{}, nil, fmt.Errorf("%w: %q", ErrUnknownActionType, action.Type)
	}

	walletDelta.Address = action.Address
	walletDelta.EffectivePrice = &price
	m.state.ApplyDelta(marketDelta)
	return marketDelta, walletDelta, nil
}

// openLong spends baseAmount of base for bonds at the spot price.
func (m *SimMarket) openLong(baseAmount, price, mintTime float64) (Delta, *domain.WalletDelta) {
	fee := m.feeRate * baseAmount
	bondsReceived := (baseAmount - fee) / price

	marketDelta := Delta{
		DShareReserves: baseAmount / m.state.SharePrice,
		DBondReserves:  -bondsReceived,
	}
	walletDelta := &domain.WalletDelta{
		Base:     -baseAmount,
		FeesPaid: fee,
		Longs:    map[float64]float64{mintTime: bondsReceived},
	}
	return marketDelta, walletDelta
}

// closeLong sells bondAmount of bonds back to the pool.
func (m *SimMarket) closeLong(bondAmount, price, mintTime float64) (Delta, *domain.WalletDelta) {
	gross := bondAmount * price
	fee := m.feeRate * gross
	baseReceived := gross - fee

	marketDelta := Delta{
		DShareReserves: -gross / m.state.SharePrice,
		DBondReserves:  bondAmount,
	}
	walletDelta := &domain.WalletDelta{
		Base:     baseReceived,
		FeesPaid: fee,
		Longs:    map[float64]float64{mintTime: -bondAmount},
	}
	return marketDelta, walletDelta
}

// openShort sells bondAmount of borrowed bonds and posts the max-loss margin.
// Short positions are recorded as negative quantities.
func (m *SimMarket) openShort(bondAmount, price, mintTime float64) (Delta, *domain.WalletDelta) {
	proceeds := bondAmount * price
	fee := m.feeRate * proceeds
	margin := bondAmount

	marketDelta := Delta{
		DShareReserves: -proceeds / m.state.SharePrice,
		DBondReserves:  bondAmount,
	}
	walletDelta := &domain.WalletDelta{
		Base:     proceeds - margin - fee,
		FeesPaid: fee,
		Shorts:   map[float64]float64{mintTime: -bondAmount},
		Margin:   map[float64]float64{mintTime: margin},
	}
	return marketDelta, walletDelta
}

// closeShort buys back bondAmount of bonds and releases the posted margin.
func (m *SimMarket) closeShort(bondAmount, price, mintTime float64) (Delta, *domain.WalletDelta) {
	cost := bondAmount * price
	fee := m.feeRate * cost
	margin := bondAmount

	marketDelta := Delta{
		DShareReserves: cost / m.state.SharePrice,
		DBondReserves:  -bondAmount,
	}
	walletDelta := &domain.WalletDelta{
		Base:     margin - cost - fee,
		FeesPaid: fee,
		Shorts:   map[float64]float64{mintTime: bondAmount},
		Margin:   map[float64]float64{mintTime: -margin},
	}
	return marketDelta, walletDelta
}

// addLiquidity contributes baseAmount of base for a pro-rata share of LP
// supply. The first contribution mints one token per unit of base.
func (m *SimMarket) addLiquidity(baseAmount float64) (Delta, *domain.WalletDelta) {
	minted := baseAmount
	poolValue := m.state.ShareReserves * m.state.SharePrice
	if m.state.LPTotalSupply > 0 && poolValue > 0 {
		minted = baseAmount * m.state.LPTotalSupply / poolValue
	}

	marketDelta := Delta{
		DShareReserves: baseAmount / m.state.SharePrice,
		DLPTotalSupply: minted,
	}
	walletDelta := &domain.WalletDelta{
		Base:     -baseAmount,
		LPTokens: minted,
	}
	return marketDelta, walletDelta
}

// removeLiquidity burns lpAmount of LP tokens for the matching share of the
// pool's base value.
func (m *SimMarket) removeLiquidity(lpAmount float64) (Delta, *domain.WalletDelta) {
	baseOut := 0.0
	if m.state.LPTotalSupply > 0 {
		baseOut = lpAmount / m.state.LPTotalSupply * m.state.ShareReserves * m.state.SharePrice
	}

	marketDelta := Delta{
		DShareReserves: -baseOut / m.state.SharePrice,
		DLPTotalSupply: -lpAmount,
	}
	walletDelta := &domain.WalletDelta{
		Base:     baseOut,
		LPTokens: -lpAmount,
	}
	return marketDelta, walletDelta
}

var _ Market = (*SimMarket)(nil)
