package agent

import (
	"math"
	"sort"

	"fixedrate-amm-lab/internal/domain"
	"fixedrate-amm-lab/internal/policy"
)

// Agent owns a wallet and its running cost-basis accounting. The wallet is
// mutated only through ApplyDelta, and at most one delta application may be
// in flight per agent at a time.
type Agent struct {
	Address int
	Budget  float64
	Wallet  *domain.Wallet

	policy policy.Policy

	// cost-basis accounting
	lastUpdateSpend      float64 // timestamp of last accrual, years
	productOfTimeAndBase float64 // time-integral of deployed capital
}

// New creates an agent funded with its budget and driven by the given policy.
func New(address int, budget float64, p policy.Policy) *Agent {
	return &Agent{
		Address: address,
		Budget:  budget,
		Wallet:  domain.NewWallet(address, budget),
		policy:  p,
	}
}

// PolicyName returns the injected policy's identifier.
func (a *Agent) PolicyName() string {
	return a.policy.Name()
}

// ProposeActions delegates to the injected policy and stamps any action
// missing a mint time with the snapshot's market time.
func (a *Agent) ProposeActions(snapshot domain.MarketSnapshot) ([]domain.Action, error) {
	actions, err := a.policy.Propose(snapshot, a.Wallet)
	if err != nil {
		return nil, err
	}
	for i := range actions {
		if actions[i].MintTime == nil {
			mintTime := snapshot.MarketTime
			actions[i].MintTime = &mintTime
		}
		actions[i].Address = a.Address
	}
	return actions, nil
}

// ApplyDelta applies a trade's wallet delta at the given market time. The
// accrual of productOfTimeAndBase happens before the delta lands so the
// integral reflects capital deployed over the elapsed interval.
func (a *Agent) ApplyDelta(delta *domain.WalletDelta, currentTime float64) {
	elapsed := currentTime - a.lastUpdateSpend
	a.productOfTimeAndBase += elapsed * (a.Budget - a.Wallet.Base)
	a.lastUpdateSpend = currentTime

	a.Wallet.Base += delta.Base
	a.Wallet.LPTokens += delta.LPTokens
	a.Wallet.FeesPaid += delta.FeesPaid

	applyKeyed(a.Wallet.Margin, delta.Margin)
	applyKeyed(a.Wallet.Longs, delta.Longs)
	applyKeyed(a.Wallet.Shorts, delta.Shorts)
	// EffectivePrice and Address are identification only, never applied.
}

// applyKeyed adds each mint-time entry of a keyed delta, inserting keys that
// are absent.
func applyKeyed(target, delta map[float64]float64) {
	for mintTime, amount := range delta {
		target[mintTime] += amount
	}
}

// LiquidationActions derives the trades that flatten the agent's remaining
// positions: one close-short per strictly negative short balance, in
// ascending mint-time order for reproducible runs, then one remove-liquidity
// for a positive LP balance, stamped with the current market time.
func (a *Agent) LiquidationActions(currentMarketTime float64) []domain.Action {
	var actions []domain.Action

	mintTimes := make([]float64, 0, len(a.Wallet.Shorts))
	for mintTime := range a.Wallet.Shorts {
		mintTimes = append(mintTimes, mintTime)
	}
	sort.Float64s(mintTimes)

	for _, mintTime := range mintTimes {
		position := a.Wallet.Shorts[mintTime]
		if position < 0 {
			mt := mintTime
			actions = append(actions, domain.Action{
				Type:        domain.ActionCloseShort,
				TradeAmount: -position,
				MintTime:    &mt,
				Address:     a.Address,
			})
		}
	}

	if a.Wallet.LPTokens > 0 {
		mt := currentMarketTime
		actions = append(actions, domain.Action{
			Type:        domain.ActionRemoveLiquidity,
			TradeAmount: a.Wallet.LPTokens,
			MintTime:    &mt,
			Address:     a.Address,
		})
	}

	return actions
}

// Report computes a point-in-time performance report. Degenerate divisions
// resolve to zero, except annualization at time zero, which is NaN: a report
// must always return rather than abort a simulation step.
func (a *Agent) Report(currentMarketTime, markPrice float64) domain.PerformanceReport {
	positionTotal := a.Wallet.PositionTotal()
	worth := a.Wallet.Base + positionTotal*markPrice
	profitAndLoss := worth - a.Budget

	weightedSpend := 0.0
	if currentMarketTime > 0 {
		weightedSpend = a.productOfTimeAndBase / currentMarketTime
	}

	holdingPeriodRate := 0.0
	if weightedSpend != 0 {
		holdingPeriodRate = profitAndLoss / weightedSpend
	}

	annualizedRate := math.NaN()
	if currentMarketTime > 0 {
		annualizedRate = holdingPeriodRate / currentMarketTime
	}

	return domain.PerformanceReport{
		Address:           a.Address,
		MarketTime:        currentMarketTime,
		MarkPrice:         markPrice,
		Worth:             worth,
		Base:              a.Wallet.Base,
		PositionTotal:     positionTotal,
		ProfitAndLoss:     profitAndLoss,
		WeightedSpend:     weightedSpend,
		HoldingPeriodRate: holdingPeriodRate,
		AnnualizedRate:    annualizedRate,
	}
}

// MaxShort approximates the largest bond amount the agent can short given
// current market conditions. Zero when the pool has no share reserves or a
// degenerate price.
func (a *Agent) MaxShort(snapshot domain.MarketSnapshot) float64 {
	if snapshot.ShareReserves == 0 || snapshot.SpotPrice <= 0 {
		return 0
	}
	return snapshot.ShareReserves * snapshot.SharePrice / snapshot.SpotPrice
}
