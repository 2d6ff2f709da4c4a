package agent

import (
	"math"
	"testing"

	"fixedrate-amm-lab/internal/domain"
)

// stubPolicy returns a fixed set of actions on every call.
type stubPolicy struct {
	actions []domain.Action
}

func (p *stubPolicy) Name() string { return "STUB" }

func (p *stubPolicy) Propose(_ domain.MarketSnapshot, _ *domain.Wallet) ([]domain.Action, error) {
	return p.actions, nil
}

func TestAgent_ApplyDeltaScalars(t *testing.T) {
	a := New(0, 1000, &stubPolicy{})

	a.ApplyDelta(&domain.WalletDelta{Base: -100, FeesPaid: 0.1}, 0.5)

	if a.Wallet.Base != 900 {
		t.Errorf("Base = %f, want 900", a.Wallet.Base)
	}
	if a.Wallet.FeesPaid != 0.1 {
		t.Errorf("FeesPaid = %f, want 0.1", a.Wallet.FeesPaid)
	}
	if a.Budget != 1000 {
		t.Errorf("Budget mutated: %f", a.Budget)
	}
}

func TestAgent_ApplyDeltaKeyedAccumulation(t *testing.T) {
	a := New(0, 1000, &stubPolicy{})

	a.ApplyDelta(&domain.WalletDelta{Shorts: map[float64]float64{10: 5}}, 0.1)
	a.ApplyDelta(&domain.WalletDelta{Shorts: map[float64]float64{10: 3}}, 0.2)
	a.ApplyDelta(&domain.WalletDelta{Longs: map[float64]float64{0.2: 7}}, 0.3)

	if a.Wallet.Shorts[10] != 8 {
		t.Errorf("Shorts[10] = %f, want 8", a.Wallet.Shorts[10])
	}
	if a.Wallet.Longs[0.2] != 7 {
		t.Errorf("Longs[0.2] = %f, want 7", a.Wallet.Longs[0.2])
	}
}

func TestAgent_SpendAccrual(t *testing.T) {
	// Capital deployed between updates accrues into the spend integral.
	a := New(0, 1000, &stubPolicy{})

	a.ApplyDelta(&domain.WalletDelta{Base: -400}, 0.0) // deploy 400 at t=0
	a.ApplyDelta(&domain.WalletDelta{Base: 400}, 0.5)  // recall at t=0.5

	// Over [0, 0.5] the deployed amount was 400.
	report := a.Report(1.0, 1.0)
	if math.Abs(report.WeightedSpend-200) > 1e-12 {
		t.Errorf("WeightedSpend = %f, want 200", report.WeightedSpend)
	}
}

func TestAgent_ReportScenario(t *testing.T) {
	// budget 1000, one delta of base = -200 at t=0.5, report at t=1.0 with
	// mark price 1.0 and no open positions.
	a := New(0, 1000, &stubPolicy{})

	a.ApplyDelta(&domain.WalletDelta{Base: -200}, 0.5)

	report := a.Report(1.0, 1.0)

	if report.Worth != 800 {
		t.Errorf("Worth = %f, want 800", report.Worth)
	}
	if report.ProfitAndLoss != -200 {
		t.Errorf("ProfitAndLoss = %f, want -200", report.ProfitAndLoss)
	}
}

func TestAgent_ReportAtTimeZero(t *testing.T) {
	a := New(0, 1000, &stubPolicy{})

	report := a.Report(0, 1.0)

	if !math.IsNaN(report.AnnualizedRate) {
		t.Errorf("AnnualizedRate = %f, want NaN", report.AnnualizedRate)
	}
	if report.HoldingPeriodRate != 0 {
		t.Errorf("HoldingPeriodRate = %f, want 0", report.HoldingPeriodRate)
	}
	if report.WeightedSpend != 0 {
		t.Errorf("WeightedSpend = %f, want 0", report.WeightedSpend)
	}
}

func TestAgent_ReportWithPositions(t *testing.T) {
	a := New(0, 1000, &stubPolicy{})
	a.ApplyDelta(&domain.WalletDelta{
		Base:  -100,
		Longs: map[float64]float64{0.0: 50},
	}, 0.0)

	report := a.Report(0.5, 2.0)

	// worth = 900 + 50 * 2.0
	if report.Worth != 1000 {
		t.Errorf("Worth = %f, want 1000", report.Worth)
	}
	if report.PositionTotal != 50 {
		t.Errorf("PositionTotal = %f, want 50", report.PositionTotal)
	}
}

func TestAgent_LiquidationActions(t *testing.T) {
	a := New(2, 1000, &stubPolicy{})
	a.Wallet.Shorts[5] = -20
	a.Wallet.Shorts[8] = 3 // positive balance: nothing to flatten
	a.Wallet.LPTokens = 40

	actions := a.LiquidationActions(12.0)

	if len(actions) != 2 {
		t.Fatalf("Expected 2 actions, got %d", len(actions))
	}

	if actions[0].Type != domain.ActionCloseShort {
		t.Errorf("actions[0].Type = %s, want %s", actions[0].Type, domain.ActionCloseShort)
	}
	if actions[0].TradeAmount != 20 {
		t.Errorf("actions[0].TradeAmount = %f, want 20", actions[0].TradeAmount)
	}
	if actions[0].MintTime == nil || *actions[0].MintTime != 5 {
		t.Errorf("actions[0].MintTime = %v, want 5", actions[0].MintTime)
	}

	if actions[1].Type != domain.ActionRemoveLiquidity {
		t.Errorf("actions[1].Type = %s, want %s", actions[1].Type, domain.ActionRemoveLiquidity)
	}
	if actions[1].TradeAmount != 40 {
		t.Errorf("actions[1].TradeAmount = %f, want 40", actions[1].TradeAmount)
	}
	if actions[1].MintTime == nil || *actions[1].MintTime != 12.0 {
		t.Errorf("actions[1].MintTime = %v, want 12.0", actions[1].MintTime)
	}
}

func TestAgent_LiquidationActionsDeterministicOrder(t *testing.T) {
	a := New(0, 1000, &stubPolicy{})
	a.Wallet.Shorts[0.75] = -5
	a.Wallet.Shorts[0.25] = -10
	a.Wallet.Shorts[0.50] = -1

	for i := 0; i < 10; i++ {
		actions := a.LiquidationActions(1.0)
		if len(actions) != 3 {
			t.Fatalf("Expected 3 actions, got %d", len(actions))
		}
		for j, want := range []float64{0.25, 0.50, 0.75} {
			if *actions[j].MintTime != want {
				t.Fatalf("actions[%d].MintTime = %f, want %f", j, *actions[j].MintTime, want)
			}
		}
	}
}

func TestAgent_LiquidationActionsEmpty(t *testing.T) {
	a := New(0, 1000, &stubPolicy{})

	if actions := a.LiquidationActions(1.0); len(actions) != 0 {
		t.Errorf("Expected no actions, got %d", len(actions))
	}
}

func TestAgent_ProposeActionsStampsMintTime(t *testing.T) {
	a := New(9, 1000, &stubPolicy{actions: []domain.Action{
		{Type: domain.ActionOpenLong, TradeAmount: 100},
	}})

	actions, err := a.ProposeActions(domain.MarketSnapshot{MarketTime: 0.42})
	if err != nil {
		t.Fatalf("ProposeActions failed: %v", err)
	}

	if len(actions) != 1 {
		t.Fatalf("Expected 1 action, got %d", len(actions))
	}
	if actions[0].MintTime == nil || *actions[0].MintTime != 0.42 {
		t.Errorf("MintTime = %v, want 0.42", actions[0].MintTime)
	}
	if actions[0].Address != 9 {
		t.Errorf("Address = %d, want 9", actions[0].Address)
	}
}

func TestAgent_MaxShort(t *testing.T) {
	a := New(0, 1000, &stubPolicy{})

	got := a.MaxShort(domain.MarketSnapshot{ShareReserves: 500, SharePrice: 1.0, SpotPrice: 0.5})
	if got != 1000 {
		t.Errorf("MaxShort = %f, want 1000", got)
	}

	if got := a.MaxShort(domain.MarketSnapshot{ShareReserves: 0, SharePrice: 1.0, SpotPrice: 0.5}); got != 0 {
		t.Errorf("MaxShort with empty pool = %f, want 0", got)
	}
	if got := a.MaxShort(domain.MarketSnapshot{ShareReserves: 500, SharePrice: 1.0, SpotPrice: 0}); got != 0 {
		t.Errorf("MaxShort with degenerate price = %f, want 0", got)
	}
}
