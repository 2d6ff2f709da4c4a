package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fixedrate-amm-lab/internal/agent"
	"fixedrate-amm-lab/internal/domain"
	"fixedrate-amm-lab/internal/market"
	"fixedrate-amm-lab/internal/simtime"
	"fixedrate-amm-lab/internal/storage"
)

// Runner errors
var (
	ErrNoAgents           = errors.New("simulation requires at least one agent")
	ErrNonPositiveSteps   = errors.New("step count must be positive")
	ErrNonPositiveStep    = errors.New("step size must be positive")
	ErrDuplicateAddresses = errors.New("agent addresses must be unique")
)

// StepListener observes per-step snapshots as they are produced. Listeners
// must not block.
type StepListener interface {
	OnStep(snapshot *domain.StepSnapshot)
}

// RunConfig configures one simulation run.
type RunConfig struct {
	RunID         string
	Steps         int
	StepSizeYears float64
}

// Result holds a completed run's outputs.
type Result struct {
	Run     *domain.RunRecord
	Reports []domain.PerformanceReport
}

// Runner drives the cooperative simulation loop: it ticks the clock, collects
// proposals from each agent in order, applies them to the market, and routes
// the resulting wallet deltas back to the owning agents. Each agent's wallet
// is touched by at most one delta application at a time.
type Runner struct {
	clock     *simtime.Clock
	market    *market.SimMarket
	agents    []*agent.Agent
	runStore  storage.RunStore
	snapStore storage.StepSnapshotStore
	repStore  storage.AgentReportStore
	listener  StepListener
}

// RunnerOptions contains configuration for creating a Runner. The stores and
// listener are optional; a nil store disables that persistence.
type RunnerOptions struct {
	Clock         *simtime.Clock
	Market        *market.SimMarket
	Agents        []*agent.Agent
	RunStore      storage.RunStore
	SnapshotStore storage.StepSnapshotStore
	ReportStore   storage.AgentReportStore
	Listener      StepListener
}

// NewRunner creates a simulation runner.
func NewRunner(opts RunnerOptions) *Runner {
	return &Runner{
		clock:     opts.Clock,
		market:    opts.Market,
		agents:    opts.Agents,
		runStore:  opts.RunStore,
		snapStore: opts.SnapshotStore,
		repStore:  opts.ReportStore,
		listener:  opts.Listener,
	}
}

// Run executes a simulation. Steps:
//  1. Validate config and agent set
//  2. Per step: tick the clock, let each agent propose against a fresh
//     snapshot, execute the proposals, apply wallet deltas
//  3. Record a step snapshot and notify the listener
//  4. At run end: derive and execute liquidation trades, compute final
//     reports, persist run record, reports, and snapshots
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := r.validate(cfg); err != nil {
		return nil, err
	}

	startedAt := time.Now().UnixMilli()
	snapshots := make([]*domain.StepSnapshot, 0, cfg.Steps)

	for step := 1; step <= cfg.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r.clock.Tick(cfg.StepSizeYears)

		for _, a := range r.agents {
			if err := r.runAgentStep(a); err != nil {
				return nil, fmt.Errorf("agent %d step %d: %w", a.Address, step, err)
			}
		}

		snap := r.stepSnapshot(cfg.RunID, step)
		snapshots = append(snapshots, snap)
		if r.listener != nil {
			r.listener.OnStep(snap)
		}
	}

	if err := r.liquidate(); err != nil {
		return nil, err
	}

	result := r.finalize(cfg, startedAt)
	if err := r.persist(ctx, result, snapshots); err != nil {
		return nil, err
	}

	return result, nil
}

// validate checks run configuration and agent uniqueness.
func (r *Runner) validate(cfg RunConfig) error {
	if len(r.agents) == 0 {
		return ErrNoAgents
	}
	if cfg.Steps <= 0 {
		return ErrNonPositiveSteps
	}
	if cfg.StepSizeYears <= 0 {
		return ErrNonPositiveStep
	}
	seen := make(map[int]struct{}, len(r.agents))
	for _, a := range r.agents {
		if _, exists := seen[a.Address]; exists {
			return ErrDuplicateAddresses
		}
		seen[a.Address] = struct{}{}
	}
	return nil
}

// runAgentStep collects one agent's proposals against the current market
// state and executes them. The snapshot is taken per agent so later agents
// see earlier fills within the same step.
func (r *Runner) runAgentStep(a *agent.Agent) error {
	actions, err := a.ProposeActions(r.market.Snapshot())
	if err != nil {
		return fmt.Errorf("propose: %w", err)
	}

	for _, action := range actions {
		_, walletDelta, err := r.market.Apply(action)
		if err != nil {
			return fmt.Errorf("apply %s: %w", action.Type, err)
		}
		a.ApplyDelta(walletDelta, r.market.Time())
	}

	return nil
}

// liquidate flattens every agent's remaining short and LP positions at the
// final market time.
func (r *Runner) liquidate() error {
	now := r.market.Time()
	for _, a := range r.agents {
		for _, action := range a.LiquidationActions(now) {
			_, walletDelta, err := r.market.Apply(action)
			if err != nil {
				// A drained pool cannot absorb further liquidations.
				if errors.Is(err, market.ErrDegenerateMarketState) {
					return nil
				}
				return fmt.Errorf("liquidate agent %d: %w", a.Address, err)
			}
			a.ApplyDelta(walletDelta, now)
		}
	}
	return nil
}

// finalize builds the run record and the final per-agent reports. The mark
// price falls back to zero on a degenerate pool so reports always resolve.
func (r *Runner) finalize(cfg RunConfig, startedAt int64) *Result {
	snapshot := r.market.Snapshot()

	reports := make([]domain.PerformanceReport, 0, len(r.agents))
	for _, a := range r.agents {
		reports = append(reports, a.Report(snapshot.MarketTime, snapshot.SpotPrice))
	}

	return &Result{
		Run: &domain.RunRecord{
			RunID:            cfg.RunID,
			StartedAtMs:      startedAt,
			Steps:            cfg.Steps,
			StepSizeYears:    cfg.StepSizeYears,
			PositionDuration: snapshot.PositionDurationYears,
			AgentCount:       len(r.agents),
			FinalSpotPrice:   snapshot.SpotPrice,
			FinalMarketTime:  snapshot.MarketTime,
		},
		Reports: reports,
	}
}

// stepSnapshot captures current market state plus aggregate agent balances.
func (r *Runner) stepSnapshot(runID string, step int) *domain.StepSnapshot {
	snapshot := r.market.Snapshot()

	agentBase := 0.0
	agentFees := 0.0
	for _, a := range r.agents {
		agentBase += a.Wallet.Base
		agentFees += a.Wallet.FeesPaid
	}

	return &domain.StepSnapshot{
		RunID:         runID,
		Step:          step,
		MarketTime:    snapshot.MarketTime,
		SpotPrice:     snapshot.SpotPrice,
		ShareReserves: snapshot.ShareReserves,
		BondReserves:  snapshot.BondReserves,
		LPTotalSupply: snapshot.LPTotalSupply,
		AgentBase:     agentBase,
		AgentFees:     agentFees,
	}
}

// persist writes the run record, agent reports, and step snapshots to any
// configured stores.
func (r *Runner) persist(ctx context.Context, result *Result, snapshots []*domain.StepSnapshot) error {
	if r.runStore != nil {
		if err := r.runStore.Insert(ctx, result.Run); err != nil {
			return fmt.Errorf("persist run: %w", err)
		}
	}

	if r.repStore != nil {
		records := make([]*domain.AgentReportRecord, 0, len(result.Reports))
		for i, rep := range result.Reports {
			records = append(records, &domain.AgentReportRecord{
				RunID:             result.Run.RunID,
				Address:           rep.Address,
				PolicyName:        r.agents[i].PolicyName(),
				Budget:            r.agents[i].Budget,
				Worth:             rep.Worth,
				ProfitAndLoss:     rep.ProfitAndLoss,
				HoldingPeriodRate: rep.HoldingPeriodRate,
				AnnualizedRate:    rep.AnnualizedRate,
			})
		}
		if err := r.repStore.InsertBulk(ctx, records); err != nil {
			return fmt.Errorf("persist agent reports: %w", err)
		}
	}

	if r.snapStore != nil {
		if err := r.snapStore.InsertBulk(ctx, snapshots); err != nil {
			return fmt.Errorf("persist step snapshots: %w", err)
		}
	}

	return nil
}
