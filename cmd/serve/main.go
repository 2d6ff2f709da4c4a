package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fixedrate-amm-lab/internal/agent"
	"fixedrate-amm-lab/internal/domain"
	"fixedrate-amm-lab/internal/market"
	"fixedrate-amm-lab/internal/policy"
	"fixedrate-amm-lab/internal/simtime"
	"fixedrate-amm-lab/internal/simulation"
	"fixedrate-amm-lab/internal/storage/memory"
	"fixedrate-amm-lab/internal/stream"
)

func main() {
	// Parse flags
	addr := flag.String("addr", ":8080", "HTTP listen address")
	runID := flag.String("run-id", "", "Run identifier (default: generated from start time)")
	budget := flag.Float64("budget", 1000, "Base budget per agent")

	// Run parameters
	steps := flag.Int("steps", 360, "Number of simulation steps")
	stepSizeDays := flag.Float64("step-size-days", 1, "Step size in days")
	stepDelayMs := flag.Int("step-delay-ms", 100, "Delay between steps so subscribers can follow")
	startDelayMs := flag.Int("start-delay-ms", 2000, "Delay before the run starts")

	// Market parameters
	shareReserves := flag.Float64("share-reserves", 500000, "Initial share reserves")
	bondReserves := flag.Float64("bond-reserves", 500000, "Initial bond reserves")
	sharePrice := flag.Float64("share-price", 1.0, "Share price (base per share)")
	feeRate := flag.Float64("fee-rate", 0.001, "Proportional fee rate on fills")
	positionDays := flag.Float64("position-days", 180, "Position duration in days")
	timeStretch := flag.Float64("time-stretch", 22.186877016851916, "Time stretch constant")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[serve] ", log.LstdFlags)

	if *runID == "" {
		*runID = fmt.Sprintf("run-%d", time.Now().UnixMilli())
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Streaming hub
	hub := stream.NewHub()
	go hub.Run()
	defer hub.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWS)

	server := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		logger.Printf("Streaming on ws://%s/ws", *addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("http server: %v", err)
			cancel()
		}
	}()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		server.Shutdown(shutdownCtx)
	}()

	// Build the default agent mix: one long, one short, one LP
	fraction := 0.25
	lpFraction := 1.0
	configs := []domain.PolicyConfig{
		{PolicyType: domain.PolicyTypeSingleLong, TradeFraction: &fraction},
		{PolicyType: domain.PolicyTypeSingleShort, TradeFraction: &fraction},
		{PolicyType: domain.PolicyTypeLiquidityProvider, TradeFraction: &lpFraction},
	}

	agents := make([]*agent.Agent, 0, len(configs))
	for i, cfg := range configs {
		p, err := policy.FromConfig(cfg)
		if err != nil {
			logger.Fatalf("agent %d policy: %v", i, err)
		}
		agents = append(agents, agent.New(i, *budget, p))
	}

	// Build market
	clock := simtime.NewClock(0)
	positionDuration, err := simtime.NewStretchedTime(*positionDays, *timeStretch, simtime.DefaultNormalizingConstant)
	if err != nil {
		logger.Fatalf("position duration: %v", err)
	}

	mkt := market.NewSimMarket(clock, market.NewReservePricingModel(), market.State{
		ShareReserves: *shareReserves,
		BondReserves:  *bondReserves,
		SharePrice:    *sharePrice,
	}, positionDuration, *feeRate)

	runner := simulation.NewRunner(simulation.RunnerOptions{
		Clock:         clock,
		Market:        mkt,
		Agents:        agents,
		RunStore:      memory.NewRunStore(),
		SnapshotStore: memory.NewStepSnapshotStore(),
		ReportStore:   memory.NewAgentReportStore(),
		Listener: &pacedListener{
			next:  hub,
			delay: time.Duration(*stepDelayMs) * time.Millisecond,
		},
	})

	logger.Printf("Run %s starts in %dms: agents=%d steps=%d", *runID, *startDelayMs, len(agents), *steps)

	select {
	case <-time.After(time.Duration(*startDelayMs) * time.Millisecond):
	case <-ctx.Done():
		return
	}

	result, err := runner.Run(ctx, simulation.RunConfig{
		RunID:         *runID,
		Steps:         *steps,
		StepSizeYears: *stepSizeDays / simtime.DefaultNormalizingConstant,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Fatalf("simulation failed: %v", err)
	}

	logger.Printf("Run %s complete: final price=%.6f market time=%.4fy",
		result.Run.RunID, result.Run.FinalSpotPrice, result.Run.FinalMarketTime)
	for _, rep := range result.Reports {
		logger.Printf("  agent %d: worth=%.2f pnl=%.2f", rep.Address, rep.Worth, rep.ProfitAndLoss)
	}

	// Keep serving until interrupted so late subscribers can still connect.
	<-ctx.Done()
}

// pacedListener forwards snapshots to the hub and sleeps between steps. The
// simulation would otherwise complete faster than any subscriber can read.
type pacedListener struct {
	next  simulation.StepListener
	delay time.Duration
}

func (l *pacedListener) OnStep(snapshot *domain.StepSnapshot) {
	l.next.OnStep(snapshot)
	if l.delay > 0 {
		time.Sleep(l.delay)
	}
}
