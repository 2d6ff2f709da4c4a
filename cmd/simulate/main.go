package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"fixedrate-amm-lab/internal/agent"
	"fixedrate-amm-lab/internal/domain"
	"fixedrate-amm-lab/internal/market"
	"fixedrate-amm-lab/internal/policy"
	"fixedrate-amm-lab/internal/simtime"
	"fixedrate-amm-lab/internal/simulation"
	"fixedrate-amm-lab/internal/storage"
	chstore "fixedrate-amm-lab/internal/storage/clickhouse"
	"fixedrate-amm-lab/internal/storage/memory"
	"fixedrate-amm-lab/internal/storage/migrations"
	pgstore "fixedrate-amm-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	runID := flag.String("run-id", "", "Run identifier (default: generated from start time)")
	agentSpecs := flag.String("agents", "SINGLE_LONG:0.25,SINGLE_SHORT:0.25,LIQUIDITY_PROVIDER:1.0", "Comma-separated agents as TYPE[:trade-fraction]")
	budget := flag.Float64("budget", 1000, "Base budget per agent")

	// Run parameters
	steps := flag.Int("steps", 360, "Number of simulation steps")
	stepSizeDays := flag.Float64("step-size-days", 1, "Step size in days")

	// Market parameters
	shareReserves := flag.Float64("share-reserves", 500000, "Initial share reserves")
	bondReserves := flag.Float64("bond-reserves", 500000, "Initial bond reserves")
	sharePrice := flag.Float64("share-price", 1.0, "Share price (base per share)")
	feeRate := flag.Float64("fee-rate", 0.001, "Proportional fee rate on fills")
	positionDays := flag.Float64("position-days", 180, "Position duration in days")
	timeStretch := flag.Float64("time-stretch", 22.186877016851916, "Time stretch constant")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage")
	migrate := flag.Bool("migrate", false, "Run schema migrations before the simulation")

	// Output
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[simulate] ", log.LstdFlags)

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

	// Create stores
	var runStore storage.RunStore = memory.NewRunStore()
	var reportStore storage.AgentReportStore = memory.NewAgentReportStore()
	var snapStore storage.StepSnapshotStore = memory.NewStepSnapshotStore()

	if !*useMemory {
		// Require DSNs when not using memory
		if *postgresDSN == "" {
			logger.Fatal("--postgres-dsn is required when not using --use-memory (runs and agent reports)")
		}
		if *clickhouseDSN == "" {
			logger.Fatal("--clickhouse-dsn is required when not using --use-memory (step snapshots)")
		}

		// PostgreSQL for runs and agent reports
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()

		if *migrate {
			if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
				logger.Fatalf("postgres migrations: %v", err)
			}
		}

		runStore = pgstore.NewRunStore(pool)
		reportStore = pgstore.NewAgentReportStore(pool)

		// ClickHouse for step snapshots
		var conn *chstore.Conn
		if *migrate {
			conn, err = migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		} else {
			conn, err = chstore.NewConn(ctx, *clickhouseDSN)
		}
		if err != nil {
			logger.Fatalf("connect to clickhouse: %v", err)
		}
		defer conn.Close()

		snapStore = chstore.NewStepSnapshotStore(conn)
	}

	// Build agents from policy specs
	configs, err := parseAgentSpecs(*agentSpecs)
	if err != nil {
		logger.Fatalf("invalid --agents: %v", err)
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

	// Run simulation
	runner := simulation.NewRunner(simulation.RunnerOptions{
		Clock:         clock,
		Market:        mkt,
		Agents:        agents,
		RunStore:      runStore,
		SnapshotStore: snapStore,
		ReportStore:   reportStore,
	})

	logger.Printf("Running simulation: run=%s agents=%d steps=%d step-size=%gd",
		*runID, len(agents), *steps, *stepSizeDays)

	result, err := runner.Run(ctx, simulation.RunConfig{
		RunID:         *runID,
		Steps:         *steps,
		StepSizeYears: *stepSizeDays / simtime.DefaultNormalizingConstant,
	})
	if err != nil {
		logger.Fatalf("simulation failed: %v", err)
	}

	// Output result
	if *outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
	} else {
		printResult(result, agents)
	}
}

// parseAgentSpecs parses the --agents flag: comma-separated TYPE[:fraction]
// entries, e.g. "SINGLE_LONG:0.25,NO_ACTION".
func parseAgentSpecs(specs string) ([]domain.PolicyConfig, error) {
	var configs []domain.PolicyConfig
	for _, spec := range strings.Split(specs, ",") {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}

		cfg := domain.PolicyConfig{}
		if idx := strings.IndexByte(spec, ':'); idx >= 0 {
			fraction, err := strconv.ParseFloat(spec[idx+1:], 64)
			if err != nil {
				return nil, fmt.Errorf("parse trade fraction in %q: %w", spec, err)
			}
			cfg.PolicyType = strings.ToUpper(spec[:idx])
			cfg.TradeFraction = &fraction
		} else {
			cfg.PolicyType = strings.ToUpper(spec)
		}
		configs = append(configs, cfg)
	}
	if len(configs) == 0 {
		return nil, fmt.Errorf("no agents specified")
	}
	return configs, nil
}

// printResult outputs a human-readable run result.
func printResult(result *simulation.Result, agents []*agent.Agent) {
	run := result.Run

	fmt.Println()
	fmt.Println("=== Simulation Result ===")
	fmt.Printf("Run ID:             %s\n", run.RunID)
	fmt.Printf("Started:            %s\n", time.UnixMilli(run.StartedAtMs).Format(time.RFC3339))
	fmt.Printf("Steps:              %d x %.6f years\n", run.Steps, run.StepSizeYears)
	fmt.Printf("Final Market Time:  %.6f years\n", run.FinalMarketTime)
	fmt.Printf("Final Spot Price:   %.6f\n", run.FinalSpotPrice)
	fmt.Println()

	fmt.Println("Agents:")
	for i, rep := range result.Reports {
		fmt.Printf("  [%d] %s\n", rep.Address, agents[i].PolicyName())
		fmt.Printf("      Worth:          %.4f\n", rep.Worth)
		fmt.Printf("      PnL:            %.4f\n", rep.ProfitAndLoss)
		fmt.Printf("      HPR:            %.4f%%\n", rep.HoldingPeriodRate*100)
		fmt.Printf("      APR:            %.4f%%\n", rep.AnnualizedRate*100)
	}
}
