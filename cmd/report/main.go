package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fixedrate-amm-lab/internal/reporting"
	chstore "fixedrate-amm-lab/internal/storage/clickhouse"
	pgstore "fixedrate-amm-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	runID := flag.String("run-id", "", "Run ID to report on (required)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (required)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (optional; enables market path)")
	format := flag.String("format", "markdown", "Output format: markdown, csv")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[report] ", log.LstdFlags)

	// Validate required flags
	if *runID == "" {
		logger.Fatal("--run-id is required")
	}
	if *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required")
	}
	if *format != "markdown" && *format != "csv" {
		logger.Fatalf("Invalid format: %s. Must be markdown or csv", *format)
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

	// PostgreSQL for runs and agent reports
	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	opts := reporting.GeneratorOptions{
		RunStore:    pgstore.NewRunStore(pool),
		ReportStore: pgstore.NewAgentReportStore(pool),
	}

	// ClickHouse for the market path, when configured
	if *clickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("connect to clickhouse: %v", err)
		}
		defer conn.Close()
		opts.SnapshotStore = chstore.NewStepSnapshotStore(conn)
	}

	generator := reporting.NewGenerator(opts)

	report, err := generator.Generate(ctx, *runID)
	if err != nil {
		logger.Fatalf("generate report: %v", err)
	}

	switch *format {
	case "csv":
		fmt.Print(reporting.RenderCSV(report.AgentRows))
	default:
		fmt.Print(reporting.RenderMarkdown(report))
	}
}
