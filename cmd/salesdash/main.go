// Command salesdash reads an Amazon sales transaction CSV, cleans and
// aggregates it, and writes a timestamped multi-sheet Excel dashboard.
//
// The run is one shot: load, clean, aggregate, report, exit. There are no
// flags; configuration comes from an optional config.yaml overlaid by
// SALESDASH_* environment variables.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"salesdash/internal/aggregator"
	"salesdash/internal/cleaner"
	"salesdash/internal/config"
	apperrors "salesdash/internal/errors"
	"salesdash/internal/infrastructure"
	"salesdash/internal/loader"
	"salesdash/internal/report"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return 1
	}

	if err := cfg.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.NewRunID())
	start := time.Now()

	logger.InfoContext(ctx, "Starting dashboard generation",
		slog.String("input_file", cfg.Paths.InputFile),
		slog.String("output_dir", cfg.Paths.OutputDir))

	fmt.Printf("Reading %s\n", cfg.Paths.InputFile)
	raws, err := loader.New(logger).Load(ctx, cfg.Paths.InputFile)
	if err != nil {
		return fail(ctx, logger, "loading source file", err)
	}
	fmt.Printf("Loaded %d rows\n", len(raws))

	clean, quality := cleaner.New(logger).Clean(ctx, raws)
	fmt.Printf("Cleaned data: %d retained, %d dropped\n", quality.Retained, quality.Dropped())

	tables := aggregator.New(logger).Aggregate(ctx, clean)

	artifact := report.Artifact{
		Transactions: clean,
		Quality:      quality,
		Tables:       tables,
		GeneratedAt:  time.Now(),
	}
	path, err := report.NewWriter(logger, cfg.Paths.OutputDir).Write(ctx, artifact)
	if err != nil {
		return fail(ctx, logger, "writing dashboard workbook", err)
	}

	logger.InfoContext(ctx, "Dashboard generation completed",
		slog.String("output_path", path),
		slog.Duration("elapsed", time.Since(start)))

	fmt.Printf("Dashboard written to %s\n", path)
	return 0
}

// fail logs a fatal pipeline error with its classified type and returns the
// process exit code.
func fail(ctx context.Context, logger *slog.Logger, stage string, err error) int {
	logger.ErrorContext(ctx, "Dashboard generation failed",
		slog.String("stage", stage),
		slog.String("error_type", string(apperrors.TypeOf(err))),
		slog.String("error", err.Error()))
	fmt.Fprintf(os.Stderr, "Error while %s: %v\n", stage, err)
	return 1
}
