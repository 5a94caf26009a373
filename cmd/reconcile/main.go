package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/fixture-results/internal/app"
	"github.com/riskibarqy/fixture-results/internal/config"
	"github.com/riskibarqy/fixture-results/internal/observability"
	"github.com/riskibarqy/fixture-results/internal/platform/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("shutdown uptrace", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, span := otel.Tracer("fixture-results/cmd/reconcile").Start(ctx, "reconcile.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("feed_mode", cfg.FeedMode),
		attribute.String("start_date", cfg.StartDate.Format(time.DateOnly)),
		attribute.String("end_date", cfg.EndDate.Format(time.DateOnly)),
		attribute.Bool("dry_run", cfg.DryRun),
	)

	reconciler, err := app.NewReconciler(ctx, cfg, logger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build reconciler")
		logger.ErrorContext(ctx, "build reconciler", "error", err)
		return 1
	}
	defer func() {
		if err := reconciler.Close(); err != nil {
			logger.Warn("close database", "error", err)
		}
	}()

	summary, err := reconciler.Run(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reconcile")
		logger.ErrorContext(ctx, "reconcile failed", "error", err)
		return 1
	}

	span.SetAttributes(
		attribute.Int("inserted", summary.Inserted),
		attribute.Int("failed_periods", summary.FailedPeriods),
	)
	return 0
}
