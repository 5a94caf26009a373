package app

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fixture-results/external/sportapi"
	"github.com/riskibarqy/fixture-results/internal/config"
	"github.com/riskibarqy/fixture-results/internal/domain/rawdata"
	"github.com/riskibarqy/fixture-results/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fixture-results/internal/platform/logging"
	"github.com/riskibarqy/fixture-results/internal/platform/resilience"
	"github.com/riskibarqy/fixture-results/internal/usecase"
)

// Reconciler owns the resources of one batch run.
type Reconciler struct {
	db      *sqlx.DB
	service *usecase.ReconcileService
	input   usecase.RunInput
}

// NewReconciler connects to the database and wires the reconcile service.
// A database that cannot be reached is returned as an error.
func NewReconciler(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Reconciler, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := sportapi.NewClient(sportapi.ClientConfig{
		BaseURL:        cfg.SportAPIBaseURL,
		Host:           cfg.SportAPIHost,
		APIKey:         cfg.SportAPIKey,
		Timeout:        cfg.SportAPITimeout,
		MaxRetries:     cfg.SportAPIMaxRetries,
		Logger:         logger,
		CircuitBreaker: circuitBreakerConfig(cfg),
	})

	var rawRepo rawdata.Repository
	if cfg.RawPayloadArchiveEnabled {
		rawRepo = postgres.NewRawDataRepository(db)
	}

	service := usecase.NewReconcileService(
		reconcileConfig(cfg),
		postgres.NewEventRepository(db),
		postgres.NewResultRepository(db),
		rawRepo,
		client,
		logger,
	)

	return &Reconciler{
		db:      db,
		service: service,
		input:   runInput(cfg),
	}, nil
}

func (r *Reconciler) Run(ctx context.Context) (usecase.RunSummary, error) {
	return r.service.Run(ctx, r.input)
}

func (r *Reconciler) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := openTracedDB(dsn)
	if err != nil {
		return nil, crerr.Wrap(err, "open database")
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, crerr.Wrapf(err, "ping database %s", dbNameFromURL(dsn))
	}

	return db, nil
}

func reconcileConfig(cfg config.Config) usecase.ReconcileConfig {
	return usecase.ReconcileConfig{
		CompetitionID:      cfg.TournamentID,
		FeedMode:           usecase.FeedMode(cfg.FeedMode),
		ToleranceDays:      cfg.MatchToleranceDays,
		TieBreak:           usecase.TieBreakPolicy(cfg.MatchTieBreak),
		CutoffMargin:       cfg.CandidateCutoffMargin,
		ArchiveRawPayloads: cfg.RawPayloadArchiveEnabled,
	}
}

func runInput(cfg config.Config) usecase.RunInput {
	return usecase.RunInput{
		StartDate: cfg.StartDate,
		EndDate:   cfg.EndDate,
		DryRun:    cfg.DryRun,
	}
}

func circuitBreakerConfig(cfg config.Config) resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		Enabled:          cfg.SportAPICircuitEnabled,
		FailureThreshold: cfg.SportAPICircuitFailureCount,
		OpenTimeout:      cfg.SportAPICircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.SportAPICircuitHalfOpenMaxReq,
	}
}
