package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/riskibarqy/fixture-results/internal/domain/event"
	"github.com/riskibarqy/fixture-results/internal/domain/fixture"
	"github.com/riskibarqy/fixture-results/internal/domain/rawdata"
	"github.com/riskibarqy/fixture-results/internal/domain/result"
	"github.com/riskibarqy/fixture-results/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ResultFeed is the external source of fixtures. Each call is one request.
type ResultFeed interface {
	FetchFixturesByDay(ctx context.Context, day time.Time) ([]fixture.Fixture, rawdata.Payload, error)
	FetchFixturesByCompetition(ctx context.Context, competitionID string) ([]fixture.Fixture, rawdata.Payload, error)
}

type FeedMode string

const (
	FeedModeDay         FeedMode = "day"
	FeedModeCompetition FeedMode = "competition"
)

type ReconcileConfig struct {
	CompetitionID      string
	FeedMode           FeedMode
	ToleranceDays      int
	TieBreak           TieBreakPolicy
	CutoffMargin       time.Duration
	ArchiveRawPayloads bool
}

type RunInput struct {
	// StartDate and EndDate bound the UTC days fetched in day mode, inclusive.
	StartDate time.Time
	EndDate   time.Time
	// DryRun matches without writing; would-be inserts are counted as inserted.
	DryRun bool
}

type PeriodSummary struct {
	Marker       string             `json:"marker"`
	Fetched      int                `json:"fetched"`
	Eligible     int                `json:"eligible"`
	Matched      int                `json:"matched"`
	Inserted     int                `json:"inserted"`
	Duplicates   int                `json:"duplicates"`
	Skipped      int                `json:"skipped"`
	InsertFailed int                `json:"insert_failed"`
	SkipReasons  map[SkipReason]int `json:"skip_reasons,omitempty"`
	Err          error              `json:"-"`
}

type RunSummary struct {
	RunID         string          `json:"run_id"`
	DryRun        bool            `json:"dry_run"`
	Candidates    int             `json:"candidates"`
	Fetched       int             `json:"fetched"`
	Matched       int             `json:"matched"`
	Inserted      int             `json:"inserted"`
	Duplicates    int             `json:"duplicates"`
	Skipped       int             `json:"skipped"`
	InsertFailed  int             `json:"insert_failed"`
	FailedPeriods int             `json:"failed_periods"`
	Duration      time.Duration   `json:"duration"`
	Periods       []PeriodSummary `json:"periods"`
}

// ReconcileService matches finished external fixtures to local events and
// records each final score once.
type ReconcileService struct {
	cfg      ReconcileConfig
	events   event.Repository
	results  result.Repository
	rawData  rawdata.Repository
	feed     ResultFeed
	filter   FixtureFilter
	matcher  Matcher
	logger   *logging.Logger
	now      func() time.Time
	newRunID func() string
}

// NewReconcileService builds the driver. rawData may be nil when payload
// archiving is off.
func NewReconcileService(
	cfg ReconcileConfig,
	events event.Repository,
	results result.Repository,
	rawData rawdata.Repository,
	feed ResultFeed,
	logger *logging.Logger,
) *ReconcileService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FeedMode == "" {
		cfg.FeedMode = FeedModeDay
	}
	if cfg.TieBreak == "" {
		cfg.TieBreak = TieBreakFirst
	}
	cfg.CompetitionID = strings.TrimSpace(cfg.CompetitionID)

	return &ReconcileService{
		cfg:      cfg,
		events:   events,
		results:  results,
		rawData:  rawData,
		feed:     feed,
		filter:   FixtureFilter{CompetitionID: cfg.CompetitionID},
		matcher:  Matcher{ToleranceDays: cfg.ToleranceDays, TieBreak: cfg.TieBreak},
		logger:   logger,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
}

type reconcilePeriod struct {
	marker string
	fetch  func(ctx context.Context) ([]fixture.Fixture, rawdata.Payload, error)
}

// Run reads candidates once, then reconciles every period in order. Only a
// candidate read failure, invalid input or cancellation is returned as an
// error; period failures are reported in the summary.
func (s *ReconcileService) Run(ctx context.Context, input RunInput) (RunSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.Run")
	defer span.End()

	startedAt := s.now()
	summary := RunSummary{
		RunID:  s.newRunID(),
		DryRun: input.DryRun,
	}
	logger := s.logger.With("run_id", summary.RunID)

	periods, err := s.buildPeriods(input)
	if err != nil {
		return summary, err
	}

	cutoff := startedAt.UTC().Add(-s.cfg.CutoffMargin)
	candidates, err := s.events.ListStartedBefore(ctx, cutoff)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list candidates")
		return summary, crerr.Wrapf(err, "list candidate events started before %s", cutoff.Format(time.RFC3339))
	}
	summary.Candidates = len(candidates)
	span.SetAttributes(
		attribute.String("reconcile.run_id", summary.RunID),
		attribute.Int("reconcile.candidates", len(candidates)),
		attribute.Int("reconcile.periods", len(periods)),
	)
	logger.InfoContext(ctx, "reconcile run started",
		"feed_mode", string(s.cfg.FeedMode),
		"competition_id", s.cfg.CompetitionID,
		"periods", len(periods),
		"candidates", len(candidates),
		"cutoff", cutoff.Format(time.RFC3339),
		"tolerance_days", s.cfg.ToleranceDays,
		"tie_break", string(s.cfg.TieBreak),
		"dry_run", input.DryRun,
	)

	// Dry runs write nothing, so the results table cannot report duplicates.
	dryRunWritten := make(map[string]struct{})
	for _, period := range periods {
		if err := ctx.Err(); err != nil {
			summary.Duration = s.now().Sub(startedAt)
			logger.WarnContext(ctx, "reconcile run canceled", "completed_periods", len(summary.Periods), "error", err)
			return summary, err
		}

		summary.add(s.reconcilePeriod(ctx, logger, period, candidates, input.DryRun, dryRunWritten))
	}

	summary.Duration = s.now().Sub(startedAt)
	logger.InfoContext(ctx, "reconcile run finished",
		"candidates", summary.Candidates,
		"fetched", summary.Fetched,
		"matched", summary.Matched,
		"inserted", summary.Inserted,
		"duplicates", summary.Duplicates,
		"skipped", summary.Skipped,
		"insert_failed", summary.InsertFailed,
		"failed_periods", summary.FailedPeriods,
		"duration", summary.Duration,
	)

	return summary, nil
}

func (s *ReconcileService) buildPeriods(input RunInput) ([]reconcilePeriod, error) {
	switch s.cfg.FeedMode {
	case FeedModeCompetition:
		if s.cfg.CompetitionID == "" {
			return nil, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
		}
		competitionID := s.cfg.CompetitionID
		return []reconcilePeriod{{
			marker: "competition:" + competitionID,
			fetch: func(ctx context.Context) ([]fixture.Fixture, rawdata.Payload, error) {
				return s.feed.FetchFixturesByCompetition(ctx, competitionID)
			},
		}}, nil
	case FeedModeDay:
		start := utcDay(input.StartDate)
		end := utcDay(input.EndDate)
		if start.IsZero() || end.IsZero() {
			return nil, fmt.Errorf("%w: start and end date are required", ErrInvalidInput)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidInput, end.Format(time.DateOnly), start.Format(time.DateOnly))
		}

		periods := make([]reconcilePeriod, 0, int(end.Sub(start).Hours()/24)+1)
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			day := day
			periods = append(periods, reconcilePeriod{
				marker: day.Format(time.DateOnly),
				fetch: func(ctx context.Context) ([]fixture.Fixture, rawdata.Payload, error) {
					return s.feed.FetchFixturesByDay(ctx, day)
				},
			})
		}
		return periods, nil
	default:
		return nil, fmt.Errorf("%w: unknown feed mode %q", ErrInvalidInput, s.cfg.FeedMode)
	}
}

// reconcilePeriod matches every fixture of one period against the full
// candidate set. A fixture seen again in a later period resolves to the same
// event and becomes a duplicate.
func (s *ReconcileService) reconcilePeriod(
	ctx context.Context,
	logger *logging.Logger,
	period reconcilePeriod,
	candidates []event.Event,
	dryRun bool,
	dryRunWritten map[string]struct{},
) PeriodSummary {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.reconcilePeriod")
	defer span.End()
	span.SetAttributes(attribute.String("reconcile.period", period.marker))

	ps := PeriodSummary{Marker: period.marker, SkipReasons: make(map[SkipReason]int)}

	fixtures, payload, err := period.fetch(ctx)
	if err != nil {
		ps.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch fixtures")
		logger.ErrorContext(ctx, "fetch fixtures failed, skipping period", "period", period.marker, "error", err)
		return ps
	}
	ps.Fetched = len(fixtures)

	s.archivePayload(ctx, logger, period.marker, payload, dryRun)

	for _, fx := range fixtures {
		if ok, reason := s.filter.Check(fx); !ok {
			ps.skip(reason)
			continue
		}
		ps.Eligible++

		matched, ok := s.matcher.FindMatch(fx, candidates)
		if !ok {
			ps.skip(SkipReasonNoMatch)
			logger.DebugContext(ctx, "no local event for fixture",
				"period", period.marker,
				"external_id", fx.ExternalID,
				"home_team", fx.HomeTeam,
				"away_team", fx.AwayTeam,
				"starts_at", fx.StartsAt,
			)
			continue
		}
		ps.Matched++

		item := result.Result{
			EventID:   matched.ID,
			HomeTeam:  strings.TrimSpace(fx.HomeTeam),
			AwayTeam:  strings.TrimSpace(fx.AwayTeam),
			StartsAt:  fx.StartsAt.UTC(),
			HomeScore: *fx.HomeScore,
			AwayScore: *fx.AwayScore,
		}

		if dryRun {
			if _, seen := dryRunWritten[item.EventID]; seen {
				ps.Duplicates++
				continue
			}
			dryRunWritten[item.EventID] = struct{}{}
			ps.Inserted++
			logger.InfoContext(ctx, "dry run: would insert result", "period", period.marker, "event_id", item.EventID, "home_score", item.HomeScore, "away_score", item.AwayScore)
			continue
		}

		inserted, err := s.results.InsertIfAbsent(ctx, item)
		if err != nil {
			ps.InsertFailed++
			ps.skip(SkipReasonInsertFailed)
			span.RecordError(err)
			logger.ErrorContext(ctx, "insert result failed", "period", period.marker, "event_id", item.EventID, "error", err)
			continue
		}

		if inserted > 0 {
			ps.Inserted++
			logger.InfoContext(ctx, "result inserted",
				"period", period.marker,
				"event_id", item.EventID,
				"home_team", item.HomeTeam,
				"away_team", item.AwayTeam,
				"home_score", item.HomeScore,
				"away_score", item.AwayScore,
			)
		} else {
			ps.Duplicates++
		}
	}

	logger.InfoContext(ctx, "period reconciled",
		"period", period.marker,
		"fetched", ps.Fetched,
		"eligible", ps.Eligible,
		"matched", ps.Matched,
		"inserted", ps.Inserted,
		"duplicates", ps.Duplicates,
		"skipped", ps.Skipped,
		"insert_failed", ps.InsertFailed,
	)
	return ps
}

// archivePayload stores the raw response; failures never affect the period.
func (s *ReconcileService) archivePayload(ctx context.Context, logger *logging.Logger, marker string, payload rawdata.Payload, dryRun bool) {
	if !s.cfg.ArchiveRawPayloads || s.rawData == nil || dryRun || payload.EntityKey == "" {
		return
	}
	if err := s.rawData.UpsertMany(ctx, []rawdata.Payload{payload}); err != nil {
		logger.WarnContext(ctx, "archive raw payload failed", "period", marker, "entity_type", payload.EntityType, "error", err)
	}
}

func (p *PeriodSummary) skip(reason SkipReason) {
	p.Skipped++
	p.SkipReasons[reason]++
}

func (r *RunSummary) add(p PeriodSummary) {
	r.Periods = append(r.Periods, p)
	r.Fetched += p.Fetched
	r.Matched += p.Matched
	r.Inserted += p.Inserted
	r.Duplicates += p.Duplicates
	r.Skipped += p.Skipped
	r.InsertFailed += p.InsertFailed
	if p.Err != nil {
		r.FailedPeriods++
	}
}

func utcDay(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
