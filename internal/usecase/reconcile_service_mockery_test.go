package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fixture-results/internal/domain/event"
	"github.com/riskibarqy/fixture-results/internal/domain/fixture"
	"github.com/riskibarqy/fixture-results/internal/domain/rawdata"
	"github.com/riskibarqy/fixture-results/internal/domain/result"
	eventmock "github.com/riskibarqy/fixture-results/internal/mocks/domain/event"
	rawdatamock "github.com/riskibarqy/fixture-results/internal/mocks/domain/rawdata"
	resultmock "github.com/riskibarqy/fixture-results/internal/mocks/domain/result"
	"github.com/riskibarqy/fixture-results/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestReconcileService_Run_UsesCutoffAndOriginalNamesUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	eventRepo := eventmock.NewRepository(t)
	resultRepo := resultmock.NewRepository(t)
	feed := newFakeFeed()

	kickoff := time.Date(2025, 11, 1, 15, 0, 0, 0, time.UTC)
	feed.byDay["2025-11-01"] = []fixture.Fixture{finishedFixture(" Arsenal ", "Chelsea", kickoff, 2, 1)}

	wantCutoff := reconcileNow.Add(-3 * time.Hour)
	eventRepo.
		On("ListStartedBefore", mock.Anything, mock.MatchedBy(func(v time.Time) bool { return v.Equal(wantCutoff) })).
		Return([]event.Event{event.New("evt-1", "Arsenal", "Chelsea", kickoff)}, nil).
		Once()
	resultRepo.
		On("InsertIfAbsent", mock.Anything, mock.MatchedBy(func(v result.Result) bool {
			return v.EventID == "evt-1" && v.HomeTeam == "Arsenal" && v.AwayTeam == "Chelsea" && v.HomeScore == 2 && v.AwayScore == 1
		})).
		Return(int64(1), nil).
		Once()

	service := NewReconcileService(ReconcileConfig{
		CompetitionID: "17",
		ToleranceDays: 2,
		CutoffMargin:  3 * time.Hour,
	}, eventRepo, resultRepo, nil, feed, logging.NewNop())
	service.now = func() time.Time { return reconcileNow }

	summary, err := service.Run(ctx, singleDay("2025-11-01"))
	if err != nil {
		t.Fatalf("run reconcile: %v", err)
	}
	if summary.Inserted != 1 {
		t.Fatalf("unexpected inserted count: got=%d want=1", summary.Inserted)
	}
	if summary.RunID == "" {
		t.Fatalf("expected generated run id")
	}
}

func TestReconcileService_Run_ArchiveFailureIsNotFatalUsingMockery(t *testing.T) {
	t.Parallel()

	eventRepo := eventmock.NewRepository(t)
	resultRepo := resultmock.NewRepository(t)
	rawRepo := rawdatamock.NewRepository(t)
	feed := newFakeFeed()

	eventRepo.
		On("ListStartedBefore", mock.Anything, mock.Anything).
		Return([]event.Event{}, nil).
		Once()
	rawRepo.
		On("UpsertMany", mock.Anything, mock.MatchedBy(func(v []rawdata.Payload) bool {
			return len(v) == 1 && v[0].EntityKey == "2025-11-01"
		})).
		Return(errors.New("disk full")).
		Once()

	service := NewReconcileService(ReconcileConfig{
		CompetitionID:      "17",
		ToleranceDays:      2,
		ArchiveRawPayloads: true,
	}, eventRepo, resultRepo, rawRepo, feed, logging.NewNop())
	service.now = func() time.Time { return reconcileNow }

	summary, err := service.Run(context.Background(), singleDay("2025-11-01"))
	if err != nil {
		t.Fatalf("run reconcile: %v", err)
	}
	if summary.FailedPeriods != 0 {
		t.Fatalf("archive failure must not fail the period, got failed_periods=%d", summary.FailedPeriods)
	}
}
