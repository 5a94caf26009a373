package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fixture-results/internal/domain/event"
	"github.com/riskibarqy/fixture-results/internal/domain/rawdata"
	"github.com/riskibarqy/fixture-results/internal/domain/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_ListStartedBefore(t *testing.T) {
	base := time.Date(2025, 11, 1, 15, 0, 0, 0, time.UTC)
	repo := NewEventRepository([]event.Event{
		event.New("late", "A", "B", base.Add(48*time.Hour)),
		event.New("b", "C", "D", base),
		event.New("a", "E", "F", base),
	})

	out, err := repo.ListStartedBefore(context.Background(), base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)

	repo.FailWith(errors.New("db down"))
	_, err = repo.ListStartedBefore(context.Background(), base)
	require.Error(t, err)
}

func TestResultRepository_InsertIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewResultRepository(result.Result{EventID: "existing"})

	n, err := repo.InsertIfAbsent(ctx, result.Result{EventID: "new", HomeScore: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.InsertIfAbsent(ctx, result.Result{EventID: "new", HomeScore: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	n, err = repo.InsertIfAbsent(ctx, result.Result{EventID: "existing"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	repo.FailOn("broken", errors.New("constraint"))
	_, err = repo.InsertIfAbsent(ctx, result.Result{EventID: "broken"})
	require.Error(t, err)

	stored := repo.List()
	require.Len(t, stored, 2)
	assert.Equal(t, "existing", stored[0].EventID)
	assert.Equal(t, 1, stored[1].HomeScore)
}

func TestRawDataRepository_UpsertMany(t *testing.T) {
	repo := NewRawDataRepository()
	first := rawdata.NewPayload("sportapi", "scheduled_events", "2025-11-01", []byte(`{"events":[]}`), time.Time{})
	second := rawdata.NewPayload("sportapi", "scheduled_events", "2025-11-01", []byte(`{"events":[{}]}`), time.Time{})

	require.NoError(t, repo.UpsertMany(context.Background(), []rawdata.Payload{first}))
	require.NoError(t, repo.UpsertMany(context.Background(), []rawdata.Payload{second}))

	items := repo.List()
	require.Len(t, items, 1)
	assert.Equal(t, second.PayloadHash, items[0].PayloadHash)
}
