package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fixture-results/internal/domain/event"
	qb "github.com/riskibarqy/fixture-results/internal/platform/querybuilder"
)

const oddsTable = "odds1x2"

// EventRepository reads betting-market events written by the odds collector.
type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) ListStartedBefore(ctx context.Context, cutoff time.Time) ([]event.Event, error) {
	query, args, err := listStartedBeforeQuery(cutoff)
	if err != nil {
		return nil, fmt.Errorf("build select events started before query: %w", err)
	}

	var rows []oddsEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select events started before %s: %w", cutoff.UTC().Format(time.RFC3339), err)
	}

	return eventsFromRows(rows), nil
}

// odds1x2 carries one row per market line, so events are deduplicated on
// event_id keeping the earliest start.
func listStartedBeforeQuery(cutoff time.Time) (string, []any, error) {
	return qb.Select("event_id", "home_team", "away_team", "starts").
		DistinctOn("event_id").
		From(oddsTable).
		Where(qb.Lt("starts", cutoff.UTC())).
		OrderBy("event_id", "starts").
		ToSQL()
}

func eventsFromRows(rows []oddsEventTableModel) []event.Event {
	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, event.New(
			row.EventID,
			nullStringValue(row.HomeTeam),
			nullStringValue(row.AwayTeam),
			row.Starts,
		))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].ID < out[j].ID
	})

	return out
}
