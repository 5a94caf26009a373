package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fixture-results/internal/domain/result"
	qb "github.com/riskibarqy/fixture-results/internal/platform/querybuilder"
)

const resultsTable = "results"

// ResultRepository writes final scores; event_id is unique in the results table.
type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// InsertIfAbsent runs as its own autocommit statement and returns the number
// of inserted rows, which is 0 when event_id already has a result.
func (r *ResultRepository) InsertIfAbsent(ctx context.Context, item result.Result) (int64, error) {
	query, args, err := insertResultQuery(item)
	if err != nil {
		return 0, fmt.Errorf("build insert result query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert result event_id=%s: %w", item.EventID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected insert result event_id=%s: %w", item.EventID, err)
	}

	return affected, nil
}

func insertResultQuery(item result.Result) (string, []any, error) {
	return qb.InsertModel(resultsTable, resultInsertModel{
		EventID:   item.EventID,
		HomeTeam:  item.HomeTeam,
		AwayTeam:  item.AwayTeam,
		Starts:    item.StartsAt.UTC(),
		HomeScore: item.HomeScore,
		AwayScore: item.AwayScore,
	}, "ON CONFLICT (event_id) DO NOTHING")
}
