package postgres

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/fixture-results/internal/domain/rawdata"
	"github.com/riskibarqy/fixture-results/internal/domain/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListStartedBeforeQuery(t *testing.T) {
	cutoff := time.Date(2025, 11, 4, 21, 0, 0, 0, time.FixedZone("WIB", 7*3600))

	query, args, err := listStartedBeforeQuery(cutoff)
	require.NoError(t, err)

	assert.Equal(t, "SELECT DISTINCT ON (event_id) event_id, home_team, away_team, starts FROM odds1x2 WHERE starts < $1 ORDER BY event_id, starts", query)
	require.Len(t, args, 1)
	got, ok := args[0].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, got.Equal(cutoff))
}

func TestEventsFromRows_NormalizesAndOrders(t *testing.T) {
	early := time.Date(2025, 11, 1, 15, 0, 0, 0, time.UTC)
	late := early.Add(24 * time.Hour)

	rows := []oddsEventTableModel{
		{EventID: "b", HomeTeam: sql.NullString{String: " Chelsea ", Valid: true}, AwayTeam: sql.NullString{String: "Fulham", Valid: true}, Starts: late},
		{EventID: "c", HomeTeam: sql.NullString{String: "Arsenal", Valid: true}, AwayTeam: sql.NullString{}, Starts: early},
		{EventID: "a", HomeTeam: sql.NullString{String: "Everton", Valid: true}, AwayTeam: sql.NullString{String: "Spurs", Valid: true}, Starts: early},
	}

	out := eventsFromRows(rows)
	require.Len(t, out, 3)

	assert.Equal(t, []string{"a", "c", "b"}, []string{out[0].ID, out[1].ID, out[2].ID})
	assert.Equal(t, "chelsea", out[2].HomeTeam)
	assert.Equal(t, "arsenal", out[1].HomeTeam)
	assert.Equal(t, "", out[1].AwayTeam)
}

func TestInsertResultQuery(t *testing.T) {
	starts := time.Date(2025, 11, 1, 15, 0, 0, 0, time.UTC)

	query, args, err := insertResultQuery(result.Result{
		EventID:   "evt-1",
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		StartsAt:  starts,
		HomeScore: 2,
		AwayScore: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO results (event_id, home_team, away_team, starts, home_score, away_score) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (event_id) DO NOTHING", query)
	assert.Equal(t, []any{"evt-1", "Arsenal", "Chelsea", starts, 2, 1}, args)
}

func TestUpsertRawPayloadQuery(t *testing.T) {
	payload := rawdata.NewPayload("sportapi", "scheduled_events", "2025-11-01", []byte(`{"events":[]}`), time.Time{})

	query, args, err := upsertRawPayloadQuery(payload)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "INSERT INTO raw_data_payloads (source, entity_type, entity_key, payload, payload_hash, source_updated_at) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (source, entity_type, entity_key)"))
	assert.Contains(t, query, "IS DISTINCT FROM EXCLUDED.payload_hash")
	require.Len(t, args, 6)
	assert.Equal(t, "sportapi", args[0])
	assert.Equal(t, `{"events":[]}`, args[3])
	assert.Equal(t, payload.PayloadHash, args[4])
}

func TestNullStringValue(t *testing.T) {
	assert.Equal(t, "", nullStringValue(sql.NullString{}))
	assert.Equal(t, "x", nullStringValue(sql.NullString{String: "x", Valid: true}))
}
