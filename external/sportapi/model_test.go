package sportapi

import (
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexTime_DecodesSupportedForms(t *testing.T) {
	want := time.Date(2025, 11, 1, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
	}{
		{name: "unix number", raw: `1762009200`},
		{name: "numeric string", raw: `"1762009200"`},
		{name: "rfc3339 utc", raw: `"2025-11-01T15:00:00Z"`},
		{name: "rfc3339 offset", raw: `"2025-11-01T22:00:00+07:00"`},
		{name: "naive datetime", raw: `"2025-11-01 15:00:00"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got flexTime
			require.NoError(t, sonic.Unmarshal([]byte(tc.raw), &got))
			assert.True(t, want.Equal(got.Time), "got %s", got.Time)
			assert.Equal(t, time.UTC, got.Time.Location())
		})
	}
}

func TestFlexTime_NullAndInvalid(t *testing.T) {
	var got flexTime
	require.NoError(t, sonic.Unmarshal([]byte(`null`), &got))
	assert.True(t, got.IsZero())

	require.Error(t, sonic.Unmarshal([]byte(`"next saturday"`), &got))
}

func TestFlexID(t *testing.T) {
	var id flexID
	require.NoError(t, sonic.Unmarshal([]byte(`17`), &id))
	assert.Equal(t, flexID("17"), id)

	require.NoError(t, sonic.Unmarshal([]byte(`" 17 "`), &id))
	assert.Equal(t, flexID("17"), id)

	require.NoError(t, sonic.Unmarshal([]byte(`null`), &id))
	assert.Equal(t, flexID(""), id)

	require.Error(t, sonic.Unmarshal([]byte(`true`), &id))
}

func TestEventItem_ToFixtureUsesRegulationScore(t *testing.T) {
	body := []byte(`{"events":[{"id":5,"tournament":{"id":8},"status":{"type":" Finished "},
		"homeTeam":{"name":"Real Madrid"},"awayTeam":{"name":"Barcelona"},
		"homeScore":{"current":4,"normaltime":2},"awayScore":{"current":3,"normaltime":2},
		"startTimestamp":1762009200}]}`)

	var envelope eventsEnvelope
	require.NoError(t, sonic.Unmarshal(body, &envelope))

	fixtures := mapFixtures(envelope.Events)
	require.Len(t, fixtures, 1)
	assert.Equal(t, "finished", fixtures[0].Status)
	assert.Equal(t, "8", fixtures[0].CompetitionID)
	assert.Equal(t, 2, *fixtures[0].HomeScore)
	assert.Equal(t, 2, *fixtures[0].AwayScore)
}
