package sportapi

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fixture-results/internal/domain/fixture"
)

type eventsEnvelope struct {
	Events      []eventItem `json:"events"`
	HasNextPage bool        `json:"hasNextPage"`
}

type eventItem struct {
	ID             int64         `json:"id"`
	Status         eventStatus   `json:"status"`
	Tournament     tournamentRef `json:"tournament"`
	HomeTeam       teamRef       `json:"homeTeam"`
	AwayTeam       teamRef       `json:"awayTeam"`
	HomeScore      scoreRef      `json:"homeScore"`
	AwayScore      scoreRef      `json:"awayScore"`
	StartTimestamp flexTime      `json:"startTimestamp"`
}

type eventStatus struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type tournamentRef struct {
	ID   flexID `json:"id"`
	Name string `json:"name"`
}

type teamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// scoreRef carries per-period goals; normaltime excludes extra time and penalties.
type scoreRef struct {
	Current    *int `json:"current"`
	NormalTime *int `json:"normaltime"`
}

func (e eventItem) toFixture() fixture.Fixture {
	return fixture.Fixture{
		ExternalID:    e.ID,
		HomeTeam:      e.HomeTeam.Name,
		AwayTeam:      e.AwayTeam.Name,
		StartsAt:      e.StartTimestamp.Time,
		Status:        fixture.NormalizeStatus(e.Status.Type),
		CompetitionID: string(e.Tournament.ID),
		HomeScore:     e.HomeScore.NormalTime,
		AwayScore:     e.AwayScore.NormalTime,
	}
}

func mapFixtures(items []eventItem) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		out = append(out, item.toFixture())
	}
	return out
}

// flexID accepts a JSON number or string and keeps its textual form.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		value, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("decode id %s: %w", data, err)
		}
		*f = flexID(strings.TrimSpace(value))
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("decode id %s: %w", data, err)
	}
	*f = flexID(data)
	return nil
}

// flexTime accepts unix seconds as a number or numeric string, or an
// ISO-8601 string. Values without an offset are read as UTC.
type flexTime struct {
	time.Time
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (f *flexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		f.Time = time.Time{}
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		value, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("decode start timestamp %s: %w", raw, err)
		}
		raw = strings.TrimSpace(value)
		if raw == "" {
			f.Time = time.Time{}
			return nil
		}
	}

	parsed, err := parseStartTimestamp(raw)
	if err != nil {
		return err
	}
	f.Time = parsed
	return nil
}

func parseStartTimestamp(raw string) (time.Time, error) {
	if seconds, err := strconv.ParseFloat(raw, 64); err == nil {
		if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return time.Time{}, fmt.Errorf("start timestamp %q is not finite", raw)
		}
		whole, frac := math.Modf(seconds)
		return time.Unix(int64(whole), int64(frac*1e9)).UTC(), nil
	}

	for _, layout := range isoLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported start timestamp %q", raw)
}
