package usecase

import (
	"time"

	"github.com/riskibarqy/fixture-results/internal/domain/event"
	"github.com/riskibarqy/fixture-results/internal/domain/fixture"
)

type TieBreakPolicy string

const (
	// TieBreakFirst takes the first candidate in source order.
	TieBreakFirst TieBreakPolicy = "first"
	// TieBreakNearest takes the candidate closest in start time, then source order.
	TieBreakNearest TieBreakPolicy = "nearest"

	DefaultToleranceDays = 2

	secondsPerDay = 24 * 60 * 60
)

// Matcher pairs an external fixture with a local event by normalized team
// names and a start-date window measured in UTC calendar days.
type Matcher struct {
	ToleranceDays int
	TieBreak      TieBreakPolicy
}

func (m Matcher) FindMatch(fx fixture.Fixture, candidates []event.Event) (event.Event, bool) {
	home := event.NormalizeTeamName(fx.HomeTeam)
	away := event.NormalizeTeamName(fx.AwayTeam)
	if home == "" || away == "" || fx.StartsAt.IsZero() {
		return event.Event{}, false
	}

	var (
		best      event.Event
		bestDelta time.Duration
		found     bool
	)
	for _, candidate := range candidates {
		if candidate.HomeTeam != home || candidate.AwayTeam != away {
			continue
		}
		if absInt64(daysBetween(fx.StartsAt, candidate.StartsAt)) > int64(m.ToleranceDays) {
			continue
		}
		if m.TieBreak != TieBreakNearest {
			return candidate, true
		}

		delta := absDuration(fx.StartsAt.Sub(candidate.StartsAt))
		if !found || delta < bestDelta {
			best, bestDelta, found = candidate, delta, true
		}
	}

	return best, found
}

// daysBetween is the signed difference between the UTC calendar dates of a and b.
func daysBetween(a, b time.Time) int64 {
	return utcDayNumber(a) - utcDayNumber(b)
}

func utcDayNumber(t time.Time) int64 {
	sec := t.Unix()
	day := sec / secondsPerDay
	if sec%secondsPerDay < 0 {
		day--
	}
	return day
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func absDuration(v time.Duration) time.Duration {
	if v < 0 {
		return -v
	}
	return v
}
