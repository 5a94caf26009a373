package event

import (
	"strings"
	"time"
)

// Event is a betting-market fixture recorded by the odds collector.
// HomeTeam and AwayTeam are always stored in normalized form.
type Event struct {
	ID       string
	HomeTeam string
	AwayTeam string
	StartsAt time.Time
}

// NormalizeTeamName canonicalizes a team name for comparison across sources.
func NormalizeTeamName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// New builds an Event from raw store values, normalizing both team names.
func New(id, homeTeam, awayTeam string, startsAt time.Time) Event {
	return Event{
		ID:       strings.TrimSpace(id),
		HomeTeam: NormalizeTeamName(homeTeam),
		AwayTeam: NormalizeTeamName(awayTeam),
		StartsAt: startsAt.UTC(),
	}
}
