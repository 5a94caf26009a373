package result

import "time"

// Result is a final score matched to a local event. At most one Result
// exists per EventID; team names keep the casing reported by the feed.
type Result struct {
	EventID   string
	HomeTeam  string
	AwayTeam  string
	StartsAt  time.Time
	HomeScore int
	AwayScore int
}
