package fixture

import (
	"strings"
	"time"
)

const (
	StatusScheduled  = "notstarted"
	StatusInProgress = "inprogress"
	StatusFinished   = "finished"
)

// Fixture is one match record as reported by the external results feed.
// Team names are kept verbatim; StartsAt is always UTC.
type Fixture struct {
	ExternalID    int64
	HomeTeam      string
	AwayTeam      string
	StartsAt      time.Time
	Status        string
	CompetitionID string
	HomeScore     *int
	AwayScore     *int
}

func NormalizeStatus(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func IsFinishedStatus(status string) bool {
	return NormalizeStatus(status) == StatusFinished
}

func IsLiveStatus(status string) bool {
	return NormalizeStatus(status) == StatusInProgress
}

func IsScheduledStatus(status string) bool {
	return NormalizeStatus(status) == StatusScheduled
}

// HasFinalScore reports whether both regulation-time scores are present.
func (f Fixture) HasFinalScore() bool {
	return f.HomeScore != nil && f.AwayScore != nil
}
