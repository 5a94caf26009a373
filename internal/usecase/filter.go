package usecase

import (
	"strings"

	"github.com/riskibarqy/fixture-results/internal/domain/fixture"
)

type SkipReason string

const (
	SkipReasonNone             SkipReason = ""
	SkipReasonNotStarted       SkipReason = "not_started"
	SkipReasonInProgress       SkipReason = "in_progress"
	SkipReasonNotFinished      SkipReason = "not_finished"
	SkipReasonOtherCompetition SkipReason = "other_competition"
	SkipReasonMissingScore     SkipReason = "missing_score"
	SkipReasonNoMatch          SkipReason = "no_match"
	SkipReasonInsertFailed     SkipReason = "insert_failed"
)

// FixtureFilter admits finished fixtures of one competition that carry both
// regulation-time scores.
type FixtureFilter struct {
	CompetitionID string
}

// Check returns the first failed condition, in status, competition, score order.
func (f FixtureFilter) Check(fx fixture.Fixture) (bool, SkipReason) {
	switch {
	case fixture.IsScheduledStatus(fx.Status):
		return false, SkipReasonNotStarted
	case fixture.IsLiveStatus(fx.Status):
		return false, SkipReasonInProgress
	case !fixture.IsFinishedStatus(fx.Status):
		return false, SkipReasonNotFinished
	}
	competitionID := strings.TrimSpace(fx.CompetitionID)
	if competitionID == "" || competitionID != strings.TrimSpace(f.CompetitionID) {
		return false, SkipReasonOtherCompetition
	}
	if !fx.HasFinalScore() {
		return false, SkipReasonMissingScore
	}
	return true, SkipReasonNone
}

func (f FixtureFilter) IsEligible(fx fixture.Fixture) bool {
	ok, _ := f.Check(fx)
	return ok
}
