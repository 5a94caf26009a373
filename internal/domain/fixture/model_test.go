package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFinishedStatus(t *testing.T) {
	t.Parallel()

	assert.True(t, IsFinishedStatus("finished"))
	assert.True(t, IsFinishedStatus(" Finished "))
	assert.False(t, IsFinishedStatus("inprogress"))
	assert.False(t, IsFinishedStatus("notstarted"))
	assert.False(t, IsFinishedStatus(""))
}

func TestStatusHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, IsLiveStatus(" INPROGRESS"))
	assert.False(t, IsLiveStatus(StatusFinished))
	assert.True(t, IsScheduledStatus("NotStarted "))
	assert.False(t, IsScheduledStatus(StatusInProgress))
}

func TestFixture_HasFinalScore(t *testing.T) {
	t.Parallel()

	two, one := 2, 1
	assert.True(t, Fixture{HomeScore: &two, AwayScore: &one}.HasFinalScore())
	assert.False(t, Fixture{HomeScore: &two}.HasFinalScore())
	assert.False(t, Fixture{AwayScore: &one}.HasFinalScore())
	assert.False(t, Fixture{}.HasFinalScore())
}
