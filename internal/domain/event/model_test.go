package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTeamName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                "",
		"   ":             "",
		"Arsenal":         "arsenal",
		"  ARSENAL \t":    "arsenal",
		"Manchester City": "manchester city",
		"arsenal fc":      "arsenal fc",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeTeamName(in), "input=%q", in)
	}
}

func TestNormalizeTeamName_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"", " Chelsea ", "CHELSEA", "chelsea", "\tWest Ham United\n", "Brighton & Hove Albion"}
	for _, in := range inputs {
		once := NormalizeTeamName(in)
		assert.Equal(t, once, NormalizeTeamName(once), "input=%q", in)
	}
}

func TestNormalizeTeamName_VariantsCollapse(t *testing.T) {
	t.Parallel()

	variants := []string{"Chelsea", "chelsea", " CHELSEA", "Chelsea  ", "\tcHeLsEa"}
	for _, v := range variants {
		assert.Equal(t, "chelsea", NormalizeTeamName(v))
	}
}

func TestNew_NormalizesOnRead(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+2", 2*60*60)
	got := New(" 1601 ", " Arsenal", "Chelsea ", time.Date(2025, 11, 1, 17, 0, 0, 0, loc))

	assert.Equal(t, "1601", got.ID)
	assert.Equal(t, "arsenal", got.HomeTeam)
	assert.Equal(t, "chelsea", got.AwayTeam)
	assert.Equal(t, time.UTC, got.StartsAt.Location())
	assert.Equal(t, 15, got.StartsAt.Hour())
}
