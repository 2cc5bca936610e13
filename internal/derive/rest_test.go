package derive

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

func game(teamID int, abbr string, day int) *store.GameRecord {
	return &store.GameRecord{
		GameID:   fmt.Sprintf("00224%05d", day),
		TeamID:   teamID,
		TeamAbbr: abbr,
		Season:   "2024-25",
		GameDate: time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestRestProfilesBackToBack(t *testing.T) {
	games := []*store.GameRecord{
		game(1, "BOS", 10),
		game(1, "BOS", 11), // back to back
		game(1, "BOS", 14),
	}

	profiles := RestProfiles(games)
	require.Len(t, profiles, 3)

	assert.Equal(t, firstGameRestDays, profiles[0].RestDays)
	assert.False(t, profiles[0].BackToBack)

	assert.Equal(t, 0, profiles[1].RestDays)
	assert.True(t, profiles[1].BackToBack)

	assert.Equal(t, 2, profiles[2].RestDays)
	assert.False(t, profiles[2].BackToBack)
}

func TestRestProfilesDenseStretch(t *testing.T) {
	// Four games in six days: days 1, 3, 4, 6
	games := []*store.GameRecord{
		game(1, "BOS", 1),
		game(1, "BOS", 3),
		game(1, "BOS", 4),
		game(1, "BOS", 6),
	}

	profiles := RestProfiles(games)
	require.Len(t, profiles, 4)

	third := profiles[2] // day 4: games on days 1, 3, 4 within the last 4 days => 3-in-4
	assert.True(t, third.ThreeInFour)
	assert.True(t, third.BackToBack)

	fourth := profiles[3] // day 6: four games within six days
	assert.True(t, fourth.FourInSix)
	assert.Equal(t, 4, fourth.GamesInLast7)
	assert.Greater(t, fourth.FatigueScore, profiles[0].FatigueScore)
}

func TestRestProfilesUnsortedInputAndMultipleTeams(t *testing.T) {
	games := []*store.GameRecord{
		game(2, "NYK", 12),
		game(1, "BOS", 11),
		game(1, "BOS", 10),
		game(2, "NYK", 10),
	}

	profiles := RestProfiles(games)
	require.Len(t, profiles, 4)

	// Teams are independent: NYK's day-12 game rests 1 day, BOS's day 11 is a B2B
	byTeamGame := make(map[string]*store.RestProfile)
	for _, p := range profiles {
		byTeamGame[fmt.Sprintf("%s-%s", p.TeamAbbr, p.GameDate.Format("01-02"))] = p
	}
	assert.True(t, byTeamGame["BOS-01-11"].BackToBack)
	assert.Equal(t, 1, byTeamGame["NYK-01-12"].RestDays)
}

func TestFatigueScoreBounds(t *testing.T) {
	rested := &store.RestProfile{RestDays: 4, GamesInLast7: 1}
	assert.Equal(t, 0.0, fatigueScore(rested))

	gassed := &store.RestProfile{BackToBack: true, ThreeInFour: true, FourInSix: true, GamesInLast7: 5}
	assert.LessOrEqual(t, fatigueScore(gassed), 10.0)
	assert.Greater(t, fatigueScore(gassed), 8.0)
}
