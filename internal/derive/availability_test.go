package derive

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

func playerLog(playerID, teamID, day int) *store.PlayerGameLog {
	return &store.PlayerGameLog{
		PlayerID:   playerID,
		PlayerName: fmt.Sprintf("Player %d", playerID),
		TeamID:     teamID,
		TeamAbbr:   "BOS",
		GameID:     fmt.Sprintf("00224%05d", day),
		GameDate:   time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		Minutes:    30,
	}
}

func TestAvailabilityReportsFullParticipation(t *testing.T) {
	var logs []*store.PlayerGameLog
	for day := 1; day <= 10; day++ {
		logs = append(logs, playerLog(100, 1, day))
	}

	reports := AvailabilityReports(logs, "2024-25")
	require.Len(t, reports, 1)

	r := reports[0]
	assert.Equal(t, 10, r.GamesPlayed)
	assert.Equal(t, 10, r.TeamGames)
	assert.Equal(t, 1.0, r.AvailabilityRate)
	assert.Equal(t, 0, r.MissedStreak)
	assert.Equal(t, store.AvailabilityAvailable, r.Status)
}

func TestAvailabilityReportsMissedStreak(t *testing.T) {
	var logs []*store.PlayerGameLog
	// Player 100 plays every game; player 200 misses the last 5
	for day := 1; day <= 10; day++ {
		logs = append(logs, playerLog(100, 1, day))
		if day <= 5 {
			logs = append(logs, playerLog(200, 1, day))
		}
	}

	reports := AvailabilityReports(logs, "2024-25")
	require.Len(t, reports, 2)

	var injured *store.InjuryReport
	for _, r := range reports {
		if r.PlayerID == 200 {
			injured = r
		}
	}
	require.NotNil(t, injured)

	assert.Equal(t, 5, injured.GamesPlayed)
	assert.Equal(t, 10, injured.TeamGames)
	assert.Equal(t, 5, injured.MissedStreak)
	assert.Equal(t, store.AvailabilityOut, injured.Status)
}

func TestAvailabilityReportsQuestionable(t *testing.T) {
	var logs []*store.PlayerGameLog
	// Misses only the two most recent games
	for day := 1; day <= 10; day++ {
		logs = append(logs, playerLog(100, 1, day))
		if day <= 8 {
			logs = append(logs, playerLog(300, 1, day))
		}
	}

	reports := AvailabilityReports(logs, "2024-25")

	var r *store.InjuryReport
	for _, rep := range reports {
		if rep.PlayerID == 300 {
			r = rep
		}
	}
	require.NotNil(t, r)

	assert.Equal(t, 2, r.MissedStreak)
	assert.Equal(t, store.AvailabilityQuestionable, r.Status)
}

func TestAvailabilityReportsLowRate(t *testing.T) {
	var logs []*store.PlayerGameLog
	// Plays half the schedule, including the most recent game
	for day := 1; day <= 10; day++ {
		logs = append(logs, playerLog(100, 1, day))
		if day%2 == 0 {
			logs = append(logs, playerLog(400, 1, day))
		}
	}

	reports := AvailabilityReports(logs, "2024-25")

	var r *store.InjuryReport
	for _, rep := range reports {
		if rep.PlayerID == 400 {
			r = rep
		}
	}
	require.NotNil(t, r)

	assert.Equal(t, 0, r.MissedStreak)
	assert.InDelta(t, 0.5, r.AvailabilityRate, 0.0001)
	assert.Equal(t, store.AvailabilityQuestionable, r.Status)
}
