package derive

import (
	"sort"
	"time"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

// Availability thresholds. A player who has missed this many straight team
// games is treated as out; shorter absences or a low season-long rate mark
// them questionable.
const (
	outStreakGames        = 5
	questionableStreak    = 2
	questionableRateFloor = 0.75
)

type playerTeam struct {
	playerID int
	teamID   int
}

// AvailabilityReports derives per-player availability from game-log presence:
// a player absent from a team game logged no minutes for it, which covers
// injuries, rest days, and assignments alike.
func AvailabilityReports(logs []*store.PlayerGameLog, season string) []*store.InjuryReport {
	// Each team's schedule, as the distinct games its players appeared in.
	teamGames := make(map[int]map[string]time.Time)
	for _, l := range logs {
		games, ok := teamGames[l.TeamID]
		if !ok {
			games = make(map[string]time.Time)
			teamGames[l.TeamID] = games
		}
		games[l.GameID] = l.GameDate
	}

	played := make(map[playerTeam]map[string]bool)
	names := make(map[playerTeam]string)
	abbrs := make(map[playerTeam]string)
	var order []playerTeam
	for _, l := range logs {
		key := playerTeam{playerID: l.PlayerID, teamID: l.TeamID}
		if _, ok := played[key]; !ok {
			played[key] = make(map[string]bool)
			names[key] = l.PlayerName
			abbrs[key] = l.TeamAbbr
			order = append(order, key)
		}
		played[key][l.GameID] = true
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].teamID != order[j].teamID {
			return order[i].teamID < order[j].teamID
		}
		return order[i].playerID < order[j].playerID
	})

	now := time.Now()
	reports := make([]*store.InjuryReport, 0, len(order))
	for _, key := range order {
		schedule := sortedGames(teamGames[key.teamID])

		gamesPlayed := len(played[key])
		rate := 0.0
		if len(schedule) > 0 {
			rate = float64(gamesPlayed) / float64(len(schedule))
		}

		missedStreak := 0
		for i := len(schedule) - 1; i >= 0; i-- {
			if played[key][schedule[i].id] {
				break
			}
			missedStreak++
		}

		reports = append(reports, &store.InjuryReport{
			PlayerID:         key.playerID,
			PlayerName:       names[key],
			TeamID:           key.teamID,
			TeamAbbr:         abbrs[key],
			Season:           season,
			GamesPlayed:      gamesPlayed,
			TeamGames:        len(schedule),
			AvailabilityRate: rate,
			MissedStreak:     missedStreak,
			Status:           availabilityStatus(rate, missedStreak),
			CollectedAt:      now,
		})
	}
	return reports
}

func availabilityStatus(rate float64, missedStreak int) string {
	switch {
	case missedStreak >= outStreakGames:
		return store.AvailabilityOut
	case missedStreak >= questionableStreak || rate < questionableRateFloor:
		return store.AvailabilityQuestionable
	default:
		return store.AvailabilityAvailable
	}
}

type scheduledGame struct {
	id   string
	date time.Time
}

func sortedGames(games map[string]time.Time) []scheduledGame {
	out := make([]scheduledGame, 0, len(games))
	for id, date := range games {
		out = append(out, scheduledGame{id: id, date: date})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].date.Equal(out[j].date) {
			return out[i].date.Before(out[j].date)
		}
		return out[i].id < out[j].id
	})
	return out
}
