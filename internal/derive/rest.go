package derive

import (
	"sort"
	"time"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

// firstGameRestDays is assigned to a team's season opener, where no prior
// game exists to measure rest against.
const firstGameRestDays = 7

// RestProfiles derives a schedule-fatigue profile for every team-game in the
// given records.
func RestProfiles(games []*store.GameRecord) []*store.RestProfile {
	byTeam := make(map[int][]*store.GameRecord)
	var teamIDs []int
	for _, g := range games {
		if _, ok := byTeam[g.TeamID]; !ok {
			teamIDs = append(teamIDs, g.TeamID)
		}
		byTeam[g.TeamID] = append(byTeam[g.TeamID], g)
	}
	sort.Ints(teamIDs)

	now := time.Now()
	var profiles []*store.RestProfile
	for _, teamID := range teamIDs {
		schedule := byTeam[teamID]
		sort.Slice(schedule, func(i, j int) bool {
			return schedule[i].GameDate.Before(schedule[j].GameDate)
		})

		for i, g := range schedule {
			p := &store.RestProfile{
				TeamID:      g.TeamID,
				TeamAbbr:    g.TeamAbbr,
				Season:      g.Season,
				GameID:      g.GameID,
				GameDate:    g.GameDate,
				RestDays:    firstGameRestDays,
				CollectedAt: now,
			}

			if i > 0 {
				p.RestDays = daysBetween(schedule[i-1].GameDate, g.GameDate) - 1
				if p.RestDays < 0 {
					p.RestDays = 0
				}
			}
			p.BackToBack = i > 0 && p.RestDays == 0
			p.ThreeInFour = gamesInWindow(schedule, i, 4) >= 3
			p.FourInSix = gamesInWindow(schedule, i, 6) >= 4
			p.GamesInLast7 = gamesInWindow(schedule, i, 7)
			p.FatigueScore = fatigueScore(p)

			profiles = append(profiles, p)
		}
	}
	return profiles
}

// gamesInWindow counts the team's games in the trailing window of days ending
// at game i, inclusive of game i.
func gamesInWindow(schedule []*store.GameRecord, i, days int) int {
	cutoff := schedule[i].GameDate.AddDate(0, 0, -(days - 1))
	count := 0
	for j := i; j >= 0; j-- {
		if schedule[j].GameDate.Before(cutoff) {
			break
		}
		count++
	}
	return count
}

// fatigueScore summarizes schedule load on a 0-10 scale. Back-to-backs and
// dense stretches dominate; ample rest pulls the score toward zero.
func fatigueScore(p *store.RestProfile) float64 {
	score := 0.0
	if p.BackToBack {
		score += 4
	}
	if p.ThreeInFour {
		score += 2.5
	}
	if p.FourInSix {
		score += 1.5
	}
	score += float64(p.GamesInLast7) * 0.5
	switch {
	case p.RestDays >= 3:
		score -= 2
	case p.RestDays == 2:
		score -= 1
	}
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score
}

func daysBetween(a, b time.Time) int {
	a = a.UTC().Truncate(24 * time.Hour)
	b = b.UTC().Truncate(24 * time.Hour)
	return int(b.Sub(a).Hours() / 24)
}
