package derive

import "github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"

// ApplyClutchMetrics fills the derived efficiency fields on each clutch
// record in place. Zero denominators yield zero, not NaN.
func ApplyClutchMetrics(stats []*store.ClutchStats) {
	for _, s := range stats {
		s.TrueShootingPct = trueShooting(s.Points, s.FieldGoalsAttempted, s.FreeThrowsAttempted)
		s.AssistTurnoverRatio = safeDiv(s.Assists, s.Turnovers)
		s.ScoringEfficiency = safeDiv(s.Points, s.FieldGoalsAttempted)
	}
}

// trueShooting is PTS / (2 * (FGA + 0.44 * FTA)).
func trueShooting(pts, fga, fta float64) float64 {
	denom := 2 * (fga + 0.44*fta)
	if denom == 0 {
		return 0
	}
	return pts / denom
}

func safeDiv(num, denom float64) float64 {
	if denom == 0 {
		return 0
	}
	return num / denom
}
