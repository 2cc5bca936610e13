package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

func TestApplyClutchMetrics(t *testing.T) {
	stats := []*store.ClutchStats{
		{
			TeamName:            "Boston Celtics",
			Points:              12.0,
			FieldGoalsAttempted: 9.0,
			FreeThrowsAttempted: 4.0,
			Assists:             2.4,
			Turnovers:           1.2,
		},
	}

	ApplyClutchMetrics(stats)

	s := stats[0]
	// TS% = 12 / (2 * (9 + 0.44*4))
	assert.InDelta(t, 12.0/(2*(9.0+0.44*4.0)), s.TrueShootingPct, 0.0001)
	assert.InDelta(t, 2.0, s.AssistTurnoverRatio, 0.0001)
	assert.InDelta(t, 12.0/9.0, s.ScoringEfficiency, 0.0001)
}

func TestApplyClutchMetricsZeroDenominators(t *testing.T) {
	stats := []*store.ClutchStats{{TeamName: "No Attempts", Points: 5}}

	ApplyClutchMetrics(stats)

	assert.Equal(t, 0.0, stats[0].TrueShootingPct)
	assert.Equal(t, 0.0, stats[0].AssistTurnoverRatio)
	assert.Equal(t, 0.0, stats[0].ScoringEfficiency)
}
