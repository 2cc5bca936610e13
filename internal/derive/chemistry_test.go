package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

func TestMinMaxScale(t *testing.T) {
	scaled := MinMaxScale([]float64{2, 4, 6})
	require.Len(t, scaled, 3)
	assert.Equal(t, 0.0, scaled[0])
	assert.Equal(t, 50.0, scaled[1])
	assert.Equal(t, 100.0, scaled[2])
}

func TestMinMaxScaleDegenerateRange(t *testing.T) {
	for _, v := range MinMaxScale([]float64{7, 7, 7}) {
		assert.Equal(t, 50.0, v)
	}
	assert.Nil(t, MinMaxScale(nil))
}

func TestMovingAverage(t *testing.T) {
	avg := MovingAverage([]float64{10, 20, 30, 40}, 2)
	require.Len(t, avg, 4)
	assert.Equal(t, 10.0, avg[0]) // partial window
	assert.Equal(t, 15.0, avg[1])
	assert.Equal(t, 25.0, avg[2])
	assert.Equal(t, 35.0, avg[3])
}

func sample(teamID int, name string, day int, metrics map[string]float64) *store.ChemistrySample {
	return &store.ChemistrySample{
		TeamID:     teamID,
		TeamName:   name,
		Season:     "2024-25",
		SeasonType: store.SeasonTypeRegular,
		StatType:   "hustle",
		SampleDate: time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		Metrics:    metrics,
	}
}

func TestComputeChemistryIndexScalesAcrossTeams(t *testing.T) {
	samples := []*store.ChemistrySample{
		sample(1, "Alpha", 1, map[string]float64{"screen_assists": 10, "deflections": 20}),
		sample(2, "Beta", 1, map[string]float64{"screen_assists": 6, "deflections": 10}),
		sample(3, "Gamma", 1, map[string]float64{"screen_assists": 2, "deflections": 15}),
	}

	index := ComputeChemistryIndex(samples, 5)
	require.Len(t, index, 3)

	byTeam := make(map[string]*store.ChemistryIndex)
	for _, idx := range index {
		byTeam[idx.TeamName] = idx
	}

	// Alpha leads both components, Gamma trails screen assists entirely
	assert.Equal(t, 100.0, byTeam["Alpha"].RawScore)
	assert.Equal(t, 100.0, byTeam["Alpha"].Components["screen_assists"])
	assert.Equal(t, 0.0, byTeam["Gamma"].Components["screen_assists"])
	assert.Equal(t, 50.0, byTeam["Gamma"].Components["deflections"])

	// Single sample: smoothed equals raw, index normalized to baseline 100
	for _, idx := range index {
		assert.Equal(t, idx.RawScore, idx.Smoothed)
		if idx.Baseline != 0 {
			assert.InDelta(t, 100.0, idx.Index, 0.0001)
		}
		assert.Equal(t, "2024-25", idx.Season)
		assert.Len(t, idx.MetricsUsed, 2)
	}
}

func TestComputeChemistryIndexRequiresTwoComponents(t *testing.T) {
	samples := []*store.ChemistrySample{
		sample(1, "Alpha", 1, map[string]float64{"screen_assists": 10}),
		sample(2, "Beta", 1, map[string]float64{"screen_assists": 6}),
	}

	assert.Empty(t, ComputeChemistryIndex(samples, 5))
}

func TestComputeChemistryIndexMergesStatTypes(t *testing.T) {
	hustle := sample(1, "Alpha", 1, map[string]float64{"screen_assists": 10, "contested_shots": 50})
	passing := sample(1, "Alpha", 1, map[string]float64{"secondary_assists": 4})
	passing.StatType = "passing"

	hustleB := sample(2, "Beta", 1, map[string]float64{"screen_assists": 5, "contested_shots": 40})
	passingB := sample(2, "Beta", 1, map[string]float64{"secondary_assists": 2})
	passingB.StatType = "passing"

	index := ComputeChemistryIndex([]*store.ChemistrySample{hustle, passing, hustleB, passingB}, 5)
	require.Len(t, index, 2)

	for _, idx := range index {
		assert.Len(t, idx.MetricsUsed, 3, "hustle and passing metrics should merge per team-day")
	}
}

func TestComputeChemistryIndexBaselineNormalization(t *testing.T) {
	// Two teams over three days; Alpha's raw advantage shrinks over time
	var samples []*store.ChemistrySample
	alphaScreens := []float64{10, 8, 6}
	betaScreens := []float64{2, 4, 6}
	for day := 1; day <= 3; day++ {
		samples = append(samples,
			sample(1, "Alpha", day, map[string]float64{"screen_assists": alphaScreens[day-1], "deflections": 10}),
			sample(2, "Beta", day, map[string]float64{"screen_assists": betaScreens[day-1], "deflections": 20}),
		)
	}

	index := ComputeChemistryIndex(samples, 1) // window 1: smoothed == raw
	require.Len(t, index, 6)

	var alpha []*store.ChemistryIndex
	for _, idx := range index {
		if idx.TeamName == "Alpha" {
			alpha = append(alpha, idx)
		}
	}
	require.Len(t, alpha, 3)

	// Day 1: screens 100, deflections 0 => raw 50, baseline 50, index 100
	assert.Equal(t, 50.0, alpha[0].RawScore)
	assert.Equal(t, 50.0, alpha[0].Baseline)
	assert.InDelta(t, 100.0, alpha[0].Index, 0.0001)

	// Day 3: both teams tie on screens (degenerate => 50), deflections 0 => raw 25
	assert.Equal(t, 25.0, alpha[2].RawScore)
	assert.InDelta(t, 50.0, alpha[2].Index, 0.0001)
}

func TestComputeChemistryIndexMergesCollectionPaths(t *testing.T) {
	// API-sourced rows carry team IDs; HTML-fallback rows only carry the
	// team name. Both must land on the same team-day.
	hustle := sample(1610612738, "Boston Celtics", 1, map[string]float64{"screen_assists": 10, "contested_shots": 50})
	passing := sample(0, "Boston Celtics", 1, map[string]float64{"secondary_assists": 4})
	passing.StatType = "passing"

	hustleB := sample(1610612743, "Denver Nuggets", 1, map[string]float64{"screen_assists": 5, "contested_shots": 40})
	passingB := sample(0, "Denver Nuggets", 1, map[string]float64{"secondary_assists": 2})
	passingB.StatType = "passing"

	index := ComputeChemistryIndex([]*store.ChemistrySample{hustle, passing, hustleB, passingB}, 5)
	require.Len(t, index, 2)

	byTeam := make(map[string]*store.ChemistryIndex)
	for _, idx := range index {
		byTeam[idx.TeamName] = idx
	}

	bos := byTeam["Boston Celtics"]
	require.NotNil(t, bos)
	assert.Equal(t, 1610612738, bos.TeamID, "the ID-carrying sample fills in the team ID")
	assert.Len(t, bos.MetricsUsed, 3)
	assert.Contains(t, bos.MetricsUsed, "secondary_assists")
}
