package derive

import (
	"sort"
	"strconv"
	"time"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

// DefaultSmoothingWindow for the Chemistry Index moving average.
const DefaultSmoothingWindow = 5

// componentNames are the chemistry components in canonical order.
var componentNames = []string{
	"screen_assists",
	"secondary_assists",
	"contested_shots",
	"deflections",
}

// teamDay is the merged view of one team on one sample date, across the stat
// pages that contributed metrics.
type teamDay struct {
	teamID   int
	teamName string
	date     time.Time
	metrics  map[string]float64
}

// ComputeChemistryIndex derives the Chemistry Index from raw samples.
//
// Per sample date, each component is min-max scaled to [0, 100] across the
// teams sampled that day. A team-day's raw score is the equal-weighted mean
// of its scaled components; team-days with fewer than two components are
// dropped. Per team, raw scores are smoothed with a trailing moving average
// and normalized against the team's first smoothed value, so every team's
// index starts the season at 100.
func ComputeChemistryIndex(samples []*store.ChemistrySample, window int) []*store.ChemistryIndex {
	if window <= 0 {
		window = DefaultSmoothingWindow
	}

	byDate := groupByDate(samples)
	season := seasonOf(samples)

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	// Scale each component across the teams sampled on the same date, then
	// collect per-team raw scores in date order.
	perTeam := make(map[string][]*store.ChemistryIndex)
	var teamOrder []string
	for _, date := range dates {
		days := byDate[date]

		keys := make([]string, 0, len(days))
		for k := range days {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		scaled := scaleComponents(days, keys)

		for _, key := range keys {
			day := days[key]
			components := scaled[key]
			if len(components) < 2 {
				continue
			}

			used := make([]string, 0, len(components))
			sum := 0.0
			for _, name := range componentNames {
				if v, ok := components[name]; ok {
					used = append(used, name)
					sum += v
				}
			}

			if _, seen := perTeam[key]; !seen {
				teamOrder = append(teamOrder, key)
			}
			perTeam[key] = append(perTeam[key], &store.ChemistryIndex{
				TeamID:      day.teamID,
				TeamName:    day.teamName,
				Season:      season,
				SampleDate:  date,
				Components:  components,
				MetricsUsed: used,
				RawScore:    sum / float64(len(used)),
			})
		}
	}

	// Smooth and baseline-normalize each team's series.
	var out []*store.ChemistryIndex
	now := time.Now()
	for _, key := range teamOrder {
		series := perTeam[key]

		raw := make([]float64, len(series))
		for i, idx := range series {
			raw[i] = idx.RawScore
		}
		smoothed := MovingAverage(raw, window)

		baseline := smoothed[0]
		for i, idx := range series {
			idx.Smoothed = smoothed[i]
			idx.Baseline = baseline
			if baseline == 0 {
				// A zero baseline cannot be normalized against
				idx.Index = idx.Smoothed
			} else {
				idx.Index = idx.Smoothed / baseline * 100
			}
			idx.CollectedAt = now
			out = append(out, idx)
		}
	}
	return out
}

func groupByDate(samples []*store.ChemistrySample) map[time.Time]map[string]*teamDay {
	byDate := make(map[time.Time]map[string]*teamDay)
	for _, s := range samples {
		date := s.SampleDate.UTC().Truncate(24 * time.Hour)
		days, ok := byDate[date]
		if !ok {
			days = make(map[string]*teamDay)
			byDate[date] = days
		}

		key := teamKey(s)
		day, ok := days[key]
		if !ok {
			day = &teamDay{
				teamID:   s.TeamID,
				teamName: s.TeamName,
				date:     date,
				metrics:  make(map[string]float64),
			}
			days[key] = day
		}
		if day.teamID == 0 {
			day.teamID = s.TeamID
		}
		if day.teamName == "" {
			day.teamName = s.TeamName
		}
		for _, name := range componentNames {
			if v, ok := s.Metrics[name]; ok {
				day.metrics[name] = v
			}
		}
	}
	return byDate
}

// scaleComponents min-max scales each component across the given team-days.
func scaleComponents(days map[string]*teamDay, keys []string) map[string]map[string]float64 {
	scaled := make(map[string]map[string]float64, len(days))
	for _, key := range keys {
		scaled[key] = make(map[string]float64)
	}

	for _, name := range componentNames {
		var present []string
		var values []float64
		for _, key := range keys {
			if v, ok := days[key].metrics[name]; ok {
				present = append(present, key)
				values = append(values, v)
			}
		}
		for i, v := range MinMaxScale(values) {
			scaled[present[i]][name] = v
		}
	}
	return scaled
}

// teamKey merges samples for the same team across collection paths. Keyed by
// name because the HTML fallback cannot resolve team IDs while the API paths
// carry both; keying by ID would split a team's day whenever one page
// degraded to HTML and another did not.
func teamKey(s *store.ChemistrySample) string {
	if s.TeamName != "" {
		return s.TeamName
	}
	return strconv.Itoa(s.TeamID)
}

func seasonOf(samples []*store.ChemistrySample) string {
	for _, s := range samples {
		if s.Season != "" {
			return s.Season
		}
	}
	return ""
}
