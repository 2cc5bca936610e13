package scrape

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/nbastats"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

// statPage describes one nba.com team stat page that contributes chemistry
// metrics, and the API endpoint the page loads its data from.
type statPage struct {
	slug        string // path under nba.com/stats/teams/
	statType    string
	endpoint    string // embedded stats API endpoint to prefer
	params      url.Values
	seasonParam string            // query key for the season, "Season" when empty
	metrics     map[string]string // column label -> canonical metric name
}

func chemistryPages() []statPage {
	return []statPage{
		{
			slug:     "hustle",
			statType: "hustle",
			endpoint: "leaguehustlestatsteam",
			params:   url.Values{"PerMode": {"PerGame"}},
			metrics: map[string]string{
				"SCREEN_ASSISTS":  "screen_assists",
				"DEFLECTIONS":     "deflections",
				"CONTESTED_SHOTS": "contested_shots",
			},
		},
		{
			slug:     "passing",
			statType: "passing",
			endpoint: "leaguedashptstats",
			params:   url.Values{"PerMode": {"PerGame"}, "PtMeasureType": {"Passing"}, "PlayerOrTeam": {"Team"}},
			metrics: map[string]string{
				"SECONDARY_AST": "secondary_assists",
			},
		},
		{
			slug:     "box-outs",
			statType: "box_outs",
			endpoint: "leaguehustlestatsteam",
			params:   url.Values{"PerMode": {"PerGame"}},
			metrics: map[string]string{
				"BOX_OUTS":    "box_outs",
				"OFF_BOXOUTS": "off_box_outs",
				"DEF_BOXOUTS": "def_box_outs",
			},
		},
		{
			slug:     "defense-dash-overall",
			statType: "team_defense",
			endpoint: "leaguedashptteamdefend",
			params:   url.Values{"PerMode": {"PerGame"}, "DefenseCategory": {"Overall"}},
			metrics: map[string]string{
				"D_FGM":         "defended_fgm",
				"D_FGA":         "defended_fga",
				"D_FG_PCT":      "defended_fg_pct",
				"PCT_PLUSMINUS": "defended_fg_pct_delta",
			},
		},
		{
			slug:     "opponent-shooting",
			statType: "opponent_shooting",
			endpoint: "leaguedashteamstats",
			params:   url.Values{"PerMode": {"PerGame"}, "MeasureType": {"Opponent"}},
			metrics: map[string]string{
				"OPP_PTS":     "opp_points",
				"OPP_FG_PCT":  "opp_fg_pct",
				"OPP_FG3_PCT": "opp_fg3_pct",
				"OPP_REB":     "opp_rebounds",
			},
		},
		{
			slug:        "transition",
			statType:    "transition",
			endpoint:    "synergyplaytypes",
			params:      url.Values{"PerMode": {"PerGame"}, "PlayerOrTeam": {"T"}, "PlayType": {"Transition"}, "TypeGrouping": {"offensive"}},
			seasonParam: "SeasonYear",
			metrics: map[string]string{
				"PPP":      "transition_ppp",
				"POSS_PCT": "transition_freq",
				"PTS":      "transition_pts",
			},
		},
	}
}

// ChemistrySamples collects one season-to-date sample per team for each
// chemistry stat page. For each page it renders the JS page, looks for the
// embedded API endpoint and fetches JSON from it; when discovery fails it
// builds the endpoint URL directly, and only falls back to HTML table parsing
// when the API is unreachable.
func (f *Fetcher) ChemistrySamples(ctx context.Context, season, seasonType string) ([]*store.ChemistrySample, error) {
	sampleDate := time.Now().UTC().Truncate(24 * time.Hour)

	var all []*store.ChemistrySample
	var lastErr error
	for _, page := range chemistryPages() {
		samples, err := f.collectStatPage(ctx, page, season, seasonType, sampleDate)
		if err != nil {
			log.Printf("[scrape] ⚠️ Chemistry page %s failed: %v", page.slug, err)
			lastErr = err
			continue
		}
		log.Printf("[scrape] ✓ Collected %d %s samples (%s %s)", len(samples), page.statType, season, seasonType)
		all = append(all, samples...)
	}

	if len(all) == 0 && lastErr != nil {
		return nil, fmt.Errorf("all chemistry pages failed: %w", lastErr)
	}
	return all, nil
}

func (f *Fetcher) collectStatPage(ctx context.Context, page statPage, season, seasonType string, sampleDate time.Time) ([]*store.ChemistrySample, error) {
	pageURL := fmt.Sprintf("https://www.nba.com/stats/teams/%s?Season=%s&SeasonType=%s",
		page.slug, url.QueryEscape(season), url.QueryEscape(seasonType))

	html, renderErr := f.FetchPage(ctx, pageURL)

	// Preferred path: the JSON endpoint the page itself loads
	if renderErr == nil {
		for _, endpointURL := range DiscoverEndpoints(html, page.endpoint) {
			resp, err := f.stats.FetchURL(ctx, endpointURL)
			if err != nil {
				log.Printf("[scrape] Warning: discovered endpoint failed: %v", err)
				continue
			}
			return samplesFromResponse(resp, page, season, seasonType, sampleDate)
		}
	}

	// Construct the endpoint URL ourselves when discovery found nothing
	params := url.Values{}
	for k, vs := range page.params {
		params[k] = vs
	}
	seasonKey := page.seasonParam
	if seasonKey == "" {
		seasonKey = "Season"
	}
	params.Set(seasonKey, season)
	params.Set("SeasonType", seasonType)
	if resp, err := f.stats.Get(ctx, page.endpoint, params); err == nil {
		return samplesFromResponse(resp, page, season, seasonType, sampleDate)
	}

	// Last resort: parse the rendered table
	if renderErr != nil {
		return nil, fmt.Errorf("fetch %s page: %w", page.slug, renderErr)
	}
	return samplesFromHTML(html, page, season, seasonType, sampleDate)
}

func samplesFromResponse(resp *nbastats.Response, page statPage, season, seasonType string, sampleDate time.Time) ([]*store.ChemistrySample, error) {
	rs := resp.Set("")
	if rs == nil {
		return nil, fmt.Errorf("%s: empty response", page.endpoint)
	}

	now := time.Now()
	samples := make([]*store.ChemistrySample, 0, len(rs.RowSet))
	for _, row := range rs.Rows() {
		sample := &store.ChemistrySample{
			TeamID:      row.Int("TEAM_ID"),
			TeamName:    row.Str("TEAM_NAME"),
			Season:      season,
			SeasonType:  seasonType,
			StatType:    page.statType,
			SampleDate:  sampleDate,
			Metrics:     make(map[string]float64, len(page.metrics)),
			CollectedAt: now,
		}
		for label, name := range page.metrics {
			if row.Has(label) {
				sample.Metrics[name] = row.Float(label)
			}
		}
		if len(sample.Metrics) == 0 {
			continue
		}
		liftMetrics(sample)
		samples = append(samples, sample)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%s: no usable rows", page.endpoint)
	}
	return samples, nil
}

func samplesFromHTML(html string, page statPage, season, seasonType string, sampleDate time.Time) ([]*store.ChemistrySample, error) {
	doc, err := ParseHTML(html)
	if err != nil {
		return nil, err
	}

	want := make([]string, 0, len(page.metrics)+1)
	want = append(want, "TEAM")
	for label := range page.metrics {
		want = append(want, htmlColumn(label))
	}
	table := FindTable(doc, want...)
	if table == nil {
		return nil, fmt.Errorf("%s page: no matching table", page.slug)
	}

	now := time.Now()
	var samples []*store.ChemistrySample
	for _, row := range table.Rows {
		team := row["TEAM"]
		if team == "" {
			continue
		}
		sample := &store.ChemistrySample{
			TeamName:    team,
			Season:      season,
			SeasonType:  seasonType,
			StatType:    page.statType,
			SampleDate:  sampleDate,
			Metrics:     make(map[string]float64, len(page.metrics)),
			CollectedAt: now,
		}
		for label, name := range page.metrics {
			if cell, ok := row[htmlColumn(label)]; ok {
				sample.Metrics[name] = cellFloat(cell)
			}
		}
		if len(sample.Metrics) == 0 {
			continue
		}
		liftMetrics(sample)
		samples = append(samples, sample)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%s page: table had no usable rows", page.slug)
	}
	return samples, nil
}

// htmlColumn maps an API column label to its on-page table header.
func htmlColumn(label string) string {
	switch label {
	case "SCREEN_ASSISTS":
		return "SCREEN AST"
	case "SECONDARY_AST":
		return "SECONDARY AST"
	case "CONTESTED_SHOTS":
		return "CONTESTED SHOTS"
	case "DEFLECTIONS":
		return "DEFLECTIONS"
	case "OFF_BOXOUTS":
		return "OFF BOX OUTS"
	case "DEF_BOXOUTS":
		return "DEF BOX OUTS"
	case "D_FGM":
		return "DFGM"
	case "D_FGA":
		return "DFGA"
	case "D_FG_PCT":
		return "DFG%"
	case "PCT_PLUSMINUS":
		return "DIFF%"
	case "OPP_FG_PCT":
		return "OPP FG%"
	case "OPP_FG3_PCT":
		return "OPP 3P%"
	case "POSS_PCT":
		return "FREQ%"
	default:
		return strings.ReplaceAll(label, "_", " ")
	}
}

func liftMetrics(s *store.ChemistrySample) {
	s.ScreenAssists = s.Metrics["screen_assists"]
	s.SecondaryAssists = s.Metrics["secondary_assists"]
	s.ContestedShots = s.Metrics["contested_shots"]
	s.Deflections = s.Metrics["deflections"]
}
