package scrape

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/nbastats"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

// clutchEndpoint is the API behind the nba.com clutch page: traditional team
// stats restricted to score within 5 points, final 5 minutes.
const clutchEndpoint = "leaguedashteamclutch"

// ClutchStats collects team performance in clutch situations. Same hybrid
// approach as the chemistry pages: render, discover the embedded endpoint,
// fall back to a constructed endpoint URL.
func (f *Fetcher) ClutchStats(ctx context.Context, season, seasonType string) ([]*store.ClutchStats, error) {
	pageURL := fmt.Sprintf("https://www.nba.com/stats/teams/clutch-traditional?Season=%s&SeasonType=%s",
		url.QueryEscape(season), url.QueryEscape(seasonType))

	if html, err := f.FetchPage(ctx, pageURL); err == nil {
		for _, endpointURL := range DiscoverEndpoints(html, clutchEndpoint) {
			resp, err := f.stats.FetchURL(ctx, endpointURL)
			if err != nil {
				log.Printf("[scrape] Warning: discovered clutch endpoint failed: %v", err)
				continue
			}
			return clutchFromResponse(resp, season, seasonType)
		}
	} else {
		log.Printf("[scrape] Warning: clutch page render failed, using direct endpoint: %v", err)
	}

	params := url.Values{}
	params.Set("Season", season)
	params.Set("SeasonType", seasonType)
	params.Set("MeasureType", "Base")
	params.Set("PerMode", "PerGame")
	params.Set("ClutchTime", "Last 5 Minutes")
	params.Set("AheadBehind", "Ahead or Behind")
	params.Set("PointDiff", "5")

	resp, err := f.stats.Get(ctx, clutchEndpoint, params)
	if err != nil {
		return nil, fmt.Errorf("fetch clutch stats: %w", err)
	}
	return clutchFromResponse(resp, season, seasonType)
}

func clutchFromResponse(resp *nbastats.Response, season, seasonType string) ([]*store.ClutchStats, error) {
	rs := resp.Set("LeagueDashTeamClutch")
	if rs == nil {
		return nil, fmt.Errorf("clutch stats: empty response for %s %s", season, seasonType)
	}

	now := time.Now()
	stats := make([]*store.ClutchStats, 0, len(rs.RowSet))
	for _, row := range rs.Rows() {
		stats = append(stats, &store.ClutchStats{
			TeamID:                 row.Int("TEAM_ID"),
			TeamName:               row.Str("TEAM_NAME"),
			Season:                 season,
			SeasonType:             seasonType,
			Games:                  row.Int("GP"),
			Wins:                   row.Int("W"),
			Losses:                 row.Int("L"),
			WinPct:                 row.Float("W_PCT"),
			Minutes:                row.Float("MIN"),
			Points:                 row.Float("PTS"),
			FieldGoalsMade:         row.Float("FGM"),
			FieldGoalsAttempted:    row.Float("FGA"),
			FieldGoalPct:           row.Float("FG_PCT"),
			ThreePointersMade:      row.Float("FG3M"),
			ThreePointersAttempted: row.Float("FG3A"),
			FreeThrowsMade:         row.Float("FTM"),
			FreeThrowsAttempted:    row.Float("FTA"),
			Rebounds:               row.Float("REB"),
			Assists:                row.Float("AST"),
			Turnovers:              row.Float("TOV"),
			Steals:                 row.Float("STL"),
			Blocks:                 row.Float("BLK"),
			PlusMinus:              row.Float("PLUS_MINUS"),
			CollectedAt:            now,
		})
	}
	if len(stats) == 0 {
		return nil, fmt.Errorf("clutch stats: no rows for %s %s", season, seasonType)
	}

	log.Printf("[scrape] ✓ Collected clutch stats for %d teams (%s %s)", len(stats), season, seasonType)
	return stats, nil
}
