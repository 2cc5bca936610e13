package nbastats

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

// SeasonGames fetches every game line for a season via leaguegamefinder.
// One record per team per game (two per game).
func (c *Client) SeasonGames(ctx context.Context, season, seasonType string) ([]*store.GameRecord, error) {
	params := url.Values{}
	params.Set("LeagueID", LeagueID)
	params.Set("Season", season)
	params.Set("SeasonType", seasonType)
	params.Set("PlayerOrTeam", "T")

	resp, err := c.Get(ctx, "leaguegamefinder", params)
	if err != nil {
		return nil, fmt.Errorf("fetch season games: %w", err)
	}

	rs := resp.Set("LeagueGameFinderResults")
	if rs == nil {
		return nil, fmt.Errorf("season games: empty response for %s %s", season, seasonType)
	}

	now := time.Now()
	games := make([]*store.GameRecord, 0, len(rs.RowSet))
	for _, row := range rs.Rows() {
		game, err := normalizeGame(row, season, seasonType, now)
		if err != nil {
			log.Printf("[nbastats] Warning: skipping game row: %v", err)
			continue
		}
		games = append(games, game)
	}

	log.Printf("[nbastats] ✓ Fetched %d game records for %s %s", len(games), season, seasonType)
	return games, nil
}

// TeamAdvancedStats fetches season-to-date advanced ratings via
// leaguedashteamstats.
func (c *Client) TeamAdvancedStats(ctx context.Context, season, seasonType string) ([]*store.TeamAdvancedStats, error) {
	params := url.Values{}
	params.Set("LeagueID", LeagueID)
	params.Set("Season", season)
	params.Set("SeasonType", seasonType)
	params.Set("MeasureType", "Advanced")
	params.Set("PerMode", "PerGame")

	resp, err := c.Get(ctx, "leaguedashteamstats", params)
	if err != nil {
		return nil, fmt.Errorf("fetch advanced stats: %w", err)
	}

	rs := resp.Set("LeagueDashTeamStats")
	if rs == nil {
		return nil, fmt.Errorf("advanced stats: empty response for %s", season)
	}

	now := time.Now()
	stats := make([]*store.TeamAdvancedStats, 0, len(rs.RowSet))
	for _, row := range rs.Rows() {
		stats = append(stats, normalizeAdvanced(row, season, seasonType, now))
	}

	log.Printf("[nbastats] ✓ Fetched advanced stats for %d teams (%s %s)", len(stats), season, seasonType)
	return stats, nil
}

// Standings fetches season standings via leaguestandingsv3.
func (c *Client) Standings(ctx context.Context, season string) ([]*store.Standing, error) {
	params := url.Values{}
	params.Set("LeagueID", LeagueID)
	params.Set("Season", season)
	params.Set("SeasonType", store.SeasonTypeRegular)

	resp, err := c.Get(ctx, "leaguestandingsv3", params)
	if err != nil {
		return nil, fmt.Errorf("fetch standings: %w", err)
	}

	rs := resp.Set("Standings")
	if rs == nil {
		return nil, fmt.Errorf("standings: empty response for %s", season)
	}

	now := time.Now()
	standings := make([]*store.Standing, 0, len(rs.RowSet))
	for _, row := range rs.Rows() {
		standings = append(standings, normalizeStanding(row, season, now))
	}

	log.Printf("[nbastats] ✓ Fetched standings for %d teams (%s)", len(standings), season)
	return standings, nil
}

// PlayerGameLogs fetches per-player game lines for a season via
// playergamelogs. Feeds the availability derivation.
func (c *Client) PlayerGameLogs(ctx context.Context, season, seasonType string) ([]*store.PlayerGameLog, error) {
	params := url.Values{}
	params.Set("LeagueID", LeagueID)
	params.Set("Season", season)
	params.Set("SeasonType", seasonType)

	resp, err := c.Get(ctx, "playergamelogs", params)
	if err != nil {
		return nil, fmt.Errorf("fetch player game logs: %w", err)
	}

	rs := resp.Set("PlayerGameLogs")
	if rs == nil {
		return nil, fmt.Errorf("player game logs: empty response for %s %s", season, seasonType)
	}

	logs := make([]*store.PlayerGameLog, 0, len(rs.RowSet))
	for _, row := range rs.Rows() {
		entry, err := normalizePlayerLog(row)
		if err != nil {
			log.Printf("[nbastats] Warning: skipping player log row: %v", err)
			continue
		}
		logs = append(logs, entry)
	}

	log.Printf("[nbastats] ✓ Fetched %d player game logs (%s %s)", len(logs), season, seasonType)
	return logs, nil
}
