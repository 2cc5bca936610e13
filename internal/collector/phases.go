package collector

import (
	"context"
	"fmt"
	"log"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/derive"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

func (c *Collector) collectGames(ctx context.Context, season string) (int, error) {
	total := 0
	for _, seasonType := range c.seasonTypes() {
		games, err := c.stats.SeasonGames(ctx, season, seasonType)
		if err != nil {
			return total, err
		}
		if len(games) == 0 {
			// Playoffs legitimately return nothing mid-season
			log.Printf("[collector] No %s games for %s", seasonType, season)
			continue
		}

		res, err := c.games.UpsertGames(ctx, games)
		if err != nil {
			return total, fmt.Errorf("persisting %s games: %w", seasonType, err)
		}
		total += res.Total()
	}
	return total, nil
}

func (c *Collector) collectAdvancedStats(ctx context.Context, season string) (int, error) {
	total := 0
	for _, seasonType := range c.seasonTypes() {
		stats, err := c.stats.TeamAdvancedStats(ctx, season, seasonType)
		if err != nil {
			return total, err
		}
		if len(stats) == 0 {
			continue
		}

		res, err := c.teamStats.UpsertAdvancedStats(ctx, stats)
		if err != nil {
			return total, fmt.Errorf("persisting %s advanced stats: %w", seasonType, err)
		}
		total += res.Total()
	}
	return total, nil
}

func (c *Collector) collectStandings(ctx context.Context, season string) (int, error) {
	standings, err := c.stats.Standings(ctx, season)
	if err != nil {
		return 0, err
	}

	res, err := c.teamStats.UpsertStandings(ctx, standings)
	if err != nil {
		return 0, fmt.Errorf("persisting standings: %w", err)
	}
	return res.Total(), nil
}

// collectAvailability derives injury reports from game-log presence: there is
// no reliable free injury feed, but a player who logged no minutes for a team
// game did not play it.
func (c *Collector) collectAvailability(ctx context.Context, season string) (int, error) {
	logs, err := c.stats.PlayerGameLogs(ctx, season, store.SeasonTypeRegular)
	if err != nil {
		return 0, err
	}
	if len(logs) == 0 {
		return 0, fmt.Errorf("no player game logs for %s", season)
	}

	reports := derive.AvailabilityReports(logs, season)
	res, err := c.availability.UpsertInjuryReports(ctx, reports)
	if err != nil {
		return 0, fmt.Errorf("persisting injury reports: %w", err)
	}
	return res.Total(), nil
}

// collectRestProfiles derives schedule fatigue from games already persisted
// this run, so it needs no upstream traffic.
func (c *Collector) collectRestProfiles(ctx context.Context, season string) (int, error) {
	games, err := c.games.GetSeasonGames(ctx, season, store.SeasonTypeRegular)
	if err != nil {
		return 0, fmt.Errorf("loading season games: %w", err)
	}
	if len(games) == 0 {
		return 0, fmt.Errorf("no stored games for %s, run the games phase first", season)
	}

	profiles := derive.RestProfiles(games)
	res, err := c.availability.UpsertRestProfiles(ctx, profiles)
	if err != nil {
		return 0, fmt.Errorf("persisting rest profiles: %w", err)
	}
	return res.Total(), nil
}

// collectChemistry is the hybrid phase: scrape today's samples, persist them,
// then recompute the Chemistry Index over the season's full sample history.
func (c *Collector) collectChemistry(ctx context.Context, season string) (int, error) {
	total := 0
	for _, seasonType := range c.seasonTypes() {
		samples, err := c.scraper.ChemistrySamples(ctx, season, seasonType)
		if err != nil {
			if seasonType == store.SeasonTypePlayoffs {
				log.Printf("[collector] No playoff chemistry samples for %s: %v", season, err)
				continue
			}
			return total, err
		}

		res, err := c.chemistry.UpsertSamples(ctx, samples)
		if err != nil {
			return total, fmt.Errorf("persisting %s chemistry samples: %w", seasonType, err)
		}
		total += res.Total()
	}

	// Recompute over all stored samples so the moving average and baseline
	// see the whole season, not just today's scrape.
	history, err := c.chemistry.GetSamples(ctx, season, store.SeasonTypeRegular, "")
	if err != nil {
		return total, fmt.Errorf("loading chemistry history: %w", err)
	}
	if len(history) == 0 {
		return total, nil
	}

	index := derive.ComputeChemistryIndex(history, c.cfg.ChemistryWindow)
	res, err := c.chemistry.UpsertIndex(ctx, index)
	if err != nil {
		return total, fmt.Errorf("persisting chemistry index: %w", err)
	}
	return total + res.Total(), nil
}

func (c *Collector) collectPositionalDefense(ctx context.Context, season string) (int, error) {
	records, err := c.scraper.PositionalDefense(ctx, season)
	if err != nil {
		return 0, err
	}

	res, err := c.defense.UpsertPositionalDefense(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("persisting positional defense: %w", err)
	}
	return res.Total(), nil
}

func (c *Collector) collectClutchStats(ctx context.Context, season string) (int, error) {
	total := 0
	for _, seasonType := range c.seasonTypes() {
		stats, err := c.scraper.ClutchStats(ctx, season, seasonType)
		if err != nil {
			if seasonType == store.SeasonTypePlayoffs {
				log.Printf("[collector] No playoff clutch stats for %s: %v", season, err)
				continue
			}
			return total, err
		}

		derive.ApplyClutchMetrics(stats)

		res, err := c.defense.UpsertClutchStats(ctx, stats)
		if err != nil {
			return total, fmt.Errorf("persisting %s clutch stats: %w", seasonType, err)
		}
		total += res.Total()
	}
	return total, nil
}
