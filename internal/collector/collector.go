// Package collector orchestrates the hybrid collection pipeline: sequenced
// phases pull from the stats API and scraped pages, derive the computed
// statistics, and persist everything idempotently. Phases retry on failure
// and a failed phase never aborts the run.
package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/derive"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/publisher"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store/repository"
)

// StatsSource fetches normalized records from the stats API.
type StatsSource interface {
	SeasonGames(ctx context.Context, season, seasonType string) ([]*store.GameRecord, error)
	TeamAdvancedStats(ctx context.Context, season, seasonType string) ([]*store.TeamAdvancedStats, error)
	Standings(ctx context.Context, season string) ([]*store.Standing, error)
	PlayerGameLogs(ctx context.Context, season, seasonType string) ([]*store.PlayerGameLog, error)
}

// ScrapeSource fetches records that only exist behind rendered pages.
type ScrapeSource interface {
	ChemistrySamples(ctx context.Context, season, seasonType string) ([]*store.ChemistrySample, error)
	PositionalDefense(ctx context.Context, season string) ([]*store.PositionalDefense, error)
	ClutchStats(ctx context.Context, season, seasonType string) ([]*store.ClutchStats, error)
}

// ProgressPublisher receives an event after every phase.
type ProgressPublisher interface {
	PublishPhase(ctx context.Context, event publisher.PhaseEvent) error
}

// Validator runs post-collection checks.
type Validator interface {
	Run(ctx context.Context, season string) (*store.ValidationReport, error)
}

// Config controls pipeline behavior.
type Config struct {
	MaxRetries      int           // attempts per phase
	RetryDelay      time.Duration // wait between attempts
	QuickTest       bool          // regular season only, skip playoffs
	ChemistryWindow int           // moving average window for the Chemistry Index
	SeasonDelay     time.Duration // pause between seasons in multi-season runs
}

// DefaultConfig matches the cadence the upstream sources tolerate.
func DefaultConfig() Config {
	return Config{
		MaxRetries:      3,
		RetryDelay:      5 * time.Second,
		ChemistryWindow: derive.DefaultSmoothingWindow,
		SeasonDelay:     30 * time.Second,
	}
}

// Collector runs the collection pipeline for a season.
type Collector struct {
	cfg       Config
	stats     StatsSource
	scraper   ScrapeSource
	publisher ProgressPublisher
	validator Validator

	games        *repository.GameRepository
	teamStats    *repository.TeamStatsRepository
	availability *repository.AvailabilityRepository
	chemistry    *repository.ChemistryRepository
	defense      *repository.DefenseRepository
	runs         *repository.RunRepository
}

// New wires a collector against the database. The publisher and validator are
// optional.
func New(cfg Config, db *store.Database, stats StatsSource, scraper ScrapeSource, publisher ProgressPublisher, validator Validator) *Collector {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.ChemistryWindow <= 0 {
		cfg.ChemistryWindow = derive.DefaultSmoothingWindow
	}
	return &Collector{
		cfg:          cfg,
		stats:        stats,
		scraper:      scraper,
		publisher:    publisher,
		validator:    validator,
		games:        repository.NewGameRepository(db),
		teamStats:    repository.NewTeamStatsRepository(db),
		availability: repository.NewAvailabilityRepository(db),
		chemistry:    repository.NewChemistryRepository(db),
		defense:      repository.NewDefenseRepository(db),
		runs:         repository.NewRunRepository(db),
	}
}

// RunOptions override configured behavior for a single run. A nil *RunOptions
// means the configured defaults.
type RunOptions struct {
	QuickTest bool
}

// withRunOptions returns the collector a run should use. Overrides are
// applied to a copy so concurrent runs never see each other's options.
func (c *Collector) withRunOptions(opts *RunOptions) *Collector {
	if opts == nil {
		return c
	}
	cc := *c
	cc.cfg.QuickTest = opts.QuickTest
	return &cc
}

// CollectSeason runs the full pipeline for one season and returns the
// persisted run summary. The returned error is non-nil only when the run
// itself could not proceed; individual phase failures are recorded in the
// summary.
func (c *Collector) CollectSeason(ctx context.Context, season string, opts *RunOptions) (*store.CollectionRun, error) {
	c = c.withRunOptions(opts)

	run := &store.CollectionRun{
		RunID:     uuid.New().String(),
		Season:    season,
		QuickTest: c.cfg.QuickTest,
		Status:    store.RunStatusRunning,
		StartedAt: time.Now(),
	}
	if err := c.runs.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("recording run start: %w", err)
	}

	log.Printf("[collector] Starting collection run %s for season %s", run.RunID, season)

	phases := []struct {
		name string
		fn   func(context.Context, string) (int, error)
	}{
		{"basic_games", c.collectGames},
		{"advanced_stats", c.collectAdvancedStats},
		{"standings", c.collectStandings},
		{"availability", c.collectAvailability},
		{"rest_profiles", c.collectRestProfiles},
		{"chemistry", c.collectChemistry},
		{"positional_defense", c.collectPositionalDefense},
		{"clutch_stats", c.collectClutchStats},
	}

	for _, phase := range phases {
		result := c.runPhase(ctx, phase.name, season, phase.fn)
		run.Phases = append(run.Phases, result)
		run.TotalRecords += result.Records
		if result.Error != "" {
			run.Errors = append(run.Errors, fmt.Sprintf("%s: %s", result.Name, result.Error))
		}
		c.publishPhase(ctx, run, result)

		if err := ctx.Err(); err != nil {
			return c.finishRun(ctx, run, err)
		}
	}

	if c.validator != nil {
		report, err := c.validator.Run(ctx, season)
		if err != nil {
			run.Errors = append(run.Errors, fmt.Sprintf("validation: %v", err))
		} else {
			run.Validation = report
		}
	}

	return c.finishRun(ctx, run, nil)
}

// CollectSeasons runs the pipeline for several seasons with a pause between
// them. Stops early only on context cancellation.
func (c *Collector) CollectSeasons(ctx context.Context, seasons []string) ([]*store.CollectionRun, error) {
	var runs []*store.CollectionRun
	for i, season := range seasons {
		if i > 0 && c.cfg.SeasonDelay > 0 {
			log.Printf("[collector] Waiting %v before next season", c.cfg.SeasonDelay)
			select {
			case <-time.After(c.cfg.SeasonDelay):
			case <-ctx.Done():
				return runs, ctx.Err()
			}
		}

		run, err := c.CollectSeason(ctx, season, nil)
		if err != nil {
			return runs, fmt.Errorf("season %s: %w", season, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (c *Collector) finishRun(ctx context.Context, run *store.CollectionRun, cause error) (*store.CollectionRun, error) {
	now := time.Now()
	run.CompletedAt = &now
	allFailed := len(run.Phases) > 0 && len(run.Errors) >= len(run.Phases)
	if cause != nil || allFailed {
		run.Status = store.RunStatusFailed
	} else {
		run.Status = store.RunStatusCompleted
	}
	if cause != nil {
		run.Errors = append(run.Errors, cause.Error())
	}

	// Persist the summary even when the context is gone
	saveCtx := ctx
	if saveCtx.Err() != nil {
		var cancel context.CancelFunc
		saveCtx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}
	if err := c.runs.SaveRun(saveCtx, run); err != nil {
		log.Printf("[collector] ❌ Failed to persist run summary: %v", err)
	}

	log.Printf("[collector] Run %s finished: %s, %d records, %d errors",
		run.RunID, run.Status, run.TotalRecords, len(run.Errors))
	return run, cause
}

// runPhase executes one phase with retries. Consecutive failures exhaust the
// attempt budget; the error lands in the result, never up the stack.
func (c *Collector) runPhase(ctx context.Context, name, season string, fn func(context.Context, string) (int, error)) store.PhaseResult {
	result := store.PhaseResult{Name: name}

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		result.Attempts = attempt

		records, err := fn(ctx, season)
		if err == nil {
			result.Records = records
			result.Error = ""
			log.Printf("[collector] ✓ Phase %s: %d records (attempt %d)", name, records, attempt)
			return result
		}

		result.Error = err.Error()
		log.Printf("[collector] ⚠️ Phase %s attempt %d/%d failed: %v", name, attempt, c.cfg.MaxRetries, err)

		if attempt < c.cfg.MaxRetries {
			select {
			case <-time.After(c.cfg.RetryDelay):
			case <-ctx.Done():
				result.Error = ctx.Err().Error()
				return result
			}
		}
	}

	log.Printf("[collector] ❌ Phase %s failed after %d attempts", name, c.cfg.MaxRetries)
	return result
}

func (c *Collector) publishPhase(ctx context.Context, run *store.CollectionRun, result store.PhaseResult) {
	if c.publisher == nil {
		return
	}
	err := c.publisher.PublishPhase(ctx, publisher.PhaseEvent{
		RunID:   run.RunID,
		Season:  run.Season,
		Phase:   result.Name,
		Records: result.Records,
		Error:   result.Error,
	})
	if err != nil {
		log.Printf("[collector] Warning: failed to publish phase event: %v", err)
	}
}

// seasonTypes returns the season types a run covers. Quick test runs skip
// playoffs to halve upstream traffic.
func (c *Collector) seasonTypes() []string {
	if c.cfg.QuickTest {
		return []string{store.SeasonTypeRegular}
	}
	return []string{store.SeasonTypeRegular, store.SeasonTypePlayoffs}
}
