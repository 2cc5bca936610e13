package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/cache"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/collector"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

// Orchestrator runs scheduled collections and serializes them behind a Redis
// run lock, so overlapping triggers (cron firing while a manual run is in
// flight, or two replicas) never double-collect.
type Orchestrator struct {
	collector *collector.Collector
	cache     *cache.RedisCache
	config    *Config

	cron   *cron.Cron
	cancel context.CancelFunc

	mu      sync.Mutex
	lastRun *store.CollectionRun
	running bool
}

// Config holds scheduler configuration
type Config struct {
	CronSpec        string        // Default: "0 6 * * *" (06:00 daily)
	CurrentSeason   string        // e.g., "2024-25"
	EnableScheduled bool          // Default: true
	RunLockTTL      time.Duration // Default: 2h
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		CronSpec:        "0 6 * * *",
		CurrentSeason:   "2024-25",
		EnableScheduled: true,
		RunLockTTL:      2 * time.Hour,
	}
}

// NewOrchestrator creates a scheduler around an already-wired collector.
func NewOrchestrator(col *collector.Collector, c *cache.RedisCache, config *Config) (*Orchestrator, error) {
	if config == nil {
		config = DefaultConfig()
	}

	o := &Orchestrator{
		collector: col,
		cache:     c,
		config:    config,
		cron:      cron.New(),
	}

	if config.EnableScheduled {
		if _, err := o.cron.AddFunc(config.CronSpec, o.scheduledRun); err != nil {
			return nil, fmt.Errorf("invalid cron spec %q: %w", config.CronSpec, err)
		}
	}
	return o, nil
}

// Start begins the cron schedule and blocks until the context is cancelled.
func (o *Orchestrator) Start(ctx context.Context) {
	log.Println("╔════════════════════════════════════════╗")
	log.Println("║   Collection Scheduler                 ║")
	log.Println("╚════════════════════════════════════════╝")
	log.Printf("Scheduled collection: %v (cron: %s)", o.config.EnableScheduled, o.config.CronSpec)
	log.Printf("Season: %s", o.config.CurrentSeason)

	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	o.cron.Start()

	<-ctx.Done()
	log.Println("Scheduler stopping...")
}

// Stop gracefully stops the scheduler, waiting for an in-flight cron job.
func (o *Orchestrator) Stop() {
	log.Println("Stopping scheduler...")

	<-o.cron.Stop().Done()
	if o.cancel != nil {
		o.cancel()
	}

	log.Println("✓ Scheduler stopped")
}

// scheduledRun is the cron entry point.
func (o *Orchestrator) scheduledRun() {
	ctx, cancel := context.WithTimeout(context.Background(), o.config.RunLockTTL)
	defer cancel()

	log.Println("═══ Scheduled Collection Starting ═══")
	if _, err := o.TriggerCollection(ctx, o.config.CurrentSeason, nil); err != nil {
		log.Printf("❌ Scheduled collection failed: %v", err)
		return
	}
	log.Println("═══ Scheduled Collection Complete ═══")
}

// TriggerCollection runs a collection for the season now, manual or
// scheduled. A nil opts runs with the collector's configured defaults.
// Returns an error when another run already holds the lock.
func (o *Orchestrator) TriggerCollection(ctx context.Context, season string, opts *collector.RunOptions) (*store.CollectionRun, error) {
	acquired, err := o.cache.AcquireRunLock(ctx, season, o.config.RunLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquiring run lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("a collection run is already in progress")
	}
	defer func() {
		if err := o.cache.ReleaseRunLock(context.Background(), season); err != nil {
			log.Printf("⚠️ Failed to release run lock: %v", err)
		}
	}()

	o.setRunning(true)
	defer o.setRunning(false)

	startTime := time.Now()
	run, err := o.collector.CollectSeason(ctx, season, opts)
	if run != nil {
		o.mu.Lock()
		o.lastRun = run
		o.mu.Unlock()
	}
	if err != nil {
		return run, err
	}

	log.Printf("✓ Collection complete in %v (%d records)", time.Since(startTime).Round(time.Second), run.TotalRecords)
	return run, nil
}

// GetStatus returns current scheduler status
func (o *Orchestrator) GetStatus() map[string]interface{} {
	o.mu.Lock()
	defer o.mu.Unlock()

	status := map[string]interface{}{
		"scheduled_enabled": o.config.EnableScheduled,
		"cron_spec":         o.config.CronSpec,
		"current_season":    o.config.CurrentSeason,
		"collecting":        o.running,
	}
	if o.lastRun != nil {
		status["last_run_id"] = o.lastRun.RunID
		status["last_run_status"] = o.lastRun.Status
		status["last_run_started_at"] = o.lastRun.StartedAt
	}
	return status
}

func (o *Orchestrator) setRunning(v bool) {
	o.mu.Lock()
	o.running = v
	o.mu.Unlock()
}
