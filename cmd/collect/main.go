package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/cache"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/collector"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/nbastats"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/scrape"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/validate"
)

const (
	appName    = "nba-collect"
	appVersion = "1.0.0"
)

func main() {
	log.Printf("=== %s v%s ===", appName, appVersion)

	var (
		mongoURI  = flag.String("mongo", getEnv("MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
		mongoDB   = flag.String("db", getEnv("MONGO_DB", "nba_stats"), "MongoDB database name")
		redisURL  = flag.String("redis", getEnv("REDIS_URL", ""), "Redis URL for page caching (optional)")
		season    = flag.String("season", "", "Season to collect (e.g., 2024-25)")
		seasons   = flag.String("seasons", "", "Comma-separated seasons to collect")
		quickTest = flag.Bool("quick-test", false, "Regular season only, skip playoffs")
		retries   = flag.Int("retries", 3, "Attempts per collection phase")
	)

	flag.Parse()

	seasonList := buildSeasonList(*season, *seasons)
	if len(seasonList) == 0 {
		log.Fatalf("Specify --season or --seasons")
	}

	db, err := store.NewDatabase(*mongoURI, *mongoDB)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		db.Close(ctx)
	}()

	ctx := context.Background()
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	// Page caching is optional for one-shot runs
	var redisCache *cache.RedisCache
	if *redisURL != "" {
		redisCache, err = cache.NewRedisCache(*redisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable, continuing without page cache: %v", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}

	statsClient := nbastats.NewClient()

	fetcher, err := scrape.NewFetcher(statsClient, redisCache)
	if err != nil {
		log.Fatalf("initialize scraper: %v", err)
	}
	defer fetcher.Close()

	cfg := collector.DefaultConfig()
	cfg.QuickTest = *quickTest
	cfg.MaxRetries = *retries

	col := collector.New(cfg, db, statsClient, fetcher, nil, validate.New(db))

	runs, err := col.CollectSeasons(ctx, seasonList)
	for _, run := range runs {
		printRunSummary(run)
	}
	if err != nil {
		log.Fatalf("collection failed: %v", err)
	}

	for _, run := range runs {
		if len(run.Errors) > 0 {
			os.Exit(1)
		}
	}
	log.Println("✓ Collection completed successfully")
}

func buildSeasonList(season, seasons string) []string {
	var list []string
	if season != "" {
		list = append(list, season)
	}
	for _, s := range strings.Split(seasons, ",") {
		if s = strings.TrimSpace(s); s != "" {
			list = append(list, s)
		}
	}
	return list
}

func printRunSummary(run *store.CollectionRun) {
	log.Println("──────────────────────────────────────────")
	log.Printf("Run %s — season %s: %s", run.RunID, run.Season, run.Status)
	for _, phase := range run.Phases {
		if phase.Error != "" {
			log.Printf("  ❌ %-20s %d records (attempts: %d) error: %s", phase.Name, phase.Records, phase.Attempts, phase.Error)
		} else {
			log.Printf("  ✓ %-20s %d records", phase.Name, phase.Records)
		}
	}
	if run.Validation != nil {
		log.Printf("  Validation issues: %d", run.Validation.TotalIssues)
	}
	log.Printf("  Total records: %d", run.TotalRecords)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
