package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/api/rest"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/api/websocket"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/cache"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/collector"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/nbastats"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/publisher"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/scheduler"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/scrape"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/validate"
)

const (
	serviceName    = "nba-stat-collector"
	serviceVersion = "1.0.0"
)

func main() {
	log.Printf("Starting %s v%s - NBA Statistics Collection Service", serviceName, serviceVersion)

	// Load configuration from environment
	config := loadConfig()

	// Initialize database connection
	db, err := store.NewDatabase(config.MongoURI, config.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		db.Close(ctx)
	}()

	log.Println("✓ Connected to MongoDB")

	// Create unique indexes so repeated collections stay idempotent
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(indexCtx); err != nil {
		indexCancel()
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	indexCancel()
	log.Println("✓ Collection indexes ensured")

	// Initialize Redis client with retry logic
	var redisCache *cache.RedisCache
	maxRetries := 30
	retryDelay := 2 * time.Second

	log.Println("Connecting to Redis...")
	for i := 0; i < maxRetries; i++ {
		redisCache, err = cache.NewRedisCache(config.RedisURL)
		if err == nil {
			break
		}

		if i < maxRetries-1 {
			log.Printf("Redis connection attempt %d/%d failed: %v (retrying in %v)", i+1, maxRetries, err, retryDelay)
			time.Sleep(retryDelay)
		} else {
			log.Fatalf("Failed to connect to Redis after %d attempts: %v", maxRetries, err)
		}
	}
	defer redisCache.Close()

	log.Println("✓ Connected to Redis")

	// Progress events reuse the cache connection
	redisPublisher := publisher.NewRedisPublisherFromClient(redisCache.Client())
	log.Println("✓ Redis publisher initialized")

	// Stats API client and page scraper
	statsClient := nbastats.New(nbastats.BaseURL, config.RateLimitDelay)

	fetcher, err := scrape.NewFetcher(statsClient, redisCache)
	if err != nil {
		log.Fatalf("Failed to initialize scraper: %v", err)
	}
	defer fetcher.Close()

	// Wire the collection pipeline
	collectorConfig := collector.DefaultConfig()
	collectorConfig.QuickTest = config.QuickTest
	col := collector.New(collectorConfig, db, statsClient, fetcher, redisPublisher, validate.New(db))

	// Initialize scheduler with configuration
	schedulerConfig := &scheduler.Config{
		CronSpec:        config.CollectCron,
		CurrentSeason:   config.CurrentSeason,
		EnableScheduled: config.EnableDailyCollection,
		RunLockTTL:      2 * time.Hour,
	}

	sched, err := scheduler.NewOrchestrator(col, redisCache, schedulerConfig)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	// Start scheduler in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sched.Start(ctx)

	log.Println("✓ Scheduler started")

	// Initialize REST API server
	restServer := rest.NewServer(config.RESTPort, db, sched, redisCache)
	go func() {
		log.Printf("Starting REST API server on port %s", config.RESTPort)
		if err := restServer.Start(); err != nil {
			log.Printf("REST server error: %v", err)
		}
	}()

	log.Printf("✓ REST API server listening on :%s", config.RESTPort)

	// Initialize WebSocket server
	wsServer := websocket.NewServer(redisCache)
	go func() {
		log.Printf("Starting WebSocket server on port %s", config.WSPort)
		if err := wsServer.Start(config.WSPort); err != nil {
			log.Printf("WebSocket server error: %v", err)
		}
	}()

	log.Printf("✓ WebSocket server listening on :%s", config.WSPort)
	log.Printf("✓ %s v%s started successfully", serviceName, serviceVersion)
	log.Printf("  REST API: http://0.0.0.0:%s", config.RESTPort)
	log.Printf("  WebSocket: ws://0.0.0.0:%s", config.WSPort)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")

	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST API server shutdown error: %v", err)
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("WebSocket server shutdown error: %v", err)
	}

	log.Printf("%s stopped", serviceName)
}

type Config struct {
	MongoURI              string
	MongoDB               string
	RedisURL              string
	RESTPort              string
	WSPort                string
	CurrentSeason         string
	CollectCron           string
	RateLimitDelay        time.Duration
	QuickTest             bool
	EnableDailyCollection bool
}

func loadConfig() Config {
	rateLimitMs, err := strconv.Atoi(getEnv("RATE_LIMIT_DELAY_MS", "1500"))
	if err != nil || rateLimitMs < 0 {
		rateLimitMs = 1500
	}

	return Config{
		MongoURI:              getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:               getEnv("MONGO_DB", "nba_stats"),
		RedisURL:              getEnv("REDIS_URL", "redis://localhost:6379"),
		RESTPort:              getEnv("REST_PORT", "8080"),
		WSPort:                getEnv("WS_PORT", "8081"),
		CurrentSeason:         getEnv("CURRENT_SEASON", "2024-25"),
		CollectCron:           getEnv("COLLECT_CRON", "0 6 * * *"),
		RateLimitDelay:        time.Duration(rateLimitMs) * time.Millisecond,
		QuickTest:             getEnv("QUICK_TEST", "false") == "true",
		EnableDailyCollection: getEnv("ENABLE_DAILY_COLLECTION", "true") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
