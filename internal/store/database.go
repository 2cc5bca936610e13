package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Database wraps the MongoDB connection for the prediction dataset
type Database struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewDatabase connects to MongoDB and verifies the connection
func NewDatabase(uri, dbName string) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(20).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(10*time.Minute))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Test connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Database{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

// Close disconnects from MongoDB
func (d *Database) Close(ctx context.Context) error {
	if d.client != nil {
		return d.client.Disconnect(ctx)
	}
	return nil
}

// Collection returns a handle to a named collection
func (d *Database) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// HealthCheck pings the primary to verify the connection
func (d *Database) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return d.client.Ping(ctx, readpref.Primary())
}

// indexSpec pairs a collection with the indexes it needs.
type indexSpec struct {
	collection string
	models     []mongo.IndexModel
}

// EnsureIndexes creates the unique natural-key indexes that make upserts
// idempotent, plus the secondary indexes the common queries use.
func (d *Database) EnsureIndexes(ctx context.Context) error {
	log.Println("Ensuring database indexes...")

	unique := options.Index().SetUnique(true)

	specs := []indexSpec{
		{CollGames, []mongo.IndexModel{
			{Keys: bson.D{{Key: "game_id", Value: 1}, {Key: "team_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "game_date", Value: -1}}},
			{Keys: bson.D{{Key: "season", Value: 1}, {Key: "season_type", Value: 1}}},
			{Keys: bson.D{{Key: "game_date", Value: -1}}},
			{Keys: bson.D{{Key: "matchup", Value: 1}}},
		}},
		{CollAdvancedStats, []mongo.IndexModel{
			{Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "season", Value: 1}, {Key: "season_type", Value: 1}}, Options: unique},
		}},
		{CollStandings, []mongo.IndexModel{
			{Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "season", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "season", Value: 1}, {Key: "conference", Value: 1}, {Key: "conference_rank", Value: 1}}},
		}},
		{CollInjuryReports, []mongo.IndexModel{
			{Keys: bson.D{{Key: "player_id", Value: 1}, {Key: "season", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "season", Value: 1}}},
		}},
		{CollRestProfiles, []mongo.IndexModel{
			{Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "game_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "season", Value: 1}, {Key: "back_to_back", Value: 1}}},
		}},
		{CollChemistrySamples, []mongo.IndexModel{
			{Keys: bson.D{
				{Key: "team_name", Value: 1}, {Key: "season", Value: 1}, {Key: "season_type", Value: 1},
				{Key: "stat_type", Value: 1}, {Key: "sample_date", Value: 1},
			}, Options: unique},
			{Keys: bson.D{{Key: "season", Value: 1}, {Key: "stat_type", Value: 1}}},
		}},
		{CollChemistryIndex, []mongo.IndexModel{
			{Keys: bson.D{{Key: "team_name", Value: 1}, {Key: "season", Value: 1}, {Key: "sample_date", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "season", Value: 1}, {Key: "index", Value: -1}}},
		}},
		{CollPositionalDefense, []mongo.IndexModel{
			{Keys: bson.D{{Key: "position", Value: 1}, {Key: "team_abbr", Value: 1}, {Key: "season", Value: 1}}, Options: unique},
		}},
		{CollClutchStats, []mongo.IndexModel{
			{Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "season", Value: 1}, {Key: "season_type", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "season", Value: 1}, {Key: "win_pct", Value: -1}}},
		}},
		{CollCollectionRuns, []mongo.IndexModel{
			{Keys: bson.D{{Key: "run_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "started_at", Value: -1}}},
		}},
	}

	for _, spec := range specs {
		if _, err := d.db.Collection(spec.collection).Indexes().CreateMany(ctx, spec.models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", spec.collection, err)
		}
		log.Printf("  ✓ Indexes ensured for %s", spec.collection)
	}

	log.Println("✓ All database indexes ensured")
	return nil
}

// CollectionCounts returns document counts per data collection (the dataset
// summary the inspection endpoint serves).
func (d *Database) CollectionCounts(ctx context.Context, season string) (map[string]int64, error) {
	collections := []string{
		CollGames, CollAdvancedStats, CollStandings, CollInjuryReports,
		CollRestProfiles, CollChemistrySamples, CollChemistryIndex,
		CollPositionalDefense, CollClutchStats,
	}

	filter := bson.M{}
	if season != "" {
		filter["season"] = season
	}

	counts := make(map[string]int64, len(collections))
	for _, name := range collections {
		n, err := d.db.Collection(name).CountDocuments(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("counting %s: %w", name, err)
		}
		counts[name] = n
	}

	return counts, nil
}
