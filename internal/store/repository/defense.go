package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

// DefenseRepository handles positional defense and clutch stats
type DefenseRepository struct {
	db *store.Database
}

// NewDefenseRepository creates a new defense repository
func NewDefenseRepository(db *store.Database) *DefenseRepository {
	return &DefenseRepository{db: db}
}

// UpsertPositionalDefense writes records keyed by position + team + season
func (r *DefenseRepository) UpsertPositionalDefense(ctx context.Context, records []*store.PositionalDefense) (UpsertResult, error) {
	models := make([]mongo.WriteModel, 0, len(records))
	for _, rec := range records {
		filter := bson.M{"position": rec.Position, "team_abbr": rec.TeamAbbr, "season": rec.Season}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(filter).
			SetReplacement(rec).
			SetUpsert(true))
	}

	return bulkUpsert(ctx, r.db.Collection(store.CollPositionalDefense), models)
}

// GetPositionalDefense returns defense-vs-position records for a season,
// optionally filtered to one position, weakest defense (most points allowed)
// first.
func (r *DefenseRepository) GetPositionalDefense(ctx context.Context, season, position string) ([]*store.PositionalDefense, error) {
	filter := bson.M{"season": season}
	if position != "" {
		filter["position"] = position
	}

	opts := options.Find().SetSort(bson.D{{Key: "pts_allowed", Value: -1}})
	cursor, err := r.db.Collection(store.CollPositionalDefense).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying positional defense: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*store.PositionalDefense
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decoding positional defense: %w", err)
	}

	return records, nil
}

// UpsertClutchStats writes clutch records keyed by team + season + season type
func (r *DefenseRepository) UpsertClutchStats(ctx context.Context, records []*store.ClutchStats) (UpsertResult, error) {
	models := make([]mongo.WriteModel, 0, len(records))
	for _, rec := range records {
		filter := bson.M{"team_id": rec.TeamID, "season": rec.Season, "season_type": rec.SeasonType}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(filter).
			SetReplacement(rec).
			SetUpsert(true))
	}

	return bulkUpsert(ctx, r.db.Collection(store.CollClutchStats), models)
}

// GetClutchStats returns clutch records for a season, best clutch record first
func (r *DefenseRepository) GetClutchStats(ctx context.Context, season, seasonType string) ([]*store.ClutchStats, error) {
	filter := bson.M{"season": season}
	if seasonType != "" {
		filter["season_type"] = seasonType
	}

	opts := options.Find().SetSort(bson.D{{Key: "win_pct", Value: -1}})
	cursor, err := r.db.Collection(store.CollClutchStats).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying clutch stats: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*store.ClutchStats
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decoding clutch stats: %w", err)
	}

	return records, nil
}
