package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

// TeamStatsRepository handles advanced stats and standings access
type TeamStatsRepository struct {
	db *store.Database
}

// NewTeamStatsRepository creates a new team stats repository
func NewTeamStatsRepository(db *store.Database) *TeamStatsRepository {
	return &TeamStatsRepository{db: db}
}

// UpsertAdvancedStats writes advanced ratings keyed by team + season + season type
func (r *TeamStatsRepository) UpsertAdvancedStats(ctx context.Context, stats []*store.TeamAdvancedStats) (UpsertResult, error) {
	models := make([]mongo.WriteModel, 0, len(stats))
	for _, s := range stats {
		filter := bson.M{"team_id": s.TeamID, "season": s.Season, "season_type": s.SeasonType}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(filter).
			SetReplacement(s).
			SetUpsert(true))
	}

	return bulkUpsert(ctx, r.db.Collection(store.CollAdvancedStats), models)
}

// GetAdvancedStats returns advanced ratings for a season
func (r *TeamStatsRepository) GetAdvancedStats(ctx context.Context, season, seasonType string) ([]*store.TeamAdvancedStats, error) {
	filter := bson.M{"season": season}
	if seasonType != "" {
		filter["season_type"] = seasonType
	}

	opts := options.Find().SetSort(bson.D{{Key: "net_rating", Value: -1}})
	cursor, err := r.db.Collection(store.CollAdvancedStats).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying advanced stats: %w", err)
	}
	defer cursor.Close(ctx)

	var stats []*store.TeamAdvancedStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("decoding advanced stats: %w", err)
	}

	return stats, nil
}

// UpsertStandings writes standings keyed by team + season
func (r *TeamStatsRepository) UpsertStandings(ctx context.Context, standings []*store.Standing) (UpsertResult, error) {
	models := make([]mongo.WriteModel, 0, len(standings))
	for _, s := range standings {
		filter := bson.M{"team_id": s.TeamID, "season": s.Season}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(filter).
			SetReplacement(s).
			SetUpsert(true))
	}

	return bulkUpsert(ctx, r.db.Collection(store.CollStandings), models)
}

// GetStandings returns season standings ordered by conference rank
func (r *TeamStatsRepository) GetStandings(ctx context.Context, season string) ([]*store.Standing, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "conference", Value: 1},
		{Key: "conference_rank", Value: 1},
	})

	cursor, err := r.db.Collection(store.CollStandings).Find(ctx, bson.M{"season": season}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying standings: %w", err)
	}
	defer cursor.Close(ctx)

	var standings []*store.Standing
	if err := cursor.All(ctx, &standings); err != nil {
		return nil, fmt.Errorf("decoding standings: %w", err)
	}

	return standings, nil
}
