package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

// GameRepository handles game record access
type GameRepository struct {
	db *store.Database
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *store.Database) *GameRepository {
	return &GameRepository{db: db}
}

// UpsertGames writes game records keyed by game_id + team_id
func (r *GameRepository) UpsertGames(ctx context.Context, games []*store.GameRecord) (UpsertResult, error) {
	models := make([]mongo.WriteModel, 0, len(games))
	for _, g := range games {
		filter := bson.M{"game_id": g.GameID, "team_id": g.TeamID}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(filter).
			SetReplacement(g).
			SetUpsert(true))
	}

	return bulkUpsert(ctx, r.db.Collection(store.CollGames), models)
}

// GetSeasonGames returns every game record for a season, ordered by date.
// Both season types are included unless seasonType is set.
func (r *GameRepository) GetSeasonGames(ctx context.Context, season, seasonType string) ([]*store.GameRecord, error) {
	filter := bson.M{"season": season}
	if seasonType != "" {
		filter["season_type"] = seasonType
	}

	opts := options.Find().SetSort(bson.D{{Key: "game_date", Value: 1}})
	cursor, err := r.db.Collection(store.CollGames).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying season games: %w", err)
	}
	defer cursor.Close(ctx)

	var games []*store.GameRecord
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("decoding season games: %w", err)
	}

	return games, nil
}

// GetTeamRecentGames returns a team's most recent games before a date,
// newest first. Used for form and fatigue lookups.
func (r *GameRepository) GetTeamRecentGames(ctx context.Context, teamID int, before time.Time, limit int) ([]*store.GameRecord, error) {
	filter := bson.M{
		"team_id":   teamID,
		"game_date": bson.M{"$lt": before},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "game_date", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.db.Collection(store.CollGames).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying recent games for team %d: %w", teamID, err)
	}
	defer cursor.Close(ctx)

	var games []*store.GameRecord
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("decoding recent games: %w", err)
	}

	return games, nil
}

// CountBySeason returns the number of stored game records for a season
func (r *GameRepository) CountBySeason(ctx context.Context, season string) (int64, error) {
	return r.db.Collection(store.CollGames).CountDocuments(ctx, bson.M{"season": season})
}
