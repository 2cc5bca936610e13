package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

// AvailabilityRepository handles injury reports and rest profiles
type AvailabilityRepository struct {
	db *store.Database
}

// NewAvailabilityRepository creates a new availability repository
func NewAvailabilityRepository(db *store.Database) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// UpsertInjuryReports writes availability reports keyed by player + season
func (r *AvailabilityRepository) UpsertInjuryReports(ctx context.Context, reports []*store.InjuryReport) (UpsertResult, error) {
	models := make([]mongo.WriteModel, 0, len(reports))
	for _, rep := range reports {
		filter := bson.M{"player_id": rep.PlayerID, "season": rep.Season}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(filter).
			SetReplacement(rep).
			SetUpsert(true))
	}

	return bulkUpsert(ctx, r.db.Collection(store.CollInjuryReports), models)
}

// GetTeamInjuryReports returns availability reports for one team's players
func (r *AvailabilityRepository) GetTeamInjuryReports(ctx context.Context, teamID int, season string) ([]*store.InjuryReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "availability_rate", Value: 1}})

	cursor, err := r.db.Collection(store.CollInjuryReports).Find(ctx, bson.M{"team_id": teamID, "season": season}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying injury reports for team %d: %w", teamID, err)
	}
	defer cursor.Close(ctx)

	var reports []*store.InjuryReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("decoding injury reports: %w", err)
	}

	return reports, nil
}

// UpsertRestProfiles writes rest profiles keyed by team + game
func (r *AvailabilityRepository) UpsertRestProfiles(ctx context.Context, profiles []*store.RestProfile) (UpsertResult, error) {
	models := make([]mongo.WriteModel, 0, len(profiles))
	for _, p := range profiles {
		filter := bson.M{"team_id": p.TeamID, "game_id": p.GameID}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(filter).
			SetReplacement(p).
			SetUpsert(true))
	}

	return bulkUpsert(ctx, r.db.Collection(store.CollRestProfiles), models)
}

// GetTeamRestProfiles returns a team's rest profiles for a season, oldest first
func (r *AvailabilityRepository) GetTeamRestProfiles(ctx context.Context, teamID int, season string) ([]*store.RestProfile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "game_date", Value: 1}})

	cursor, err := r.db.Collection(store.CollRestProfiles).Find(ctx, bson.M{"team_id": teamID, "season": season}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying rest profiles for team %d: %w", teamID, err)
	}
	defer cursor.Close(ctx)

	var profiles []*store.RestProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("decoding rest profiles: %w", err)
	}

	return profiles, nil
}
