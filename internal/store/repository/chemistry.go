package repository

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

// ChemistryRepository handles hustle samples and the derived chemistry index
type ChemistryRepository struct {
	db *store.Database
}

// NewChemistryRepository creates a new chemistry repository
func NewChemistryRepository(db *store.Database) *ChemistryRepository {
	return &ChemistryRepository{db: db}
}

// UpsertSamples writes scraped stat snapshots keyed by
// team + season + season type + stat type + sample date. The key uses the
// team name because the HTML fallback path cannot resolve team IDs.
func (r *ChemistryRepository) UpsertSamples(ctx context.Context, samples []*store.ChemistrySample) (UpsertResult, error) {
	models := make([]mongo.WriteModel, 0, len(samples))
	for _, s := range samples {
		filter := bson.M{
			"team_name":   s.TeamName,
			"season":      s.Season,
			"season_type": s.SeasonType,
			"stat_type":   s.StatType,
			"sample_date": s.SampleDate,
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(filter).
			SetReplacement(s).
			SetUpsert(true))
	}

	return bulkUpsert(ctx, r.db.Collection(store.CollChemistrySamples), models)
}

// GetSamples returns samples for a season, ordered by sample date then team
// (the order the index computation expects). Empty seasonType or statType
// match everything.
func (r *ChemistryRepository) GetSamples(ctx context.Context, season, seasonType, statType string) ([]*store.ChemistrySample, error) {
	filter := bson.M{"season": season}
	if seasonType != "" {
		filter["season_type"] = seasonType
	}
	if statType != "" {
		filter["stat_type"] = statType
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "sample_date", Value: 1},
		{Key: "team_id", Value: 1},
	})

	cursor, err := r.db.Collection(store.CollChemistrySamples).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying chemistry samples: %w", err)
	}
	defer cursor.Close(ctx)

	var samples []*store.ChemistrySample
	if err := cursor.All(ctx, &samples); err != nil {
		return nil, fmt.Errorf("decoding chemistry samples: %w", err)
	}

	return samples, nil
}

// UpsertIndex writes chemistry index entries keyed by team + season + sample date
func (r *ChemistryRepository) UpsertIndex(ctx context.Context, entries []*store.ChemistryIndex) (UpsertResult, error) {
	models := make([]mongo.WriteModel, 0, len(entries))
	for _, e := range entries {
		filter := bson.M{"team_name": e.TeamName, "season": e.Season, "sample_date": e.SampleDate}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(filter).
			SetReplacement(e).
			SetUpsert(true))
	}

	return bulkUpsert(ctx, r.db.Collection(store.CollChemistryIndex), models)
}

// GetIndexRanking returns the latest chemistry index per team for a season,
// best first.
func (r *ChemistryRepository) GetIndexRanking(ctx context.Context, season string) ([]*store.ChemistryIndex, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sample_date", Value: 1}})

	cursor, err := r.db.Collection(store.CollChemistryIndex).Find(ctx, bson.M{"season": season}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying chemistry index: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*store.ChemistryIndex
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decoding chemistry index: %w", err)
	}

	// Keep the newest entry per team (cursor is date-ascending)
	latest := make(map[string]*store.ChemistryIndex)
	for _, e := range entries {
		latest[e.TeamName] = e
	}

	ranking := make([]*store.ChemistryIndex, 0, len(latest))
	for _, e := range latest {
		ranking = append(ranking, e)
	}
	sort.Slice(ranking, func(i, j int) bool {
		return ranking[i].Index > ranking[j].Index
	})

	return ranking, nil
}
