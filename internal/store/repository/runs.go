package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

// ErrRunNotFound is returned when a run ID has no matching document.
var ErrRunNotFound = errors.New("collection run not found")

// RunRepository handles collection run summaries
type RunRepository struct {
	db *store.Database
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *store.Database) *RunRepository {
	return &RunRepository{db: db}
}

// SaveRun upserts a run summary keyed by run_id. Called once when a run
// starts and again as phases complete, so the stored summary tracks progress.
func (r *RunRepository) SaveRun(ctx context.Context, run *store.CollectionRun) error {
	filter := bson.M{"run_id": run.RunID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.db.Collection(store.CollCollectionRuns).ReplaceOne(ctx, filter, run, opts); err != nil {
		return fmt.Errorf("saving run %s: %w", run.RunID, err)
	}

	return nil
}

// GetRun returns a single run by ID
func (r *RunRepository) GetRun(ctx context.Context, runID string) (*store.CollectionRun, error) {
	run := &store.CollectionRun{}
	err := r.db.Collection(store.CollCollectionRuns).FindOne(ctx, bson.M{"run_id": runID}).Decode(run)
	if err == mongo.ErrNoDocuments {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", runID, err)
	}

	return run, nil
}

// ListRuns returns the most recent runs, newest first
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]*store.CollectionRun, error) {
	if limit <= 0 {
		limit = 10
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.db.Collection(store.CollCollectionRuns).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer cursor.Close(ctx)

	var runs []*store.CollectionRun
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("decoding runs: %w", err)
	}

	return runs, nil
}

// GetLatestRun returns the most recent run, or ErrRunNotFound when none exist
func (r *RunRepository) GetLatestRun(ctx context.Context) (*store.CollectionRun, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "started_at", Value: -1}})

	run := &store.CollectionRun{}
	err := r.db.Collection(store.CollCollectionRuns).FindOne(ctx, bson.M{}, opts).Decode(run)
	if err == mongo.ErrNoDocuments {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest run: %w", err)
	}

	return run, nil
}
