// Package repository provides per-category data access over the document
// store. All writes are upserts keyed by natural identifiers so that re-runs
// of the collection pipeline are idempotent.
package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpsertResult reports how a bulk upsert landed.
type UpsertResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

// Total returns the number of records written.
func (r UpsertResult) Total() int {
	return r.Inserted + r.Updated
}

// bulkUpsert executes an unordered bulk write of ReplaceOne-with-upsert
// models. Unordered, so one bad record does not stop the batch.
func bulkUpsert(ctx context.Context, coll *mongo.Collection, models []mongo.WriteModel) (UpsertResult, error) {
	if len(models) == 0 {
		return UpsertResult{}, nil
	}

	res, err := coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return UpsertResult{}, fmt.Errorf("bulk upsert into %s: %w", coll.Name(), err)
	}

	return UpsertResult{
		Inserted: int(res.UpsertedCount),
		Updated:  int(res.MatchedCount),
	}, nil
}
