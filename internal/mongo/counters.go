package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Counters hands out small sequential int64 ids. One document per sequence in
// the counters collection, atomically incremented.
type Counters struct {
	collection *mongo.Collection
}

func NewCounters(db *mongo.Database) *Counters {
	return &Counters{
		collection: db.Collection("counters"),
	}
}

// Next returns the next id for the named sequence, starting at 1.
func (c *Counters) Next(ctx context.Context, sequence string) (int64, error) {
	var doc struct {
		Value int64 `bson:"value"`
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := c.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": sequence},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		opts).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("cannot advance %s sequence: %w", sequence, err)
	}
	return doc.Value, nil
}
