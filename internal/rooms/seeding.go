package rooms

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt/seed"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds returns the demo room layout: eight rooms of mixed capacity.
func Seeds(db *mongo.Database) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "2026-01-10_rooms_sample",
			Description: "Seed karaoke rooms R001-R008",
			Run: func(ctx context.Context) error {
				return seedSampleRooms(ctx, db)
			},
		},
	}
}

func seedSampleRooms(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("rooms")
	now := time.Now()

	type roomSeed struct {
		capacity int
		rate     int64
	}
	layout := []roomSeed{
		{capacity: 4, rate: 10000},
		{capacity: 4, rate: 10000},
		{capacity: 6, rate: 15000},
		{capacity: 6, rate: 15000},
		{capacity: 8, rate: 20000},
		{capacity: 8, rate: 20000},
		{capacity: 12, rate: 30000},
		{capacity: 20, rate: 50000},
	}

	for i, s := range layout {
		id := int64(i + 1)
		_, err := collection.UpdateOne(ctx,
			bson.M{"_id": id},
			bson.M{"$setOnInsert": bson.M{
				"_id":         id,
				"name":        fmt.Sprintf("R%03d", id),
				"capacity":    s.capacity,
				"hourly_rate": s.rate,
				"status":      StatusAvailable,
				"created_at":  now,
				"updated_at":  now,
			}},
			options.Update().SetUpsert(true))
		if err != nil {
			return err
		}
	}
	return nil
}
