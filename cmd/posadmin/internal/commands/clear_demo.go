package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ClearDemo wipes catalog, room and draft data plus the seed tracker so the
// demo can be reseeded from scratch. Settled sales and the stock ledger are
// kept; they are business records even in a demo environment.
func ClearDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Info("Starting demo data cleanup...")

	client, db, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	collections := []string{"categories", "menu_items", "rooms", "room_orders", "counters", "seeds"}
	for _, name := range collections {
		if err := clearCollection(ctx, db, name, logger); err != nil {
			return err
		}
	}
	return nil
}

func clearCollection(ctx context.Context, db *mongo.Database, name string, logger apt.Logger) error {
	result, err := db.Collection(name).DeleteMany(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("clear %s: %w", name, err)
	}
	logger.Info("Cleared collection", "collection", name, "count", result.DeletedCount)
	return nil
}
