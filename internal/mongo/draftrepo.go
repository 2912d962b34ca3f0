package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smileworld/ktvpos/internal/sale"
)

// DraftRepo persists pending room orders, one document per room, keyed by the
// room id. It backs both sale.DraftStore and billing's draft cleanup.
type DraftRepo struct {
	collection *mongo.Collection
}

func NewDraftRepo(db *mongo.Database) *DraftRepo {
	return &DraftRepo{
		collection: db.Collection("room_orders"),
	}
}

func (r *DraftRepo) Get(ctx context.Context, roomID int64) (*sale.Draft, error) {
	var draft sale.Draft
	err := r.collection.FindOne(ctx, bson.M{"_id": roomID}).Decode(&draft)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get draft: %w", err)
	}
	return &draft, nil
}

func (r *DraftRepo) Save(ctx context.Context, draft *sale.Draft) error {
	if draft == nil {
		return fmt.Errorf("draft is nil")
	}

	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": draft.RoomID},
		draft,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("cannot save draft: %w", err)
	}
	return nil
}

func (r *DraftRepo) Delete(ctx context.Context, roomID int64) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": roomID}); err != nil {
		return fmt.Errorf("cannot delete draft: %w", err)
	}
	return nil
}
