package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smileworld/ktvpos/internal/rooms"
)

type RoomRepo struct {
	collection *mongo.Collection
	counters   *Counters
}

func NewRoomRepo(db *mongo.Database, counters *Counters) *RoomRepo {
	return &RoomRepo{
		collection: db.Collection("rooms"),
		counters:   counters,
	}
}

func (r *RoomRepo) Create(ctx context.Context, room *rooms.Room) error {
	if room == nil {
		return fmt.Errorf("room is nil")
	}

	if room.ID == 0 {
		id, err := r.counters.Next(ctx, "rooms")
		if err != nil {
			return err
		}
		room.ID = id
	}

	if _, err := r.collection.InsertOne(ctx, room); err != nil {
		return fmt.Errorf("cannot create room: %w", err)
	}
	return nil
}

func (r *RoomRepo) Get(ctx context.Context, id int64) (*rooms.Room, error) {
	var room rooms.Room
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get room: %w", err)
	}
	return &room, nil
}

func (r *RoomRepo) List(ctx context.Context) ([]*rooms.Room, error) {
	return r.find(ctx, bson.M{})
}

func (r *RoomRepo) ListByStatus(ctx context.Context, status string) ([]*rooms.Room, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *RoomRepo) Save(ctx context.Context, room *rooms.Room) error {
	if room == nil {
		return fmt.Errorf("room is nil")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": room.ID}, room)
	if err != nil {
		return fmt.Errorf("cannot save room: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("room %d not found", room.ID)
	}
	return nil
}

func (r *RoomRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("cannot delete room: %w", err)
	}
	return nil
}

func (r *RoomRepo) SetStatus(ctx context.Context, id int64, status string) (*rooms.Room, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var room rooms.Room
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		opts).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot set room status: %w", err)
	}
	return &room, nil
}

func (r *RoomRepo) find(ctx context.Context, filter bson.M) ([]*rooms.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*rooms.Room
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode rooms: %w", err)
	}
	return result, nil
}
