package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smileworld/ktvpos/internal/catalog"
)

// MenuItemRepo implements catalog.MenuItemRepo on MongoDB. Items carry
// sequential int64 ids issued by the counters collection.
type MenuItemRepo struct {
	collection *mongo.Collection
	counters   *Counters
}

func NewMenuItemRepo(db *mongo.Database, counters *Counters) *MenuItemRepo {
	return &MenuItemRepo{
		collection: db.Collection("menu_items"),
		counters:   counters,
	}
}

// EnsureIndexes creates the category and stock indexes the list filters rely
// on.
func (r *MenuItemRepo) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "active", Value: 1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("cannot create menu item indexes: %w", err)
	}
	return nil
}

func (r *MenuItemRepo) Create(ctx context.Context, item *catalog.MenuItem) error {
	if item == nil {
		return fmt.Errorf("menu item is nil")
	}

	if item.ID == 0 {
		id, err := r.counters.Next(ctx, "menu_items")
		if err != nil {
			return err
		}
		item.ID = id
	}

	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("cannot create menu item: %w", err)
	}
	return nil
}

func (r *MenuItemRepo) Get(ctx context.Context, id int64) (*catalog.MenuItem, error) {
	var item catalog.MenuItem
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get menu item: %w", err)
	}
	return &item, nil
}

func (r *MenuItemRepo) GetMany(ctx context.Context, ids []int64) ([]*catalog.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *MenuItemRepo) List(ctx context.Context) ([]*catalog.MenuItem, error) {
	return r.find(ctx, bson.M{})
}

func (r *MenuItemRepo) ListActive(ctx context.Context) ([]*catalog.MenuItem, error) {
	return r.find(ctx, bson.M{"active": true})
}

func (r *MenuItemRepo) ListByCategory(ctx context.Context, categoryKey string) ([]*catalog.MenuItem, error) {
	return r.find(ctx, bson.M{"category": categoryKey, "active": true})
}

func (r *MenuItemRepo) ListLowStock(ctx context.Context) ([]*catalog.MenuItem, error) {
	// stock <= min_stock, compared per document.
	filter := bson.M{
		"active": true,
		"$expr":  bson.M{"$lte": bson.A{"$stock", "$min_stock"}},
	}
	return r.find(ctx, filter)
}

func (r *MenuItemRepo) Save(ctx context.Context, item *catalog.MenuItem) error {
	if item == nil {
		return fmt.Errorf("menu item is nil")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return fmt.Errorf("cannot save menu item: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("menu item %d not found", item.ID)
	}
	return nil
}

// AdjustStock applies the delta with a guarded update: decrements only match
// documents holding enough stock, so two terminals cannot oversell the same
// unit.
func (r *MenuItemRepo) AdjustStock(ctx context.Context, id int64, delta int) (*catalog.MenuItem, error) {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item catalog.MenuItem
	err := r.collection.FindOneAndUpdate(ctx,
		filter,
		bson.M{"$inc": bson.M{"stock": delta}},
		opts).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Either the item is missing or the guard rejected the decrement.
			exists, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
			if countErr != nil {
				return nil, fmt.Errorf("cannot adjust stock: %w", countErr)
			}
			if exists == 0 {
				return nil, catalog.ErrItemNotFound
			}
			return nil, catalog.ErrStockConflict
		}
		return nil, fmt.Errorf("cannot adjust stock: %w", err)
	}
	return &item, nil
}

func (r *MenuItemRepo) find(ctx context.Context, filter bson.M) ([]*catalog.MenuItem, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("cannot list menu items: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*catalog.MenuItem
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode menu items: %w", err)
	}
	return result, nil
}
