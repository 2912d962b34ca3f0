package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smileworld/ktvpos/internal/catalog"
)

type CategoryRepo struct {
	collection *mongo.Collection
}

func NewCategoryRepo(db *mongo.Database) *CategoryRepo {
	return &CategoryRepo{
		collection: db.Collection("categories"),
	}
}

func (r *CategoryRepo) List(ctx context.Context) ([]*catalog.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list categories: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*catalog.Category
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode categories: %w", err)
	}
	return result, nil
}

func (r *CategoryRepo) Upsert(ctx context.Context, category *catalog.Category) error {
	if category == nil {
		return fmt.Errorf("category is nil")
	}

	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": category.Key},
		category,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("cannot upsert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("cannot delete category: %w", err)
	}
	return nil
}
