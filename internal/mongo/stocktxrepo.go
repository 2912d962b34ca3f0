package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smileworld/ktvpos/internal/catalog"
)

type StockTransactionRepo struct {
	collection *mongo.Collection
}

func NewStockTransactionRepo(db *mongo.Database) *StockTransactionRepo {
	return &StockTransactionRepo{
		collection: db.Collection("stock_transactions"),
	}
}

func (r *StockTransactionRepo) Insert(ctx context.Context, tx *catalog.StockTransaction) error {
	if tx == nil {
		return fmt.Errorf("stock transaction is nil")
	}

	if _, err := r.collection.InsertOne(ctx, tx); err != nil {
		return fmt.Errorf("cannot insert stock transaction: %w", err)
	}
	return nil
}

func (r *StockTransactionRepo) ListByItem(ctx context.Context, itemID int64, limit int) ([]*catalog.StockTransaction, error) {
	return r.find(ctx, bson.M{"item_id": itemID}, limit)
}

func (r *StockTransactionRepo) ListRecent(ctx context.Context, limit int) ([]*catalog.StockTransaction, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *StockTransactionRepo) find(ctx context.Context, filter bson.M, limit int) ([]*catalog.StockTransaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list stock transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*catalog.StockTransaction
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode stock transactions: %w", err)
	}
	return result, nil
}
