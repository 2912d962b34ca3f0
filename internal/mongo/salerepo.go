package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smileworld/ktvpos/internal/billing"
)

type SaleRepo struct {
	collection *mongo.Collection
}

func NewSaleRepo(db *mongo.Database) *SaleRepo {
	return &SaleRepo{
		collection: db.Collection("sales"),
	}
}

// EnsureIndexes creates the bill number and settlement date indexes.
func (r *SaleRepo) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "bill_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("cannot create sale indexes: %w", err)
	}
	return nil
}

func (r *SaleRepo) Insert(ctx context.Context, sale *billing.Sale) error {
	if sale == nil {
		return fmt.Errorf("sale is nil")
	}

	if _, err := r.collection.InsertOne(ctx, sale); err != nil {
		return fmt.Errorf("cannot insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) GetByBillNumber(ctx context.Context, billNumber string) (*billing.Sale, error) {
	var sale billing.Sale
	err := r.collection.FindOne(ctx, bson.M{"bill_number": billNumber}).Decode(&sale)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get sale: %w", err)
	}
	return &sale, nil
}

func (r *SaleRepo) ListByPeriod(ctx context.Context, from, to time.Time) ([]*billing.Sale, error) {
	filter := bson.M{"created_at": bson.M{"$gte": from, "$lt": to}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list sales: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*billing.Sale
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode sales: %w", err)
	}
	return result, nil
}
