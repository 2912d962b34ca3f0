package catalog

import (
	"context"
	"time"

	"github.com/appetiteclub/apt/seed"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds returns the demo catalog: the category set and a representative menu
// of drinks, snacks and hotpot items priced in kyats.
func Seeds(db *mongo.Database) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "2026-01-10_catalog_categories",
			Description: "Seed menu categories",
			Run: func(ctx context.Context) error {
				return seedCategories(ctx, db)
			},
		},
		{
			ID:          "2026-01-10_catalog_sample_items",
			Description: "Seed sample menu items with opening stock",
			Run: func(ctx context.Context) error {
				return seedSampleItems(ctx, db)
			},
		},
	}
}

func seedCategories(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("categories")

	categories := []Category{
		{Key: "beer", Label: "Beer", DisplayOrder: 1, Active: true},
		{Key: "whisky", Label: "Whisky", DisplayOrder: 2, Active: true},
		{Key: "soft_drinks", Label: "Soft Drinks", DisplayOrder: 3, Active: true},
		{Key: "snacks", Label: "Snacks", DisplayOrder: 4, Active: true},
		{Key: "hotpot", Label: "Hotpot", DisplayOrder: 5, Active: true},
		{Key: "fruits", Label: "Fruits", DisplayOrder: 6, Active: true},
	}

	for _, c := range categories {
		_, err := collection.UpdateOne(ctx,
			bson.M{"_id": c.Key},
			bson.M{"$setOnInsert": bson.M{
				"_id":           c.Key,
				"label":         c.Label,
				"display_order": c.DisplayOrder,
				"active":        c.Active,
			}},
			options.Update().SetUpsert(true))
		if err != nil {
			return err
		}
	}
	return nil
}

func seedSampleItems(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("menu_items")
	now := time.Now()

	items := []MenuItem{
		{ID: 1, Name: "Myanmar Beer", CategoryKey: "beer", SalePrice: 3500, CostPrice: 2200, Stock: 120, MinStock: 24, Unit: "can"},
		{ID: 2, Name: "Tiger Beer", CategoryKey: "beer", SalePrice: 4000, CostPrice: 2600, Stock: 96, MinStock: 24, Unit: "can"},
		{ID: 3, Name: "Heineken", CategoryKey: "beer", SalePrice: 4500, CostPrice: 3000, Stock: 72, MinStock: 24, Unit: "can"},
		{ID: 4, Name: "Grand Royal", CategoryKey: "whisky", SalePrice: 12000, CostPrice: 8000, Stock: 20, MinStock: 5, Unit: "bottle"},
		{ID: 5, Name: "High Class Whisky", CategoryKey: "whisky", SalePrice: 18000, CostPrice: 12500, Stock: 12, MinStock: 3, Unit: "bottle"},
		{ID: 6, Name: "Coca-Cola", CategoryKey: "soft_drinks", SalePrice: 1500, CostPrice: 800, Stock: 150, MinStock: 30, Unit: "can"},
		{ID: 7, Name: "Sprite", CategoryKey: "soft_drinks", SalePrice: 1500, CostPrice: 800, Stock: 140, MinStock: 30, Unit: "can"},
		{ID: 8, Name: "Mineral Water", CategoryKey: "soft_drinks", SalePrice: 800, CostPrice: 350, Stock: 200, MinStock: 50, Unit: "bottle"},
		{ID: 9, Name: "Fried Peanuts", CategoryKey: "snacks", SalePrice: 2500, CostPrice: 1200, Stock: 40, MinStock: 10, Unit: "plate"},
		{ID: 10, Name: "French Fries", CategoryKey: "snacks", SalePrice: 3500, CostPrice: 1600, Stock: 35, MinStock: 10, Unit: "plate"},
		{ID: 11, Name: "Chicken Wings", CategoryKey: "snacks", SalePrice: 6000, CostPrice: 3200, Stock: 30, MinStock: 8, Unit: "plate"},
		{ID: 12, Name: "Seafood Hotpot Set", CategoryKey: "hotpot", SalePrice: 25000, CostPrice: 15000, Stock: 15, MinStock: 4, Unit: "set"},
		{ID: 13, Name: "Beef Hotpot Set", CategoryKey: "hotpot", SalePrice: 22000, CostPrice: 13500, Stock: 15, MinStock: 4, Unit: "set"},
		{ID: 14, Name: "Fruit Platter", CategoryKey: "fruits", SalePrice: 8000, CostPrice: 4000, Stock: 20, MinStock: 5, Unit: "plate"},
		{ID: 15, Name: "Watermelon Plate", CategoryKey: "fruits", SalePrice: 4000, CostPrice: 1800, Stock: 25, MinStock: 6, Unit: "plate"},
	}

	for _, item := range items {
		_, err := collection.UpdateOne(ctx,
			bson.M{"_id": item.ID},
			bson.M{"$setOnInsert": bson.M{
				"_id":        item.ID,
				"name":       item.Name,
				"category":   item.CategoryKey,
				"sale_price": item.SalePrice,
				"cost_price": item.CostPrice,
				"stock":      item.Stock,
				"min_stock":  item.MinStock,
				"unit":       item.Unit,
				"active":     true,
				"created_at": now,
				"updated_at": now,
			}},
			options.Update().SetUpsert(true))
		if err != nil {
			return err
		}
	}
	return nil
}
