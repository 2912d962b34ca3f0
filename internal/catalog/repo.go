package catalog

import "context"

// MenuItemRepo defines the repository interface for menu items. Get returns
// (nil, nil) when the id is unknown.
type MenuItemRepo interface {
	Create(ctx context.Context, item *MenuItem) error
	Get(ctx context.Context, id int64) (*MenuItem, error)
	GetMany(ctx context.Context, ids []int64) ([]*MenuItem, error)
	List(ctx context.Context) ([]*MenuItem, error)
	ListActive(ctx context.Context) ([]*MenuItem, error)
	ListByCategory(ctx context.Context, categoryKey string) ([]*MenuItem, error)
	ListLowStock(ctx context.Context) ([]*MenuItem, error)
	Save(ctx context.Context, item *MenuItem) error

	// AdjustStock applies a signed delta and returns the item after the
	// change. Negative deltas fail with ErrStockConflict when the item does
	// not hold enough stock; the document is never driven below zero.
	AdjustStock(ctx context.Context, id int64, delta int) (*MenuItem, error)
}

// CategoryRepo defines the repository interface for categories.
type CategoryRepo interface {
	List(ctx context.Context) ([]*Category, error)
	Upsert(ctx context.Context, category *Category) error
	Delete(ctx context.Context, key string) error
}

// StockTransactionRepo persists the stock movement ledger.
type StockTransactionRepo interface {
	Insert(ctx context.Context, tx *StockTransaction) error
	ListByItem(ctx context.Context, itemID int64, limit int) ([]*StockTransaction, error)
	ListRecent(ctx context.Context, limit int) ([]*StockTransaction, error)
}
