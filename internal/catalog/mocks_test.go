package catalog

import "context"

type mockMenuItemRepo struct {
	GetFunc         func(ctx context.Context, id int64) (*MenuItem, error)
	GetManyFunc     func(ctx context.Context, ids []int64) ([]*MenuItem, error)
	AdjustStockFunc func(ctx context.Context, id int64, delta int) (*MenuItem, error)
}

func (m *mockMenuItemRepo) Create(ctx context.Context, item *MenuItem) error { return nil }

func (m *mockMenuItemRepo) Get(ctx context.Context, id int64) (*MenuItem, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockMenuItemRepo) GetMany(ctx context.Context, ids []int64) ([]*MenuItem, error) {
	if m.GetManyFunc != nil {
		return m.GetManyFunc(ctx, ids)
	}
	return nil, nil
}

func (m *mockMenuItemRepo) List(ctx context.Context) ([]*MenuItem, error)       { return nil, nil }
func (m *mockMenuItemRepo) ListActive(ctx context.Context) ([]*MenuItem, error) { return nil, nil }
func (m *mockMenuItemRepo) ListByCategory(ctx context.Context, categoryKey string) ([]*MenuItem, error) {
	return nil, nil
}
func (m *mockMenuItemRepo) ListLowStock(ctx context.Context) ([]*MenuItem, error) { return nil, nil }
func (m *mockMenuItemRepo) Save(ctx context.Context, item *MenuItem) error        { return nil }

func (m *mockMenuItemRepo) AdjustStock(ctx context.Context, id int64, delta int) (*MenuItem, error) {
	if m.AdjustStockFunc != nil {
		return m.AdjustStockFunc(ctx, id, delta)
	}
	return nil, ErrItemNotFound
}

type mockStockTxRepo struct {
	InsertFunc func(ctx context.Context, tx *StockTransaction) error

	inserted []*StockTransaction
}

func (m *mockStockTxRepo) Insert(ctx context.Context, tx *StockTransaction) error {
	m.inserted = append(m.inserted, tx)
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx)
	}
	return nil
}

func (m *mockStockTxRepo) ListByItem(ctx context.Context, itemID int64, limit int) ([]*StockTransaction, error) {
	return nil, nil
}

func (m *mockStockTxRepo) ListRecent(ctx context.Context, limit int) ([]*StockTransaction, error) {
	return nil, nil
}

// mockPublisher is a mock implementation of events.Publisher for testing
type mockPublisher struct {
	PublishFunc func(ctx context.Context, topic string, msg []byte) error

	published []struct {
		topic string
		msg   []byte
	}
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	m.published = append(m.published, struct {
		topic string
		msg   []byte
	}{topic, msg})
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	return nil
}
