package billing

import (
	"context"
	"time"

	"github.com/smileworld/ktvpos/internal/catalog"
)

type mockSaleRepo struct {
	InsertFunc func(ctx context.Context, sale *Sale) error

	inserted []*Sale
}

func (m *mockSaleRepo) Insert(ctx context.Context, sale *Sale) error {
	m.inserted = append(m.inserted, sale)
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, sale)
	}
	return nil
}

func (m *mockSaleRepo) GetByBillNumber(ctx context.Context, billNumber string) (*Sale, error) {
	for _, s := range m.inserted {
		if s.BillNumber == billNumber {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockSaleRepo) ListByPeriod(ctx context.Context, from, to time.Time) ([]*Sale, error) {
	return m.inserted, nil
}

// mockInventory backs both the item reads and the stock adjustments of the
// billing service with a single in-memory stock table.
type mockInventory struct {
	items map[int64]*catalog.MenuItem

	adjustments []struct {
		itemID    int64
		delta     int
		txType    string
		reference string
	}
}

func newMockInventory(items ...*catalog.MenuItem) *mockInventory {
	m := &mockInventory{items: make(map[int64]*catalog.MenuItem)}
	for _, item := range items {
		m.items[item.ID] = item
	}
	return m
}

func (m *mockInventory) Create(ctx context.Context, item *catalog.MenuItem) error { return nil }

func (m *mockInventory) Get(ctx context.Context, id int64) (*catalog.MenuItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (m *mockInventory) GetMany(ctx context.Context, ids []int64) ([]*catalog.MenuItem, error) {
	var out []*catalog.MenuItem
	for _, id := range ids {
		if item, ok := m.items[id]; ok {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockInventory) List(ctx context.Context) ([]*catalog.MenuItem, error)       { return nil, nil }
func (m *mockInventory) ListActive(ctx context.Context) ([]*catalog.MenuItem, error) { return nil, nil }
func (m *mockInventory) ListByCategory(ctx context.Context, categoryKey string) ([]*catalog.MenuItem, error) {
	return nil, nil
}
func (m *mockInventory) ListLowStock(ctx context.Context) ([]*catalog.MenuItem, error) {
	return nil, nil
}
func (m *mockInventory) Save(ctx context.Context, item *catalog.MenuItem) error { return nil }

func (m *mockInventory) AdjustStock(ctx context.Context, id int64, delta int) (*catalog.MenuItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, catalog.ErrItemNotFound
	}
	if item.Stock+delta < 0 {
		return nil, catalog.ErrStockConflict
	}
	item.Stock += delta
	cp := *item
	return &cp, nil
}

func (m *mockInventory) Adjust(ctx context.Context, itemID int64, delta int, txType, reference, note string) (*catalog.MenuItem, error) {
	item, err := m.AdjustStock(ctx, itemID, delta)
	if err != nil {
		return nil, err
	}
	m.adjustments = append(m.adjustments, struct {
		itemID    int64
		delta     int
		txType    string
		reference string
	}{itemID, delta, txType, reference})
	return item, nil
}

type mockDraftRemover struct {
	DeleteFunc func(ctx context.Context, roomID int64) error

	deleted []int64
}

func (m *mockDraftRemover) Delete(ctx context.Context, roomID int64) error {
	m.deleted = append(m.deleted, roomID)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, roomID)
	}
	return nil
}

type mockRoomReleaser struct {
	MarkAvailableFunc func(ctx context.Context, roomID int64) error

	released []int64
}

func (m *mockRoomReleaser) MarkAvailable(ctx context.Context, roomID int64) error {
	m.released = append(m.released, roomID)
	if m.MarkAvailableFunc != nil {
		return m.MarkAvailableFunc(ctx, roomID)
	}
	return nil
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
