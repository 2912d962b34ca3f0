package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/smileworld/ktvpos/pkg/event"
)

func adjustableRepo(stock, minStock int) *mockMenuItemRepo {
	item := &MenuItem{ID: 1, Name: "Myanmar Beer", Stock: stock, MinStock: minStock, Active: true}
	return &mockMenuItemRepo{
		AdjustStockFunc: func(ctx context.Context, id int64, delta int) (*MenuItem, error) {
			if id != item.ID {
				return nil, ErrItemNotFound
			}
			if item.Stock+delta < 0 {
				return nil, ErrStockConflict
			}
			item.Stock += delta
			cp := *item
			return &cp, nil
		},
	}
}

func TestStockServiceAdjustRecordsLedger(t *testing.T) {
	ledger := &mockStockTxRepo{}
	svc := NewStockService(adjustableRepo(10, 2), ledger, nil, nil)

	item, err := svc.Adjust(context.Background(), 1, -3, StockTxSale, "SW-20260110-AB12CD", "")
	if err != nil {
		t.Fatalf("Adjust() error = %v", err)
	}
	if item.Stock != 7 {
		t.Errorf("Stock = %d, want 7", item.Stock)
	}

	if len(ledger.inserted) != 1 {
		t.Fatalf("ledger rows = %d, want 1", len(ledger.inserted))
	}
	tx := ledger.inserted[0]
	if tx.Type != StockTxSale || tx.Quantity != -3 || tx.StockAfter != 7 {
		t.Errorf("ledger row = %+v, want sale/-3/after 7", tx)
	}
	if tx.Reference != "SW-20260110-AB12CD" {
		t.Errorf("Reference = %q, want bill number", tx.Reference)
	}
}

func TestStockServiceAdjustRejectsBadInput(t *testing.T) {
	svc := NewStockService(adjustableRepo(10, 2), &mockStockTxRepo{}, nil, nil)

	if _, err := svc.Adjust(context.Background(), 1, 1, "theft", "", ""); err == nil {
		t.Error("Adjust() with unknown type error = nil, want error")
	}
	if _, err := svc.Adjust(context.Background(), 1, 0, StockTxAdjustment, "", ""); err == nil {
		t.Error("Adjust() with zero delta error = nil, want error")
	}
	if _, err := svc.Adjust(context.Background(), 1, -11, StockTxSale, "", ""); !errors.Is(err, ErrStockConflict) {
		t.Errorf("oversell error = %v, want ErrStockConflict", err)
	}
	if _, err := svc.Adjust(context.Background(), 99, -1, StockTxSale, "", ""); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("unknown item error = %v, want ErrItemNotFound", err)
	}
}

func TestStockServicePublishesLowStockEvent(t *testing.T) {
	publisher := &mockPublisher{}
	svc := NewStockService(adjustableRepo(5, 3), &mockStockTxRepo{}, publisher, nil)

	// 5 -> 4: still above threshold, no event.
	if _, err := svc.Adjust(context.Background(), 1, -1, StockTxSale, "", ""); err != nil {
		t.Fatalf("Adjust() error = %v", err)
	}
	if len(publisher.published) != 0 {
		t.Fatalf("events after first adjust = %d, want 0", len(publisher.published))
	}

	// 4 -> 3: at threshold, event fires.
	if _, err := svc.Adjust(context.Background(), 1, -1, StockTxSale, "", ""); err != nil {
		t.Fatalf("Adjust() error = %v", err)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("events after second adjust = %d, want 1", len(publisher.published))
	}
	if publisher.published[0].topic != event.StockTopic {
		t.Errorf("topic = %q, want %q", publisher.published[0].topic, event.StockTopic)
	}

	var evt event.StockLowEvent
	if err := json.Unmarshal(publisher.published[0].msg, &evt); err != nil {
		t.Fatalf("cannot decode event: %v", err)
	}
	if evt.EventType != event.EventStockLow || evt.Stock != 3 || evt.MinStock != 3 {
		t.Errorf("event = %+v, want stock.low at 3/3", evt)
	}

	// Purchases never fire the event even below threshold.
	publisher.published = nil
	if _, err := svc.Adjust(context.Background(), 1, 1, StockTxPurchase, "", ""); err != nil {
		t.Fatalf("Adjust() error = %v", err)
	}
	if len(publisher.published) != 0 {
		t.Errorf("events after purchase = %d, want 0", len(publisher.published))
	}
}

func TestLowStock(t *testing.T) {
	tests := []struct {
		stock    int
		minStock int
		want     bool
	}{
		{stock: 10, minStock: 5, want: false},
		{stock: 5, minStock: 5, want: true},
		{stock: 0, minStock: 5, want: true},
	}

	for _, tt := range tests {
		item := &MenuItem{Stock: tt.stock, MinStock: tt.minStock}
		if got := item.LowStock(); got != tt.want {
			t.Errorf("LowStock() with %d/%d = %v, want %v", tt.stock, tt.minStock, got, tt.want)
		}
	}
}
