package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/smileworld/ktvpos/pkg/event"
)

// Stock movement types recorded in the ledger.
const (
	StockTxPurchase   = "purchase"
	StockTxSale       = "sale"
	StockTxAdjustment = "adjustment"
	StockTxWastage    = "wastage"
)

var (
	// ErrStockConflict is returned when a decrement would drive stock negative.
	ErrStockConflict = errors.New("not enough stock for adjustment")

	// ErrItemNotFound is returned by stock adjustments against unknown items.
	ErrItemNotFound = errors.New("menu item not found")
)

// StockTransaction is one row of the stock movement ledger. Quantity carries
// the sign of the movement: positive for purchases, negative for sales and
// wastage.
type StockTransaction struct {
	ID         uuid.UUID `json:"id" bson:"_id"`
	ItemID     int64     `json:"item_id" bson:"item_id"`
	ItemName   string    `json:"item_name" bson:"item_name"`
	Type       string    `json:"type" bson:"type"`
	Quantity   int       `json:"quantity" bson:"quantity"`
	StockAfter int       `json:"stock_after" bson:"stock_after"`
	Reference  string    `json:"reference,omitempty" bson:"reference,omitempty"`
	Note       string    `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

func validStockTxType(t string) bool {
	switch t {
	case StockTxPurchase, StockTxSale, StockTxAdjustment, StockTxWastage:
		return true
	}
	return false
}

// StockService applies stock movements atomically: the item counter and the
// ledger row move together, and crossing the low-stock threshold emits an
// event for the dashboard.
type StockService struct {
	items     MenuItemRepo
	ledger    StockTransactionRepo
	publisher events.Publisher
	logger    apt.Logger
}

func NewStockService(items MenuItemRepo, ledger StockTransactionRepo, publisher events.Publisher, logger apt.Logger) *StockService {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &StockService{
		items:     items,
		ledger:    ledger,
		publisher: publisher,
		logger:    logger,
	}
}

// Adjust moves an item's stock by delta and records the movement. The
// reference ties sale movements back to their bill number.
func (s *StockService) Adjust(ctx context.Context, itemID int64, delta int, txType, reference, note string) (*MenuItem, error) {
	if !validStockTxType(txType) {
		return nil, fmt.Errorf("unknown stock transaction type %q", txType)
	}
	if delta == 0 {
		return nil, fmt.Errorf("stock adjustment delta cannot be zero")
	}

	item, err := s.items.AdjustStock(ctx, itemID, delta)
	if err != nil {
		return nil, err
	}

	tx := &StockTransaction{
		ID:         uuid.New(),
		ItemID:     item.ID,
		ItemName:   item.Name,
		Type:       txType,
		Quantity:   delta,
		StockAfter: item.Stock,
		Reference:  reference,
		Note:       note,
		CreatedAt:  time.Now(),
	}
	if err := s.ledger.Insert(ctx, tx); err != nil {
		// The counter already moved; a missing ledger row is logged, not
		// rolled back. The ledger is an audit trail, not the source of truth.
		s.logger.Error("cannot record stock transaction", "item_id", item.ID, "error", err)
	}

	if delta < 0 && item.LowStock() {
		s.publishLow(ctx, item, txType)
	}

	return item, nil
}

func (s *StockService) publishLow(ctx context.Context, item *MenuItem, reason string) {
	if s.publisher == nil {
		return
	}
	evt := event.StockLowEvent{
		EventType:  event.EventStockLow,
		ItemID:     item.ID,
		Name:       item.Name,
		Stock:      item.Stock,
		MinStock:   item.MinStock,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		s.logger.Error("cannot marshal stock low event", "item_id", item.ID, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, event.StockTopic, payload); err != nil {
		s.logger.Error("cannot publish stock low event", "item_id", item.ID, "error", err)
	}
}
