package event

import "time"

const (
	// StockTopic carries inventory level changes worth reacting to.
	StockTopic = "pos.stock"

	// EventStockLow identifies a low-stock warning payload.
	EventStockLow = "stock.low"
)

// StockLowEvent is published when an adjustment or a sale drops an item's
// stock to or below its configured minimum.
type StockLowEvent struct {
	EventType  string    `json:"event_type"`
	ItemID     int64     `json:"item_id"`
	Name       string    `json:"name"`
	Stock      int       `json:"stock"`
	MinStock   int       `json:"min_stock"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
