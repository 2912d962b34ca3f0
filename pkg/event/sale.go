package event

import "time"

const (
	// SalesTopic delivers finalized-sale events for receipt printers,
	// dashboards and any other downstream consumer.
	SalesTopic = "pos.sales"

	// EventSaleCompleted identifies a finalized sale payload.
	EventSaleCompleted = "sale.completed"
)

// SaleCompletedEvent is published after a checkout has been committed.
// Totals carry the authoritative, server-computed amounts.
type SaleCompletedEvent struct {
	EventType     string    `json:"event_type"`
	BillNumber    string    `json:"bill_number"`
	RoomID        int64     `json:"room_id"`
	RoomName      string    `json:"room_name,omitempty"`
	CustomerCount int       `json:"customer_count"`
	Subtotal      int64     `json:"subtotal"`
	Tax           int64     `json:"tax"`
	ServiceCharge int64     `json:"service_charge"`
	Total         int64     `json:"total"`
	OccurredAt    time.Time `json:"occurred_at"`
}
