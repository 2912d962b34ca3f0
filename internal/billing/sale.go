package billing

import (
	"time"

	"github.com/google/uuid"
)

// Sale is a settled bill. It is immutable once written; corrections are new
// stock adjustments, never edits to the sale document.
type Sale struct {
	ID            uuid.UUID  `json:"id" bson:"_id"`
	BillNumber    string     `json:"bill_number" bson:"bill_number"`
	RoomID        int64      `json:"room_id" bson:"room_id"`
	RoomName      string     `json:"room_name" bson:"room_name"`
	CustomerCount int        `json:"customer_count" bson:"customer_count"`
	Items         []SaleItem `json:"items" bson:"items"`
	Subtotal      int64      `json:"subtotal" bson:"subtotal"`
	Tax           int64      `json:"tax" bson:"tax"`
	ServiceCharge int64      `json:"service_charge" bson:"service_charge"`
	Total         int64      `json:"total" bson:"total"`
	ApplyTax      bool       `json:"apply_tax" bson:"apply_tax"`
	ApplyService  bool       `json:"apply_service" bson:"apply_service"`
	Notes         string     `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
}

// SaleItem is one line of a settled bill, priced as it was sold.
type SaleItem struct {
	ItemID    int64  `json:"item_id" bson:"item_id"`
	Name      string `json:"name" bson:"name"`
	UnitPrice int64  `json:"unit_price" bson:"unit_price"`
	Quantity  int    `json:"quantity" bson:"quantity"`
	LineTotal int64  `json:"line_total" bson:"line_total"`
}
