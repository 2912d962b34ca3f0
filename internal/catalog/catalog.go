package catalog

import "time"

// Category groups menu items on the sale screen. Key is the stable machine
// identifier; Label is what operators see.
type Category struct {
	Key          string `json:"key" bson:"_id"`
	Label        string `json:"label" bson:"label"`
	DisplayOrder int    `json:"display_order" bson:"display_order"`
	Active       bool   `json:"active" bson:"active"`
}

// MenuItem is a sellable product: drinks, snacks, room packages. Prices are
// kept in the smallest currency unit. Ids are small sequential integers so
// operators can punch them in quickly.
type MenuItem struct {
	ID          int64     `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	CategoryKey string    `json:"category" bson:"category"`
	SalePrice   int64     `json:"sale_price" bson:"sale_price"`
	CostPrice   int64     `json:"cost_price" bson:"cost_price"`
	Stock       int       `json:"stock" bson:"stock"`
	MinStock    int       `json:"min_stock" bson:"min_stock"`
	Unit        string    `json:"unit" bson:"unit"`
	ImagePath   string    `json:"image_path,omitempty" bson:"image_path,omitempty"`
	Active      bool      `json:"active" bson:"active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// LowStock reports whether the item is at or below its reorder threshold.
func (m *MenuItem) LowStock() bool {
	return m.Stock <= m.MinStock
}

// BeforeCreate stamps timestamps on a fresh item.
func (m *MenuItem) BeforeCreate() {
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
}

// BeforeUpdate refreshes the update timestamp.
func (m *MenuItem) BeforeUpdate() {
	m.UpdatedAt = time.Now()
}
