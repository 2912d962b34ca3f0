package catalog

import (
	"context"
	"testing"
)

func TestReaderSnapshots(t *testing.T) {
	repo := &mockMenuItemRepo{
		GetManyFunc: func(ctx context.Context, ids []int64) ([]*MenuItem, error) {
			return []*MenuItem{
				{ID: 1, Name: "Myanmar Beer", CategoryKey: "beer", SalePrice: 3500, Stock: 12, Active: true},
				{ID: 2, Name: "Retired Special", CategoryKey: "snacks", SalePrice: 9000, Stock: 4, Active: false},
			}, nil
		},
	}

	snaps, err := NewReader(repo).Snapshots(context.Background(), []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("Snapshots() error = %v", err)
	}

	if len(snaps) != 1 {
		t.Fatalf("len(snaps) = %d, want 1 (inactive and unknown excluded)", len(snaps))
	}
	snap := snaps[1]
	if snap.Name != "Myanmar Beer" || snap.UnitPrice != 3500 || snap.AvailableStock != 12 {
		t.Errorf("snapshot = %+v, want projected beer", snap)
	}
	if snap.CategoryKey != "beer" {
		t.Errorf("CategoryKey = %q, want beer", snap.CategoryKey)
	}
}

func TestValidateMenuItem(t *testing.T) {
	tests := []struct {
		name       string
		item       MenuItem
		wantFields []string
	}{
		{
			name: "valid",
			item: MenuItem{Name: "Beer", CategoryKey: "beer", SalePrice: 3500, Stock: 10},
		},
		{
			name:       "missing name and category",
			item:       MenuItem{SalePrice: 3500},
			wantFields: []string{"name", "category"},
		},
		{
			name:       "bad prices and counters",
			item:       MenuItem{Name: "Beer", CategoryKey: "beer", SalePrice: 0, CostPrice: -1, Stock: -2, MinStock: -3},
			wantFields: []string{"sale_price", "cost_price", "stock", "min_stock"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateMenuItem(&tt.item)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("got %d errors %v, want %d", len(errs), errs, len(tt.wantFields))
			}
			for i, field := range tt.wantFields {
				if errs[i].Field != field {
					t.Errorf("errs[%d].Field = %q, want %q", i, errs[i].Field, field)
				}
			}
		})
	}
}
