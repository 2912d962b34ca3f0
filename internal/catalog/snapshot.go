package catalog

import (
	"context"

	"github.com/smileworld/ktvpos/internal/sale"
)

// Reader projects catalog items into the snapshots the order session consumes.
// Inactive items are excluded so they cannot be ordered.
type Reader struct {
	items MenuItemRepo
}

func NewReader(items MenuItemRepo) *Reader {
	return &Reader{items: items}
}

// Snapshots implements sale.CatalogReader. Unknown ids are simply absent from
// the result map.
func (r *Reader) Snapshots(ctx context.Context, ids []int64) (map[int64]sale.MenuItemSnapshot, error) {
	items, err := r.items.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	snaps := make(map[int64]sale.MenuItemSnapshot, len(items))
	for _, item := range items {
		if !item.Active {
			continue
		}
		snaps[item.ID] = sale.MenuItemSnapshot{
			ID:             item.ID,
			Name:           item.Name,
			CategoryKey:    item.CategoryKey,
			UnitPrice:      item.SalePrice,
			AvailableStock: item.Stock,
		}
	}
	return snaps, nil
}
