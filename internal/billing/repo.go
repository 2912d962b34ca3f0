package billing

import (
	"context"
	"time"
)

// SaleRepo defines the repository interface for settled sales. GetByBillNumber
// returns (nil, nil) when the bill is unknown.
type SaleRepo interface {
	Insert(ctx context.Context, sale *Sale) error
	GetByBillNumber(ctx context.Context, billNumber string) (*Sale, error)
	ListByPeriod(ctx context.Context, from, to time.Time) ([]*Sale, error)
}

// DraftRemover deletes the pending draft for a room once its sale settles.
type DraftRemover interface {
	Delete(ctx context.Context, roomID int64) error
}
