package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/smileworld/ktvpos/internal/catalog"
	"github.com/smileworld/ktvpos/internal/sale"
	"github.com/smileworld/ktvpos/pkg/event"
)

// StockAdjuster applies signed stock movements with a ledger trail.
type StockAdjuster interface {
	Adjust(ctx context.Context, itemID int64, delta int, txType, reference, note string) (*catalog.MenuItem, error)
}

// RoomReleaser flips a room back to available after its sale settles.
type RoomReleaser interface {
	MarkAvailable(ctx context.Context, roomID int64) error
}

// Service settles orders: it is the sale.Finalizer behind checkout. Stock is
// the hard gate; the sale document, draft cleanup, room release and event are
// consequences of a successful decrement.
type Service struct {
	sales     SaleRepo
	items     catalog.MenuItemRepo
	stock     StockAdjuster
	drafts    DraftRemover
	rooms     RoomReleaser
	publisher events.Publisher
	logger    apt.Logger
}

type ServiceDeps struct {
	Sales     SaleRepo
	Items     catalog.MenuItemRepo
	Stock     StockAdjuster
	Drafts    DraftRemover
	Rooms     RoomReleaser
	Publisher events.Publisher
	Logger    apt.Logger
}

func NewService(deps ServiceDeps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Service{
		sales:     deps.Sales,
		items:     deps.Items,
		stock:     deps.Stock,
		drafts:    deps.Drafts,
		rooms:     deps.Rooms,
		publisher: deps.Publisher,
		logger:    logger,
	}
}

// Finalize implements sale.Finalizer.
//
// The stock check runs against the live item documents and reports every
// shortfall at once. Decrements are applied line by line with a guarded
// update; if one fails against a concurrent sale, the already applied
// decrements are put back and the whole checkout is rejected. Totals are
// recomputed here and returned on the receipt regardless of what the client
// displayed.
func (s *Service) Finalize(ctx context.Context, req *sale.CheckoutRequest) (*sale.Receipt, error) {
	if req == nil || len(req.Lines) == 0 {
		return nil, sale.ErrEmptyOrder
	}

	if violations, err := s.checkStock(ctx, req.Lines); err != nil {
		return nil, err
	} else if len(violations) > 0 {
		return nil, violations
	}

	now := time.Now()
	billNumber := NewBillNumber(now)

	if err := s.decrementStock(ctx, req.Lines, billNumber); err != nil {
		return nil, err
	}

	totals := sale.ComputeTotals(req.Lines, req.ApplyTax, req.ApplyService)

	doc := &Sale{
		ID:            uuid.New(),
		BillNumber:    billNumber,
		RoomID:        req.RoomID,
		RoomName:      req.RoomName,
		CustomerCount: req.CustomerCount,
		Items:         saleItems(req.Lines),
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		ServiceCharge: totals.ServiceCharge,
		Total:         totals.Total,
		ApplyTax:      req.ApplyTax,
		ApplyService:  req.ApplyService,
		Notes:         req.Notes,
		CreatedAt:     now,
	}
	if err := s.sales.Insert(ctx, doc); err != nil {
		// Stock already moved; put it back rather than sell unrecorded goods.
		s.rollback(ctx, req.Lines, billNumber)
		return nil, fmt.Errorf("cannot record sale: %w", err)
	}

	// Cleanup after the point of no return is best effort. A leftover draft
	// or a stale room status is operator-visible and fixable; the sale stands.
	if s.drafts != nil {
		if err := s.drafts.Delete(ctx, req.RoomID); err != nil {
			s.logger.Error("cannot delete draft after checkout", "room_id", req.RoomID, "error", err)
		}
	}
	if s.rooms != nil {
		if err := s.rooms.MarkAvailable(ctx, req.RoomID); err != nil {
			s.logger.Error("cannot release room after checkout", "room_id", req.RoomID, "error", err)
		}
	}

	s.publishCompleted(ctx, doc)

	return &sale.Receipt{BillNumber: billNumber, Totals: totals}, nil
}

// GetByBillNumber looks up a settled sale.
func (s *Service) GetByBillNumber(ctx context.Context, billNumber string) (*Sale, error) {
	return s.sales.GetByBillNumber(ctx, billNumber)
}

// ListByPeriod returns sales settled within [from, to).
func (s *Service) ListByPeriod(ctx context.Context, from, to time.Time) ([]*Sale, error) {
	return s.sales.ListByPeriod(ctx, from, to)
}

func (s *Service) checkStock(ctx context.Context, lines []*sale.Line) (sale.StockErrors, error) {
	ids := make([]int64, len(lines))
	for i, line := range lines {
		ids[i] = line.ItemID
	}

	items, err := s.items.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("cannot read stock levels: %w", err)
	}
	byID := make(map[int64]*catalog.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	var violations sale.StockErrors
	for _, line := range lines {
		item, ok := byID[line.ItemID]
		if !ok || !item.Active {
			violations = append(violations, &sale.InsufficientStockError{
				ItemID:    line.ItemID,
				Name:      line.Name,
				Requested: line.Quantity,
				Available: 0,
			})
			continue
		}
		if line.Quantity > item.Stock {
			violations = append(violations, &sale.InsufficientStockError{
				ItemID:    item.ID,
				Name:      item.Name,
				Requested: line.Quantity,
				Available: item.Stock,
			})
		}
	}
	return violations, nil
}

func (s *Service) decrementStock(ctx context.Context, lines []*sale.Line, billNumber string) error {
	applied := make([]*sale.Line, 0, len(lines))
	for _, line := range lines {
		_, err := s.stock.Adjust(ctx, line.ItemID, -line.Quantity, catalog.StockTxSale, billNumber, "")
		if err != nil {
			s.rollback(ctx, applied, billNumber)
			if errors.Is(err, catalog.ErrStockConflict) || errors.Is(err, catalog.ErrItemNotFound) {
				available := 0
				if errors.Is(err, catalog.ErrStockConflict) {
					if current, getErr := s.items.Get(ctx, line.ItemID); getErr == nil && current != nil {
						available = current.Stock
					}
				}
				return sale.StockErrors{{
					ItemID:    line.ItemID,
					Name:      line.Name,
					Requested: line.Quantity,
					Available: available,
				}}
			}
			return fmt.Errorf("cannot decrement stock for item %d: %w", line.ItemID, err)
		}
		applied = append(applied, line)
	}
	return nil
}

func (s *Service) rollback(ctx context.Context, applied []*sale.Line, billNumber string) {
	for _, line := range applied {
		if _, err := s.stock.Adjust(ctx, line.ItemID, line.Quantity, catalog.StockTxAdjustment, billNumber, "checkout rollback"); err != nil {
			s.logger.Error("cannot roll back stock decrement", "item_id", line.ItemID, "bill_number", billNumber, "error", err)
		}
	}
}

func (s *Service) publishCompleted(ctx context.Context, doc *Sale) {
	if s.publisher == nil {
		return
	}
	evt := event.SaleCompletedEvent{
		EventType:     event.EventSaleCompleted,
		BillNumber:    doc.BillNumber,
		RoomID:        doc.RoomID,
		RoomName:      doc.RoomName,
		CustomerCount: doc.CustomerCount,
		Subtotal:      doc.Subtotal,
		Tax:           doc.Tax,
		ServiceCharge: doc.ServiceCharge,
		Total:         doc.Total,
		OccurredAt:    time.Now().UTC(),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		s.logger.Error("cannot marshal sale completed event", "bill_number", doc.BillNumber, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, event.SalesTopic, payload); err != nil {
		s.logger.Error("cannot publish sale completed event", "bill_number", doc.BillNumber, "error", err)
	}
}

func saleItems(lines []*sale.Line) []SaleItem {
	items := make([]SaleItem, len(lines))
	for i, line := range lines {
		items[i] = SaleItem{
			ItemID:    line.ItemID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal,
		}
	}
	return items
}
