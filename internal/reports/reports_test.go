package reports

import (
	"context"
	"testing"
	"time"

	"github.com/smileworld/ktvpos/internal/billing"
	"github.com/smileworld/ktvpos/internal/catalog"
	"github.com/smileworld/ktvpos/internal/rooms"
)

type fixedSales []*billing.Sale

func (f fixedSales) Insert(ctx context.Context, sale *billing.Sale) error { return nil }
func (f fixedSales) GetByBillNumber(ctx context.Context, billNumber string) (*billing.Sale, error) {
	return nil, nil
}
func (f fixedSales) ListByPeriod(ctx context.Context, from, to time.Time) ([]*billing.Sale, error) {
	return f, nil
}

type fixedRooms []*rooms.Room

func (f fixedRooms) Create(ctx context.Context, room *rooms.Room) error      { return nil }
func (f fixedRooms) Get(ctx context.Context, id int64) (*rooms.Room, error)  { return nil, nil }
func (f fixedRooms) List(ctx context.Context) ([]*rooms.Room, error)         { return f, nil }
func (f fixedRooms) Save(ctx context.Context, room *rooms.Room) error        { return nil }
func (f fixedRooms) Delete(ctx context.Context, id int64) error              { return nil }
func (f fixedRooms) ListByStatus(ctx context.Context, status string) ([]*rooms.Room, error) {
	return nil, nil
}
func (f fixedRooms) SetStatus(ctx context.Context, id int64, status string) (*rooms.Room, error) {
	return nil, nil
}

type fixedItems []*catalog.MenuItem

func (f fixedItems) Create(ctx context.Context, item *catalog.MenuItem) error { return nil }
func (f fixedItems) Get(ctx context.Context, id int64) (*catalog.MenuItem, error) {
	return nil, nil
}
func (f fixedItems) GetMany(ctx context.Context, ids []int64) ([]*catalog.MenuItem, error) {
	return nil, nil
}
func (f fixedItems) List(ctx context.Context) ([]*catalog.MenuItem, error)       { return nil, nil }
func (f fixedItems) ListActive(ctx context.Context) ([]*catalog.MenuItem, error) { return nil, nil }
func (f fixedItems) ListByCategory(ctx context.Context, categoryKey string) ([]*catalog.MenuItem, error) {
	return nil, nil
}
func (f fixedItems) ListLowStock(ctx context.Context) ([]*catalog.MenuItem, error) { return f, nil }
func (f fixedItems) Save(ctx context.Context, item *catalog.MenuItem) error        { return nil }
func (f fixedItems) AdjustStock(ctx context.Context, id int64, delta int) (*catalog.MenuItem, error) {
	return nil, nil
}

func sampleSales() fixedSales {
	return fixedSales{
		{
			BillNumber: "SW-20260828-AAAAAA", CustomerCount: 4,
			Subtotal: 40000, Tax: 2000, ServiceCharge: 4000, Total: 46000,
			Items: []billing.SaleItem{
				{ItemID: 1, Name: "Myanmar Beer", Quantity: 10, LineTotal: 35000},
				{ItemID: 2, Name: "Fried Peanuts", Quantity: 2, LineTotal: 5000},
			},
		},
		{
			BillNumber: "SW-20260828-BBBBBB", CustomerCount: 8,
			Subtotal: 50000, Total: 50000,
			Items: []billing.SaleItem{
				{ItemID: 1, Name: "Myanmar Beer", Quantity: 4, LineTotal: 14000},
				{ItemID: 12, Name: "Seafood Hotpot Set", Quantity: 1, LineTotal: 25000},
				{ItemID: 8, Name: "Mineral Water", Quantity: 6, LineTotal: 4800},
			},
		},
	}
}

func TestDashboard(t *testing.T) {
	roomList := fixedRooms{
		{ID: 1, Status: rooms.StatusOccupied},
		{ID: 2, Status: rooms.StatusAvailable},
		{ID: 3, Status: rooms.StatusOccupied},
		{ID: 4, Status: rooms.StatusCleaning},
	}
	lowStock := fixedItems{
		{ID: 9, Stock: 2, MinStock: 10},
	}

	svc := NewService(sampleSales(), roomList, lowStock, nil)
	stats, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}

	want := DashboardStats{
		TodayTotal:     96000,
		TodayBillCount: 2,
		TodayCustomers: 12,
		OccupiedRooms:  2,
		TotalRooms:     4,
		LowStockItems:  1,
	}
	if *stats != want {
		t.Errorf("Dashboard() = %+v, want %+v", *stats, want)
	}
}

func TestDaily(t *testing.T) {
	svc := NewService(sampleSales(), fixedRooms{}, fixedItems{}, nil)

	day := time.Date(2026, 8, 28, 14, 0, 0, 0, time.Local)
	summary, err := svc.Daily(context.Background(), day)
	if err != nil {
		t.Fatalf("Daily() error = %v", err)
	}

	if summary.Date != "2026-08-28" {
		t.Errorf("Date = %q, want 2026-08-28", summary.Date)
	}
	if summary.BillCount != 2 || summary.Total != 96000 || summary.Customers != 12 {
		t.Errorf("summary = %+v, want 2 bills / 96000 / 12 customers", summary)
	}
	if summary.Tax != 2000 || summary.ServiceCharge != 4000 {
		t.Errorf("extras = %d/%d, want 2000/4000", summary.Tax, summary.ServiceCharge)
	}

	if len(summary.TopItems) != 3 {
		t.Fatalf("len(TopItems) = %d, want 3", len(summary.TopItems))
	}
	// Beer leads with merged quantity across both bills.
	top := summary.TopItems[0]
	if top.ItemID != 1 || top.Quantity != 14 || top.Revenue != 49000 {
		t.Errorf("TopItems[0] = %+v, want beer 14/49000", top)
	}
	if summary.TopItems[1].ItemID != 12 {
		t.Errorf("TopItems[1] = %+v, want hotpot second by revenue", summary.TopItems[1])
	}
}
