package reports

import (
	"context"
	"sort"
	"time"

	"github.com/appetiteclub/apt"

	"github.com/smileworld/ktvpos/internal/billing"
	"github.com/smileworld/ktvpos/internal/catalog"
	"github.com/smileworld/ktvpos/internal/rooms"
)

// DashboardStats is the front-desk overview: today's money, room occupancy
// and items that need reordering.
type DashboardStats struct {
	TodayTotal     int64 `json:"today_total"`
	TodayBillCount int   `json:"today_bill_count"`
	TodayCustomers int   `json:"today_customers"`
	OccupiedRooms  int   `json:"occupied_rooms"`
	TotalRooms     int   `json:"total_rooms"`
	LowStockItems  int   `json:"low_stock_items"`
}

// DailySummary aggregates one day of settled sales.
type DailySummary struct {
	Date          string     `json:"date"`
	BillCount     int        `json:"bill_count"`
	Subtotal      int64      `json:"subtotal"`
	Tax           int64      `json:"tax"`
	ServiceCharge int64      `json:"service_charge"`
	Total         int64      `json:"total"`
	Customers     int        `json:"customers"`
	TopItems      []ItemSold `json:"top_items"`
}

// ItemSold is one row of the best-seller list.
type ItemSold struct {
	ItemID   int64  `json:"item_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

const topItemsLimit = 5

// Service aggregates sales, room and stock data into reports. All reads, no
// writes.
type Service struct {
	sales  billing.SaleRepo
	rooms  rooms.RoomRepo
	items  catalog.MenuItemRepo
	logger apt.Logger
}

func NewService(sales billing.SaleRepo, roomRepo rooms.RoomRepo, items catalog.MenuItemRepo, logger apt.Logger) *Service {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Service{
		sales:  sales,
		rooms:  roomRepo,
		items:  items,
		logger: logger,
	}
}

// Dashboard builds the front-desk overview for the current day.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	from, to := dayBounds(time.Now())

	sales, err := s.sales.ListByPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{TodayBillCount: len(sales)}
	for _, sale := range sales {
		stats.TodayTotal += sale.Total
		stats.TodayCustomers += sale.CustomerCount
	}

	allRooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalRooms = len(allRooms)
	for _, room := range allRooms {
		if room.Status == rooms.StatusOccupied {
			stats.OccupiedRooms++
		}
	}

	lowStock, err := s.items.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	stats.LowStockItems = len(lowStock)

	return stats, nil
}

// Daily builds the settlement summary for the given day.
func (s *Service) Daily(ctx context.Context, day time.Time) (*DailySummary, error) {
	from, to := dayBounds(day)

	sales, err := s.sales.ListByPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}

	summary := &DailySummary{
		Date:      from.Format("2006-01-02"),
		BillCount: len(sales),
	}

	sold := make(map[int64]*ItemSold)
	for _, sale := range sales {
		summary.Subtotal += sale.Subtotal
		summary.Tax += sale.Tax
		summary.ServiceCharge += sale.ServiceCharge
		summary.Total += sale.Total
		summary.Customers += sale.CustomerCount

		for _, item := range sale.Items {
			row, ok := sold[item.ItemID]
			if !ok {
				row = &ItemSold{ItemID: item.ItemID, Name: item.Name}
				sold[item.ItemID] = row
			}
			row.Quantity += item.Quantity
			row.Revenue += item.LineTotal
		}
	}

	summary.TopItems = topItems(sold)
	return summary, nil
}

func topItems(sold map[int64]*ItemSold) []ItemSold {
	rows := make([]ItemSold, 0, len(sold))
	for _, row := range sold {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		return rows[i].ItemID < rows[j].ItemID
	})
	if len(rows) > topItemsLimit {
		rows = rows[:topItemsLimit]
	}
	return rows
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
	return from, from.AddDate(0, 0, 1)
}
