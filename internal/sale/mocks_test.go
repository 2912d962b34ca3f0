package sale

import "context"

type mockCatalog struct {
	SnapshotsFunc func(ctx context.Context, ids []int64) (map[int64]MenuItemSnapshot, error)
}

func (m *mockCatalog) Snapshots(ctx context.Context, ids []int64) (map[int64]MenuItemSnapshot, error) {
	if m.SnapshotsFunc != nil {
		return m.SnapshotsFunc(ctx, ids)
	}
	return map[int64]MenuItemSnapshot{}, nil
}

type mockDraftStore struct {
	GetFunc  func(ctx context.Context, roomID int64) (*Draft, error)
	SaveFunc func(ctx context.Context, draft *Draft) error

	saved []*Draft
}

func (m *mockDraftStore) Get(ctx context.Context, roomID int64) (*Draft, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, roomID)
	}
	return nil, nil
}

func (m *mockDraftStore) Save(ctx context.Context, draft *Draft) error {
	m.saved = append(m.saved, draft)
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, draft)
	}
	return nil
}

type mockFinalizer struct {
	FinalizeFunc func(ctx context.Context, req *CheckoutRequest) (*Receipt, error)

	calls []*CheckoutRequest
}

func (m *mockFinalizer) Finalize(ctx context.Context, req *CheckoutRequest) (*Receipt, error) {
	m.calls = append(m.calls, req)
	if m.FinalizeFunc != nil {
		return m.FinalizeFunc(ctx, req)
	}
	return &Receipt{BillNumber: "SW-20260101-ABCDEF", Totals: ComputeTotals(req.Lines, req.ApplyTax, req.ApplyService)}, nil
}

type mockRoomDirectory struct {
	RoomFunc func(ctx context.Context, id int64) (*RoomRef, error)
}

func (m *mockRoomDirectory) Room(ctx context.Context, id int64) (*RoomRef, error) {
	if m.RoomFunc != nil {
		return m.RoomFunc(ctx, id)
	}
	return &RoomRef{ID: id, Name: "R001", Status: "available"}, nil
}
