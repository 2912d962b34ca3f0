package rooms

import "context"

type mockRoomRepo struct {
	GetFunc       func(ctx context.Context, id int64) (*Room, error)
	SetStatusFunc func(ctx context.Context, id int64, status string) (*Room, error)
	DeleteFunc    func(ctx context.Context, id int64) error

	deleted []int64
}

func (m *mockRoomRepo) Create(ctx context.Context, room *Room) error { return nil }

func (m *mockRoomRepo) Get(ctx context.Context, id int64) (*Room, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockRoomRepo) List(ctx context.Context) ([]*Room, error) { return nil, nil }
func (m *mockRoomRepo) ListByStatus(ctx context.Context, status string) ([]*Room, error) {
	return nil, nil
}
func (m *mockRoomRepo) Save(ctx context.Context, room *Room) error { return nil }

func (m *mockRoomRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockRoomRepo) SetStatus(ctx context.Context, id int64, status string) (*Room, error) {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status)
	}
	return nil, nil
}

// mockPublisher is a mock implementation of events.Publisher for testing
type mockPublisher struct {
	PublishFunc func(ctx context.Context, topic string, msg []byte) error

	published []struct {
		topic string
		msg   []byte
	}
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	m.published = append(m.published, struct {
		topic string
		msg   []byte
	}{topic, msg})
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	return nil
}
