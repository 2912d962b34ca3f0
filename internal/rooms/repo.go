package rooms

import "context"

// RoomRepo defines the repository interface for rooms. Get returns (nil, nil)
// when the id is unknown.
type RoomRepo interface {
	Create(ctx context.Context, room *Room) error
	Get(ctx context.Context, id int64) (*Room, error)
	List(ctx context.Context) ([]*Room, error)
	ListByStatus(ctx context.Context, status string) ([]*Room, error)
	Save(ctx context.Context, room *Room) error
	Delete(ctx context.Context, id int64) error

	// SetStatus writes only the status field and returns the room after the
	// change, or (nil, nil) when the id is unknown.
	SetStatus(ctx context.Context, id int64, status string) (*Room, error)
}
