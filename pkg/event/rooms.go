package event

import "time"

const (
	// RoomStatusTopic delivers authoritative status changes for rooms.
	RoomStatusTopic = "pos.rooms"

	// EventRoomStatusChanged identifies a room status change payload.
	EventRoomStatusChanged = "room.status.changed"
)

// RoomStatusEvent captures the minimal information other components need to
// reason about a room's availability.
type RoomStatusEvent struct {
	EventType      string    `json:"event_type"`
	RoomID         int64     `json:"room_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Source         string    `json:"source,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
