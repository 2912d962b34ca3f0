package rooms

import "time"

// Room statuses. Occupied rooms carry an unfinished order; cleaning rooms are
// blocked until housekeeping releases them.
const (
	StatusAvailable = "available"
	StatusOccupied  = "occupied"
	StatusReserved  = "reserved"
	StatusCleaning  = "cleaning"
)

// Room is a karaoke room. HourlyRate is in the smallest currency unit.
type Room struct {
	ID         int64     `json:"id" bson:"_id"`
	Name       string    `json:"name" bson:"name"`
	Capacity   int       `json:"capacity" bson:"capacity"`
	HourlyRate int64     `json:"hourly_rate" bson:"hourly_rate"`
	Status     string    `json:"status" bson:"status"`
	Notes      string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// ValidStatus reports whether s is one of the known room statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusReserved, StatusCleaning:
		return true
	}
	return false
}

func NewRoom() *Room {
	return &Room{Status: StatusAvailable}
}

// BeforeCreate stamps timestamps and defaults the status.
func (r *Room) BeforeCreate() {
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.Status == "" {
		r.Status = StatusAvailable
	}
}

// BeforeUpdate refreshes the update timestamp.
func (r *Room) BeforeUpdate() {
	r.UpdatedAt = time.Now()
}

// Occupy flips the room to occupied. Called when a draft order is saved.
func (r *Room) Occupy() {
	r.Status = StatusOccupied
	r.UpdatedAt = time.Now()
}

// Release flips the room back to available. Called after checkout.
func (r *Room) Release() {
	r.Status = StatusAvailable
	r.UpdatedAt = time.Now()
}
