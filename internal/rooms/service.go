package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	"github.com/smileworld/ktvpos/internal/sale"
	"github.com/smileworld/ktvpos/pkg/event"
)

// ErrRoomOccupied rejects deleting or re-reserving a room that still has an
// open order.
var ErrRoomOccupied = errors.New("room is occupied")

// Service wraps the room repository with status-change semantics and event
// publication. It also adapts rooms for the order session: it is the
// sale.RoomDirectory the session store resolves rooms through.
type Service struct {
	repo      RoomRepo
	publisher events.Publisher
	logger    apt.Logger
}

func NewService(repo RoomRepo, publisher events.Publisher, logger apt.Logger) *Service {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Room implements sale.RoomDirectory.
func (s *Service) Room(ctx context.Context, id int64) (*sale.RoomRef, error) {
	room, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, nil
	}
	return &sale.RoomRef{ID: room.ID, Name: room.Name, Status: room.Status}, nil
}

// MarkOccupied flips a room to occupied when a draft order is saved for it.
func (s *Service) MarkOccupied(ctx context.Context, roomID int64) error {
	return s.ChangeStatus(ctx, roomID, StatusOccupied, "draft saved", "sale")
}

// MarkAvailable releases a room after checkout.
func (s *Service) MarkAvailable(ctx context.Context, roomID int64) error {
	return s.ChangeStatus(ctx, roomID, StatusAvailable, "checkout completed", "billing")
}

// ChangeStatus moves a room to the given status and publishes the transition.
// Setting a room to its current status is a no-op and publishes nothing.
func (s *Service) ChangeStatus(ctx context.Context, roomID int64, status, reason, source string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("unknown room status %q", status)
	}

	current, err := s.repo.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("room %d not found", roomID)
	}
	if current.Status == status {
		return nil
	}

	room, err := s.repo.SetStatus(ctx, roomID, status)
	if err != nil {
		return err
	}
	if room == nil {
		return fmt.Errorf("room %d not found", roomID)
	}

	s.publishStatus(ctx, room, current.Status, reason, source)
	return nil
}

// Delete removes a room. Occupied rooms are refused: their draft order must
// be checked out or discarded first.
func (s *Service) Delete(ctx context.Context, roomID int64) error {
	room, err := s.repo.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return fmt.Errorf("room %d not found", roomID)
	}
	if room.Status == StatusOccupied {
		return ErrRoomOccupied
	}
	return s.repo.Delete(ctx, roomID)
}

func (s *Service) publishStatus(ctx context.Context, room *Room, previous, reason, source string) {
	if s.publisher == nil {
		return
	}
	evt := event.RoomStatusEvent{
		EventType:      event.EventRoomStatusChanged,
		RoomID:         room.ID,
		Status:         room.Status,
		PreviousStatus: previous,
		Reason:         reason,
		Source:         source,
		OccurredAt:     time.Now().UTC(),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		s.logger.Error("cannot marshal room status event", "room_id", room.ID, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, event.RoomStatusTopic, payload); err != nil {
		s.logger.Error("cannot publish room status event", "room_id", room.ID, "error", err)
	}
}
