package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/smileworld/ktvpos/pkg/event"
)

func statusRepo(initial string) *mockRoomRepo {
	room := &Room{ID: 1, Name: "R001", Capacity: 4, Status: initial}
	return &mockRoomRepo{
		GetFunc: func(ctx context.Context, id int64) (*Room, error) {
			if id != room.ID {
				return nil, nil
			}
			cp := *room
			return &cp, nil
		},
		SetStatusFunc: func(ctx context.Context, id int64, status string) (*Room, error) {
			if id != room.ID {
				return nil, nil
			}
			room.Status = status
			cp := *room
			return &cp, nil
		},
	}
}

func TestChangeStatusPublishesTransition(t *testing.T) {
	publisher := &mockPublisher{}
	svc := NewService(statusRepo(StatusAvailable), publisher, nil)

	if err := svc.MarkOccupied(context.Background(), 1); err != nil {
		t.Fatalf("MarkOccupied() error = %v", err)
	}

	if len(publisher.published) != 1 {
		t.Fatalf("published events = %d, want 1", len(publisher.published))
	}
	if publisher.published[0].topic != event.RoomStatusTopic {
		t.Errorf("topic = %q, want %q", publisher.published[0].topic, event.RoomStatusTopic)
	}

	var evt event.RoomStatusEvent
	if err := json.Unmarshal(publisher.published[0].msg, &evt); err != nil {
		t.Fatalf("cannot decode event: %v", err)
	}
	if evt.Status != StatusOccupied || evt.PreviousStatus != StatusAvailable {
		t.Errorf("event = %+v, want available -> occupied", evt)
	}
	if evt.Source != "sale" {
		t.Errorf("Source = %q, want sale", evt.Source)
	}
}

func TestChangeStatusNoOpWhenUnchanged(t *testing.T) {
	publisher := &mockPublisher{}
	svc := NewService(statusRepo(StatusOccupied), publisher, nil)

	if err := svc.MarkOccupied(context.Background(), 1); err != nil {
		t.Fatalf("MarkOccupied() error = %v", err)
	}
	if len(publisher.published) != 0 {
		t.Errorf("published events = %d, want 0 for unchanged status", len(publisher.published))
	}
}

func TestChangeStatusRejectsUnknown(t *testing.T) {
	svc := NewService(statusRepo(StatusAvailable), nil, nil)

	if err := svc.ChangeStatus(context.Background(), 1, "party", "", ""); err == nil {
		t.Error("ChangeStatus(party) error = nil, want error")
	}
	if err := svc.ChangeStatus(context.Background(), 99, StatusCleaning, "", ""); err == nil {
		t.Error("ChangeStatus(unknown room) error = nil, want error")
	}
}

func TestDeleteRefusesOccupiedRoom(t *testing.T) {
	repo := statusRepo(StatusOccupied)
	svc := NewService(repo, nil, nil)

	if err := svc.Delete(context.Background(), 1); !errors.Is(err, ErrRoomOccupied) {
		t.Errorf("Delete() error = %v, want ErrRoomOccupied", err)
	}
	if len(repo.deleted) != 0 {
		t.Errorf("deleted = %v, want none", repo.deleted)
	}
}

func TestDeleteAvailableRoom(t *testing.T) {
	repo := statusRepo(StatusAvailable)
	svc := NewService(repo, nil, nil)

	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != 1 {
		t.Errorf("deleted = %v, want [1]", repo.deleted)
	}
}

func TestRoomDirectoryProjection(t *testing.T) {
	svc := NewService(statusRepo(StatusReserved), nil, nil)

	ref, err := svc.Room(context.Background(), 1)
	if err != nil {
		t.Fatalf("Room() error = %v", err)
	}
	if ref == nil || ref.Name != "R001" || ref.Status != StatusReserved {
		t.Errorf("ref = %+v, want R001/reserved", ref)
	}

	absent, err := svc.Room(context.Background(), 99)
	if err != nil {
		t.Fatalf("Room(99) error = %v", err)
	}
	if absent != nil {
		t.Errorf("Room(99) = %+v, want nil for unknown room", absent)
	}
}
