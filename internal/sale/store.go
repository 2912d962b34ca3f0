package sale

import (
	"context"
	"fmt"
	"sync"

	"github.com/appetiteclub/apt"
)

// RoomRef is the slice of room state the session layer needs.
type RoomRef struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// RoomDirectory resolves room ids to their current state. Returns (nil, nil)
// when the room does not exist.
type RoomDirectory interface {
	Room(ctx context.Context, id int64) (*RoomRef, error)
}

// SessionStore keeps one live session per room. Sessions are created and
// hydrated on first use and evicted when checkout succeeds or the room is
// released.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	deps     Deps
	rooms    RoomDirectory
	logger   apt.Logger
}

func NewSessionStore(deps Deps, rooms RoomDirectory, logger apt.Logger) *SessionStore {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &SessionStore{
		sessions: make(map[int64]*Session),
		deps:     deps,
		rooms:    rooms,
		logger:   logger,
	}
}

// Bind returns the live session for a room, creating and hydrating one if
// needed. The room must exist in the directory.
func (st *SessionStore) Bind(ctx context.Context, roomID int64) (*Session, error) {
	if roomID == 0 {
		return nil, ErrNoRoomSelected
	}

	st.mu.RLock()
	session, ok := st.sessions[roomID]
	st.mu.RUnlock()
	if ok {
		return session, nil
	}

	room, err := st.rooms.Room(ctx, roomID)
	if err != nil {
		return nil, &TransportError{Op: "room lookup", Err: err}
	}
	if room == nil {
		return nil, fmt.Errorf("room %d not found", roomID)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	// Another request may have bound the room while we were looking it up.
	if session, ok := st.sessions[roomID]; ok {
		return session, nil
	}

	session = NewSession(st.deps)
	if err := session.BindRoom(ctx, roomID, room.Name); err != nil {
		return nil, err
	}
	st.sessions[roomID] = session

	st.logger.Debug("session bound", "room_id", roomID, "room", room.Name)
	return session, nil
}

// Get returns the live session for a room without creating one.
func (st *SessionStore) Get(roomID int64) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	session, ok := st.sessions[roomID]
	return session, ok
}

// Evict drops the session for a room, unbinding it first so any later use of
// a stale pointer is rejected.
func (st *SessionStore) Evict(roomID int64) {
	st.mu.Lock()
	session, ok := st.sessions[roomID]
	delete(st.sessions, roomID)
	st.mu.Unlock()

	if ok {
		session.Unbind()
	}
}
