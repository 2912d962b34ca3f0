package sale

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoRoomSelected is returned when a bind is attempted without a room id.
	ErrNoRoomSelected = errors.New("no room selected")

	// ErrRoomRequired is returned when a mutating operation is attempted on an
	// unbound session. Recoverable: the caller should prompt room selection.
	ErrRoomRequired = errors.New("a room must be selected before ordering")

	// ErrRoomAlreadyBound is returned when a bind is attempted on a session
	// that already has a room. The room must be changed explicitly via Unbind.
	ErrRoomAlreadyBound = errors.New("session is already bound to a room")

	// ErrEmptyOrder is returned when save or checkout is attempted with no lines.
	ErrEmptyOrder = errors.New("order has no items")

	// ErrCheckoutInFlight rejects re-entrant checkout calls while one is pending.
	ErrCheckoutInFlight = errors.New("a checkout is already in progress")

	// ErrOperationInFlight rejects a save while a checkout is pending and a
	// checkout while a save is pending.
	ErrOperationInFlight = errors.New("another persist operation is in progress")
)

// InsufficientStockError reports an attempt to order more of an item than the
// catalog has available. The line's committed quantity is left unchanged.
type InsufficientStockError struct {
	ItemID    int64
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d (%s): requested %d, available %d",
		e.ItemID, e.Name, e.Requested, e.Available)
}

// StockErrors aggregates every shortfall found during checkout pre-validation.
// All offending lines are reported, not just the first.
type StockErrors []*InsufficientStockError

func (e StockErrors) Error() string {
	parts := make([]string, len(e))
	for i, item := range e {
		parts[i] = item.Error()
	}
	return strings.Join(parts, "; ")
}

// ItemNotFoundError reports an operation that referenced an item id with no
// line in the session.
type ItemNotFoundError struct {
	ItemID int64
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %d is not in the order", e.ItemID)
}

// TimeoutError reports a checkout whose finalize call did not resolve in time.
// The checkout lock is released so the operator can retry.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// TransportError wraps a network failure from a collaborator so the caller can
// render a uniform "could not reach server" condition.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: could not reach server: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
