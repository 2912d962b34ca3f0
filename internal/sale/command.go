package sale

import "fmt"

// Command is a message the session can be driven with. Keeping the mutation
// surface behind a command type lets the state machine be exercised by any
// front end (HTTP handler, terminal, tests) without knowing the method set.
type Command interface {
	isCommand()
}

// AddItem puts one unit of the snapshotted item on the order.
type AddItem struct {
	Snapshot MenuItemSnapshot
}

// SetQuantity sets an existing line to an absolute quantity.
type SetQuantity struct {
	ItemID   int64
	Quantity int
}

// RemoveItem drops a line from the order.
type RemoveItem struct {
	ItemID int64
}

// Clear empties the order.
type Clear struct{}

// SetTaxFlag toggles the 5% tax on the order.
type SetTaxFlag struct {
	Apply bool
}

// SetServiceFlag toggles the 10% service charge on the order.
type SetServiceFlag struct {
	Apply bool
}

// SetCustomerCount records how many guests are in the room.
type SetCustomerCount struct {
	Count int
}

// SetNotes attaches free-text notes to the order.
type SetNotes struct {
	Notes string
}

func (AddItem) isCommand()          {}
func (SetQuantity) isCommand()      {}
func (RemoveItem) isCommand()       {}
func (Clear) isCommand()            {}
func (SetTaxFlag) isCommand()       {}
func (SetServiceFlag) isCommand()   {}
func (SetCustomerCount) isCommand() {}
func (SetNotes) isCommand()         {}

// Dispatch applies a command to the session.
func (s *Session) Dispatch(cmd Command) error {
	switch c := cmd.(type) {
	case AddItem:
		return s.AddItem(c.Snapshot)
	case SetQuantity:
		return s.SetQuantity(c.ItemID, c.Quantity)
	case RemoveItem:
		return s.RemoveItem(c.ItemID)
	case Clear:
		return s.Clear()
	case SetTaxFlag:
		return s.SetTaxFlag(c.Apply)
	case SetServiceFlag:
		return s.SetServiceFlag(c.Apply)
	case SetCustomerCount:
		return s.SetCustomerCount(c.Count)
	case SetNotes:
		return s.SetNotes(c.Notes)
	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
}
