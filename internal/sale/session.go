package sale

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
)

// MenuItemSnapshot is a read-only projection of a catalog item at the moment
// an ordering decision is made. Stock is a cache with no freshness guarantee
// beyond "as of last fetch"; the backend stays authoritative.
type MenuItemSnapshot struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	CategoryKey    string `json:"category"`
	UnitPrice      int64  `json:"unit_price"`
	AvailableStock int    `json:"available_stock"`
}

// Line is one row of the active order. UnitPrice is copied at add time and is
// not re-read from the catalog afterwards. StockHint remembers the last
// availability the session saw for the item, used as a fallback when checkout
// cannot reach the catalog for a fresh read.
type Line struct {
	ItemID    int64  `json:"item_id" bson:"item_id"`
	Name      string `json:"name" bson:"name"`
	UnitPrice int64  `json:"unit_price" bson:"unit_price"`
	Quantity  int    `json:"quantity" bson:"quantity"`
	LineTotal int64  `json:"line_total" bson:"line_total"`
	StockHint int    `json:"stock_hint,omitempty" bson:"stock_hint,omitempty"`
}

// State identifies where a session is in its lifecycle.
type State string

const (
	StateUnbound       State = "unbound"
	StateBoundEmpty    State = "bound_empty"
	StateBoundNonEmpty State = "bound_nonempty"
	StateCheckingOut   State = "checking_out"
)

const (
	opSave     = "save"
	opCheckout = "checkout"

	minCustomerCount = 1
	maxCustomerCount = 50

	// DefaultCheckoutTimeout bounds how long a finalize call may stay in
	// flight before the checkout lock is released and the operator can retry.
	DefaultCheckoutTimeout = 15 * time.Second
)

// CatalogReader supplies fresh item snapshots for checkout re-validation.
type CatalogReader interface {
	Snapshots(ctx context.Context, ids []int64) (map[int64]MenuItemSnapshot, error)
}

// DraftStore persists and recalls in-progress orders keyed by room. Get
// returns (nil, nil) when no pending draft exists.
type DraftStore interface {
	Get(ctx context.Context, roomID int64) (*Draft, error)
	Save(ctx context.Context, draft *Draft) error
}

// Finalizer performs the authoritative checkout. It recomputes totals
// server-side and may reject with StockErrors even after the client pre-check
// passed.
type Finalizer interface {
	Finalize(ctx context.Context, req *CheckoutRequest) (*Receipt, error)
}

// Draft is a saved-but-not-finalized order for a room.
type Draft struct {
	RoomID        int64     `json:"room_id" bson:"_id"`
	RoomName      string    `json:"room_name" bson:"room_name"`
	Lines         []*Line   `json:"lines" bson:"lines"`
	ApplyTax      bool      `json:"apply_tax" bson:"apply_tax"`
	ApplyService  bool      `json:"apply_service" bson:"apply_service"`
	CustomerCount int       `json:"customer_count" bson:"customer_count"`
	Notes         string    `json:"notes" bson:"notes"`
	Totals        Totals    `json:"totals" bson:"totals"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// CheckoutRequest carries the full session snapshot to the finalizer.
type CheckoutRequest struct {
	RoomID        int64   `json:"room_id"`
	RoomName      string  `json:"room_name"`
	Lines         []*Line `json:"lines"`
	ApplyTax      bool    `json:"apply_tax"`
	ApplyService  bool    `json:"apply_service"`
	CustomerCount int     `json:"customer_count"`
	Notes         string  `json:"notes"`
}

// Receipt is the finalizer's answer. Totals are the server's, not a client
// recompute.
type Receipt struct {
	BillNumber string `json:"bill_number"`
	Totals     Totals `json:"totals"`
}

// Deps bundles the session's collaborators.
type Deps struct {
	Catalog  CatalogReader
	Drafts   DraftStore
	Checkout Finalizer
	Logger   apt.Logger

	// CheckoutTimeout overrides DefaultCheckoutTimeout when positive.
	CheckoutTimeout time.Duration
}

// Session is the order aggregate for a single room. All mutation goes through
// its methods; derived totals are recomputed on every read, never cached.
type Session struct {
	mu   sync.Mutex
	deps Deps

	roomID   int64
	roomName string

	lines []*Line
	index map[int64]*Line

	applyTax      bool
	applyService  bool
	customerCount int
	notes         string

	inFlight string
}

func NewSession(deps Deps) *Session {
	if deps.Logger == nil {
		deps.Logger = apt.NewNoopLogger()
	}
	if deps.CheckoutTimeout <= 0 {
		deps.CheckoutTimeout = DefaultCheckoutTimeout
	}
	return &Session{
		deps:          deps,
		index:         make(map[int64]*Line),
		customerCount: minCustomerCount,
	}
}

// State reports the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	switch {
	case s.inFlight == opCheckout:
		return StateCheckingOut
	case s.roomID == 0:
		return StateUnbound
	case len(s.lines) == 0:
		return StateBoundEmpty
	default:
		return StateBoundNonEmpty
	}
}

// BindRoom attaches the session to a room. Valid only while unbound; an
// explicit Unbind is required to change rooms. If a pending draft exists for
// the room it is hydrated into the session, overwriting any in-memory state.
// Hydration is best effort: a failed draft fetch binds an empty session.
func (s *Session) BindRoom(ctx context.Context, roomID int64, roomName string) error {
	if roomID == 0 {
		return ErrNoRoomSelected
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.roomID != 0 {
		return ErrRoomAlreadyBound
	}

	s.roomID = roomID
	s.roomName = roomName
	s.resetLocked()

	if s.deps.Drafts == nil {
		return nil
	}

	draft, err := s.deps.Drafts.Get(ctx, roomID)
	if err != nil {
		s.deps.Logger.Info("draft hydration failed, starting empty", "room_id", roomID, "error", err)
		return nil
	}
	if draft == nil {
		return nil
	}

	for _, line := range draft.Lines {
		restored := *line
		restored.LineTotal = int64(restored.Quantity) * restored.UnitPrice
		s.lines = append(s.lines, &restored)
		s.index[restored.ItemID] = &restored
	}
	s.applyTax = draft.ApplyTax
	s.applyService = draft.ApplyService
	s.customerCount = clampCustomerCount(draft.CustomerCount)
	s.notes = draft.Notes

	s.deps.Logger.Debug("session hydrated from draft", "room_id", roomID, "lines", len(s.lines))
	return nil
}

// Unbind releases the room and discards all in-memory order state. This is
// the explicit room change path; unsaved lines are lost.
func (s *Session) Unbind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roomID = 0
	s.roomName = ""
	s.resetLocked()
}

// AddItem puts one unit of the item on the order, or bumps an existing line
// by one. The attempt is rejected if it would exceed the snapshot's stock.
func (s *Session) AddItem(snap MenuItemSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureMutableLocked(); err != nil {
		return err
	}

	line, exists := s.index[snap.ID]
	attempted := 1
	if exists {
		attempted = line.Quantity + 1
	}

	if attempted > snap.AvailableStock {
		return &InsufficientStockError{
			ItemID:    snap.ID,
			Name:      snap.Name,
			Requested: attempted,
			Available: snap.AvailableStock,
		}
	}

	if exists {
		line.Quantity = attempted
		line.LineTotal = int64(line.Quantity) * line.UnitPrice
		line.StockHint = snap.AvailableStock
		return nil
	}

	line = &Line{
		ItemID:    snap.ID,
		Name:      snap.Name,
		UnitPrice: snap.UnitPrice,
		Quantity:  1,
		LineTotal: snap.UnitPrice,
		StockHint: snap.AvailableStock,
	}
	s.lines = append(s.lines, line)
	s.index[snap.ID] = line
	return nil
}

// SetQuantity sets an existing line to an absolute quantity, re-validated
// against the last known stock for the item. A quantity below one removes the
// line, matching the quantity controls on the sale screen.
func (s *Session) SetQuantity(itemID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureMutableLocked(); err != nil {
		return err
	}

	line, ok := s.index[itemID]
	if !ok {
		return &ItemNotFoundError{ItemID: itemID}
	}

	if quantity < 1 {
		s.removeLocked(itemID)
		return nil
	}

	if quantity > line.StockHint {
		return &InsufficientStockError{
			ItemID:    itemID,
			Name:      line.Name,
			Requested: quantity,
			Available: line.StockHint,
		}
	}

	line.Quantity = quantity
	line.LineTotal = int64(quantity) * line.UnitPrice
	return nil
}

// RemoveItem drops a line. Removing an id that is not on the order is a
// no-op; double clicks must not surface spurious errors.
func (s *Session) RemoveItem(itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureMutableLocked(); err != nil {
		return err
	}

	s.removeLocked(itemID)
	return nil
}

func (s *Session) removeLocked(itemID int64) {
	if _, ok := s.index[itemID]; !ok {
		return
	}
	delete(s.index, itemID)
	for i, line := range s.lines {
		if line.ItemID == itemID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			break
		}
	}
}

// Clear empties the order and resets notes and customer count. The room
// binding and the tax/service flags are kept. Confirmation is the UI's job;
// once invoked the clear is unconditional.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureMutableLocked(); err != nil {
		return err
	}

	s.lines = nil
	s.index = make(map[int64]*Line)
	s.customerCount = minCustomerCount
	s.notes = ""
	return nil
}

func (s *Session) SetTaxFlag(apply bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureMutableLocked(); err != nil {
		return err
	}
	s.applyTax = apply
	return nil
}

func (s *Session) SetServiceFlag(apply bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureMutableLocked(); err != nil {
		return err
	}
	s.applyService = apply
	return nil
}

// SetCustomerCount clamps out-of-range values into [1,50] instead of
// rejecting them, matching the tolerant-input policy of the sale screen.
func (s *Session) SetCustomerCount(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureMutableLocked(); err != nil {
		return err
	}
	s.customerCount = clampCustomerCount(n)
	return nil
}

func (s *Session) SetNotes(notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureMutableLocked(); err != nil {
		return err
	}
	s.notes = notes
	return nil
}

// Totals recomputes the derived money view. Never cached.
func (s *Session) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeTotals(s.lines, s.applyTax, s.applyService)
}

// Lines returns a copy of the current order rows in insertion order.
func (s *Session) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLinesLocked()
}

func (s *Session) copyLinesLocked() []Line {
	out := make([]Line, len(s.lines))
	for i, line := range s.lines {
		out[i] = *line
	}
	return out
}

// View is a render-ready snapshot of the whole session.
type View struct {
	RoomID        int64  `json:"room_id"`
	RoomName      string `json:"room_name"`
	State         State  `json:"state"`
	Lines         []Line `json:"lines"`
	ApplyTax      bool   `json:"apply_tax"`
	ApplyService  bool   `json:"apply_service"`
	CustomerCount int    `json:"customer_count"`
	Notes         string `json:"notes"`
	Totals        Totals `json:"totals"`
}

// View returns a consistent snapshot for rendering. Totals are recomputed,
// never read from a cache.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		RoomID:        s.roomID,
		RoomName:      s.roomName,
		State:         s.stateLocked(),
		Lines:         s.copyLinesLocked(),
		ApplyTax:      s.applyTax,
		ApplyService:  s.applyService,
		CustomerCount: s.customerCount,
		Notes:         s.notes,
		Totals:        ComputeTotals(s.lines, s.applyTax, s.applyService),
	}
}

// SaveDraft persists the session as a pending draft for its room. Session
// state is untouched on success; the draft endpoint is an idempotent upsert
// keyed by room. Rejected while a checkout is pending.
func (s *Session) SaveDraft(ctx context.Context) error {
	s.mu.Lock()
	if s.roomID == 0 {
		s.mu.Unlock()
		return ErrRoomRequired
	}
	if len(s.lines) == 0 {
		s.mu.Unlock()
		return ErrEmptyOrder
	}
	switch s.inFlight {
	case opCheckout:
		s.mu.Unlock()
		return ErrCheckoutInFlight
	case opSave:
		s.mu.Unlock()
		return ErrOperationInFlight
	}
	s.inFlight = opSave
	draft := s.draftLocked()
	s.mu.Unlock()

	defer s.release()

	if err := s.deps.Drafts.Save(ctx, draft); err != nil {
		return &TransportError{Op: "save draft", Err: err}
	}
	return nil
}

func (s *Session) draftLocked() *Draft {
	lines := make([]*Line, len(s.lines))
	for i, line := range s.lines {
		cp := *line
		lines[i] = &cp
	}
	return &Draft{
		RoomID:        s.roomID,
		RoomName:      s.roomName,
		Lines:         lines,
		ApplyTax:      s.applyTax,
		ApplyService:  s.applyService,
		CustomerCount: s.customerCount,
		Notes:         s.notes,
		Totals:        ComputeTotals(s.lines, s.applyTax, s.applyService),
		UpdatedAt:     time.Now(),
	}
}

// Checkout finalizes the order.
//
// It first re-validates every line against the freshest stock it can get
// (another terminal may have sold the last unit since add-to-cart), collecting
// ALL shortfalls before aborting with no side effects. Only then does it enter
// the checking-out state and call the finalizer; the finalizer's totals are
// authoritative. On success the session is fully cleared and unbound. On any
// failure the cart is preserved exactly so the operator can adjust and retry.
func (s *Session) Checkout(ctx context.Context) (*Receipt, error) {
	s.mu.Lock()
	if s.roomID == 0 {
		s.mu.Unlock()
		return nil, ErrRoomRequired
	}
	if len(s.lines) == 0 {
		s.mu.Unlock()
		return nil, ErrEmptyOrder
	}
	switch s.inFlight {
	case opCheckout:
		s.mu.Unlock()
		return nil, ErrCheckoutInFlight
	case opSave:
		s.mu.Unlock()
		return nil, ErrOperationInFlight
	}
	s.inFlight = opCheckout
	req := &CheckoutRequest{
		RoomID:        s.roomID,
		RoomName:      s.roomName,
		Lines:         s.draftLocked().Lines,
		ApplyTax:      s.applyTax,
		ApplyService:  s.applyService,
		CustomerCount: s.customerCount,
		Notes:         s.notes,
	}
	s.mu.Unlock()

	defer s.release()

	if violations := s.preValidate(ctx, req.Lines); len(violations) > 0 {
		return nil, violations
	}

	callCtx, cancel := context.WithTimeout(ctx, s.deps.CheckoutTimeout)
	defer cancel()

	receipt, err := s.deps.Checkout.Finalize(callCtx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{Op: "checkout", Err: err}
		}
		var shortfalls StockErrors
		if errors.As(err, &shortfalls) {
			return nil, shortfalls
		}
		return nil, &TransportError{Op: "checkout", Err: err}
	}

	clientTotals := ComputeTotals(req.Lines, req.ApplyTax, req.ApplyService)
	if clientTotals != receipt.Totals {
		// Non-fatal: the server recomputation wins, the discrepancy is only logged.
		s.deps.Logger.Info("checkout totals mismatch",
			"room_id", req.RoomID,
			"client_total", clientTotals.Total,
			"server_total", receipt.Totals.Total)
	}

	s.mu.Lock()
	s.roomID = 0
	s.roomName = ""
	s.resetLocked()
	s.mu.Unlock()

	return receipt, nil
}

// preValidate checks every line against a fresh catalog read. When the
// catalog cannot be reached the per-line stock hints stand in, keeping the
// mandatory re-check meaningful while tolerating staleness.
func (s *Session) preValidate(ctx context.Context, lines []*Line) StockErrors {
	ids := make([]int64, len(lines))
	for i, line := range lines {
		ids[i] = line.ItemID
	}

	var fresh map[int64]MenuItemSnapshot
	if s.deps.Catalog != nil {
		var err error
		fresh, err = s.deps.Catalog.Snapshots(ctx, ids)
		if err != nil {
			s.deps.Logger.Info("stock refresh failed, validating against cached hints", "error", err)
			fresh = nil
		}
	}

	var violations StockErrors
	for _, line := range lines {
		available := line.StockHint
		name := line.Name
		if snap, ok := fresh[line.ItemID]; ok {
			available = snap.AvailableStock
			name = snap.Name
		}
		if line.Quantity > available {
			violations = append(violations, &InsufficientStockError{
				ItemID:    line.ItemID,
				Name:      name,
				Requested: line.Quantity,
				Available: available,
			})
		}
	}
	return violations
}

func (s *Session) ensureMutableLocked() error {
	if s.roomID == 0 {
		return ErrRoomRequired
	}
	if s.inFlight == opCheckout {
		return ErrCheckoutInFlight
	}
	return nil
}

func (s *Session) resetLocked() {
	s.lines = nil
	s.index = make(map[int64]*Line)
	s.applyTax = false
	s.applyService = false
	s.customerCount = minCustomerCount
	s.notes = ""
}

func (s *Session) release() {
	s.mu.Lock()
	s.inFlight = ""
	s.mu.Unlock()
}

func clampCustomerCount(n int) int {
	if n < minCustomerCount {
		return minCustomerCount
	}
	if n > maxCustomerCount {
		return maxCustomerCount
	}
	return n
}
