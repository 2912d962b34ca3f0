package sale

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
)

const MaxBodyBytes = 1 << 20

// RoomOccupier marks a room as occupied once a draft has been saved for it.
type RoomOccupier interface {
	MarkOccupied(ctx context.Context, roomID int64) error
}

// Handler exposes the order session over HTTP. It is glue only: every
// mutation goes through Session commands so the state machine stays testable
// without a router.
type Handler struct {
	logger  apt.Logger
	config  *apt.Config
	tlm     *telemetry.HTTP
	store   *SessionStore
	catalog CatalogReader
	rooms   RoomOccupier
}

type HandlerDeps struct {
	Store   *SessionStore
	Catalog CatalogReader
	Rooms   RoomOccupier
}

func NewHandler(hd HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		logger:  logger,
		config:  config,
		tlm:     telemetry.NewHTTP(),
		store:   hd.Store,
		catalog: hd.Catalog,
		rooms:   hd.Rooms,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/rooms/{roomID}/session", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Patch("/", h.UpdateOptions)
		r.Delete("/", h.ReleaseSession)

		r.Post("/items", h.AddItem)
		r.Put("/items/{itemID}", h.SetQuantity)
		r.Delete("/items/{itemID}", h.RemoveItem)

		r.Post("/clear", h.ClearOrder)
		r.Post("/save", h.SaveDraft)
		r.Post("/checkout", h.Checkout)
	})
}

// GetSession binds (or re-attaches to) the room's session and returns its
// full view, totals included.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetSession")
	defer finish()

	log := h.log(r)

	session, ok := h.bindSession(w, r, log)
	if !ok {
		return
	}

	apt.RespondSuccess(w, session.View())
}

type addItemRequest struct {
	ItemID int64 `json:"item_id"`
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	session, ok := h.bindSession(w, r, log)
	if !ok {
		return
	}

	var req addItemRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	if req.ItemID == 0 {
		apt.RespondError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	snaps, err := h.catalog.Snapshots(ctx, []int64{req.ItemID})
	if err != nil {
		log.Error("cannot read catalog", "item_id", req.ItemID, "error", err)
		apt.RespondError(w, http.StatusBadGateway, "Could not reach the menu catalog")
		return
	}
	snap, found := snaps[req.ItemID]
	if !found {
		apt.RespondError(w, http.StatusNotFound, "Menu item not found")
		return
	}

	if err := session.Dispatch(AddItem{Snapshot: snap}); err != nil {
		h.respondSaleError(w, log, err)
		return
	}

	apt.RespondSuccess(w, session.View())
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetQuantity")
	defer finish()

	log := h.log(r)

	session, ok := h.bindSession(w, r, log)
	if !ok {
		return
	}

	itemID, ok := h.parseItemID(w, r, log)
	if !ok {
		return
	}

	var req setQuantityRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	if err := session.Dispatch(SetQuantity{ItemID: itemID, Quantity: req.Quantity}); err != nil {
		h.respondSaleError(w, log, err)
		return
	}

	apt.RespondSuccess(w, session.View())
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveItem")
	defer finish()

	log := h.log(r)

	session, ok := h.bindSession(w, r, log)
	if !ok {
		return
	}

	itemID, ok := h.parseItemID(w, r, log)
	if !ok {
		return
	}

	if err := session.Dispatch(RemoveItem{ItemID: itemID}); err != nil {
		h.respondSaleError(w, log, err)
		return
	}

	apt.RespondSuccess(w, session.View())
}

func (h *Handler) ClearOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ClearOrder")
	defer finish()

	log := h.log(r)

	session, ok := h.bindSession(w, r, log)
	if !ok {
		return
	}

	if err := session.Dispatch(Clear{}); err != nil {
		h.respondSaleError(w, log, err)
		return
	}

	apt.RespondSuccess(w, session.View())
}

type updateOptionsRequest struct {
	ApplyTax      *bool   `json:"apply_tax,omitempty"`
	ApplyService  *bool   `json:"apply_service,omitempty"`
	CustomerCount *int    `json:"customer_count,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// UpdateOptions applies any subset of the tax/service flags, customer count
// and notes. Out-of-range customer counts are clamped, not rejected.
func (h *Handler) UpdateOptions(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateOptions")
	defer finish()

	log := h.log(r)

	session, ok := h.bindSession(w, r, log)
	if !ok {
		return
	}

	var req updateOptionsRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	cmds := make([]Command, 0, 4)
	if req.ApplyTax != nil {
		cmds = append(cmds, SetTaxFlag{Apply: *req.ApplyTax})
	}
	if req.ApplyService != nil {
		cmds = append(cmds, SetServiceFlag{Apply: *req.ApplyService})
	}
	if req.CustomerCount != nil {
		cmds = append(cmds, SetCustomerCount{Count: *req.CustomerCount})
	}
	if req.Notes != nil {
		cmds = append(cmds, SetNotes{Notes: *req.Notes})
	}

	for _, cmd := range cmds {
		if err := session.Dispatch(cmd); err != nil {
			h.respondSaleError(w, log, err)
			return
		}
	}

	apt.RespondSuccess(w, session.View())
}

func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SaveDraft")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	session, ok := h.bindSession(w, r, log)
	if !ok {
		return
	}

	if err := session.SaveDraft(ctx); err != nil {
		h.respondSaleError(w, log, err)
		return
	}

	view := session.View()
	if h.rooms != nil {
		if err := h.rooms.MarkOccupied(ctx, view.RoomID); err != nil {
			// The draft itself is saved; a failed status flip is not fatal.
			log.Info("cannot mark room occupied", "room_id", view.RoomID, "error", err)
		}
	}

	apt.RespondSuccess(w, view)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Checkout")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	session, ok := h.bindSession(w, r, log)
	if !ok {
		return
	}

	view := session.View()

	receipt, err := session.Checkout(ctx)
	if err != nil {
		h.respondSaleError(w, log, err)
		return
	}

	h.store.Evict(view.RoomID)

	log.Info("checkout completed", "room_id", view.RoomID, "bill_number", receipt.BillNumber)
	apt.RespondSuccess(w, receipt)
}

// ReleaseSession is the explicit room change: the session is unbound and
// evicted, unsaved lines are discarded.
func (h *Handler) ReleaseSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ReleaseSession")
	defer finish()

	log := h.log(r)

	roomID, ok := h.parseRoomID(w, r, log)
	if !ok {
		return
	}

	h.store.Evict(roomID)
	w.WriteHeader(http.StatusNoContent)
}

// Helper methods

func (h *Handler) bindSession(w http.ResponseWriter, r *http.Request, log apt.Logger) (*Session, bool) {
	roomID, ok := h.parseRoomID(w, r, log)
	if !ok {
		return nil, false
	}

	session, err := h.store.Bind(r.Context(), roomID)
	if err != nil {
		log.Debug("cannot bind session", "room_id", roomID, "error", err)
		var transport *TransportError
		if errors.As(err, &transport) {
			apt.RespondError(w, http.StatusBadGateway, "Could not reach the room directory")
			return nil, false
		}
		apt.RespondError(w, http.StatusNotFound, "Room not found")
		return nil, false
	}
	return session, true
}

func (h *Handler) parseRoomID(w http.ResponseWriter, r *http.Request, log apt.Logger) (int64, bool) {
	idStr := chi.URLParam(r, "roomID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		log.Debug("invalid roomID parameter", "roomID", idStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid roomID parameter")
		return 0, false
	}
	return id, true
}

func (h *Handler) parseItemID(w http.ResponseWriter, r *http.Request, log apt.Logger) (int64, bool) {
	idStr := chi.URLParam(r, "itemID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		log.Debug("invalid itemID parameter", "itemID", idStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid itemID parameter")
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log apt.Logger, out interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return false
	}

	if err := json.Unmarshal(body, out); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return false
	}

	return true
}

// respondSaleError maps session errors onto HTTP while preserving the
// structure the caller needs to render a precise message.
func (h *Handler) respondSaleError(w http.ResponseWriter, log apt.Logger, err error) {
	var (
		single     *InsufficientStockError
		shortfalls StockErrors
		notFound   *ItemNotFoundError
		timeout    *TimeoutError
		transport  *TransportError
	)

	switch {
	case errors.As(err, &shortfalls):
		respondStockConflict(w, shortfalls)
	case errors.As(err, &single):
		respondStockConflict(w, StockErrors{single})
	case errors.As(err, &notFound):
		apt.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrRoomRequired), errors.Is(err, ErrNoRoomSelected):
		apt.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrEmptyOrder):
		apt.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrCheckoutInFlight), errors.Is(err, ErrOperationInFlight):
		apt.RespondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &timeout):
		log.Error("persist operation timed out", "error", err)
		apt.RespondError(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &transport):
		log.Error("collaborator unreachable", "error", err)
		apt.RespondError(w, http.StatusBadGateway, "Could not reach server")
	default:
		log.Error("session operation failed", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Internal error")
	}
}

type stockShortfall struct {
	ItemID    int64  `json:"item_id"`
	Name      string `json:"name,omitempty"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

type stockConflictResponse struct {
	Success    bool             `json:"success"`
	Error      string           `json:"error"`
	Shortfalls []stockShortfall `json:"shortfalls"`
}

func respondStockConflict(w http.ResponseWriter, shortfalls StockErrors) {
	resp := stockConflictResponse{Error: "insufficient_stock"}
	for _, s := range shortfalls {
		resp.Shortfalls = append(resp.Shortfalls, stockShortfall{
			ItemID:    s.ItemID,
			Name:      s.Name,
			Requested: s.Requested,
			Available: s.Available,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusConflict)
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
