package catalog

import (
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

// Handler handles HTTP requests for the catalog: menu items, categories and
// stock movements.
type Handler struct {
	itemRepo     MenuItemRepo
	categoryRepo CategoryRepo
	ledgerRepo   StockTransactionRepo
	stock        *StockService
	logger       apt.Logger
	config       *apt.Config
	tlm          *telemetry.HTTP
}

func NewHandler(itemRepo MenuItemRepo, categoryRepo CategoryRepo, ledgerRepo StockTransactionRepo, stock *StockService, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		ledgerRepo:   ledgerRepo,
		stock:        stock,
		logger:       logger,
		config:       config,
		tlm:          telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/catalog", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Post("/", h.CreateMenuItem)
			r.Get("/", h.ListMenuItems)
			r.Get("/low-stock", h.ListLowStock)
			r.Get("/{id}", h.GetMenuItem)
			r.Put("/{id}", h.UpdateMenuItem)
			r.Delete("/{id}", h.DeleteMenuItem)
			r.Post("/{id}/stock", h.AdjustStock)
			r.Get("/{id}/stock/history", h.StockHistory)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Put("/{key}", h.UpsertCategory)
			r.Delete("/{key}", h.DeleteCategory)
		})

		r.Get("/stock/history", h.RecentStockHistory)
	})
}

// Menu item handlers

// CreateMenuItem handles POST /catalog/items
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateMenuItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	item, ok := h.decodeMenuItemPayload(w, r, log)
	if !ok {
		return
	}

	item.BeforeCreate()
	item.Active = true

	if validationErrors := ValidateMenuItem(item); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	if err := h.itemRepo.Create(ctx, item); err != nil {
		log.Error("cannot create menu item", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create menu item")
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, item)
}

// ListMenuItems handles GET /catalog/items. Filters: ?category=drinks and
// ?active=true narrow the list for the sale screen.
func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListMenuItems")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var (
		items []*MenuItem
		err   error
	)
	switch {
	case r.URL.Query().Get("category") != "":
		items, err = h.itemRepo.ListByCategory(ctx, r.URL.Query().Get("category"))
	case r.URL.Query().Get("active") == "true":
		items, err = h.itemRepo.ListActive(ctx)
	default:
		items, err = h.itemRepo.List(ctx)
	}
	if err != nil {
		log.Error("cannot list menu items", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list menu items")
		return
	}

	apt.RespondSuccess(w, items)
}

// ListLowStock handles GET /catalog/items/low-stock
func (h *Handler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListLowStock")
	defer finish()
	log := h.log(r)

	items, err := h.itemRepo.ListLowStock(r.Context())
	if err != nil {
		log.Error("cannot list low stock items", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list low stock items")
		return
	}

	apt.RespondSuccess(w, items)
}

// GetMenuItem handles GET /catalog/items/{id}
func (h *Handler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetMenuItem")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	item, err := h.itemRepo.Get(r.Context(), id)
	if err != nil {
		log.Error("error loading menu item", "error", err, "id", id)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load menu item")
		return
	}
	if item == nil {
		apt.RespondError(w, http.StatusNotFound, "Menu item not found")
		return
	}

	apt.RespondSuccess(w, item)
}

// UpdateMenuItem handles PUT /catalog/items/{id}
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateMenuItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	existing, err := h.itemRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading menu item", "error", err, "id", id)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load menu item")
		return
	}
	if existing == nil {
		apt.RespondError(w, http.StatusNotFound, "Menu item not found")
		return
	}

	item, ok := h.decodeMenuItemPayload(w, r, log)
	if !ok {
		return
	}

	item.ID = id
	item.CreatedAt = existing.CreatedAt
	item.BeforeUpdate()

	if validationErrors := ValidateMenuItem(item); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	if err := h.itemRepo.Save(ctx, item); err != nil {
		log.Error("cannot update menu item", "error", err, "id", id)
		apt.RespondError(w, http.StatusInternalServerError, "Could not update menu item")
		return
	}

	apt.RespondSuccess(w, item)
}

// DeleteMenuItem handles DELETE /catalog/items/{id}. Items are deactivated
// rather than removed so past sales keep resolving their line items.
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteMenuItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	item, err := h.itemRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading menu item", "error", err, "id", id)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load menu item")
		return
	}
	if item == nil {
		apt.RespondError(w, http.StatusNotFound, "Menu item not found")
		return
	}

	item.Active = false
	item.BeforeUpdate()

	if err := h.itemRepo.Save(ctx, item); err != nil {
		log.Error("cannot deactivate menu item", "error", err, "id", id)
		apt.RespondError(w, http.StatusInternalServerError, "Could not delete menu item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stock handlers

type adjustStockRequest struct {
	Delta int    `json:"delta"`
	Type  string `json:"type"`
	Note  string `json:"note,omitempty"`
}

// AdjustStock handles POST /catalog/items/{id}/stock
func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AdjustStock")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req adjustStockRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	item, err := h.stock.Adjust(ctx, id, req.Delta, req.Type, "", req.Note)
	if err != nil {
		switch {
		case errors.Is(err, ErrStockConflict):
			apt.RespondError(w, http.StatusConflict, "Not enough stock for adjustment")
		case errors.Is(err, ErrItemNotFound):
			apt.RespondError(w, http.StatusNotFound, "Menu item not found")
		default:
			log.Error("cannot adjust stock", "error", err, "id", id)
			apt.RespondError(w, http.StatusInternalServerError, "Could not adjust stock")
		}
		return
	}

	apt.RespondSuccess(w, item)
}

// StockHistory handles GET /catalog/items/{id}/stock/history
func (h *Handler) StockHistory(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.StockHistory")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	txs, err := h.ledgerRepo.ListByItem(r.Context(), id, h.historyLimit(r))
	if err != nil {
		log.Error("cannot list stock transactions", "error", err, "id", id)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list stock transactions")
		return
	}

	apt.RespondSuccess(w, txs)
}

// RecentStockHistory handles GET /catalog/stock/history
func (h *Handler) RecentStockHistory(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RecentStockHistory")
	defer finish()
	log := h.log(r)

	txs, err := h.ledgerRepo.ListRecent(r.Context(), h.historyLimit(r))
	if err != nil {
		log.Error("cannot list stock transactions", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list stock transactions")
		return
	}

	apt.RespondSuccess(w, txs)
}

// Category handlers

// ListCategories handles GET /catalog/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListCategories")
	defer finish()
	log := h.log(r)

	categories, err := h.categoryRepo.List(r.Context())
	if err != nil {
		log.Error("cannot list categories", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list categories")
		return
	}

	apt.RespondSuccess(w, categories)
}

// UpsertCategory handles PUT /catalog/categories/{key}
func (h *Handler) UpsertCategory(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpsertCategory")
	defer finish()
	log := h.log(r)

	key := chi.URLParam(r, "key")

	var category Category
	if !h.decode(w, r, log, &category) {
		return
	}
	category.Key = key

	if validationErrors := ValidateCategory(&category); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	if err := h.categoryRepo.Upsert(r.Context(), &category); err != nil {
		log.Error("cannot upsert category", "error", err, "key", key)
		apt.RespondError(w, http.StatusInternalServerError, "Could not save category")
		return
	}

	apt.RespondSuccess(w, category)
}

// DeleteCategory handles DELETE /catalog/categories/{key}
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteCategory")
	defer finish()
	log := h.log(r)

	key := chi.URLParam(r, "key")
	if err := h.categoryRepo.Delete(r.Context(), key); err != nil {
		log.Error("cannot delete category", "error", err, "key", key)
		apt.RespondError(w, http.StatusInternalServerError, "Could not delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Helper methods

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		log.Debug("invalid id parameter", "id", idStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return 0, false
	}
	return id, true
}

func (h *Handler) historyLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 500 {
		return 50
	}
	return limit
}

func (h *Handler) decodeMenuItemPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (*MenuItem, bool) {
	var item MenuItem
	if !h.decode(w, r, log, &item) {
		return nil, false
	}
	return &item, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log apt.Logger, out interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return false
	}

	if err := json.Unmarshal(body, out); err != nil {
		log.Debug("error decoding JSON", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}

	return true
}

func (h *Handler) respondValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  "Validation failed",
		"errors": errors,
	})
}
