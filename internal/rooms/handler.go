package rooms

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

// Handler handles HTTP requests for rooms.
type Handler struct {
	repo    RoomRepo
	service *Service
	logger  apt.Logger
	config  *apt.Config
	tlm     *telemetry.HTTP
}

func NewHandler(repo RoomRepo, service *Service, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		repo:    repo,
		service: service,
		logger:  logger,
		config:  config,
		tlm:     telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/rooms", func(r chi.Router) {
		r.Post("/", h.CreateRoom)
		r.Get("/", h.ListRooms)
		r.Get("/{id}", h.GetRoom)
		r.Put("/{id}", h.UpdateRoom)
		r.Delete("/{id}", h.DeleteRoom)
		r.Put("/{id}/status", h.SetStatus)
	})
}

// CreateRoom handles POST /rooms
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateRoom")
	defer finish()
	log := h.log(r)

	room, ok := h.decodeRoomPayload(w, r, log)
	if !ok {
		return
	}

	room.BeforeCreate()

	if validationErrors := ValidateRoom(room); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	if err := h.repo.Create(r.Context(), room); err != nil {
		log.Error("cannot create room", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create room")
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, room)
}

// ListRooms handles GET /rooms. ?status=available narrows the list for the
// room picker.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListRooms")
	defer finish()
	log := h.log(r)

	var (
		list []*Room
		err  error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		if !ValidStatus(status) {
			apt.RespondError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		list, err = h.repo.ListByStatus(r.Context(), status)
	} else {
		list, err = h.repo.List(r.Context())
	}
	if err != nil {
		log.Error("cannot list rooms", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list rooms")
		return
	}

	apt.RespondSuccess(w, list)
}

// GetRoom handles GET /rooms/{id}
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetRoom")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	room, err := h.repo.Get(r.Context(), id)
	if err != nil {
		log.Error("error loading room", "error", err, "id", id)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load room")
		return
	}
	if room == nil {
		apt.RespondError(w, http.StatusNotFound, "Room not found")
		return
	}

	apt.RespondSuccess(w, room)
}

// UpdateRoom handles PUT /rooms/{id}
func (h *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateRoom")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	existing, err := h.repo.Get(ctx, id)
	if err != nil {
		log.Error("error loading room", "error", err, "id", id)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load room")
		return
	}
	if existing == nil {
		apt.RespondError(w, http.StatusNotFound, "Room not found")
		return
	}

	room, ok := h.decodeRoomPayload(w, r, log)
	if !ok {
		return
	}

	room.ID = id
	room.CreatedAt = existing.CreatedAt
	if room.Status == "" {
		room.Status = existing.Status
	}
	room.BeforeUpdate()

	if validationErrors := ValidateRoom(room); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	if err := h.repo.Save(ctx, room); err != nil {
		log.Error("cannot update room", "error", err, "id", id)
		apt.RespondError(w, http.StatusInternalServerError, "Could not update room")
		return
	}

	apt.RespondSuccess(w, room)
}

// DeleteRoom handles DELETE /rooms/{id}
func (h *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteRoom")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrRoomOccupied) {
			apt.RespondError(w, http.StatusConflict, "Room is occupied; settle its order first")
			return
		}
		log.Error("cannot delete room", "error", err, "id", id)
		apt.RespondError(w, http.StatusInternalServerError, "Could not delete room")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type setStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// SetStatus handles PUT /rooms/{id}/status
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetStatus")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req setStatusRequest
	if !h.decode(w, r, log, &req) {
		return
	}
	if !ValidStatus(req.Status) {
		apt.RespondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	if err := h.service.ChangeStatus(r.Context(), id, req.Status, req.Reason, "operator"); err != nil {
		log.Error("cannot change room status", "error", err, "id", id)
		apt.RespondError(w, http.StatusInternalServerError, "Could not change room status")
		return
	}

	room, err := h.repo.Get(r.Context(), id)
	if err != nil || room == nil {
		apt.RespondError(w, http.StatusNotFound, "Room not found")
		return
	}

	apt.RespondSuccess(w, room)
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

func (h *Handler) decodeRoomPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (*Room, bool) {
	var room Room
	if !h.decode(w, r, log, &room) {
		return nil, false
	}
	return &room, true
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
