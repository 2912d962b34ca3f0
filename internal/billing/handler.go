package billing

import (
	"net/http"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
)

// Handler exposes settled sales for reprints and end-of-day review. Sales are
// written only through checkout, so the surface is read-only.
type Handler struct {
	service *Service
	logger  apt.Logger
	config  *apt.Config
	tlm     *telemetry.HTTP
}

func NewHandler(service *Service, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		service: service,
		logger:  logger,
		config:  config,
		tlm:     telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.ListSales)
		r.Get("/{billNumber}", h.GetSale)
	})
}

// GetSale handles GET /sales/{billNumber}
func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetSale")
	defer finish()
	log := h.log(r)

	billNumber := chi.URLParam(r, "billNumber")

	doc, err := h.service.GetByBillNumber(r.Context(), billNumber)
	if err != nil {
		log.Error("error loading sale", "error", err, "bill_number", billNumber)
		apt.RespondError(w, http.StatusInternalServerError, "Could not load sale")
		return
	}
	if doc == nil {
		apt.RespondError(w, http.StatusNotFound, "Sale not found")
		return
	}

	apt.RespondSuccess(w, doc)
}

// ListSales handles GET /sales?date=2026-01-10. Without a date it returns
// today's sales.
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListSales")
	defer finish()
	log := h.log(r)

	day := time.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid date parameter, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 0, 1)

	sales, err := h.service.ListByPeriod(r.Context(), from, to)
	if err != nil {
		log.Error("cannot list sales", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list sales")
		return
	}

	apt.RespondSuccess(w, sales)
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
