package reports

import (
	"net/http"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
)

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
	r.Route("/reports", func(r chi.Router) {
		r.Get("/dashboard", h.GetDashboard)
		r.Get("/daily", h.GetDaily)
	})
}

// GetDashboard handles GET /reports/dashboard
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetDashboard")
	defer finish()
	log := h.log(r)

	stats, err := h.service.Dashboard(r.Context())
	if err != nil {
		log.Error("cannot build dashboard stats", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not build dashboard stats")
		return
	}

	apt.RespondSuccess(w, stats)
}

// GetDaily handles GET /reports/daily?date=2026-01-10. Without a date it
// summarizes today.
func (h *Handler) GetDaily(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetDaily")
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

	summary, err := h.service.Daily(r.Context(), day)
	if err != nil {
		log.Error("cannot build daily summary", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not build daily summary")
		return
	}

	apt.RespondSuccess(w, summary)
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
