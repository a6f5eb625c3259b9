package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"daywise/internal/residency/models"
	"daywise/internal/residency/service/sweep"
	"daywise/pkg/domain"
	dErrors "daywise/pkg/domain-errors"
	"daywise/pkg/platform/httputil"
)

// Service defines the residency operations the handler exposes.
type Service interface {
	Status(ctx context.Context, subjectID domain.SubjectID, ref domain.Date) (*models.DailyStatus, error)
	Calendar(ctx context.Context, subjectID domain.SubjectID, from, to domain.Date) ([]models.DailyStatus, error)
	Forecast(ctx context.Context, subjectID domain.SubjectID, prospective models.Stay) (*models.ForecastResult, error)
	SafeEntry(ctx context.Context, subjectID domain.SubjectID, territory string, earliest domain.Date, tripDuration int) (*models.SafeEntryResult, error)
	AddStay(ctx context.Context, st models.Stay) (*models.Stay, error)
	RemoveStay(ctx context.Context, subjectID domain.SubjectID, stayID domain.StayID) error
	ListStays(ctx context.Context, subjectID domain.SubjectID) ([]models.Stay, error)
}

// Sweeper runs a full compliance sweep.
type Sweeper interface {
	Run(ctx context.Context, ref domain.Date) (*sweep.Summary, error)
}

// Handler wires residency endpoints to the residency service.
type Handler struct {
	service Service
	sweeper Sweeper
	logger  *slog.Logger
}

// New constructs a residency handler. The sweeper may be nil; the sweep
// endpoint then reports that sweeps are not configured.
func New(service Service, sweeper Sweeper, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		sweeper: sweeper,
		logger:  logger,
	}
}

// Register mounts the subject-facing endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/subjects/{subjectID}", func(r chi.Router) {
		r.Get("/status", h.HandleStatus)
		r.Get("/calendar", h.HandleCalendar)
		r.Post("/forecast", h.HandleForecast)
		r.Post("/safe-entry", h.HandleSafeEntry)
	})
}

// RegisterAdmin mounts the operator endpoints; the caller applies auth
// middleware to the router before passing it in. Stay records are managed
// here: ingestion is an operator concern, not a subject-facing one.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Route("/subjects/{subjectID}/stays", func(r chi.Router) {
		r.Get("/", h.HandleListStays)
		r.Post("/", h.HandleAddStay)
		r.Delete("/{stayID}", h.HandleRemoveStay)
	})
	r.Post("/sweep", h.HandleSweep)
}

// HandleStatus handles GET /subjects/{subjectID}/status. An optional `date`
// query parameter sets the reference date; it defaults to today.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subjectID(w, r)
	if !ok {
		return
	}
	ref, err := optionalDate(r, "date")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	status, err := h.service.Status(ctx, subjectID, ref)
	if err != nil {
		h.logger.ErrorContext(ctx, "status lookup failed", "subject_id", subjectID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

// HandleCalendar handles GET /subjects/{subjectID}/calendar. Both `from` and
// `to` query parameters are required.
func (h *Handler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subjectID(w, r)
	if !ok {
		return
	}
	from, err := requiredDate(r, "from")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	to, err := requiredDate(r, "to")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	vector, err := h.service.Calendar(ctx, subjectID, from, to)
	if err != nil {
		h.logger.ErrorContext(ctx, "calendar computation failed", "subject_id", subjectID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, calendarResponse{From: from, To: to, Days: vector})
}

// HandleForecast handles POST /subjects/{subjectID}/forecast.
func (h *Handler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subjectID(w, r)
	if !ok {
		return
	}
	var req forecastRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	prospective, err := req.toStay(subjectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Forecast(ctx, subjectID, prospective)
	if err != nil {
		h.logger.ErrorContext(ctx, "forecast failed", "subject_id", subjectID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleSafeEntry handles POST /subjects/{subjectID}/safe-entry.
func (h *Handler) HandleSafeEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subjectID(w, r)
	if !ok {
		return
	}
	var req safeEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.SafeEntry(ctx, subjectID, req.Territory, req.EarliestEntry, req.TripDays)
	if err != nil {
		h.logger.ErrorContext(ctx, "safe entry search failed", "subject_id", subjectID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleAddStay handles POST /subjects/{subjectID}/stays.
func (h *Handler) HandleAddStay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subjectID(w, r)
	if !ok {
		return
	}
	var req stayRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	st, err := h.service.AddStay(ctx, models.Stay{
		SubjectID: subjectID,
		Territory: req.Territory,
		EntryDate: req.EntryDate,
		ExitDate:  req.ExitDate,
		Excluded:  req.Excluded,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, st)
}

// HandleRemoveStay handles DELETE /subjects/{subjectID}/stays/{stayID}.
func (h *Handler) HandleRemoveStay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subjectID(w, r)
	if !ok {
		return
	}
	stayID, err := domain.ParseStayID(chi.URLParam(r, "stayID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.RemoveStay(ctx, subjectID, stayID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListStays handles GET /subjects/{subjectID}/stays.
func (h *Handler) HandleListStays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subjectID, ok := h.subjectID(w, r)
	if !ok {
		return
	}
	stays, err := h.service.ListStays(ctx, subjectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, staysResponse{Stays: stays})
}

// HandleSweep handles POST /admin/sweep. The optional body sets the
// reference date; it defaults to today.
func (h *Handler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.sweeper == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "sweeps are not configured"))
		return
	}

	var req sweepRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	start := time.Now()
	summary, err := h.sweeper.Run(ctx, req.ReferenceDate)
	if err != nil {
		h.logger.ErrorContext(ctx, "sweep failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "sweep requested",
		"subjects", summary.Subjects,
		"duration_ms", time.Since(start).Milliseconds())
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) subjectID(w http.ResponseWriter, r *http.Request) (domain.SubjectID, bool) {
	subjectID, err := domain.ParseSubjectID(chi.URLParam(r, "subjectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return domain.SubjectID{}, false
	}
	return subjectID, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

func optionalDate(r *http.Request, param string) (domain.Date, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return 0, nil
	}
	return domain.ParseDate(raw)
}

func requiredDate(r *http.Request, param string) (domain.Date, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return 0, dErrors.New(dErrors.CodeBadRequest, param+" query parameter is required")
	}
	return domain.ParseDate(raw)
}
