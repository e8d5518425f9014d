/*
handlers.go - HTTP API handlers for the payment schedule service

PURPOSE:
  Exposes the resolver, schedule generator, holiday calendar, and evaluation
  harness via REST API. Handles HTTP request/response, JSON serialization,
  and delegates to domain logic.

ENDPOINTS:
  Resolution:
    GET    /api/resolve?date=YYYY-MM-DD&table=109|107

  Schedules:
    GET    /api/schedule/{table}/{year}           Full generated year (JSON)
    GET    /api/schedule/{table}/{year}/{month}   One generated month (JSON)
    GET    /api/schedule/{table}/{year}/legacy    Legacy fixed-width text
    POST   /api/schedule/{table}/{year}/publish   Snapshot the year to store
    GET    /api/schedule/{table}/{year}/published Load the stored snapshot

  Holidays:
    GET    /api/holidays/{year}                   Effective calendar for a year
    GET    /api/holidays/overrides                List closure overrides
    POST   /api/holidays/overrides                Add a closure override
    DELETE /api/holidays/overrides/{id}           Remove an override

  Evaluations:
    POST   /api/evaluations                       Upload ground truth, run harness
    GET    /api/evaluations                       List stored summaries

  Admin:
    POST   /api/reset                             Clear the store (dev only)

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Log:   Injected zerolog logger
  - source: statutory Ontario calendar layered with stored overrides;
    rebuilt whenever overrides change

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (resolver, generator, harness)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/WSIB-Innovation/payment-schedules/calendar"
	"github.com/WSIB-Innovation/payment-schedules/eval"
	"github.com/WSIB-Innovation/payment-schedules/report"
	"github.com/WSIB-Innovation/payment-schedules/schedule"
	"github.com/WSIB-Innovation/payment-schedules/store/sqlite"
)

// Handler holds all dependencies for the API handlers.
type Handler struct {
	Store *sqlite.Store
	Log   zerolog.Logger

	mu     sync.RWMutex
	base   calendar.Source
	source calendar.Source
}

// NewHandler creates a handler on top of a base holiday calendar. A nil base
// selects the statutory Ontario calendar. Call ReloadSource to layer in
// stored overrides.
func NewHandler(store *sqlite.Store, log zerolog.Logger, base calendar.Source) *Handler {
	if base == nil {
		base = calendar.NewOntario()
	}
	return &Handler{
		Store:  store,
		Log:    log,
		base:   base,
		source: base,
	}
}

// ReloadSource rebuilds the holiday source from the base calendar plus all
// stored overrides. Called at startup and after every override change.
func (h *Handler) ReloadSource(ctx context.Context) error {
	extras, err := h.Store.OverrideHolidays(ctx)
	if err != nil {
		return fmt.Errorf("failed to load overrides: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(extras) == 0 {
		h.source = h.base
	} else {
		h.source = &calendar.Overlay{Base: h.base, Extra: extras}
	}
	h.Log.Info().Int("overrides", len(extras)).Msg("holiday source reloaded")
	return nil
}

// Source returns the current effective holiday source.
func (h *Handler) Source() calendar.Source {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.source
}

// =============================================================================
// RESOLUTION ENDPOINTS
// =============================================================================

// Resolve resolves a single run date to its payment date.
// GET /api/resolve?date=YYYY-MM-DD&table=109|107
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	run, err := calendar.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	tableParam := r.URL.Query().Get("table")
	if tableParam == "" {
		tableParam = string(schedule.Table109)
	}
	table, err := schedule.ParseTableCode(tableParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid table", err)
		return
	}

	resolver := schedule.New(run.Year(), h.Source())
	payment := resolver.ResolveTable(table, run)

	writeJSON(w, http.StatusOK, ResolveResponse{
		Table:      string(table),
		RunDate:    run.String(),
		Payment:    payment.String(),
		PaymentDay: payment.Day(),
	})
}

// =============================================================================
// SCHEDULE ENDPOINTS
// =============================================================================

func (h *Handler) scheduleParams(w http.ResponseWriter, r *http.Request) (schedule.TableCode, int, bool) {
	table, err := schedule.ParseTableCode(chi.URLParam(r, "table"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid table", err)
		return "", 0, false
	}
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1900 || year > 2200 {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return "", 0, false
	}
	return table, year, true
}

// GetYearSchedule generates and returns a full year.
// GET /api/schedule/{table}/{year}
func (h *Handler) GetYearSchedule(w http.ResponseWriter, r *http.Request) {
	table, year, ok := h.scheduleParams(w, r)
	if !ok {
		return
	}

	g := schedule.NewGenerator(year, table, h.Source())
	writeJSON(w, http.StatusOK, map[string]any{
		"table":  string(table),
		"year":   year,
		"months": toMonthScheduleDTOs(g.FullYear()),
	})
}

// GetMonthSchedule generates and returns a single month.
// GET /api/schedule/{table}/{year}/{month}
func (h *Handler) GetMonthSchedule(w http.ResponseWriter, r *http.Request) {
	table, year, ok := h.scheduleParams(w, r)
	if !ok {
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month (1-12)", err)
		return
	}

	g := schedule.NewGenerator(year, table, h.Source())
	writeJSON(w, http.StatusOK, toMonthScheduleDTO(g.Month(time.Month(month))))
}

// GetLegacySchedule renders a full year in the legacy fixed-width format.
// GET /api/schedule/{table}/{year}/legacy
func (h *Handler) GetLegacySchedule(w http.ResponseWriter, r *http.Request) {
	table, year, ok := h.scheduleParams(w, r)
	if !ok {
		return
	}

	g := schedule.NewGenerator(year, table, h.Source())
	text := report.RenderYear(table, year, g.FullYear())

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}

// PublishSchedule generates a year and freezes it in the store.
// POST /api/schedule/{table}/{year}/publish
func (h *Handler) PublishSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	table, year, ok := h.scheduleParams(w, r)
	if !ok {
		return
	}

	g := schedule.NewGenerator(year, table, h.Source())
	months := g.FullYear()
	if err := h.Store.SaveSchedule(ctx, table, year, months); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to publish schedule", err)
		return
	}

	h.Log.Info().Str("table", string(table)).Int("year", year).Msg("schedule published")
	writeJSON(w, http.StatusCreated, map[string]any{
		"status": "published",
		"table":  string(table),
		"year":   year,
	})
}

// GetPublishedSchedule loads a previously published snapshot.
// GET /api/schedule/{table}/{year}/published
func (h *Handler) GetPublishedSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	table, year, ok := h.scheduleParams(w, r)
	if !ok {
		return
	}

	months, err := h.Store.GetSchedule(ctx, table, year)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "No published schedule for that table and year", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"table":  string(table),
		"year":   year,
		"months": toMonthScheduleDTOs(months),
	})
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListYearHolidays returns the effective holiday calendar for a year,
// statutory holidays plus any overrides.
// GET /api/holidays/{year}
func (h *Handler) ListYearHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	set := h.Source().HolidaysFor(year)
	writeJSON(w, http.StatusOK, map[string]any{
		"year":     year,
		"holidays": toHolidayDTOs(set),
	})
}

// ListOverrides returns all stored closure overrides.
// GET /api/holidays/overrides
func (h *Handler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.Store.ListOverrides(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list overrides", err)
		return
	}

	dtos := make([]OverrideDTO, 0, len(overrides))
	for _, o := range overrides {
		dtos = append(dtos, OverrideDTO{ID: o.ID, Date: o.Date.String(), Name: o.Name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"overrides": dtos})
}

// CreateOverride stores a closure override and rebuilds the holiday source.
// POST /api/holidays/overrides
func (h *Handler) CreateOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Date == "" || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Date and name are required", nil)
		return
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	override := sqlite.Override{
		ID:        fmt.Sprintf("override-%d", time.Now().UnixNano()),
		Date:      date,
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: time.Now(),
	}
	if err := h.Store.SaveOverride(ctx, override); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save override", err)
		return
	}
	if err := h.ReloadSource(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload calendar", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":   "created",
		"override": override.ID,
	})
}

// DeleteOverride removes an override and rebuilds the holiday source.
// DELETE /api/holidays/overrides/{id}
func (h *Handler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	err := h.Store.DeleteOverride(ctx, id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Override not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete override", err)
		return
	}
	if err := h.ReloadSource(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload calendar", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// EVALUATION ENDPOINTS
// =============================================================================

// RunEvaluation parses an uploaded legacy-format table as ground truth, runs
// the accuracy harness against it, and stores the summary.
// POST /api/evaluations
func (h *Handler) RunEvaluation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RunEvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Table == "" {
		req.Table = string(schedule.Table109)
	}
	table, err := schedule.ParseTableCode(req.Table)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid table", err)
		return
	}
	gt, err := report.Parse(strings.NewReader(req.GroundTruth))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse ground truth", err)
		return
	}
	if gt.Count() == 0 {
		writeError(w, http.StatusBadRequest, "Ground truth contains no entries", nil)
		return
	}

	result := eval.Run(table, gt, h.Source())

	rec := sqlite.EvaluationRecord{
		ID:          fmt.Sprintf("eval-%d", time.Now().UnixNano()),
		Table:       table,
		Total:       result.Total,
		Exact:       result.Exact,
		WithinOne:   result.WithinOne,
		WithinTwo:   result.WithinTwo,
		Major:       result.Major,
		Accuracy:    result.Accuracy(),
		MeanAbsDiff: result.MeanAbsDiff,
		CreatedAt:   time.Now(),
	}
	if err := h.Store.SaveEvaluation(ctx, rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store evaluation", err)
		return
	}

	h.Log.Info().
		Str("table", string(table)).
		Int("total", result.Total).
		Str("accuracy", rec.Accuracy.String()).
		Int("major", result.Major).
		Msg("evaluation run stored")

	writeJSON(w, http.StatusCreated, toEvaluationResultDTO(rec.ID, result))
}

// ListEvaluations returns stored evaluation summaries, newest first.
// GET /api/evaluations
func (h *Handler) ListEvaluations(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListEvaluations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list evaluations", err)
		return
	}

	dtos := make([]EvaluationRecordDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, toEvaluationRecordDTO(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"evaluations": dtos})
}

// =============================================================================
// ADMIN ENDPOINTS
// =============================================================================

// Reset clears the store. Dev use only.
// POST /api/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	if err := h.ReloadSource(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload calendar", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
