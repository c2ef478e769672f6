/*
handlers.go - HTTP API handlers for the amortization service

PURPOSE:
  Exposes schedule generation via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the amortization package.

ENDPOINTS:
  Calculators:
    POST   /api/payment                    Baseline periodic payment
    POST   /api/periods                    Periods needed for a payment

  Schedules:
    POST   /api/schedules/preview          Generate without saving (cached)
    POST   /api/schedules                  Generate and save
    GET    /api/schedules                  List saved schedules
    GET    /api/schedules/{id}             Saved schedule with rows
    DELETE /api/schedules/{id}             Delete a saved schedule
    GET    /api/schedules/{id}/export      Download as csv, xlsx or pdf

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: schedule persistence (sqlite or memory)
  - Cache: rendered preview responses
  - Generator: schedule generation
  - Metrics: Prometheus collectors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid loan parameters, underpayment, unknown mode/format
  - 404: Schedule not found
  - 409: Duplicate schedule ID
  - 500: Internal errors

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
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/amortization-engine/amortization"
	"github.com/warp/amortization-engine/cache"
	"github.com/warp/amortization-engine/config"
	"github.com/warp/amortization-engine/export"
	"github.com/warp/amortization-engine/metrics"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     amortization.Store
	Cache     cache.Cache
	Generator *amortization.Generator
	Metrics   *metrics.Metrics
	Defaults  config.DefaultsConfig
	CacheTTL  time.Duration
	Logger    *log.Logger

	newID func() string
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

func WithCache(c cache.Cache, ttl time.Duration) HandlerOption {
	return func(h *Handler) {
		h.Cache = c
		h.CacheTTL = ttl
	}
}

func WithMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) { h.Metrics = m }
}

func WithDefaults(d config.DefaultsConfig) HandlerOption {
	return func(h *Handler) { h.Defaults = d }
}

func WithLogger(l *log.Logger) HandlerOption {
	return func(h *Handler) { h.Logger = l }
}

func WithGenerator(g *amortization.Generator) HandlerOption {
	return func(h *Handler) { h.Generator = g }
}

// NewHandler creates a new handler with the given store.
func NewHandler(store amortization.Store, opts ...HandlerOption) *Handler {
	h := &Handler{
		Store:    store,
		Cache:    cache.Noop{},
		Defaults: config.Default().Defaults,
		Logger:   log.Default(),
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.Generator == nil {
		h.Generator = amortization.NewGenerator(amortization.WithLogger(h.Logger))
	}
	return h
}

// =============================================================================
// HEALTH
// =============================================================================

type pinger interface {
	Ping(ctx context.Context) error
}

// Health reports whether the store is reachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Store unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// CALCULATOR HANDLERS
// =============================================================================

// CalculatePayment returns the baseline payment for loan parameters.
func (h *Handler) CalculatePayment(w http.ResponseWriter, r *http.Request) {
	var req LoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cfg, err := h.toConfig(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	// The baseline does not depend on an override, so none is checked.
	cfg.ActualPayment = nil
	// Generate validates the parameters the formula needs.
	sched, err := h.Generator.Generate(cfg)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PaymentResponse{
		Payment:        sched.Baseline(),
		PaymentDisplay: amortization.FormatMoney(sched.Baseline()),
		Frequency:      sched.Config().Frequency.String(),
		AdjustedRate:   sched.Config().AdjustedRate(),
	})
}

// CalculatePeriods returns how many periods a payment needs.
func (h *Handler) CalculatePeriods(w http.ResponseWriter, r *http.Request) {
	var req PeriodsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	freq, err := h.frequency(req.Frequency)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	n, err := amortization.CalculatePeriods(req.Principal, req.AnnualRate, req.Payment, freq)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PeriodsResponse{Periods: n})
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// PreviewSchedule generates a schedule without saving it. Responses are
// cached by their normalized inputs.
func (h *Handler) PreviewSchedule(w http.ResponseWriter, r *http.Request) {
	var req LoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cfg, err := h.toConfig(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	key := previewKey(cfg, req.Label)
	if body, ok := h.Cache.Get(r.Context(), key); ok {
		h.Metrics.ObserveCache(true)
		w.Header().Set("X-Cache", "hit")
		writeRawJSON(w, http.StatusOK, []byte(body))
		return
	}
	h.Metrics.ObserveCache(false)

	rec, err := h.generateRecord(cfg, "", req.Label)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	body, err := json.Marshal(toScheduleDTO(rec, true))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode schedule", err)
		return
	}
	if err := h.Cache.Set(r.Context(), key, string(body), h.CacheTTL); err != nil {
		h.Logger.Printf("Warning: failed to cache preview: %v", err)
	}
	w.Header().Set("X-Cache", "miss")
	writeRawJSON(w, http.StatusOK, body)
}

// CreateSchedule generates a schedule and saves it.
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req LoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cfg, err := h.toConfig(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	rec, err := h.generateRecord(cfg, h.newID(), req.Label)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.Store.Save(r.Context(), rec); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toScheduleDTO(rec, true))
}

// ListSchedules returns saved schedules, newest first, without rows.
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	records, err := h.Store.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list schedules", err)
		return
	}

	dtos := make([]ScheduleDTO, len(records))
	for i, rec := range records {
		dtos[i] = toScheduleDTO(rec, false)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSchedule returns a saved schedule with rows and summary.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleDTO(*rec, true))
}

// DeleteSchedule removes a saved schedule.
func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportSchedule streams a saved schedule as csv (default), xlsx or pdf.
func (h *Handler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(export.FormatCSV)
	}
	format, err := export.ParseFormat(formatParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid export format", err)
		return
	}

	rec, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	data, err := export.Render(format, *rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render export", err)
		return
	}
	h.Metrics.ObserveExport(string(format))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="schedule-%s.%s"`, rec.ID, format))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// =============================================================================
// HELPERS
// =============================================================================

// toConfig applies the configured defaults to omitted request fields.
func (h *Handler) toConfig(req LoanRequest) (amortization.Config, error) {
	freq, err := h.frequency(req.Frequency)
	if err != nil {
		return amortization.Config{}, err
	}
	mode := h.Defaults.InterestMode
	if req.InterestMode != nil {
		mode = amortization.InterestMode(*req.InterestMode)
	}
	if h.Defaults.MaxPeriods > 0 && req.Periods > h.Defaults.MaxPeriods {
		return amortization.Config{}, &amortization.InvalidArgumentError{
			Field:  "periods",
			Value:  req.Periods,
			Reason: fmt.Sprintf("must be at most %d", h.Defaults.MaxPeriods),
		}
	}

	cfg := amortization.Config{
		Principal:    req.Principal,
		AnnualRate:   req.AnnualRate,
		Periods:      req.Periods,
		Frequency:    freq,
		InterestMode: mode,
	}
	if req.ActualPayment != nil {
		cfg = cfg.WithActualPayment(*req.ActualPayment)
	}
	return cfg, nil
}

func (h *Handler) frequency(name string) (amortization.Frequency, error) {
	if name == "" {
		if h.Defaults.Frequency != 0 {
			return h.Defaults.Frequency, nil
		}
		return amortization.DefaultFrequency, nil
	}
	return amortization.ParseFrequency(name)
}

// generateRecord generates and drains a schedule, recording metrics.
func (h *Handler) generateRecord(cfg amortization.Config, id, label string) (amortization.ScheduleRecord, error) {
	started := time.Now()
	sched, err := h.Generator.Generate(cfg)
	if err != nil {
		h.Metrics.ObserveGenerate(cfg.InterestMode, 0, err, started)
		return amortization.ScheduleRecord{}, err
	}
	rec := amortization.NewRecord(id, label, sched)
	h.Metrics.ObserveGenerate(cfg.InterestMode, len(rec.Rows), nil, started)
	return rec, nil
}

func previewKey(cfg amortization.Config, label string) string {
	payment := "baseline"
	if cfg.ActualPayment != nil {
		payment = cache.KeyFloat(*cfg.ActualPayment)
	}
	return cache.Key("preview",
		cache.KeyFloat(cfg.Principal),
		cache.KeyFloat(cfg.AnnualRate),
		strconv.Itoa(cfg.Periods),
		strconv.Itoa(cfg.Frequency.PeriodsPerYear()),
		strconv.Itoa(int(cfg.InterestMode)),
		payment,
		label,
	)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps amortization errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var payErr *amortization.InvalidPaymentError
	switch {
	case errors.As(err, &payErr):
		writeError(w, http.StatusBadRequest, "Payment below amortization amount", err)
	case errors.Is(err, amortization.ErrInvalidInterestMode):
		writeError(w, http.StatusBadRequest, "Invalid interest mode", err)
	case amortization.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid loan parameters", err)
	case amortization.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Schedule not found", nil)
	case errors.Is(err, amortization.ErrDuplicateSchedule):
		writeError(w, http.StatusConflict, "Schedule already exists", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
