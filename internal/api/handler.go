package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/awiw642/dmp-packing-service/internal/catalog"
	"github.com/awiw642/dmp-packing-service/internal/history"
	"github.com/awiw642/dmp-packing-service/internal/metrics"
	"github.com/awiw642/dmp-packing-service/internal/packing"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const defaultHistoryLimit = 50

// Handler wires the packing calculator, container catalog, and history
// store into HTTP handlers.
type Handler struct {
	calculator packing.Calculator
	catalog    catalog.Catalog
	history    history.Store

	clock        func() time.Time
	historyLimit int
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithHistoryLimit caps how many entries the history endpoint returns.
func WithHistoryLimit(limit int) HandlerOption {
	return func(h *Handler) {
		if limit > 0 {
			h.historyLimit = limit
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(calc packing.Calculator, cat catalog.Catalog, hist history.Store, opts ...HandlerOption) *Handler {
	h := &Handler{
		calculator: calc,
		catalog:    cat,
		history:    hist,
		clock: func() time.Time {
			return time.Now().UTC()
		},
		historyLimit: defaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Service:   "dmp-packing-service",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListContainers(w http.ResponseWriter, r *http.Request) {
	_ = r
	specs, err := h.catalog.List()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, containersResponse{Containers: specs})
}

func (h *Handler) handlePutContainer(w http.ResponseWriter, r *http.Request) {
	var spec packing.ContainerSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if err := h.catalog.Put(spec); err != nil {
		if errors.Is(err, catalog.ErrInvalidContainer) {
			writeError(w, http.StatusBadRequest, "Invalid container spec", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	stored, err := h.catalog.Get(spec.Type)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, containerResponse{
		Container: stored,
		Message:   "Container spec stored successfully",
	})
}

func (h *Handler) handlePack(w http.ResponseWriter, r *http.Request) {
	req, items, ok := h.decodePackPayload(w, r)
	if !ok {
		return
	}

	start := time.Now()
	result, calcErr := h.calculator.Calculate(req.ContainerType, items)
	elapsed := time.Since(start)

	if calcErr != nil {
		h.countCalculation(req.ContainerType, calcErr)
		writeCalculatorError(w, calcErr)
		return
	}
	h.countCalculation(req.ContainerType, nil)
	metrics.VolumeUtilization.Observe(result.Utilization.VolumePercent)

	if err := h.history.Record(r.Context(), history.Entry{
		ContainerType:  result.ContainerType,
		TotalRequested: result.TotalRequested,
		TotalFitted:    result.TotalFitted,
		TotalUnfitted:  result.TotalUnfitted,
		VolumePercent:  result.Utilization.VolumePercent,
		WeightPercent:  result.Utilization.WeightPercent,
		CreatedAt:      h.clock(),
	}); err != nil {
		// History is an audit convenience; a write failure must not fail
		// the calculation that already succeeded.
		metrics.Calculations.WithLabelValues(req.ContainerType, "history_error").Inc()
	}

	writeJSON(w, http.StatusOK, packResponse{
		PackingResult:     result,
		CalculationTimeMs: elapsed.Milliseconds(),
	})
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, items, ok := h.decodePackPayload(w, r)
	if !ok {
		return
	}

	result, err := h.calculator.Validate(req.ContainerType, items)
	if err != nil {
		writeCalculatorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := h.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid request", "limit must be a positive integer")
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	entries, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{
		History: entries,
		Count:   len(entries),
	})
}

// decodePackPayload reads, schema-validates, and decodes the shared
// /pack and /validate payload. It writes the error response itself and
// returns ok=false when the payload is rejected.
func (h *Handler) decodePackPayload(w http.ResponseWriter, r *http.Request) (packRequest, []packing.Item, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to read request body")
		return packRequest{}, nil, false
	}

	if err := validatePackRequest(body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return packRequest{}, nil, false
	}

	var req packRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return packRequest{}, nil, false
	}

	items := make([]packing.Item, 0, len(req.Items))
	for _, p := range req.Items {
		item, err := packing.NewItem(p.ItemID, p.Name, p.Quantity, p.WidthCm, p.HeightCm, p.DepthCm, p.WeightKg)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid item", err.Error())
			return packRequest{}, nil, false
		}
		items = append(items, item)
	}
	return req, items, true
}

func (h *Handler) countCalculation(containerType string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, packing.ErrUnknownContainerType):
		outcome = "unknown_container"
	default:
		outcome = "error"
	}
	metrics.Calculations.WithLabelValues(containerType, outcome).Inc()
}

func writeCalculatorError(w http.ResponseWriter, err error) {
	if errors.Is(err, packing.ErrUnknownContainerType) {
		writeError(w, http.StatusBadRequest, "Unknown container type", err.Error(),
			"Use GET /api/containers to list the available container types")
		return
	}
	writeInternalError(w, err)
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type itemPayload struct {
	ItemID   int     `json:"itemId"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	WidthCm  float64 `json:"widthCm"`
	HeightCm float64 `json:"heightCm"`
	DepthCm  float64 `json:"depthCm"`
	WeightKg float64 `json:"weightKg"`
}

type packRequest struct {
	ContainerType string        `json:"containerType"`
	Items         []itemPayload `json:"items"`
}

type packResponse struct {
	packing.PackingResult
	CalculationTimeMs int64 `json:"calculationTimeMs"`
}

type containersResponse struct {
	Containers []packing.ContainerSpec `json:"containers"`
}

type containerResponse struct {
	Container packing.ContainerSpec `json:"container"`
	Message   string                `json:"message,omitempty"`
}

type historyResponse struct {
	History []history.Entry `json:"history"`
	Count   int             `json:"count"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
