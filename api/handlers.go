/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the engine to its external collaborator (the browser UI) via
  REST. Handles HTTP request/response and JSON serialization, then
  delegates to the registry and the pure engine functions.

ENDPOINTS:
  Jobs:
    GET    /api/jobs                    List job profiles
    POST   /api/jobs                    Create job profile
    PUT    /api/jobs/active             Switch active job
    GET    /api/jobs/{id}               Job settings
    PUT    /api/jobs/{id}               Update settings
    DELETE /api/jobs/{id}               Delete job

  Timesheet:
    PUT    /api/jobs/{id}/days          Upsert a day's input
    DELETE /api/jobs/{id}/days/{date}   Clear a day (delete, not zero)
    GET    /api/jobs/{id}/detailed      Per-day breakdown
    GET    /api/jobs/{id}/summary       Pay-period summaries
    GET    /api/jobs/{id}/progress      Budget progress

  Items:
    POST   /api/jobs/{id}/items         Add item
    PUT    /api/jobs/{id}/items/{item}  Update item
    DELETE /api/jobs/{id}/items/{item}  Remove item

  Archive:
    GET    /api/export                  Full multi-job archive
    POST   /api/import                  Replace state from archive

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: validation errors, rejected hour entries, bad archives
  - 404: unknown job, item, or date
  - 500: store failures
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/profile"
	"github.com/warp/payroll-engine/store"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Registry *Registry
}

// NewHandler creates a handler over the given store.
func NewHandler(kv store.KV) *Handler {
	return &Handler{Registry: NewRegistry(kv)}
}

// =============================================================================
// JOBS
// =============================================================================

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	refs, err := h.Registry.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	activeID := ""
	if active, err := h.Registry.Active(ctx); err == nil {
		activeID = active.ID
	}

	out := make([]JobDTO, 0, len(refs))
	for _, ref := range refs {
		job, err := h.Registry.Load(ctx, ref.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		out = append(out, jobToDTO(job, job.ID == activeID))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	job, err := h.Registry.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, jobToDTO(job, true))
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadJob(w, r)
	if !ok {
		return
	}
	active, _ := h.Registry.Active(r.Context())
	writeJSON(w, http.StatusOK, jobToDTO(job, active != nil && active.ID == job.ID))
}

func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadJob(w, r)
	if !ok {
		return
	}

	var req UpdateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil && *req.Name != "" {
		job.Name = *req.Name
	}
	if req.HourlyRate != nil && *req.HourlyRate >= 0 {
		job.HourlyRate = decimal.NewFromFloat(*req.HourlyRate)
	}
	if req.StartDate != nil {
		d, err := engine.ParseDay(*req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		job.StartDate = d
	}
	if req.PayCycle != nil {
		cycle := engine.PayCycle(*req.PayCycle)
		if !cycle.Valid() {
			writeError(w, http.StatusBadRequest, errors.New("invalid pay cycle"))
			return
		}
		job.PayCycle = cycle
	}
	if req.TaxFreeRule != nil {
		job.TaxFreeRule = *req.TaxFreeRule
	}

	if err := h.Registry.Save(r.Context(), job); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToDTO(job, false))
}

func (h *Handler) SwitchJob(w http.ResponseWriter, r *http.Request) {
	var req SwitchJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// The outgoing job is already persisted on every mutation, so the
	// switch only needs to move the pointer and load the incoming one.
	job, err := h.Registry.Switch(r.Context(), nil, req.ID)
	if err != nil {
		writeRegistryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToDTO(job, true))
}

func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := h.Registry.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeRegistryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TIMESHEET
// =============================================================================

func (h *Handler) SetDay(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadJob(w, r)
	if !ok {
		return
	}

	var req SetDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	date, err := engine.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	in := engine.RawDayInput{
		Date:          date,
		Start:         req.Start,
		End:           req.End,
		LunchMinutes:  req.LunchMinutes,
		LunchDisabled: req.LunchDisabled,
	}
	if req.Hours != nil {
		hours := decimal.NewFromFloat(*req.Hours)
		in.Hours = &hours
	}

	entry, err := job.SetDay(in)
	if err != nil && engine.IsClientError(err) && !errors.Is(err, engine.ErrInvalidTimeSpan) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	spanErr := err // invalid span: stored hours-less, reported below

	if err := h.Registry.Save(r.Context(), job); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if spanErr != nil {
		writeError(w, http.StatusBadRequest, spanErr)
		return
	}

	resp := DetailedDayDTO{Date: entry.Date.String()}
	if entry.WorkedHours != nil {
		resp.Hours = f(*entry.WorkedHours)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ClearDay(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadJob(w, r)
	if !ok {
		return
	}
	date, err := engine.ParseDay(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	job.ClearDay(date)
	if err := h.Registry.Save(r.Context(), job); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetDetailed(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadJob(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, detailedToDTO(job.Detailed()))
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadJob(w, r)
	if !ok {
		return
	}

	// ?cycle= overrides the stored pay cycle for this response only.
	if c := r.URL.Query().Get("cycle"); c != "" {
		cycle := engine.PayCycle(c)
		if !cycle.Valid() {
			writeError(w, http.StatusBadRequest, errors.New("invalid pay cycle"))
			return
		}
		job.PayCycle = cycle
	}
	writeJSON(w, http.StatusOK, summariesToDTO(job.Summaries()))
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadJob(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, progressToDTO(job.Progress()))
}

// =============================================================================
// ITEMS
// =============================================================================

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadJob(w, r)
	if !ok {
		return
	}

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Price < 0 {
		writeError(w, http.StatusBadRequest, errors.New("invalid item"))
		return
	}

	item := job.AddItem(req.Name, decimal.NewFromFloat(req.Price), req.Taxable)
	if err := h.Registry.Save(r.Context(), job); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, itemToDTO(item))
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadJob(w, r)
	if !ok {
		return
	}
	id, ok := parseItemID(w, r)
	if !ok {
		return
	}

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Price < 0 {
		writeError(w, http.StatusBadRequest, errors.New("invalid item"))
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	err := job.UpdateItem(engine.Item{
		ID:      id,
		Name:    req.Name,
		Price:   decimal.NewFromFloat(req.Price),
		Taxable: req.Taxable,
		Enabled: enabled,
	})
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err := h.Registry.Save(r.Context(), job); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadJob(w, r)
	if !ok {
		return
	}
	id, ok := parseItemID(w, r)
	if !ok {
		return
	}

	if err := job.RemoveItem(id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err := h.Registry.Save(r.Context(), job); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ARCHIVE
// =============================================================================

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.Registry.Export(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="payroll-export.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 32<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Registry.Import(r.Context(), data); err != nil {
		// Covers malformed payloads and factory.ErrEmptyArchive alike;
		// a rejected import leaves existing state untouched.
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) loadJob(w http.ResponseWriter, r *http.Request) (*profile.Job, bool) {
	job, err := h.Registry.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeRegistryError(w, err)
		return nil, false
	}
	return job, true
}

func parseItemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "item"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid item id"))
		return 0, false
	}
	return id, true
}

func writeRegistryError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrJobNotFound) || errors.Is(err, profile.ErrItemNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
