package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/habits/internal/habitservice"
)

// Handler holds the habit and mood route handlers.
type Handler struct {
	svc *habitservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *habitservice.Service) *Handler {
	return &Handler{svc: svc}
}

// habitID extracts the {id} path parameter.
func habitID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent. A present but non-numeric value yields ok=false.
func queryInt(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	return n, err == nil
}

// ListHabits handles GET /habits.
//
// Query parameters: status and category (exact match), search (substring on
// name), sort (id, name, status, category, created_at, updated_at), order
// ("asc" ascends, anything else descends), page (1-based), limit (1..100).
func (h *Handler) ListHabits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, okPage := queryInt(r, "page", 1)
	limit, okLimit := queryInt(r, "limit", 10)
	if !okPage || !okLimit {
		writeJSON(w, http.StatusBadRequest, errorBody("page and limit must be integers"))
		return
	}

	habits, err := h.svc.ListHabits(r.Context(), CurrentUser(r.Context()).ID, habitservice.ListParams{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Order:    q.Get("order"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		writeError(w, "list habits", err)
		return
	}
	writeJSON(w, http.StatusOK, habits)
}

// CreateHabit handles POST /habits.
func (h *Handler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	habit, err := h.svc.CreateHabit(r.Context(), CurrentUser(r.Context()).ID, req.Name, req.Status, req.Category)
	if err != nil {
		writeError(w, "create habit", err)
		return
	}
	writeJSON(w, http.StatusCreated, habit)
}

// UpdateHabit handles PUT /habits/{id}.
func (h *Handler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	id, ok := habitID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid habit id"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req UpdateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	habit, err := h.svc.UpdateHabit(r.Context(), CurrentUser(r.Context()).ID, id, req.Name, req.Status, req.Category)
	if err != nil {
		writeError(w, "update habit", err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

// PatchHabitStatus handles PATCH /habits/{id}. Only the status field and the
// updated_at timestamp change.
func (h *Handler) PatchHabitStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := habitID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid habit id"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req PatchStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	habit, err := h.svc.UpdateHabitStatus(r.Context(), CurrentUser(r.Context()).ID, id, req.Status)
	if err != nil {
		writeError(w, "patch habit status", err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

// DeleteHabit handles DELETE /habits/{id}.
func (h *Handler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	id, ok := habitID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid habit id"))
		return
	}
	if err := h.svc.DeleteHabit(r.Context(), CurrentUser(r.Context()).ID, id); err != nil {
		writeError(w, "delete habit", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
