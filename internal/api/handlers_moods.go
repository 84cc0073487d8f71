package api

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// CreateMood handles POST /moods. When habit_id is given the habit must exist
// and belong to the requesting user, checked before anything is stored.
func (h *Handler) CreateMood(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	mood, err := h.svc.CreateMood(r.Context(), CurrentUser(r.Context()).ID, req.Text, req.HabitID)
	if err != nil {
		writeError(w, "create mood", err)
		return
	}
	writeJSON(w, http.StatusCreated, mood)
}

// ListMoods handles GET /moods. Entries come back newest-first, optionally
// filtered by habit_id, capped by limit (1..500, default 50).
func (h *Handler) ListMoods(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", 50)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("limit must be an integer"))
		return
	}

	var habitID *int64
	if raw := r.URL.Query().Get("habit_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("habit_id must be an integer"))
			return
		}
		habitID = &id
	}

	moods, err := h.svc.ListMoods(r.Context(), CurrentUser(r.Context()).ID, habitID, limit)
	if err != nil {
		writeError(w, "list moods", err)
		return
	}
	writeJSON(w, http.StatusOK, moods)
}
