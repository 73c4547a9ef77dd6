// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// LatestHandler serves the newest completed analysis for a batch.
type LatestHandler struct {
	deps Dependencies
}

// NewLatestHandler creates a new latest-analysis handler.
func NewLatestHandler(deps Dependencies) *LatestHandler {
	return &LatestHandler{deps: deps}
}

// HandleGetLatest handles GET /latest?dept=CS&year=23 requests.
func (h *LatestHandler) HandleGetLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	dept, year := q.Get("dept"), q.Get("year")
	if dept == "" || year == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	result, err := h.deps.Latest(r.Context(), dept, year)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
