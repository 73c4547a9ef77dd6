// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tejasvp/resultboard/internal/domain/model"
)

// AnalysesHandler handles analysis submission and retrieval.
type AnalysesHandler struct {
	deps Dependencies
}

// NewAnalysesHandler creates a new analyses handler.
func NewAnalysesHandler(deps Dependencies) *AnalysesHandler {
	return &AnalysesHandler{deps: deps}
}

// HandleAnalyses handles POST /analyses requests.
func (h *AnalysesHandler) HandleAnalyses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	id, err := h.deps.StartAnalysis(r.Context(), req.Dept, req.Year)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, submitResponse{ID: id, Status: model.JobPending})
}

// HandleAnalysisSubresource routes GET /analyses/{id} and its
// /records and /distribution subresources.
func (h *AnalysesHandler) HandleAnalysisSubresource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/analyses/")
	id, sub, _ := strings.Cut(path, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch sub {
	case "":
		h.handleGetAnalysis(w, r, id)
	case "records":
		h.handleGetRecords(w, r, id)
	case "distribution":
		h.handleGetDistribution(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *AnalysesHandler) handleGetAnalysis(w http.ResponseWriter, r *http.Request, id string) {
	result, err := h.deps.Analysis(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AnalysesHandler) handleGetRecords(w http.ResponseWriter, r *http.Request, id string) {
	q := r.URL.Query()
	rows, err := h.deps.View(r.Context(), id, q.Get("q"), q.Get("sort"), q.Get("dir"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *AnalysesHandler) handleGetDistribution(w http.ResponseWriter, r *http.Request, id string) {
	bars, err := h.deps.Distribution(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bars)
}
