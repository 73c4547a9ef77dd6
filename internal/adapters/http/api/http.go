// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tejasvp/resultboard/internal/adapters/repository"
	service "github.com/tejasvp/resultboard/internal/app"
	"github.com/tejasvp/resultboard/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// StartAnalysis submits a batch walk and returns the job id.
	StartAnalysis(ctx context.Context, dept, year string) (string, error)

	// Analysis returns the current snapshot for a job id.
	Analysis(ctx context.Context, id string) (model.AnalysisResult, error)

	// Latest returns the newest completed analysis for a batch.
	Latest(ctx context.Context, dept, year string) (model.AnalysisResult, error)

	// View builds the ranked, filtered table for an analysis.
	View(ctx context.Context, id, query, sortKey, dir string) ([]model.RankedRow, error)

	// Distribution returns normalized chart bars for an analysis.
	Distribution(ctx context.Context, id string) ([]model.ChartBar, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	analysesHandler  *AnalysesHandler
	latestHandler    *LatestHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		analysesHandler:  NewAnalysesHandler(deps),
		latestHandler:    NewLatestHandler(deps),
		dashboardHandler: newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/analyses", MetricsMiddleware(s.analysesHandler.HandleAnalyses, "analyses"))
	mux.HandleFunc("/analyses/", MetricsMiddleware(s.analysesHandler.HandleAnalysisSubresource, "analyses"))
	mux.HandleFunc("/latest", MetricsMiddleware(s.latestHandler.HandleGetLatest, "latest"))
}

// analysisRequest mirrors the request schema for POST /analyses.
type analysisRequest struct {
	Dept string `json:"dept"`
	Year string `json:"year"`
}

func (a analysisRequest) validate() error {
	switch {
	case strings.TrimSpace(a.Dept) == "":
		return errors.New("missing dept")
	case strings.TrimSpace(a.Year) == "":
		return errors.New("missing year")
	}
	return nil
}

// submitResponse acknowledges an accepted analysis job.
type submitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates service and repository errors to HTTP.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrInvalidBatch):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
