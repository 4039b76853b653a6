// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	repository "github.com/okian/teamforge/internal/adapters/repository"
	"github.com/okian/teamforge/internal/domain/balancer"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// GenerateTeams balances players and replaces the stored assignment
	// for scope.
	GenerateTeams(ctx context.Context, scope string, players []balancer.Player, runs *int) (balancer.Assignment, repository.Assignment, error)

	// Teams returns the stored assignment for scope.
	Teams(ctx context.Context, scope string) (repository.Assignment, error)

	// ClearTeams removes the stored assignment for scope.
	ClearTeams(ctx context.Context, scope string) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	teamsHandler  *TeamsHandler

	limiter *rateLimiter
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := defaultServerConfig()

	// Apply all options
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		teamsHandler:  NewTeamsHandler(deps, cfg.maxBodyBytes),
		limiter:       newRateLimiter(cfg.rateLimitRPS, cfg.rateLimitBurst),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /tournaments/{scope}/teams",
		MetricsMiddleware(s.limiter.middleware(s.teamsHandler.HandleGenerate, "teams_generate"), "teams_generate"))
	mux.HandleFunc("GET /tournaments/{scope}/teams", MetricsMiddleware(s.teamsHandler.HandleGet, "teams_get"))
	mux.HandleFunc("DELETE /tournaments/{scope}/teams", MetricsMiddleware(s.teamsHandler.HandleDelete, "teams_delete"))
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
