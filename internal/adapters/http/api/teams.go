package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	repository "github.com/okian/teamforge/internal/adapters/repository"
	"github.com/okian/teamforge/internal/domain/balancer"
)

// TeamsHandler serves /tournaments/{scope}/teams.
type TeamsHandler struct {
	deps         Dependencies
	maxBodyBytes int64
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps Dependencies, maxBodyBytes int64) *TeamsHandler {
	return &TeamsHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// generateRequest is the body of POST /tournaments/{scope}/teams.
type generateRequest struct {
	Runs    *int            `json:"runs,omitempty"`
	Players []playerRequest `json:"players"`
}

// playerRequest keeps the rating raw so that missing, null and
// non-numeric values reach the balancer's rating validation instead of
// failing JSON decoding.
type playerRequest struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Rating json.RawMessage `json:"rating"`
}

func (p playerRequest) toPlayer() (balancer.Player, error) {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		return balancer.Player{}, fmt.Errorf("%w: player %q has no id", ErrBadRequest, p.Name)
	}
	return balancer.Player{ID: id, Label: p.Name, Rating: parseRating(p.Rating)}, nil
}

// parseRating returns nil for a missing or null rating, the number for a
// JSON number or numeric string, and NaN for anything else.
func parseRating(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return &v
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return &v
		}
	}
	nan := math.NaN()
	return &nan
}

type memberResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name,omitempty"`
	Rating float64 `json:"rating"`
}

type teamResponse struct {
	TeamID        string           `json:"team_id"`
	RatingSum     float64          `json:"rating_sum"`
	AverageRating float64          `json:"average_rating"`
	Members       []memberResponse `json:"members"`
}

type generateResponse struct {
	Scope           string         `json:"scope"`
	Generation      string         `json:"generation"`
	StoredAt        time.Time      `json:"stored_at"`
	Spread          float64        `json:"spread"`
	TeamSize        int            `json:"team_size"`
	RunsRequested   int            `json:"runs_requested"`
	RunsExecuted    int            `json:"runs_executed"`
	IterationBudget int            `json:"iteration_budget"`
	Iterations      int            `json:"iterations"`
	Truncated       bool           `json:"truncated"`
	DurationMs      float64        `json:"duration_ms"`
	Teams           []teamResponse `json:"teams"`
}

type storedTeamResponse struct {
	TeamID    string   `json:"team_id"`
	MemberIDs []string `json:"member_ids"`
}

type storedResponse struct {
	Scope      string               `json:"scope"`
	Generation string               `json:"generation"`
	StoredAt   time.Time            `json:"stored_at"`
	Teams      []storedTeamResponse `json:"teams"`
}

// HandleGenerate handles POST /tournaments/{scope}/teams.
func (h *TeamsHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	scope := r.PathValue("scope")

	var req generateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.fail(w, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	players := make([]balancer.Player, len(req.Players))
	for i, p := range req.Players {
		player, err := p.toPlayer()
		if err != nil {
			h.fail(w, err)
			return
		}
		players[i] = player
	}

	a, stored, err := h.deps.GenerateTeams(r.Context(), scope, players, req.Runs)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGenerateResponse(a, stored))
}

// HandleGet handles GET /tournaments/{scope}/teams.
func (h *TeamsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	stored, err := h.deps.Teams(r.Context(), r.PathValue("scope"))
	if err != nil {
		h.fail(w, err)
		return
	}
	teams := make([]storedTeamResponse, len(stored.Teams))
	for i, t := range stored.Teams {
		teams[i] = storedTeamResponse{TeamID: t.TeamID, MemberIDs: t.MemberIDs}
	}
	writeJSON(w, http.StatusOK, storedResponse{
		Scope:      stored.Scope,
		Generation: stored.Generation,
		StoredAt:   stored.StoredAt,
		Teams:      teams,
	})
}

// HandleDelete handles DELETE /tournaments/{scope}/teams.
func (h *TeamsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.ClearTeams(r.Context(), r.PathValue("scope")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TeamsHandler) fail(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	writeError(w, status, code, err)
}

func toGenerateResponse(a balancer.Assignment, stored repository.Assignment) generateResponse {
	teams := make([]teamResponse, len(a.Teams))
	for i, t := range a.Teams {
		members := make([]memberResponse, len(t.Members))
		for j, m := range t.Members {
			members[j] = memberResponse{ID: m.ID, Name: m.Label, Rating: *m.Rating}
		}
		teams[i] = teamResponse{
			TeamID:        t.TeamID,
			RatingSum:     t.RatingSum,
			AverageRating: t.AverageRating,
			Members:       members,
		}
	}
	return generateResponse{
		Scope:           stored.Scope,
		Generation:      stored.Generation,
		StoredAt:        stored.StoredAt,
		Spread:          a.Spread,
		TeamSize:        a.TeamSize,
		RunsRequested:   a.RunsRequested,
		RunsExecuted:    a.RunsExecuted,
		IterationBudget: a.IterationBudget,
		Iterations:      a.Iterations,
		Truncated:       a.Truncated,
		DurationMs:      float64(a.Duration.Microseconds()) / 1000,
		Teams:           teams,
	}
}
