package rostergen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPClient talks to a teamforge server.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client for baseURL with a request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type submitRequest struct {
	Runs    *int     `json:"runs,omitempty"`
	Players []Player `json:"players"`
}

type submitResponse struct {
	Scope         string  `json:"scope"`
	Generation    string  `json:"generation"`
	Spread        float64 `json:"spread"`
	RunsRequested int     `json:"runs_requested"`
	RunsExecuted  int     `json:"runs_executed"`
	Truncated     bool    `json:"truncated"`
	DurationMs    float64 `json:"duration_ms"`
	Teams         []struct {
		TeamID        string  `json:"team_id"`
		RatingSum     float64 `json:"rating_sum"`
		AverageRating float64 `json:"average_rating"`
		Members       []struct {
			ID string `json:"id"`
		} `json:"members"`
	} `json:"teams"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Submit posts players to /tournaments/{scope}/teams. runs <= 0 leaves the
// run count to the server.
func (c *HTTPClient) Submit(ctx context.Context, scope string, players []Player, runs int) (Report, error) {
	body := submitRequest{Players: players}
	if runs > 0 {
		body.Runs = &runs
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Report{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	endpoint := c.baseURL + "/tournaments/" + url.PathEscape(scope) + "/teams"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Report{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("failed to submit roster: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && e.Code != "" {
			return Report{}, fmt.Errorf("%w: %d %s: %s", ErrServer, resp.StatusCode, e.Code, e.Message)
		}
		return Report{}, fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
	}

	var out submitResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return Report{}, fmt.Errorf("failed to decode response: %w", err)
	}

	report := Report{
		Scope:         out.Scope,
		Generation:    out.Generation,
		Players:       len(players),
		Spread:        out.Spread,
		RunsRequested: out.RunsRequested,
		RunsExecuted:  out.RunsExecuted,
		Truncated:     out.Truncated,
		Duration:      time.Duration(out.DurationMs * float64(time.Millisecond)),
		Teams:         make([]Team, len(out.Teams)),
	}
	for i, t := range out.Teams {
		ids := make([]string, len(t.Members))
		for j, m := range t.Members {
			ids[j] = m.ID
		}
		report.Teams[i] = Team{TeamID: t.TeamID, RatingSum: t.RatingSum, AverageRating: t.AverageRating, MemberIDs: ids}
	}
	return report, nil
}
