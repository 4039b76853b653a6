package api

import (
	"errors"
	"net/http"

	repository "github.com/okian/teamforge/internal/adapters/repository"
	"github.com/okian/teamforge/internal/domain/balancer"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limit exceeded")
)

// errorStatus maps domain and store errors to an HTTP status and a stable
// error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrInvalidScope):
		return http.StatusBadRequest, "invalid_scope"
	case errors.Is(err, balancer.ErrRunCountOutOfRange):
		return http.StatusBadRequest, "run_count_out_of_range"
	case errors.Is(err, balancer.ErrEmptyRoster):
		return http.StatusUnprocessableEntity, "empty_roster"
	case errors.Is(err, balancer.ErrCountNotDivisible):
		return http.StatusUnprocessableEntity, "count_not_divisible"
	case errors.Is(err, balancer.ErrInvalidRating):
		return http.StatusUnprocessableEntity, "invalid_rating"
	case errors.Is(err, balancer.ErrDuplicateID):
		return http.StatusUnprocessableEntity, "duplicate_id"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, balancer.ErrOptimizationTimeout):
		return http.StatusServiceUnavailable, "optimization_timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
