package balancer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrEmptyRoster         = errors.New("roster is empty")
	ErrCountNotDivisible   = errors.New("participant count not divisible by team size")
	ErrInvalidRating       = errors.New("invalid rating")
	ErrDuplicateID         = errors.New("duplicate participant id")
	ErrRunCountOutOfRange  = errors.New("run count out of range")
	ErrOptimizationTimeout = errors.New("optimization exceeded its time budget")
	ErrInternal            = errors.New("internal balancer fault")
)

// CountNotDivisibleError reports a roster that cannot be split evenly.
type CountNotDivisibleError struct {
	Count   int
	Divisor int
}

func (e *CountNotDivisibleError) Error() string {
	return fmt.Sprintf("%d participants cannot be split into teams of %d", e.Count, e.Divisor)
}

func (e *CountNotDivisibleError) Is(target error) bool { return target == ErrCountNotDivisible }

// InvalidRatingError lists every participant whose rating is missing,
// non-numeric or outside the accepted range.
type InvalidRatingError struct {
	Labels []string
	Min    float64
	Max    float64
}

func (e *InvalidRatingError) Error() string {
	return fmt.Sprintf("%s (must be between %.2f and %.2f): %s", ErrInvalidRating, e.Min, e.Max, strings.Join(e.Labels, ", "))
}

func (e *InvalidRatingError) Is(target error) bool { return target == ErrInvalidRating }

// DuplicateIDError lists participant ids that appear more than once.
type DuplicateIDError struct {
	IDs []string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateID, strings.Join(e.IDs, ", "))
}

func (e *DuplicateIDError) Is(target error) bool { return target == ErrDuplicateID }

// RunCountOutOfRangeError reports a requested run count outside [1, Max].
type RunCountOutOfRangeError struct {
	Requested int
	Max       int
}

func (e *RunCountOutOfRangeError) Error() string {
	return fmt.Sprintf("%s: requested %d, allowed 1..%d", ErrRunCountOutOfRange, e.Requested, e.Max)
}

func (e *RunCountOutOfRangeError) Is(target error) bool { return target == ErrRunCountOutOfRange }

// OptimizationTimeoutError is returned under the fail timeout policy when the
// search did not finish inside its wall-clock budget.
type OptimizationTimeoutError struct {
	Elapsed      time.Duration
	Budget       time.Duration
	RunsExecuted int
	RunsWanted   int
}

func (e *OptimizationTimeoutError) Error() string {
	return fmt.Sprintf("%s: %s elapsed of %s, %d/%d runs", ErrOptimizationTimeout, e.Elapsed, e.Budget, e.RunsExecuted, e.RunsWanted)
}

func (e *OptimizationTimeoutError) Is(target error) bool { return target == ErrOptimizationTimeout }
