package partition

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrDivisibility     = errors.New("roster size not divisible by team size")
	ErrInvalidParameter = errors.New("invalid optimizer parameter")
	ErrInternal         = errors.New("partition invariant violated")
)

// DivisibilityError reports a roster whose length is not a multiple of the
// team size.
type DivisibilityError struct {
	RosterSize int
	TeamSize   int
}

func (e *DivisibilityError) Error() string {
	return fmt.Sprintf("%s: %d participants, team size %d", ErrDivisibility, e.RosterSize, e.TeamSize)
}

func (e *DivisibilityError) Is(target error) bool { return target == ErrDivisibility }

// InvalidParameterError reports a parameter outside its allowed domain.
type InvalidParameterError struct {
	Name   string
	Value  int
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s: %s=%d %s", ErrInvalidParameter, e.Name, e.Value, e.Reason)
}

func (e *InvalidParameterError) Is(target error) bool { return target == ErrInvalidParameter }
