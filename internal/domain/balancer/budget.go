package balancer

import "time"

// Default budget constants.
const (
	defaultWallClock           = 2 * time.Second
	defaultSwapsPerMillisecond = 100
	defaultMinSteps            = 50
	defaultMaxSteps            = 5000
)

// Budget bounds how much search work a single request may do.
type Budget struct {
	// WallClock is the hard ceiling imposed by the calling layer. It also
	// becomes the optimizer deadline.
	WallClock time.Duration
	// SwapsPerMillisecond is a conservative estimate of swap attempts one
	// run performs per millisecond.
	SwapsPerMillisecond int
	// MinSteps and MaxSteps clamp the per-run step limit.
	MinSteps int
	MaxSteps int
}

// DefaultBudget returns the budget used when none is configured.
func DefaultBudget() Budget {
	return Budget{
		WallClock:           defaultWallClock,
		SwapsPerMillisecond: defaultSwapsPerMillisecond,
		MinSteps:            defaultMinSteps,
		MaxSteps:            defaultMaxSteps,
	}
}

// IterationBudget returns the consecutive non-improving swap limit for each
// of runs runs:
//
//	clamp(WallClock[ms] * SwapsPerMillisecond / runs, MinSteps, MaxSteps)
//
// The total swap allowance is split evenly across runs so that
// runs x steps stays near what fits in WallClock. MaxSteps wins over
// MinSteps if the two are inverted.
func IterationBudget(runs int, b Budget) int {
	if runs < 1 {
		runs = 1
	}
	total := int(b.WallClock/time.Millisecond) * b.SwapsPerMillisecond
	steps := total / runs
	if steps < b.MinSteps {
		steps = b.MinSteps
	}
	if steps > b.MaxSteps {
		steps = b.MaxSteps
	}
	if steps < 0 {
		steps = 0
	}
	return steps
}
