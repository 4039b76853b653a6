// Package partition splits a rated roster into equally-sized teams while
// minimizing the spread between the strongest and weakest team.
//
// The optimizer is a randomized local search: every run shuffles the roster,
// deals it round-robin into teams and then tries random member swaps between
// two teams, keeping a swap only when it strictly lowers the spread. The best
// partition over all runs wins.
package partition

import (
	"fmt"
	"time"
)

// Participant is the abstract view of a roster entry. ID is opaque and is
// carried through untouched so callers can map results back without relying
// on display labels.
type Participant struct {
	ID     string
	Rating float64
}

// Team is one group of a partition. RatingSum always equals the sum of the
// members' ratings.
type Team struct {
	Index     int
	Members   []Participant
	RatingSum float64
}

// Partition is a complete assignment of a roster to teams.
type Partition struct {
	Teams  []Team
	Spread float64
}

// RunResult is the outcome of one Optimize call.
type RunResult struct {
	Partition Partition

	// RunsExecuted is the number of runs that actually started. It is lower
	// than RunsRequested when the deadline fired or the input is degenerate.
	RunsExecuted  int
	RunsRequested int

	// Iterations counts swap attempts across all executed runs.
	Iterations int

	// InitialSpread is the spread of the first run's round-robin deal, before
	// any swap was tried.
	InitialSpread float64

	// Truncated reports that the deadline stopped the search early. The
	// partition is still complete and valid.
	Truncated bool

	Duration time.Duration
}

// Validate checks the structural invariants of p against the roster it was
// built from: team count, team sizes, coverage of every participant exactly
// once, per-team sums and the spread.
func (p Partition) Validate(teamSize int, roster []Participant) error {
	if teamSize < 1 || len(roster)%teamSize != 0 {
		return fmt.Errorf("%w: cannot validate team size %d for %d participants", ErrInternal, teamSize, len(roster))
	}
	if want := len(roster) / teamSize; len(p.Teams) != want {
		return fmt.Errorf("%w: got %d teams, want %d", ErrInternal, len(p.Teams), want)
	}

	remaining := make(map[Participant]int, len(roster))
	for _, pt := range roster {
		remaining[pt]++
	}

	sums := make([]float64, len(p.Teams))
	for i, t := range p.Teams {
		if t.Index != i {
			return fmt.Errorf("%w: team at position %d has index %d", ErrInternal, i, t.Index)
		}
		if len(t.Members) != teamSize {
			return fmt.Errorf("%w: team %d has %d members, want %d", ErrInternal, i, len(t.Members), teamSize)
		}
		for _, m := range t.Members {
			if remaining[m] == 0 {
				return fmt.Errorf("%w: participant %q assigned more than once or unknown", ErrInternal, m.ID)
			}
			remaining[m]--
		}
		sums[i] = sumRatings(t.Members)
		if sums[i] != t.RatingSum {
			return fmt.Errorf("%w: team %d rating sum %v, recomputed %v", ErrInternal, i, t.RatingSum, sums[i])
		}
	}
	for pt, n := range remaining {
		if n != 0 {
			return fmt.Errorf("%w: participant %q not assigned", ErrInternal, pt.ID)
		}
	}

	if got := spreadOf(sums); got != p.Spread {
		return fmt.Errorf("%w: spread %v, recomputed %v", ErrInternal, p.Spread, got)
	}
	return nil
}

func sumRatings(members []Participant) float64 {
	var s float64
	for _, m := range members {
		s += m.Rating
	}
	return s
}

// spreadOf returns max(sums) - min(sums).
func spreadOf(sums []float64) float64 {
	if len(sums) == 0 {
		return 0
	}
	lo, hi := sums[0], sums[0]
	for _, s := range sums[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	return hi - lo
}
