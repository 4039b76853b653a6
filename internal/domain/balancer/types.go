package balancer

import "time"

// Player is a roster entry as supplied by the roster provider. Label is for
// display only and may collide between players; ID is the join key. A nil
// Rating means the rating is missing; NaN or infinite values are treated as
// non-numeric.
type Player struct {
	ID     string
	Label  string
	Rating *float64
}

// displayName is what validation errors report for p.
func (p Player) displayName() string {
	if p.Label != "" {
		return p.Label
	}
	return p.ID
}

// TeamAssignment is one generated team mapped back to players.
type TeamAssignment struct {
	TeamID        string
	Members       []Player
	RatingSum     float64
	AverageRating float64
}

// MemberIDs returns the ids of the team members in team order.
func (t TeamAssignment) MemberIDs() []string {
	ids := make([]string, len(t.Members))
	for i, m := range t.Members {
		ids[i] = m.ID
	}
	return ids
}

// Assignment is the result of GenerateBalancedTeams.
type Assignment struct {
	Teams []TeamAssignment
	// Spread is the difference between the highest and lowest team rating
	// sum, rounded for presentation.
	Spread float64

	TeamSize        int
	RunsRequested   int
	RunsExecuted    int
	IterationBudget int
	Iterations      int

	// Truncated is set when the optimizer stopped at its deadline and the
	// warn timeout policy is active.
	Truncated bool
	Duration  time.Duration
}
