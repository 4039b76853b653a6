package partition

// arena holds one run's working partition as roster indices. All teams share
// a single backing slice; team t occupies members[t*size : (t+1)*size].
type arena struct {
	roster  []Participant
	size    int
	members []int
	sums    []float64
}

// deal places order[i] into team i mod numTeams.
func deal(roster []Participant, order []int, numTeams, teamSize int) *arena {
	a := &arena{
		roster:  roster,
		size:    teamSize,
		members: make([]int, len(order)),
		sums:    make([]float64, numTeams),
	}
	for i, idx := range order {
		t := i % numTeams
		a.members[t*teamSize+i/numTeams] = idx
	}
	for t := range a.sums {
		a.sums[t] = a.sumOf(t)
	}
	return a
}

func (a *arena) team(t int) []int {
	return a.members[t*a.size : (t+1)*a.size]
}

// sumOf re-reduces team t from scratch.
func (a *arena) sumOf(t int) float64 {
	var s float64
	for _, idx := range a.team(t) {
		s += a.roster[idx].Rating
	}
	return s
}

func (a *arena) swap(ta, ma, tb, mb int) {
	x, y := ta*a.size+ma, tb*a.size+mb
	a.members[x], a.members[y] = a.members[y], a.members[x]
}

func (a *arena) spread() float64 {
	return spreadOf(a.sums)
}

func (a *arena) partition() Partition {
	teams := make([]Team, len(a.sums))
	for t := range teams {
		idx := a.team(t)
		members := make([]Participant, len(idx))
		for i, r := range idx {
			members[i] = a.roster[r]
		}
		teams[t] = Team{Index: t, Members: members, RatingSum: a.sums[t]}
	}
	return Partition{Teams: teams, Spread: a.spread()}
}
