package partition

import (
	"golang.org/x/sync/errgroup"
)

// Optimize partitions roster into teams of teamSize members, minimizing the
// spread of team rating sums.
//
// Each of the runs starts from a fresh shuffle dealt round-robin and then
// performs random two-team member swaps until maxNonImprovingSteps
// consecutive swaps failed to strictly lower the spread. The lowest spread
// over all runs wins; ties keep the earliest run.
//
// Per-run seeds are drawn from rng in run order before any run starts, so a
// fixed seed gives the same result regardless of parallelism.
func Optimize(roster []Participant, teamSize, maxNonImprovingSteps, runs int, rng Source, opts ...Option) (RunResult, error) {
	if err := checkParams(roster, teamSize, maxNonImprovingSteps, runs, rng); err != nil {
		return RunResult{}, err
	}
	cfg := newSettings(opts)
	start := cfg.now()
	numTeams := len(roster) / teamSize

	switch {
	case numTeams == 1:
		res := singleTeam(roster)
		res.RunsRequested = runs
		res.Duration = cfg.now().Sub(start)
		return res, nil
	case teamSize == 1:
		res := singletons(roster)
		res.RunsRequested = runs
		res.Duration = cfg.now().Sub(start)
		return res, nil
	}

	seeds := make([]int64, runs)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}

	outcomes := make([]runOutcome, runs)
	if cfg.parallelism <= 1 {
		for i, seed := range seeds {
			if i > 0 && cfg.expired() {
				break
			}
			outcomes[i] = searchRun(roster, numTeams, teamSize, maxNonImprovingSteps, seed, cfg)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(cfg.parallelism)
		for i, seed := range seeds {
			g.Go(func() error {
				// Run 0 always executes so there is a result to return.
				if i > 0 && cfg.expired() {
					return nil
				}
				outcomes[i] = searchRun(roster, numTeams, teamSize, maxNonImprovingSteps, seed, cfg)
				return nil
			})
		}
		_ = g.Wait()
	}

	res := merge(outcomes)
	res.RunsRequested = runs
	res.Duration = cfg.now().Sub(start)
	return res, nil
}

func checkParams(roster []Participant, teamSize, maxNonImprovingSteps, runs int, rng Source) error {
	switch {
	case teamSize < 1:
		return &InvalidParameterError{Name: "teamSize", Value: teamSize, Reason: "must be at least 1"}
	case runs < 1:
		return &InvalidParameterError{Name: "runs", Value: runs, Reason: "must be at least 1"}
	case maxNonImprovingSteps < 0:
		return &InvalidParameterError{Name: "maxNonImprovingSteps", Value: maxNonImprovingSteps, Reason: "must not be negative"}
	case len(roster) == 0:
		return &InvalidParameterError{Name: "roster", Value: 0, Reason: "must not be empty"}
	case rng == nil:
		return &InvalidParameterError{Name: "rng", Value: 0, Reason: "must not be nil"}
	case len(roster)%teamSize != 0:
		return &DivisibilityError{RosterSize: len(roster), TeamSize: teamSize}
	}
	return nil
}

type runOutcome struct {
	started       bool
	teams         *arena
	spread        float64
	initialSpread float64
	iterations    int
	truncated     bool
}

func searchRun(roster []Participant, numTeams, teamSize, maxSteps int, seed int64, cfg settings) runOutcome {
	rng := NewSource(seed)

	order := make([]int, len(roster))
	for i := range order {
		order[i] = i
	}
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	a := deal(roster, order, numTeams, teamSize)
	out := runOutcome{started: true, teams: a}
	best := a.spread()
	out.initialSpread = best

	for fails := 0; fails < maxSteps && best > 0; {
		if out.iterations > 0 && out.iterations%cfg.checkInterval == 0 && cfg.expired() {
			out.truncated = true
			break
		}
		out.iterations++

		ta := rng.Intn(numTeams)
		tb := rng.Intn(numTeams - 1)
		if tb >= ta {
			tb++
		}
		ma, mb := rng.Intn(teamSize), rng.Intn(teamSize)

		prevA, prevB := a.sums[ta], a.sums[tb]
		a.swap(ta, ma, tb, mb)
		a.sums[ta] = a.sumOf(ta)
		a.sums[tb] = a.sumOf(tb)

		if s := a.spread(); s < best {
			best = s
			fails = 0
			continue
		}

		a.swap(ta, ma, tb, mb)
		a.sums[ta], a.sums[tb] = prevA, prevB
		fails++
	}

	out.spread = best
	return out
}

func merge(outcomes []runOutcome) RunResult {
	var (
		res    RunResult
		winner = -1
	)
	for i, o := range outcomes {
		if !o.started {
			res.Truncated = true
			continue
		}
		if res.RunsExecuted == 0 {
			res.InitialSpread = o.initialSpread
		}
		res.RunsExecuted++
		res.Iterations += o.iterations
		if o.truncated {
			res.Truncated = true
		}
		if winner < 0 || o.spread < outcomes[winner].spread {
			winner = i
		}
	}
	res.Partition = outcomes[winner].teams.partition()
	return res
}

func singleTeam(roster []Participant) RunResult {
	members := append([]Participant(nil), roster...)
	return RunResult{
		Partition: Partition{
			Teams:  []Team{{Index: 0, Members: members, RatingSum: sumRatings(members)}},
			Spread: 0,
		},
		RunsExecuted: 1,
	}
}

// singletons handles teamSize == 1: every swap leaves the multiset of team
// sums unchanged, so searching is pointless.
func singletons(roster []Participant) RunResult {
	teams := make([]Team, len(roster))
	sums := make([]float64, len(roster))
	for i, p := range roster {
		teams[i] = Team{Index: i, Members: []Participant{p}, RatingSum: sumRatings([]Participant{p})}
		sums[i] = teams[i].RatingSum
	}
	spread := spreadOf(sums)
	return RunResult{
		Partition:     Partition{Teams: teams, Spread: spread},
		RunsExecuted:  1,
		InitialSpread: spread,
	}
}
