package partition

import "math/rand"

// Source is the randomness the optimizer consumes. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
	Int63() int64
	Shuffle(n int, swap func(i, j int))
}

// NewSource returns a deterministic Source for seed.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible search, not crypto
}
