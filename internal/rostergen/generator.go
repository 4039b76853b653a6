package rostergen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"
)

// Rating tiers, as [min, min+width) on the 0..999.99 scale.
var ratingTiers = [...]struct{ min, width float64 }{ //nolint:gochecknoglobals // fixed distribution table
	{300, 400}, // average, most common
	{300, 400},
	{700, 200}, // strong
	{10, 290},  // weak
	{900, 99.99},
	{0, 999.99}, // anywhere
}

// outOfRange are ratings rejected by the balancer, used when Invalid > 0.
var outOfRange = [...]float64{-5, 1000, 1250.5} //nolint:gochecknoglobals // fixed table

// GenerateRoster creates n players with uuid ids drawn from rng. The
// first invalid players get an out of range rating.
func GenerateRoster(n, invalid int, rng *rand.Rand) ([]Player, error) {
	if n < 0 || invalid < 0 || invalid > n {
		return nil, fmt.Errorf("%w: players=%d invalid=%d", ErrInvalidArgs, n, invalid)
	}

	players := make([]Player, n)
	for i := range players {
		id, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			return nil, fmt.Errorf("generate player id: %w", err)
		}
		players[i] = Player{
			ID:     id.String(),
			Name:   fmt.Sprintf("Player %d", i+1),
			Rating: generateRating(rng),
		}
		if i < invalid {
			players[i].Rating = outOfRange[i%len(outOfRange)]
		}
	}
	return players, nil
}

func generateRating(rng *rand.Rand) float64 {
	tier := ratingTiers[rng.Intn(len(ratingTiers))]
	r := tier.min + rng.Float64()*tier.width
	return math.Round(r*100) / 100
}
