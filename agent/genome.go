package agent

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/dots/geometry"
)

// Genome is the ordered list of unit thrust vectors an agent consumes, one
// per step.
type Genome []geometry.Vec

// RandomUnit returns a unit vector at a uniformly random angle.
func RandomUnit(rng *rand.Rand) geometry.Vec {
	return geometry.UnitFromAngle(rng.Float64()*2*math.Pi - math.Pi)
}

// RandomGenome returns n random unit vectors.
func RandomGenome(rng *rand.Rand, n int) Genome {
	g := make(Genome, n)
	for i := range g {
		g[i] = RandomUnit(rng)
	}
	return g
}

// Clone returns an independent copy.
func (g Genome) Clone() Genome {
	return append(Genome(nil), g...)
}

// Truncate returns a copy holding at most the first n vectors.
func (g Genome) Truncate(n int) Genome {
	if n < 0 {
		n = 0
	}
	if n > len(g) {
		n = len(g)
	}
	return append(Genome(nil), g[:n]...)
}

// Mutate replaces each vector with a fresh random unit vector with
// probability rate. It returns the number of replaced vectors.
func (g Genome) Mutate(rng *rand.Rand, rate float64) int {
	if rate <= 0 {
		return 0
	}
	n := 0
	for i := range g {
		if rng.Float64() < rate {
			g[i] = RandomUnit(rng)
			n++
		}
	}
	return n
}
