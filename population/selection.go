package population

import (
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/dots/agent"
)

// championIndex returns the first index holding the maximum fitness.
func championIndex(fitness []float64) int {
	return floats.MaxIdx(fitness)
}

// rouletteIndex walks fitness in order and returns the first index whose
// cumulative sum exceeds draw. draw is expected in [0, sum(fitness)). When
// rounding leaves the draw unreached, the last index with positive fitness
// is returned.
func rouletteIndex(fitness []float64, draw float64) int {
	var cumulative float64
	last := -1
	for i, f := range fitness {
		cumulative += f
		if cumulative > draw {
			return i
		}
		if f > 0 {
			last = i
		}
	}
	return last
}

// inherit copies parent's full genome, capped at maxLen vectors.
func inherit(parent *agent.Agent, maxLen int) agent.Genome {
	g := parent.Genome()
	if len(g) > maxLen {
		g = g[:maxLen]
	}
	return g
}
