package main

import (
	"context"
	"errors"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/dots/agent"
	"github.com/pthm-cable/dots/arena"
	"github.com/pthm-cable/dots/config"
	"github.com/pthm-cable/dots/population"
)

// FitnessEvaluator runs headless populations and scores parameter vectors.
type FitnessEvaluator struct {
	params      *ParamVector
	generations int
	seeds       []int64
	baseConfig  *config.Config

	mu       sync.Mutex
	lastRuns []runResult // results of the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, generations int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		generations: generations,
		seeds:       seeds,
		baseConfig:  baseCfg,
	}
}

// runResult summarizes one seeded run.
type runResult struct {
	firstWin    int     // generation of the first win, -1 if none
	shortestWin int     // steps of the shortest win in the last generation, 0 if none
	bestDist    float64 // goal distance of the best non-winner in the last generation
	collapsed   bool    // a generation ended with zero total fitness
	cost        float64
}

// LastRuns returns the per-seed results of the most recent evaluation.
func (fe *FitnessEvaluator) LastRuns() []runResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return append([]runResult(nil), fe.lastRuns...)
}

// Evaluate computes the cost of a raw parameter vector (lower = better):
// the mean over seeds of runCost.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]runResult, len(fe.seeds))
	g := new(errgroup.Group)
	for i, seed := range fe.seeds {
		g.Go(func() error {
			results[i] = fe.runSimulation(cfg, seed)
			return nil
		})
	}
	_ = g.Wait()

	var total float64
	for _, r := range results {
		total += r.cost
	}

	fe.mu.Lock()
	fe.lastRuns = results
	fe.mu.Unlock()

	return total / float64(len(results))
}

// runSimulation runs the configured number of generations with no step delay.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runResult {
	opts := population.OptionsFromConfig(cfg)
	opts.StepDelay = 0
	opts.Continuous = false
	opts.Seed = seed

	pop := population.New(arena.FromConfig(cfg.Arena), opts)
	res := runResult{firstWin: -1}
	var last population.GenerationResult
	for gen := 0; gen < fe.generations; gen++ {
		r, err := pop.RunGeneration(context.Background())
		if errors.Is(err, population.ErrNoFitness) {
			res.collapsed = true
			break
		}
		last = r
		if r.Won > 0 && res.firstWin < 0 {
			res.firstWin = gen
		}
	}

	res.shortestWin, res.bestDist = summarize(last)
	res.cost = runCost(res, cfg.Population.GenomeLength)
	return res
}

// summarize extracts the shortest win and the closest miss of a generation.
func summarize(r population.GenerationResult) (shortestWin int, bestDist float64) {
	bestDist = math.Inf(1)
	for _, s := range r.Agents {
		switch {
		case s.State == agent.StateWon:
			if shortestWin == 0 || s.Used < shortestWin {
				shortestWin = s.Used
			}
		case s.Fitness > 0:
			bestDist = math.Min(bestDist, 1/math.Sqrt(s.Fitness))
		}
	}
	return shortestWin, bestDist
}

// runCost scores a run. Any win beats every non-win: winning runs cost their
// shortest step count, runs without a win cost the genome length plus the
// closest remaining distance, and collapsed runs cost the most.
func runCost(r runResult, genomeLength int) float64 {
	n := float64(genomeLength)
	switch {
	case r.collapsed:
		return 4 * n
	case r.shortestWin > 0:
		return float64(r.shortestWin)
	case !math.IsInf(r.bestDist, 1):
		return n + math.Min(r.bestDist, 2*n)
	}
	return 3 * n
}

// copyConfig returns a deep copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Arena.Walls = append([]config.WallConfig(nil), fe.baseConfig.Arena.Walls...)
	return &cfg
}
