package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/dots/agent"
	"github.com/pthm-cable/dots/population"
)

func sampleResult() population.GenerationResult {
	return population.GenerationResult{
		Generation:      3,
		Won:             2,
		Exhausted:       2,
		Dead:            1,
		MaxGenomeLength: 12,
		Champion:        1,
		ChampionGenome:  agent.Genome{{X: 0, Y: -1}, {X: 1, Y: 0}},
		Agents: []agent.Snapshot{
			{ID: 0, State: agent.StateWon, Used: 20, Travelled: 300, Fitness: 1},
			{ID: 1, State: agent.StateWon, Used: 12, Travelled: 250, Fitness: 5},
			{ID: 2, State: agent.StateExhausted, Used: 40, Travelled: 100, Fitness: 2},
			{ID: 3, State: agent.StateExhausted, Used: 40, Travelled: 50, Fitness: 1},
			{ID: 4, State: agent.StateDead, Used: 3, Travelled: 10, Fitness: 1},
		},
	}
}

func TestFromGeneration(t *testing.T) {
	s := FromGeneration(sampleResult())

	if s.Generation != 3 || s.Size != 5 {
		t.Errorf("generation/size = %d/%d, want 3/5", s.Generation, s.Size)
	}
	if s.Won+s.Exhausted+s.Dead != s.Size {
		t.Errorf("counts %d+%d+%d do not add up to %d", s.Won, s.Exhausted, s.Dead, s.Size)
	}
	if math.Abs(s.WinRate-0.4) > 1e-12 {
		t.Errorf("win rate = %v, want 0.4", s.WinRate)
	}
	if s.ShortestWin != 12 {
		t.Errorf("shortest win = %d, want 12", s.ShortestWin)
	}
	if s.BestFitness != 5 {
		t.Errorf("best fitness = %v, want 5", s.BestFitness)
	}
	if math.Abs(s.MeanFitness-2) > 1e-12 {
		t.Errorf("mean fitness = %v, want 2", s.MeanFitness)
	}
	// sample standard deviation of {1, 5, 2, 1, 1}
	if math.Abs(s.StdFitness-math.Sqrt(3)) > 1e-12 {
		t.Errorf("std fitness = %v, want %v", s.StdFitness, math.Sqrt(3))
	}
	if s.ChampionState != "won" || s.ChampionSteps != 12 {
		t.Errorf("champion = %s/%d, want won/12", s.ChampionState, s.ChampionSteps)
	}
	if s.MedianTravelled != 100 {
		t.Errorf("median travelled = %v, want 100", s.MedianTravelled)
	}
	if s.MaxTravelled != 300 {
		t.Errorf("max travelled = %v, want 300", s.MaxTravelled)
	}
}

func TestFromGenerationSingleAgent(t *testing.T) {
	r := population.GenerationResult{
		Exhausted: 1,
		Agents:    []agent.Snapshot{{State: agent.StateExhausted, Used: 5, Travelled: 7, Fitness: 0.25}},
	}
	s := FromGeneration(r)
	if s.MeanFitness != 0.25 || s.StdFitness != 0 {
		t.Errorf("mean/std = %v/%v, want 0.25/0", s.MeanFitness, s.StdFitness)
	}
	if s.ShortestWin != 0 {
		t.Errorf("shortest win = %d, want 0 without winners", s.ShortestWin)
	}
}

func TestFromGenerationEmpty(t *testing.T) {
	s := FromGeneration(population.GenerationResult{Generation: 7})
	if s.Generation != 7 || s.Size != 0 || s.WinRate != 0 {
		t.Errorf("unexpected stats for empty generation: %+v", s)
	}
}

func TestChampionSteps(t *testing.T) {
	steps := ChampionSteps(sampleResult())
	if len(steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(steps))
	}
	want := ChampionStep{Generation: 3, Step: 1, DX: 1, DY: 0}
	if steps[1] != want {
		t.Errorf("steps[1] = %+v, want %+v", steps[1], want)
	}
}
