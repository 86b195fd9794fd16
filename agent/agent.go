// Package agent simulates a single dot: it consumes its genome one thrust
// vector per step, moves under a bounded acceleration, and stops for good
// when it reaches the goal, hits a wall, or runs out of vectors.
package agent

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/dots/arena"
	"github.com/pthm-cable/dots/config"
	"github.com/pthm-cable/dots/geometry"
	"github.com/pthm-cable/dots/visgraph"
)

// State is the agent life-cycle state. Every state other than StateAlive is
// terminal.
type State uint8

const (
	StateAlive State = iota
	StateWon
	StateDead
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateAlive:
		return "alive"
	case StateWon:
		return "won"
	case StateDead:
		return "dead"
	case StateExhausted:
		return "exhausted"
	}
	return "unknown"
}

// Terminal reports whether s is a final state.
func (s State) Terminal() bool {
	return s != StateAlive
}

// Kind distinguishes the carried-over champion from regular offspring.
type Kind uint8

const (
	KindRegular Kind = iota
	KindChampion
)

func (k Kind) String() string {
	if k == KindChampion {
		return "champion"
	}
	return "regular"
}

// Params holds motion parameters shared by all agents of a run.
type Params struct {
	AccelLimit     float64
	ClipFraction   float64
	ClipMaxBackoff float64
}

// ParamsFromConfig extracts motion parameters from the agent config section.
func ParamsFromConfig(cfg config.AgentConfig) Params {
	return Params{
		AccelLimit:     cfg.AccelLimit,
		ClipFraction:   cfg.ClipFraction,
		ClipMaxBackoff: cfg.ClipMaxBackoff,
	}
}

// Snapshot is a consistent copy of an agent's observable state.
type Snapshot struct {
	ID           int
	Kind         Kind
	State        State
	Position     geometry.Vec
	Velocity     geometry.Vec
	Acceleration geometry.Vec
	Used         int
	Travelled    float64
	Fitness      float64
}

// Agent is one simulated dot. Step and Snapshot may be called from
// different goroutines.
type Agent struct {
	id     int
	kind   Kind
	genome Genome
	limit  int
	arena  *arena.Arena
	params Params

	mu        sync.Mutex
	pos       geometry.Vec
	vel       geometry.Vec
	acc       geometry.Vec
	used      int
	travelled float64
	state     State
	fitness   float64
}

// New creates an agent at the arena start. The agent owns genome; it
// becomes exhausted after min(len(genome), maxLen) accepted steps.
func New(id int, a *arena.Arena, genome Genome, maxLen int, kind Kind, p Params) *Agent {
	limit := len(genome)
	if maxLen < limit {
		limit = maxLen
	}
	if limit < 0 {
		limit = 0
	}
	return &Agent{
		id:     id,
		kind:   kind,
		genome: genome,
		limit:  limit,
		arena:  a,
		params: p,
		pos:    a.Start(),
	}
}

func (a *Agent) ID() int    { return a.id }
func (a *Agent) Kind() Kind { return a.kind }

// Genome returns a copy of the full genome, including unused vectors.
func (a *Agent) Genome() Genome {
	return a.genome.Clone()
}

// UsedVectors returns a copy of the vectors consumed so far.
func (a *Agent) UsedVectors() Genome {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.genome.Truncate(a.used)
}

// State returns the current life-cycle state.
func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Fitness returns the fitness computed on termination. ok is false while
// the agent is still alive.
func (a *Agent) Fitness() (fitness float64, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fitness, a.state.Terminal()
}

// Snapshot returns the agent's state as of the last completed step.
func (a *Agent) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		ID:           a.id,
		Kind:         a.kind,
		State:        a.state,
		Position:     a.pos,
		Velocity:     a.vel,
		Acceleration: a.acc,
		Used:         a.used,
		Travelled:    a.travelled,
		Fitness:      a.fitness,
	}
}

// Step consumes the next genome vector and advances the agent by one move.
// It returns the resulting state. Terminal agents are left untouched.
func (a *Agent) Step() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state.Terminal() {
		return a.state
	}
	if a.used >= a.limit {
		a.terminate(StateExhausted)
		return a.state
	}

	v := a.genome[a.used]
	acc := geometry.ClampNorm(r2.Add(a.acc, v), a.params.AccelLimit)
	vel := r2.Add(a.vel, acc)
	move := geometry.Segment{P1: a.pos, P2: r2.Add(a.pos, vel)}
	a.acc, a.vel = acc, vel

	if a.arena.Blocked(move) {
		a.pos = a.clip(move)
		a.terminate(StateDead)
		return a.state
	}

	a.pos = move.P2
	a.used++
	a.travelled += move.Length()

	switch {
	case a.arena.ReachedGoal(a.pos):
		a.terminate(StateWon)
	case a.used >= a.limit:
		a.terminate(StateExhausted)
	}
	return a.state
}

// clip returns the position just short of the first wall crossing of move.
func (a *Agent) clip(move geometry.Segment) geometry.Vec {
	t, ok := a.arena.FirstCrossing(move)
	if !ok {
		return move.P1
	}
	hit := move.At(t)
	d := geometry.Dist(move.P1, hit)
	if d == 0 {
		return move.P1
	}
	back := math.Min((1-a.params.ClipFraction)*d, a.params.ClipMaxBackoff)
	dir := r2.Unit(r2.Sub(hit, move.P1))
	return r2.Sub(hit, r2.Scale(back, dir))
}

// terminate sets the final state and computes the fitness once.
func (a *Agent) terminate(s State) {
	a.state = s
	a.fitness = a.computeFitness()
}

func (a *Agent) computeFitness() float64 {
	if a.state == StateWon {
		n := float64(a.used)
		return 1.0/16 + 10000/(n*n)
	}

	d, err := a.arena.DistanceToGoal(a.pos)
	if err != nil {
		if !errors.Is(err, visgraph.ErrNoPath) {
			slog.Warn("fitness distance failed", "agent", a.id, "error", err)
		}
		return 0
	}
	if d <= 0 {
		return 0
	}
	return 1 / (d * d)
}

// Run steps the agent until it terminates or ctx is cancelled, pausing delay
// between steps. A non-positive delay runs without pausing. Cancellation is
// only observed between steps.
func (a *Agent) Run(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		for a.Step() == StateAlive {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		return nil
	}

	ticker := time.NewTicker(delay)
	defer ticker.Stop()
	for a.Step() == StateAlive {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
