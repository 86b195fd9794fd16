// Package population runs generations of agents concurrently and breeds
// each new generation from the finished one by elitist roulette selection.
package population

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/dots/agent"
	"github.com/pthm-cable/dots/arena"
	"github.com/pthm-cable/dots/config"
)

// ErrNoFitness is returned when every agent of a generation has zero
// fitness, leaving nothing to select parents from.
var ErrNoFitness = errors.New("population: total fitness is zero")

// Options configures a population.
type Options struct {
	Size         int
	GenomeLength int
	MutationRate float64
	StepDelay    time.Duration // Pause between agent steps; 0 runs flat out
	Continuous   bool          // StartRun keeps breeding until stopped
	Seed         int64         // 0 = time-based
	Params       agent.Params
}

// OptionsFromConfig builds options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Size:         cfg.Population.Size,
		GenomeLength: cfg.Population.GenomeLength,
		MutationRate: cfg.Population.MutationRate,
		StepDelay:    cfg.Derived.StepDelay,
		Continuous:   cfg.Population.Continuous,
		Seed:         cfg.Population.Seed,
		Params:       agent.ParamsFromConfig(cfg.Agent),
	}
}

// Stats is a snapshot of the generation counters.
type Stats struct {
	Generation      int
	Size            int
	Won             int
	Exhausted       int
	Dead            int
	Finished        int
	MaxGenomeLength int
	Running         bool
}

// GenerationResult describes a generation after its barrier.
type GenerationResult struct {
	Generation      int
	Won             int
	Exhausted       int
	Dead            int
	MaxGenomeLength int // cap applied to the next generation
	Agents          []agent.Snapshot
	Champion        int // index into Agents
	ChampionGenome  agent.Genome
}

// Population owns the current generation of agents.
//
// OnStats and OnGeneration must be set before the first run. OnStats fires
// whenever a counter changes; OnGeneration fires once per completed
// generation. Both are called from the goroutine running the generation.
type Population struct {
	arena *arena.Arena
	opts  Options

	OnStats      func(Stats)
	OnGeneration func(GenerationResult)

	// genMu serializes generations and guards rng.
	genMu sync.Mutex
	rng   *rand.Rand

	mu              sync.RWMutex
	agents          []*agent.Agent
	generation      int
	won             int
	exhausted       int
	dead            int
	finished        int
	maxGenomeLength int

	ctlMu   sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running atomic.Bool
	lastErr error
}

// New creates generation 0 with random genomes of opts.GenomeLength.
func New(a *arena.Arena, opts Options) *Population {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	p := &Population{
		arena:           a,
		opts:            opts,
		rng:             rand.New(rand.NewSource(seed)),
		maxGenomeLength: opts.GenomeLength,
	}
	p.agents = make([]*agent.Agent, opts.Size)
	for i := range p.agents {
		g := agent.RandomGenome(p.rng, opts.GenomeLength)
		p.agents[i] = agent.New(i, a, g, p.maxGenomeLength, agent.KindRegular, opts.Params)
	}
	return p
}

// Arena returns the arena the agents move in.
func (p *Population) Arena() *arena.Arena { return p.arena }

// Agents returns the agents of the current generation.
func (p *Population) Agents() []*agent.Agent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*agent.Agent(nil), p.agents...)
}

// Snapshots returns the observable state of every current agent.
func (p *Population) Snapshots() []agent.Snapshot {
	agents := p.Agents()
	out := make([]agent.Snapshot, len(agents))
	for i, ag := range agents {
		out[i] = ag.Snapshot()
	}
	return out
}

// Stats returns the current counters.
func (p *Population) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.statsLocked()
}

func (p *Population) statsLocked() Stats {
	return Stats{
		Generation:      p.generation,
		Size:            len(p.agents),
		Won:             p.won,
		Exhausted:       p.exhausted,
		Dead:            p.dead,
		Finished:        p.finished,
		MaxGenomeLength: p.maxGenomeLength,
		Running:         p.running.Load(),
	}
}

// MaxGenomeLength returns the genome cap of the current generation.
func (p *Population) MaxGenomeLength() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.maxGenomeLength
}

func (p *Population) emitStats() {
	if p.OnStats != nil {
		p.OnStats(p.Stats())
	}
}

// record counts one finished agent.
func (p *Population) record(s agent.State) {
	p.mu.Lock()
	switch s {
	case agent.StateWon:
		p.won++
	case agent.StateExhausted:
		p.exhausted++
	case agent.StateDead:
		p.dead++
	}
	p.finished++
	p.mu.Unlock()
	p.emitStats()
}

// RunGeneration runs every agent of the current generation concurrently,
// waits for all of them to finish, then breeds the next generation.
// If ctx is cancelled the generation is reset to its starting positions and
// ctx's error is returned.
func (p *Population) RunGeneration(ctx context.Context) (GenerationResult, error) {
	p.genMu.Lock()
	defer p.genMu.Unlock()

	p.mu.Lock()
	agents := p.agents
	p.won, p.exhausted, p.dead, p.finished = 0, 0, 0, 0
	p.mu.Unlock()
	p.emitStats()

	g, gctx := errgroup.WithContext(ctx)
	finished := make(chan *agent.Agent, len(agents))
	for _, ag := range agents {
		g.Go(func() error {
			if err := ag.Run(gctx, p.opts.StepDelay); err != nil {
				return err
			}
			finished <- ag
			return nil
		})
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- g.Wait() }()

	for n := 0; n < len(agents); {
		select {
		case ag := <-finished:
			p.record(ag.State())
			n++
		case err := <-waitErr:
			if err != nil {
				p.restart(agents)
				return GenerationResult{}, err
			}
			// every completion is already buffered
			waitErr = nil
		}
	}

	return p.evolve(agents)
}

// restart replaces a partially run generation with fresh agents carrying
// the same genomes.
func (p *Population) restart(agents []*agent.Agent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fresh := make([]*agent.Agent, len(agents))
	for i, ag := range agents {
		fresh[i] = agent.New(i, p.arena, ag.Genome(), p.maxGenomeLength, ag.Kind(), p.opts.Params)
	}
	p.agents = fresh
	p.won, p.exhausted, p.dead, p.finished = 0, 0, 0, 0
}

// evolve evaluates a finished generation and installs its offspring.
func (p *Population) evolve(agents []*agent.Agent) (GenerationResult, error) {
	snaps := make([]agent.Snapshot, len(agents))
	fitness := make([]float64, len(agents))
	shortestWin := -1
	for i, ag := range agents {
		snaps[i] = ag.Snapshot()
		fitness[i] = snaps[i].Fitness
		if snaps[i].State == agent.StateWon && (shortestWin < 0 || snaps[i].Used < shortestWin) {
			shortestWin = snaps[i].Used
		}
	}

	p.mu.Lock()
	if shortestWin >= 0 {
		p.maxGenomeLength = shortestWin
	}
	maxLen := p.maxGenomeLength
	result := GenerationResult{
		Generation:      p.generation,
		Won:             p.won,
		Exhausted:       p.exhausted,
		Dead:            p.dead,
		MaxGenomeLength: maxLen,
		Agents:          snaps,
	}
	p.mu.Unlock()

	next, champ, err := p.breed(agents, fitness, maxLen)
	if err != nil {
		return result, fmt.Errorf("breeding generation %d: %w", result.Generation, err)
	}
	result.Champion = champ
	result.ChampionGenome = agents[champ].UsedVectors()

	p.mu.Lock()
	p.agents = next
	p.generation++
	p.mu.Unlock()

	slog.Info("generation complete",
		"generation", result.Generation,
		"won", result.Won,
		"exhausted", result.Exhausted,
		"dead", result.Dead,
		"max_genome_length", maxLen,
		"best_fitness", fitness[champ],
	)
	if p.OnGeneration != nil {
		p.OnGeneration(result)
	}
	p.emitStats()
	return result, nil
}

// breed builds the next generation: the champion carried over unmutated at
// index 0, followed by mutated offspring of roulette-selected parents.
func (p *Population) breed(prev []*agent.Agent, fitness []float64, maxLen int) ([]*agent.Agent, int, error) {
	if len(prev) == 0 {
		return nil, 0, ErrNoFitness
	}
	total := floats.Sum(fitness)
	if !(total > 0) {
		return nil, 0, ErrNoFitness
	}

	champ := championIndex(fitness)
	next := make([]*agent.Agent, 0, p.opts.Size)
	next = append(next, agent.New(0, p.arena, inherit(prev[champ], maxLen), maxLen, agent.KindChampion, p.opts.Params))

	for i := 1; i < p.opts.Size; i++ {
		parent := rouletteIndex(fitness, p.rng.Float64()*total)
		g := inherit(prev[parent], maxLen)
		g.Mutate(p.rng, p.opts.MutationRate)
		next = append(next, agent.New(i, p.arena, g, maxLen, agent.KindRegular, p.opts.Params))
	}
	return next, champ, nil
}

// Run runs generations synchronously until n generations completed, an
// error occurs, or ctx is cancelled. n <= 0 runs until cancelled.
func (p *Population) Run(ctx context.Context, n int) error {
	for i := 0; n <= 0 || i < n; i++ {
		if _, err := p.RunGeneration(ctx); err != nil {
			return err
		}
	}
	return nil
}

// StartRun starts running the current generation in the background. In
// continuous mode generations keep following each other until Stop. It
// reports false when a run is already in progress.
func (p *Population) StartRun() bool {
	p.ctlMu.Lock()
	defer p.ctlMu.Unlock()
	if p.running.Load() {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.lastErr = nil
	p.running.Store(true)
	go p.loop(ctx, cancel, p.done)
	return true
}

func (p *Population) loop(ctx context.Context, cancel context.CancelFunc, done chan struct{}) {
	var err error
	defer func() {
		cancel()
		p.ctlMu.Lock()
		p.lastErr = err
		p.cancel = nil
		p.running.Store(false)
		p.ctlMu.Unlock()
		p.emitStats()
		close(done)
	}()

	for {
		if _, err = p.RunGeneration(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				slog.Info("run cancelled", "generation", p.Stats().Generation)
				err = nil
			} else {
				slog.Error("run failed", "error", err)
			}
			return
		}
		if !p.opts.Continuous {
			return
		}
	}
}

// Running reports whether a background run is in progress.
func (p *Population) Running() bool {
	return p.running.Load()
}

// Stop cancels the background run and waits for it to wind down.
func (p *Population) Stop() {
	p.ctlMu.Lock()
	cancel, done := p.cancel, p.done
	p.ctlMu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Wait blocks until the background run ends and returns its error, if any.
func (p *Population) Wait() error {
	p.ctlMu.Lock()
	done := p.done
	p.ctlMu.Unlock()
	if done != nil {
		<-done
	}
	p.ctlMu.Lock()
	defer p.ctlMu.Unlock()
	return p.lastErr
}
