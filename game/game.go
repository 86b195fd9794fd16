// Package game wires the population to a raylib viewer and to telemetry
// output, and runs it either windowed or headless.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/dots/arena"
	"github.com/pthm-cable/dots/camera"
	"github.com/pthm-cable/dots/components"
	"github.com/pthm-cable/dots/config"
	"github.com/pthm-cable/dots/geometry"
	"github.com/pthm-cable/dots/population"
	"github.com/pthm-cable/dots/telemetry"
	"github.com/pthm-cable/dots/ui"
)

// Viewer constants
const (
	viewMargin      = 20   // pixels kept around the arena at the fitted zoom
	perfLogInterval = 600  // frames between perf log records
	panSpeed        = 8    // pixels per frame for keyboard panning
	zoomStep        = 1.1  // zoom factor per wheel notch or key press
	selectRadiusPx  = 12.0 // max pixel distance for right-click selection
)

// Options configures a game instance.
type Options struct {
	Seed      int64         // overrides population.seed when non-zero
	LogStats  bool          // log per-generation stats via slog
	OutputDir string        // CSV and config snapshot directory (empty = disabled)
	Headless  bool          // no window; Draw and Update must not be called
	StepDelay time.Duration // pause between agent steps; 0 runs flat out
}

// Game holds the population, its telemetry sinks and the viewer scene.
type Game struct {
	cfg   *config.Config
	arena *arena.Arena
	pop   *population.Population

	// Scene mirror of the current generation, one entity per agent slot
	world     *ecs.World
	dotMapper *ecs.Map3[components.Position, components.Velocity, components.Dot]
	dotFilter *ecs.Filter3[components.Position, components.Velocity, components.Dot]
	posMap    *ecs.Map[components.Position]
	dotMap    *ecs.Map[components.Dot]
	dots      []ecs.Entity

	// Static overlays, computed once from the start position
	visEdges []geometry.Segment
	route    []geometry.Segment

	// Viewer
	cam      *camera.Camera
	overlays *ui.OverlayRegistry
	hud      *ui.HUD
	genPanel *ui.GenerationPanel
	controls *ui.ControlsPanel

	selectedEntity ecs.Entity
	hasSelection   bool

	// Telemetry
	perf          *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool

	// Written from the population goroutine
	statsMu sync.Mutex
	stats   population.Stats
	lastGen *telemetry.GenerationStats

	frame    int
	headless bool
}

// NewGameWithOptions builds the arena and population from the global config
// and hooks telemetry into the generation loop.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	popOpts := population.OptionsFromConfig(cfg)
	popOpts.StepDelay = opts.StepDelay
	if opts.Seed != 0 {
		popOpts.Seed = opts.Seed
	}

	a := arena.FromConfig(cfg.Arena)
	g := &Game{
		cfg:      cfg,
		arena:    a,
		pop:      population.New(a, popOpts),
		perf:     telemetry.NewPerfCollector(120),
		logStats: opts.LogStats,
		headless: opts.Headless,
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir, cfg.Telemetry.ChampionsCSV)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if om != nil {
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			return nil, err
		}
	}

	g.pop.OnStats = g.onStats
	g.pop.OnGeneration = g.onGeneration
	g.stats = g.pop.Stats()

	if !opts.Headless {
		g.initScene()
	}
	return g, nil
}

// initScene prepares everything the viewer needs. Called only with a window.
func (g *Game) initScene() {
	g.world = ecs.NewWorld()
	g.dotMapper = ecs.NewMap3[components.Position, components.Velocity, components.Dot](g.world)
	g.dotFilter = ecs.NewFilter3[components.Position, components.Velocity, components.Dot](g.world)
	g.posMap = ecs.NewMap[components.Position](g.world)
	g.dotMap = ecs.NewMap[components.Dot](g.world)
	g.spawnDots()

	vg := g.arena.Graph(g.arena.Start())
	g.visEdges = vg.Edges()
	if route, err := vg.ShortestRouteEdges(); err == nil {
		g.route = route
	} else {
		slog.Warn("no route from start to goal", "error", err)
	}

	minX, minY, maxX, maxY := g.worldBounds()
	g.cam = camera.New(g.cfg.Derived.ScreenW32, g.cfg.Derived.ScreenH32, minX, minY, maxX, maxY, viewMargin)

	g.overlays = ui.NewOverlayRegistry()
	g.hud = ui.NewHUD()
	g.genPanel = ui.NewGenerationPanel(240)
	g.controls = ui.NewControlsPanel(240)
}

// worldBounds returns the arena extent including the surrounding walls.
func (g *Game) worldBounds() (minX, minY, maxX, maxY float32) {
	r := g.arena.Allowed()
	minX, minY = float32(r.Left()), float32(r.Top())
	maxX, maxY = float32(r.Right()), float32(r.Bottom())
	for _, w := range g.arena.Obstacles() {
		minX = min(minX, float32(w.Left()))
		minY = min(minY, float32(w.Top()))
		maxX = max(maxX, float32(w.Right()))
		maxY = max(maxY, float32(w.Bottom()))
	}
	return minX, minY, maxX, maxY
}

// Population returns the simulated population.
func (g *Game) Population() *population.Population { return g.pop }

// Generation returns the number of completed generations.
func (g *Game) Generation() int {
	return g.currentStats().Generation
}

func (g *Game) currentStats() population.Stats {
	g.statsMu.Lock()
	defer g.statsMu.Unlock()
	return g.stats
}

// RunHeadless runs maxGenerations generations synchronously (0 = until ctx
// is cancelled).
func (g *Game) RunHeadless(ctx context.Context, maxGenerations int) error {
	slog.Info("starting headless run",
		"size", g.cfg.Population.Size,
		"genome_length", g.cfg.Population.GenomeLength,
		"max_generations", maxGenerations,
	)
	return g.pop.Run(ctx, maxGenerations)
}

// Update handles input for one frame.
func (g *Game) Update() {
	g.handleInput()
}

// Unload stops a background run and flushes telemetry.
func (g *Game) Unload() {
	g.pop.Stop()
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
	if g.logStats && g.perf.Frames() > 0 {
		g.perf.Stats().LogStats()
	}
}

// Draw renders one frame.
func (g *Game) Draw() {
	g.perf.StartFrame()
	g.cam.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()), viewMargin)

	g.perf.StartPhase(telemetry.PhaseSync)
	g.syncDots()

	rl.BeginDrawing()
	rl.ClearBackground(rl.RayWhite)

	g.perf.StartPhase(telemetry.PhaseWorld)
	g.drawArena()
	g.drawDots()

	g.perf.StartPhase(telemetry.PhaseOverlay)
	g.drawOverlays()

	g.perf.StartPhase(telemetry.PhaseHUD)
	g.drawHUD()

	rl.EndDrawing()
	g.perf.EndFrame()

	g.frame++
	if g.logStats && g.frame%perfLogInterval == 0 {
		g.perf.Stats().LogStats()
	}
}
