package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dots/config"
	"github.com/pthm-cable/dots/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output per-generation stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config value, then time-based)")
	maxGenerations := flag.Int("max-generations", 0, "Stop after N generations in headless mode (0 = unlimited)")
	stepDelay := flag.Duration("step-delay", -1, "Pause between agent steps (-1 = config value, 0 in headless mode)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	delay := cfg.Derived.StepDelay
	if *headless {
		delay = 0
	}
	if *stepDelay >= 0 {
		delay = *stepDelay
	}

	opts := game.Options{
		Seed:      *seed,
		LogStats:  *logStats || cfg.Telemetry.LogStats,
		OutputDir: *outputDir,
		Headless:  *headless,
		StepDelay: delay,
	}

	if *headless {
		os.Exit(runHeadless(opts, *maxGenerations))
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Dots")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
}

// runHeadless runs generations without a window until maxGenerations is
// reached or the process is interrupted. It returns the exit code.
func runHeadless(opts game.Options, maxGenerations int) int {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return 1
	}
	defer g.Unload()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	err = g.RunHeadless(ctx, maxGenerations)
	switch {
	case errors.Is(err, context.Canceled):
		slog.Info("interrupted", "generations", g.Generation(), "elapsed", time.Since(start).String())
	case err != nil:
		slog.Error("run failed", "generations", g.Generation(), "error", err)
		return 1
	default:
		slog.Info("max generations reached", "generations", g.Generation(), "elapsed", time.Since(start).String())
	}
	return 0
}
