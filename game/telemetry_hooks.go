package game

import (
	"log/slog"

	"github.com/pthm-cable/dots/population"
	"github.com/pthm-cable/dots/telemetry"
)

// onStats records the latest counters for the HUD.
func (g *Game) onStats(s population.Stats) {
	g.statsMu.Lock()
	g.stats = s
	g.statsMu.Unlock()
}

// onGeneration aggregates a finished generation and hands it to the enabled
// telemetry sinks.
func (g *Game) onGeneration(r population.GenerationResult) {
	stats := telemetry.FromGeneration(r)

	g.statsMu.Lock()
	g.lastGen = &stats
	g.statsMu.Unlock()

	if g.logStats {
		stats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteGeneration(stats); err != nil {
			slog.Error("failed to write generation", "error", err)
		}
		if err := g.outputManager.WriteChampion(telemetry.ChampionSteps(r)); err != nil {
			slog.Error("failed to write champion", "error", err)
		}
	}
}
