package game

import (
	"github.com/pthm-cable/dots/agent"
	"github.com/pthm-cable/dots/components"
)

// spawnDots creates one entity per agent of the current generation. The
// population size is fixed, so the entities are reused across generations.
func (g *Game) spawnDots() {
	snaps := g.pop.Snapshots()
	gen := g.pop.Stats().Generation
	g.dots = g.dots[:0]
	for i, s := range snaps {
		pos := components.Position{X: float32(s.Position.X), Y: float32(s.Position.Y)}
		vel := components.Velocity{X: float32(s.Velocity.X), Y: float32(s.Velocity.Y)}
		dot := components.Dot{Index: i, Generation: gen, Kind: s.Kind, State: s.State}
		g.dots = append(g.dots, g.dotMapper.NewEntity(&pos, &vel, &dot))
	}
}

// syncDots copies the latest agent snapshots into the scene.
func (g *Game) syncDots() {
	snaps := g.pop.Snapshots()
	gen := g.currentStats().Generation

	query := g.dotFilter.Query()
	for query.Next() {
		pos, vel, dot := query.Get()
		if dot.Index >= len(snaps) {
			continue
		}
		s := snaps[dot.Index]
		pos.X, pos.Y = float32(s.Position.X), float32(s.Position.Y)
		vel.X, vel.Y = float32(s.Velocity.X), float32(s.Velocity.Y)
		dot.Generation = gen
		dot.Kind = s.Kind
		dot.State = s.State
		dot.Used = s.Used
		dot.Fitness = float32(s.Fitness)
	}
}

// snapshotOf returns the agent snapshot behind a scene entity.
func (g *Game) snapshotOf(dot *components.Dot) (agent.Snapshot, bool) {
	agents := g.pop.Agents()
	if dot.Index < 0 || dot.Index >= len(agents) {
		return agent.Snapshot{}, false
	}
	return agents[dot.Index].Snapshot(), true
}
