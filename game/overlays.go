package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dots/agent"
	"github.com/pthm-cable/dots/geometry"
	"github.com/pthm-cable/dots/ui"
)

// drawOverlays draws the enabled debug overlays on top of the arena.
func (g *Game) drawOverlays() {
	if g.overlays.IsVisible(ui.OverlayVisibilityGraph) {
		g.drawSegments(g.visEdges, 1, ui.ColorGraph)
	}
	if g.overlays.IsVisible(ui.OverlayShortestRoute) {
		g.drawSegments(g.route, 3, ui.ColorRoute)
	}
	if g.overlays.IsVisible(ui.OverlayVelocity) {
		g.drawVelocities()
	}
}

func (g *Game) drawSegments(segs []geometry.Segment, thick float32, color rl.Color) {
	for _, s := range segs {
		rl.DrawLineEx(g.toScreen(s.P1), g.toScreen(s.P2), thick, color)
	}
}

// drawVelocities draws the velocity vector of every live dot, scaled to the
// distance covered in one step.
func (g *Game) drawVelocities() {
	query := g.dotFilter.Query()
	for query.Next() {
		pos, vel, dot := query.Get()
		if dot.State != agent.StateAlive {
			continue
		}
		sx, sy := g.cam.WorldToScreen(pos.X, pos.Y)
		ex, ey := g.cam.WorldToScreen(pos.X+vel.X, pos.Y+vel.Y)
		rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: ex, Y: ey}, rl.SkyBlue)
	}
}
