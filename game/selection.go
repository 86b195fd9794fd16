package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/dots/ui"
)

// findDotAt returns the dot closest to a screen point, if one is within
// selectRadiusPx pixels.
func (g *Game) findDotAt(p rl.Vector2) (ecs.Entity, bool) {
	var closest ecs.Entity
	closestDist := float32(selectRadiusPx)
	found := false

	query := g.dotFilter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, _, _ := query.Get()

		sx, sy := g.cam.WorldToScreen(pos.X, pos.Y)
		dist := float32(math.Hypot(float64(sx-p.X), float64(sy-p.Y)))
		if dist < closestDist {
			closestDist = dist
			closest = entity
			found = true
		}
	}
	return closest, found
}

// drawSelection shows details of the selected dot.
func (g *Game) drawSelection() {
	if !g.hasSelection || !g.world.Alive(g.selectedEntity) || !g.dotMap.Has(g.selectedEntity) {
		g.hasSelection = false
		return
	}

	s, ok := g.snapshotOf(g.dotMap.Get(g.selectedEntity))
	if !ok {
		return
	}
	g.hud.DrawSelection(ui.SelectionData{
		ID:        s.ID,
		Kind:      s.Kind.String(),
		State:     s.State.String(),
		Used:      s.Used,
		Travelled: s.Travelled,
		Fitness:   s.Fitness,
		X:         s.Position.X,
		Y:         s.Position.Y,
	})
}
