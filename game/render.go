package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dots/agent"
	"github.com/pthm-cable/dots/components"
	"github.com/pthm-cable/dots/geometry"
	"github.com/pthm-cable/dots/ui"
)

const controlsHelp = "Click: start | Space: start/stop | G: graph | Ctrl: route | V: velocity | L: legend | Wheel/+/-: zoom | Arrows: pan | Home: reset | Right-click: select"

// toScreen converts an arena point to screen coordinates.
func (g *Game) toScreen(p geometry.Vec) rl.Vector2 {
	x, y := g.cam.WorldToScreen(float32(p.X), float32(p.Y))
	return rl.Vector2{X: x, Y: y}
}

// rectToScreen converts an arena rectangle to a screen rectangle.
func (g *Game) rectToScreen(r geometry.Rect) rl.Rectangle {
	tl := g.toScreen(r.TopLeft())
	return rl.Rectangle{
		X:      tl.X,
		Y:      tl.Y,
		Width:  g.cam.ScaleToScreen(float32(r.Width())),
		Height: g.cam.ScaleToScreen(float32(r.Height())),
	}
}

// drawArena draws the allowed area, walls, start and goal.
func (g *Game) drawArena() {
	rl.DrawRectangleLinesEx(g.rectToScreen(g.arena.Allowed()), 1, rl.LightGray)

	for _, w := range g.arena.SurroundingWalls() {
		rl.DrawRectangleRec(g.rectToScreen(w), ui.ColorWall)
	}
	for _, w := range g.arena.CustomWalls() {
		rl.DrawRectangleRec(g.rectToScreen(w), ui.ColorWall)
	}

	goal := g.toScreen(g.arena.Goal())
	rl.DrawCircleLines(int32(goal.X), int32(goal.Y), g.cam.ScaleToScreen(float32(g.arena.GoalTolerance())), ui.ColorGoal)
	rl.DrawCircleV(goal, 4, ui.ColorGoal)

	start := g.toScreen(g.arena.Start())
	rl.DrawCircleLines(int32(start.X), int32(start.Y), 6, rl.Gray)
}

// dotColor picks the colour for a dot from its kind and state.
func dotColor(dot *components.Dot) rl.Color {
	switch dot.State {
	case agent.StateWon:
		return ui.ColorWon
	case agent.StateDead:
		return ui.ColorDead
	case agent.StateExhausted:
		return ui.ColorExhausted
	}
	if dot.Kind == agent.KindChampion {
		return ui.ColorChampion
	}
	return ui.ColorAlive
}

// drawDots draws every dot, with the champion drawn last so it stays on top.
func (g *Game) drawDots() {
	var champ *components.Dot
	var champPos components.Position

	query := g.dotFilter.Query()
	for query.Next() {
		pos, _, dot := query.Get()
		if dot.Kind == agent.KindChampion {
			champ, champPos = dot, *pos
			continue
		}
		if !g.cam.IsVisible(pos.X, pos.Y, dot.Radius()) {
			continue
		}
		g.drawDot(pos, dot)
	}
	if champ != nil {
		g.drawDot(&champPos, champ)
	}

	if g.hasSelection && g.world.Alive(g.selectedEntity) && g.dotMap.Has(g.selectedEntity) {
		pos := g.posMap.Get(g.selectedEntity)
		dot := g.dotMap.Get(g.selectedEntity)
		sx, sy := g.cam.WorldToScreen(pos.X, pos.Y)
		rl.DrawCircleLines(int32(sx), int32(sy), max(g.cam.ScaleToScreen(dot.Radius()), 3)+4, rl.Magenta)
	}
}

func (g *Game) drawDot(pos *components.Position, dot *components.Dot) {
	sx, sy := g.cam.WorldToScreen(pos.X, pos.Y)
	r := max(g.cam.ScaleToScreen(dot.Radius()), 2)
	rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, r, dotColor(dot))
}

// drawHUD draws counters, the generation panel, the controls and the legend.
func (g *Game) drawHUD() {
	stats := g.currentStats()
	sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())

	g.hud.Draw(ui.HUDData{
		Title:           "Dots",
		Generation:      stats.Generation,
		Size:            stats.Size,
		Won:             stats.Won,
		Exhausted:       stats.Exhausted,
		Dead:            stats.Dead,
		MaxGenomeLength: stats.MaxGenomeLength,
		Running:         g.pop.Running(),
		FPS:             rl.GetFPS(),
	})

	g.statsMu.Lock()
	last := g.lastGen
	g.statsMu.Unlock()
	if last != nil {
		g.genPanel.Draw(sw, ui.GenerationPanelData{
			Generation:  last.Generation,
			WinRate:     last.WinRate,
			BestFitness: last.BestFitness,
			MeanFitness: last.MeanFitness,
			ShortestWin: last.ShortestWin,
			GenomeCap:   last.MaxGenomeLength,
			GenomeLimit: g.cfg.Population.GenomeLength,
		})
	}

	g.drawSelection()

	if g.overlays.IsVisible(ui.OverlayLegend) {
		ui.DrawLegend(sh)
	}

	action := g.controls.Draw(sw, sh, g.pop.Running(), g.overlays)
	if action.StartStop {
		g.toggleRun()
	}
	if action.ResetView {
		g.cam.Reset()
	}

	g.hud.DrawControls(sh, controlsHelp)
}
