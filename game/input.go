package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.toggleRun()
	}

	g.overlays.HandleInput()

	sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	mouse := rl.GetMousePosition()
	overPanel := g.controls.Contains(sw, sh, g.overlays, mouse)

	// A click anywhere on the arena starts the run
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && !overPanel {
		g.startRun()
	}

	if rl.IsMouseButtonPressed(rl.MouseRightButton) && !overPanel {
		if e, ok := g.findDotAt(mouse); ok {
			g.selectedEntity = e
			g.hasSelection = true
		} else {
			g.hasSelection = false
		}
	}

	g.handleCameraInput()
}

// handleCameraInput processes camera pan and zoom controls.
func (g *Game) handleCameraInput() {
	if rl.IsKeyDown(rl.KeyRight) {
		g.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.cam.Pan(0, -panSpeed)
	}

	if rl.IsMouseButtonDown(rl.MouseMiddleButton) {
		d := rl.GetMouseDelta()
		g.cam.Pan(-d.X, -d.Y)
	}

	wheel := rl.GetMouseWheelMove()
	if wheel > 0 {
		g.cam.ZoomBy(zoomStep)
	} else if wheel < 0 {
		g.cam.ZoomBy(1 / zoomStep)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.cam.ZoomBy(zoomStep)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.cam.ZoomBy(1 / zoomStep)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.cam.Reset()
	}
}

// startRun starts the population if it is idle.
func (g *Game) startRun() {
	g.pop.StartRun()
}

// toggleRun starts an idle population or stops a running one. Stopping
// resets the current generation to its start positions.
func (g *Game) toggleRun() {
	if g.pop.Running() {
		go g.pop.Stop()
		return
	}
	g.pop.StartRun()
}
