package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlAction reports which buttons were pressed this frame.
type ControlAction struct {
	StartStop bool
	ResetView bool
}

// ControlsPanel renders the run buttons and the overlay toggle list.
type ControlsPanel struct {
	renderer *Renderer
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), width: width}
}

// Contains reports whether a screen point lies on the panel, so clicks on it
// are not treated as clicks on the arena.
func (c *ControlsPanel) Contains(screenW, screenH int32, overlays *OverlayRegistry, p rl.Vector2) bool {
	return rl.CheckCollisionPointRec(p, c.bounds(screenW, screenH, overlays))
}

func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	t := c.renderer.Theme
	return t.Padding*3 + 30 + t.LineHeight*int32(len(overlays.All())+1)
}

func (c *ControlsPanel) bounds(screenW, screenH int32, overlays *OverlayRegistry) rl.Rectangle {
	h := c.height(overlays)
	return rl.Rectangle{
		X:      float32(screenW - c.width - 10),
		Y:      float32(screenH - h - 35),
		Width:  float32(c.width),
		Height: float32(h),
	}
}

// Draw renders the panel in the bottom-right corner and returns the buttons
// pressed this frame.
func (c *ControlsPanel) Draw(screenW, screenH int32, running bool, overlays *OverlayRegistry) ControlAction {
	r := c.renderer
	b := c.bounds(screenW, screenH, overlays)
	x, y := int32(b.X), int32(b.Y)
	padding := r.Theme.Padding

	r.DrawPanel(x, y, c.width, int32(b.Height))

	var action ControlAction
	btnW := float32(c.width-padding*3) / 2
	if gui.Button(rl.Rectangle{X: b.X + float32(padding), Y: b.Y + float32(padding), Width: btnW, Height: 30}, toggleText(running, "Stop", "Start")) {
		action.StartStop = true
	}
	if gui.Button(rl.Rectangle{X: b.X + float32(padding*2) + btnW, Y: b.Y + float32(padding), Width: btnW, Height: 30}, "Reset View") {
		action.ResetView = true
	}

	y += padding*2 + 30
	y = r.DrawSectionHeader(x+padding, y, "Overlays")
	for _, desc := range overlays.All() {
		c.drawToggle(x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
		y += r.Theme.LineHeight
	}
	return action
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 180, G: 180, B: 180, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 180, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = r.Theme.ValueColor
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		if desc.Hold {
			keyText = fmt.Sprintf("[hold %s]", desc.KeyLabel)
		}
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Gray)
	}
}

// DrawLegend renders the dot colour legend in the bottom-left corner.
func DrawLegend(screenH int32) {
	r := NewRenderer()
	x, y := int32(10), screenH-35-r.Theme.LineHeight*6-r.Theme.Padding*2
	r.DrawPanel(x, y, 130, r.Theme.LineHeight*6+r.Theme.Padding*2)
	x += r.Theme.Padding
	y += r.Theme.Padding
	y = r.DrawColorSwatch(x, y, "alive", ColorAlive)
	y = r.DrawColorSwatch(x, y, "champion", ColorChampion)
	y = r.DrawColorSwatch(x, y, "won", ColorWon)
	y = r.DrawColorSwatch(x, y, "dead", ColorDead)
	y = r.DrawColorSwatch(x, y, "exhausted", ColorExhausted)
	rl.DrawCircleLines(x+6, y+7, 5, ColorGoal)
	rl.DrawText("goal", x+18, y, r.Theme.FontSize, r.Theme.LabelColor)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
