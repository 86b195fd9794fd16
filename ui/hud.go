package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title           string
	Generation      int
	Size            int
	Won             int
	Exhausted       int
	Dead            int
	MaxGenomeLength int
	Running         bool
	FPS             int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the counters in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.Black)

	rl.DrawText(
		fmt.Sprintf("Gen: %d | Won: %d | Exh: %d | Dead: %d", data.Generation, data.Won, data.Exhausted, data.Dead),
		10, 35, 16, rl.DarkGray,
	)
	rl.DrawText(
		fmt.Sprintf("Dots: %d | Genome cap: %d | FPS: %d", data.Size, data.MaxGenomeLength, data.FPS),
		10, 55, 16, rl.DarkGray,
	)

	status := "Click to start"
	color := rl.Maroon
	if data.Running {
		status = "Running"
		color = rl.DarkGreen
	}
	rl.DrawText(status, 10, 75, 16, color)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// GenerationPanelData summarizes the last completed generation.
type GenerationPanelData struct {
	Generation  int
	WinRate     float64
	BestFitness float64
	MeanFitness float64
	ShortestWin int
	GenomeCap   int
	GenomeLimit int // configured genome length
}

// GenerationPanel renders statistics of the last completed generation.
type GenerationPanel struct {
	renderer *Renderer
	width    int32
}

// NewGenerationPanel creates a panel of the given width.
func NewGenerationPanel(width int32) *GenerationPanel {
	return &GenerationPanel{renderer: NewRenderer(), width: width}
}

// Draw renders the panel anchored to the top-right corner.
func (p *GenerationPanel) Draw(screenWidth int32, data GenerationPanelData) {
	r := p.renderer
	padding := r.Theme.Padding
	x := screenWidth - p.width - 10
	y := int32(10)

	r.DrawPanel(x, y, p.width, r.Theme.LineHeight*7+padding*2)
	y += padding
	y = r.DrawSectionHeader(x+padding, y, fmt.Sprintf("Generation %d", data.Generation))
	y = r.DrawBar(x+padding, y, "Win rate", float32(data.WinRate), p.width-padding*2)

	capRatio := float32(0)
	if data.GenomeLimit > 0 {
		capRatio = float32(data.GenomeCap) / float32(data.GenomeLimit)
	}
	y = r.DrawBar(x+padding, y, "Genome cap", capRatio, p.width-padding*2)
	y = r.DrawLabelValue(x+padding, y, "Best fitness", fmt.Sprintf("%.3g", data.BestFitness))
	y = r.DrawLabelValue(x+padding, y, "Mean fitness", fmt.Sprintf("%.3g", data.MeanFitness))

	shortest := "-"
	if data.ShortestWin > 0 {
		shortest = fmt.Sprintf("%d steps", data.ShortestWin)
	}
	r.DrawLabelValue(x+padding, y, "Shortest win", shortest)
}

// SelectionData describes the dot picked with the right mouse button.
type SelectionData struct {
	ID        int
	Kind      string
	State     string
	Used      int
	Travelled float64
	Fitness   float64
	X, Y      float64
}

// DrawSelection renders details of the selected dot below the HUD counters.
func (h *HUD) DrawSelection(data SelectionData) {
	r := h.renderer
	x, y := int32(10), int32(100)
	width := int32(220)

	r.DrawPanel(x, y, width, r.Theme.LineHeight*7+r.Theme.Padding*2)
	y += r.Theme.Padding
	x += r.Theme.Padding
	y = r.DrawSectionHeader(x, y, fmt.Sprintf("Dot #%d (%s)", data.ID, data.Kind))
	y = r.DrawLabelValue(x, y, "State", data.State)
	y = r.DrawLabelValue(x, y, "Position", fmt.Sprintf("%.1f, %.1f", data.X, data.Y))
	y = r.DrawLabelValue(x, y, "Steps", fmt.Sprintf("%d", data.Used))
	y = r.DrawLabelValue(x, y, "Travelled", fmt.Sprintf("%.1f", data.Travelled))
	r.DrawLabelValue(x, y, "Fitness", fmt.Sprintf("%.3g", data.Fitness))
}
