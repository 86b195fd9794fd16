// Distance field preview tool - shows the obstacle-avoiding distance to the
// goal over the whole arena, which is what non-winning dots are scored on.
//
// Usage: go run ./cmd/fieldpreview [-config config.yaml] [-out field.png]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/dots/arena"
	"github.com/pthm-cable/dots/config"
	"github.com/pthm-cable/dots/geometry"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 640
	panelWidth   = windowWidth - previewSize - 30
)

// FieldParams holds the preview settings.
type FieldParams struct {
	GoalX, GoalY float32
	Resolution   int
	Fitness      bool // shade by 1/d² instead of d
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "field.png", "PNG path used by the Export button")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()
	base := arena.FromConfig(cfg.Arena)
	allowed := base.Allowed()

	rl.InitWindow(windowWidth, windowHeight, "Distance Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	defaults := FieldParams{
		GoalX:      float32(cfg.Arena.Goal.X),
		GoalY:      float32(cfg.Arena.Goal.Y),
		Resolution: 96,
	}
	params := defaults

	var field []float64
	var texture rl.Texture2D
	var current *arena.Arena
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			current = base.WithGoal(geometry.Vec{X: float64(params.GoalX), Y: float64(params.GoalY)})
			field = current.DistanceField(params.Resolution, params.Resolution)
			if texture.ID != 0 {
				rl.UnloadTexture(texture)
			}
			texture = fieldTexture(field, params.Resolution, params.Fitness)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		dst := rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize}
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(params.Resolution), Height: float32(params.Resolution)},
			dst,
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		drawWalls(current, dst)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Readout under the cursor
		mouse := rl.GetMousePosition()
		if rl.CheckCollisionPointRec(mouse, dst) {
			col := int((mouse.X - dst.X) / dst.Width * float32(params.Resolution))
			row := int((mouse.Y - dst.Y) / dst.Height * float32(params.Resolution))
			if col >= 0 && col < params.Resolution && row >= 0 && row < params.Resolution {
				p := current.CellCenter(col, row, params.Resolution, params.Resolution)
				rl.DrawText(fmt.Sprintf("(%.0f, %.0f)  d = %s", p.X, p.Y, formatDist(field[row*params.Resolution+col])),
					15, previewSize+20, 16, rl.DarkGray)
			}
		}

		finite := finiteValues(field)
		if len(finite) > 0 {
			rl.DrawText(fmt.Sprintf("Reachable: %d/%d cells  Max d: %.0f", len(finite), len(field), floats.Max(finite)),
				15, previewSize+45, 16, rl.DarkGray)
		}

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Distance Field", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Goal X", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newGoalX := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"", "",
			params.GoalX, float32(allowed.Left()), float32(allowed.Right()),
		)
		rl.DrawText(fmt.Sprintf("%.0f", params.GoalX), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newGoalX != params.GoalX {
			params.GoalX = newGoalX
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Goal Y", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newGoalY := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"", "",
			params.GoalY, float32(allowed.Top()), float32(allowed.Bottom()),
		)
		rl.DrawText(fmt.Sprintf("%.0f", params.GoalY), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newGoalY != params.GoalY {
			params.GoalY = newGoalY
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Resolution (cells per side)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newRes := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"16", "256",
			float32(params.Resolution), 16, 256,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Resolution), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newRes) != params.Resolution {
			params.Resolution = int(newRes)
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(params.Fitness, "Show distance", "Show fitness")) {
			params.Fitness = !params.Fitness
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Export PNG") {
			exportField(field, params.Resolution, params.Fitness, *outPath)
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yamlText := fmt.Sprintf("arena:\n  goal:\n    x: %.0f\n    y: %.0f", params.GoalX, params.GoalY)
		rl.DrawText(yamlText, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yamlText)
		}

		rl.EndDrawing()
	}

	if texture.ID != 0 {
		rl.UnloadTexture(texture)
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func formatDist(d float64) string {
	if math.IsInf(d, 1) {
		return "unreachable"
	}
	return fmt.Sprintf("%.1f", d)
}

// drawWalls outlines the arena obstacles over the preview rectangle.
func drawWalls(a *arena.Arena, dst rl.Rectangle) {
	allowed := a.Allowed()
	sx := dst.Width / float32(allowed.Width())
	sy := dst.Height / float32(allowed.Height())
	for _, w := range a.CustomWalls() {
		rl.DrawRectangleLinesEx(rl.Rectangle{
			X:      dst.X + float32(w.Left()-allowed.Left())*sx,
			Y:      dst.Y + float32(w.Top()-allowed.Top())*sy,
			Width:  float32(w.Width()) * sx,
			Height: float32(w.Height()) * sy,
		}, 1, rl.Black)
	}
	g := a.Goal()
	rl.DrawCircleLines(
		int32(dst.X+float32(g.X-allowed.Left())*sx),
		int32(dst.Y+float32(g.Y-allowed.Top())*sy),
		float32(a.GoalTolerance())*sx,
		rl.Red,
	)
}

func finiteValues(field []float64) []float64 {
	out := make([]float64, 0, len(field))
	for _, v := range field {
		if !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// shade maps the field to [0, 1], 1 being closest to the goal. Unreachable
// cells map to -1.
func shade(field []float64, fitness bool) []float32 {
	out := make([]float32, len(field))
	finite := finiteValues(field)
	maxD := 1.0
	if len(finite) > 0 {
		maxD = math.Max(floats.Max(finite), 1)
	}
	for i, d := range field {
		switch {
		case math.IsInf(d, 1):
			out[i] = -1
		case fitness:
			// log scale, 1/d² spans many orders of magnitude
			out[i] = float32(1 - math.Log1p(d)/math.Log1p(maxD))
		default:
			out[i] = float32(1 - d/maxD)
		}
	}
	return out
}

func fieldPixels(field []float64, size int, fitness bool) []color.RGBA {
	pixels := make([]color.RGBA, size*size)
	for i, v := range shade(field, fitness) {
		if v < 0 {
			pixels[i] = color.RGBA{R: 40, G: 40, B: 40, A: 255}
			continue
		}
		// Dark blue -> cyan -> yellow
		var r, g, b uint8
		if v < 0.5 {
			t := v / 0.5
			r = uint8(10 + t*50)
			g = uint8(20 + t*180)
			b = uint8(80 + t*120)
		} else {
			t := (v - 0.5) / 0.5
			r = uint8(60 + t*195)
			g = uint8(200 + t*40)
			b = uint8(200 - t*170)
		}
		pixels[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return pixels
}

func fieldTexture(field []float64, size int, fitness bool) rl.Texture2D {
	img := rl.GenImageColor(size, size, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.UpdateTexture(texture, fieldPixels(field, size, fitness))
	return texture
}

// exportField writes the shaded field to a PNG file.
func exportField(field []float64, size int, fitness bool, path string) {
	img := rl.GenImageColor(size, size, rl.Black)
	defer rl.UnloadImage(img)
	for i, c := range fieldPixels(field, size, fitness) {
		rl.ImageDrawPixel(img, int32(i%size), int32(i/size), c)
	}
	if !rl.ExportImage(*img, path) {
		log.Printf("failed to export %s", path)
		return
	}
	log.Printf("exported %s", path)
}
