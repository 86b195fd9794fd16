// Package ui provides the viewer's panels, widgets and overlay toggles.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	BarBg         rl.Color
	BarFill       rl.Color
	BarFillLow    rl.Color
	BarFillMedium rl.Color
	BarFillHigh   rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 245, G: 245, B: 245, A: 230},
		PanelBorder:    rl.Color{R: 160, G: 160, B: 160, A: 255},
		SectionHeader:  rl.DarkBlue,
		LabelColor:     rl.DarkGray,
		ValueColor:     rl.Black,
		BarBg:          rl.Color{R: 210, G: 210, B: 210, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		BarFillLow:     rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillMedium:  rl.Color{R: 200, G: 180, B: 100, A: 255},
		BarFillHigh:    rl.Color{R: 100, G: 180, B: 100, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// Dot colours by life-cycle state.
var (
	ColorAlive     = rl.Black
	ColorChampion  = rl.Blue
	ColorWon       = rl.DarkGreen
	ColorDead      = rl.Color{R: 139, G: 0, B: 0, A: 255}
	ColorExhausted = rl.Gray
	ColorWall      = rl.DarkGray
	ColorGoal      = rl.Color{R: 0, G: 160, B: 60, A: 255}
	ColorGraph     = rl.Color{R: 120, G: 120, B: 200, A: 90}
	ColorRoute     = rl.Orange
)
