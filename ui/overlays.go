package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayVisibilityGraph OverlayID = "visibility_graph"
	OverlayShortestRoute   OverlayID = "shortest_route"
	OverlayVelocity        OverlayID = "velocity"
	OverlayLegend          OverlayID = "legend"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "G")
	Category    string      // Grouping (e.g., "path", "debug")
	Hold        bool        // Active only while Key is held down
	Exclusive   []OverlayID // Other overlays hidden while this one is active
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayVisibilityGraph,
		Name:        "Visibility Graph",
		Description: "Edges between mutually visible wall corners",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "path",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayShortestRoute,
		Name:        "Shortest Route",
		Description: "Shortest start to goal route, instead of the graph",
		Key:         rl.KeyLeftControl,
		KeyLabel:    "Ctrl",
		Category:    "path",
		Hold:        true,
		Exclusive:   []OverlayID{OverlayVisibilityGraph},
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayVelocity,
		Name:        "Velocity",
		Description: "Velocity vector of every live dot",
		Key:         rl.KeyV,
		KeyLabel:    "V",
		Category:    "debug",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayLegend,
		Name:        "Legend",
		Description: "Dot colours by state",
		Key:         rl.KeyL,
		KeyLabel:    "L",
		Category:    "view",
	})

	r.enabled[OverlayVisibilityGraph] = true
	r.enabled[OverlayLegend] = true
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = false
}

// Toggle switches a toggle overlay on/off and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	if _, ok := r.byID[id]; !ok {
		return
	}
	r.enabled[id] = enabled
}

// IsEnabled returns whether an overlay is switched on.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// IsVisible reports whether an overlay should be drawn: it is enabled and no
// enabled overlay listing it as exclusive is active.
func (r *OverlayRegistry) IsVisible(id OverlayID) bool {
	if !r.enabled[id] {
		return false
	}
	for _, desc := range r.descriptors {
		if !r.enabled[desc.ID] {
			continue
		}
		for _, excl := range desc.Exclusive {
			if excl == id {
				return false
			}
		}
	}
	return true
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleInput polls the keyboard. Toggle overlays flip on key press; hold
// overlays follow the key state.
func (r *OverlayRegistry) HandleInput() {
	for _, desc := range r.descriptors {
		if desc.Key == 0 {
			continue
		}
		if desc.Hold {
			r.enabled[desc.ID] = rl.IsKeyDown(desc.Key) || (desc.Key == rl.KeyLeftControl && rl.IsKeyDown(rl.KeyRightControl))
			continue
		}
		if rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}
