// Package arena holds the static obstacle layout shared by every agent.
package arena

import (
	"github.com/pthm-cable/dots/config"
	"github.com/pthm-cable/dots/geometry"
	"github.com/pthm-cable/dots/visgraph"
)

// Arena is immutable after construction and safe for concurrent reads.
type Arena struct {
	allowed       geometry.Rect
	surrounding   []geometry.Rect
	custom        []geometry.Rect
	obstacles     []geometry.Rect
	start         geometry.Vec
	goal          geometry.Vec
	goalTolerance float64
}

// New builds an arena from an allowed area, interior walls, start, goal and
// goal tolerance. Walls of the given thickness are added around the allowed
// area; a thickness of 0 leaves the area open.
func New(allowed geometry.Rect, thickness float64, walls []geometry.Rect, start, goal geometry.Vec, tolerance float64) *Arena {
	a := &Arena{
		allowed:       allowed,
		custom:        append([]geometry.Rect(nil), walls...),
		start:         start,
		goal:          goal,
		goalTolerance: tolerance,
	}
	if thickness > 0 {
		a.surrounding = surroundingWalls(allowed, thickness)
	}
	a.obstacles = append(append([]geometry.Rect(nil), a.custom...), a.surrounding...)
	return a
}

// FromConfig builds the arena described by cfg, with the allowed area
// centered on the origin.
func FromConfig(cfg config.ArenaConfig) *Arena {
	allowed := geometry.NewRect(-cfg.Width/2, -cfg.Height/2, cfg.Width/2, cfg.Height/2)
	walls := make([]geometry.Rect, len(cfg.Walls))
	for i, w := range cfg.Walls {
		walls[i] = geometry.NewRect(w.X0, w.Y0, w.X1, w.Y1)
	}
	return New(
		allowed,
		cfg.WallThickness,
		walls,
		geometry.Vec{X: cfg.Start.X, Y: cfg.Start.Y},
		geometry.Vec{X: cfg.Goal.X, Y: cfg.Goal.Y},
		cfg.GoalTolerance,
	)
}

// surroundingWalls returns left, right, top and bottom walls lying just
// outside allowed. Left and right walls extend over the corners.
func surroundingWalls(allowed geometry.Rect, t float64) []geometry.Rect {
	l, r, top, b := allowed.Left(), allowed.Right(), allowed.Top(), allowed.Bottom()
	return []geometry.Rect{
		geometry.NewRect(l-t, top-t, l, b+t),
		geometry.NewRect(r, top-t, r+t, b+t),
		geometry.NewRect(l-t, top-t, r+t, top),
		geometry.NewRect(l-t, b, r+t, b+t),
	}
}

func (a *Arena) Allowed() geometry.Rect { return a.allowed }
func (a *Arena) Start() geometry.Vec    { return a.start }
func (a *Arena) Goal() geometry.Vec     { return a.goal }
func (a *Arena) GoalTolerance() float64 { return a.goalTolerance }

// Obstacles returns interior walls followed by surrounding walls. The
// returned slice must not be modified.
func (a *Arena) Obstacles() []geometry.Rect { return a.obstacles }

// CustomWalls returns only the interior walls.
func (a *Arena) CustomWalls() []geometry.Rect { return a.custom }

// SurroundingWalls returns only the walls around the allowed area.
func (a *Arena) SurroundingWalls() []geometry.Rect { return a.surrounding }

// Blocked reports whether the move segment enters any obstacle.
func (a *Arena) Blocked(s geometry.Segment) bool {
	for _, o := range a.obstacles {
		if geometry.SegmentIntersectsRect(o, s) {
			return true
		}
	}
	return false
}

// FirstCrossing returns the smallest parameter along s at which s meets the
// side of an obstacle it enters.
func (a *Arena) FirstCrossing(s geometry.Segment) (float64, bool) {
	best, found := 0.0, false
	for _, o := range a.obstacles {
		if !geometry.SegmentIntersectsRect(o, s) {
			continue
		}
		if t, ok := geometry.FirstCrossing(o, s); ok && (!found || t < best) {
			best, found = t, true
		}
	}
	return best, found
}

// ReachedGoal reports whether p is strictly within the goal tolerance.
func (a *Arena) ReachedGoal(p geometry.Vec) bool {
	return geometry.Dist(p, a.goal) < a.goalTolerance
}

// Graph builds a fresh visibility graph from p to the goal.
func (a *Arena) Graph(from geometry.Vec) *visgraph.Graph {
	return visgraph.New(from, a.goal, a.obstacles, a.allowed)
}

// DistanceToGoal returns the obstacle-avoiding distance from p to the goal.
// It returns visgraph.ErrNoPath when p is enclosed.
func (a *Arena) DistanceToGoal(p geometry.Vec) (float64, error) {
	return a.Graph(p).ShortestRouteDistance()
}
