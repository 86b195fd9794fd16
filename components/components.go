// Package components defines ECS components for the viewer scene.
package components

import "github.com/pthm-cable/dots/agent"

// Position represents a dot's arena position.
type Position struct {
	X, Y float32
}

// Velocity represents a dot's velocity in arena units per step.
type Velocity struct {
	X, Y float32
}

// Dot links a scene entity to an agent slot of the current generation.
type Dot struct {
	Index      int // index into Population.Snapshots()
	Generation int
	Kind       agent.Kind
	State      agent.State
	Used       int
	Fitness    float32
}

// Radius returns the drawn radius in arena units.
func (d Dot) Radius() float32 {
	if d.Kind == agent.KindChampion {
		return 6
	}
	return 3
}
