package arena

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/dots/config"
	"github.com/pthm-cable/dots/geometry"
	"github.com/pthm-cable/dots/visgraph"
)

func TestFromConfigDefaults(t *testing.T) {
	a := FromConfig(config.Defaults().Arena)

	if got := a.Allowed(); got != geometry.NewRect(-400, -400, 400, 400) {
		t.Errorf("allowed = %+v", got)
	}
	if n := len(a.SurroundingWalls()); n != 4 {
		t.Errorf("surrounding walls = %d, want 4", n)
	}
	if n := len(a.CustomWalls()); n != 2 {
		t.Errorf("custom walls = %d, want 2", n)
	}
	if n := len(a.Obstacles()); n != 6 {
		t.Errorf("obstacles = %d, want 6", n)
	}
	if a.Obstacles()[0] != a.CustomWalls()[0] {
		t.Error("custom walls should come first")
	}
	for _, w := range a.SurroundingWalls() {
		if a.Allowed().Contains(w.Center()) {
			t.Errorf("surrounding wall %+v centered inside allowed area", w)
		}
	}
}

func TestDistanceToGoal(t *testing.T) {
	open := New(geometry.NewRect(-400, -400, 400, 400), 5, nil, geometry.Vec{Y: 100}, geometry.Vec{Y: -100}, 10)
	d, err := open.DistanceToGoal(geometry.Vec{X: 30, Y: -60})
	if err != nil {
		t.Fatalf("DistanceToGoal: %v", err)
	}
	if math.Abs(d-50) > 1e-9 {
		t.Errorf("distance = %v, want 50", d)
	}

	walled := FromConfig(config.Defaults().Arena)
	d, err = walled.DistanceToGoal(walled.Start())
	if err != nil {
		t.Fatalf("DistanceToGoal from start: %v", err)
	}
	if straight := geometry.Dist(walled.Start(), walled.Goal()); d <= straight {
		t.Errorf("route %v should be longer than straight line %v", d, straight)
	}
}

func TestDistanceToGoalNearWalls(t *testing.T) {
	a := FromConfig(config.Defaults().Arena)
	rng := rand.New(rand.NewSource(7))

	check := func(p geometry.Vec) {
		t.Helper()
		for _, o := range a.Obstacles() {
			if o.Contains(p) {
				return
			}
		}
		d, err := a.DistanceToGoal(p)
		if err != nil {
			t.Fatalf("DistanceToGoal(%v): %v", p, err)
		}
		if straight := geometry.Dist(p, a.Goal()); d < straight-1e-9 {
			t.Fatalf("DistanceToGoal(%v) = %v, shorter than straight line %v", p, d, straight)
		}
	}

	allowed := a.Allowed()
	for i := 0; i < 500; i++ {
		check(geometry.Vec{
			X: allowed.Left() + rng.Float64()*allowed.Width(),
			Y: allowed.Top() + rng.Float64()*allowed.Height(),
		})
	}
	// Thin bands just outside each custom wall
	for _, w := range a.CustomWalls() {
		for i := 0; i < 200; i++ {
			x := math.Max(allowed.Left(), w.Left()) + rng.Float64()*(math.Min(allowed.Right(), w.Right())-math.Max(allowed.Left(), w.Left()))
			check(geometry.Vec{X: x, Y: w.Top() - rng.Float64()*2})
			check(geometry.Vec{X: x, Y: w.Bottom() + rng.Float64()*2})
		}
	}
}

func TestDistanceToGoalEnclosed(t *testing.T) {
	box := []geometry.Rect{
		geometry.NewRect(-25, -25, 25, -20),
		geometry.NewRect(-25, 20, 25, 25),
		geometry.NewRect(-25, -25, -20, 25),
		geometry.NewRect(20, -25, 25, 25),
	}
	a := New(geometry.NewRect(-400, -400, 400, 400), 5, box, geometry.Vec{Y: 300}, geometry.Vec{Y: -300}, 10)
	if _, err := a.DistanceToGoal(geometry.Vec{}); !errors.Is(err, visgraph.ErrNoPath) {
		t.Errorf("err = %v, want ErrNoPath", err)
	}
}

func TestBlockedAndFirstCrossing(t *testing.T) {
	a := New(geometry.NewRect(-400, -400, 400, 400), 5,
		[]geometry.Rect{geometry.NewRect(-400, -5, 400, 5)},
		geometry.Vec{Y: 100}, geometry.Vec{Y: -100}, 10)

	move := geometry.Segment{P1: geometry.Vec{Y: 20}, P2: geometry.Vec{Y: -20}}
	if !a.Blocked(move) {
		t.Fatal("move through wall not blocked")
	}
	tc, ok := a.FirstCrossing(move)
	if !ok {
		t.Fatal("expected a first crossing")
	}
	if p := move.At(tc); !geometry.SamePoint(p, geometry.Vec{Y: 5}) {
		t.Errorf("first crossing at %v, want (0, 5)", p)
	}

	if a.Blocked(geometry.Segment{P1: geometry.Vec{Y: 20}, P2: geometry.Vec{X: 10, Y: 30}}) {
		t.Error("free move reported as blocked")
	}
}

func TestReachedGoal(t *testing.T) {
	a := New(geometry.NewRect(-400, -400, 400, 400), 0, nil, geometry.Vec{}, geometry.Vec{Y: -100}, 10)
	if !a.ReachedGoal(geometry.Vec{Y: -95}) {
		t.Error("point within tolerance not at goal")
	}
	if a.ReachedGoal(geometry.Vec{Y: -90}) {
		t.Error("point exactly at tolerance counted as goal")
	}
}
