package visgraph

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/pthm-cable/dots/geometry"
)

var allowed = geometry.NewRect(-400, -400, 400, 400)

func TestNoObstacles(t *testing.T) {
	start := geometry.Vec{X: 0, Y: 0}
	goal := geometry.Vec{X: 30, Y: 40}
	g := New(start, goal, nil, allowed)

	if n := len(g.Vertices()); n != 2 {
		t.Fatalf("vertices = %d, want 2", n)
	}
	if n := len(g.Edges()); n != 1 {
		t.Fatalf("edges = %d, want 1", n)
	}
	d, err := g.ShortestRouteDistance()
	if err != nil {
		t.Fatalf("ShortestRouteDistance: %v", err)
	}
	if math.Abs(d-50) > 1e-9 {
		t.Errorf("distance = %v, want 50", d)
	}
}

func TestVertexOrder(t *testing.T) {
	obstacles := []geometry.Rect{
		geometry.NewRect(-50, -10, 50, 10),
		geometry.NewRect(100, 100, 120, 500), // bottom corners outside allowed
	}
	g := New(geometry.Vec{X: 0, Y: 100}, geometry.Vec{X: 0, Y: -100}, obstacles, allowed)
	vs := g.Vertices()

	if vs[0].Role != RoleStart || vs[0].Distance != 0 {
		t.Errorf("first vertex = %+v, want start at distance 0", vs[0])
	}
	if last := vs[len(vs)-1]; last.Role != RoleEnd {
		t.Errorf("last vertex role = %v, want end", last.Role)
	}
	// 4 corners of the first wall plus the top two of the second.
	if n := len(vs); n != 2+6 {
		t.Errorf("vertices = %d, want 8", n)
	}
	for _, v := range vs[1 : len(vs)-1] {
		if v.Role != RoleInterior {
			t.Errorf("vertex %v role = %v, want interior", v.Point, v.Role)
		}
		if !allowed.Contains(v.Point) {
			t.Errorf("corner %v outside allowed area", v.Point)
		}
	}
	if g.EndID() != int64(len(vs)-1) {
		t.Errorf("EndID = %d, want %d", g.EndID(), len(vs)-1)
	}
}

func TestSharedCornersDeduplicated(t *testing.T) {
	obstacles := []geometry.Rect{
		geometry.NewRect(0, 0, 10, 10),
		geometry.NewRect(10, 10, 20, 20),
	}
	g := New(geometry.Vec{X: -50, Y: -50}, geometry.Vec{X: 50, Y: 50}, obstacles, allowed)
	if n := len(g.Vertices()); n != 2+7 {
		t.Errorf("vertices = %d, want 9", n)
	}
}

func TestRouteAroundWall(t *testing.T) {
	start := geometry.Vec{X: 0, Y: 100}
	goal := geometry.Vec{X: 0, Y: -100}
	wall := geometry.NewRect(-50, -10, 50, 10)
	g := New(start, goal, []geometry.Rect{wall}, allowed)

	route, err := g.ShortestRouteEdges()
	if err != nil {
		t.Fatalf("ShortestRouteEdges: %v", err)
	}
	if len(route) != 3 {
		t.Fatalf("route has %d edges, want 3: %v", len(route), route)
	}
	if route[0].P1 != start || route[len(route)-1].P2 != goal {
		t.Errorf("route endpoints = %v .. %v", route[0].P1, route[len(route)-1].P2)
	}
	for i := 1; i < len(route); i++ {
		if route[i].P1 != route[i-1].P2 {
			t.Errorf("route not contiguous at %d: %v", i, route)
		}
	}

	want := 2*math.Hypot(50, 90) + 20
	d, err := g.ShortestRouteDistance()
	if err != nil {
		t.Fatalf("ShortestRouteDistance: %v", err)
	}
	if math.Abs(d-want) > 1e-9 {
		t.Errorf("distance = %v, want %v", d, want)
	}
	if straight := geometry.Dist(start, goal); d <= straight {
		t.Errorf("detour %v not longer than straight line %v", d, straight)
	}
}

func TestEnclosedStartHasNoPath(t *testing.T) {
	box := []geometry.Rect{
		geometry.NewRect(-25, -25, 25, -20),
		geometry.NewRect(-25, 20, 25, 25),
		geometry.NewRect(-25, -25, -20, 25),
		geometry.NewRect(20, -25, 25, 25),
	}
	g := New(geometry.Vec{}, geometry.Vec{X: 0, Y: -200}, box, allowed)

	if _, err := g.ShortestRouteEdges(); !errors.Is(err, ErrNoPath) {
		t.Errorf("ShortestRouteEdges err = %v, want ErrNoPath", err)
	}
	if _, err := g.ShortestRouteDistance(); !errors.Is(err, ErrNoPath) {
		t.Errorf("ShortestRouteDistance err = %v, want ErrNoPath", err)
	}
	for _, v := range g.Vertices()[1:] {
		if v.Predecessor == 0 {
			t.Errorf("vertex %v reachable directly from an enclosed start", v.Point)
		}
	}
}

func TestEdgesAvoidObstacles(t *testing.T) {
	obstacles := []geometry.Rect{
		geometry.NewRect(-405, 200, 300, 205),
		geometry.NewRect(-300, 0, 405, 5),
	}
	g := New(geometry.Vec{X: 0, Y: 380}, geometry.Vec{X: 0, Y: -380}, obstacles, allowed)
	for _, e := range g.Edges() {
		for _, o := range obstacles {
			if geometry.SegmentIntersectsRect(o, e) {
				t.Errorf("edge %v crosses obstacle %v", e, o)
			}
		}
	}
}

func TestMatchesGonumDijkstra(t *testing.T) {
	tests := []struct {
		name      string
		start     geometry.Vec
		obstacles []geometry.Rect
	}{
		{
			name:  "arena walls",
			start: geometry.Vec{X: 0, Y: 380},
			obstacles: []geometry.Rect{
				geometry.NewRect(-405, 200, 300, 205),
				geometry.NewRect(-300, 0, 405, 5),
			},
		},
		{
			name:  "between walls",
			start: geometry.Vec{X: 350, Y: 100},
			obstacles: []geometry.Rect{
				geometry.NewRect(-405, 200, 300, 205),
				geometry.NewRect(-300, 0, 405, 5),
				geometry.NewRect(-100, -200, 100, -150),
			},
		},
		{
			name:  "staggered blocks",
			start: geometry.Vec{X: -300, Y: 300},
			obstacles: []geometry.Rect{
				geometry.NewRect(-200, 200, 0, 250),
				geometry.NewRect(-50, 50, 150, 100),
				geometry.NewRect(0, -150, 300, -100),
				geometry.NewRect(-250, -250, -150, -50),
			},
		},
	}

	goal := geometry.Vec{X: 0, Y: -380}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.start, goal, tt.obstacles, allowed)
			shortest := path.DijkstraFrom(simple.Node(0), g.Weighted())

			for id, v := range g.Vertices() {
				want := shortest.WeightTo(int64(id))
				if math.IsInf(want, 1) != math.IsInf(v.Distance, 1) {
					t.Fatalf("vertex %d reachability mismatch: got %v, want %v", id, v.Distance, want)
				}
				if !math.IsInf(want, 1) && math.Abs(v.Distance-want) > 1e-9 {
					t.Errorf("vertex %d distance = %v, want %v", id, v.Distance, want)
				}
			}

			d, err := g.ShortestRouteDistance()
			if err != nil {
				t.Fatalf("ShortestRouteDistance: %v", err)
			}
			if want := shortest.WeightTo(g.EndID()); math.Abs(d-want) > 1e-9 {
				t.Errorf("route distance = %v, want %v", d, want)
			}
		})
	}
}
