// Package visgraph builds visibility graphs over rectangular obstacles and
// computes shortest obstacle-free routes through them.
//
// A Graph is a disposable query object: it is built for one start point,
// solved immediately and never updated. Build a new one for every query.
package visgraph

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/pthm-cable/dots/geometry"
)

// ErrNoPath is returned when the end vertex cannot be reached from the start.
var ErrNoPath = errors.New("visgraph: no path to goal")

// Role tags a vertex as the route start, an obstacle corner, or the route end.
type Role uint8

const (
	RoleStart Role = iota
	RoleInterior
	RoleEnd
)

func (r Role) String() string {
	switch r {
	case RoleStart:
		return "start"
	case RoleInterior:
		return "interior"
	case RoleEnd:
		return "end"
	}
	return "unknown"
}

// noPredecessor marks a vertex without a shortest-path parent.
const noPredecessor = -1

// Vertex is one graph node with its shortest-path bookkeeping.
type Vertex struct {
	Point       geometry.Vec
	Role        Role
	Distance    float64 // shortest known distance from the start vertex
	Predecessor int64   // previous vertex on the shortest route, or -1
	Visited     bool
}

// Graph is a solved visibility graph. Vertex IDs are assigned in insertion
// order: start first, then obstacle corners, then the goal.
type Graph struct {
	vertices []Vertex
	edges    *simple.WeightedUndirectedGraph
}

// New builds the visibility graph from start to goal and runs the shortest
// path search. Corners outside allowed are not used as vertices.
func New(start, goal geometry.Vec, obstacles []geometry.Rect, allowed geometry.Rect) *Graph {
	g := &Graph{
		edges: simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
	}
	g.makeVertices(start, goal, obstacles, allowed)
	g.makeEdges(obstacles)
	g.solve()
	return g
}

func (g *Graph) addVertex(p geometry.Vec, role Role) {
	v := Vertex{
		Point:       p,
		Role:        role,
		Distance:    math.Inf(1),
		Predecessor: noPredecessor,
	}
	if role == RoleStart {
		v.Distance = 0
	}
	g.edges.AddNode(simple.Node(len(g.vertices)))
	g.vertices = append(g.vertices, v)
}

// makeVertices adds start, every distinct in-area corner, then goal. Corners
// are taken column by column (all top-left, all top-right, ...) so IDs are
// stable for a given obstacle order.
func (g *Graph) makeVertices(start, goal geometry.Vec, obstacles []geometry.Rect, allowed geometry.Rect) {
	g.addVertex(start, RoleStart)

	var corners []geometry.Vec
	for k := 0; k < 4; k++ {
		for _, o := range obstacles {
			c := o.Corners()[k]
			if !allowed.Contains(c) || containsPoint(corners, c) {
				continue
			}
			corners = append(corners, c)
		}
	}
	for _, c := range corners {
		g.addVertex(c, RoleInterior)
	}

	g.addVertex(goal, RoleEnd)
}

func containsPoint(points []geometry.Vec, p geometry.Vec) bool {
	for _, q := range points {
		if geometry.SamePoint(p, q) {
			return true
		}
	}
	return false
}

// makeEdges connects every vertex pair whose segment crosses no obstacle.
func (g *Graph) makeEdges(obstacles []geometry.Rect) {
	for i := 0; i < len(g.vertices); i++ {
		for j := i + 1; j < len(g.vertices); j++ {
			seg := geometry.Segment{P1: g.vertices[i].Point, P2: g.vertices[j].Point}
			if blocked(seg, obstacles) {
				continue
			}
			g.edges.SetWeightedEdge(simple.WeightedEdge{
				F: simple.Node(i),
				T: simple.Node(j),
				W: seg.Length(),
			})
		}
	}
}

func blocked(seg geometry.Segment, obstacles []geometry.Rect) bool {
	for _, o := range obstacles {
		if geometry.SegmentIntersectsRect(o, seg) {
			return true
		}
	}
	return false
}

// solve runs single-source shortest path from the start vertex. The next
// vertex is the unvisited one with the smallest finite distance; ties go to
// the lowest ID.
func (g *Graph) solve() {
	for u := g.minUnvisited(); u != noPredecessor; u = g.minUnvisited() {
		cur := &g.vertices[u]
		neighbours := g.edges.From(u)
		for neighbours.Next() {
			v := neighbours.Node().ID()
			next := &g.vertices[v]
			if next.Visited {
				continue
			}
			w, _ := g.edges.Weight(u, v)
			if d := cur.Distance + w; d < next.Distance {
				next.Distance = d
				next.Predecessor = u
			}
		}
		cur.Visited = true
	}
}

func (g *Graph) minUnvisited() int64 {
	best := int64(noPredecessor)
	bestDist := math.Inf(1)
	for i, v := range g.vertices {
		if !v.Visited && v.Distance < bestDist {
			best = int64(i)
			bestDist = v.Distance
		}
	}
	return best
}

// Vertices returns a copy of the vertex table.
func (g *Graph) Vertices() []Vertex {
	out := make([]Vertex, len(g.vertices))
	copy(out, g.vertices)
	return out
}

// Weighted exposes the underlying edge set.
func (g *Graph) Weighted() graph.WeightedUndirected {
	return g.edges
}

// EndID returns the ID of the reachable end vertex with the smallest
// distance, or the first end vertex when none is reachable.
func (g *Graph) EndID() int64 {
	end := int64(noPredecessor)
	for i, v := range g.vertices {
		if v.Role != RoleEnd {
			continue
		}
		if end == noPredecessor || v.Distance < g.vertices[end].Distance {
			end = int64(i)
		}
	}
	return end
}

// Edges returns every visibility edge once, ordered by vertex ID.
func (g *Graph) Edges() []geometry.Segment {
	var out []geometry.Segment
	for i := 0; i < len(g.vertices); i++ {
		for j := i + 1; j < len(g.vertices); j++ {
			if g.edges.HasEdgeBetween(int64(i), int64(j)) {
				out = append(out, geometry.Segment{P1: g.vertices[i].Point, P2: g.vertices[j].Point})
			}
		}
	}
	return out
}

// ShortestRouteEdges returns the shortest route as segments ordered from the
// start to the goal. It returns ErrNoPath if the goal is unreachable.
func (g *Graph) ShortestRouteEdges() ([]geometry.Segment, error) {
	end := g.EndID()
	if end == noPredecessor || math.IsInf(g.vertices[end].Distance, 1) {
		return nil, ErrNoPath
	}

	var route []geometry.Segment
	for id := end; g.vertices[id].Role != RoleStart; {
		prev := g.vertices[id].Predecessor
		if prev == noPredecessor {
			return nil, ErrNoPath
		}
		route = append(route, geometry.Segment{P1: g.vertices[prev].Point, P2: g.vertices[id].Point})
		id = prev
	}

	for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
		route[i], route[j] = route[j], route[i]
	}
	return route, nil
}

// ShortestRouteDistance returns the summed length of the shortest route.
func (g *Graph) ShortestRouteDistance() (float64, error) {
	route, err := g.ShortestRouteEdges()
	if err != nil {
		return 0, err
	}
	var total float64
	for _, seg := range route {
		total += seg.Length()
	}
	return total, nil
}
