// Package geometry provides the planar primitives used for movement validation
// and visibility queries: points, axis-aligned rectangles and segments.
//
// Coordinates follow screen convention: x grows to the right, y grows downward,
// so a rectangle's Top is its minimum y.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a 2D point or vector.
type Vec = r2.Vec

// fuzzyEpsilon is the absolute tolerance used when comparing points.
const fuzzyEpsilon = 1e-12

// paramEpsilon is the tolerance on segment parameters: a crossing at
// t = 1.0000000000000002 still lies on the segment.
const paramEpsilon = 1e-9

// Dist returns the Euclidean distance between two points.
func Dist(a, b Vec) float64 {
	return r2.Norm(r2.Sub(b, a))
}

// SamePoint reports whether two points coincide within fuzzyEpsilon.
func SamePoint(a, b Vec) bool {
	return math.Abs(a.X-b.X) <= fuzzyEpsilon && math.Abs(a.Y-b.Y) <= fuzzyEpsilon
}

// UnitFromAngle returns the unit vector pointing at angle (radians).
func UnitFromAngle(angle float64) Vec {
	return Vec{X: math.Cos(angle), Y: math.Sin(angle)}
}

// ClampNorm rescales v to have norm limit when its norm exceeds limit.
func ClampNorm(v Vec, limit float64) Vec {
	n := r2.Norm(v)
	if n > limit {
		return r2.Scale(limit/n, v)
	}
	return v
}

// Rect is an axis-aligned rectangle. Min is the top-left corner and Max the
// bottom-right corner; NewRect guarantees Min.X <= Max.X and Min.Y <= Max.Y.
type Rect struct {
	Min, Max Vec
}

// NewRect builds a rectangle from two opposite corners in any order.
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{
		Min: Vec{X: math.Min(x0, x1), Y: math.Min(y0, y1)},
		Max: Vec{X: math.Max(x0, x1), Y: math.Max(y0, y1)},
	}
}

func (r Rect) Left() float64   { return r.Min.X }
func (r Rect) Right() float64  { return r.Max.X }
func (r Rect) Top() float64    { return r.Min.Y }
func (r Rect) Bottom() float64 { return r.Max.Y }

func (r Rect) TopLeft() Vec     { return r.Min }
func (r Rect) TopRight() Vec    { return Vec{X: r.Max.X, Y: r.Min.Y} }
func (r Rect) BottomLeft() Vec  { return Vec{X: r.Min.X, Y: r.Max.Y} }
func (r Rect) BottomRight() Vec { return r.Max }

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the rectangle's midpoint.
func (r Rect) Center() Vec {
	return r2.Scale(0.5, r2.Add(r.Min, r.Max))
}

// Corners returns top-left, top-right, bottom-left, bottom-right.
func (r Rect) Corners() [4]Vec {
	return [4]Vec{r.TopLeft(), r.TopRight(), r.BottomLeft(), r.BottomRight()}
}

// Edges returns the left, right, top and bottom sides.
func (r Rect) Edges() [4]Segment {
	return [4]Segment{
		{P1: r.TopLeft(), P2: r.BottomLeft()},
		{P1: r.TopRight(), P2: r.BottomRight()},
		{P1: r.TopLeft(), P2: r.TopRight()},
		{P1: r.BottomLeft(), P2: r.BottomRight()},
	}
}

// Contains reports whether p lies inside r or on its boundary.
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// IsCorner reports whether p coincides with one of r's corners.
func (r Rect) IsCorner(p Vec) bool {
	for _, c := range r.Corners() {
		if SamePoint(c, p) {
			return true
		}
	}
	return false
}

// Segment is a finite line segment from P1 to P2.
type Segment struct {
	P1, P2 Vec
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return Dist(s.P1, s.P2)
}

// Delta returns P2 - P1.
func (s Segment) Delta() Vec {
	return r2.Sub(s.P2, s.P1)
}

// At returns the point P1 + t*(P2-P1).
func (s Segment) At(t float64) Vec {
	return r2.Add(s.P1, r2.Scale(t, s.Delta()))
}

// Reversed returns the segment with its endpoints swapped.
func (s Segment) Reversed() Segment {
	return Segment{P1: s.P2, P2: s.P1}
}

// IntersectionKind classifies how the infinite lines through two segments meet.
type IntersectionKind uint8

const (
	// NoIntersection means the lines are parallel (or collinear) or degenerate.
	NoIntersection IntersectionKind = iota
	// BoundedIntersection means the lines cross within both segments.
	BoundedIntersection
	// UnboundedIntersection means the lines cross outside at least one segment.
	UnboundedIntersection
)

func (k IntersectionKind) String() string {
	switch k {
	case NoIntersection:
		return "none"
	case BoundedIntersection:
		return "bounded"
	case UnboundedIntersection:
		return "unbounded"
	}
	return "unknown"
}

// Crossing describes the meeting point of two segment lines.
type Crossing struct {
	Kind  IntersectionKind
	Point Vec
	// T is the parameter of Point along the receiver, U along the argument.
	T, U float64
}

// Intersect classifies the intersection of s with o. The crossing point is
// computed along s and snapped to s's endpoint when t is within paramEpsilon
// of 0 or 1. Parallel and collinear segments never intersect.
func (s Segment) Intersect(o Segment) Crossing {
	a := r2.Sub(s.P2, s.P1)
	b := r2.Sub(o.P1, o.P2)
	c := r2.Sub(s.P1, o.P1)

	denom := a.Y*b.X - a.X*b.Y
	if denom == 0 || math.IsInf(denom, 0) || math.IsNaN(denom) {
		return Crossing{Kind: NoIntersection}
	}

	t := (b.Y*c.X - b.X*c.Y) / denom
	u := (a.X*c.Y - a.Y*c.X) / denom
	cr := Crossing{
		Kind:  BoundedIntersection,
		Point: r2.Add(s.P1, r2.Scale(t, a)),
		T:     t,
		U:     u,
	}
	switch {
	case math.Abs(t) <= paramEpsilon:
		cr.Point = s.P1
	case math.Abs(t-1) <= paramEpsilon:
		cr.Point = s.P2
	}
	if !onSegment(t) || !onSegment(u) {
		cr.Kind = UnboundedIntersection
	}
	return cr
}

func onSegment(t float64) bool {
	return t >= -paramEpsilon && t <= 1+paramEpsilon
}

// PointRectDistance returns the segment from p to the nearest point of r.
// The nearest point is found by classifying p into one of nine regions:
//
//	        left       right
//	   I    |    II    |  III
//	 -------+==========+-------  top
//	  VIII  |  IX (in) |  IV
//	 -------+==========+-------  bottom
//	  VII   |    VI    |   V
//
// Diagonal regions map to a corner, side regions to a projection onto the
// nearest side, and IX to p itself (length 0).
func PointRectDistance(p Vec, r Rect) Segment {
	var q Vec
	switch {
	case p.X < r.Left():
		switch {
		case p.Y < r.Top():
			q = r.TopLeft()
		case p.Y > r.Bottom():
			q = r.BottomLeft()
		default:
			q = Vec{X: r.Left(), Y: p.Y}
		}
	case p.X > r.Right():
		switch {
		case p.Y < r.Top():
			q = r.TopRight()
		case p.Y > r.Bottom():
			q = r.BottomRight()
		default:
			q = Vec{X: r.Right(), Y: p.Y}
		}
	default:
		switch {
		case p.Y < r.Top():
			q = Vec{X: p.X, Y: r.Top()}
		case p.Y > r.Bottom():
			q = Vec{X: p.X, Y: r.Bottom()}
		default:
			q = p
		}
	}
	return Segment{P1: p, P2: q}
}

// edgeHit records a bounded crossing between a rectangle side and a segment.
type edgeHit struct {
	edge  Segment
	point Vec
}

// SegmentIntersectsRect reports whether s enters r. Hits near a corner are
// snapped onto it by Intersect. Touching r without entering its interior is
// not an intersection:
//   - s running along a side (both hits on corners of two parallel sides),
//   - s touching a single corner from outside (both hits at the same point),
//   - s leaving a corner perpendicular to the sides it touches
//     (one bounded hit on a corner, one unbounded, two parallel sides).
func SegmentIntersectsRect(r Rect, s Segment) bool {
	var bounded []edgeHit
	unbounded, none := 0, 0
	for _, e := range r.Edges() {
		cr := e.Intersect(s)
		switch cr.Kind {
		case BoundedIntersection:
			bounded = append(bounded, edgeHit{edge: e, point: cr.Point})
		case UnboundedIntersection:
			unbounded++
		default:
			none++
		}
	}

	switch {
	case len(bounded) == 0:
		return false
	case len(bounded) == 2 &&
		bounded[0].edge.Intersect(bounded[1].edge).Kind == NoIntersection &&
		r.IsCorner(bounded[0].point) && r.IsCorner(bounded[1].point):
		return false
	case len(bounded) == 2 && SamePoint(bounded[0].point, bounded[1].point):
		return false
	case len(bounded) == 1 && unbounded == 1 && none == 2 && r.IsCorner(bounded[0].point):
		return false
	}
	return true
}

// FirstCrossing returns the smallest parameter along s at which s meets a
// side of r. ok is false when s meets no side within both segments.
func FirstCrossing(r Rect, s Segment) (t float64, ok bool) {
	t = math.Inf(1)
	for _, e := range r.Edges() {
		cr := e.Intersect(s)
		if cr.Kind == BoundedIntersection && cr.U < t {
			t = max(cr.U, 0)
			ok = true
		}
	}
	return t, ok
}
