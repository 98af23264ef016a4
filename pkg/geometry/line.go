package geometry

import "fmt"

// Epsilon is the smallest perp product of two line normals for which the
// lines are considered to intersect. It is an absolute threshold on the sine
// of the angle between the lines.
const Epsilon = 1e-5

// LinePoint is a position along a line together with a crossing direction.
// Dir is true for a crossing that enters a region and false for one that
// exits it.
type LinePoint struct {
	Pos float64
	Dir bool
}

// NewLinePoint returns a LinePoint at pos with the given direction.
func NewLinePoint(pos float64, dir bool) LinePoint {
	return LinePoint{Pos: pos, Dir: dir}
}

// DirSign returns 1 for an entering point and -1 for an exiting one.
func (lp LinePoint) DirSign() float64 {
	if lp.Dir {
		return 1
	}
	return -1
}

func (lp LinePoint) String() string {
	if lp.Dir {
		return fmt.Sprintf("%g+", lp.Pos)
	}
	return fmt.Sprintf("%g-", lp.Pos)
}

// CompareLinePoints orders line points by position under the total order and
// breaks exact ties with exiting (false) before entering (true).
func CompareLinePoints(a, b LinePoint) int {
	if c := TotalCompare(a.Pos, b.Pos); c != 0 {
		return c
	}
	switch {
	case a.Dir == b.Dir:
		return 0
	case !a.Dir:
		return -1
	default:
		return 1
	}
}

// PointProjection is a point expressed relative to a line: its position
// along the line, its signed distance from it and whether it lies on the
// positive-normal side.
type PointProjection struct {
	Pos    float64
	Dist   float64
	Inside bool
}

// Line is an oriented infinite line, the boundary of the half-plane
// {p : n·p >= d}. n is always unit length.
type Line struct {
	n Point
	d float64
}

// FromTwoPoints returns the line through p0 and p1, directed from p0 to p1.
func FromTwoPoints(p0, p1 Point) Line {
	return FromPointDir(p1, p1.Sub(p0))
}

// FromPointDir returns the line through p0 with direction d. The positive
// side is to the right of d.
func FromPointDir(p0, d Point) Line {
	return FromPointNormal(p0, Point{X: d.Y, Y: -d.X})
}

// FromPointNormal returns the line through p0 with normal n. n need not be
// unit length but must be non-zero.
func FromPointNormal(p0, n Point) Line {
	n = normalize(n)
	return Line{n: n, d: n.Dot(p0)}
}

// WithOrigin returns the line shifted along its normal by the projection of p.
func (l Line) WithOrigin(p Point) Line {
	return Line{n: l.n, d: l.n.Dot(p) + l.d}
}

// ThroughPoint returns the line parallel to l that passes through p.
func (l Line) ThroughPoint(p Point) Line {
	return FromPointNormal(p, l.n)
}

// Normal returns the unit normal.
func (l Line) Normal() Point {
	return l.n
}

// Offset returns the signed distance from the coordinate origin to the line
// along the normal.
func (l Line) Offset() float64 {
	return l.d
}

// Dir returns the unit direction, the normal rotated by +90 degrees.
func (l Line) Dir() Point {
	return Point{X: -l.n.Y, Y: l.n.X}
}

// Origin returns the point of the line closest to the coordinate origin.
func (l Line) Origin() Point {
	return l.n.MulScalar(l.d)
}

// Point maps a position along the line to the plane.
func (l Line) Point(pos float64) Point {
	return l.n.MulScalar(l.d).Add(l.Dir().MulScalar(pos))
}

// Intersection returns the position along l where other crosses it. Dir is
// true when moving along l enters the positive side of other. Parallel and
// coincident lines report no intersection.
func (l Line) Intersection(other Line) (LinePoint, bool) {
	det := perp(l.n, other.n)
	if det > -Epsilon && det < Epsilon {
		return LinePoint{}, false
	}
	u := other.n.MulScalar(other.d).Sub(l.n.MulScalar(l.d))
	return LinePoint{
		Pos: perp(u, other.Dir()) / det,
		Dir: det > 0,
	}, true
}

// IntersectionPoint returns the point where l and other cross.
//
// The point is computed from both lines' parametrizations and the smaller
// candidate under ComparePoints is returned, so l.IntersectionPoint(o) and
// o.IntersectionPoint(l) are bit-identical.
func (l Line) IntersectionPoint(other Line) (Point, bool) {
	a, ok := l.Intersection(other)
	if !ok {
		return Point{}, false
	}
	b, ok := other.Intersection(l)
	if !ok {
		return Point{}, false
	}
	p1 := l.Point(a.Pos)
	p2 := other.Point(b.Pos)
	if ComparePoints(p1, p2) < 0 {
		return p1, true
	}
	return p2, true
}

// ProjectPoint projects p onto l.
func (l Line) ProjectPoint(p Point) PointProjection {
	dist := l.n.Dot(p) - l.d
	return PointProjection{
		Pos:    l.Dir().Dot(p),
		Dist:   dist,
		Inside: dist >= 0,
	}
}

// Inside reports whether p lies on the positive side of l (or on l).
func (l Line) Inside(p Point) bool {
	return l.ProjectPoint(p).Inside
}

func (l Line) String() string {
	return fmt.Sprintf("line(n=(%g, %g) d=%g)", l.n.X, l.n.Y, l.d)
}
