package brep

import (
	"fmt"
	"math"
	"slices"

	"github.com/golang/geo/r2"

	"github.com/birktj/cad-kernel-experiments/pkg/geometry"
)

// Edge is one boundary edge of a Region2D. Line indexes the supporting line
// and X1, X2 index the two neighbouring edges whose lines bound this edge.
type Edge struct {
	Line int
	X1   int
	X2   int
}

// Region2D is a validated planar region bounded by edges on lines.
// Every Region2D returned by New satisfies:
//   - each edge's line crosses the lines of both its neighbours
//   - each edge is listed as a neighbour by both of its neighbours
//   - no edge partially overlaps the cut that the other edges make on its line
type Region2D struct {
	lines []geometry.Line
	edges []Edge
}

// New validates lines and edges and returns the region they describe.
// The slices are copied. Errors match one of ErrIndexOutOfRange,
// ErrDegenerateEdge, ErrAsymmetricGraph or ErrSelfIntersecting.
func New(lines []geometry.Line, edges []Edge) (*Region2D, error) {
	r := &Region2D{
		lines: slices.Clone(lines),
		edges: slices.Clone(edges),
	}
	if err := r.check(); err != nil {
		return nil, err
	}
	return r, nil
}

// Lines returns a copy of the region's lines.
func (r *Region2D) Lines() []geometry.Line {
	return slices.Clone(r.lines)
}

// Edges returns a copy of the region's edges.
func (r *Region2D) Edges() []Edge {
	return slices.Clone(r.edges)
}

// edgeLines returns the supporting line of edge e and the lines of its two
// neighbours.
func (r *Region2D) edgeLines(e int) (line, x1, x2 geometry.Line) {
	edge := r.edges[e]
	return r.lines[edge.Line], r.lines[r.edges[edge.X1].Line], r.lines[r.edges[edge.X2].Line]
}

// edgeEndpoints returns where the neighbours of e cross its line, in
// neighbour order and without normalisation.
func (r *Region2D) edgeEndpoints(e int) (a, b geometry.LinePoint, err error) {
	line, x1, x2 := r.edgeLines(e)
	a, ok := line.Intersection(x1)
	if !ok {
		return a, b, fmt.Errorf("%w: line %d is parallel to neighbour %d", ErrDegenerateEdge, r.edges[e].Line, r.edges[e].X1)
	}
	b, ok = line.Intersection(x2)
	if !ok {
		return a, b, fmt.Errorf("%w: line %d is parallel to neighbour %d", ErrDegenerateEdge, r.edges[e].Line, r.edges[e].X2)
	}
	return a, b, nil
}

func (r *Region2D) edgeRegion(e int) (Region1D, error) {
	a, b, err := r.edgeEndpoints(e)
	if err != nil {
		return Region1D{}, err
	}

	// A hole edge meets its neighbours exiting first; flip it so the
	// interval reads entering then exiting.
	if a.Pos < b.Pos && !a.Dir && b.Dir {
		a.Dir, b.Dir = true, false
	} else if b.Pos < a.Pos && a.Dir && !b.Dir {
		a.Dir, b.Dir = false, true
	}

	reg, err := NewRegion1D([]geometry.LinePoint{a, b})
	if err != nil {
		return Region1D{}, fmt.Errorf("%w: %w", ErrDegenerateEdge, err)
	}
	return reg, nil
}

// isHoleEdge reports whether e bounds a hole, that is whether moving along
// its line it exits its first neighbour's half-plane before entering the
// second one's.
func (r *Region2D) isHoleEdge(e int) bool {
	a, b, err := r.edgeEndpoints(e)
	if err != nil {
		return false
	}
	if geometry.CompareLinePoints(b, a) < 0 {
		a = b
	}
	return !a.Dir
}

// EdgeRegion returns the interval edge e occupies on its line.
func (r *Region2D) EdgeRegion(e int) Region1D {
	reg, err := r.edgeRegion(e)
	if err != nil {
		panic(fmt.Sprintf("brep: edge %d of a validated region: %v", e, err))
	}
	return reg
}

// EdgeSegment returns the finite segment of edge e.
func (r *Region2D) EdgeSegment(e int) geometry.LineSegment {
	line, x1, x2 := r.edgeLines(e)
	seg, ok := line.LineSegment(x1, x2)
	if !ok {
		panic(fmt.Sprintf("brep: edge %d of a validated region has no segment", e))
	}
	return seg
}

// EdgeIntersects reports whether line crosses edge e.
func (r *Region2D) EdgeIntersects(e int, line geometry.Line) bool {
	return r.EdgeSegment(e).IntersectsLine(line)
}

// cutHits returns where line crosses the kept edges, sorted.
func (r *Region2D) cutHits(line geometry.Line, keep func(e int) bool) []geometry.LinePoint {
	var xs []geometry.LinePoint
	for e := range r.edges {
		if !keep(e) {
			continue
		}
		if x, ok := line.SegmentIntersection(r.EdgeSegment(e)); ok {
			xs = append(xs, x)
		}
	}
	slices.SortFunc(xs, geometry.CompareLinePoints)
	return xs
}

// cutRegionFilter builds the cut of line by the kept edges. Touched vertices
// are kept, so validation still sees boundaries that touch.
func (r *Region2D) cutRegionFilter(line geometry.Line, keep func(e int) bool) (Region1D, error) {
	return NewRegion1D(r.cutHits(line, keep))
}

// touchTolerance is how far apart two hits of a touched vertex may sort in
// the wrong order before the cut is reported as broken.
const touchTolerance = 1e-9

// dropTouches removes the pair of hits a line makes where it only touches a
// vertex. Both edges at the vertex report a hit at the same position, so the
// pair is dropped when the positions are equal, or when rounding has sorted
// them against the entering/exiting alternation. xs must be sorted.
func dropTouches(xs []geometry.LinePoint) []geometry.LinePoint {
	out := xs[:0]
	for i := 0; i < len(xs); i++ {
		p := xs[i]
		if i+1 < len(xs) && xs[i+1].Dir != p.Dir {
			q := xs[i+1]
			misordered := p.Dir != (len(out)%2 == 0)
			if p.Pos == q.Pos || (misordered && math.Abs(q.Pos-p.Pos) <= touchTolerance) {
				i++
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// CutRegion returns the intervals of line that lie inside the region.
func (r *Region2D) CutRegion(line geometry.Line) Region1D {
	reg, err := NewRegion1D(dropTouches(r.cutHits(line, func(int) bool { return true })))
	if err != nil {
		panic(fmt.Sprintf("brep: cut of a validated region along %v: %v", line, err))
	}
	return reg
}

// Inside reports whether p lies in the region.
//
// p is tested with the horizontal line through it, so boundary points follow
// the half-open rule of Line.SegmentIntersection. A point on a non-horizontal
// edge is inside. A point on a horizontal edge is inside only when the region
// lies above that edge: the bottom of an outer boundary and the top of a hole
// are inside, while the top of an outer boundary and the bottom of a hole are
// not. A vertex the line only touches is outside.
func (r *Region2D) Inside(p geometry.Point) bool {
	probe := geometry.FromPointDir(p, geometry.Pt(1, 0))
	x, ok := probe.Intersection(geometry.FromPointDir(p, geometry.Pt(0, 1)))
	if !ok {
		panic("brep: horizontal and vertical probes are parallel")
	}
	return r.CutRegion(probe).Inside(x.Pos)
}

// SignedDistance returns the distance from p to the nearest edge, negated
// when p is inside the region.
func (r *Region2D) SignedDistance(p geometry.Point) float64 {
	d := math.Inf(1)
	for e := range r.edges {
		d = math.Min(d, segmentDistance(r.EdgeSegment(e), p))
	}
	if r.Inside(p) {
		return -d
	}
	return d
}

// Bounds returns the bounding rectangle of all edge segments.
func (r *Region2D) Bounds() r2.Rect {
	b := r2.EmptyRect()
	for e := range r.edges {
		seg := r.EdgeSegment(e)
		b = b.AddPoint(r2.Point{X: seg.P1().X, Y: seg.P1().Y})
		b = b.AddPoint(r2.Point{X: seg.P2().X, Y: seg.P2().Y})
	}
	return b
}

func segmentDistance(seg geometry.LineSegment, p geometry.Point) float64 {
	a, b := seg.P1(), seg.P2()
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Length()
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return p.Sub(a.Add(ab.MulScalar(t))).Length()
}
