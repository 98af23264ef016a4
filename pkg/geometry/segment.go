package geometry

// LineSegment is a finite chord of a line between two explicit endpoints.
// Segments are produced by Line.LineSegment from bounding lines and are never
// primary input.
type LineSegment struct {
	p1, p2 Point
}

// P1 returns the endpoint with the lower position along the supporting line.
func (s LineSegment) P1() Point { return s.p1 }

// P2 returns the endpoint with the higher position along the supporting line.
func (s LineSegment) P2() Point { return s.p2 }

// Line returns the line through both endpoints, directed from P1 to P2.
func (s LineSegment) Line() Line {
	return FromTwoPoints(s.p1, s.p2)
}

// IntersectsLine reports whether l crosses the segment.
func (s LineSegment) IntersectsLine(l Line) bool {
	_, ok := l.SegmentIntersection(s)
	return ok
}

// LineSegment returns the chord of l bounded by its intersections with x1
// and x2. Endpoints are ordered by their position along l, so the result does
// not depend on the argument order, and each endpoint is computed with
// IntersectionPoint, so a neighbouring segment sharing the corner gets the
// same bits.
func (l Line) LineSegment(x1, x2 Line) (LineSegment, bool) {
	a, ok := l.Intersection(x1)
	if !ok {
		return LineSegment{}, false
	}
	b, ok := l.Intersection(x2)
	if !ok {
		return LineSegment{}, false
	}
	if a.Pos > b.Pos {
		x1, x2 = x2, x1
	}
	p1, ok := l.IntersectionPoint(x1)
	if !ok {
		return LineSegment{}, false
	}
	p2, ok := l.IntersectionPoint(x2)
	if !ok {
		return LineSegment{}, false
	}
	return LineSegment{p1: p1, p2: p2}, true
}

// SegmentIntersection returns where l crosses seg.
//
// The test is half-open: a crossing exists when one endpoint lies strictly
// on the negative side of l and the other on the non-negative side. For two
// segments sharing an endpoint this means a line passing through the shared
// corner hits exactly one of them, while a line only touching the corner hits
// both or neither, with positions ordered like the segments.
func (l Line) SegmentIntersection(seg LineSegment) (LinePoint, bool) {
	lo := l.ProjectPoint(seg.p1)
	hi := l.ProjectPoint(seg.p2)
	dir := false
	if hi.Dist < lo.Dist {
		lo, hi = hi, lo
		dir = true
	}
	if !(lo.Dist < 0 && hi.Dist >= 0) {
		return LinePoint{}, false
	}
	pos := hi.Pos - (hi.Pos-lo.Pos)*hi.Dist/(hi.Dist-lo.Dist)
	return LinePoint{Pos: pos, Dir: dir}, true
}
