package geometry

import (
	"math"
	"testing"
)

func TestLineSegmentOrdersEndpoints(t *testing.T) {
	l := FromPointDir(Pt(0, 2), Pt(1, 0))
	left := FromTwoPoints(Pt(-3, 0), Pt(-3, 1))
	right := FromTwoPoints(Pt(4, 0), Pt(4, 1))

	for _, order := range [][2]Line{{left, right}, {right, left}} {
		seg, ok := l.LineSegment(order[0], order[1])
		if !ok {
			t.Fatal("expected a segment")
		}
		if seg.P1() != Pt(-3, 2) || seg.P2() != Pt(4, 2) {
			t.Errorf("segment = %v..%v, want (-3, 2)..(4, 2)", seg.P1(), seg.P2())
		}
	}
}

func TestLineSegmentParallelBound(t *testing.T) {
	l := FromPointDir(Pt(0, 0), Pt(1, 0))
	parallel := FromPointDir(Pt(0, 5), Pt(1, 0))
	cross := FromTwoPoints(Pt(1, 0), Pt(1, 1))

	if _, ok := l.LineSegment(parallel, cross); ok {
		t.Error("segment bounded by a parallel line")
	}
	if _, ok := l.LineSegment(cross, parallel); ok {
		t.Error("segment bounded by a parallel line")
	}
}

func TestSegmentLine(t *testing.T) {
	l := FromPointDir(Pt(0, 0), Pt(1, 1))
	seg, ok := l.LineSegment(FromPointDir(Pt(1, 0), Pt(0, 1)), FromPointDir(Pt(5, 0), Pt(0, 1)))
	if !ok {
		t.Fatal("expected a segment")
	}
	got := seg.Line()
	if d := got.Dir().Sub(l.Dir()).Length(); d > 1e-12 {
		t.Errorf("segment line direction %v, want %v", got.Dir(), l.Dir())
	}
	if d := math.Abs(got.Offset() - l.Offset()); d > 1e-12 {
		t.Errorf("segment line offset %g, want %g", got.Offset(), l.Offset())
	}
}

func TestSegmentIntersection(t *testing.T) {
	// Segment from (2, -1) to (2, 3).
	seg, ok := FromTwoPoints(Pt(2, 0), Pt(2, 1)).LineSegment(
		FromPointDir(Pt(0, -1), Pt(1, 0)),
		FromPointDir(Pt(0, 3), Pt(1, 0)),
	)
	if !ok {
		t.Fatal("expected a segment")
	}

	tests := []struct {
		name    string
		l       Line
		wantHit bool
		wantPos float64
	}{
		{"crossing", FromPointDir(Pt(0, 1), Pt(1, 0)), true, 2},
		{"above", FromPointDir(Pt(0, 5), Pt(1, 0)), false, 0},
		{"below", FromPointDir(Pt(0, -4), Pt(1, 0)), false, 0},
		{"parallel", FromPointDir(Pt(7, 0), Pt(0, 1)), false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, hit := tt.l.SegmentIntersection(seg)
			if hit != tt.wantHit {
				t.Fatalf("hit = %v, want %v", hit, tt.wantHit)
			}
			if hit && math.Abs(x.Pos-tt.wantPos) > 1e-12 {
				t.Errorf("Pos = %g, want %g", x.Pos, tt.wantPos)
			}
			if seg.IntersectsLine(tt.l) != tt.wantHit {
				t.Errorf("IntersectsLine = %v, want %v", !tt.wantHit, tt.wantHit)
			}
		})
	}
}

func TestSegmentIntersectionAgreesWithLine(t *testing.T) {
	p1 := Pt(3, 7)
	p2 := Pt(2.5, -10)

	l := FromTwoPoints(p1, p2)
	seg, ok := l.LineSegment(FromPointDir(p1, Pt(1, 0)), FromPointDir(p2, Pt(1, 0)))
	if !ok {
		t.Fatal("expected a segment")
	}

	ray := FromPointDir(Pt(0, 0), Pt(1, 0))
	x1, ok := ray.Intersection(l)
	if !ok {
		t.Fatal("expected a line intersection")
	}
	x2, ok := ray.SegmentIntersection(seg)
	if !ok {
		t.Fatal("expected a segment intersection")
	}

	if x1.Dir != x2.Dir {
		t.Errorf("Dir mismatch: line %v, segment %v", x1.Dir, x2.Dir)
	}
	if math.Abs(x1.Pos-x2.Pos) > Epsilon {
		t.Errorf("Pos mismatch: line %g, segment %g", x1.Pos, x2.Pos)
	}
}

// A line passing through the corner shared by two segments must hit exactly
// one of them.
func TestSegmentIntersectionSharedCorner(t *testing.T) {
	val := -1.316314
	rot := 0.0

	for i := 0; i < 2000; i++ {
		dir := rotate(Pt(1, 0), rot)

		p1 := rotate(Pt(3, 10), rot)
		p2 := rotate(Pt(1.543, val), rot)
		p3 := rotate(Pt(5.123, -10), rot)

		l1 := FromTwoPoints(p1, p2)
		l2 := FromTwoPoints(p2, p3)
		ray := FromPointDir(p2, dir)

		s1, ok1 := l1.LineSegment(FromPointDir(p1, dir), l2)
		s2, ok2 := l2.LineSegment(l1, FromPointDir(p3, dir))
		if !ok1 || !ok2 {
			t.Fatalf("iteration %d: missing segment", i)
		}

		if s1.IntersectsLine(ray) == s2.IntersectsLine(ray) {
			t.Fatalf("iteration %d: ray through corner hit both or neither segment", i)
		}

		val = nextUp(val)
		rot = nextUp(rot) + 30
	}
}

// A line touching the corner shared by two segments hits both or neither,
// and the hits keep the segments' order along the line. Rounding decides
// which, so over many rotations both outcomes occur.
func TestSegmentIntersectionTouchingCorner(t *testing.T) {
	val := 10.316314
	rot := 0.0
	hits := 0

	for i := 0; i < 1000; i++ {
		p1 := rotate(Pt(3, 0.3), rot)
		p2 := rotate(Pt(10.532, val), rot)
		p3 := rotate(Pt(25.123, 0.07), rot)

		l1 := FromTwoPoints(p1, p2)
		l2 := FromTwoPoints(p2, p3)
		l3 := FromTwoPoints(p3, p1)
		ray := FromPointDir(p2, rotate(Pt(1, 0), rot))

		s1, ok1 := l1.LineSegment(l2, l3)
		s2, ok2 := l2.LineSegment(l3, l1)
		if !ok1 || !ok2 {
			t.Fatalf("iteration %d: missing segment", i)
		}

		x1, hit1 := ray.SegmentIntersection(s1)
		x2, hit2 := ray.SegmentIntersection(s2)
		if hit1 != hit2 {
			t.Fatalf("iteration %d: ray touching corner hit only one segment", i)
		}
		if hit1 {
			hits++
			if x1.Pos > x2.Pos+1e-9 {
				t.Fatalf("iteration %d: hits out of order: %g > %g", i, x1.Pos, x2.Pos)
			}
		}

		val = nextUp(val)
		rot = nextUp(rot) + 30
	}

	if hits <= 50 || hits >= 950 {
		t.Errorf("ray touching corner hit both segments %d times in 1000, want some but not nearly all", hits)
	}
}
