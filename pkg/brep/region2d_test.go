package brep

import (
	"errors"
	"math"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/birktj/cad-kernel-experiments/pkg/geometry"
)

// loop builds a closed boundary through corners. Its lines and edges are
// numbered from first, so several loops can be concatenated.
func loop(first int, corners ...geometry.Point) ([]geometry.Line, []Edge) {
	n := len(corners)
	lines := make([]geometry.Line, n)
	edges := make([]Edge, n)
	for i := range corners {
		lines[i] = geometry.FromTwoPoints(corners[i], corners[(i+1)%n])
		edges[i] = Edge{Line: first + i, X1: first + (i+n-1)%n, X2: first + (i+1)%n}
	}
	return lines, edges
}

// squareLoop returns the clockwise square [x, x+size] x [y, y+size].
func squareLoop(first int, x, y, size float64) ([]geometry.Line, []Edge) {
	return loop(first,
		geometry.Pt(x, y),
		geometry.Pt(x, y+size),
		geometry.Pt(x+size, y+size),
		geometry.Pt(x+size, y),
	)
}

// holeLoop returns the counterclockwise square [x, x+size] x [y, y+size].
func holeLoop(first int, x, y, size float64) ([]geometry.Line, []Edge) {
	return loop(first,
		geometry.Pt(x, y),
		geometry.Pt(x+size, y),
		geometry.Pt(x+size, y+size),
		geometry.Pt(x, y+size),
	)
}

func squareLinesEdges() ([]geometry.Line, []Edge) {
	return squareLoop(0, 0, 0, 10)
}

func holeLinesEdges() ([]geometry.Line, []Edge) {
	lines, edges := squareLoop(0, 0, 0, 10)
	hl, he := holeLoop(4, 3, 3, 4)
	return append(lines, hl...), append(edges, he...)
}

func mustNew(t *testing.T, build func() ([]geometry.Line, []Edge)) *Region2D {
	t.Helper()
	r, err := New(build())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func horizontal(y float64) geometry.Line {
	return geometry.FromPointDir(geometry.Pt(0, y), geometry.Pt(1, 0))
}

func positions(r Region1D) []float64 {
	var ps []float64
	for _, p := range r.Points() {
		ps = append(ps, p.Pos)
	}
	return ps
}

func closeTo(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestSquareInside(t *testing.T) {
	r := mustNew(t, squareLinesEdges)

	tests := []struct {
		name string
		p    geometry.Point
		want bool
	}{
		{"centroid", geometry.Pt(5, 5), true},
		{"near corner", geometry.Pt(0.5, 9.5), true},
		{"right", geometry.Pt(15, 5), false},
		{"left", geometry.Pt(-1, 5), false},
		{"below", geometry.Pt(5, -3), false},
		{"above", geometry.Pt(5, 20), false},
		{"far away", geometry.Pt(-100, 250), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Inside(tt.p); got != tt.want {
				t.Errorf("Inside(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestHoleInside(t *testing.T) {
	r := mustNew(t, holeLinesEdges)

	tests := []struct {
		name string
		p    geometry.Point
		want bool
	}{
		{"left of hole", geometry.Pt(1, 5), true},
		{"below hole", geometry.Pt(5, 1), true},
		{"lower right", geometry.Pt(8.5, 2), true},
		{"in hole", geometry.Pt(5, 5), false},
		{"right of outer", geometry.Pt(15, 5), false},
		{"left of outer", geometry.Pt(-1, 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Inside(tt.p); got != tt.want {
				t.Errorf("Inside(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestCutRegion(t *testing.T) {
	square := mustNew(t, squareLinesEdges)
	hole := mustNew(t, holeLinesEdges)

	tests := []struct {
		name   string
		region *Region2D
		line   geometry.Line
		want   []float64
	}{
		{"square", square, horizontal(5), []float64{0, 10}},
		{"square miss", square, horizontal(12), nil},
		{"hole", hole, horizontal(5), []float64{0, 3, 7, 10}},
		{"hole below", hole, horizontal(1), []float64{0, 10}},
		{"vertical", hole, geometry.FromPointDir(geometry.Pt(5, 0), geometry.Pt(0, 1)), []float64{0, 3, 7, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.region.CutRegion(tt.line)
			if !closeTo(positions(got), tt.want) {
				t.Fatalf("CutRegion = %v, want positions %v", got, tt.want)
			}
			for i, p := range got.Points() {
				if p.Dir != (i%2 == 0) {
					t.Errorf("point %d = %v has the wrong direction", i, p)
				}
			}
		})
	}
}

func TestCutRegionIdempotent(t *testing.T) {
	r := mustNew(t, holeLinesEdges)
	line := geometry.FromTwoPoints(geometry.Pt(-1, 0.5), geometry.Pt(11, 9.25))

	first := r.CutRegion(line)
	second := r.CutRegion(line)
	if !slices.Equal(first.Points(), second.Points()) {
		t.Errorf("CutRegion not idempotent: %v then %v", first, second)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name    string
		build   func() ([]geometry.Line, []Edge)
		wantErr error
	}{
		{
			name: "line out of range",
			build: func() ([]geometry.Line, []Edge) {
				lines, edges := squareLinesEdges()
				edges[2].Line = 9
				return lines, edges
			},
			wantErr: ErrIndexOutOfRange,
		},
		{
			name: "neighbour out of range",
			build: func() ([]geometry.Line, []Edge) {
				lines, edges := squareLinesEdges()
				edges[1].X2 = -1
				return lines, edges
			},
			wantErr: ErrIndexOutOfRange,
		},
		{
			name: "parallel neighbour",
			build: func() ([]geometry.Line, []Edge) {
				lines, edges := squareLinesEdges()
				edges[0] = Edge{Line: 0, X1: 2, X2: 1}
				return lines, edges
			},
			wantErr: ErrDegenerateEdge,
		},
		{
			name: "asymmetric neighbours",
			build: func() ([]geometry.Line, []Edge) {
				lines, edges := squareLoop(0, 0, 0, 10)
				bl, be := squareLoop(4, 20, 0, 10)
				lines, edges = append(lines, bl...), append(edges, be...)
				edges[0] = Edge{Line: 0, X1: 3, X2: 5}
				return lines, edges
			},
			wantErr: ErrAsymmetricGraph,
		},
		{
			name: "overlapping squares",
			build: func() ([]geometry.Line, []Edge) {
				lines, edges := squareLoop(0, 0, 0, 10)
				bl, be := squareLoop(4, 5, 5, 10)
				return append(lines, bl...), append(edges, be...)
			},
			wantErr: ErrSelfIntersecting,
		},
		{
			name: "hole outside outer boundary",
			build: func() ([]geometry.Line, []Edge) {
				lines, edges := squareLoop(0, 0, 0, 10)
				hl, he := holeLoop(4, 20, 3, 4)
				return append(lines, hl...), append(edges, he...)
			},
			wantErr: ErrSelfIntersecting,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.build())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if r != nil {
				t.Error("New returned a region alongside an error")
			}
		})
	}
}

func TestNewErrorNamesEdge(t *testing.T) {
	lines, edges := squareLoop(0, 0, 0, 10)
	bl, be := squareLoop(4, 5, 5, 10)

	_, err := New(append(lines, bl...), append(edges, be...))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.HasPrefix(err.Error(), "edge 1: ") {
		t.Errorf("err = %q, want it prefixed with the top edge", err)
	}
}

func TestEdgeRegion(t *testing.T) {
	r := mustNew(t, holeLinesEdges)

	tests := []struct {
		name     string
		edge     int
		want     []float64
		wantHole bool
	}{
		{"outer left", 0, []float64{0, 10}, false},
		{"outer top", 1, []float64{0, 10}, false},
		{"hole bottom", 4, []float64{3, 7}, true},
		{"hole right", 5, []float64{3, 7}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.EdgeRegion(tt.edge)
			if !closeTo(positions(got), tt.want) {
				t.Errorf("EdgeRegion(%d) = %v, want positions %v", tt.edge, got, tt.want)
			}
			if h := r.isHoleEdge(tt.edge); h != tt.wantHole {
				t.Errorf("isHoleEdge(%d) = %v, want %v", tt.edge, h, tt.wantHole)
			}
		})
	}
}

func TestEdgeSegment(t *testing.T) {
	r := mustNew(t, squareLinesEdges)

	seg := r.EdgeSegment(0)
	if seg.P1() != geometry.Pt(0, 0) || seg.P2() != geometry.Pt(0, 10) {
		t.Errorf("EdgeSegment(0) = %v..%v, want (0, 0)..(0, 10)", seg.P1(), seg.P2())
	}
	if !r.EdgeIntersects(0, horizontal(5)) {
		t.Error("edge 0 does not intersect y = 5")
	}
	if r.EdgeIntersects(0, horizontal(20)) {
		t.Error("edge 0 intersects y = 20")
	}
}

func TestSignedDistance(t *testing.T) {
	square := mustNew(t, squareLinesEdges)
	hole := mustNew(t, holeLinesEdges)

	tests := []struct {
		name   string
		region *Region2D
		p      geometry.Point
		want   float64
	}{
		{"square centre", square, geometry.Pt(5, 5), -5},
		{"square right", square, geometry.Pt(15, 5), 5},
		{"square above", square, geometry.Pt(5, 12), 2},
		{"square corner", square, geometry.Pt(13, 14), 5},
		{"hole centre", hole, geometry.Pt(5, 5), 2},
		{"between boundaries", hole, geometry.Pt(1, 5), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.region.SignedDistance(tt.p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SignedDistance(%v) = %g, want %g", tt.p, got, tt.want)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	r := mustNew(t, holeLinesEdges)

	b := r.Bounds()
	if b.Lo().X != 0 || b.Lo().Y != 0 || b.Hi().X != 10 || b.Hi().Y != 10 {
		t.Errorf("Bounds() = %v, want [(0, 0), (10, 10)]", b)
	}
}

func TestRegionCopiesInput(t *testing.T) {
	lines, edges := squareLinesEdges()
	r, err := New(lines, edges)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	lines[0] = geometry.FromTwoPoints(geometry.Pt(0, 0), geometry.Pt(1, 1))
	edges[0] = Edge{Line: 3, X1: 3, X2: 3}
	got := r.Edges()
	got[1] = Edge{}

	if !r.Inside(geometry.Pt(5, 5)) {
		t.Error("region changed after its inputs were modified")
	}
	if r.Edges()[1] != (Edge{Line: 1, X1: 0, X2: 2}) {
		t.Errorf("Edges()[1] = %v", r.Edges()[1])
	}
	if len(r.Lines()) != 4 {
		t.Errorf("len(Lines()) = %d, want 4", len(r.Lines()))
	}
}

func TestInsideConcurrent(t *testing.T) {
	r := mustNew(t, holeLinesEdges)

	points := []struct {
		p    geometry.Point
		want bool
	}{
		{geometry.Pt(1, 5), true},
		{geometry.Pt(5, 5), false},
		{geometry.Pt(8.5, 2), true},
		{geometry.Pt(15, 5), false},
	}

	var wg sync.WaitGroup
	errs := make(chan geometry.Point, 8*len(points))
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, tc := range points {
				if r.Inside(tc.p) != tc.want {
					errs <- tc.p
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for p := range errs {
		t.Errorf("wrong containment for %v", p)
	}
}

func TestTriangleCutAtApex(t *testing.T) {
	val := 10.316314
	rot := 0.0

	rotate := func(p geometry.Point) geometry.Point {
		s, c := math.Sincos(rot)
		return geometry.Pt(c*p.X-s*p.Y, s*p.X+c*p.Y)
	}

	for i := 0; i < 1000; i++ {
		p1 := rotate(geometry.Pt(3, 0.3))
		p2 := rotate(geometry.Pt(10.532, val))
		p3 := rotate(geometry.Pt(25.123+val, 0.07))

		r, err := New(
			[]geometry.Line{
				geometry.FromTwoPoints(p1, p2),
				geometry.FromTwoPoints(p2, p3),
				geometry.FromTwoPoints(p3, p1),
			},
			[]Edge{
				{Line: 0, X1: 1, X2: 2},
				{Line: 1, X1: 0, X2: 2},
				{Line: 2, X1: 0, X2: 1},
			},
		)
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}

		touching := geometry.FromPointDir(p2, rotate(geometry.Pt(1, 0)))
		if n := r.CutRegion(touching).Len(); n != 0 && n != 2 {
			t.Fatalf("iteration %d: cut touching apex has %d points, want 0 or 2", i, n)
		}

		through := geometry.FromPointDir(p2, rotate(geometry.Pt(0, 1)))
		if n := r.CutRegion(through).Len(); n != 2 {
			t.Fatalf("iteration %d: cut through apex has %d points, want 2", i, n)
		}

		val = math.Float64frombits(math.Float64bits(val) + 1)
		rot = math.Float64frombits(math.Float64bits(rot)+1) + 30
	}
}

func TestCutTouchingVertex(t *testing.T) {
	square := mustNew(t, squareLinesEdges)
	hole := mustNew(t, holeLinesEdges)
	diag := geometry.Pt(1, -1)
	half := 6 / math.Sqrt2

	tests := []struct {
		name   string
		region *Region2D
		line   geometry.Line
		want   []float64
	}{
		{"outer corner from below", square, geometry.FromPointDir(geometry.Pt(0, 0), diag), nil},
		{"outer corner from above", square, geometry.FromPointDir(geometry.Pt(10, 10), diag), nil},
		{"hole corner", hole, geometry.FromPointDir(geometry.Pt(3, 3), diag), []float64{-half, half}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.region.CutRegion(tt.line)
			if !closeTo(positions(got), tt.want) {
				t.Fatalf("CutRegion = %v, want positions %v", got, tt.want)
			}
			for i, p := range got.Points() {
				if p.Dir != (i%2 == 0) {
					t.Errorf("point %d = %v has the wrong direction", i, p)
				}
			}
		})
	}
}

func TestInsideAtTouchedApex(t *testing.T) {
	r := mustNew(t, func() ([]geometry.Line, []Edge) {
		return loop(0, geometry.Pt(0, 0), geometry.Pt(-3, 6), geometry.Pt(3, 6))
	})

	if r.Inside(geometry.Pt(0, 0)) {
		t.Error("apex touched by the horizontal line is inside")
	}
	if !r.Inside(geometry.Pt(0, 3)) {
		t.Error("(0, 3) is outside")
	}
	if d := r.SignedDistance(geometry.Pt(0, 0)); d != 0 {
		t.Errorf("SignedDistance at apex = %g, want 0", d)
	}
}

func TestInsideBoundary(t *testing.T) {
	square := mustNew(t, squareLinesEdges)
	hole := mustNew(t, holeLinesEdges)

	tests := []struct {
		name   string
		region *Region2D
		p      geometry.Point
		want   bool
	}{
		{"outer bottom", square, geometry.Pt(5, 0), true},
		{"outer top", square, geometry.Pt(5, 10), false},
		{"outer top corner", square, geometry.Pt(10, 10), false},
		{"outer left", square, geometry.Pt(0, 5), true},
		{"outer right", square, geometry.Pt(10, 5), true},
		{"hole bottom", hole, geometry.Pt(5, 3), false},
		{"hole top", hole, geometry.Pt(5, 7), true},
		{"hole left", hole, geometry.Pt(3, 5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.region.Inside(tt.p); got != tt.want {
				t.Errorf("Inside(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestDropTouches(t *testing.T) {
	enter := func(pos float64) geometry.LinePoint { return geometry.NewLinePoint(pos, true) }
	exit := func(pos float64) geometry.LinePoint { return geometry.NewLinePoint(pos, false) }

	tests := []struct {
		name string
		in   []geometry.LinePoint
		want []geometry.LinePoint
	}{
		{"empty", nil, nil},
		{"plain interval", []geometry.LinePoint{enter(0), exit(1)}, []geometry.LinePoint{enter(0), exit(1)}},
		{"lone touch", []geometry.LinePoint{exit(2), enter(2)}, nil},
		{"touch inside interval", []geometry.LinePoint{enter(0), exit(2), enter(2), exit(5)}, []geometry.LinePoint{enter(0), exit(5)}},
		{"rounded touch", []geometry.LinePoint{exit(2), enter(2 + 1e-12)}, nil},
		{"rounded touch inside interval", []geometry.LinePoint{enter(0), enter(2), exit(2 + 1e-12), exit(5)}, []geometry.LinePoint{enter(0), exit(5)}},
		{"far apart", []geometry.LinePoint{exit(2), enter(3)}, []geometry.LinePoint{exit(2), enter(3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dropTouches(slices.Clone(tt.in))
			if !slices.Equal(got, tt.want) {
				t.Errorf("dropTouches(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
