package brep

import (
	"fmt"
	"slices"
	"strings"

	"github.com/birktj/cad-kernel-experiments/pkg/geometry"
)

// Region1D is a union of closed intervals along a line. Its points are
// sorted by geometry.CompareLinePoints and alternate between entering and
// exiting, starting with an entering point. The zero value is the empty
// region.
type Region1D struct {
	points []geometry.LinePoint
}

// EmptyRegion1D returns the region with no intervals.
func EmptyRegion1D() Region1D {
	return Region1D{}
}

// NewRegion1D sorts a copy of points and validates it as a region.
func NewRegion1D(points []geometry.LinePoint) (Region1D, error) {
	ps := slices.Clone(points)
	slices.SortFunc(ps, geometry.CompareLinePoints)

	dir := false
	for i, p := range ps {
		if p.Dir == dir {
			return Region1D{}, fmt.Errorf("%w: point %d is %v", ErrAlternation, i, p)
		}
		dir = p.Dir
	}
	if dir {
		return Region1D{}, fmt.Errorf("%w: %d points", ErrUnbalanced, len(ps))
	}
	return Region1D{points: ps}, nil
}

// Points returns a copy of the boundary points in order.
func (r Region1D) Points() []geometry.LinePoint {
	return slices.Clone(r.points)
}

// Len returns the number of boundary points.
func (r Region1D) Len() int { return len(r.points) }

// IsEmpty reports whether the region has no intervals.
func (r Region1D) IsEmpty() bool { return len(r.points) == 0 }

// Cells returns the index pairs of the points bounding each interval.
func (r Region1D) Cells() [][2]int {
	cells := make([][2]int, 0, len(r.points)/2)
	for i := 0; i+1 < len(r.points); i += 2 {
		cells = append(cells, [2]int{i, i + 1})
	}
	return cells
}

// Inside reports whether pos lies in the region. Boundary points are part
// of the region.
func (r Region1D) Inside(pos float64) bool {
	i, found := slices.BinarySearchFunc(r.points, pos, func(p geometry.LinePoint, pos float64) int {
		return geometry.TotalCompare(p.Pos, pos)
	})
	if found {
		return true
	}
	if i == 0 {
		return false
	}
	return r.points[i-1].Dir
}

// Intersection1D lists the boundary points of two regions that lie inside
// the other region.
type Intersection1D struct {
	// R1Inside indexes the receiver's points that lie inside the argument.
	R1Inside []int
	// R2Inside indexes the argument's points that lie inside the receiver.
	R2Inside []int
}

// Intersection reports which boundary points of each region lie inside the
// other one.
func (r Region1D) Intersection(other Region1D) Intersection1D {
	var x Intersection1D
	for i, p := range r.points {
		if other.Inside(p.Pos) {
			x.R1Inside = append(x.R1Inside, i)
		}
	}
	for i, p := range other.points {
		if r.Inside(p.Pos) {
			x.R2Inside = append(x.R2Inside, i)
		}
	}
	return x
}

// Contains reports whether none of r's boundary points lie inside other.
//
// Note that this is not interval containment: [0, 10] contains [2, 3], but
// so does [0, 1] contain [5, 6].
func (r Region1D) Contains(other Region1D) bool {
	return len(r.Intersection(other).R1Inside) == 0
}

// encloses reports whether every point of inner lies inside r and no point
// of r lies strictly inside inner.
func (r Region1D) encloses(inner Region1D) bool {
	for _, p := range inner.points {
		if !r.Inside(p.Pos) {
			return false
		}
	}
	for _, p := range r.points {
		if inner.interior(p.Pos) {
			return false
		}
	}
	return true
}

// disjoint reports whether no boundary point of either region lies inside
// the other.
func (r Region1D) disjoint(other Region1D) bool {
	x := r.Intersection(other)
	return len(x.R1Inside) == 0 && len(x.R2Inside) == 0
}

// interior reports whether pos lies in the region but not on its boundary.
func (r Region1D) interior(pos float64) bool {
	_, found := slices.BinarySearchFunc(r.points, pos, func(p geometry.LinePoint, pos float64) int {
		return geometry.TotalCompare(p.Pos, pos)
	})
	return !found && r.Inside(pos)
}

func (r Region1D) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range r.points {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p.String())
	}
	b.WriteByte(']')
	return b.String()
}
