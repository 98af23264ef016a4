package geometry

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Point is a position or displacement in the plane.
type Point = v2.Vec

// Pt is a convenience constructor for a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// perp returns the 2D perp product (z of the 3D cross product) of a and b.
func perp(a, b Point) float64 {
	return a.X*b.Y - a.Y*b.X
}

// normalize returns v scaled to unit length.
func normalize(v Point) Point {
	return v.MulScalar(1 / v.Length())
}

// totalKey maps a float64 onto an int64 whose natural order is the IEEE 754
// total order: -NaN < -Inf < ... < -0 < +0 < ... < +Inf < +NaN.
func totalKey(f float64) int64 {
	b := int64(math.Float64bits(f))
	return b ^ int64(uint64(b>>63)>>1)
}

// TotalCompare compares two floats under the IEEE 754 total order. Unlike
// cmp.Compare it distinguishes -0 from +0, so equal results imply equal bits.
func TotalCompare(a, b float64) int {
	ka, kb := totalKey(a), totalKey(b)
	switch {
	case ka < kb:
		return -1
	case ka > kb:
		return 1
	default:
		return 0
	}
}

// ComparePoints orders points by x, then y, under the total order. It is not
// a geometrically meaningful order, only a deterministic one.
func ComparePoints(p, q Point) int {
	if c := TotalCompare(p.X, q.X); c != 0 {
		return c
	}
	return TotalCompare(p.Y, q.Y)
}
