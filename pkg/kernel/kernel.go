// Package kernel defines the solid modelling backend that turns validated
// 2D regions into 3D solids and meshes. Implementations (sdfx) sit behind
// the Kernel interface so the rest of the system never touches a backend
// type directly.
package kernel

import (
	"github.com/golang/geo/r2"

	"github.com/birktj/cad-kernel-experiments/pkg/geometry"
)

// Profile is a closed planar shape that can be extruded. *brep.Region2D
// satisfies it.
type Profile interface {
	// SignedDistance returns the distance from p to the boundary, negative
	// inside.
	SignedDistance(p geometry.Point) float64

	// Bounds returns the bounding rectangle of the boundary.
	Bounds() r2.Rect
}

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract solid modelling interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Extrude(p Profile, height float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
