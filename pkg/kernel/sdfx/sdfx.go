// Package sdfx implements kernel.Kernel with the github.com/deadsy/sdfx
// SDF-based CAD library. Profiles are sampled through their signed distance
// and extruded along z.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/birktj/cad-kernel-experiments/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// DefaultMeshCells is the marching cubes resolution along the longest axis.
const DefaultMeshCells = 100

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// profileSDF adapts a kernel.Profile to sdf.SDF2.
type profileSDF struct {
	p  kernel.Profile
	bb sdf.Box2
}

func newProfileSDF(p kernel.Profile) *profileSDF {
	b := p.Bounds()
	size := b.Size()
	// Leave room around the boundary so marching cubes sees the surface.
	b = b.ExpandedByMargin(0.05 * math.Max(size.X, size.Y))
	return &profileSDF{
		p: p,
		bb: sdf.Box2{
			Min: v2.Vec{X: b.X.Lo, Y: b.Y.Lo},
			Max: v2.Vec{X: b.X.Hi, Y: b.Y.Hi},
		},
	}
}

func (s *profileSDF) Evaluate(p v2.Vec) float64 {
	return s.p.SignedDistance(p)
}

func (s *profileSDF) BoundingBox() sdf.Box2 {
	return s.bb
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithMeshCells sets the marching cubes resolution used by ToMesh.
// Non-positive values are ignored.
func WithMeshCells(n int) Option {
	return func(k *Kernel) {
		if n > 0 {
			k.cells = n
		}
	}
}

// Kernel implements kernel.Kernel using sdfx.
type Kernel struct {
	cells int
}

// New returns a new Kernel.
func New(opts ...Option) *Kernel {
	k := &Kernel{cells: DefaultMeshCells}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// MeshCells returns the marching cubes resolution.
func (k *Kernel) MeshCells() int {
	return k.cells
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with its minimum corner at the origin. sdf.Box3D
// centers the box at the origin, so we translate by half-dimensions.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Extrude sweeps p from z = 0 to z = height.
func (k *Kernel) Extrude(p kernel.Profile, height float64) kernel.Solid {
	s := sdf.Extrude3D(newProfileSDF(p), height)
	m := sdf.Translate3d(v3.Vec{Z: height / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Union returns the union of two solids.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(unwrap(s), renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("sdfx: marching cubes produced no triangles at %d cells", k.cells)
	}

	n := len(triangles) * 3
	m := &kernel.Mesh{
		Vertices: make([]float32, 0, n*3),
		Normals:  make([]float32, 0, n*3),
		Indices:  make([]uint32, 0, n),
	}
	for i, tri := range triangles {
		fn := tri.Normal()
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, float32(fn.X), float32(fn.Y), float32(fn.Z))
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m, nil
}
