// Package tessellate builds the regions of a sketch and produces triangle
// meshes using a geometry kernel. Regions are meshed one by one or combined
// into a single solid with a boolean operation.
package tessellate

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang/geo/r2"

	"github.com/birktj/cad-kernel-experiments/pkg/brep"
	"github.com/birktj/cad-kernel-experiments/pkg/kernel"
	"github.com/birktj/cad-kernel-experiments/pkg/sketch"
)

// DefaultHeight is the extrusion height used when Options.Height is zero.
const DefaultHeight = 1.0

// ErrBadHeight is returned for a negative extrusion height.
var ErrBadHeight = errors.New("tessellate: height must be positive")

// ErrNoRegions is returned by Combine for a sketch with nothing to mesh.
var ErrNoRegions = errors.New("tessellate: no regions to combine")

// Options control tessellation.
type Options struct {
	// Height is the extrusion distance along +Z. Zero means DefaultHeight.
	Height float64

	// Lift raises the i-th meshed region by i*Lift along Z so that
	// overlapping regions can be told apart.
	Lift float64

	// Base adds a plate of this thickness under the bounds of all regions
	// when combining. Zero means no plate.
	Base float64
}

func (o Options) height() (float64, error) {
	switch {
	case o.Height == 0:
		return DefaultHeight, nil
	case o.Height < 0:
		return 0, fmt.Errorf("%w: %g", ErrBadHeight, o.Height)
	}
	return o.Height, nil
}

// Op is a boolean operation used to combine region solids.
type Op int

const (
	OpUnion Op = iota
	OpIntersection
	OpDifference
)

func (o Op) String() string {
	switch o {
	case OpUnion:
		return "union"
	case OpIntersection:
		return "intersection"
	case OpDifference:
		return "difference"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// ParseOp returns the operation named s.
func ParseOp(s string) (Op, error) {
	for _, o := range []Op{OpUnion, OpIntersection, OpDifference} {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("tessellate: unknown operation %q (want union, intersection or difference)", s)
}

type regionSolid struct {
	name   string
	solid  kernel.Solid
	bounds r2.Rect
}

// solids builds and extrudes every region of s that has edges.
func solids(s *sketch.Sketch, k kernel.Kernel, opts Options) ([]regionSolid, error) {
	h, err := opts.height()
	if err != nil {
		return nil, err
	}
	regions, err := s.Build()
	if err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}

	out := make([]regionSolid, 0, len(regions))
	for _, r := range regions {
		if len(r.Edges()) == 0 {
			brep.Logger().Debug("tessellate: skipping empty region", slog.String("region", r.Name))
			continue
		}
		solid := k.Extrude(r, h)
		if opts.Lift != 0 {
			solid = k.Translate(solid, 0, 0, float64(len(out))*opts.Lift)
		}
		out = append(out, regionSolid{name: r.Name, solid: solid, bounds: r.Bounds()})
	}
	return out, nil
}

// Tessellate builds every region of s, extrudes it and produces one mesh per
// region, named after the region, in declaration order. Regions without
// edges are skipped. The tessellator is read-only and never mutates s.
func Tessellate(s *sketch.Sketch, k kernel.Kernel, opts Options) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}
	rs, err := solids(s, k, opts)
	if err != nil {
		return nil, err
	}

	meshes := make([]*kernel.Mesh, 0, len(rs))
	for _, r := range rs {
		mesh, err := k.ToMesh(r.solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for region %q: %w", r.name, err)
		}
		mesh.Name = r.name
		brep.Logger().Debug("tessellate: meshed region",
			slog.String("region", r.name),
			slog.Int("triangles", mesh.TriangleCount()))
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// Combine joins the extruded regions of s into one solid with op and meshes
// it. Difference subtracts every later region from the first. The mesh is
// named after op.
func Combine(s *sketch.Sketch, k kernel.Kernel, op Op, opts Options) (*kernel.Mesh, error) {
	if s == nil {
		return nil, ErrNoRegions
	}
	if opts.Base < 0 {
		return nil, fmt.Errorf("tessellate: base must not be negative: %g", opts.Base)
	}
	rs, err := solids(s, k, opts)
	if err != nil {
		return nil, err
	}
	if len(rs) == 0 {
		return nil, ErrNoRegions
	}

	acc, bounds := rs[0].solid, rs[0].bounds
	for _, r := range rs[1:] {
		switch op {
		case OpUnion:
			acc = k.Union(acc, r.solid)
		case OpIntersection:
			acc = k.Intersection(acc, r.solid)
		case OpDifference:
			acc = k.Difference(acc, r.solid)
		default:
			return nil, fmt.Errorf("tessellate: unknown operation %v", op)
		}
		bounds = bounds.Union(r.bounds)
	}

	if opts.Base > 0 {
		size := bounds.Size()
		base := k.Translate(k.Box(size.X, size.Y, opts.Base), bounds.X.Lo, bounds.Y.Lo, -opts.Base)
		acc = k.Union(acc, base)
	}

	mesh, err := k.ToMesh(acc)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for %v of %d regions: %w", op, len(rs), err)
	}
	mesh.Name = op.String()
	brep.Logger().Debug("tessellate: combined regions",
		slog.String("op", op.String()),
		slog.Int("regions", len(rs)),
		slog.Int("triangles", mesh.TriangleCount()))
	return mesh, nil
}

// Merge concatenates meshes into a single mesh with the given name.
func Merge(name string, meshes ...*kernel.Mesh) *kernel.Mesh {
	out := &kernel.Mesh{Name: name}
	for _, m := range meshes {
		out.Extend(m)
	}
	return out
}

// Recenter moves meshes together so that the centre of their joint bounding
// box is at the origin. The inputs are not modified.
func Recenter(meshes []*kernel.Mesh) []*kernel.Mesh {
	c := Merge("", meshes...).Center()
	out := make([]*kernel.Mesh, len(meshes))
	for i, m := range meshes {
		out[i] = m.Translate(-c[0], -c[1], -c[2])
	}
	return out
}
