// Package sketch defines the document produced by evaluating a sketch
// program: named 2D regions described by lines and edges, and the probe and
// cut queries to run against them. A Sketch is plain data; Build turns its
// definitions into validated regions.
package sketch

import (
	"fmt"

	"github.com/birktj/cad-kernel-experiments/pkg/brep"
	"github.com/birktj/cad-kernel-experiments/pkg/geometry"
)

// RegionDef is the unvalidated description of one region.
type RegionDef struct {
	Name  string
	Lines []geometry.Line
	Edges []brep.Edge
}

// AddBoundary appends a closed boundary through corners. Each consecutive
// pair of corners gets a line, and each line an edge bounded by the lines
// before and after it. Clockwise boundaries enclose material and
// counterclockwise ones cut holes.
func (d *RegionDef) AddBoundary(corners ...geometry.Point) {
	firstLine, firstEdge, n := len(d.Lines), len(d.Edges), len(corners)
	for i := range corners {
		d.Lines = append(d.Lines, geometry.FromTwoPoints(corners[i], corners[(i+1)%n]))
		d.Edges = append(d.Edges, brep.Edge{
			Line: firstLine + i,
			X1:   firstEdge + (i+n-1)%n,
			X2:   firstEdge + (i+1)%n,
		})
	}
}

// Probe asks whether Point lies inside Region.
type Probe struct {
	Region string
	Point  geometry.Point
}

// Cut asks for the intervals of Line inside Region.
type Cut struct {
	Region string
	Line   geometry.Line
}

// Sketch is an ordered collection of region definitions and queries.
type Sketch struct {
	Regions []*RegionDef
	Probes  []Probe
	Cuts    []Cut

	nameIndex map[string]int
}

// New creates an empty Sketch.
func New() *Sketch {
	return &Sketch{nameIndex: make(map[string]int)}
}

// AddRegion appends a region definition. It does not check for duplicate
// names; Validate reports them.
func (s *Sketch) AddRegion(d *RegionDef) {
	s.Regions = append(s.Regions, d)
	if _, ok := s.nameIndex[d.Name]; !ok {
		s.nameIndex[d.Name] = len(s.Regions) - 1
	}
}

// AddProbe appends a containment query.
func (s *Sketch) AddProbe(region string, p geometry.Point) {
	s.Probes = append(s.Probes, Probe{Region: region, Point: p})
}

// AddCut appends a slicing query.
func (s *Sketch) AddCut(region string, l geometry.Line) {
	s.Cuts = append(s.Cuts, Cut{Region: region, Line: l})
}

// Lookup returns the first region definition with the given name, or nil.
func (s *Sketch) Lookup(name string) *RegionDef {
	i, ok := s.nameIndex[name]
	if !ok {
		return nil
	}
	return s.Regions[i]
}

// MustLookup returns the region definition with the given name, or panics.
func (s *Sketch) MustLookup(name string) *RegionDef {
	d := s.Lookup(name)
	if d == nil {
		panic(fmt.Sprintf("sketch: no region named %q", name))
	}
	return d
}

// RegionCount returns the number of region definitions.
func (s *Sketch) RegionCount() int {
	return len(s.Regions)
}
