package sketch

import (
	"fmt"

	"github.com/birktj/cad-kernel-experiments/pkg/brep"
)

// Region is a validated region together with its name.
type Region struct {
	Name string
	*brep.Region2D
}

// Build validates every region definition in declaration order and returns
// the resulting regions. The first invalid region stops the build.
func (s *Sketch) Build() ([]Region, error) {
	regions := make([]Region, 0, len(s.Regions))
	for _, d := range s.Regions {
		r, err := brep.New(d.Lines, d.Edges)
		if err != nil {
			return nil, fmt.Errorf("sketch: region %q: %w", d.Name, err)
		}
		regions = append(regions, Region{Name: d.Name, Region2D: r})
	}
	return regions, nil
}

// ProbeResult is the answer to one Probe.
type ProbeResult struct {
	Region string  `json:"region"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Inside bool    `json:"inside"`
}

// CutResult is the answer to one Cut. Intervals are positions along the
// cut line, measured in its direction from its origin.
type CutResult struct {
	Region    string       `json:"region"`
	Line      string       `json:"line"`
	Intervals [][2]float64 `json:"intervals"`
}

// Report collects the answers to every query in a sketch.
type Report struct {
	Probes []ProbeResult `json:"probes"`
	Cuts   []CutResult   `json:"cuts"`
}

// Run builds the sketch and answers its probes and cuts in order.
func (s *Sketch) Run() (*Report, error) {
	regions, err := s.Build()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*brep.Region2D, len(regions))
	for _, r := range regions {
		if _, ok := byName[r.Name]; !ok {
			byName[r.Name] = r.Region2D
		}
	}

	report := &Report{
		Probes: make([]ProbeResult, 0, len(s.Probes)),
		Cuts:   make([]CutResult, 0, len(s.Cuts)),
	}
	for _, p := range s.Probes {
		r, ok := byName[p.Region]
		if !ok {
			return nil, fmt.Errorf("sketch: probe: no region named %q", p.Region)
		}
		report.Probes = append(report.Probes, ProbeResult{
			Region: p.Region,
			X:      p.Point.X,
			Y:      p.Point.Y,
			Inside: r.Inside(p.Point),
		})
	}
	for _, c := range s.Cuts {
		r, ok := byName[c.Region]
		if !ok {
			return nil, fmt.Errorf("sketch: cut: no region named %q", c.Region)
		}
		reg := r.CutRegion(c.Line)
		points := reg.Points()
		intervals := make([][2]float64, 0, len(points)/2)
		for _, cell := range reg.Cells() {
			intervals = append(intervals, [2]float64{points[cell[0]].Pos, points[cell[1]].Pos})
		}
		report.Cuts = append(report.Cuts, CutResult{
			Region:    c.Region,
			Line:      c.Line.String(),
			Intervals: intervals,
		})
	}
	return report, nil
}
