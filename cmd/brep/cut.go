package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/birktj/cad-kernel-experiments/pkg/brep"
	"github.com/birktj/cad-kernel-experiments/pkg/geometry"
)

var (
	cutRegion  string
	cutThrough []float64
	cutDir     []float64
)

var cutCmd = &cobra.Command{
	Use:   "cut [file]",
	Short: "Slice a region with a line",
	Long: `Slice a region with the line through --through along --dir and print the
intervals of the line that lie inside the region. Positions are measured
along the direction.`,
	Args: cobra.ExactArgs(1),
	RunE: runCut,
}

func init() {
	rootCmd.AddCommand(cutCmd)

	cutCmd.Flags().StringVarP(&cutRegion, "region", "r", "", "region name")
	cutCmd.Flags().Float64SliceVar(&cutThrough, "through", []float64{0, 0}, "point on the line, as x,y")
	cutCmd.Flags().Float64SliceVar(&cutDir, "dir", []float64{1, 0}, "line direction, as dx,dy")
	cutCmd.MarkFlagRequired("region")
}

func runCut(cmd *cobra.Command, args []string) error {
	if len(cutThrough) != 2 || len(cutDir) != 2 {
		return fmt.Errorf("--through and --dir take exactly two values")
	}
	d := geometry.Pt(cutDir[0], cutDir[1])
	if d.Length() == 0 {
		return fmt.Errorf("--dir must be non-zero")
	}

	r, err := buildRegion(cmd, args[0], cutRegion)
	if err != nil {
		return err
	}
	line := geometry.FromPointDir(geometry.Pt(cutThrough[0], cutThrough[1]), d)
	reg := r.CutRegion(line)

	out := cmd.OutOrStdout()
	points := reg.Points()
	for _, cell := range reg.Cells() {
		a, b := points[cell[0]], points[cell[1]]
		pa, pb := line.Point(a.Pos), line.Point(b.Pos)
		fmt.Fprintf(out, "[%g, %g] from (%g, %g) to (%g, %g)\n", a.Pos, b.Pos, pa.X, pa.Y, pb.X, pb.Y)
	}
	if reg.IsEmpty() {
		fmt.Fprintln(out, "empty")
	}
	return nil
}

// buildRegion loads the sketch at path and builds the named region.
func buildRegion(cmd *cobra.Command, path, name string) (*brep.Region2D, error) {
	s, err := loadSketch(cmd, path)
	if err != nil {
		return nil, err
	}
	def := s.Lookup(name)
	if def == nil {
		return nil, fmt.Errorf("%s: no region named %q", path, name)
	}
	return brep.New(def.Lines, def.Edges)
}
