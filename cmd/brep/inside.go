package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/birktj/cad-kernel-experiments/pkg/geometry"
)

var (
	insideRegion string
	insideX      float64
	insideY      float64
)

var insideCmd = &cobra.Command{
	Use:   "inside [file]",
	Short: "Report whether a point lies inside a region",
	Long: `Report whether a point lies inside a region, and its signed distance to the
region's boundary. The point is tested along the horizontal line through it:
points on non-horizontal edges are inside, and points on a horizontal edge are
inside only when the region lies above that edge.`,
	Args: cobra.ExactArgs(1),
	RunE: runInside,
}

func init() {
	rootCmd.AddCommand(insideCmd)

	insideCmd.Flags().StringVarP(&insideRegion, "region", "r", "", "region name")
	insideCmd.Flags().Float64Var(&insideX, "x", 0, "X coordinate of the point")
	insideCmd.Flags().Float64Var(&insideY, "y", 0, "Y coordinate of the point")
	insideCmd.MarkFlagRequired("region")
}

func runInside(cmd *cobra.Command, args []string) error {
	r, err := buildRegion(cmd, args[0], insideRegion)
	if err != nil {
		return err
	}
	p := geometry.Pt(insideX, insideY)
	fmt.Fprintf(cmd.OutOrStdout(), "inside: %v\ndistance: %g\n", r.Inside(p), r.SignedDistance(p))
	return nil
}
