package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Evaluate a sketch and validate every region",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := loadSketch(cmd, args[0])
	if err != nil {
		return err
	}
	regions, err := s.Build()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range regions {
		b := r.Bounds()
		fmt.Fprintf(out, "%s: %d edges, bounds [%g, %g] x [%g, %g]\n",
			r.Name, len(r.Edges()), b.X.Lo, b.X.Hi, b.Y.Lo, b.Y.Hi)
	}
	fmt.Fprintf(out, "ok: %d region(s), %d probe(s), %d cut(s)\n", s.RegionCount(), len(s.Probes), len(s.Cuts))
	return nil
}
