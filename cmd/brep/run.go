package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/birktj/cad-kernel-experiments/pkg/sketch"
)

var runJSON bool

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Answer every probe and cut declared in a sketch",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the report as JSON")
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := loadSketch(cmd, args[0])
	if err != nil {
		return err
	}
	report, err := s.Run()
	if err != nil {
		return err
	}
	if runJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(w io.Writer, r *sketch.Report) {
	for _, p := range r.Probes {
		state := "outside"
		if p.Inside {
			state = "inside"
		}
		fmt.Fprintf(w, "probe %s (%g, %g): %s\n", p.Region, p.X, p.Y, state)
	}
	for _, c := range r.Cuts {
		fmt.Fprintf(w, "cut %s %s:", c.Region, c.Line)
		if len(c.Intervals) == 0 {
			fmt.Fprint(w, " empty")
		}
		for _, iv := range c.Intervals {
			fmt.Fprintf(w, " [%g, %g]", iv[0], iv[1])
		}
		fmt.Fprintln(w)
	}
}
