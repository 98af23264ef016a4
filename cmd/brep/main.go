// Command brep evaluates sketch files and queries or meshes their regions.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/birktj/cad-kernel-experiments/pkg/brep"
	"github.com/birktj/cad-kernel-experiments/pkg/engine"
	"github.com/birktj/cad-kernel-experiments/pkg/sketch"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "brep",
	Short: "Evaluate and query 2D boundary-representation sketches",
	Long: `brep evaluates sketch programs written in a small Lisp dialect and answers
containment and slicing queries about the regions they declare. Regions can be
extruded and exported as triangle meshes.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			brep.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}

// loadSketch evaluates the file at path and validates the result. Warnings
// are printed to cmd's error stream.
func loadSketch(cmd *cobra.Command, path string) (*sketch.Sketch, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res, err := engine.NewEngine().Check(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: warning: %s\n", path, w)
	}
	if !res.OK() {
		for _, e := range res.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, e)
		}
		return nil, fmt.Errorf("%s: %d error(s)", path, len(res.Errors))
	}
	return res.Sketch, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
