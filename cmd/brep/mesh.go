package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/birktj/cad-kernel-experiments/pkg/kernel"
	"github.com/birktj/cad-kernel-experiments/pkg/kernel/sdfx"
	"github.com/birktj/cad-kernel-experiments/pkg/tessellate"
)

var (
	meshHeight  float64
	meshCells   int
	meshOut     string
	meshMerge   bool
	meshLift    float64
	meshCombine string
	meshBase    float64
	meshCenter  bool
)

var meshCmd = &cobra.Command{
	Use:   "mesh [file]",
	Short: "Extrude every region and export triangle meshes as JSON",
	Long: `Extrude every region and export triangle meshes as JSON. By default each
region becomes its own mesh. --combine joins the regions into one solid with
union, intersection or difference (the first region minus the rest) and
meshes that instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runMesh,
}

func init() {
	rootCmd.AddCommand(meshCmd)

	meshCmd.Flags().Float64Var(&meshHeight, "height", tessellate.DefaultHeight, "extrusion height")
	meshCmd.Flags().IntVar(&meshCells, "cells", sdfx.DefaultMeshCells, "marching cubes cells along the longest axis")
	meshCmd.Flags().StringVarP(&meshOut, "out", "o", "", "output file (default stdout)")
	meshCmd.Flags().BoolVar(&meshMerge, "merge", false, "concatenate all region meshes into one mesh")
	meshCmd.Flags().Float64Var(&meshLift, "lift", 0, "raise each region this much above the previous one")
	meshCmd.Flags().StringVar(&meshCombine, "combine", "", "join regions into one solid: union, intersection or difference")
	meshCmd.Flags().Float64Var(&meshBase, "base", 0, "with --combine, add a base plate of this thickness under all regions")
	meshCmd.Flags().BoolVar(&meshCenter, "center", false, "move the output so its bounding box is centred on the origin")
	meshCmd.MarkFlagsMutuallyExclusive("merge", "combine")
}

func runMesh(cmd *cobra.Command, args []string) error {
	s, err := loadSketch(cmd, args[0])
	if err != nil {
		return err
	}

	if meshBase != 0 && meshCombine == "" {
		return fmt.Errorf("--base requires --combine")
	}

	k := sdfx.New(sdfx.WithMeshCells(meshCells))
	opts := tessellate.Options{Height: meshHeight, Lift: meshLift, Base: meshBase}

	var meshes []*kernel.Mesh
	if meshCombine != "" {
		op, err := tessellate.ParseOp(meshCombine)
		if err != nil {
			return err
		}
		m, err := tessellate.Combine(s, k, op, opts)
		if err != nil {
			return err
		}
		meshes = []*kernel.Mesh{m}
	} else {
		meshes, err = tessellate.Tessellate(s, k, opts)
		if err != nil {
			return err
		}
		if meshMerge {
			meshes = []*kernel.Mesh{tessellate.Merge("merged", meshes...)}
		}
	}
	if meshCenter {
		meshes = tessellate.Recenter(meshes)
	}

	var w io.Writer = cmd.OutOrStdout()
	if meshOut != "" {
		f, err := os.Create(meshOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := json.NewEncoder(w).Encode(meshes); err != nil {
		return fmt.Errorf("write meshes: %w", err)
	}

	for _, m := range meshes {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d triangles, area %.3f\n", m.Name, m.TriangleCount(), m.Area())
	}
	return nil
}
