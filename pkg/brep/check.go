package brep

import (
	"fmt"
	"log/slog"
)

// check validates the region in four passes. Each pass runs over every edge
// before the next starts, so later passes may rely on earlier invariants.
func (r *Region2D) check() error {
	passes := []struct {
		name string
		fn   func(e int) error
	}{
		{"index", r.checkIndices},
		{"region", func(e int) error {
			_, err := r.edgeRegion(e)
			return err
		}},
		{"adjacency", r.checkAdjacency},
		{"cut", r.checkCut},
	}

	for _, pass := range passes {
		for e := range r.edges {
			if err := pass.fn(e); err != nil {
				Logger().Debug("brep: region rejected",
					slog.Int("edge", e),
					slog.String("check", pass.name),
					slog.Any("err", err))
				return fmt.Errorf("edge %d: %w", e, err)
			}
		}
	}
	return nil
}

func (r *Region2D) checkIndices(e int) error {
	edge := r.edges[e]
	if edge.Line < 0 || edge.Line >= len(r.lines) {
		return fmt.Errorf("%w: line %d of %d", ErrIndexOutOfRange, edge.Line, len(r.lines))
	}
	for _, x := range []int{edge.X1, edge.X2} {
		if x < 0 || x >= len(r.edges) {
			return fmt.Errorf("%w: neighbour %d of %d", ErrIndexOutOfRange, x, len(r.edges))
		}
	}
	return nil
}

func (r *Region2D) checkAdjacency(e int) error {
	edge := r.edges[e]
	for _, x := range []int{edge.X1, edge.X2} {
		n := r.edges[x]
		if n.X1 != e && n.X2 != e {
			return fmt.Errorf("%w: neighbour %d does not list it", ErrAsymmetricGraph, x)
		}
	}
	return nil
}

// checkCut compares edge e with the cut made on its line by every edge
// except e and its neighbours. A hole edge must lie inside that cut and an
// outer edge outside it.
func (r *Region2D) checkCut(e int) error {
	edge := r.edges[e]
	cut, err := r.cutRegionFilter(r.lines[edge.Line], func(i int) bool {
		return i != e && i != edge.X1 && i != edge.X2
	})
	if err != nil {
		return fmt.Errorf("%w: cut along line %d: %w", ErrSelfIntersecting, edge.Line, err)
	}

	reg := r.EdgeRegion(e)
	if r.isHoleEdge(e) {
		if !cut.encloses(reg) {
			return fmt.Errorf("%w: hole edge %v not enclosed by %v", ErrSelfIntersecting, reg, cut)
		}
		return nil
	}
	if !cut.disjoint(reg) {
		return fmt.Errorf("%w: outer edge %v overlaps %v", ErrSelfIntersecting, reg, cut)
	}
	return nil
}
