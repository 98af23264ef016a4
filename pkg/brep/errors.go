package brep

import "errors"

// Region1D construction errors.
var (
	// ErrUnbalanced is returned when an entering point has no exiting
	// point after it.
	ErrUnbalanced = errors.New("brep: unbalanced region")

	// ErrAlternation is returned when two consecutive points share a
	// direction or the first point is an exiting one.
	ErrAlternation = errors.New("brep: directions do not alternate")
)

// Region2D validation errors. New wraps them with the index of the
// offending edge, so callers should match with errors.Is.
var (
	ErrIndexOutOfRange  = errors.New("brep: index out of range")
	ErrDegenerateEdge   = errors.New("brep: degenerate edge")
	ErrAsymmetricGraph  = errors.New("brep: asymmetric edge graph")
	ErrSelfIntersecting = errors.New("brep: self-intersecting region")
)
