// Package brep implements 2D boundary-representation regions.
//
// A Region1D is a union of closed intervals along one line, stored as an
// alternating sequence of entering and exiting line points. A Region2D is a
// set of lines plus a graph of edges; each edge lies on one line and is
// bounded by the lines of its two neighbouring edges. A Region2D is fully
// validated by New and never changes afterwards, so all of its queries are
// total and safe for concurrent use.
//
// Boundaries are oriented so that material lies on the positive side of
// every line. With the y axis pointing up, outer boundaries run clockwise
// and hole boundaries counterclockwise.
package brep
