// Package geometry provides the planar line primitives the BREP kernel is
// built on: oriented infinite lines, points expressed along a line, point
// projection and line/segment intersection.
//
// Every operation that two call sites may evaluate for the same pair of
// lines (for example the shared corner of two neighbouring edges) is
// computed so that both sites get bit-identical results.
package geometry
