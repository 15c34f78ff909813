// Package knot chooses interior knot positions for the cubic-spline fit.
//
// Two placement policies are supported. Quantile placement (the default) puts
// each interior knot at an evenly spaced quantile of the sample distances, so
// every spline segment sees a comparable number of observations even when the
// reference data clusters near the repulsive wall. Uniform placement spaces
// knots evenly between the minimum sample distance and the cutoff, matching
// the fixed-grid layout used by classic tabulated-potential tools.
//
// Knots always lie strictly between the minimum sample distance and the
// cutoff, strictly increasing, with a minimum separation relative to the
// domain width so that no segment becomes numerically degenerate.
package knot
