// Package solver solves the constrained least-squares problem assembled by the
// basis package.
//
// The problem is a convex quadratic program: minimize the weighted sum of
// squared residuals between spline-predicted and reference energies, subject
// to the continuity/boundary equalities exactly and the shape inequalities as
// bounds. The solver first eliminates the equality constraints through a QR
// null-space reduction, shrinking the parameter vector to its free directions,
// then runs a primal active-set iteration on the reduced problem.
//
// The iteration is deterministic: constraints enter and leave the working set
// in index order when ties occur, and no step involves randomization, so
// identical inputs always produce identical coefficients.
package solver
