// Package basis assembles the linear systems behind a constrained spline fit.
//
// The potential is represented as one cubic per segment in local coordinates:
// on segment j spanning [t_j, t_{j+1}) the energy is
//
//	E(r) = a_j + b_j·δ + c_j·δ² + d_j·δ³,  δ = r − t_j
//
// so the full coefficient vector has four entries per segment. Build produces:
//
//   - the design matrix evaluating the basis at every sample distance,
//     plus optional curvature-penalty rows when smoothing is enabled
//   - the equality system: C0/C1/C2 continuity at every interior knot, and the
//     optional zero value / slope / curvature rows at the cutoff
//   - the inequality system: monotonic decay (E′ ≤ 0) and convexity (E″ ≥ 0)
//     sampled at segment endpoints plus interior probe points
//
// Every constraint is a linear functional of the coefficients, so the solver
// downstream sees a plain linear-equality/linear-inequality constrained
// least-squares problem and never needs to know which physics flags were set.
package basis
