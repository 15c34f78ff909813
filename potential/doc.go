// Package potential exports the result of a spline fit as a queryable,
// serializable piecewise-cubic potential.
//
// A Potential is immutable once constructed. It supports point evaluation and
// first/second derivative evaluation strictly inside its fitted domain
// [minimum breakpoint, cutoff]; there is no extrapolation.
//
// Two serializations are provided:
//
//   - Encode/Decode: a compact self-describing binary table (fixed header,
//     optionally compressed float64 payload, xxHash64 digest) for storage and
//     transfer between tools. A decode of an encode reproduces evaluation
//     results exactly.
//   - WriteTable: the traditional human-readable "Spline table" text block
//     consumed by simulation packages expecting tabulated cubic coefficients,
//     one row per segment.
//
// WriteErrorReport renders a reference-versus-predicted fit report with MSE
// and maximum-error figures.
package potential
