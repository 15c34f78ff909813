// Package errs defines the sentinel errors shared across the pairpot module.
//
// Call sites wrap these sentinels with context using fmt.Errorf("%w: ...", err),
// so callers can branch on the error class with errors.Is while still receiving
// a descriptive message.
package errs

import "errors"

// Fitting pipeline errors.
var (
	// ErrInvalidInput indicates malformed or insufficient sample data:
	// too few samples, unsorted or duplicate distances, non-positive weights,
	// non-finite values, or a cutoff inside the sampled range.
	ErrInvalidInput = errors.New("invalid input")

	// ErrKnotPlanning indicates a degenerate or infeasible knot layout:
	// a collapsed distance range, too few samples for the requested segment
	// count, or knots that cannot satisfy ordering and separation rules.
	ErrKnotPlanning = errors.New("knot planning failed")

	// ErrConstraintBuild indicates a rank-deficient equality-constraint system,
	// typically caused by too many knots relative to the available samples.
	ErrConstraintBuild = errors.New("constraint build failed")

	// ErrSolverDiverged indicates the constrained least-squares iteration
	// exceeded its iteration bound or hit a singular reduced system.
	ErrSolverDiverged = errors.New("solver diverged")

	// ErrOutOfDomain indicates an evaluation outside the fitted range
	// [minimum breakpoint, cutoff]. Fitted potentials never extrapolate.
	ErrOutOfDomain = errors.New("distance out of fitted domain")
)

// Potential table serialization errors.
var (
	// ErrInvalidHeaderSize indicates the table header is not the expected size.
	ErrInvalidHeaderSize = errors.New("invalid table header size")

	// ErrInvalidMagicNumber indicates the header magic number does not match.
	ErrInvalidMagicNumber = errors.New("invalid magic number")

	// ErrInvalidCompressionType indicates an unknown compression type flag.
	ErrInvalidCompressionType = errors.New("invalid compression type")

	// ErrInvalidPayload indicates the decoded payload is truncated or its
	// section counts are inconsistent with the header.
	ErrInvalidPayload = errors.New("invalid table payload")

	// ErrChecksumMismatch indicates the payload digest does not match the
	// digest recorded in the header.
	ErrChecksumMismatch = errors.New("payload checksum mismatch")
)
