package potential

import (
	"fmt"
	"math"
	"sort"

	"github.com/splinelab/pairpot/errs"
)

// Segment holds the four cubic coefficients of one spline segment in local
// coordinates: E(r) = A + B·δ + C·δ² + D·δ³ with δ = r − t_start.
type Segment struct {
	A, B, C, D float64
}

// Potential is an immutable piecewise-cubic two-body potential.
type Potential struct {
	breakpoints []float64
	segments    []Segment
}

// New constructs a Potential from the full breakpoint sequence and the flat
// coefficient vector produced by the solver (four entries per segment, in
// segment order).
//
// Returns a wrapped errs.ErrInvalidInput for fewer than two breakpoints,
// non-increasing breakpoints, non-finite values, or a coefficient vector of
// the wrong length.
func New(breakpoints, coeffs []float64) (*Potential, error) {
	if len(breakpoints) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 breakpoints, got %d", errs.ErrInvalidInput, len(breakpoints))
	}
	nseg := len(breakpoints) - 1
	if len(coeffs) != 4*nseg {
		return nil, fmt.Errorf("%w: %d segments need %d coefficients, got %d",
			errs.ErrInvalidInput, nseg, 4*nseg, len(coeffs))
	}

	bp := make([]float64, len(breakpoints))
	copy(bp, breakpoints)
	for i, t := range bp {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("%w: breakpoint %d is not finite", errs.ErrInvalidInput, i)
		}
		if i > 0 && t <= bp[i-1] {
			return nil, fmt.Errorf("%w: breakpoints must be strictly increasing", errs.ErrInvalidInput)
		}
	}

	segments := make([]Segment, nseg)
	for j := range segments {
		for k := 0; k < 4; k++ {
			if v := coeffs[4*j+k]; math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: segment %d coefficient %d is not finite", errs.ErrInvalidInput, j, k)
			}
		}
		segments[j] = Segment{
			A: coeffs[4*j],
			B: coeffs[4*j+1],
			C: coeffs[4*j+2],
			D: coeffs[4*j+3],
		}
	}

	return &Potential{breakpoints: bp, segments: segments}, nil
}

// Evaluate returns the potential energy at distance r.
//
// Returns a wrapped errs.ErrOutOfDomain when r lies outside
// [MinDistance, Cutoff]; the potential never extrapolates.
func (p *Potential) Evaluate(r float64) (float64, error) {
	seg, delta, err := p.locate(r)
	if err != nil {
		return 0, err
	}
	s := p.segments[seg]

	return s.A + delta*(s.B+delta*(s.C+delta*s.D)), nil
}

// Derivative returns the order-th derivative of the potential at distance r,
// for order 1 or 2.
func (p *Potential) Derivative(r float64, order int) (float64, error) {
	if order != 1 && order != 2 {
		return 0, fmt.Errorf("%w: derivative order %d, want 1 or 2", errs.ErrInvalidInput, order)
	}

	seg, delta, err := p.locate(r)
	if err != nil {
		return 0, err
	}
	s := p.segments[seg]

	if order == 1 {
		return s.B + delta*(2*s.C+delta*3*s.D), nil
	}

	return 2*s.C + 6*s.D*delta, nil
}

// MinDistance returns the lower bound of the fitted domain.
func (p *Potential) MinDistance() float64 {
	return p.breakpoints[0]
}

// Cutoff returns the upper bound of the fitted domain.
func (p *Potential) Cutoff() float64 {
	return p.breakpoints[len(p.breakpoints)-1]
}

// NumSegments returns the number of cubic segments.
func (p *Potential) NumSegments() int {
	return len(p.segments)
}

// Breakpoints returns a copy of the full breakpoint sequence.
func (p *Potential) Breakpoints() []float64 {
	out := make([]float64, len(p.breakpoints))
	copy(out, p.breakpoints)

	return out
}

// Segments returns a copy of the per-segment coefficients.
func (p *Potential) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	copy(out, p.segments)

	return out
}

// locate maps a distance to its segment index and local offset.
func (p *Potential) locate(r float64) (int, float64, error) {
	if r < p.MinDistance() || r > p.Cutoff() || math.IsNaN(r) {
		return 0, 0, fmt.Errorf("%w: r=%g outside [%g, %g]",
			errs.ErrOutOfDomain, r, p.MinDistance(), p.Cutoff())
	}

	idx := sort.SearchFloat64s(p.breakpoints, r)
	var seg int
	switch {
	case idx >= len(p.breakpoints)-1:
		seg = len(p.breakpoints) - 2
	case p.breakpoints[idx] == r:
		seg = idx
	default:
		seg = idx - 1
	}

	return seg, r - p.breakpoints[seg], nil
}
