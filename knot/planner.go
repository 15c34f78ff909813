package knot

import (
	"fmt"
	"math"

	"github.com/splinelab/pairpot/errs"
	"github.com/splinelab/pairpot/format"
	"github.com/splinelab/pairpot/sample"
)

// minSeparationFraction scales the domain width into the smallest allowed gap
// between consecutive breakpoints.
const minSeparationFraction = 1e-6

// degenerateRangeTol is the smallest usable sample distance range, relative to
// the magnitude of the largest distance.
const degenerateRangeTol = 1e-9

// Plan chooses the interior knot positions for the given sample set and
// configuration.
//
// The returned knots are strictly increasing and lie strictly between the
// minimum sample distance and the cutoff. All failures wrap
// errs.ErrKnotPlanning: a degenerate distance range, too few samples for the
// requested segment count, or sample distributions too clustered to honor the
// minimum knot separation.
func Plan(set *sample.Set, cfg sample.Config) ([]float64, error) {
	if cfg.Knots < 1 {
		return nil, fmt.Errorf("%w: interior knot count %d, need at least 1", errs.ErrKnotPlanning, cfg.Knots)
	}

	rmin := set.MinDistance()
	span := set.MaxDistance() - rmin
	if span < degenerateRangeTol*math.Max(1, math.Abs(set.MaxDistance())) {
		return nil, fmt.Errorf("%w: pair %s sample distances span %g, range is degenerate",
			errs.ErrKnotPlanning, set.PairType, span)
	}

	// Each segment needs samples to constrain it; with knots+1 segments and
	// two shared endpoints, knots+2 is the floor below which planning cannot
	// make sense regardless of placement.
	if set.Len() < cfg.Knots+2 {
		return nil, fmt.Errorf("%w: pair %s has %d samples, too few for %d segments",
			errs.ErrKnotPlanning, set.PairType, set.Len(), cfg.Knots+1)
	}

	if cfg.Cutoff <= rmin {
		return nil, fmt.Errorf("%w: pair %s cutoff %g does not exceed minimum distance %g",
			errs.ErrKnotPlanning, set.PairType, cfg.Cutoff, rmin)
	}

	var knots []float64
	switch cfg.EffectivePlacement() {
	case format.PlacementUniform:
		knots = uniformKnots(rmin, cfg.Cutoff, cfg.Knots)
	default:
		knots = quantileKnots(set, cfg.Knots)
	}

	if err := checkLayout(set, cfg, knots); err != nil {
		return nil, err
	}

	return knots, nil
}

// Breakpoints prepends the domain start and appends the cutoff to the interior
// knots, forming the full breakpoint sequence of the spline.
func Breakpoints(rmin, cutoff float64, interior []float64) []float64 {
	bp := make([]float64, 0, len(interior)+2)
	bp = append(bp, rmin)
	bp = append(bp, interior...)
	bp = append(bp, cutoff)

	return bp
}

// uniformKnots spaces count knots evenly over (rmin, cutoff).
func uniformKnots(rmin, cutoff float64, count int) []float64 {
	step := (cutoff - rmin) / float64(count+1)
	knots := make([]float64, count)
	for k := range knots {
		knots[k] = rmin + float64(k+1)*step
	}

	return knots
}

// quantileKnots places knot k at the k/(count+1) quantile of the sample
// distances, using linear interpolation between order statistics.
func quantileKnots(set *sample.Set, count int) []float64 {
	n := set.Len()
	knots := make([]float64, count)
	for k := range knots {
		q := float64(k+1) / float64(count+1)
		pos := q * float64(n-1)
		lo := int(math.Floor(pos))
		frac := pos - float64(lo)

		d := set.Samples[lo].Distance
		if lo+1 < n {
			d += frac * (set.Samples[lo+1].Distance - d)
		}
		knots[k] = d
	}

	return knots
}

// checkLayout verifies strict ordering, interiority, and minimum separation of
// the planned knots against the full breakpoint sequence.
func checkLayout(set *sample.Set, cfg sample.Config, knots []float64) error {
	rmin := set.MinDistance()
	minSep := minSeparationFraction * (cfg.Cutoff - rmin)

	prev := rmin
	for i, t := range knots {
		if t <= rmin || t >= cfg.Cutoff {
			return fmt.Errorf("%w: pair %s knot %d at %g escapes the open interval (%g, %g)",
				errs.ErrKnotPlanning, set.PairType, i, t, rmin, cfg.Cutoff)
		}
		if t-prev < minSep {
			return fmt.Errorf("%w: pair %s knots %g and %g are closer than the minimum separation %g",
				errs.ErrKnotPlanning, set.PairType, prev, t, minSep)
		}
		prev = t
	}
	if cfg.Cutoff-prev < minSep {
		return fmt.Errorf("%w: pair %s last knot %g is too close to the cutoff %g",
			errs.ErrKnotPlanning, set.PairType, prev, cfg.Cutoff)
	}

	return nil
}
