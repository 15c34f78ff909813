package sample

import (
	"fmt"
	"math"
	"sort"

	"github.com/splinelab/pairpot/errs"
	"github.com/splinelab/pairpot/format"
)

// Sample is a single (distance, energy) observation with an optional weight.
// A zero Weight is replaced by 1.0 when the Set is built.
type Sample struct {
	// Distance is the interatomic distance, in the caller's length unit.
	Distance float64
	// Energy is the reference interaction energy at Distance.
	Energy float64
	// Weight scales this observation's contribution to the fit residual.
	Weight float64
}

// Set owns the ordered observations for one pair type.
//
// Samples are sorted by ascending distance when the Set is constructed and are
// never mutated afterwards.
type Set struct {
	// PairType labels the atom pair, e.g. "O-H".
	PairType string
	// Samples are the observations sorted by ascending distance.
	Samples []Sample
}

// Config is the immutable fit configuration for one pair type.
type Config struct {
	// Cutoff is the distance at which the potential ends. It must be at least
	// the largest sample distance.
	Cutoff float64
	// Knots is the number of interior knots, at least 1.
	Knots int
	// Monotonic constrains the potential to be non-increasing in distance.
	Monotonic bool
	// Convex constrains the second derivative to be non-negative.
	Convex bool
	// ZeroValueAtCutoff pins the potential to zero at the cutoff.
	ZeroValueAtCutoff bool
	// ZeroSlopeAtCutoff pins the first derivative to zero at the cutoff.
	ZeroSlopeAtCutoff bool
	// ZeroCurvatureAtCutoff pins the second derivative to zero at the cutoff.
	ZeroCurvatureAtCutoff bool
	// Smoothing is an optional curvature regularization weight, >= 0.
	Smoothing float64
	// Placement selects the interior-knot placement policy. The zero value
	// means quantile placement.
	Placement format.KnotPlacement
}

// MinSamples returns the minimum number of samples required for a well-posed
// fit with the given interior knot count. A cubic spline with continuity
// constraints needs knots+4 observations to avoid rank deficiency.
func MinSamples(knots int) int {
	return knots + 4
}

// NewSet builds a Set from parallel distance/energy/weight slices.
//
// The input slices are copied, sorted by ascending distance, and left
// untouched. weights may be nil, in which case every sample gets weight 1.
//
// Returns a wrapped errs.ErrInvalidInput when the slices are empty or their
// lengths disagree. Content-level problems (duplicates, non-finite values,
// bad weights) are reported later by Validate.
func NewSet(pairType string, distances, energies, weights []float64) (*Set, error) {
	if len(distances) == 0 {
		return nil, fmt.Errorf("%w: pair %s has no samples", errs.ErrInvalidInput, pairType)
	}
	if len(energies) != len(distances) {
		return nil, fmt.Errorf("%w: pair %s has %d distances but %d energies",
			errs.ErrInvalidInput, pairType, len(distances), len(energies))
	}
	if weights != nil && len(weights) != len(distances) {
		return nil, fmt.Errorf("%w: pair %s has %d distances but %d weights",
			errs.ErrInvalidInput, pairType, len(distances), len(weights))
	}

	samples := make([]Sample, len(distances))
	for i, d := range distances {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		samples[i] = Sample{Distance: d, Energy: energies[i], Weight: w}
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Distance < samples[j].Distance
	})

	return &Set{PairType: pairType, Samples: samples}, nil
}

// Len returns the number of samples.
func (s *Set) Len() int {
	return len(s.Samples)
}

// MinDistance returns the smallest sample distance.
func (s *Set) MinDistance() float64 {
	return s.Samples[0].Distance
}

// MaxDistance returns the largest sample distance.
func (s *Set) MaxDistance() float64 {
	return s.Samples[len(s.Samples)-1].Distance
}

// Validate checks the set against the configuration.
//
// All failures wrap errs.ErrInvalidInput: fewer than MinSamples observations,
// duplicate distances, negative distances, non-positive weights, non-finite
// values, or a cutoff that does not clear the sampled range.
func (s *Set) Validate(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if s.Len() < MinSamples(cfg.Knots) {
		return fmt.Errorf("%w: pair %s has %d samples, need at least %d for %d knots",
			errs.ErrInvalidInput, s.PairType, s.Len(), MinSamples(cfg.Knots), cfg.Knots)
	}

	for i, smp := range s.Samples {
		if smp.Distance < 0 || !isFinite(smp.Distance) {
			return fmt.Errorf("%w: pair %s sample %d has invalid distance %g",
				errs.ErrInvalidInput, s.PairType, i, smp.Distance)
		}
		if !isFinite(smp.Energy) {
			return fmt.Errorf("%w: pair %s sample %d has non-finite energy",
				errs.ErrInvalidInput, s.PairType, i)
		}
		if smp.Weight <= 0 || !isFinite(smp.Weight) {
			return fmt.Errorf("%w: pair %s sample %d has non-positive weight %g",
				errs.ErrInvalidInput, s.PairType, i, smp.Weight)
		}
		if i > 0 && smp.Distance <= s.Samples[i-1].Distance {
			return fmt.Errorf("%w: pair %s has duplicate distance %g",
				errs.ErrInvalidInput, s.PairType, smp.Distance)
		}
	}

	if cfg.Cutoff <= s.MinDistance() {
		return fmt.Errorf("%w: pair %s cutoff %g is not beyond the minimum sample distance %g",
			errs.ErrInvalidInput, s.PairType, cfg.Cutoff, s.MinDistance())
	}
	if cfg.Cutoff < s.MaxDistance() {
		return fmt.Errorf("%w: pair %s cutoff %g is below the maximum sample distance %g",
			errs.ErrInvalidInput, s.PairType, cfg.Cutoff, s.MaxDistance())
	}

	return nil
}

// Validate checks the configuration fields in isolation.
func (c Config) Validate() error {
	if c.Knots < 1 {
		return fmt.Errorf("%w: knot count %d, need at least 1", errs.ErrInvalidInput, c.Knots)
	}
	if !isFinite(c.Cutoff) || c.Cutoff <= 0 {
		return fmt.Errorf("%w: cutoff %g must be positive and finite", errs.ErrInvalidInput, c.Cutoff)
	}
	if c.Smoothing < 0 || !isFinite(c.Smoothing) {
		return fmt.Errorf("%w: smoothing weight %g must be non-negative", errs.ErrInvalidInput, c.Smoothing)
	}
	switch c.Placement {
	case 0, format.PlacementQuantile, format.PlacementUniform:
	default:
		return fmt.Errorf("%w: unknown knot placement %d", errs.ErrInvalidInput, c.Placement)
	}

	return nil
}

// EffectivePlacement resolves the zero value of Placement to the default
// quantile policy.
func (c Config) EffectivePlacement() format.KnotPlacement {
	if c.Placement == 0 {
		return format.PlacementQuantile
	}

	return c.Placement
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
