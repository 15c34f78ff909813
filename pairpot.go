// Package pairpot fits constrained cubic-spline two-body interaction
// potentials to sampled energy curves.
//
// A potential is fitted from (distance, energy) samples of a single pair type
// (e.g. O-H): interior knots are planned from the sample distribution, a
// piecewise-cubic basis with continuity equalities and optional shape
// inequalities (monotonic decay, convexity, cutoff behavior) is assembled,
// and the coefficients are solved by constrained weighted least squares. The
// result evaluates energy and its derivatives anywhere inside the fitted
// domain and serializes to a compact binary table.
//
// # Core Features
//
//   - Quantile or uniform interior-knot placement
//   - C0/C1/C2 continuity across segments, enforced exactly
//   - Optional monotonic-decay and convexity shape constraints
//   - Optional zero value/slope/curvature conditions at the cutoff
//   - Deterministic active-set solver (bit-identical refits)
//   - Binary table format with optional compression (None, Zstd, S2, LZ4)
//     and xxHash64 payload digests
//
// # Basic Usage
//
// Fitting a single pair type:
//
//	import "github.com/splinelab/pairpot"
//
//	set, _ := sample.NewSet("O-H",
//	    []float64{1.0, 1.5, 2.0, 2.5, 3.0},
//	    []float64{5.0, 2.0, 0.8, 0.2, 0.0},
//	    nil)
//
//	cfg := sample.Config{
//	    Cutoff:            3.0,
//	    Knots:             1,
//	    Monotonic:         true,
//	    ZeroValueAtCutoff: true,
//	}
//
//	result, err := pairpot.Fit(set, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	energy, _ := result.Potential.Evaluate(2.2)
//
// Fitting many pair types concurrently:
//
//	inputs, _ := sample.LoadInput("pairs.json")
//	results, errors := pairpot.FitAll(ctx, inputs, pairpot.WithParallelism(4))
//
// Serializing a fitted potential:
//
//	data, _ := potential.Encode(result.Potential,
//	    potential.WithCompression(format.CompressionZstd))
//	restored, _ := potential.Decode(data)
//
// # Error Handling
//
// All failures wrap a sentinel from the errs package (errs.ErrInvalidInput,
// errs.ErrKnotPlanning, errs.ErrConstraintBuild, errs.ErrSolverDiverged,
// errs.ErrOutOfDomain); test with errors.Is.
package pairpot

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/splinelab/pairpot/basis"
	"github.com/splinelab/pairpot/errs"
	"github.com/splinelab/pairpot/format"
	"github.com/splinelab/pairpot/internal/options"
	"github.com/splinelab/pairpot/knot"
	"github.com/splinelab/pairpot/potential"
	"github.com/splinelab/pairpot/sample"
	"github.com/splinelab/pairpot/solver"
)

// Result holds a fitted potential together with its residual statistics
// against the training samples.
type Result struct {
	// Potential is the fitted piecewise-cubic potential.
	Potential *potential.Potential
	// Knots are the planned interior knot positions.
	Knots []float64
	// MSE is the mean square residual over the training samples.
	MSE float64
	// RMSE is the root mean square residual.
	RMSE float64
	// MaxError is the largest absolute residual.
	MaxError float64
}

type fitConfig struct {
	placement   format.KnotPlacement
	probes      int
	maxIter     int
	tolerance   float64
	parallelism int
}

// FitOption represents a functional option for configuring a fit.
// This is a type alias for the generic Option interface specialized for the
// fit configuration.
type FitOption = options.Option[*fitConfig]

// WithPlacement overrides the knot placement policy from the pair
// configuration.
func WithPlacement(placement format.KnotPlacement) FitOption {
	return options.New(func(cfg *fitConfig) error {
		if placement != format.PlacementQuantile && placement != format.PlacementUniform {
			return fmt.Errorf("%w: unknown knot placement %d", errs.ErrInvalidInput, placement)
		}
		cfg.placement = placement

		return nil
	})
}

// WithProbesPerSegment sets the number of shape-constraint probe points per
// segment. The default is basis.DefaultProbesPerSegment.
func WithProbesPerSegment(probes int) FitOption {
	return options.New(func(cfg *fitConfig) error {
		if probes < 2 {
			return fmt.Errorf("%w: need at least 2 probes per segment, got %d", errs.ErrInvalidInput, probes)
		}
		cfg.probes = probes

		return nil
	})
}

// WithMaxIterations bounds the active-set iterations of the solver.
func WithMaxIterations(n int) FitOption {
	return options.New(func(cfg *fitConfig) error {
		if n < 1 {
			return fmt.Errorf("%w: max iterations must be positive, got %d", errs.ErrInvalidInput, n)
		}
		cfg.maxIter = n

		return nil
	})
}

// WithTolerance sets the solver convergence tolerance. The default is
// solver.DefaultTolerance.
func WithTolerance(tol float64) FitOption {
	return options.New(func(cfg *fitConfig) error {
		if tol <= 0 || math.IsNaN(tol) {
			return fmt.Errorf("%w: tolerance must be positive, got %g", errs.ErrInvalidInput, tol)
		}
		cfg.tolerance = tol

		return nil
	})
}

// WithParallelism bounds the number of pair types FitAll fits concurrently.
// The default fits all pair types at once.
func WithParallelism(n int) FitOption {
	return options.New(func(cfg *fitConfig) error {
		if n < 1 {
			return fmt.Errorf("%w: parallelism must be positive, got %d", errs.ErrInvalidInput, n)
		}
		cfg.parallelism = n

		return nil
	})
}

// Fit fits a constrained cubic-spline potential to one sample set.
//
// The pipeline validates the samples against the pair configuration, plans
// interior knots, assembles the basis with its equality and inequality
// constraints, solves the constrained least-squares problem, and packages the
// coefficients as an immutable Potential with residual statistics.
//
// Parameters:
//   - set: samples of one pair type, as built by sample.NewSet
//   - cfg: pair configuration (cutoff, knot count, shape constraints)
//   - opts: optional FitOption values
//
// Returns an error wrapping one of the errs sentinels when any stage fails.
func Fit(set *sample.Set, cfg sample.Config, opts ...FitOption) (*Result, error) {
	fc := &fitConfig{}
	if err := options.Apply(fc, opts...); err != nil {
		return nil, err
	}

	return fit(set, cfg, fc)
}

func fit(set *sample.Set, cfg sample.Config, fc *fitConfig) (*Result, error) {
	if fc.placement != 0 {
		cfg.Placement = fc.placement
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := set.Validate(cfg); err != nil {
		return nil, err
	}

	interior, err := knot.Plan(set, cfg)
	if err != nil {
		return nil, err
	}

	sys, err := basis.Build(set, interior, cfg, basis.Options{ProbesPerSegment: fc.probes})
	if err != nil {
		return nil, err
	}

	coeffs, err := solver.Solve(sys, solver.Options{
		MaxIterations: fc.maxIter,
		Tolerance:     fc.tolerance,
	})
	if err != nil {
		return nil, err
	}

	pot, err := potential.New(sys.Breakpoints, coeffs)
	if err != nil {
		return nil, err
	}

	result := &Result{Potential: pot, Knots: interior}
	if err := result.computeStats(set); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *Result) computeStats(set *sample.Set) error {
	var sumSq float64
	for _, s := range set.Samples {
		predicted, err := r.Potential.Evaluate(s.Distance)
		if err != nil {
			return err
		}

		residual := math.Abs(s.Energy - predicted)
		sumSq += residual * residual
		if residual > r.MaxError {
			r.MaxError = residual
		}
	}

	r.MSE = sumSq / float64(set.Len())
	r.RMSE = math.Sqrt(r.MSE)

	return nil
}

// FitAll fits every pair type in inputs concurrently, one goroutine per pair
// (bounded by WithParallelism when set).
//
// A failed pair type never affects the others: results holds an entry for
// every pair type that fitted, failures holds an entry for every pair type
// that did not. Cancelling ctx stops pairs that have not started yet; pairs
// already fitting run to completion.
func FitAll(ctx context.Context, inputs map[string]sample.Input, opts ...FitOption) (map[string]*Result, map[string]error) {
	fc := &fitConfig{}
	if err := options.Apply(fc, opts...); err != nil {
		failures := make(map[string]error, len(inputs))
		for pairType := range inputs {
			failures[pairType] = err
		}

		return map[string]*Result{}, failures
	}

	limit := fc.parallelism
	if limit <= 0 || limit > len(inputs) {
		limit = len(inputs)
	}
	sem := make(chan struct{}, max(limit, 1))

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		results  = make(map[string]*Result, len(inputs))
		failures = make(map[string]error)
	)

	for pairType, input := range inputs {
		if err := ctx.Err(); err != nil {
			mu.Lock()
			failures[pairType] = err
			mu.Unlock()

			continue
		}

		wg.Add(1)
		go func(pairType string, input sample.Input) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := fit(input.Set, input.Config, fc)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[pairType] = fmt.Errorf("pair %s: %w", pairType, err)

				return
			}
			results[pairType] = res
		}(pairType, input)
	}

	wg.Wait()

	return results, failures
}
