package basis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/splinelab/pairpot/errs"
	"github.com/splinelab/pairpot/knot"
	"github.com/splinelab/pairpot/sample"
)

// CoefficientsPerSegment is the number of polynomial coefficients per cubic
// segment.
const CoefficientsPerSegment = 4

// DefaultProbesPerSegment is the default number of probe points per segment
// for inequality enforcement: both endpoints plus three interior points.
const DefaultProbesPerSegment = 5

// rankTol is the relative singular-value threshold for rank decisions.
const rankTol = 1e-10

// Options tunes constraint assembly.
type Options struct {
	// ProbesPerSegment is the number of evaluation points per segment at
	// which the derivative inequalities are enforced, at least 2 (the two
	// endpoints). The zero value selects DefaultProbesPerSegment.
	ProbesPerSegment int
}

func (o Options) probes() int {
	if o.ProbesPerSegment == 0 {
		return DefaultProbesPerSegment
	}

	return o.ProbesPerSegment
}

// System is the assembled constrained least-squares problem for one pair type.
//
// The solver minimizes ||diag(sqrt(Weights))·(Design·β − Obs)||² subject to
// EqA·β = EqB and IneqG·β ≤ IneqH. IneqG is nil when no inequality flags are
// enabled.
type System struct {
	// Design evaluates the cubic basis at each sample distance; when
	// smoothing is enabled it also carries curvature-penalty rows.
	Design *mat.Dense
	// Obs holds the reference energies, with zeros for penalty rows.
	Obs *mat.VecDense
	// Weights holds per-row fit weights, 1 for penalty rows.
	Weights *mat.VecDense

	// EqA, EqB form the equality system EqA·β = EqB.
	EqA *mat.Dense
	EqB *mat.VecDense

	// IneqG, IneqH form the inequality system IneqG·β ≤ IneqH.
	IneqG *mat.Dense
	IneqH *mat.VecDense

	// Breakpoints is the full breakpoint sequence, segments+1 entries.
	Breakpoints []float64
}

// Segments returns the number of cubic segments.
func (s *System) Segments() int {
	return len(s.Breakpoints) - 1
}

// NumCoefficients returns the length of the coefficient vector.
func (s *System) NumCoefficients() int {
	return CoefficientsPerSegment * s.Segments()
}

// Build assembles the design matrix and constraint systems for the given
// samples, interior knots and configuration.
//
// Failures wrap errs.ErrConstraintBuild: a rank-deficient equality system, or
// more free parameters than observations (too many knots for the data).
func Build(set *sample.Set, interior []float64, cfg sample.Config, opts Options) (*System, error) {
	bp := knot.Breakpoints(set.MinDistance(), cfg.Cutoff, interior)
	sys := &System{Breakpoints: bp}

	buildDesign(sys, set, cfg)
	buildEqualities(sys, cfg)
	buildInequalities(sys, cfg, opts.probes())

	if err := checkRank(sys, set); err != nil {
		return nil, err
	}

	return sys, nil
}

// buildDesign fills Design, Obs and Weights: one row per sample, plus one
// curvature-penalty row per probe point when smoothing is enabled.
func buildDesign(sys *System, set *sample.Set, cfg sample.Config) {
	ncoef := sys.NumCoefficients()

	var penalty []probePoint
	if cfg.Smoothing > 0 {
		penalty = probeGrid(sys.Breakpoints, DefaultProbesPerSegment)
	}

	rows := set.Len() + len(penalty)
	design := mat.NewDense(rows, ncoef, nil)
	obs := mat.NewVecDense(rows, nil)
	weights := mat.NewVecDense(rows, nil)

	for i, smp := range set.Samples {
		seg := segmentIndex(sys.Breakpoints, smp.Distance)
		delta := smp.Distance - sys.Breakpoints[seg]
		setSegmentRow(design, i, seg, valueBasis(delta))
		obs.SetVec(i, smp.Energy)
		weights.SetVec(i, smp.Weight)
	}

	// Curvature penalty rows: sqrt(λ)·E″(p) pushed toward zero. This is a soft
	// Tikhonov term, distinct from the hard convexity inequality.
	scale := math.Sqrt(cfg.Smoothing)
	for k, p := range penalty {
		row := set.Len() + k
		basisRow := curvatureBasis(p.delta)
		for c := range basisRow {
			basisRow[c] *= scale
		}
		setSegmentRow(design, row, p.segment, basisRow)
		obs.SetVec(row, 0)
		weights.SetVec(row, 1)
	}

	sys.Design = design
	sys.Obs = obs
	sys.Weights = weights
}

// buildEqualities fills EqA and EqB with the continuity rows and the optional
// cutoff boundary rows.
func buildEqualities(sys *System, cfg sample.Config) {
	nseg := sys.Segments()
	ncoef := sys.NumCoefficients()
	interior := nseg - 1

	rows := 3 * interior
	if cfg.ZeroValueAtCutoff {
		rows++
	}
	if cfg.ZeroSlopeAtCutoff {
		rows++
	}
	if cfg.ZeroCurvatureAtCutoff {
		rows++
	}

	if rows == 0 {
		// No interior knots and no boundary flags: the fit is unconstrained
		// apart from any inequality rows.
		return
	}

	eqA := mat.NewDense(rows, ncoef, nil)
	eqB := mat.NewVecDense(rows, nil)

	row := 0
	for j := 0; j < interior; j++ {
		h := sys.Breakpoints[j+1] - sys.Breakpoints[j]

		// C0: segment j at its right end equals segment j+1 at its left end.
		setSegmentRow(eqA, row, j, valueBasis(h))
		eqA.Set(row, col(j+1, 0), -1)
		row++

		// C1 continuity of the first derivative.
		setSegmentRow(eqA, row, j, slopeBasis(h))
		eqA.Set(row, col(j+1, 1), -1)
		row++

		// C2 continuity of the second derivative.
		setSegmentRow(eqA, row, j, curvatureBasis(h))
		eqA.Set(row, col(j+1, 2), -2)
		row++
	}

	last := nseg - 1
	h := sys.Breakpoints[nseg] - sys.Breakpoints[last]
	if cfg.ZeroValueAtCutoff {
		setSegmentRow(eqA, row, last, valueBasis(h))
		row++
	}
	if cfg.ZeroSlopeAtCutoff {
		setSegmentRow(eqA, row, last, slopeBasis(h))
		row++
	}
	if cfg.ZeroCurvatureAtCutoff {
		setSegmentRow(eqA, row, last, curvatureBasis(h))
		row++
	}

	sys.EqA = eqA
	sys.EqB = eqB
}

// buildInequalities fills IneqG and IneqH when monotonicity or convexity is
// requested. Rows are generated in segment order, then probe order, with
// monotonicity before convexity at each probe, so constraint indices are
// stable across runs.
func buildInequalities(sys *System, cfg sample.Config, probesPerSegment int) {
	if !cfg.Monotonic && !cfg.Convex {
		return
	}

	probes := probeGrid(sys.Breakpoints, probesPerSegment)
	perProbe := 0
	if cfg.Monotonic {
		perProbe++
	}
	if cfg.Convex {
		perProbe++
	}

	g := mat.NewDense(perProbe*len(probes), sys.NumCoefficients(), nil)
	h := mat.NewVecDense(perProbe*len(probes), nil)

	row := 0
	for _, p := range probes {
		if cfg.Monotonic {
			// E′(p) ≤ 0
			setSegmentRow(g, row, p.segment, slopeBasis(p.delta))
			row++
		}
		if cfg.Convex {
			// E″(p) ≥ 0, stored as −E″(p) ≤ 0
			basisRow := curvatureBasis(p.delta)
			for c := range basisRow {
				basisRow[c] = -basisRow[c]
			}
			setSegmentRow(g, row, p.segment, basisRow)
			row++
		}
	}

	sys.IneqG = g
	sys.IneqH = h
}

// checkRank verifies the equality system has full row rank and that the
// remaining free parameters are covered by the observations.
func checkRank(sys *System, set *sample.Set) error {
	rank := 0
	if sys.EqA != nil {
		m, _ := sys.EqA.Dims()

		var svd mat.SVD
		if !svd.Factorize(sys.EqA, mat.SVDNone) {
			return fmt.Errorf("%w: SVD of the equality system failed", errs.ErrConstraintBuild)
		}

		values := svd.Values(nil)
		for _, v := range values {
			if v > rankTol*values[0] {
				rank++
			}
		}
		if rank < m {
			return fmt.Errorf("%w: equality system has rank %d for %d constraints",
				errs.ErrConstraintBuild, rank, m)
		}
	}

	free := sys.NumCoefficients() - rank
	if free > set.Len() {
		return fmt.Errorf("%w: %d free parameters but only %d samples, reduce the knot count",
			errs.ErrConstraintBuild, free, set.Len())
	}

	return nil
}

// probePoint is an inequality evaluation point in segment-local coordinates.
type probePoint struct {
	segment int
	delta   float64
}

// probeGrid lays out probe points over every segment: both endpoints plus
// evenly spaced interior points, deduplicating the breakpoint shared by
// adjacent segments.
func probeGrid(bp []float64, perSegment int) []probePoint {
	if perSegment < 2 {
		perSegment = 2
	}

	var points []probePoint
	for seg := 0; seg < len(bp)-1; seg++ {
		h := bp[seg+1] - bp[seg]
		start := 0
		if seg > 0 {
			start = 1 // left endpoint already covered by the previous segment
		}
		for k := start; k < perSegment; k++ {
			frac := float64(k) / float64(perSegment-1)
			points = append(points, probePoint{segment: seg, delta: frac * h})
		}
	}

	return points
}

// segmentIndex locates the segment containing r. The cutoff itself belongs to
// the last segment.
func segmentIndex(bp []float64, r float64) int {
	idx := sort.SearchFloat64s(bp, r)
	switch {
	case idx >= len(bp)-1:
		return len(bp) - 2
	case bp[idx] == r:
		return idx
	case idx == 0:
		return 0
	default:
		return idx - 1
	}
}

// col returns the column index of coefficient c in segment seg.
func col(seg, c int) int {
	return CoefficientsPerSegment*seg + c
}

// setSegmentRow writes a 4-entry basis row into the column block of a segment.
func setSegmentRow(m *mat.Dense, row, seg int, basisRow [CoefficientsPerSegment]float64) {
	for c, v := range basisRow {
		m.Set(row, col(seg, c), v)
	}
}

// valueBasis is the cubic basis evaluated at local offset δ.
func valueBasis(delta float64) [CoefficientsPerSegment]float64 {
	return [CoefficientsPerSegment]float64{1, delta, delta * delta, delta * delta * delta}
}

// slopeBasis is the first-derivative basis at local offset δ.
func slopeBasis(delta float64) [CoefficientsPerSegment]float64 {
	return [CoefficientsPerSegment]float64{0, 1, 2 * delta, 3 * delta * delta}
}

// curvatureBasis is the second-derivative basis at local offset δ.
func curvatureBasis(delta float64) [CoefficientsPerSegment]float64 {
	return [CoefficientsPerSegment]float64{0, 0, 2, 6 * delta}
}
