package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/splinelab/pairpot/basis"
	"github.com/splinelab/pairpot/errs"
)

// DefaultTolerance is the convergence and multiplier tolerance.
const DefaultTolerance = 1e-9

// singularTol is the relative pivot threshold for the triangular factor of the
// equality system.
const singularTol = 1e-12

// Options tunes the active-set iteration.
type Options struct {
	// MaxIterations bounds the active-set loop. The zero value selects
	// 25·(inequalities + free parameters) + 10.
	MaxIterations int
	// Tolerance is the convergence and multiplier threshold. The zero value
	// selects DefaultTolerance.
	Tolerance float64
}

func (o Options) tolerance() float64 {
	if o.Tolerance == 0 {
		return DefaultTolerance
	}

	return o.Tolerance
}

func (o Options) maxIterations(nIneq, nFree int) int {
	if o.MaxIterations > 0 {
		return o.MaxIterations
	}

	return 25*(nIneq+nFree) + 10
}

// Solve computes the spline coefficient vector for the assembled system.
//
// The equality constraints are eliminated first via a QR null-space reduction,
// then the inequality constraints are handled by a primal active-set method on
// the reduced quadratic program. Failures wrap errs.ErrSolverDiverged: a
// singular reduced system, an infeasible starting point, or exhaustion of the
// iteration bound.
func Solve(sys *basis.System, opts Options) ([]float64, error) {
	n := sys.NumCoefficients()
	tol := opts.tolerance()

	xw, yw := foldWeights(sys)

	beta0, nullBasis, err := eliminateEqualities(sys, n)
	if err != nil {
		return nil, err
	}
	if nullBasis == nil {
		// Fully determined by the equality constraints.
		return vecToSlice(beta0), nil
	}

	// Reduced design and residual: minimize ||Xz·z − r0||² over z.
	var xz mat.Dense
	xz.Mul(xw, nullBasis)

	r0 := mat.NewVecDense(yw.Len(), nil)
	r0.MulVec(xw, beta0)
	r0.SubVec(yw, r0)

	var zsol *mat.VecDense
	if sys.IneqG == nil {
		zsol, err = solveUnconstrained(&xz, r0)
	} else {
		zsol, err = solveActiveSet(&xz, r0, sys, beta0, nullBasis, opts, tol)
	}
	if err != nil {
		return nil, err
	}

	// β = β0 + Z·z
	beta := mat.NewVecDense(n, nil)
	beta.MulVec(nullBasis, zsol)
	beta.AddVec(beta0, beta)

	return vecToSlice(beta), nil
}

// foldWeights scales design rows and observations by sqrt(weight) so the
// remaining problem is an ordinary least squares.
func foldWeights(sys *basis.System) (*mat.Dense, *mat.VecDense) {
	rows, cols := sys.Design.Dims()
	xw := mat.NewDense(rows, cols, nil)
	yw := mat.NewVecDense(rows, nil)

	for i := 0; i < rows; i++ {
		s := math.Sqrt(sys.Weights.AtVec(i))
		for j := 0; j < cols; j++ {
			xw.Set(i, j, s*sys.Design.At(i, j))
		}
		yw.SetVec(i, s*sys.Obs.AtVec(i))
	}

	return xw, yw
}

// eliminateEqualities computes a particular solution beta0 of EqA·β = EqB and
// an orthonormal basis of the null space of EqA via QR of the transpose.
func eliminateEqualities(sys *basis.System, n int) (*mat.VecDense, *mat.Dense, error) {
	beta0 := mat.NewVecDense(n, nil)

	if sys.EqA == nil {
		return beta0, identity(n), nil
	}

	m, _ := sys.EqA.Dims()

	at := mat.DenseCopyOf(sys.EqA.T())

	var qr mat.QR
	qr.Factorize(at)

	var q, r mat.Dense
	qr.QTo(&q)
	qr.RTo(&r)

	maxPivot := 0.0
	for i := 0; i < m; i++ {
		maxPivot = math.Max(maxPivot, math.Abs(r.At(i, i)))
	}
	for i := 0; i < m; i++ {
		if math.Abs(r.At(i, i)) <= singularTol*maxPivot {
			return nil, nil, fmt.Errorf("%w: equality system is singular beyond tolerance", errs.ErrSolverDiverged)
		}
	}

	// Minimal-norm particular solution: solve R1ᵀ·u = b by forward
	// substitution, then beta0 = Q1·u.
	u := make([]float64, m)
	for i := 0; i < m; i++ {
		v := sys.EqB.AtVec(i)
		for k := 0; k < i; k++ {
			v -= r.At(k, i) * u[k]
		}
		u[i] = v / r.At(i, i)
	}

	q1 := q.Slice(0, n, 0, m)
	beta0.MulVec(q1, mat.NewVecDense(m, u))

	if m == n {
		return beta0, nil, nil
	}

	nullBasis := mat.DenseCopyOf(q.Slice(0, n, m, n))

	return beta0, nullBasis, nil
}

// solveUnconstrained solves the reduced least-squares problem directly.
func solveUnconstrained(xz *mat.Dense, r0 *mat.VecDense) (*mat.VecDense, error) {
	_, nFree := xz.Dims()
	z := mat.NewVecDense(nFree, nil)
	if err := z.SolveVec(xz, r0); err != nil {
		return nil, fmt.Errorf("%w: reduced least-squares solve failed: %w", errs.ErrSolverDiverged, err)
	}

	return z, nil
}

// solveActiveSet runs the primal active-set iteration on the reduced problem.
func solveActiveSet(xz *mat.Dense, r0 *mat.VecDense, sys *basis.System, beta0 *mat.VecDense, nullBasis *mat.Dense, opts Options, tol float64) (*mat.VecDense, error) {
	_, nFree := xz.Dims()
	nIneq, _ := sys.IneqG.Dims()

	// Reduced inequality system: Gz·z ≤ hz.
	var gz mat.Dense
	gz.Mul(sys.IneqG, nullBasis)

	hz := mat.NewVecDense(nIneq, nil)
	hz.MulVec(sys.IneqG, beta0)
	hz.SubVec(sys.IneqH, hz)

	// z = 0 must be feasible; with homogeneous constraints it always is.
	for i := 0; i < nIneq; i++ {
		if hz.AtVec(i) < -tol {
			return nil, fmt.Errorf("%w: equality-feasible start violates inequality %d", errs.ErrSolverDiverged, i)
		}
	}

	// H = XzᵀXz, f1 = Xzᵀr0; gradient at z is H·z − f1.
	var hess mat.Dense
	hess.Mul(xz.T(), xz)

	f1 := mat.NewVecDense(nFree, nil)
	f1.MulVec(xz.T(), r0)

	z := mat.NewVecDense(nFree, nil)
	working := []int{}

	maxIter := opts.maxIterations(nIneq, nFree)
	for iter := 0; iter < maxIter; iter++ {
		p, lambda, err := solveSubproblem(&hess, f1, &gz, z, working)
		if err != nil {
			return nil, err
		}

		if mat.Norm(p, 2) <= tol*(1+mat.Norm(z, 2)) {
			drop := -1
			mostNegative := -tol
			for wi := range working {
				if lambda[wi] < mostNegative {
					mostNegative = lambda[wi]
					drop = wi
				}
			}
			if drop < 0 {
				return z, nil
			}
			working = append(working[:drop], working[drop+1:]...)

			continue
		}

		// Ratio test over constraints outside the working set. Ties are
		// broken by constraint index order: the scan ascends and only a
		// strictly smaller ratio replaces the incumbent.
		alpha := 1.0
		blocking := -1
		for i := 0; i < nIneq; i++ {
			if inWorking(working, i) {
				continue
			}
			gi := rowDot(&gz, i, p)
			if gi <= tol {
				continue
			}
			slack := hz.AtVec(i) - rowDot(&gz, i, z)
			ratio := slack / gi
			if ratio < alpha {
				alpha = ratio
				blocking = i
			}
		}

		if alpha > 0 {
			z.AddScaledVec(z, alpha, p)
		}
		if blocking >= 0 {
			working = insertSorted(working, blocking)
		}
	}

	return nil, fmt.Errorf("%w: active-set iteration exceeded %d iterations", errs.ErrSolverDiverged, maxIter)
}

// solveSubproblem solves the equality-constrained QP step via its KKT system:
// the step p keeps the working-set constraints tight, lambda are their
// multipliers.
func solveSubproblem(hess *mat.Dense, f1 *mat.VecDense, gz *mat.Dense, z *mat.VecDense, working []int) (*mat.VecDense, []float64, error) {
	nFree := f1.Len()
	na := len(working)
	dim := nFree + na

	kkt := mat.NewDense(dim, dim, nil)
	rhs := mat.NewVecDense(dim, nil)

	// Top-left: Hessian; rhs: −gradient = f1 − H·z.
	grad := mat.NewVecDense(nFree, nil)
	grad.MulVec(hess, z)
	for i := 0; i < nFree; i++ {
		for j := 0; j < nFree; j++ {
			kkt.Set(i, j, hess.At(i, j))
		}
		rhs.SetVec(i, f1.AtVec(i)-grad.AtVec(i))
	}

	// Constraint blocks: Gw p = 0 keeps active constraints tight.
	for wi, ci := range working {
		for j := 0; j < nFree; j++ {
			v := gz.At(ci, j)
			kkt.Set(nFree+wi, j, v)
			kkt.Set(j, nFree+wi, v)
		}
	}

	sol := mat.NewVecDense(dim, nil)
	if err := sol.SolveVec(kkt, rhs); err != nil {
		return nil, nil, fmt.Errorf("%w: singular KKT system with %d active constraints: %w",
			errs.ErrSolverDiverged, na, err)
	}

	p := mat.NewVecDense(nFree, nil)
	for i := 0; i < nFree; i++ {
		p.SetVec(i, sol.AtVec(i))
	}
	lambda := make([]float64, na)
	for wi := range working {
		lambda[wi] = sol.AtVec(nFree + wi)
	}

	return p, lambda, nil
}

func identity(n int) *mat.Dense {
	id := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		id.Set(i, i, 1)
	}

	return id
}

func vecToSlice(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}

	return out
}

func rowDot(m *mat.Dense, row int, v *mat.VecDense) float64 {
	sum := 0.0
	for j := 0; j < v.Len(); j++ {
		sum += m.At(row, j) * v.AtVec(j)
	}

	return sum
}

func inWorking(working []int, i int) bool {
	for _, w := range working {
		if w == i {
			return true
		}
	}

	return false
}

func insertSorted(working []int, i int) []int {
	pos := len(working)
	for k, w := range working {
		if w > i {
			pos = k
			break
		}
	}
	working = append(working, 0)
	copy(working[pos+1:], working[pos:])
	working[pos] = i

	return working
}
