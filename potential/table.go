package potential

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/splinelab/pairpot/errs"
)

// WriteTable writes the potential as a plain-text spline table. Each line
// holds the segment interval followed by its four polynomial coefficients.
func WriteTable(w io.Writer, p *Potential) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, "Spline table"); err != nil {
		return err
	}
	for i, s := range p.segments {
		_, err := fmt.Fprintf(bw, "%6.3f %6.3f %15.8E %15.8E %15.8E %15.8E\n",
			p.breakpoints[i], p.breakpoints[i+1], s.A, s.B, s.C, s.D)
		if err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteErrorReport writes a per-sample residual report for the potential
// against reference energies, followed by the mean square error and the
// largest absolute residual.
//
// Distances outside the potential domain surface errs.ErrOutOfDomain.
func WriteErrorReport(w io.Writer, p *Potential, distances, energies []float64) error {
	if len(distances) != len(energies) {
		return fmt.Errorf("%w: %d distances but %d energies",
			errs.ErrInvalidInput, len(distances), len(energies))
	}
	if len(distances) == 0 {
		return fmt.Errorf("%w: empty reference set", errs.ErrInvalidInput)
	}

	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "# %-15s%-15s%-15s\n", "Reference", "Predicted", "Error"); err != nil {
		return err
	}

	var sumSq, maxErr float64
	for i, r := range distances {
		predicted, err := p.Evaluate(r)
		if err != nil {
			return err
		}

		residual := math.Abs(energies[i] - predicted)
		sumSq += residual * residual
		if residual > maxErr {
			maxErr = residual
		}

		if _, err := fmt.Fprintf(bw, "%-15.5f%-15.5f%-15.5f\n", energies[i], predicted, residual); err != nil {
			return err
		}
	}

	mse := sumSq / float64(len(distances))
	if _, err := fmt.Fprintf(bw, "# MSE = %2.5E\n# Maxerror = %2.5E\n", mse, maxErr); err != nil {
		return err
	}

	return bw.Flush()
}
