package pairpot_test

import (
	"fmt"
	"log"
	"math"

	"github.com/splinelab/pairpot"
	"github.com/splinelab/pairpot/sample"
)

// Fit a repulsive O-H curve with a monotonic-decay constraint and a pinned
// zero at the cutoff, then evaluate the potential between samples.
func Example() {
	set, err := sample.NewSet("O-H",
		[]float64{1.0, 1.5, 2.0, 2.5, 3.0},
		[]float64{5.0, 2.0, 0.8, 0.2, 0.0},
		nil)
	if err != nil {
		log.Fatal(err)
	}

	cfg := sample.Config{
		Cutoff:            3.0,
		Knots:             1,
		Monotonic:         true,
		ZeroValueAtCutoff: true,
	}

	result, err := pairpot.Fit(set, cfg)
	if err != nil {
		log.Fatal(err)
	}

	atCutoff, err := result.Potential.Evaluate(3.0)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("segments: %d\n", result.Potential.NumSegments())
	fmt.Printf("pinned at cutoff: %t\n", math.Abs(atCutoff) < 1e-8)
	// Output:
	// segments: 2
	// pinned at cutoff: true
}
