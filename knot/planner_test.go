package knot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/splinelab/pairpot/errs"
	"github.com/splinelab/pairpot/format"
	"github.com/splinelab/pairpot/sample"
)

func newSet(t *testing.T, distances, energies []float64) *sample.Set {
	t.Helper()
	set, err := sample.NewSet("A-B", distances, energies, nil)
	require.NoError(t, err)

	return set
}

func TestPlanQuantile(t *testing.T) {
	// Distances cluster near the repulsive wall; quantile placement should
	// follow the data, not the geometric midpoint.
	set := newSet(t,
		[]float64{1.0, 1.05, 1.1, 1.15, 1.2, 1.3, 2.0, 3.0},
		[]float64{9.0, 8.1, 7.3, 6.6, 6.0, 5.0, 1.0, 0.0},
	)
	cfg := sample.Config{Cutoff: 3.0, Knots: 1}

	knots, err := Plan(set, cfg)
	require.NoError(t, err)
	require.Len(t, knots, 1)
	require.Greater(t, knots[0], set.MinDistance())
	require.Less(t, knots[0], cfg.Cutoff)
	// Median of the distances sits inside the cluster, well below 2.0.
	require.Less(t, knots[0], 1.5)
}

func TestPlanUniform(t *testing.T) {
	set := newSet(t,
		[]float64{1.0, 1.5, 2.0, 2.5, 3.0, 3.5, 4.0},
		[]float64{6.0, 3.0, 1.5, 0.7, 0.3, 0.1, 0.0},
	)
	cfg := sample.Config{Cutoff: 4.0, Knots: 2, Placement: format.PlacementUniform}

	knots, err := Plan(set, cfg)
	require.NoError(t, err)
	require.Len(t, knots, 2)
	require.InDelta(t, 2.0, knots[0], 1e-12)
	require.InDelta(t, 3.0, knots[1], 1e-12)
}

func TestPlanOrderingAndSeparation(t *testing.T) {
	set := newSet(t,
		[]float64{1.0, 1.4, 1.8, 2.2, 2.6, 3.0, 3.4, 3.8, 4.2},
		[]float64{8, 5, 3, 2, 1.2, 0.7, 0.3, 0.1, 0.0},
	)
	cfg := sample.Config{Cutoff: 4.5, Knots: 3}

	knots, err := Plan(set, cfg)
	require.NoError(t, err)
	require.Len(t, knots, 3)
	for i := 1; i < len(knots); i++ {
		require.Greater(t, knots[i], knots[i-1])
	}
}

func TestPlanErrors(t *testing.T) {
	t.Run("too few samples for segments", func(t *testing.T) {
		set := newSet(t, []float64{1.0, 2.0}, []float64{1.0, 0.0})
		_, err := Plan(set, sample.Config{Cutoff: 3.0, Knots: 3})
		require.ErrorIs(t, err, errs.ErrKnotPlanning)
	})

	t.Run("degenerate distance range", func(t *testing.T) {
		set := newSet(t,
			[]float64{2.0, 2.0 + 1e-13, 2.0 + 2e-13, 2.0 + 3e-13, 2.0 + 4e-13},
			[]float64{1, 1, 1, 1, 1},
		)
		_, err := Plan(set, sample.Config{Cutoff: 3.0, Knots: 1})
		require.ErrorIs(t, err, errs.ErrKnotPlanning)
	})

	t.Run("cutoff below minimum distance", func(t *testing.T) {
		set := newSet(t, []float64{1.0, 1.5, 2.0, 2.5, 3.0}, []float64{5, 2, 1, 0.5, 0})
		_, err := Plan(set, sample.Config{Cutoff: 0.5, Knots: 1})
		require.ErrorIs(t, err, errs.ErrKnotPlanning)
	})

	t.Run("clustered samples break separation", func(t *testing.T) {
		// All interior quantiles land on the same distance value.
		set := newSet(t,
			[]float64{1.0, 1.999999, 2.0, 2.000001, 5.0},
			[]float64{5, 1, 1, 1, 0},
		)
		_, err := Plan(set, sample.Config{Cutoff: 5.0, Knots: 3})
		require.ErrorIs(t, err, errs.ErrKnotPlanning)
	})
}

func TestBreakpoints(t *testing.T) {
	bp := Breakpoints(1.0, 4.0, []float64{2.0, 3.0})
	require.Equal(t, []float64{1.0, 2.0, 3.0, 4.0}, bp)

	bp = Breakpoints(1.0, 2.0, nil)
	require.Equal(t, []float64{1.0, 2.0}, bp)
}
