package sample

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/splinelab/pairpot/errs"
	"github.com/splinelab/pairpot/format"
)

func validConfig() Config {
	return Config{Cutoff: 3.0, Knots: 1, Monotonic: true, ZeroValueAtCutoff: true}
}

func TestNewSetSortsByDistance(t *testing.T) {
	set, err := NewSet("O-H", []float64{2.0, 1.0, 1.5, 3.0, 2.5}, []float64{0.8, 5.0, 2.0, 0.0, 0.2}, nil)
	require.NoError(t, err)

	require.Equal(t, "O-H", set.PairType)
	require.Equal(t, 5, set.Len())
	require.Equal(t, 1.0, set.MinDistance())
	require.Equal(t, 3.0, set.MaxDistance())
	for i := 1; i < set.Len(); i++ {
		require.Greater(t, set.Samples[i].Distance, set.Samples[i-1].Distance)
	}
	// Energies travel with their distances through the sort.
	require.Equal(t, 5.0, set.Samples[0].Energy)
	require.Equal(t, 0.0, set.Samples[4].Energy)
}

func TestNewSetDefaultsWeights(t *testing.T) {
	set, err := NewSet("O-O", []float64{1, 2, 3, 4, 5}, []float64{5, 4, 3, 2, 1}, nil)
	require.NoError(t, err)

	for _, s := range set.Samples {
		require.Equal(t, 1.0, s.Weight)
	}
}

func TestNewSetLengthMismatch(t *testing.T) {
	_, err := NewSet("O-H", []float64{1, 2}, []float64{1}, nil)
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = NewSet("O-H", []float64{1, 2}, []float64{1, 2}, []float64{1})
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = NewSet("O-H", nil, nil, nil)
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestSetValidate(t *testing.T) {
	tests := []struct {
		name      string
		distances []float64
		energies  []float64
		weights   []float64
		cfg       Config
		wantErr   bool
	}{
		{
			name:      "valid five sample fit",
			distances: []float64{1.0, 1.5, 2.0, 2.5, 3.0},
			energies:  []float64{5.0, 2.0, 0.8, 0.2, 0.0},
			cfg:       validConfig(),
		},
		{
			name:      "too few samples",
			distances: []float64{1.0, 2.0},
			energies:  []float64{5.0, 0.5},
			cfg:       validConfig(),
			wantErr:   true,
		},
		{
			name:      "duplicate distance",
			distances: []float64{1.0, 1.5, 1.5, 2.5, 3.0},
			energies:  []float64{5.0, 2.0, 2.0, 0.2, 0.0},
			cfg:       validConfig(),
			wantErr:   true,
		},
		{
			name:      "non-positive weight",
			distances: []float64{1.0, 1.5, 2.0, 2.5, 3.0},
			energies:  []float64{5.0, 2.0, 0.8, 0.2, 0.0},
			weights:   []float64{1, 1, 0, 1, 1},
			cfg:       validConfig(),
			wantErr:   true,
		},
		{
			name:      "cutoff below sampled range",
			distances: []float64{1.0, 1.5, 2.0, 2.5, 3.0},
			energies:  []float64{5.0, 2.0, 0.8, 0.2, 0.0},
			cfg:       Config{Cutoff: 0.5, Knots: 1},
			wantErr:   true,
		},
		{
			name:      "cutoff inside sampled range",
			distances: []float64{1.0, 1.5, 2.0, 2.5, 3.0},
			energies:  []float64{5.0, 2.0, 0.8, 0.2, 0.0},
			cfg:       Config{Cutoff: 2.0, Knots: 1},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := NewSet("A-B", tt.distances, tt.energies, tt.weights)
			require.NoError(t, err)

			err = set.Validate(tt.cfg)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrInvalidInput)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	bad := validConfig()
	bad.Knots = 0
	require.ErrorIs(t, bad.Validate(), errs.ErrInvalidInput)

	bad = validConfig()
	bad.Smoothing = -1
	require.ErrorIs(t, bad.Validate(), errs.ErrInvalidInput)

	bad = validConfig()
	bad.Placement = format.KnotPlacement(0x7F)
	require.ErrorIs(t, bad.Validate(), errs.ErrInvalidInput)
}

func TestEffectivePlacement(t *testing.T) {
	require.Equal(t, format.PlacementQuantile, Config{}.EffectivePlacement())
	require.Equal(t, format.PlacementUniform, Config{Placement: format.PlacementUniform}.EffectivePlacement())
}

func TestMinSamples(t *testing.T) {
	require.Equal(t, 5, MinSamples(1))
	require.Equal(t, 7, MinSamples(3))
}
