package potential

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/splinelab/pairpot/errs"
	"github.com/splinelab/pairpot/format"
	"github.com/splinelab/pairpot/section"
)

// parabolaPotential builds the two-segment spline that reproduces
// f(r) = (r-3)^2 exactly on [1, 3] with a breakpoint at 2.
func parabolaPotential(t *testing.T) *Potential {
	t.Helper()

	p, err := New(
		[]float64{1.0, 2.0, 3.0},
		[]float64{
			4.0, -4.0, 1.0, 0.0,
			1.0, -2.0, 1.0, 0.0,
		},
	)
	require.NoError(t, err)

	return p
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name        string
		breakpoints []float64
		coeffs      []float64
	}{
		{"too few breakpoints", []float64{1.0}, nil},
		{"coefficient count mismatch", []float64{1.0, 2.0}, []float64{1.0, 2.0}},
		{"non-increasing breakpoints", []float64{1.0, 1.0, 2.0}, make([]float64, 8)},
		{"decreasing breakpoints", []float64{2.0, 1.0}, make([]float64, 4)},
		{"nan breakpoint", []float64{1.0, math.NaN(), 3.0}, make([]float64, 8)},
		{"nan coefficient", []float64{1.0, 2.0}, []float64{1.0, math.NaN(), 0.0, 0.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.breakpoints, tt.coeffs)
			require.ErrorIs(t, err, errs.ErrInvalidInput)
		})
	}
}

func TestEvaluate(t *testing.T) {
	p := parabolaPotential(t)

	for _, r := range []float64{1.0, 1.3, 2.0, 2.7, 3.0} {
		v, err := p.Evaluate(r)
		require.NoError(t, err)
		require.InDelta(t, (r-3)*(r-3), v, 1e-12, "r=%g", r)
	}
}

func TestDerivative(t *testing.T) {
	p := parabolaPotential(t)

	for _, r := range []float64{1.0, 1.6, 2.0, 2.4, 3.0} {
		d1, err := p.Derivative(r, 1)
		require.NoError(t, err)
		require.InDelta(t, 2*(r-3), d1, 1e-12, "r=%g", r)

		d2, err := p.Derivative(r, 2)
		require.NoError(t, err)
		require.InDelta(t, 2.0, d2, 1e-12, "r=%g", r)
	}

	_, err := p.Derivative(2.0, 3)
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestEvaluateContinuityAtBreakpoint(t *testing.T) {
	p := parabolaPotential(t)

	const eps = 1e-9
	left, err := p.Evaluate(2.0 - eps)
	require.NoError(t, err)
	right, err := p.Evaluate(2.0 + eps)
	require.NoError(t, err)
	require.InDelta(t, left, right, 1e-7)
}

func TestEvaluateOutOfDomain(t *testing.T) {
	p := parabolaPotential(t)

	for _, r := range []float64{0.5, 3.0001, -1.0, math.NaN()} {
		_, err := p.Evaluate(r)
		require.ErrorIs(t, err, errs.ErrOutOfDomain, "r=%g", r)

		_, err = p.Derivative(r, 1)
		require.ErrorIs(t, err, errs.ErrOutOfDomain, "r=%g", r)
	}
}

func TestAccessors(t *testing.T) {
	p := parabolaPotential(t)

	require.Equal(t, 1.0, p.MinDistance())
	require.Equal(t, 3.0, p.Cutoff())
	require.Equal(t, 2, p.NumSegments())

	bp := p.Breakpoints()
	bp[0] = -99.0
	require.Equal(t, 1.0, p.MinDistance(), "Breakpoints must return a copy")

	segs := p.Segments()
	segs[0].A = -99.0
	v, err := p.Evaluate(1.0)
	require.NoError(t, err)
	require.Equal(t, 4.0, v, "Segments must return a copy")
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := parabolaPotential(t)

	compressions := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}

	for _, c := range compressions {
		t.Run(c.String(), func(t *testing.T) {
			data, err := Encode(p, WithCompression(c))
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(data), section.HeaderSize)

			got, err := Decode(data)
			require.NoError(t, err)
			require.Equal(t, p.Breakpoints(), got.Breakpoints())
			require.Equal(t, p.Segments(), got.Segments())
			require.Equal(t, p.Cutoff(), got.Cutoff())
		})
	}
}

func TestEncodeBigEndianRoundTrip(t *testing.T) {
	p := parabolaPotential(t)

	data, err := Encode(p, WithBigEndian())
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, p.Segments(), got.Segments())
}

func TestDecodeRejectsCorruption(t *testing.T) {
	p := parabolaPotential(t)

	data, err := Encode(p)
	require.NoError(t, err)

	t.Run("flipped payload byte", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[section.HeaderSize+3] ^= 0xFF
		_, err := Decode(bad)
		require.ErrorIs(t, err, errs.ErrChecksumMismatch)
	})

	t.Run("truncated payload", func(t *testing.T) {
		_, err := Decode(data[:len(data)-8])
		require.ErrorIs(t, err, errs.ErrInvalidPayload)
	})

	t.Run("truncated header", func(t *testing.T) {
		_, err := Decode(data[:section.HeaderSize-1])
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("bad magic number", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[1] = 0x00
		_, err := Decode(bad)
		require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)
	})
}

func TestEncodeRejectsUnknownCompression(t *testing.T) {
	p := parabolaPotential(t)

	_, err := Encode(p, WithCompression(format.CompressionType(0x7F)))
	require.ErrorIs(t, err, errs.ErrInvalidCompressionType)
}

func TestWriteTable(t *testing.T) {
	p := parabolaPotential(t)

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, p))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Spline table", lines[0])
	require.Contains(t, lines[1], " 1.000")
	require.Contains(t, lines[1], " 2.000")
	require.Contains(t, lines[1], "4.00000000E+00")
	require.Contains(t, lines[2], "-2.00000000E+00")
}

func TestWriteErrorReport(t *testing.T) {
	p := parabolaPotential(t)

	distances := []float64{1.0, 2.0, 3.0}
	energies := []float64{4.1, 0.9, 0.0}

	var buf bytes.Buffer
	require.NoError(t, WriteErrorReport(&buf, p, distances, energies))

	out := buf.String()
	require.Contains(t, out, "Reference")
	require.Contains(t, out, "Predicted")
	require.Contains(t, out, "MSE = ")
	require.Contains(t, out, "Maxerror = ")
	require.Contains(t, out, "0.10000")

	t.Run("length mismatch", func(t *testing.T) {
		err := WriteErrorReport(&buf, p, distances, energies[:2])
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("out of domain sample", func(t *testing.T) {
		err := WriteErrorReport(&buf, p, []float64{0.2}, []float64{1.0})
		require.ErrorIs(t, err, errs.ErrOutOfDomain)
	})
}
