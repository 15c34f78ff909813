package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/splinelab/pairpot/errs"
	"github.com/splinelab/pairpot/format"
)

func TestTableHeaderRoundTrip(t *testing.T) {
	h := NewTableHeader(3, 6.5)
	h.Flag.SetCompression(format.CompressionLZ4)
	h.PayloadSize = 128
	h.Checksum = 0xdeadbeefcafef00d

	data := h.Bytes()
	require.Len(t, data, HeaderSize)

	var parsed TableHeader
	require.NoError(t, parsed.Parse(data))
	require.Equal(t, *h, parsed)
	require.Equal(t, format.CompressionLZ4, parsed.Flag.Compression())
	require.Equal(t, 6.5, parsed.Cutoff)
}

func TestTableHeaderBigEndian(t *testing.T) {
	h := NewTableHeader(2, 3.0)
	h.Flag.WithBigEndian()
	h.PayloadSize = 64
	h.Checksum = 42

	var parsed TableHeader
	require.NoError(t, parsed.Parse(h.Bytes()))
	require.True(t, parsed.Flag.IsBigEndian())
	require.Equal(t, uint32(2), parsed.SegmentCount)
	require.Equal(t, 3.0, parsed.Cutoff)
}

func TestTableHeaderParseErrors(t *testing.T) {
	t.Run("short buffer", func(t *testing.T) {
		var h TableHeader
		require.ErrorIs(t, h.Parse(make([]byte, HeaderSize-1)), errs.ErrInvalidHeaderSize)
	})

	t.Run("bad magic", func(t *testing.T) {
		data := NewTableHeader(1, 2.0).Bytes()
		data[1] = 0x00 // clobber the magic number bits

		var h TableHeader
		require.ErrorIs(t, h.Parse(data), errs.ErrInvalidMagicNumber)
	})

	t.Run("bad compression", func(t *testing.T) {
		data := NewTableHeader(1, 2.0).Bytes()
		data[2] = 0x7F

		var h TableHeader
		require.ErrorIs(t, h.Parse(data), errs.ErrInvalidCompressionType)
	})

	t.Run("zero segments", func(t *testing.T) {
		data := NewTableHeader(0, 2.0).Bytes()

		var h TableHeader
		require.ErrorIs(t, h.Parse(data), errs.ErrInvalidPayload)
	})
}

func TestTableFlagDefaults(t *testing.T) {
	flag := NewTableFlag()

	require.True(t, flag.IsLittleEndian())
	require.False(t, flag.IsBigEndian())
	require.True(t, flag.IsValidMagicNumber())
	require.Equal(t, format.CompressionNone, flag.Compression())
	require.NoError(t, flag.Validate())
}

func TestPayloadSizeFor(t *testing.T) {
	// 2 segments: 3 breakpoints (24 bytes) + 2 coefficient records (64 bytes).
	require.Equal(t, 88, PayloadSizeFor(2))
}
