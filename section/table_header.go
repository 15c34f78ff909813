package section

import (
	"math"

	"github.com/splinelab/pairpot/errs"
)

// TableHeader represents the fixed-size header at the start of a serialized
// potential table.
type TableHeader struct {
	// SegmentCount is the number of cubic segments in the table.
	SegmentCount uint32 // byte offset 4-7
	// PayloadOffset is the byte offset to the start of the payload section.
	PayloadOffset uint32 // byte offset 8-11
	// PayloadSize is the stored payload size in bytes, after compression.
	PayloadSize uint32 // byte offset 12-15
	// Checksum is the xxHash64 digest of the uncompressed payload.
	Checksum uint64 // byte offset 16-23
	// Cutoff is the cutoff distance of the potential.
	Cutoff float64 // byte offset 24-31

	// Flag is the packed field for the magic number, endianness and compression.
	Flag TableFlag // byte offset 0-3
}

// NewTableHeader creates a header for a table with the given segment count.
// Payload size and checksum are filled in by the encoder once the payload is
// assembled.
func NewTableHeader(segments int, cutoff float64) *TableHeader {
	return &TableHeader{
		Flag:          NewTableFlag(),
		SegmentCount:  uint32(segments), //nolint:gosec // bounded by MaxSegmentCount upstream
		PayloadOffset: HeaderSize,
		Cutoff:        cutoff,
	}
}

// Parse parses the header from a byte slice.
//
// Returns errs.ErrInvalidHeaderSize if data is shorter than HeaderSize, or a
// flag validation error for an unknown magic number or compression type.
func (h *TableHeader) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// The Options field itself is always stored little-endian; the endianness
	// bit inside it governs the rest of the header and the payload.
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.CompressionType = data[2]
	h.Flag.Reserved = data[3]

	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()

	h.SegmentCount = engine.Uint32(data[4:8])
	h.PayloadOffset = engine.Uint32(data[8:12])
	h.PayloadSize = engine.Uint32(data[12:16])
	h.Checksum = engine.Uint64(data[16:24])
	h.Cutoff = math.Float64frombits(engine.Uint64(data[24:32]))

	if h.SegmentCount == 0 || h.SegmentCount > MaxSegmentCount {
		return errs.ErrInvalidPayload
	}
	if h.PayloadOffset != HeaderSize {
		return errs.ErrInvalidPayload
	}

	return nil
}

// Bytes serializes the header into a byte slice of HeaderSize bytes.
func (h *TableHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)

	engine := h.Flag.GetEndianEngine()

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.CompressionType
	b[3] = h.Flag.Reserved

	engine.PutUint32(b[4:8], h.SegmentCount)
	engine.PutUint32(b[8:12], h.PayloadOffset)
	engine.PutUint32(b[12:16], h.PayloadSize)
	engine.PutUint64(b[16:24], h.Checksum)
	engine.PutUint64(b[24:32], math.Float64bits(h.Cutoff))

	return b
}
