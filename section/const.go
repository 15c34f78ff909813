package section

import "math"

const (
	// Bit masks for the packed Options field
	ReservedBitMask  = 0x0001 // Mask for reserved bit (bit 0), must be 0
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1), 0=little 1=big
	ReservedBitsMask = 0x000C // Mask for reserved bits (bits 2-3), must be 0
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicTableV1Opt is the version 1 magic number for the potential table format.
	MagicTableV1Opt = 0xFA10
)

// Offsets and sizes in the serialized table.
const (
	HeaderSize        = 32             // fixed header size in bytes
	BreakpointSize    = 8              // one float64 per breakpoint
	SegmentRecordSize = 32             // four float64 coefficients per segment
	MaxSegmentCount   = math.MaxUint16 // sanity bound on segment count
)

// PayloadSizeFor returns the uncompressed payload size in bytes for a table
// with the given number of segments: segments+1 breakpoints plus one
// coefficient record per segment.
func PayloadSizeFor(segments int) int {
	return (segments+1)*BreakpointSize + segments*SegmentRecordSize
}
