package section

import (
	"github.com/splinelab/pairpot/endian"
	"github.com/splinelab/pairpot/errs"
	"github.com/splinelab/pairpot/format"
)

// TableFlag represents the packed flag field at the start of the table header.
type TableFlag struct {
	// Options is a packed field for format options.
	// Bit 0 is reserved and must be 0.
	// Bit 1 is the endianness flag, 0 means little-endian, 1 means big-endian.
	// Bits 2-3 are reserved for future use, must be set to 0.
	// Bits 4-15 are the magic number identifying the table format:
	//   - 0xFA10 (0b1111_1010_0001_0000): potential table format v1
	Options uint16

	// CompressionType is an enum indicating the compression applied to the
	// table payload.
	CompressionType uint8

	// Reserved must be zero. It pads the flag to 4 bytes and is available for
	// a future format revision.
	Reserved uint8
}

var validCompressions = map[uint8]struct{}{
	uint8(format.CompressionNone): {},
	uint8(format.CompressionZstd): {},
	uint8(format.CompressionS2):   {},
	uint8(format.CompressionLZ4):  {},
}

// NewTableFlag creates a new TableFlag with default settings:
// little-endian payload, no compression.
func NewTableFlag() TableFlag {
	flag := TableFlag{
		Options:         MagicTableV1Opt,
		CompressionType: uint8(format.CompressionNone),
	}
	flag.WithLittleEndian()

	return flag
}

// IsLittleEndian returns whether the payload is little-endian.
func (f TableFlag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// IsBigEndian returns whether the payload is big-endian.
func (f TableFlag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *TableFlag) WithLittleEndian() {
	f.Options &= ^uint16(EndiannessMask)
}

// WithBigEndian sets big-endian byte order.
func (f *TableFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetEndianEngine returns the endian engine matching the endianness flag.
func (f TableFlag) GetEndianEngine() endian.EndianEngine {
	if f.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// GetMagicNumber returns the magic number from the Options field.
func (f TableFlag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// Compression returns the payload compression type.
func (f TableFlag) Compression() format.CompressionType {
	return format.CompressionType(f.CompressionType)
}

// SetCompression sets the payload compression type.
func (f *TableFlag) SetCompression(compression format.CompressionType) {
	f.CompressionType = uint8(compression)
}

// IsValidMagicNumber checks if the magic number is valid.
func (f TableFlag) IsValidMagicNumber() bool {
	return f.GetMagicNumber() == MagicTableV1Opt
}

// IsValidCompression checks if the compression type is valid.
func (f TableFlag) IsValidCompression() bool {
	_, ok := validCompressions[f.CompressionType]

	return ok
}

// Validate checks if the flag contains valid values.
func (f TableFlag) Validate() error {
	if !f.IsValidMagicNumber() {
		return errs.ErrInvalidMagicNumber
	}

	if !f.IsValidCompression() {
		return errs.ErrInvalidCompressionType
	}

	return nil
}
