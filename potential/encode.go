package potential

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/splinelab/pairpot/compress"
	"github.com/splinelab/pairpot/errs"
	"github.com/splinelab/pairpot/format"
	"github.com/splinelab/pairpot/internal/options"
	"github.com/splinelab/pairpot/section"
)

// EncodeConfig carries the serialization settings for a potential table.
type EncodeConfig struct {
	flag section.TableFlag
}

// EncodeOption represents a functional option for configuring table encoding.
// This is a type alias for the generic Option interface specialized for
// EncodeConfig.
type EncodeOption = options.Option[*EncodeConfig]

// WithCompression selects the payload compression algorithm.
func WithCompression(compression format.CompressionType) EncodeOption {
	return options.New(func(cfg *EncodeConfig) error {
		if _, err := compress.GetCodec(compression); err != nil {
			return err
		}
		cfg.flag.SetCompression(compression)

		return nil
	})
}

// WithLittleEndian stores the payload in little-endian byte order (default).
func WithLittleEndian() EncodeOption {
	return options.NoError(func(cfg *EncodeConfig) {
		cfg.flag.WithLittleEndian()
	})
}

// WithBigEndian stores the payload in big-endian byte order.
func WithBigEndian() EncodeOption {
	return options.NoError(func(cfg *EncodeConfig) {
		cfg.flag.WithBigEndian()
	})
}

// Encode serializes the potential into the binary table format: a fixed
// 32-byte header followed by the (optionally compressed) float64 payload of
// breakpoints and segment coefficients.
func Encode(p *Potential, opts ...EncodeOption) ([]byte, error) {
	cfg := &EncodeConfig{flag: section.NewTableFlag()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	nseg := p.NumSegments()
	if nseg > section.MaxSegmentCount {
		return nil, fmt.Errorf("%w: %d segments exceed the format limit %d",
			errs.ErrInvalidInput, nseg, section.MaxSegmentCount)
	}

	engine := cfg.flag.GetEndianEngine()

	payload := make([]byte, 0, section.PayloadSizeFor(nseg))
	for _, t := range p.breakpoints {
		payload = engine.AppendUint64(payload, math.Float64bits(t))
	}
	for _, s := range p.segments {
		payload = engine.AppendUint64(payload, math.Float64bits(s.A))
		payload = engine.AppendUint64(payload, math.Float64bits(s.B))
		payload = engine.AppendUint64(payload, math.Float64bits(s.C))
		payload = engine.AppendUint64(payload, math.Float64bits(s.D))
	}

	checksum := xxhash.Sum64(payload)

	codec, err := compress.GetCodec(cfg.flag.Compression())
	if err != nil {
		return nil, err
	}
	stored, err := codec.Compress(payload)
	if err != nil {
		return nil, fmt.Errorf("compress table payload: %w", err)
	}

	header := section.NewTableHeader(nseg, p.Cutoff())
	header.Flag = cfg.flag
	header.PayloadSize = uint32(len(stored)) //nolint:gosec // bounded by MaxSegmentCount
	header.Checksum = checksum

	out := make([]byte, 0, section.HeaderSize+len(stored))
	out = append(out, header.Bytes()...)
	out = append(out, stored...)

	return out, nil
}

// Decode reconstructs a Potential from its binary table representation.
//
// The header is validated (magic number, compression type, section sizes) and
// the payload digest is checked before any coefficient is trusted.
func Decode(data []byte) (*Potential, error) {
	var header section.TableHeader
	if err := header.Parse(data); err != nil {
		return nil, err
	}

	stored := data[section.HeaderSize:]
	if len(stored) != int(header.PayloadSize) {
		return nil, fmt.Errorf("%w: header claims %d payload bytes, got %d",
			errs.ErrInvalidPayload, header.PayloadSize, len(stored))
	}

	codec, err := compress.GetCodec(header.Flag.Compression())
	if err != nil {
		return nil, err
	}
	payload, err := codec.Decompress(stored)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidPayload, err)
	}

	nseg := int(header.SegmentCount)
	if len(payload) != section.PayloadSizeFor(nseg) {
		return nil, fmt.Errorf("%w: expected %d payload bytes for %d segments, got %d",
			errs.ErrInvalidPayload, section.PayloadSizeFor(nseg), nseg, len(payload))
	}

	if sum := xxhash.Sum64(payload); sum != header.Checksum {
		return nil, fmt.Errorf("%w: recorded %016x, computed %016x",
			errs.ErrChecksumMismatch, header.Checksum, sum)
	}

	engine := header.Flag.GetEndianEngine()

	breakpoints := make([]float64, nseg+1)
	off := 0
	for i := range breakpoints {
		breakpoints[i] = math.Float64frombits(engine.Uint64(payload[off : off+8]))
		off += 8
	}

	coeffs := make([]float64, 4*nseg)
	for i := range coeffs {
		coeffs[i] = math.Float64frombits(engine.Uint64(payload[off : off+8]))
		off += 8
	}

	p, err := New(breakpoints, coeffs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidPayload, err)
	}

	if p.Cutoff() != header.Cutoff {
		return nil, fmt.Errorf("%w: header cutoff %g disagrees with last breakpoint %g",
			errs.ErrInvalidPayload, header.Cutoff, p.Cutoff())
	}

	return p, nil
}
