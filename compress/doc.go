// Package compress provides compression and decompression codecs for serialized
// potential-table payloads.
//
// A potential table stores breakpoints and per-segment cubic coefficients as raw
// float64 arrays. Individual tables are small, but force-field archives bundle
// many pair types, and coefficient payloads compress well because neighbouring
// segments share exponent and sign bits.
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Four algorithms are supported, selected through format.CompressionType:
//
//   - None: no compression, payload stored as-is (the default)
//   - Zstd: best ratio, for archival of large table collections
//   - S2: balanced speed and ratio
//   - LZ4: fastest decompression, for simulation startup paths
//
// Decoders pick the decompression algorithm from the table header flag, so the
// chosen codec never needs to be communicated out of band.
//
// All codec implementations are stateless or internally pooled and are safe for
// concurrent use.
package compress
