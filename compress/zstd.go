package compress

// ZstdCompressor provides Zstandard compression for table payloads.
//
// Zstd gives the best compression ratio of the supported algorithms, making it
// the right choice for archiving large collections of fitted potentials or
// shipping them over constrained links.
//
// Two implementations back this type: a cgo binding (valyala/gozstd) when cgo
// is available, and a pure-Go fallback (klauspost/compress/zstd) otherwise.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
