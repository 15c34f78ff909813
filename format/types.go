package format

type (
	// KnotPlacement selects the interior-knot placement policy.
	KnotPlacement uint8
	// CompressionType selects the compression applied to a serialized
	// potential table payload.
	CompressionType uint8
)

const (
	// PlacementQuantile places each interior knot at an evenly spaced
	// quantile of the sample distances, giving every segment a comparable
	// number of samples. This is the default policy.
	PlacementQuantile KnotPlacement = 0x1
	// PlacementUniform spaces interior knots evenly between the minimum
	// sample distance and the cutoff.
	PlacementUniform KnotPlacement = 0x2

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (p KnotPlacement) String() string {
	switch p {
	case PlacementQuantile:
		return "Quantile"
	case PlacementUniform:
		return "Uniform"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
