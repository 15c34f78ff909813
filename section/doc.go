// Package section defines the low-level binary structures and constants of the
// serialized potential-table format.
//
// A fitted potential is persisted as a fixed-size header followed by a single
// payload section holding the spline breakpoints and per-segment coefficients:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (32 bytes, fixed)                                │
//	│  - Flag (4 bytes): magic, endianness, compression       │
//	│  - SegmentCount (4 bytes)                               │
//	│  - PayloadOffset (4 bytes)                              │
//	│  - PayloadSize (4 bytes): stored (compressed) size      │
//	│  - Checksum (8 bytes): xxHash64 of uncompressed payload │
//	│  - Cutoff (8 bytes): float64 cutoff distance            │
//	├─────────────────────────────────────────────────────────┤
//	│ Payload (variable, optionally compressed)               │
//	│  - SegmentCount+1 breakpoints (float64)                 │
//	│  - SegmentCount × 4 coefficients (float64)              │
//	└─────────────────────────────────────────────────────────┘
//
// The header flag word records the byte order of the payload and the
// compression algorithm, so a table is self-describing: decoders never need
// out-of-band knowledge to reconstruct the potential.
//
// The checksum always covers the uncompressed payload, which makes corruption
// detectable independently of the compression codec in use.
package section
