// Package sample holds the reference data and fit configuration for a single
// atom-pair type.
//
// A Set owns the ordered (distance, energy, weight) observations for one pair
// type, and a Config carries the cutoff, knot count and physical constraint
// flags. Both are plain immutable data: validation reports problems but never
// repairs or mutates the input, and the fitting pipeline downstream only ever
// reads them.
//
// The package also implements the JSON input boundary: ParseInput reads the
// per-pair-type mapping of distances, energies, optional weights and fit
// configuration, and produces validated Sets ready for fitting.
package sample
