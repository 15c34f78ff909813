package sample

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/splinelab/pairpot/errs"
	"github.com/splinelab/pairpot/format"
)

// Input bundles a validated sample Set with its fit Config for one pair type.
type Input struct {
	Set    *Set
	Config Config
}

// pairDocument mirrors the JSON object stored under each pair-type key.
type pairDocument struct {
	Distances             []float64 `json:"distances"`
	Energies              []float64 `json:"energies"`
	Weights               []float64 `json:"weights,omitempty"`
	Cutoff                float64   `json:"cutoff"`
	Knots                 int       `json:"knots"`
	Monotonic             bool      `json:"monotonic"`
	Convex                bool      `json:"convex"`
	ZeroValueAtCutoff     bool      `json:"zero_value_at_cutoff"`
	ZeroSlopeAtCutoff     bool      `json:"zero_slope_at_cutoff"`
	ZeroCurvatureAtCutoff bool      `json:"zero_curvature_at_cutoff"`
	Smoothing             float64   `json:"smoothing,omitempty"`
	Placement             string    `json:"placement,omitempty"`
}

// ParseInput reads a JSON document mapping pair-type labels to sample arrays
// and fit configuration, and returns one validated Input per pair type.
//
// Example document:
//
//	{
//	  "O-H": {
//	    "distances": [1.0, 1.5, 2.0, 2.5, 3.0],
//	    "energies":  [5.0, 2.0, 0.8, 0.2, 0.0],
//	    "cutoff": 3.0,
//	    "knots": 1,
//	    "monotonic": true,
//	    "zero_value_at_cutoff": true
//	  }
//	}
//
// Parse and validation failures wrap errs.ErrInvalidInput and name the
// offending pair type.
func ParseInput(r io.Reader) (map[string]Input, error) {
	var doc map[string]pairDocument

	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: malformed input document: %w", errs.ErrInvalidInput, err)
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("%w: input document contains no pair types", errs.ErrInvalidInput)
	}

	inputs := make(map[string]Input, len(doc))
	for pairType, pd := range doc {
		placement, err := parsePlacement(pairType, pd.Placement)
		if err != nil {
			return nil, err
		}

		cfg := Config{
			Cutoff:                pd.Cutoff,
			Knots:                 pd.Knots,
			Monotonic:             pd.Monotonic,
			Convex:                pd.Convex,
			ZeroValueAtCutoff:     pd.ZeroValueAtCutoff,
			ZeroSlopeAtCutoff:     pd.ZeroSlopeAtCutoff,
			ZeroCurvatureAtCutoff: pd.ZeroCurvatureAtCutoff,
			Smoothing:             pd.Smoothing,
			Placement:             placement,
		}

		set, err := NewSet(pairType, pd.Distances, pd.Energies, pd.Weights)
		if err != nil {
			return nil, err
		}
		if err := set.Validate(cfg); err != nil {
			return nil, err
		}

		inputs[pairType] = Input{Set: set, Config: cfg}
	}

	return inputs, nil
}

// LoadInput reads and parses the JSON input file at path.
func LoadInput(path string) (map[string]Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	return ParseInput(f)
}

func parsePlacement(pairType, name string) (format.KnotPlacement, error) {
	switch strings.ToLower(name) {
	case "":
		return format.PlacementQuantile, nil
	case "quantile":
		return format.PlacementQuantile, nil
	case "uniform":
		return format.PlacementUniform, nil
	default:
		return 0, fmt.Errorf("%w: pair %s has unknown knot placement %q",
			errs.ErrInvalidInput, pairType, name)
	}
}
