package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the on-disk layout of a catalog file:
//
//	pieces:
//	  - id: brick-2x4
//	    width: 2
//	    depth: 4
//	    variant: brick
//	  - id: brick-1x1-side
//	    width: 1
//	    depth: 1
//	    variant: brick
//	    sides: ["+x"]
type fileFormat struct {
	Pieces []pieceDef `yaml:"pieces"`
}

type pieceDef struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Width    int      `yaml:"width"`
	Depth    int      `yaml:"depth"`
	Variant  string   `yaml:"variant"`
	Inverted bool     `yaml:"inverted"`
	Sides    []string `yaml:"sides"`
	Round    bool     `yaml:"round"`
}

// Load reads a YAML catalog file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog document.
func Parse(raw []byte) (*Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(f.Pieces) == 0 {
		return nil, fmt.Errorf("no pieces defined")
	}

	types := make([]PieceType, 0, len(f.Pieces))
	for i, d := range f.Pieces {
		v, err := ParseVariant(d.Variant)
		if err != nil {
			return nil, fmt.Errorf("piece %d (%s): %w", i, d.ID, err)
		}
		var sides SideMask
		for _, s := range d.Sides {
			bit, err := ParseSide(s)
			if err != nil {
				return nil, fmt.Errorf("piece %d (%s): %w", i, d.ID, err)
			}
			sides |= bit
		}
		types = append(types, PieceType{
			ID:       d.ID,
			Name:     d.Name,
			Width:    d.Width,
			Depth:    d.Depth,
			Variant:  v,
			Inverted: d.Inverted,
			Sides:    sides,
			RoundTop: d.Round,
		})
	}
	return New(types...)
}
