package catalog

import (
	"fmt"
	"log"
)

// Catalog is an immutable, ordered set of piece types keyed by id.
type Catalog struct {
	defs  map[string]PieceType
	order []string
}

// New builds a catalog from the given types. Ids must be unique and every
// type must have a footprint of at least 1x1. The inverted flag is cleared
// on variants other than slope and corner slope.
func New(types ...PieceType) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]PieceType, len(types))}
	for _, t := range types {
		if err := t.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.defs[t.ID]; dup {
			return nil, fmt.Errorf("duplicate piece type id %q", t.ID)
		}
		if t.Inverted && !t.Variant.IsSloped() {
			log.Printf("catalog: %s: inverted flag ignored for variant %s", t.ID, t.Variant)
			t.Inverted = false
		}
		c.defs[t.ID] = t
		c.order = append(c.order, t.ID)
	}
	return c, nil
}

// MustNew is New that panics on error. Intended for static catalogs.
func MustNew(types ...PieceType) *Catalog {
	c, err := New(types...)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

// Get returns the piece type with the given id.
func (c *Catalog) Get(id string) (PieceType, bool) {
	if c == nil {
		return PieceType{}, false
	}
	t, ok := c.defs[id]
	return t, ok
}

// All returns every piece type in catalog order.
func (c *Catalog) All() []PieceType {
	out := make([]PieceType, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.defs[id])
	}
	return out
}

// Len returns the number of piece types.
func (c *Catalog) Len() int {
	return len(c.order)
}

// defaultFootprints are the rectangular footprints stocked for boxes.
var defaultFootprints = [][2]int{
	{1, 1}, {1, 2}, {1, 3}, {1, 4}, {1, 6}, {1, 8},
	{2, 2}, {2, 3}, {2, 4}, {2, 6}, {2, 8},
	{4, 4}, {6, 6},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	var types []PieceType
	for _, v := range []Variant{VariantBrick, VariantPlate, VariantTile} {
		for _, fp := range defaultFootprints {
			types = append(types, PieceType{
				ID:      fmt.Sprintf("%s-%dx%d", v, fp[0], fp[1]),
				Width:   fp[0],
				Depth:   fp[1],
				Variant: v,
			})
		}
		types = append(types, PieceType{
			ID:       fmt.Sprintf("round-%s-1x1", v),
			Width:    1,
			Depth:    1,
			Variant:  v,
			RoundTop: true,
		})
	}

	for _, fp := range [][2]int{{1, 2}, {2, 2}, {2, 3}, {4, 2}} {
		for _, inv := range []bool{false, true} {
			types = append(types, PieceType{
				ID:       slopeID("slope", fp, inv),
				Width:    fp[0],
				Depth:    fp[1],
				Variant:  VariantSlope,
				Inverted: inv,
			})
		}
	}
	for _, inv := range []bool{false, true} {
		types = append(types, PieceType{
			ID:       slopeID("corner-slope", [2]int{2, 2}, inv),
			Width:    2,
			Depth:    2,
			Variant:  VariantCornerSlope,
			Inverted: inv,
		})
	}

	types = append(types,
		PieceType{ID: "brick-1x1-side", Width: 1, Depth: 1, Variant: VariantBrick, Sides: SidePosX},
		PieceType{ID: "brick-1x1-side2", Width: 1, Depth: 1, Variant: VariantBrick, Sides: SidePosX | SideNegX},
		PieceType{ID: "brick-1x1-side4", Width: 1, Depth: 1, Variant: VariantBrick, Sides: SidePosX | SideNegX | SidePosZ | SideNegZ},
		PieceType{ID: "brick-1x2-side", Width: 1, Depth: 2, Variant: VariantBrick, Sides: SidePosX},
	)

	return MustNew(types...)
}

func slopeID(prefix string, fp [2]int, inverted bool) string {
	id := fmt.Sprintf("%s-%dx%d", prefix, fp[0], fp[1])
	if inverted {
		id += "-inverted"
	}
	return id
}
