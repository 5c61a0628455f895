// Package catalog describes the piece shapes that can be placed in a
// scene. Piece types are immutable once a Catalog is built.
package catalog

import (
	"fmt"
	"strings"

	"github.com/chazu/brickwork/pkg/geom"
)

// Grid units in world space.
const (
	StudSpacing = 1.0               // distance between adjacent stud centers
	BrickHeight = 1.2               // body height of bricks and slopes
	PlateHeight = BrickHeight / 3.0 // body height of plates and tiles
)

// Variant enumerates the body shapes a piece type can have.
type Variant int

const (
	VariantBrick       Variant = iota // full-height box
	VariantPlate                      // third-height box
	VariantTile                       // third-height box without studs
	VariantSlope                      // wedge descending toward +Z
	VariantCornerSlope                // wedge descending toward +X and +Z
)

var variantNames = map[Variant]string{
	VariantBrick:       "brick",
	VariantPlate:       "plate",
	VariantTile:        "tile",
	VariantSlope:       "slope",
	VariantCornerSlope: "corner-slope",
}

func (v Variant) String() string {
	if s, ok := variantNames[v]; ok {
		return s
	}
	return "unknown"
}

// ParseVariant converts a variant name to a Variant.
func ParseVariant(s string) (Variant, error) {
	for v, name := range variantNames {
		if name == strings.ToLower(strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown variant %q", s)
}

// IsSloped reports whether the variant is a slope or corner slope, the only
// variants for which the inverted flag means anything.
func (v Variant) IsSloped() bool {
	return v == VariantSlope || v == VariantCornerSlope
}

// SideMask records which vertical faces carry side studs.
type SideMask uint8

const (
	SidePosX SideMask = 1 << iota
	SideNegX
	SidePosZ
	SideNegZ
)

// Sides lists every side bit in a stable order.
var Sides = []SideMask{SidePosX, SideNegX, SidePosZ, SideNegZ}

var sideNames = map[SideMask]string{
	SidePosX: "+x",
	SideNegX: "-x",
	SidePosZ: "+z",
	SideNegZ: "-z",
}

func (m SideMask) String() string {
	var parts []string
	for _, s := range Sides {
		if m&s != 0 {
			parts = append(parts, sideNames[s])
		}
	}
	return strings.Join(parts, "|")
}

// Has reports whether every bit of s is set in m.
func (m SideMask) Has(s SideMask) bool {
	return m&s == s
}

// Axis returns the local outward unit vector of a single side bit.
func (s SideMask) Axis() geom.Vec3 {
	switch s {
	case SidePosX:
		return geom.UnitX
	case SideNegX:
		return geom.UnitX.Neg()
	case SidePosZ:
		return geom.UnitZ
	case SideNegZ:
		return geom.UnitZ.Neg()
	}
	return geom.Vec3{}
}

// ParseSide converts "+x", "-x", "+z" or "-z" to a side bit.
func ParseSide(s string) (SideMask, error) {
	for m, name := range sideNames {
		if name == strings.ToLower(strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown side %q, expected +x, -x, +z or -z", s)
}

// PieceType is the static description of one placeable shape.
type PieceType struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Width    int      `json:"width"` // studs along local X
	Depth    int      `json:"depth"` // studs along local Z
	Variant  Variant  `json:"variant"`
	Inverted bool     `json:"inverted,omitempty"`
	Sides    SideMask `json:"sides,omitempty"`
	RoundTop bool     `json:"round_top,omitempty"`
}

// Height returns the body height of the piece in world units.
func (p PieceType) Height() float64 {
	switch p.Variant {
	case VariantPlate, VariantTile:
		return PlateHeight
	default:
		return BrickHeight
	}
}

// HasTopStuds reports whether the variant carries studs on its top face.
func (p PieceType) HasTopStuds() bool {
	return p.Variant != VariantTile
}

// Size returns the full body extent (width, height, depth) in world units.
func (p PieceType) Size() geom.Vec3 {
	return geom.Vec3{
		X: float64(p.Width) * StudSpacing,
		Y: p.Height(),
		Z: float64(p.Depth) * StudSpacing,
	}
}

// Cells returns the footprint cell count.
func (p PieceType) Cells() int {
	return p.Width * p.Depth
}

// validate checks the rules every catalog entry must satisfy.
func (p PieceType) validate() error {
	if p.ID == "" {
		return fmt.Errorf("piece type has empty id")
	}
	if p.Width < 1 || p.Depth < 1 {
		return fmt.Errorf("piece type %q: footprint %dx%d, must be at least 1x1", p.ID, p.Width, p.Depth)
	}
	if _, ok := variantNames[p.Variant]; !ok {
		return fmt.Errorf("piece type %q: unknown variant %d", p.ID, p.Variant)
	}
	return nil
}
