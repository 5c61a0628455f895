// Package orient maps a placed piece's stored orientation (which local axis
// faces outward as its top) and quarter-turn rotation to a world rotation.
package orient

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/brickwork/pkg/geom"
)

// Orientation names the world direction a piece's top faces.
type Orientation int

const (
	Up Orientation = iota
	Down
	PosX
	NegX
	PosZ
	NegZ
)

// All lists every orientation.
var All = []Orientation{Up, Down, PosX, NegX, PosZ, NegZ}

var names = map[Orientation]string{
	Up:   "up",
	Down: "down",
	PosX: "+x",
	NegX: "-x",
	PosZ: "+z",
	NegZ: "-z",
}

func (o Orientation) String() string {
	if s, ok := names[o]; ok {
		return s
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// Parse converts "up", "down", "+x", "-x", "+z" or "-z" to an Orientation.
func Parse(s string) (Orientation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for o, name := range names {
		if name == s {
			return o, nil
		}
	}
	return Up, fmt.Errorf("unknown orientation %q", s)
}

// Valid reports whether o is one of the six orientations.
func (o Orientation) Valid() bool {
	_, ok := names[o]
	return ok
}

// UpVector returns the world unit vector the piece's top faces.
// Unknown orientations fall back to up.
func (o Orientation) UpVector() geom.Vec3 {
	switch o {
	case Down:
		return geom.UnitY.Neg()
	case PosX:
		return geom.UnitX
	case NegX:
		return geom.UnitX.Neg()
	case PosZ:
		return geom.UnitZ
	case NegZ:
		return geom.UnitZ.Neg()
	default:
		return geom.UnitY
	}
}

// NormalizeTurns folds any quarter-turn count into [0,4).
func NormalizeTurns(turns int) int {
	return ((turns % 4) + 4) % 4
}

// Rotation returns the local-to-world rotation for a piece with the given
// orientation and quarter turns. The canonical up axis is first carried
// onto the orientation's up vector by the minimal rotation, then the piece
// is spun about that up vector by turns*90 degrees.
//
// Spinning about the world up after aligning equals spinning about local Y
// before aligning, so the product is align * spinY.
func Rotation(o Orientation, turns int) geom.Mat3 {
	align := geom.RotationBetween(geom.UnitY, o.UpVector())
	spin := geom.QuarterTurns(geom.UnitY, NormalizeTurns(turns))
	return align.Mul(spin)
}

// FromNormal picks the orientation whose axis best matches a surface
// normal: the axis with the largest-magnitude component wins, its sign
// selects the direction, and ties prefer Y, then X, then Z.
func FromNormal(n geom.Vec3) Orientation {
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	switch {
	case ay >= ax && ay >= az:
		if n.Y < 0 {
			return Down
		}
		return Up
	case ax >= az:
		if n.X < 0 {
			return NegX
		}
		return PosX
	default:
		if n.Z < 0 {
			return NegZ
		}
		return PosZ
	}
}

// MarshalText encodes the orientation by name.
func (o Orientation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid orientation %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText decodes an orientation name.
func (o *Orientation) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
