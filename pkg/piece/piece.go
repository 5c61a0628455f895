// Package piece defines a piece instance placed in a scene.
package piece

import (
	"github.com/chazu/brickwork/pkg/geom"
	"github.com/chazu/brickwork/pkg/orient"
)

// Placed is one instantiated piece. Position is the body center in world
// space. Instances are replaced rather than edited: a move is a removal
// followed by a new placement as far as connectivity is concerned.
type Placed struct {
	ID          string             `json:"id"`
	TypeID      string             `json:"type_id"`
	Position    geom.Vec3          `json:"position"`
	Orientation orient.Orientation `json:"orientation"`
	Rotation    int                `json:"rotation"` // quarter turns about the outward axis
	Color       string             `json:"color,omitempty"`
}

// Transform returns the local-to-world rotation of the piece.
func (p Placed) Transform() geom.Mat3 {
	return orient.Rotation(p.Orientation, p.Rotation)
}

// ToWorld maps a local-space point to world space.
func (p Placed) ToWorld(local geom.Vec3) geom.Vec3 {
	return p.Transform().Apply(local).Add(p.Position)
}
