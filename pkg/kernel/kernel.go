// Package kernel defines the abstract solid-modeling interface used to
// build the curved parts of piece bodies: rounded boxes, round pieces and
// studs. Flat-faced bodies are built directly as meshes by package shape.
// Solids are centered on the origin unless translated.
package kernel

import "github.com/chazu/brickwork/pkg/geom"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// Bounds returns the axis-aligned bounding box.
	Bounds() geom.AABB
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	RoundedBox(x, y, z, round float64) Solid
	Cylinder(height, radius float64) Solid // axis along Y

	// Composition
	Union(a, b Solid) Solid
	Translate(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
