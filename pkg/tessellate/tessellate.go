// Package tessellate turns placed pieces into world-space triangle meshes
// and outlines. Local bodies come from a shape.Cache, so each distinct
// piece shape is built once and every placement only pays for a copy and
// a transform.
package tessellate

import (
	"fmt"
	"log"

	"github.com/chazu/brickwork/pkg/catalog"
	"github.com/chazu/brickwork/pkg/geom"
	"github.com/chazu/brickwork/pkg/kernel"
	"github.com/chazu/brickwork/pkg/piece"
	"github.com/chazu/brickwork/pkg/shape"
)

// Options selects the geometry produced per piece.
type Options struct {
	Studs         bool    // merge top studs into the body mesh
	EdgeThreshold float64 // feature angle for outlines, in degrees
}

// DefaultOptions includes studs and uses a 15 degree outline threshold.
var DefaultOptions = Options{Studs: true, EdgeThreshold: 15}

// PieceOutline is the world-space outline of one piece.
type PieceOutline struct {
	PieceID string         `json:"pieceId"`
	Outline *shape.Outline `json:"outline"`
}

// Tessellate produces one world-space mesh per piece, in input order.
// PartName carries the piece id. Pieces whose type is not in cat are
// skipped. The shared meshes in cache are never modified.
func Tessellate(pieces []piece.Placed, cat *catalog.Catalog, cache *shape.Cache, opts Options) ([]*kernel.Mesh, error) {
	meshes := make([]*kernel.Mesh, 0, len(pieces))
	for _, pc := range pieces {
		m, err := Piece(pc, cat, cache, opts)
		if err != nil {
			return nil, fmt.Errorf("tessellate: piece %s: %w", pc.ID, err)
		}
		if m == nil {
			continue
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

// Piece produces the world-space mesh of a single piece. It returns nil
// without error for an unknown type.
func Piece(pc piece.Placed, cat *catalog.Catalog, cache *shape.Cache, opts Options) (*kernel.Mesh, error) {
	pt, ok := cat.Get(pc.TypeID)
	if !ok {
		log.Printf("tessellate: piece %s has unknown type %q, skipping", pc.ID, pc.TypeID)
		return nil, nil
	}
	body, err := cache.PieceBody(pt)
	if err != nil {
		return nil, err
	}
	local := body
	if opts.Studs && pt.HasTopStuds() {
		studs, err := cache.Studs(pt)
		if err != nil {
			return nil, err
		}
		if !studs.IsEmpty() {
			local = body.Clone()
			local.Append(studs)
		}
	}

	m := local.Transformed(pc.Transform(), pc.Position)
	m.PartName = pc.ID
	m.Color = pc.Color
	return m, nil
}

// Outlines produces the world-space feature edges of every piece with a
// known type, in input order.
func Outlines(pieces []piece.Placed, cat *catalog.Catalog, cache *shape.Cache, thresholdDeg float64) ([]PieceOutline, error) {
	out := make([]PieceOutline, 0, len(pieces))
	for _, pc := range pieces {
		pt, ok := cat.Get(pc.TypeID)
		if !ok {
			continue
		}
		local, err := cache.PieceOutline(pt, thresholdDeg)
		if err != nil {
			return nil, fmt.Errorf("tessellate: outline %s: %w", pc.ID, err)
		}
		out = append(out, PieceOutline{PieceID: pc.ID, Outline: toWorld(local, pc)})
	}
	return out, nil
}

func toWorld(o *shape.Outline, pc piece.Placed) *shape.Outline {
	rot := pc.Transform()
	segs := make([]float32, len(o.Segments))
	for i := 0; i+2 < len(o.Segments); i += 3 {
		v := rot.Apply(vec(o.Segments[i:])).Add(pc.Position)
		segs[i], segs[i+1], segs[i+2] = float32(v.X), float32(v.Y), float32(v.Z)
	}
	return &shape.Outline{Segments: segs}
}

func vec(f []float32) geom.Vec3 {
	return geom.Vec3{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])}
}
