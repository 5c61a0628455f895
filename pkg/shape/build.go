// Package shape builds and caches body meshes for piece types. Flat-faced
// bodies (boxes, slopes, corner slopes) are built directly with outward
// winding; curved bodies and studs go through a geometry kernel.
package shape

import (
	"math"

	"github.com/chazu/brickwork/pkg/catalog"
	"github.com/chazu/brickwork/pkg/geom"
	"github.com/chazu/brickwork/pkg/kernel"
)

// soup accumulates unshared triangles with flat per-face normals.
type soup struct {
	m kernel.Mesh
}

func (s *soup) tri(a, b, c geom.Vec3) {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	base := uint32(s.m.VertexCount())
	for _, v := range []geom.Vec3{a, b, c} {
		s.m.Vertices = append(s.m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
		s.m.Normals = append(s.m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
	s.m.Indices = append(s.m.Indices, base, base+1, base+2)
}

// quad adds a planar convex quad wound a, b, c, d.
func (s *soup) quad(a, b, c, d geom.Vec3) {
	s.tri(a, b, c)
	s.tri(a, c, d)
}

func (s *soup) mesh() *kernel.Mesh {
	m := s.m
	return &m
}

// Box returns a w x h x d box centered on the origin.
func Box(w, h, d float64) *kernel.Mesh {
	x0, x1 := -w/2, w/2
	y0, y1 := -h/2, h/2
	z0, z1 := -d/2, d/2
	v := func(x, y, z float64) geom.Vec3 { return geom.Vec3{X: x, Y: y, Z: z} }

	var s soup
	s.quad(v(x1, y0, z0), v(x1, y1, z0), v(x1, y1, z1), v(x1, y0, z1)) // +x
	s.quad(v(x0, y0, z0), v(x0, y0, z1), v(x0, y1, z1), v(x0, y1, z0)) // -x
	s.quad(v(x0, y1, z0), v(x0, y1, z1), v(x1, y1, z1), v(x1, y1, z0)) // +y
	s.quad(v(x0, y0, z0), v(x1, y0, z0), v(x1, y0, z1), v(x0, y0, z1)) // -y
	s.quad(v(x0, y0, z1), v(x1, y0, z1), v(x1, y1, z1), v(x0, y1, z1)) // +z
	s.quad(v(x0, y0, z0), v(x0, y1, z0), v(x1, y1, z0), v(x1, y0, z0)) // -z
	return s.mesh()
}

// ledge is the depth of the flat strip left at the high edge of a slope,
// one stud row wide but never more than half the piece.
func ledge(span float64) float64 {
	return math.Min(catalog.StudSpacing, span/2)
}

// Slope returns a wedge w x h x d centered on the origin. The back (-Z)
// face is full height with a flat strip one stud deep on top; the sloped
// face descends from there to the bottom front (+Z) edge.
func Slope(w, h, d float64) *kernel.Mesh {
	x0, x1 := -w/2, w/2
	y0, y1 := -h/2, h/2
	z0, z1 := -d/2, d/2
	t := ledge(d)

	// Profile in the YZ plane, extruded along X.
	p := func(x float64, i int) geom.Vec3 {
		switch i {
		case 0:
			return geom.Vec3{X: x, Y: y0, Z: z0}
		case 1:
			return geom.Vec3{X: x, Y: y1, Z: z0}
		case 2:
			return geom.Vec3{X: x, Y: y1, Z: z0 + t}
		default:
			return geom.Vec3{X: x, Y: y0, Z: z1}
		}
	}
	l := func(i int) geom.Vec3 { return p(x0, i) }
	r := func(i int) geom.Vec3 { return p(x1, i) }

	var s soup
	s.quad(r(0), r(1), r(2), r(3)) // +x cap
	s.quad(l(0), l(3), l(2), l(1)) // -x cap
	s.quad(l(0), l(1), r(1), r(0)) // back
	s.quad(l(0), r(0), r(3), l(3)) // bottom
	s.quad(l(1), l(2), r(2), r(1)) // top strip
	s.quad(l(2), l(3), r(3), r(2)) // sloped face
	return s.mesh()
}

// CornerSlope returns a corner wedge w x h x d centered on the origin. The
// (-X, -Z) corner keeps a flat top one stud square; the two sloped faces
// descend toward +X and +Z.
func CornerSlope(w, h, d float64) *kernel.Mesh {
	x0, x1 := -w/2, w/2
	y0, y1 := -h/2, h/2
	z0, z1 := -d/2, d/2
	tx, tz := ledge(w), ledge(d)

	a := geom.Vec3{X: x0, Y: y1, Z: z0}
	b := geom.Vec3{X: x0 + tx, Y: y1, Z: z0}
	c := geom.Vec3{X: x0 + tx, Y: y1, Z: z0 + tz}
	dd := geom.Vec3{X: x0, Y: y1, Z: z0 + tz}
	e := geom.Vec3{X: x0, Y: y0, Z: z0}
	f := geom.Vec3{X: x1, Y: y0, Z: z0}
	g := geom.Vec3{X: x1, Y: y0, Z: z1}
	hh := geom.Vec3{X: x0, Y: y0, Z: z1}

	var s soup
	s.quad(a, dd, c, b) // top
	s.quad(e, f, g, hh) // bottom
	s.tri(e, a, b)      // back
	s.tri(e, b, f)
	s.tri(e, hh, dd) // left
	s.tri(e, dd, a)
	s.tri(b, c, g) // right slope
	s.tri(b, g, f)
	s.tri(c, dd, hh) // front slope
	s.tri(c, hh, g)
	return s.mesh()
}

// Invert mirrors a body top to bottom: every vertex has its Y negated and
// every triangle has two indices swapped so the winding still faces
// outward. Vertex normals are mirrored the same way. The input is not
// modified.
func Invert(m *kernel.Mesh) *kernel.Mesh {
	out := m.Clone()
	for i := 1; i < len(out.Vertices); i += 3 {
		out.Vertices[i] = -out.Vertices[i]
	}
	for i := 1; i < len(out.Normals); i += 3 {
		out.Normals[i] = -out.Normals[i]
	}
	for t := 0; t+2 < len(out.Indices); t += 3 {
		out.Indices[t+1], out.Indices[t+2] = out.Indices[t+2], out.Indices[t+1]
	}
	return out
}
