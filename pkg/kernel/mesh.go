package kernel

import (
	"github.com/chazu/brickwork/pkg/geom"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // placed piece id, empty for cached bodies
	Color    string    `json:"color,omitempty"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns vertex i as a vector.
func (m *Mesh) Vertex(i uint32) geom.Vec3 {
	return geom.Vec3{
		X: float64(m.Vertices[3*i]),
		Y: float64(m.Vertices[3*i+1]),
		Z: float64(m.Vertices[3*i+2]),
	}
}

// Triangle returns the three corners of triangle t in winding order.
func (m *Mesh) Triangle(t int) (a, b, c geom.Vec3) {
	return m.Vertex(m.Indices[3*t]), m.Vertex(m.Indices[3*t+1]), m.Vertex(m.Indices[3*t+2])
}

// FaceNormal returns the unit normal of triangle t implied by its winding.
func (m *Mesh) FaceNormal(t int) geom.Vec3 {
	a, b, c := m.Triangle(t)
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices: append([]float32(nil), m.Vertices...),
		Normals:  append([]float32(nil), m.Normals...),
		Indices:  append([]uint32(nil), m.Indices...),
		PartName: m.PartName,
		Color:    m.Color,
	}
}

// Transformed returns a copy of m rotated by rot and then translated by
// offset. Normals are rotated only.
func (m *Mesh) Transformed(rot geom.Mat3, offset geom.Vec3) *Mesh {
	out := m.Clone()
	for i := 0; i+2 < len(out.Vertices); i += 3 {
		v := rot.Apply(geom.Vec3{
			X: float64(out.Vertices[i]),
			Y: float64(out.Vertices[i+1]),
			Z: float64(out.Vertices[i+2]),
		}).Add(offset)
		out.Vertices[i], out.Vertices[i+1], out.Vertices[i+2] = float32(v.X), float32(v.Y), float32(v.Z)
	}
	for i := 0; i+2 < len(out.Normals); i += 3 {
		n := rot.Apply(geom.Vec3{
			X: float64(out.Normals[i]),
			Y: float64(out.Normals[i+1]),
			Z: float64(out.Normals[i+2]),
		})
		out.Normals[i], out.Normals[i+1], out.Normals[i+2] = float32(n.X), float32(n.Y), float32(n.Z)
	}
	return out
}

// Append adds the geometry of o to m, offsetting o's indices.
func (m *Mesh) Append(o *Mesh) {
	base := uint32(m.VertexCount())
	m.Vertices = append(m.Vertices, o.Vertices...)
	m.Normals = append(m.Normals, o.Normals...)
	for _, idx := range o.Indices {
		m.Indices = append(m.Indices, base+idx)
	}
}

// Bounds returns the axis-aligned box of all vertices. An empty mesh
// returns the zero box.
func (m *Mesh) Bounds() geom.AABB {
	if m.IsEmpty() {
		return geom.AABB{}
	}
	lo := m.Vertex(0)
	hi := lo
	for i := uint32(1); i < uint32(m.VertexCount()); i++ {
		v := m.Vertex(i)
		lo = geom.Vec3{X: min(lo.X, v.X), Y: min(lo.Y, v.Y), Z: min(lo.Z, v.Z)}
		hi = geom.Vec3{X: max(hi.X, v.X), Y: max(hi.Y, v.Y), Z: max(hi.Z, v.Z)}
	}
	return geom.AABB{Min: lo, Max: hi}
}
