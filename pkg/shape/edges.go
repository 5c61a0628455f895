package shape

import (
	"math"

	"github.com/chazu/brickwork/pkg/geom"
	"github.com/chazu/brickwork/pkg/kernel"
)

// Outline is a set of line segments, 6 floats per segment.
type Outline struct {
	Segments []float32 `json:"segments"`
}

// SegmentCount returns the number of segments.
func (o *Outline) SegmentCount() int {
	return len(o.Segments) / 6
}

// weldScale merges vertex positions closer than 1e-4 units.
const weldScale = 1e4

type weldKey [3]int64

func weld(v geom.Vec3) weldKey {
	return weldKey{
		int64(math.Round(v.X * weldScale)),
		int64(math.Round(v.Y * weldScale)),
		int64(math.Round(v.Z * weldScale)),
	}
}

type edgeID struct{ a, b weldKey }

func less(a, b weldKey) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

type edgeFaces struct {
	from, to geom.Vec3
	normals  []geom.Vec3
}

// Edges extracts the feature edges of m: edges used by a single triangle,
// and edges whose two faces meet at thresholdDeg degrees or more. Edges
// between coplanar triangles are dropped.
func Edges(m *kernel.Mesh, thresholdDeg float64) *Outline {
	cosLimit := math.Cos(thresholdDeg * math.Pi / 180)

	edges := make(map[edgeID]*edgeFaces)
	var order []edgeID
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		n := m.FaceNormal(t)
		if n.IsZero() {
			continue
		}
		for _, e := range [][2]geom.Vec3{{a, b}, {b, c}, {c, a}} {
			ka, kb := weld(e[0]), weld(e[1])
			if ka == kb {
				continue
			}
			id := edgeID{ka, kb}
			if less(kb, ka) {
				id = edgeID{kb, ka}
			}
			ef, ok := edges[id]
			if !ok {
				ef = &edgeFaces{from: e[0], to: e[1]}
				edges[id] = ef
				order = append(order, id)
			}
			ef.normals = append(ef.normals, n)
		}
	}

	out := &Outline{Segments: []float32{}}
	for _, id := range order {
		ef := edges[id]
		if len(ef.normals) == 2 && ef.normals[0].Dot(ef.normals[1]) > cosLimit {
			continue
		}
		out.Segments = append(out.Segments,
			float32(ef.from.X), float32(ef.from.Y), float32(ef.from.Z),
			float32(ef.to.X), float32(ef.to.Y), float32(ef.to.Z))
	}
	return out
}
