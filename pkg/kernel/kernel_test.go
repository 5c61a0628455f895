package kernel

import (
	"testing"

	"github.com/chazu/brickwork/pkg/geom"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

// --- Geometry helpers ---

// quad is the unit square in the XZ plane at y=0, wound to face +Y.
func quad() *Mesh {
	return &Mesh{
		Vertices: []float32{0, 0, 0, 0, 0, 1, 1, 0, 1, 1, 0, 0},
		Normals:  []float32{0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
	}
}

func TestFaceNormal(t *testing.T) {
	m := quad()
	for i := 0; i < m.TriangleCount(); i++ {
		if n := m.FaceNormal(i); n != geom.UnitY {
			t.Errorf("FaceNormal(%d) = %v, want +Y", i, n)
		}
	}
}

func TestTransformed(t *testing.T) {
	m := quad()
	// Half a turn about Z flips the quad to face down.
	rot := geom.QuarterTurns(geom.UnitZ, 2)
	out := m.Transformed(rot, geom.Vec3{X: 5, Y: 1})

	if out == m {
		t.Fatal("Transformed should return a copy")
	}
	if m.Vertices[3] != 0 {
		t.Error("Transformed modified the original")
	}
	if got := out.Vertex(2); got != (geom.Vec3{X: 4, Y: 1, Z: 1}) {
		t.Errorf("vertex 2 = %v, want (4,1,1)", got)
	}
	if n := out.FaceNormal(0); n != geom.UnitY.Neg() {
		t.Errorf("face normal = %v, want -Y", n)
	}
	if out.Normals[1] != -1 {
		t.Errorf("vertex normal y = %v, want -1", out.Normals[1])
	}
}

func TestAppendOffsetsIndices(t *testing.T) {
	m := quad()
	m.Append(quad())
	if m.VertexCount() != 8 || m.TriangleCount() != 4 {
		t.Fatalf("got %d vertices, %d triangles", m.VertexCount(), m.TriangleCount())
	}
	if m.Indices[6] != 4 || m.Indices[11] != 7 {
		t.Errorf("appended indices not offset: %v", m.Indices)
	}
}

func TestBounds(t *testing.T) {
	b := quad().Bounds()
	if b.Min != (geom.Vec3{}) || b.Max != (geom.Vec3{X: 1, Z: 1}) {
		t.Errorf("Bounds = %+v", b)
	}
	if (&Mesh{}).Bounds() != (geom.AABB{}) {
		t.Error("empty mesh should have zero bounds")
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	bounds geom.AABB
}

func (s *stubSolid) Bounds() geom.AABB {
	return s.bounds
}

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. All methods return trivial results.
type stubKernel struct{}

func (k *stubKernel) RoundedBox(x, y, z, _ float64) Solid {
	return &stubSolid{bounds: geom.BoxAround(geom.Vec3{}, geom.Vec3{X: x / 2, Y: y / 2, Z: z / 2})}
}

func (k *stubKernel) Cylinder(height, radius float64) Solid {
	return &stubSolid{bounds: geom.BoxAround(geom.Vec3{}, geom.Vec3{X: radius, Y: height / 2, Z: radius})}
}

func (k *stubKernel) Union(a, _ Solid) Solid                   { return a }
func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxIsCentered(t *testing.T) {
	var k Kernel = &stubKernel{}
	s := k.RoundedBox(2, 4, 6, 0)
	b := s.Bounds()
	if b.Min != (geom.Vec3{X: -1, Y: -2, Z: -3}) {
		t.Errorf("Box min = %v, want (-1, -2, -3)", b.Min)
	}
	if b.Max != (geom.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Box max = %v, want (1, 2, 3)", b.Max)
	}
}

func TestStubKernelToMesh(t *testing.T) {
	var k Kernel = &stubKernel{}
	s := k.RoundedBox(1, 1, 1, 0)
	m, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m == nil {
		t.Fatal("ToMesh() returned nil mesh")
	}
	if !m.IsEmpty() {
		t.Error("stub ToMesh() should return empty mesh")
	}
}
