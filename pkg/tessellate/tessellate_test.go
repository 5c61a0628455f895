package tessellate_test

import (
	"math"
	"testing"

	"github.com/chazu/brickwork/pkg/catalog"
	"github.com/chazu/brickwork/pkg/geom"
	"github.com/chazu/brickwork/pkg/kernel/sdfx"
	"github.com/chazu/brickwork/pkg/orient"
	"github.com/chazu/brickwork/pkg/piece"
	"github.com/chazu/brickwork/pkg/shape"
	"github.com/chazu/brickwork/pkg/tessellate"
)

// newCache returns a geometry cache backed by a coarse sdfx kernel.
func newCache() *shape.Cache {
	return shape.NewCache(sdfx.New(16))
}

func place(id, typ string, x, y, z float64) piece.Placed {
	return piece.Placed{ID: id, TypeID: typ, Position: geom.Vec3{X: x, Y: y, Z: z}}
}

var bodyOnly = tessellate.Options{EdgeThreshold: 15}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-4
}

func TestSingleBrick(t *testing.T) {
	pc := place("wall", "brick-2x4", 1, 0.6, 2)
	pc.Color = "#c0392b"

	meshes, err := tessellate.Tessellate([]piece.Placed{pc}, catalog.Default(), newCache(), bodyOnly)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}

	m := meshes[0]
	if m.PartName != "wall" {
		t.Errorf("expected PartName %q, got %q", "wall", m.PartName)
	}
	if m.Color != "#c0392b" {
		t.Errorf("expected color to be carried, got %q", m.Color)
	}
	if m.TriangleCount() != 12 {
		t.Errorf("expected 12 triangles, got %d", m.TriangleCount())
	}

	b := m.Bounds()
	if !near(b.Min.X, 0) || !near(b.Min.Y, 0) || !near(b.Min.Z, 0) {
		t.Errorf("min = %v, expected origin", b.Min)
	}
	if !near(b.Max.X, 2) || !near(b.Max.Y, 1.2) || !near(b.Max.Z, 4) {
		t.Errorf("max = %v, expected (2, 1.2, 4)", b.Max)
	}
}

func TestOrientedBrick(t *testing.T) {
	pc := place("side", "brick-2x4", 0, 2, 0)
	pc.Orientation = orient.PosZ

	meshes, err := tessellate.Tessellate([]piece.Placed{pc}, catalog.Default(), newCache(), bodyOnly)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	size := meshes[0].Bounds().Size()
	if !near(size.X, 2) || !near(size.Y, 4) || !near(size.Z, 1.2) {
		t.Errorf("size = %v, expected (2, 4, 1.2)", size)
	}
}

func TestCachedBodyUntouched(t *testing.T) {
	cat := catalog.Default()
	cache := newCache()
	pieces := []piece.Placed{
		place("a", "brick-1x1", 0, 0.6, 0),
		place("b", "brick-1x1", 5, 0.6, 0),
	}

	meshes, err := tessellate.Tessellate(pieces, cat, cache, bodyOnly)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	if meshes[0] == meshes[1] {
		t.Fatal("placements must not share a mesh")
	}

	pt, _ := cat.Get("brick-1x1")
	body, err := cache.PieceBody(pt)
	if err != nil {
		t.Fatalf("PieceBody failed: %v", err)
	}
	if body.PartName != "" {
		t.Errorf("cached body was renamed to %q", body.PartName)
	}
	if c := body.Bounds().Center(); !near(c.X, 0) || !near(c.Y, 0) {
		t.Errorf("cached body moved to %v", c)
	}
	if cache.Len() != 1 {
		t.Errorf("expected 1 cached body, got %d", cache.Len())
	}
}

func TestStudsMerged(t *testing.T) {
	pc := place("a", "brick-1x1", 0, 0.6, 0)
	with, err := tessellate.Piece(pc, catalog.Default(), newCache(), tessellate.DefaultOptions)
	if err != nil {
		t.Fatalf("Piece failed: %v", err)
	}
	if with.TriangleCount() <= 12 {
		t.Errorf("expected stud triangles on top of the body, got %d", with.TriangleCount())
	}
	top := with.Bounds().Max.Y
	if math.Abs(top-(1.2+shape.StudHeight)) > 0.05 {
		t.Errorf("top = %.3f, expected near %.3f", top, 1.2+shape.StudHeight)
	}

	tile := place("t", "tile-1x1", 0, catalog.PlateHeight/2, 0)
	m, err := tessellate.Piece(tile, catalog.Default(), newCache(), tessellate.DefaultOptions)
	if err != nil {
		t.Fatalf("Piece failed: %v", err)
	}
	if m.Bounds().Max.Y > catalog.PlateHeight+0.05 {
		t.Errorf("tile should have no studs, top = %.3f", m.Bounds().Max.Y)
	}
}

func TestUnknownTypeSkipped(t *testing.T) {
	pieces := []piece.Placed{
		place("ghost", "no-such-piece", 0, 0, 0),
		place("real", "plate-2x2", 0, 0.2, 0),
	}
	meshes, err := tessellate.Tessellate(pieces, catalog.Default(), newCache(), bodyOnly)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 1 || meshes[0].PartName != "real" {
		t.Fatalf("expected only the known piece, got %d meshes", len(meshes))
	}
}

func TestEmptyScene(t *testing.T) {
	meshes, err := tessellate.Tessellate(nil, catalog.Default(), newCache(), bodyOnly)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 0 {
		t.Fatalf("expected 0 meshes, got %d", len(meshes))
	}
}

func TestOutlinesInWorldSpace(t *testing.T) {
	pieces := []piece.Placed{
		place("a", "brick-1x1", 10, 0.6, -3),
		place("ghost", "no-such-piece", 0, 0, 0),
	}
	outlines, err := tessellate.Outlines(pieces, catalog.Default(), newCache(), 15)
	if err != nil {
		t.Fatalf("Outlines failed: %v", err)
	}
	if len(outlines) != 1 {
		t.Fatalf("expected 1 outline, got %d", len(outlines))
	}
	o := outlines[0]
	if o.PieceID != "a" {
		t.Errorf("expected outline for a, got %q", o.PieceID)
	}
	if o.Outline.SegmentCount() != 12 {
		t.Errorf("expected 12 box edges, got %d", o.Outline.SegmentCount())
	}
	for i := 0; i < len(o.Outline.Segments); i += 3 {
		x, y, z := o.Outline.Segments[i], o.Outline.Segments[i+1], o.Outline.Segments[i+2]
		if x < 9.49 || x > 10.51 || y < -0.01 || y > 1.21 || z < -3.51 || z > -2.49 {
			t.Fatalf("outline point (%g, %g, %g) outside the placed box", x, y, z)
		}
	}
}
