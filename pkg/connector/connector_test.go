package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/brickwork/pkg/catalog"
	"github.com/chazu/brickwork/pkg/geom"
	"github.com/chazu/brickwork/pkg/orient"
	"github.com/chazu/brickwork/pkg/piece"
)

func TestPointCountsForDefaultCatalog(t *testing.T) {
	for _, pt := range catalog.Default().All() {
		t.Run(pt.ID, func(t *testing.T) {
			p := ForType(pt)

			wantBottom := pt.Cells()
			switch {
			case pt.Variant == catalog.VariantCornerSlope && pt.Inverted:
				wantBottom = 1
			case pt.Variant == catalog.VariantSlope && pt.Inverted:
				wantBottom = pt.Width
			}
			assert.Len(t, p.Bottom, wantBottom)

			wantTop := pt.Cells()
			switch {
			case pt.Variant == catalog.VariantTile:
				wantTop = 0
			case pt.Variant == catalog.VariantSlope && !pt.Inverted:
				wantTop = pt.Width
			case pt.Variant == catalog.VariantCornerSlope && !pt.Inverted:
				wantTop = 1
			}
			assert.Len(t, p.Top, wantTop)

			for _, cp := range p.Bottom {
				assert.Equal(t, Bottom, cp.Plane)
			}
			for _, cp := range p.Top {
				assert.Equal(t, Top, cp.Plane)
			}
		})
	}
}

func TestGridIsCentered(t *testing.T) {
	p := ForType(catalog.PieceType{ID: "b", Width: 2, Depth: 3, Variant: catalog.VariantBrick})
	require.Len(t, p.Top, 6)

	var sx, sz float64
	for _, cp := range p.Top {
		sx += cp.X
		sz += cp.Z
	}
	assert.InDelta(t, 0, sx, 1e-12)
	assert.InDelta(t, 0, sz, 1e-12)
	assert.Equal(t, Point{Plane: Top, X: -0.5, Z: -1}, p.Top[0])
	assert.Equal(t, Point{Plane: Top, X: 0.5, Z: 1}, p.Top[5])
}

func TestSlopeStudsOnBackRow(t *testing.T) {
	p := ForType(catalog.PieceType{ID: "s", Width: 2, Depth: 3, Variant: catalog.VariantSlope})
	require.Len(t, p.Top, 2)
	for _, cp := range p.Top {
		assert.Equal(t, -1.0, cp.Z)
	}

	inv := ForType(catalog.PieceType{ID: "si", Width: 2, Depth: 3, Variant: catalog.VariantSlope, Inverted: true})
	require.Len(t, inv.Bottom, 2)
	for _, cp := range inv.Bottom {
		assert.Equal(t, -1.0, cp.Z)
	}
}

func TestCornerSlopeSingleCell(t *testing.T) {
	p := ForType(catalog.PieceType{ID: "c", Width: 2, Depth: 2, Variant: catalog.VariantCornerSlope})
	assert.Equal(t, []Point{{Plane: Top, X: -0.5, Z: -0.5}}, p.Top)

	inv := ForType(catalog.PieceType{ID: "ci", Width: 2, Depth: 2, Variant: catalog.VariantCornerSlope, Inverted: true})
	assert.Equal(t, []Point{{Plane: Bottom, X: -0.5, Z: -0.5}}, inv.Bottom)
	assert.Len(t, inv.Top, 4)
}

func TestResolverCachesAndHandlesUnknown(t *testing.T) {
	r := NewResolver(catalog.Default())

	assert.Equal(t, 0, r.Resolve("no-such-piece").Len())
	assert.Equal(t, 0, r.Cached())

	a := r.Resolve("brick-2x4")
	assert.Equal(t, 16, a.Len())
	assert.Equal(t, 1, r.Cached())

	b := r.Resolve("brick-2x4")
	require.NotEmpty(t, b.Top)
	assert.Same(t, &a.Top[0], &b.Top[0])

	r.Clear()
	assert.Equal(t, 0, r.Cached())
}

func TestCycleWraps(t *testing.T) {
	r := NewResolver(catalog.Default())
	c := r.Cycle("brick-1x2")
	require.Len(t, c, 4)

	first, ok := c.At(0)
	require.True(t, ok)
	assert.Equal(t, Bottom, first.Plane)

	last, _ := c.At(3)
	assert.Equal(t, Top, last.Plane)

	wrapped, _ := c.At(4)
	assert.Equal(t, first, wrapped)

	back, _ := c.At(-1)
	assert.Equal(t, last, back)

	_, ok = r.Cycle("missing").At(0)
	assert.False(t, ok)
}

func newProjector(t *testing.T) *Projector {
	t.Helper()
	return NewProjector(NewResolver(catalog.Default()))
}

func TestStudsUpright(t *testing.T) {
	p := newProjector(t)
	pc := piece.Placed{ID: "a", TypeID: "brick-1x2", Position: geom.Vec3{X: 3, Y: 0.6, Z: 1}}

	studs := p.Studs(pc)
	require.Len(t, studs, 2)
	for _, s := range studs {
		assert.Equal(t, geom.UnitY, s.Direction)
		assert.Equal(t, TopStud, s.Kind)
		assert.InDelta(t, 1.2, s.Position.Y, 1e-9)
		assert.InDelta(t, 3, s.Position.X, 1e-9)
	}
	assert.InDelta(t, 0.5, studs[0].Position.Z, 1e-9)
	assert.InDelta(t, 1.5, studs[1].Position.Z, 1e-9)

	sockets := p.Sockets(pc)
	require.Len(t, sockets, 2)
	for _, s := range sockets {
		assert.InDelta(t, 0, s.Y, 1e-9)
	}
}

func TestStudsFollowOrientation(t *testing.T) {
	p := newProjector(t)
	pc := piece.Placed{ID: "a", TypeID: "plate-1x1", Orientation: orient.PosX}

	studs := p.Studs(pc)
	require.Len(t, studs, 1)
	assert.Equal(t, geom.UnitX, studs[0].Direction)
	assert.InDelta(t, catalog.PlateHeight/2, studs[0].Position.X, 1e-9)
}

func TestTileHasNoStuds(t *testing.T) {
	p := newProjector(t)
	assert.Empty(t, p.Studs(piece.Placed{TypeID: "tile-2x2"}))
	assert.Len(t, p.Sockets(piece.Placed{TypeID: "tile-2x2"}), 4)
}

func TestSideStuds(t *testing.T) {
	p := newProjector(t)
	studs := p.Studs(piece.Placed{TypeID: "brick-1x1-side4"})
	require.Len(t, studs, 5)

	var sides []Stud
	for _, s := range studs {
		if s.Kind == SideStud {
			sides = append(sides, s)
		}
	}
	require.Len(t, sides, 4)
	for _, s := range sides {
		assert.InDelta(t, 0, s.Position.Y, 1e-12)
		assert.InDelta(t, 0, s.Direction.Y, 1e-12)
		assert.InDelta(t, 0.5, s.Position.Length(), 1e-12)
		assert.InDelta(t, 1, s.Position.Normalize().Dot(s.Direction), 1e-9)
	}

	// A quarter turn carries the +X side stud to -Z.
	turned := p.Studs(piece.Placed{TypeID: "brick-1x1-side", Rotation: 1})
	require.Len(t, turned, 2)
	assert.Equal(t, geom.Vec3{X: 0, Y: 0, Z: -1}, turned[1].Direction)
}

func TestUnknownTypeProjectsNothing(t *testing.T) {
	p := newProjector(t)
	pc := piece.Placed{TypeID: "ghost"}
	assert.Empty(t, p.Studs(pc))
	assert.Empty(t, p.Sockets(pc))
	_, ok := p.Bounds(pc)
	assert.False(t, ok)
	_, ok = p.Nearest(pc, geom.Vec3{}, geom.UnitY, 0)
	assert.False(t, ok)
}

func TestNearest(t *testing.T) {
	p := newProjector(t)
	pc := piece.Placed{TypeID: "brick-1x2-side", Position: geom.Vec3{Y: 0.6}}

	s, ok := p.Nearest(pc, geom.Vec3{X: 0.1, Y: 1.2, Z: 0.4}, geom.UnitY, AlignThreshold)
	require.True(t, ok)
	assert.Equal(t, TopStud, s.Kind)
	assert.InDelta(t, 0.5, s.Position.Z, 1e-9)

	side, ok := p.Nearest(pc, geom.Vec3{X: 0.6, Y: 0.6}, geom.UnitX, 0)
	require.True(t, ok)
	assert.Equal(t, SideStud, side.Kind)

	// Nothing faces down.
	_, ok = p.Nearest(pc, geom.Vec3{}, geom.UnitY.Neg(), 0)
	assert.False(t, ok)

	// A normal tilted past the threshold misses.
	_, ok = p.Nearest(pc, geom.Vec3{Y: 1.2}, geom.Vec3{X: 1, Y: 1}, 0)
	assert.False(t, ok)
}

func TestBounds(t *testing.T) {
	p := newProjector(t)
	b, ok := p.Bounds(piece.Placed{TypeID: "brick-2x4", Position: geom.Vec3{Y: 0.6}, Orientation: orient.PosZ})
	require.True(t, ok)
	size := b.Size()
	assert.InDelta(t, 2, size.X, 1e-9)
	assert.InDelta(t, 4, size.Y, 1e-9)
	assert.InDelta(t, 1.2, size.Z, 1e-9)
}
