package support

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/brickwork/pkg/catalog"
	"github.com/chazu/brickwork/pkg/connector"
	"github.com/chazu/brickwork/pkg/geom"
	"github.com/chazu/brickwork/pkg/graph"
	"github.com/chazu/brickwork/pkg/orient"
	"github.com/chazu/brickwork/pkg/piece"
)

func newAnalyzer() *Analyzer {
	return New(connector.NewProjector(connector.NewResolver(catalog.Default())))
}

func at(id, typ string, x, y, z float64) piece.Placed {
	return piece.Placed{ID: id, TypeID: typ, Position: geom.Vec3{X: x, Y: y, Z: z}}
}

func TestAnchored(t *testing.T) {
	a := newAnalyzer()
	assert.True(t, a.Anchored(at("a", "brick-1x1", 0, 0.6, 0)))
	assert.True(t, a.Anchored(at("a", "brick-1x1", 0, 0.605, 0)))
	assert.False(t, a.Anchored(at("a", "brick-1x1", 0, 0.62, 0)))
	assert.True(t, a.Anchored(at("a", "brick-1x1", 0, -3, 0)), "below ground counts")
	assert.False(t, a.Anchored(at("a", "ghost", 0, 0, 0)))

	// Lying on its side a 1x4 brick is four units tall.
	side := piece.Placed{ID: "s", TypeID: "brick-1x4", Position: geom.Vec3{Y: 2}, Orientation: orient.PosZ}
	assert.True(t, a.Anchored(side))
}

func TestCascadeIsolatedPiece(t *testing.T) {
	a := newAnalyzer()
	pieces := []piece.Placed{
		at("lonely", "brick-2x2", 0, 0.6, 0),
		at("other", "brick-2x2", 5, 0.6, 0),
	}
	assert.Equal(t, []string{"lonely"}, a.CascadeDeletionSet(pieces, "lonely"))
}

func TestCascadeMissingRoot(t *testing.T) {
	a := newAnalyzer()
	pieces := []piece.Placed{at("a", "brick-1x1", 0, 0.6, 0)}
	got := a.CascadeDeletionSet(pieces, "nope")
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, a.CascadeDeletionSet(nil, "nope"))
}

func TestCascadeTwoPieceTower(t *testing.T) {
	a := newAnalyzer()
	pieces := []piece.Placed{
		at("base", "brick-1x1", 0, 0.6, 0),
		at("top", "brick-1x1", 0, 1.8, 0),
	}
	assert.Equal(t, []string{"top", "base"}, a.CascadeDeletionSet(pieces, "base"))
	assert.Equal(t, []string{"top"}, a.CascadeDeletionSet(pieces, "top"))
}

func TestCascadeChain(t *testing.T) {
	a := newAnalyzer()
	pieces := []piece.Placed{
		at("A", "brick-1x1", 0, 0.6, 0),
		at("B", "brick-1x1", 0, 1.8, 0),
		at("C", "brick-1x1", 0, 3.0, 0),
	}
	got := a.CascadeDeletionSet(pieces, "B")
	assert.Equal(t, []string{"C", "B"}, got)
	assert.NotContains(t, got, "A")

	// Re-querying gives the same answer.
	assert.Equal(t, got, a.CascadeDeletionSet(pieces, "B"))
}

func TestCascadeBridgeKeepsSecondAnchor(t *testing.T) {
	a := newAnalyzer()
	pieces := []piece.Placed{
		at("left", "brick-1x1", 0, 0.6, 0),
		at("right", "brick-1x1", 0, 0.6, 3),
		at("span", "brick-1x4", 0, 1.8, 1.5),
		at("rider", "brick-1x1", 0, 3.0, 1),
	}
	assert.Equal(t, []string{"left"}, a.CascadeDeletionSet(pieces, "left"))
	assert.Equal(t, []string{"rider", "span"}, a.CascadeDeletionSet(pieces, "span"))
}

func TestCascadeFloatingComponentCollapses(t *testing.T) {
	a := newAnalyzer()
	pieces := []piece.Placed{
		at("hover", "brick-2x2", 0, 5.6, 0),
		at("on-hover", "brick-1x1", 0.5, 6.8, 0.5),
		at("on-that", "brick-1x1", 0.5, 8.0, 0.5),
		// An unrelated floating pair elsewhere is left alone.
		at("far", "brick-1x1", 10, 5.6, 0),
		at("far-top", "brick-1x1", 10, 6.8, 0),
	}
	assert.Equal(t, []string{"on-hover", "on-that", "hover"}, a.CascadeDeletionSet(pieces, "hover"))
}

func TestCascadeAnchoredNeighborSurvives(t *testing.T) {
	a := newAnalyzer()
	// A plate bridges two ground bricks.
	pieces := []piece.Placed{
		at("g1", "brick-1x1", 0, 0.6, 0),
		at("g2", "brick-1x1", 0, 0.6, 1),
		at("cap", "plate-1x2", 0, 1.2+catalog.PlateHeight/2, 0.5),
	}
	got := a.CascadeDeletionSet(pieces, "g1")
	assert.Equal(t, []string{"g1"}, got)
}

func TestCascadeUnknownTypeRoot(t *testing.T) {
	a := newAnalyzer()
	pieces := []piece.Placed{
		at("base", "brick-1x1", 0, 0.6, 0),
		at("ghost", "no-such-type", 0, 1.8, 0),
	}
	assert.Equal(t, []string{"ghost"}, a.CascadeDeletionSet(pieces, "ghost"))
	assert.Equal(t, []string{"base"}, a.CascadeDeletionSet(pieces, "base"))
}

func TestCascadeOnIndex(t *testing.T) {
	proj := connector.NewProjector(connector.NewResolver(catalog.Default()))
	a := New(proj)
	ix := graph.NewIndex(proj)
	pieces := []piece.Placed{
		at("A", "brick-1x1", 0, 0.6, 0),
		at("B", "brick-1x1", 0, 1.8, 0),
		at("C", "brick-1x1", 0, 3.0, 0),
	}
	for _, pc := range pieces {
		ix.Insert(pc)
	}
	anchored := func(id string) bool {
		pc, ok := ix.Get(id)
		return ok && a.Anchored(pc)
	}
	require.Equal(t, a.CascadeDeletionSet(pieces, "B"), Cascade(ix.Graph(), anchored, "B"))
	assert.Equal(t, []string{}, Cascade(ix.Graph(), anchored, "Z"))
}

func TestFloating(t *testing.T) {
	a := newAnalyzer()
	pieces := []piece.Placed{
		at("ground", "brick-1x1", 0, 0.6, 0),
		at("stacked", "brick-1x1", 0, 1.8, 0),
		at("hover", "brick-1x1", 4, 3.0, 0),
		at("hover-top", "brick-1x1", 4, 4.2, 0),
	}
	assert.Equal(t, []string{"hover", "hover-top"}, a.Floating(pieces))
	assert.Empty(t, a.Floating(pieces[:2]))
}
