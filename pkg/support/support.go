// Package support decides which placed pieces are held up by the ground
// and which must fall when a piece is removed. Support is graph
// reachability from ground-anchored pieces, not a physical simulation.
package support

import (
	"slices"

	"github.com/chazu/brickwork/pkg/connector"
	"github.com/chazu/brickwork/pkg/graph"
	"github.com/chazu/brickwork/pkg/piece"
)

// GroundEpsilon is how far above y=0 a piece's lowest point may sit and
// still count as resting on the ground.
const GroundEpsilon = 0.01

// Analyzer answers support queries over sets of placed pieces.
type Analyzer struct {
	proj    *connector.Projector
	builder *graph.Builder
}

// New creates an Analyzer that projects connectors with proj.
func New(proj *connector.Projector) *Analyzer {
	return &Analyzer{proj: proj, builder: graph.NewBuilder(proj)}
}

// Anchored reports whether the bounding box of pc reaches the ground
// plane. Pieces of unknown type are never anchored.
func (a *Analyzer) Anchored(pc piece.Placed) bool {
	b, ok := a.proj.Bounds(pc)
	if !ok {
		return false
	}
	return b.Min.Y <= GroundEpsilon
}

// anchorSet returns the ids of every anchored piece.
func (a *Analyzer) anchorSet(pieces []piece.Placed) map[string]bool {
	out := make(map[string]bool)
	for _, pc := range pieces {
		if a.Anchored(pc) {
			out[pc.ID] = true
		}
	}
	return out
}

// CascadeDeletionSet returns the pieces that must be removed when root is
// removed: root itself plus every piece in root's connected component that
// can no longer reach an anchor without passing through root. The cascaded
// ids are sorted and root is last. A root that is not among pieces yields
// an empty set.
func (a *Analyzer) CascadeDeletionSet(pieces []piece.Placed, root string) []string {
	if !slices.ContainsFunc(pieces, func(pc piece.Placed) bool { return pc.ID == root }) {
		return []string{}
	}
	anchors := a.anchorSet(pieces)
	g := a.builder.Build(pieces)
	return Cascade(g, func(id string) bool { return anchors[id] }, root)
}

// Cascade runs the deletion walk on an existing graph. anchored reports
// whether a node rests on the ground. It is the graph-level half of
// CascadeDeletionSet, usable with an incrementally maintained graph.
func Cascade(g *graph.Graph, anchored func(id string) bool, root string) []string {
	if !g.Has(root) {
		return []string{}
	}

	component := g.Component(root)
	inComponent := make(map[string]bool, len(component))
	var anchors []string
	for _, id := range component {
		inComponent[id] = true
		if id != root && anchored(id) {
			anchors = append(anchors, id)
		}
	}

	// The component is closed under adjacency, so walking from anchors
	// while blocking root stays inside it.
	supported := make(map[string]bool)
	for _, id := range g.Walk(anchors, func(id string) bool { return id == root }) {
		supported[id] = true
	}

	out := make([]string, 0, len(component))
	for _, id := range component {
		if id != root && !supported[id] {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return append(out, root)
}

// Floating returns the sorted ids of pieces that cannot reach any anchor
// through the adjacency graph.
func (a *Analyzer) Floating(pieces []piece.Placed) []string {
	anchors := a.anchorSet(pieces)
	g := a.builder.Build(pieces)
	return Unsupported(g, func(id string) bool { return anchors[id] })
}

// Unsupported returns the sorted ids of nodes of g that no anchored node
// reaches.
func Unsupported(g *graph.Graph, anchored func(id string) bool) []string {
	var starts []string
	for _, id := range g.Nodes() {
		if anchored(id) {
			starts = append(starts, id)
		}
	}
	reached := make(map[string]bool)
	for _, id := range g.Walk(starts, nil) {
		reached[id] = true
	}

	out := []string{}
	for _, id := range g.Nodes() {
		if !reached[id] {
			out = append(out, id)
		}
	}
	return out
}
