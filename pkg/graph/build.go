package graph

import (
	"log"
	"math"

	"github.com/samber/lo"

	"github.com/chazu/brickwork/pkg/connector"
	"github.com/chazu/brickwork/pkg/geom"
	"github.com/chazu/brickwork/pkg/piece"
)

// QuantizeScale is the number of key steps per world unit. Two points
// coincide when all three rounded coordinates are equal.
const QuantizeScale = 1000

// Key is a world position quantized to integer steps of 1/QuantizeScale.
type Key [3]int64

// KeyOf quantizes a world position.
func KeyOf(v geom.Vec3) Key {
	return Key{
		int64(math.Round(v.X * QuantizeScale)),
		int64(math.Round(v.Y * QuantizeScale)),
		int64(math.Round(v.Z * QuantizeScale)),
	}
}

// mates reports whether a stud of a piece whose top faces up can receive a
// socket. Studs that point away from their owner's up axis, such as side
// studs, never do.
func mates(s connector.Stud, up geom.Vec3) bool {
	return s.Direction.Dot(up) >= connector.AlignThreshold
}

// Builder constructs adjacency graphs from scratch.
type Builder struct {
	proj *connector.Projector
}

// NewBuilder creates a Builder using proj for connector positions.
func NewBuilder(proj *connector.Projector) *Builder {
	return &Builder{proj: proj}
}

// Build returns the adjacency graph over pieces. Every piece becomes a
// node. Pieces whose type is not in the catalog contribute no connectors.
func (b *Builder) Build(pieces []piece.Placed) *Graph {
	g := New()
	studs := make(map[Key][]string)

	for _, pc := range pieces {
		g.AddNode(pc.ID)
		if _, ok := b.proj.Resolver().Catalog().Get(pc.TypeID); !ok {
			log.Printf("graph: piece %s has unknown type %q, skipping connectors", pc.ID, pc.TypeID)
			continue
		}
		up := pc.Orientation.UpVector()
		for _, s := range b.proj.Studs(pc) {
			if mates(s, up) {
				k := KeyOf(s.Position)
				studs[k] = append(studs[k], pc.ID)
			}
		}
	}

	for _, pc := range pieces {
		for _, p := range b.proj.Sockets(pc) {
			for _, owner := range studs[KeyOf(p)] {
				g.AddEdge(pc.ID, owner)
			}
		}
	}
	return g
}

// Index maintains an adjacency graph incrementally as pieces are inserted
// and removed, so a scene does not have to rebuild the whole graph for
// every change. An Index is not safe for concurrent use.
type Index struct {
	proj    *connector.Projector
	g       *Graph
	pieces  map[string]piece.Placed
	studs   map[Key][]string
	sockets map[Key][]string
	keys    map[string][]Key // keys registered per piece, studs then sockets
}

// NewIndex creates an empty Index.
func NewIndex(proj *connector.Projector) *Index {
	return &Index{
		proj:    proj,
		g:       New(),
		pieces:  make(map[string]piece.Placed),
		studs:   make(map[Key][]string),
		sockets: make(map[Key][]string),
		keys:    make(map[string][]Key),
	}
}

// Graph returns the live graph. Callers must not mutate it.
func (ix *Index) Graph() *Graph {
	return ix.g
}

// Len returns the number of indexed pieces.
func (ix *Index) Len() int {
	return len(ix.pieces)
}

// Get returns an indexed piece by id.
func (ix *Index) Get(id string) (piece.Placed, bool) {
	pc, ok := ix.pieces[id]
	return pc, ok
}

// Pieces returns every indexed piece.
func (ix *Index) Pieces() []piece.Placed {
	return lo.Values(ix.pieces)
}

// Insert adds pc, replacing any piece with the same id, and links it to
// every mating neighbor. It returns the ids of the new neighbors.
func (ix *Index) Insert(pc piece.Placed) []string {
	if _, ok := ix.pieces[pc.ID]; ok {
		ix.Remove(pc.ID)
	}
	ix.pieces[pc.ID] = pc
	ix.g.AddNode(pc.ID)

	if _, ok := ix.proj.Resolver().Catalog().Get(pc.TypeID); !ok {
		log.Printf("graph: piece %s has unknown type %q, skipping connectors", pc.ID, pc.TypeID)
		return nil
	}

	var keys []Key
	up := pc.Orientation.UpVector()
	for _, s := range ix.proj.Studs(pc) {
		if !mates(s, up) {
			continue
		}
		k := KeyOf(s.Position)
		ix.studs[k] = append(ix.studs[k], pc.ID)
		keys = append(keys, k)
		for _, other := range ix.sockets[k] {
			ix.g.AddEdge(pc.ID, other)
		}
	}
	for _, p := range ix.proj.Sockets(pc) {
		k := KeyOf(p)
		ix.sockets[k] = append(ix.sockets[k], pc.ID)
		keys = append(keys, k)
		for _, other := range ix.studs[k] {
			ix.g.AddEdge(pc.ID, other)
		}
	}
	ix.keys[pc.ID] = keys
	return ix.g.Neighbors(pc.ID)
}

// Remove deletes a piece and its edges. It reports whether the piece was
// indexed.
func (ix *Index) Remove(id string) bool {
	if _, ok := ix.pieces[id]; !ok {
		return false
	}
	for _, k := range ix.keys[id] {
		ix.studs[k] = dropID(ix.studs, k, id)
		ix.sockets[k] = dropID(ix.sockets, k, id)
		if len(ix.studs[k]) == 0 {
			delete(ix.studs, k)
		}
		if len(ix.sockets[k]) == 0 {
			delete(ix.sockets, k)
		}
	}
	delete(ix.keys, id)
	delete(ix.pieces, id)
	ix.g.RemoveNode(id)
	return true
}

func dropID(m map[Key][]string, k Key, id string) []string {
	return lo.Without(m[k], id)
}

// Reset empties the index.
func (ix *Index) Reset() {
	*ix = *NewIndex(ix.proj)
}
