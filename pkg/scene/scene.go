// Package scene owns the authoritative set of placed pieces. Every edit
// goes through a Scene, which keeps the adjacency index, the detail
// registry and the metrics in step with the piece set.
package scene

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/google/uuid"

	"github.com/chazu/brickwork/pkg/catalog"
	"github.com/chazu/brickwork/pkg/connector"
	"github.com/chazu/brickwork/pkg/detail"
	"github.com/chazu/brickwork/pkg/geom"
	"github.com/chazu/brickwork/pkg/graph"
	"github.com/chazu/brickwork/pkg/metrics"
	"github.com/chazu/brickwork/pkg/orient"
	"github.com/chazu/brickwork/pkg/piece"
	"github.com/chazu/brickwork/pkg/support"
)

// overlapEps is how deeply two bodies must interpenetrate before they
// count as colliding. Faces that merely touch are fine.
const overlapEps = 1e-3

var (
	ErrUnknownType = errors.New("unknown piece type")
	ErrOrientation = errors.New("invalid orientation")
	ErrDuplicateID = errors.New("duplicate piece id")
	ErrCollision   = errors.New("piece overlaps another piece")
	ErrNotFound    = errors.New("piece not found")
)

// Placement describes a piece to add. An empty ID gets a generated one.
type Placement struct {
	ID          string             `json:"id,omitempty"`
	TypeID      string             `json:"type_id"`
	Position    geom.Vec3          `json:"position"`
	Orientation orient.Orientation `json:"orientation"`
	Rotation    int                `json:"rotation"`
	Color       string             `json:"color,omitempty"`
}

// Scene is a mutable collection of placed pieces. A Scene is not safe for
// concurrent use; callers serialize edits.
type Scene struct {
	cat      *catalog.Catalog
	proj     *connector.Projector
	analyzer *support.Analyzer
	index    *graph.Index
	details  *detail.Registry
	metrics  *metrics.Metrics
	newID    func() string
	overlap  bool
	order    []string
}

// Option configures a Scene.
type Option func(*Scene)

// WithMetrics records edits to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scene) { s.metrics = m }
}

// WithIDGenerator replaces the uuid generator, mainly for tests.
func WithIDGenerator(f func() string) Option {
	return func(s *Scene) { s.newID = f }
}

// WithResolver shares a connector resolver, and so its cache, with the
// scene. The resolver must read from the scene's catalog.
func WithResolver(r *connector.Resolver) Option {
	return func(s *Scene) { s.proj = connector.NewProjector(r) }
}

// AllowOverlap disables the collision check on placement.
func AllowOverlap() Option {
	return func(s *Scene) { s.overlap = true }
}

// New creates an empty scene over cat.
func New(cat *catalog.Catalog, opts ...Option) *Scene {
	s := &Scene{
		cat:     cat,
		details: detail.NewRegistry(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.proj == nil {
		s.proj = connector.NewProjector(connector.NewResolver(cat))
	}
	s.analyzer = support.New(s.proj)
	s.index = graph.NewIndex(s.proj)
	return s
}

// Catalog returns the scene's catalog.
func (s *Scene) Catalog() *catalog.Catalog { return s.cat }

// Projector returns the connector projector used by the scene.
func (s *Scene) Projector() *connector.Projector { return s.proj }

// Details returns the detail registry.
func (s *Scene) Details() *detail.Registry { return s.details }

// Len returns the number of pieces.
func (s *Scene) Len() int { return len(s.order) }

// Get returns a piece by id.
func (s *Scene) Get(id string) (piece.Placed, bool) {
	return s.index.Get(id)
}

// Pieces returns every piece in placement order.
func (s *Scene) Pieces() []piece.Placed {
	out := make([]piece.Placed, 0, len(s.order))
	for _, id := range s.order {
		pc, _ := s.index.Get(id)
		out = append(out, pc)
	}
	return out
}

// Graph returns the live adjacency graph. Callers must not mutate it.
func (s *Scene) Graph() *graph.Graph {
	return s.index.Graph()
}

// Neighbors returns the ids of pieces connected to id.
func (s *Scene) Neighbors(id string) []string {
	return s.index.Graph().Neighbors(id)
}

// Place validates and adds a piece, returning it with its final id.
func (s *Scene) Place(p Placement) (piece.Placed, error) {
	pc, err := s.check(p)
	if err != nil {
		return piece.Placed{}, err
	}
	s.insert(pc)
	s.metrics.Placed()
	s.metrics.SetPieces(s.Len())
	return pc, nil
}

// check turns a placement into a piece, or explains why it cannot be placed.
func (s *Scene) check(p Placement) (piece.Placed, error) {
	if _, ok := s.cat.Get(p.TypeID); !ok {
		s.metrics.Rejected("unknown_type")
		return piece.Placed{}, fmt.Errorf("place %q: %w", p.TypeID, ErrUnknownType)
	}
	if !p.Orientation.Valid() {
		s.metrics.Rejected("orientation")
		return piece.Placed{}, fmt.Errorf("place %q: %w %d", p.TypeID, ErrOrientation, int(p.Orientation))
	}
	id := p.ID
	if id == "" {
		id = s.newID()
	} else if _, exists := s.index.Get(id); exists {
		s.metrics.Rejected("duplicate_id")
		return piece.Placed{}, fmt.Errorf("place %q: %w %s", p.TypeID, ErrDuplicateID, id)
	}
	pc := piece.Placed{
		ID:          id,
		TypeID:      p.TypeID,
		Position:    p.Position,
		Orientation: p.Orientation,
		Rotation:    orient.NormalizeTurns(p.Rotation),
		Color:       p.Color,
	}
	if !s.overlap {
		if other, hit := s.collides(pc, ""); hit {
			s.metrics.Rejected("collision")
			return piece.Placed{}, fmt.Errorf("place %q: %w %s", p.TypeID, ErrCollision, other)
		}
	}
	return pc, nil
}

// collides reports the first piece other than ignore whose body overlaps pc.
func (s *Scene) collides(pc piece.Placed, ignore string) (string, bool) {
	box, ok := s.proj.Bounds(pc)
	if !ok {
		return "", false
	}
	for _, id := range s.order {
		if id == ignore || id == pc.ID {
			continue
		}
		other, _ := s.index.Get(id)
		ob, ok := s.proj.Bounds(other)
		if ok && box.Overlaps(ob, overlapEps) {
			return id, true
		}
	}
	return "", false
}

func (s *Scene) insert(pc piece.Placed) {
	if _, exists := s.index.Get(pc.ID); !exists {
		s.order = append(s.order, pc.ID)
	}
	s.index.Insert(pc)
	s.details.Register(pc.ID, pc.Position)
}

func (s *Scene) drop(id string) {
	s.index.Remove(id)
	s.details.Unregister(id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })
}

func (s *Scene) anchored(id string) bool {
	pc, ok := s.index.Get(id)
	return ok && s.analyzer.Anchored(pc)
}

// CascadePreview returns the ids Remove(id) would delete, without
// deleting anything. Unknown ids yield an empty set.
func (s *Scene) CascadePreview(id string) []string {
	return support.Cascade(s.index.Graph(), s.anchored, id)
}

// Remove deletes id and every piece that loses support with it, returning
// the removed ids with id last. Removing an unknown id is a no-op that
// returns an empty set.
func (s *Scene) Remove(id string) []string {
	gone := s.CascadePreview(id)
	for _, g := range gone {
		s.drop(g)
	}
	if len(gone) > 1 {
		log.Printf("scene: removing %s cascaded to %d pieces", id, len(gone)-1)
	}
	s.metrics.Removed(len(gone))
	s.metrics.SetPieces(s.Len())
	return gone
}

// Move relocates a piece. For connectivity the piece is removed and placed
// again under the same id. Pieces that were resting on it stay where they
// are, even if they are left floating.
func (s *Scene) Move(id string, pos geom.Vec3, o orient.Orientation, rotation int) (piece.Placed, error) {
	old, ok := s.index.Get(id)
	if !ok {
		return piece.Placed{}, fmt.Errorf("move %s: %w", id, ErrNotFound)
	}
	if !o.Valid() {
		return piece.Placed{}, fmt.Errorf("move %s: %w %d", id, ErrOrientation, int(o))
	}
	moved := old
	moved.Position = pos
	moved.Orientation = o
	moved.Rotation = orient.NormalizeTurns(rotation)
	if !s.overlap {
		if other, hit := s.collides(moved, id); hit {
			s.metrics.Rejected("collision")
			return piece.Placed{}, fmt.Errorf("move %s: %w %s", id, ErrCollision, other)
		}
	}
	s.index.Insert(moved)
	s.details.Register(id, moved.Position)
	return moved, nil
}

// Floating returns the sorted ids of pieces with no path to the ground.
func (s *Scene) Floating() []string {
	return support.Unsupported(s.index.Graph(), s.anchored)
}

// Studs returns the world-space connectors of a piece.
func (s *Scene) Studs(id string) []connector.Stud {
	pc, ok := s.index.Get(id)
	if !ok {
		return nil
	}
	return s.proj.Studs(pc)
}

// NearestConnector returns the connector of piece id closest to a hit
// point on the face with the given normal.
func (s *Scene) NearestConnector(id string, hit, normal geom.Vec3) (connector.Stud, bool) {
	pc, ok := s.index.Get(id)
	if !ok {
		return connector.Stud{}, false
	}
	return s.proj.Nearest(pc, hit, normal, connector.AlignThreshold)
}

// Clear removes every piece without cascading.
func (s *Scene) Clear() {
	s.index.Reset()
	s.details.Clear()
	s.order = nil
	s.metrics.SetPieces(0)
}
