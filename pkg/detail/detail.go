// Package detail keeps a spatial index of per-piece detail objects (studs,
// outlines) so a renderer can ask which ones lie near the camera. It only
// registers, unregisters and answers distance queries; showing and hiding
// the objects is the renderer's job.
package detail

import (
	"slices"

	"github.com/dhconnelly/rtreego"

	"github.com/chazu/brickwork/pkg/geom"
)

// pointTol is the half-size of the box each registered point occupies in
// the tree.
const pointTol = 0.01

// entry is one registered detail object.
type entry struct {
	id  string
	pos geom.Vec3
}

func (e *entry) Bounds() rtreego.Rect {
	return point(e.pos).ToRect(pointTol)
}

func point(v geom.Vec3) rtreego.Point {
	return rtreego.Point{v.X, v.Y, v.Z}
}

// Registry indexes detail objects by piece id. It is not safe for
// concurrent use.
type Registry struct {
	tree    *rtreego.Rtree
	entries map[string]*entry
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tree:    rtreego.NewTree(3, 25, 50),
		entries: make(map[string]*entry),
	}
}

// Register records the detail object of a piece at pos, replacing any
// earlier registration for the same id.
func (r *Registry) Register(id string, pos geom.Vec3) {
	r.Unregister(id)
	e := &entry{id: id, pos: pos}
	r.entries[id] = e
	r.tree.Insert(e)
}

// Unregister drops the detail object of a piece. It reports whether one
// was registered.
func (r *Registry) Unregister(id string) bool {
	e, ok := r.entries[id]
	if !ok {
		return false
	}
	r.tree.Delete(e)
	delete(r.entries, id)
	return true
}

// Len returns the number of registered objects.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Position returns the registered position of a piece.
func (r *Registry) Position(id string) (geom.Vec3, bool) {
	e, ok := r.entries[id]
	if !ok {
		return geom.Vec3{}, false
	}
	return e.pos, true
}

// Within returns the sorted ids of objects no farther than radius from
// center. Distances are compared squared.
func (r *Registry) Within(center geom.Vec3, radius float64) []string {
	out := []string{}
	if radius <= 0 || len(r.entries) == 0 {
		return out
	}
	bb, err := rtreego.NewRect(point(center.Sub(geom.Vec3{X: radius, Y: radius, Z: radius})),
		[]float64{2 * radius, 2 * radius, 2 * radius})
	if err != nil {
		return out
	}
	r2 := radius * radius
	for _, s := range r.tree.SearchIntersect(bb) {
		e := s.(*entry)
		d := e.pos.Sub(center)
		if d.Dot(d) <= r2 {
			out = append(out, e.id)
		}
	}
	slices.Sort(out)
	return out
}

// Classify splits registered objects by distance from the camera: near
// holds those within the near radius, far those beyond the far radius.
// Objects between the two radii appear in neither list so a renderer can
// keep their current state.
func (r *Registry) Classify(camera geom.Vec3, near, far float64) (nearIDs, farIDs []string) {
	nearIDs = r.Within(camera, near)
	keep := make(map[string]bool)
	for _, id := range r.Within(camera, far) {
		keep[id] = true
	}
	farIDs = []string{}
	for id := range r.entries {
		if !keep[id] {
			farIDs = append(farIDs, id)
		}
	}
	slices.Sort(farIDs)
	return nearIDs, farIDs
}

// Nearest returns the ids of the k objects closest to p, nearest first.
func (r *Registry) Nearest(p geom.Vec3, k int) []string {
	out := []string{}
	if k <= 0 || len(r.entries) == 0 {
		return out
	}
	for _, s := range r.tree.NearestNeighbors(k, point(p)) {
		if s == nil {
			continue
		}
		out = append(out, s.(*entry).id)
	}
	return out
}

// Clear removes every registered object.
func (r *Registry) Clear() {
	*r = *NewRegistry()
}
