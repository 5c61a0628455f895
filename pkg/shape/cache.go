package shape

import (
	"fmt"
	"math"

	"github.com/chazu/brickwork/pkg/catalog"
	"github.com/chazu/brickwork/pkg/connector"
	"github.com/chazu/brickwork/pkg/kernel"
)

// Kind names a body shape family.
type Kind int

const (
	KindBox Kind = iota
	KindRoundedBox
	KindSlope
	KindCornerSlope
	KindCylinder
)

var kindNames = map[Kind]string{
	KindBox:         "box",
	KindRoundedBox:  "rounded-box",
	KindSlope:       "slope",
	KindCornerSlope: "corner-slope",
	KindCylinder:    "cylinder",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sloped reports whether inversion applies to the kind.
func (k Kind) Sloped() bool {
	return k == KindSlope || k == KindCornerSlope
}

// Stud dimensions in world units.
const (
	StudRadius = 0.3
	StudHeight = 0.2
	edgeRound  = 0.04
)

// Key identifies one cached body.
type Key struct {
	Kind     Kind
	W, H, D  float64
	Inverted bool
}

// NewKey normalizes a body key. Inversion is dropped for kinds it does not
// apply to so that equal bodies share one entry.
func NewKey(kind Kind, w, h, d float64, inverted bool) Key {
	return Key{Kind: kind, W: w, H: h, D: d, Inverted: inverted && kind.Sloped()}
}

type outlineKey struct {
	body      Key
	threshold float64
}

// Cache builds each body at most once and hands back the same mesh on
// every later request. Cached meshes are shared and must not be modified.
// A Cache is not safe for concurrent use.
type Cache struct {
	k        kernel.Kernel
	bodies   map[Key]*kernel.Mesh
	outlines map[outlineKey]*Outline
	studs    map[string]*kernel.Mesh
}

// NewCache creates an empty Cache. k builds the curved bodies and studs.
func NewCache(k kernel.Kernel) *Cache {
	c := &Cache{k: k}
	c.Clear()
	return c
}

// Clear releases every cached mesh and outline.
func (c *Cache) Clear() {
	c.bodies = make(map[Key]*kernel.Mesh)
	c.outlines = make(map[outlineKey]*Outline)
	c.studs = make(map[string]*kernel.Mesh)
}

// Len returns the number of cached bodies, outlines and stud meshes.
func (c *Cache) Len() int {
	return len(c.bodies) + len(c.outlines) + len(c.studs)
}

// Body returns the body mesh for a kind and size, building it on first use.
func (c *Cache) Body(kind Kind, w, h, d float64, inverted bool) (*kernel.Mesh, error) {
	key := NewKey(kind, w, h, d, inverted)
	if m, ok := c.bodies[key]; ok {
		return m, nil
	}
	if w <= 0 || h <= 0 || d <= 0 {
		return nil, fmt.Errorf("shape: %s body %gx%gx%g has a non-positive dimension", kind, w, h, d)
	}

	var m *kernel.Mesh
	switch kind {
	case KindBox:
		m = Box(w, h, d)
	case KindSlope:
		m = Slope(w, h, d)
	case KindCornerSlope:
		m = CornerSlope(w, h, d)
	case KindRoundedBox:
		mesh, err := c.k.ToMesh(c.k.RoundedBox(w, h, d, edgeRound))
		if err != nil {
			return nil, fmt.Errorf("shape: rounded box: %w", err)
		}
		m = mesh
	case KindCylinder:
		mesh, err := c.k.ToMesh(c.k.Cylinder(h, math.Min(w, d)/2))
		if err != nil {
			return nil, fmt.Errorf("shape: cylinder: %w", err)
		}
		m = mesh
	default:
		return nil, fmt.Errorf("shape: unknown kind %s", kind)
	}

	if key.Inverted {
		m = Invert(m)
	}
	c.bodies[key] = m
	return m, nil
}

// Outline returns the feature edges of a body for an angle threshold in
// degrees, cached by body key and threshold.
func (c *Cache) Outline(kind Kind, w, h, d float64, inverted bool, thresholdDeg float64) (*Outline, error) {
	key := outlineKey{body: NewKey(kind, w, h, d, inverted), threshold: thresholdDeg}
	if o, ok := c.outlines[key]; ok {
		return o, nil
	}
	body, err := c.Body(kind, w, h, d, inverted)
	if err != nil {
		return nil, err
	}
	o := Edges(body, thresholdDeg)
	c.outlines[key] = o
	return o, nil
}

// BodyKind picks the body kind for a piece type.
func BodyKind(pt catalog.PieceType) Kind {
	switch {
	case pt.Variant == catalog.VariantSlope:
		return KindSlope
	case pt.Variant == catalog.VariantCornerSlope:
		return KindCornerSlope
	case pt.RoundTop && pt.Width == pt.Depth:
		return KindCylinder
	case pt.Variant == catalog.VariantTile:
		return KindRoundedBox
	default:
		return KindBox
	}
}

// PieceBody returns the body mesh of a piece type in its local frame.
func (c *Cache) PieceBody(pt catalog.PieceType) (*kernel.Mesh, error) {
	size := pt.Size()
	return c.Body(BodyKind(pt), size.X, size.Y, size.Z, pt.Inverted)
}

// PieceOutline returns the outline of a piece type's body.
func (c *Cache) PieceOutline(pt catalog.PieceType, thresholdDeg float64) (*Outline, error) {
	size := pt.Size()
	return c.Outline(BodyKind(pt), size.X, size.Y, size.Z, pt.Inverted, thresholdDeg)
}

// Studs returns one mesh holding every top stud of a piece type, sitting on
// the body's top face. Pieces without top studs get an empty mesh.
func (c *Cache) Studs(pt catalog.PieceType) (*kernel.Mesh, error) {
	if m, ok := c.studs[pt.ID]; ok {
		return m, nil
	}
	m := &kernel.Mesh{}
	if pt.HasTopStuds() {
		top := connector.ForType(pt).Top
		var all kernel.Solid
		for _, p := range top {
			stud := c.k.Translate(c.k.Cylinder(StudHeight, StudRadius), p.X, pt.Height()/2+StudHeight/2, p.Z)
			if all == nil {
				all = stud
			} else {
				all = c.k.Union(all, stud)
			}
		}
		if all != nil {
			mesh, err := c.k.ToMesh(all)
			if err != nil {
				return nil, fmt.Errorf("shape: studs for %s: %w", pt.ID, err)
			}
			m = mesh
		}
	}
	c.studs[pt.ID] = m
	return m, nil
}
