// Package connector derives the stud and socket positions of piece types
// and projects them into world space for placed pieces.
package connector

import (
	"github.com/chazu/brickwork/pkg/catalog"
)

// Plane says whether a connection point sits on the bottom or the top face.
type Plane int

const (
	Bottom Plane = iota
	Top
)

func (p Plane) String() string {
	if p == Top {
		return "top"
	}
	return "bottom"
}

// Point is a connection point in the piece's local XZ plane, offset from the
// piece center.
type Point struct {
	Plane Plane   `json:"plane"`
	X     float64 `json:"x"`
	Z     float64 `json:"z"`
}

// Points holds the ordered bottom and top connection points of a piece type.
type Points struct {
	Bottom []Point `json:"bottom"`
	Top    []Point `json:"top"`
}

// Len returns the total number of points.
func (p Points) Len() int {
	return len(p.Bottom) + len(p.Top)
}

// Resolver computes connection points per piece type and caches them by
// type id. A Resolver is not safe for concurrent use.
type Resolver struct {
	cat   *catalog.Catalog
	cache map[string]Points
}

// NewResolver creates a Resolver over cat.
func NewResolver(cat *catalog.Catalog) *Resolver {
	return &Resolver{cat: cat, cache: make(map[string]Points)}
}

// Catalog returns the catalog the resolver reads from.
func (r *Resolver) Catalog() *catalog.Catalog {
	return r.cat
}

// Resolve returns the connection points for a type id. Unknown ids yield
// empty point lists.
func (r *Resolver) Resolve(typeID string) Points {
	if p, ok := r.cache[typeID]; ok {
		return p
	}
	pt, ok := r.cat.Get(typeID)
	if !ok {
		return Points{}
	}
	p := ForType(pt)
	r.cache[typeID] = p
	return p
}

// Cached reports how many piece types currently have cached points.
func (r *Resolver) Cached() int {
	return len(r.cache)
}

// Clear drops every cached entry.
func (r *Resolver) Clear() {
	r.cache = make(map[string]Points)
}

// ForType computes the connection points of pt without caching.
func ForType(pt catalog.PieceType) Points {
	return Points{Bottom: bottomPoints(pt), Top: topPoints(pt)}
}

func bottomPoints(pt catalog.PieceType) []Point {
	switch {
	case pt.Variant == catalog.VariantCornerSlope && pt.Inverted:
		return []Point{cornerCell(pt, Bottom)}
	case pt.Variant == catalog.VariantSlope && pt.Inverted:
		return backRow(pt, Bottom)
	default:
		return grid(pt, Bottom)
	}
}

func topPoints(pt catalog.PieceType) []Point {
	switch pt.Variant {
	case catalog.VariantTile:
		return []Point{}
	case catalog.VariantSlope:
		if pt.Inverted {
			return grid(pt, Top)
		}
		return backRow(pt, Top)
	case catalog.VariantCornerSlope:
		if pt.Inverted {
			return grid(pt, Top)
		}
		return []Point{cornerCell(pt, Top)}
	default:
		return grid(pt, Top)
	}
}

// offset returns the centered coordinate of cell i in an n-cell row.
func offset(i, n int) float64 {
	return (float64(i) - float64(n-1)/2) * catalog.StudSpacing
}

// grid emits every footprint cell, X-major within each Z row.
func grid(pt catalog.PieceType, plane Plane) []Point {
	pts := make([]Point, 0, pt.Cells())
	for j := 0; j < pt.Depth; j++ {
		for i := 0; i < pt.Width; i++ {
			pts = append(pts, Point{Plane: plane, X: offset(i, pt.Width), Z: offset(j, pt.Depth)})
		}
	}
	return pts
}

// backRow emits one point per X column along the high (-Z) edge of a slope.
func backRow(pt catalog.PieceType, plane Plane) []Point {
	pts := make([]Point, 0, pt.Width)
	for i := 0; i < pt.Width; i++ {
		pts = append(pts, Point{Plane: plane, X: offset(i, pt.Width), Z: offset(0, pt.Depth)})
	}
	return pts
}

// cornerCell is the single solid (-X, -Z) cell of a corner slope.
func cornerCell(pt catalog.PieceType, plane Plane) Point {
	return Point{Plane: plane, X: offset(0, pt.Width), Z: offset(0, pt.Depth)}
}

// Cycle is the bottom points followed by the top points of one piece type,
// indexed with wraparound.
type Cycle []Point

// Cycle returns the connection point cycle for a type id.
func (r *Resolver) Cycle(typeID string) Cycle {
	p := r.Resolve(typeID)
	c := make(Cycle, 0, p.Len())
	c = append(c, p.Bottom...)
	return append(c, p.Top...)
}

// At returns the point at index i modulo the cycle length. Negative indices
// count back from the end. An empty cycle returns false.
func (c Cycle) At(i int) (Point, bool) {
	n := len(c)
	if n == 0 {
		return Point{}, false
	}
	return c[((i%n)+n)%n], true
}
