package connector

import (
	"math"

	"github.com/chazu/brickwork/pkg/catalog"
	"github.com/chazu/brickwork/pkg/geom"
	"github.com/chazu/brickwork/pkg/piece"
)

// AlignThreshold is the minimum dot product between a connector direction
// and a reference axis for the two to count as aligned.
const AlignThreshold = 0.85

// Kind distinguishes top studs from side studs.
type Kind int

const (
	TopStud Kind = iota
	SideStud
)

// Stud is a world-space connector of a placed piece.
type Stud struct {
	Position  geom.Vec3 `json:"position"`
	Direction geom.Vec3 `json:"direction"`
	Kind      Kind      `json:"kind"`
}

// Projector transforms connection points and studs of placed pieces into
// world space.
type Projector struct {
	res *Resolver
}

// NewProjector creates a projector backed by res.
func NewProjector(res *Resolver) *Projector {
	return &Projector{res: res}
}

// Resolver returns the underlying resolver.
func (p *Projector) Resolver() *Resolver {
	return p.res
}

// Studs returns the world-space top studs followed by any side studs of a
// placed piece. Unknown piece types have no studs.
func (p *Projector) Studs(pc piece.Placed) []Stud {
	pt, ok := p.res.Catalog().Get(pc.TypeID)
	if !ok {
		return nil
	}
	rot := pc.Transform()
	half := pt.Height() / 2
	out := make([]Stud, 0)

	if pt.HasTopStuds() {
		up := rot.Apply(geom.UnitY)
		for _, cp := range p.res.Resolve(pc.TypeID).Top {
			local := geom.Vec3{X: cp.X, Y: half, Z: cp.Z}
			out = append(out, Stud{
				Position:  rot.Apply(local).Add(pc.Position),
				Direction: up,
				Kind:      TopStud,
			})
		}
	}

	if pt.Sides != 0 {
		size := pt.Size()
		for _, side := range catalog.Sides {
			if !pt.Sides.Has(side) {
				continue
			}
			axis := side.Axis()
			local := geom.Vec3{X: axis.X * size.X / 2, Z: axis.Z * size.Z / 2}
			out = append(out, Stud{
				Position:  rot.Apply(local).Add(pc.Position),
				Direction: rot.Apply(axis),
				Kind:      SideStud,
			})
		}
	}
	return out
}

// Sockets returns the world-space bottom connection points of a placed piece.
func (p *Projector) Sockets(pc piece.Placed) []geom.Vec3 {
	pt, ok := p.res.Catalog().Get(pc.TypeID)
	if !ok {
		return nil
	}
	rot := pc.Transform()
	half := pt.Height() / 2
	bottom := p.res.Resolve(pc.TypeID).Bottom
	out := make([]geom.Vec3, 0, len(bottom))
	for _, cp := range bottom {
		local := geom.Vec3{X: cp.X, Y: -half, Z: cp.Z}
		out = append(out, rot.Apply(local).Add(pc.Position))
	}
	return out
}

// Nearest returns the stud of pc closest to hit among those whose direction
// agrees with normal by at least threshold. A non-positive threshold uses
// AlignThreshold.
func (p *Projector) Nearest(pc piece.Placed, hit, normal geom.Vec3, threshold float64) (Stud, bool) {
	if threshold <= 0 {
		threshold = AlignThreshold
	}
	n := normal.Normalize()
	best, bestDist, found := Stud{}, math.Inf(1), false
	for _, s := range p.Studs(pc) {
		if s.Direction.Dot(n) < threshold {
			continue
		}
		if d := s.Position.DistanceTo(hit); d < bestDist {
			best, bestDist, found = s, d, true
		}
	}
	return best, found
}

// Bounds returns the world-space axis-aligned box of a placed piece.
func (p *Projector) Bounds(pc piece.Placed) (geom.AABB, bool) {
	pt, ok := p.res.Catalog().Get(pc.TypeID)
	if !ok {
		return geom.AABB{}, false
	}
	half := pc.Transform().Abs().Apply(pt.Size().Scale(0.5))
	return geom.BoxAround(pc.Position, half), true
}
