package geom

// AABB is an axis-aligned bounding box in world coordinates.
type AABB struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// BoxAround returns the box centered at c with half extents h.
func BoxAround(c, h Vec3) AABB {
	return AABB{Min: c.Sub(h), Max: c.Add(h)}
}

// Size returns the extent of the box along each axis.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Overlaps reports whether the interiors of b and o intersect by more than
// eps along every axis. Boxes that only touch at a face do not overlap.
func (b AABB) Overlaps(o AABB, eps float64) bool {
	return b.Min.X < o.Max.X-eps && o.Min.X < b.Max.X-eps &&
		b.Min.Y < o.Max.Y-eps && o.Min.Y < b.Max.Y-eps &&
		b.Min.Z < o.Max.Z-eps && o.Min.Z < b.Max.Z-eps
}
