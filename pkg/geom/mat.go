package geom

import "math"

// Mat3 is a row-major 3x3 matrix used for rotations.
//
// Rotations built from axis-aligned vectors and quarter turns only ever
// contain the entries -1, 0 and 1, so applying them to a coordinate is
// exact: no drift accumulates before positions are quantized.
type Mat3 [3][3]float64

// Identity returns the identity matrix.
func Identity() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Mul returns m * o.
func (m Mat3) Mul(o Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j]
		}
	}
	return r
}

// Apply returns m * v.
func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns the transpose of m (the inverse for a rotation).
func (m Mat3) Transpose() Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// Abs returns m with every entry replaced by its absolute value. Applied
// to a box's half extents it yields the extents of the rotated box.
func (m Mat3) Abs() Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = math.Abs(m[i][j])
		}
	}
	return r
}

// skew returns the cross-product matrix K of a, so that K*v = a x v.
func skew(a Vec3) Mat3 {
	return Mat3{
		{0, -a.Z, a.Y},
		{a.Z, 0, -a.X},
		{-a.Y, a.X, 0},
	}
}

// rodrigues builds I + s*K + (1-c)*K^2 for the unit axis a.
func rodrigues(a Vec3, c, s float64) Mat3 {
	k := skew(a)
	k2 := k.Mul(k)
	r := Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] += s*k[i][j] + (1-c)*k2[i][j]
		}
	}
	return r
}

// quarterCos and quarterSin hold cos/sin of n*90 degrees exactly.
var (
	quarterCos = [4]float64{1, 0, -1, 0}
	quarterSin = [4]float64{0, 1, 0, -1}
)

// QuarterTurns returns the rotation by n*90 degrees about the unit axis.
// n is normalized into [0,4) first, so negative turns are accepted.
func QuarterTurns(axis Vec3, n int) Mat3 {
	n = ((n % 4) + 4) % 4
	if n == 0 {
		return Identity()
	}
	return rodrigues(axis, quarterCos[n], quarterSin[n])
}

// RotationBetween returns the minimal rotation taking unit vector from onto
// unit vector to. Opposite vectors rotate half a turn about a perpendicular
// axis chosen from from's components.
func RotationBetween(from, to Vec3) Mat3 {
	c := from.Dot(to)
	cross := from.Cross(to)
	s := cross.Length()
	if s < 1e-12 {
		if c > 0 {
			return Identity()
		}
		var axis Vec3
		if math.Abs(from.X) > math.Abs(from.Z) {
			axis = Vec3{-from.Y, from.X, 0}
		} else {
			axis = Vec3{0, -from.Z, from.Y}
		}
		return rodrigues(axis.Normalize(), -1, 0)
	}
	return rodrigues(cross.Scale(1/s), c, s)
}
