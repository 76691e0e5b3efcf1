package mapview

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// scaleTranslate builds the affine matrix Translate(tx, ty) * Scale(sx, sy).
func scaleTranslate(sx, sy, tx, ty float64) [6]float64 {
	return [6]float64{sx, 0, 0, sy, tx, ty}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Projection is the fixed affine mapping between world positions and the
// logical map square.
type Projection struct {
	// Origin is the world position mapped to logical (0, 0).
	Origin Vec2
	// RealSize is the world-space side length of the mapped square.
	RealSize float64
	// MapSize is the logical side length.
	MapSize float64
}

// ToLogical maps a world position into logical map space.
func (p Projection) ToLogical(world Vec2) Vec2 {
	return Vec2{
		X: (world.X - p.Origin.X) / p.RealSize * p.MapSize,
		Y: (world.Y - p.Origin.Y) / p.RealSize * p.MapSize,
	}
}

// ToWorld is the inverse of ToLogical.
func (p Projection) ToWorld(logical Vec2) Vec2 {
	return Vec2{
		X: logical.X/p.MapSize*p.RealSize + p.Origin.X,
		Y: logical.Y/p.MapSize*p.RealSize + p.Origin.Y,
	}
}

// WorldLength converts a world-space distance into logical units.
func (p Projection) WorldLength(d float64) float64 {
	return d / p.RealSize * p.MapSize
}
