package mapview

import "math"

// SquaredDistance returns dx*dx + dy*dy. Hit tests compare squared
// distances against a squared radius.
func SquaredDistance(dx, dy float64) float64 {
	return dx*dx + dy*dy
}

// RotateSegment rotates both endpoints of the segment p1-p2 about its
// midpoint by yaw radians. Positive yaw is counter-clockwise in math
// convention, which is visually clockwise on a canvas with +y down.
func RotateSegment(p1, p2 Vec2, yaw float64) (Vec2, Vec2) {
	cx := (p1.X + p2.X) / 2
	cy := (p1.Y + p2.Y) / 2
	sin, cos := math.Sincos(yaw)

	rot := func(p Vec2) Vec2 {
		dx := p.X - cx
		dy := p.Y - cy
		return Vec2{
			X: cos*dx - sin*dy + cx,
			Y: sin*dx + cos*dy + cy,
		}
	}
	return rot(p1), rot(p2)
}

// Bounds returns the axis-aligned bounding rectangle of pts and false when
// pts is empty.
func Bounds(pts []Vec2) (Rect, bool) {
	if len(pts) == 0 {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// yawFromQuaternion extracts the rotation about the vertical axis from a
// unit quaternion.
func yawFromQuaternion(q Quaternion) float64 {
	return 2 * math.Atan2(q.Z, q.W)
}
