package mapview

import "math"

// View is the mutable pan/zoom transform from logical map space to device
// pixels: device = logical*scale + offset.
type View struct {
	scale    float64
	offset   Vec2
	minScale float64
	maxScale float64

	matrix    [6]float64
	invMatrix [6]float64
	dirty     bool

	tween *viewTween
}

// newView creates a View at scale 1 (clamped) with no offset.
func newView(minScale, maxScale float64) *View {
	v := &View{minScale: minScale, maxScale: maxScale, dirty: true}
	v.scale = v.clamp(1)
	return v
}

// Scale returns the current scale factor.
func (v *View) Scale() float64 { return v.scale }

// Offset returns the current translation in device pixels.
func (v *View) Offset() Vec2 { return v.offset }

// ScaleBounds returns the minimum and maximum scale.
func (v *View) ScaleBounds() (min, max float64) { return v.minScale, v.maxScale }

// SetTransform sets scale (clamped) and offset directly.
func (v *View) SetTransform(scale float64, offset Vec2) {
	v.scale = v.clamp(scale)
	v.offset = offset
	v.dirty = true
}

func (v *View) clamp(s float64) float64 {
	if math.IsNaN(s) {
		return v.minScale
	}
	return math.Max(v.minScale, math.Min(v.maxScale, s))
}

// computeMatrix recomputes the cached view matrix if dirty.
func (v *View) computeMatrix() [6]float64 {
	if !v.dirty {
		return v.matrix
	}
	v.dirty = false
	v.matrix = scaleTranslate(v.scale, v.scale, v.offset.X, v.offset.Y)
	v.invMatrix = invertAffine(v.matrix)
	return v.matrix
}

// ToCanvas converts a logical position to device pixels.
func (v *View) ToCanvas(logical Vec2) Vec2 {
	v.computeMatrix()
	x, y := transformPoint(v.matrix, logical.X, logical.Y)
	return Vec2{x, y}
}

// ToLogical converts a device-pixel position back to logical space.
func (v *View) ToLogical(device Vec2) Vec2 {
	v.computeMatrix()
	x, y := transformPoint(v.invMatrix, device.X, device.Y)
	return Vec2{x, y}
}

// Pan translates the view by a device-pixel delta.
func (v *View) Pan(dx, dy float64) {
	v.offset.X += dx
	v.offset.Y += dy
	v.dirty = true
}

// ZoomAbout multiplies the scale by (1+factor), clamped, keeping the logical
// point under anchor fixed on screen. Reports whether the scale changed.
func (v *View) ZoomAbout(factor float64, anchor Vec2) bool {
	logical := v.ToLogical(anchor)
	next := v.clamp(v.scale * (1 + factor))
	if next == v.scale {
		return false
	}
	v.scale = next
	v.offset = Vec2{
		X: anchor.X - logical.X*next,
		Y: anchor.Y - logical.Y*next,
	}
	v.dirty = true
	return true
}

// fitSquare returns the transform that centres the whole logical square on a
// w×h canvas, covering the larger axis.
func (v *View) fitSquare(w, h, mapSize float64) (float64, Vec2) {
	scale := v.clamp(math.Max(w, h) / mapSize)
	side := mapSize * scale
	return scale, Vec2{X: (w - side) / 2, Y: (h - side) / 2}
}

// fitBounds returns the transform that fits b plus pad on every side into a
// w×h canvas. The limiting axis is padding-aligned, the other is centred.
func (v *View) fitBounds(b Rect, w, h, pad float64) (float64, Vec2) {
	mid := b.Center()
	if b.Width <= 0 && b.Height <= 0 {
		return v.maxScale, Vec2{
			X: -mid.X*v.maxScale + w/2,
			Y: -mid.Y*v.maxScale + h/2,
		}
	}
	scaleX := (w - pad*2) / b.Width
	scaleY := (h - pad*2) / b.Height
	if scaleX < scaleY {
		scale := v.clamp(math.Min(v.maxScale, scaleX))
		return scale, Vec2{
			X: -b.X*scale + pad,
			Y: -mid.Y*scale + h/2,
		}
	}
	scale := v.clamp(math.Min(v.maxScale, scaleY))
	return scale, Vec2{
		X: -mid.X*scale + w/2,
		Y: -b.Y*scale + pad,
	}
}
