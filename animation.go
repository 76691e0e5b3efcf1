package mapview

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// viewTween animates the view scale and offset towards a target transform.
// It is advanced by Map.Tick and cancelled by any user pan or zoom.
type viewTween struct {
	scale  *gween.Tween
	x, y   *gween.Tween
	target struct {
		scale  float64
		offset Vec2
	}
}

// animateTo starts a tween from the current transform to (scale, offset).
// A non-positive duration applies the target immediately.
func (v *View) animateTo(scale float64, offset Vec2, duration float32, fn ease.TweenFunc) {
	scale = v.clamp(scale)
	if duration <= 0 {
		v.tween = nil
		v.SetTransform(scale, offset)
		return
	}
	if fn == nil {
		fn = ease.OutCubic
	}
	t := &viewTween{
		scale: gween.New(float32(v.scale), float32(scale), duration, fn),
		x:     gween.New(float32(v.offset.X), float32(offset.X), duration, fn),
		y:     gween.New(float32(v.offset.Y), float32(offset.Y), duration, fn),
	}
	t.target.scale = scale
	t.target.offset = offset
	v.tween = t
}

// stepTween advances an active tween by dt seconds and reports whether the
// transform changed.
func (v *View) stepTween(dt float32) bool {
	t := v.tween
	if t == nil {
		return false
	}
	s, doneS := t.scale.Update(dt)
	x, doneX := t.x.Update(dt)
	y, doneY := t.y.Update(dt)
	if doneS && doneX && doneY {
		v.tween = nil
		v.SetTransform(t.target.scale, t.target.offset)
		return true
	}
	v.SetTransform(float64(s), Vec2{X: float64(x), Y: float64(y)})
	return true
}

// stopTween cancels an active tween, leaving the transform where it is.
func (v *View) stopTween() {
	v.tween = nil
}

// animating reports whether a tween is in progress.
func (v *View) animating() bool {
	return v.tween != nil
}
