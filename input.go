package mapview

import "math"

// --- Per-pointer state ---

type pointerState struct {
	down  bool
	moved bool // any motion while down; suppresses the click on release
	last  Vec2 // device pixels
}

// toDevice converts display coordinates to device pixels.
func (m *Map) toDevice(x, y float64) Vec2 {
	return Vec2{X: x * m.ratio, Y: y * m.ratio}
}

func (m *Map) hitRadiusSq() float64 {
	r := (m.cfg.PointRadius + m.cfg.HitMargin) * m.ratio
	return r * r
}

// --- Hit testing ---

// hitTest returns the nearest hoverable point within the hit radius of the
// device position p. The selected point is never a hover candidate. Groups
// are scanned in id order and the first point wins exact ties.
func (m *Map) hitTest(p Vec2) PointRef {
	r2 := m.hitRadiusSq()
	selected := m.scene.Selected()
	best := NoPoint
	bestDist := math.Inf(1)
	for _, g := range m.scene.Groups() {
		if !g.Hoverable {
			continue
		}
		for i := range g.Points {
			ref := PointRef{Group: g.ID, Index: i}
			if ref == selected {
				continue
			}
			c := m.view.ToCanvas(g.Points[i].Logical)
			d := SquaredDistance(c.X-p.X, c.Y-p.Y)
			if d <= r2 && d < bestDist {
				best = ref
				bestDist = d
			}
		}
	}
	return best
}

// overSelectedHandle reports whether p is within the hit radius of the
// selected point's live copy in a draggable group.
func (m *Map) overSelectedHandle(p Vec2) bool {
	g := m.scene.selectedGroup()
	if g == nil || !g.Draggable {
		return false
	}
	w, _ := m.scene.Working()
	c := m.view.ToCanvas(w.Position)
	return SquaredDistance(c.X-p.X, c.Y-p.Y) <= m.hitRadiusSq()
}

// updateHover hit-tests p, fires a hover event when the hover changed and
// refreshes the cursor.
func (m *Map) updateHover(p Vec2) {
	ref := m.hitTest(p)
	if m.scene.setHovered(ref) {
		m.fireHover(m.scene.Hovered())
	}
	switch {
	case m.overSelectedHandle(p):
		m.cursor = CursorMove
	case ref.IsSet():
		m.cursor = CursorPointer
	default:
		m.cursor = CursorGrab
	}
}

// --- Pointer state machine ---

// PointerDown starts a gesture at display position (x, y). Pressing on the
// selected point of a draggable group starts a point drag, anything else
// starts a pan.
func (m *Map) PointerDown(x, y float64) {
	if m.closed {
		return
	}
	p := m.toDevice(x, y)
	m.view.stopTween()
	m.pointer = pointerState{down: true, last: p}
	if m.overSelectedHandle(p) {
		m.gesture = GestureDraggingPoint
		m.cursor = CursorMove
		return
	}
	m.gesture = GesturePanning
	m.cursor = CursorGrabbing
}

// PointerMove handles a pointer move to display position (x, y).
func (m *Map) PointerMove(x, y float64) {
	if m.closed {
		return
	}
	p := m.toDevice(x, y)
	if !m.pointer.down {
		m.pointer.last = p
		m.updateHover(p)
		return
	}
	if p == m.pointer.last {
		return
	}
	dx, dy := p.X-m.pointer.last.X, p.Y-m.pointer.last.Y
	m.pointer.last = p
	m.pointer.moved = true

	switch m.gesture {
	case GestureDraggingPoint:
		logical := m.view.ToLogical(p)
		m.scene.setWorkingLogical(logical)
		m.cursor = CursorMove
		m.fireMove(m.scene.Selected(), m.proj.ToWorld(logical))
	default:
		m.view.Pan(dx, dy)
		m.centered = false
		m.cursor = CursorGrabbing
	}
}

// PointerUp ends the gesture at display position (x, y). A press and release
// with no motion in between is a click: the hover is refreshed at (x, y) and
// a hovered point of a selectable group other than the selection becomes
// selected, firing a click event.
func (m *Map) PointerUp(x, y float64) {
	if m.closed || !m.pointer.down {
		return
	}
	p := m.toDevice(x, y)
	moved := m.pointer.moved
	m.pointer = pointerState{last: p}
	m.gesture = GestureIdle

	m.updateHover(p)
	if moved {
		return
	}
	hovered := m.scene.Hovered()
	if !hovered.IsSet() || hovered == m.scene.Selected() {
		return
	}
	g, ok := m.scene.Group(hovered.Group)
	if !ok || !g.Selectable {
		return
	}
	m.scene.Select(hovered)
	if g.Draggable {
		m.cursor = CursorMove
	}
	m.fireClick(hovered)
}

// PointerLeave ends any gesture without a click, as when the pointer leaves
// the canvas.
func (m *Map) PointerLeave() {
	m.pointer.down = false
	m.pointer.moved = false
	m.gesture = GestureIdle
	m.cursor = CursorGrab
}

// --- Zoom ---

// Wheel zooms by ZoomStep per tick about display position (x, y); scrolling
// up (negative deltaY) zooms in. It always returns true: the host must not
// scroll its page.
func (m *Map) Wheel(x, y, deltaY float64) bool {
	if m.closed || deltaY == 0 || math.IsNaN(deltaY) {
		return true
	}
	m.view.stopTween()
	factor := -math.Copysign(m.cfg.ZoomStep, deltaY)
	if m.view.ZoomAbout(factor, m.toDevice(x, y)) {
		m.centered = false
	}
	return true
}

// ZoomIn zooms in by ButtonZoomStep about the canvas centre.
func (m *Map) ZoomIn() { m.zoomCenter(m.cfg.ButtonZoomStep) }

// ZoomOut zooms out by ButtonZoomStep about the canvas centre.
func (m *Map) ZoomOut() { m.zoomCenter(-m.cfg.ButtonZoomStep) }

func (m *Map) zoomCenter(factor float64) {
	if m.closed {
		return
	}
	m.view.stopTween()
	c := Vec2{X: float64(m.width) / 2, Y: float64(m.height) / 2}
	if m.view.ZoomAbout(factor, c) {
		m.centered = false
	}
}

// Gesture returns the current gesture state.
func (m *Map) Gesture() Gesture { return m.gesture }

// Cursor returns the pointer affordance for the last pointer position.
func (m *Map) Cursor() Cursor { return m.cursor }

// Centered reports whether the view is still docked to the last ZoomFit.
// Pan, zoom and resize undock it.
func (m *Map) Centered() bool { return m.centered }
