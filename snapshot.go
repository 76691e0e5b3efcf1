package mapview

// snapshot captures every input of a frame. A frame is drawn only when the
// current snapshot differs from the one taken after the previous draw.
type snapshot struct {
	background   uint64
	overlay      uint64
	offset       Vec2
	scale        float64
	width        int
	height       int
	ratio        float64
	generation   uint64
	selected     PointRef
	hovered      PointRef
	showExtents  bool
	working      WorkingPoint
	hasSelection bool
}

// takeSnapshot collects the current frame inputs of m.
func (m *Map) takeSnapshot() snapshot {
	w, ok := m.scene.Working()
	return snapshot{
		background:   m.background.generation,
		overlay:      m.overlay.generation,
		offset:       m.view.Offset(),
		scale:        m.view.Scale(),
		width:        m.width,
		height:       m.height,
		ratio:        m.ratio,
		generation:   m.scene.Generation(),
		selected:     m.scene.Selected(),
		hovered:      m.scene.Hovered(),
		showExtents:  m.showExtents,
		working:      w,
		hasSelection: ok,
	}
}

// stateChanged reports whether anything drawn changed since the last frame.
// The first call after New always reports true.
func (m *Map) stateChanged() bool {
	cur := m.takeSnapshot()
	if m.drawn && cur == m.prev {
		return false
	}
	m.pending = cur
	return true
}

// commitSnapshot records the pending snapshot once a frame has been drawn.
func (m *Map) commitSnapshot() {
	m.prev = m.pending
	m.drawn = true
}

// Invalidate forces the next Tick to redraw.
func (m *Map) Invalidate() {
	m.drawn = false
}
