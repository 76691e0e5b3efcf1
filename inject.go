package mapview

// syntheticKind is the kind of an injected input event.
type syntheticKind uint8

const (
	synthPress syntheticKind = iota
	synthMove
	synthRelease
	synthWheel
)

// syntheticPointerEvent is a single injected input event in display
// coordinates, fed through the same state machine as real input.
type syntheticPointerEvent struct {
	kind   syntheticKind
	x, y   float64
	deltaY float64
}

// InjectPress queues a pointer press at display position (x, y). Queued
// events are consumed one per Tick.
func (m *Map) InjectPress(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticPointerEvent{kind: synthPress, x: x, y: y})
}

// InjectMove queues a pointer move. Between InjectPress and InjectRelease
// it pans or drags; otherwise it hovers.
func (m *Map) InjectMove(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticPointerEvent{kind: synthMove, x: x, y: y})
}

// InjectRelease queues a pointer release.
func (m *Map) InjectRelease(x, y float64) {
	m.injectQueue = append(m.injectQueue, syntheticPointerEvent{kind: synthRelease, x: x, y: y})
}

// InjectWheel queues a wheel tick at (x, y).
func (m *Map) InjectWheel(x, y, deltaY float64) {
	m.injectQueue = append(m.injectQueue, syntheticPointerEvent{kind: synthWheel, x: x, y: y, deltaY: deltaY})
}

// InjectClick queues a hover move, a press and a release at the same
// position. Consumes three ticks.
func (m *Map) InjectClick(x, y float64) {
	m.InjectMove(x, y)
	m.InjectPress(x, y)
	m.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// frames-2 linearly interpolated moves, a final move to (toX, toY) and a
// release there. Minimum frames is 2; the sequence consumes frames+1 ticks.
func (m *Map) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	m.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		m.InjectMove(x, y)
	}
	m.InjectMove(toX, toY)
	m.InjectRelease(toX, toY)
}

// PendingInput returns the number of queued synthetic events.
func (m *Map) PendingInput() int { return len(m.injectQueue) }

// processInjectedInput pops one event from the inject queue and feeds it
// through the pointer state machine. Returns true if an event was consumed.
func (m *Map) processInjectedInput() bool {
	if len(m.injectQueue) == 0 {
		return false
	}
	evt := m.injectQueue[0]
	copy(m.injectQueue, m.injectQueue[1:])
	m.injectQueue = m.injectQueue[:len(m.injectQueue)-1]

	switch evt.kind {
	case synthPress:
		m.PointerDown(evt.x, evt.y)
	case synthMove:
		m.PointerMove(evt.x, evt.y)
	case synthRelease:
		m.PointerUp(evt.x, evt.y)
	case synthWheel:
		m.Wheel(evt.x, evt.y, evt.deltaY)
	}
	return true
}
