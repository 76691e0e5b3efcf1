package mapview

// PointEvent is the payload of click, hover and move events. A hover event
// whose Point is NoPoint reports that the hover cleared. Position is the
// world-space position of the dragged point and is only set for move events.
type PointEvent struct {
	Point    PointRef
	Position Vec2
}

// ImageErrorEvent reports a failed background or overlay load.
type ImageErrorEvent struct {
	Layer  string
	Source string
	Err    error
}

// --- Handler registry ---

type pointHandler struct {
	id uint32
	fn func(PointEvent)
}

type imageErrorHandler struct {
	id uint32
	fn func(ImageErrorEvent)
}

type handlerRegistry struct {
	click      []pointHandler
	hover      []pointHandler
	move       []pointHandler
	imageError []imageErrorHandler
	nextID     uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointClick:
		h.reg.click = removePointHandler(h.reg.click, h.id)
	case EventPointHover:
		h.reg.hover = removePointHandler(h.reg.hover, h.id)
	case EventPointMove:
		h.reg.move = removePointHandler(h.reg.move, h.id)
	case EventImageError:
		for i := range h.reg.imageError {
			if h.reg.imageError[i].id == h.id {
				h.reg.imageError = append(h.reg.imageError[:i], h.reg.imageError[i+1:]...)
				return
			}
		}
	}
}

func removePointHandler(s []pointHandler, id uint32) []pointHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = pointHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func (r *handlerRegistry) addPoint(event EventType, fn func(PointEvent)) CallbackHandle {
	r.nextID++
	h := pointHandler{id: r.nextID, fn: fn}
	switch event {
	case EventPointClick:
		r.click = append(r.click, h)
	case EventPointHover:
		r.hover = append(r.hover, h)
	case EventPointMove:
		r.move = append(r.move, h)
	}
	return CallbackHandle{id: h.id, reg: r, event: event}
}

// --- Registration ---

// OnPointClick registers a callback fired when a click selects a point.
func (m *Map) OnPointClick(fn func(PointEvent)) CallbackHandle {
	return m.handlers.addPoint(EventPointClick, fn)
}

// OnPointHover registers a callback fired whenever the hovered point changes,
// including when the hover clears.
func (m *Map) OnPointHover(fn func(PointEvent)) CallbackHandle {
	return m.handlers.addPoint(EventPointHover, fn)
}

// OnPointMove registers a callback fired on every pointer move while the
// selected point is dragged.
func (m *Map) OnPointMove(fn func(PointEvent)) CallbackHandle {
	return m.handlers.addPoint(EventPointMove, fn)
}

// OnImageError registers a callback fired when an image fails to load.
func (m *Map) OnImageError(fn func(ImageErrorEvent)) CallbackHandle {
	m.handlers.nextID++
	id := m.handlers.nextID
	m.handlers.imageError = append(m.handlers.imageError, imageErrorHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &m.handlers, event: EventImageError}
}

// --- Dispatch ---

// Handlers are copied before iteration so a callback may remove itself.
func dispatch(hs []pointHandler, ev PointEvent) {
	if len(hs) == 0 {
		return
	}
	for _, h := range append([]pointHandler(nil), hs...) {
		h.fn(ev)
	}
}

func (m *Map) fireClick(ref PointRef) {
	dispatch(m.handlers.click, PointEvent{Point: ref})
}

func (m *Map) fireHover(ref PointRef) {
	dispatch(m.handlers.hover, PointEvent{Point: ref})
}

func (m *Map) fireMove(ref PointRef, world Vec2) {
	dispatch(m.handlers.move, PointEvent{Point: ref, Position: world})
}

func (m *Map) fireImageError(ev ImageErrorEvent) {
	for _, h := range append([]imageErrorHandler(nil), m.handlers.imageError...) {
		h.fn(ev)
	}
}
