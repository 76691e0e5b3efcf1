package remote

import (
	"encoding/json"

	"github.com/phanxgames/mapview"
)

// Message is the envelope of every websocket frame in both directions.
type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Inbound message types. Each mirrors one Map method.
const (
	TypeResize         = "resize"
	TypePointerDown    = "pointer.down"
	TypePointerMove    = "pointer.move"
	TypePointerUp      = "pointer.up"
	TypePointerLeave   = "pointer.leave"
	TypeWheel          = "wheel"
	TypeZoomIn         = "zoom.in"
	TypeZoomOut        = "zoom.out"
	TypeZoomFit        = "zoom.fit"
	TypeSetPoints      = "points.set"
	TypeSelect         = "selection.set"
	TypeClearSelection = "selection.clear"
	TypeSetYaw         = "selection.yaw"
	TypeSetScaleY      = "selection.scaleY"
	TypeSetPosition    = "selection.position"
	TypeToggleExtents  = "extents.toggle"
	TypeSetAttribute   = "attribute.set"
)

// Outbound message types.
const (
	TypeWelcome    = "welcome"
	TypeFrame      = "frame"
	TypeClick      = "point.click"
	TypeHover      = "point.hover"
	TypeMove       = "point.move"
	TypeCursor     = "cursor"
	TypeImageError = "image.error"
	TypeError      = "error"
)

// PointerPayload carries display coordinates for pointer and wheel input.
type PointerPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"deltaY,omitempty"`
}

// ResizePayload carries the canvas display size and pixel ratio.
type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Ratio  float64 `json:"ratio"`
}

// PointsPayload replaces the scene.
type PointsPayload struct {
	Groups map[string]mapview.GroupInput `json:"groups"`
	Reset  bool                          `json:"reset,omitempty"`
}

// PointPayload identifies a point. Index is nil when no point is set.
type PointPayload struct {
	ID       string        `json:"id,omitempty"`
	Index    *int          `json:"index,omitempty"`
	Position *mapview.Vec2 `json:"position,omitempty"`
}

// ValuePayload carries a single number such as a yaw or scaleY.
type ValuePayload struct {
	Value float64 `json:"value"`
}

// AttributePayload sets a named attribute.
type AttributePayload struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FramePayload announces a new frame at /sessions/{id}/frame.png.
type FramePayload struct {
	Frame  uint64 `json:"frame"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

// CursorPayload reports the cursor affordance.
type CursorPayload struct {
	Cursor string `json:"cursor"`
}

// ErrorPayload reports a rejected command or a failed image load.
type ErrorPayload struct {
	Message string `json:"message"`
	Layer   string `json:"layer,omitempty"`
	Source  string `json:"source,omitempty"`
}

// pointPayload converts a PointEvent into its wire form.
func pointPayload(ev mapview.PointEvent, withPosition bool) PointPayload {
	var p PointPayload
	if ev.Point.IsSet() {
		idx := ev.Point.Index
		p.ID = ev.Point.Group
		p.Index = &idx
	}
	if withPosition {
		pos := ev.Position
		p.Position = &pos
	}
	return p
}

func newMessage(typ, sessionID string, payload any) (*Message, error) {
	msg := &Message{Type: typ, SessionID: sessionID}
	if payload == nil {
		return msg, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg.Payload = data
	return msg, nil
}
