package mapview

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite and ColorBlack are used by the built-in palette.
var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
)

// NRGBA converts c to a straight-alpha color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: unit8(c.R),
		G: unit8(c.G),
		B: unit8(c.B),
		A: unit8(c.A),
	}
}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

func unit8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Vec2 is a 2D vector used for world, logical and device positions.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v*s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// IsFinite reports whether both components are finite numbers.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// PointRef identifies one point by group id and index within the group.
// The zero value is not a valid "no point" marker; use NoPoint.
type PointRef struct {
	Group string
	Index int
}

// NoPoint is the PointRef used when nothing is selected or hovered.
var NoPoint = PointRef{Index: -1}

// IsSet reports whether r refers to a point. Index 0 is a valid point.
func (r PointRef) IsSet() bool {
	return r.Index >= 0
}

// EventType identifies a kind of map event.
type EventType uint8

const (
	EventPointClick EventType = iota // fires when a click selects a new point
	EventPointHover                  // fires when the hovered point changes (including to none)
	EventPointMove                   // fires on every pointer move while dragging the selected point
	EventImageError                  // fires when a background or overlay image fails to load
)

// Gesture is the state of the pointer interaction state machine.
type Gesture uint8

const (
	GestureIdle          Gesture = iota // no button held
	GesturePanning                      // button held, moving the view
	GestureDraggingPoint                // button held on the selected draggable point
)

// String returns the gesture name.
func (g Gesture) String() string {
	switch g {
	case GestureIdle:
		return "idle"
	case GesturePanning:
		return "panning"
	case GestureDraggingPoint:
		return "draggingPoint"
	default:
		return "unknown"
	}
}

// Cursor is the pointer affordance the host should display over the canvas.
type Cursor uint8

const (
	CursorGrab     Cursor = iota // over empty map; press to pan
	CursorGrabbing               // panning in progress
	CursorPointer                // over a hoverable point
	CursorMove                   // over the selected draggable point, or dragging it
)

// String returns the CSS cursor keyword for c.
func (c Cursor) String() string {
	switch c {
	case CursorGrabbing:
		return "grabbing"
	case CursorPointer:
		return "pointer"
	case CursorMove:
		return "move"
	default:
		return "grab"
	}
}
