package mapview

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
)

// Quaternion is a rotation as delivered by the game server. Only the yaw
// component is used.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// PointInput describes one point as supplied by the host.
type PointInput struct {
	Position Vec2 `json:"position"`
	// Yaw in radians. When nil, Rotation is used if set, otherwise 0.
	Yaw *float64 `json:"yaw,omitempty"`
	// ScaleY is the lateral extent in GateUnit multiples. Nil means 1.
	ScaleY   *float64    `json:"scaleY,omitempty"`
	Rotation *Quaternion `json:"rotation,omitempty"`
	Color    ColorInput  `json:"color"`
	Label    string      `json:"label,omitempty"`
}

// GroupInput describes one named group of points. Flags default to false.
type GroupInput struct {
	Points        []PointInput    `json:"points"`
	Color         GroupColorInput `json:"color"`
	Draggable     bool            `json:"draggable,omitempty"`
	Hidden        bool            `json:"hidden,omitempty"`
	Hoverable     bool            `json:"hoverable,omitempty"`
	Selectable    bool            `json:"selectable,omitempty"`
	TrackMode     bool            `json:"trackMode,omitempty"`
	ForceShowGate bool            `json:"forceShowGate,omitempty"`
}

// DecodeGroups reads a JSON object of group id → GroupInput.
func DecodeGroups(r io.Reader) (map[string]GroupInput, error) {
	var groups map[string]GroupInput
	if err := json.NewDecoder(r).Decode(&groups); err != nil {
		return nil, fmt.Errorf("decode groups: %w", err)
	}
	return groups, nil
}

// Point is a resolved, immutable point of a group.
type Point struct {
	World   Vec2
	Logical Vec2
	Yaw     float64
	ScaleY  float64
	Label   string
	Colors  ColorSet
}

// Group is a resolved group. Its points are never modified after SetPoints.
type Group struct {
	ID            string
	Points        []Point
	Line          Color
	TrackMode     bool
	ForceShowGate bool
	Draggable     bool
	Hoverable     bool
	Selectable    bool
}

// WorkingPoint is the detached, editable copy of the selected point.
// Position is in logical space.
type WorkingPoint struct {
	Position Vec2
	Yaw      float64
	ScaleY   float64
	Label    string
}

// Scene owns the point groups, selection, hover and the working copy.
type Scene struct {
	proj     Projection
	palette  Palette
	resolver colorResolver

	groups     []*Group
	byID       map[string]*Group
	generation uint64

	hasTrack    bool
	singleTrack *Group

	selected PointRef
	hovered  PointRef
	working  WorkingPoint
}

func newScene(proj Projection, palette Palette, warn func(string, ...any)) *Scene {
	return &Scene{
		proj:     proj,
		palette:  palette,
		resolver: colorResolver{warn: warn},
		byID:     map[string]*Group{},
		selected: NoPoint,
		hovered:  NoPoint,
	}
}

// SetPoints replaces all groups. Hidden groups are dropped. When reset is
// true, or a stored selection or hover no longer resolves, it is cleared.
// A surviving selection gets a fresh working copy.
func (s *Scene) SetPoints(in map[string]GroupInput, reset bool) {
	ids := make([]string, 0, len(in))
	for id, g := range in {
		if !g.Hidden {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	groups := make([]*Group, 0, len(ids))
	byID := make(map[string]*Group, len(ids))
	tracks := 0
	var lastTrack *Group
	for _, id := range ids {
		g := s.resolveGroup(id, in[id])
		groups = append(groups, g)
		byID[id] = g
		if g.TrackMode {
			tracks++
			lastTrack = g
		}
	}

	s.groups = groups
	s.byID = byID
	s.generation++
	s.hasTrack = tracks > 0
	s.singleTrack = nil
	if tracks == 1 {
		s.singleTrack = lastTrack
	}

	if reset {
		s.selected = NoPoint
		s.hovered = NoPoint
	}
	if _, ok := s.Point(s.hovered); !ok {
		s.hovered = NoPoint
	}
	s.rebuildWorking()
}

func (s *Scene) resolveGroup(id string, in GroupInput) *Group {
	g := &Group{
		ID:            id,
		Points:        make([]Point, len(in.Points)),
		Line:          s.resolver.pick(s.palette.Line, in.Color.Line),
		TrackMode:     in.TrackMode,
		ForceShowGate: in.TrackMode && in.ForceShowGate,
		Draggable:     in.Draggable,
		Hoverable:     in.Hoverable,
		Selectable:    in.Selectable,
	}
	for i, p := range in.Points {
		pt := Point{
			World:   p.Position,
			Logical: s.proj.ToLogical(p.Position),
			ScaleY:  1,
			Label:   p.Label,
			Colors:  s.resolver.resolve(p.Color, in.Color, s.palette.ColorSet),
		}
		switch {
		case p.Yaw != nil:
			pt.Yaw = *p.Yaw
		case p.Rotation != nil:
			pt.Yaw = yawFromQuaternion(*p.Rotation)
		}
		if p.ScaleY != nil {
			pt.ScaleY = *p.ScaleY
		}
		g.Points[i] = pt
	}
	return g
}

// Groups returns the visible groups in ascending id order.
func (s *Scene) Groups() []*Group { return s.groups }

// Group returns the visible group with the given id.
func (s *Scene) Group(id string) (*Group, bool) {
	g, ok := s.byID[id]
	return g, ok
}

// Point resolves ref to its group and point.
func (s *Scene) Point(ref PointRef) (*Point, bool) {
	if !ref.IsSet() {
		return nil, false
	}
	g, ok := s.byID[ref.Group]
	if !ok || ref.Index >= len(g.Points) {
		return nil, false
	}
	return &g.Points[ref.Index], true
}

// Generation is incremented by every SetPoints call.
func (s *Scene) Generation() uint64 { return s.generation }

// HasTrack reports whether any visible group is in track mode.
func (s *Scene) HasTrack() bool { return s.hasTrack }

// HasSingleTrack reports whether exactly one visible group is in track mode.
func (s *Scene) HasSingleTrack() bool { return s.singleTrack != nil }

// Selected returns the selected point or NoPoint.
func (s *Scene) Selected() PointRef { return s.selected }

// Hovered returns the hovered point or NoPoint.
func (s *Scene) Hovered() PointRef { return s.hovered }

// Working returns the selected point's working copy. ok is false when
// nothing is selected.
func (s *Scene) Working() (WorkingPoint, bool) {
	return s.working, s.selected.IsSet()
}

// Select makes ref the selection and rebuilds the working copy. A ref that
// does not resolve clears the selection and reports false.
func (s *Scene) Select(ref PointRef) bool {
	s.selected = ref
	s.rebuildWorking()
	return s.selected.IsSet()
}

// ClearSelection drops the selection and its working copy.
func (s *Scene) ClearSelection() {
	s.selected = NoPoint
	s.working = WorkingPoint{}
}

// setHovered updates the hover and reports whether it changed.
func (s *Scene) setHovered(ref PointRef) bool {
	if !ref.IsSet() {
		ref = NoPoint
	}
	if ref == s.hovered {
		return false
	}
	s.hovered = ref
	return true
}

func (s *Scene) rebuildWorking() {
	p, ok := s.Point(s.selected)
	if !ok {
		s.ClearSelection()
		return
	}
	s.working = WorkingPoint{
		Position: p.Logical,
		Yaw:      p.Yaw,
		ScaleY:   p.ScaleY,
		Label:    p.Label,
	}
}

// SetWorkingYaw changes the working copy's yaw. No-op without a selection
// or for a non-finite yaw.
func (s *Scene) SetWorkingYaw(yaw float64) bool {
	if !s.selected.IsSet() || !isFinite(yaw) {
		return false
	}
	s.working.Yaw = yaw
	return true
}

// SetWorkingScaleY changes the working copy's lateral extent.
func (s *Scene) SetWorkingScaleY(v float64) bool {
	if !s.selected.IsSet() || !isFinite(v) {
		return false
	}
	s.working.ScaleY = v
	return true
}

// SetWorkingPosition moves the working copy to a world position.
func (s *Scene) SetWorkingPosition(world Vec2) bool {
	if !s.selected.IsSet() || !world.IsFinite() {
		return false
	}
	logical := s.proj.ToLogical(world)
	if !logical.IsFinite() {
		return false
	}
	s.working.Position = logical
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// setWorkingLogical moves the working copy to a logical position.
func (s *Scene) setWorkingLogical(logical Vec2) {
	s.working.Position = logical
}

// selectedGroup returns the group of the current selection.
func (s *Scene) selectedGroup() *Group {
	if !s.selected.IsSet() {
		return nil
	}
	return s.byID[s.selected.Group]
}

// trackBounds returns the logical bounds of the single visible track group.
func (s *Scene) trackBounds() (Rect, bool) {
	if s.singleTrack == nil {
		return Rect{}, false
	}
	pts := make([]Vec2, 0, len(s.singleTrack.Points))
	for _, p := range s.singleTrack.Points {
		if p.Logical.IsFinite() {
			pts = append(pts, p.Logical)
		}
	}
	return Bounds(pts)
}
