package mapview

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAttribute is returned by SetAttribute for names it does not handle.
var ErrUnknownAttribute = errors.New("mapview: unknown attribute")

// Attribute names accepted by SetAttribute.
const (
	AttrMap  = "map"
	AttrRoad = "road"
)

// SetAttribute is the string-keyed configuration surface for markup-driven
// hosts. "map" sets the background image source, "road" the overlay.
func (m *Map) SetAttribute(name, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(name)) {
	case AttrMap:
		m.SetBackgroundSource(value)
	case AttrRoad:
		m.SetOverlaySource(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}
	return nil
}

// SetBackgroundSource starts loading the base raster. The map redraws once
// the image is available; an empty source removes it.
func (m *Map) SetBackgroundSource(src string) {
	if src == m.background.source && (m.background.image != nil || m.background.pending) {
		return
	}
	m.load(&m.background, src)
}

// SetOverlaySource starts loading the overlay raster.
func (m *Map) SetOverlaySource(src string) {
	if src == m.overlay.source && (m.overlay.image != nil || m.overlay.pending) {
		return
	}
	m.load(&m.overlay, src)
}

// BackgroundSource returns the current background image source.
func (m *Map) BackgroundSource() string { return m.background.source }

// OverlaySource returns the current overlay image source.
func (m *Map) OverlaySource() string { return m.overlay.source }
