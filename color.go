package mapview

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorInput holds optional CSS-style color strings for one point or group.
// Empty fields fall back to the next tier (point → group → palette).
type ColorInput struct {
	Point        string `json:"point,omitempty"`
	Selected     string `json:"selected,omitempty"`
	Hover        string `json:"hover,omitempty"`
	Outline      string `json:"outline,omitempty"`
	Label        string `json:"label,omitempty"`
	LabelOutline string `json:"labelOutline,omitempty"`
	Arrow        string `json:"arrowColor,omitempty"`
	Gate         string `json:"gate,omitempty"`
	GateSelected string `json:"gateSelected,omitempty"`
	GateHover    string `json:"gateHover,omitempty"`
}

// GroupColorInput adds the track polyline color to ColorInput.
type GroupColorInput struct {
	ColorInput
	Line string `json:"line,omitempty"`
}

// ColorSet is the fully resolved palette of one point.
type ColorSet struct {
	Point        Color
	Selected     Color
	Hover        Color
	Outline      Color
	Label        Color
	LabelOutline Color
	Arrow        Color
	Gate         Color
	GateSelected Color
	GateHover    Color
}

// Palette is the built-in fallback for every color a point or group can set.
type Palette struct {
	ColorSet
	Line       Color
	Background Color
}

// DefaultPalette returns the built-in colors.
func DefaultPalette() Palette {
	return Palette{
		ColorSet: ColorSet{
			Point:        mustColor("#dfb300"),
			Selected:     mustColor("#002cdf"),
			Hover:        mustColor("#ff7b00"),
			Outline:      ColorBlack,
			Label:        ColorWhite,
			LabelOutline: ColorBlack,
			Arrow:        mustColor("#ff0000"),
			Gate:         mustColor("#00d26a"),
			GateSelected: mustColor("#00b7ff"),
			GateHover:    mustColor("#b6ff00"),
		},
		Line:       ColorWhite,
		Background: mustColor("#375d87"),
	}
}

var namedColors = map[string]Color{
	"white":       ColorWhite,
	"black":       ColorBlack,
	"red":         {1, 0, 0, 1},
	"green":       {0, 128.0 / 255, 0, 1},
	"blue":        {0, 0, 1, 1},
	"yellow":      {1, 1, 0, 1},
	"orange":      {1, 165.0 / 255, 0, 1},
	"gray":        {128.0 / 255, 128.0 / 255, 128.0 / 255, 1},
	"grey":        {128.0 / 255, 128.0 / 255, 128.0 / 255, 1},
	"transparent": {},
}

// ParseColor parses "#rgb", "#rrggbb", "#rrggbbaa" or a basic CSS color name.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	alpha := 1.0
	if strings.HasPrefix(s, "#") && len(s) == 9 {
		var a uint8
		if _, err := fmt.Sscanf(s[7:], "%02x", &a); err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

func mustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// colorResolver applies the point → group → palette fallback. Unparseable
// strings are reported through warn and skipped.
type colorResolver struct {
	warn func(msg string, args ...any)
}

func (r colorResolver) pick(fallback Color, candidates ...string) Color {
	for _, s := range candidates {
		if s == "" {
			continue
		}
		c, err := ParseColor(s)
		if err != nil {
			if r.warn != nil {
				r.warn("ignoring invalid color", "error", err)
			}
			continue
		}
		return c
	}
	return fallback
}

func (r colorResolver) resolve(point ColorInput, group GroupColorInput, def ColorSet) ColorSet {
	g := group.ColorInput
	return ColorSet{
		Point:        r.pick(def.Point, point.Point, g.Point),
		Selected:     r.pick(def.Selected, point.Selected, g.Selected),
		Hover:        r.pick(def.Hover, point.Hover, g.Hover),
		Outline:      r.pick(def.Outline, point.Outline, g.Outline),
		Label:        r.pick(def.Label, point.Label, g.Label),
		LabelOutline: r.pick(def.LabelOutline, point.LabelOutline, g.LabelOutline),
		Arrow:        r.pick(def.Arrow, point.Arrow, g.Arrow),
		Gate:         r.pick(def.Gate, point.Gate, g.Gate),
		GateSelected: r.pick(def.GateSelected, point.GateSelected, g.GateSelected),
		GateHover:    r.pick(def.GateHover, point.GateHover, g.GateHover),
	}
}
