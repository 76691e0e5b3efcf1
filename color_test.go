package mapview

import (
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ff0000", Color{1, 0, 0, 1}},
		{"#FFFFFF", ColorWhite},
		{"#f00", Color{1, 0, 0, 1}},
		{"#0000ff80", Color{0, 0, 1, 128.0 / 255}},
		{"red", Color{1, 0, 0, 1}},
		{"  White ", ColorWhite},
		{"transparent", Color{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if err != nil {
				t.Fatalf("ParseColor(%q): %v", tt.in, err)
			}
			if !approxEqual(got.R, tt.want.R, 1e-9) || !approxEqual(got.G, tt.want.G, 1e-9) ||
				!approxEqual(got.B, tt.want.B, 1e-9) || !approxEqual(got.A, tt.want.A, 1e-9) {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColorInvalid(t *testing.T) {
	for _, s := range []string{"", "nope", "#zzzzzz", "#ff0000zz", "rgb(1,2,3)"} {
		if _, err := ParseColor(s); err == nil {
			t.Errorf("ParseColor(%q) succeeded, want error", s)
		}
	}
}

func TestColorNRGBA(t *testing.T) {
	c := Color{1, 0.5, 0, 0.25}.NRGBA()
	if c.R != 255 || c.G != 128 || c.B != 0 || c.A != 64 {
		t.Errorf("NRGBA = %v, want {255 128 0 64}", c)
	}
	if got := (Color{2, -1, 0, 1}).NRGBA(); got.R != 255 || got.G != 0 {
		t.Errorf("out of range components not clamped: %v", got)
	}
}

func TestColorWithAlpha(t *testing.T) {
	c := Color{1, 1, 1, 0.5}.WithAlpha(0.4)
	if !approxEqual(c.A, 0.2, 1e-12) {
		t.Errorf("A = %v, want 0.2", c.A)
	}
}

func TestDefaultPaletteParses(t *testing.T) {
	p := DefaultPalette()
	if p.Point.A != 1 || p.Background.A != 1 {
		t.Errorf("default palette not opaque: point %v background %v", p.Point, p.Background)
	}
}

func TestColorResolverFallback(t *testing.T) {
	def := DefaultPalette().ColorSet
	var warnings int
	r := colorResolver{warn: func(string, ...any) { warnings++ }}

	point := ColorInput{Point: "#ff0000", Hover: "not-a-color"}
	group := GroupColorInput{ColorInput: ColorInput{Point: "#00ff00", Hover: "#0000ff", Gate: "#ffffff"}}
	got := r.resolve(point, group, def)

	if got.Point != (Color{1, 0, 0, 1}) {
		t.Errorf("Point = %v, want point override", got.Point)
	}
	if got.Hover != (Color{0, 0, 1, 1}) {
		t.Errorf("Hover = %v, want group color after invalid point color", got.Hover)
	}
	if got.Gate != ColorWhite {
		t.Errorf("Gate = %v, want group color", got.Gate)
	}
	if got.Selected != def.Selected || got.Arrow != def.Arrow {
		t.Errorf("unset colors did not fall back to the palette: %+v", got)
	}
	if warnings != 1 {
		t.Errorf("warnings = %d, want 1", warnings)
	}
}
