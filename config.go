package mapview

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("mapview: invalid config")

// Default world bounds of the game map the component was built for.
const (
	DefaultXLeft    = -1280000
	DefaultYTop     = -320000
	DefaultRealSize = 2200000
	DefaultMapSize  = 4096
)

// Config holds every tunable of a Map. Start from DefaultConfig and override
// fields; New validates the result once.
type Config struct {
	// World bounds mapped onto the logical square.
	XLeft, YTop float64
	RealSize    float64
	// MapSize is the logical side length.
	MapSize float64

	// MinScale and MaxScale bound the view scale.
	MinScale, MaxScale float64
	// MaxPixelRatio caps the host pixel ratio to bound the device buffer size.
	MaxPixelRatio float64

	// Marker geometry in display pixels (multiplied by the pixel ratio).
	PointRadius       float64
	HitMargin         float64
	OutlineWidth      float64
	LineWidth         float64
	ArrowLength       float64
	ArrowHeadLength   float64
	ArrowWidth        float64
	GateWidth         float64
	LabelSize         float64
	LabelGap          float64
	FitPadding        float64
	SelectedDragAlpha float64

	// GateUnit is the world-space length of a gate with ScaleY 1.
	GateUnit float64

	// OverlayRect places the overlay raster within the logical square.
	OverlayRect  Rect
	OverlayAlpha float64

	// ZoomStep is the wheel zoom factor per tick, ButtonZoomStep the factor
	// used by ZoomIn/ZoomOut.
	ZoomStep       float64
	ButtonZoomStep float64

	Palette Palette

	// Loader resolves image sources. Nil uses SourceLoader.
	Loader ImageLoader
	// Logger receives warnings. Nil uses slog.Default().
	Logger *slog.Logger
	// Debug logs per-frame draw stats at debug level.
	Debug bool
}

// DefaultConfig returns the stock configuration for the default world bounds.
func DefaultConfig() Config {
	return Config{
		XLeft:             DefaultXLeft,
		YTop:              DefaultYTop,
		RealSize:          DefaultRealSize,
		MapSize:           DefaultMapSize,
		MinScale:          0.1,
		MaxScale:          50,
		MaxPixelRatio:     2,
		PointRadius:       5,
		HitMargin:         5,
		OutlineWidth:      1,
		LineWidth:         2,
		ArrowLength:       20,
		ArrowHeadLength:   10,
		ArrowWidth:        2,
		GateWidth:         3,
		LabelSize:         12,
		LabelGap:          4,
		FitPadding:        128,
		SelectedDragAlpha: 0.4,
		GateUnit:          1000,
		OverlayRect:       Rect{X: 0, Y: 0, Width: DefaultMapSize, Height: DefaultMapSize},
		OverlayAlpha:      0.6,
		ZoomStep:          0.1,
		ButtonZoomStep:    0.2,
		Palette:           DefaultPalette(),
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"RealSize", c.RealSize},
		{"MapSize", c.MapSize},
		{"MinScale", c.MinScale},
		{"MaxScale", c.MaxScale},
		{"MaxPixelRatio", c.MaxPixelRatio},
		{"ZoomStep", c.ZoomStep},
		{"ButtonZoomStep", c.ButtonZoomStep},
	}
	for _, p := range positive {
		if !(p.v > 0) || math.IsInf(p.v, 0) {
			return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrInvalidConfig, p.name, p.v)
		}
	}
	if c.MinScale > c.MaxScale {
		return fmt.Errorf("%w: MinScale %v exceeds MaxScale %v", ErrInvalidConfig, c.MinScale, c.MaxScale)
	}
	if math.IsNaN(c.XLeft) || math.IsNaN(c.YTop) || math.IsInf(c.XLeft, 0) || math.IsInf(c.YTop, 0) {
		return fmt.Errorf("%w: world origin must be finite", ErrInvalidConfig)
	}
	if c.ZoomStep >= 1 || c.ButtonZoomStep >= 1 {
		return fmt.Errorf("%w: zoom steps must be below 1", ErrInvalidConfig)
	}
	if c.OverlayAlpha < 0 || c.OverlayAlpha > 1 {
		return fmt.Errorf("%w: OverlayAlpha must be within [0, 1], got %v", ErrInvalidConfig, c.OverlayAlpha)
	}
	if c.PointRadius < 0 || c.HitMargin < 0 || c.FitPadding < 0 {
		return fmt.Errorf("%w: marker sizes must not be negative", ErrInvalidConfig)
	}
	return nil
}

// projection returns the world ⇄ logical mapping described by c.
func (c Config) projection() Projection {
	return Projection{
		Origin:   Vec2{X: c.XLeft, Y: c.YTop},
		RealSize: c.RealSize,
		MapSize:  c.MapSize,
	}
}
