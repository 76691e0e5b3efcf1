package mapview

import (
	"context"
	"image"
	"log/slog"
	"math"

	"github.com/fogleman/gg"
	"github.com/tanema/gween/ease"
)

// Map is an interactive map viewer. All methods must be called from a
// single goroutine; Tick is the per-frame entry point.
type Map struct {
	cfg    Config
	log    *slog.Logger
	proj   Projection
	view   *View
	scene  *Scene
	loader ImageLoader

	// Device buffer. Nil while the canvas has no area.
	width, height int
	ratio         float64
	frame         *image.RGBA
	dc            *gg.Context
	faces         labelFaces
	fontReady     bool

	background imageLayer
	overlay    imageLayer
	loads      chan loadResult
	ctx        context.Context
	cancel     context.CancelFunc

	showExtents bool
	centered    bool
	cursor      Cursor
	gesture     Gesture
	pointer     pointerState
	handlers    handlerRegistry

	prev, pending snapshot
	drawn         bool
	surfaceWarned bool
	frames        uint64

	injectQueue     []syntheticPointerEvent
	runner          *ScriptRunner
	screenshotDir   string
	screenshotQueue []string

	closed bool
}

// New creates a Map from cfg. The canvas starts with no area; call Resize
// before the first Tick.
func New(cfg Config) (*Map, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	var loader ImageLoader = SourceLoader{}
	if cfg.Loader != nil {
		loader = cfg.Loader
	}
	ctx, cancel := context.WithCancel(context.Background())
	proj := cfg.projection()

	m := &Map{
		cfg:           cfg,
		log:           log,
		proj:          proj,
		view:          newView(cfg.MinScale, cfg.MaxScale),
		loader:        loader,
		ratio:         1,
		background:    imageLayer{name: AttrMap},
		overlay:       imageLayer{name: AttrRoad},
		loads:         make(chan loadResult, 4),
		ctx:           ctx,
		cancel:        cancel,
		cursor:        CursorGrab,
		screenshotDir: "screenshots",
	}
	m.scene = newScene(proj, cfg.Palette, func(msg string, args ...any) {
		log.Warn("mapview: "+msg, args...)
	})
	return m, nil
}

// Close cancels pending image loads. Afterwards Tick and input methods do
// nothing.
func (m *Map) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.cancel()
	m.view.stopTween()
	m.injectQueue = nil
}

// Config returns the configuration the map was created with.
func (m *Map) Config() Config { return m.cfg }

// --- Canvas ---

// Resize sets the display size of the canvas and the host pixel ratio. The
// device buffer is (w, h) times the ratio capped at MaxPixelRatio. The view
// is not refitted.
func (m *Map) Resize(w, h, ratio float64) {
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		ratio = 1
	}
	ratio = math.Min(ratio, m.cfg.MaxPixelRatio)
	dw, dh := devicePixels(w*ratio), devicePixels(h*ratio)
	if dw == m.width && dh == m.height && ratio == m.ratio {
		return
	}
	m.width, m.height, m.ratio = dw, dh, ratio
	m.centered = false
	if dw == 0 || dh == 0 {
		m.frame = nil
		m.dc = nil
		return
	}
	m.frame = image.NewRGBA(image.Rect(0, 0, dw, dh))
	m.dc = gg.NewContextForRGBA(m.frame)
	face, err := m.faces.face(m.cfg.LabelSize * ratio)
	if err != nil {
		m.log.Warn("mapview: labels disabled", "error", err)
		m.fontReady = false
		return
	}
	m.dc.SetFontFace(face)
	m.fontReady = true
}

func devicePixels(v float64) int {
	if !(v > 0) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

// Size returns the device buffer size in pixels.
func (m *Map) Size() (w, h int) { return m.width, m.height }

// PixelRatio returns the capped pixel ratio in use.
func (m *Map) PixelRatio() float64 { return m.ratio }

// Frame returns the device buffer holding the last drawn frame. It is nil
// while the canvas has no area and is reused between frames.
func (m *Map) Frame() *image.RGBA { return m.frame }

// --- Scene ---

// SetPoints replaces all point groups. When reset is true the selection and
// hover are cleared. A hover that is dropped fires a point-hover event with
// NoPoint.
func (m *Map) SetPoints(groups map[string]GroupInput, reset bool) {
	hovered := m.scene.Hovered()
	m.scene.SetPoints(groups, reset)
	if cur := m.scene.Hovered(); cur != hovered {
		m.fireHover(cur)
	}
	m.dropDragIfUnselected()
	m.debugCheckPointCount()
}

// SetSelected selects the point at index of group and rebuilds its working
// copy. It reports false and clears the selection if no such point exists.
func (m *Map) SetSelected(group string, index int) bool {
	ok := m.scene.Select(PointRef{Group: group, Index: index})
	m.dropDragIfUnselected()
	return ok
}

// ClearSelection removes the selection.
func (m *Map) ClearSelection() {
	m.scene.ClearSelection()
	m.dropDragIfUnselected()
}

func (m *Map) dropDragIfUnselected() {
	if m.gesture == GestureDraggingPoint && !m.scene.Selected().IsSet() {
		m.gesture = GesturePanning
	}
}

// SetSelectedPointYaw previews a new yaw on the selected point. Non-finite
// values are ignored, as for the other working-copy setters.
func (m *Map) SetSelectedPointYaw(yaw float64) { m.scene.SetWorkingYaw(yaw) }

// SetSelectedPointScaleY previews a new lateral extent on the selected point.
func (m *Map) SetSelectedPointScaleY(v float64) { m.scene.SetWorkingScaleY(v) }

// SetSelectedPointPosition previews a new world position on the selected point.
func (m *Map) SetSelectedPointPosition(world Vec2) { m.scene.SetWorkingPosition(world) }

// Selected returns the selected point or NoPoint.
func (m *Map) Selected() PointRef { return m.scene.Selected() }

// Hovered returns the hovered point or NoPoint.
func (m *Map) Hovered() PointRef { return m.scene.Hovered() }

// SelectedPoint returns the working copy of the selection with its
// position converted to world space.
func (m *Map) SelectedPoint() (WorkingPoint, bool) {
	w, ok := m.scene.Working()
	if ok {
		w.Position = m.proj.ToWorld(w.Position)
	}
	return w, ok
}

// Scene exposes the resolved scene for read-only inspection.
func (m *Map) Scene() *Scene { return m.scene }

// HasTrack reports whether any visible group is in track mode.
func (m *Map) HasTrack() bool { return m.scene.HasTrack() }

// HasSingleTrack reports whether exactly one visible group is in track mode.
func (m *Map) HasSingleTrack() bool { return m.scene.HasSingleTrack() }

// --- Extent view ---

// SetShowExtents switches track markers between arrows and gate segments.
func (m *Map) SetShowExtents(show bool) { m.showExtents = show }

// ToggleExtents flips the extent view when a track group exists and returns
// the new state.
func (m *Map) ToggleExtents() bool {
	if m.scene.HasTrack() {
		m.showExtents = !m.showExtents
	}
	return m.showExtents
}

// ShowExtents reports whether the extent view is active.
func (m *Map) ShowExtents() bool { return m.showExtents }

// --- View ---

// Scale returns the view scale.
func (m *Map) Scale() float64 { return m.view.Scale() }

// Offset returns the view offset in device pixels.
func (m *Map) Offset() Vec2 { return m.view.Offset() }

// SetView sets the view transform directly. The scale is clamped.
func (m *Map) SetView(scale float64, offset Vec2) {
	m.view.stopTween()
	m.view.SetTransform(scale, offset)
	m.centered = false
}

// ScreenToWorld converts a display position to world coordinates.
func (m *Map) ScreenToWorld(x, y float64) Vec2 {
	return m.proj.ToWorld(m.view.ToLogical(m.toDevice(x, y)))
}

// WorldToScreen converts a world position to display coordinates.
func (m *Map) WorldToScreen(world Vec2) Vec2 {
	return m.view.ToCanvas(m.proj.ToLogical(world)).Scale(1 / m.ratio)
}

// fitTarget computes the fit-to-view transform.
func (m *Map) fitTarget() (float64, Vec2, bool) {
	if m.width == 0 || m.height == 0 {
		m.log.Warn("mapview: cannot fit view without a drawing surface")
		return 0, Vec2{}, false
	}
	w, h := float64(m.width), float64(m.height)
	if b, ok := m.scene.trackBounds(); ok {
		scale, off := m.view.fitBounds(b, w, h, m.cfg.FitPadding*m.ratio)
		return scale, off, true
	}
	scale, off := m.view.fitSquare(w, h, m.cfg.MapSize)
	return scale, off, true
}

// ZoomFit recentres the view: on the single visible track group if there is
// exactly one, otherwise on the whole map square.
func (m *Map) ZoomFit() {
	scale, off, ok := m.fitTarget()
	if !ok {
		return
	}
	m.view.stopTween()
	m.view.SetTransform(scale, off)
	m.centered = true
}

// ZoomFitAnimated is ZoomFit eased over duration seconds of Tick time. A
// nil fn uses ease.OutCubic.
func (m *Map) ZoomFitAnimated(duration float32, fn ease.TweenFunc) {
	scale, off, ok := m.fitTarget()
	if !ok {
		return
	}
	m.view.animateTo(scale, off, duration, fn)
	m.centered = true
}

// --- Frame loop ---

// Tick advances the map by dt seconds: it applies finished image loads,
// steps the recentre animation and scripted input, and redraws the frame
// if anything visible changed. It reports whether a frame was drawn.
func (m *Map) Tick(dt float32) bool {
	if m.closed {
		return false
	}
	m.drainLoads()
	m.view.stepTween(dt)
	if m.runner != nil {
		m.runner.step(m)
	}
	m.processInjectedInput()

	drawn := false
	if m.stateChanged() && m.draw() {
		m.commitSnapshot()
		drawn = true
	}
	m.flushScreenshots()
	return drawn
}
