// Package ebitenmap runs a mapview.Map in an Ebitengine window: it feeds
// mouse, wheel, single-finger touch and keyboard input to the map, uploads
// redrawn frames and mirrors the map's cursor affordance.
package ebitenmap

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/mapview"
)

// RecenterDuration is the length of the animated recentre in seconds.
const RecenterDuration = 0.35

// RunConfig configures Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	ShowFPS   bool
	Resizable bool
	// OnKey is called for every key pressed this tick after the built-in
	// bindings ran.
	OnKey func(key ebiten.Key)
	// OnTick is called once per tick after input was delivered and before
	// the map is ticked.
	OnTick func() error
}

// Game adapts a Map to ebiten.Game.
type Game struct {
	m   *mapview.Map
	cfg RunConfig

	outW, outH int
	ratio      float64

	img *ebiten.Image
	fps *fpsOverlay

	mouseX, mouseY int
	inside         bool
	touching       bool
	touchID        ebiten.TouchID
	touchX, touchY float64

	cursor ebiten.CursorShapeType
	keys   []ebiten.Key
}

// NewGame wraps m.
func NewGame(m *mapview.Map, cfg RunConfig) *Game {
	g := &Game{m: m, cfg: cfg, ratio: 1, cursor: ebiten.CursorShapeDefault}
	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	return g
}

// Run opens a window and blocks until it is closed.
func Run(m *mapview.Map, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1024
	}
	if cfg.Height <= 0 {
		cfg.Height = 768
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	defer m.Close()
	return ebiten.RunGame(NewGame(m, cfg))
}

// Layout sizes the screen in device pixels so the map draws at the
// monitor's density.
func (g *Game) Layout(outsideW, outsideH int) (int, int) {
	ratio := 1.0
	if mon := ebiten.Monitor(); mon != nil {
		ratio = mon.DeviceScaleFactor()
	}
	ratio = math.Min(ratio, g.m.Config().MaxPixelRatio)
	if ratio <= 0 {
		ratio = 1
	}
	g.outW, g.outH, g.ratio = outsideW, outsideH, ratio
	return int(math.Round(float64(outsideW) * ratio)), int(math.Round(float64(outsideH) * ratio))
}

// Update delivers input and ticks the map.
func (g *Game) Update() error {
	g.m.Resize(float64(g.outW), float64(g.outH), g.ratio)

	if !g.handleTouch() {
		g.handleMouse()
	}
	g.handleKeys()

	if g.cfg.OnTick != nil {
		if err := g.cfg.OnTick(); err != nil {
			return err
		}
	}

	tps := ebiten.TPS()
	if tps <= 0 {
		tps = 60
	}
	if g.m.Tick(1 / float32(tps)) {
		g.upload()
	}
	g.syncCursor()
	if g.fps != nil {
		g.fps.update(1/float64(tps), g.m)
	}
	return nil
}

// Draw blits the last uploaded frame.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.img != nil {
		screen.DrawImage(g.img, nil)
	}
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

// upload copies the map frame into the ebiten image, reallocating it when
// the size changed.
func (g *Game) upload() {
	frame := g.m.Frame()
	if frame == nil {
		return
	}
	w, h := frame.Bounds().Dx(), frame.Bounds().Dy()
	if g.img == nil || g.img.Bounds().Dx() != w || g.img.Bounds().Dy() != h {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(w, h)
	}
	// Both sides are premultiplied RGBA.
	g.img.WritePixels(frame.Pix)
}

// toDisplay converts screen (device) coordinates to display coordinates.
func (g *Game) toDisplay(x, y float64) (float64, float64) {
	return x / g.ratio, y / g.ratio
}

func (g *Game) handleMouse() {
	mx, my := ebiten.CursorPosition()
	x, y := g.toDisplay(float64(mx), float64(my))

	inside := mx >= 0 && my >= 0 && float64(mx) < float64(g.outW)*g.ratio && float64(my) < float64(g.outH)*g.ratio
	if !inside {
		if g.inside {
			g.m.PointerLeave()
		}
		g.inside = false
		return
	}
	g.inside = true

	if mx != g.mouseX || my != g.mouseY {
		g.mouseX, g.mouseY = mx, my
		g.m.PointerMove(x, y)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.m.PointerDown(x, y)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.m.PointerUp(x, y)
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		// Ebitengine reports scrolling up as positive.
		g.m.Wheel(x, y, -wy)
	}
}

// handleTouch tracks the first active touch only. It reports whether a
// touch is in progress so mouse emulation is ignored.
func (g *Game) handleTouch() bool {
	if !g.touching {
		ids := inpututil.AppendJustPressedTouchIDs(nil)
		if len(ids) == 0 {
			return false
		}
		g.touching = true
		g.touchID = ids[0]
		tx, ty := ebiten.TouchPosition(g.touchID)
		g.touchX, g.touchY = g.toDisplay(float64(tx), float64(ty))
		g.m.PointerMove(g.touchX, g.touchY)
		g.m.PointerDown(g.touchX, g.touchY)
		return true
	}
	if inpututil.IsTouchJustReleased(g.touchID) {
		g.touching = false
		g.m.PointerUp(g.touchX, g.touchY)
		return true
	}
	tx, ty := ebiten.TouchPosition(g.touchID)
	x, y := g.toDisplay(float64(tx), float64(ty))
	if x != g.touchX || y != g.touchY {
		g.touchX, g.touchY = x, y
		g.m.PointerMove(x, y)
	}
	return true
}

func (g *Game) handleKeys() {
	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		switch k {
		case ebiten.KeyEqual, ebiten.KeyKPAdd:
			g.m.ZoomIn()
		case ebiten.KeyMinus, ebiten.KeyKPSubtract:
			g.m.ZoomOut()
		case ebiten.KeyHome, ebiten.KeyR:
			g.m.ZoomFitAnimated(RecenterDuration, ease.OutCubic)
		case ebiten.KeyG:
			g.m.ToggleExtents()
		case ebiten.KeyEscape:
			g.m.ClearSelection()
		case ebiten.KeyF12:
			g.m.Screenshot("manual")
		}
		if g.cfg.OnKey != nil {
			g.cfg.OnKey(k)
		}
	}
}

// cursorShape maps the map's cursor affordance to the closest system cursor.
func cursorShape(c mapview.Cursor) ebiten.CursorShapeType {
	switch c {
	case mapview.CursorPointer:
		return ebiten.CursorShapePointer
	case mapview.CursorMove, mapview.CursorGrabbing:
		return ebiten.CursorShapeMove
	default:
		return ebiten.CursorShapeDefault
	}
}

func (g *Game) syncCursor() {
	shape := cursorShape(g.m.Cursor())
	if shape != g.cursor {
		g.cursor = shape
		ebiten.SetCursorShape(shape)
	}
}
