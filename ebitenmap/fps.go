package ebitenmap

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/mapview"
)

// fpsOverlay shows FPS, TPS, the view scale and the gesture state in the
// top-left corner. The text is refreshed every ~0.5 seconds.
type fpsOverlay struct {
	img        *ebiten.Image
	lastUpdate float64
}

func newFPSOverlay() *fpsOverlay {
	// 160x64 fits four lines of debug text.
	return &fpsOverlay{img: ebiten.NewImage(160, 64), lastUpdate: 0.5}
}

func (o *fpsOverlay) update(dt float64, m *mapview.Map) {
	o.lastUpdate += dt
	if o.lastUpdate < 0.5 {
		return
	}
	o.lastUpdate = 0

	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nScale: %.3f\n%s",
		ebiten.ActualFPS(), ebiten.ActualTPS(), m.Scale(), m.Gesture()))
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(4, 4)
	screen.DrawImage(o.img, &op)
}
