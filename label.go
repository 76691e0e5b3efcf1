package mapview

import (
	"fmt"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	labelFontOnce sync.Once
	labelFont     *truetype.Font
	labelFontErr  error
)

// parseLabelFont parses the embedded Go Regular font once per process.
func parseLabelFont() (*truetype.Font, error) {
	labelFontOnce.Do(func() {
		labelFont, labelFontErr = truetype.Parse(goregular.TTF)
		if labelFontErr != nil {
			labelFontErr = fmt.Errorf("parse label font: %w", labelFontErr)
		}
	})
	return labelFont, labelFontErr
}

// labelFaces caches one font face per pixel size. The size changes only
// when the pixel ratio does.
type labelFaces struct {
	faces map[float64]font.Face
}

func (l *labelFaces) face(size float64) (font.Face, error) {
	if f, ok := l.faces[size]; ok {
		return f, nil
	}
	ttf, err := parseLabelFont()
	if err != nil {
		return nil, err
	}
	if l.faces == nil {
		l.faces = make(map[float64]font.Face)
	}
	f := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	l.faces[size] = f
	return f, nil
}

// outlineOffsets are the eight neighbour directions of the outline pass.
var outlineOffsets = [8][2]float64{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// drawLabel draws text centred horizontally with its baseline at (x, y):
// first the outline colour at each neighbour offset, then the fill on top.
func drawLabel(dc *gg.Context, text string, x, y, outline float64, fill, stroke Color) {
	if text == "" {
		return
	}
	dc.SetColor(stroke.NRGBA())
	for _, o := range outlineOffsets {
		dc.DrawStringAnchored(text, x+o[0]*outline, y+o[1]*outline, 0.5, 0)
	}
	dc.SetColor(fill.NRGBA())
	dc.DrawStringAnchored(text, x, y, 0.5, 0)
}
