package mapview

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// toAff3 converts the [a, b, c, d, tx, ty] layout used by the view matrix
// into the row-major f64.Aff3 expected by x/image/draw.
func toAff3(m [6]float64) f64.Aff3 {
	return f64.Aff3{
		m[0], m[2], m[4],
		m[1], m[3], m[5],
	}
}

// rasterMatrix maps source pixels of a w×h image onto the logical rectangle
// dst and then through the view matrix to device pixels.
func rasterMatrix(view [6]float64, dst Rect, w, h int) [6]float64 {
	if w <= 0 || h <= 0 {
		return view
	}
	place := scaleTranslate(dst.Width/float64(w), dst.Height/float64(h), dst.X, dst.Y)
	return multiplyAffine(view, place)
}

// drawRaster composites src over dst through the view transform. Alpha
// below 1 is applied as a uniform source mask.
func drawRaster(dst *image.RGBA, src image.Image, view [6]float64, place Rect, interp draw.Transformer, alpha float64) {
	if src == nil || alpha <= 0 {
		return
	}
	b := src.Bounds()
	m := rasterMatrix(view, place, b.Dx(), b.Dy())
	// Source coordinates are relative to the image's own origin.
	m = multiplyAffine(m, scaleTranslate(1, 1, -float64(b.Min.X), -float64(b.Min.Y)))

	var opts *draw.Options
	if alpha < 1 {
		opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha{A: unit8(alpha)})}
	}
	interp.Transform(dst, toAff3(m), src, b, draw.Over, opts)
}
