package mapview

import (
	"math"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// markerKind selects how a point is drawn.
type markerKind uint8

const (
	markerCircle markerKind = iota
	markerArrow
	markerGate
)

// markerFor picks the marker for a point of g.
func (m *Map) markerFor(g *Group) markerKind {
	switch {
	case g.TrackMode && (m.showExtents || g.ForceShowGate):
		return markerGate
	case g.TrackMode:
		return markerArrow
	default:
		return markerCircle
	}
}

// markerColor applies the precedence selected > hovered > extent view > plain.
func markerColor(c ColorSet, g *Group, kind markerKind, selected, hovered bool) Color {
	gate := kind == markerGate
	switch {
	case selected && g.Selectable:
		if gate {
			return c.GateSelected
		}
		return c.Selected
	case hovered && g.Hoverable:
		if gate {
			return c.GateHover
		}
		return c.Hover
	case gate:
		return c.Gate
	case kind == markerArrow:
		return c.Arrow
	default:
		return c.Point
	}
}

// markerState is everything needed to draw one marker in device space.
type markerState struct {
	pos    Vec2
	yaw    float64
	scaleY float64
	label  string
	colors ColorSet
}

// draw renders one frame into the device buffer. It reports false when
// there is no surface to draw on.
func (m *Map) draw() bool {
	if m.dc == nil {
		if !m.surfaceWarned {
			m.log.Warn("mapview: no drawing surface, skipping frame", "width", m.width, "height", m.height)
			m.surfaceWarned = true
		}
		return false
	}
	m.surfaceWarned = false

	var stats debugStats
	start := time.Now()
	dc := m.dc
	view := m.view.computeMatrix()

	dc.SetColor(m.cfg.Palette.Background.NRGBA())
	dc.Clear()

	square := Rect{Width: m.cfg.MapSize, Height: m.cfg.MapSize}
	if img := m.background.image; img != nil {
		drawRaster(m.frame, img, view, square, draw.NearestNeighbor, 1)
		stats.rasterCount++
	}
	if img := m.overlay.image; img != nil {
		drawRaster(m.frame, img, view, m.cfg.OverlayRect, draw.ApproxBiLinear, m.cfg.OverlayAlpha)
		stats.rasterCount++
	}
	stats.rasterTime = time.Since(start)

	mark := time.Now()
	groups := m.scene.Groups()
	for _, g := range groups {
		if g.TrackMode && len(g.Points) > 1 {
			m.drawPolyline(dc, g)
		}
	}

	selected := m.scene.Selected()
	hovered := m.scene.Hovered()
	selGroup := m.scene.selectedGroup()
	live := selGroup != nil && selGroup.Draggable

	for _, g := range groups {
		kind := m.markerFor(g)
		for i := range g.Points {
			p := &g.Points[i]
			ref := PointRef{Group: g.ID, Index: i}
			st := markerState{
				pos:    m.view.ToCanvas(p.Logical),
				yaw:    p.Yaw,
				scaleY: p.ScaleY,
				colors: p.Colors,
			}
			alpha := 1.0
			if ref == selected && live && g.TrackMode {
				alpha = m.cfg.SelectedDragAlpha
			}
			if m.drawMarker(dc, g, kind, st, ref == selected, ref == hovered, alpha) {
				stats.markerCount++
			}
		}
	}

	for _, g := range groups {
		for i := range g.Points {
			p := &g.Points[i]
			if p.Label == "" {
				continue
			}
			if m.drawPointLabel(dc, m.view.ToCanvas(p.Logical), p.Label, p.Colors) {
				stats.labelCount++
			}
		}
	}

	if live {
		p, _ := m.scene.Point(selected)
		w, _ := m.scene.Working()
		st := markerState{
			pos:    m.view.ToCanvas(w.Position),
			yaw:    w.Yaw,
			scaleY: w.ScaleY,
			label:  w.Label,
			colors: p.Colors,
		}
		if m.drawMarker(dc, selGroup, m.markerFor(selGroup), st, true, false, 1) {
			stats.markerCount++
		}
		if st.label != "" && m.drawPointLabel(dc, st.pos, st.label, st.colors) {
			stats.labelCount++
		}
	}
	stats.markerTime = time.Since(mark)

	m.debugLog(stats)
	return true
}

func (m *Map) drawPolyline(dc *gg.Context, g *Group) {
	dc.NewSubPath()
	started := false
	for _, p := range g.Points {
		c := m.view.ToCanvas(p.Logical)
		if !c.IsFinite() {
			continue
		}
		if !started {
			dc.MoveTo(c.X, c.Y)
			started = true
			continue
		}
		dc.LineTo(c.X, c.Y)
	}
	dc.SetColor(g.Line.NRGBA())
	dc.SetLineWidth(m.cfg.LineWidth * m.ratio)
	dc.Stroke()
}

// drawMarker draws one point. Non-finite positions are skipped.
func (m *Map) drawMarker(dc *gg.Context, g *Group, kind markerKind, st markerState, selected, hovered bool, alpha float64) bool {
	if !st.pos.IsFinite() {
		return false
	}
	col := markerColor(st.colors, g, kind, selected, hovered).WithAlpha(alpha)
	r := m.ratio
	x, y := st.pos.X, st.pos.Y

	switch kind {
	case markerGate:
		half := m.proj.WorldLength(st.scaleY*m.cfg.GateUnit) * m.view.Scale() / 2
		p1, p2 := RotateSegment(Vec2{x, y - half}, Vec2{x, y + half}, st.yaw)
		dc.SetColor(col.NRGBA())
		dc.SetLineWidth(m.cfg.GateWidth * r)
		dc.DrawLine(p1.X, p1.Y, p2.X, p2.Y)
		dc.Stroke()
		dc.DrawCircle(x, y, m.cfg.PointRadius*r/2)
		dc.Fill()

	case markerArrow:
		length := m.cfg.ArrowLength * r
		head := m.cfg.ArrowHeadLength * r
		body := length * math.Sqrt(3) / 2
		sin, cos := math.Sincos(st.yaw)
		tipX, tipY := x+length*cos, y+length*sin

		dc.SetColor(col.NRGBA())
		dc.SetLineWidth(m.cfg.ArrowWidth * r)
		dc.DrawLine(x, y, x+body*cos, y+body*sin)
		dc.Stroke()

		dc.MoveTo(tipX, tipY)
		dc.LineTo(tipX-head*math.Cos(st.yaw-math.Pi/6), tipY-head*math.Sin(st.yaw-math.Pi/6))
		dc.LineTo(tipX-head*math.Cos(st.yaw+math.Pi/6), tipY-head*math.Sin(st.yaw+math.Pi/6))
		dc.ClosePath()
		dc.Fill()

	default:
		dc.DrawCircle(x, y, m.cfg.PointRadius*r)
		dc.SetColor(col.NRGBA())
		dc.FillPreserve()
		dc.SetColor(st.colors.Outline.WithAlpha(alpha).NRGBA())
		dc.SetLineWidth(m.cfg.OutlineWidth * r)
		dc.Stroke()
	}
	return true
}

// drawPointLabel draws a label above the marker at pos.
func (m *Map) drawPointLabel(dc *gg.Context, pos Vec2, text string, c ColorSet) bool {
	if !pos.IsFinite() || !m.fontReady {
		return false
	}
	y := pos.Y - (m.cfg.PointRadius+m.cfg.LabelGap)*m.ratio
	drawLabel(dc, text, pos.X, y, m.ratio, c.Label, c.LabelOutline)
	return true
}
