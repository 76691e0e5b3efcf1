package mapview

import "time"

// debugStats holds per-frame timing and draw counts.
// Only logged when Config.Debug is true.
type debugStats struct {
	rasterTime  time.Duration
	markerTime  time.Duration
	rasterCount int
	markerCount int
	labelCount  int
}

// debugLog writes frame stats at debug level.
func (m *Map) debugLog(stats debugStats) {
	if !m.cfg.Debug {
		return
	}
	m.frames++
	m.log.Debug("mapview: frame",
		"frame", m.frames,
		"raster", stats.rasterTime,
		"markers", stats.markerTime,
		"total", stats.rasterTime+stats.markerTime,
		"images", stats.rasterCount,
		"points", stats.markerCount,
		"labels", stats.labelCount,
	)
}

// debugMaxPoints is the point count above which SetPoints warns in debug
// mode, since every point is hit-tested on each idle pointer move.
const debugMaxPoints = 10000

func (m *Map) debugCheckPointCount() {
	if !m.cfg.Debug {
		return
	}
	n := 0
	for _, g := range m.scene.Groups() {
		n += len(g.Points)
	}
	if n > debugMaxPoints {
		m.log.Warn("mapview: large point count", "points", n, "threshold", debugMaxPoints)
	}
}
