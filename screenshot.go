package mapview

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// errNoFrame is returned when a frame is requested before the canvas has area.
var errNoFrame = errors.New("mapview: no frame")

// SetScreenshotDir sets the directory screenshots are written to.
// The default is "screenshots".
func (m *Map) SetScreenshotDir(dir string) {
	m.screenshotDir = dir
}

// Screenshot queues a labeled screenshot of the frame. It is written at the
// end of the current Tick with a timestamped file name.
func (m *Map) Screenshot(label string) {
	m.screenshotQueue = append(m.screenshotQueue, label)
}

// flushScreenshots writes every queued screenshot. Called at the end of Tick.
func (m *Map) flushScreenshots() {
	if len(m.screenshotQueue) == 0 {
		return
	}
	defer func() { m.screenshotQueue = m.screenshotQueue[:0] }()

	img := m.Snapshot()
	if img == nil {
		m.log.Warn("mapview: screenshot skipped, no frame", "count", len(m.screenshotQueue))
		return
	}
	if err := os.MkdirAll(m.screenshotDir, 0o755); err != nil {
		m.log.Warn("mapview: screenshot mkdir failed", "dir", m.screenshotDir, "error", err)
		return
	}

	stamp := time.Now().Format("20060102_150405")
	for _, label := range m.screenshotQueue {
		path := filepath.Join(m.screenshotDir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			m.log.Warn("mapview: screenshot failed", "error", err)
		}
	}
}

// Snapshot returns a straight-alpha copy of the current frame, or nil when
// there is none.
func (m *Map) Snapshot() *image.NRGBA {
	if m.frame == nil {
		return nil
	}
	src := m.frame
	b := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for i := 0; i < len(src.Pix) && i < len(img.Pix); i += 4 {
		r, g, bl, a := src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			bl = uint8(min(int(bl)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = bl
		img.Pix[i+3] = a
	}
	return img
}

// EncodePNG writes the current frame as PNG to w.
func (m *Map) EncodePNG(w io.Writer) error {
	img := m.Snapshot()
	if img == nil {
		return errNoFrame
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	return nil
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
