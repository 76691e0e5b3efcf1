package mapview

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitImages(t *testing.T, m *Map) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.WaitImages(ctx); err != nil {
		t.Fatalf("WaitImages: %v", err)
	}
}

func stubLoader(images map[string]image.Image) ImageLoader {
	return ImageLoaderFunc(func(_ context.Context, src string) (image.Image, error) {
		if img, ok := images[src]; ok {
			return img, nil
		}
		return nil, errors.New("not found: " + src)
	})
}

func TestSetAttribute(t *testing.T) {
	img := solidImage(4, 4, color.RGBA{1, 2, 3, 255})
	m := newTestMap(t, 10, 10, func(c *Config) {
		c.Loader = stubLoader(map[string]image.Image{"bg.png": img, "road.png": img})
	})

	if err := m.SetAttribute("map", " bg.png "); err != nil {
		t.Fatalf("SetAttribute(map): %v", err)
	}
	if err := m.SetAttribute("ROAD", "road.png"); err != nil {
		t.Fatalf("SetAttribute(road): %v", err)
	}
	waitImages(t, m)

	if m.BackgroundSource() != "bg.png" || m.OverlaySource() != "road.png" {
		t.Errorf("sources = %q, %q", m.BackgroundSource(), m.OverlaySource())
	}
	if m.background.image == nil || m.overlay.image == nil {
		t.Error("images not applied")
	}

	err := m.SetAttribute("zoom", "2")
	if !errors.Is(err, ErrUnknownAttribute) {
		t.Errorf("SetAttribute(zoom) = %v, want ErrUnknownAttribute", err)
	}
}

func TestImageLoadRedraws(t *testing.T) {
	img := solidImage(4, 4, color.RGBA{1, 2, 3, 255})
	m := newTestMap(t, 10, 10, func(c *Config) {
		c.Loader = stubLoader(map[string]image.Image{"bg.png": img})
	})
	m.Tick(0)
	m.SetBackgroundSource("bg.png")
	waitImages(t, m)
	if !m.Tick(0) {
		t.Error("Tick did not redraw after the background loaded")
	}
}

func TestImageLoadErrorKeepsPrevious(t *testing.T) {
	img := solidImage(4, 4, color.RGBA{1, 2, 3, 255})
	m := newTestMap(t, 10, 10, func(c *Config) {
		c.Loader = stubLoader(map[string]image.Image{"good.png": img})
	})
	var events []ImageErrorEvent
	m.OnImageError(func(ev ImageErrorEvent) { events = append(events, ev) })

	m.SetBackgroundSource("good.png")
	waitImages(t, m)
	gen := m.background.generation

	m.SetBackgroundSource("missing.png")
	waitImages(t, m)

	if m.background.image != img {
		t.Error("failed load replaced the previous image")
	}
	if m.background.generation != gen {
		t.Errorf("generation = %d, want %d", m.background.generation, gen)
	}
	if len(events) != 1 || events[0].Layer != AttrMap || events[0].Source != "missing.png" || events[0].Err == nil {
		t.Errorf("error events = %+v", events)
	}
}

func TestStaleLoadDropped(t *testing.T) {
	m := newTestMap(t, 10, 10)
	m.background.request = 2
	m.background.pending = true
	m.applyLoad(loadResult{layer: &m.background, request: 1, image: solidImage(1, 1, color.RGBA{})})
	if m.background.image != nil || !m.background.pending {
		t.Error("stale load result was applied")
	}
}

func TestEmptySourceClearsImage(t *testing.T) {
	img := solidImage(4, 4, color.RGBA{1, 2, 3, 255})
	m := newTestMap(t, 10, 10, func(c *Config) {
		c.Loader = stubLoader(map[string]image.Image{"bg.png": img})
	})
	m.SetBackgroundSource("bg.png")
	waitImages(t, m)
	m.SetBackgroundSource("")
	if m.background.image != nil || m.background.pending {
		t.Error("empty source did not clear the background")
	}
}

func TestWaitImagesContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	m := newTestMap(t, 10, 10, func(c *Config) {
		c.Loader = ImageLoaderFunc(func(ctx context.Context, _ string) (image.Image, error) {
			select {
			case <-block:
			case <-ctx.Done():
			}
			return nil, ctx.Err()
		})
	})
	m.SetBackgroundSource("slow.png")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := m.WaitImages(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitImages = %v, want deadline exceeded", err)
	}
}

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, solidImage(3, 2, color.RGBA{9, 9, 9, 255})); err != nil {
		t.Fatal(err)
	}
}

func TestSourceLoaderFile(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "map.png"))

	img, err := SourceLoader{Root: dir}.Load(context.Background(), "map.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("bounds = %v, want 3x2", b)
	}
	if _, err := (SourceLoader{Root: dir}).Load(context.Background(), "nope.png"); err == nil {
		t.Error("missing file loaded")
	}
}

func TestSourceLoaderHTTP(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "map.png"))
	srv := httptest.NewServer(http.FileServer(http.Dir(dir)))
	defer srv.Close()

	l := SourceLoader{Client: srv.Client()}
	img, err := l.Load(context.Background(), srv.URL+"/map.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("bounds = %v, want 3x2", b)
	}
	if _, err := l.Load(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("404 loaded without error")
	}
}

func TestSourceLoaderUndecodable(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (SourceLoader{Root: dir}).Load(context.Background(), "bad.png"); err == nil {
		t.Error("garbage decoded without error")
	}
}
