package mapview

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageLoader resolves an image source to a decoded image. Load runs on its
// own goroutine and must honour ctx.
type ImageLoader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// ImageLoaderFunc adapts a function to ImageLoader.
type ImageLoaderFunc func(ctx context.Context, src string) (image.Image, error)

// Load calls f.
func (f ImageLoaderFunc) Load(ctx context.Context, src string) (image.Image, error) {
	return f(ctx, src)
}

// SourceLoader loads PNG, JPEG, WebP and BMP images from http(s) URLs or
// from files. Relative file paths are resolved against Root.
type SourceLoader struct {
	Root   string
	Client *http.Client
}

// Load fetches and decodes src.
func (l SourceLoader) Load(ctx context.Context, src string) (image.Image, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return l.loadHTTP(ctx, src)
	}
	path := src
	if l.Root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(l.Root, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return decodeImage(f, src)
}

func (l SourceLoader) loadHTTP(ctx context.Context, src string) (image.Image, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image %s: status %s", src, resp.Status)
	}
	return decodeImage(resp.Body, src)
}

func decodeImage(r io.Reader, src string) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", src, err)
	}
	return img, nil
}

// --- Layers ---

// imageLayer is one raster layer. generation changes whenever the drawn
// image changes and feeds the dirty check.
type imageLayer struct {
	name       string
	source     string
	image      image.Image
	generation uint64
	request    uint64
	pending    bool
}

type loadResult struct {
	layer   *imageLayer
	request uint64
	source  string
	image   image.Image
	err     error
}

// load starts an asynchronous load of src into layer. An empty source
// removes the image immediately. Results of superseded requests are dropped.
func (m *Map) load(layer *imageLayer, src string) {
	if m.closed {
		return
	}
	layer.source = src
	layer.request++
	if src == "" {
		layer.pending = false
		if layer.image != nil {
			layer.image = nil
			layer.generation++
		}
		return
	}
	layer.pending = true
	req := layer.request
	ctx := m.ctx
	loader := m.loader
	go func() {
		img, err := loader.Load(ctx, src)
		select {
		case m.loads <- loadResult{layer: layer, request: req, source: src, image: img, err: err}:
		case <-ctx.Done():
		}
	}()
}

// drainLoads applies every finished load without blocking.
func (m *Map) drainLoads() {
	for {
		select {
		case r := <-m.loads:
			m.applyLoad(r)
		default:
			return
		}
	}
}

func (m *Map) applyLoad(r loadResult) {
	l := r.layer
	if r.request != l.request {
		return
	}
	l.pending = false
	if r.err != nil {
		m.log.Warn("mapview: image load failed", "layer", l.name, "source", r.source, "error", r.err)
		m.fireImageError(ImageErrorEvent{Layer: l.name, Source: r.source, Err: r.err})
		return
	}
	l.image = r.image
	l.generation++
}

// WaitImages blocks until every pending image load has been applied or ctx
// is done. Headless hosts use it before rendering a snapshot.
func (m *Map) WaitImages(ctx context.Context) error {
	for m.background.pending || m.overlay.pending {
		select {
		case r := <-m.loads:
			m.applyLoad(r)
		case <-ctx.Done():
			return ctx.Err()
		case <-m.ctx.Done():
			return m.ctx.Err()
		}
	}
	return nil
}
