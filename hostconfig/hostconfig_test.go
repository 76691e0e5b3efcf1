package hostconfig

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MAPVIEW_TITLE", "Track editor")
	t.Setenv("MAPVIEW_WIDTH", "640")
	t.Setenv("MAPVIEW_HEIGHT", "480")
	t.Setenv("MAPVIEW_MAP", "world.webp")
	t.Setenv("MAPVIEW_ROAD", "roads.png")
	t.Setenv("MAPVIEW_MAX_PIXEL_RATIO", "1.5")
	t.Setenv("MAPVIEW_ALLOWED_ORIGINS", "example.com,*.example.org")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Title != "Track editor" || cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("window = %q %dx%d", cfg.Title, cfg.Width, cfg.Height)
	}
	if cfg.Background != "world.webp" || cfg.Overlay != "roads.png" {
		t.Errorf("images = %q, %q", cfg.Background, cfg.Overlay)
	}
	if cfg.MaxPixelRatio != 1.5 {
		t.Errorf("MaxPixelRatio = %v, want 1.5", cfg.MaxPixelRatio)
	}
	if len(cfg.Origins) != 2 || cfg.Origins[1] != "*.example.org" {
		t.Errorf("Origins = %v", cfg.Origins)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScreenshotDir == "" || cfg.AssetDir == "" {
		t.Errorf("directories not defaulted: %+v", cfg)
	}
	if cfg.FrameRate != 30 || cfg.MaxSessions != 16 {
		t.Errorf("FrameRate = %d, MaxSessions = %d; want 30, 16", cfg.FrameRate, cfg.MaxSessions)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"zero width", "MAPVIEW_WIDTH", "0"},
		{"not a number", "MAPVIEW_HEIGHT", "tall"},
		{"zero frame rate", "MAPVIEW_FRAME_RATE", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load with %s=%q succeeded", tt.key, tt.value)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		c := Config{LogLevel: tt.in}
		if got := c.Level(); got != tt.want {
			t.Errorf("Level(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMapConfig(t *testing.T) {
	c := Config{MaxPixelRatio: 3, Debug: true, AssetDir: "assets"}
	cfg := c.MapConfig(slog.Default())
	if cfg.MaxPixelRatio != 3 || !cfg.Debug || cfg.Logger == nil || cfg.Loader == nil {
		t.Errorf("MapConfig = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("MapConfig invalid: %v", err)
	}
}

func TestLoadPointsAndScript(t *testing.T) {
	dir := t.TempDir()
	points := filepath.Join(dir, "points.json")
	script := filepath.Join(dir, "script.json")
	if err := os.WriteFile(points, []byte(`{"a": {"points": [{"position": {"x": 1, "y": 2}}]}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(script, []byte(`{"steps": [{"action": "zoomFit"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	var empty Config
	if g, err := empty.LoadPoints(); g != nil || err != nil {
		t.Errorf("LoadPoints without a file = %v, %v", g, err)
	}
	if r, err := empty.LoadScript(); r != nil || err != nil {
		t.Errorf("LoadScript without a file = %v, %v", r, err)
	}

	c := Config{Points: points, Script: script}
	groups, err := c.LoadPoints()
	if err != nil {
		t.Fatalf("LoadPoints: %v", err)
	}
	if len(groups["a"].Points) != 1 {
		t.Errorf("groups = %+v", groups)
	}
	if _, err := c.LoadScript(); err != nil {
		t.Errorf("LoadScript: %v", err)
	}

	missing := Config{Points: filepath.Join(dir, "nope.json")}
	if _, err := missing.LoadPoints(); err == nil {
		t.Error("LoadPoints of a missing file succeeded")
	}
}

func TestNewMap(t *testing.T) {
	c := Config{MaxPixelRatio: 2, AssetDir: t.TempDir(), ScreenshotDir: t.TempDir()}
	m, err := c.NewMap(slog.Default())
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	defer m.Close()
	if m.BackgroundSource() != "" || m.OverlaySource() != "" {
		t.Errorf("sources = %q, %q; want none", m.BackgroundSource(), m.OverlaySource())
	}
}
