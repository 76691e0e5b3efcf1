// Package hostconfig loads the settings shared by the mapview hosts from
// MAPVIEW_* environment variables.
package hostconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/phanxgames/mapview"
)

// Prefix is the environment variable prefix.
const Prefix = "MAPVIEW"

// Config holds the MAPVIEW_* host settings.
type Config struct {
	Title         string   `envconfig:"TITLE" default:"Map Viewer"`
	Width         int      `envconfig:"WIDTH" default:"1024"`
	Height        int      `envconfig:"HEIGHT" default:"768"`
	Background    string   `envconfig:"MAP" default:"map.png"`
	Overlay       string   `envconfig:"ROAD"`
	AssetDir      string   `envconfig:"ASSET_DIR" default:"."`
	Points        string   `envconfig:"POINTS"`
	Script        string   `envconfig:"SCRIPT"`
	ScreenshotDir string   `envconfig:"SCREENSHOT_DIR" default:"screenshots"`
	MaxPixelRatio float64  `envconfig:"MAX_PIXEL_RATIO" default:"2"`
	ShowFPS       bool     `envconfig:"SHOW_FPS" default:"false"`
	Debug         bool     `envconfig:"DEBUG" default:"false"`
	LogLevel      string   `envconfig:"LOG_LEVEL" default:"info"`
	Port          int      `envconfig:"PORT" default:"8080"`
	FrameRate     int      `envconfig:"FRAME_RATE" default:"30"`
	MaxSessions   int      `envconfig:"MAX_SESSIONS" default:"16"`
	Origins       []string `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("load host config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("load host config: window size %dx%d must be positive", cfg.Width, cfg.Height)
	}
	if cfg.FrameRate <= 0 {
		return nil, fmt.Errorf("load host config: frame rate must be positive, got %d", cfg.FrameRate)
	}
	return &cfg, nil
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger returns a text logger on stdout at the configured level.
func (c *Config) Logger() *slog.Logger {
	level := c.Level()
	if c.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// MapConfig returns a map configuration for these host settings.
func (c *Config) MapConfig(logger *slog.Logger) mapview.Config {
	cfg := mapview.DefaultConfig()
	cfg.MaxPixelRatio = c.MaxPixelRatio
	cfg.Debug = c.Debug
	cfg.Logger = logger
	cfg.Loader = mapview.SourceLoader{Root: c.AssetDir}
	return cfg
}

// NewMap creates a map from these settings and starts loading its images.
func (c *Config) NewMap(logger *slog.Logger) (*mapview.Map, error) {
	m, err := mapview.New(c.MapConfig(logger))
	if err != nil {
		return nil, err
	}
	m.SetScreenshotDir(c.ScreenshotDir)
	m.SetBackgroundSource(c.Background)
	m.SetOverlaySource(c.Overlay)
	return m, nil
}

// LoadPoints reads the Points file if one is configured.
func (c *Config) LoadPoints() (map[string]mapview.GroupInput, error) {
	if c.Points == "" {
		return nil, nil
	}
	f, err := os.Open(c.Points)
	if err != nil {
		return nil, fmt.Errorf("open points: %w", err)
	}
	defer f.Close()
	return mapview.DecodeGroups(f)
}

// LoadScript reads the Script file if one is configured.
func (c *Config) LoadScript() (*mapview.ScriptRunner, error) {
	if c.Script == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.Script)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return mapview.LoadScript(data)
}
