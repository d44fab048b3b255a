// Package config provides configuration loading for go-cinematic commands.
//
// Values are resolved in order: defaults, then an optional YAML file, then
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-cinematic/pkg/easing"
	"github.com/teslashibe/go-cinematic/pkg/movement"
)

// Defaults.
const (
	DefaultListenAddr   = ":8901"
	DefaultViewerURL    = "http://localhost:8900"
	DefaultFrameRate    = 60
	DefaultStatusRate   = 200 * time.Millisecond
	DefaultMaxQueueSize = 10
)

// Environment overrides.
const (
	EnvListenAddr = "CINEMATIC_LISTEN_ADDR"
	EnvViewerURL  = "CINEMATIC_VIEWER_URL"
	EnvStreamURL  = "CINEMATIC_STREAM_URL"
	EnvFrameRate  = "CINEMATIC_FRAME_RATE"
	EnvDryRun     = "CINEMATIC_DRY_RUN"
	EnvLogLevel   = "LOG_LEVEL"
)

// Config holds everything cmd/cinematic needs.
type Config struct {
	// === Server ===
	ListenAddr string        `yaml:"listen_addr"`
	StatusRate time.Duration `yaml:"status_rate"` // websocket status push interval

	// === Viewer ===
	ViewerURL string `yaml:"viewer_url"` // worldviewer HTTP API
	StreamURL string `yaml:"stream_url"` // optional WebSocket pose stream; overrides ViewerURL for poses
	FrameRate int    `yaml:"frame_rate"` // ticks per second
	DryRun    bool   `yaml:"dry_run"`    // log poses instead of sending them

	// === Engine ===
	MaxDuration   time.Duration `yaml:"max_duration"`
	MaxQueueSize  int           `yaml:"max_queue_size"`
	HistoryLimit  int           `yaml:"history_limit"`
	DefaultEasing string        `yaml:"default_easing"`

	TransitionThreshold float64 `yaml:"transition_threshold"` // world units; 0 disables re-basing

	LogLevel string `yaml:"log_level"`
}

// Default returns the recommended configuration.
func Default() Config {
	engine := movement.DefaultConfig()
	return Config{
		ListenAddr:    DefaultListenAddr,
		StatusRate:    DefaultStatusRate,
		ViewerURL:     DefaultViewerURL,
		FrameRate:     DefaultFrameRate,
		MaxDuration:   engine.MaxDuration,
		MaxQueueSize:  DefaultMaxQueueSize,
		HistoryLimit:  engine.HistoryLimit,
		DefaultEasing: string(engine.DefaultEasing),
		LogLevel:      "info",

		TransitionThreshold: engine.TransitionThreshold,
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path skips the file; a missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return cfg, fmt.Errorf("config: %s does not exist", path)
			}
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvListenAddr); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv(EnvViewerURL); v != "" {
		c.ViewerURL = v
	}
	if v := os.Getenv(EnvStreamURL); v != "" {
		c.StreamURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvFrameRate); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvFrameRate, err)
		}
		c.FrameRate = n
	}
	if v := os.Getenv(EnvDryRun); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvDryRun, err)
		}
		c.DryRun = b
	}
	return nil
}

// Validate checks the config values.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errs []string

	if c.ListenAddr == "" {
		errs = append(errs, "listen_addr is required")
	}
	if c.FrameRate <= 0 || c.FrameRate > 240 {
		errs = append(errs, fmt.Sprintf("frame_rate must be 1-240, got %d", c.FrameRate))
	}
	if c.StatusRate <= 0 {
		errs = append(errs, "status_rate must be positive")
	}
	if !c.DryRun && c.ViewerURL == "" && c.StreamURL == "" {
		errs = append(errs, "viewer_url or stream_url is required unless dry_run is set")
	}
	engine := c.Engine()
	errs = append(errs, engine.Validate()...)
	return errs
}

// Engine returns the movement engine configuration.
func (c *Config) Engine() movement.Config {
	return movement.Config{
		MaxDuration:   c.MaxDuration,
		MaxQueueSize:  c.MaxQueueSize,
		HistoryLimit:  c.HistoryLimit,
		DefaultEasing: easing.Type(c.DefaultEasing),

		TransitionThreshold: c.TransitionThreshold,
	}
}

// FrameInterval is the time between ticks.
func (c *Config) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second / DefaultFrameRate
	}
	return time.Second / time.Duration(c.FrameRate)
}
