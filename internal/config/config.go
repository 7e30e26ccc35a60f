package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all configurable sources and render settings.
type Config struct {
	// Sources
	MotionBaseURL string   `json:"motion_base_url" toml:"motion_base_url"`
	Motion        string   `json:"motion" toml:"motion"`
	Rig           string   `json:"rig" toml:"rig"` // "humanoid" or a rig JSON path
	RigPrefix     string   `json:"rig_prefix" toml:"rig_prefix"`
	Prefixes      []string `json:"prefixes" toml:"prefixes"`
	Backdrop      string   `json:"backdrop" toml:"backdrop"`
	OutputDir     string   `json:"output_dir" toml:"output_dir"`

	// Simulation
	Duration     float64 `json:"duration" toml:"duration"` // seconds of host time
	RenderFPS    float64 `json:"render_fps" toml:"render_fps"`
	CaptureEvery int     `json:"capture_every" toml:"capture_every"`
	HTTPTimeout  float64 `json:"http_timeout" toml:"http_timeout"` // seconds

	// Render settings
	Width       int     `json:"width" toml:"width"`
	Height      int     `json:"height" toml:"height"`
	FOV         float64 `json:"fov" toml:"fov"` // vertical, degrees
	Supersample int     `json:"supersample" toml:"supersample"`
	Format      string  `json:"format" toml:"format"`
	Workers     int     `json:"workers" toml:"workers"`

	// Logging
	LogLevel  string `json:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" toml:"log_format"`
	LogFile   string `json:"log_file" toml:"log_file"`
}

// Defaults.
const (
	DefaultRig          = "humanoid"
	DefaultOutputDir    = "renders"
	DefaultDuration     = 4.0
	DefaultRenderFPS    = 60.0
	DefaultCaptureEvery = 2
	DefaultHTTPTimeout  = 30.0
	DefaultWidth        = 320
	DefaultHeight       = 400
	DefaultFOV          = 28.0
	DefaultSupersample  = 2
	DefaultFormat       = "webp"
)

// Load reads a JSON or TOML config file (chosen by extension) and returns
// Config. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Motion != "" {
		c.Motion = flags.Motion
	}
	if flags.MotionBaseURL != "" {
		c.MotionBaseURL = flags.MotionBaseURL
	}
	if flags.Rig != "" {
		c.Rig = flags.Rig
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Duration > 0 {
		c.Duration = flags.Duration
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.LogFormat != "" {
		c.LogFormat = flags.LogFormat
	}

	if c.Rig == "" {
		c.Rig = DefaultRig
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}

	// Defaults for simulation and render settings
	if c.Duration <= 0 {
		c.Duration = DefaultDuration
	}
	if c.RenderFPS <= 0 {
		c.RenderFPS = DefaultRenderFPS
	}
	if c.CaptureEvery <= 0 {
		c.CaptureEvery = DefaultCaptureEvery
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		c.FOV = DefaultFOV
	}
	if c.Supersample <= 0 {
		c.Supersample = DefaultSupersample
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Ticks returns the number of host ticks the configured duration covers.
func (c Config) Ticks() int {
	return int(c.Duration*c.RenderFPS + 0.5)
}

// Timeout returns the HTTP timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTPTimeout * float64(time.Second))
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Motion        string
	MotionBaseURL string
	Rig           string
	OutputDir     string
	Format        string
	Duration      float64
	Width         int
	Height        int
	Workers       int
	LogLevel      string
	LogFormat     string
}
