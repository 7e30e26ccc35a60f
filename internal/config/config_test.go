package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "avatar.json", `{
		"motion_base_url": "http://localhost:8000",
		"motion": "/outputs/hello.json",
		"prefixes": ["mixamorig", "armature"],
		"width": 512,
		"format": "webp-anim"
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.MotionBaseURL)
	assert.Equal(t, []string{"mixamorig", "armature"}, cfg.Prefixes)
	assert.Equal(t, 512, cfg.Width)
	assert.Zero(t, cfg.Height)
}

func TestLoadTOML(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "avatar.toml", `
motion = "clips/wave.json"
rig = "rigs/robot.json"
duration = 2.5
render_fps = 144.0
capture_every = 4
log_level = "debug"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "clips/wave.json", cfg.Motion)
	assert.Equal(t, "rigs/robot.json", cfg.Rig)
	assert.Equal(t, 2.5, cfg.Duration)
	assert.Equal(t, 144.0, cfg.RenderFPS)
	assert.Equal(t, 4, cfg.CaptureEvery)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "config: read")

	_, err = Load(writeFile(t, "bad.toml", "width = [unterminated"))
	assert.ErrorContains(t, err, "config: parse")

	_, err = Load(writeFile(t, "bad.json", "{"))
	assert.ErrorContains(t, err, "config: parse")
}

func TestResolveDefaults(t *testing.T) {
	t.Parallel()
	var cfg Config
	cfg.Resolve(Flags{})

	assert.Equal(t, DefaultRig, cfg.Rig)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, DefaultWidth, cfg.Width)
	assert.Equal(t, DefaultHeight, cfg.Height)
	assert.Equal(t, DefaultFOV, cfg.FOV)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 240, cfg.Ticks())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
}

func TestResolveFlagsOverrideFile(t *testing.T) {
	t.Parallel()
	cfg := Config{Motion: "file.json", Width: 100, Format: "tga", FOV: 400}
	cfg.Resolve(Flags{Motion: "flag.json", Width: 200, Duration: 1, LogFormat: "json"})

	assert.Equal(t, "flag.json", cfg.Motion)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, "tga", cfg.Format)
	assert.Equal(t, DefaultFOV, cfg.FOV, "out-of-range fov falls back")
	assert.Equal(t, 60, cfg.Ticks())
	assert.Equal(t, "json", cfg.LogFormat)
}
