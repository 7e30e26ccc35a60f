package batch

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
)

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Index         int        `json:"index"`
	Tick          int        `json:"tick"`
	Time          float64    `json:"time"`
	TimelineFrame int        `json:"timeline_frame"`
	Camera        [3]float64 `json:"camera"`
	Target        [3]float64 `json:"target"`
	Image         string     `json:"image"`
	Error         string     `json:"error,omitempty"`
}

// Manifest describes one batch run.
type Manifest struct {
	Run       uuid.UUID       `json:"run"`
	Generated time.Time       `json:"generated_at"`
	Motion    string          `json:"motion,omitempty"`
	Rig       string          `json:"rig"`
	Format    string          `json:"format"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Frames    []ManifestEntry `json:"frames"`
}

// NewManifest pairs captured frames with their render results.
func NewManifest(run uuid.UUID, cfg Config, frames []Frame, results []Result) Manifest {
	m := Manifest{
		Run:       run,
		Generated: time.Now().UTC(),
		Format:    cfg.Format,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Frames:    make([]ManifestEntry, len(frames)),
	}
	for i, f := range frames {
		e := ManifestEntry{
			Index:         f.Index,
			Tick:          f.Tick,
			Time:          f.Time,
			TimelineFrame: f.TimelineFrame,
			Camera:        f.Camera.Position,
			Target:        f.Camera.Target,
		}
		if i < len(results) {
			e.Image = results[i].File
			e.Error = results[i].Error
		}
		m.Frames[i] = e
	}
	return m
}

// WriteManifest writes the manifest as indented JSON.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
