package timeline

// Rotation is a per-bone Euler XYZ rotation in radians.
type Rotation [3]float64

// Face carries the scalar face-control channels of a frame.
type Face struct {
	HeadPitch float64
}

// Frame is one pose sample. Frames are immutable once decoded.
type Frame struct {
	Bones map[string]Rotation
	Face  *Face

	// Index is the frame_idx the producing pipeline stamped on the frame,
	// -1 when absent. Playback never uses it.
	Index int
	// Kind is the optional frame type tag, e.g. "transition".
	Kind string
}

// KindTransition marks frames synthesized between two clips.
const KindTransition = "transition"

// Metadata describes a motion document.
type Metadata struct {
	Version     string  `json:"version,omitempty"`
	FPS         float64 `json:"fps,omitempty"`
	TotalFrames int     `json:"total_frames,omitempty"`
	GeneratedAt string  `json:"generated_at,omitempty"`
}

// Timeline is an ordered, looping sequence of frames. A nil *Timeline is
// an empty timeline.
type Timeline struct {
	Metadata Metadata
	frames   []Frame
}

// New wraps frames in a timeline. The slice is owned by the timeline afterwards.
func New(frames []Frame) *Timeline {
	return &Timeline{frames: frames}
}

func (t *Timeline) Len() int {
	if t == nil {
		return 0
	}
	return len(t.frames)
}

func (t *Timeline) Empty() bool {
	return t.Len() == 0
}

// Frame returns frame i modulo the timeline length.
func (t *Timeline) Frame(i int) (Frame, bool) {
	n := t.Len()
	if n == 0 {
		return Frame{}, false
	}
	i %= n
	if i < 0 {
		i += n
	}
	return t.frames[i], true
}

// Frames returns the underlying frames. Callers must not modify them.
func (t *Timeline) Frames() []Frame {
	if t == nil {
		return nil
	}
	return t.frames
}

// Duration returns the clip length in seconds at fps.
func (t *Timeline) Duration(fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return float64(t.Len()) / fps
}
