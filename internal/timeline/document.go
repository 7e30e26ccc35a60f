package timeline

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
)

type wireDocument struct {
	Metadata *Metadata   `json:"metadata,omitempty"`
	Timeline []wireFrame `json:"timeline"`
}

type wireFrame struct {
	Bones    map[string]json.RawMessage `json:"bones,omitempty"`
	Face     *wireFace                  `json:"face,omitempty"`
	FrameIdx *float64                   `json:"frame_idx,omitempty"`
	Type     string                     `json:"type,omitempty"`
}

type wireFace struct {
	HeadPitch *float64 `json:"head_pitch,omitempty"`
}

// Decode parses a motion document. A missing or empty "timeline" field
// yields an empty timeline, not an error. Bone entries that are not a
// three-number array are dropped individually.
func Decode(r io.Reader) (*Timeline, error) {
	var doc wireDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("timeline: decode: %w", err)
	}
	return fromWire(doc), nil
}

// Unmarshal is Decode for an in-memory document.
func Unmarshal(data []byte) (*Timeline, error) {
	var doc wireDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("timeline: decode: %w", err)
	}
	return fromWire(doc), nil
}

func fromWire(doc wireDocument) *Timeline {
	frames := make([]Frame, 0, len(doc.Timeline))
	for _, wf := range doc.Timeline {
		f := Frame{Index: -1, Kind: wf.Type}
		if wf.FrameIdx != nil {
			f.Index = int(*wf.FrameIdx)
		}
		if wf.Bones != nil {
			f.Bones = make(map[string]Rotation, len(wf.Bones))
			for name, raw := range wf.Bones {
				if rot, ok := parseRotation(raw); ok {
					f.Bones[name] = rot
				}
			}
		}
		if wf.Face != nil {
			f.Face = &Face{}
			if wf.Face.HeadPitch != nil {
				f.Face.HeadPitch = *wf.Face.HeadPitch
			}
		}
		frames = append(frames, f)
	}

	tl := New(frames)
	if doc.Metadata != nil {
		tl.Metadata = *doc.Metadata
	}
	return tl
}

func parseRotation(raw json.RawMessage) (Rotation, bool) {
	var vals []float64
	if err := json.Unmarshal(raw, &vals); err != nil || len(vals) != 3 {
		return Rotation{}, false
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Rotation{}, false
		}
	}
	return Rotation{vals[0], vals[1], vals[2]}, true
}

// Encode writes t as a motion document with metadata.
func Encode(w io.Writer, t *Timeline) error {
	doc := wireDocument{Timeline: make([]wireFrame, 0, t.Len())}
	if t != nil {
		md := t.Metadata
		md.TotalFrames = t.Len()
		doc.Metadata = &md
	}
	for _, f := range t.Frames() {
		wf := wireFrame{Type: f.Kind}
		if f.Index >= 0 {
			idx := float64(f.Index)
			wf.FrameIdx = &idx
		}
		if f.Bones != nil {
			wf.Bones = make(map[string]json.RawMessage, len(f.Bones))
			for name, rot := range f.Bones {
				raw, err := json.Marshal([3]float64(rot))
				if err != nil {
					return fmt.Errorf("timeline: encode %s: %w", name, err)
				}
				wf.Bones[name] = raw
			}
		}
		if f.Face != nil {
			hp := f.Face.HeadPitch
			wf.Face = &wireFace{HeadPitch: &hp}
		}
		doc.Timeline = append(doc.Timeline, wf)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("timeline: encode: %w", err)
	}
	return nil
}
