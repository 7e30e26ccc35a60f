package timeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEmptyTimeline(t *testing.T) {
	t.Parallel()
	for _, doc := range []string{`{}`, `{"timeline":[]}`, `{"timeline":null}`, `{"metadata":{"fps":30}}`} {
		tl, err := Unmarshal([]byte(doc))
		require.NoError(t, err, doc)
		assert.True(t, tl.Empty(), doc)
		_, ok := tl.Frame(0)
		assert.False(t, ok, doc)
	}
}

func TestDecodeFrames(t *testing.T) {
	t.Parallel()
	doc := `{
		"metadata": {"version": "1.0", "fps": 30, "total_frames": 2},
		"timeline": [
			{"bones": {"mixamorig_LeftUpperArm": [0, 0, 1.0], "broken": [1, 2], "text": "x", "Head": [0.1, 0.2, 0.3]},
			 "face": {"head_pitch": 0.25}, "frame_idx": 7},
			{"bones": {}, "face": {}, "type": "transition"}
		]
	}`
	tl, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 2, tl.Len())
	assert.Equal(t, Metadata{Version: "1.0", FPS: 30, TotalFrames: 2}, tl.Metadata)

	f0, ok := tl.Frame(0)
	require.True(t, ok)
	want := map[string]Rotation{
		"mixamorig_LeftUpperArm": {0, 0, 1.0},
		"Head":                   {0.1, 0.2, 0.3},
	}
	if diff := cmp.Diff(want, f0.Bones); diff != "" {
		t.Fatalf("bones mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, f0.Face)
	assert.Equal(t, 0.25, f0.Face.HeadPitch)
	assert.Equal(t, 7, f0.Index)

	f1, _ := tl.Frame(1)
	require.NotNil(t, f1.Face)
	assert.Zero(t, f1.Face.HeadPitch, "face without head_pitch targets 0")
	assert.Equal(t, KindTransition, f1.Kind)
	assert.Equal(t, -1, f1.Index)
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()
	_, err := Unmarshal([]byte(`{"timeline": 3}`))
	assert.Error(t, err)
	_, err = Decode(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestFrameWraps(t *testing.T) {
	t.Parallel()
	tl := New([]Frame{{Index: 0}, {Index: 1}, {Index: 2}})
	f, ok := tl.Frame(4)
	require.True(t, ok)
	assert.Equal(t, 1, f.Index)
	f, _ = tl.Frame(-1)
	assert.Equal(t, 2, f.Index)

	var none *Timeline
	assert.Zero(t, none.Len())
	assert.Nil(t, none.Frames())
	assert.InDelta(t, 0.1, tl.Duration(30), 1e-12)
	assert.Zero(t, tl.Duration(0))
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()
	tl := DefaultSampler().Sentence("HELLO AB")

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, tl))

	back, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, tl.Len(), back.Metadata.TotalFrames)
	if diff := cmp.Diff(tl.Frames(), back.Frames()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSampler(t *testing.T) {
	t.Parallel()
	s := NewSampler("mixamorig")

	t.Run("clips", func(t *testing.T) {
		assert.Len(t, s.Clip("hello"), 25)
		assert.Len(t, s.Clip("WORLD"), 30)
		assert.Len(t, s.Clip("NAME"), 15)
		assert.Len(t, s.Clip("IS"), 10)
		assert.Len(t, s.Clip("ABC"), 30)
		assert.Contains(t, s.Wave()[0].Bones, "mixamorigRightArm")
	})

	t.Run("spelling is deterministic", func(t *testing.T) {
		assert.Equal(t, s.Spell("Q"), s.Spell("Q"))
		assert.NotEqual(t, s.Spell("Q")[0].Bones["mixamorigRightHand"], s.Spell("R")[0].Bones["mixamorigRightHand"])
	})

	t.Run("transition", func(t *testing.T) {
		prev := []Frame{{Bones: map[string]Rotation{"a": {0, 0, 0}}}}
		next := []Frame{{Bones: map[string]Rotation{"a": {1.1, 0, 0}, "b": {0, 1.1, 0}}}}
		tr := Transition(prev, next, 10)
		require.Len(t, tr, 10)
		assert.InDelta(t, 0.1, tr[0].Bones["a"][0], 1e-12)
		assert.InDelta(t, 1.0, tr[9].Bones["b"][1], 1e-12)
		for _, f := range tr {
			assert.Equal(t, KindTransition, f.Kind)
		}
		assert.Nil(t, Transition(nil, next, 10))
	})

	t.Run("sentence", func(t *testing.T) {
		tl := s.Sentence("HELLO WORLD")
		assert.Equal(t, 25+TransitionSteps+30, tl.Len())
		for i, f := range tl.Frames() {
			assert.Equal(t, i, f.Index)
		}
		assert.Equal(t, tl.Len(), tl.Metadata.TotalFrames)
		assert.True(t, s.Sentence("   ").Empty())
	})
}
