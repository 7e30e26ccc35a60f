package timeline

import (
	"math"
	"math/rand/v2"
	"strings"

	"avatar-retarget/internal/skeleton"
)

// SampleFPS is the frame rate sample clips are authored for.
const SampleFPS = 30

// TransitionSteps is the number of frames blended between consecutive clips.
const TransitionSteps = 10

// Sampler generates placeholder sign clips for gloss words, for demos and
// for exercising the player without a motion server.
type Sampler struct {
	prefix string
}

// NewSampler names bones with the given armature prefix.
func NewSampler(prefix string) *Sampler {
	return &Sampler{prefix: prefix}
}

func (s *Sampler) bone(name string) string { return s.prefix + name }

// basePose is the neutral signing pose: arms down, forearms forward.
func (s *Sampler) basePose() map[string]Rotation {
	return map[string]Rotation{
		s.bone("RightArm"):     {0, 0, -1.2},
		s.bone("LeftArm"):      {0, 0, 1.2},
		s.bone("RightForeArm"): {0, 0.8, 0},
		s.bone("LeftForeArm"):  {0, -0.8, 0},
		s.bone("RightHand"):    {0, 0, 0},
		s.bone("LeftHand"):     {0, 0, 0},
		s.bone("Spine"):        {0.1, 0, 0},
	}
}

func withBones(base map[string]Rotation, over map[string]Rotation) map[string]Rotation {
	out := make(map[string]Rotation, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Neutral holds the base pose for n frames.
func (s *Sampler) Neutral(n int) []Frame {
	frames := make([]Frame, 0, n)
	for i := 0; i < n; i++ {
		frames = append(frames, Frame{Bones: s.basePose(), Face: &Face{}, Index: -1})
	}
	return frames
}

// Wave is a right-hand wave with the left hand held neutral.
func (s *Sampler) Wave() []Frame {
	frames := make([]Frame, 0, 25)
	for i := 0; i < 25; i++ {
		a := 0.5 * math.Sin(float64(i)*0.4)
		frames = append(frames, Frame{
			Bones: withBones(s.basePose(), map[string]Rotation{
				s.bone("RightArm"):     {0.2, 0, -1.3},
				s.bone("RightForeArm"): {0, 1.2 + a, 0},
				s.bone("RightHand"):    {0, 0, a * 0.4},
				s.bone("Head"):         {0, a * 0.1, 0},
			}),
			Face:  &Face{HeadPitch: 0.05},
			Index: -1,
		})
	}
	return frames
}

// Circle moves both hands through one synchronized circle.
func (s *Sampler) Circle() []Frame {
	frames := make([]Frame, 0, 30)
	for i := 0; i < 30; i++ {
		theta := float64(i) / 30 * 2 * math.Pi
		frames = append(frames, Frame{
			Bones: withBones(s.basePose(), map[string]Rotation{
				s.bone("RightArm"):     {0.3, 0.2 * math.Cos(theta), -1.0},
				s.bone("LeftArm"):      {0.3, -0.2 * math.Cos(theta), 1.0},
				s.bone("RightForeArm"): {0, 1.0 + 0.3*math.Sin(theta), 0},
				s.bone("LeftForeArm"):  {0, -1.0 - 0.3*math.Sin(theta), 0},
			}),
			Face:  &Face{HeadPitch: 0.1},
			Index: -1,
		})
	}
	return frames
}

// Spell gives every character a deterministic hand shape held for ten frames.
func (s *Sampler) Spell(word string) []Frame {
	var frames []Frame
	for _, r := range word {
		rng := rand.New(rand.NewPCG(uint64(r), 0))
		var target Rotation
		for k := range target {
			target[k] = -0.3 + rng.Float64()*0.6
		}
		mirrored := Rotation{-target[0], -target[1], -target[2]}
		for i := 0; i < 10; i++ {
			frames = append(frames, Frame{
				Bones: withBones(s.basePose(), map[string]Rotation{
					s.bone("RightHand"): target,
					s.bone("LeftHand"):  mirrored,
				}),
				Index: -1,
			})
		}
	}
	return frames
}

// Clip returns the frames for one gloss word.
func (s *Sampler) Clip(gloss string) []Frame {
	switch strings.ToUpper(strings.TrimSpace(gloss)) {
	case "HELLO":
		return s.Wave()
	case "WORLD":
		return s.Circle()
	case "NAME":
		return s.Neutral(15)
	case "IS":
		return s.Neutral(10)
	}
	return s.Spell(gloss)
}

// Transition linearly blends Euler rotations from the last frame of prev
// to the first frame of next over steps frames. Bones missing on one side
// blend from or to zero.
func Transition(prev, next []Frame, steps int) []Frame {
	if len(prev) == 0 || len(next) == 0 || steps <= 0 {
		return nil
	}
	from := prev[len(prev)-1].Bones
	to := next[0].Bones

	names := make(map[string]struct{}, len(from)+len(to))
	for k := range from {
		names[k] = struct{}{}
	}
	for k := range to {
		names[k] = struct{}{}
	}

	frames := make([]Frame, 0, steps)
	for i := 1; i <= steps; i++ {
		alpha := float64(i) / float64(steps+1)
		bones := make(map[string]Rotation, len(names))
		for name := range names {
			a, b := from[name], to[name]
			bones[name] = Rotation{
				a[0]*(1-alpha) + b[0]*alpha,
				a[1]*(1-alpha) + b[1]*alpha,
				a[2]*(1-alpha) + b[2]*alpha,
			}
		}
		frames = append(frames, Frame{Bones: bones, Index: -1, Kind: KindTransition})
	}
	return frames
}

// Sentence concatenates the clips for every word of a gloss sentence with
// transitions between them and stamps sequential frame indices.
func (s *Sampler) Sentence(gloss string) *Timeline {
	var seq []Frame
	for _, word := range strings.Fields(gloss) {
		clip := s.Clip(word)
		if len(seq) > 0 {
			seq = append(seq, Transition(seq, clip, TransitionSteps)...)
		}
		seq = append(seq, clip...)
	}
	for i := range seq {
		seq[i].Index = i
	}

	tl := New(seq)
	tl.Metadata = Metadata{Version: "1.0", FPS: SampleFPS, TotalFrames: len(seq)}
	return tl
}

// DefaultSampler uses the Mixamo armature prefix.
func DefaultSampler() *Sampler {
	return NewSampler(skeleton.DefaultPrefix)
}
