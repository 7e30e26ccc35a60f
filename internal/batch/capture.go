package batch

import (
	"image/color"

	"avatar-retarget/internal/blend"
	"avatar-retarget/internal/camera"
	"avatar-retarget/internal/playback"
	"avatar-retarget/internal/raster"
	"avatar-retarget/internal/skeleton"
	"avatar-retarget/internal/timeline"
	"avatar-retarget/internal/viewer"
)

// Bone colors by body side.
var (
	ColorCenter = color.NRGBA{150, 152, 162, 255}
	ColorLeft   = color.NRGBA{70, 130, 210, 255}
	ColorRight  = color.NRGBA{220, 120, 60, 255}
)

// Frame is one captured still: a detached pose and the camera that framed it.
type Frame struct {
	Index         int     // output frame number
	Tick          int     // host tick the capture was taken on
	Time          float64 // host seconds since the start of the run
	TimelineFrame int     // clock index at capture, -1 while idle
	Pose          raster.Pose
	Camera        camera.Camera
}

// CaptureOptions drives a simulated render host.
type CaptureOptions struct {
	Ticks     int     // host ticks to run
	RenderFPS float64 // host tick rate, default 60
	Every     int     // capture every N ticks, default 2
	Viewport  camera.Viewport

	// Timeline is polled once per tick, the way a host reads the loader's
	// current snapshot. Nil means no motion.
	Timeline func() *timeline.Timeline
}

// Capture runs the session for opts.Ticks ticks on the calling goroutine
// and returns the captured frames in order.
func Capture(s *viewer.Session, opts CaptureOptions) []Frame {
	if opts.RenderFPS <= 0 {
		opts.RenderFPS = 60
	}
	if opts.Every <= 0 {
		opts.Every = 2
	}
	dt := 1 / opts.RenderFPS

	var frames []Frame
	for tick := 0; tick < opts.Ticks; tick++ {
		var tl *timeline.Timeline
		if opts.Timeline != nil {
			tl = opts.Timeline()
		}
		res := s.Tick(viewer.TickInput{Delta: dt, Viewport: opts.Viewport, Timeline: tl})
		if tick%opts.Every != 0 {
			continue
		}
		idx := -1
		if res.State == playback.Playing {
			idx = s.FrameIndex()
		}
		frames = append(frames, Frame{
			Index:         len(frames),
			Tick:          tick,
			Time:          float64(tick) * dt,
			TimelineFrame: idx,
			Pose:          PoseOf(s),
			Camera:        s.Camera(),
		})
	}
	return frames
}

// PoseOf snapshots the session's skeleton into a renderable pose.
func PoseOf(s *viewer.Session) raster.Pose {
	sk := s.Skeleton()
	if sk == nil {
		return raster.Pose{}
	}
	reg := s.Registry()
	joints := skeleton.JointPositions(s.WorldMatrices())
	p := raster.Pose{
		Joints:  joints,
		Parents: make([]int, sk.Len()),
		Colors:  make([]color.NRGBA, sk.Len()),
	}
	for i, b := range sk.Bones() {
		p.Parents[i] = b.Parent
		switch blend.SideOf(reg.CanonicalOf(b)) {
		case blend.Left:
			p.Colors[i] = ColorLeft
		case blend.Right:
			p.Colors[i] = ColorRight
		default:
			p.Colors[i] = ColorCenter
		}
	}
	return p
}
