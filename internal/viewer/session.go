// Package viewer owns the per-viewer playback pipeline and runs it once
// per render tick.
package viewer

import (
	"log/slog"

	"github.com/google/uuid"

	"avatar-retarget/internal/blend"
	"avatar-retarget/internal/camera"
	"avatar-retarget/internal/logging"
	"avatar-retarget/internal/mathutil"
	"avatar-retarget/internal/playback"
	"avatar-retarget/internal/registry"
	"avatar-retarget/internal/skeleton"
	"avatar-retarget/internal/timeline"
)

// SubjectOffset places the rig so a standing figure sits in the default shot.
var SubjectOffset = mathutil.Vec3{0, -0.9, 0}

// Options configures a session.
type Options struct {
	Prefixes []string       // vendor bone-name prefixes for the registry
	Policy   blend.Policy   // nil: blend.DefaultPolicy
	Camera   *camera.Camera // nil: camera.Default()
	Subject  *mathutil.Mat4 // nil: translate by SubjectOffset
	Logger   *slog.Logger
}

// TickInput is what the host supplies every frame.
type TickInput struct {
	Delta    float64 // seconds since the previous tick
	Viewport camera.Viewport
	Timeline *timeline.Timeline // polled; a new pointer restarts playback
}

// TickResult reports what one tick did.
type TickResult struct {
	State      playback.State
	Advanced   bool
	FrameIndex int
	Applied    int // bones blended
	Clamped    int // joints pulled back into range
	Framed     bool
	Framing    camera.Framing
}

// Session is one viewer instance: a skeleton, its registry and the
// blending, limiting and framing state that lives as long as the viewer.
type Session struct {
	ID uuid.UUID

	skeleton *skeleton.Skeleton
	registry *registry.Registry
	timeline *timeline.Timeline

	clock   playback.Clock
	blender *blend.Blender
	limiter *blend.Limiter
	framer  *camera.Framer
	camera  camera.Camera
	subject mathutil.Mat4

	prefixes []string
	log      *slog.Logger
}

// New creates a session on sk. A nil skeleton is allowed; the session then
// idles until SetSkeleton.
func New(sk *skeleton.Skeleton, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	cam := camera.Default()
	if opts.Camera != nil {
		cam = *opts.Camera
	}
	subject := mathutil.Mat4Translate(SubjectOffset)
	if opts.Subject != nil {
		subject = *opts.Subject
	}

	s := &Session{
		ID:       uuid.New(),
		blender:  blend.NewBlender(opts.Policy),
		limiter:  blend.NewLimiter(opts.Policy),
		framer:   camera.NewFramer(),
		camera:   cam,
		subject:  subject,
		prefixes: opts.Prefixes,
	}
	s.log = logger.With("session", s.ID.String())
	s.SetSkeleton(sk)
	return s
}

// SetSkeleton installs a new skeleton: the registry is rebuilt from
// scratch and the rest-pose bias applied once. Installing the same
// skeleton again is a no-op.
func (s *Session) SetSkeleton(sk *skeleton.Skeleton) {
	if sk == s.skeleton && s.registry != nil {
		return
	}
	s.skeleton = sk
	s.registry = registry.Build(sk, registry.Options{Prefixes: s.prefixes, Logger: s.log})
	if sk == nil {
		return
	}
	biased := blend.ApplyRestBias(s.registry)
	s.log.Debug("skeleton installed", "rig", sk.Name, "bones", sk.Len(), "keys", s.registry.Len(), "biased", len(biased))
}

// Tick runs one render tick: clock, blend, limit, then camera framing.
func (s *Session) Tick(in TickInput) TickResult {
	if in.Timeline != s.timeline {
		s.timeline = in.Timeline
		s.clock.Reset(in.Timeline.Len())
		s.log.Debug("timeline installed", "frames", in.Timeline.Len(), "state", s.clock.State())
	}

	var res TickResult
	if s.clock.State() == playback.Playing && s.skeleton != nil {
		res.Advanced, res.FrameIndex = s.clock.Advance(in.Delta)
		if f, ok := s.timeline.Frame(res.FrameIndex); ok {
			res.Applied = s.blender.Apply(&f, s.registry)
			res.Clamped = s.limiter.Clamp(s.registry)
		}
	}
	res.State = s.clock.State()

	if s.skeleton != nil {
		box := skeleton.Bounds(s.skeleton, s.subject)
		res.Framing, res.Framed = s.framer.Update(&s.camera, box, in.Viewport)
	}
	return res
}

// Camera returns the current camera transform.
func (s *Session) Camera() camera.Camera { return s.camera }

// Skeleton returns the posed skeleton.
func (s *Session) Skeleton() *skeleton.Skeleton { return s.skeleton }

// Registry returns the registry for the current skeleton.
func (s *Session) Registry() *registry.Registry { return s.registry }

// Subject returns the rig's world placement.
func (s *Session) Subject() mathutil.Mat4 { return s.subject }

// State reports whether the session is playing.
func (s *Session) State() playback.State { return s.clock.State() }

// FrameIndex returns the clock's current frame.
func (s *Session) FrameIndex() int { return s.clock.Index() }

// WorldMatrices returns the current world transform of every bone.
func (s *Session) WorldMatrices() []mathutil.Mat4 {
	if s.skeleton == nil {
		return nil
	}
	return skeleton.BuildWorldMatrices(s.skeleton, s.subject)
}
