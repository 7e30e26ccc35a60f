package camera

import (
	"math"

	"avatar-retarget/internal/mathutil"
)

// Framing defaults.
const (
	FitMargin  = 1.15 // distance multiplier so the subject is never cropped
	LookAtLift = 0.1  // look-at raised by this fraction of box height
	FollowRate = 0.08 // per-tick convergence toward the desired shot
)

// Framing is the shot the camera is converging toward on this tick.
type Framing struct {
	Center          mathutil.Vec3
	Size            mathutil.Vec3
	Distance        float64
	DesiredPosition mathutil.Vec3
	DesiredLookAt   mathutil.Vec3
}

// FitDistance returns the camera distance at which a box of the given size
// fits both vertically and horizontally, before margin. fov is the
// vertical field of view in radians, aspect is width/height.
func FitDistance(size mathutil.Vec3, fov, aspect float64) float64 {
	half := 2 * math.Tan(fov/2)
	fitHeight := size[1] / half
	fitWidth := size[0] / half / aspect
	return math.Max(fitHeight, fitWidth)
}

// Framer keeps a camera on a moving bounding box.
type Framer struct {
	Margin float64
	Lift   float64
	Rate   float64
}

func NewFramer() *Framer {
	return &Framer{Margin: FitMargin, Lift: LookAtLift, Rate: FollowRate}
}

// Desired computes the target shot for box. ok is false when the box is
// not valid yet or the viewport/FOV cannot frame anything.
func (f *Framer) Desired(box mathutil.Box3, fovDeg, aspect float64) (Framing, bool) {
	if !box.Valid() || aspect <= 0 || fovDeg <= 0 || fovDeg >= 180 {
		return Framing{}, false
	}
	size := box.Size()
	if size[0] == 0 && size[1] == 0 {
		return Framing{}, false
	}
	center := box.Center()
	dist := FitDistance(size, mathutil.Deg2Rad(fovDeg), aspect) * f.Margin

	lookAt := center
	lookAt[1] += size[1] * f.Lift
	pos := mathutil.Vec3{lookAt[0], lookAt[1], lookAt[2] + dist}

	return Framing{
		Center:          center,
		Size:            size,
		Distance:        dist,
		DesiredPosition: pos,
		DesiredLookAt:   lookAt,
	}, true
}

// Update moves cam a Rate fraction toward the desired shot and re-aims it
// at the smoothed target. A degenerate box leaves cam untouched.
func (f *Framer) Update(cam *Camera, box mathutil.Box3, vp Viewport) (Framing, bool) {
	fr, ok := f.Desired(box, cam.FOV, vp.Aspect())
	if !ok {
		return Framing{}, false
	}
	cam.Position = cam.Position.Lerp(fr.DesiredPosition, f.Rate)
	cam.Target = cam.Target.Lerp(fr.DesiredLookAt, f.Rate)
	return fr, true
}
