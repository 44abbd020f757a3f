package scene

import (
	"math"

	"github.com/ansipixels/showcase/math3d"
	"github.com/ansipixels/showcase/render"
	"github.com/charmbracelet/harmonica"
)

// Orbit limits.
const (
	MinDistance = 0.5
	MaxDistance = 50
	polarEps    = 1e-3
	restEps     = 1e-6
)

// axis is one velocity that decays to zero on a critically damped spring.
type axis struct {
	Velocity float64
	accel    float64 // spring's own velocity while animating Velocity to 0
	spring   harmonica.Spring
}

func newAxis(fps int) axis {
	return axis{spring: harmonica.NewSpring(harmonica.FPS(max(fps, 1)), 4.0, 1.0)}
}

// step returns the velocity to apply this frame and decays it.
func (a *axis) step() float64 {
	v := a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
	if math.Abs(a.Velocity) < restEps && math.Abs(a.accel) < restEps {
		a.Velocity, a.accel = 0, 0
	}
	return v
}

// OrbitControls moves a camera around a target point with damped
// rotation, pan and zoom.
type OrbitControls struct {
	Target math3d.Vec3

	camera *render.Camera
	home   math3d.Vec3
	fps    int

	azimuth, polar, zoom, panX, panY axis
}

// NewOrbitControls drives camera, which Reset returns to home.
func NewOrbitControls(camera *render.Camera, home math3d.Vec3, fps int) *OrbitControls {
	o := &OrbitControls{camera: camera, home: home, fps: fps}
	o.Reset()
	return o
}

// Rotate adds angular velocity, in radians per frame, around the target.
// Positive values move the camera right and up.
func (o *OrbitControls) Rotate(dAzimuth, dPolar float64) {
	o.azimuth.Velocity += dAzimuth
	o.polar.Velocity += dPolar
}

// Pan adds velocity moving the camera and target right and up in the view
// plane, in units of the current distance per frame.
func (o *OrbitControls) Pan(dx, dy float64) {
	o.panX.Velocity += dx
	o.panY.Velocity += dy
}

// Zoom adds log-distance velocity; positive values move closer.
func (o *OrbitControls) Zoom(amount float64) {
	o.zoom.Velocity += amount
}

// Moving reports whether any velocity is still decaying.
func (o *OrbitControls) Moving() bool {
	return o.azimuth.Velocity != 0 || o.polar.Velocity != 0 || o.zoom.Velocity != 0 ||
		o.panX.Velocity != 0 || o.panY.Velocity != 0
}

// Update advances one frame. The camera is untouched when nothing moves.
func (o *OrbitControls) Update() bool {
	if !o.Moving() {
		return false
	}
	dAz, dPolar, dZoom := o.azimuth.step(), o.polar.step(), o.zoom.step()
	px, py := o.panX.step(), o.panY.step()

	offset := o.camera.Position.Sub(o.Target)
	r := offset.Len()
	if r == 0 {
		r = MinDistance
		offset = math3d.V3(0, 0, r)
	}
	theta := math.Atan2(offset.X, offset.Z)
	phi := math.Acos(math.Max(-1, math.Min(1, offset.Y/r)))

	theta += dAz
	phi = math.Max(polarEps, math.Min(math.Pi-polarEps, phi-dPolar))
	r = math.Max(MinDistance, math.Min(MaxDistance, r*math.Exp(-dZoom)))

	if px != 0 || py != 0 {
		forward := offset.Scale(-1).Normalize()
		right := forward.Cross(o.camera.Up).Normalize()
		up := right.Cross(forward)
		o.Target = o.Target.Add(right.Scale(px * r)).Add(up.Scale(py * r))
	}

	sinPhi := math.Sin(phi)
	o.camera.SetPosition(o.Target.Add(math3d.V3(
		r*sinPhi*math.Sin(theta),
		r*math.Cos(phi),
		r*sinPhi*math.Cos(theta),
	)))
	o.camera.LookAt(o.Target)
	return true
}

// Reset stops all motion and puts the camera back at its home position,
// looking at OrbitTarget.
func (o *OrbitControls) Reset() {
	o.azimuth, o.polar, o.zoom = newAxis(o.fps), newAxis(o.fps), newAxis(o.fps)
	o.panX, o.panY = newAxis(o.fps), newAxis(o.fps)
	o.Target = OrbitTarget
	o.camera.SetPosition(o.home)
	o.camera.LookAt(o.Target)
}

// Distance is the current camera to target distance.
func (o *OrbitControls) Distance() float64 {
	return o.camera.Position.Sub(o.Target).Len()
}
