package render

import "github.com/ansipixels/showcase/math3d"

// Camera is a perspective camera looking at a target point.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3
	Up       math3d.Vec3
	FOV      float64 // Vertical field of view, radians
	Aspect   float64 // Width / height
	Near     float64
	Far      float64
}

// NewCamera returns a camera at +Z looking at the origin.
func NewCamera() *Camera {
	return &Camera{
		Position: math3d.V3(0, 0, 5),
		Up:       math3d.V3(0, 1, 0),
		FOV:      1.0472, // 60 degrees
		Aspect:   1,
		Near:     0.1,
		Far:      100,
	}
}

// SetAspectRatio sets width / height. Non-positive values are ignored.
func (c *Camera) SetAspectRatio(aspect float64) {
	if aspect > 0 {
		c.Aspect = aspect
	}
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
}

// SetClipPlanes sets the near and far clip distances.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near, c.Far = near, far
}

// SetPosition moves the camera.
func (c *Camera) SetPosition(p math3d.Vec3) {
	c.Position = p
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.Target = target
}

// ViewMatrix returns the world to view transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return math3d.LookAt(c.Position, c.Target, c.Up)
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	return math3d.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}
