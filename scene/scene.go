// Package scene holds the scene graph of the showcase: the camera, the
// light rig, the ground and the single model being shown.
package scene

import (
	"math"

	"github.com/ansipixels/showcase/math3d"
	"github.com/ansipixels/showcase/models"
	"github.com/ansipixels/showcase/render"
)

// Camera and rig defaults.
const (
	CameraFOVDegrees = 35
	CameraNear       = 0.1
	CameraFar        = 1000

	GroundSize     = 20
	GroundSegments = 20
	GroundY        = -0.001
)

var (
	CameraStart = math3d.V3(0, 1.2, 3)
	// OrbitTarget is the point the camera orbits and looks at.
	OrbitTarget = math3d.V3(0, 0.5, 0)

	GroundColor = render.Hex(0x0b0f14)
)

// DefaultLighting is a hemisphere fill plus one directional key light.
func DefaultLighting() render.Lighting {
	return render.Lighting{
		Hemisphere: render.HemisphereLight{
			Sky:       render.Hex(0xffffff),
			Ground:    render.Hex(0x444444),
			Intensity: 0.6,
			Position:  math3d.V3(0, 2, 0),
		},
		Directional: render.DirectionalLight{
			Color:     render.Hex(0xffffff),
			Intensity: 0.8,
			Position:  math3d.V3(3, 10, 10),
		},
	}
}

// Scene is the root of everything drawn in the viewer.
type Scene struct {
	Root   *Node
	Camera *render.Camera
	Lights render.Lighting
	Ground *Node

	model       *Node
	initialView math3d.Vec3
}

// New builds the camera, lights and ground for a width x height viewport.
func New(width, height int) *Scene {
	cam := render.NewCamera()
	cam.SetFOV(CameraFOVDegrees * math.Pi / 180)
	cam.SetClipPlanes(CameraNear, CameraFar)
	cam.SetPosition(CameraStart)
	cam.LookAt(OrbitTarget)

	s := &Scene{
		Root:        NewNode("scene"),
		Camera:      cam,
		Lights:      DefaultLighting(),
		initialView: cam.Position,
	}
	s.Resize(width, height)

	mat := NewMaterial("ground", GroundColor)
	mat.Roughness = 0.9
	ground := NewNode("ground")
	ground.Visual = NewMeshVisual(models.NewPlane("ground", GroundSize, GroundSize, GroundSegments), mat)
	ground.Rotation = math3d.RotateX(-math.Pi / 2)
	ground.Position.Y = GroundY
	s.Ground = ground
	s.Root.Add(ground)
	return s
}

// InitialCameraPosition is the camera position captured when the scene was
// created.
func (s *Scene) InitialCameraPosition() math3d.Vec3 {
	return s.initialView
}

// Resize updates the camera aspect for a new viewport. Empty viewports are
// ignored.
func (s *Scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.Camera.SetAspectRatio(float64(width) / float64(height))
}

// SetModel replaces the current model, if any, with n. A nil n just
// removes the current one.
func (s *Scene) SetModel(n *Node) {
	if s.model != nil {
		s.Root.Remove(s.model)
	}
	s.model = n
	if n != nil {
		s.Root.Add(n)
	}
}

// Model returns the current model root, or nil.
func (s *Scene) Model() *Node {
	return s.model
}

// ApplyColor recolors every material of the model. It does nothing when
// no model is attached.
func (s *Scene) ApplyColor(c render.Color) {
	if s.model == nil {
		return
	}
	s.model.Traverse(func(n *Node) {
		if n.Visual != nil {
			n.Visual.SetColor(c)
		}
	})
}

// ApplyHex is ApplyColor for a hex string such as "#ff8800".
func (s *Scene) ApplyHex(hex string) error {
	c, err := render.ParseHex(hex)
	if err != nil {
		return err
	}
	s.ApplyColor(c)
	return nil
}

// Draw renders every visual node with r. The caller clears the
// framebuffer and calls r.BeginFrame.
func (s *Scene) Draw(r *render.Rasterizer) {
	s.Root.walkWorld(math3d.Identity(), 0, func(n *Node, world math3d.Mat4, _ int) {
		if n.Visual != nil {
			n.Visual.Draw(r, world, s.Lights)
		}
	})
}
