package render

import (
	"math"

	"github.com/ansipixels/showcase/math3d"
)

// HemisphereLight blends a sky color (normals facing Position) with a ground
// color (normals facing away).
type HemisphereLight struct {
	Sky       Color
	Ground    Color
	Intensity float64
	Position  math3d.Vec3
}

// DirectionalLight shines from Position toward the origin.
type DirectionalLight struct {
	Color     Color
	Intensity float64
	Position  math3d.Vec3
}

// Lighting is the fixed light rig of a scene.
type Lighting struct {
	Hemisphere  HemisphereLight
	Directional DirectionalLight
}

// Irradiance returns the per-channel light factor for a world-space normal.
// Multiply a surface color by it to shade.
func (l Lighting) Irradiance(normal math3d.Vec3) math3d.Vec3 {
	n := normal.Normalize()
	h := l.Hemisphere
	w := 0.5*n.Dot(h.Position.Normalize()) + 0.5
	hemi := colorVec(h.Ground).Lerp(colorVec(h.Sky), w).Scale(h.Intensity)

	d := l.Directional
	diffuse := math.Max(0, n.Dot(d.Position.Normalize())) * d.Intensity
	return hemi.Add(colorVec(d.Color).Scale(diffuse))
}

// Shade applies the irradiance for normal to base.
func (l Lighting) Shade(base Color, normal math3d.Vec3) Color {
	return applyLight(base, l.Irradiance(normal))
}

func colorVec(c Color) math3d.Vec3 {
	return math3d.V3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

func applyLight(c Color, light math3d.Vec3) Color {
	return Color{
		clampByte(float64(c.R) * light.X),
		clampByte(float64(c.G) * light.Y),
		clampByte(float64(c.B) * light.Z),
	}
}
