package scene

import (
	"github.com/ansipixels/showcase/math3d"
	"github.com/ansipixels/showcase/models"
	"github.com/ansipixels/showcase/render"
)

// Material is the look of part of a mesh.
type Material struct {
	Name      string
	Color     render.Color
	Metallic  float64
	Roughness float64
	Texture   *render.Texture // Base color map, optional

	// NeedsUpdate marks the material as changed since it was last drawn.
	NeedsUpdate bool
}

// NewMaterial returns a dielectric, fully rough material.
func NewMaterial(name string, c render.Color) *Material {
	return &Material{Name: name, Color: c, Roughness: 1}
}

// Visual is anything a node can draw.
type Visual interface {
	// Bounds returns the box of the geometry under the world transform.
	Bounds(world math3d.Mat4) (minB, maxB math3d.Vec3, ok bool)
	// SetColor overwrites the color of every material.
	SetColor(c render.Color)
	Draw(r *render.Rasterizer, world math3d.Mat4, lights render.Lighting)
}

// MeshVisual draws a mesh whose faces index into Materials.
type MeshVisual struct {
	Mesh      *models.Mesh
	Materials []*Material
	Wireframe bool

	surfaces []render.Surface
}

// NewMeshVisual pairs a mesh with its materials.
func NewMeshVisual(mesh *models.Mesh, materials ...*Material) *MeshVisual {
	return &MeshVisual{Mesh: mesh, Materials: materials}
}

// Bounds implements Visual.
func (v *MeshVisual) Bounds(world math3d.Mat4) (minB, maxB math3d.Vec3, ok bool) {
	if v.Mesh == nil || len(v.Mesh.Vertices) == 0 {
		return minB, maxB, false
	}
	minB = world.MulVec3(v.Mesh.Vertices[0].Position)
	maxB = minB
	for _, vert := range v.Mesh.Vertices[1:] {
		p := world.MulVec3(vert.Position)
		minB, maxB = minB.Min(p), maxB.Max(p)
	}
	return minB, maxB, true
}

// SetColor implements Visual. Textures, metallic and roughness are kept.
func (v *MeshVisual) SetColor(c render.Color) {
	for _, m := range v.Materials {
		m.Color = c
		m.NeedsUpdate = true
	}
}

// Draw implements Visual.
func (v *MeshVisual) Draw(r *render.Rasterizer, world math3d.Mat4, lights render.Lighting) {
	if v.Mesh == nil {
		return
	}
	if v.Wireframe {
		c := render.ColorWhite
		if len(v.Materials) > 0 {
			c = v.Materials[0].Color
		}
		r.DrawMeshWireframe(v.Mesh, world, c)
		return
	}
	r.DrawMesh(v.Mesh, world, v.Surfaces(), lights)
}

// Surfaces returns the resolved per-slot surfaces, rebuilding them for
// materials marked NeedsUpdate.
func (v *MeshVisual) Surfaces() []render.Surface {
	if len(v.surfaces) != len(v.Materials) {
		v.surfaces = make([]render.Surface, len(v.Materials))
		for _, m := range v.Materials {
			m.NeedsUpdate = true
		}
	}
	for i, m := range v.Materials {
		if !m.NeedsUpdate {
			continue
		}
		v.surfaces[i] = render.Surface{Color: m.Color, Texture: m.Texture}
		m.NeedsUpdate = false
	}
	return v.surfaces
}
