// Package models holds triangle mesh geometry: the Mesh type shared by the
// scene graph and the rasterizer, procedural primitives and the STL parser.
package models

import (
	"github.com/ansipixels/showcase/math3d"
)

// Mesh is indexed triangle geometry. Faces reference a material slot on the
// visual that owns the mesh, so one mesh can carry several materials.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face is a triangle with its material slot.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Material slot, -1 for the default slot
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// HasNormals reports whether any vertex carries a usable normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.Len() > 0.001 {
			return true
		}
	}
	return false
}

// CalculateNormals assigns each face's normal to its vertices (flat shading).
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		normal := m.faceNormal(f).Normalize()
		for _, idx := range f.V {
			m.Vertices[idx].Normal = normal
		}
	}
}

// CalculateSmoothNormals computes area weighted averaged normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}
	for _, f := range m.Faces {
		normal := m.faceNormal(f) // unnormalized: weight by area
		for _, idx := range f.V {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(normal)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// Transform bakes a matrix into positions and normals.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		m.Vertices[i].Normal = mat.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// GetVertex returns the position, normal, and UV for vertex i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// GetFace returns the vertex indices for face i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetFaceMaterial returns the material slot for face i (-1 for default).
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetBounds returns the axis-aligned bounding box.
func (m *Mesh) GetBounds() (minB, maxB math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}

// faceKey creates a canonical key for a face by sorting vertex indices.
// Two faces with the same vertices (in any order) will have the same key.
func faceKey(v0, v1, v2 int) [3]int {
	if v0 > v1 {
		v0, v1 = v1, v0
	}
	if v1 > v2 {
		v1, v2 = v2, v1
	}
	if v0 > v1 {
		v0, v1 = v1, v0
	}
	return [3]int{v0, v1, v2}
}

// Clean removes degenerate and duplicate faces, then drops vertices no face
// references. Returns the number of faces removed.
func (m *Mesh) Clean() int {
	removed := m.RemoveDegenerateFaces() + m.DeduplicateFaces()
	m.RemoveUnreferencedVertices()
	m.CalculateBounds()
	return removed
}

// DeduplicateFaces keeps the first of any faces sharing the same three
// vertices, whatever their order. Returns the number of faces removed.
func (m *Mesh) DeduplicateFaces() int {
	seen := make(map[[3]int]bool, len(m.Faces))
	kept := m.Faces[:0]
	for _, f := range m.Faces {
		key := faceKey(f.V[0], f.V[1], f.V[2])
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, f)
	}
	removed := len(m.Faces) - len(kept)
	m.Faces = kept
	return removed
}

// RemoveDegenerateFaces removes faces with repeated indices or near-zero area.
func (m *Mesh) RemoveDegenerateFaces() int {
	const minArea = 1e-10
	kept := m.Faces[:0]
	for _, f := range m.Faces {
		if f.V[0] == f.V[1] || f.V[1] == f.V[2] || f.V[0] == f.V[2] {
			continue
		}
		if m.faceNormal(f).Len()*0.5 <= minArea {
			continue
		}
		kept = append(kept, f)
	}
	removed := len(m.Faces) - len(kept)
	m.Faces = kept
	return removed
}

// RemoveUnreferencedVertices compacts the vertex array and remaps faces.
func (m *Mesh) RemoveUnreferencedVertices() {
	if len(m.Vertices) == 0 {
		return
	}
	newIndex := make([]int, len(m.Vertices))
	for i := range newIndex {
		newIndex[i] = -1
	}
	vertices := make([]MeshVertex, 0, len(m.Vertices))
	for i := range m.Faces {
		for k, idx := range m.Faces[i].V {
			if newIndex[idx] < 0 {
				newIndex[idx] = len(vertices)
				vertices = append(vertices, m.Vertices[idx])
			}
			m.Faces[i].V[k] = newIndex[idx]
		}
	}
	m.Vertices = vertices
}
