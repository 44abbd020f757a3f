package models

import (
	"testing"

	"github.com/ansipixels/showcase/math3d"
)

func TestFaceKey(t *testing.T) {
	tests := []struct {
		name       string
		v0, v1, v2 int
		want       [3]int
	}{
		{"already sorted", 0, 1, 2, [3]int{0, 1, 2}},
		{"reverse order", 2, 1, 0, [3]int{0, 1, 2}},
		{"middle first", 1, 0, 2, [3]int{0, 1, 2}},
		{"rotated", 1, 2, 0, [3]int{0, 1, 2}},
		{"with gaps", 5, 10, 3, [3]int{3, 5, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := faceKey(tt.v0, tt.v1, tt.v2)
			if got != tt.want {
				t.Errorf("faceKey(%d, %d, %d) = %v, want %v", tt.v0, tt.v1, tt.v2, got, tt.want)
			}
		})
	}
}

func quad() *Mesh {
	mesh := NewMesh("test")
	mesh.Vertices = []MeshVertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(0, 1, 0)},
		{Position: math3d.V3(1, 1, 0)},
	}
	return mesh
}

func TestDeduplicateFaces(t *testing.T) {
	mesh := quad()
	mesh.Faces = []Face{
		{V: [3]int{0, 1, 2}}, // unique
		{V: [3]int{0, 1, 2}}, // exact duplicate
		{V: [3]int{2, 0, 1}}, // same vertices, different order
		{V: [3]int{1, 3, 2}}, // unique
	}
	removed := mesh.DeduplicateFaces()
	if removed != 2 {
		t.Errorf("DeduplicateFaces() removed %d faces, want 2", removed)
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("After dedup: TriangleCount = %d, want 2", mesh.TriangleCount())
	}
}

func TestRemoveDegenerateFaces(t *testing.T) {
	mesh := quad()
	mesh.Vertices[3].Position = math3d.V3(2, 0, 0) // collinear with 0 and 1
	mesh.Faces = []Face{
		{V: [3]int{0, 1, 2}}, // valid
		{V: [3]int{0, 0, 1}}, // repeated index
		{V: [3]int{0, 1, 3}}, // zero area
	}
	if removed := mesh.RemoveDegenerateFaces(); removed != 2 {
		t.Errorf("RemoveDegenerateFaces() removed %d faces, want 2", removed)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("TriangleCount = %d, want 1", mesh.TriangleCount())
	}
}

func TestCleanDropsUnreferencedVertices(t *testing.T) {
	mesh := quad()
	mesh.Vertices = append(mesh.Vertices, MeshVertex{Position: math3d.V3(5, 5, 5)})
	mesh.Faces = []Face{
		{V: [3]int{0, 1, 3}},
		{V: [3]int{3, 0, 1}}, // duplicate
		{V: [3]int{0, 0, 1}}, // degenerate
	}
	if removed := mesh.Clean(); removed != 2 {
		t.Errorf("Clean() removed %d faces, want 2", removed)
	}
	if mesh.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", mesh.VertexCount())
	}
	if mesh.Faces[0].V != [3]int{0, 1, 2} {
		t.Errorf("face after remap = %v, want [0 1 2]", mesh.Faces[0].V)
	}
	if mesh.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("bounds should shrink to referenced vertices, max = %v", mesh.BoundsMax)
	}
}

func TestCalculateNormalsCounterClockwiseFacesUp(t *testing.T) {
	mesh := quad()
	mesh.Faces = []Face{{V: [3]int{0, 1, 2}}}
	mesh.CalculateNormals()
	if got := mesh.Vertices[0].Normal; got != math3d.V3(0, 0, 1) {
		t.Errorf("normal = %v, want +Z", got)
	}
	if !mesh.HasNormals() {
		t.Error("HasNormals() = false after CalculateNormals")
	}
}

func TestBoxIsUnitCubeWithOutwardNormals(t *testing.T) {
	box := NewBox("cube", 1, 1, 1)
	if box.TriangleCount() != 12 || box.VertexCount() != 24 {
		t.Fatalf("box has %d triangles / %d vertices, want 12 / 24", box.TriangleCount(), box.VertexCount())
	}
	if box.BoundsMin != math3d.V3(-0.5, -0.5, -0.5) || box.BoundsMax != math3d.V3(0.5, 0.5, 0.5) {
		t.Errorf("bounds = %v..%v", box.BoundsMin, box.BoundsMax)
	}
	for i, f := range box.Faces {
		geometric := box.faceNormal(f).Normalize()
		stored := box.Vertices[f.V[0]].Normal
		if !geometric.ApproxEqual(stored, 1e-9) {
			t.Errorf("face %d winding normal %v disagrees with stored %v", i, geometric, stored)
		}
		if geometric.Dot(box.Vertices[f.V[0]].Position) <= 0 {
			t.Errorf("face %d normal %v points inward", i, geometric)
		}
	}
}

func TestPlaneGrid(t *testing.T) {
	plane := NewPlane("ground", 20, 20, 4)
	if plane.VertexCount() != 25 || plane.TriangleCount() != 32 {
		t.Errorf("plane has %d vertices / %d triangles, want 25 / 32", plane.VertexCount(), plane.TriangleCount())
	}
	if plane.BoundsMin != math3d.V3(-10, -10, 0) || plane.BoundsMax != math3d.V3(10, 10, 0) {
		t.Errorf("bounds = %v..%v", plane.BoundsMin, plane.BoundsMax)
	}
	for _, f := range plane.Faces {
		if n := plane.faceNormal(f); n.Z <= 0 {
			t.Fatalf("plane face %v faces away from +Z", f.V)
		}
	}
	if got := NewPlane("p", 1, 1, 0).TriangleCount(); got != 2 {
		t.Errorf("zero segments should clamp to one quad, got %d triangles", got)
	}
}
