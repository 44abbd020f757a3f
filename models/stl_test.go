package models

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ansipixels/showcase/math3d"
)

const squareSTL = `solid square
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 1 1 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 1 0
      vertex 0 1 0
    endloop
  endfacet
endsolid square`

func TestSTLLoaderASCII(t *testing.T) {
	mesh, err := NewSTLLoader().Load(strings.NewReader(squareSTL), "test.stl")
	if err != nil {
		t.Fatalf("Failed to load ASCII STL: %v", err)
	}
	if mesh.Name != "square" {
		t.Errorf("Name = %q, want %q", mesh.Name, "square")
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("TriangleCount = %d, want 2", mesh.TriangleCount())
	}
	// Should have 4 unique vertices (square)
	if mesh.VertexCount() != 4 {
		t.Errorf("VertexCount = %d, want 4 (welded)", mesh.VertexCount())
	}
	if mesh.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("BoundsMax = %v", mesh.BoundsMax)
	}
}

func binarySTL(tris ...[4]math3d.Vec3) []byte {
	var buf bytes.Buffer
	header := make([]byte, 80)
	copy(header, "solid but actually binary")
	buf.Write(header)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(tris)))
	for _, tri := range tris {
		for _, v := range tri {
			_ = binary.Write(&buf, binary.LittleEndian, [3]float32{float32(v.X), float32(v.Y), float32(v.Z)})
		}
		_ = binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

func TestSTLLoaderBinary(t *testing.T) {
	data := binarySTL([4]math3d.Vec3{
		math3d.V3(0, 0, 1), // normal
		math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0),
	})
	mesh, err := NewSTLLoader().LoadBytes(data, "test.stl")
	if err != nil {
		t.Fatalf("Failed to load binary STL: %v", err)
	}
	if mesh.TriangleCount() != 1 || mesh.VertexCount() != 3 {
		t.Errorf("got %d triangles / %d vertices, want 1 / 3", mesh.TriangleCount(), mesh.VertexCount())
	}
	if v := mesh.Vertices[0]; v.Normal.Z != 1.0 {
		t.Errorf("Normal.Z = %f, want 1.0", v.Normal.Z)
	}
}

func TestSTLBinaryTruncated(t *testing.T) {
	data := binarySTL([4]math3d.Vec3{{}, math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)})
	// Claim two triangles but carry one; header does not start with "solid".
	copy(data, "BINARY")
	binary.LittleEndian.PutUint32(data[80:], 2)
	if _, err := NewSTLLoader().LoadBytes(data, "bad.stl"); err == nil {
		t.Error("expected error for truncated binary STL")
	}
}

func TestSTLDetection(t *testing.T) {
	if isBinarySTL([]byte("solid test\nfacet normal 0 0 1\n")) {
		t.Error("ASCII STL detected as binary")
	}
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(0))
	if !isBinarySTL(buf.Bytes()) {
		t.Error("Binary STL not detected")
	}
}

func TestSTLEmptyIsNoGeometry(t *testing.T) {
	_, err := NewSTLLoader().LoadBytes([]byte("solid empty\nendsolid empty\n"), "empty.stl")
	if !errors.Is(err, ErrNoGeometry) {
		t.Errorf("err = %v, want ErrNoGeometry", err)
	}
}

func TestSTLVertexOutsideLoop(t *testing.T) {
	_, err := NewSTLLoader().LoadBytes([]byte("solid x\nvertex 0 0 0\nendsolid x\n"), "x.stl")
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("err = %v, want line 2 error", err)
	}
}

func TestSTLSmoothNormals(t *testing.T) {
	// Two triangles at 90 degrees sharing an edge
	asciiSTL := `solid test
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 0 1
    endloop
  endfacet
  facet normal 0 -1 0
    outer loop
      vertex 0 0 0
      vertex 0 0 1
      vertex 0 -1 0
    endloop
  endfacet
endsolid test`

	loader := NewSTLLoader()
	loader.SmoothNormals = true
	mesh, err := loader.Load(strings.NewReader(asciiSTL), "test.stl")
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	for _, v := range mesh.Vertices {
		if l := v.Normal.Len(); math.Abs(l-1) > 0.001 {
			t.Errorf("vertex %v normal not unit length: %f", v.Position, l)
		}
	}
}
