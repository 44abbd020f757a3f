package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ansipixels/showcase/math3d"
)

// ErrNoGeometry is returned when a file parses but holds no triangles.
var ErrNoGeometry = errors.New("no triangles")

// STLLoader parses STL (stereolithography) data in ASCII or binary form.
type STLLoader struct {
	SmoothNormals  bool    // Average normals per welded vertex instead of keeping facet normals
	Clean          bool    // Remove degenerate and duplicate faces after loading
	MergeTolerance float64 // Grid size used to weld vertices, 0 for exact matching
}

// NewSTLLoader creates a new STL loader with default settings.
func NewSTLLoader() *STLLoader {
	return &STLLoader{}
}

// Load reads all of r and parses it. The format is sniffed from the content.
func (l *STLLoader) Load(r io.Reader, name string) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read STL data: %w", err)
	}
	return l.LoadBytes(data, name)
}

// LoadBytes parses STL from a byte slice.
func (l *STLLoader) LoadBytes(data []byte, name string) (*Mesh, error) {
	b := newWelder(name, l.MergeTolerance)
	var err error
	if isBinarySTL(data) {
		err = l.parseBinary(data, b)
	} else {
		err = l.parseASCII(data, b)
	}
	if err != nil {
		return nil, err
	}
	mesh := b.mesh
	if mesh.TriangleCount() == 0 {
		return nil, ErrNoGeometry
	}
	for i := range mesh.Vertices {
		mesh.Vertices[i].Normal = mesh.Vertices[i].Normal.Normalize()
	}
	if l.SmoothNormals || !mesh.HasNormals() {
		mesh.CalculateSmoothNormals()
	}
	if l.Clean {
		mesh.Clean()
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// isBinarySTL detects binary STL: an 80-byte header and a triangle count
// that matches the payload size. ASCII files start with "solid", but so do
// some binary headers, hence the size check.
func isBinarySTL(data []byte) bool {
	if len(data) < 84 {
		return false
	}
	triCount := binary.LittleEndian.Uint32(data[80:84])
	if uint64(len(data)) == 84+uint64(triCount)*50 {
		return true
	}
	return !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid"))
}

func (l *STLLoader) parseBinary(data []byte, b *welder) error {
	triCount := binary.LittleEndian.Uint32(data[80:84])
	if uint64(len(data)) < 84+uint64(triCount)*50 {
		return fmt.Errorf("binary STL truncated: %d triangles need %d bytes, got %d",
			triCount, 84+uint64(triCount)*50, len(data))
	}
	offset := 84
	for range triCount {
		normal := readVec3LE(data[offset:])
		var face [3]int
		for v := range 3 {
			face[v] = b.add(readVec3LE(data[offset+12+v*12:]), normal)
		}
		b.mesh.Faces = append(b.mesh.Faces, Face{V: face, Material: -1})
		offset += 50 // normal, 3 vertices, attribute byte count
	}
	return nil
}

func readVec3LE(p []byte) math3d.Vec3 {
	f := func(i int) float64 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:])))
	}
	return math3d.V3(f(0), f(1), f(2))
}

func (l *STLLoader) parseASCII(data []byte, b *welder) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	var normal math3d.Vec3
	var loop []int
	inLoop := false
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch strings.ToLower(fields[0]) {
		case "solid":
			if len(fields) > 1 {
				b.mesh.Name = fields[1]
			}
		case "facet":
			normal = math3d.Zero3()
			if len(fields) >= 5 && strings.EqualFold(fields[1], "normal") {
				n, err := parseVec3(fields[2:5])
				if err != nil {
					return fmt.Errorf("line %d: facet normal: %w", lineNum, err)
				}
				normal = n.Normalize()
			}
			loop = loop[:0]
		case "outer":
			inLoop = true
		case "vertex":
			if !inLoop {
				return fmt.Errorf("line %d: vertex outside outer loop", lineNum)
			}
			if len(fields) < 4 {
				return fmt.Errorf("line %d: vertex needs x y z", lineNum)
			}
			p, err := parseVec3(fields[1:4])
			if err != nil {
				return fmt.Errorf("line %d: vertex: %w", lineNum, err)
			}
			loop = append(loop, b.add(p, normal))
		case "endloop":
			inLoop = false
		case "endfacet":
			// Fan-triangulate in case a writer emitted polygons.
			for i := 1; i+1 < len(loop); i++ {
				b.mesh.Faces = append(b.mesh.Faces, Face{V: [3]int{loop[0], loop[i], loop[i+1]}, Material: -1})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read ASCII STL: %w", err)
	}
	return nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	var xyz [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return math3d.Vec3{}, err
		}
		xyz[i] = v
	}
	return math3d.V3(xyz[0], xyz[1], xyz[2]), nil
}

// quantizedKey is a position snapped to the merge grid.
type quantizedKey struct {
	x, y, z int64
}

// welder appends vertices to a mesh, merging positions that fall on the same
// grid cell and accumulating their facet normals.
type welder struct {
	mesh  *Mesh
	scale float64
	index map[quantizedKey]int
}

func newWelder(name string, tolerance float64) *welder {
	if tolerance <= 0 {
		tolerance = 1e-12
	}
	return &welder{
		mesh:  NewMesh(name),
		scale: 1 / tolerance,
		index: make(map[quantizedKey]int),
	}
}

func (w *welder) add(pos, normal math3d.Vec3) int {
	key := quantizedKey{
		x: int64(math.Round(pos.X * w.scale)),
		y: int64(math.Round(pos.Y * w.scale)),
		z: int64(math.Round(pos.Z * w.scale)),
	}
	if idx, ok := w.index[key]; ok {
		w.mesh.Vertices[idx].Normal = w.mesh.Vertices[idx].Normal.Add(normal)
		return idx
	}
	idx := len(w.mesh.Vertices)
	w.mesh.Vertices = append(w.mesh.Vertices, MeshVertex{Position: pos, Normal: normal})
	w.index[key] = idx
	return idx
}
