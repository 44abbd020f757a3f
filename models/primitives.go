package models

import "github.com/ansipixels/showcase/math3d"

// boxSides lists each box side as (normal, u, v) with u × v = normal, so the
// corners below come out counter-clockwise when seen from outside.
var boxSides = [6][3]math3d.Vec3{
	{{X: 1}, {Z: -1}, {Y: 1}},
	{{X: -1}, {Z: 1}, {Y: 1}},
	{{Y: 1}, {X: 1}, {Z: -1}},
	{{Y: -1}, {X: 1}, {Z: 1}},
	{{Z: 1}, {X: 1}, {Y: 1}},
	{{Z: -1}, {X: -1}, {Y: 1}},
}

// NewBox builds an axis-aligned box centered on the origin with flat
// per-side normals, four vertices per side.
func NewBox(name string, width, height, depth float64) *Mesh {
	half := math3d.V3(width/2, height/2, depth/2)
	m := NewMesh(name)
	corners := [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, side := range boxSides {
		n, u, v := side[0], side[1], side[2]
		base := len(m.Vertices)
		for _, c := range corners {
			p := n.Add(u.Scale(c[0])).Add(v.Scale(c[1])).Mul(half)
			m.Vertices = append(m.Vertices, MeshVertex{
				Position: p,
				Normal:   n,
				UV:       math3d.V2((c[0]+1)/2, (c[1]+1)/2),
			})
		}
		m.Faces = append(m.Faces,
			Face{V: [3]int{base, base + 1, base + 2}, Material: -1},
			Face{V: [3]int{base, base + 2, base + 3}, Material: -1},
		)
	}
	m.CalculateBounds()
	return m
}

// NewPlane builds a width x height grid in the XY plane facing +Z, split
// into segments x segments quads. Subdividing keeps triangles small enough
// that the rasterizer can drop the few that cross the near plane.
func NewPlane(name string, width, height float64, segments int) *Mesh {
	segments = max(segments, 1)
	m := NewMesh(name)
	step := 1 / float64(segments)
	for j := 0; j <= segments; j++ {
		for i := 0; i <= segments; i++ {
			u, v := float64(i)*step, float64(j)*step
			m.Vertices = append(m.Vertices, MeshVertex{
				Position: math3d.V3((u-0.5)*width, (v-0.5)*height, 0),
				Normal:   math3d.V3(0, 0, 1),
				UV:       math3d.V2(u, v),
			})
		}
	}
	row := segments + 1
	for j := range segments {
		for i := range segments {
			a := j*row + i
			b, c, d := a+1, a+row+1, a+row
			m.Faces = append(m.Faces,
				Face{V: [3]int{a, b, c}, Material: -1},
				Face{V: [3]int{a, c, d}, Material: -1},
			)
		}
	}
	m.CalculateBounds()
	return m
}
