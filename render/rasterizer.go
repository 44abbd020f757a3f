package render

import (
	"math"

	"github.com/ansipixels/showcase/math3d"
)

// MeshRenderer is what the rasterizer needs from a mesh. It lives here so
// render does not import models.
type MeshRenderer interface {
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
	GetFaceMaterial(i int) int
}

// Surface is the resolved look of one material slot.
type Surface struct {
	Color   Color
	Texture *Texture // Optional, modulated by Color
}

// FrameStats counts what happened to triangles during a frame.
type FrameStats struct {
	Triangles int // Submitted
	Culled    int // Back-facing or zero area
	Clipped   int // Dropped for crossing the near plane
}

// Rasterizer draws triangles into a framebuffer with a depth buffer.
type Rasterizer struct {
	camera                 *Camera
	fb                     *Framebuffer
	zbuffer                []float64
	viewProj               math3d.Mat4
	Stats                  FrameStats
	DisableBackfaceCulling bool // If true, render both sides of triangles
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{camera: camera, fb: fb}
	r.Resize()
	return r
}

// Resize matches the depth buffer to the framebuffer.
func (r *Rasterizer) Resize() {
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// BeginFrame clears depth, resets stats and caches the camera matrices.
// Call once per frame before drawing.
func (r *Rasterizer) BeginFrame() {
	if len(r.zbuffer) != r.fb.Width*r.fb.Height {
		r.Resize()
	}
	r.ClearDepth()
	r.Stats = FrameStats{}
	r.viewProj = r.camera.ViewProjectionMatrix()
}

// ClearDepth clears the Z-buffer.
func (r *Rasterizer) ClearDepth() {
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y float64 // Pixels
	Z    float64 // NDC depth
	InvW float64 // 1/w for perspective-correct interpolation
}

// project maps a world position to the screen. ok is false when the point
// is closer than the near plane.
func (r *Rasterizer) project(p math3d.Vec3) (screenVertex, bool) {
	clip := r.viewProj.MulVec4(math3d.V4FromV3(p, 1))
	if clip.W < r.camera.Near {
		return screenVertex{}, false
	}
	ndc := clip.PerspectiveDivide()
	return screenVertex{
		X:    (ndc.X + 1) * 0.5 * float64(r.fb.Width),
		Y:    (1 - ndc.Y) * 0.5 * float64(r.fb.Height), // Y flipped
		Z:    ndc.Z,
		InvW: 1 / clip.W,
	}, true
}

// edge is twice the signed area of (a, b, p).
func edge(a, b screenVertex, px, py float64) float64 {
	return (b.X-a.X)*(py-a.Y) - (b.Y-a.Y)*(px-a.X)
}

// litVertex is a world-space vertex with its irradiance already computed
// (Gouraud shading).
type litVertex struct {
	Position math3d.Vec3
	Light    math3d.Vec3
	UV       math3d.Vec2
}

// DrawMesh renders a mesh with the given world transform. Faces pick their
// surface by material slot; slots out of range use surfaces[0].
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, surfaces []Surface, lights Lighting) {
	if len(surfaces) == 0 {
		surfaces = []Surface{{Color: ColorWhite}}
	}
	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var tri [3]litVertex
		for k, idx := range face {
			pos, normal, uv := mesh.GetVertex(idx)
			tri[k] = litVertex{
				Position: transform.MulVec3(pos),
				Light:    lights.Irradiance(transform.MulVec3Dir(normal)),
				UV:       uv,
			}
		}
		slot := mesh.GetFaceMaterial(i)
		if slot < 0 || slot >= len(surfaces) {
			slot = 0
		}
		r.drawTriangle(tri, surfaces[slot])
	}
}

func (r *Rasterizer) drawTriangle(tri [3]litVertex, surf Surface) {
	r.Stats.Triangles++
	var sv [3]screenVertex
	for i := range 3 {
		v, ok := r.project(tri[i].Position)
		if !ok {
			r.Stats.Clipped++
			return
		}
		sv[i] = v
	}

	// Counter-clockwise in NDC is clockwise once Y is flipped: negative area.
	area := edge(sv[0], sv[1], sv[2].X, sv[2].Y)
	if area == 0 || (area > 0 && !r.DisableBackfaceCulling) {
		r.Stats.Culled++
		return
	}

	minX := max(0, int(math.Floor(min(sv[0].X, sv[1].X, sv[2].X))))
	maxX := min(r.fb.Width-1, int(math.Ceil(max(sv[0].X, sv[1].X, sv[2].X))))
	minY := max(0, int(math.Floor(min(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := min(r.fb.Height-1, int(math.Ceil(max(sv[0].Y, sv[1].Y, sv[2].Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			// Dividing by the signed area makes the weights positive inside
			// for either winding.
			b0 := edge(sv[1], sv[2], px, py) / area
			b1 := edge(sv[2], sv[0], px, py) / area
			b2 := edge(sv[0], sv[1], px, py) / area
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}
			z := b0*sv[0].Z + b1*sv[1].Z + b2*sv[2].Z
			idx := y*r.fb.Width + x
			if z >= r.zbuffer[idx] {
				continue
			}

			// Perspective-correct weights
			p0, p1, p2 := b0*sv[0].InvW, b1*sv[1].InvW, b2*sv[2].InvW
			sum := p0 + p1 + p2
			p0, p1, p2 = p0/sum, p1/sum, p2/sum

			light := tri[0].Light.Scale(p0).Add(tri[1].Light.Scale(p1)).Add(tri[2].Light.Scale(p2))
			base := surf.Color
			if surf.Texture != nil {
				u := p0*tri[0].UV.X + p1*tri[1].UV.X + p2*tri[2].UV.X
				v := p0*tri[0].UV.Y + p1*tri[1].UV.Y + p2*tri[2].UV.Y
				base = ModulateColor(surf.Texture.Sample(u, v), base)
			}

			r.zbuffer[idx] = z
			r.fb.Pixels[idx] = applyLight(base, light)
		}
	}
}

// DrawMeshWireframe renders triangle edges in a single color, no depth test.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var sv [3]screenVertex
		visible := true
		for k, idx := range face {
			pos, _, _ := mesh.GetVertex(idx)
			v, ok := r.project(transform.MulVec3(pos))
			if !ok {
				visible = false
				break
			}
			sv[k] = v
		}
		if !visible {
			r.Stats.Clipped++
			continue
		}
		for k := range 3 {
			a, b := sv[k], sv[(k+1)%3]
			r.fb.DrawLineF(a.X, a.Y, b.X, b.Y, color)
		}
	}
}
