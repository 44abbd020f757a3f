package asset

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // glTF texture formats
	_ "image/png"
	"strings"

	"fortio.org/log"
	"github.com/ansipixels/showcase/math3d"
	"github.com/ansipixels/showcase/models"
	"github.com/ansipixels/showcase/render"
	"github.com/ansipixels/showcase/scene"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	_ "golang.org/x/image/webp" // EXT_texture_webp
)

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func (l *Loader) loadGLTF(ctx context.Context, src *source) (*scene.Node, error) {
	var doc *gltf.Document
	if src.remote == nil {
		var err error
		doc, err = gltf.Open(src.path)
		if err != nil {
			return nil, fmt.Errorf("open gltf: %w", err)
		}
	} else {
		data, err := src.read(ctx)
		if err != nil {
			return nil, err
		}
		doc = new(gltf.Document)
		if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
			return nil, fmt.Errorf("decode gltf: %w", err)
		}
		if err := fetchBuffers(ctx, src, doc); err != nil {
			return nil, err
		}
	}
	b := &gltfBuilder{ctx: ctx, doc: doc, src: src, materials: make(map[int]*scene.Material)}
	root, err := b.build()
	if err != nil {
		return nil, err
	}
	root.Name = src.name()
	if root.Stats().Triangles == 0 {
		return nil, models.ErrNoGeometry
	}
	return root, nil
}

// fetchBuffers reads the external buffers of a remote document, resolved
// against the document's URL. Embedded and GLB buffers are already loaded.
func fetchBuffers(ctx context.Context, src *source, doc *gltf.Document) error {
	for i, buf := range doc.Buffers {
		if buf.Data != nil || buf.URI == "" || buf.IsEmbeddedResource() {
			continue
		}
		data, err := src.readRelative(ctx, buf.URI)
		if err != nil {
			return fmt.Errorf("buffer %d: %w", i, err)
		}
		if len(data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %d bytes, want %d", i, len(data), buf.ByteLength)
		}
		buf.Data = data[:buf.ByteLength:buf.ByteLength]
	}
	return nil
}

// gltfBuilder converts one document into a node tree. glTF materials map
// to shared *scene.Material values, so recoloring one mesh recolors every
// mesh using the same material.
type gltfBuilder struct {
	ctx       context.Context
	doc       *gltf.Document
	src       *source
	materials map[int]*scene.Material
	fallback  *scene.Material
	textures  map[int]*render.Texture
}

func (b *gltfBuilder) build() (*scene.Node, error) {
	root := scene.NewNode("")
	for _, idx := range b.rootNodes() {
		n, err := b.node(idx, 0)
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}
	return root, nil
}

// rootNodes returns the nodes of the default scene, or every parentless
// node when the document has no scenes.
func (b *gltfBuilder) rootNodes() []int {
	doc := b.doc
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
			idx = int(*doc.Scene)
		}
		return doc.Scenes[idx].Nodes
	}
	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// maxDepth guards against cyclic node graphs in malformed files.
const maxDepth = 256

func (b *gltfBuilder) node(idx, depth int) (*scene.Node, error) {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("node %d out of range", idx)
	}
	if depth > maxDepth {
		return nil, errors.New("node hierarchy too deep")
	}
	gn := b.doc.Nodes[idx]
	n := scene.NewNode(gn.Name)
	setTransform(n, gn)

	if gn.Mesh != nil {
		v, err := b.mesh(int(*gn.Mesh))
		if err != nil {
			return nil, err
		}
		n.Visual = v
	}
	for _, c := range gn.Children {
		child, err := b.node(int(c), depth+1)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

// setTransform copies TRS, or decomposes the matrix form.
func setTransform(n *scene.Node, gn *gltf.Node) {
	if gn.Matrix != identityMatrix && gn.Matrix != [16]float64{} {
		decompose(n, math3d.Mat4FromColumnMajor(gn.Matrix[:]))
		return
	}
	n.Position = math3d.V3(gn.Translation[0], gn.Translation[1], gn.Translation[2])
	if r := gn.Rotation; r != [4]float64{} {
		n.Rotation = math3d.QuatToMat4(r[0], r[1], r[2], r[3])
	}
	if s := gn.Scale; s != [3]float64{} {
		n.Scale = math3d.V3(s[0], s[1], s[2])
	}
}

// decompose splits an affine matrix into translation, rotation and scale.
// Shear is lost.
func decompose(n *scene.Node, m math3d.Mat4) {
	n.Position = m.Translation()
	cols := [3]math3d.Vec3{
		math3d.V3(m[0][0], m[1][0], m[2][0]),
		math3d.V3(m[0][1], m[1][1], m[2][1]),
		math3d.V3(m[0][2], m[1][2], m[2][2]),
	}
	s := math3d.V3(cols[0].Len(), cols[1].Len(), cols[2].Len())
	if cols[0].Cross(cols[1]).Dot(cols[2]) < 0 {
		s.X = -s.X
	}
	n.Scale = s
	r := math3d.Identity()
	for c, col := range cols {
		k := [3]float64{s.X, s.Y, s.Z}[c]
		if k == 0 {
			continue
		}
		r[0][c], r[1][c], r[2][c] = col.X/k, col.Y/k, col.Z/k
	}
	n.Rotation = r
}

// mesh merges the triangle primitives of a glTF mesh into one mesh with a
// material slot per distinct primitive material.
func (b *gltfBuilder) mesh(idx int) (*scene.MeshVisual, error) {
	if idx < 0 || idx >= len(b.doc.Meshes) {
		return nil, fmt.Errorf("mesh %d out of range", idx)
	}
	gm := b.doc.Meshes[idx]
	mesh := models.NewMesh(gm.Name)
	var mats []*scene.Material
	slots := make(map[*scene.Material]int)
	missingNormals := false

	for pi, prim := range gm.Primitives {
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		switch prim.Mode {
		case gltf.PrimitiveTriangles, gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan:
		default:
			log.LogVf("Skipping primitive %d of mesh %q: mode %v", pi, gm.Name, prim.Mode)
			continue
		}
		positions, err := modeler.ReadPosition(b.doc, b.doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("mesh %q positions: %w", gm.Name, err)
		}
		var normals [][3]float32
		if ni, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = modeler.ReadNormal(b.doc, b.doc.Accessors[ni], nil); err != nil {
				return nil, fmt.Errorf("mesh %q normals: %w", gm.Name, err)
			}
		} else {
			missingNormals = true
		}
		var uvs [][2]float32
		if ui, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = modeler.ReadTextureCoord(b.doc, b.doc.Accessors[ui], nil); err != nil {
				return nil, fmt.Errorf("mesh %q uvs: %w", gm.Name, err)
			}
		}
		var indices []uint32
		if prim.Indices != nil {
			if indices, err = modeler.ReadIndices(b.doc, b.doc.Accessors[*prim.Indices], nil); err != nil {
				return nil, fmt.Errorf("mesh %q indices: %w", gm.Name, err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		mat := b.material(prim.Material)
		slot, ok := slots[mat]
		if !ok {
			slot = len(mats)
			slots[mat] = slot
			mats = append(mats, mat)
		}

		base := len(mesh.Vertices)
		for i, p := range positions {
			v := models.MeshVertex{Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))}
			if i < len(normals) {
				v.Normal = math3d.V3(float64(normals[i][0]), float64(normals[i][1]), float64(normals[i][2]))
			}
			if i < len(uvs) {
				// glTF UVs start at the top-left.
				v.UV = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}
		for _, tri := range triangles(prim.Mode, indices) {
			if int(tri[0]) >= len(positions) || int(tri[1]) >= len(positions) || int(tri[2]) >= len(positions) {
				return nil, fmt.Errorf("mesh %q: index out of range", gm.Name)
			}
			mesh.Faces = append(mesh.Faces, models.Face{
				V:        [3]int{base + int(tri[0]), base + int(tri[1]), base + int(tri[2])},
				Material: slot,
			})
		}
	}
	if missingNormals {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()
	return scene.NewMeshVisual(mesh, mats...), nil
}

// triangles expands strips and fans into a triangle list, keeping the
// counter-clockwise winding.
func triangles(mode gltf.PrimitiveMode, idx []uint32) [][3]uint32 {
	var out [][3]uint32
	switch mode {
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(idx); i++ {
			if i%2 == 0 {
				out = append(out, [3]uint32{idx[i], idx[i+1], idx[i+2]})
			} else {
				out = append(out, [3]uint32{idx[i+1], idx[i], idx[i+2]})
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(idx); i++ {
			out = append(out, [3]uint32{idx[0], idx[i], idx[i+1]})
		}
	default:
		for i := 0; i+2 < len(idx); i += 3 {
			out = append(out, [3]uint32{idx[i], idx[i+1], idx[i+2]})
		}
	}
	return out
}

// material returns the shared material for a primitive's material index.
func (b *gltfBuilder) material(idx *int) *scene.Material {
	if idx == nil || *idx < 0 || *idx >= len(b.doc.Materials) {
		if b.fallback == nil {
			b.fallback = scene.NewMaterial("default", render.ColorWhite)
		}
		return b.fallback
	}
	if m, ok := b.materials[*idx]; ok {
		return m
	}
	gm := b.doc.Materials[*idx]
	m := scene.NewMaterial(gm.Name, render.ColorWhite)
	m.Metallic = 1
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			m.Color = render.FromLinear(f[0], f[1], f[2])
		}
		if pbr.MetallicFactor != nil {
			m.Metallic = *pbr.MetallicFactor
		}
		if pbr.RoughnessFactor != nil {
			m.Roughness = *pbr.RoughnessFactor
		}
		if pbr.BaseColorTexture != nil {
			m.Texture = b.texture(pbr.BaseColorTexture.Index)
		}
	}
	b.materials[*idx] = m
	return m
}

// texture decodes a texture's image. Failures are logged and leave the
// material untextured.
func (b *gltfBuilder) texture(idx int) *render.Texture {
	if t, ok := b.textures[idx]; ok {
		return t
	}
	if b.textures == nil {
		b.textures = make(map[int]*render.Texture)
	}
	t, err := b.loadTexture(idx)
	if err != nil {
		log.Warnf("Texture %d of %s: %v", idx, b.src.path, err)
	}
	b.textures[idx] = t
	return t
}

func (b *gltfBuilder) loadTexture(idx int) (*render.Texture, error) {
	doc := b.doc
	if idx < 0 || idx >= len(doc.Textures) {
		return nil, fmt.Errorf("texture %d out of range", idx)
	}
	gt := doc.Textures[idx]
	if gt.Source == nil || int(*gt.Source) >= len(doc.Images) {
		return nil, errors.New("texture has no image")
	}
	data, err := b.imageData(doc.Images[*gt.Source])
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	tex := render.TextureFromImage(img)
	if gt.Sampler != nil && int(*gt.Sampler) < len(doc.Samplers) {
		s := doc.Samplers[*gt.Sampler]
		tex.WrapU = wrapMode(s.WrapS)
		tex.WrapV = wrapMode(s.WrapT)
	}
	return tex, nil
}

func (b *gltfBuilder) imageData(img *gltf.Image) ([]byte, error) {
	switch {
	case img.BufferView != nil:
		if int(*img.BufferView) >= len(b.doc.BufferViews) {
			return nil, errors.New("image buffer view out of range")
		}
		bv := b.doc.BufferViews[*img.BufferView]
		if int(bv.Buffer) >= len(b.doc.Buffers) {
			return nil, errors.New("image buffer out of range")
		}
		data := b.doc.Buffers[bv.Buffer].Data
		end := bv.ByteOffset + bv.ByteLength
		if end > len(data) {
			return nil, errors.New("image buffer view exceeds buffer")
		}
		return data[bv.ByteOffset:end], nil
	case img.IsEmbeddedResource():
		return img.MarshalData()
	case strings.HasPrefix(img.URI, "data:"):
		return dataURI(img.URI)
	case img.URI != "":
		return b.src.readRelative(b.ctx, img.URI)
	}
	return nil, errors.New("image has no data")
}

// dataURI decodes a base64 data URI of any media type. gltf's own helper
// only knows PNG and JPEG.
func dataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, errors.New("unsupported data URI")
	}
	return base64.StdEncoding.DecodeString(payload)
}

func wrapMode(w gltf.WrappingMode) render.WrapMode {
	if w == gltf.WrapClampToEdge {
		return render.WrapClamp
	}
	return render.WrapRepeat
}
