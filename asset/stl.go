package asset

import (
	"context"
	"path"
	"strings"

	"github.com/ansipixels/showcase/models"
	"github.com/ansipixels/showcase/render"
	"github.com/ansipixels/showcase/scene"
)

func (l *Loader) loadSTL(ctx context.Context, src *source) (*scene.Node, error) {
	data, err := src.read(ctx)
	if err != nil {
		return nil, err
	}
	base := src.name()
	name := strings.TrimSuffix(base, path.Ext(base))
	stl := models.NewSTLLoader()
	stl.SmoothNormals = l.SmoothNormals
	stl.Clean = true
	mesh, err := stl.LoadBytes(data, name)
	if err != nil {
		return nil, err
	}
	n := scene.NewNode(name)
	n.Visual = scene.NewMeshVisual(mesh, scene.NewMaterial(name, render.ColorWhite))
	return n, nil
}
