package scene

import (
	"github.com/ansipixels/showcase/math3d"
	"github.com/ansipixels/showcase/models"
	"github.com/ansipixels/showcase/render"
)

// TargetSize is the largest dimension of a normalized model.
const TargetSize = 1.6

// PlaceholderColor is the color of the fallback cube.
var PlaceholderColor = render.Hex(0x337ab7)

// Normalize scales n so its largest dimension is TargetSize, centers it on
// the origin and lifts it by half its scaled height. The scale is assigned,
// not multiplied. Nodes without geometry or extent are left alone and false
// is returned.
func Normalize(n *Node) bool {
	minB, maxB, ok := n.Bounds()
	if !ok {
		return false
	}
	size := maxB.Sub(minB)
	maxDim := size.MaxComponent()
	if maxDim <= 0 {
		return false
	}
	scale := TargetSize / maxDim
	n.Scale = math3d.Splat3(scale)

	minB, maxB, _ = n.Bounds()
	center := minB.Add(maxB).Scale(0.5)
	n.Position = n.Position.Sub(center)
	n.Position.Y += size.Y * scale / 2
	return true
}

// Placeholder returns the unit cube shown when no model could be loaded.
func Placeholder() *Node {
	n := NewNode("placeholder")
	n.Visual = NewMeshVisual(models.NewBox("placeholder", 1, 1, 1), NewMaterial("placeholder", PlaceholderColor))
	return n
}
