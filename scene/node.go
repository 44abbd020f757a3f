package scene

import "github.com/ansipixels/showcase/math3d"

// Node is an element of the scene graph. Its local transform is
// translate(Position) * Rotation * scale(Scale).
type Node struct {
	Name     string
	Position math3d.Vec3
	Rotation math3d.Mat4 // Pure rotation, no translation
	Scale    math3d.Vec3
	Visual   Visual // Optional

	parent   *Node
	children []*Node
}

// NewNode returns an identity-transformed node.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: math3d.Identity(),
		Scale:    math3d.Splat3(1),
	}
}

// Parent returns the node this one is attached to, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the direct children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Add attaches child, detaching it from any previous parent first.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child. It reports whether child was attached to n.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// LocalMatrix returns the node's transform relative to its parent.
func (n *Node) LocalMatrix() math3d.Mat4 {
	return math3d.Translate(n.Position).Mul(n.Rotation).Mul(math3d.Scale(n.Scale))
}

// WorldMatrix returns the node's transform including all ancestors.
func (n *Node) WorldMatrix() math3d.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// Traverse calls fn for n and every descendant, depth first.
func (n *Node) Traverse(fn func(*Node)) {
	n.Walk(func(c *Node, _ int) { fn(c) })
}

// Walk is Traverse with the depth below n (n itself is 0).
func (n *Node) Walk(fn func(n *Node, depth int)) {
	n.walkWorld(math3d.Identity(), 0, func(c *Node, _ math3d.Mat4, depth int) { fn(c, depth) })
}

func (n *Node) walkWorld(parent math3d.Mat4, depth int, fn func(n *Node, world math3d.Mat4, depth int)) {
	world := parent.Mul(n.LocalMatrix())
	fn(n, world, depth)
	for _, c := range n.children {
		c.walkWorld(world, depth+1, fn)
	}
}

// Bounds returns the world-space axis-aligned box of every vertex under n.
// ok is false when the subtree has no geometry.
func (n *Node) Bounds() (minB, maxB math3d.Vec3, ok bool) {
	var parent math3d.Mat4
	if n.parent != nil {
		parent = n.parent.WorldMatrix()
	} else {
		parent = math3d.Identity()
	}
	n.walkWorld(parent, 0, func(c *Node, world math3d.Mat4, _ int) {
		if c.Visual == nil {
			return
		}
		lo, hi, has := c.Visual.Bounds(world)
		if !has {
			return
		}
		if !ok {
			minB, maxB, ok = lo, hi, true
			return
		}
		minB, maxB = minB.Min(lo), maxB.Max(hi)
	})
	return minB, maxB, ok
}

// Stats summarizes a subtree.
type Stats struct {
	Nodes     int
	Meshes    int
	Vertices  int
	Triangles int
	Materials int
}

// Stats counts nodes, meshes and geometry under n.
func (n *Node) Stats() Stats {
	var s Stats
	n.Traverse(func(c *Node) {
		s.Nodes++
		mv, ok := c.Visual.(*MeshVisual)
		if !ok || mv.Mesh == nil {
			return
		}
		s.Meshes++
		s.Vertices += mv.Mesh.VertexCount()
		s.Triangles += mv.Mesh.TriangleCount()
		s.Materials += len(mv.Materials)
	})
	return s
}
