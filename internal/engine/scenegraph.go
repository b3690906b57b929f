package engine

import (
	"errors"
	"slices"
)

// ErrNodeNotFound is returned when a node id is not part of the scene graph.
var ErrNodeNotFound = errors.New("node not found")

// Kind distinguishes the roles a Node can play. All kinds share one structure.
type Kind uint8

const (
	KindBox Kind = iota
	KindRoot
	KindCamera
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindCamera:
		return "camera"
	default:
		return "box"
	}
}

// SceneGraph owns the nodes of one scene and hands out their ids. Ids are
// assigned in construction order and never reused.
type SceneGraph struct {
	Root      *Node
	NodesByID map[int]*Node

	nextID int
}

// Node is a transformable entity in the scene graph. Position, size,
// rotation and scale are mutated freely between frames; the matrices are
// derived on every access.
type Node struct {
	ID       int
	Kind     Kind
	Position Vec2
	Size     Vec2
	Rotation float64
	Scale    Vec2
	Color    string

	parent   *Node
	children []*Node
}

// NewSceneGraph creates a scene graph with an empty root. The root starts
// at zero size and grows as boxes are attached directly under it.
func NewSceneGraph() *SceneGraph {
	sg := &SceneGraph{NodesByID: make(map[int]*Node)}
	sg.Root = sg.newNode(KindRoot, nil, Vec2{}, Vec2{})
	return sg
}

// NewCamera creates a parentless camera. Its inverse matrix maps world
// coordinates into its own frame.
func (sg *SceneGraph) NewCamera(position, size Vec2) *Node {
	return sg.newNode(KindCamera, nil, position, size)
}

// NewBox creates a colored box under parent.
func (sg *SceneGraph) NewBox(parent *Node, position, size Vec2, color string) *Node {
	n := sg.newNode(KindBox, parent, position, size)
	n.Color = color
	return n
}

func (sg *SceneGraph) newNode(kind Kind, parent *Node, position, size Vec2) *Node {
	n := &Node{
		ID:       sg.nextID,
		Kind:     kind,
		Position: position,
		Size:     size,
		Scale:    Vec2{X: 1, Y: 1},
	}
	sg.nextID++
	sg.NodesByID[n.ID] = n
	n.SetParent(parent)
	return n
}

// Node looks a node up by id.
func (sg *SceneGraph) Node(id int) (*Node, error) {
	n, ok := sg.NodesByID[id]
	if !ok {
		return nil, ErrNodeNotFound
	}
	return n, nil
}

// Parent returns the node's parent, or nil for roots and cameras.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in order. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// SetParent detaches n from its current parent and, when parent is non-nil,
// attaches it there. Attaching directly under a parentless node grows that
// node's size to bound the child's extent.
func (n *Node) SetParent(parent *Node) {
	if n.parent != nil {
		if i := slices.Index(n.parent.children, n); i >= 0 {
			n.parent.children = slices.Delete(n.parent.children, i, i+1)
		}
	}
	n.parent = parent
	if parent == nil {
		return
	}

	if !slices.Contains(parent.children, n) {
		parent.children = append(parent.children, n)
	}
	if parent.parent == nil {
		parent.Size.X = max(parent.Size.X, n.Size.X+n.Position.X)
		parent.Size.Y = max(parent.Size.Y, n.Size.Y+n.Position.Y)
	}
}

// AspectRatio is width over height. A zero height yields an infinity.
func (n *Node) AspectRatio() float64 {
	return n.Size.X / n.Size.Y
}

// Matrix is translate(position) * scale(scale) * rotate(rotation).
func (n *Node) Matrix() Matrix2D {
	return Translate(n.Position.X, n.Position.Y).
		Multiply(Scale(n.Scale.X, n.Scale.Y)).
		Multiply(Rotate(n.Rotation))
}

// MatrixInverse returns the inverse of Matrix and false when the node is
// scaled to zero on an axis.
func (n *Node) MatrixInverse() (Matrix2D, bool) {
	return n.Matrix().Inverse()
}

// WorldMatrix composes the matrices from the top of the hierarchy down to n.
func (n *Node) WorldMatrix() Matrix2D {
	m := n.Matrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Matrix().Multiply(m)
	}
	return m
}

// Bounds returns the node's axis-aligned bounding box in world space.
func (n *Node) Bounds() Rect {
	return n.WorldMatrix().TransformRect(Rect{Width: n.Size.X, Height: n.Size.Y})
}

// HitTest returns the topmost box under the world-space point, if any.
func (sg *SceneGraph) HitTest(x, y float64) (*Node, bool) {
	return hitTestNode(sg.Root, x, y)
}

func hitTestNode(n *Node, x, y float64) (*Node, bool) {
	// Children are drawn after their parent, so test them first, last to first.
	for i := len(n.children) - 1; i >= 0; i-- {
		if hit, ok := hitTestNode(n.children[i], x, y); ok {
			return hit, true
		}
	}
	if n.Kind == KindBox {
		if b := n.Bounds(); !b.IsEmpty() && b.Contains(x, y) {
			return n, true
		}
	}
	return nil, false
}
