package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type Kind uint8

const (
	KindGroup Kind = iota
	KindTransform
	KindMaterial
	KindMesh
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindTransform:
		return "transform"
	case KindMaterial:
		return "material"
	case KindMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// Component is the closed set of per-node payloads: *Transform, *Material and *Mesh.
type Component interface {
	Kind() Kind
}

func (*Transform) Kind() Kind { return KindTransform }
func (*Material) Kind() Kind  { return KindMaterial }
func (*Mesh) Kind() Kind      { return KindMesh }

// AnimationTarget is the state of a target-seeking animation: per-axis deltas,
// the steps left before a new target is drawn and the speed of the current target.
type AnimationTarget struct {
	Delta     mgl32.Vec3 `json:"delta"`
	Remaining int        `json:"remaining"`
	Speed     float32    `json:"speed"`
}

func (t *AnimationTarget) Reached() bool {
	return t.Remaining <= 0
}

type Node struct {
	ID       uuid.UUID
	Name     string
	Children []*Node

	Transform *Transform
	Material  *Material
	Mesh      *Mesh

	Bounds *RotationBounds
	Target *AnimationTarget
}

func NewNode(name string, children ...*Node) *Node {
	return &Node{
		ID:       uuid.New(),
		Name:     name,
		Children: children,
	}
}

func (n *Node) WithTransform(t *Transform) *Node {
	n.Transform = t
	return n
}

func (n *Node) WithMaterial(m *Material) *Node {
	n.Material = m
	return n
}

func (n *Node) WithMesh(m *Mesh) *Node {
	n.Mesh = m
	return n
}

func (n *Node) WithBounds(min, max mgl32.Vec3) *Node {
	n.Bounds = &RotationBounds{Min: min, Max: max}
	return n
}

func (n *Node) AddChildren(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Components returns the node payloads in visit order: transform, material, mesh.
// A node without components is a group.
func (n *Node) Components() []Component {
	comps := make([]Component, 0, 3)
	if n.Transform != nil {
		comps = append(comps, n.Transform)
	}
	if n.Material != nil {
		comps = append(comps, n.Material)
	}
	if n.Mesh != nil {
		comps = append(comps, n.Mesh)
	}
	return comps
}

func (n *Node) Kinds() []Kind {
	comps := n.Components()
	if len(comps) == 0 {
		return []Kind{KindGroup}
	}
	kinds := make([]Kind, len(comps))
	for i, c := range comps {
		kinds[i] = c.Kind()
	}
	return kinds
}

func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Matrix returns the local model matrix, identity for nodes without a transform.
func (n *Node) Matrix() mgl32.Mat4 {
	if n.Transform == nil {
		return mgl32.Ident4()
	}
	return n.Transform.Matrix()
}

// ClampRotation applies the node bounds; nodes without bounds pass through.
func (n *Node) ClampRotation() {
	if n.Bounds == nil || n.Transform == nil {
		return
	}
	n.Transform.Rotation = n.Bounds.Clamp(n.Transform.Rotation)
}
