package scene

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/scenewalk/utils"
)

// NamePolicy decides what Build does when two nodes share a name.
type NamePolicy int

const (
	// RenameDuplicates registers later duplicates as name+"_n" (repeated until unique)
	// and logs a warning. Node.Name is left untouched; Graph.NameOf returns the indexed name.
	RenameDuplicates NamePolicy = iota
	// RejectDuplicates fails Build with an InvariantViolation.
	RejectDuplicates
)

const DuplicateSuffix = "_n"

func (p NamePolicy) String() string {
	switch p {
	case RenameDuplicates:
		return "rename"
	case RejectDuplicates:
		return "reject"
	default:
		return "unknown"
	}
}

func ParseNamePolicy(s string) (NamePolicy, error) {
	switch strings.ToLower(s) {
	case "", "rename":
		return RenameDuplicates, nil
	case "reject":
		return RejectDuplicates, nil
	default:
		return 0, errors.Errorf("unknown name policy %q", s)
	}
}

type Options struct {
	Policy NamePolicy
	// used for anonymous nodes; a fresh seeded generator is used when nil
	Names *utils.RandomNameGenerator
}

// Graph is a built, validated node tree with the name, path and parent indices.
// The tree structure must not change after Build; transforms may.
type Graph struct {
	Root *Node

	byName   map[string]*Node
	names    map[*Node]string
	byPath   map[string]*Node
	paths    map[*Node]string
	parents  map[*Node]*Node
	preorder []*Node
}

func Build(root *Node, opts Options) (*Graph, error) {
	if root == nil {
		return nil, Violationf("nil root")
	}
	if opts.Names == nil {
		opts.Names = new(utils.RandomNameGenerator)
	}

	g := &Graph{
		Root:    root,
		byName:  make(map[string]*Node),
		names:   make(map[*Node]string),
		byPath:  make(map[string]*Node),
		paths:   make(map[*Node]string),
		parents: make(map[*Node]*Node),
	}

	checkedMeshes := make(map[*Mesh]struct{})

	var visit func(n, parent *Node, parentPath string) error
	visit = func(n, parent *Node, parentPath string) error {
		if n == nil {
			return Violationf("nil child of %q", parentPath)
		}
		if _, seen := g.names[n]; seen {
			return Violationf("node %q reachable twice (cycle or shared sub-node) under %q", n.Name, parentPath)
		}

		if n.Name == "" {
			n.Name = opts.Names.RandomName()
		}

		name, err := g.register(n, opts.Policy)
		if err != nil {
			return err
		}

		path := name
		if parentPath != "" {
			path = parentPath + "/" + name
		}
		g.byPath[path] = n
		g.paths[n] = path
		if parent != nil {
			g.parents[n] = parent
		}
		g.preorder = append(g.preorder, n)

		if n.Bounds != nil {
			if err := n.Bounds.validate(); err != nil {
				return errors.Wrapf(err, "node %q", path)
			}
		}
		if n.Mesh != nil {
			if _, ok := checkedMeshes[n.Mesh]; !ok {
				if err := n.Mesh.Validate(); err != nil {
					return errors.Wrapf(err, "node %q", path)
				}
				checkedMeshes[n.Mesh] = struct{}{}
			}
		}

		for _, child := range n.Children {
			if err := visit(child, n, path); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(root, nil, ""); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) register(n *Node, policy NamePolicy) (string, error) {
	name := n.Name
	if _, exists := g.byName[name]; exists {
		if policy == RejectDuplicates {
			return "", Violationf("duplicate node name %q", name)
		}
		for {
			name += DuplicateSuffix
			if _, exists := g.byName[name]; !exists {
				break
			}
		}
		Logger().Warn("duplicate node name renamed", "name", n.Name, "registered", name)
	}
	g.byName[name] = n
	g.names[n] = name
	return name, nil
}

func (g *Graph) FindByName(name string) (*Node, error) {
	if n, ok := g.byName[name]; ok {
		return n, nil
	}
	return nil, &NotFoundError{Name: name}
}

func (g *Graph) MustFind(name string) *Node {
	n, err := g.FindByName(name)
	if err != nil {
		panic(err)
	}
	return n
}

// FindByPath resolves slash separated indexed names starting at the root, e.g. "root/arm/hand".
func (g *Graph) FindByPath(path string) (*Node, error) {
	if n, ok := g.byPath[strings.Trim(path, "/")]; ok {
		return n, nil
	}
	return nil, &NotFoundError{Name: path}
}

// NameOf returns the name n is indexed under, which differs from n.Name for renamed duplicates.
func (g *Graph) NameOf(n *Node) string {
	return g.names[n]
}

func (g *Graph) PathOf(n *Node) string {
	return g.paths[n]
}

func (g *Graph) ParentOf(n *Node) (*Node, bool) {
	p, ok := g.parents[n]
	return p, ok
}

func (g *Graph) ChildrenOf(n *Node) []*Node {
	if n.Children == nil {
		return []*Node{}
	}
	return n.Children
}

func (g *Graph) Contains(n *Node) bool {
	_, ok := g.names[n]
	return ok
}

func (g *Graph) Len() int {
	return len(g.preorder)
}

// Nodes returns all nodes in pre-order.
func (g *Graph) Nodes() []*Node {
	return g.preorder
}

// Names returns indexed names in pre-order.
func (g *Graph) Names() []string {
	names := make([]string, len(g.preorder))
	for i, n := range g.preorder {
		names[i] = g.names[n]
	}
	return names
}

// Walk visits nodes depth first in declared child order. Returning an error stops the walk.
func (g *Graph) Walk(fn func(n *Node, depth int) error) error {
	var walk func(n *Node, depth int) error
	walk = func(n *Node, depth int) error {
		if err := fn(n, depth); err != nil {
			return err
		}
		for _, child := range n.Children {
			if err := walk(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(g.Root, 0)
}

// Meshes returns distinct mesh descriptions in first-use order.
func (g *Graph) Meshes() []*Mesh {
	seen := make(map[*Mesh]struct{})
	var meshes []*Mesh
	for _, n := range g.preorder {
		if n.Mesh == nil {
			continue
		}
		if _, ok := seen[n.Mesh]; !ok {
			seen[n.Mesh] = struct{}{}
			meshes = append(meshes, n.Mesh)
		}
	}
	return meshes
}
