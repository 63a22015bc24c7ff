// Package scenefile reads and writes yaml scene descriptions.
//
//	name: Wuggy
//	root:
//	  name: Wuggy
//	  transform: {translation: [0, 0, 0], scale: [1, 1, 1]}
//	  children:
//	    - name: Body
//	      mesh: Cube
//	      modelscale: [1, 0.5, 2]
//	      material: {diffuse: {color: [0.8, 0.2, 0.2]}}
//	      animate: free
//	      bounds: {min: [-0.5, 0, 0], max: [0.5, 0, 0]}
package scenefile

import (
	"bytes"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/scenewalk/anim"
	"github.com/mogaika/scenewalk/assets"
	"github.com/mogaika/scenewalk/scene"
)

// GeometrySuffix names the child node that carries a mesh with its own model scale.
const GeometrySuffix = ".geometry"

type TransformSpec struct {
	Translation mgl32.Vec3  `yaml:"translation,flow,omitempty"`
	Rotation    mgl32.Vec3  `yaml:"rotation,flow,omitempty"`
	Scale       *mgl32.Vec3 `yaml:"scale,flow,omitempty"`
	Pivot       mgl32.Vec3  `yaml:"pivot,flow,omitempty"`
}

type NodeSpec struct {
	Name       string                `yaml:"name,omitempty"`
	Transform  *TransformSpec        `yaml:"transform,omitempty"`
	Bounds     *scene.RotationBounds `yaml:"bounds,omitempty"`
	Mesh       string                `yaml:"mesh,omitempty"`
	ModelScale *mgl32.Vec3           `yaml:"modelscale,flow,omitempty"`
	Material   *scene.Material       `yaml:"material,omitempty"`
	Animate    string                `yaml:"animate,omitempty"`
	Children   []*NodeSpec           `yaml:"children,omitempty"`
}

type File struct {
	Name   string    `yaml:"name"`
	Policy string    `yaml:"policy,omitempty"`
	Root   *NodeSpec `yaml:"root"`
}

// Binding asks for node to be animated with the named profile.
type Binding struct {
	Node    *scene.Node
	Profile string
}

type Document struct {
	Name     string
	Graph    *scene.Graph
	Bindings []Binding

	meshNames map[*scene.Mesh]string
}

// Load decodes a scene file and builds its graph. Meshes are fetched from provider by asset
// name; nodes naming the same asset share one mesh description.
func Load(r io.Reader, provider assets.Provider, policy scene.NamePolicy) (*Document, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrapf(err, "Failed to decode scene file")
	}
	return f.Build(provider, policy)
}

func (f *File) Build(provider assets.Provider, policy scene.NamePolicy) (*Document, error) {
	if f.Root == nil {
		return nil, errors.Errorf("scene %q has no root", f.Name)
	}
	if f.Policy != "" {
		p, err := scene.ParseNamePolicy(f.Policy)
		if err != nil {
			return nil, err
		}
		policy = p
	}

	doc := &Document{
		Name:      f.Name,
		meshNames: make(map[*scene.Mesh]string),
	}
	meshes := make(map[string]*scene.Mesh)

	var build func(spec *NodeSpec) (*scene.Node, error)
	build = func(spec *NodeSpec) (*scene.Node, error) {
		if spec == nil {
			return nil, errors.Errorf("empty node")
		}
		n := scene.NewNode(spec.Name)
		if spec.Transform != nil {
			n.Transform = spec.Transform.transform()
		}
		if spec.Bounds != nil {
			b := *spec.Bounds
			n.Bounds = &b
		}
		n.Material = spec.Material

		if spec.Mesh != "" {
			m, ok := meshes[spec.Mesh]
			if !ok {
				var err error
				if m, err = assets.GetMesh(provider, spec.Mesh); err != nil {
					return nil, errors.Wrapf(err, "node %q", spec.Name)
				}
				meshes[spec.Mesh] = m
				doc.meshNames[m] = spec.Mesh
			}
			if spec.ModelScale != nil {
				s := *spec.ModelScale
				geometry := scene.NewNode(spec.Name + GeometrySuffix).WithMesh(m)
				geometry.Transform = scene.NewTransform()
				geometry.Transform.Scale = s
				n.AddChildren(geometry)
			} else {
				n.Mesh = m
			}
		}

		if spec.Animate != "" {
			if _, ok := anim.ProfileByName(spec.Animate); !ok {
				return nil, errors.Errorf("node %q: unknown animation profile %q", spec.Name, spec.Animate)
			}
			doc.Bindings = append(doc.Bindings, Binding{Node: n, Profile: spec.Animate})
		}

		for _, childSpec := range spec.Children {
			child, err := build(childSpec)
			if err != nil {
				return nil, err
			}
			n.AddChildren(child)
		}
		return n, nil
	}

	root, err := build(f.Root)
	if err != nil {
		return nil, err
	}
	if doc.Graph, err = scene.Build(root, scene.Options{Policy: policy}); err != nil {
		return nil, errors.Wrapf(err, "scene %q", f.Name)
	}
	return doc, nil
}

func (ts *TransformSpec) transform() *scene.Transform {
	t := scene.NewTransform()
	t.Translation = ts.Translation
	t.Rotation = ts.Rotation
	t.Pivot = ts.Pivot
	if ts.Scale != nil {
		t.Scale = *ts.Scale
	}
	return t
}

// FromGraph wraps a graph built in code; meshes are referred to by their own names.
func FromGraph(name string, g *scene.Graph, bindings ...Binding) *Document {
	return &Document{
		Name:      name,
		Graph:     g,
		Bindings:  bindings,
		meshNames: make(map[*scene.Mesh]string),
	}
}

func (doc *Document) MeshName(m *scene.Mesh) string {
	if name, ok := doc.meshNames[m]; ok {
		return name
	}
	return m.Name
}

// File converts the document back to its yaml form. Geometry children created for model
// scales fold back into their parents. Nodes keep their authored names, so renamed
// duplicates get renamed the same way when the file is loaded again.
func (doc *Document) File() *File {
	profiles := make(map[*scene.Node]string, len(doc.Bindings))
	for _, b := range doc.Bindings {
		profiles[b.Node] = b.Profile
	}

	var spec func(n *scene.Node) *NodeSpec
	spec = func(n *scene.Node) *NodeSpec {
		s := &NodeSpec{
			Name:     n.Name,
			Material: n.Material,
			Animate:  profiles[n],
			Bounds:   n.Bounds,
		}
		if n.Transform != nil {
			scale := n.Transform.Scale
			s.Transform = &TransformSpec{
				Translation: n.Transform.Translation,
				Rotation:    n.Transform.Rotation,
				Scale:       &scale,
				Pivot:       n.Transform.Pivot,
			}
		}
		if n.Mesh != nil {
			s.Mesh = doc.MeshName(n.Mesh)
		}
		for _, child := range n.Children {
			if s.Mesh == "" && isGeometryOf(n, child) {
				scale := child.Transform.Scale
				s.Mesh = doc.MeshName(child.Mesh)
				s.ModelScale = &scale
				continue
			}
			s.Children = append(s.Children, spec(child))
		}
		return s
	}

	return &File{Name: doc.Name, Root: spec(doc.Graph.Root)}
}

func isGeometryOf(parent, child *scene.Node) bool {
	return child.Name == parent.Name+GeometrySuffix &&
		child.Mesh != nil && child.Transform != nil &&
		child.Material == nil && len(child.Children) == 0 && child.Bounds == nil &&
		child.Transform.Translation == (mgl32.Vec3{}) && child.Transform.Rotation == (mgl32.Vec3{}) &&
		child.Transform.Pivot == (mgl32.Vec3{})
}

func (doc *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc.File()); err != nil {
		return nil, errors.Wrapf(err, "Failed to encode scene %q", doc.Name)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
