// Package render walks a scene graph depth first, accumulating model matrices on a
// collapsing stack and issuing draw calls on a Backend.
package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/scenewalk/scene"
)

const (
	MinShininess = 1
	MaxShininess = 500
)

// Observer is told about scope boundaries. OnEnter comes before the node components are
// visited, OnExit after the scope is popped.
type Observer interface {
	OnEnter(n *scene.Node, depth int)
	OnExit(n *scene.Node, depth int)
}

type scope struct {
	model    mgl32.Mat4
	material *scene.Material
}

type Stats struct {
	Nodes     int
	Draws     int
	Skipped   int
	MaxDepth  int
	Materials int
}

type Renderer struct {
	Backend Backend
	Cache   *MeshCache
	// camera transform, combined with the accumulated model matrix before every publish
	View     mgl32.Mat4
	Observer Observer
	// When not empty only meshes on nodes with these names are drawn.
	Effects map[string]bool
	// Textures known to the backend. A diffuse texture from this set is bound with texmix 1.
	Textures map[string]bool

	shininess float32
	light     *mgl32.Vec3
	stats     Stats
}

func NewRenderer(backend Backend) *Renderer {
	return &Renderer{
		Backend: backend,
		Cache:   NewMeshCache(backend),
		View:    mgl32.Ident4(),
	}
}

// SetShininess sets the shininess used by specular materials without their own value.
// Zero disables the override; anything else is clamped into [MinShininess, MaxShininess].
func (r *Renderer) SetShininess(v float32) {
	if v == 0 {
		r.shininess = 0
		return
	}
	r.shininess = mgl32.Clamp(v, MinShininess, MaxShininess)
}

func (r *Renderer) Shininess() float32 {
	return r.shininess
}

// SetLight makes every traversal start by publishing the light direction.
func (r *Renderer) SetLight(dir mgl32.Vec3) {
	r.light = &dir
}

func (r *Renderer) SetEffect(names ...string) {
	if r.Effects == nil {
		r.Effects = make(map[string]bool)
	}
	for _, name := range names {
		r.Effects[name] = true
	}
}

// Stats of the last traversal.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Traverse renders one frame of the tree under root. Every call owns its own state stack.
// The first error aborts the frame.
func (r *Renderer) Traverse(root *scene.Node) error {
	if root == nil {
		return scene.Violationf("traverse nil root")
	}
	if r.Cache == nil {
		r.Cache = NewMeshCache(r.Backend)
	}

	t := &traversal{
		r:     r,
		stack: NewCollapsingStack(scope{model: mgl32.Ident4()}),
	}
	if r.light != nil {
		r.Backend.SetShaderParam(ParamLightDir, *r.light)
	}

	err := t.visit(root, 0)
	r.stats = t.stats
	if err != nil {
		return errors.Wrap(err, "frame aborted")
	}
	if depth := t.stack.Depth(); depth != 0 {
		return scene.Violationf("state stack not balanced after frame: depth %d", depth)
	}
	return nil
}

type traversal struct {
	r     *Renderer
	stack *CollapsingStack[scope]
	stats Stats
}

func (t *traversal) visit(n *scene.Node, depth int) error {
	if n == nil {
		return scene.Violationf("nil node at depth %d", depth)
	}

	t.stack.Push()
	t.stats.Nodes++
	if depth > t.stats.MaxDepth {
		t.stats.MaxDepth = depth
	}
	if t.r.Observer != nil {
		t.r.Observer.OnEnter(n, depth)
	}

	for _, c := range n.Components() {
		var err error
		switch c := c.(type) {
		case *scene.Transform:
			t.onTransform(c)
		case *scene.Material:
			t.onMaterial(c)
		case *scene.Mesh:
			err = t.onMesh(n, c)
		default:
			err = scene.Violationf("node %q: unknown component %T", n.Name, c)
		}
		if err != nil {
			return errors.Wrapf(err, "node %q", n.Name)
		}
	}

	for _, child := range n.Children {
		if err := t.visit(child, depth+1); err != nil {
			return err
		}
	}

	if err := t.stack.Pop(); err != nil {
		return err
	}
	t.r.Backend.SetModelView(t.modelView())
	if t.r.Observer != nil {
		t.r.Observer.OnExit(n, depth)
	}
	return nil
}

func (t *traversal) modelView() mgl32.Mat4 {
	return t.r.View.Mul4(t.stack.Tos().model)
}

func (t *traversal) onTransform(xf *scene.Transform) {
	s := t.stack.Tos()
	s.model = s.model.Mul4(xf.Matrix())
	t.stack.SetTos(s)
	t.r.Backend.SetModelView(t.modelView())
}

func (t *traversal) onMaterial(m *scene.Material) {
	s := t.stack.Tos()
	s.material = m
	t.stack.SetTos(s)
	t.stats.Materials++
	t.publishMaterial(m)
}

func (t *traversal) onMesh(n *scene.Node, mesh *scene.Mesh) error {
	if len(t.r.Effects) != 0 && !t.r.Effects[n.Name] {
		t.stats.Skipped++
		return nil
	}

	h, err := t.r.Cache.LookupOrCreate(mesh)
	if err != nil {
		return err
	}

	t.publishMaterial(t.stack.Tos().material)
	t.r.Backend.SetModelView(t.modelView())
	if err := t.r.Backend.Draw(h); err != nil {
		return errors.Wrapf(err, "draw %q", mesh.Name)
	}
	t.stats.Draws++
	return nil
}

// publishMaterial writes every material slot; channels the material lacks are zeroed.
func (t *traversal) publishMaterial(m *scene.Material) {
	b := t.r.Backend

	if m.HasDiffuse() {
		b.SetShaderParam(ParamAlbedo, m.Diffuse.Color)
	} else {
		b.SetShaderParam(ParamAlbedo, mgl32.Vec3{})
	}

	if m.HasSpecular() {
		shininess := m.Specular.Shininess
		if shininess == 0 {
			shininess = t.r.shininess
		}
		b.SetShaderParam(ParamShininess, shininess)
		b.SetShaderParam(ParamSpecFactor, m.Specular.Intensity)
		b.SetShaderParam(ParamSpecColor, m.Specular.Color)
	} else {
		b.SetShaderParam(ParamShininess, float32(0))
		b.SetShaderParam(ParamSpecFactor, float32(0))
		b.SetShaderParam(ParamSpecColor, mgl32.Vec3{})
	}

	if m.HasEmissive() {
		b.SetShaderParam(ParamAmbientColor, m.Emissive.Color)
	} else {
		b.SetShaderParam(ParamAmbientColor, mgl32.Vec3{})
	}

	if m.HasDiffuse() && m.Diffuse.Texture != "" && t.r.Textures[m.Diffuse.Texture] {
		b.SetShaderParam(ParamTexture, m.Diffuse.Texture)
		b.SetShaderParam(ParamTexMix, float32(1))
	} else {
		b.SetShaderParam(ParamTexture, "")
		b.SetShaderParam(ParamTexMix, float32(0))
	}
}
