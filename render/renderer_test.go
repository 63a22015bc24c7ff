package render

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/scenewalk/scene"
)

func triangle(name string) *scene.Mesh {
	return &scene.Mesh{
		Name:      name,
		Vertices:  []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Triangles: []uint16{0, 1, 2},
	}
}

type orderObserver struct {
	enter, exit []string
}

func (o *orderObserver) OnEnter(n *scene.Node, depth int) { o.enter = append(o.enter, n.Name) }
func (o *orderObserver) OnExit(n *scene.Node, depth int)  { o.exit = append(o.exit, n.Name) }

func TestTraversalOrder(t *testing.T) {
	root := scene.NewNode("A",
		scene.NewNode("B"),
		scene.NewNode("C", scene.NewNode("D")),
	)

	obs := &orderObserver{}
	r := NewRenderer(NewRecorder())
	r.Observer = obs
	require.NoError(t, r.Traverse(root))

	assert.Equal(t, []string{"A", "B", "C", "D"}, obs.enter)
	assert.Equal(t, []string{"B", "D", "C", "A"}, obs.exit)
	assert.Equal(t, 4, r.Stats().Nodes)
	assert.Equal(t, 2, r.Stats().MaxDepth)

	// repeatable
	obs2 := &orderObserver{}
	r.Observer = obs2
	require.NoError(t, r.Traverse(root))
	assert.Equal(t, obs.enter, obs2.enter)
	assert.Equal(t, obs.exit, obs2.exit)
}

func TestSiblingsSeeOnlyParent(t *testing.T) {
	parent := scene.Translation(0, 5, 0)
	first := scene.NewNode("first").WithTransform(scene.Translation(3, 0, 0)).WithMesh(triangle("m1"))
	second := scene.NewNode("second").WithTransform(scene.Translation(0, 0, 7)).WithMesh(triangle("m2"))
	root := scene.NewNode("root", first, second).WithTransform(parent)

	rec := NewRecorder()
	r := NewRenderer(rec)
	require.NoError(t, r.Traverse(root))

	draws := rec.DrawCalls()
	require.Len(t, draws, 2)
	assert.Equal(t, mgl32.Translate3D(3, 5, 0), draws[0].ModelView)
	assert.Equal(t, mgl32.Translate3D(0, 5, 7), draws[1].ModelView)

	calls := rec.Calls()
	last := calls[len(calls)-1]
	require.Equal(t, CallModelView, last.Kind)
	assert.Equal(t, mgl32.Ident4(), *last.Matrix)
}

func TestTwoDrawScene(t *testing.T) {
	m1 := triangle("M1")
	m2 := triangle("M2")
	root := scene.NewNode("root",
		scene.NewNode("one").WithMesh(m1).WithTransform(scene.Translation(1, 0, 0)),
		scene.NewNode("two").WithMesh(m2),
	).WithTransform(scene.Translation(0, 0, 0))

	view := mgl32.LookAtV(mgl32.Vec3{0, 2, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})

	rec := NewRecorder()
	r := NewRenderer(rec)
	r.View = view
	require.NoError(t, r.Traverse(root))

	draws := rec.DrawCalls()
	require.Len(t, draws, 2)
	assert.Equal(t, "M1", draws[0].MeshName)
	assert.True(t, view.Mul4(mgl32.Translate3D(1, 0, 0)).ApproxEqual(draws[0].ModelView))
	assert.Equal(t, "M2", draws[1].MeshName)
	assert.True(t, view.ApproxEqual(draws[1].ModelView))
}

func TestDrawCallOrder(t *testing.T) {
	root := scene.NewNode("box").
		WithTransform(scene.Translation(1, 2, 3)).
		WithMaterial(scene.Albedo(1, 0, 0)).
		WithMesh(triangle("box"))

	rec := NewRecorder()
	require.NoError(t, NewRenderer(rec).Traverse(root))

	var kinds []CallKind
	for _, c := range rec.Calls() {
		if len(kinds) == 0 || kinds[len(kinds)-1] != c.Kind {
			kinds = append(kinds, c.Kind)
		}
	}
	assert.Equal(t, []CallKind{
		CallModelView,   // transform
		CallShaderParam, // material
		CallCreateMesh,
		CallShaderParam, // params before draw
		CallModelView,
		CallDraw,
		CallModelView, // pop
	}, kinds)
}

func TestMaterialScope(t *testing.T) {
	red := scene.Albedo(1, 0, 0)
	green := &scene.Material{
		Diffuse:  &scene.Channel{Color: mgl32.Vec3{0, 1, 0}},
		Specular: &scene.Specular{Color: mgl32.Vec3{1, 1, 1}, Intensity: 0.5},
		Emissive: &scene.Channel{Color: mgl32.Vec3{0.1, 0.1, 0.1}},
	}
	root := scene.NewNode("root",
		scene.NewNode("red", scene.NewNode("inherits").WithMesh(triangle("a"))).WithMaterial(red),
		scene.NewNode("green").WithMaterial(green).WithMesh(triangle("b")),
		scene.NewNode("none").WithMesh(triangle("c")),
	)

	rec := NewRecorder()
	r := NewRenderer(rec)
	r.SetShininess(1000)
	require.NoError(t, r.Traverse(root))

	draws := rec.DrawCalls()
	require.Len(t, draws, 3)

	assert.Equal(t, mgl32.Vec3{1, 0, 0}, draws[0].Params[ParamAlbedo])
	assert.Equal(t, float32(0), draws[0].Params[ParamShininess])

	assert.Equal(t, mgl32.Vec3{0, 1, 0}, draws[1].Params[ParamAlbedo])
	assert.Equal(t, float32(MaxShininess), draws[1].Params[ParamShininess])
	assert.Equal(t, float32(0.5), draws[1].Params[ParamSpecFactor])
	assert.Equal(t, mgl32.Vec3{0.1, 0.1, 0.1}, draws[1].Params[ParamAmbientColor])

	// sibling without material gets zeroed params
	for _, p := range MaterialParams {
		require.Contains(t, draws[2].Params, p)
	}
	assert.Equal(t, mgl32.Vec3{}, draws[2].Params[ParamAlbedo])
	assert.Equal(t, mgl32.Vec3{}, draws[2].Params[ParamSpecColor])
	assert.Equal(t, mgl32.Vec3{}, draws[2].Params[ParamAmbientColor])
	assert.Equal(t, float32(0), draws[2].Params[ParamTexMix])
}

func TestTextureMix(t *testing.T) {
	leaves := &scene.Material{Diffuse: &scene.Channel{Color: mgl32.Vec3{1, 1, 1}, Texture: "Leaves.jpg"}}
	bark := &scene.Material{Diffuse: &scene.Channel{Color: mgl32.Vec3{1, 1, 1}, Texture: "Bark.jpg"}}
	root := scene.NewNode("tree",
		scene.NewNode("crown").WithMaterial(leaves).WithMesh(triangle("crown")),
		scene.NewNode("trunk").WithMaterial(bark).WithMesh(triangle("trunk")),
	)

	rec := NewRecorder()
	r := NewRenderer(rec)
	r.Textures = map[string]bool{"Leaves.jpg": true}
	require.NoError(t, r.Traverse(root))

	draws := rec.DrawCalls()
	require.Len(t, draws, 2)
	assert.Equal(t, float32(1), draws[0].Params[ParamTexMix])
	assert.Equal(t, "Leaves.jpg", draws[0].Params[ParamTexture])
	assert.Equal(t, float32(0), draws[1].Params[ParamTexMix])
}

func TestEffectGating(t *testing.T) {
	shared := triangle("tree")
	root := scene.NewNode("forest",
		scene.NewNode("Tree.1").WithMesh(shared),
		scene.NewNode("Bush").WithMesh(triangle("bush")),
		scene.NewNode("Tree.2").WithMesh(shared),
	)

	rec := NewRecorder()
	r := NewRenderer(rec)
	r.SetEffect("Tree.1", "Tree.2", "Tree.3")
	require.NoError(t, r.Traverse(root))

	draws := rec.DrawCalls()
	require.Len(t, draws, 2)
	assert.Equal(t, draws[0].Mesh, draws[1].Mesh)
	assert.Equal(t, 1, r.Stats().Skipped)
	assert.Equal(t, 1, rec.MeshesCount())
}

func TestLightPublishedFirst(t *testing.T) {
	rec := NewRecorder()
	r := NewRenderer(rec)
	r.SetLight(mgl32.Vec3{0, -1, 0})
	require.NoError(t, r.Traverse(scene.NewNode("empty")))

	calls := rec.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, ParamLightDir, calls[0].Param)
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, calls[0].Value)
}

func TestShininessClamp(t *testing.T) {
	r := NewRenderer(NewRecorder())
	for _, tc := range []struct {
		in, want float32
	}{
		{0, 0},
		{0.2, MinShininess},
		{50, 50},
		{900, MaxShininess},
	} {
		r.SetShininess(tc.in)
		assert.Equal(t, tc.want, r.Shininess(), "%v", tc.in)
	}
}

func TestDrawFailureAbortsFrame(t *testing.T) {
	rec := NewRecorder()
	rec.FailDraw = func(h MeshHandle) error {
		if h == 2 {
			return fmt.Errorf("device lost")
		}
		return nil
	}
	obs := &orderObserver{}
	r := NewRenderer(rec)
	r.Observer = obs

	root := scene.NewNode("root",
		scene.NewNode("a").WithMesh(triangle("a")),
		scene.NewNode("b").WithMesh(triangle("b")),
		scene.NewNode("c").WithMesh(triangle("c")),
	)
	err := r.Traverse(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device lost")
	assert.Contains(t, err.Error(), `node "b"`)
	assert.Equal(t, []string{"root", "a", "b"}, obs.enter)
	assert.Len(t, rec.DrawCalls(), 1)
}

func TestTraverseNilRoot(t *testing.T) {
	err := NewRenderer(NewRecorder()).Traverse(nil)
	assert.True(t, scene.IsInvariantViolation(err))
}

func TestCreateFailurePropagates(t *testing.T) {
	empty := &scene.Mesh{Name: "empty"}
	err := NewRenderer(NewRecorder()).Traverse(scene.NewNode("n").WithMesh(empty))
	require.Error(t, err)
	assert.Contains(t, errors.Cause(err).Error(), "no vertices")
}
