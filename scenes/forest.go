package scenes

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scenewalk/anim"
	"github.com/mogaika/scenewalk/camera"
	"github.com/mogaika/scenewalk/input"
	"github.com/mogaika/scenewalk/render"
	"github.com/mogaika/scenewalk/scene"
	"github.com/mogaika/scenewalk/scenefile"
)

var (
	// ForestEffect names the nodes drawn with the toon effect; nothing else is drawn.
	ForestEffect = []string{"Tree.1", "Tree.2", "Tree.3", "Bird"}
	// ForestTextures are the textures the backend has loaded.
	ForestTextures = []string{"Leaves.jpg"}
)

// Forest is a handful of textured trees. Only nodes of the toon effect get drawn and only
// the loaded leaves texture is mixed in.
type Forest struct {
	doc       *scenefile.Document
	animator  *anim.Animator
	camera    *camera.Turntable
	shininess float32
}

func NewForest(opts Options) (Scene, error) {
	doc, err := loadDocument("forest.yaml", opts)
	if err != nil {
		return nil, err
	}
	f := &Forest{
		doc:      doc,
		animator: opts.animator(),
		camera: &camera.Turntable{
			Target:   mgl32.Vec3{0, 1, 0},
			Distance: 12,
			Beta:     0.3,
		},
		shininess: opts.Shininess,
	}
	if err := bindDocument(f.animator, doc); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Forest) Name() string                  { return "forest" }
func (f *Forest) Graph() *scene.Graph           { return f.doc.Graph }
func (f *Forest) Document() *scenefile.Document { return f.doc }

func (f *Forest) Configure(r *render.Renderer) {
	r.SetEffect(ForestEffect...)
	if r.Textures == nil {
		r.Textures = make(map[string]bool)
	}
	for _, name := range ForestTextures {
		r.Textures[name] = true
	}
	r.SetShininess(f.shininess)
	r.SetLight(mgl32.Vec3{0.5, -1, -0.5}.Normalize())
}

func (f *Forest) Update(in input.Frame) error {
	if in.MouseDown {
		f.camera.Drag(in.MouseVelocity)
	}
	return f.animator.Step()
}

func (f *Forest) View() mgl32.Mat4 {
	return f.camera.ViewMatrix()
}
