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

// HumanoidLimbs are the nodes that move on their own, in update order.
var HumanoidLimbs = []string{
	"head",
	"lower_right_arm",
	"lower_left_arm",
	"upper_right_arm",
	"upper_left_arm",
	"lower_right_leg",
	"lower_left_leg",
	"upper_right_leg",
	"upper_left_leg",
}

// Humanoid is a figure built from primitives whose limbs swing within their joint bounds.
type Humanoid struct {
	doc      *scenefile.Document
	animator *anim.Animator
	camera   *camera.Turntable
}

func NewHumanoid(opts Options) (Scene, error) {
	doc, err := loadDocument("humanoid.yaml", opts)
	if err != nil {
		return nil, err
	}
	h := &Humanoid{
		doc:      doc,
		animator: opts.animator(),
		camera: &camera.Turntable{
			Target:   mgl32.Vec3{0, 2, 0},
			Distance: 8,
		},
	}
	if err := bindAll(h.animator, doc.Graph, "free", HumanoidLimbs...); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Humanoid) Name() string                  { return "humanoid" }
func (h *Humanoid) Graph() *scene.Graph           { return h.doc.Graph }
func (h *Humanoid) Document() *scenefile.Document { return h.doc }
func (h *Humanoid) Camera() *camera.Turntable     { return h.camera }

func (h *Humanoid) Update(f input.Frame) error {
	if f.MouseDown {
		h.camera.Drag(f.MouseVelocity)
	}
	return h.animator.Step()
}

func (h *Humanoid) View() mgl32.Mat4 {
	return h.camera.ViewMatrix()
}

func (h *Humanoid) Configure(r *render.Renderer) {}
