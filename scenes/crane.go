package scenes

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/scenewalk/anim"
	"github.com/mogaika/scenewalk/assets"
	"github.com/mogaika/scenewalk/camera"
	"github.com/mogaika/scenewalk/input"
	"github.com/mogaika/scenewalk/render"
	"github.com/mogaika/scenewalk/scene"
	"github.com/mogaika/scenewalk/scenefile"
)

const (
	DefaultCraneSegments = 50
	craneArmLength       = 0.05
	craneSteerSpeed      = 0.1
)

// Crane is a chain of arm segments. Every segment rotates about its base and carries the
// next one at its tip. The first two are steered by keyboard axes, the rest wander.
type Crane struct {
	graph    *scene.Graph
	arms     []*scene.Node
	animator *anim.Animator
	bindings []scenefile.Binding

	// camera yaw and pitch
	alpha mgl32.Vec2
}

func NewCrane(opts Options) (Scene, error) {
	segments := opts.CraneSegments
	if segments == 0 {
		segments = DefaultCraneSegments
	}
	if segments < 2 {
		return nil, errors.Errorf("crane needs at least 2 segments, got %d", segments)
	}

	provider, err := opts.provider()
	if err != nil {
		return nil, err
	}
	cube, err := assets.GetMesh(provider, "Cube")
	if err != nil {
		return nil, err
	}

	c := &Crane{
		arms:     make([]*scene.Node, segments),
		animator: opts.animator(),
	}

	root := scene.NewNode("crane").WithMaterial(scene.Albedo(0.8, 0.8, 0.8))
	parent := root
	for i := range c.arms {
		// the base segment would get an infinite size from 0.5/i
		thickness := float32(0.5) / float32(max(i, 1))
		size := mgl32.Vec3{craneArmLength, thickness, thickness}
		position := mgl32.Vec3{0.5 + float32(i)*craneArmLength*2, 0, 0}

		xf := scene.NewTransform()
		xf.Translation = position
		xf.Pivot = mgl32.Vec3{-size.X(), 0, 0}

		geometry := scene.NewTransform()
		geometry.Scale = size

		arm := scene.NewNode(fmt.Sprintf("arm%d", i)).WithTransform(xf)
		arm.AddChildren(scene.NewNode(fmt.Sprintf("arm%d.cube", i)).WithTransform(geometry).WithMesh(cube))
		c.arms[i] = arm
		parent.AddChildren(arm)

		link := scene.NewNode(fmt.Sprintf("arm%d.link", i)).
			WithTransform(scene.Translation(-position.X(), -position.Y(), -position.Z()))
		arm.AddChildren(link)
		parent = link
	}

	if c.graph, err = scene.Build(root, scene.Options{Policy: opts.Policy}); err != nil {
		return nil, err
	}

	for _, arm := range c.arms[2:] {
		arm.Bounds = anim.ArmYawLimit()
		if err := c.animator.Bind(arm, anim.ArmSegment()); err != nil {
			return nil, err
		}
		c.bindings = append(c.bindings, scenefile.Binding{Node: arm, Profile: "arm"})
	}
	return c, nil
}

func (c *Crane) Name() string        { return "crane" }
func (c *Crane) Graph() *scene.Graph { return c.graph }

func (c *Crane) Arms() []*scene.Node {
	return c.arms
}

func (c *Crane) Update(f input.Frame) error {
	if f.MouseDown {
		c.alpha = c.alpha.Sub(f.MouseVelocity.Mul(camera.DragSensitivity))
	}
	c.alpha[0] = mgl32.Clamp(c.alpha[0], -math.Pi, math.Pi)

	steer := func(arm *scene.Node, yaw, pitch float32) {
		arm.Transform.Rotation[1] += yaw * craneSteerSpeed
		arm.Transform.Rotation[0] += pitch * craneSteerSpeed
	}
	steer(c.arms[0], f.AD, f.WS)
	steer(c.arms[1], f.LeftRight, f.UpDown)

	return c.animator.Step()
}

func (c *Crane) View() mgl32.Mat4 {
	return mgl32.Translate3D(-1.5, 0, 3).
		Mul4(mgl32.HomogRotate3DY(c.alpha.X())).
		Mul4(mgl32.HomogRotate3DX(c.alpha.Y()))
}

func (c *Crane) Configure(r *render.Renderer) {}

func (c *Crane) Document() *scenefile.Document {
	return scenefile.FromGraph(c.Name(), c.graph, c.bindings...)
}
