// Package anim drives target-seeking procedural motion: every bound node drifts toward a
// randomly drawn target for a bounded number of steps, then draws a new one.
package anim

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/scenewalk/scene"
	"github.com/mogaika/scenewalk/utils"
)

type binding struct {
	node    *scene.Node
	profile *Profile
}

// Animator owns the random source and the list of animated nodes.
// It is not safe for concurrent use.
type Animator struct {
	rnd      *rand.Rand
	bindings []binding
	index    map[*scene.Node]int
	frame    int
}

func New(src rand.Source) *Animator {
	return &Animator{
		rnd:   rand.New(src),
		index: make(map[*scene.Node]int),
	}
}

// Bind registers node for animation with profile. The node gets a fresh target in the
// reached state, so its first Advance draws a target. Binding a node twice is an error:
// each node must be advanced exactly once per frame.
func (a *Animator) Bind(n *scene.Node, p *Profile) error {
	if n == nil || p == nil {
		return scene.Violationf("bind nil node or profile")
	}
	if _, bound := a.index[n]; bound {
		return scene.Violationf("node %q is already animated", n.Name)
	}
	if err := p.validate(); err != nil {
		return errors.Wrapf(err, "node %q", n.Name)
	}
	if n.Transform == nil {
		n.Transform = scene.NewTransform()
	}
	n.Target = &scene.AnimationTarget{}

	a.index[n] = len(a.bindings)
	a.bindings = append(a.bindings, binding{node: n, profile: p})
	return nil
}

func (a *Animator) Bound(n *scene.Node) bool {
	_, ok := a.index[n]
	return ok
}

func (a *Animator) Len() int {
	return len(a.bindings)
}

// Frame returns how many times Step was called.
func (a *Animator) Frame() int {
	return a.frame
}

// Step advances every bound node once, in bind order.
func (a *Animator) Step() error {
	for _, b := range a.bindings {
		if err := a.advance(b.node, b.profile); err != nil {
			return err
		}
	}
	a.frame++
	return nil
}

// Advance moves a single bound node one step.
func (a *Animator) Advance(n *scene.Node) error {
	i, ok := a.index[n]
	if !ok {
		return scene.Violationf("node %q is not animated", n.Name)
	}
	return a.advance(n, a.bindings[i].profile)
}

func HasReachedTarget(n *scene.Node) bool {
	return n.Target == nil || n.Target.Reached()
}

func (a *Animator) advance(n *scene.Node, p *Profile) error {
	if n.Target == nil {
		n.Target = &scene.AnimationTarget{}
	}
	if HasReachedTarget(n) {
		a.newTarget(n, p)
		return nil
	}

	t := n.Target
	for i, axis := range p.Axes {
		step := t.Delta[i] * t.Speed / axis.Scale
		switch axis.Field {
		case FieldRotation:
			n.Transform.Rotation[axis.Component] += step
		case FieldTranslation:
			n.Transform.Translation[axis.Component] += step
		}
	}
	t.Remaining--
	n.ClampRotation()
	return nil
}

func (a *Animator) newTarget(n *scene.Node, p *Profile) {
	t := n.Target
	t.Delta = mgl32.Vec3{}
	for i := range p.Axes {
		t.Delta[i] = float32(a.rnd.Float64()*2.0 - 1.0)
	}
	t.Remaining = utils.UniformInt(a.rnd, p.Steps.Min, p.Steps.Max)

	speed := p.Speed
	if p.SpeedFromPosition != nil {
		speed = p.SpeedFromPosition(n)
	}
	t.Speed = utils.UniformFloat(a.rnd, speed.Min, speed.Max)
}

func (p *Profile) validate() error {
	if len(p.Axes) == 0 || len(p.Axes) > 3 {
		return scene.Violationf("profile %q: %d axes", p.Name, len(p.Axes))
	}
	for _, axis := range p.Axes {
		if axis.Component < AxisX || axis.Component > AxisZ {
			return scene.Violationf("profile %q: axis component %d", p.Name, axis.Component)
		}
		if axis.Scale == 0 {
			return scene.Violationf("profile %q: zero axis scale", p.Name)
		}
	}
	if p.Steps.Min < 1 || p.Steps.Max < p.Steps.Min {
		return scene.Violationf("profile %q: step range [%d,%d)", p.Name, p.Steps.Min, p.Steps.Max)
	}
	return nil
}
