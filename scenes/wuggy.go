package scenes

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scenewalk/camera"
	"github.com/mogaika/scenewalk/input"
	"github.com/mogaika/scenewalk/render"
	"github.com/mogaika/scenewalk/scene"
	"github.com/mogaika/scenewalk/scenefile"
)

const (
	DefaultWuggyShininess = 50
	wuggySpeed            = 0.05
	wuggyTurnSpeed        = 0.05
	wuggyLightRadius      = 5
	wuggyLightSpeed       = 0.01
)

// Wuggy is a small vehicle driven by the WS and AD axes. Its head keeps turning toward the
// camera, the camera follows the vehicle and the light circles around the scene.
type Wuggy struct {
	doc  *scenefile.Document
	root *scene.Node
	// body parts by name
	parts map[string]*scene.Node

	camera   *camera.Pivot
	renderer *render.Renderer

	Speed     float32
	moving    bool
	direction float32

	shininess   float32
	alpha, beta float32
	light       mgl32.Vec3
}

var wuggyParts = []string{"WheelBigL", "WheelBigR", "WheelSmallL", "WheelSmallR", "NeckHi"}

func NewWuggy(opts Options) (Scene, error) {
	doc, err := loadDocument("wuggy.yaml", opts)
	if err != nil {
		return nil, err
	}

	w := &Wuggy{
		doc:       doc,
		root:      doc.Graph.Root,
		parts:     make(map[string]*scene.Node, len(wuggyParts)),
		camera:    camera.NewPivot(),
		Speed:     wuggySpeed,
		shininess: opts.Shininess,
	}
	if w.shininess == 0 {
		w.shininess = DefaultWuggyShininess
	}
	w.shininess = mgl32.Clamp(w.shininess, render.MinShininess, render.MaxShininess)
	for _, name := range wuggyParts {
		n, err := doc.Graph.FindByName(name)
		if err != nil {
			return nil, err
		}
		if n.Transform == nil {
			n.Transform = scene.NewTransform()
		}
		w.parts[name] = n
	}
	if w.root.Transform == nil {
		w.root.Transform = scene.NewTransform()
	}
	w.root.Transform.Translation = mgl32.Vec3{0, 0, 10}
	w.camera.Translation[1] += 10
	return w, nil
}

func (w *Wuggy) Name() string                  { return "wuggy" }
func (w *Wuggy) Graph() *scene.Graph           { return w.doc.Graph }
func (w *Wuggy) Document() *scenefile.Document { return w.doc }
func (w *Wuggy) Camera() *camera.Pivot         { return w.camera }
func (w *Wuggy) Light() mgl32.Vec3             { return w.light }
func (w *Wuggy) Moving() bool                  { return w.moving }
func (w *Wuggy) Shininess() float32            { return w.shininess }

func (w *Wuggy) Part(name string) *scene.Node {
	return w.parts[name]
}

func (w *Wuggy) Configure(r *render.Renderer) {
	w.renderer = r
	r.SetShininess(w.shininess)
	w.updateLight()
}

func (w *Wuggy) updateLight() {
	w.light = mgl32.Vec3{
		float32(math.Sin(float64(w.alpha))) * wuggyLightRadius,
		0,
		float32(math.Cos(float64(w.beta))) * wuggyLightRadius,
	}
	if w.renderer != nil {
		w.renderer.SetLight(w.light)
	}
}

func (w *Wuggy) Update(f input.Frame) error {
	w.alpha += wuggyLightSpeed
	w.beta += wuggyLightSpeed
	w.updateLight()

	w.Accelerate(f.WS)
	w.Steer(f.AD)
	w.LookAtCamera()

	w.camera.PivotPoint = w.camera.Translation
	w.camera.LookAtTarget(w.root.Transform.Translation)
	w.camera.SetFieldOfView(w.camera.FieldOfView() + f.LeftRight/100)

	w.shininess = mgl32.Clamp(w.shininess-f.UpDown, render.MinShininess, render.MaxShininess)
	if w.renderer != nil {
		w.renderer.SetShininess(w.shininess)
	}
	return nil
}

// Steer turns the vehicle while it moves and sets the wheel angles. The small wheels turn
// against the big ones.
func (w *Wuggy) Steer(amount float32) {
	if w.moving {
		w.root.Transform.Rotation[1] += amount * wuggyTurnSpeed
	}

	angle := amount / 2.5
	if w.direction < 0 {
		angle = -angle
	}
	w.parts["WheelBigL"].Transform.Rotation[1] = angle
	w.parts["WheelBigR"].Transform.Rotation[1] = angle
	w.parts["WheelSmallL"].Transform.Rotation[1] = -angle
	w.parts["WheelSmallR"].Transform.Rotation[1] = -angle
}

// Accelerate rolls the wheels and moves the vehicle along its heading. Zero stops it.
func (w *Wuggy) Accelerate(amount float32) {
	if amount == 0 {
		w.moving = false
		return
	}
	w.moving = true
	w.direction = amount

	roll := w.Speed * amount
	w.parts["WheelBigL"].Transform.Rotation[0] -= roll
	w.parts["WheelBigR"].Transform.Rotation[0] -= roll
	w.parts["WheelSmallL"].Transform.Rotation[0] -= roll * 1.5
	w.parts["WheelSmallR"].Transform.Rotation[0] -= roll * 1.5

	xf := w.root.Transform
	heading := float64(xf.Rotation.Y())
	xf.Translation[0] -= float32(math.Sin(heading)) * amount * w.Speed
	xf.Translation[2] -= float32(math.Cos(heading)) * amount * w.Speed
}

// LookAtCamera turns the head toward the origin the camera circles, relative to the
// vehicle heading.
func (w *Wuggy) LookAtCamera() {
	xf := w.root.Transform
	rot := math.Atan2(float64(xf.Translation.X()), float64(xf.Translation.Z()))
	w.parts["NeckHi"].Transform.Rotation[1] = float32(rot) - xf.Rotation.Y()
}

func (w *Wuggy) View() mgl32.Mat4 {
	return w.camera.ViewMatrix()
}
