package anim

import (
	"math"

	"github.com/mogaika/scenewalk/scene"
)

type Field uint8

const (
	FieldRotation Field = iota
	FieldTranslation
)

// Axis maps one component of the target delta onto a transform component.
type Axis struct {
	Field Field
	// component: 0 - x (pitch), 1 - y (yaw), 2 - z (roll)
	Component int
	// divisor applied to delta * speed
	Scale float32
}

type IntRange struct {
	Min, Max int
}

type FloatRange struct {
	Min, Max float32
}

// Profile describes how a node drifts toward its random targets.
type Profile struct {
	Name  string
	Axes  []Axis
	Steps IntRange
	Speed FloatRange
	// when set, overrides Speed with a range derived from the node translation
	SpeedFromPosition func(n *scene.Node) FloatRange
}

const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
)

// FreeRotation turns all three axes, used for humanoid limbs.
func FreeRotation() *Profile {
	return &Profile{
		Name: "free",
		Axes: []Axis{
			{Component: AxisX, Scale: 1000},
			{Component: AxisY, Scale: 1000},
			{Component: AxisZ, Scale: 1000},
		},
		Steps: IntRange{50, 200},
		Speed: FloatRange{20, 100},
	}
}

// ArmSegment pitches and yaws chained crane arm segments. Segments further from the
// base get a faster speed range.
func ArmSegment() *Profile {
	return &Profile{
		Name: "arm",
		Axes: []Axis{
			{Component: AxisX, Scale: 8000},
			{Component: AxisY, Scale: 15000},
		},
		Steps:             IntRange{100, 200},
		SpeedFromPosition: positionSpeed,
	}
}

// Drift moves a node in the xz plane without rotating it; nodes using it are
// usually left without bounds.
func Drift() *Profile {
	return &Profile{
		Name: "drift",
		Axes: []Axis{
			{Field: FieldTranslation, Component: AxisX, Scale: 4000},
			{Field: FieldTranslation, Component: AxisZ, Scale: 4000},
		},
		Steps: IntRange{50, 200},
		Speed: FloatRange{20, 100},
	}
}

// ArmYawLimit bounds the yaw of arm segments; pitch stays free.
func ArmYawLimit() *scene.RotationBounds {
	inf := scene.Unbounded()
	return &scene.RotationBounds{
		Min: [3]float32{-inf, -0.5, -inf},
		Max: [3]float32{inf, 0.5, inf},
	}
}

func positionSpeed(n *scene.Node) FloatRange {
	if n.Transform == nil {
		return FloatRange{}
	}
	x := float32(math.Abs(float64(n.Transform.Translation.X())))
	return FloatRange{x, x * 100}
}

var profiles = map[string]func() *Profile{
	"free":  FreeRotation,
	"arm":   ArmSegment,
	"drift": Drift,
}

// ProfileByName returns a fresh copy of a named profile.
func ProfileByName(name string) (*Profile, bool) {
	f, ok := profiles[name]
	if !ok {
		return nil, false
	}
	return f(), true
}
