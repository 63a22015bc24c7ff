package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Transform struct {
	Translation mgl32.Vec3 `yaml:"translation,flow" json:"translation"`
	// Euler angles in radians, composed as Ry · Rx · Rz
	Rotation mgl32.Vec3 `yaml:"rotation,flow" json:"rotation"`
	Scale    mgl32.Vec3 `yaml:"scale,flow" json:"scale"`
	// point in local space the rotation happens about
	Pivot mgl32.Vec3 `yaml:"pivot,flow" json:"pivot"`
}

func NewTransform() *Transform {
	return &Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

func Translation(x, y, z float32) *Transform {
	t := NewTransform()
	t.Translation = mgl32.Vec3{x, y, z}
	return t
}

// RotationMatrix returns T(pos+pivot) · Ry · Rx · Rz · T(-pivot).
func (t *Transform) RotationMatrix() mgl32.Mat4 {
	p := t.Translation.Add(t.Pivot)
	return mgl32.Translate3D(p.X(), p.Y(), p.Z()).
		Mul4(mgl32.HomogRotate3DY(t.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DX(t.Rotation.X())).
		Mul4(mgl32.HomogRotate3DZ(t.Rotation.Z())).
		Mul4(mgl32.Translate3D(-t.Pivot.X(), -t.Pivot.Y(), -t.Pivot.Z()))
}

// Matrix is the model matrix of the node: RotationMatrix followed by the node scale.
func (t *Transform) Matrix() mgl32.Mat4 {
	return t.RotationMatrix().Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// RotationBounds limits each rotation axis to [Min, Max]. Use ±Inf for a free axis.
type RotationBounds struct {
	Min mgl32.Vec3 `yaml:"min,flow" json:"min"`
	Max mgl32.Vec3 `yaml:"max,flow" json:"max"`
}

func Unbounded() float32 {
	return float32(math.Inf(1))
}

func (b *RotationBounds) Clamp(v mgl32.Vec3) mgl32.Vec3 {
	for i := range v {
		v[i] = mgl32.Clamp(v[i], b.Min[i], b.Max[i])
	}
	return v
}

func (b *RotationBounds) Contains(v mgl32.Vec3) bool {
	for i := range v {
		if v[i] < b.Min[i] || v[i] > b.Max[i] {
			return false
		}
	}
	return true
}

func (b *RotationBounds) validate() error {
	for i := range b.Min {
		if b.Min[i] > b.Max[i] {
			return Violationf("rotation bounds axis %d: min %v > max %v", i, b.Min[i], b.Max[i])
		}
	}
	return nil
}
