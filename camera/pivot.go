package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinFieldOfView = 0.15 * math.Pi
	MaxFieldOfView = 0.75 * math.Pi
)

// Pivot is a free camera rotating about PivotPoint. It is usually kept at its own
// position (PivotPoint == Translation) and pointed at a target with LookAtTarget.
type Pivot struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Vec3
	PivotPoint  mgl32.Vec3
	Speed       float32

	fov float32
}

func NewPivot() *Pivot {
	return &Pivot{
		Speed: 0.1,
		fov:   math.Pi * 0.25,
	}
}

// ViewMatrix is T(pivot - translation) · Ry · Rx · T(-pivot).
func (c *Pivot) ViewMatrix() mgl32.Mat4 {
	d := c.PivotPoint.Sub(c.Translation)
	return mgl32.Translate3D(d.X(), d.Y(), d.Z()).
		Mul4(mgl32.HomogRotate3DY(c.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DX(c.Rotation.X())).
		Mul4(mgl32.Translate3D(-c.PivotPoint.X(), -c.PivotPoint.Y(), -c.PivotPoint.Z()))
}

// LookAtTarget turns the camera toward target: yaw from the target direction in the xz
// plane, pitch from the target distance against the camera height.
func (c *Pivot) LookAtTarget(target mgl32.Vec3) {
	c.Rotation[1] = -float32(math.Atan2(float64(target.X()), float64(target.Z())))
	c.Rotation[0] = float32(math.Atan2(float64(target.Len()), float64(c.Translation.Y()))) - 1.5
}

// Move walks forward by amountZ and strafes by amountX relative to the current yaw.
func (c *Pivot) Move(amountZ, amountX float32) {
	cos := float32(math.Cos(float64(c.Rotation.Y())))
	sin := float32(math.Sin(float64(c.Rotation.Y())))

	c.Translation[2] += cos * amountZ * c.Speed
	c.Translation[0] -= sin * amountZ * c.Speed

	c.Translation[0] += cos * amountX * c.Speed
	c.Translation[2] += sin * amountX * c.Speed
}

func (c *Pivot) FieldOfView() float32 {
	return c.fov
}

func (c *Pivot) SetFieldOfView(fov float32) {
	c.fov = mgl32.Clamp(fov, MinFieldOfView, MaxFieldOfView)
}

func (c *Pivot) Projection(aspect float32) mgl32.Mat4 {
	return Projection(c.fov, aspect, 0.01, 20)
}
