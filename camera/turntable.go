package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DragSensitivity converts mouse velocity into radians per frame.
const DragSensitivity = 0.0001

// Turntable looks at Target from Distance and turns around it by mouse drag.
type Turntable struct {
	Target   mgl32.Vec3
	Distance float32
	Alpha    float32 // y rotation, radians
	Beta     float32 // x rotation, radians
}

func (c *Turntable) ViewMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(0, 0, c.Distance).
		Mul4(mgl32.HomogRotate3DY(c.Alpha)).
		Mul4(mgl32.HomogRotate3DX(c.Beta)).
		Mul4(mgl32.Translate3D(-c.Target.X(), -c.Target.Y(), -c.Target.Z()))
}

// Drag applies one frame of mouse velocity while the button is held.
func (c *Turntable) Drag(velocity mgl32.Vec2) {
	c.Alpha -= velocity.X() * DragSensitivity
	c.Beta -= velocity.Y() * DragSensitivity
}
