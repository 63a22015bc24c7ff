package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Orbit struct {
	Target   mgl32.Vec3
	Distance float32
	Pitch    float32 // x rotation, degrees
	Yaw      float32 // y rotation, degrees
	// added to the eye position, keeps the camera above the target
	Lift mgl32.Vec3
}

func NewOrbit(target mgl32.Vec3, dist, pitch, yaw float32) *Orbit {
	return &Orbit{
		Target:   target,
		Distance: dist,
		Pitch:    pitch,
		Yaw:      yaw,
	}
}

func (c *Orbit) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *Orbit) Position() mgl32.Vec3 {
	return mgl32.Vec3{
		c.Distance * float32(math.Cos(float64(mgl32.DegToRad(c.Pitch)))*math.Sin(float64(mgl32.DegToRad(c.Yaw)))),
		c.Distance * float32(math.Sin(float64(mgl32.DegToRad(c.Pitch)))),
		c.Distance * float32(math.Cos(float64(mgl32.DegToRad(c.Pitch)))*math.Cos(float64(mgl32.DegToRad(c.Yaw)))),
	}.Add(c.Target).Add(c.Lift)
}

// Rotate turns the camera around the target; pitch stays inside (-90, 90).
func (c *Orbit) Rotate(dYaw, dPitch float32) {
	c.Yaw = float32(math.Mod(float64(c.Yaw+dYaw), 360))
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, -89, 89)
}
