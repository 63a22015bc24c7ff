// Package camera builds view and projection matrices for scene traversal.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Camera interface {
	ViewMatrix() mgl32.Mat4
}

// Projection is a perspective projection with a vertical field of view in radians.
func Projection(fov, aspect, near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(fov, aspect, near, far)
}

// Fixed is a camera with a constant view matrix.
type Fixed mgl32.Mat4

func (f Fixed) ViewMatrix() mgl32.Mat4 {
	return mgl32.Mat4(f)
}
