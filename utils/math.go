package utils

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

func RadiansToDegreesV3(v mgl32.Vec3) mgl32.Vec3 {
	return v.Mul(180.0 / math.Pi)
}

func DegreesToRadiansV3(v mgl32.Vec3) mgl32.Vec3 {
	return v.Mul(math.Pi / 180.0)
}

func FloatArray32to64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

// Vec3sTo64 flattens vectors into x,y,z,x,y,z... doubles.
func Vec3sTo64(in []mgl32.Vec3) []float64 {
	out := make([]float64, 0, len(in)*3)
	for _, v := range in {
		out = append(out, float64(v[0]), float64(v[1]), float64(v[2]))
	}
	return out
}

// UniformFloat returns a value in [min, max). min is returned for empty ranges.
func UniformFloat(r *rand.Rand, min, max float32) float32 {
	if max <= min {
		return min
	}
	return min + r.Float32()*(max-min)
}

// UniformInt returns a value in [min, max). min is returned for empty ranges.
func UniformInt(r *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + r.Intn(max-min)
}
