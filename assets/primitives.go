package assets

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/scenewalk/scene"
)

// Cube is the 2x2x2 box centered at the origin, each corner split into three vertices so
// every face has flat normals.
func Cube() *scene.Mesh {
	m := &scene.Mesh{Name: "Cube"}
	for _, x := range []float32{-1, 1} {
		for _, y := range []float32{-1, 1} {
			for _, z := range []float32{-1, 1} {
				p := mgl32.Vec3{x, y, z}
				m.Vertices = append(m.Vertices, p, p, p)
				m.Normals = append(m.Normals,
					mgl32.Vec3{x, 0, 0},
					mgl32.Vec3{0, y, 0},
					mgl32.Vec3{0, 0, z},
				)
			}
		}
	}
	m.Triangles = []uint16{
		0, 6, 3, 3, 6, 9, // left
		2, 14, 20, 2, 20, 8, // front
		12, 15, 18, 15, 21, 18, // right
		5, 11, 17, 17, 11, 23, // back
		7, 22, 10, 7, 19, 22, // top
		1, 4, 16, 1, 16, 13, // bottom
	}
	return m
}

// Sphere is a unit uv sphere.
func Sphere(rings, segments int) *scene.Mesh {
	m := &scene.Mesh{Name: "Sphere"}
	for r := 0; r <= rings; r++ {
		theta := float64(r) / float64(rings) * math.Pi
		for s := 0; s <= segments; s++ {
			phi := float64(s) / float64(segments) * 2 * math.Pi
			n := mgl32.Vec3{
				float32(math.Sin(theta) * math.Cos(phi)),
				float32(math.Cos(theta)),
				float32(math.Sin(theta) * math.Sin(phi)),
			}
			m.Vertices = append(m.Vertices, n)
			m.Normals = append(m.Normals, n)
			m.UVs = append(m.UVs, mgl32.Vec2{float32(s) / float32(segments), float32(r) / float32(rings)})
		}
	}
	row := segments + 1
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint16(r*row + s)
			b := a + uint16(row)
			m.Triangles = append(m.Triangles, a, a+1, b, b, a+1, b+1)
		}
	}
	return m
}

// Cylinder has radius 1 and spans y in [-1, 1]. Cone is a cylinder with a zero top radius.
func Cylinder(segments int) *scene.Mesh {
	m := frustum(1, 1, segments)
	m.Name = "Cylinder"
	return m
}

func Cone(segments int) *scene.Mesh {
	m := frustum(1, 0, segments)
	m.Name = "Cone"
	return m
}

// Pyramid is a cone with a square base.
func Pyramid() *scene.Mesh {
	m := frustum(1, 0, 4)
	m.Name = "Pyramid"
	return m
}

func frustum(bottom, top float32, segments int) *scene.Mesh {
	m := &scene.Mesh{}
	slope := bottom - top

	// side
	for s := 0; s <= segments; s++ {
		phi := float64(s) / float64(segments) * 2 * math.Pi
		c, sn := float32(math.Cos(phi)), float32(math.Sin(phi))
		n := mgl32.Vec3{c * 2, slope, sn * 2}.Normalize()
		m.Vertices = append(m.Vertices, mgl32.Vec3{c * bottom, -1, sn * bottom}, mgl32.Vec3{c * top, 1, sn * top})
		m.Normals = append(m.Normals, n, n)
		u := float32(s) / float32(segments)
		m.UVs = append(m.UVs, mgl32.Vec2{u, 1}, mgl32.Vec2{u, 0})
	}
	for s := 0; s < segments; s++ {
		a := uint16(s * 2)
		m.Triangles = append(m.Triangles, a, a+1, a+2, a+2, a+1, a+3)
	}

	capAt := func(y, radius float32, up bool) {
		if radius == 0 {
			return
		}
		normal := mgl32.Vec3{0, 1, 0}
		if !up {
			normal = mgl32.Vec3{0, -1, 0}
		}
		center := uint16(len(m.Vertices))
		m.Vertices = append(m.Vertices, mgl32.Vec3{0, y, 0})
		m.Normals = append(m.Normals, normal)
		m.UVs = append(m.UVs, mgl32.Vec2{0.5, 0.5})
		for s := 0; s < segments; s++ {
			phi := float64(s) / float64(segments) * 2 * math.Pi
			c, sn := float32(math.Cos(phi)), float32(math.Sin(phi))
			m.Vertices = append(m.Vertices, mgl32.Vec3{c * radius, y, sn * radius})
			m.Normals = append(m.Normals, normal)
			m.UVs = append(m.UVs, mgl32.Vec2{0.5 + c/2, 0.5 + sn/2})
		}
		for s := 0; s < segments; s++ {
			a := center + 1 + uint16(s)
			b := center + 1 + uint16((s+1)%segments)
			if up {
				m.Triangles = append(m.Triangles, center, b, a)
			} else {
				m.Triangles = append(m.Triangles, center, a, b)
			}
		}
	}
	capAt(-1, bottom, false)
	capAt(1, top, true)
	return m
}

var primitives = map[string]func() *scene.Mesh{
	"Cube":     Cube,
	"Sphere":   func() *scene.Mesh { return Sphere(16, 32) },
	"Cylinder": func() *scene.Mesh { return Cylinder(32) },
	"Cone":     func() *scene.Mesh { return Cone(32) },
	"Pyramid":  Pyramid,
}

// RegisterPrimitives adds the built-in meshes under their names.
func RegisterPrimitives(s *Storage) error {
	for name, f := range primitives {
		if err := s.RegisterMesh(name, f()); err != nil {
			return errors.Wrapf(err, "primitive %q", name)
		}
	}
	return nil
}
