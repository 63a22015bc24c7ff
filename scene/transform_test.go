package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformComposition(t *testing.T) {
	xf := &Transform{
		Translation: mgl32.Vec3{1, 2, 3},
		Rotation:    mgl32.Vec3{0.3, -0.7, 1.1},
		Scale:       mgl32.Vec3{2, 1, 0.5},
		Pivot:       mgl32.Vec3{0, 4, 0},
	}

	want := mgl32.Translate3D(1, 6, 3).
		Mul4(mgl32.HomogRotate3DY(-0.7)).
		Mul4(mgl32.HomogRotate3DX(0.3)).
		Mul4(mgl32.HomogRotate3DZ(1.1)).
		Mul4(mgl32.Translate3D(0, -4, 0)).
		Mul4(mgl32.Scale3D(2, 1, 0.5))
	assert.True(t, want.ApproxEqual(xf.Matrix()))

	// another order gives another matrix
	other := mgl32.Translate3D(1, 6, 3).
		Mul4(mgl32.HomogRotate3DZ(1.1)).
		Mul4(mgl32.HomogRotate3DY(-0.7)).
		Mul4(mgl32.HomogRotate3DX(0.3)).
		Mul4(mgl32.Translate3D(0, -4, 0)).
		Mul4(mgl32.Scale3D(2, 1, 0.5))
	assert.False(t, other.ApproxEqual(xf.Matrix()))
}

func TestPivotIsFixedPoint(t *testing.T) {
	xf := NewTransform()
	xf.Pivot = mgl32.Vec3{0, 2, 0}
	xf.Rotation = mgl32.Vec3{0.5, 1, 0.25}

	p := xf.Matrix().Mul4x1(mgl32.Vec4{0, 2, 0, 1})
	assert.InDelta(t, 0, p.X(), 1e-5)
	assert.InDelta(t, 2, p.Y(), 1e-5)
	assert.InDelta(t, 0, p.Z(), 1e-5)
}

func TestNodeMatrixDefaults(t *testing.T) {
	assert.Equal(t, mgl32.Ident4(), NewNode("g").Matrix())
	assert.Equal(t, mgl32.Translate3D(1, 0, 0), NewNode("t").WithTransform(Translation(1, 0, 0)).Matrix())
}

func TestRotationBounds(t *testing.T) {
	inf := Unbounded()
	b := &RotationBounds{Min: mgl32.Vec3{-1, -0.5, -inf}, Max: mgl32.Vec3{1, 0.5, inf}}
	require.NoError(t, b.validate())

	v := b.Clamp(mgl32.Vec3{3, -3, 1e9})
	assert.Equal(t, mgl32.Vec3{1, -0.5, 1e9}, v)
	assert.True(t, b.Contains(v))
	assert.Equal(t, v, b.Clamp(v))

	n := NewNode("n").WithTransform(NewTransform())
	n.Transform.Rotation = mgl32.Vec3{5, 5, 5}
	n.ClampRotation()
	assert.Equal(t, mgl32.Vec3{5, 5, 5}, n.Transform.Rotation)

	n.Bounds = b
	n.ClampRotation()
	assert.Equal(t, mgl32.Vec3{1, 0.5, 5}, n.Transform.Rotation)

	assert.True(t, math.IsInf(float64(inf), 1))
}

func TestMeshValidate(t *testing.T) {
	quad := &Mesh{
		Name:      "quad",
		Vertices:  []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Triangles: []uint16{0, 1, 2, 0, 2, 3},
	}
	require.NoError(t, quad.Validate())
	assert.Equal(t, 2, quad.TrianglesCount())

	min, max := quad.Bounds()
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, min)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, max)

	for name, m := range map[string]*Mesh{
		"partial triangle": {Vertices: quad.Vertices, Triangles: []uint16{0, 1}},
		"normals":          {Vertices: quad.Vertices, Normals: []mgl32.Vec3{{}}, Triangles: quad.Triangles},
		"uvs":              {Vertices: quad.Vertices, UVs: []mgl32.Vec2{{}}, Triangles: quad.Triangles},
		"index":            {Vertices: quad.Vertices, Triangles: []uint16{0, 1, 4}},
	} {
		assert.True(t, IsInvariantViolation(m.Validate()), name)
	}
}
