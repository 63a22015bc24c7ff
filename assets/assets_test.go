package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/scenewalk/vfs"
)

const quadOBJ = `# quad
mtllib quad.mtl
o Quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1.0e0 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl Leaves.jpg
f 1/1/1 2/2/1 3/3/1 4/4/1
f 1/1/1 3/3/1 -1/-1/-1
`

func TestParseOBJ(t *testing.T) {
	m, err := ParseOBJ("quad.obj", []byte(quadOBJ))
	require.NoError(t, err)

	assert.Equal(t, "Quad", m.Name)
	assert.Len(t, m.Vertices, 4)
	assert.Len(t, m.Normals, 4)
	assert.Len(t, m.UVs, 4)
	assert.Equal(t, []uint16{0, 1, 2, 0, 2, 3, 0, 2, 3}, m.Triangles)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, m.Vertices[3])
	assert.Equal(t, mgl32.Vec2{1, 1}, m.UVs[2])
}

func TestParseOBJWithoutNormals(t *testing.T) {
	m, err := ParseOBJ("tri.obj", []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3"))
	require.NoError(t, err)
	assert.Equal(t, "tri.obj", m.Name)
	assert.Nil(t, m.Normals)
	assert.Nil(t, m.UVs)
	assert.Equal(t, 1, m.TrianglesCount())
}

func TestParseOBJErrors(t *testing.T) {
	for name, text := range map[string]string{
		"no faces":     "v 0 0 0\n",
		"out of range": "v 0 0 0\nv 1 0 0\nf 1 2 3\n",
		"short face":   "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"short vertex": "v 0 0\n",
		"zero index":   "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
	} {
		_, err := ParseOBJ(name, []byte(text))
		assert.Error(t, err, name)
	}
}

func encodeGLB(t *testing.T) []byte {
	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	normals := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	indices := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "Leaf",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(indices),
			Attributes: map[string]uint32{"POSITION": positions, "NORMAL": normals},
		}},
	})

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	require.NoError(t, enc.Encode(doc))
	return buf.Bytes()
}

func TestLoadGLTF(t *testing.T) {
	loaded, err := LoadGLTF("leaf.glb", bytes.NewReader(encodeGLB(t)))
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	m := loaded[0].(meshAsset).Mesh
	assert.Equal(t, "Leaf", m.Name)
	assert.Equal(t, []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, m.Vertices)
	assert.Len(t, m.Normals, 3)
	assert.Nil(t, m.UVs)
	assert.Equal(t, []uint16{0, 1, 2}, m.Triangles)
}

func encodePNG(t *testing.T) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestStorage(t *testing.T) {
	fsys := fstest.MapFS{
		"quad.obj":          {Data: []byte(quadOBJ)},
		"leaf.glb":          {Data: encodeGLB(t)},
		"textures/wood.png": {Data: encodePNG(t)},
		"shaders/toon.vert": {Data: []byte("void main() {}")},
		"shaders/toon.frag": {Data: []byte("void main() {}")},
		"broken.obj":        {Data: []byte("f 1 2 3\n")},
		"notes.txt":         {Data: []byte("hello")},
	}
	s := NewStorage(vfs.NewFSDirectory(fsys, "."))
	require.NoError(t, RegisterPrimitives(s))

	cube, err := GetMesh(s, "Cube")
	require.NoError(t, err)
	assert.Len(t, cube.Vertices, 24)

	quad, err := GetMesh(s, "quad.obj")
	require.NoError(t, err)
	again, err := GetMesh(s, "quad.obj")
	require.NoError(t, err)
	assert.Same(t, quad, again)

	byName, err := GetMesh(s, "quad.obj#Quad")
	require.NoError(t, err)
	assert.Same(t, quad, byName)

	leaf, err := GetMesh(s, "leaf.glb#Leaf")
	require.NoError(t, err)
	assert.Equal(t, 1, leaf.TrianglesCount())

	img, err := GetImage(s, "textures/wood.png")
	require.NoError(t, err)
	w, h := img.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)

	vert, err := GetShader(s, "shaders/toon.vert")
	require.NoError(t, err)
	assert.Equal(t, VertexShader, vert.Kind)
	frag, err := GetShader(s, "shaders/toon.frag")
	require.NoError(t, err)
	assert.Equal(t, PixelShader, frag.Kind)

	_, err = GetImage(s, "quad.obj")
	var mismatch *TypeMismatchError
	assert.ErrorAs(t, err, &mismatch)

	for _, missing := range []string{"missing.obj", "notes.txt", "quad.obj#Other", "Sphere#x"} {
		_, err = s.Get(missing)
		assert.True(t, IsAssetNotFound(err), missing)
	}

	_, err = s.Get("broken.obj")
	require.Error(t, err)
	assert.False(t, IsAssetNotFound(err))

	assert.Error(t, s.RegisterMesh("Cube", Cube()))
	assert.Contains(t, s.Names(), "quad.obj#Quad")
}

func TestMemoryStorage(t *testing.T) {
	s := NewStorage(nil)
	_, err := s.Get("Cube")
	assert.True(t, IsAssetNotFound(err))
	assert.True(t, strings.Contains(err.Error(), "Cube"))
}

func TestPrimitivesValid(t *testing.T) {
	for name, f := range primitives {
		m := f()
		require.NoError(t, m.Validate(), name)
		assert.Equal(t, name, m.Name)
		assert.NotZero(t, m.TrianglesCount(), name)
		for i, n := range m.Normals {
			assert.InDelta(t, 1, n.Len(), 1e-5, "%s normal %d", name, i)
		}
	}
	min, max := Cube().Bounds()
	assert.Equal(t, mgl32.Vec3{-1, -1, -1}, min)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, max)
}
