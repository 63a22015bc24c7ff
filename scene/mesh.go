package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an authored mesh description. Renderer-side resources derived from it are cached
// by pointer identity, so a Mesh must not be mutated after its first use.
type Mesh struct {
	Name      string
	Vertices  []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Triangles []uint16
}

func (m *Mesh) TrianglesCount() int {
	return len(m.Triangles) / 3
}

func (m *Mesh) Validate() error {
	if len(m.Triangles)%3 != 0 {
		return Violationf("mesh %q: %d indices is not a multiple of 3", m.Name, len(m.Triangles))
	}
	if m.Normals != nil && len(m.Normals) != len(m.Vertices) {
		return Violationf("mesh %q: %d normals for %d vertices", m.Name, len(m.Normals), len(m.Vertices))
	}
	if m.UVs != nil && len(m.UVs) != len(m.Vertices) {
		return Violationf("mesh %q: %d uvs for %d vertices", m.Name, len(m.UVs), len(m.Vertices))
	}
	for i, idx := range m.Triangles {
		if int(idx) >= len(m.Vertices) {
			return Violationf("mesh %q: index %d at %d out of %d vertices", m.Name, idx, i, len(m.Vertices))
		}
	}
	return nil
}

// Bounds returns the axis aligned box of the vertices.
func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for i := range v {
			if v[i] < min[i] {
				min[i] = v[i]
			}
			if v[i] > max[i] {
				max[i] = v[i]
			}
		}
	}
	return
}
