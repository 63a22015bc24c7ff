package assets

import (
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/scenewalk/scene"
)

// LoadGLTF reads every mesh of a self-contained .gltf or .glb file.
// Primitives of one glTF mesh are merged into a single description.
func LoadGLTF(name string, r io.Reader) ([]Asset, error) {
	doc := &gltf.Document{}
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, errors.Wrapf(err, "Failed to read gltf")
	}

	result := make([]Asset, 0, len(doc.Meshes))
	for iMesh, gm := range doc.Meshes {
		m, err := readGLTFMesh(doc, gm)
		if err != nil {
			return nil, errors.Wrapf(err, "mesh %d %q", iMesh, gm.Name)
		}
		if m.Name == "" {
			m.Name = name
		}
		if err := m.Validate(); err != nil {
			return nil, err
		}
		result = append(result, MeshAsset(m))
	}
	return result, nil
}

func readGLTFMesh(doc *gltf.Document, gm *gltf.Mesh) (*scene.Mesh, error) {
	m := &scene.Mesh{Name: gm.Name}
	withNormals, withUVs := true, true

	for _, primitive := range gm.Primitives {
		if primitive.Indices == nil {
			return nil, errors.Errorf("primitive without indices")
		}
		posAccessor, ok := primitive.Attributes["POSITION"]
		if !ok {
			return nil, errors.Errorf("primitive without positions")
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posAccessor], nil)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read mesh vertices")
		}
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], nil)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read mesh indices")
		}

		var normals [][3]float32
		if acr, ok := primitive.Attributes["NORMAL"]; ok {
			if normals, err = modeler.ReadNormal(doc, doc.Accessors[acr], nil); err != nil {
				return nil, errors.Wrapf(err, "Failed to read mesh normals")
			}
		}
		var uvs [][2]float32
		if acr, ok := primitive.Attributes["TEXCOORD_0"]; ok {
			if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[acr], nil); err != nil {
				return nil, errors.Wrapf(err, "Failed to read mesh uvs")
			}
		}
		withNormals = withNormals && len(normals) == len(positions)
		withUVs = withUVs && len(uvs) == len(positions)

		offset := uint32(len(m.Vertices))
		if int(offset)+len(positions) > math.MaxUint16+1 {
			return nil, errors.Errorf("more than %d vertices", math.MaxUint16+1)
		}
		for i, p := range positions {
			m.Vertices = append(m.Vertices, mgl32.Vec3(p))
			if withNormals {
				m.Normals = append(m.Normals, mgl32.Vec3(normals[i]))
			}
			if withUVs {
				m.UVs = append(m.UVs, mgl32.Vec2(uvs[i]))
			}
		}
		for _, idx := range indices {
			m.Triangles = append(m.Triangles, uint16(idx+offset))
		}
	}

	if !withNormals {
		m.Normals = nil
	}
	if !withUVs {
		m.UVs = nil
	}
	return m, nil
}
