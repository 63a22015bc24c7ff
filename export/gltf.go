package export

import (
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/scenewalk/scene"
	"github.com/mogaika/scenewalk/scenefile"
)

type gltfPrimitive struct {
	attributes map[string]uint32
	indices    uint32
}

type gltfMeshKey struct {
	mesh     *scene.Mesh
	material *scene.Material
}

// gltfExporter writes vertex data once per mesh description. A glTF mesh binds its
// material, so a description drawn with several materials gets one glTF mesh per material
// sharing the same accessors.
type gltfExporter struct {
	doc       *scenefile.Document
	out       *gltf.Document
	materials map[*scene.Node]*scene.Material

	primitives    map[*scene.Mesh]gltfPrimitive
	meshes        map[gltfMeshKey]uint32
	materialIndex map[*scene.Material]uint32
}

// GLTF converts the document graph into a glTF document. Every node keeps its local
// matrix, so pivots survive the conversion.
func GLTF(doc *scenefile.Document) (*gltf.Document, error) {
	e := &gltfExporter{
		doc:           doc,
		out:           gltf.NewDocument(),
		materials:     effectiveMaterials(doc.Graph),
		primitives:    make(map[*scene.Mesh]gltfPrimitive),
		meshes:        make(map[gltfMeshKey]uint32),
		materialIndex: make(map[*scene.Material]uint32),
	}
	if len(e.out.Scenes) == 0 {
		e.out.Scenes = append(e.out.Scenes, &gltf.Scene{})
		e.out.Scene = gltf.Index(0)
	}
	e.out.Scenes[0].Name = doc.Name

	root := e.node(doc.Graph.Root)
	e.out.Scenes[0].Nodes = append(e.out.Scenes[0].Nodes, root)
	return e.out, nil
}

func (e *gltfExporter) node(n *scene.Node) uint32 {
	index := uint32(len(e.out.Nodes))
	gn := &gltf.Node{
		Name:   e.doc.Graph.NameOf(n),
		Matrix: [16]float32(n.Matrix()),
	}
	e.out.Nodes = append(e.out.Nodes, gn)

	if n.Mesh != nil {
		gn.Mesh = gltf.Index(e.mesh(n.Mesh, e.materials[n]))
	}
	for _, child := range n.Children {
		gn.Children = append(gn.Children, e.node(child))
	}
	return index
}

func (e *gltfExporter) mesh(m *scene.Mesh, mat *scene.Material) uint32 {
	key := gltfMeshKey{mesh: m, material: mat}
	if index, ok := e.meshes[key]; ok {
		return index
	}

	prim, ok := e.primitives[m]
	if !ok {
		prim = gltfPrimitive{attributes: make(map[string]uint32)}
		positions := make([][3]float32, len(m.Vertices))
		for i, v := range m.Vertices {
			positions[i] = v
		}
		prim.attributes["POSITION"] = modeler.WritePosition(e.out, positions)

		if len(m.Normals) != 0 {
			normals := make([][3]float32, len(m.Normals))
			for i, v := range m.Normals {
				normals[i] = v
			}
			prim.attributes["NORMAL"] = modeler.WriteNormal(e.out, normals)
		}
		if len(m.UVs) != 0 {
			uvs := make([][2]float32, len(m.UVs))
			for i, v := range m.UVs {
				uvs[i] = v
			}
			prim.attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(e.out, uvs)
		}
		prim.indices = modeler.WriteIndices(e.out, m.Triangles)
		e.primitives[m] = prim
	}

	p := &gltf.Primitive{
		Indices:    gltf.Index(prim.indices),
		Attributes: prim.attributes,
		Mode:       gltf.PrimitiveTriangles,
	}
	if mat != nil {
		p.Material = gltf.Index(e.material(mat))
	}

	index := uint32(len(e.out.Meshes))
	e.out.Meshes = append(e.out.Meshes, &gltf.Mesh{
		Name:       e.doc.MeshName(m),
		Primitives: []*gltf.Primitive{p},
	})
	e.meshes[key] = index
	return index
}

func (e *gltfExporter) material(m *scene.Material) uint32 {
	if index, ok := e.materialIndex[m]; ok {
		return index
	}

	color := [4]float32{1, 1, 1, 1}
	gm := &gltf.Material{
		DoubleSided: true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &color,
		},
	}
	if m.HasDiffuse() {
		copy(color[:3], m.Diffuse.Color[:])
		if m.Diffuse.Texture != "" {
			gm.Name = m.Diffuse.Texture
		}
	}
	if m.HasEmissive() {
		gm.EmissiveFactor = m.Emissive.Color
	}

	index := uint32(len(e.out.Materials))
	e.out.Materials = append(e.out.Materials, gm)
	e.materialIndex[m] = index
	return index
}

// WriteGLTF encodes the document as glTF json or as a binary GLB container.
func WriteGLTF(w io.Writer, doc *scenefile.Document, binary bool) error {
	out, err := GLTF(doc)
	if err != nil {
		return err
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = binary
	return enc.Encode(out)
}
