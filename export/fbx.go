package export

import (
	"io"

	"github.com/mogaika/fbx/builders/bfbx73"

	"github.com/mogaika/scenewalk/scene"
	"github.com/mogaika/scenewalk/scenefile"
	"github.com/mogaika/scenewalk/utils"
	"github.com/mogaika/scenewalk/utils/fbxbuilder"
)

// fbxRotationOrderZXY applies roll first, then pitch, then yaw, the Ry · Rx · Rz order
// of scene transforms.
const fbxRotationOrderZXY = int32(4)

type fbxExporter struct {
	doc       *scenefile.Document
	f         *fbxbuilder.FBXBuilder
	materials map[*scene.Node]*scene.Material
}

// FBX builds an FBX document: a model per node with its local translation, rotation
// about the pivot and scale, one geometry per mesh description and lambert materials.
func FBX(doc *scenefile.Document) *fbxbuilder.FBXBuilder {
	e := &fbxExporter{
		doc:       doc,
		f:         fbxbuilder.NewFBXBuilder(doc.Name + ".fbx"),
		materials: effectiveMaterials(doc.Graph),
	}
	root := e.model(doc.Graph.Root)
	e.f.AddConnections(bfbx73.C("OO", root, int64(0)))
	return e.f
}

func WriteFBX(w io.Writer, doc *scenefile.Document) error {
	return FBX(doc).Write(w)
}

func (e *fbxExporter) model(n *scene.Node) int64 {
	id := e.f.GenerateId()
	name := e.doc.Graph.NameOf(n)

	xf := n.Transform
	if xf == nil {
		xf = scene.NewTransform()
	}
	rotation := utils.RadiansToDegreesV3(xf.Rotation)

	kind := "Null"
	if n.Mesh != nil {
		kind = "Mesh"
	}
	model := bfbx73.Model(id, name+"\x00\x01Model", kind).AddNodes(
		bfbx73.Version(232),
		bfbx73.Properties70().AddNodes(
			bfbx73.P("InheritType", "enum", "", "", int32(1)),
			bfbx73.P("DefaultAttributeIndex", "int", "Integer", "", int32(0)),
			bfbx73.P("RotationActive", "bool", "", "", int32(1)),
			bfbx73.P("RotationOrder", "enum", "", "", fbxRotationOrderZXY),
			bfbx73.P("RotationPivot", "Vector3D", "Vector", "",
				float64(xf.Pivot[0]), float64(xf.Pivot[1]), float64(xf.Pivot[2])),
			bfbx73.P("Lcl Translation", "Lcl Translation", "", "A",
				float64(xf.Translation[0]), float64(xf.Translation[1]), float64(xf.Translation[2])),
			bfbx73.P("Lcl Rotation", "Lcl Rotation", "", "A",
				float64(rotation[0]), float64(rotation[1]), float64(rotation[2])),
			bfbx73.P("Lcl Scaling", "Lcl Scaling", "", "A",
				float64(xf.Scale[0]), float64(xf.Scale[1]), float64(xf.Scale[2])),
		),
		bfbx73.Shading(true),
		bfbx73.Culling("CullingOff"),
	)
	e.f.AddObjects(model)

	if n.Mesh != nil {
		e.f.AddConnections(bfbx73.C("OO", e.geometry(n.Mesh), id))
		if m := e.materials[n]; m != nil {
			e.f.AddConnections(bfbx73.C("OO", e.material(m), id))
		}
	} else {
		attribute := bfbx73.NodeAttribute(e.f.GenerateId(), name+"\x00\x01NodeAttribute", "Null").AddNodes(
			bfbx73.TypeFlags("Null"),
		)
		e.f.AddObjects(attribute)
		e.f.AddConnections(bfbx73.C("OO", attribute.Properties[0].(int64), id))
	}

	for _, child := range n.Children {
		e.f.AddConnections(bfbx73.C("OO", e.model(child), id))
	}
	return id
}

func (e *fbxExporter) geometry(m *scene.Mesh) int64 {
	if id, ok := e.f.GetCached(m); ok {
		return id
	}
	id := e.f.GenerateId()
	e.f.AddCache(m, id)

	// the last corner of every polygon is stored as -(index+1)
	indexes := make([]int32, len(m.Triangles))
	for i, idx := range m.Triangles {
		indexes[i] = int32(idx)
		if i%3 == 2 {
			indexes[i] = -int32(idx) - 1
		}
	}

	layer := bfbx73.Layer(0).AddNodes(
		bfbx73.Version(100),
	)
	geometry := bfbx73.Geometry(id, e.doc.MeshName(m)+"\x00\x01Geometry", "Mesh").AddNodes(
		bfbx73.Properties70().AddNodes(
			bfbx73.P("Color", "ColorRGB", "Color", "", float64(1), float64(1), float64(1)),
		),
		bfbx73.GeometryVersion(124),
		bfbx73.Vertices(utils.Vec3sTo64(m.Vertices)),
		bfbx73.PolygonVertexIndex(indexes),
		layer,
	)

	if len(m.Normals) != 0 {
		geometry.AddNode(
			bfbx73.LayerElementNormal(0).AddNodes(
				bfbx73.Version(101),
				bfbx73.Name(""),
				bfbx73.MappingInformationType("ByVertice"),
				bfbx73.ReferenceInformationType("Direct"),
				bfbx73.Normals(utils.Vec3sTo64(m.Normals)),
			),
		)
		layer.AddNode(
			bfbx73.LayerElement().AddNodes(
				bfbx73.Type("LayerElementNormal"),
				bfbx73.TypedIndex(0),
			),
		)
	}

	if len(m.UVs) != 0 {
		uv := make([]float64, 0, len(m.UVs)*2)
		for _, t := range m.UVs {
			uv = append(uv, float64(t[0]), float64(1-t[1]))
		}
		uvindexes := make([]int32, len(m.Triangles))
		for i, idx := range m.Triangles {
			uvindexes[i] = int32(idx)
		}
		geometry.AddNode(
			bfbx73.LayerElementUV(0).AddNodes(
				bfbx73.Version(101),
				bfbx73.Name(""),
				bfbx73.MappingInformationType("ByPolygonVertex"),
				bfbx73.ReferenceInformationType("IndexToDirect"),
				bfbx73.UV(uv),
				bfbx73.UVIndex(uvindexes),
			),
		)
		layer.AddNode(
			bfbx73.LayerElement().AddNodes(
				bfbx73.Type("LayerElementUV"),
				bfbx73.TypedIndex(0),
			),
		)
	}

	geometry.AddNode(
		bfbx73.LayerElementMaterial(0).AddNodes(
			bfbx73.Version(101),
			bfbx73.Name(""),
			bfbx73.MappingInformationType("AllSame"),
			bfbx73.ReferenceInformationType("IndexToDirect"),
			bfbx73.Materials([]int32{0}),
		),
	)
	layer.AddNode(
		bfbx73.LayerElement().AddNodes(
			bfbx73.Type("LayerElementMaterial"),
			bfbx73.TypedIndex(0),
		),
	)

	e.f.AddObjects(geometry)
	return id
}

func (e *fbxExporter) material(m *scene.Material) int64 {
	if id, ok := e.f.GetCached(m); ok {
		return id
	}
	id := e.f.GenerateId()
	e.f.AddCache(m, id)

	var diffuse, emissive [3]float64
	if m.HasDiffuse() {
		diffuse = [3]float64{float64(m.Diffuse.Color[0]), float64(m.Diffuse.Color[1]), float64(m.Diffuse.Color[2])}
	}
	if m.HasEmissive() {
		emissive = [3]float64{float64(m.Emissive.Color[0]), float64(m.Emissive.Color[1]), float64(m.Emissive.Color[2])}
	}

	name := "Material"
	if m.HasDiffuse() && m.Diffuse.Texture != "" {
		name = m.Diffuse.Texture
	}
	e.f.AddObjects(bfbx73.Material(id, name+"\x00\x01Material", "").AddNodes(
		bfbx73.Version(102),
		bfbx73.ShadingModel("lambert"),
		bfbx73.MultiLayer(0),
		bfbx73.Properties70().AddNodes(
			bfbx73.P("AmbientColor", "Color", "", "A", float64(0), float64(0), float64(0)),
			bfbx73.P("DiffuseColor", "Color", "", "A", diffuse[0], diffuse[1], diffuse[2]),
			bfbx73.P("EmissiveColor", "Color", "", "A", emissive[0], emissive[1], emissive[2]),
			bfbx73.P("Emissive", "Vector3D", "Vector", "", emissive[0], emissive[1], emissive[2]),
			bfbx73.P("Ambient", "Vector3D", "Vector", "", float64(0), float64(0), float64(0)),
			bfbx73.P("Diffuse", "Vector3D", "Vector", "", diffuse[0], diffuse[1], diffuse[2]),
			bfbx73.P("Opacity", "double", "Number", "", float64(1)),
		),
	))
	return id
}
