package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Param is a named shader parameter slot.
type Param string

const (
	ParamAlbedo       Param = "albedo"
	ParamShininess    Param = "shininess"
	ParamSpecFactor   Param = "specfactor"
	ParamSpecColor    Param = "speccolor"
	ParamAmbientColor Param = "ambientcolor"
	ParamTexture      Param = "texture"
	ParamTexMix       Param = "texmix"
	ParamLightDir     Param = "lightdir"
)

// MaterialParams lists the slots written for every drawn mesh, in write order.
var MaterialParams = []Param{
	ParamAlbedo,
	ParamShininess,
	ParamSpecFactor,
	ParamSpecColor,
	ParamAmbientColor,
	ParamTexture,
	ParamTexMix,
}

// MeshData is what the backend receives to build a mesh. Slices are shared with the
// authored description and must be treated as read only.
type MeshData struct {
	Name      string
	Vertices  []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Triangles []uint16
}

// MeshHandle is an opaque backend mesh reference.
type MeshHandle uint32

// Backend is the draw target of a traversal. Calls for one mesh always come in the order
// shader params, model-view, draw.
type Backend interface {
	CreateMesh(data MeshData) (MeshHandle, error)
	SetModelView(m mgl32.Mat4)
	SetShaderParam(slot Param, value interface{})
	Draw(h MeshHandle) error
}
