package render

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

type CallKind string

const (
	CallCreateMesh  CallKind = "create_mesh"
	CallModelView   CallKind = "model_view"
	CallShaderParam CallKind = "shader_param"
	CallDraw        CallKind = "draw"
)

type Call struct {
	Kind      CallKind    `json:"kind"`
	Mesh      MeshHandle  `json:"mesh,omitempty"`
	MeshName  string      `json:"mesh_name,omitempty"`
	Matrix    *mgl32.Mat4 `json:"matrix,omitempty"`
	Param     Param       `json:"param,omitempty"`
	Value     interface{} `json:"value,omitempty"`
	Triangles int         `json:"triangles,omitempty"`
}

func (c Call) String() string {
	switch c.Kind {
	case CallCreateMesh:
		return fmt.Sprintf("create_mesh %d %q (%d triangles)", c.Mesh, c.MeshName, c.Triangles)
	case CallModelView:
		return fmt.Sprintf("model_view %v", c.Matrix.Col(3))
	case CallShaderParam:
		return fmt.Sprintf("param %s = %v", c.Param, c.Value)
	case CallDraw:
		return fmt.Sprintf("draw %d %q", c.Mesh, c.MeshName)
	default:
		return string(c.Kind)
	}
}

// DrawCall is a draw with the state that was current when it was issued.
type DrawCall struct {
	Mesh      MeshHandle            `json:"mesh"`
	MeshName  string                `json:"mesh_name"`
	ModelView mgl32.Mat4            `json:"model_view"`
	Params    map[Param]interface{} `json:"params"`
}

// Recorder is a headless Backend that keeps every call in order.
type Recorder struct {
	// When set, Draw fails for this handle.
	FailDraw func(h MeshHandle) error

	mu        sync.Mutex
	calls     []Call
	meshes    []MeshData
	modelView mgl32.Mat4
	params    map[Param]interface{}
	draws     []DrawCall
}

func NewRecorder() *Recorder {
	return &Recorder{
		modelView: mgl32.Ident4(),
		params:    make(map[Param]interface{}),
	}
}

func (r *Recorder) CreateMesh(data MeshData) (MeshHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(data.Vertices) == 0 {
		return 0, errors.Errorf("mesh %q has no vertices", data.Name)
	}
	r.meshes = append(r.meshes, data)
	h := MeshHandle(len(r.meshes))
	r.calls = append(r.calls, Call{
		Kind:      CallCreateMesh,
		Mesh:      h,
		MeshName:  data.Name,
		Triangles: len(data.Triangles) / 3,
	})
	return h, nil
}

func (r *Recorder) SetModelView(m mgl32.Mat4) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modelView = m
	r.calls = append(r.calls, Call{Kind: CallModelView, Matrix: &m})
}

func (r *Recorder) SetShaderParam(slot Param, value interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.params[slot] = value
	r.calls = append(r.calls, Call{Kind: CallShaderParam, Param: slot, Value: value})
}

func (r *Recorder) Draw(h MeshHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h == 0 || int(h) > len(r.meshes) {
		return errors.Errorf("draw of unknown mesh handle %d", h)
	}
	if r.FailDraw != nil {
		if err := r.FailDraw(h); err != nil {
			return err
		}
	}

	name := r.meshes[h-1].Name
	params := make(map[Param]interface{}, len(r.params))
	for k, v := range r.params {
		params[k] = v
	}
	r.calls = append(r.calls, Call{Kind: CallDraw, Mesh: h, MeshName: name})
	r.draws = append(r.draws, DrawCall{
		Mesh:      h,
		MeshName:  name,
		ModelView: r.modelView,
		Params:    params,
	})
	return nil
}

func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

func (r *Recorder) DrawCalls() []DrawCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]DrawCall(nil), r.draws...)
}

func (r *Recorder) Mesh(h MeshHandle) (MeshData, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h == 0 || int(h) > len(r.meshes) {
		return MeshData{}, false
	}
	return r.meshes[h-1], true
}

func (r *Recorder) MeshesCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.meshes)
}

// Reset forgets the recorded calls of the previous frame. Created meshes stay valid.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = r.calls[:0]
	r.draws = r.draws[:0]
}
