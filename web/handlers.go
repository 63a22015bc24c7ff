package web

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/scenewalk/export"
	"github.com/mogaika/scenewalk/input"
	"github.com/mogaika/scenewalk/render"
	"github.com/mogaika/scenewalk/scene"
	"github.com/mogaika/scenewalk/scenefile"
	"github.com/mogaika/scenewalk/scenes"
	"github.com/mogaika/scenewalk/utils"
	"github.com/mogaika/scenewalk/webutils"
)

const MaxFrameSteps = 10000

type TreeNode struct {
	Name      string                 `json:"name"`
	Path      string                 `json:"path"`
	Kinds     []string               `json:"kinds"`
	Transform *scene.Transform       `json:"transform,omitempty"`
	Mesh      string                 `json:"mesh,omitempty"`
	Target    *scene.AnimationTarget `json:"target,omitempty"`
	Children  []*TreeNode            `json:"children,omitempty"`
}

type FrameResult struct {
	Scene string            `json:"scene"`
	Frame int               `json:"frame"`
	Stats render.Stats      `json:"stats"`
	Calls []render.Call     `json:"calls"`
	Draws []render.DrawCall `json:"draws"`
}

func tree(doc *scenefile.Document, n *scene.Node) *TreeNode {
	g := doc.Graph
	t := &TreeNode{
		Name:      g.NameOf(n),
		Path:      g.PathOf(n),
		Transform: n.Transform,
		Target:    n.Target,
	}
	for _, k := range n.Kinds() {
		t.Kinds = append(t.Kinds, k.String())
	}
	if n.Mesh != nil {
		t.Mesh = doc.MeshName(n.Mesh)
	}
	for _, child := range n.Children {
		t.Children = append(t.Children, tree(doc, child))
	}
	return t
}

func (s *Server) HandlerJsonScenes(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, s.Registry.Names())
}

func (s *Server) HandlerJsonScene(w http.ResponseWriter, r *http.Request) {
	ss, err := s.session(mux.Vars(r)["name"])
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	doc := scenes.Document(ss.runner.Scene)
	webutils.WriteJson(w, tree(doc, doc.Graph.Root))
}

// HandlerJsonSceneFrame advances the scene by ?steps= frames and returns what the last one drew.
func (s *Server) HandlerJsonSceneFrame(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	steps := 1
	if v := r.URL.Query().Get("steps"); v != "" {
		var err error
		if steps, err = strconv.Atoi(v); err != nil || steps < 1 || steps > MaxFrameSteps {
			webutils.WriteErrorCode(w, http.StatusBadRequest,
				errors.Errorf("steps '%s' is not an integer in [1, %d]", v, MaxFrameSteps))
			return
		}
	}

	ss, err := s.session(name)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()

	var stats render.Stats
	for i := 0; i < steps; i++ {
		if stats, err = ss.runner.Frame(); err != nil {
			s.Status.Error("Scene %q: %v", name, err)
			webutils.WriteError(w, err)
			return
		}
		if steps >= 100 && (i+1)%(steps/10) == 0 {
			s.Status.Progress(float32(i+1)/float32(steps), "Scene %q frame %d", name, ss.runner.Frames())
		}
	}

	webutils.WriteJson(w, &FrameResult{
		Scene: name,
		Frame: ss.runner.Frames(),
		Stats: stats,
		Calls: ss.runner.Recorder.Calls(),
		Draws: ss.runner.Recorder.DrawCalls(),
	})
}

// HandlerDumpScene writes a spew dump of the scene root or of the ?node= node.
func (s *Server) HandlerDumpScene(w http.ResponseWriter, r *http.Request) {
	ss, err := s.session(mux.Vars(r)["name"])
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()

	g := ss.runner.Scene.Graph()
	n := g.Root
	if name := r.URL.Query().Get("node"); name != "" {
		if n, err = g.FindByName(name); err != nil {
			webutils.WriteError(w, err)
			return
		}
	}
	webutils.WriteText(w, utils.SDump(n))
}

func (s *Server) HandlerExportScene(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	format, err := export.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		webutils.WriteErrorCode(w, http.StatusBadRequest, err)
		return
	}

	ss, err := s.session(name)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()

	var buf bytes.Buffer
	if err := export.Write(&buf, scenes.Document(ss.runner.Scene), format); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, name+"."+string(format), format.ContentType())
}

func (s *Server) HandlerActionReset(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	s.reset(name)
	s.Status.Info("Scene %q reset", name)
	webutils.WriteJson(w, map[string]string{"reset": name})
}

// HandlerUploadInput replaces the input of a running scene with the uploaded yaml script.
func (s *Server) HandlerUploadInput(w http.ResponseWriter, r *http.Request) {
	data, err := webutils.ReadFormFile(r, "data")
	if err != nil {
		webutils.WriteErrorCode(w, http.StatusBadRequest, err)
		return
	}
	script, err := input.LoadScript(bytes.NewReader(data))
	if err != nil {
		webutils.WriteErrorCode(w, http.StatusBadRequest, err)
		return
	}

	ss, err := s.session(mux.Vars(r)["name"])
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.runner.Input = script
	webutils.WriteJson(w, map[string]int{"frame": ss.runner.Frames()})
}
