package web

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/scenewalk/config"
	"github.com/mogaika/scenewalk/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *Server) {
	c := config.Default()
	c.CraneSegments = 5
	s := NewServer(c, nil, status.NewHub())
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv, s
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func frame(t *testing.T, srv *httptest.Server, query string) FrameResult {
	resp, body := get(t, srv.URL+"/json/scene/crane/frame"+query)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var result FrameResult
	require.NoError(t, json.Unmarshal(body, &result))
	return result
}

func findTree(n *TreeNode, name string) *TreeNode {
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := findTree(child, name); found != nil {
			return found
		}
	}
	return nil
}

func TestScenesList(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := get(t, srv.URL+"/json/scenes")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var names []string
	require.NoError(t, json.Unmarshal(body, &names))
	assert.Equal(t, []string{"crane", "forest", "humanoid", "wuggy"}, names)
}

func TestSceneTree(t *testing.T) {
	srv, s := newTestServer(t)
	resp, body := get(t, srv.URL+"/json/scene/wuggy")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var root TreeNode
	require.NoError(t, json.Unmarshal(body, &root))
	assert.Equal(t, "Wuggy", root.Name)
	assert.Contains(t, root.Kinds, "material")

	eye := findTree(&root, "Eye_n")
	require.NotNil(t, eye)
	assert.Equal(t, "Wuggy/Neck/NeckHi/Eye_n", eye.Path)

	head := findTree(&root, "Head.geometry")
	require.NotNil(t, head)
	assert.Equal(t, "Sphere", head.Mesh)

	last, ok := s.Status.Last()
	require.True(t, ok)
	assert.Equal(t, `Scene "wuggy" created`, last.Message)

	resp, _ = get(t, srv.URL+"/json/scene/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSceneFrame(t *testing.T) {
	srv, _ := newTestServer(t)

	first := frame(t, srv, "")
	assert.Equal(t, 1, first.Frame)
	assert.Equal(t, 5, first.Stats.Draws)
	assert.Len(t, first.Draws, 5)
	var created int
	for _, c := range first.Calls {
		if c.Kind == "create_mesh" {
			created++
		}
	}
	assert.Equal(t, 1, created)

	// the session keeps running, meshes are already created
	later := frame(t, srv, "?steps=120")
	assert.Equal(t, 121, later.Frame)
	assert.Len(t, later.Draws, 5)
	for _, c := range later.Calls {
		assert.NotEqual(t, "create_mesh", string(c.Kind))
	}

	for _, bad := range []string{"?steps=abc", "?steps=0", "?steps=10001"} {
		resp, _ := get(t, srv.URL+"/json/scene/crane/frame"+bad)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, bad)
	}
}

func TestSceneReset(t *testing.T) {
	srv, _ := newTestServer(t)
	frame(t, srv, "?steps=3")

	resp, err := http.Post(srv.URL+"/action/scene/crane/reset", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 1, frame(t, srv, "").Frame)

	resp, _ = get(t, srv.URL+"/action/scene/crane/reset")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestSceneDump(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := get(t, srv.URL+"/dump/scene/wuggy?node=NeckHi")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"NeckHi"`)

	resp, _ = get(t, srv.URL+"/dump/scene/wuggy?node=Tail")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSceneExport(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := get(t, srv.URL+"/export/scene/forest/glb")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "model/gltf-binary", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "forest.glb")
	assert.True(t, bytes.HasPrefix(body, []byte("glTF")))

	resp, body = get(t, srv.URL+"/export/scene/crane/yaml")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "arm4.link")

	resp, _ = get(t, srv.URL+"/export/scene/crane/fbx")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/export/scene/crane/obj")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadInput(t *testing.T) {
	srv, s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("data", "input.yaml")
	require.NoError(t, err)
	_, err = io.WriteString(fw, "- {ad: 1, repeat: 10}\n")
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/upload/scene/crane/input", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	frame(t, srv, "?steps=10")
	ss, err := s.session("crane")
	require.NoError(t, err)
	arm := ss.runner.Scene.Graph().MustFind("arm0")
	assert.InDelta(t, 1.0, arm.Transform.Rotation[1], 1e-5)

	resp, err = http.Post(srv.URL+"/upload/scene/crane/input", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
