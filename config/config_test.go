package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/scenewalk/assets"
	"github.com/mogaika/scenewalk/scene"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, scene.RenameDuplicates, c.NamePolicy())

	opts, err := c.SceneOptions()
	require.NoError(t, err)
	assert.Equal(t, c.Seed, opts.Seed)
	assert.Equal(t, 50, opts.CraneSegments)

	_, err = assets.GetMesh(opts.Assets, "Cube")
	assert.NoError(t, err)
}

func TestLoad(t *testing.T) {
	c, err := Load(strings.NewReader(`
address: localhost:9000
seed: 42
scene: wuggy
policy: reject
crane_segments: 8
`))
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", c.Address)
	assert.Equal(t, int64(42), c.Seed)
	assert.Equal(t, "wuggy", c.Scene)
	assert.Equal(t, scene.RejectDuplicates, c.NamePolicy())
	assert.Equal(t, 8, c.CraneSegments)
	// untouched keys keep their defaults
	assert.Equal(t, Default().Shininess, c.Shininess)

	empty, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), empty)
}

func TestValidate(t *testing.T) {
	for name, yml := range map[string]string{
		"policy":    "policy: ignore",
		"segments":  "crane_segments: 0",
		"negative":  "crane_segments: -3",
		"shininess": "shininess: 0",
		"scene":     `scene: ""`,
		"syntax":    "seed: [",
	} {
		_, err := Load(strings.NewReader(yml))
		assert.Error(t, err, name)
	}
}

func TestProvider(t *testing.T) {
	dir := t.TempDir()
	obj := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tri.obj"), []byte(obj), 0o644))

	c := Default()
	c.Assets = dir
	p, err := c.Provider()
	require.NoError(t, err)

	m, err := assets.GetMesh(p, "tri.obj")
	require.NoError(t, err)
	assert.Equal(t, 1, m.TrianglesCount())
	_, err = assets.GetMesh(p, "Sphere")
	assert.NoError(t, err)

	c.Assets = filepath.Join(dir, "tri.obj")
	_, err = c.Provider()
	assert.Error(t, err)

	c.Assets = filepath.Join(dir, "missing")
	_, err = c.Provider()
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenewalk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scene: forest\n"), 0o644))
	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "forest", c.Scene)

	_, err = LoadFile(path + ".missing")
	assert.Error(t, err)
}
