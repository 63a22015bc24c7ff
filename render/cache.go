package render

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/mogaika/scenewalk/scene"
)

// MeshCache creates backend meshes lazily, once per mesh description. Descriptions are
// keyed by pointer, so two equal but distinct descriptions get two handles.
// Safe for concurrent use; entries live as long as the cache.
type MeshCache struct {
	backend Backend

	mu      sync.Mutex
	handles map[*scene.Mesh]MeshHandle
}

func NewMeshCache(backend Backend) *MeshCache {
	return &MeshCache{
		backend: backend,
		handles: make(map[*scene.Mesh]MeshHandle),
	}
}

func (c *MeshCache) LookupOrCreate(desc *scene.Mesh) (MeshHandle, error) {
	if desc == nil {
		return 0, scene.Violationf("lookup of nil mesh")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.handles[desc]; ok {
		return h, nil
	}

	h, err := c.backend.CreateMesh(MeshData{
		Name:      desc.Name,
		Vertices:  desc.Vertices,
		Normals:   desc.Normals,
		UVs:       desc.UVs,
		Triangles: desc.Triangles,
	})
	if err != nil {
		return 0, errors.Wrapf(err, "creating mesh %q", desc.Name)
	}
	c.handles[desc] = h
	scene.Logger().Debug("mesh created", "mesh", desc.Name, "handle", h)
	return h, nil
}

// Lookup returns a cached handle without creating one.
func (c *MeshCache) Lookup(desc *scene.Mesh) (MeshHandle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.handles[desc]
	return h, ok
}

// Warm creates handles for all meshes of a graph ahead of the first frame.
func (c *MeshCache) Warm(g *scene.Graph) error {
	for _, m := range g.Meshes() {
		if _, err := c.LookupOrCreate(m); err != nil {
			return err
		}
	}
	return nil
}

func (c *MeshCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handles)
}
