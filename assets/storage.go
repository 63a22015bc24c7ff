package assets

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/mogaika/scenewalk/scene"
	"github.com/mogaika/scenewalk/vfs"
)

// Loader decodes one file into assets. The first asset is registered under the file name,
// every asset also under "file#name".
type Loader func(name string, r io.Reader) ([]Asset, error)

var defaultLoaders = map[string]Loader{
	".gltf": LoadGLTF,
	".glb":  LoadGLTF,
	".obj":  LoadOBJ,
	".png":  LoadImage,
	".jpg":  LoadImage,
	".jpeg": LoadImage,
	".vert": LoadShader,
	".frag": LoadShader,
}

// Storage holds registered assets and lazily loads missing ones from a directory.
// Loaded assets are kept for the storage lifetime, so a name always maps to the
// same *scene.Mesh. Safe for concurrent use.
type Storage struct {
	dir vfs.Directory

	mu      sync.Mutex
	assets  map[string]Asset
	loaders map[string]Loader
}

// NewStorage creates a storage; dir may be nil for in-memory only storages.
func NewStorage(dir vfs.Directory) *Storage {
	s := &Storage{
		dir:     dir,
		assets:  make(map[string]Asset),
		loaders: make(map[string]Loader, len(defaultLoaders)),
	}
	for ext, l := range defaultLoaders {
		s.loaders[ext] = l
	}
	return s
}

func (s *Storage) RegisterLoader(ext string, l Loader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaders[strings.ToLower(ext)] = l
}

func (s *Storage) Register(name string, a Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.assets[name]; exists {
		return errors.Errorf("asset %q already registered", name)
	}
	s.assets[name] = a
	return nil
}

func (s *Storage) RegisterMesh(name string, m *scene.Mesh) error {
	return s.Register(name, MeshAsset(m))
}

func (s *Storage) Get(name string) (Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.assets[name]; ok {
		return a, nil
	}

	file := name
	if i := strings.IndexByte(name, '#'); i >= 0 {
		file = name[:i]
	}
	if _, loaded := s.assets[file]; loaded || s.dir == nil {
		return nil, &AssetNotFoundError{Name: name}
	}

	if err := s.load(file); err != nil {
		return nil, err
	}
	if a, ok := s.assets[name]; ok {
		return a, nil
	}
	return nil, &AssetNotFoundError{Name: name}
}

func (s *Storage) load(file string) error {
	loader, ok := s.loaders[strings.ToLower(path.Ext(file))]
	if !ok {
		return &AssetNotFoundError{Name: file}
	}

	data, err := vfs.ReadFile(s.dir, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &AssetNotFoundError{Name: file}
		}
		return errors.Wrapf(err, "reading asset %q", file)
	}

	loaded, err := loader(file, bytes.NewReader(data))
	if err != nil {
		return errors.Wrapf(err, "loading asset %q", file)
	}
	if len(loaded) == 0 {
		return errors.Errorf("asset %q is empty", file)
	}

	s.assets[file] = loaded[0]
	for _, a := range loaded {
		s.assets[file+"#"+a.assetName()] = a
	}
	scene.Logger().Debug("asset loaded", "file", file, "count", len(loaded))
	return nil
}

// Names lists registered and already loaded asset names.
func (s *Storage) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.assets))
	for name := range s.assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
