// Package scenes holds the runnable tutorial scenes and the frame loop that drives them.
package scenes

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/scenewalk/anim"
	"github.com/mogaika/scenewalk/assets"
	"github.com/mogaika/scenewalk/input"
	"github.com/mogaika/scenewalk/render"
	"github.com/mogaika/scenewalk/scene"
	"github.com/mogaika/scenewalk/scenefile"
)

// Scene is one runnable scene. Update applies the input of one frame and advances the
// animation; the renderer then draws Graph with View.
type Scene interface {
	Name() string
	Graph() *scene.Graph
	Update(f input.Frame) error
	View() mgl32.Mat4
	// Configure sets renderer state the scene depends on: textures, effects, light, shininess.
	Configure(r *render.Renderer)
}

// Documented scenes can hand out their scene file form.
type Documented interface {
	Document() *scenefile.Document
}

// Document returns the scene file form of s; scenes built in code without one get their
// graph wrapped as is.
func Document(s Scene) *scenefile.Document {
	if d, ok := s.(Documented); ok {
		return d.Document()
	}
	return scenefile.FromGraph(s.Name(), s.Graph())
}

type Options struct {
	// Meshes come from here; built-in primitives are used when nil.
	Assets assets.Provider
	Seed   int64
	Policy scene.NamePolicy
	// Crane arm count, DefaultCraneSegments when zero.
	CraneSegments int
	// Initial renderer shininess for scenes that let the user change it.
	Shininess float32
}

func (o Options) provider() (assets.Provider, error) {
	if o.Assets != nil {
		return o.Assets, nil
	}
	s := assets.NewStorage(nil)
	if err := assets.RegisterPrimitives(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (o Options) animator() *anim.Animator {
	return anim.New(rand.NewSource(o.Seed))
}

type Factory func(opts Options) (Scene, error)

type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry knows every built-in scene.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister("crane", NewCrane)
	r.MustRegister("humanoid", NewHumanoid)
	r.MustRegister("wuggy", NewWuggy)
	r.MustRegister("forest", NewForest)
	return r
}

func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return errors.Errorf("scene %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

func (r *Registry) MustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) New(name string, opts Options) (Scene, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &scene.NotFoundError{Name: name}
	}
	s, err := f(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create scene %q", name)
	}
	return s, nil
}

// Runner drives a scene frame by frame against a recording backend.
// It is not safe for concurrent use.
type Runner struct {
	Scene    Scene
	Input    input.Provider
	Recorder *render.Recorder
	Renderer *render.Renderer

	frames int
}

func NewRunner(s Scene, in input.Provider) *Runner {
	if in == nil {
		in = &input.Idle{}
	}
	rec := render.NewRecorder()
	r := render.NewRenderer(rec)
	s.Configure(r)
	return &Runner{
		Scene:    s,
		Input:    in,
		Recorder: rec,
		Renderer: r,
	}
}

// Frame reads one input frame, updates the scene and draws it. The recorder only holds
// the calls of this frame afterwards.
func (r *Runner) Frame() (render.Stats, error) {
	r.Recorder.Reset()
	f := r.Input.Next()
	if err := r.Scene.Update(f); err != nil {
		return render.Stats{}, errors.Wrapf(err, "scene %q frame %d update", r.Scene.Name(), r.frames)
	}
	r.Renderer.View = r.Scene.View()
	if err := r.Renderer.Traverse(r.Scene.Graph().Root); err != nil {
		return r.Renderer.Stats(), errors.Wrapf(err, "scene %q frame %d", r.Scene.Name(), r.frames)
	}
	r.frames++
	return r.Renderer.Stats(), nil
}

// Run renders n frames and stops at the first error.
func (r *Runner) Run(n int) error {
	for i := 0; i < n; i++ {
		if _, err := r.Frame(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) Frames() int {
	return r.frames
}

// bindAll binds the named nodes of g to fresh copies of profile, in order.
func bindAll(a *anim.Animator, g *scene.Graph, profile string, names ...string) error {
	for _, name := range names {
		n, err := g.FindByName(name)
		if err != nil {
			return err
		}
		p, ok := anim.ProfileByName(profile)
		if !ok {
			return errors.Errorf("unknown animation profile %q", profile)
		}
		if err := a.Bind(n, p); err != nil {
			return err
		}
	}
	return nil
}

// bindDocument binds every node a scene file asked to animate.
func bindDocument(a *anim.Animator, doc *scenefile.Document) error {
	for _, b := range doc.Bindings {
		p, ok := anim.ProfileByName(b.Profile)
		if !ok {
			return errors.Errorf("unknown animation profile %q", b.Profile)
		}
		if err := a.Bind(b.Node, p); err != nil {
			return err
		}
	}
	return nil
}
