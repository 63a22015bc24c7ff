package web

import (
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/scenewalk/config"
	"github.com/mogaika/scenewalk/scene"
	"github.com/mogaika/scenewalk/scenes"
	"github.com/mogaika/scenewalk/status"
)

// session is a scene instance kept running between requests.
type session struct {
	mu     sync.Mutex
	runner *scenes.Runner
}

type Server struct {
	Config   *config.Config
	Registry *scenes.Registry
	Status   *status.Hub

	mu       sync.Mutex
	sessions map[string]*session
}

func NewServer(c *config.Config, reg *scenes.Registry, hub *status.Hub) *Server {
	if c == nil {
		c = config.Default()
	}
	if reg == nil {
		reg = scenes.DefaultRegistry()
	}
	if hub == nil {
		hub = status.Default
	}
	return &Server{
		Config:   c,
		Registry: reg,
		Status:   hub,
		sessions: make(map[string]*session),
	}
}

// session returns the running instance of the named scene, creating it on first use.
func (s *Server) session(name string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ss, ok := s.sessions[name]; ok {
		return ss, nil
	}
	opts, err := s.Config.SceneOptions()
	if err != nil {
		return nil, err
	}
	sc, err := s.Registry.New(name, opts)
	if err != nil {
		if scene.IsNotFound(err) {
			return nil, errors.Wrapf(err, "unknown scene")
		}
		return nil, err
	}
	ss := &session{runner: scenes.NewRunner(sc, nil)}
	s.sessions[name] = ss
	log.Printf("[web] Created scene %q with %d nodes", name, sc.Graph().Len())
	s.Status.Info("Scene %q created", name)
	return ss, nil
}

// reset drops the running instance; the next request starts the scene over.
func (s *Server) reset(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, name)
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/scenes", s.HandlerJsonScenes)
	r.HandleFunc("/json/scene/{name}", s.HandlerJsonScene)
	r.HandleFunc("/json/scene/{name}/frame", s.HandlerJsonSceneFrame)
	r.HandleFunc("/dump/scene/{name}", s.HandlerDumpScene)
	r.HandleFunc("/export/scene/{name}/{format}", s.HandlerExportScene)
	r.HandleFunc("/action/scene/{name}/reset", s.HandlerActionReset).Methods("POST")
	r.HandleFunc("/upload/scene/{name}/input", s.HandlerUploadInput).Methods("POST")
	r.Handle("/ws/status", s.Status)
	return r
}

func (s *Server) Handler() http.Handler {
	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(s.Router())
	return handlers.LoggingHandler(os.Stdout, h)
}

func StartServer(addr string, s *Server) error {
	log.Printf("[web] Starting server %v", addr)
	return http.ListenAndServe(addr, s.Handler())
}
