package server

import (
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/slashdb/lib/db"
	"github.com/ValentinKolb/slashdb/lib/loader"
	"github.com/ValentinKolb/slashdb/server/common"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

var Logger = logger.GetLogger("server")

// handle serializes access to one connected database. Addressing calls on a
// Db register collections, so even reads need the lock.
type handle struct {
	mu sync.Mutex
	db *db.Db
}

// state is one generation of loaded databases. A reload replaces the whole
// state at once.
type state struct {
	loader  *loader.Loader
	handles *xsync.MapOf[string, *handle]
	loaded  time.Time
}

// Server serves read-only queries over the databases found below the
// configured root.
//
// Usage:
//
//	s, err := server.New(config)
//	if err != nil {
//		return err
//	}
//	return s.Serve(ctx)
type Server struct {
	config common.ServerConfig
	opts   []loader.Option
	state  atomic.Pointer[state]
	mux    *http.ServeMux

	reloadMu sync.Mutex
}

// New creates a server and loads all databases. The loader options are used
// for the initial load and every reload.
func New(config common.ServerConfig, opts ...loader.Option) (*Server, error) {
	s := &Server{
		config: config,
		opts:   opts,
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}
	s.routes()

	Logger.Infof("Created query server")
	Logger.Infof("%s", config.String())
	return s, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Reload loads all databases from scratch and swaps them in. On failure the
// previous databases stay in service.
func (s *Server) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	l := loader.New(loader.Config{
		Root:      s.config.Root,
		Extension: s.config.Extension,
		Relaxed:   s.config.Relaxed,
	}, s.opts...)

	start := time.Now()
	registry, err := l.Load()
	if err != nil {
		return fmt.Errorf("failed to load databases: %w", err)
	}

	next := &state{
		loader:  l,
		handles: xsync.NewMapOf[string, *handle](),
		loaded:  time.Now(),
	}
	previous := s.state.Swap(next)
	Logger.Infof("Loaded %d database(s) from %s in %s", registry.Len(), l.Config().Root, time.Since(start))

	if previous != nil {
		if err := previous.loader.Close(); err != nil {
			Logger.Warningf("Failed to close previous databases: %v", err)
		}
	}
	return nil
}

// acquire returns the locked handle of a loaded database. The caller must
// unlock it. Unknown databases are not created.
func (s *Server) acquire(name string) (*handle, bool) {
	st := s.state.Load()
	if _, ok := st.loader.Registry().Get(name); !ok {
		return nil, false
	}
	h, _ := st.handles.LoadOrCompute(name, func() *handle {
		return &handle{db: st.loader.Connect(name)}
	})
	h.mu.Lock()
	return h, true
}

// Serve listens on the configured endpoint until ctx is cancelled. If watching
// is enabled, fragment changes below the root trigger a reload.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.Endpoint,
		Handler: s.Handler(),
	}

	if s.config.Watch {
		go func() {
			if err := s.watch(ctx); err != nil {
				Logger.Errorf("Watcher stopped: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		Logger.Infof("Starting HTTP server on %s", s.config.Endpoint)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return s.Close()
}

// Close closes all connected databases.
func (s *Server) Close() error {
	if st := s.state.Load(); st != nil {
		return st.loader.Close()
	}
	return nil
}
