// Package server exposes Kruskal engines over HTTP so that a browser
// visualizer can drive a run step by step.
//
// Each session owns one engine. Sessions live in memory only, are guarded
// by their own mutex and are evicted after a period of inactivity. All
// endpoints live under /api/v1 and exchange JSON; errors are returned as
// {"code": "...", "message": "..."} with codes from pkg/errors.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/kruskal/pkg/pipeline"
)

// Server configuration defaults.
const (
	// DefaultAddr is the listen address used by `kruskal serve`.
	DefaultAddr = ":8080"

	// DefaultSessionTTL is how long an untouched session survives.
	DefaultSessionTTL = 30 * time.Minute

	// DefaultMaxSessions caps live sessions; the least recently used one is
	// evicted to make room.
	DefaultMaxSessions = 256

	// maxBodyBytes bounds request bodies.
	maxBodyBytes = 4 << 20

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server holds the session table and shared collaborators.
type Server struct {
	logger      *log.Logger
	runner      *pipeline.Runner
	ttl         time.Duration
	maxSessions int
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRunner sets the pipeline runner used by stateless runs.
func WithRunner(r *pipeline.Runner) Option {
	return func(s *Server) { s.runner = r }
}

// WithSessionTTL sets the idle lifetime of sessions.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Server) { s.ttl = d }
}

// WithMaxSessions caps the number of live sessions.
func WithMaxSessions(n int) Option {
	return func(s *Server) { s.maxSessions = n }
}

// New creates a server. Without options it logs to the default logger and
// runs without a cache.
func New(opts ...Option) *Server {
	s := &Server{
		logger:      log.Default(),
		ttl:         DefaultSessionTTL,
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
		sessions:    make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	return s
}

// Handler returns an http.Handler with all routes configured.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/catalog", s.handleCatalogList)
		r.Get("/catalog/{name}", s.handleCatalogGet)
		r.Get("/categories", s.handleCategories)

		r.Post("/runs", s.handleRun)
		r.Post("/compare", s.handleCompare)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.handleSessionList)
			r.Post("/", s.handleSessionCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(s.withSession)
				r.Get("/", s.handleSessionGet)
				r.Delete("/", s.handleSessionDelete)
				r.Post("/step", s.handleSessionStep)
				r.Post("/run", s.handleSessionRun)
				r.Post("/reset", s.handleSessionReset)
				r.Get("/dot", s.handleSessionDOT)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down", "sessions", s.sessionCount(shutdownCtx))
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// logRequests logs every request at debug level with its status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// cors allows a locally served visualizer on another port to call the API.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
