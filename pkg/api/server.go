// Package api provides the HTTP server and client for the layout service.
//
// The server exposes the graph store and the layout pipeline over a small
// REST surface:
//
//	GET    /api/health        - liveness and version
//	GET    /api/graphs        - list stored graph ids
//	POST   /api/graphs        - save a graph (id generated when absent)
//	GET    /api/graphs/{id}   - fetch a stored graph
//	DELETE /api/graphs/{id}   - delete a stored graph
//	POST   /api/layout        - run a layout on a stored graph and persist it
//	POST   /api/upload        - parse an uploaded file (json, csv, dot) and store it
//
// Errors are returned as {"error": ..., "code": ...} where code is a
// machine-readable error code from pkg/errors.
//
// # Usage
//
//	srv := api.NewServer(st, runner, logger, api.Config{Addr: ":3000"})
//	if err := srv.ListenAndServe(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// The Client in this package talks to the same surface and is used by the
// CLI when layout computation is delegated to a remote server.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ocasazza/graphlayouts/pkg/pipeline"
	"github.com/ocasazza/graphlayouts/pkg/store"
)

// Default values for server configuration.
const (
	// DefaultAddr is the default listen address.
	DefaultAddr = "127.0.0.1:3000"

	// DefaultMaxBodyBytes caps request bodies on the write endpoints.
	DefaultMaxBodyBytes = 1 << 20 // 1 MiB

	shutdownTimeout = 10 * time.Second
)

// Config holds server configuration.
type Config struct {
	// Addr is the listen address (host:port).
	Addr string `toml:"addr"`

	// AllowedOrigins restricts CORS to the listed origins. Empty allows
	// any origin.
	AllowedOrigins []string `toml:"allowed_origins"`

	// MaxBodyBytes caps request bodies on POST endpoints. Zero selects
	// DefaultMaxBodyBytes.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

// Server serves the REST API backed by a graph store and a pipeline runner.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
	cfg    Config
}

// NewServer creates a Server. Nil arguments fall back to defaults: an
// in-memory store, a runner without caching, and the default logger.
func NewServer(st store.Store, runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Server{
		store:  st,
		runner: runner,
		logger: logger,
		cfg:    cfg,
	}
}

// Handler builds the route tree. It is exposed separately from
// ListenAndServe so tests can drive the server through httptest.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(s.cors)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Route("/graphs", func(r chi.Router) {
			r.Get("/", s.handleListGraphs)
			r.Post("/", s.handleSaveGraph)
			r.Get("/{id}", s.handleGetGraph)
			r.Delete("/{id}", s.handleDeleteGraph)
		})
		r.Post("/layout", s.handleApplyLayout)
		r.Post("/upload", s.handleUpload)
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("server listening", "addr", s.cfg.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// logRequests emits one structured log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// cors allows any origin by default, narrowed to the configured
// origins when any are set.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := "*"
		if len(s.cfg.AllowedOrigins) > 0 {
			origin = ""
			reqOrigin := r.Header.Get("Origin")
			for _, allowed := range s.cfg.AllowedOrigins {
				if allowed == "*" || allowed == reqOrigin {
					origin = reqOrigin
					break
				}
			}
			w.Header().Add("Vary", "Origin")
		}
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
