// Package api serves the SBM loader, machine and disassembler over HTTP.
//
// Every request loads its own program and runs it on a fresh machine, so
// requests share no state. Runs are bounded by a step limit and a timeout.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const (
	// DefaultMaxSteps bounds a run when the server is not configured otherwise.
	DefaultMaxSteps = 10_000_000

	// DefaultTimeout bounds the wall-clock time of a run.
	DefaultTimeout = 5 * time.Second

	// MaxRequestBytes limits the size of request bodies.
	MaxRequestBytes = 1 << 20
)

// Server is an http.Handler exposing the API routes.
type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	maxSteps int
	timeout  time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxSteps sets the largest step limit a request may use. Values of zero
// or less keep DefaultMaxSteps.
func WithMaxSteps(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxSteps = n
		}
	}
}

// WithTimeout sets the run timeout. Values of zero or less keep
// DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New returns a server with its routes mounted.
func New(opts ...Option) *Server {
	s := &Server{
		logger:   zerolog.Nop(),
		maxSteps: DefaultMaxSteps,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/docs", s.handleDocs)
		r.Get("/docs/{mnemonic}", s.handleDoc)
		r.Post("/run", s.handleRun)
		r.Post("/dis", s.handleDis)
	})
	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
