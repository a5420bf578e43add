package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/unit-converter/internal/domain"
	"github.com/couchcryptid/unit-converter/internal/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the conversion API alongside health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	converter  *domain.Converter
	validator  *Validator
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// Options configures a Server.
type Options struct {
	Addr           string
	AllowedOrigins []string
	Converter      *domain.Converter
	Ready          sharedobs.ReadinessChecker
	Metrics        *observability.Metrics
	Logger         *slog.Logger
}

// NewServer creates an HTTP server with the API routes under /api/v1 and
// /healthz, /readyz, and /metrics at the root.
func NewServer(opts Options) *Server {
	router := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:    router,
		converter: opts.Converter,
		validator: NewValidator(),
		metrics:   opts.Metrics,
		logger:    opts.Logger,
	}

	s.setupMiddleware(opts.AllowedOrigins)
	s.setupRoutes(opts.Ready)

	return s
}

func (s *Server) setupMiddleware(origins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes(ready sharedobs.ReadinessChecker) {
	s.router.Get("/healthz", sharedobs.LivenessHandler())
	s.router.Get("/readyz", sharedobs.ReadinessHandler(ready))
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", s.handleListCategories)
		r.Get("/categories/{id}", s.handleGetCategory)
		r.Get("/convert", s.handleConvert)
	})
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the router, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger logs one line per request through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
