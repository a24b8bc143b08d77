// Package server assembles the HTTP router and runs the HTTP server.
package server

import (
	"context"
	"errors"
	"net/http"

	"users-api/internal/config"
	"users-api/internal/handlers"
	"users-api/internal/metrics"
	"users-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter builds the HTTP handler serving every route
func NewRouter(
	cfg *config.Config,
	userHandler *handlers.UserHandler,
	streamHandler *handlers.LikeStreamHandler,
) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.RouteSpanName)
	r.Use(chiMiddleware.Recoverer)
	if cfg.Metrics.Enabled {
		r.Use(metrics.InstrumentHandler)
	}
	r.Use(corsHandler(cfg.Server.CORSAllowedOrigins).Handler)

	// Routes
	r.Get("/health", handlers.Health)
	if cfg.Metrics.Enabled {
		r.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler())
	}

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.CreateUser)
		r.Route("/{userId}", func(r chi.Router) {
			r.Get("/", userHandler.GetUser)
			r.Post("/likes", userHandler.CreateLike)
			r.Get("/likes", userHandler.GetLikes)
			r.Get("/likes/stream", streamHandler.Stream)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, "route not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	// spans are renamed after routing by RouteSpanName
	return otelhttp.NewHandler(r, "users-api", otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
		return "HTTP " + r.Method
	}))
}

func writeMessage(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write([]byte(`{"message":"` + message + `"}`))
}

func corsHandler(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
}

// Server wraps the HTTP server and its lifecycle
type Server struct {
	srv *http.Server
}

// New creates a server listening on the configured address
func New(cfg config.ServerConfig, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Start serves until Shutdown is called. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	log.Info().Str("addr", s.srv.Addr).Msg("Starting server")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx
// expires
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down server...")
	return s.srv.Shutdown(ctx)
}
