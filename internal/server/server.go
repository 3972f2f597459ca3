package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hongminglow/arcade-be/internal/auth"
	"github.com/hongminglow/arcade-be/internal/cache"
	"github.com/hongminglow/arcade-be/internal/config"
	"github.com/hongminglow/arcade-be/internal/http/handlers"
	"github.com/hongminglow/arcade-be/internal/middleware"
	"github.com/hongminglow/arcade-be/internal/storage"
)

// Deps are the collaborators the server routes to.
type Deps struct {
	Store    storage.Store
	Catalog  cache.Catalog
	Logger   *slog.Logger
	Registry *prometheus.Registry // nil disables /metrics
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, deps Deps) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           otelhttp.NewHandler(Routes(cfg, deps), "arcade-http"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return &Server{inner: httpServer}
}

// Routes builds the router. It is exported so tests can drive it through httptest.
func Routes(cfg config.Config, deps Deps) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authHandler := handlers.NewAuthHandler(deps.Store, tokens, deps.Logger)
	gamesHandler := handlers.NewGamesHandler(deps.Store, deps.Catalog, deps.Logger)
	adminHandler := handlers.NewAdminHandler(deps.Store, deps.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	if deps.Registry != nil {
		r.Use(middleware.NewMetrics("arcade", deps.Registry).Handler)
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	handlers.NewHealthHandler(time.Now(), deps.Store).Register(r)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.AuthRateLimit))
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})

		r.Get("/games", gamesHandler.ListPublic)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens, deps.Store))
			r.Get("/me", authHandler.Me)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/stats", adminHandler.Stats)

				r.Get("/users", adminHandler.ListUsers)
				r.Delete("/users/{id}", adminHandler.DeleteUser)

				r.Get("/games", gamesHandler.List)
				r.Post("/games", gamesHandler.Create)
				r.Get("/games/{id}", gamesHandler.Get)
				r.Put("/games/{id}", gamesHandler.Update)
				r.Put("/games/{id}/toggle", gamesHandler.Toggle)
				r.Delete("/games/{id}", gamesHandler.Delete)
			})
		})
	})

	return r
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
