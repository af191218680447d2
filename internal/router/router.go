// Package router declares the HTTP routes and the middleware chain.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/boardkit/boardkit/internal/handler"
	"github.com/boardkit/boardkit/internal/middleware"
)

// Handlers groups the handlers the route table dispatches to.
type Handlers struct {
	Fallback *handler.Handler
	Auth     *handler.AuthHandler
	Health   *handler.HealthHandler
	Metrics  *handler.MetricsHandler
}

// Route binds a method and pattern to a handler.
type Route struct {
	Name    string
	Method  string
	Pattern string
	Handler func(h Handlers) http.HandlerFunc
}

// Routes is the complete route table.
var Routes = []Route{
	{
		Name:    "signup",
		Method:  http.MethodPost,
		Pattern: "/signup",
		Handler: func(h Handlers) http.HandlerFunc { return h.Auth.SignUp },
	},
	{
		Name:    "login",
		Method:  http.MethodPost,
		Pattern: "/login",
		Handler: func(h Handlers) http.HandlerFunc { return h.Auth.Login },
	},
	{
		Name:    "healthz",
		Method:  http.MethodGet,
		Pattern: "/healthz",
		Handler: func(h Handlers) http.HandlerFunc { return h.Health.Healthz },
	},
	{
		Name:    "readyz",
		Method:  http.MethodGet,
		Pattern: "/readyz",
		Handler: func(h Handlers) http.HandlerFunc { return h.Health.Readyz },
	},
	{
		Name:    "metrics",
		Method:  http.MethodGet,
		Pattern: "/metrics",
		Handler: func(h Handlers) http.HandlerFunc { return h.Metrics.Metrics },
	},
}

// Config holds the middleware settings.
type Config struct {
	Logger             *slog.Logger
	TokenHeader        string
	IsDevelopment      bool
	CORSAllowedOrigins []string
	MaxRequestBodySize int64
}

// New builds a chi router serving Routes.
func New(cfg Config, h Handlers) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if h.Fallback == nil {
		h.Fallback = handler.New()
	}

	corsCfg := middleware.DefaultCORSConfig(cfg.TokenHeader)
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger, cfg.IsDevelopment))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	for _, route := range Routes {
		r.Method(route.Method, route.Pattern, route.Handler(h))
	}

	// A known path with the wrong method is still an unknown endpoint.
	r.NotFound(h.Fallback.NotFound)
	r.MethodNotAllowed(h.Fallback.NotFound)

	return r
}
