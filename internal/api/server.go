// Package api provides the HTTP API server and handlers for foodgram.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/foodgram/foodgram-server/internal/logger"
	"github.com/foodgram/foodgram-server/internal/media/images"
	"github.com/foodgram/foodgram-server/internal/ratelimit"
	"github.com/foodgram/foodgram-server/internal/store/sqlite"
)

// apiPrefix is the mount point of the JSON API.
const apiPrefix = "/api/v1"

// Options configures the HTTP surface.
type Options struct {
	PublicURL   string
	CORSOrigins []string
	// MediaRoot is served under /media when media lives on the local filesystem.
	MediaRoot      string
	LoginRateLimit float64 // requests per second per client, zero disables
	LoginBurst     int
	Version        string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        *sqlite.Store
	services     *Services
	media        *images.Manager
	metrics      *Metrics
	loginLimiter *ratelimit.KeyedRateLimiter
	publicURL    string
	router       *chi.Mux
	api          huma.API
	logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	store *sqlite.Store,
	services *Services,
	media *images.Manager,
	metrics *Metrics,
	opts Options,
	logger *slog.Logger,
) *Server {
	s := &Server{
		store:     store,
		services:  services,
		media:     media,
		metrics:   metrics,
		publicURL: strings.TrimRight(opts.PublicURL, "/"),
		router:    chi.NewRouter(),
		logger:    logger,
	}
	if opts.LoginRateLimit > 0 {
		s.loginLimiter = ratelimit.New(opts.LoginRateLimit, opts.LoginBurst)
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("Foodgram API", versionOrDefault(opts.Version))
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"token": {
			Type:        "apiKey",
			In:          "header",
			Name:        "Authorization",
			Description: `Token issued by /api/v1/auth/token/login, sent as "Token <auth_token>"`,
		},
	}
	// Response bodies carry no $schema link.
	humaConfig.CreateHooks = nil
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler(logger)

	s.registerRoutes(opts)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	if s.loginLimiter != nil {
		s.loginLimiter.Stop()
	}
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logger.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(authMiddleware(s.services.Auth, s.logger))
}

// registerRoutes configures all HTTP routes.
func (s *Server) registerRoutes(opts Options) {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerSubscriptionRoutes()
	s.registerTagRoutes()
	s.registerIngredientRoutes()
	s.registerRecipeRoutes()
	s.registerCollectionRoutes()
	s.registerShoppingCartRoutes()
	s.registerShortLinkRoutes()

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	if opts.MediaRoot != "" {
		fs := http.StripPrefix("/media/", http.FileServer(http.Dir(opts.MediaRoot)))
		s.router.Handle("/media/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", CacheMedia)
			fs.ServeHTTP(w, r)
		}))
	}
}

func versionOrDefault(v string) string {
	if v == "" {
		return "1.0.0"
	}
	return v
}
