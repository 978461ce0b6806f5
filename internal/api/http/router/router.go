package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dtroode/auth-service/internal/api/http/handler"
	"github.com/dtroode/auth-service/internal/api/http/middleware"
	"github.com/dtroode/auth-service/internal/api/http/render"
	"github.com/dtroode/auth-service/internal/logger"
	"github.com/dtroode/auth-service/internal/model"
)

// MetricsExporter observes requests and serves the scrape endpoint.
type MetricsExporter interface {
	middleware.RequestObserver
	Handler() http.Handler
}

// Options configures the HTTP surface around the API routes.
type Options struct {
	Version          string
	AllowedOrigins   []string
	AllowCredentials bool
	// Metrics enables request metrics and GET /metrics when set.
	Metrics MetricsExporter
}

// Router builds the HTTP API.
type Router struct {
	authService    handler.AuthService
	authenticator  middleware.Authenticator
	contextManager model.ContextManager
	pinger         model.Pinger
	opts           Options
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
func New(
	authService handler.AuthService,
	authenticator middleware.Authenticator,
	contextManager model.ContextManager,
	pinger model.Pinger,
	opts Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		authenticator:  authenticator,
		contextManager: contextManager,
		pinger:         pinger,
		opts:           opts,
		logger:         logger,
	}
}

// Register mounts all routes and middleware and returns the root handler.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	recovery := middleware.NewRecovery(r.logger)
	authenticate := middleware.NewAuthenticate(r.authenticator, r.contextManager, r.logger)

	health := handler.NewHealth(r.pinger, r.opts.Version, r.logger)
	auth := handler.NewAuth(r.authService, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID, chimw.RealIP, cors.Handler(cors.Options{
		AllowedOrigins:   r.opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: r.opts.AllowCredentials,
	}))
	if r.opts.Metrics != nil {
		mux.Use(middleware.NewMetrics(r.opts.Metrics).Handle)
	}
	mux.Use(logging.Handle, recovery.Handle)

	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		render.Status(w, r.logger, http.StatusNotFound, "not found")
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		render.Status(w, r.logger, http.StatusMethodNotAllowed, "method not allowed")
	})

	mux.Get("/", health.Index)
	mux.Get("/health", health.Health)
	if r.opts.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", r.opts.Metrics.Handler())
	}

	mux.Route("/api/v1/auth", func(ar chi.Router) {
		ar.Post("/register", auth.Register)
		ar.Post("/login", auth.Login)
		ar.Post("/refresh", auth.Refresh)

		ar.Group(func(pr chi.Router) {
			pr.Use(authenticate.Handle)
			pr.Get("/me", auth.Me)
			pr.Post("/change-password", auth.ChangePassword)
			pr.Put("/profile", auth.UpdateProfile)
			pr.Post("/logout", auth.Logout)
		})
	})

	return mux
}
