package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/carbon-tracker/internal/config"
	"github.com/tendant/carbon-tracker/internal/http/features/emissions"
	"github.com/tendant/carbon-tracker/internal/http/features/organizations"
	"github.com/tendant/carbon-tracker/internal/http/features/pages"
	"github.com/tendant/carbon-tracker/internal/http/features/systems"
	"github.com/tendant/carbon-tracker/internal/http/middleware"
	"github.com/tendant/carbon-tracker/internal/httputil"
	"github.com/tendant/carbon-tracker/pkg/auth"
	"github.com/tendant/carbon-tracker/pkg/repository"
	"github.com/tendant/carbon-tracker/pkg/tracker"
)

// Banner is the plain-text reply of the root route.
const Banner = "Carbon Footprint Tracker API is up and running!"

const healthCheckTimeout = 2 * time.Second

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger              *slog.Logger
	Store               repository.Store
	OrganizationService *tracker.OrganizationService
	SystemService       *tracker.SystemService
	EmissionsService    *tracker.EmissionsService
	// TokenService gates the API when set.
	TokenService    *auth.TokenService
	APIPrefix       string
	StaticDir       string
	RateLimitConfig config.RateLimitConfig
	SecurityHeaders config.SecurityHeadersConfig
	Validation      config.ValidationConfig
	CORS            config.CORSConfig
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestSizeLimit(cfg.Validation.MaxRequestBodySize))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(Banner))
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := cfg.Store.Ping(ctx); err != nil {
			cfg.Logger.Error("health check failed", "error", err)
			httputil.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	organizationsHandler := organizations.NewHandler(cfg.Logger, cfg.OrganizationService)
	systemsHandler := systems.NewHandler(cfg.Logger, cfg.SystemService)
	emissionsHandler := emissions.NewHandler(cfg.Logger, cfg.EmissionsService)

	api := func(r chi.Router) {
		r.Use(middleware.APIRateLimit(cfg.RateLimitConfig, cfg.Logger))
		if cfg.TokenService != nil {
			r.Use(middleware.Auth(cfg.TokenService))
		}

		r.Route("/organizations", func(r chi.Router) {
			r.Post("/", organizationsHandler.Create)
			r.Get("/", organizationsHandler.List)

			r.Route("/{orgId}", func(r chi.Router) {
				r.Get("/", organizationsHandler.Get)
				r.Put("/", organizationsHandler.Update)
				r.Delete("/", organizationsHandler.Delete)

				r.Post("/systems", systemsHandler.Create)
				r.Get("/systems", systemsHandler.List)
				r.Get("/systems/{systemId}", systemsHandler.Get)
				r.Put("/systems/{systemId}", systemsHandler.Update)
				r.Delete("/systems/{systemId}", systemsHandler.Delete)
			})
		})

		r.Get("/systems/{systemId}/data", emissionsHandler.GetData)
	}

	if prefix := strings.TrimSuffix(cfg.APIPrefix, "/"); prefix != "" {
		r.Route(prefix, func(r chi.Router) {
			api(r)
			r.NotFound(func(w http.ResponseWriter, r *http.Request) {
				httputil.Error(w, http.StatusNotFound, "not found")
			})
		})
	} else {
		r.Group(api)
	}

	// Dashboard (if a build directory is configured)
	if cfg.StaticDir != "" {
		pagesHandler, err := pages.NewHandler(cfg.StaticDir)
		if err != nil {
			cfg.Logger.Error("failed to load dashboard", "error", err, "static_dir", cfg.StaticDir)
		} else {
			r.NotFound(pagesHandler.ServeHTTP)
		}
	}

	return r
}
