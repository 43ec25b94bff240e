// Package carbon embeds the carbon tracker API in another Go service.
//
// Basic usage:
//
//	tracker, err := carbon.New(carbon.Config{
//	    Store: memory.NewStore(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := chi.NewRouter()
//	r.Mount("/carbon", tracker.Router())
//	http.ListenAndServe(":8080", r)
//
// With token authentication:
//
//	tracker, err := carbon.New(carbon.Config{
//	    Store:     store,
//	    JWTSecret: "your-secret-key-at-least-32-chars",
//	})
package carbon

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/tendant/carbon-tracker/internal/config"
	httpserver "github.com/tendant/carbon-tracker/internal/http"
	"github.com/tendant/carbon-tracker/internal/http/middleware"
	"github.com/tendant/carbon-tracker/pkg/auth"
	"github.com/tendant/carbon-tracker/pkg/repository"
	"github.com/tendant/carbon-tracker/pkg/tracker"
)

// Config holds the configuration for an embedded tracker.
type Config struct {
	// Store is the persistence backend (required).
	Store repository.Store

	// JWTSecret enables token authentication when set (min 32 chars).
	JWTSecret string

	// JWTIssuer is the issuer claim in tokens (default: "carbon-tracker").
	JWTIssuer string

	// AccessTokenTTL is the lifetime of issued tokens (default: 1 hour).
	AccessTokenTTL time.Duration

	// MaxRequestBodySize caps JSON bodies (default: 1 MiB).
	MaxRequestBodySize int64

	// Logger is the structured logger (default: JSON to stdout).
	Logger *slog.Logger
}

// Tracker is an embeddable carbon tracker instance.
type Tracker struct {
	config        Config
	organizations *tracker.OrganizationService
	systems       *tracker.SystemService
	emissions     *tracker.EmissionsService
	tokens        *auth.TokenService
}

// New creates a new Tracker with the given configuration.
func New(cfg Config) (*Tracker, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	t := &Tracker{
		config:        cfg,
		organizations: tracker.NewOrganizationService(cfg.Logger, cfg.Store),
		systems:       tracker.NewSystemService(cfg.Logger, cfg.Store),
		emissions:     tracker.NewEmissionsService(cfg.Store),
	}

	if cfg.JWTSecret != "" {
		tokens, err := auth.NewTokenService(auth.TokenConfig{
			Secret:         []byte(cfg.JWTSecret),
			Issuer:         cfg.JWTIssuer,
			AccessTokenTTL: cfg.AccessTokenTTL,
		})
		if err != nil {
			return nil, err
		}
		t.tokens = tokens
	}

	return t, nil
}

// Router returns a handler with every tracker route at its root.
// Mount this on your main router:
//
//	r.Mount("/carbon", tracker.Router())
//
// Routes:
//
//	GET    /                                         - Banner
//	GET    /health                                   - Store health
//	POST   /organizations                            - Create organization
//	GET    /organizations                            - List organizations
//	GET    /organizations/{orgId}                    - Get organization
//	PUT    /organizations/{orgId}                    - Rename organization
//	DELETE /organizations/{orgId}                    - Delete organization and its systems
//	POST   /organizations/{orgId}/systems            - Add system
//	GET    /organizations/{orgId}/systems            - List systems
//	GET    /organizations/{orgId}/systems/{id}       - Get system
//	PUT    /organizations/{orgId}/systems/{id}       - Update system
//	DELETE /organizations/{orgId}/systems/{id}       - Delete system
//	GET    /systems/{id}/data                        - Emissions data
//
// Rate limiting, CORS and security headers are left to the host.
func (t *Tracker) Router() http.Handler {
	return httpserver.NewRouter(httpserver.RouterConfig{
		Logger:              t.config.Logger,
		Store:               t.config.Store,
		OrganizationService: t.organizations,
		SystemService:       t.systems,
		EmissionsService:    t.emissions,
		TokenService:        t.tokens,
		Validation:          config.ValidationConfig{MaxRequestBodySize: t.config.MaxRequestBodySize},
	})
}

// Routes registers all tracker routes on an http.ServeMux with the given prefix.
//
//	mux := http.NewServeMux()
//	tracker.Routes(mux, "/api")
func (t *Tracker) Routes(mux *http.ServeMux, prefix string) {
	mux.Handle(prefix+"/", http.StripPrefix(prefix, t.Router()))
}

// Organizations returns the organization service for direct use.
func (t *Tracker) Organizations() *tracker.OrganizationService {
	return t.organizations
}

// Systems returns the system service for direct use.
func (t *Tracker) Systems() *tracker.SystemService {
	return t.systems
}

// IssueToken mints an access token for subject. It fails when
// authentication is not configured.
func (t *Tracker) IssueToken(subject string) (string, error) {
	if t.tokens == nil {
		return "", errors.New("carbon: authentication is not configured")
	}
	token, _, err := t.tokens.Issue(subject, "")
	return token, err
}

// GetSubject extracts the token subject from a request context.
// Only set when authentication is configured.
func GetSubject(ctx context.Context) (string, bool) {
	return middleware.GetSubject(ctx)
}

func validateConfig(cfg *Config) error {
	if cfg.Store == nil {
		return errors.New("carbon: Store is required")
	}
	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < 32 {
		return errors.New("carbon: JWTSecret must be at least 32 characters")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "carbon-tracker"
	}
	if cfg.AccessTokenTTL == 0 {
		cfg.AccessTokenTTL = auth.DefaultAccessTokenTTL
	}
	if cfg.MaxRequestBodySize == 0 {
		cfg.MaxRequestBodySize = 1 << 20
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
}
