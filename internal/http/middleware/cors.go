package middleware

import (
	"net/http"

	"github.com/rs/cors"
	"github.com/tendant/carbon-tracker/internal/config"
)

// CORS creates middleware that answers cross-origin requests from the
// configured browser origins. No origins disables it.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	if len(cfg.AllowedOrigins) == 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization", TokenHeader},
		MaxAge:         300,
	})
	return c.Handler
}
