// Package common holds the response mapping shared by the feature handlers.
package common

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tendant/carbon-tracker/internal/httputil"
	"github.com/tendant/carbon-tracker/pkg/domain"
)

// WriteError maps a service error onto the HTTP error taxonomy. Store
// failures are logged and answered with fallback, never with the cause.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	switch {
	case domain.IsValidation(err):
		httputil.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrOrganizationNotFound):
		httputil.Error(w, http.StatusNotFound, "organization not found")
	case errors.Is(err, domain.ErrSystemNotFound):
		httputil.Error(w, http.StatusNotFound, "system not found")
	case domain.IsNotFound(err):
		httputil.Error(w, http.StatusNotFound, "not found")
	default:
		logger.Error(fallback, "error", err)
		httputil.Error(w, http.StatusInternalServerError, fallback)
	}
}
