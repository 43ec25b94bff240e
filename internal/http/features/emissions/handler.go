package emissions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/carbon-tracker/internal/http/features/common"
	"github.com/tendant/carbon-tracker/internal/httputil"
	"github.com/tendant/carbon-tracker/pkg/tracker"
)

// Handler serves placeholder emissions figures.
type Handler struct {
	logger    *slog.Logger
	emissions *tracker.EmissionsService
}

// NewHandler creates a new emissions handler.
func NewHandler(logger *slog.Logger, emissions *tracker.EmissionsService) *Handler {
	return &Handler{
		logger:    logger,
		emissions: emissions,
	}
}

// Response is the emissions payload read by the dashboard.
type Response struct {
	Emissions       int    `json:"emissions"`
	Efficiency      int    `json:"efficiency"`
	Recommendations string `json:"recommendations"`
}

// GetData returns emissions figures for a system.
// GET /systems/{systemId}/data
func (h *Handler) GetData(w http.ResponseWriter, r *http.Request) {
	data, err := h.emissions.GetData(r.Context(), chi.URLParam(r, "systemId"))
	if err != nil {
		common.WriteError(w, h.logger, err, "failed to fetch emissions data")
		return
	}

	httputil.JSON(w, http.StatusOK, Response{
		Emissions:       data.Emissions,
		Efficiency:      data.Efficiency,
		Recommendations: data.Recommendations,
	})
}
