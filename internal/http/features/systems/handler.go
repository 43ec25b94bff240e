package systems

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/carbon-tracker/internal/http/features/common"
	"github.com/tendant/carbon-tracker/internal/httputil"
	"github.com/tendant/carbon-tracker/pkg/domain"
	"github.com/tendant/carbon-tracker/pkg/tracker"
)

// Handler handles the systems of an organization.
type Handler struct {
	logger  *slog.Logger
	systems *tracker.SystemService
}

// NewHandler creates a new systems handler.
func NewHandler(logger *slog.Logger, systems *tracker.SystemService) *Handler {
	return &Handler{
		logger:  logger,
		systems: systems,
	}
}

// Request carries the discriminator, the flat variant fields and, on
// update, the optional metrics.
type Request struct {
	Type           string  `json:"type"`
	Name           *string `json:"name,omitempty"`
	Workflow       *string `json:"workflow,omitempty"`
	Classification *string `json:"classification,omitempty"`
	Year           *int    `json:"year,omitempty"`
	Make           *string `json:"make,omitempty"`
	Model          *string `json:"model,omitempty"`

	Emissions       *float64 `json:"emissions,omitempty"`
	Efficiency      *float64 `json:"efficiency,omitempty"`
	Recommendations *string  `json:"recommendations,omitempty"`
}

func (req Request) input() tracker.SystemInput {
	return tracker.SystemInput{
		Type: req.Type,
		Fields: domain.VariantFields{
			Name:           req.Name,
			Workflow:       req.Workflow,
			Classification: req.Classification,
			Year:           req.Year,
			Make:           req.Make,
			Model:          req.Model,
		},
		Metrics: domain.Metrics{
			Emissions:       req.Emissions,
			Efficiency:      req.Efficiency,
			Recommendations: req.Recommendations,
		},
	}
}

// Create adds a system to an organization.
// POST /organizations/{orgId}/systems
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.DecodeError(w, err)
		return
	}

	orgID := chi.URLParam(r, "orgId")
	sys, err := h.systems.AddToOrganization(r.Context(), orgID, req.input())
	if err != nil {
		common.WriteError(w, h.logger, err, "failed to add system")
		return
	}

	h.logger.Info("system created", "organization_id", orgID, "system_id", sys.ID, "type", sys.Type())
	httputil.JSON(w, http.StatusCreated, common.NewSystemResponse(sys))
}

// List returns the systems of an organization.
// GET /organizations/{orgId}/systems
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	systems, err := h.systems.ListByOrganization(r.Context(), chi.URLParam(r, "orgId"))
	if err != nil {
		common.WriteError(w, h.logger, err, "failed to list systems")
		return
	}
	httputil.JSON(w, http.StatusOK, common.NewSystemResponses(systems))
}

// Get returns one system of an organization.
// GET /organizations/{orgId}/systems/{systemId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sys, err := h.systems.Get(r.Context(), chi.URLParam(r, "orgId"), chi.URLParam(r, "systemId"))
	if err != nil {
		common.WriteError(w, h.logger, err, "failed to fetch system")
		return
	}
	httputil.JSON(w, http.StatusOK, common.NewSystemResponse(sys))
}

// Update replaces the variant of a system and applies supplied metrics.
// PUT /organizations/{orgId}/systems/{systemId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.DecodeError(w, err)
		return
	}

	sys, err := h.systems.Update(r.Context(), chi.URLParam(r, "orgId"), chi.URLParam(r, "systemId"), req.input())
	if err != nil {
		common.WriteError(w, h.logger, err, "failed to update system")
		return
	}
	httputil.JSON(w, http.StatusOK, common.NewSystemResponse(sys))
}

// Delete removes a system.
// DELETE /organizations/{orgId}/systems/{systemId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.systems.Delete(r.Context(), chi.URLParam(r, "orgId"), chi.URLParam(r, "systemId")); err != nil {
		common.WriteError(w, h.logger, err, "failed to delete system")
		return
	}
	httputil.Message(w, http.StatusOK, "system deleted")
}
