package organizations

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/carbon-tracker/internal/http/features/common"
	"github.com/tendant/carbon-tracker/internal/httputil"
	"github.com/tendant/carbon-tracker/pkg/domain"
	"github.com/tendant/carbon-tracker/pkg/tracker"
)

// Handler handles organization endpoints.
type Handler struct {
	logger        *slog.Logger
	organizations *tracker.OrganizationService
}

// NewHandler creates a new organizations handler.
func NewHandler(logger *slog.Logger, organizations *tracker.OrganizationService) *Handler {
	return &Handler{
		logger:        logger,
		organizations: organizations,
	}
}

// Request is the body of create and rename requests.
type Request struct {
	Name string `json:"name"`
}

// Response represents an organization with its systems resolved.
type Response struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	CreatedAt time.Time               `json:"createdAt"`
	Systems   []common.SystemResponse `json:"systems"`
}

func newResponse(org *domain.OrganizationWithSystems) Response {
	return Response{
		ID:        org.ID,
		Name:      org.Name,
		CreatedAt: org.CreatedAt,
		Systems:   common.NewSystemResponses(org.Systems),
	}
}

// Create creates an organization.
// POST /organizations
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.DecodeError(w, err)
		return
	}

	org, err := h.organizations.Create(r.Context(), req.Name)
	if err != nil {
		common.WriteError(w, h.logger, err, "failed to create organization")
		return
	}

	h.logger.Info("organization created", "organization_id", org.ID)
	httputil.JSON(w, http.StatusCreated, newResponse(org))
}

// List returns every organization.
// GET /organizations
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.organizations.ListAll(r.Context())
	if err != nil {
		common.WriteError(w, h.logger, err, "failed to list organizations")
		return
	}

	out := make([]Response, 0, len(orgs))
	for _, org := range orgs {
		out = append(out, newResponse(org))
	}
	httputil.JSON(w, http.StatusOK, out)
}

// Get returns one organization.
// GET /organizations/{orgId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	org, err := h.organizations.GetByID(r.Context(), chi.URLParam(r, "orgId"))
	if err != nil {
		common.WriteError(w, h.logger, err, "failed to fetch organization")
		return
	}
	httputil.JSON(w, http.StatusOK, newResponse(org))
}

// Update renames an organization.
// PUT /organizations/{orgId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.DecodeError(w, err)
		return
	}

	org, err := h.organizations.Rename(r.Context(), chi.URLParam(r, "orgId"), req.Name)
	if err != nil {
		common.WriteError(w, h.logger, err, "failed to update organization")
		return
	}
	httputil.JSON(w, http.StatusOK, newResponse(org))
}

// Delete removes an organization and every system it owns.
// DELETE /organizations/{orgId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.organizations.DeleteByID(r.Context(), chi.URLParam(r, "orgId")); err != nil {
		common.WriteError(w, h.logger, err, "failed to delete organization")
		return
	}
	httputil.Message(w, http.StatusOK, "organization and associated systems deleted")
}
