package common

import (
	"time"

	"github.com/tendant/carbon-tracker/pkg/domain"
)

// WorkflowResponse is the workflowSystem payload.
type WorkflowResponse struct {
	Name     string `json:"name"`
	Workflow string `json:"workflow"`
}

// VendorResponse is the vendorSystem payload.
type VendorResponse struct {
	Name           string `json:"name"`
	Classification string `json:"classification"`
}

// VehicleResponse is the vehicleSystem payload.
type VehicleResponse struct {
	Year  int    `json:"year"`
	Make  string `json:"make"`
	Model string `json:"model"`
}

// SystemResponse is the wire form of a System. Exactly one variant key is
// present, named after Type. Unset metrics serialize as null.
type SystemResponse struct {
	ID              string            `json:"id"`
	Type            string            `json:"type"`
	WorkflowSystem  *WorkflowResponse `json:"workflowSystem,omitempty"`
	VendorSystem    *VendorResponse   `json:"vendorSystem,omitempty"`
	VehicleSystem   *VehicleResponse  `json:"vehicleSystem,omitempty"`
	Emissions       *float64          `json:"emissions"`
	Efficiency      *float64          `json:"efficiency"`
	Recommendations *string           `json:"recommendations"`
	Organization    string            `json:"organization"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// NewSystemResponse converts a System to its wire form.
func NewSystemResponse(sys *domain.System) SystemResponse {
	resp := SystemResponse{
		ID:              sys.ID,
		Type:            string(sys.Type()),
		Emissions:       sys.Metrics.Emissions,
		Efficiency:      sys.Metrics.Efficiency,
		Recommendations: sys.Metrics.Recommendations,
		Organization:    sys.OrganizationID,
		CreatedAt:       sys.CreatedAt,
	}

	switch v := sys.Variant.(type) {
	case domain.Workflow:
		resp.WorkflowSystem = &WorkflowResponse{Name: v.Name, Workflow: v.Steps}
	case domain.Vendor:
		resp.VendorSystem = &VendorResponse{Name: v.Name, Classification: v.Classification}
	case domain.Vehicle:
		resp.VehicleSystem = &VehicleResponse{Year: v.Year, Make: v.Make, Model: v.Model}
	}
	return resp
}

// NewSystemResponses converts a list of Systems, never returning nil.
func NewSystemResponses(systems []*domain.System) []SystemResponse {
	out := make([]SystemResponse, 0, len(systems))
	for _, sys := range systems {
		out = append(out, NewSystemResponse(sys))
	}
	return out
}
