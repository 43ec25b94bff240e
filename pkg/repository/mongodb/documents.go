package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tendant/carbon-tracker/pkg/domain"
)

type organizationDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Name      string               `bson:"name"`
	CreatedAt time.Time            `bson:"createdAt"`
	Systems   []primitive.ObjectID `bson:"systems"`
}

func (d *organizationDocument) toDomain() *domain.Organization {
	ids := make([]string, 0, len(d.Systems))
	for _, id := range d.Systems {
		ids = append(ids, id.Hex())
	}
	return &domain.Organization{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		SystemIDs: ids,
	}
}

type workflowDocument struct {
	Name     string `bson:"name"`
	Workflow string `bson:"workflow"`
}

type vendorDocument struct {
	Name           string `bson:"name"`
	Classification string `bson:"classification"`
}

type vehicleDocument struct {
	Year  int    `bson:"year"`
	Make  string `bson:"make"`
	Model string `bson:"model"`
}

// systemDocument stores the variant as an embedded sub-document keyed by
// its discriminator; the other two keys are absent.
type systemDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Type            string             `bson:"type"`
	WorkflowSystem  *workflowDocument  `bson:"workflowSystem,omitempty"`
	VendorSystem    *vendorDocument    `bson:"vendorSystem,omitempty"`
	VehicleSystem   *vehicleDocument   `bson:"vehicleSystem,omitempty"`
	Emissions       *float64           `bson:"emissions,omitempty"`
	Efficiency      *float64           `bson:"efficiency,omitempty"`
	Recommendations *string            `bson:"recommendations,omitempty"`
	Organization    primitive.ObjectID `bson:"organization"`
	CreatedAt       time.Time          `bson:"createdAt"`
}

func newSystemDocument(sys *domain.System, orgID primitive.ObjectID) (*systemDocument, error) {
	doc := &systemDocument{
		Emissions:       sys.Metrics.Emissions,
		Efficiency:      sys.Metrics.Efficiency,
		Recommendations: sys.Metrics.Recommendations,
		Organization:    orgID,
		CreatedAt:       sys.CreatedAt,
	}

	switch v := sys.Variant.(type) {
	case domain.Workflow:
		doc.WorkflowSystem = &workflowDocument{Name: v.Name, Workflow: v.Steps}
	case domain.Vendor:
		doc.VendorSystem = &vendorDocument{Name: v.Name, Classification: v.Classification}
	case domain.Vehicle:
		doc.VehicleSystem = &vehicleDocument{Year: v.Year, Make: v.Make, Model: v.Model}
	default:
		return nil, fmt.Errorf("unsupported variant %T", v)
	}
	doc.Type = string(sys.Variant.SystemType())

	return doc, nil
}

func (d *systemDocument) toDomain() (*domain.System, error) {
	sys := &domain.System{
		ID: d.ID.Hex(),
		Metrics: domain.Metrics{
			Emissions:       d.Emissions,
			Efficiency:      d.Efficiency,
			Recommendations: d.Recommendations,
		},
		OrganizationID: d.Organization.Hex(),
		CreatedAt:      d.CreatedAt,
	}

	// A sub-document may be missing on records written by older clients;
	// the zero variant is kept so normalization can mark its fields.
	switch domain.SystemType(d.Type) {
	case domain.SystemTypeWorkflow:
		v := domain.Workflow{}
		if d.WorkflowSystem != nil {
			v = domain.Workflow{Name: d.WorkflowSystem.Name, Steps: d.WorkflowSystem.Workflow}
		}
		sys.Variant = v
	case domain.SystemTypeVendor:
		v := domain.Vendor{}
		if d.VendorSystem != nil {
			v = domain.Vendor{Name: d.VendorSystem.Name, Classification: d.VendorSystem.Classification}
		}
		sys.Variant = v
	case domain.SystemTypeVehicle:
		v := domain.Vehicle{}
		if d.VehicleSystem != nil {
			v = domain.Vehicle{Year: d.VehicleSystem.Year, Make: d.VehicleSystem.Make, Model: d.VehicleSystem.Model}
		}
		sys.Variant = v
	default:
		return nil, fmt.Errorf("unknown system type %q", d.Type)
	}

	return sys, nil
}
