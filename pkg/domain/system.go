package domain

import (
	"strings"
	"time"
)

// SystemType discriminates the variant payload of a System.
type SystemType string

const (
	SystemTypeWorkflow SystemType = "workflowSystem"
	SystemTypeVendor   SystemType = "vendorSystem"
	SystemTypeVehicle  SystemType = "vehicleSystem"
)

// NotAvailable marks a text field that has no stored value.
const NotAvailable = "N/A"

// SystemTypes lists the recognized discriminators.
var SystemTypes = []SystemType{SystemTypeWorkflow, SystemTypeVendor, SystemTypeVehicle}

// Valid reports whether t is a recognized discriminator.
func (t SystemType) Valid() bool {
	switch t {
	case SystemTypeWorkflow, SystemTypeVendor, SystemTypeVehicle:
		return true
	}
	return false
}

// Variant is the type-specific payload of a System. The only
// implementations are Workflow, Vendor and Vehicle.
type Variant interface {
	SystemType() SystemType
	// Validate checks that every required sub-field is present.
	Validate() error
	normalized() Variant
}

// Workflow describes an internal process.
type Workflow struct {
	Name  string
	Steps string
}

func (Workflow) SystemType() SystemType { return SystemTypeWorkflow }

func (w Workflow) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return NewValidationError("name", "name is required for workflowSystem")
	}
	if strings.TrimSpace(w.Steps) == "" {
		return NewValidationError("workflow", "workflow is required for workflowSystem")
	}
	return nil
}

func (w Workflow) normalized() Variant {
	return Workflow{Name: orNotAvailable(w.Name), Steps: orNotAvailable(w.Steps)}
}

// Vendor describes a supplier relationship.
type Vendor struct {
	Name           string
	Classification string
}

func (Vendor) SystemType() SystemType { return SystemTypeVendor }

func (v Vendor) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return NewValidationError("name", "name is required for vendorSystem")
	}
	if strings.TrimSpace(v.Classification) == "" {
		return NewValidationError("classification", "classification is required for vendorSystem")
	}
	return nil
}

func (v Vendor) normalized() Variant {
	return Vendor{Name: orNotAvailable(v.Name), Classification: orNotAvailable(v.Classification)}
}

// Vehicle describes a fleet vehicle.
type Vehicle struct {
	Year  int
	Make  string
	Model string
}

func (Vehicle) SystemType() SystemType { return SystemTypeVehicle }

func (v Vehicle) Validate() error {
	if v.Year <= 0 {
		return NewValidationError("year", "year is required for vehicleSystem")
	}
	if strings.TrimSpace(v.Make) == "" {
		return NewValidationError("make", "make is required for vehicleSystem")
	}
	if strings.TrimSpace(v.Model) == "" {
		return NewValidationError("model", "model is required for vehicleSystem")
	}
	return nil
}

func (v Vehicle) normalized() Variant {
	return Vehicle{Year: v.Year, Make: orNotAvailable(v.Make), Model: orNotAvailable(v.Model)}
}

// VariantFields carries the flat, untyped variant fields of a request.
// Nil means the field was not supplied.
type VariantFields struct {
	Name           *string
	Workflow       *string
	Classification *string
	Year           *int
	Make           *string
	Model          *string
}

// BuildVariant selects the variant named by systemType and fills it from
// fields. Fields that belong to other variants are ignored.
func BuildVariant(systemType string, fields VariantFields) (Variant, error) {
	t := SystemType(strings.TrimSpace(systemType))
	if t == "" {
		return nil, NewValidationError("type", "type is required")
	}

	var v Variant
	switch t {
	case SystemTypeWorkflow:
		v = Workflow{Name: deref(fields.Name), Steps: deref(fields.Workflow)}
	case SystemTypeVendor:
		v = Vendor{Name: deref(fields.Name), Classification: deref(fields.Classification)}
	case SystemTypeVehicle:
		year := 0
		if fields.Year != nil {
			year = *fields.Year
		}
		v = Vehicle{Year: year, Make: deref(fields.Make), Model: deref(fields.Model)}
	default:
		return nil, NewValidationError("type", "unrecognized system type: "+string(t))
	}

	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// Metrics holds the optional emissions figures of a System.
type Metrics struct {
	Emissions       *float64
	Efficiency      *float64
	Recommendations *string
}

// Apply overwrites the fields of m that are set in update.
func (m Metrics) Apply(update Metrics) Metrics {
	if update.Emissions != nil {
		m.Emissions = update.Emissions
	}
	if update.Efficiency != nil {
		m.Efficiency = update.Efficiency
	}
	if update.Recommendations != nil {
		m.Recommendations = update.Recommendations
	}
	return m
}

// System is a tracked workflow, vendor relationship or vehicle owned by
// exactly one Organization.
type System struct {
	ID             string
	Variant        Variant
	Metrics        Metrics
	OrganizationID string
	CreatedAt      time.Time
}

// Type returns the discriminator of the populated variant.
func (s *System) Type() SystemType {
	if s.Variant == nil {
		return ""
	}
	return s.Variant.SystemType()
}

// Normalized returns a copy of s where absent text fields read NotAvailable.
// Numeric metrics stay nil.
func (s *System) Normalized() *System {
	out := *s
	if s.Variant != nil {
		out.Variant = s.Variant.normalized()
	}
	if out.Metrics.Recommendations == nil || *out.Metrics.Recommendations == "" {
		na := NotAvailable
		out.Metrics.Recommendations = &na
	}
	return &out
}

func orNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
