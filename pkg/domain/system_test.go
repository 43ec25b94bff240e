package domain

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func TestBuildVariant(t *testing.T) {
	tests := []struct {
		name       string
		systemType string
		fields     VariantFields
		want       Variant
		wantField  string
	}{
		{
			name:       "workflow",
			systemType: "workflowSystem",
			fields:     VariantFields{Name: strPtr("Shipping"), Workflow: strPtr("pick, pack")},
			want:       Workflow{Name: "Shipping", Steps: "pick, pack"},
		},
		{
			name:       "vendor trims values",
			systemType: " vendorSystem ",
			fields:     VariantFields{Name: strPtr(" Initech "), Classification: strPtr("logistics")},
			want:       Vendor{Name: "Initech", Classification: "logistics"},
		},
		{
			name:       "vehicle",
			systemType: "vehicleSystem",
			fields:     VariantFields{Year: intPtr(2020), Make: strPtr("Toyota"), Model: strPtr("Corolla")},
			want:       Vehicle{Year: 2020, Make: "Toyota", Model: "Corolla"},
		},
		{
			name:       "vehicle missing model",
			systemType: "vehicleSystem",
			fields:     VariantFields{Year: intPtr(2020), Make: strPtr("Toyota")},
			wantField:  "model",
		},
		{
			name:       "vehicle missing year",
			systemType: "vehicleSystem",
			fields:     VariantFields{Make: strPtr("Toyota"), Model: strPtr("Corolla")},
			wantField:  "year",
		},
		{
			name:       "vendor blank classification",
			systemType: "vendorSystem",
			fields:     VariantFields{Name: strPtr("Initech"), Classification: strPtr("   ")},
			wantField:  "classification",
		},
		{
			name:       "unknown type",
			systemType: "Supply Chain",
			wantField:  "type",
		},
		{
			name:      "empty type",
			wantField: "type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildVariant(tt.systemType, tt.fields)
			if tt.wantField != "" {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("BuildVariant() error = %v, want ValidationError", err)
				}
				if verr.Field != tt.wantField {
					t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
				}
				if !IsValidation(err) {
					t.Error("IsValidation() = false, want true")
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildVariant() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildVariant() = %#v, want %#v", got, tt.want)
			}
			if got.SystemType() != tt.want.SystemType() {
				t.Errorf("SystemType() = %q, want %q", got.SystemType(), tt.want.SystemType())
			}
		})
	}
}

func TestSystemTypeValid(t *testing.T) {
	for _, st := range SystemTypes {
		if !st.Valid() {
			t.Errorf("%q.Valid() = false", st)
		}
	}
	if SystemType("Vehicles").Valid() {
		t.Error(`"Vehicles".Valid() = true`)
	}
}

func TestSystemNormalized(t *testing.T) {
	sys := &System{Variant: Vehicle{Year: 2019}}

	got := sys.Normalized()

	want := Vehicle{Year: 2019, Make: NotAvailable, Model: NotAvailable}
	if got.Variant != want {
		t.Errorf("Variant = %#v, want %#v", got.Variant, want)
	}
	if got.Metrics.Recommendations == nil || *got.Metrics.Recommendations != NotAvailable {
		t.Errorf("Recommendations = %v, want %q", got.Metrics.Recommendations, NotAvailable)
	}
	if got.Metrics.Emissions != nil {
		t.Errorf("Emissions = %v, want nil", *got.Metrics.Emissions)
	}
	if sys.Variant != (Vehicle{Year: 2019}) || sys.Metrics.Recommendations != nil {
		t.Error("Normalized() modified the receiver")
	}
}

func TestMetricsApply(t *testing.T) {
	e1, e2, eff := 1.0, 2.0, 50.0
	m := Metrics{Emissions: &e1, Recommendations: strPtr("keep")}

	got := m.Apply(Metrics{Emissions: &e2, Efficiency: &eff})

	if *got.Emissions != 2 {
		t.Errorf("Emissions = %v, want 2", *got.Emissions)
	}
	if *got.Efficiency != 50 {
		t.Errorf("Efficiency = %v, want 50", *got.Efficiency)
	}
	if *got.Recommendations != "keep" {
		t.Errorf("Recommendations = %q, want keep", *got.Recommendations)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	if !IsNotFound(ErrOrganizationNotFound) || !IsNotFound(ErrSystemNotFound) {
		t.Error("lookup errors should match ErrNotFound")
	}
	if IsNotFound(NewValidationError("name", "name is required")) {
		t.Error("validation error should not match ErrNotFound")
	}
	if IsValidation(ErrSystemNotFound) {
		t.Error("not found should not match ErrValidation")
	}
	if ErrOrganizationNotFound.Error() != "organization not found" {
		t.Errorf("Error() = %q", ErrOrganizationNotFound.Error())
	}
}
