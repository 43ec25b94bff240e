package tracker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/carbon-tracker/pkg/domain"
)

func TestSystemService_AddToUnknownOrganization(t *testing.T) {
	s := newServices(t)

	_, err := s.systems.AddToOrganization(context.Background(), "missing", vehicleInput(strPtr("Corolla")))
	assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
}

func TestSystemService_AddValidatesVariant(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	orgID := mustCreateOrg(t, s, "Acme")

	tests := []struct {
		name  string
		input SystemInput
		field string
	}{
		{
			name:  "missing type",
			input: SystemInput{Fields: domain.VariantFields{Name: strPtr("x")}},
			field: "type",
		},
		{
			name:  "unknown type",
			input: SystemInput{Type: "boatSystem"},
			field: "type",
		},
		{
			name:  "vehicle without model",
			input: vehicleInput(nil),
			field: "model",
		},
		{
			name: "workflow without steps",
			input: SystemInput{
				Type:   string(domain.SystemTypeWorkflow),
				Fields: domain.VariantFields{Name: strPtr("Shipping")},
			},
			field: "workflow",
		},
		{
			name: "vendor with fields of another variant",
			input: SystemInput{
				Type:   string(domain.SystemTypeVendor),
				Fields: domain.VariantFields{Name: strPtr("Initech"), Workflow: strPtr("steps")},
			},
			field: "classification",
		},
		{
			name: "negative emissions",
			input: SystemInput{
				Type:    string(domain.SystemTypeVendor),
				Fields:  domain.VariantFields{Name: strPtr("Initech"), Classification: strPtr("logistics")},
				Metrics: domain.Metrics{Emissions: floatPtr(-1)},
			},
			field: "emissions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.systems.AddToOrganization(ctx, orgID, tt.input)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	listed, err := s.systems.ListByOrganization(ctx, orgID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSystemService_AddThenListOnce(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	orgID := mustCreateOrg(t, s, "Acme")

	sys, err := s.systems.AddToOrganization(ctx, orgID, vehicleInput(strPtr("Corolla")))
	require.NoError(t, err)
	assert.Equal(t, orgID, sys.OrganizationID)
	assert.Equal(t, domain.SystemTypeVehicle, sys.Type())

	listed, err := s.systems.ListByOrganization(ctx, orgID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, sys.ID, listed[0].ID)
	assert.Equal(t, domain.Vehicle{Year: 2020, Make: "Toyota", Model: "Corolla"}, listed[0].Variant)

	org, err := s.orgs.GetByID(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, []string{sys.ID}, org.SystemIDs)
}

func TestSystemService_ListNormalizesMissingFields(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	orgID := mustCreateOrg(t, s, "Acme")

	// Records written before variant validation existed may be incomplete.
	legacy := &domain.System{
		Variant:        domain.Workflow{Name: "Shipping"},
		OrganizationID: orgID,
	}
	require.NoError(t, s.store.Systems().Create(ctx, legacy))

	listed, err := s.systems.ListByOrganization(ctx, orgID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, domain.Workflow{Name: "Shipping", Steps: domain.NotAvailable}, listed[0].Variant)
	require.NotNil(t, listed[0].Metrics.Recommendations)
	assert.Equal(t, domain.NotAvailable, *listed[0].Metrics.Recommendations)
	assert.Nil(t, listed[0].Metrics.Emissions)

	stored, err := s.store.Systems().GetByID(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Workflow{Name: "Shipping"}, stored.Variant)
}

func TestSystemService_UpdateReplacesVariant(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	orgID := mustCreateOrg(t, s, "Acme")

	sys, err := s.systems.AddToOrganization(ctx, orgID, SystemInput{
		Type:    string(domain.SystemTypeWorkflow),
		Fields:  domain.VariantFields{Name: strPtr("Shipping"), Workflow: strPtr("pick, pack, ship")},
		Metrics: domain.Metrics{Emissions: floatPtr(40)},
	})
	require.NoError(t, err)

	updated, err := s.systems.Update(ctx, orgID, sys.ID, SystemInput{
		Type: string(domain.SystemTypeVendor),
		Fields: domain.VariantFields{
			Name:           strPtr("Initech"),
			Classification: strPtr("logistics"),
			Workflow:       strPtr("ignored"),
		},
		Metrics: domain.Metrics{Efficiency: floatPtr(75)},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Vendor{Name: "Initech", Classification: "logistics"}, updated.Variant)

	got, err := s.systems.Get(ctx, orgID, sys.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SystemTypeVendor, got.Type())
	_, isWorkflow := got.Variant.(domain.Workflow)
	assert.False(t, isWorkflow)
	require.NotNil(t, got.Metrics.Emissions)
	assert.Equal(t, 40.0, *got.Metrics.Emissions)
	require.NotNil(t, got.Metrics.Efficiency)
	assert.Equal(t, 75.0, *got.Metrics.Efficiency)
}

func TestSystemService_UpdateErrors(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	acme := mustCreateOrg(t, s, "Acme")
	globex := mustCreateOrg(t, s, "Globex")

	sys, err := s.systems.AddToOrganization(ctx, acme, vehicleInput(strPtr("Corolla")))
	require.NoError(t, err)

	_, err = s.systems.Update(ctx, acme, "missing", vehicleInput(strPtr("Camry")))
	assert.ErrorIs(t, err, domain.ErrSystemNotFound)

	_, err = s.systems.Update(ctx, globex, sys.ID, vehicleInput(strPtr("Camry")))
	assert.ErrorIs(t, err, domain.ErrSystemNotFound)

	_, err = s.systems.Update(ctx, acme, sys.ID, vehicleInput(nil))
	assert.True(t, domain.IsValidation(err))

	got, err := s.systems.Get(ctx, acme, sys.ID)
	require.NoError(t, err)
	assert.Equal(t, "Corolla", got.Variant.(domain.Vehicle).Model)
}

func TestSystemService_Delete(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	orgID := mustCreateOrg(t, s, "Acme")

	sys, err := s.systems.AddToOrganization(ctx, orgID, vehicleInput(strPtr("Corolla")))
	require.NoError(t, err)

	require.NoError(t, s.systems.Delete(ctx, orgID, sys.ID))
	assert.ErrorIs(t, s.systems.Delete(ctx, orgID, sys.ID), domain.ErrSystemNotFound)

	_, err = s.systems.Get(ctx, orgID, sys.ID)
	assert.ErrorIs(t, err, domain.ErrSystemNotFound)
}
