package tracker

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tendant/carbon-tracker/pkg/domain"
	"github.com/tendant/carbon-tracker/pkg/repository/memory"
)

type services struct {
	store     *memory.Store
	orgs      *OrganizationService
	systems   *SystemService
	emissions *EmissionsService
}

func newServices(t *testing.T) services {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	return services{
		store:     store,
		orgs:      NewOrganizationService(logger, store),
		systems:   NewSystemService(logger, store),
		emissions: NewEmissionsService(store),
	}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func vehicleInput(model *string) SystemInput {
	return SystemInput{
		Type: string(domain.SystemTypeVehicle),
		Fields: domain.VariantFields{
			Year:  intPtr(2020),
			Make:  strPtr("Toyota"),
			Model: model,
		},
	}
}

func mustCreateOrg(t *testing.T, s services, name string) string {
	t.Helper()
	org, err := s.orgs.Create(context.Background(), name)
	require.NoError(t, err)
	return org.ID
}
