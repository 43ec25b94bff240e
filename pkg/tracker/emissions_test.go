package tracker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/carbon-tracker/pkg/domain"
)

func TestEmissionsService_GetDataRanges(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	orgID := mustCreateOrg(t, s, "Acme")

	sys, err := s.systems.AddToOrganization(ctx, orgID, vehicleInput(strPtr("Corolla")))
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		data, err := s.emissions.GetData(ctx, sys.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, data.Emissions, 0)
		assert.Less(t, data.Emissions, 100)
		assert.GreaterOrEqual(t, data.Efficiency, 0)
		assert.Less(t, data.Efficiency, 100)
		assert.True(t, strings.Contains(data.Recommendations, "vehicleSystem"))
	}
}

func TestEmissionsService_UnknownSystem(t *testing.T) {
	s := newServices(t)

	_, err := s.emissions.GetData(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSystemNotFound)
}

func TestEstimate_UsesRandomSource(t *testing.T) {
	calls := 0
	intn := func(n int) int {
		calls++
		assert.Equal(t, 100, n)
		return 99
	}

	data := Estimate(domain.SystemTypeVendor, intn)
	assert.Equal(t, 2, calls)
	assert.Equal(t, EmissionsData{
		Emissions:       99,
		Efficiency:      99,
		Recommendations: "Consider optimizing your vendorSystem to reduce emissions.",
	}, data)
}
