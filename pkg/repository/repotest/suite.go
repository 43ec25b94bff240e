// Package repotest holds a contract suite every repository.Store backend
// must pass.
package repotest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/carbon-tracker/pkg/domain"
	"github.com/tendant/carbon-tracker/pkg/repository"
)

// Run exercises store against the repository contracts. newStore must
// return an empty store for each call.
func Run(t *testing.T, newStore func(t *testing.T) repository.Store) {
	t.Run("organization lifecycle", func(t *testing.T) {
		testOrganizationLifecycle(t, newStore(t))
	})
	t.Run("unknown ids are not found", func(t *testing.T) {
		testUnknownIDs(t, newStore(t))
	})
	t.Run("system lifecycle", func(t *testing.T) {
		testSystemLifecycle(t, newStore(t))
	})
	t.Run("update replaces variant", func(t *testing.T) {
		testUpdateReplacesVariant(t, newStore(t))
	})
	t.Run("delete by organization", func(t *testing.T) {
		testDeleteByOrganization(t, newStore(t))
	})
}

func testOrganizationLifecycle(t *testing.T, store repository.Store) {
	ctx := context.Background()
	orgs := store.Organizations()

	org := &domain.Organization{Name: "Acme"}
	require.NoError(t, orgs.Create(ctx, org))
	require.NotEmpty(t, org.ID)
	assert.False(t, org.CreatedAt.IsZero())

	got, err := orgs.GetByID(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Empty(t, got.SystemIDs)

	require.NoError(t, orgs.UpdateName(ctx, org.ID, "Acme Corp"))
	got, err = orgs.GetByID(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Name)

	second := &domain.Organization{Name: "Globex"}
	require.NoError(t, orgs.Create(ctx, second))

	all, err := orgs.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, orgs.AppendSystem(ctx, org.ID, newSystemID(t, store, org.ID)))
	got, err = orgs.GetByID(ctx, org.ID)
	require.NoError(t, err)
	assert.Len(t, got.SystemIDs, 1)

	require.NoError(t, orgs.Delete(ctx, org.ID))
	_, err = orgs.GetByID(ctx, org.ID)
	assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
}

func testUnknownIDs(t *testing.T, store repository.Store) {
	ctx := context.Background()

	for _, id := range []string{"", "not-an-id", "000000000000000000000000", "6f1c1f9e-8d1b-4b7a-9d43-0f7d5c1e2a3b"} {
		_, err := store.Organizations().GetByID(ctx, id)
		assert.ErrorIs(t, err, domain.ErrOrganizationNotFound, "GetByID(%q)", id)

		assert.ErrorIs(t, store.Organizations().UpdateName(ctx, id, "x"), domain.ErrOrganizationNotFound, "UpdateName(%q)", id)
		assert.ErrorIs(t, store.Organizations().Delete(ctx, id), domain.ErrOrganizationNotFound, "Delete(%q)", id)

		_, err = store.Systems().GetByID(ctx, id)
		assert.ErrorIs(t, err, domain.ErrSystemNotFound, "system GetByID(%q)", id)
		assert.ErrorIs(t, store.Systems().Delete(ctx, id), domain.ErrSystemNotFound, "system Delete(%q)", id)
	}
}

func testSystemLifecycle(t *testing.T, store repository.Store) {
	ctx := context.Background()

	org := &domain.Organization{Name: "Acme"}
	require.NoError(t, store.Organizations().Create(ctx, org))

	emissions := 12.5
	sys := &domain.System{
		Variant:        domain.Vehicle{Year: 2020, Make: "Toyota", Model: "Corolla"},
		Metrics:        domain.Metrics{Emissions: &emissions},
		OrganizationID: org.ID,
	}
	require.NoError(t, store.Systems().Create(ctx, sys))
	require.NotEmpty(t, sys.ID)

	got, err := store.Systems().GetByID(ctx, sys.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Vehicle{Year: 2020, Make: "Toyota", Model: "Corolla"}, got.Variant)
	assert.Equal(t, org.ID, got.OrganizationID)
	require.NotNil(t, got.Metrics.Emissions)
	assert.InDelta(t, 12.5, *got.Metrics.Emissions, 0.0001)
	assert.Nil(t, got.Metrics.Efficiency)

	listed, err := store.Systems().ListByOrganization(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, sys.ID, listed[0].ID)

	byIDs, err := store.Systems().GetByIDs(ctx, []string{"missing", sys.ID})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
	assert.Equal(t, sys.ID, byIDs[0].ID)

	require.NoError(t, store.Systems().Delete(ctx, sys.ID))
	_, err = store.Systems().GetByID(ctx, sys.ID)
	assert.ErrorIs(t, err, domain.ErrSystemNotFound)
	assert.ErrorIs(t, store.Systems().Delete(ctx, sys.ID), domain.ErrSystemNotFound)
}

func testUpdateReplacesVariant(t *testing.T, store repository.Store) {
	ctx := context.Background()

	org := &domain.Organization{Name: "Acme"}
	require.NoError(t, store.Organizations().Create(ctx, org))

	sys := &domain.System{
		Variant:        domain.Workflow{Name: "Shipping", Steps: "pick, pack, ship"},
		OrganizationID: org.ID,
	}
	require.NoError(t, store.Systems().Create(ctx, sys))

	recommendations := "consolidate suppliers"
	sys.Variant = domain.Vendor{Name: "Initech", Classification: "logistics"}
	sys.Metrics.Recommendations = &recommendations
	require.NoError(t, store.Systems().Update(ctx, sys))

	got, err := store.Systems().GetByID(ctx, sys.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SystemTypeVendor, got.Type())
	assert.Equal(t, domain.Vendor{Name: "Initech", Classification: "logistics"}, got.Variant)
	require.NotNil(t, got.Metrics.Recommendations)
	assert.Equal(t, recommendations, *got.Metrics.Recommendations)
	assert.Equal(t, org.ID, got.OrganizationID)
}

func testDeleteByOrganization(t *testing.T, store repository.Store) {
	ctx := context.Background()

	org := &domain.Organization{Name: "Acme"}
	require.NoError(t, store.Organizations().Create(ctx, org))
	other := &domain.Organization{Name: "Globex"}
	require.NoError(t, store.Organizations().Create(ctx, other))

	for i := 0; i < 3; i++ {
		newSystemID(t, store, org.ID)
	}
	kept := newSystemID(t, store, other.ID)

	n, err := store.Systems().DeleteByOrganization(ctx, org.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	listed, err := store.Systems().ListByOrganization(ctx, org.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = store.Systems().GetByID(ctx, kept)
	assert.NoError(t, err)

	n, err = store.Systems().DeleteByOrganization(ctx, org.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func newSystemID(t *testing.T, store repository.Store, orgID string) string {
	t.Helper()
	sys := &domain.System{
		Variant:        domain.Vendor{Name: "Initech", Classification: "logistics"},
		OrganizationID: orgID,
	}
	require.NoError(t, store.Systems().Create(context.Background(), sys))
	return sys.ID
}
