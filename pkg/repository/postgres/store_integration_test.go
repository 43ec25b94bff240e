//go:build integration

package postgres

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tendant/carbon-tracker/pkg/repository"
	"github.com/tendant/carbon-tracker/pkg/repository/repotest"
)

func setupPostgresContainer(t *testing.T, ctx context.Context) Config {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	return Config{
		Host:     host,
		Port:     portNum,
		User:     "test",
		Password: "test",
		DBName:   "testdb",
		SSLMode:  "disable",
	}
}

func TestIntegration_Store(t *testing.T) {
	ctx := context.Background()
	cfg := setupPostgresContainer(t, ctx)

	repotest.Run(t, func(t *testing.T) repository.Store {
		db, err := NewDB(cfg)
		require.NoError(t, err)

		store, err := NewStore(ctx, db, true)
		require.NoError(t, err)

		_, err = db.ExecContext(ctx, `TRUNCATE organizations, systems`)
		require.NoError(t, err)

		t.Cleanup(func() { _ = store.Close(ctx) })
		return store
	})
}

func TestIntegration_NewStoreWithoutMigration(t *testing.T) {
	ctx := context.Background()
	cfg := setupPostgresContainer(t, ctx)

	db, err := NewDB(cfg)
	require.NoError(t, err)
	defer db.Close()

	_, err = NewStore(ctx, db, false)
	require.Error(t, err)

	require.NoError(t, Migrate(ctx, db))
	_, err = NewStore(ctx, db, false)
	require.NoError(t, err)
}
