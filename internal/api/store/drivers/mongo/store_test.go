package mongo_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/api/store"
	"github.com/aussiebroadwan/taskboard/internal/api/store/drivers/mongo"
	"github.com/aussiebroadwan/taskboard/internal/api/store/storetest"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startMongo runs a throwaway mongod and returns its connection URI.
func startMongo(t *testing.T) string {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor: wait.ForLog("Waiting for connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	return fmt.Sprintf("mongodb://%s:%s", host, port.Port())
}

func TestStore(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	uri := startMongo(t)

	storetest.Run(t, func(t *testing.T) store.Store {
		ctx := context.Background()

		// One database per subtest keeps them independent.
		db := "taskboard_" + strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
		s, err := mongo.NewStore(ctx, uri, db)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close(context.Background()) })

		require.NoError(t, s.ApplyMigrations(ctx))
		require.NoError(t, s.ApplyMigrations(ctx))
		return s
	})
}
