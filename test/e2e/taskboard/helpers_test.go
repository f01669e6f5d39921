package taskboard_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/api/app"
	"github.com/aussiebroadwan/taskboard/pkg/taskboardsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for taskboard end-to-end tests.
 * The API runs in-process behind httptest; Mongo runs in a container.
 */

const (
	mongoImage = "mongo:7"

	adminEmail    = "admin@example.com"
	adminPassword = "Admin123!"
	userPassword  = "User123!"
)

// drivers lists the store backends every flow runs against.
var drivers = []string{app.DriverSQLite, app.DriverMongo}

// relaxRateLimits raises the strict and lenient profiles so flows that make
// many rapid requests don't trip them.
func relaxRateLimits(t *testing.T) {
	t.Helper()
	for _, profile := range []string{"STRICT", "LENIENT"} {
		t.Setenv("RATELIMIT_"+profile+"_REQUESTS", "1000")
		t.Setenv("RATELIMIT_"+profile+"_WINDOW_SEC", "60")
		t.Setenv("RATELIMIT_"+profile+"_BURST", "1000")
	}
}

// startMongo runs a throwaway mongo container and returns its URI.
func startMongo(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping mongo e2e in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        mongoImage,
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor: wait.ForLog("Waiting for connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	return fmt.Sprintf("mongodb://%s:%s", host, port.Port())
}

// setupServer starts the whole application on driver with a bootstrapped
// admin and returns the base URL.
func setupServer(t *testing.T, driver string) string {
	t.Helper()
	relaxRateLimits(t)
	dir := t.TempDir()

	cfg := app.Config{
		Env:                    "test",
		LogLevel:               "warn",
		LogFormat:              "json",
		Port:                   8080,
		StoreDriver:            driver,
		SQLiteFile:             filepath.Join(dir, "taskboard.db"),
		MongoDatabase:          "e2e",
		JWTSecret:              "e2e-secret",
		JWTIssuer:              "taskboard-e2e",
		JWTTTL:                 time.Hour,
		PepperFile:             filepath.Join(dir, "pepper"),
		BootstrapAdminEmail:    adminEmail,
		BootstrapAdminPassword: adminPassword,
		ShutdownGracePeriod:    time.Second,
	}
	if driver == app.DriverMongo {
		cfg.MongoURI = startMongo(t)
	}

	application, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Shutdown() })

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

// forEachDriver runs fn once per store backend.
func forEachDriver(t *testing.T, fn func(t *testing.T, client *taskboardsdk.SDKClient)) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			fn(t, taskboardsdk.NewSDKClient(setupServer(t, driver)))
		})
	}
}

// loginAdmin authenticates the bootstrapped admin.
func loginAdmin(t *testing.T, client *taskboardsdk.SDKClient) *taskboardsdk.Session {
	t.Helper()
	session, err := client.Authenticate(t.Context(), adminEmail, adminPassword)
	require.NoError(t, err, "admin login should succeed")
	return session
}

// createDeveloper has admin create a DEVELOPER and returns it logged in.
func createDeveloper(t *testing.T, client *taskboardsdk.SDKClient, admin *taskboardsdk.Session, email string) (*taskboardsdk.User, *taskboardsdk.Session) {
	t.Helper()
	u, err := admin.CreateUser(t.Context(), taskboardsdk.UserInput{
		Email:    email,
		Name:     email,
		Password: userPassword,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"DEVELOPER"}, u.Roles)

	session, err := client.Authenticate(t.Context(), email, userPassword)
	require.NoError(t, err)
	return u, session
}

// assertStatus checks that err is an API error with status.
func assertStatus(t *testing.T, err error, status int, context string) {
	t.Helper()
	require.Error(t, err, context)
	require.True(t, taskboardsdk.IsStatus(err, status), "%s: want %d, got %v", context, status, err)
}
