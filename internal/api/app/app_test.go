package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewBootstrapsAdmin(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Env:                    "test",
		LogLevel:               "error",
		LogFormat:              "text",
		Port:                   0,
		StoreDriver:            DriverSQLite,
		SQLiteFile:             filepath.Join(dir, "app.db"),
		JWTSecret:              "secret",
		JWTIssuer:              "taskboard",
		JWTTTL:                 time.Hour,
		PepperFile:             filepath.Join(dir, "pepper"),
		BootstrapAdminEmail:    "admin@example.com",
		BootstrapAdminPassword: "password",
		ShutdownGracePeriod:    time.Second,
	}

	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Shutdown() })

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)

	body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "password"})
	res, err := srv.Client().Post(srv.URL+"/user/authenticate", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var tok struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&tok))

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	me, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer me.Body.Close()
	require.Equal(t, http.StatusOK, me.StatusCode)

	var u struct {
		Roles []string `json:"roles"`
	}
	require.NoError(t, json.NewDecoder(me.Body).Decode(&u))
	require.Equal(t, []string{"ADMIN"}, u.Roles)
}

func TestNewRejectsHalfConfiguredBootstrap(t *testing.T) {
	dir := t.TempDir()
	_, err := New(Config{
		Env:                 "test",
		LogLevel:            "error",
		StoreDriver:         DriverSQLite,
		SQLiteFile:          filepath.Join(dir, "app.db"),
		JWTSecret:           "secret",
		PepperFile:          filepath.Join(dir, "pepper"),
		BootstrapAdminEmail: "admin@example.com",
	})
	require.Error(t, err)
}
