package taskboard_test

import (
	"testing"

	"github.com/aussiebroadwan/taskboard/pkg/taskboardsdk"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	forEachDriver(t, func(t *testing.T, client *taskboardsdk.SDKClient) {
		live, err := client.GetLiveness(t.Context())
		require.NoError(t, err)
		require.Equal(t, "ok", live.Status)

		ready, err := client.GetReadiness(t.Context())
		require.NoError(t, err)
		require.Equal(t, "ok", ready.Status)
		require.NotNil(t, ready.Checks)
		require.Equal(t, "ok", ready.Checks.Database)

		info, err := client.GetServiceInfo(t.Context())
		require.NoError(t, err)
		require.Equal(t, "taskboard", info.Name)
	})
}
