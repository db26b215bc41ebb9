package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	assert.True(t, names["serve"])
	assert.True(t, names["version"])
	assert.True(t, names["healthcheck"])
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, out.String(), "organizer-console dev")
	assert.Contains(t, out.String(), "commit unknown")
	assert.Contains(t, out.String(), runtime.Version())
}

func TestHealthcheck(t *testing.T) {
	t.Run("healthy server passes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"healthy"}`))
		}))
		defer server.Close()

		healthcheckURL = server.URL
		defer func() { healthcheckURL = "" }()

		require.NoError(t, runHealthcheck(healthcheckCmd, nil))
	})

	t.Run("unhealthy server fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		healthcheckURL = server.URL
		defer func() { healthcheckURL = "" }()

		assert.Error(t, runHealthcheck(healthcheckCmd, nil))
	})
}
