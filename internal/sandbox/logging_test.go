package sandbox_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowboardhq/flowboard/internal/sandbox"
)

func TestRequestLoggingMiddleware(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelInfo}))

	httpServer := newTestServer(t, sandbox.Options{Logger: logger})

	resp := doJSON(t, httpServer.URL+"/api/health", http.MethodGet, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := logs.String()
	require.Contains(t, out, "sandbox initialized")
	require.Contains(t, out, "http request")
	require.Contains(t, out, "method=GET")
	require.Contains(t, out, "path=/api/health")
	require.Contains(t, out, "status=200")

	registerResp := doJSON(t, httpServer.URL+"/api/auth/register", http.MethodPost, map[string]string{
		"email":     "dana@example.com",
		"password":  "password123",
		"full_name": "Dana Developer",
	})
	require.Equal(t, http.StatusCreated, registerResp.StatusCode)
	require.Contains(t, logs.String(), "status=201")
}
