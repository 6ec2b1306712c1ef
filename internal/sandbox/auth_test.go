package sandbox_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowboardhq/flowboard/internal/sandbox"
)

func TestRegisterLoginMeFlow(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t, sandbox.Options{})

	registerResp := doJSON(t, httpServer.URL+"/api/auth/register", http.MethodPost, map[string]string{
		"email":     "  Dana@Example.COM ",
		"password":  "password123",
		"full_name": "Dana Developer",
	})
	require.Equal(t, http.StatusCreated, registerResp.StatusCode)
	registerBody := decodeMap(t, registerResp.Body)
	require.Equal(t, "User registered successfully", registerBody["message"])
	require.NotEmpty(t, registerBody["access_token"])
	require.NotEmpty(t, registerBody["refresh_token"])
	registeredUser := registerBody["user"].(map[string]any)
	require.Equal(t, "dana@example.com", registeredUser["email"])

	loginResp := doJSON(t, httpServer.URL+"/api/auth/login", http.MethodPost, map[string]string{
		"email":    "dana@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	loginBody := decodeMap(t, loginResp.Body)
	require.NotContains(t, loginBody, "message")
	accessToken := loginBody["access_token"].(string)
	refreshToken := loginBody["refresh_token"].(string)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)

	meResp := doAuthJSON(t, httpServer.URL+"/api/auth/me", http.MethodGet, accessToken, nil)
	require.Equal(t, http.StatusOK, meResp.StatusCode)
	me := decodeMap(t, meResp.Body)["user"].(map[string]any)
	require.Equal(t, "dana@example.com", me["email"])
	require.Equal(t, "Dana Developer", me["full_name"])

	refreshResp := doAuthJSON(t, httpServer.URL+"/api/auth/refresh", http.MethodPost, refreshToken, nil)
	require.Equal(t, http.StatusOK, refreshResp.StatusCode)
	freshAccess := decodeMap(t, refreshResp.Body)["access_token"].(string)
	require.NotEmpty(t, freshAccess)

	meAgainResp := doAuthJSON(t, httpServer.URL+"/api/auth/me", http.MethodGet, freshAccess, nil)
	require.Equal(t, http.StatusOK, meAgainResp.StatusCode)

	logoutResp := doAuthJSON(t, httpServer.URL+"/api/auth/logout", http.MethodPost, accessToken, nil)
	require.Equal(t, http.StatusOK, logoutResp.StatusCode)
	require.Equal(t, "Logged out successfully", decodeMap(t, logoutResp.Body)["message"])
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t, sandbox.Options{})

	badEmailResp := doJSON(t, httpServer.URL+"/api/auth/register", http.MethodPost, map[string]string{
		"email":    "not-an-email",
		"password": "password123",
	})
	require.Equal(t, http.StatusBadRequest, badEmailResp.StatusCode)
	require.Equal(t, "Validation failed", errorMessage(t, badEmailResp))

	shortPasswordResp := doJSON(t, httpServer.URL+"/api/auth/register", http.MethodPost, map[string]string{
		"email":    "short@example.com",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, shortPasswordResp.StatusCode)
	require.Equal(t, "Validation failed", errorMessage(t, shortPasswordResp))

	firstResp := doJSON(t, httpServer.URL+"/api/auth/register", http.MethodPost, map[string]string{
		"email":    "dup@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, firstResp.StatusCode)

	dupResp := doJSON(t, httpServer.URL+"/api/auth/register", http.MethodPost, map[string]string{
		"email":    "DUP@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusConflict, dupResp.StatusCode)
	require.Equal(t, "Email already registered", errorMessage(t, dupResp))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t, sandbox.Options{})
	registerTestUser(t, httpServer.URL, "dana@example.com", "Dana Developer")

	wrongPasswordResp := doJSON(t, httpServer.URL+"/api/auth/login", http.MethodPost, map[string]string{
		"email":    "dana@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, wrongPasswordResp.StatusCode)
	require.Equal(t, "Invalid email or password", errorMessage(t, wrongPasswordResp))

	unknownUserResp := doJSON(t, httpServer.URL+"/api/auth/login", http.MethodPost, map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusUnauthorized, unknownUserResp.StatusCode)
	require.Equal(t, "Invalid email or password", errorMessage(t, unknownUserResp))
}

func TestAuthTokenHandling(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t, sandbox.Options{})
	accessToken, _ := registerTestUser(t, httpServer.URL, "dana@example.com", "Dana Developer")

	missingResp := doJSON(t, httpServer.URL+"/api/auth/me", http.MethodGet, nil)
	require.Equal(t, http.StatusUnauthorized, missingResp.StatusCode)
	require.Equal(t, "Authorization required", errorMessage(t, missingResp))

	garbageResp := doAuthJSON(t, httpServer.URL+"/api/auth/me", http.MethodGet, "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, garbageResp.StatusCode)
	require.Equal(t, "Invalid or expired token", errorMessage(t, garbageResp))

	// The refresh endpoint only accepts refresh tokens.
	accessOnRefreshResp := doAuthJSON(t, httpServer.URL+"/api/auth/refresh", http.MethodPost, accessToken, nil)
	require.Equal(t, http.StatusUnauthorized, accessOnRefreshResp.StatusCode)
	require.Equal(t, "Invalid or expired token", errorMessage(t, accessOnRefreshResp))

	healthResp := doJSON(t, httpServer.URL+"/api/health", http.MethodGet, nil)
	require.Equal(t, http.StatusOK, healthResp.StatusCode)
	health := decodeMap(t, healthResp.Body)
	require.Equal(t, "ok", health["status"])
	require.Equal(t, "healthy", health["database"])
}
