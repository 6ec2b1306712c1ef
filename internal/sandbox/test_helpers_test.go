package sandbox_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowboardhq/flowboard/internal/sandbox"
)

func newTestServer(t *testing.T, opts sandbox.Options) *httptest.Server {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	app, err := sandbox.New(opts)
	require.NoError(t, err)
	httpServer := httptest.NewServer(app.Handler())
	t.Cleanup(httpServer.Close)
	return httpServer
}

func doJSON(t *testing.T, url, method string, payload any) *http.Response {
	t.Helper()
	return doAuthJSON(t, url, method, "", payload)
}

func doAuthJSON(t *testing.T, url, method, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func doRaw(t *testing.T, url, method, token, payload, contentType string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewBufferString(payload))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, reader io.Reader) []byte {
	t.Helper()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	return data
}

func decodeMap(t *testing.T, reader io.Reader) map[string]any {
	t.Helper()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	var out map[string]any
	err = json.Unmarshal(data, &out)
	require.NoError(t, err, "body: %s", data)
	return out
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	body := decodeMap(t, resp.Body)
	msg, ok := body["error"].(string)
	require.True(t, ok, "expected an error body, got %v", body)
	return msg
}

// registerTestUser creates an account and returns its access token and
// user id.
func registerTestUser(t *testing.T, baseURL, email, fullName string) (token, userID string) {
	t.Helper()
	resp := doJSON(t, baseURL+"/api/auth/register", http.MethodPost, map[string]string{
		"email":     email,
		"password":  "password123",
		"full_name": fullName,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeMap(t, resp.Body)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok, "register response carries no user: %v", body)
	return body["access_token"].(string), user["id"].(string)
}

type boardFixture struct {
	OrgID       string
	WorkspaceID string
	ProjectID   string
	BoardID     string
	Columns     map[string]string // column name -> id
}

// setupBoard builds organization -> workspace -> project -> board for
// the given token and returns the ids, with the board's default columns
// keyed by name.
func setupBoard(t *testing.T, baseURL, token, orgName string) boardFixture {
	t.Helper()

	resp := doAuthJSON(t, baseURL+"/api/organizations", http.MethodPost, token, map[string]string{"name": orgName})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	org := decodeMap(t, resp.Body)["organization"].(map[string]any)

	resp = doAuthJSON(t, baseURL+"/api/workspaces", http.MethodPost, token, map[string]any{
		"organization_id": org["id"],
		"name":            "Engineering",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	workspace := decodeMap(t, resp.Body)["workspace"].(map[string]any)

	resp = doAuthJSON(t, baseURL+"/api/projects", http.MethodPost, token, map[string]any{
		"workspace_id": workspace["id"],
		"name":         "Platform",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	project := decodeMap(t, resp.Body)["project"].(map[string]any)

	resp = doAuthJSON(t, baseURL+"/api/boards", http.MethodPost, token, map[string]any{
		"project_id": project["id"],
		"name":       "Delivery",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	board := decodeMap(t, resp.Body)["board"].(map[string]any)

	fixture := boardFixture{
		OrgID:       org["id"].(string),
		WorkspaceID: workspace["id"].(string),
		ProjectID:   project["id"].(string),
		BoardID:     board["id"].(string),
		Columns:     map[string]string{},
	}
	for _, raw := range board["columns"].([]any) {
		col := raw.(map[string]any)
		fixture.Columns[col["name"].(string)] = col["id"].(string)
	}
	return fixture
}

// newCard creates a card in the given column and returns its rendered
// body.
func newCard(t *testing.T, baseURL, token, columnID, title string) map[string]any {
	t.Helper()
	resp := doAuthJSON(t, baseURL+"/api/cards", http.MethodPost, token, map[string]any{
		"column_id": columnID,
		"title":     title,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeMap(t, resp.Body)["card"].(map[string]any)
}
