package sandbox_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowboardhq/flowboard/internal/sandbox"
)

func TestResourcesHiddenAcrossOrganizations(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t, sandbox.Options{})
	ownerToken, _ := registerTestUser(t, httpServer.URL, "owner@example.com", "Olive Owner")
	fixture := setupBoard(t, httpServer.URL, ownerToken, "Acme Rockets")
	cardID := newCard(t, httpServer.URL, ownerToken, fixture.Columns["Backlog"], "Private card")["id"].(string)

	sprintResp := doAuthJSON(t, httpServer.URL+"/api/sprints", http.MethodPost, ownerToken, map[string]any{
		"project_id": fixture.ProjectID,
		"name":       "Private sprint",
		"start_date": "2026-08-24",
		"end_date":   "2026-09-07",
	})
	require.Equal(t, http.StatusCreated, sprintResp.StatusCode)
	sprintID := decodeMap(t, sprintResp.Body)["sprint"].(map[string]any)["id"].(string)

	outsiderToken, _ := registerTestUser(t, httpServer.URL, "outsider@example.com", "Oscar Outsider")

	// Organizations do not reveal their existence to non-members.
	orgResp := doAuthJSON(t, httpServer.URL+"/api/organizations/"+fixture.OrgID, http.MethodGet, outsiderToken, nil)
	require.Equal(t, http.StatusNotFound, orgResp.StatusCode)
	require.Equal(t, "Organization not found", errorMessage(t, orgResp))

	membersResp := doAuthJSON(t, httpServer.URL+"/api/organizations/"+fixture.OrgID+"/members", http.MethodGet, outsiderToken, nil)
	require.Equal(t, http.StatusNotFound, membersResp.StatusCode)

	// Resources below the organization exist but refuse access.
	for _, path := range []string{
		"/api/workspaces/" + fixture.WorkspaceID,
		"/api/projects/" + fixture.ProjectID,
		"/api/boards/" + fixture.BoardID,
		"/api/cards/" + cardID,
		"/api/sprints/" + sprintID,
	} {
		resp := doAuthJSON(t, httpServer.URL+path, http.MethodGet, outsiderToken, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		require.Equal(t, "Forbidden", errorMessage(t, resp), path)
	}

	deleteResp := doAuthJSON(t, httpServer.URL+"/api/cards/"+cardID, http.MethodDelete, outsiderToken, nil)
	require.Equal(t, http.StatusForbidden, deleteResp.StatusCode)

	moveResp := doAuthJSON(t, httpServer.URL+"/api/cards/"+cardID+"/move", http.MethodPut, outsiderToken, map[string]any{
		"column_id": fixture.Columns["To Do"],
		"position":  0,
	})
	require.Equal(t, http.StatusForbidden, moveResp.StatusCode)

	countResp := doAuthJSON(t, httpServer.URL+"/api/notifications/unread-count", http.MethodGet, outsiderToken, nil)
	require.Equal(t, http.StatusOK, countResp.StatusCode)
	require.EqualValues(t, 0, decodeMap(t, countResp.Body)["unread_count"])
}

func TestUnknownResourceMessages(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t, sandbox.Options{})
	token, _ := registerTestUser(t, httpServer.URL, "dana@example.com", "Dana Developer")

	checks := []struct {
		method  string
		path    string
		message string
	}{
		{http.MethodGet, "/api/workspaces/missing", "Workspace not found"},
		{http.MethodGet, "/api/projects/missing", "Project not found"},
		{http.MethodGet, "/api/boards/missing", "Board not found"},
		{http.MethodGet, "/api/columns/missing", "Column not found"},
		{http.MethodGet, "/api/cards/missing", "Card not found"},
		{http.MethodGet, "/api/sprints/missing", "Sprint not found"},
		{http.MethodGet, "/api/templates/missing", "Template not found"},
		{http.MethodDelete, "/api/card-links/missing", "Link not found"},
		{http.MethodPut, "/api/notifications/missing/read", "Notification not found"},
	}
	for _, check := range checks {
		resp := doAuthJSON(t, httpServer.URL+check.path, check.method, token, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, check.path)
		require.Equal(t, check.message, errorMessage(t, resp), check.path)
	}

	labelResp := doAuthJSON(t, httpServer.URL+"/api/labels/missing", http.MethodPut, token, map[string]string{
		"name": "renamed",
	})
	require.Equal(t, http.StatusNotFound, labelResp.StatusCode)
	require.Equal(t, "Label not found", errorMessage(t, labelResp))
}

func TestErrorBodyShape(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t, sandbox.Options{})
	token, _ := registerTestUser(t, httpServer.URL, "dana@example.com", "Dana Developer")

	resp := doAuthJSON(t, httpServer.URL+"/api/boards/missing", http.MethodGet, token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	body := decodeMap(t, resp.Body)
	require.Len(t, body, 1)
	require.Equal(t, "Board not found", body["error"])

	// Requests huma itself rejects use the RFC 7807 problem shape.
	badJSON := doRaw(t, httpServer.URL+"/api/organizations", http.MethodPost, token, "{", "application/json")
	require.Equal(t, http.StatusBadRequest, badJSON.StatusCode)
	require.Contains(t, badJSON.Header.Get("Content-Type"), "problem+json")
	require.Contains(t, string(readBody(t, badJSON.Body)), "unexpected end of JSON input")
}
