package sandbox_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowboardhq/flowboard/internal/sandbox"
)

func TestLabelLifecycle(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t, sandbox.Options{})
	token, _ := registerTestUser(t, httpServer.URL, "dana@example.com", "Dana Developer")
	fixture := setupBoard(t, httpServer.URL, token, "Acme Rockets")

	missingBoardResp := doAuthJSON(t, httpServer.URL+"/api/labels", http.MethodGet, token, nil)
	require.Equal(t, http.StatusBadRequest, missingBoardResp.StatusCode)
	require.Equal(t, "board_id is required", errorMessage(t, missingBoardResp))

	unknownBoardResp := doAuthJSON(t, httpServer.URL+"/api/labels?board_id=missing", http.MethodGet, token, nil)
	require.Equal(t, http.StatusNotFound, unknownBoardResp.StatusCode)
	require.Equal(t, "Board not found", errorMessage(t, unknownBoardResp))

	missingNameResp := doAuthJSON(t, httpServer.URL+"/api/labels", http.MethodPost, token, map[string]string{
		"board_id": fixture.BoardID,
	})
	require.Equal(t, http.StatusBadRequest, missingNameResp.StatusCode)
	require.Equal(t, "name is required", errorMessage(t, missingNameResp))

	createResp := doAuthJSON(t, httpServer.URL+"/api/labels", http.MethodPost, token, map[string]string{
		"board_id": fixture.BoardID,
		"name":     "bug",
	})
	require.Equal(t, http.StatusCreated, createResp.StatusCode)
	label := decodeMap(t, createResp.Body)["label"].(map[string]any)
	labelID := label["id"].(string)
	require.Equal(t, "bug", label["name"])
	require.Equal(t, "#6B7280", label["color"])
	require.Equal(t, fixture.ProjectID, label["project_id"])

	updateResp := doAuthJSON(t, httpServer.URL+"/api/labels/"+labelID, http.MethodPut, token, map[string]string{
		"name":  "defect",
		"color": "#ef4444",
	})
	require.Equal(t, http.StatusOK, updateResp.StatusCode)
	updated := decodeMap(t, updateResp.Body)["label"].(map[string]any)
	require.Equal(t, "defect", updated["name"])
	require.Equal(t, "#ef4444", updated["color"])

	deleteResp := doAuthJSON(t, httpServer.URL+"/api/labels/"+labelID, http.MethodDelete, token, nil)
	require.Equal(t, http.StatusOK, deleteResp.StatusCode)
	require.Equal(t, "Label deleted", decodeMap(t, deleteResp.Body)["message"])

	listResp := doAuthJSON(t, httpServer.URL+"/api/labels?board_id="+fixture.BoardID, http.MethodGet, token, nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	require.Empty(t, decodeMap(t, listResp.Body)["labels"])
}

func TestLabelsAreProjectScoped(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t, sandbox.Options{})
	token, _ := registerTestUser(t, httpServer.URL, "dana@example.com", "Dana Developer")
	fixture := setupBoard(t, httpServer.URL, token, "Acme Rockets")

	createResp := doAuthJSON(t, httpServer.URL+"/api/labels", http.MethodPost, token, map[string]string{
		"board_id": fixture.BoardID,
		"name":     "feature",
		"color":    "#3b82f6",
	})
	require.Equal(t, http.StatusCreated, createResp.StatusCode)

	secondBoardResp := doAuthJSON(t, httpServer.URL+"/api/boards", http.MethodPost, token, map[string]any{
		"project_id": fixture.ProjectID,
		"name":       "Roadmap",
	})
	require.Equal(t, http.StatusCreated, secondBoardResp.StatusCode)
	secondBoardID := decodeMap(t, secondBoardResp.Body)["board"].(map[string]any)["id"].(string)

	// A label created through one board is visible on every board of
	// the same project.
	listResp := doAuthJSON(t, httpServer.URL+"/api/labels?board_id="+secondBoardID, http.MethodGet, token, nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	labels := decodeMap(t, listResp.Body)["labels"].([]any)
	require.Len(t, labels, 1)
	require.Equal(t, "feature", labels[0].(map[string]any)["name"])
}
