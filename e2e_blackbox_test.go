package flowboard_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestE2EBlackBoxServerProcess(t *testing.T) {
	flowboardBin := buildFlowboardBinary(t)

	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cmd := exec.CommandContext(ctx, flowboardBin, "serve", "--addr", addr)
	cmd.Env = flowboardEnv(t.TempDir())
	stdoutPipe, err := cmd.StdoutPipe()
	require.NoError(t, err)
	stderrPipe, err := cmd.StderrPipe()
	require.NoError(t, err)
	var streamWG sync.WaitGroup
	streamReaderToTestLogs(t, "sandbox stdout", stdoutPipe, &streamWG)
	streamReaderToTestLogs(t, "sandbox stderr", stderrPipe, &streamWG)
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		cancel()
		_ = cmd.Wait()
		streamWG.Wait()
	})

	baseURL := "http://" + addr
	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/api/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 100*time.Millisecond)

	login := doJSONRequest(t, baseURL+"/api/auth/login", http.MethodPost, "", map[string]string{
		"email":    "demo@flowboard.dev",
		"password": "demo1234",
	})
	require.Equal(t, http.StatusOK, login.StatusCode)
	token, _ := decodeBodyMap(t, login.Body)["access_token"].(string)
	require.NotEmpty(t, token)

	createOrg := doJSONRequest(t, baseURL+"/api/organizations", http.MethodPost, token, map[string]string{
		"name": "Blackbox Org",
	})
	require.Equal(t, http.StatusCreated, createOrg.StatusCode)
	orgID := decodeBodyMap(t, createOrg.Body)["organization"].(map[string]any)["id"].(string)

	createWorkspace := doJSONRequest(t, baseURL+"/api/workspaces", http.MethodPost, token, map[string]string{
		"organization_id": orgID,
		"name":            "Platform",
	})
	require.Equal(t, http.StatusCreated, createWorkspace.StatusCode)
	workspaceID := decodeBodyMap(t, createWorkspace.Body)["workspace"].(map[string]any)["id"].(string)

	createProject := doJSONRequest(t, baseURL+"/api/projects", http.MethodPost, token, map[string]string{
		"workspace_id": workspaceID,
		"name":         "Rollout",
	})
	require.Equal(t, http.StatusCreated, createProject.StatusCode)
	projectID := decodeBodyMap(t, createProject.Body)["project"].(map[string]any)["id"].(string)

	createBoard := doJSONRequest(t, baseURL+"/api/boards", http.MethodPost, token, map[string]string{
		"project_id": projectID,
		"name":       "Delivery",
	})
	require.Equal(t, http.StatusCreated, createBoard.StatusCode)
	boardID := decodeBodyMap(t, createBoard.Body)["board"].(map[string]any)["id"].(string)

	getBoard := doJSONRequest(t, baseURL+"/api/boards/"+boardID, http.MethodGet, token, nil)
	require.Equal(t, http.StatusOK, getBoard.StatusCode)
	columns := decodeBodyMap(t, getBoard.Body)["board"].(map[string]any)["columns"].([]any)
	require.Len(t, columns, 5)
	firstColumnID := columns[0].(map[string]any)["id"].(string)
	secondColumnID := columns[1].(map[string]any)["id"].(string)

	createCard := doJSONRequest(t, baseURL+"/api/cards", http.MethodPost, token, map[string]any{
		"column_id":    firstColumnID,
		"title":        "exercise process",
		"priority":     "P1",
		"story_points": 3,
	})
	require.Equal(t, http.StatusCreated, createCard.StatusCode)
	cardID := decodeBodyMap(t, createCard.Body)["card"].(map[string]any)["id"].(string)

	moveCard := doJSONRequest(t, baseURL+"/api/cards/"+cardID+"/move", http.MethodPut, token, map[string]any{
		"column_id": secondColumnID,
		"position":  0,
	})
	require.Equal(t, http.StatusOK, moveCard.StatusCode)
	movedCard := decodeBodyMap(t, moveCard.Body)["card"].(map[string]any)
	require.Equal(t, secondColumnID, movedCard["column_id"])

	createSprint := doJSONRequest(t, baseURL+"/api/sprints", http.MethodPost, token, map[string]string{
		"project_id": projectID,
		"name":       "Rollout Sprint",
		"goal":       "Ship the blackbox flow",
		"start_date": "2026-09-01",
		"end_date":   "2026-09-14",
	})
	require.Equal(t, http.StatusCreated, createSprint.StatusCode)
	sprintID := decodeBodyMap(t, createSprint.Body)["sprint"].(map[string]any)["id"].(string)

	addSprintCard := doJSONRequest(t, baseURL+"/api/sprints/"+sprintID+"/cards", http.MethodPost, token, map[string]string{
		"card_id": cardID,
	})
	require.Equal(t, http.StatusOK, addSprintCard.StatusCode)

	startSprint := doJSONRequest(t, baseURL+"/api/sprints/"+sprintID+"/start", http.MethodPost, token, nil)
	require.Equal(t, http.StatusOK, startSprint.StatusCode)
	startedSprint := decodeBodyMap(t, startSprint.Body)["sprint"].(map[string]any)
	require.Equal(t, "active", startedSprint["status"])

	getMetrics := doJSONRequest(t, baseURL+"/api/sprints/"+sprintID+"/metrics", http.MethodGet, token, nil)
	require.Equal(t, http.StatusOK, getMetrics.StatusCode)
	metrics := decodeBodyMap(t, getMetrics.Body)["metrics"].(map[string]any)
	require.Equal(t, float64(1), metrics["total_cards"])
	require.Equal(t, float64(0), metrics["completed_cards"])
	require.Equal(t, float64(3), metrics["total_story_points"])

	listCards := doJSONRequest(t, baseURL+"/api/cards?board_id="+boardID, http.MethodGet, token, nil)
	require.Equal(t, http.StatusOK, listCards.StatusCode)
	cards := decodeBodyMap(t, listCards.Body)["cards"].([]any)
	require.Len(t, cards, 1)
	summary := cards[0].(map[string]any)
	require.Equal(t, "exercise process", summary["title"])
	require.Equal(t, float64(3), summary["story_points"])

	unread := doJSONRequest(t, baseURL+"/api/notifications/unread-count", http.MethodGet, token, nil)
	require.Equal(t, http.StatusOK, unread.StatusCode)
	require.Equal(t, float64(0), decodeBodyMap(t, unread.Body)["unread_count"])
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func doJSONRequest(t *testing.T, url, method, token string, payload any) *http.Response {
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

func decodeBodyMap(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	var out map[string]any
	err = json.Unmarshal(raw, &out)
	require.NoError(t, err, fmt.Sprintf("failed to decode: %s", string(raw)))
	return out
}

func streamReaderToTestLogs(t *testing.T, prefix string, r io.Reader, wg *sync.WaitGroup) {
	t.Helper()
	wg.Add(1)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			t.Logf("[%s] %s", prefix, scanner.Text())
		}
	}()
}
