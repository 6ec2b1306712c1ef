package flowboard

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowboardhq/flowboard/internal/sandbox"
)

func startSandbox(t *testing.T, seed bool) *httptest.Server {
	t.Helper()

	app, err := sandbox.New(sandbox.Options{Logger: slog.New(slog.DiscardHandler), Seed: seed})
	require.NoError(t, err)
	server := httptest.NewServer(app.Handler())
	t.Cleanup(server.Close)
	return server
}

func runCLI(t *testing.T, env []string, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr, env)
	return code, stdout.String(), stderr.String()
}

func runJSON(t *testing.T, env []string, args ...string) map[string]any {
	t.Helper()

	code, stdout, stderr := runCLI(t, env, args...)
	require.Equal(t, 0, code, strings.Join(args, " ")+" stderr="+stderr)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
	return out
}

func runJSONList(t *testing.T, env []string, args ...string) []any {
	t.Helper()

	code, stdout, stderr := runCLI(t, env, args...)
	require.Equal(t, 0, code, strings.Join(args, " ")+" stderr="+stderr)
	var out []any
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
	return out
}

func TestRunExecutesBoardWorkflowAgainstSandbox(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	server := startSandbox(t, false)
	sessionPath := filepath.Join(t.TempDir(), "session.yaml")
	env := []string{
		"FLOWBOARD_SERVER_URL=" + server.URL,
		"FLOWBOARD_OUTPUT=json",
		"FLOWBOARD_SESSION_PATH=" + sessionPath,
	}

	registered := runJSON(t, env, "auth", "register", "-e", "dev@example.com", "-p", "secret123", "--name", "Dev One")
	require.Equal(t, "Dev One", registered["user"].(map[string]any)["full_name"])
	require.FileExists(t, sessionPath)

	me := runJSON(t, env, "auth", "whoami")
	require.Equal(t, "dev@example.com", me["email"])

	org := runJSON(t, env, "org", "create", "-n", "Acme Rockets")
	orgID := org["id"].(string)

	ws := runJSON(t, env, "workspace", "create", "-o", orgID, "-n", "Core")
	project := runJSON(t, env, "project", "create", "-w", ws["id"].(string), "-n", "Platform")
	projectID := project["id"].(string)

	board := runJSON(t, env, "board", "create", "-p", projectID, "-n", "Delivery")
	boardID := board["id"].(string)
	columns := board["columns"].([]any)
	require.Len(t, columns, 5)
	firstColumnID := columns[0].(map[string]any)["id"].(string)
	secondColumnID := columns[1].(map[string]any)["id"].(string)

	cardOne := runJSON(t, env, "card", "create", "-c", firstColumnID, "-t", "Task one", "--priority", "P1", "--points", "3")
	cardOneID := cardOne["id"].(string)
	require.Equal(t, "P1", cardOne["priority"])

	cardTwo := runJSON(t, env, "card", "create", "-c", firstColumnID, "-t", "Task two")
	cardTwoID := cardTwo["id"].(string)

	listed := runJSONList(t, env, "card", "ls", "--column", firstColumnID)
	require.Len(t, listed, 2)

	moved := runJSON(t, env, "card", "move", "--board", boardID, "--id", cardOneID, "--to", secondColumnID, "--position", "0")
	require.Equal(t, secondColumnID, moved["column_id"])

	rendered := runJSON(t, env, "card", "show", cardOneID, "--html")
	require.Contains(t, rendered, "description_html")

	comment := runJSON(t, env, "card", "comment", cardOneID, "-b", "Looks **good** to me")
	require.Equal(t, "Looks **good** to me", comment["content"])

	link := runJSON(t, env, "link", "add", "--card", cardOneID, "--target", cardTwoID, "--type", "blocks")
	require.Equal(t, "blocks", link["link_type"])

	incoming := runJSONList(t, env, "link", "ls", "--card", cardTwoID)
	require.Len(t, incoming, 1)
	row := incoming[0].(map[string]any)
	require.Equal(t, "incoming", row["direction"])
	require.Equal(t, "blocked_by", row["type"])
	require.Equal(t, cardOneID, row["card"].(map[string]any)["id"])

	candidates := runJSONList(t, env, "link", "search", "--board", boardID, "--card", cardOneID, "--query", "task")
	require.Len(t, candidates, 1)
	require.Equal(t, cardTwoID, candidates[0].(map[string]any)["id"])

	backlogCards := runJSONList(t, env, "backlog", "ls", "--project", projectID)
	require.Len(t, backlogCards, 2)

	sprint := runJSON(t, env, "sprint", "create", "--project", projectID, "-n", "Sprint A", "--start", "2026-09-01", "--end", "2026-09-14")
	sprintID := sprint["id"].(string)
	require.Equal(t, "planning", sprint["status"])

	runJSON(t, env, "sprint", "add-card", sprintID, "--card", cardOneID)
	started := runJSON(t, env, "sprint", "start", sprintID)
	require.Equal(t, "active", started["status"])

	metrics := runJSON(t, env, "sprint", "metrics", sprintID)
	require.Equal(t, float64(1), metrics["total_cards"])
	require.Equal(t, float64(3), metrics["total_story_points"])

	unread := runJSON(t, env, "notify", "unread")
	require.Equal(t, float64(0), unread["unread_count"])

	code, stdout, stderr := runCLI(t, env, "watch", "--once")
	require.Equal(t, 0, code, stderr)
	require.JSONEq(t, `{"unread_count":0}`, strings.TrimSpace(stdout))

	loggedOut := runJSON(t, env, "auth", "logout")
	require.Equal(t, "Logged out", loggedOut["message"])

	code, _, stderr = runCLI(t, env, "auth", "whoami")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "Authorization required")
}

func TestRunReturnsJSONErrorForBackendProblem(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	server := startSandbox(t, true)
	sessionPath := filepath.Join(t.TempDir(), "session.yaml")
	env := []string{
		"FLOWBOARD_SERVER_URL=" + server.URL,
		"FLOWBOARD_OUTPUT=json",
		"FLOWBOARD_SESSION_PATH=" + sessionPath,
	}

	var stdout, stderr bytes.Buffer
	exitCode := Run([]string{"auth", "login", "-e", sandbox.DemoEmail, "-p", "wrong-password"}, &stdout, &stderr, env)
	require.Equal(t, 1, exitCode)
	require.Contains(t, stderr.String(), `"error":"Invalid email or password"`)
}

func TestRunClearsSessionAfterUnauthorized(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	server := startSandbox(t, true)
	sessionPath := filepath.Join(t.TempDir(), "session.yaml")
	env := []string{
		"FLOWBOARD_SERVER_URL=" + server.URL,
		"FLOWBOARD_OUTPUT=json",
		"FLOWBOARD_SESSION_PATH=" + sessionPath,
	}

	runJSON(t, env, "auth", "login", "-e", sandbox.DemoEmail, "-p", sandbox.DemoPassword)
	require.FileExists(t, sessionPath)

	require.NoError(t, os.WriteFile(sessionPath, []byte("access_token: bogus\nrefresh_token: bogus\n"), 0o600))

	code, _, stderr := runCLI(t, env, "auth", "whoami")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "Invalid or expired token")

	_, err := os.Stat(sessionPath)
	require.True(t, os.IsNotExist(err))
}

func TestRunTextOutputFormatsErrors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	server := startSandbox(t, false)
	env := []string{
		"FLOWBOARD_SERVER_URL=" + server.URL,
		"FLOWBOARD_SESSION_PATH=" + filepath.Join(t.TempDir(), "session.yaml"),
	}

	code, _, stderr := runCLI(t, env, "auth", "whoami")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "error (401): Authorization required")
}

func TestRunRejectsInvalidOutputFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	code, _, stderr := runCLI(t, nil, "--output", "yaml", "org", "ls")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "invalid --output")
}
