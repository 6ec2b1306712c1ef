package flowboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/flowboardhq/flowboard/internal/api"
	"github.com/flowboardhq/flowboard/internal/flowboard/commands/common"
)

type Output string

const (
	OutputText Output = "text"
	OutputJSON Output = "json"
)

type cliError struct {
	status  int
	message string
	rawJSON []byte
}

func (e *cliError) Error() string {
	return e.message
}

func isValidOutput(v string) bool {
	return v == string(OutputText) || v == string(OutputJSON)
}

func FormatError(output Output, status int, message string) string {
	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = http.StatusText(status)
	}

	if output == OutputJSON {
		payload := map[string]any{
			"status": status,
			"error":  msg,
		}
		raw, _ := json.Marshal(payload)
		return string(raw)
	}

	return fmt.Sprintf("error (%d): %s", status, msg)
}

// printValue renders a command result. JSON mode prints one compact
// line for scripting; text mode prints the same value indented. A nil
// value is a bare acknowledgement.
func printValue(output Output, stdout io.Writer, value any) error {
	if value == nil {
		if output == OutputJSON {
			_, _ = fmt.Fprintln(stdout, "{}")
			return nil
		}
		_, _ = fmt.Fprintln(stdout, "ok")
		return nil
	}

	if output == OutputJSON {
		raw, err := json.Marshal(value)
		if err != nil {
			return &cliError{status: http.StatusInternalServerError, message: err.Error()}
		}
		_, _ = fmt.Fprintln(stdout, string(raw))
		return nil
	}

	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return &cliError{status: http.StatusInternalServerError, message: err.Error()}
	}
	_, _ = fmt.Fprintln(stdout, string(raw))
	return nil
}

func printValueFromString(output string, stdout io.Writer, value any) error {
	if !isValidOutput(output) {
		return &cliError{status: http.StatusBadRequest, message: fmt.Sprintf("invalid --output: %s", output)}
	}
	return printValue(Output(output), stdout, value)
}

// wrapAPIError turns client errors into exit errors. Server responses
// keep their status and raw body; requests rejected before sending are
// 400s; transport failures are 502s.
func wrapAPIError(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		wrapped := &cliError{status: apiErr.Status, message: apiErr.Message}
		if wrapped.message == "" {
			wrapped.message = http.StatusText(apiErr.Status)
		}
		if json.Valid(apiErr.Raw) {
			wrapped.rawJSON = compactJSON(apiErr.Raw)
		}
		return wrapped
	}

	var validationErr *api.ValidationError
	if errors.As(err, &validationErr) {
		return &cliError{status: http.StatusBadRequest, message: validationErr.Error()}
	}

	var usageErr *common.UsageError
	if errors.As(err, &usageErr) {
		return &cliError{status: http.StatusBadRequest, message: usageErr.Message}
	}

	return &cliError{status: http.StatusBadGateway, message: err.Error()}
}

func compactJSON(raw []byte) []byte {
	var out bytes.Buffer
	if err := json.Compact(&out, raw); err != nil {
		return raw
	}
	return out.Bytes()
}

func asCLIError(err error, target **cliError) bool {
	e, ok := err.(*cliError)
	if !ok {
		return false
	}
	*target = e
	return true
}

// FormatWatchLine renders one unread-count sample from the watch loop.
func FormatWatchLine(output Output, count int) string {
	if output == OutputJSON {
		raw, _ := json.Marshal(map[string]int{"unread_count": count})
		return string(raw)
	}
	return fmt.Sprintf("unread_count=%d", count)
}

func printPrimer(output Output, stdout io.Writer) error {
	executionRules := []string{
		"Prefer `--output json` for any command whose output will be parsed.",
		"Log in once with `auth login`; every later command reads the saved session.",
		"Ids are opaque strings. Discover them top-down: org ls, workspace ls, project ls, board ls.",
		"`card move` needs a column id, not a column name; read them from `board show`.",
		"`watch` is long-running and must be explicitly stopped by the caller; `watch --once` samples and exits.",
	}

	commandTemplates := map[string]string{
		"login":             "flowboard --output json auth login -e \"$EMAIL\" -p \"$PASSWORD\"",
		"whoami":            "flowboard --output json auth whoami",
		"list_orgs":         "flowboard --output json org ls",
		"list_workspaces":   "flowboard --output json workspace ls --org \"$ORG\"",
		"list_projects":     "flowboard --output json project ls --workspace \"$WORKSPACE\"",
		"list_boards":       "flowboard --output json board ls --project \"$PROJECT\"",
		"show_board":        "flowboard --output json board show \"$BOARD\"",
		"create_card":       "flowboard --output json card create -c \"$COLUMN\" -t \"$TITLE\" --priority P2",
		"move_card":         "flowboard --output json card move --board \"$BOARD\" --id \"$CARD\" --to \"$COLUMN\" --position 0",
		"comment_card":      "flowboard --output json card comment \"$CARD\" -b \"$BODY\"",
		"link_cards":        "flowboard --output json link add --card \"$CARD\" --target \"$TARGET\" --type blocks",
		"list_links":        "flowboard --output json link ls --card \"$CARD\"",
		"backlog":           "flowboard --output json backlog ls --project \"$PROJECT\" --priority P1 --sort points --desc",
		"backlog_to_sprint": "flowboard --output json backlog to-sprint --project \"$PROJECT\" --sprint \"$SPRINT\" --cards \"$CARD1,$CARD2\"",
		"start_sprint":      "flowboard --output json sprint start \"$SPRINT\"",
		"sprint_metrics":    "flowboard --output json sprint metrics \"$SPRINT\"",
		"notifications":     "flowboard --output json notify ls --unread",
		"watch_once":        "flowboard --output json watch --once",
	}

	responseShapes := map[string]any{
		"create_card": map[string]any{
			"id":        "c0ffee00-0000-4000-8000-000000000001",
			"column_id": "col-uuid",
			"title":     "Task",
			"priority":  "P2",
			"position":  0,
		},
		"show_board": map[string]any{
			"id":   "board-uuid",
			"name": "Delivery",
			"columns": []any{
				map[string]any{"id": "col-uuid", "name": "Backlog", "position": 0, "cards": []any{}},
			},
		},
		"list_links": []any{
			map[string]any{
				"link_id":   "link-uuid",
				"direction": "incoming",
				"type":      "blocked_by",
				"card":      map[string]any{"id": "card-uuid", "title": "Task"},
			},
		},
		"batch_result": []any{
			map[string]any{"card_id": "card-uuid", "ok": true},
			map[string]any{"card_id": "other-uuid", "ok": false, "error": "Card not found (status 404)"},
		},
		"watch_line": map[string]any{"unread_count": 2},
	}

	errorShape := map[string]any{
		"backend_json": map[string]any{
			"error": "Card not found",
		},
		"cli_fallback_json": map[string]any{
			"status": 502,
			"error":  "gateway or CLI processing error",
		},
	}

	sessionSemantics := map[string]any{
		"storage":        "YAML file at --session-path (default ~/.local/state/flowboard/session.yaml)",
		"cleared_on_401": true,
		"refresh":        "flowboard auth refresh exchanges the saved refresh token for a new access token",
	}

	linkSemantics := map[string]any{
		"types":              []string{"blocks", "blocked_by", "relates_to", "duplicates", "duplicated_by"},
		"stored_directional": true,
		"incoming_inverted":  "link ls reports incoming edges under the inverse type",
		"duplicate_rejected": true,
	}

	sprintRules := map[string]any{
		"states":      []string{"planning", "active", "completed"},
		"transitions": "planning -> active via sprint start, active -> completed via sprint complete",
		"metrics_fields": []string{
			"total_cards", "completed_cards", "total_story_points",
			"completed_story_points", "completion_percentage", "days_remaining",
		},
	}

	notifyRules := map[string]any{
		"poll_interval_default": "30s",
		"triggers":              []string{"card_assigned", "card_commented"},
		"self_actions_silent":   true,
	}

	priorityRules := map[string]any{
		"allowed":  []string{"P0", "P1", "P2", "P3", "P4"},
		"optional": true,
	}

	aiRules := map[string]any{
		"disabled_by_default": true,
		"when_off":            "ai endpoints answer 503; check with `flowboard ai status`",
	}

	if output == OutputJSON {
		payload := map[string]any{
			"name":           "flowboard",
			"mode":           "machine",
			"purpose":        "HTTP-only FlowBoard automation client.",
			"default_output": "json",
			"usage": map[string]any{
				"global_flags": []string{"--server-url", "--output", "--session-path"},
				"commands": []string{
					"auth register|login|logout|whoami|refresh",
					"org|workspace|project|board|column create|list|show|update|delete",
					"board label create|list|update|delete",
					"card create|show|list|update|move|comment|assign|unassign|delete",
					"card label add|rm",
					"link add|list|rm",
					"backlog list|delete|to-sprint",
					"sprint create|list|show|update|start|complete|add-card|remove-card|metrics|delete",
					"notify list|unread|read|read-all|rm|clear",
					"template list|show|apply",
					"ai status|suggest|groom|goal",
					"serve / watch / primer",
				},
			},
			"execution_rules":   executionRules,
			"command_templates": commandTemplates,
			"response_shapes":   responseShapes,
			"error_shape":       errorShape,
			"session_semantics": sessionSemantics,
			"link_semantics":    linkSemantics,
			"sprint_rules":      sprintRules,
			"notify_rules":      notifyRules,
			"priority_rules":    priorityRules,
			"ai_rules":          aiRules,
			"agent_prompt": strings.Join([]string{
				"You are an automation agent controlling FlowBoard through the `flowboard` CLI.",
				"Prefer deterministic, scriptable invocations and parse JSON output.",
				"Log in first, then discover ids top-down before card operations.",
				"Use only valid priorities: P0, P1, P2, P3, P4.",
			}, "\n"),
		}
		raw, _ := json.Marshal(payload)
		_, _ = fmt.Fprintln(stdout, string(raw))
		return nil
	}

	text := strings.Join([]string{
		"FLOWBOARD AGENT PRIMER (MACHINE MODE)",
		"",
		"SYSTEM PROMPT",
		"You are an automation agent controlling the `flowboard` CLI.",
		"Produce deterministic commands and prefer machine-readable output.",
		"",
		"EXECUTION RULES",
		"1. Always prefer `--output json` when output is parsed by tools.",
		"2. Log in once with `auth login`; later commands reuse the saved session.",
		"3. Ids are opaque strings; discover them top-down via the ls commands.",
		"4. `card move` takes a column id from `board show`, never a column name.",
		"5. Priorities: P0 | P1 | P2 | P3 | P4",
		"6. `watch` is long-running and must be interrupted by the caller.",
		"",
		"COMMAND TEMPLATES",
		"LOGIN: flowboard --output json auth login -e \"$EMAIL\" -p \"$PASSWORD\"",
		"LIST_ORGS: flowboard --output json org ls",
		"LIST_WORKSPACES: flowboard --output json workspace ls --org \"$ORG\"",
		"LIST_PROJECTS: flowboard --output json project ls --workspace \"$WORKSPACE\"",
		"LIST_BOARDS: flowboard --output json board ls --project \"$PROJECT\"",
		"SHOW_BOARD: flowboard --output json board show \"$BOARD\"",
		"CREATE_CARD: flowboard --output json card create -c \"$COLUMN\" -t \"$TITLE\" --priority P2",
		"MOVE_CARD: flowboard --output json card move --board \"$BOARD\" --id \"$CARD\" --to \"$COLUMN\" --position 0",
		"COMMENT_CARD: flowboard --output json card comment \"$CARD\" -b \"$BODY\"",
		"LINK_CARDS: flowboard --output json link add --card \"$CARD\" --target \"$TARGET\" --type blocks",
		"LIST_LINKS: flowboard --output json link ls --card \"$CARD\"",
		"BACKLOG: flowboard --output json backlog ls --project \"$PROJECT\" --priority P1 --sort points --desc",
		"BACKLOG_TO_SPRINT: flowboard --output json backlog to-sprint --project \"$PROJECT\" --sprint \"$SPRINT\" --cards \"$CARD1,$CARD2\"",
		"START_SPRINT: flowboard --output json sprint start \"$SPRINT\"",
		"SPRINT_METRICS: flowboard --output json sprint metrics \"$SPRINT\"",
		"NOTIFICATIONS: flowboard --output json notify ls --unread",
		"WATCH_ONCE: flowboard --output json watch --once",
		"",
		"RESPONSE SHAPES",
		"CREATE_CARD => {\"id\":\"<uuid>\",\"column_id\":\"<uuid>\",\"title\":\"Task\",\"priority\":\"P2\",\"position\":0}",
		"LIST_LINKS => [{\"link_id\":\"<uuid>\",\"direction\":\"incoming\",\"type\":\"blocked_by\",\"card\":{\"id\":\"<uuid>\",\"title\":\"Task\"}}]",
		"BATCH_RESULT => [{\"card_id\":\"<uuid>\",\"ok\":true},{\"card_id\":\"<uuid>\",\"ok\":false,\"error\":\"...\"}]",
		"WATCH_LINE => {\"unread_count\":2}",
		"",
		"ERROR SHAPE",
		"- backend JSON: {\"error\":\"<message>\"}.",
		"- CLI fallback JSON shape: {\"status\":<int>,\"error\":\"<message>\"}.",
		"",
		"SESSION SEMANTICS",
		"- tokens live in a YAML file at --session-path; `auth logout` removes it.",
		"- a 401 response clears the saved session; log in again.",
		"- `auth refresh` mints a new access token from the saved refresh token.",
		"",
		"LINK SEMANTICS",
		"- types: blocks | blocked_by | relates_to | duplicates | duplicated_by.",
		"- edges are stored directionally; `link ls` inverts the type on incoming edges.",
		"- creating the same edge twice is rejected.",
		"",
		"SPRINT RULES",
		"- states: planning -> active (sprint start) -> completed (sprint complete).",
		"- metrics: total_cards, completed_cards, total_story_points, completed_story_points, completion_percentage, days_remaining.",
		"",
		"NOTIFY RULES",
		"- assignments and comments notify affected users; your own actions never notify you.",
		"- `watch` polls the unread count every 30s by default.",
		"",
		"AI RULES",
		"- AI endpoints are off unless the server enables them; when off they answer 503.",
	}, "\n")
	_, _ = fmt.Fprintln(stdout, text)
	return nil
}
