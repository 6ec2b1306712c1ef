package sandbox_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowboardhq/flowboard/internal/sandbox"
)

func TestCardNotificationFanOut(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t, sandbox.Options{})
	actorToken, actorID := registerTestUser(t, httpServer.URL, "dana@example.com", "Dana Developer")
	teammateToken, teammateID := registerTestUser(t, httpServer.URL, "sam@example.com", "Sam Staff")
	fixture := setupBoard(t, httpServer.URL, actorToken, "Acme Rockets")
	cardID := newCard(t, httpServer.URL, actorToken, fixture.Columns["Backlog"], "Ship the changelog")["id"].(string)

	assignResp := doAuthJSON(t, httpServer.URL+"/api/cards/"+cardID+"/assignees", http.MethodPost, actorToken, map[string]string{
		"user_id": teammateID,
	})
	require.Equal(t, http.StatusOK, assignResp.StatusCode)

	listResp := doAuthJSON(t, httpServer.URL+"/api/notifications", http.MethodGet, teammateToken, nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	feed := decodeMap(t, listResp.Body)
	require.EqualValues(t, 1, feed["total"])
	require.EqualValues(t, 1, feed["unread_count"])
	assigned := feed["notifications"].([]any)[0].(map[string]any)
	require.Equal(t, "card_assigned", assigned["type"])
	require.Equal(t, `You've been assigned to "Ship the changelog"`, assigned["title"])
	require.Equal(t, "Dana Developer assigned you to this card.", assigned["message"])
	require.Equal(t, cardID, assigned["card_id"])
	require.Equal(t, fixture.ProjectID, assigned["project_id"])
	require.Equal(t, "/board/"+fixture.BoardID, assigned["action_url"])
	require.Equal(t, false, assigned["is_read"])
	require.Equal(t, actorID, assigned["actor_id"])
	require.Equal(t, "Dana Developer", assigned["actor"].(map[string]any)["full_name"])

	// Long comments are previewed; the creator is the commenter here,
	// so only the assignee hears about it.
	longComment := strings.Repeat("a", 120)
	commentResp := doAuthJSON(t, httpServer.URL+"/api/cards/"+cardID+"/comments", http.MethodPost, actorToken, map[string]string{
		"content": longComment,
	})
	require.Equal(t, http.StatusCreated, commentResp.StatusCode)

	moveResp := doAuthJSON(t, httpServer.URL+"/api/cards/"+cardID+"/move", http.MethodPut, actorToken, map[string]any{
		"column_id": fixture.Columns["To Do"],
		"position":  0,
	})
	require.Equal(t, http.StatusOK, moveResp.StatusCode)

	// A reposition inside the same column is not news.
	repositionResp := doAuthJSON(t, httpServer.URL+"/api/cards/"+cardID+"/move", http.MethodPut, actorToken, map[string]any{
		"column_id": fixture.Columns["To Do"],
		"position":  1,
	})
	require.Equal(t, http.StatusOK, repositionResp.StatusCode)

	afterResp := doAuthJSON(t, httpServer.URL+"/api/notifications", http.MethodGet, teammateToken, nil)
	require.Equal(t, http.StatusOK, afterResp.StatusCode)
	after := decodeMap(t, afterResp.Body)
	require.EqualValues(t, 3, after["total"])
	items := after["notifications"].([]any)

	moved := items[0].(map[string]any)
	require.Equal(t, "card_moved", moved["type"])
	require.Equal(t, `"Ship the changelog" moved to To Do`, moved["title"])
	require.Equal(t, "Dana Developer moved this card from Backlog.", moved["message"])

	commented := items[1].(map[string]any)
	require.Equal(t, "card_commented", commented["type"])
	require.Equal(t, `New comment on "Ship the changelog"`, commented["title"])
	require.Equal(t, fmt.Sprintf("Dana Developer: %s...", strings.Repeat("a", 100)), commented["message"])

	// The actor's own feed stays empty: self-assignments and own
	// actions never notify.
	selfAssignResp := doAuthJSON(t, httpServer.URL+"/api/cards/"+cardID+"/assignees", http.MethodPost, actorToken, map[string]string{
		"user_id": actorID,
	})
	require.Equal(t, http.StatusOK, selfAssignResp.StatusCode)

	actorFeedResp := doAuthJSON(t, httpServer.URL+"/api/notifications", http.MethodGet, actorToken, nil)
	require.Equal(t, http.StatusOK, actorFeedResp.StatusCode)
	require.EqualValues(t, 0, decodeMap(t, actorFeedResp.Body)["total"])
}

func TestNotificationPaginationAndReadState(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t, sandbox.Options{})
	actorToken, _ := registerTestUser(t, httpServer.URL, "dana@example.com", "Dana Developer")
	teammateToken, teammateID := registerTestUser(t, httpServer.URL, "sam@example.com", "Sam Staff")
	fixture := setupBoard(t, httpServer.URL, actorToken, "Acme Rockets")

	for i := 1; i <= 5; i++ {
		cardID := newCard(t, httpServer.URL, actorToken, fixture.Columns["Backlog"], fmt.Sprintf("Task %d", i))["id"].(string)
		resp := doAuthJSON(t, httpServer.URL+"/api/cards/"+cardID+"/assignees", http.MethodPost, actorToken, map[string]string{
			"user_id": teammateID,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	pageResp := doAuthJSON(t, httpServer.URL+"/api/notifications?limit=2", http.MethodGet, teammateToken, nil)
	require.Equal(t, http.StatusOK, pageResp.StatusCode)
	page := decodeMap(t, pageResp.Body)
	require.EqualValues(t, 5, page["total"])
	require.EqualValues(t, 5, page["unread_count"])
	items := page["notifications"].([]any)
	require.Len(t, items, 2)
	require.Equal(t, `You've been assigned to "Task 5"`, items[0].(map[string]any)["title"])
	require.Equal(t, `You've been assigned to "Task 4"`, items[1].(map[string]any)["title"])

	tailResp := doAuthJSON(t, httpServer.URL+"/api/notifications?limit=2&offset=4", http.MethodGet, teammateToken, nil)
	require.Equal(t, http.StatusOK, tailResp.StatusCode)
	tail := decodeMap(t, tailResp.Body)["notifications"].([]any)
	require.Len(t, tail, 1)
	require.Equal(t, `You've been assigned to "Task 1"`, tail[0].(map[string]any)["title"])

	fullResp := doAuthJSON(t, httpServer.URL+"/api/notifications", http.MethodGet, teammateToken, nil)
	require.Equal(t, http.StatusOK, fullResp.StatusCode)
	full := decodeMap(t, fullResp.Body)["notifications"].([]any)
	require.Len(t, full, 5)
	thirdID := full[2].(map[string]any)["id"].(string)

	readResp := doAuthJSON(t, httpServer.URL+"/api/notifications/"+thirdID+"/read", http.MethodPut, teammateToken, nil)
	require.Equal(t, http.StatusOK, readResp.StatusCode)
	require.Equal(t, true, decodeMap(t, readResp.Body)["notification"].(map[string]any)["is_read"])

	countResp := doAuthJSON(t, httpServer.URL+"/api/notifications/unread-count", http.MethodGet, teammateToken, nil)
	require.Equal(t, http.StatusOK, countResp.StatusCode)
	require.EqualValues(t, 4, decodeMap(t, countResp.Body)["unread_count"])

	unreadResp := doAuthJSON(t, httpServer.URL+"/api/notifications?unread_only=true", http.MethodGet, teammateToken, nil)
	require.Equal(t, http.StatusOK, unreadResp.StatusCode)
	unread := decodeMap(t, unreadResp.Body)
	require.EqualValues(t, 4, unread["total"])
	require.Len(t, unread["notifications"].([]any), 4)

	readAllResp := doAuthJSON(t, httpServer.URL+"/api/notifications/read-all", http.MethodPut, teammateToken, nil)
	require.Equal(t, http.StatusOK, readAllResp.StatusCode)
	require.Equal(t, "All notifications marked as read", decodeMap(t, readAllResp.Body)["message"])

	afterReadAllResp := doAuthJSON(t, httpServer.URL+"/api/notifications/unread-count", http.MethodGet, teammateToken, nil)
	require.Equal(t, http.StatusOK, afterReadAllResp.StatusCode)
	require.EqualValues(t, 0, decodeMap(t, afterReadAllResp.Body)["unread_count"])

	deleteResp := doAuthJSON(t, httpServer.URL+"/api/notifications/"+thirdID, http.MethodDelete, teammateToken, nil)
	require.Equal(t, http.StatusOK, deleteResp.StatusCode)
	require.Equal(t, "Notification deleted", decodeMap(t, deleteResp.Body)["message"])

	deletedAgainResp := doAuthJSON(t, httpServer.URL+"/api/notifications/"+thirdID, http.MethodDelete, teammateToken, nil)
	require.Equal(t, http.StatusNotFound, deletedAgainResp.StatusCode)
	require.Equal(t, "Notification not found", errorMessage(t, deletedAgainResp))

	clearResp := doAuthJSON(t, httpServer.URL+"/api/notifications/clear-all", http.MethodDelete, teammateToken, nil)
	require.Equal(t, http.StatusOK, clearResp.StatusCode)
	require.Equal(t, "All notifications cleared", decodeMap(t, clearResp.Body)["message"])

	emptyResp := doAuthJSON(t, httpServer.URL+"/api/notifications", http.MethodGet, teammateToken, nil)
	require.Equal(t, http.StatusOK, emptyResp.StatusCode)
	empty := decodeMap(t, emptyResp.Body)
	require.EqualValues(t, 0, empty["total"])
	require.Empty(t, empty["notifications"])
}

func TestSprintNotificationsReachAssigneesOnce(t *testing.T) {
	t.Parallel()

	httpServer := newTestServer(t, sandbox.Options{})
	actorToken, _ := registerTestUser(t, httpServer.URL, "dana@example.com", "Dana Developer")
	teammateToken, teammateID := registerTestUser(t, httpServer.URL, "sam@example.com", "Sam Staff")
	fixture := setupBoard(t, httpServer.URL, actorToken, "Acme Rockets")

	sprintID := createSprint(t, httpServer.URL, actorToken, fixture.ProjectID, "Sprint 9", "2026-08-24", "2026-09-07")["id"].(string)
	for _, title := range []string{"First sprint card", "Second sprint card"} {
		cardID := newCard(t, httpServer.URL, actorToken, fixture.Columns["To Do"], title)["id"].(string)
		assignResp := doAuthJSON(t, httpServer.URL+"/api/cards/"+cardID+"/assignees", http.MethodPost, actorToken, map[string]string{
			"user_id": teammateID,
		})
		require.Equal(t, http.StatusOK, assignResp.StatusCode)
		addResp := doAuthJSON(t, httpServer.URL+"/api/sprints/"+sprintID+"/cards", http.MethodPost, actorToken, map[string]string{
			"card_id": cardID,
		})
		require.Equal(t, http.StatusOK, addResp.StatusCode)
	}

	startResp := doAuthJSON(t, httpServer.URL+"/api/sprints/"+sprintID+"/start", http.MethodPost, actorToken, nil)
	require.Equal(t, http.StatusOK, startResp.StatusCode)
	completeResp := doAuthJSON(t, httpServer.URL+"/api/sprints/"+sprintID+"/complete", http.MethodPost, actorToken, nil)
	require.Equal(t, http.StatusOK, completeResp.StatusCode)

	feedResp := doAuthJSON(t, httpServer.URL+"/api/notifications", http.MethodGet, teammateToken, nil)
	require.Equal(t, http.StatusOK, feedResp.StatusCode)
	feed := decodeMap(t, feedResp.Body)
	// Two assignments plus one start and one completion; both sprint
	// events are deduplicated across the two assigned cards.
	require.EqualValues(t, 4, feed["total"])

	items := feed["notifications"].([]any)
	completed := items[0].(map[string]any)
	require.Equal(t, "sprint_completed", completed["type"])
	require.Equal(t, `Sprint "Sprint 9" completed!`, completed["title"])
	require.Equal(t, "Dana Developer marked the sprint as completed.", completed["message"])
	require.Equal(t, fmt.Sprintf("/project/%s/sprints/%s", fixture.ProjectID, sprintID), completed["action_url"])
	require.Equal(t, sprintID, completed["sprint_id"])

	started := items[1].(map[string]any)
	require.Equal(t, "sprint_started", started["type"])
	require.Equal(t, `Sprint "Sprint 9" has started!`, started["title"])
	require.Equal(t, "Dana Developer started the sprint. You have cards assigned in this sprint.", started["message"])
}
