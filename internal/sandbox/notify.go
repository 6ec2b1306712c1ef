package sandbox

import (
	"fmt"

	"github.com/flowboardhq/flowboard/internal/model"
)

// Notification fan-out. Callers hold mu.

func (d *dataset) actorName(userID string) string {
	rec, ok := d.users[userID]
	if !ok {
		return "Someone"
	}
	if rec.user.FullName != "" {
		return rec.user.FullName
	}
	return rec.user.Email
}

func (d *dataset) cardNotifyTarget(rec *cardRec) (projectID, actionURL string) {
	board := d.cardBoard(rec)
	if board == nil {
		return "", ""
	}
	return board.ProjectID, "/board/" + board.ID
}

func (d *dataset) notifyCardAssigned(rec *cardRec, assigneeID, actorID string) {
	if assigneeID == actorID {
		return
	}
	projectID, actionURL := d.cardNotifyTarget(rec)
	d.pushNotification(assigneeID, model.Notification{
		Type:      model.NotifyCardAssigned,
		Title:     fmt.Sprintf("You've been assigned to %q", rec.card.Title),
		Message:   fmt.Sprintf("%s assigned you to this card.", d.actorName(actorID)),
		CardID:    rec.card.ID,
		ProjectID: projectID,
		ActorID:   actorID,
		ActionURL: actionURL,
	})
}

// notifyCardCommented reaches the card's creator and assignees, each at
// most once, never the commenter.
func (d *dataset) notifyCardCommented(rec *cardRec, commenterID, commentText string) {
	projectID, actionURL := d.cardNotifyTarget(rec)

	preview := commentText
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	build := func() model.Notification {
		return model.Notification{
			Type:      model.NotifyCardCommented,
			Title:     fmt.Sprintf("New comment on %q", rec.card.Title),
			Message:   fmt.Sprintf("%s: %s", d.actorName(commenterID), preview),
			CardID:    rec.card.ID,
			ProjectID: projectID,
			ActorID:   commenterID,
			ActionURL: actionURL,
		}
	}

	notified := map[string]bool{commenterID: true}
	if rec.card.CreatedBy != "" && !notified[rec.card.CreatedBy] {
		d.pushNotification(rec.card.CreatedBy, build())
		notified[rec.card.CreatedBy] = true
	}
	for _, assigneeID := range rec.assigneeIDs {
		if notified[assigneeID] {
			continue
		}
		d.pushNotification(assigneeID, build())
		notified[assigneeID] = true
	}
}

func (d *dataset) notifyCardMoved(rec *cardRec, fromColumn, toColumn, actorID string) {
	projectID, actionURL := d.cardNotifyTarget(rec)
	for _, assigneeID := range rec.assigneeIDs {
		if assigneeID == actorID {
			continue
		}
		d.pushNotification(assigneeID, model.Notification{
			Type:      model.NotifyCardMoved,
			Title:     fmt.Sprintf("%q moved to %s", rec.card.Title, toColumn),
			Message:   fmt.Sprintf("%s moved this card from %s.", d.actorName(actorID), fromColumn),
			CardID:    rec.card.ID,
			ProjectID: projectID,
			ActorID:   actorID,
			ActionURL: actionURL,
		})
	}
}

// notifySprint reaches every assignee of every card in the sprint, each
// at most once, never the actor.
func (d *dataset) notifySprint(sprint *model.Sprint, actorID string, build func() model.Notification) {
	notified := map[string]bool{actorID: true}
	for _, cardID := range d.sprintCards[sprint.ID] {
		rec, ok := d.cards[cardID]
		if !ok {
			continue
		}
		for _, assigneeID := range rec.assigneeIDs {
			if notified[assigneeID] {
				continue
			}
			d.pushNotification(assigneeID, build())
			notified[assigneeID] = true
		}
	}
}

func (d *dataset) notifySprintStarted(sprint *model.Sprint, actorID string) {
	d.notifySprint(sprint, actorID, func() model.Notification {
		return model.Notification{
			Type:      model.NotifySprintStarted,
			Title:     fmt.Sprintf("Sprint %q has started!", sprint.Name),
			Message:   fmt.Sprintf("%s started the sprint. You have cards assigned in this sprint.", d.actorName(actorID)),
			SprintID:  sprint.ID,
			ProjectID: sprint.ProjectID,
			ActorID:   actorID,
			ActionURL: fmt.Sprintf("/project/%s/sprints/%s", sprint.ProjectID, sprint.ID),
		}
	})
}

func (d *dataset) notifySprintCompleted(sprint *model.Sprint, actorID string) {
	d.notifySprint(sprint, actorID, func() model.Notification {
		return model.Notification{
			Type:      model.NotifySprintCompleted,
			Title:     fmt.Sprintf("Sprint %q completed!", sprint.Name),
			Message:   fmt.Sprintf("%s marked the sprint as completed.", d.actorName(actorID)),
			SprintID:  sprint.ID,
			ProjectID: sprint.ProjectID,
			ActorID:   actorID,
			ActionURL: fmt.Sprintf("/project/%s/sprints/%s", sprint.ProjectID, sprint.ID),
		}
	})
}
