package model

import "time"

type NotificationType string

const (
	NotifyCardAssigned        NotificationType = "card_assigned"
	NotifyCardMentioned       NotificationType = "card_mentioned"
	NotifyCardCommented       NotificationType = "card_commented"
	NotifyCardDueSoon         NotificationType = "card_due_soon"
	NotifyCardOverdue         NotificationType = "card_overdue"
	NotifyCardMoved           NotificationType = "card_moved"
	NotifySprintStarted       NotificationType = "sprint_started"
	NotifySprintCompleted     NotificationType = "sprint_completed"
	NotifySprintEndingSoon    NotificationType = "sprint_ending_soon"
	NotifyAddedToProject      NotificationType = "added_to_project"
	NotifyAddedToOrganization NotificationType = "added_to_organization"
	NotifyCardBlocked         NotificationType = "card_blocked"
	NotifySubtaskCompleted    NotificationType = "subtask_completed"
)

type Notification struct {
	ID             string           `json:"id"`
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message,omitempty"`
	IsRead         bool             `json:"is_read"`
	CardID         string           `json:"card_id,omitempty"`
	ProjectID      string           `json:"project_id,omitempty"`
	SprintID       string           `json:"sprint_id,omitempty"`
	OrganizationID string           `json:"organization_id,omitempty"`
	ActorID        string           `json:"actor_id,omitempty"`
	Actor          *User            `json:"actor,omitempty"`
	ActionURL      string           `json:"action_url,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}
