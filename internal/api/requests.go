package api

import (
	"github.com/oapi-codegen/runtime/types"

	"github.com/flowboardhq/flowboard/internal/model"
)

// Request payloads. Validate tags mirror the server's own rules so bad
// input fails locally with a *ValidationError instead of a round trip.

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateOrganizationRequest struct {
	Name string `json:"name" validate:"required,max=255"`
	Slug string `json:"slug,omitempty"`
}

type UpdateOrganizationRequest struct {
	Name *string `json:"name,omitempty"`
}

type CreateWorkspaceRequest struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	Name           string `json:"name" validate:"required,max=255"`
}

type UpdateWorkspaceRequest struct {
	Name *string `json:"name,omitempty"`
}

type CreateProjectRequest struct {
	WorkspaceID string `json:"workspace_id" validate:"required"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description,omitempty"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type CreateBoardRequest struct {
	ProjectID string `json:"project_id" validate:"required"`
	Name      string `json:"name" validate:"required,max=255"`
}

type UpdateBoardRequest struct {
	Name *string `json:"name,omitempty"`
}

type CreateColumnRequest struct {
	BoardID  string `json:"board_id" validate:"required"`
	Name     string `json:"name" validate:"required,max=100"`
	WipLimit *int   `json:"wip_limit,omitempty" validate:"omitempty,min=0"`
	Color    string `json:"color,omitempty"`
}

type UpdateColumnRequest struct {
	Name     *string `json:"name,omitempty"`
	WipLimit *int    `json:"wip_limit,omitempty" validate:"omitempty,min=0"`
	Color    *string `json:"color,omitempty"`
}

type ReorderColumnsRequest struct {
	ColumnIDs []string `json:"column_ids" validate:"required,min=1"`
}

type CreateCardRequest struct {
	ColumnID     string         `json:"column_id" validate:"required"`
	Title        string         `json:"title" validate:"required,max=500"`
	Description  string         `json:"description,omitempty"`
	Priority     model.Priority `json:"priority,omitempty" validate:"omitempty,oneof=P0 P1 P2 P3 P4"`
	StoryPoints  *int           `json:"story_points,omitempty" validate:"omitempty,min=0"`
	TimeEstimate *int           `json:"time_estimate,omitempty" validate:"omitempty,min=0"`
	DueDate      *types.Date    `json:"due_date,omitempty"`
}

type UpdateCardRequest struct {
	Title        *string         `json:"title,omitempty" validate:"omitempty,max=500"`
	Description  *string         `json:"description,omitempty"`
	Priority     *model.Priority `json:"priority,omitempty" validate:"omitempty,oneof=P0 P1 P2 P3 P4"`
	StoryPoints  *int            `json:"story_points,omitempty" validate:"omitempty,min=0"`
	TimeEstimate *int            `json:"time_estimate,omitempty" validate:"omitempty,min=0"`
	DueDate      *types.Date     `json:"due_date,omitempty"`
}

type MoveCardRequest struct {
	ColumnID string `json:"column_id" validate:"required"`
	Position int    `json:"position" validate:"min=0"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

type CreateLinkRequest struct {
	TargetCardID string         `json:"target_card_id" validate:"required"`
	LinkType     model.LinkType `json:"link_type" validate:"required,oneof=blocks blocked_by relates_to duplicates duplicated_by"`
}

type CreateLabelRequest struct {
	BoardID string `json:"board_id" validate:"required"`
	Name    string `json:"name" validate:"required,max=100"`
	Color   string `json:"color,omitempty"`
}

type UpdateLabelRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

type CreateSprintRequest struct {
	ProjectID string     `json:"project_id" validate:"required"`
	Name      string     `json:"name" validate:"required,max=255"`
	Goal      string     `json:"goal,omitempty"`
	StartDate types.Date `json:"start_date" validate:"required"`
	EndDate   types.Date `json:"end_date" validate:"required"`
}

type UpdateSprintRequest struct {
	Name      *string     `json:"name,omitempty"`
	Goal      *string     `json:"goal,omitempty"`
	StartDate *types.Date `json:"start_date,omitempty"`
	EndDate   *types.Date `json:"end_date,omitempty"`
}

type ApplyTemplateRequest struct {
	ProjectID string `json:"project_id" validate:"required"`
	Name      string `json:"name,omitempty"`
}

type SprintGoalRequest struct {
	CardIDs        []string `json:"card_ids" validate:"required,min=1"`
	ProjectContext string   `json:"project_context,omitempty"`
}
