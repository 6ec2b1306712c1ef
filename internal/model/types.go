package model

import (
	"time"

	"github.com/oapi-codegen/runtime/types"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type Workspace struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
}

type Project struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Board struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"project_id"`
	OrganizationID string    `json:"organization_id,omitempty"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
	Columns        []Column  `json:"columns,omitempty"`
}

type Column struct {
	ID             string `json:"id"`
	BoardID        string `json:"board_id"`
	Name           string `json:"name"`
	Position       int    `json:"position"`
	WipLimit       int    `json:"wip_limit,omitempty"`
	Color          string `json:"color,omitempty"`
	CardCount      int    `json:"card_count"`
	IsOverWipLimit bool   `json:"is_over_wip_limit"`
	Cards          []Card `json:"cards,omitempty"`
}

type Card struct {
	ID            string      `json:"id"`
	ColumnID      string      `json:"column_id"`
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	Priority      Priority    `json:"priority,omitempty"`
	StoryPoints   int         `json:"story_points,omitempty"`
	TimeEstimate  int         `json:"time_estimate,omitempty"`
	DueDate       *types.Date `json:"due_date,omitempty"`
	Position      int         `json:"position"`
	CreatedBy     string      `json:"created_by,omitempty"`
	CreatedByUser *User       `json:"created_by_user,omitempty"`
	Assignees     []Assignee  `json:"assignees,omitempty"`
	Labels        []CardLabel `json:"labels,omitempty"`
	Comments      []Comment   `json:"comments,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type Assignee struct {
	UserID string `json:"user_id"`
	User   *User  `json:"user,omitempty"`
}

type Label struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
}

type CardLabel struct {
	LabelID string `json:"label_id"`
	Label   *Label `json:"label,omitempty"`
}

type Comment struct {
	ID        string    `json:"id"`
	CardID    string    `json:"card_id"`
	UserID    string    `json:"user_id"`
	User      *User     `json:"user,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type SprintStatus string

const (
	SprintPlanning  SprintStatus = "planning"
	SprintActive    SprintStatus = "active"
	SprintCompleted SprintStatus = "completed"
)

type Sprint struct {
	ID        string       `json:"id"`
	ProjectID string       `json:"project_id"`
	Name      string       `json:"name"`
	Goal      string       `json:"goal,omitempty"`
	StartDate types.Date   `json:"start_date"`
	EndDate   types.Date   `json:"end_date"`
	Status    SprintStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	Cards     []Card       `json:"cards,omitempty"`
}

type SprintMetrics struct {
	TotalCards           int     `json:"total_cards"`
	CompletedCards       int     `json:"completed_cards"`
	TotalStoryPoints     int     `json:"total_story_points"`
	CompletedStoryPoints int     `json:"completed_story_points"`
	CompletionPercentage float64 `json:"completion_percentage"`
	DaysRemaining        int     `json:"days_remaining"`
}

type Member struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	UserID         string `json:"user_id"`
	Role           string `json:"role"`
	User           *User  `json:"user,omitempty"`
}

// BoardTemplate is the list-view shape; Columns is populated on detail fetch.
type BoardTemplate struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Icon           string           `json:"icon"`
	ColumnCount    int              `json:"column_count,omitempty"`
	ColumnsPreview []string         `json:"columns_preview,omitempty"`
	Columns        []TemplateColumn `json:"columns,omitempty"`
}

type TemplateColumn struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
	Color    string `json:"color,omitempty"`
	WipLimit int    `json:"wip_limit,omitempty"`
}

// Clone deep-copies the board tree so callers can hand out snapshots
// without sharing column/card slices.
func (b Board) Clone() Board {
	out := b
	if b.Columns != nil {
		out.Columns = make([]Column, len(b.Columns))
		for i, col := range b.Columns {
			out.Columns[i] = col.Clone()
		}
	}
	return out
}

func (c Column) Clone() Column {
	out := c
	if c.Cards != nil {
		out.Cards = make([]Card, len(c.Cards))
		for i, card := range c.Cards {
			out.Cards[i] = card.Clone()
		}
	}
	return out
}

func (c Card) Clone() Card {
	out := c
	if c.DueDate != nil {
		due := *c.DueDate
		out.DueDate = &due
	}
	if c.CreatedByUser != nil {
		user := *c.CreatedByUser
		out.CreatedByUser = &user
	}
	out.Assignees = append([]Assignee(nil), c.Assignees...)
	out.Labels = append([]CardLabel(nil), c.Labels...)
	out.Comments = append([]Comment(nil), c.Comments...)
	return out
}
