package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/flowboardhq/flowboard/internal/model"
)

// Boards lists the boards of one project.
func (c *Client) Boards(ctx context.Context, projectID string) ([]model.Board, error) {
	q := url.Values{"project_id": {projectID}}
	var out struct {
		Boards []model.Board `json:"boards"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/boards", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Boards, nil
}

// CreateBoard creates a board with the server's default columns.
func (c *Client) CreateBoard(ctx context.Context, req CreateBoardRequest) (model.Board, error) {
	if err := c.check(req); err != nil {
		return model.Board{}, err
	}
	var out struct {
		Board model.Board `json:"board"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/boards", nil, req, &out); err != nil {
		return model.Board{}, err
	}
	return out.Board, nil
}

// Board returns one board with its columns and their cards.
func (c *Client) Board(ctx context.Context, id string) (model.Board, error) {
	var out struct {
		Board model.Board `json:"board"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/boards/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return model.Board{}, err
	}
	return out.Board, nil
}

// UpdateBoard renames a board.
func (c *Client) UpdateBoard(ctx context.Context, id string, req UpdateBoardRequest) (model.Board, error) {
	var out struct {
		Board model.Board `json:"board"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/boards/"+url.PathEscape(id), nil, req, &out); err != nil {
		return model.Board{}, err
	}
	return out.Board, nil
}

// DeleteBoard deletes a board with all of its columns and cards.
func (c *Client) DeleteBoard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/boards/"+url.PathEscape(id), nil, nil, nil)
}

// CreateColumn appends a column to the end of a board.
func (c *Client) CreateColumn(ctx context.Context, req CreateColumnRequest) (model.Column, error) {
	if err := c.check(req); err != nil {
		return model.Column{}, err
	}
	var out struct {
		Column model.Column `json:"column"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/columns", nil, req, &out); err != nil {
		return model.Column{}, err
	}
	return out.Column, nil
}

// Column returns one column with its cards.
func (c *Client) Column(ctx context.Context, id string) (model.Column, error) {
	var out struct {
		Column model.Column `json:"column"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/columns/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return model.Column{}, err
	}
	return out.Column, nil
}

// UpdateColumn updates a column's name, WIP limit or color.
func (c *Client) UpdateColumn(ctx context.Context, id string, req UpdateColumnRequest) (model.Column, error) {
	if err := c.check(req); err != nil {
		return model.Column{}, err
	}
	var out struct {
		Column model.Column `json:"column"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/columns/"+url.PathEscape(id), nil, req, &out); err != nil {
		return model.Column{}, err
	}
	return out.Column, nil
}

// DeleteColumn deletes an empty column. The server refuses to delete a
// column that still holds cards.
func (c *Client) DeleteColumn(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/columns/"+url.PathEscape(id), nil, nil, nil)
}

// ReorderColumns applies a full left-to-right ordering to a board's
// columns and returns them with their new positions.
func (c *Client) ReorderColumns(ctx context.Context, req ReorderColumnsRequest) ([]model.Column, error) {
	if err := c.check(req); err != nil {
		return nil, err
	}
	var out struct {
		Columns []model.Column `json:"columns"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/columns/reorder", nil, req, &out); err != nil {
		return nil, err
	}
	return out.Columns, nil
}

// Labels lists the labels available on a board.
func (c *Client) Labels(ctx context.Context, boardID string) ([]model.Label, error) {
	q := url.Values{"board_id": {boardID}}
	var out struct {
		Labels []model.Label `json:"labels"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/labels", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Labels, nil
}

// CreateLabel creates a label on a board.
func (c *Client) CreateLabel(ctx context.Context, req CreateLabelRequest) (model.Label, error) {
	if err := c.check(req); err != nil {
		return model.Label{}, err
	}
	var out struct {
		Label model.Label `json:"label"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/labels", nil, req, &out); err != nil {
		return model.Label{}, err
	}
	return out.Label, nil
}

// UpdateLabel updates a label's name or color.
func (c *Client) UpdateLabel(ctx context.Context, id string, req UpdateLabelRequest) (model.Label, error) {
	var out struct {
		Label model.Label `json:"label"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/labels/"+url.PathEscape(id), nil, req, &out); err != nil {
		return model.Label{}, err
	}
	return out.Label, nil
}

// DeleteLabel deletes a label and removes it from every card.
func (c *Client) DeleteLabel(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/labels/"+url.PathEscape(id), nil, nil, nil)
}

// Templates lists the built-in board templates.
func (c *Client) Templates(ctx context.Context) ([]model.BoardTemplate, error) {
	var out struct {
		Templates []model.BoardTemplate `json:"templates"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/templates", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Templates, nil
}

// Template returns one template with its full column layout.
func (c *Client) Template(ctx context.Context, id string) (model.BoardTemplate, error) {
	var out struct {
		Template model.BoardTemplate `json:"template"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/templates/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return model.BoardTemplate{}, err
	}
	return out.Template, nil
}

// ApplyTemplate creates a board in a project from a template.
func (c *Client) ApplyTemplate(ctx context.Context, id string, req ApplyTemplateRequest) (model.Board, error) {
	if err := c.check(req); err != nil {
		return model.Board{}, err
	}
	var out struct {
		Board model.Board `json:"board"`
	}
	path := "/api/templates/" + url.PathEscape(id) + "/apply"
	if err := c.do(ctx, http.MethodPost, path, nil, req, &out); err != nil {
		return model.Board{}, err
	}
	return out.Board, nil
}
