package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/flowboardhq/flowboard/internal/model"
)

// SprintListOptions filters Sprints. Status narrows the list to one
// lifecycle state when set.
type SprintListOptions struct {
	ProjectID string
	Status    model.SprintStatus
}

// Sprints lists the sprints of one project.
func (c *Client) Sprints(ctx context.Context, opts SprintListOptions) ([]model.Sprint, error) {
	q := url.Values{"project_id": {opts.ProjectID}}
	if opts.Status != "" {
		q.Set("status", string(opts.Status))
	}
	var out struct {
		Sprints []model.Sprint `json:"sprints"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/sprints", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Sprints, nil
}

// CreateSprint creates a sprint in planning state.
func (c *Client) CreateSprint(ctx context.Context, req CreateSprintRequest) (model.Sprint, error) {
	if err := c.check(req); err != nil {
		return model.Sprint{}, err
	}
	var out struct {
		Sprint model.Sprint `json:"sprint"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/sprints", nil, req, &out); err != nil {
		return model.Sprint{}, err
	}
	return out.Sprint, nil
}

// Sprint returns one sprint with its cards.
func (c *Client) Sprint(ctx context.Context, id string) (model.Sprint, error) {
	var out struct {
		Sprint model.Sprint `json:"sprint"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/sprints/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return model.Sprint{}, err
	}
	return out.Sprint, nil
}

// UpdateSprint updates a sprint's name, goal or dates.
func (c *Client) UpdateSprint(ctx context.Context, id string, req UpdateSprintRequest) (model.Sprint, error) {
	var out struct {
		Sprint model.Sprint `json:"sprint"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/sprints/"+url.PathEscape(id), nil, req, &out); err != nil {
		return model.Sprint{}, err
	}
	return out.Sprint, nil
}

// DeleteSprint deletes a sprint. Its cards stay on their boards.
func (c *Client) DeleteSprint(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/sprints/"+url.PathEscape(id), nil, nil, nil)
}

// StartSprint activates a sprint in planning state. Only one sprint per
// project can be active at a time.
func (c *Client) StartSprint(ctx context.Context, id string) (model.Sprint, error) {
	var out struct {
		Sprint model.Sprint `json:"sprint"`
	}
	path := "/api/sprints/" + url.PathEscape(id) + "/start"
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &out); err != nil {
		return model.Sprint{}, err
	}
	return out.Sprint, nil
}

// CompleteSprint completes an active sprint.
func (c *Client) CompleteSprint(ctx context.Context, id string) (model.Sprint, error) {
	var out struct {
		Sprint model.Sprint `json:"sprint"`
	}
	path := "/api/sprints/" + url.PathEscape(id) + "/complete"
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &out); err != nil {
		return model.Sprint{}, err
	}
	return out.Sprint, nil
}

// AddSprintCard puts a card into a sprint and returns the sprint with
// its cards.
func (c *Client) AddSprintCard(ctx context.Context, sprintID, cardID string) (model.Sprint, error) {
	body := map[string]string{"card_id": cardID}
	var out struct {
		Sprint model.Sprint `json:"sprint"`
	}
	path := "/api/sprints/" + url.PathEscape(sprintID) + "/cards"
	if err := c.do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		return model.Sprint{}, err
	}
	return out.Sprint, nil
}

// RemoveSprintCard takes a card out of a sprint.
func (c *Client) RemoveSprintCard(ctx context.Context, sprintID, cardID string) error {
	path := "/api/sprints/" + url.PathEscape(sprintID) + "/cards/" + url.PathEscape(cardID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// SprintMetrics returns completion figures for one sprint.
func (c *Client) SprintMetrics(ctx context.Context, id string) (model.SprintMetrics, error) {
	var out struct {
		Metrics model.SprintMetrics `json:"metrics"`
	}
	path := "/api/sprints/" + url.PathEscape(id) + "/metrics"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return model.SprintMetrics{}, err
	}
	return out.Metrics, nil
}
