package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// AIEnabled reports whether the server has AI features switched on.
func (c *Client) AIEnabled(ctx context.Context) (bool, error) {
	var out struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/ai/status", nil, nil, &out); err != nil {
		return false, err
	}
	return out.Enabled, nil
}

// CardSuggestions asks the server's model for improvement suggestions on
// one card. The shape of the suggestions is decided by the server, so
// the payload passes through undecoded.
func (c *Client) CardSuggestions(ctx context.Context, cardID string) (json.RawMessage, error) {
	var out struct {
		Suggestions json.RawMessage `json:"suggestions"`
	}
	path := "/api/ai/card/" + url.PathEscape(cardID) + "/suggestions"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

// GroomBacklog asks the server's model to groom a project backlog.
func (c *Client) GroomBacklog(ctx context.Context, projectID string) (json.RawMessage, error) {
	body := map[string]string{"project_id": projectID}
	var out struct {
		Grooming json.RawMessage `json:"grooming"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/ai/backlog/groom", nil, body, &out); err != nil {
		return nil, err
	}
	return out.Grooming, nil
}

// SprintGoal asks the server's model to draft a sprint goal from a set
// of cards.
func (c *Client) SprintGoal(ctx context.Context, req SprintGoalRequest) (string, error) {
	if err := c.check(req); err != nil {
		return "", err
	}
	var out struct {
		Goal string `json:"goal"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/ai/sprint/goal", nil, req, &out); err != nil {
		return "", err
	}
	return out.Goal, nil
}
