package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/flowboardhq/flowboard/internal/model"
)

// CardListOptions filters Cards. Exactly one of ColumnID or BoardID must
// be set; the server rejects requests carrying neither.
type CardListOptions struct {
	ColumnID string
	BoardID  string
}

// Cards lists the cards of one column or one whole board.
func (c *Client) Cards(ctx context.Context, opts CardListOptions) ([]model.Card, error) {
	q := url.Values{}
	if opts.ColumnID != "" {
		q.Set("column_id", opts.ColumnID)
	}
	if opts.BoardID != "" {
		q.Set("board_id", opts.BoardID)
	}
	var out struct {
		Cards []model.Card `json:"cards"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/cards", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Cards, nil
}

// CreateCard creates a card at the bottom of a column.
func (c *Client) CreateCard(ctx context.Context, req CreateCardRequest) (model.Card, error) {
	if err := c.check(req); err != nil {
		return model.Card{}, err
	}
	var out struct {
		Card model.Card `json:"card"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/cards", nil, req, &out); err != nil {
		return model.Card{}, err
	}
	return out.Card, nil
}

// Card returns one card with its full details.
func (c *Client) Card(ctx context.Context, id string) (model.Card, error) {
	var out struct {
		Card model.Card `json:"card"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/cards/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return model.Card{}, err
	}
	return out.Card, nil
}

// UpdateCard updates a card's fields. Unset pointers leave the server
// value untouched.
func (c *Client) UpdateCard(ctx context.Context, id string, req UpdateCardRequest) (model.Card, error) {
	if err := c.check(req); err != nil {
		return model.Card{}, err
	}
	var out struct {
		Card model.Card `json:"card"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/cards/"+url.PathEscape(id), nil, req, &out); err != nil {
		return model.Card{}, err
	}
	return out.Card, nil
}

// DeleteCard deletes a card.
func (c *Client) DeleteCard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/cards/"+url.PathEscape(id), nil, nil, nil)
}

// MoveCard moves a card to a position inside a column on the same board.
func (c *Client) MoveCard(ctx context.Context, id string, req MoveCardRequest) (model.Card, error) {
	if err := c.check(req); err != nil {
		return model.Card{}, err
	}
	var out struct {
		Card model.Card `json:"card"`
	}
	path := "/api/cards/" + url.PathEscape(id) + "/move"
	if err := c.do(ctx, http.MethodPut, path, nil, req, &out); err != nil {
		return model.Card{}, err
	}
	return out.Card, nil
}

// AddComment appends a comment to a card.
func (c *Client) AddComment(ctx context.Context, cardID string, req CreateCommentRequest) (model.Comment, error) {
	if err := c.check(req); err != nil {
		return model.Comment{}, err
	}
	var out struct {
		Comment model.Comment `json:"comment"`
	}
	path := "/api/cards/" + url.PathEscape(cardID) + "/comments"
	if err := c.do(ctx, http.MethodPost, path, nil, req, &out); err != nil {
		return model.Comment{}, err
	}
	return out.Comment, nil
}

// AssignUser assigns a user to a card and returns the updated card.
func (c *Client) AssignUser(ctx context.Context, cardID, userID string) (model.Card, error) {
	body := map[string]string{"user_id": userID}
	var out struct {
		Card model.Card `json:"card"`
	}
	path := "/api/cards/" + url.PathEscape(cardID) + "/assignees"
	if err := c.do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		return model.Card{}, err
	}
	return out.Card, nil
}

// UnassignUser removes a user from a card and returns the updated card.
func (c *Client) UnassignUser(ctx context.Context, cardID, userID string) (model.Card, error) {
	var out struct {
		Card model.Card `json:"card"`
	}
	path := "/api/cards/" + url.PathEscape(cardID) + "/assignees/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, &out); err != nil {
		return model.Card{}, err
	}
	return out.Card, nil
}

// AddCardLabel attaches a label to a card and returns the updated card.
func (c *Client) AddCardLabel(ctx context.Context, cardID, labelID string) (model.Card, error) {
	body := map[string]string{"label_id": labelID}
	var out struct {
		Card model.Card `json:"card"`
	}
	path := "/api/cards/" + url.PathEscape(cardID) + "/labels"
	if err := c.do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		return model.Card{}, err
	}
	return out.Card, nil
}

// RemoveCardLabel detaches a label from a card and returns the updated
// card.
func (c *Client) RemoveCardLabel(ctx context.Context, cardID, labelID string) (model.Card, error) {
	var out struct {
		Card model.Card `json:"card"`
	}
	path := "/api/cards/" + url.PathEscape(cardID) + "/labels/" + url.PathEscape(labelID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, &out); err != nil {
		return model.Card{}, err
	}
	return out.Card, nil
}

// CardLinks groups a card's links by direction.
type CardLinks struct {
	Outgoing []model.CardLink `json:"outgoing_links"`
	Incoming []model.CardLink `json:"incoming_links"`
}

// Links returns a card's outgoing and incoming links.
func (c *Client) Links(ctx context.Context, cardID string) (CardLinks, error) {
	var out CardLinks
	path := "/api/cards/" + url.PathEscape(cardID) + "/links"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return CardLinks{}, err
	}
	return out, nil
}

// CreateLink links a card to a target card. Creating a link that already
// exists fails with an error matching ErrDuplicateLink.
func (c *Client) CreateLink(ctx context.Context, cardID string, req CreateLinkRequest) (model.CardLink, error) {
	if err := c.check(req); err != nil {
		return model.CardLink{}, err
	}
	var out struct {
		Link model.CardLink `json:"link"`
	}
	path := "/api/cards/" + url.PathEscape(cardID) + "/links"
	if err := c.do(ctx, http.MethodPost, path, nil, req, &out); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			return model.CardLink{}, &duplicateLinkError{apiErr: apiErr}
		}
		return model.CardLink{}, err
	}
	return out.Link, nil
}

// DeleteLink removes a link by its id.
func (c *Client) DeleteLink(ctx context.Context, linkID string) error {
	return c.do(ctx, http.MethodDelete, "/api/card-links/"+url.PathEscape(linkID), nil, nil, nil)
}
