package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/flowboardhq/flowboard/internal/model"
)

// NotificationQuery selects which notifications to list. Zero values
// mean the server defaults: all notifications, newest first, 50 per
// page.
type NotificationQuery struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

// NotificationList is one page of notifications with unread bookkeeping
// for the whole account.
type NotificationList struct {
	Notifications []model.Notification `json:"notifications"`
	Total         int                  `json:"total"`
	UnreadCount   int                  `json:"unread_count"`
}

// Notifications lists the user's notifications, newest first.
func (c *Client) Notifications(ctx context.Context, query NotificationQuery) (NotificationList, error) {
	q := url.Values{}
	if query.UnreadOnly {
		q.Set("unread_only", "true")
	}
	if query.Limit > 0 {
		q.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		q.Set("offset", strconv.Itoa(query.Offset))
	}
	var out NotificationList
	if err := c.do(ctx, http.MethodGet, "/api/notifications", q, nil, &out); err != nil {
		return NotificationList{}, err
	}
	return out, nil
}

// UnreadCount returns the number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		UnreadCount int `json:"unread_count"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/notifications/unread-count", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.UnreadCount, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) (model.Notification, error) {
	var out struct {
		Notification model.Notification `json:"notification"`
	}
	path := "/api/notifications/" + url.PathEscape(id) + "/read"
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &out); err != nil {
		return model.Notification{}, err
	}
	return out.Notification, nil
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/notifications/read-all", nil, nil, nil)
}

// DeleteNotification deletes one notification.
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/notifications/"+url.PathEscape(id), nil, nil, nil)
}

// ClearNotifications deletes every notification.
func (c *Client) ClearNotifications(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/notifications/clear-all", nil, nil, nil)
}
