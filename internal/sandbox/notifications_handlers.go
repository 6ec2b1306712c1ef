package sandbox

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flowboardhq/flowboard/internal/model"
)

func (s *Server) registerNotificationOperations() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotifications",
		Method:      http.MethodGet,
		Path:        "/api/notifications",
		Summary:     "List the user's notifications, newest first",
	}, s.listNotifications)

	huma.Register(s.api, huma.Operation{
		OperationID: "unreadCount",
		Method:      http.MethodGet,
		Path:        "/api/notifications/unread-count",
		Summary:     "Count unread notifications",
	}, s.unreadCount)

	huma.Register(s.api, huma.Operation{
		OperationID: "markNotificationRead",
		Method:      http.MethodPost,
		Path:        "/api/notifications/{id}/read",
		Summary:     "Mark a notification as read",
		Errors:      []int{http.StatusNotFound},
	}, s.markNotificationRead)

	huma.Register(s.api, huma.Operation{
		OperationID: "markAllNotificationsRead",
		Method:      http.MethodPost,
		Path:        "/api/notifications/read-all",
		Summary:     "Mark every notification as read",
	}, s.markAllNotificationsRead)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteNotification",
		Method:      http.MethodDelete,
		Path:        "/api/notifications/{id}",
		Summary:     "Delete a notification",
		Errors:      []int{http.StatusNotFound},
	}, s.deleteNotification)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearNotifications",
		Method:      http.MethodDelete,
		Path:        "/api/notifications/clear-all",
		Summary:     "Delete every notification",
	}, s.clearNotifications)
}

type listNotificationsInput struct {
	UnreadOnly bool `query:"unread_only"`
	Limit      int  `query:"limit"`
	Offset     int  `query:"offset"`
}

type notificationsOutput struct {
	Body struct {
		Notifications []model.Notification `json:"notifications"`
		Total         int                  `json:"total"`
		UnreadCount   int                  `json:"unread_count"`
	}
}

func (s *Server) listNotifications(ctx context.Context, input *listNotificationsInput) (*notificationsOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	userID := userIDFrom(ctx)
	all := s.data.notifications[userID]

	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	// Stored oldest first; walk backwards for newest first.
	var matched []*model.Notification
	for i := len(all) - 1; i >= 0; i-- {
		if input.UnreadOnly && all[i].IsRead {
			continue
		}
		matched = append(matched, all[i])
	}

	out := &notificationsOutput{}
	out.Body.Total = len(matched)
	out.Body.Notifications = []model.Notification{}
	for i := offset; i < len(matched) && len(out.Body.Notifications) < limit; i++ {
		out.Body.Notifications = append(out.Body.Notifications, s.data.renderNotification(matched[i]))
	}
	out.Body.UnreadCount = s.data.countUnread(userID)
	return out, nil
}

type unreadCountOutput struct {
	Body struct {
		UnreadCount int `json:"unread_count"`
	}
}

func (s *Server) unreadCount(ctx context.Context, _ *struct{}) (*unreadCountOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	out := &unreadCountOutput{}
	out.Body.UnreadCount = s.data.countUnread(userIDFrom(ctx))
	return out, nil
}

type notificationPathInput struct {
	ID string `path:"id"`
}

type notificationOutput struct {
	Body struct {
		Notification model.Notification `json:"notification"`
	}
}

func (s *Server) markNotificationRead(ctx context.Context, input *notificationPathInput) (*notificationOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	n := s.data.findNotification(userIDFrom(ctx), input.ID)
	if n == nil {
		return nil, errNotFound("Notification not found")
	}
	n.IsRead = true

	out := &notificationOutput{}
	out.Body.Notification = s.data.renderNotification(n)
	return out, nil
}

func (s *Server) markAllNotificationsRead(ctx context.Context, _ *struct{}) (*messageOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	for _, n := range s.data.notifications[userIDFrom(ctx)] {
		n.IsRead = true
	}
	return messageResponse("All notifications marked as read"), nil
}

func (s *Server) deleteNotification(ctx context.Context, input *notificationPathInput) (*messageOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	userID := userIDFrom(ctx)
	list := s.data.notifications[userID]
	for i, n := range list {
		if n.ID == input.ID {
			s.data.notifications[userID] = append(list[:i], list[i+1:]...)
			return messageResponse("Notification deleted"), nil
		}
	}
	return nil, errNotFound("Notification not found")
}

func (s *Server) clearNotifications(ctx context.Context, _ *struct{}) (*messageOutput, error) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	delete(s.data.notifications, userIDFrom(ctx))
	return messageResponse("All notifications cleared"), nil
}
