package dto

import (
	"time"

	"sitedesk/internal/application/notification/usecases"
)

type NotificationResponse struct {
	ID        uint      `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message,omitempty"`
	TicketID  *uint     `json:"ticket_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	UnreadCount   int64                   `json:"unread_count"`
}

func NotificationListResponseFromResult(result *usecases.ListNotificationsResult) *NotificationListResponse {
	items := make([]*NotificationResponse, 0, len(result.Notifications))
	for _, n := range result.Notifications {
		items = append(items, &NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			TicketID:  n.TicketID,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return &NotificationListResponse{
		Notifications: items,
		Total:         result.Total,
		UnreadCount:   result.UnreadCount,
	}
}

type DigestRunResponse struct {
	Ran           bool `json:"ran"`
	DueSoonCount  int  `json:"due_soon_count"`
	ActivityCount int  `json:"activity_count"`
}
