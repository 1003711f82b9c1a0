package usecases

import (
	"context"
	"time"

	"sitedesk/internal/domain/notification"
	"sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/logger"
)

type NotificationItem struct {
	ID        uint
	Type      string
	Title     string
	Message   string
	TicketID  *uint
	IsRead    bool
	CreatedAt time.Time
}

type ListNotificationsResult struct {
	Notifications []*NotificationItem
	Total         int64
	UnreadCount   int64
}

type ListNotificationsUseCase struct {
	notifRepo notification.NotificationRepository
	logger    logger.Interface
}

func NewListNotificationsUseCase(notifRepo notification.NotificationRepository, logger logger.Interface) *ListNotificationsUseCase {
	return &ListNotificationsUseCase{
		notifRepo: notifRepo,
		logger:    logger,
	}
}

func (uc *ListNotificationsUseCase) Execute(ctx context.Context, userID uint, limit, offset int) (*ListNotificationsResult, error) {
	if userID == 0 {
		return nil, errors.NewValidationError("user ID is required")
	}

	notifications, total, err := uc.notifRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		uc.logger.Errorw("failed to list notifications", "user_id", userID, "error", err)
		return nil, err
	}

	unread, err := uc.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to count unread notifications", "user_id", userID, "error", err)
		return nil, err
	}

	items := make([]*NotificationItem, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, &NotificationItem{
			ID:        n.ID(),
			Type:      n.Type().String(),
			Title:     n.Title(),
			Message:   n.Message(),
			TicketID:  n.TicketID(),
			IsRead:    n.IsRead(),
			CreatedAt: n.CreatedAt(),
		})
	}

	return &ListNotificationsResult{
		Notifications: items,
		Total:         total,
		UnreadCount:   unread,
	}, nil
}
