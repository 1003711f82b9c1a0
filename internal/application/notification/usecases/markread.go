package usecases

import (
	"context"

	"sitedesk/internal/domain/notification"
	"sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/logger"
)

type MarkNotificationReadUseCase struct {
	notifRepo notification.NotificationRepository
	logger    logger.Interface
}

func NewMarkNotificationReadUseCase(notifRepo notification.NotificationRepository, logger logger.Interface) *MarkNotificationReadUseCase {
	return &MarkNotificationReadUseCase{
		notifRepo: notifRepo,
		logger:    logger,
	}
}

// Execute marks the notification read if it belongs to the user. Marking an
// already-read notification is a no-op rather than an error.
func (uc *MarkNotificationReadUseCase) Execute(ctx context.Context, userID, notificationID uint) error {
	if userID == 0 {
		return errors.NewValidationError("user ID is required")
	}
	if notificationID == 0 {
		return errors.NewValidationError("notification ID is required")
	}

	n, err := uc.notifRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID() != userID {
		return errors.NewForbiddenError("notification belongs to another user")
	}
	if n.IsRead() {
		return nil
	}

	if err := uc.notifRepo.MarkAsRead(ctx, notificationID); err != nil {
		uc.logger.Errorw("failed to mark notification read",
			"notification_id", notificationID, "error", err)
		return err
	}

	return nil
}
