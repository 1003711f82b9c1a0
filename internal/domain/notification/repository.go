package notification

import (
	"context"
	"time"

	vo "sitedesk/internal/domain/notification/valueobjects"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	BulkCreate(ctx context.Context, notifications []*Notification) error
	GetByID(ctx context.Context, id uint) (*Notification, error)
	ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]*Notification, int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkAsRead(ctx context.Context, id uint) error
	// DeleteByUserAndTypes removes all of the user's notifications of the
	// given types. Each digest run replaces the prior snapshot through this.
	DeleteByUserAndTypes(ctx context.Context, userID uint, types []vo.NotificationType) error
}

type DigestStateRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*DigestState, error)
	// RecordRun upserts the state row with a forward-only guard: it reports
	// a conflict when another run already advanced lastRunAt past runAt.
	RecordRun(ctx context.Context, userID uint, runAt time.Time) error
}
