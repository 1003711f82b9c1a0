package notification

import (
	"fmt"
	"time"

	vo "sitedesk/internal/domain/notification/valueobjects"
)

type Notification struct {
	id               uint
	userID           uint
	notificationType vo.NotificationType
	title            string
	message          string
	ticketID         *uint
	isRead           bool
	createdAt        time.Time
	updatedAt        time.Time
}

func NewNotification(
	userID uint,
	notificationType vo.NotificationType,
	title string,
	message string,
	ticketID *uint,
) (*Notification, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !notificationType.IsValid() {
		return nil, fmt.Errorf("invalid notification type")
	}
	if len(title) == 0 {
		return nil, fmt.Errorf("title is required")
	}
	if len(title) > 200 {
		return nil, fmt.Errorf("title exceeds maximum length of 200 characters")
	}
	if len(message) > 5000 {
		return nil, fmt.Errorf("message exceeds maximum length of 5000 characters")
	}

	now := time.Now().UTC()
	return &Notification{
		userID:           userID,
		notificationType: notificationType,
		title:            title,
		message:          message,
		ticketID:         ticketID,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

func ReconstructNotification(
	id uint,
	userID uint,
	notificationType vo.NotificationType,
	title string,
	message string,
	ticketID *uint,
	isRead bool,
	createdAt, updatedAt time.Time,
) (*Notification, error) {
	if id == 0 {
		return nil, fmt.Errorf("notification ID cannot be zero")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !notificationType.IsValid() {
		return nil, fmt.Errorf("invalid notification type")
	}
	return &Notification{
		id:               id,
		userID:           userID,
		notificationType: notificationType,
		title:            title,
		message:          message,
		ticketID:         ticketID,
		isRead:           isRead,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

func (n *Notification) ID() uint {
	return n.id
}

func (n *Notification) UserID() uint {
	return n.userID
}

func (n *Notification) Type() vo.NotificationType {
	return n.notificationType
}

func (n *Notification) Title() string {
	return n.title
}

func (n *Notification) Message() string {
	return n.message
}

func (n *Notification) TicketID() *uint {
	return n.ticketID
}

func (n *Notification) IsRead() bool {
	return n.isRead
}

func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

func (n *Notification) UpdatedAt() time.Time {
	return n.updatedAt
}

func (n *Notification) SetID(id uint) error {
	if n.id != 0 {
		return fmt.Errorf("notification ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("notification ID cannot be zero")
	}
	n.id = id
	return nil
}

func (n *Notification) MarkAsRead() {
	if n.isRead {
		return
	}
	n.isRead = true
	n.updatedAt = time.Now().UTC()
}
