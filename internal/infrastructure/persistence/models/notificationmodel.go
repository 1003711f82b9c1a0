package models

import (
	"time"

	"gorm.io/gorm"

	"sitedesk/internal/shared/constants"
)

type NotificationModel struct {
	ID        uint   `gorm:"primaryKey"`
	TenantID  string `gorm:"size:64;not null;index"`
	UserID    uint   `gorm:"not null;index:idx_notifications_user_type,priority:1"`
	Type      string `gorm:"size:50;not null;index:idx_notifications_user_type,priority:2"`
	Title     string `gorm:"size:255;not null"`
	Message   string `gorm:"type:text"`
	TicketID  *uint
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (NotificationModel) TableName() string {
	return constants.TableNotifications
}
