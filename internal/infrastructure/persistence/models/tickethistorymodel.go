package models

import (
	"time"

	"gorm.io/datatypes"

	"sitedesk/internal/shared/constants"
)

type TicketHistoryModel struct {
	ID            uint           `gorm:"primaryKey"`
	TenantID      string         `gorm:"size:64;not null;index"`
	TicketID      uint           `gorm:"not null;index:idx_history_ticket_created,priority:1"`
	ActorID       uint           `gorm:"not null;index"`
	ChangedFields datatypes.JSON `gorm:"not null"`
	CreatedAt     time.Time      `gorm:"index:idx_history_ticket_created,priority:2"`
}

func (TicketHistoryModel) TableName() string {
	return constants.TableTicketHistory
}
