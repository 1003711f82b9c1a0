package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sitedesk/internal/shared/constants"
)

type TicketModel struct {
	ID               uint   `gorm:"primaryKey"`
	TenantID         string `gorm:"size:64;not null;uniqueIndex:uk_tickets_tenant_number,priority:1"`
	Number           string `gorm:"size:32;not null;uniqueIndex:uk_tickets_tenant_number,priority:2"`
	Title            string `gorm:"size:255;not null"`
	Description      string `gorm:"type:text"`
	Priority         string `gorm:"size:20;not null"`
	Status           string `gorm:"size:20;not null;index:idx_tickets_assignee_status,priority:2"`
	Source           string `gorm:"size:20;not null;default:'manual'"`
	SiteID           uint   `gorm:"not null;index"`
	CreatorID        uint   `gorm:"not null"`
	AssigneeID       *uint  `gorm:"index:idx_tickets_assignee_status,priority:1"`
	RecurrenceRuleID *uint  `gorm:"index"`
	DueDate          *time.Time
	Metadata         datatypes.JSON
	Version          int `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ClosedAt         *time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (TicketModel) TableName() string {
	return constants.TableTickets
}
