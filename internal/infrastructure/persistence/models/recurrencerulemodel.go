package models

import (
	"time"

	"sitedesk/internal/shared/constants"
)

type RecurrenceRuleModel struct {
	ID               uint      `gorm:"primaryKey"`
	TenantID         string    `gorm:"size:64;not null;index"`
	TemplateTicketID uint      `gorm:"not null;index"`
	Frequency        string    `gorm:"size:20;not null"`
	IntervalValue    int       `gorm:"not null;default:1"`
	NextScheduledAt  time.Time `gorm:"not null;index:idx_rules_due,priority:2"`
	LastGeneratedAt  *time.Time
	EndsAt           *time.Time
	IsActive         bool `gorm:"not null;default:true;index:idx_rules_due,priority:1"`
	Version          int  `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (RecurrenceRuleModel) TableName() string {
	return constants.TableRecurrenceRule
}
