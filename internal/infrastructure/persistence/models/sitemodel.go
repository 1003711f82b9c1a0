package models

import (
	"time"

	"gorm.io/gorm"

	"sitedesk/internal/shared/constants"
)

type SiteModel struct {
	ID        uint   `gorm:"primaryKey"`
	TenantID  string `gorm:"size:64;not null;index"`
	Name      string `gorm:"size:255;not null"`
	Address   string `gorm:"size:500"`
	Status    string `gorm:"size:20;not null;default:'active'"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (SiteModel) TableName() string {
	return constants.TableSites
}
