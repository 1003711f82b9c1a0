package models

import (
	"time"

	"sitedesk/internal/shared/constants"
)

// SiteSequenceModel is the per-site ticket number counter. The row is created
// lazily on a site's first allocation and mutated only through a guarded
// compare-and-swap on NextValue; it must never be written read-modify-write.
type SiteSequenceModel struct {
	SiteID    uint   `gorm:"primaryKey;autoIncrement:false"`
	TenantID  string `gorm:"size:64;not null;index"`
	Prefix    string `gorm:"size:8;not null"`
	NextValue uint64 `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SiteSequenceModel) TableName() string {
	return constants.TableSiteSequences
}
