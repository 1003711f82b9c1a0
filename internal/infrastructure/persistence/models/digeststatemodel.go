package models

import (
	"time"

	"sitedesk/internal/shared/constants"
)

// DigestStateModel is uniquely keyed by user so concurrent digest runs for
// the same user serialize on one row.
type DigestStateModel struct {
	ID        uint   `gorm:"primaryKey"`
	TenantID  string `gorm:"size:64;not null;uniqueIndex:uk_digest_states_tenant_user,priority:1"`
	UserID    uint   `gorm:"not null;uniqueIndex:uk_digest_states_tenant_user,priority:2"`
	LastRunAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DigestStateModel) TableName() string {
	return constants.TableDigestStates
}
