package recurrence

import (
	"context"
	"time"

	"sitedesk/internal/shared/tenant"
)

// DueRule pairs a rule with its owning tenant for scheduler selection, which
// runs across tenants under system scope. A row that cannot be mapped back
// into a Rule is still returned, with Rule nil and Err set, so one corrupt
// row cannot hide every other due rule from the pass.
type DueRule struct {
	TenantID tenant.ID
	RuleID   uint
	Rule     *Rule
	Err      error
}

type RuleRepository interface {
	Save(ctx context.Context, rule *Rule) error
	// Update persists the rule guarded by its previous schedule: if another
	// instance already advanced the rule, no rows match and a conflict error
	// is returned so the surrounding transaction rolls back.
	Update(ctx context.Context, rule *Rule, previousScheduledAt time.Time) error
	GetByID(ctx context.Context, ruleID uint) (*Rule, error)
	Deactivate(ctx context.Context, ruleID uint) error
	// FindDue returns all active rules scheduled at or before now, across
	// tenants. Callers must run it under system scope.
	FindDue(ctx context.Context, now time.Time) ([]*DueRule, error)
	ListActive(ctx context.Context, limit, offset int) ([]*Rule, int64, error)
}
