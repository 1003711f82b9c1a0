package usecases

import (
	"context"
	"time"

	"sitedesk/internal/domain/recurrence"
	"sitedesk/internal/domain/site"
	"sitedesk/internal/domain/ticket"
	"sitedesk/internal/shared/db"
	"sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/logger"
	"sitedesk/internal/shared/tenant"
)

// RuleFailure records one rule's failure during a scheduler pass.
type RuleFailure struct {
	RuleID   uint
	TenantID tenant.ID
	Err      error
}

type RunDueRulesResult struct {
	Due     int
	Spawned int
	Skipped int
	Failed  int
	Errors  []RuleFailure
}

// RunDueRulesUseCase is the recurrence engine's scheduler pass. Selection
// runs once across all tenants under system scope; each due rule then fires
// inside its own tenant-scoped transaction. Spawning the ticket and
// advancing the rule's schedule commit atomically, and the schedule update
// is guarded, so two concurrent passes can both select a rule but only one
// of them produces a ticket for the cycle.
type RunDueRulesUseCase struct {
	txManager  *db.TransactionManager
	ruleRepo   recurrence.RuleRepository
	ticketRepo ticket.TicketRepository
	siteRepo   site.SiteRepository
	allocator  site.SequenceAllocator
	logger     logger.Interface
}

func NewRunDueRulesUseCase(
	txManager *db.TransactionManager,
	ruleRepo recurrence.RuleRepository,
	ticketRepo ticket.TicketRepository,
	siteRepo site.SiteRepository,
	allocator site.SequenceAllocator,
	logger logger.Interface,
) *RunDueRulesUseCase {
	return &RunDueRulesUseCase{
		txManager:  txManager,
		ruleRepo:   ruleRepo,
		ticketRepo: ticketRepo,
		siteRepo:   siteRepo,
		allocator:  allocator,
		logger:     logger,
	}
}

func (uc *RunDueRulesUseCase) Execute(ctx context.Context, now time.Time) (*RunDueRulesResult, error) {
	now = now.UTC()

	dueRules, err := uc.ruleRepo.FindDue(tenant.NewSystemContext(ctx), now)
	if err != nil {
		uc.logger.Errorw("failed to select due recurrence rules", "error", err)
		return nil, err
	}

	result := &RunDueRulesResult{Due: len(dueRules)}

	for _, due := range dueRules {
		if due.Err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RuleFailure{RuleID: due.RuleID, TenantID: due.TenantID, Err: due.Err})
			uc.logger.Errorw("skipping unreadable recurrence rule",
				"rule_id", due.RuleID, "tenant_id", due.TenantID, "error", due.Err)
			continue
		}
		if err := uc.fireRule(ctx, due.TenantID, due.RuleID, now); err != nil {
			if errors.IsConflictError(err) {
				// Another worker fired this rule for the same cycle.
				result.Skipped++
				uc.logger.Infow("recurrence rule already fired, skipping",
					"rule_id", due.RuleID, "tenant_id", due.TenantID)
				continue
			}
			result.Failed++
			result.Errors = append(result.Errors, RuleFailure{RuleID: due.RuleID, TenantID: due.TenantID, Err: err})
			uc.logger.Errorw("failed to fire recurrence rule",
				"rule_id", due.RuleID, "tenant_id", due.TenantID, "error", err)
			continue
		}
		result.Spawned++
	}

	uc.logger.Infow("recurrence pass completed",
		"due", result.Due, "spawned", result.Spawned,
		"skipped", result.Skipped, "failed", result.Failed)

	return result, nil
}

// fireRule spawns the rule's ticket and reschedules the rule in one
// tenant-scoped transaction. Any failure, including losing the guarded
// schedule update, rolls the spawned ticket back.
func (uc *RunDueRulesUseCase) fireRule(ctx context.Context, tenantID tenant.ID, ruleID uint, now time.Time) error {
	return uc.txManager.RunInTenant(ctx, tenantID, func(txCtx context.Context) error {
		rule, err := uc.ruleRepo.GetByID(txCtx, ruleID)
		if err != nil {
			return err
		}
		if !rule.IsDue(now) {
			return errors.NewConflictError("rule is no longer due")
		}

		template, err := uc.ticketRepo.GetByID(txCtx, rule.TemplateTicketID())
		if err != nil {
			return err
		}

		siteEntity, err := uc.siteRepo.GetByID(txCtx, template.SiteID())
		if err != nil {
			return err
		}

		scheduledFor := rule.NextScheduledAt()
		spawned, err := ticket.NewFromTemplate(template, rule.ID(), &scheduledFor)
		if err != nil {
			return errors.NewInternalError(err.Error())
		}

		allocation, err := uc.allocator.Allocate(txCtx, siteEntity.ID(), siteEntity.Name())
		if err != nil {
			return err
		}
		if err := spawned.SetNumber(allocation.Identifier); err != nil {
			return errors.NewInternalError(err.Error())
		}

		if err := uc.ticketRepo.Save(txCtx, spawned); err != nil {
			return err
		}

		previousScheduledAt := rule.NextScheduledAt()
		rule.MarkFired(now)
		return uc.ruleRepo.Update(txCtx, rule, previousScheduledAt)
	})
}
