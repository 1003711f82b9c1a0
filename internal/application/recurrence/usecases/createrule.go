package usecases

import (
	"context"
	"time"

	"sitedesk/internal/domain/recurrence"
	"sitedesk/internal/domain/ticket"
	"sitedesk/internal/shared/db"
	"sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/logger"
	"sitedesk/internal/shared/tenant"
)

type CreateRuleCommand struct {
	TemplateTicketID uint
	Frequency        string
	IntervalValue    int
	FirstScheduledAt time.Time
	EndsAt           *time.Time
}

type CreateRuleResult struct {
	RuleID          uint
	NextScheduledAt time.Time
}

type CreateRuleUseCase struct {
	txManager  *db.TransactionManager
	ruleRepo   recurrence.RuleRepository
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewCreateRuleUseCase(
	txManager *db.TransactionManager,
	ruleRepo recurrence.RuleRepository,
	ticketRepo ticket.TicketRepository,
	logger logger.Interface,
) *CreateRuleUseCase {
	return &CreateRuleUseCase{
		txManager:  txManager,
		ruleRepo:   ruleRepo,
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

func (uc *CreateRuleUseCase) Execute(ctx context.Context, cmd CreateRuleCommand) (*CreateRuleResult, error) {
	tenantID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	frequency, err := recurrence.NewFrequency(cmd.Frequency)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	rule, err := recurrence.NewRule(cmd.TemplateTicketID, frequency, cmd.IntervalValue, cmd.FirstScheduledAt, cmd.EndsAt)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	err = uc.txManager.RunInTenant(ctx, tenantID, func(txCtx context.Context) error {
		// The template must exist in this tenant before a rule can point at it.
		if _, err := uc.ticketRepo.GetByID(txCtx, cmd.TemplateTicketID); err != nil {
			return err
		}
		return uc.ruleRepo.Save(txCtx, rule)
	})
	if err != nil {
		uc.logger.Errorw("failed to create recurrence rule", "error", err)
		return nil, err
	}

	uc.logger.Infow("recurrence rule created",
		"rule_id", rule.ID(),
		"template_ticket_id", cmd.TemplateTicketID,
		"next_scheduled_at", rule.NextScheduledAt())

	return &CreateRuleResult{
		RuleID:          rule.ID(),
		NextScheduledAt: rule.NextScheduledAt(),
	}, nil
}
