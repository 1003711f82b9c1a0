package usecases

import (
	"context"

	"sitedesk/internal/domain/recurrence"
	"sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/logger"
)

type DeactivateRuleUseCase struct {
	ruleRepo recurrence.RuleRepository
	logger   logger.Interface
}

func NewDeactivateRuleUseCase(ruleRepo recurrence.RuleRepository, logger logger.Interface) *DeactivateRuleUseCase {
	return &DeactivateRuleUseCase{
		ruleRepo: ruleRepo,
		logger:   logger,
	}
}

func (uc *DeactivateRuleUseCase) Execute(ctx context.Context, ruleID uint) error {
	if ruleID == 0 {
		return errors.NewValidationError("rule ID is required")
	}

	if err := uc.ruleRepo.Deactivate(ctx, ruleID); err != nil {
		uc.logger.Errorw("failed to deactivate recurrence rule", "rule_id", ruleID, "error", err)
		return err
	}

	uc.logger.Infow("recurrence rule deactivated", "rule_id", ruleID)
	return nil
}
