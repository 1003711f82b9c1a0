package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sitedesk/internal/domain/recurrence"
	"sitedesk/internal/infrastructure/persistence/mappers"
	"sitedesk/internal/infrastructure/persistence/models"
	"sitedesk/internal/shared/db"
	"sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/tenant"
)

type RecurrenceRuleRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.RecurrenceRuleMapper
}

func NewRecurrenceRuleRepository(gormDB *gorm.DB) recurrence.RuleRepository {
	return &RecurrenceRuleRepositoryImpl{
		db:     gormDB,
		mapper: mappers.NewRecurrenceRuleMapper(),
	}
}

func (r *RecurrenceRuleRepositoryImpl) Save(ctx context.Context, rule *recurrence.Rule) error {
	model, err := r.mapper.ToModel(rule)
	if err != nil {
		return fmt.Errorf("failed to map rule entity to model: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create recurrence rule: %w", err)
	}

	if err := rule.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set rule ID: %w", err)
	}

	return nil
}

// Update persists the rule only if nobody moved its schedule since it was
// read. The guard on next_scheduled_at turns a double fire into a conflict:
// the second writer matches zero rows and its transaction rolls back, taking
// the duplicate spawned ticket with it.
func (r *RecurrenceRuleRepositoryImpl) Update(ctx context.Context, rule *recurrence.Rule, previousScheduledAt time.Time) error {
	model, err := r.mapper.ToModel(rule)
	if err != nil {
		return fmt.Errorf("failed to map rule entity to model: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.RecurrenceRuleModel{}).
		Where("id = ? AND next_scheduled_at = ?", rule.ID(), previousScheduledAt).
		Updates(map[string]interface{}{
			"next_scheduled_at": model.NextScheduledAt,
			"last_generated_at": model.LastGeneratedAt,
			"is_active":         model.IsActive,
			"version":           model.Version,
			"updated_at":        model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update recurrence rule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewConflictError(fmt.Sprintf("recurrence rule %d was rescheduled concurrently", rule.ID()))
	}

	return nil
}

func (r *RecurrenceRuleRepositoryImpl) GetByID(ctx context.Context, ruleID uint) (*recurrence.Rule, error) {
	var model models.RecurrenceRuleModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, ruleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("recurrence rule not found")
		}
		return nil, fmt.Errorf("failed to get recurrence rule by ID: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map rule model to entity: %w", err)
	}

	return entity, nil
}

func (r *RecurrenceRuleRepositoryImpl) Deactivate(ctx context.Context, ruleID uint) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.RecurrenceRuleModel{}).
		Where("id = ? AND is_active = ?", ruleID, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate recurrence rule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("active recurrence rule not found")
	}

	return nil
}

// FindDue selects every active rule whose schedule has arrived, in any
// tenant. The caller must hold system scope; each returned rule carries its
// tenant so firing can re-enter the proper tenant boundary.
func (r *RecurrenceRuleRepositoryImpl) FindDue(ctx context.Context, now time.Time) ([]*recurrence.DueRule, error) {
	if !tenant.IsSystemScope(ctx) {
		return nil, errors.NewForbiddenError("due rule selection requires system scope")
	}

	var modelList []*models.RecurrenceRuleModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("is_active = ? AND next_scheduled_at <= ?", true, now).
		Order("next_scheduled_at ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find due recurrence rules: %w", err)
	}

	dueRules := make([]*recurrence.DueRule, 0, len(modelList))
	for _, model := range modelList {
		entity, err := r.mapper.ToEntity(model)
		if err != nil {
			// A row bad enough to fail mapping is reported per rule, not as
			// a selection failure that would starve every healthy sibling.
			dueRules = append(dueRules, &recurrence.DueRule{
				TenantID: tenant.ID(model.TenantID),
				RuleID:   model.ID,
				Err:      fmt.Errorf("failed to map rule model to entity: %w", err),
			})
			continue
		}
		dueRules = append(dueRules, &recurrence.DueRule{
			TenantID: tenant.ID(model.TenantID),
			RuleID:   model.ID,
			Rule:     entity,
		})
	}

	return dueRules, nil
}

func (r *RecurrenceRuleRepositoryImpl) ListActive(ctx context.Context, limit, offset int) ([]*recurrence.Rule, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Model(&models.RecurrenceRuleModel{}).
		Where("is_active = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count active rules: %w", err)
	}

	var modelList []*models.RecurrenceRuleModel
	listQuery := query.Order("next_scheduled_at ASC")
	if limit > 0 {
		listQuery = listQuery.Limit(limit)
	}
	if offset > 0 {
		listQuery = listQuery.Offset(offset)
	}

	if err := listQuery.Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list active rules: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to map rule models to entities: %w", err)
	}

	return entities, total, nil
}
