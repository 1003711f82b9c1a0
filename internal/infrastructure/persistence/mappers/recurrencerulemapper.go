package mappers

import (
	"fmt"

	"sitedesk/internal/domain/recurrence"
	"sitedesk/internal/infrastructure/persistence/models"
	"sitedesk/internal/shared/mapper"
)

type RecurrenceRuleMapper interface {
	ToEntity(model *models.RecurrenceRuleModel) (*recurrence.Rule, error)
	ToModel(entity *recurrence.Rule) (*models.RecurrenceRuleModel, error)
	ToEntities(models []*models.RecurrenceRuleModel) ([]*recurrence.Rule, error)
}

type RecurrenceRuleMapperImpl struct{}

func NewRecurrenceRuleMapper() RecurrenceRuleMapper {
	return &RecurrenceRuleMapperImpl{}
}

func (m *RecurrenceRuleMapperImpl) ToEntity(model *models.RecurrenceRuleModel) (*recurrence.Rule, error) {
	if model == nil {
		return nil, nil
	}

	// Stored frequencies map through as-is. NewFrequency guards the creation
	// path; a row that predates that validation still has to fire, with the
	// schedule advancing on the one-day fallback.
	entity, err := recurrence.ReconstructRule(
		model.ID,
		model.TemplateTicketID,
		recurrence.Frequency(model.Frequency),
		model.IntervalValue,
		model.NextScheduledAt,
		model.LastGeneratedAt,
		model.EndsAt,
		model.IsActive,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct recurrence rule entity: %w", err)
	}

	return entity, nil
}

func (m *RecurrenceRuleMapperImpl) ToModel(entity *recurrence.Rule) (*models.RecurrenceRuleModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.RecurrenceRuleModel{
		ID:               entity.ID(),
		TemplateTicketID: entity.TemplateTicketID(),
		Frequency:        entity.Frequency().String(),
		IntervalValue:    entity.IntervalValue(),
		NextScheduledAt:  entity.NextScheduledAt(),
		LastGeneratedAt:  entity.LastGeneratedAt(),
		EndsAt:           entity.EndsAt(),
		IsActive:         entity.IsActive(),
		Version:          entity.Version(),
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
	}, nil
}

func (m *RecurrenceRuleMapperImpl) ToEntities(ruleModels []*models.RecurrenceRuleModel) ([]*recurrence.Rule, error) {
	return mapper.MapSlicePtrWithID(ruleModels, m.ToEntity, func(model *models.RecurrenceRuleModel) uint {
		return model.ID
	})
}
