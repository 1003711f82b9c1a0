package mappers

import (
	"encoding/json"
	"fmt"

	"sitedesk/internal/domain/ticket"
	"sitedesk/internal/infrastructure/persistence/models"
	"sitedesk/internal/shared/mapper"
)

type TicketHistoryMapper interface {
	ToEntity(model *models.TicketHistoryModel) (*ticket.HistoryEntry, error)
	ToModel(entity *ticket.HistoryEntry) (*models.TicketHistoryModel, error)
	ToEntities(models []*models.TicketHistoryModel) ([]*ticket.HistoryEntry, error)
}

type TicketHistoryMapperImpl struct{}

func NewTicketHistoryMapper() TicketHistoryMapper {
	return &TicketHistoryMapperImpl{}
}

func (m *TicketHistoryMapperImpl) ToEntity(model *models.TicketHistoryModel) (*ticket.HistoryEntry, error) {
	if model == nil {
		return nil, nil
	}

	var changedFields map[string]string
	if len(model.ChangedFields) > 0 {
		if err := json.Unmarshal(model.ChangedFields, &changedFields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal changed fields: %w", err)
		}
	}

	entity, err := ticket.ReconstructHistoryEntry(
		model.ID,
		model.TicketID,
		model.ActorID,
		changedFields,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct history entry: %w", err)
	}

	return entity, nil
}

func (m *TicketHistoryMapperImpl) ToModel(entity *ticket.HistoryEntry) (*models.TicketHistoryModel, error) {
	if entity == nil {
		return nil, nil
	}

	changedFields, err := json.Marshal(entity.ChangedFields())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal changed fields: %w", err)
	}

	return &models.TicketHistoryModel{
		ID:            entity.ID(),
		TicketID:      entity.TicketID(),
		ActorID:       entity.ActorID(),
		ChangedFields: changedFields,
		CreatedAt:     entity.CreatedAt(),
	}, nil
}

func (m *TicketHistoryMapperImpl) ToEntities(historyModels []*models.TicketHistoryModel) ([]*ticket.HistoryEntry, error) {
	return mapper.MapSlicePtrWithID(historyModels, m.ToEntity, func(model *models.TicketHistoryModel) uint {
		return model.ID
	})
}
