package mappers

import (
	"encoding/json"
	"fmt"

	"sitedesk/internal/domain/ticket"
	vo "sitedesk/internal/domain/ticket/valueobjects"
	"sitedesk/internal/infrastructure/persistence/models"
	"sitedesk/internal/shared/mapper"
)

type TicketMapper interface {
	ToEntity(model *models.TicketModel) (*ticket.Ticket, error)
	ToModel(entity *ticket.Ticket) (*models.TicketModel, error)
	ToEntities(models []*models.TicketModel) ([]*ticket.Ticket, error)
	ToModels(entities []*ticket.Ticket) ([]*models.TicketModel, error)
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToEntity(model *models.TicketModel) (*ticket.Ticket, error) {
	if model == nil {
		return nil, nil
	}

	priority, err := vo.NewPriority(model.Priority)
	if err != nil {
		return nil, fmt.Errorf("failed to create priority: %w", err)
	}

	status, err := vo.NewTicketStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to create status: %w", err)
	}

	source, err := vo.NewSource(model.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to create source: %w", err)
	}

	var metadata map[string]interface{}
	if len(model.Metadata) > 0 {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ticket metadata: %w", err)
		}
	}

	entity, err := ticket.ReconstructTicket(
		model.ID,
		model.Number,
		model.Title,
		model.Description,
		priority,
		status,
		source,
		model.SiteID,
		model.CreatorID,
		model.AssigneeID,
		model.RecurrenceRuleID,
		model.DueDate,
		metadata,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
		model.ClosedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct ticket entity: %w", err)
	}

	return entity, nil
}

func (m *TicketMapperImpl) ToModel(entity *ticket.Ticket) (*models.TicketModel, error) {
	if entity == nil {
		return nil, nil
	}

	metadata, err := json.Marshal(entity.Metadata())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ticket metadata: %w", err)
	}

	return &models.TicketModel{
		ID:               entity.ID(),
		Number:           entity.Number(),
		Title:            entity.Title(),
		Description:      entity.Description(),
		Priority:         entity.Priority().String(),
		Status:           entity.Status().String(),
		Source:           entity.Source().String(),
		SiteID:           entity.SiteID(),
		CreatorID:        entity.CreatorID(),
		AssigneeID:       entity.AssigneeID(),
		RecurrenceRuleID: entity.RecurrenceRuleID(),
		DueDate:          entity.DueDate(),
		Metadata:         metadata,
		Version:          entity.Version(),
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
		ClosedAt:         entity.ClosedAt(),
	}, nil
}

func (m *TicketMapperImpl) ToEntities(ticketModels []*models.TicketModel) ([]*ticket.Ticket, error) {
	return mapper.MapSlicePtrWithID(ticketModels, m.ToEntity, func(model *models.TicketModel) uint {
		return model.ID
	})
}

func (m *TicketMapperImpl) ToModels(entities []*ticket.Ticket) ([]*models.TicketModel, error) {
	return mapper.MapSlicePtrWithID(entities, m.ToModel, func(entity *ticket.Ticket) uint {
		return entity.ID()
	})
}
