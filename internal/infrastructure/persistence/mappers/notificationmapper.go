package mappers

import (
	"fmt"

	"sitedesk/internal/domain/notification"
	vo "sitedesk/internal/domain/notification/valueobjects"
	"sitedesk/internal/infrastructure/persistence/models"
	"sitedesk/internal/shared/mapper"
)

type NotificationMapper interface {
	ToEntity(model *models.NotificationModel) (*notification.Notification, error)
	ToModel(entity *notification.Notification) (*models.NotificationModel, error)
	ToEntities(models []*models.NotificationModel) ([]*notification.Notification, error)
	ToModels(entities []*notification.Notification) ([]*models.NotificationModel, error)
}

type NotificationMapperImpl struct{}

func NewNotificationMapper() NotificationMapper {
	return &NotificationMapperImpl{}
}

func (m *NotificationMapperImpl) ToEntity(model *models.NotificationModel) (*notification.Notification, error) {
	if model == nil {
		return nil, nil
	}

	notificationType, err := vo.NewNotificationType(model.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification type: %w", err)
	}

	entity, err := notification.ReconstructNotification(
		model.ID,
		model.UserID,
		notificationType,
		model.Title,
		model.Message,
		model.TicketID,
		model.IsRead,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct notification entity: %w", err)
	}

	return entity, nil
}

func (m *NotificationMapperImpl) ToModel(entity *notification.Notification) (*models.NotificationModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.NotificationModel{
		ID:        entity.ID(),
		UserID:    entity.UserID(),
		Type:      entity.Type().String(),
		Title:     entity.Title(),
		Message:   entity.Message(),
		TicketID:  entity.TicketID(),
		IsRead:    entity.IsRead(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}, nil
}

func (m *NotificationMapperImpl) ToEntities(notificationModels []*models.NotificationModel) ([]*notification.Notification, error) {
	return mapper.MapSlicePtrWithID(notificationModels, m.ToEntity, func(model *models.NotificationModel) uint {
		return model.ID
	})
}

func (m *NotificationMapperImpl) ToModels(entities []*notification.Notification) ([]*models.NotificationModel, error) {
	return mapper.MapSlicePtrWithID(entities, m.ToModel, func(entity *notification.Notification) uint {
		return entity.ID()
	})
}
