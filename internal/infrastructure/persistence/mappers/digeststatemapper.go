package mappers

import (
	"fmt"

	"sitedesk/internal/domain/notification"
	"sitedesk/internal/infrastructure/persistence/models"
)

type DigestStateMapper interface {
	ToEntity(model *models.DigestStateModel) (*notification.DigestState, error)
	ToModel(entity *notification.DigestState) (*models.DigestStateModel, error)
}

type DigestStateMapperImpl struct{}

func NewDigestStateMapper() DigestStateMapper {
	return &DigestStateMapperImpl{}
}

func (m *DigestStateMapperImpl) ToEntity(model *models.DigestStateModel) (*notification.DigestState, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := notification.ReconstructDigestState(model.UserID, model.LastRunAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct digest state: %w", err)
	}
	return entity, nil
}

func (m *DigestStateMapperImpl) ToModel(entity *notification.DigestState) (*models.DigestStateModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.DigestStateModel{
		UserID:    entity.UserID(),
		LastRunAt: entity.LastRunAt(),
	}, nil
}
