package mappers

import (
	"fmt"

	"sitedesk/internal/domain/site"
	"sitedesk/internal/infrastructure/persistence/models"
	"sitedesk/internal/shared/mapper"
)

type SiteMapper interface {
	ToEntity(model *models.SiteModel) (*site.Site, error)
	ToModel(entity *site.Site) (*models.SiteModel, error)
	ToEntities(models []*models.SiteModel) ([]*site.Site, error)
}

type SiteMapperImpl struct{}

func NewSiteMapper() SiteMapper {
	return &SiteMapperImpl{}
}

func (m *SiteMapperImpl) ToEntity(model *models.SiteModel) (*site.Site, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := site.ReconstructSite(
		model.ID,
		model.Name,
		model.Address,
		site.Status(model.Status),
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct site entity: %w", err)
	}

	return entity, nil
}

func (m *SiteMapperImpl) ToModel(entity *site.Site) (*models.SiteModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.SiteModel{
		ID:        entity.ID(),
		Name:      entity.Name(),
		Address:   entity.Address(),
		Status:    string(entity.Status()),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}, nil
}

func (m *SiteMapperImpl) ToEntities(siteModels []*models.SiteModel) ([]*site.Site, error) {
	return mapper.MapSlicePtrWithID(siteModels, m.ToEntity, func(model *models.SiteModel) uint {
		return model.ID
	})
}
