package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"sitedesk/internal/domain/site"
	"sitedesk/internal/infrastructure/persistence/mappers"
	"sitedesk/internal/infrastructure/persistence/models"
	"sitedesk/internal/shared/db"
	"sitedesk/internal/shared/errors"
)

type SiteRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SiteMapper
}

func NewSiteRepository(gormDB *gorm.DB) site.SiteRepository {
	return &SiteRepositoryImpl{
		db:     gormDB,
		mapper: mappers.NewSiteMapper(),
	}
}

func (r *SiteRepositoryImpl) Save(ctx context.Context, s *site.Site) error {
	model, err := r.mapper.ToModel(s)
	if err != nil {
		return fmt.Errorf("failed to map site entity to model: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create site: %w", err)
	}

	if err := s.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set site ID: %w", err)
	}

	return nil
}

func (r *SiteRepositoryImpl) Update(ctx context.Context, s *site.Site) error {
	model, err := r.mapper.ToModel(s)
	if err != nil {
		return fmt.Errorf("failed to map site entity to model: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update site: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("site not found")
	}

	return nil
}

func (r *SiteRepositoryImpl) GetByID(ctx context.Context, siteID uint) (*site.Site, error) {
	var model models.SiteModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, siteID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("site not found")
		}
		return nil, fmt.Errorf("failed to get site by ID: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map site model to entity: %w", err)
	}

	return entity, nil
}

func (r *SiteRepositoryImpl) List(ctx context.Context, limit, offset int) ([]*site.Site, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.SiteModel{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sites: %w", err)
	}

	var modelList []*models.SiteModel
	listQuery := query.Order("name ASC")
	if limit > 0 {
		listQuery = listQuery.Limit(limit)
	}
	if offset > 0 {
		listQuery = listQuery.Offset(offset)
	}

	if err := listQuery.Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list sites: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to map site models to entities: %w", err)
	}

	return entities, total, nil
}
