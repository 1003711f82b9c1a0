package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"sitedesk/internal/domain/notification"
	vo "sitedesk/internal/domain/notification/valueobjects"
	"sitedesk/internal/infrastructure/persistence/mappers"
	"sitedesk/internal/infrastructure/persistence/models"
	"sitedesk/internal/shared/db"
	"sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/mapper"
)

type NotificationRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.NotificationMapper
}

func NewNotificationRepository(gormDB *gorm.DB) notification.NotificationRepository {
	return &NotificationRepositoryImpl{
		db:     gormDB,
		mapper: mappers.NewNotificationMapper(),
	}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notif *notification.Notification) error {
	model, err := r.mapper.ToModel(notif)
	if err != nil {
		return fmt.Errorf("failed to map notification entity to model: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if err := notif.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set notification ID: %w", err)
	}

	return nil
}

func (r *NotificationRepositoryImpl) BulkCreate(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	modelList, err := r.mapper.ToModels(notifications)
	if err != nil {
		return fmt.Errorf("failed to map notification entities to models: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(&modelList).Error; err != nil {
		return fmt.Errorf("failed to bulk create notifications: %w", err)
	}

	for i, model := range modelList {
		if err := notifications[i].SetID(model.ID); err != nil {
			return fmt.Errorf("failed to set notification ID: %w", err)
		}
	}

	return nil
}

func (r *NotificationRepositoryImpl) GetByID(ctx context.Context, id uint) (*notification.Notification, error) {
	var model models.NotificationModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("notification not found")
		}
		return nil, fmt.Errorf("failed to get notification by ID: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map notification model to entity: %w", err)
	}

	return entity, nil
}

func (r *NotificationRepositoryImpl) ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]*notification.Notification, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Model(&models.NotificationModel{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var modelList []*models.NotificationModel
	listQuery := query.Order("created_at DESC")
	if limit > 0 {
		listQuery = listQuery.Limit(limit)
	}
	if offset > 0 {
		listQuery = listQuery.Offset(offset)
	}

	if err := listQuery.Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications by user ID: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to map notification models to entities: %w", err)
	}

	return entities, total, nil
}

func (r *NotificationRepositoryImpl) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64

	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.NotificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

func (r *NotificationRepositoryImpl) MarkAsRead(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.NotificationModel{}).
		Where("id = ? AND is_read = ?", id, false).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification as read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("unread notification not found")
	}

	return nil
}

// DeleteByUserAndTypes hard-deletes so a replaced digest leaves no
// soft-deleted residue behind.
func (r *NotificationRepositoryImpl) DeleteByUserAndTypes(ctx context.Context, userID uint, types []vo.NotificationType) error {
	if len(types) == 0 {
		return nil
	}

	typeNames := mapper.MapSlice(types, func(t vo.NotificationType) string { return t.String() })

	err := db.GetTxFromContext(ctx, r.db).
		Unscoped().
		Where("user_id = ? AND type IN ?", userID, typeNames).
		Delete(&models.NotificationModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete notifications by user and types: %w", err)
	}

	return nil
}
