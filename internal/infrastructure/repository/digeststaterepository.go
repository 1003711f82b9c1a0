package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"sitedesk/internal/domain/notification"
	"sitedesk/internal/infrastructure/persistence/mappers"
	"sitedesk/internal/infrastructure/persistence/models"
	"sitedesk/internal/shared/db"
	"sitedesk/internal/shared/errors"
)

type DigestStateRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.DigestStateMapper
}

func NewDigestStateRepository(gormDB *gorm.DB) notification.DigestStateRepository {
	return &DigestStateRepositoryImpl{
		db:     gormDB,
		mapper: mappers.NewDigestStateMapper(),
	}
}

func (r *DigestStateRepositoryImpl) GetByUserID(ctx context.Context, userID uint) (*notification.DigestState, error) {
	var model models.DigestStateModel

	if err := db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get digest state by user ID: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map digest state model to entity: %w", err)
	}

	return entity, nil
}

// RecordRun advances the user's digest watermark. The update is guarded so
// last_run_at only ever moves forward; a concurrent run that already wrote a
// later timestamp makes the guard miss and surfaces as a conflict. The first
// run for a user inserts the row, relying on the unique user index to settle
// insert races.
func (r *DigestStateRepositoryImpl) RecordRun(ctx context.Context, userID uint, runAt time.Time) error {
	if userID == 0 {
		return errors.NewValidationError("user ID is required")
	}
	runAt = runAt.UTC()
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.DigestStateModel{}).
		Where("user_id = ? AND (last_run_at IS NULL OR last_run_at <= ?)", userID, runAt).
		Update("last_run_at", runAt)
	if result.Error != nil {
		return fmt.Errorf("failed to advance digest state: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Either the row does not exist yet or another run already moved past
	// runAt. Distinguish by attempting the insert.
	model := models.DigestStateModel{
		UserID:    userID,
		LastRunAt: &runAt,
	}
	if err := tx.Create(&model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError(fmt.Sprintf("digest state for user %d advanced concurrently", userID))
		}
		return fmt.Errorf("failed to create digest state: %w", err)
	}

	return nil
}
