package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sitedesk/internal/domain/site"
	"sitedesk/internal/infrastructure/persistence/models"
	"sitedesk/internal/shared/db"
	"sitedesk/internal/shared/errors"
)

// maxAllocateAttempts bounds the compare-and-swap retry loop. Losing a race
// is transient, so a handful of retries is enough; exhausting them means the
// counter row is under pathological contention and the caller should fail.
const maxAllocateAttempts = 5

type SiteSequenceRepositoryImpl struct {
	db *gorm.DB
}

func NewSiteSequenceRepository(gormDB *gorm.DB) site.SequenceAllocator {
	return &SiteSequenceRepositoryImpl{db: gormDB}
}

// Allocate issues the next ticket number for the site. Each attempt reads
// the counter row and advances it with a guarded update keyed on the value
// just read; a concurrent allocator that got there first makes the guard
// miss, and the loop re-reads and retries. Two callers can never observe
// the same value because only one guarded update per value can succeed.
func (r *SiteSequenceRepositoryImpl) Allocate(ctx context.Context, siteID uint, siteName string) (*site.Allocation, error) {
	if siteID == 0 {
		return nil, errors.NewValidationError("site ID is required")
	}

	tx := db.GetTxFromContext(ctx, r.db)

	for attempt := 0; attempt < maxAllocateAttempts; attempt++ {
		var model models.SiteSequenceModel
		err := sequenceReadQuery(tx, siteID).First(&model).Error
		if err == gorm.ErrRecordNotFound {
			allocation, created, initErr := r.initializeSequence(tx, siteID, siteName)
			if initErr != nil {
				return nil, initErr
			}
			if created {
				return allocation, nil
			}
			// Another allocator created the row first; re-read and race on it.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load site sequence: %w", err)
		}

		claimed := model.NextValue
		result := tx.Model(&models.SiteSequenceModel{}).
			Where("site_id = ? AND next_value = ?", siteID, claimed).
			Update("next_value", claimed+1)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to advance site sequence: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Lost the race for this value.
			continue
		}

		return &site.Allocation{
			Identifier: site.FormatIdentifier(model.Prefix, claimed),
			Sequence:   claimed,
			Prefix:     model.Prefix,
		}, nil
	}

	return nil, errors.NewConflictError(
		fmt.Sprintf("sequence allocation for site %d exhausted %d attempts", siteID, maxAllocateAttempts))
}

// sequenceReadQuery builds the counter-row read. The row is read with a
// locking read so a retry observes the value committed by the allocator that
// beat us; a plain read under MySQL's REPEATABLE READ would keep serving the
// transaction's snapshot and every retry would fail the guard on the same
// stale value. SQLite has no FOR UPDATE and serializes writers anyway, so
// the clause is skipped there.
func sequenceReadQuery(tx *gorm.DB, siteID uint) *gorm.DB {
	q := tx.Where("site_id = ?", siteID)
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// initializeSequence creates the counter row on a site's first allocation,
// claiming value 1 in the same insert by persisting next_value 2. A duplicate
// key error means a concurrent allocator won the insert; the caller retries
// against the now-existing row.
func (r *SiteSequenceRepositoryImpl) initializeSequence(tx *gorm.DB, siteID uint, siteName string) (*site.Allocation, bool, error) {
	prefix := site.DerivePrefix(siteName)
	model := models.SiteSequenceModel{
		SiteID:    siteID,
		Prefix:    prefix,
		NextValue: 2,
	}

	if err := tx.Create(&model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to initialize site sequence: %w", err)
	}

	return &site.Allocation{
		Identifier: site.FormatIdentifier(prefix, 1),
		Sequence:   1,
		Prefix:     prefix,
	}, true, nil
}
