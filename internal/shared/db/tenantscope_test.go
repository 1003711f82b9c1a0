package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/tenant"
)

type scopedRecord struct {
	ID       uint   `gorm:"primaryKey"`
	TenantID string `gorm:"size:64;not null;index"`
	Name     string `gorm:"size:100"`
}

func (scopedRecord) TableName() string {
	return "scoped_records"
}

func setupScopedDB(t *testing.T) (*gorm.DB, *TransactionManager) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, RegisterTenantScope(db))
	require.NoError(t, db.AutoMigrate(&scopedRecord{}))
	return db, NewTransactionManager(db)
}

func seedTwoTenants(t *testing.T, tm *TransactionManager) {
	ctx := context.Background()
	for _, seed := range []struct {
		tenantID tenant.ID
		names    []string
	}{
		{"tenant-a", []string{"a1", "a2", "a3"}},
		{"tenant-b", []string{"b1", "b2"}},
	} {
		err := tm.RunInTenant(ctx, seed.tenantID, func(ctx context.Context) error {
			tx := tm.GetTx(ctx)
			for _, name := range seed.names {
				if err := tx.Create(&scopedRecord{Name: name}).Error; err != nil {
					return err
				}
			}
			return nil
		})
		require.NoError(t, err)
	}
}

func TestTenantScope_QueryWithoutExplicitFilter(t *testing.T) {
	_, tm := setupScopedDB(t)
	seedTwoTenants(t, tm)

	var got []scopedRecord
	err := tm.RunInTenant(context.Background(), "tenant-a", func(ctx context.Context) error {
		// No tenant filter on purpose: the callback must add it.
		return tm.GetTx(ctx).Find(&got).Error
	})
	require.NoError(t, err)

	assert.Len(t, got, 3)
	for _, rec := range got {
		assert.Equal(t, "tenant-a", rec.TenantID)
	}
}

func TestTenantScope_CreateStampsTenant(t *testing.T) {
	db, tm := setupScopedDB(t)

	err := tm.RunInTenant(context.Background(), "tenant-a", func(ctx context.Context) error {
		// Even a record claiming another tenant is forced into scope.
		return tm.GetTx(ctx).Create(&scopedRecord{TenantID: "tenant-b", Name: "sneaky"}).Error
	})
	require.NoError(t, err)

	var rec scopedRecord
	require.NoError(t, db.WithContext(tenant.NewSystemContext(context.Background())).First(&rec, "name = ?", "sneaky").Error)
	assert.Equal(t, "tenant-a", rec.TenantID)
}

func TestTenantScope_UpdateAndDeleteStayInScope(t *testing.T) {
	db, tm := setupScopedDB(t)
	seedTwoTenants(t, tm)

	err := tm.RunInTenant(context.Background(), "tenant-b", func(ctx context.Context) error {
		tx := tm.GetTx(ctx)
		if err := tx.Model(&scopedRecord{}).Where("1 = 1").Update("name", "renamed").Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&scopedRecord{}).Error
	})
	require.NoError(t, err)

	sysCtx := tenant.NewSystemContext(context.Background())

	var remaining []scopedRecord
	require.NoError(t, db.WithContext(sysCtx).Find(&remaining).Error)
	assert.Len(t, remaining, 3)
	for _, rec := range remaining {
		assert.Equal(t, "tenant-a", rec.TenantID)
		assert.NotEqual(t, "renamed", rec.Name)
	}
}

func TestTenantScope_RefusesMissingTenant(t *testing.T) {
	db, _ := setupScopedDB(t)

	var got []scopedRecord
	err := db.WithContext(context.Background()).Find(&got).Error
	require.Error(t, err)
	assert.True(t, apperrors.IsForbiddenError(err))

	err = db.WithContext(context.Background()).Create(&scopedRecord{Name: "orphan"}).Error
	require.Error(t, err)
	assert.True(t, apperrors.IsForbiddenError(err))
}

func TestTenantScope_SystemScopeReadsAcrossTenants(t *testing.T) {
	db, tm := setupScopedDB(t)
	seedTwoTenants(t, tm)

	var got []scopedRecord
	err := db.WithContext(tenant.NewSystemContext(context.Background())).Find(&got).Error
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestRunInTenant_RollbackOnError(t *testing.T) {
	db, tm := setupScopedDB(t)

	boom := apperrors.NewValidationError("boom")
	err := tm.RunInTenant(context.Background(), "tenant-a", func(ctx context.Context) error {
		if err := tm.GetTx(ctx).Create(&scopedRecord{Name: "never-lands"}).Error; err != nil {
			return err
		}
		return boom
	})
	require.Error(t, err)
	assert.Equal(t, boom, err)

	var count int64
	require.NoError(t, db.WithContext(tenant.NewSystemContext(context.Background())).Model(&scopedRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRunInTenant_RejectsEmptyTenant(t *testing.T) {
	_, tm := setupScopedDB(t)

	err := tm.RunInTenant(context.Background(), "", func(ctx context.Context) error {
		return nil
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsForbiddenError(err))
}
