package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sitedesk/internal/infrastructure/persistence/models"
	"sitedesk/internal/shared/db"
	"sitedesk/internal/shared/tenant"
)

const (
	testTenantA = tenant.ID("tenant-a")
	testTenantB = tenant.ID("tenant-b")
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the shared in-memory database alive and
	// serializes concurrent statements the way a real server would under
	// row locking.
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.RegisterTenantScope(gormDB))

	err = gormDB.AutoMigrate(
		&models.SiteModel{},
		&models.SiteSequenceModel{},
		&models.TicketModel{},
		&models.TicketHistoryModel{},
		&models.RecurrenceRuleModel{},
		&models.NotificationModel{},
		&models.DigestStateModel{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return gormDB
}

func tenantCtx(id tenant.ID) context.Context {
	return tenant.NewContext(context.Background(), id)
}
