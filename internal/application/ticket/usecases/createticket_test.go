package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sitedesk/internal/domain/site"
	"sitedesk/internal/infrastructure/persistence/models"
	"sitedesk/internal/infrastructure/repository"
	"sitedesk/internal/shared/db"
	"sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/logger"
	"sitedesk/internal/shared/tenant"
)

const testTenant = tenant.ID("tenant-a")

func setupTicketFixture(t *testing.T) (*CreateTicketUseCase, *UpdateTicketUseCase, *db.TransactionManager, *gorm.DB) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.RegisterTenantScope(gormDB))
	require.NoError(t, gormDB.AutoMigrate(
		&models.SiteModel{},
		&models.SiteSequenceModel{},
		&models.TicketModel{},
		&models.TicketHistoryModel{},
	))

	txManager := db.NewTransactionManager(gormDB)
	siteRepo := repository.NewSiteRepository(gormDB)
	allocator := repository.NewSiteSequenceRepository(gormDB)
	ticketRepo := repository.NewTicketRepository(gormDB)
	historyRepo := repository.NewTicketHistoryRepository(gormDB)
	log := logger.NewLogger()

	createUC := NewCreateTicketUseCase(txManager, siteRepo, allocator, ticketRepo, log)
	updateUC := NewUpdateTicketUseCase(txManager, ticketRepo, historyRepo, log)
	return createUC, updateUC, txManager, gormDB
}

func seedSite(t *testing.T, txManager *db.TransactionManager, gormDB *gorm.DB, name string) *site.Site {
	t.Helper()
	siteRepo := repository.NewSiteRepository(gormDB)
	s, err := site.NewSite(name, "1 Main St")
	require.NoError(t, err)
	require.NoError(t, txManager.RunInTenant(context.Background(), testTenant, func(ctx context.Context) error {
		return siteRepo.Save(ctx, s)
	}))
	return s
}

func TestCreateTicketUseCase_Execute(t *testing.T) {
	t.Run("creates ticket with site-derived identifier", func(t *testing.T) {
		createUC, _, txManager, gormDB := setupTicketFixture(t)
		s := seedSite(t, txManager, gormDB, "Meadow Solar Farm")

		ctx := tenant.NewContext(context.Background(), testTenant)
		result, err := createUC.Execute(ctx, CreateTicketCommand{
			Title:     "Inverter fault",
			Priority:  "high",
			SiteID:    s.ID(),
			CreatorID: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, "MEAD00001", result.Number)
		assert.Equal(t, "new", result.Status)

		second, err := createUC.Execute(ctx, CreateTicketCommand{
			Title:     "Panel cleaning",
			Priority:  "low",
			SiteID:    s.ID(),
			CreatorID: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, "MEAD00002", second.Number)
	})

	t.Run("missing site fails without persisting anything", func(t *testing.T) {
		createUC, _, _, gormDB := setupTicketFixture(t)

		ctx := tenant.NewContext(context.Background(), testTenant)
		_, err := createUC.Execute(ctx, CreateTicketCommand{
			Title:     "Orphan ticket",
			Priority:  "high",
			SiteID:    999,
			CreatorID: 1,
		})
		assert.True(t, errors.IsNotFoundError(err))

		var count int64
		require.NoError(t, gormDB.WithContext(tenant.NewContext(context.Background(), testTenant)).
			Model(&models.TicketModel{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("missing tenant context is refused", func(t *testing.T) {
		createUC, _, txManager, gormDB := setupTicketFixture(t)
		s := seedSite(t, txManager, gormDB, "Meadow Solar Farm")

		_, err := createUC.Execute(context.Background(), CreateTicketCommand{
			Title:     "No tenant",
			Priority:  "high",
			SiteID:    s.ID(),
			CreatorID: 1,
		})
		assert.True(t, errors.IsForbiddenError(err))
	})

	t.Run("invalid priority is rejected", func(t *testing.T) {
		createUC, _, txManager, gormDB := setupTicketFixture(t)
		s := seedSite(t, txManager, gormDB, "Meadow Solar Farm")

		ctx := tenant.NewContext(context.Background(), testTenant)
		_, err := createUC.Execute(ctx, CreateTicketCommand{
			Title:     "Bad priority",
			Priority:  "critical",
			SiteID:    s.ID(),
			CreatorID: 1,
		})
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestUpdateTicketUseCase_Execute(t *testing.T) {
	t.Run("status change writes history", func(t *testing.T) {
		createUC, updateUC, txManager, gormDB := setupTicketFixture(t)
		s := seedSite(t, txManager, gormDB, "Meadow Solar Farm")

		ctx := tenant.NewContext(context.Background(), testTenant)
		created, err := createUC.Execute(ctx, CreateTicketCommand{
			Title:     "Inverter fault",
			Priority:  "high",
			SiteID:    s.ID(),
			CreatorID: 1,
		})
		require.NoError(t, err)

		assignee := uint(5)
		result, err := updateUC.Execute(ctx, UpdateTicketCommand{
			TicketID:   created.TicketID,
			ActorID:    2,
			AssigneeID: &assignee,
		})
		require.NoError(t, err)
		assert.Equal(t, "open", result.Status)

		historyRepo := repository.NewTicketHistoryRepository(gormDB)
		var entries int64
		require.NoError(t, gormDB.WithContext(ctx).
			Model(&models.TicketHistoryModel{}).Count(&entries).Error)
		assert.Equal(t, int64(1), entries)

		found, err := historyRepo.GetByTicketID(ctx, created.TicketID)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, uint(2), found[0].ActorID())
	})

	t.Run("illegal status transition rolls everything back", func(t *testing.T) {
		createUC, updateUC, txManager, gormDB := setupTicketFixture(t)
		s := seedSite(t, txManager, gormDB, "Meadow Solar Farm")

		ctx := tenant.NewContext(context.Background(), testTenant)
		created, err := createUC.Execute(ctx, CreateTicketCommand{
			Title:     "Inverter fault",
			Priority:  "high",
			SiteID:    s.ID(),
			CreatorID: 1,
		})
		require.NoError(t, err)

		badStatus := "resolved"
		_, err = updateUC.Execute(ctx, UpdateTicketCommand{
			TicketID: created.TicketID,
			ActorID:  2,
			Status:   &badStatus,
		})
		assert.True(t, errors.IsValidationError(err))

		var entries int64
		require.NoError(t, gormDB.WithContext(ctx).
			Model(&models.TicketHistoryModel{}).Count(&entries).Error)
		assert.Zero(t, entries)
	})

	t.Run("no changes is a successful no-op", func(t *testing.T) {
		createUC, updateUC, txManager, gormDB := setupTicketFixture(t)
		s := seedSite(t, txManager, gormDB, "Meadow Solar Farm")

		ctx := tenant.NewContext(context.Background(), testTenant)
		created, err := createUC.Execute(ctx, CreateTicketCommand{
			Title:     "Inverter fault",
			Priority:  "high",
			SiteID:    s.ID(),
			CreatorID: 1,
		})
		require.NoError(t, err)

		result, err := updateUC.Execute(ctx, UpdateTicketCommand{
			TicketID: created.TicketID,
			ActorID:  2,
		})
		require.NoError(t, err)
		assert.Equal(t, "new", result.Status)
	})
}
