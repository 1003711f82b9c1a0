package usecases

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sitedesk/internal/domain/site"
	"sitedesk/internal/domain/ticket"
	vo "sitedesk/internal/domain/ticket/valueobjects"
	"sitedesk/internal/infrastructure/persistence/models"
	"sitedesk/internal/infrastructure/repository"
	"sitedesk/internal/shared/db"
	"sitedesk/internal/shared/logger"
	"sitedesk/internal/shared/tenant"
)

const testTenant = tenant.ID("tenant-a")

type recurrenceFixture struct {
	db        *gorm.DB
	txManager *db.TransactionManager
	createUC  *CreateRuleUseCase
	runUC     *RunDueRulesUseCase
}

func setupRecurrenceFixture(t *testing.T) *recurrenceFixture {
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
		&models.RecurrenceRuleModel{},
	))

	txManager := db.NewTransactionManager(gormDB)
	ruleRepo := repository.NewRecurrenceRuleRepository(gormDB)
	ticketRepo := repository.NewTicketRepository(gormDB)
	siteRepo := repository.NewSiteRepository(gormDB)
	allocator := repository.NewSiteSequenceRepository(gormDB)
	log := logger.NewLogger()

	return &recurrenceFixture{
		db:        gormDB,
		txManager: txManager,
		createUC:  NewCreateRuleUseCase(txManager, ruleRepo, ticketRepo, log),
		runUC:     NewRunDueRulesUseCase(txManager, ruleRepo, ticketRepo, siteRepo, allocator, log),
	}
}

// seedTemplate persists a site and a template ticket under the test tenant
// and returns the template's id.
func (f *recurrenceFixture) seedTemplate(t *testing.T, title string) uint {
	t.Helper()

	siteRepo := repository.NewSiteRepository(f.db)
	ticketRepo := repository.NewTicketRepository(f.db)
	allocator := repository.NewSiteSequenceRepository(f.db)

	var templateID uint
	require.NoError(t, f.txManager.RunInTenant(context.Background(), testTenant, func(ctx context.Context) error {
		s, err := site.NewSite("Meadow Solar Farm", "1 Main St")
		if err != nil {
			return err
		}
		if err := siteRepo.Save(ctx, s); err != nil {
			return err
		}

		template, err := ticket.NewTicket(title, "Check the inverters", vo.PriorityMedium, s.ID(), 1, nil)
		if err != nil {
			return err
		}
		allocation, err := allocator.Allocate(ctx, s.ID(), s.Name())
		if err != nil {
			return err
		}
		if err := template.SetNumber(allocation.Identifier); err != nil {
			return err
		}
		if err := ticketRepo.Save(ctx, template); err != nil {
			return err
		}
		templateID = template.ID()
		return nil
	}))
	return templateID
}

func (f *recurrenceFixture) ticketCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	ctx := tenant.NewContext(context.Background(), testTenant)
	require.NoError(t, f.db.WithContext(ctx).Model(&models.TicketModel{}).Count(&count).Error)
	return count
}

func TestRunDueRulesUseCase_Execute(t *testing.T) {
	t.Run("fires a due rule exactly once and advances the schedule", func(t *testing.T) {
		f := setupRecurrenceFixture(t)
		templateID := f.seedTemplate(t, "Quarterly inspection")

		firstScheduled := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		ctx := tenant.NewContext(context.Background(), testTenant)
		created, err := f.createUC.Execute(ctx, CreateRuleCommand{
			TemplateTicketID: templateID,
			Frequency:        "weekly",
			IntervalValue:    2,
			FirstScheduledAt: firstScheduled,
		})
		require.NoError(t, err)

		now := firstScheduled.Add(time.Hour)
		result, err := f.runUC.Execute(context.Background(), now)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Due)
		assert.Equal(t, 1, result.Spawned)
		assert.Zero(t, result.Failed)

		// template plus one spawned ticket
		assert.Equal(t, int64(2), f.ticketCount(t))

		ticketRepo := repository.NewTicketRepository(f.db)
		tickets, total, err := ticketRepo.List(ctx, ticket.TicketFilter{Source: ptrSource(vo.SourceRecurring)})
		require.NoError(t, err)
		require.Equal(t, int64(1), total)
		spawned := tickets[0]
		assert.True(t, strings.HasPrefix(spawned.Description(), ticket.AutoGeneratedPrefix))
		assert.Equal(t, "Quarterly inspection", spawned.Title())
		require.NotNil(t, spawned.RecurrenceRuleID())
		assert.Equal(t, created.RuleID, *spawned.RecurrenceRuleID())
		require.NotNil(t, spawned.DueDate())
		assert.True(t, spawned.DueDate().Equal(firstScheduled))
		assert.True(t, strings.HasPrefix(spawned.Number(), "MEAD"))

		ruleRepo := repository.NewRecurrenceRuleRepository(f.db)
		rule, err := ruleRepo.GetByID(ctx, created.RuleID)
		require.NoError(t, err)
		assert.True(t, rule.NextScheduledAt().Equal(firstScheduled.AddDate(0, 0, 14)))
		require.NotNil(t, rule.LastGeneratedAt())

		// a second pass at the same instant finds nothing due
		again, err := f.runUC.Execute(context.Background(), now)
		require.NoError(t, err)
		assert.Zero(t, again.Due)
		assert.Zero(t, again.Spawned)
		assert.Equal(t, int64(2), f.ticketCount(t))
	})

	t.Run("concurrent passes spawn one ticket per cycle", func(t *testing.T) {
		f := setupRecurrenceFixture(t)
		templateID := f.seedTemplate(t, "Concurrent inspection")

		firstScheduled := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		ctx := tenant.NewContext(context.Background(), testTenant)
		_, err := f.createUC.Execute(ctx, CreateRuleCommand{
			TemplateTicketID: templateID,
			Frequency:        "daily",
			IntervalValue:    1,
			FirstScheduledAt: firstScheduled,
		})
		require.NoError(t, err)

		now := firstScheduled.Add(time.Minute)
		const passes = 4
		results := make([]*RunDueRulesResult, passes)
		var wg sync.WaitGroup
		for i := 0; i < passes; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				r, err := f.runUC.Execute(context.Background(), now)
				if err == nil {
					results[idx] = r
				}
			}(i)
		}
		wg.Wait()

		spawned := 0
		for _, r := range results {
			if r != nil {
				spawned += r.Spawned
			}
		}
		assert.Equal(t, 1, spawned)
		assert.Equal(t, int64(2), f.ticketCount(t))
	})

	t.Run("expired rules are deactivated instead of fired", func(t *testing.T) {
		f := setupRecurrenceFixture(t)
		templateID := f.seedTemplate(t, "Retired inspection")

		firstScheduled := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		endsAt := firstScheduled.Add(12 * time.Hour)
		ctx := tenant.NewContext(context.Background(), testTenant)
		created, err := f.createUC.Execute(ctx, CreateRuleCommand{
			TemplateTicketID: templateID,
			Frequency:        "daily",
			IntervalValue:    1,
			FirstScheduledAt: firstScheduled,
			EndsAt:           &endsAt,
		})
		require.NoError(t, err)

		// first fire lands before endsAt, the advanced schedule lands after
		now := firstScheduled.Add(time.Hour)
		result, err := f.runUC.Execute(context.Background(), now)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Spawned)

		ruleRepo := repository.NewRecurrenceRuleRepository(f.db)
		rule, err := ruleRepo.GetByID(ctx, created.RuleID)
		require.NoError(t, err)
		assert.False(t, rule.IsActive())

		later, err := f.runUC.Execute(context.Background(), now.AddDate(0, 0, 2))
		require.NoError(t, err)
		assert.Zero(t, later.Due)
		assert.Equal(t, int64(2), f.ticketCount(t))
	})

	t.Run("stored rule with unknown frequency fires and advances one day", func(t *testing.T) {
		f := setupRecurrenceFixture(t)
		templateID := f.seedTemplate(t, "Legacy cadence")

		// A row written before frequency validation tightened. It must not
		// be rejected at read time, or it would stay due forever.
		scheduled := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		legacy := models.RecurrenceRuleModel{
			TenantID:         string(testTenant),
			TemplateTicketID: templateID,
			Frequency:        "fortnightly",
			IntervalValue:    1,
			NextScheduledAt:  scheduled,
			IsActive:         true,
			Version:          1,
		}
		ctx := tenant.NewContext(context.Background(), testTenant)
		require.NoError(t, f.db.WithContext(ctx).Create(&legacy).Error)

		result, err := f.runUC.Execute(context.Background(), scheduled.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Due)
		assert.Equal(t, 1, result.Spawned)
		assert.Zero(t, result.Failed)
		assert.Empty(t, result.Errors)

		ruleRepo := repository.NewRecurrenceRuleRepository(f.db)
		rule, err := ruleRepo.GetByID(ctx, legacy.ID)
		require.NoError(t, err)
		assert.True(t, rule.NextScheduledAt().Equal(scheduled.AddDate(0, 0, 1)))
	})

	t.Run("missing template fails one rule without starving siblings", func(t *testing.T) {
		f := setupRecurrenceFixture(t)
		healthyTemplate := f.seedTemplate(t, "Healthy inspection")
		orphanTemplate := f.seedTemplate(t, "Orphaned inspection")

		firstScheduled := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		ctx := tenant.NewContext(context.Background(), testTenant)
		healthy, err := f.createUC.Execute(ctx, CreateRuleCommand{
			TemplateTicketID: healthyTemplate,
			Frequency:        "daily",
			IntervalValue:    1,
			FirstScheduledAt: firstScheduled,
		})
		require.NoError(t, err)
		orphan, err := f.createUC.Execute(ctx, CreateRuleCommand{
			TemplateTicketID: orphanTemplate,
			Frequency:        "daily",
			IntervalValue:    1,
			FirstScheduledAt: firstScheduled,
		})
		require.NoError(t, err)

		require.NoError(t, f.db.WithContext(ctx).Delete(&models.TicketModel{}, orphanTemplate).Error)

		result, err := f.runUC.Execute(context.Background(), firstScheduled.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 2, result.Due)
		assert.Equal(t, 1, result.Spawned)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, orphan.RuleID, result.Errors[0].RuleID)
		assert.Equal(t, testTenant, result.Errors[0].TenantID)

		// the healthy rule advanced, the failed one is untouched
		ruleRepo := repository.NewRecurrenceRuleRepository(f.db)
		advanced, err := ruleRepo.GetByID(ctx, healthy.RuleID)
		require.NoError(t, err)
		assert.True(t, advanced.NextScheduledAt().After(firstScheduled))

		stuck, err := ruleRepo.GetByID(ctx, orphan.RuleID)
		require.NoError(t, err)
		assert.True(t, stuck.NextScheduledAt().Equal(firstScheduled))
	})

	t.Run("rule for unknown frequency is rejected at creation", func(t *testing.T) {
		f := setupRecurrenceFixture(t)
		templateID := f.seedTemplate(t, "Bad frequency")

		ctx := tenant.NewContext(context.Background(), testTenant)
		_, err := f.createUC.Execute(ctx, CreateRuleCommand{
			TemplateTicketID: templateID,
			Frequency:        "fortnightly",
			IntervalValue:    1,
			FirstScheduledAt: time.Now().UTC().Add(time.Hour),
		})
		require.Error(t, err)
	})
}

func ptrSource(s vo.Source) *vo.Source {
	return &s
}
