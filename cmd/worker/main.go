package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	notificationUC "sitedesk/internal/application/notification/usecases"
	recurrenceUC "sitedesk/internal/application/recurrence/usecases"
	"sitedesk/internal/domain/ticket"
	"sitedesk/internal/infrastructure/cache"
	"sitedesk/internal/infrastructure/config"
	"sitedesk/internal/infrastructure/database"
	"sitedesk/internal/infrastructure/email"
	"sitedesk/internal/infrastructure/repository"
	"sitedesk/internal/shared/biztime"
	"sitedesk/internal/shared/db"
	"sitedesk/internal/shared/goroutine"
	"sitedesk/internal/shared/logger"
	"sitedesk/internal/shared/services/markdown"
	"sitedesk/internal/shared/tenant"
)

const jobLockTTL = 10 * time.Minute

func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger, env != "production"); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.NewLogger()
	log.Infow("starting scheduler worker", "environment", env)

	if err := biztime.Init(cfg.Business.Timezone); err != nil {
		log.Fatalw("failed to initialize business timezone", "error", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		log.Fatalw("failed to initialize database", "error", err)
	}
	defer database.Close()

	// Redis is an optimization layer only: without the lock, every
	// correctness guarantee still holds through the guarded database
	// updates, so a missing redis degrades to duplicate sweep attempts.
	var redisClient *redis.Client
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warnw("redis unavailable, running without job locks", "error", err)
		client.Close()
	} else {
		redisClient = client
		defer client.Close()
		log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
	}

	jobLock := cache.NewJobLock(redisClient, "sitedesk:", jobLockTTL)
	lockOwner := lockOwnerID()

	gormDB := database.Get()
	txManager := db.NewTransactionManager(gormDB)
	siteRepo := repository.NewSiteRepository(gormDB)
	allocator := repository.NewSiteSequenceRepository(gormDB)
	ticketRepo := repository.NewTicketRepository(gormDB)
	historyRepo := repository.NewTicketHistoryRepository(gormDB)
	ruleRepo := repository.NewRecurrenceRuleRepository(gormDB)
	notifRepo := repository.NewNotificationRepository(gormDB)
	digestStateRepo := repository.NewDigestStateRepository(gormDB)

	runRulesUC := recurrenceUC.NewRunDueRulesUseCase(txManager, ruleRepo, ticketRepo, siteRepo, allocator, log)
	digestUC := notificationUC.NewDailyDigestUseCase(
		txManager, ticketRepo, historyRepo, notifRepo, digestStateRepo,
		markdown.NewService(), email.NewDigestMailer(&cfg.Email), log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recurrenceEvery := time.Duration(cfg.Jobs.RecurrenceInterval) * time.Minute
	digestEvery := time.Duration(cfg.Jobs.DigestInterval) * time.Minute

	var wg sync.WaitGroup
	wg.Add(2)

	goroutine.SafeGo(log, "recurrence-ticker", func() {
		defer wg.Done()
		runOnTicker(ctx, recurrenceEvery, func() {
			if !jobLock.TryAcquire(ctx, "recurrence-run", lockOwner) {
				log.Debugw("recurrence run held by another instance")
				return
			}
			defer jobLock.Release(ctx, "recurrence-run", lockOwner)

			result, err := runRulesUC.Execute(ctx, time.Now().UTC())
			if err != nil {
				log.Errorw("recurrence run failed", "error", err)
				return
			}
			if result.Due > 0 {
				log.Infow("recurrence run completed",
					"due", result.Due, "spawned", result.Spawned,
					"skipped", result.Skipped, "failed", result.Failed)
			}
		})
	})

	goroutine.SafeGo(log, "digest-ticker", func() {
		defer wg.Done()
		runOnTicker(ctx, digestEvery, func() {
			if !jobLock.TryAcquire(ctx, "digest-sweep", lockOwner) {
				log.Debugw("digest sweep held by another instance")
				return
			}
			defer jobLock.Release(ctx, "digest-sweep", lockOwner)

			sweepDigests(ctx, ticketRepo, digestUC, log)
		})
	})

	log.Infow("scheduler worker started",
		"recurrence_interval", recurrenceEvery,
		"digest_interval", digestEvery)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Infow("received signal, shutting down", "signal", sig)

	cancel()
	wg.Wait()
	log.Infow("scheduler worker stopped")
}

// runOnTicker runs fn immediately and then on every tick until ctx ends.
func runOnTicker(ctx context.Context, every time.Duration, fn func()) {
	fn()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// sweepDigests refreshes the daily digest for every user who currently has
// open assigned tickets. Users whose digest already ran today are a cheap
// no-op, so the sweep can run often. The sweep writes in-app notifications
// only; email delivery happens on the user-facing refresh, where the auth
// proxy forwards the address.
func sweepDigests(ctx context.Context, ticketRepo ticket.TicketRepository, digestUC *notificationUC.DailyDigestUseCase, log logger.Interface) {
	refs, err := ticketRepo.FindOpenAssignees(tenant.NewSystemContext(ctx))
	if err != nil {
		log.Errorw("failed to list digest candidates", "error", err)
		return
	}

	now := time.Now().UTC()
	ran := 0
	for _, ref := range refs {
		tenantCtx := tenant.NewContext(ctx, ref.TenantID)
		result, err := digestUC.Execute(tenantCtx, notificationUC.DailyDigestCommand{
			UserID: ref.UserID,
			Now:    now,
		})
		if err != nil {
			log.Errorw("digest refresh failed",
				"tenant_id", ref.TenantID, "user_id", ref.UserID, "error", err)
			continue
		}
		if result.Ran {
			ran++
		}
	}

	if ran > 0 {
		log.Infow("digest sweep completed", "candidates", len(refs), "ran", ran)
	}
}

func lockOwnerID() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("%s-%d", hostname, os.Getpid())
}
