package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	notificationUC "sitedesk/internal/application/notification/usecases"
	recurrenceUC "sitedesk/internal/application/recurrence/usecases"
	siteUC "sitedesk/internal/application/site/usecases"
	ticketUC "sitedesk/internal/application/ticket/usecases"
	"sitedesk/internal/infrastructure/config"
	"sitedesk/internal/infrastructure/email"
	"sitedesk/internal/infrastructure/repository"
	"sitedesk/internal/interfaces/http/handlers"
	"sitedesk/internal/interfaces/http/middleware"
	"sitedesk/internal/shared/db"
	"sitedesk/internal/shared/logger"
	"sitedesk/internal/shared/services/markdown"

	_ "sitedesk/docs"
)

// Router wires the HTTP surface: repositories, use cases, handlers, routes.
type Router struct {
	engine              *gin.Engine
	server              *http.Server
	ticketHandler       *handlers.TicketHandler
	siteHandler         *handlers.SiteHandler
	recurrenceHandler   *handlers.RecurrenceHandler
	notificationHandler *handlers.NotificationHandler
	redisClient         *redis.Client
	logger              logger.Interface
}

// NewRouter creates a new HTTP router with all dependencies. redisClient may
// be nil, in which case IP rate limiting is disabled.
func NewRouter(database *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	txManager := db.NewTransactionManager(database)
	siteRepo := repository.NewSiteRepository(database)
	allocator := repository.NewSiteSequenceRepository(database)
	ticketRepo := repository.NewTicketRepository(database)
	historyRepo := repository.NewTicketHistoryRepository(database)
	ruleRepo := repository.NewRecurrenceRuleRepository(database)
	notifRepo := repository.NewNotificationRepository(database)
	digestStateRepo := repository.NewDigestStateRepository(database)

	markdownSvc := markdown.NewService()
	mailer := email.NewDigestMailer(&cfg.Email)

	createTicketUC := ticketUC.NewCreateTicketUseCase(txManager, siteRepo, allocator, ticketRepo, log)
	updateTicketUC := ticketUC.NewUpdateTicketUseCase(txManager, ticketRepo, historyRepo, log)
	getTicketUC := ticketUC.NewGetTicketUseCase(ticketRepo, log)
	listTicketsUC := ticketUC.NewListTicketsUseCase(ticketRepo, log)

	createSiteUC := siteUC.NewCreateSiteUseCase(txManager, siteRepo, log)
	listSitesUC := siteUC.NewListSitesUseCase(siteRepo, log)

	createRuleUC := recurrenceUC.NewCreateRuleUseCase(txManager, ruleRepo, ticketRepo, log)
	deactivateRuleUC := recurrenceUC.NewDeactivateRuleUseCase(ruleRepo, log)

	listNotificationsUC := notificationUC.NewListNotificationsUseCase(notifRepo, log)
	markReadUC := notificationUC.NewMarkNotificationReadUseCase(notifRepo, log)
	dailyDigestUC := notificationUC.NewDailyDigestUseCase(
		txManager, ticketRepo, historyRepo, notifRepo, digestStateRepo,
		markdownSvc, mailer, log,
	)

	return &Router{
		engine:              engine,
		ticketHandler:       handlers.NewTicketHandler(createTicketUC, updateTicketUC, getTicketUC, listTicketsUC, log),
		siteHandler:         handlers.NewSiteHandler(createSiteUC, listSitesUC, log),
		recurrenceHandler:   handlers.NewRecurrenceHandler(createRuleUC, deactivateRuleUC, log),
		notificationHandler: handlers.NewNotificationHandler(listNotificationsUC, markReadUC, dailyDigestUC, log),
		redisClient:         redisClient,
		logger:              log,
	}
}

// SetupRoutes configures all HTTP routes.
func (r *Router) SetupRoutes(cfg *config.Config) {
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/health", handlers.Health)

	api := r.engine.Group("/api/v1")
	if r.redisClient != nil && cfg.Server.RateLimitRequests > 0 {
		limiter := middleware.NewRateLimiter(
			r.redisClient,
			cfg.Server.RateLimitRequests,
			time.Duration(cfg.Server.RateLimitWindow)*time.Second,
		)
		api.Use(limiter.Limit())
	}
	api.Use(middleware.TenantScope())
	{
		sites := api.Group("/sites")
		{
			sites.POST("", r.siteHandler.CreateSite)
			sites.GET("", r.siteHandler.ListSites)
		}

		tickets := api.Group("/tickets")
		{
			tickets.GET("", r.ticketHandler.ListTickets)
			tickets.GET("/:id", r.ticketHandler.GetTicket)
			tickets.GET("/number/:number", r.ticketHandler.GetTicketByNumber)
			tickets.POST("", middleware.Identity(), r.ticketHandler.CreateTicket)
			tickets.PATCH("/:id", middleware.Identity(), r.ticketHandler.UpdateTicket)
		}

		rules := api.Group("/recurrence-rules")
		{
			rules.POST("", r.recurrenceHandler.CreateRule)
			rules.DELETE("/:id", r.recurrenceHandler.DeactivateRule)
		}

		notifications := api.Group("/notifications", middleware.Identity())
		{
			notifications.GET("", r.notificationHandler.ListNotifications)
			notifications.POST("/:id/read", r.notificationHandler.MarkNotificationRead)
			notifications.POST("/digest/refresh", r.notificationHandler.RefreshDigest)
		}
	}
}

// GetEngine returns the Gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server.
func (r *Router) Run(addr string) error {
	r.server = &http.Server{
		Addr:              addr,
		Handler:           r.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return r.server.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (r *Router) Shutdown(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	return r.server.Shutdown(ctx)
}
