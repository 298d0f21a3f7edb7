// Package http wires repositories, use cases, and handlers into the gin
// engine and owns the background component lifecycle.
package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appaudit "github.com/praxisops/praxis/internal/application/audit"
	appauth "github.com/praxisops/praxis/internal/application/auth"
	appautomation "github.com/praxisops/praxis/internal/application/automation"
	appnotification "github.com/praxisops/praxis/internal/application/notification"
	apppermission "github.com/praxisops/praxis/internal/application/permission"
	appstatus "github.com/praxisops/praxis/internal/application/status"
	"github.com/praxisops/praxis/internal/application/ticket/usecases"
	"github.com/praxisops/praxis/internal/domain/shared/events"
	"github.com/praxisops/praxis/internal/infrastructure/auth"
	"github.com/praxisops/praxis/internal/infrastructure/cache"
	"github.com/praxisops/praxis/internal/infrastructure/config"
	"github.com/praxisops/praxis/internal/infrastructure/email"
	"github.com/praxisops/praxis/internal/infrastructure/permission"
	"github.com/praxisops/praxis/internal/infrastructure/ratelimit"
	"github.com/praxisops/praxis/internal/infrastructure/repository"
	"github.com/praxisops/praxis/internal/infrastructure/scheduler"
	"github.com/praxisops/praxis/internal/infrastructure/sms"
	authhandlers "github.com/praxisops/praxis/internal/interfaces/http/handlers/auth"
	automationhandlers "github.com/praxisops/praxis/internal/interfaces/http/handlers/automation"
	mcphandlers "github.com/praxisops/praxis/internal/interfaces/http/handlers/mcp"
	notificationhandlers "github.com/praxisops/praxis/internal/interfaces/http/handlers/notification"
	statushandlers "github.com/praxisops/praxis/internal/interfaces/http/handlers/status"
	tickethandlers "github.com/praxisops/praxis/internal/interfaces/http/handlers/ticket"
	trackinghandlers "github.com/praxisops/praxis/internal/interfaces/http/handlers/tracking"
	"github.com/praxisops/praxis/internal/interfaces/http/middleware"
	"github.com/praxisops/praxis/internal/interfaces/http/routes"
	"github.com/praxisops/praxis/internal/shared/db"
	"github.com/praxisops/praxis/internal/shared/logger"
	"github.com/praxisops/praxis/internal/shared/services/markdown"
)

// Router owns the wired HTTP surface plus the background components that
// must start and stop with the server.
type Router struct {
	engine *gin.Engine
	cfg    *config.Config
	logger logger.Interface

	dispatcher    *events.InMemoryDispatcher
	scheduler     *scheduler.Manager
	statusEngine  *appstatus.Engine
	automationSvc *appautomation.Service
	notifications *appnotification.Dispatcher
	eventTrigger  *appautomation.EventTrigger
	auditLogger   *appaudit.EventLogger
}

func NewRouter(cfg *config.Config, gdb *gorm.DB, log logger.Interface) (*Router, error) {
	engine := gin.New()

	// Repositories.
	ticketRepo := repository.NewTicketRepository(gdb)
	statusRepo := repository.NewTicketStatusRepository(gdb)
	userRepo := repository.NewUserRepository(gdb)
	ruleRepo := repository.NewAutomationRuleRepository(gdb)
	runRepo := repository.NewAutomationRunRepository(gdb)
	notificationRepo := repository.NewNotificationRepository(gdb)
	settingRepo := repository.NewNotificationSettingRepository(gdb)
	preferenceRepo := repository.NewNotificationPreferenceRepository(gdb)
	trackingRepo := repository.NewEmailTrackingRepository(gdb)
	auditRepo := repository.NewAuditLogRepository(gdb)

	txManager := db.NewTransactionManager(gdb)

	// Redis-backed limiter and dedup when configured, in-process otherwise.
	var limiter ratelimit.RateLimiter
	var dedup cache.NotificationDeduplicator
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter = ratelimit.NewRedisRateLimiter(client)
		dedup = cache.NewRedisNotificationDeduplicator(client)
	} else {
		limiter = ratelimit.NewMemoryRateLimiter()
		dedup = cache.NewMemoryNotificationDeduplicator()
	}

	// Core services.
	dispatcher := events.NewInMemoryDispatcher(100, log)
	statusEngine := appstatus.NewEngine(statusRepo, ticketRepo, txManager, cfg.Tickets.TerminalStatuses, log)
	markdownSvc := markdown.NewService()

	createTicketUC := usecases.NewCreateTicketUseCase(ticketRepo, statusEngine, txManager, dispatcher, log)
	getTicketUC := usecases.NewGetTicketUseCase(ticketRepo)
	listTicketsUC := usecases.NewListTicketsUseCase(ticketRepo)
	updateTicketUC := usecases.NewUpdateTicketUseCase(ticketRepo, statusEngine, txManager, dispatcher, log)
	addReplyUC := usecases.NewAddReplyUseCase(ticketRepo, markdownSvc, txManager, dispatcher, log)
	listRepliesUC := usecases.NewListRepliesUseCase(ticketRepo)
	addWatcherUC := usecases.NewAddWatcherUseCase(ticketRepo, dispatcher, log)
	removeWatcherUC := usecases.NewRemoveWatcherUseCase(ticketRepo, dispatcher, log)
	listWatchersUC := usecases.NewListWatchersUseCase(ticketRepo)

	// Automation.
	registry := appautomation.NewRegistry()
	registry.Register("close_stale_tickets", appautomation.NewCloseStaleTicketsModule(ticketRepo, statusEngine, log))

	executor := appautomation.NewExecutor(ruleRepo, runRepo, registry, txManager, log)
	schedulerMgr, err := scheduler.NewManager(executor, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	executor.SetTimers(schedulerMgr)
	automationSvc := appautomation.NewService(ruleRepo, runRepo, registry, schedulerMgr, log)
	eventTrigger := appautomation.NewEventTrigger(ruleRepo, executor, log)

	// Notifications.
	emailSender := email.NewSMTPSender(cfg.Email, trackingRepo)
	smsSender := sms.NewSender(cfg.SMS)
	dedupWindow := time.Duration(cfg.Notification.DedupWindowSeconds) * time.Second
	notifDispatcher := appnotification.NewDispatcher(
		settingRepo, preferenceRepo, notificationRepo, userRepo, ticketRepo,
		emailSender, smsSender, dedup, registry, log, dedupWindow,
	)
	notificationSvc := appnotification.NewService(notificationRepo, settingRepo, preferenceRepo)

	// Audit.
	auditLogger := appaudit.NewEventLogger(appaudit.NewRecorder(auditRepo, log))

	// Auth and permissions.
	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.BcryptCost)
	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.AccessExpMinutes)
	authSvc := appauth.NewService(userRepo, hasher, jwtService, log)

	enforcer, err := permission.NewEnforcer(gdb, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	guard := apppermission.NewGuard(userRepo, enforcer, log)

	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)
	permMiddleware := middleware.NewPermissionMiddleware(guard)

	// Global middleware chain.
	engine.Use(
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.SecurityHeaders(),
		middleware.CSRF(),
		middleware.RateLimit(limiter, ratelimit.Limit{
			Requests: cfg.RateLimit.Requests,
			Window:   time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
		}),
	)

	routes.SetupAuthRoutes(engine, &routes.AuthRouteConfig{
		AuthHandler:    authhandlers.NewAuthHandler(authSvc),
		AuthMiddleware: authMiddleware,
		RateLimiter:    limiter,
		AuthRequests:   cfg.RateLimit.AuthRequests,
		AuthWindow:     time.Duration(cfg.RateLimit.AuthWindowSecs) * time.Second,
	})

	routes.SetupTicketRoutes(engine, &routes.TicketRouteConfig{
		TicketHandler: tickethandlers.NewTicketHandler(
			createTicketUC, getTicketUC, listTicketsUC, updateTicketUC,
			addReplyUC, listRepliesUC, addWatcherUC, removeWatcherUC, listWatchersUC,
		),
		AuthMiddleware:       authMiddleware,
		PermissionMiddleware: permMiddleware,
	})

	routes.SetupStatusRoutes(engine, &routes.StatusRouteConfig{
		StatusHandler:        statushandlers.NewStatusHandler(statusEngine),
		AuthMiddleware:       authMiddleware,
		PermissionMiddleware: permMiddleware,
	})

	routes.SetupAutomationRoutes(engine, &routes.AutomationRouteConfig{
		AutomationHandler:    automationhandlers.NewAutomationHandler(automationSvc),
		AuthMiddleware:       authMiddleware,
		PermissionMiddleware: permMiddleware,
	})

	routes.SetupNotificationRoutes(engine, &routes.NotificationRouteConfig{
		NotificationHandler: notificationhandlers.NewNotificationHandler(notificationSvc),
		AuthMiddleware:      authMiddleware,
	})

	routes.SetupTrackingRoutes(engine, &routes.TrackingRouteConfig{
		TrackingHandler: trackinghandlers.NewTrackingHandler(trackingRepo),
	})

	routes.SetupMCPRoutes(engine, &routes.MCPRouteConfig{
		MCPHandler: mcphandlers.NewMCPHandler(cfg.MCP, listTicketsUC, getTicketUC, updateTicketUC, addReplyUC),
	})

	return &Router{
		engine:        engine,
		cfg:           cfg,
		logger:        log,
		dispatcher:    dispatcher,
		scheduler:     schedulerMgr,
		statusEngine:  statusEngine,
		automationSvc: automationSvc,
		notifications: notifDispatcher,
		eventTrigger:  eventTrigger,
		auditLogger:   auditLogger,
	}, nil
}

// Start brings up the event bus and scheduler, seeds the status catalog,
// and re-arms persisted rule schedules.
func (r *Router) Start(ctx context.Context) error {
	if err := r.dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}

	if err := r.notifications.Register(r.dispatcher); err != nil {
		return fmt.Errorf("failed to register notification dispatcher: %w", err)
	}
	if err := r.eventTrigger.Register(r.dispatcher); err != nil {
		return fmt.Errorf("failed to register automation trigger: %w", err)
	}
	if err := r.auditLogger.Register(r.dispatcher); err != nil {
		return fmt.Errorf("failed to register audit logger: %w", err)
	}

	if err := r.statusEngine.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("failed to seed status catalog: %w", err)
	}

	// Scheduler must be running before schedules are restored so the
	// restored jobs report their next fire times.
	r.scheduler.Start()
	if err := r.automationSvc.RestoreSchedules(ctx); err != nil {
		return fmt.Errorf("failed to restore automation schedules: %w", err)
	}

	r.logger.Infow("background components started")
	return nil
}

// Stop shuts the scheduler and event bus down in reverse start order.
func (r *Router) Stop() {
	if err := r.scheduler.Stop(); err != nil {
		r.logger.Errorw("failed to stop scheduler", "error", err)
	}
	if err := r.dispatcher.Stop(); err != nil {
		r.logger.Errorw("failed to stop event dispatcher", "error", err)
	}
}

func (r *Router) Engine() *gin.Engine { return r.engine }
