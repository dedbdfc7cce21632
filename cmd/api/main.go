package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/resolvely/ticket-tracker/internal/api/http"
	"github.com/resolvely/ticket-tracker/internal/api/http/handlers"
	"github.com/resolvely/ticket-tracker/internal/auth"
	"github.com/resolvely/ticket-tracker/internal/config"
	"github.com/resolvely/ticket-tracker/internal/events"
	"github.com/resolvely/ticket-tracker/internal/observability"
	"github.com/resolvely/ticket-tracker/internal/persistence"
	"github.com/resolvely/ticket-tracker/internal/repository"
	"github.com/resolvely/ticket-tracker/internal/service"
	"github.com/resolvely/ticket-tracker/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(cfg.Postgres.DSN, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartEventSubscribers(
		service.NewAuditService(dispatcher, historyRepo, logger),
		service.NewNotificationService(dispatcher, logger, cfg.Notification),
	)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:     userRepo,
		TokenManager: tokens,
		Revoker:      redis,
		Logger:       logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		CommentRepo: commentRepo,
		CatalogRepo: catalogRepo,
		UserRepo:    userRepo,
		HistoryRepo: historyRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
		RecentLimit: cfg.Dashboard.RecentLimit,
	})
	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		TicketRepo:      ticketRepo,
		CommentRepo:     commentRepo,
		CatalogRepo:     catalogRepo,
		UserRepo:        userRepo,
		Logger:          logger,
		RecentLimit:     cfg.Dashboard.RecentLimit,
		ActivityLimit:   cfg.Dashboard.ActivityDefaultLimit,
		AnalyticsMonths: cfg.Dashboard.AnalyticsMonths,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, redis, logger)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics, logger),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
