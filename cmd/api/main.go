package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/pengaduan-service/internal/api/http"
	"github.com/spec-kit/pengaduan-service/internal/api/http/handlers"
	"github.com/spec-kit/pengaduan-service/internal/auth"
	"github.com/spec-kit/pengaduan-service/internal/cache"
	"github.com/spec-kit/pengaduan-service/internal/config"
	"github.com/spec-kit/pengaduan-service/internal/datasource"
	"github.com/spec-kit/pengaduan-service/internal/events"
	"github.com/spec-kit/pengaduan-service/internal/observability"
	"github.com/spec-kit/pengaduan-service/internal/persistence"
	"github.com/spec-kit/pengaduan-service/internal/repository"
	"github.com/spec-kit/pengaduan-service/internal/service"
	"github.com/spec-kit/pengaduan-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	responseRepo := repository.NewResponseRepository(pool)
	escalationRepo := repository.NewEscalationRepository(pool)
	statusLogRepo := repository.NewStatusLogRepository(pool)
	referenceRepo := repository.NewReferenceRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	qrRepo := repository.NewQRCodeRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		ResponseRepo:   responseRepo,
		EscalationRepo: escalationRepo,
		StatusLogRepo:  statusLogRepo,
		ReferenceRepo:  referenceRepo,
		StaffRepo:      staffRepo,
		Numbers:        service.NewTicketNumberGenerator(redis.Client, cfg.SLA.TicketPrefix),
		Dispatcher:     dispatcher,
		SLAWindow:      cfg.SLA.Window(),
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	// reads and lifecycle writes go to the upstream backend when one is
	// configured, with the local store as fallback; otherwise straight
	// to the local store
	direct := datasource.NewDirectSource(ticketService)
	var source datasource.TicketSource = direct
	if cfg.Backend.BaseURL != "" {
		backend := datasource.NewBackendSource(cfg.Backend, logger)
		lists := cache.NewMemoryCache(cfg.Cache.TTL(), nil)
		source = datasource.NewFallback(backend, direct, lists, logger, metrics)
	}

	authService := service.NewAuthService(cfg.Auth, staffRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), staffRepo)

	qrCache := cache.NewRedisCache(redis.Client, "pengaduan:", cfg.Cache.TTL())
	qrService := service.NewQRService(qrRepo, referenceRepo, qrCache, logger)
	reportService := service.NewReportService(ticketRepo, referenceRepo, nil)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:        handlers.NewTicketsHandler(source, referenceRepo, nil),
		StaffTickets:   handlers.NewStaffTicketsHandler(source, ticketService, nil),
		QR:             handlers.NewQRHandler(qrService),
		Reports:        handlers.NewReportsHandler(reportService, nil),
		Staff:          handlers.NewStaffHandler(authService),
		AuthMiddleware: authMiddleware,
	})

	monitor := worker.NewSLAMonitor(ticketRepo, logger, 0, nil)
	go monitor.Run(ctx)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
