package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/analyzer"
	httptransport "github.com/spec-kit/support-desk/internal/api/http"
	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/internal/worker"
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

	var (
		ticketRepo repository.TicketRepository
		agentRepo  repository.AgentRepository
		ruleRepo   repository.RuleRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		ticketRepo = repository.NewPostgresTicketRepository(pool)
		agentRepo = repository.NewPostgresAgentRepository(pool)
		ruleRepo = repository.NewPostgresRuleRepository(pool)
	} else {
		ticketRepo = repository.NewMemoryTicketRepository()
		agentRepo = repository.NewMemoryAgentRepository()
		ruleRepo = repository.NewMemoryRuleRepository()
	}

	if err := service.SeedDefaults(ctx, agentRepo, ruleRepo, logger); err != nil {
		logger.Fatal("failed to seed defaults", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notifications.RegisterHandlers()

	var ticketAnalyzer analyzer.Analyzer
	if cfg.Analyzer.APIKey != "" {
		ticketAnalyzer = analyzer.NewClient(cfg.Analyzer)
		logger.Info("analyzer: remote model", zap.String("model", cfg.Analyzer.Model))
	} else {
		ticketAnalyzer = analyzer.NewHeuristic()
		logger.Info("analyzer: heuristic classifier; ANALYZER_API_KEY not set")
	}

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		AgentRepo:  agentRepo,
		Dispatcher: dispatcher,
	})
	routerService := service.NewRouterService(service.RouterDependencies{
		TicketRepo:      ticketRepo,
		AgentRepo:       agentRepo,
		Analyzer:        ticketAnalyzer,
		Dispatcher:      dispatcher,
		Logger:          logger,
		AnalyzerTimeout: cfg.Analyzer.Timeout(),
	})
	escalationService := service.NewEscalationService(service.EscalationDependencies{
		TicketRepo: ticketRepo,
		RuleRepo:   ruleRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	statsService := service.NewStatsService(service.StatsDependencies{
		TicketRepo: ticketRepo,
		AgentRepo:  agentRepo,
		Cache:      redis,
		Logger:     logger,
	})
	agentService := service.NewAgentService(agentRepo)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	adminAuth := auth.NewAdminAuth(tokenManager, cfg.Auth.AdminKeyHash)
	if !adminAuth.Enabled() {
		logger.Warn("AUTH_ADMIN_KEY_HASH not set; admin routes are unprotected")
	}

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(pg, redis),
		Tickets:     handlers.NewTicketsHandler(ticketService, routerService),
		Agents:      handlers.NewAgentsHandler(agentService),
		Escalations: handlers.NewEscalationsHandler(escalationService, ruleRepo),
		Stats:       handlers.NewStatsHandler(statsService),
		Auth:        handlers.NewAuthHandler(adminAuth),
		AdminAuth:   adminAuth,
	})

	escalationWorker := worker.NewEscalationWorker(escalationService, metrics, logger, cfg.Escalation.CronSchedule)
	if err := escalationWorker.Start(); err != nil {
		logger.Fatal("failed to start escalation worker", zap.Error(err))
	}

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	escalationWorker.Stop()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
