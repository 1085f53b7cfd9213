package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/betaops/beta-manager/internal/api/http"
	"github.com/betaops/beta-manager/internal/api/http/handlers"
	"github.com/betaops/beta-manager/internal/auth"
	"github.com/betaops/beta-manager/internal/baserow"
	"github.com/betaops/beta-manager/internal/config"
	"github.com/betaops/beta-manager/internal/events"
	"github.com/betaops/beta-manager/internal/jobs"
	"github.com/betaops/beta-manager/internal/observability"
	"github.com/betaops/beta-manager/internal/persistence"
	"github.com/betaops/beta-manager/internal/repository"
	"github.com/betaops/beta-manager/internal/service"
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

	store := baserow.NewClient(cfg.Baserow, logger)
	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	testerRepo := repository.NewTesterRepository(store)
	feedbackRepo := repository.NewFeedbackRepository(store)
	incidentRepo := repository.NewIncidentRepository(store)
	commRepo := repository.NewCommunicationRepository(store)
	templateRepo := repository.NewTemplateRepository(store)

	dispatcher := events.NewInMemoryDispatcher()

	emailService := service.NewEmailService(cfg.SMTP, logger)
	templateService := service.NewTemplateService(service.TemplateDependencies{
		TemplateRepo:      templateRepo,
		CommunicationRepo: commRepo,
		Email:             emailService,
		Links:             cfg.Links,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})
	testerService := service.NewTesterService(service.TesterDependencies{
		TesterRepo:        testerRepo,
		FeedbackRepo:      feedbackRepo,
		IncidentRepo:      incidentRepo,
		CommunicationRepo: commRepo,
		Templates:         templateService,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})
	feedbackService := service.NewFeedbackService(service.FeedbackDependencies{
		FeedbackRepo: feedbackRepo,
		TesterRepo:   testerRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	incidentService := service.NewIncidentService(service.IncidentDependencies{
		IncidentRepo: incidentRepo,
		TesterRepo:   testerRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	commService := service.NewCommunicationService(service.CommunicationDependencies{
		CommunicationRepo: commRepo,
		TesterRepo:        testerRepo,
		Logger:            logger,
	})
	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		TesterRepo:        testerRepo,
		FeedbackRepo:      feedbackRepo,
		IncidentRepo:      incidentRepo,
		CommunicationRepo: commRepo,
		Logger:            logger,
	})

	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	notifications.RegisterHandlers()

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLHours)
	authService := service.NewAuthService(cfg.Auth, tokenManager, logger)
	authMiddleware := auth.NewMiddleware(tokenManager)

	dailyEmailJob := jobs.NewDailyEmailJob(testerRepo, testerService, templateService, logger)
	inactivityJob := jobs.NewInactivityJob(testerRepo, incidentService, incidentRepo, templateService, logger)
	scheduler := jobs.NewScheduler(cfg.Jobs, dailyEmailJob, inactivityJob, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, cfg.App.RequestTimeout())

	rateLimiter := httptransport.NewRateLimiter(redis, logger)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, redis),
		Auth:           handlers.NewAuthHandler(authService, cfg.App.Env == "production"),
		Testers:        handlers.NewTestersHandler(testerService),
		Feedback:       handlers.NewFeedbackHandler(feedbackService),
		Incidents:      handlers.NewIncidentsHandler(incidentService),
		Communications: handlers.NewCommunicationsHandler(commService),
		Templates:      handlers.NewTemplatesHandler(templateService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Jobs:           handlers.NewJobsHandler(scheduler),
		Public:         handlers.NewPublicHandler(feedbackService),
		AuthMiddleware: authMiddleware,
		RateLimiter:    rateLimiter,
		APILimit:       cfg.Jobs.RateLimitPerMinute,
		PublicLimit:    cfg.Jobs.PublicLimitPerMinute,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	scheduler.Stop()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
