package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"voicegateway/internal/auth"
	"voicegateway/internal/capabilities"
	"voicegateway/internal/catalogsync"
	"voicegateway/internal/config"
	"voicegateway/internal/handler"
	"voicegateway/internal/jobqueue"
	"voicegateway/internal/middleware"
	"voicegateway/internal/observability"
	"voicegateway/internal/repository/postgres"
	"voicegateway/internal/transport"
	"voicegateway/internal/webhook"
)

// noopCatalogSource reports no menu change. A real POS catalog integration
// is out of scope per spec.md's Non-goals; this keeps the scheduled job
// wired and exercised (runOnce skips tenants with an empty fetch result)
// rather than left unbuilt.
type noopCatalogSource struct{}

func (noopCatalogSource) FetchMenu(ctx context.Context, tenantID string) (string, error) {
	return "", nil
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	logOutput := io.Writer(os.Stdout)
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	logger.Info("voicegateway starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"ws_port", cfg.WSPort,
	)

	ctx := context.Background()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}

	ordersRepo := postgres.NewOrdersRepository(repoConfig)
	reservationsRepo := postgres.NewReservationsRepository(repoConfig)
	tenantsRepo := postgres.NewTenantsRepository(repoConfig)
	webhookEventsRepo := postgres.NewWebhookEventsRepository(repoConfig)

	modelRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("load model capability registry: %v", err)
	}
	if _, err := modelRegistry.GetModelCapabilities("anthropic", cfg.DefaultModel); err != nil {
		logger.Warn("default model not in capability registry", "model", cfg.DefaultModel, "error", err)
	}

	metrics := observability.NewMetrics()
	tracer, shutdownTracer := observability.NewTracer(observability.TraceConfig{
		ServiceName: "voicegateway",
		Environment: cfg.Environment,
	})
	defer func() {
		if err := shutdownTracer(ctx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	defer redisClient.Close()
	dedup := webhook.NewDeduplicator(redisClient, 24*time.Hour)

	var jobsClient *jobqueue.Client
	if cfg.TemporalHostPort != "" {
		jobsClient, err = jobqueue.NewClient(cfg.TemporalHostPort, cfg.TemporalTaskQueue)
		if err != nil {
			logger.Warn("temporal client unavailable, pos submission disabled", "error", err)
		} else {
			defer jobsClient.Close()
		}
	}

	voiceServer := &transport.Server{
		PathPrefix:    cfg.WSPathPrefix,
		Tenants:       tenantsRepo,
		Orders:        ordersRepo,
		Reservations:  reservationsRepo,
		AnthropicKey:  cfg.AnthropicAPIKey,
		DefaultModel:  cfg.DefaultModel,
		MaxTokens:     cfg.MaxTokens,
		StreamTimeout: time.Duration(cfg.StreamTimeoutSec) * time.Second,
		GreetingHint:  cfg.GreetingPrompt,
		Logger:        logger,
		Metrics:       metrics,
		Tracer:        tracer,
	}
	wsHTTPServer := &http.Server{
		Addr:    ":" + cfg.WSPort,
		Handler: voiceServer.Handler(),
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     strings.Join([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	tenantHandler := handler.NewTenantHandler(tenantsRepo, logger)
	webhookHandler := handler.NewWebhookHandler(dedup, webhookEventsRepo, jobsClient, metrics, logger)

	app.Post("/webhooks/:provider", webhookHandler.Receive)

	if cfg.JWKSURL != "" {
		verifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("construct JWT verifier: %v", err)
		}
		defer verifier.Close()

		admin := app.Group("/admin", middleware.AuthMiddleware(verifier))
		admin.Get("/session", tenantHandler.WhoAmI)
		admin.Get("/tenants/profile", tenantHandler.GetProfile)
		admin.Put("/tenants/profile", tenantHandler.PutProfile)
		admin.Get("/models", handler.NewModelsHandler(modelRegistry).List)

		catalogScheduler, err := catalogsync.New(cfg.CatalogSyncCron, tenantsRepo, noopCatalogSource{}, logger)
		if err != nil {
			logger.Warn("catalog sync schedule invalid, sync disabled", "error", err)
		} else {
			catalogScheduler.Start()
			defer catalogScheduler.Stop(ctx)
			catalogHandler := handler.NewCatalogSyncHandler(catalogScheduler, logger)
			admin.Post("/catalog-sync/run", catalogHandler.Trigger)
		}
	} else {
		logger.Warn("JWKS_URL not set, admin surface disabled")
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("voice transport listening", "addr", wsHTTPServer.Addr)
		if err := wsHTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("voice transport stopped", "error", err)
		}
	}()

	go func() {
		logger.Info("admin api listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("admin api stopped", "error", err)
		}
	}()

	<-shutdownCh
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := wsHTTPServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("voice transport shutdown error", "error", err)
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("admin api shutdown error", "error", err)
	}
}
