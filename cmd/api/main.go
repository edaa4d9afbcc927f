package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"structiv/internal/api"
	"structiv/internal/auth"
	"structiv/internal/config"
	"structiv/internal/database"
	"structiv/internal/domain"
	"structiv/internal/events"
	"structiv/internal/logging"
	"structiv/internal/metrics"
	"structiv/internal/notify"
	"structiv/internal/repository"
	"structiv/internal/service"
	"structiv/internal/storage"
	"structiv/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDB(cfg.Database, logging.Component(logger, "database"))
	if err != nil {
		logger.Error().Err(err).Str("driver", cfg.Database.Driver).Msg("init database")
		return err
	}
	defer db.Close()

	go database.NewBackupService(db, cfg.Backup, logging.Component(logger, "backup")).Start(ctx)

	var tokens *auth.TokenManager
	if cfg.API.Auth.Enabled {
		tokens = auth.NewTokenManager(cfg.API.Auth.JWTSecret, config.Duration(cfg.API.Auth.TokenTTL, 24*time.Hour))
	} else {
		logger.Warn().Msg("API authentication is disabled; every route is open")
	}

	users := service.NewUserService(db, auth.NewPasswordHasher(cfg.API.Auth.BcryptCost), tokens, logging.Component(logger, "users"))
	units := service.NewUnitService(db, logging.Component(logger, "units"))
	if err := users.EnsureAdmin(ctx, cfg.API.Auth.Admin); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if err := units.SeedUnits(ctx, cfg.Units); err != nil {
		return fmt.Errorf("seed units: %w", err)
	}

	redisClient := initRedis(ctx, cfg, logger)
	if redisClient != nil {
		defer func() { _ = repository.Close(redisClient) }()
	}
	inbox := initInbox(cfg, redisClient, logger)

	hub := notify.NewHub(cfg.Server.AllowedOrigins, logging.Component(logger, "websocket"))
	alerts := initAlerts(ctx, cfg, logger)

	bus := events.NewEventBus(logging.Component(logger, "events"))
	notify.NewNotifier(inbox, hub, alerts, logging.Component(logger, "notifier")).Subscribe(bus)

	store, err := storage.New(cfg.Uploads, logging.Component(logger, "storage"))
	if err != nil {
		return fmt.Errorf("init image storage: %w", err)
	}
	uploadDir := ""
	if local, ok := store.(*storage.LocalStore); ok {
		uploadDir = local.Dir()
		sweeper := worker.NewUploadSweeper(db, uploadDir,
			config.Duration(cfg.Uploads.SweepGrace, 24*time.Hour),
			config.Duration(cfg.Uploads.SweepInterval, 0),
			logging.Component(logger, "upload-sweeper"))
		go sweeper.Start(ctx)
	}

	httpServer := api.NewHTTPServer(cfg, api.Deps{
		Users:     users,
		Units:     units,
		Bookings:  service.NewBookingService(db, bus, logging.Component(logger, "bookings")),
		Dashboard: service.NewDashboardService(db, cfg.FAQs),
		Inbox:     inbox,
		Hub:       hub,
		Uploader:  storage.NewImageUploader(store, cfg.Uploads.MaxFiles, cfg.Uploads.MaxFileSizeMB, logging.Component(logger, "uploads")),
		Tokens:    tokens,
		UploadDir: uploadDir,
	}, logging.Component(logger, "http"))

	startMetrics(ctx, cfg, logger)

	return startServer(ctx, httpServer, cfg, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logging.Component(baseLogger, "api-main"), closer, nil
}

func initRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, client); err != nil {
		// the failover inbox keeps probing redis, so a late start is fine
		logger.Warn().Err(err).Msg("redis not reachable yet, notifications start in memory")
	} else {
		logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	}
	return client
}

func initInbox(cfg *config.Config, client *redis.Client, logger *zerolog.Logger) domain.NotificationRepository {
	memory := repository.NewMemoryNotificationRepository(cfg.Notifications.InboxSize)
	if client == nil {
		return memory
	}
	primary := repository.NewRedisNotificationRepository(client, cfg.Notifications.InboxSize,
		config.Duration(cfg.Notifications.TTL, 7*24*time.Hour))
	return repository.NewFailoverNotificationRepository(primary, memory, logging.Component(logger, "inbox"))
}

// initAlerts starts the telegram alert worker. It returns nil when no bot is configured.
func initAlerts(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) domain.AlertQueue {
	if cfg.Telegram.BotToken == "" || len(cfg.Telegram.AdminChatIDs) == 0 {
		return nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without admin alerts")
		return nil
	}
	logger.Info().Str("bot", botAPI.Self.UserName).Msg("telegram alerts enabled")

	w := worker.NewAlertWorker(service.NewTelegramService(botAPI), cfg.Telegram.AdminChatIDs, cfg.Telegram.QueueSize,
		worker.RetryPolicy{MaxRetries: cfg.Telegram.MaxRetries}, logging.Component(logger, "alerts"))
	go w.Start(ctx)
	return w
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	logger.Info().Int("http_port", cfg.Server.Port).Msg("API server started")

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("http server stopped")
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Duration(cfg.Server.ShutdownGrace, 10*time.Second))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
