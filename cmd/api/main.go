package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"sharebox/internal/api"
	"sharebox/internal/config"
	"sharebox/internal/database"
	"sharebox/internal/domain"
	"sharebox/internal/events"
	"sharebox/internal/logging"
	"sharebox/internal/metrics"
	"sharebox/internal/models"
	"sharebox/internal/repository"
	"sharebox/internal/service"
	"sharebox/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
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

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	limiter := initRateLimiter(cfg, &logger)

	bus := events.NewEventBus()
	subscribeExports(bus, db, &logger)

	bookingService := service.NewBookingService(db, bus, &logger)
	itemService := service.NewItemService(db, bus, &logger)
	userService := service.NewUserService(db, &logger)
	requestService := service.NewRequestService(db, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(filepath.Dir(cfg.Exports.Path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	exportWorker := worker.NewExportWorker(
		db, db,
		cfg.Exports.Path,
		time.Duration(cfg.Exports.PollInterval)*time.Second,
		&logger,
	)
	go exportWorker.Run(ctx)

	startMetrics(ctx, cfg, &logger)

	server := api.NewServer(cfg.HTTP, userService, itemService, bookingService, requestService, db, limiter, &logger)
	return startServer(ctx, server, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// initRateLimiter prefers Redis with in-memory failover; without a configured
// Redis address the process-local limiter is used alone.
func initRateLimiter(cfg *config.Config, logger *zerolog.Logger) domain.RateLimiter {
	memory := repository.NewMemoryRateLimiter()

	if cfg.Redis.Address == "" {
		return memory
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), client); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, using in-memory rate limiter")
		_ = repository.Close(client)
		return memory
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return repository.NewFailoverRateLimiter(repository.NewRedisRateLimiter(client), memory, logger)
}

// subscribeExports enqueues an export task whenever a booking changes, so the
// worker keeps the workbook current.
func subscribeExports(bus *events.EventBus, queue domain.ExportQueue, logger *zerolog.Logger) {
	enqueue := func(event *events.Event) error {
		task := &models.ExportTask{
			TaskType: "bookings_export",
			Status:   "pending",
		}
		if err := queue.CreateExportTask(context.Background(), task); err != nil {
			logger.Error().Err(err).Str("event_type", event.Type).Msg("enqueue export task")
			return err
		}
		return nil
	}

	bus.Subscribe(events.EventBookingCreated, enqueue)
	bus.Subscribe(events.EventBookingApproved, enqueue)
	bus.Subscribe(events.EventBookingRejected, enqueue)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, server *api.Server, logger *zerolog.Logger) error {
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
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
