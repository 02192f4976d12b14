package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotel-booking/cmd"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/usecase"
	"hotel-booking/internal/wire"
	"hotel-booking/pkg/cache"
	"hotel-booking/pkg/database"
	"hotel-booking/pkg/payment"
	"hotel-booking/pkg/queue"
	"hotel-booking/pkg/tracing"
	"hotel-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := tracing.Init(config.Tracing.Endpoint, config.Tracing.ServiceName, logger)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	rdb := connectRedis(config.Redis, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	integrations := buildIntegrations(ctx, config, rdb, logger)

	app := wire.Wiring(repos, integrations, config, logger, rdb)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}

// connectRedis returns nil when redis is unset or unreachable.
func connectRedis(cfg utils.RedisConfig, logger *zap.Logger) *redis.Client {
	rdb, err := cache.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory idempotency and no rate limit", zap.Error(err))
		return nil
	}
	if rdb == nil {
		logger.Info("Redis not configured")
		return nil
	}
	logger.Info("Redis connected", zap.String("addr", cfg.Addr))
	return rdb
}

func buildIntegrations(ctx context.Context, config *utils.Config, rdb *redis.Client, logger *zap.Logger) usecase.Integrations {
	var integrations usecase.Integrations

	if rdb != nil {
		integrations.Idempotency = cache.NewRedisIdempotencyStore(rdb)
	} else {
		integrations.Idempotency = cache.NewMemoryIdempotencyStore()
	}

	if config.RabbitMQ.URL != "" {
		integrations.Receipts = queue.NewPublisher(config.RabbitMQ.URL, config.RabbitMQ.ReceiptQueue, logger)

		if config.RabbitMQ.Consume {
			consumer := queue.NewConsumer(config.RabbitMQ.URL, config.RabbitMQ.ReceiptQueue, queue.LogReceipt(logger), logger)
			go func() {
				if err := consumer.Run(ctx); err != nil {
					logger.Error("Receipt consumer stopped", zap.Error(err))
				}
			}()
		}
	} else {
		logger.Info("RabbitMQ not configured, receipts are not published")
	}

	if config.Payment.GatewayURL != "" {
		httpClient := &http.Client{Timeout: 15 * time.Second}
		integrations.Payments = payment.NewHTTPGateway(httpClient, config.Payment.GatewayURL, config.Payment.APIKey, logger)
	} else {
		logger.Info("Payment gateway not configured, checkout sessions are disabled")
	}

	return integrations
}
