package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/routespark/forecast-service/config"
	forecastListenerPkg "github.com/routespark/forecast-service/internal/forecast/listener"
	forecastRepoPkg "github.com/routespark/forecast-service/internal/forecast/repository"
	forecastSnapshotPkg "github.com/routespark/forecast-service/internal/forecast/snapshot"
	forecastUCPkg "github.com/routespark/forecast-service/internal/forecast/usecase"
	"github.com/routespark/forecast-service/pkg/broker"
	"github.com/routespark/forecast-service/pkg/cache"
	"github.com/routespark/forecast-service/pkg/database/postgres"
	"github.com/routespark/forecast-service/pkg/logger"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Initialize Kafka Consumer
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 6. Initialize Engine
	snapshots := forecastSnapshotPkg.NewPGSource(db)
	forecastRepo := forecastRepoPkg.NewPGRepository(db)
	forecastUC := forecastUCPkg.NewForecastUseCase(snapshots, forecastRepo, redisClient, cfg.Forecast, appLogger)

	// 7. Start Listener
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	forecastListener := forecastListenerPkg.NewForecastListener(kafkaConsumer, forecastUC, appLogger)
	go forecastListener.Start(ctx)

	appLogger.Info("Forecast service running",
		zap.String("topic", cfg.Kafka.Topic),
		zap.Int("lookback_cycles", cfg.Forecast.LookbackCycles),
	)

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down service...")
	cancel()
	appLogger.Info("Service stopped")
}
