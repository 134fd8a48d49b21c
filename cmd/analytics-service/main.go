package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tcg-pricewatch/internal/analytics/config"
	"tcg-pricewatch/internal/analytics/delivery/consumer"
	"tcg-pricewatch/internal/analytics/repository"
	"tcg-pricewatch/internal/analytics/service"
	"tcg-pricewatch/internal/analytics/strategy"
	"tcg-pricewatch/internal/pricing"
	"tcg-pricewatch/pkg/common"
	"tcg-pricewatch/pkg/logger"
	"tcg-pricewatch/pkg/postgres"
	"tcg-pricewatch/pkg/redis"
	"tcg-pricewatch/pkg/telegram"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the analytics service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Analytics Service", logger.Field("name", cfg.App.Name))

	// Fail fast on bad pipeline presets before any task runs
	if _, err := pricing.TrendPreset(cfg.Pricing.TrendPreset); err != nil {
		appLogger.Fatal("Invalid trend preset", zap.Error(err))
	}
	if _, err := pricing.RuleSetByName(cfg.Pricing.RuleSet); err != nil {
		appLogger.Fatal("Invalid rule set", zap.Error(err))
	}

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", zap.Error(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Create the consumer groups if they don't exist
	// MKSTREAM creates the stream if it doesn't exist
	if err := redisClient.XGroupCreateMkStream(context.Background(), common.RedisStreamSchedulerTaskExecution, common.RedisStreamGroup, "0").Err(); err != nil {
		if err.Error() != "BUSYGROUP Consumer Group name already exists" {
			appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
		}
	}
	if err := redisClient.XGroupCreateMkStream(context.Background(), common.RedisStreamPriceAggregation, common.RedisStreamGroup, "0").Err(); err != nil {
		if err.Error() != "BUSYGROUP Consumer Group name already exists" {
			appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
		}
	}

	// Initialize repositories
	jobRepo := repository.NewJobRepository(db.DB)
	historyRepo := repository.NewTaskExecutionHistoryRepository(db.DB)
	cardRepo := repository.NewCardRepository(db.DB)
	obsRepo := repository.NewListingObservationRepository(db.DB)
	aggregateRepo := repository.NewPriceAggregateRepository(db.DB)
	trendRepo := repository.NewTrendSignalRepository(db.DB)
	recRepo := repository.NewRecommendationRepository(db.DB)

	telegramNotifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxMessagesPerMinute)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram notifier", zap.Error(err))
	}

	// Initialize Strategies
	strategies := []strategy.JobExecutionStrategy{
		strategy.NewHTTPStrategy(appLogger),
		strategy.NewPriceAggregationStrategy(appLogger, redisClient, cardRepo),
		strategy.NewTrendTrackerStrategy(cfg, appLogger, cardRepo, aggregateRepo, trendRepo),
		strategy.NewSmartSuggestionStrategy(cfg, appLogger, cardRepo, aggregateRepo, trendRepo, recRepo, telegramNotifier),
		strategy.NewBuyWindowAlertStrategy(
			appLogger,
			cardRepo,
			aggregateRepo,
			trendRepo,
			telegramNotifier,
			redisClient,
		),
	}

	// Initialize services
	executorSvc := service.NewExecutorService(redisClient.Client, jobRepo, historyRepo, appLogger, strategies)
	priceAggregatorSvc := service.NewPriceAggregatorService(cfg, appLogger, redisClient.Client, cardRepo, obsRepo, aggregateRepo, telegramNotifier)

	// Initialize and start the Redis consumer
	redisConsumer := consumer.NewRedisConsumer(cfg, redisClient.Client, executorSvc, priceAggregatorSvc, appLogger)
	redisConsumer.Start(ctx)

	appLogger.Info("Analytics service started. Waiting for tasks...")

	// Wait for interrupt signal to gracefully shut down the service
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down analytics service...")
	cancel()
	redisConsumer.Stop()
	appLogger.Info("Analytics service stopped.")
}

func main() {
	rootCmd := &cobra.Command{Use: "analytics-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-analytics.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing analytics-service CLI: %s\n", err)
		os.Exit(1)
	}
}
