package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/trusttrip/backend/config"
	"github.com/trusttrip/backend/internal/ai"
	"github.com/trusttrip/backend/internal/bootstrap"
	"github.com/trusttrip/backend/internal/cache"
	"github.com/trusttrip/backend/internal/catalog"
	"github.com/trusttrip/backend/internal/cheqd"
	"github.com/trusttrip/backend/internal/credential"
	"github.com/trusttrip/backend/internal/kafka"
	"github.com/trusttrip/backend/internal/repository"
	"github.com/trusttrip/backend/internal/service/booking"
	"github.com/trusttrip/backend/internal/service/selection"
	"github.com/trusttrip/backend/internal/trust"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, relying on the environment")
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := openStore(ctx, cfg)

	registry, err := trust.Load(cfg.Trust.RegistryPath)
	if err != nil {
		logrus.Fatalf("load trust registry: %v", err)
	}

	cheqdClient := cheqd.NewClient(cfg.Cheqd)

	var checker trust.Checker = trust.MockChecker{}
	if cfg.Trust.Mode == "cheqd" {
		checker = cheqdClient
	}

	selector := selection.NewService(catalog.Default(), buildRanker(cfg))

	redisCache := cache.NewRedisCache(cfg.Redis,
		time.Duration(cfg.Booking.EstimateCacheTTL)*time.Second,
		time.Duration(cfg.Booking.StatsCacheTTL)*time.Second,
	)

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	opts := []booking.ServiceOption{
		booking.WithCache(redisCache),
		booking.WithProducer(producer, cfg.Kafka.BookingTopic),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithProviderAddress(cfg.Booking.ProviderAddress),
	}
	if cfg.Cheqd.APIKey != "" {
		opts = append(opts, booking.WithIdentity(cheqdClient))
	}

	bookingService := booking.NewService(
		store,
		selector,
		registry,
		checker,
		credential.NewMockIssuer(),
		opts...,
	)

	logrus.WithFields(logrus.Fields{
		"address": cfg.HTTP.Address,
		"store":   store.Name(),
	}).Info("starting server")

	if err := bootstrap.Run(ctx, cfg, bookingService, store.Name()); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}

// openStore connects to the primary database and falls back through the
// secondary to the in-memory store, so the server always comes up.
func openStore(ctx context.Context, cfg *config.Config) repository.BookingStore {
	if cfg.Mongo.URI != "" {
		mongoStore, err := repository.NewMongoStore(ctx, cfg.Mongo)
		if err == nil {
			logrus.Info("connected to mongodb")
			return repository.NewFallbackStore(mongoStore, repository.NewMemoryStore())
		}
		logrus.Warnf("mongodb unavailable, trying postgres: %v", err)
	}

	if cfg.Postgres.Host != "" {
		pgStore, err := repository.NewPGStore(ctx, cfg.Postgres.DSN())
		if err == nil {
			if err := pgStore.Migrate(ctx); err != nil {
				logrus.Fatalf("migrate postgres: %v", err)
			}
			logrus.Info("connected to postgres")
			return repository.NewFallbackStore(pgStore, repository.NewMemoryStore())
		}
		logrus.Warnf("postgres unavailable, using in-memory store: %v", err)
	}

	memory := repository.NewMemoryStore()
	memory.SeedDemoData()
	logrus.Warn("using in-memory store, data will not survive a restart")
	return memory
}

func buildRanker(cfg *config.Config) selection.Ranker {
	if cfg.OpenAI.APIKey == "" {
		logrus.Info("no openai api key set, using deterministic provider selection")
		return nil
	}
	return ai.NewOpenAIRanker(cfg.OpenAI)
}
