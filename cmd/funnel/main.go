package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/IBM/sarama"

	appoutbox "boilerfunnel/internal/app/outbox"
	"boilerfunnel/internal/app/policies"
	"boilerfunnel/internal/app/uow"
	"boilerfunnel/internal/domain/catalog"
	"boilerfunnel/internal/infra/bootstrap"
	"boilerfunnel/internal/infra/broker/kafka"
	"boilerfunnel/internal/infra/config"
	"boilerfunnel/internal/infra/db/mongo"
	"boilerfunnel/internal/infra/export"
	"boilerfunnel/internal/infra/fixtures"
	ginserver "boilerfunnel/internal/infra/http/gin"
	"boilerfunnel/internal/infra/obs"
	infraoutbox "boilerfunnel/internal/infra/outbox"
	"boilerfunnel/internal/infra/payments/stripe"
	"boilerfunnel/internal/infra/storage/memory"
	"boilerfunnel/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using fallback configuration", "error", err)
		cfg = config.Defaults()
		cfg.Env = env
		cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	}
	metrics := obs.NewMetrics()

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err, "mode", cfg.StorageMode)
		os.Exit(1)
	}
	defer store.close()

	if err := seedProducts(ctx, cfg, store.products, logger); err != nil {
		logger.Warn("product fixtures load failed", "error", err)
	}

	app, err := bootstrap.Build(bootstrap.Deps{
		Config:   cfg,
		Logger:   logger,
		UoW:      store.factory,
		Outbox:   store.outbox,
		Payments: newPayments(cfg, logger),
		Uploader: newUploader(cfg, logger),
		Renderer: export.Renderer{},
		Metrics:  metrics,
	})
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}

	if producer := startRelay(ctx, cfg, store.relay, metrics, logger); producer != nil {
		defer producer.Close()
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: store.ready}, app.Handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type storage struct {
	factory  uow.UoWFactory
	products catalog.Repository
	outbox   appoutbox.Outbox
	relay    infraoutbox.Store
	ready    func(ctx context.Context) error
	close    func()
}

func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage, error) {
	if !cfg.UsesMongo() {
		products := memory.NewProductRepository()
		box := memory.NewOutbox()
		return storage{
			factory:  memory.Factory{ProductsRepo: products, SubmissionsRepo: memory.NewSubmissionRepository(), Outbox: box},
			products: products,
			outbox:   box,
			relay:    box,
			close:    func() {},
		}, nil
	}

	client, err := mongo.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return storage{}, err
	}
	box, err := infraoutbox.NewMongoStore(ctx, client.DB)
	if err != nil {
		_ = client.Close(context.Background())
		return storage{}, err
	}
	products := mongo.NewProductRepository(client.DB)
	logger.Info("connected to MongoDB", "database", cfg.MongoDB, "transactions", cfg.MongoTransactions)
	return storage{
		factory: mongo.Factory{
			DB:              client.DB,
			Transactions:    cfg.MongoTransactions,
			ProductsRepo:    products,
			SubmissionsRepo: mongo.NewSubmissionRepository(client.DB),
		},
		products: products,
		outbox:   box,
		relay:    box,
		ready:    client.Ping,
		close: func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Close(closeCtx); err != nil {
				logger.Warn("mongo disconnect failed", "error", err)
			}
		},
	}, nil
}

func seedProducts(ctx context.Context, cfg config.Config, repo catalog.Repository, logger *slog.Logger) error {
	path := cfg.ProductFixtures
	if path == "" {
		path = defaultProductFixturesPath()
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Info("product fixtures file not found, skipping", "path", path)
		return nil
	}
	if cfg.UsesMongo() {
		existing, err := repo.List(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			logger.Info("catalog already populated, skipping fixtures", "products", len(existing))
			return nil
		}
	}
	items, err := fixtures.LoadProductsFile(path)
	if err != nil {
		return err
	}
	n, err := fixtures.SeedProducts(ctx, repo, items, time.Now())
	if err != nil {
		return err
	}
	logger.Info("product fixtures imported", "count", n, "path", path)
	return nil
}

func newPayments(cfg config.Config, logger *slog.Logger) policies.PaymentsPort {
	gateway, err := stripe.New(cfg.StripeSecretKey, nil)
	if err != nil {
		logger.Warn("stripe disabled", "error", err)
		return stripe.Disabled{}
	}
	return gateway
}

func newUploader(cfg config.Config, logger *slog.Logger) policies.Uploader {
	if cfg.S3Endpoint == "" {
		logger.Info("S3 endpoint not set, product images will not be stored")
		return s3.NoopUploader{}
	}
	client, err := s3.NewClient(s3.Options{
		Endpoint:       cfg.S3Endpoint,
		UseSSL:         cfg.S3UseSSL,
		AccessKey:      cfg.S3AccessKey,
		SecretKey:      cfg.S3SecretKey,
		Bucket:         cfg.S3Bucket,
		PublicEndpoint: cfg.S3PublicEndpoint,
	}, logger)
	if err != nil {
		logger.Warn("S3 uploader disabled", "error", err)
		return s3.NoopUploader{}
	}
	return client
}

// startRelay publishes flushed outbox records to Kafka when brokers are set.
func startRelay(ctx context.Context, cfg config.Config, store infraoutbox.Store, metrics *obs.Metrics, logger *slog.Logger) *kafka.Producer {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set, outbox relay disabled")
		return nil
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, sarama.NewConfig())
	if err != nil {
		logger.Warn("kafka producer unavailable, outbox relay disabled", "error", err)
		return nil
	}
	worker := &infraoutbox.Worker{
		Store:       store,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Source:      "boilerfunnel",
		Backoff:     cfg.RetryBackoff,
		Logger:      logger,
		OnPublished: metrics.EventPublished,
	}
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox relay stopped", "error", err)
		}
	}()
	logger.Info("outbox relay started", "brokers", cfg.KafkaBrokers, "topic_prefix", cfg.KafkaTopicPrefix)
	return producer
}

func defaultProductFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "products.yaml"),
		filepath.Join("..", "..", "data", "products.yaml"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
