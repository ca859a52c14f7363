// cmd/intake-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"talent-intake/internal/common/aws"
	"talent-intake/internal/common/config"
	"talent-intake/internal/common/database"
	"talent-intake/internal/common/logger"
	"talent-intake/internal/common/observability"
	"talent-intake/internal/intake"
	"talent-intake/internal/intake/admission"
	"talent-intake/internal/intake/aggregate"
	"talent-intake/internal/intake/events"
	"talent-intake/internal/intake/gate"
	"talent-intake/internal/intake/notify"
	"talent-intake/internal/intake/profile"
	"talent-intake/internal/intake/record"
	"talent-intake/internal/intake/search"
	"talent-intake/internal/intake/validate"
	"talent-intake/internal/server"
	"talent-intake/internal/store"
	"talent-intake/internal/store/cache"
	pgstore "talent-intake/internal/store/postgres"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting intake server...",
		zap.String("environment", cfg.App.Environment),
		zap.Int("port", cfg.Server.Port),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Stores ---
	var postings store.PostingStore = pgstore.NewPostingStore(pg.DB)
	postings = cache.NewPostingCache(
		postings, rdb.Client,
		time.Duration(cfg.Intake.PostingCacheTTL)*time.Second,
		log,
	)
	applications := pgstore.NewApplicationStore(pg.DB)
	candidates := pgstore.NewCandidateStore(pg.DB)
	eventStore := pgstore.NewEventStore(pg.DB)

	// --- AWS clients (optional integrations) ---
	var sesClient notify.SESService
	if cfg.Notifications.Email.Enabled {
		client, err := aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("SES client failed", zap.Error(err))
		}
		sesClient = client
	}

	var snsClient events.SNSPublisher
	if cfg.Integrations.AWS.SNS.Enabled {
		client, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("SNS client failed", zap.Error(err))
		}
		snsClient = client
	}

	// --- Elasticsearch (optional) ---
	var indexer *search.Indexer
	if cfg.Intake.SearchIndexing {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 10, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		indexer = search.New(esClient.Client, log)
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Pipeline ---
	validator, err := validate.New(log)
	if err != nil {
		zapLog.Fatal("validator init failed", zap.Error(err))
	}

	pipeline := intake.NewPipeline(
		validator,
		gate.New(postings, log),
		admission.New(applications, log),
		record.New(applications, log),
		aggregate.New(postings, log),
		events.New(eventStore, snsClient, cfg.Integrations.AWS.SNS.EventsTopicARN, log),
		profile.New(candidates, applications, log),
		notify.New(sesClient, cfg.Notifications.Email.FromEmail, cfg.Notifications.Email.Enabled, log),
		indexer,
		log,
	)

	srv := server.New(
		pipeline,
		obs,
		log,
		time.Duration(cfg.Intake.RequestTimeout)*time.Millisecond,
		map[string]server.PingFunc{
			"postgres": pg.Ping,
			"redis":    rdb.Ping,
		},
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}
