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

	"loan-intake-engine/internal/common/aws"
	"loan-intake-engine/internal/common/config"
	"loan-intake-engine/internal/common/database"
	"loan-intake-engine/internal/common/llm"
	"loan-intake-engine/internal/common/logger"
	"loan-intake-engine/internal/loan/engine"
	"loan-intake-engine/internal/loan/extract"
	"loan-intake-engine/internal/loan/notify"
	"loan-intake-engine/internal/loan/persist"
	"loan-intake-engine/internal/loan/predict"
	"loan-intake-engine/internal/loan/product"
	"loan-intake-engine/internal/loan/session"
	"loan-intake-engine/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
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
			delay *= 2 // Exponential backoff
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

	zapLog.Info("Starting loan intake server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("address", cfg.Server.Address),
	)

	ctx := context.Background()

	// --- Redis (session store) with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("Redis unavailable", zap.Error(err))
	}
	defer redisClient.Close()

	// --- Postgres (application store) with retry ---
	var pgClient *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pgClient, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pgClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Postgres connection")
	if err != nil {
		zapLog.Fatal("Postgres unavailable", zap.Error(err))
	}
	defer pgClient.Close()

	// --- Elasticsearch (optional search mirror) ---
	var indexer *persist.Indexer
	if cfg.Database.Elasticsearch.Enabled {
		esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Warn("Elasticsearch client init failed, search disabled", zap.Error(err))
		} else if err := esClient.Ping(); err != nil {
			zapLog.Warn("Elasticsearch unreachable, search disabled", zap.Error(err))
		} else {
			indexer = persist.NewIndexer(esClient.Client, cfg.Database.Elasticsearch.Index, log)
		}
	}

	// --- AWS notification channels (optional) ---
	var emailSender notify.EmailSender
	var smsSender notify.SMSSender
	if cfg.AWS.SES.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.AWS.Region)
		if err != nil {
			zapLog.Warn("SES client init failed, email notifications disabled", zap.Error(err))
		} else {
			emailSender = sesClient
		}
	}
	if cfg.AWS.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.AWS.Region)
		if err != nil {
			zapLog.Warn("SNS client init failed, SMS notifications disabled", zap.Error(err))
		} else {
			smsSender = snsClient
		}
	}

	// --- Model artifacts: per-product, missing ones disable that product ---
	registry := product.NewRegistry()
	modelStore := predict.NewStore(log)
	modelStore.LoadDir(cfg.Models.Dir, registry)
	zapLog.Info("model artifacts loaded",
		zap.Strings("products", modelStore.AvailableProducts()),
	)

	llmClient := llm.NewClient(&cfg.LLM, log)
	if !llmClient.Enabled() {
		zapLog.Warn("LLM not configured, using deterministic extraction and replies")
	}

	eng := engine.New(
		registry,
		session.NewStore(redisClient, cfg.Session.KeyPrefix, cfg.SessionTTL()),
		extract.NewChain(llmClient, log),
		predict.NewPredictor(modelStore),
		persist.NewRepository(pgClient.GetDB(), log),
		indexerOrNil(indexer),
		notify.NewNotifier(emailSender, smsSender, cfg.AWS, log),
		engine.NewResponder(llmClient, cfg.LLM.Temperature, log),
		log,
	)

	pingers := map[string]server.Pinger{
		"redis":    redisClient.Ping,
		"postgres": pgClient.Ping,
	}

	srv := server.New(
		eng,
		persist.NewRepository(pgClient.GetDB(), log),
		searcherOrNil(indexer),
		pingers,
		modelStore.AvailableProducts,
		cfg.Server,
		log,
	)

	httpServer := srv.HTTPServer()
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown incomplete", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}

// indexerOrNil keeps the engine's optional collaborator a true nil when
// Elasticsearch is disabled, instead of a typed nil inside an interface.
func indexerOrNil(i *persist.Indexer) engine.ApplicationIndexer {
	if i == nil {
		return nil
	}
	return i
}

func searcherOrNil(i *persist.Indexer) server.Searcher {
	if i == nil {
		return nil
	}
	return i
}
