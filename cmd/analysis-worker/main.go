// cmd/analysis-worker/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hirelens/internal/common/config"
	"hirelens/internal/common/database"
	"hirelens/internal/common/llm"
	"hirelens/internal/common/logger"
	"hirelens/internal/common/observability"
	"hirelens/internal/extraction"
	"hirelens/internal/feedback"
	"hirelens/internal/jdmatch"
	"hirelens/internal/pipeline"
	"hirelens/internal/profiles/github"
	"hirelens/internal/profiles/leetcode"
	"hirelens/internal/profiles/linkedin"
	"hirelens/internal/queue"
	"hirelens/internal/search"
	"hirelens/internal/store"
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

	zapLog.Info("Starting analysis worker...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name, cfg.App.JaegerEndpoint)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init PostgreSQL with retry ---
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

	// --- Init Redis with retry ---
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
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init RabbitMQ with retry ---
	var queueClient *queue.Client
	err = retryWithBackoff(func() error {
		var err error
		queueClient, err = queue.NewClient(cfg.Queue, log)
		return err
	}, 10, 2*time.Second, zapLog, "RabbitMQ connection")
	if err != nil {
		zapLog.Fatal("rabbitmq failed after retries", zap.Error(err))
	}
	defer queueClient.Close()

	// --- Wire the pipeline ---
	invoker := llm.NewClient(cfg.LLM.BaseURL, time.Duration(cfg.LLM.TimeoutSeconds)*time.Second, log)

	var mailer feedback.Mailer
	if cfg.Feedback.EmailEnabled {
		sesMailer, err := feedback.NewSESMailer(ctx, cfg.Feedback, log)
		if err != nil {
			zapLog.Fatal("ses mailer init failed", zap.Error(err))
		}
		mailer = sesMailer
	} else {
		mailer = feedback.NewNoOpMailer(log)
	}

	runner := pipeline.NewRunner(pipeline.RunnerParams{
		Store:    store.New(pg.DB, log),
		Lock:     pipeline.NewRunLock(redisClient.Client, time.Duration(cfg.Pipeline.LockTTLSeconds)*time.Second),
		CV:       extraction.NewAnalyzer(invoker, cfg.LLM.Model, cfg.LLM.Temperature, log),
		GitHub:   github.NewAnalyzer(cfg.Profiles, redisClient.Client, log),
		LeetCode: leetcode.NewAnalyzer(cfg.Profiles, log),
		LinkedIn: linkedin.NewAnalyzer(invoker, cfg.LLM.Model, log),
		Matcher:  jdmatch.NewMatcher(invoker, cfg.LLM.Model, log),
		Mailer:   mailer,
		Indexer:  search.NewIndexer(esClient.Client, cfg.Database.Elasticsearch.Index, log),
		Obs:      obs,
		Config:   *cfg,
		Logger:   log,
	})

	// --- Health/Metrics server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.App.MetricsAddress))
		if err := http.ListenAndServe(cfg.App.MetricsAddress, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Consume analysis jobs until shutdown ---
	zapLog.Info("Consuming analysis jobs",
		zap.String("queue", cfg.Queue.QueueName),
		zap.Int("maxConcurrentRuns", cfg.Pipeline.MaxConcurrentRuns),
	)
	err = queueClient.Consume(ctx, cfg.Pipeline.MaxConcurrentRuns, func(ctx context.Context, job queue.AnalysisJob) error {
		return runner.Run(ctx, job.ApplicationID)
	})
	if err != nil && ctx.Err() == nil {
		zapLog.Fatal("consumer stopped unexpectedly", zap.Error(err))
	}

	zapLog.Info("Shutdown signal received, analysis worker stopped gracefully")
}
