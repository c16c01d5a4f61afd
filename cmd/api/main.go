package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/pensionworks/support-bot/cmd/mainconfig"
	"github.com/pensionworks/support-bot/internal/agent"
	"github.com/pensionworks/support-bot/internal/analytics"
	"github.com/pensionworks/support-bot/internal/api/router"
	"github.com/pensionworks/support-bot/internal/bot"
	appconfig "github.com/pensionworks/support-bot/internal/config"
	"github.com/pensionworks/support-bot/internal/dialogue"
	"github.com/pensionworks/support-bot/internal/interaction"
	"github.com/pensionworks/support-bot/internal/observability/metrics"
	"github.com/pensionworks/support-bot/internal/queue"
	"github.com/pensionworks/support-bot/internal/routing"
	"github.com/pensionworks/support-bot/internal/session"
	"github.com/pensionworks/support-bot/internal/ticket"
	"github.com/pensionworks/support-bot/internal/whatsapp"
	turnworker "github.com/pensionworks/support-bot/internal/worker/turns"
	"github.com/pensionworks/support-bot/pkg/logging"
)

func main() {
	// .env is optional; real deployments inject environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting support-bot API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	botMetrics := metrics.NewBotMetrics(nil)

	sessions := buildSessionStore(cfg, logger)
	registry := ticket.NewRegistry(logger)
	directory := agent.NewDefaultDirectory(agent.RandomPolicy{})
	interactions := interaction.NewLog(cfg.InteractionLogCapacity)

	var archiver ticket.Archiver
	var turns queue.Client
	if cfg.UseMemoryQueue {
		turns = queue.NewMemoryQueue(256)
	} else {
		awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		turns = queue.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.TurnQueueURL)
		if cfg.TicketArchiveTable != "" {
			archiver = ticket.NewDynamoArchiver(dynamodb.NewFromConfig(awsCfg), cfg.TicketArchiveTable, logger)
		}
	}

	coordinator := routing.NewCoordinator(registry, directory, nil, archiver, botMetrics, logger)
	engine := dialogue.NewEngine(nil, cfg.CompanyName)
	events := bot.NewEventLogger(logger)
	svc := bot.New(sessions, engine, coordinator, interactions, events, botMetrics, logger)

	webhookHandler := whatsapp.NewWebhookHandler(cfg.WebhookVerifyTkn, turns, botMetrics, logger)
	analyticsHandler := analytics.NewHandler(interactions, registry, directory, sessions, nil, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Webhook:            webhookHandler,
		Analytics:          analyticsHandler,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		WebhookRatePerSec:  cfg.WebhookRatePerSec,
		WebhookBurst:       cfg.WebhookBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// With the in-memory queue there is no separate worker binary, so the
	// turn workers run inside the API process.
	if cfg.UseMemoryQueue {
		sender := whatsapp.NewGraphSender(whatsapp.GraphSenderConfig{
			BaseURL:       cfg.GraphAPIBaseURL,
			Token:         cfg.WhatsAppToken,
			PhoneNumberID: cfg.PhoneNumberID,
			Timeout:       cfg.SendTimeout,
			RetryMax:      cfg.DeliveryRetryMax,
			RetryBase:     cfg.DeliveryRetryBase,
		}, logger)
		worker := turnworker.New(turns, svc, sender, cfg.WorkerCount, logger)
		go func() {
			if err := worker.Run(workerCtx); err != nil && err != context.Canceled {
				logger.Error("turn worker stopped", "error", err)
			}
		}()
		logger.Info("inline turn workers started", "count", cfg.WorkerCount)
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func buildSessionStore(cfg *appconfig.Config, logger *logging.Logger) session.Store {
	if cfg.SessionBackend != "redis" {
		return session.NewMemoryStore()
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	logger.Info("using redis session store", "addr", cfg.RedisAddr)
	return session.NewRedisStore(redis.NewClient(opts), cfg.SessionTTL)
}
