package main

import (
	"context"
	"crypto/tls"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/pensionworks/support-bot/cmd/mainconfig"
	"github.com/pensionworks/support-bot/internal/agent"
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
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	if cfg.UseMemoryQueue {
		logger.Error("USE_MEMORY_QUEUE is set; the in-memory queue runs its workers inside the API process")
		os.Exit(1)
	}

	awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	turns := queue.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.TurnQueueURL)

	var archiver ticket.Archiver
	if cfg.TicketArchiveTable != "" {
		archiver = ticket.NewDynamoArchiver(dynamodb.NewFromConfig(awsCfg), cfg.TicketArchiveTable, logger)
	}

	botMetrics := metrics.NewBotMetrics(nil)
	sessions := buildSessionStore(cfg, logger)
	registry := ticket.NewRegistry(logger)
	directory := agent.NewDefaultDirectory(agent.RandomPolicy{})
	interactions := interaction.NewLog(cfg.InteractionLogCapacity)

	coordinator := routing.NewCoordinator(registry, directory, nil, archiver, botMetrics, logger)
	engine := dialogue.NewEngine(nil, cfg.CompanyName)
	events := bot.NewEventLogger(logger)
	svc := bot.New(sessions, engine, coordinator, interactions, events, botMetrics, logger)

	sender := whatsapp.NewGraphSender(whatsapp.GraphSenderConfig{
		BaseURL:       cfg.GraphAPIBaseURL,
		Token:         cfg.WhatsAppToken,
		PhoneNumberID: cfg.PhoneNumberID,
		Timeout:       cfg.SendTimeout,
		RetryMax:      cfg.DeliveryRetryMax,
		RetryBase:     cfg.DeliveryRetryBase,
	}, logger)

	worker := turnworker.New(turns, svc, sender, cfg.WorkerCount, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := worker.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("turn worker stopped", "error", err)
		}
	}()

	logger.Info("bot worker started", "count", cfg.WorkerCount, "queue", cfg.TurnQueueURL)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down bot worker...")
	cancel()
	<-done
	logger.Info("bot worker stopped")
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
