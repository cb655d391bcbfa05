package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/payments-gateway/internal/config"
	"github.com/example/payments-gateway/internal/kafka/consumer"
	"github.com/example/payments-gateway/internal/kafka/producer"
	kafkapublisher "github.com/example/payments-gateway/internal/kafka/publisher"
	"github.com/example/payments-gateway/internal/lock"
	"github.com/example/payments-gateway/internal/logger"
	"github.com/example/payments-gateway/internal/notifier"
	"github.com/example/payments-gateway/internal/pipeline"
	"github.com/example/payments-gateway/internal/response"
	"github.com/example/payments-gateway/internal/store"
	"github.com/example/payments-gateway/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fail("config load", err)
	}

	baseLogger, err := logger.New("callback-worker", cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		fail("logger init", err)
	}
	log := *baseLogger

	kafkaLogger := log.With().Str("component", "kafka").Logger()
	prod, err := producer.New(cfg.Kafka.Brokers, kafkaLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create kafka producer")
	}
	defer func() {
		if err := prod.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close kafka producer")
		}
	}()

	consumerLogger := log.With().Str("component", "consumer").Logger()
	cons, err := consumer.New(cfg.Kafka.Brokers, cfg.Topics.ConsumerGroup, consumerLogger, cfg.Retry.CommitOnSuccessOnly)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create kafka consumer")
	}
	defer func() {
		if err := cons.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close kafka consumer")
		}
	}()

	statusPublisher := kafkapublisher.NewStatusPublisher(prod, cfg.Topics.Status, log.With().Str("component", "status-publisher").Logger())
	if statusPublisher == nil {
		log.Fatal().Msg("failed to create status publisher")
	}
	dlqPublisher := kafkapublisher.NewDLQPublisher(prod, cfg.Topics.DLQ, log.With().Str("component", "dlq-publisher").Logger())
	if dlqPublisher == nil {
		log.Fatal().Msg("failed to create dlq publisher")
	}

	locks, err := lock.New(cfg.Lock, log.With().Str("component", "order-lock").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise order lock")
	}

	notify, err := notifier.New(cfg.Notifier, log.With().Str("component", "notifier").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise confirmation notifier")
	}

	dispatcher, err := response.NewDispatcher(response.DefaultHandlers(), response.UnsuccessfulHandler(), log.With().Str("component", "dispatcher").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise transaction dispatcher")
	}

	orders := store.NewMemory()

	pipe, err := pipeline.New(pipeline.Dependencies{
		Locks:      locks,
		Orders:     orders,
		Notifier:   notify,
		Dispatcher: dispatcher,
		Settings:   cfg.Gateway,
		Logger:     log.With().Str("component", "pipeline").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise order-update pipeline")
	}

	engineCfg := worker.Config{
		MsgMaxBytes:       cfg.Retry.MsgMaxBytes,
		MaxAttempts:       cfg.Retry.MaxAttempts,
		BaseBackoff:       time.Duration(cfg.Retry.BaseBackoffSeconds) * time.Second,
		MaxBackoff:        time.Duration(cfg.Retry.MaxBackoffSeconds) * time.Second,
		WorkerConcurrency: cfg.Retry.WorkerConcurrency,
	}

	engine, err := worker.NewEngine(engineCfg, worker.Dependencies{
		Processor:       pipe,
		StatusPublisher: statusPublisher,
		DLQPublisher:    dlqPublisher,
		Logger:          log,
		Now:             time.Now,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise worker engine")
	}

	topics := []string{cfg.Topics.Callback}
	handler := worker.KafkaHandler(engine, cons)

	errCh := make(chan error, 1)
	go func() {
		if err := cons.Consume(ctx, topics, handler); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info().Str("callback_topic", cfg.Topics.Callback).Msg("callback worker started")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("consumer terminated with error")
		}
	}
}

func fail(stage string, err error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	logger.Fatal().Err(err).Str("stage", stage).Msg("callback worker init failed")
}
