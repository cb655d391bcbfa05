// Package worker consumes raw gateway callbacks and drives them through the
// order-update pipeline with bounded concurrency, retries and DLQ handling.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/example/payments-gateway/internal/gateway"
	"github.com/example/payments-gateway/internal/models"
	"github.com/example/payments-gateway/internal/pipeline"
)

// Config contains the runtime settings the engine relies on to orchestrate
// processing, retries and DLQ handling for gateway callbacks.
type Config struct {
	MsgMaxBytes       int
	MaxAttempts       int
	BaseBackoff       time.Duration
	MaxBackoff        time.Duration
	WorkerConcurrency int
}

// Processor runs one decoded gateway response through the order-update
// pipeline.
type Processor interface {
	Process(ctx context.Context, resp models.GatewayResponse) (pipeline.Outcome, error)
}

// StatusPublisher publishes a lifecycle event for each processed callback.
type StatusPublisher interface {
	PublishStatus(ctx context.Context, event models.CallbackStatusEvent) error
}

// DLQPublisher writes callbacks that exhausted processing to the DLQ topic.
type DLQPublisher interface {
	PublishDLQ(ctx context.Context, record models.CallbackDLQRecord) error
}

// Dependencies collects the runtime collaborators required by the engine.
type Dependencies struct {
	Processor       Processor
	StatusPublisher StatusPublisher
	DLQPublisher    DLQPublisher
	Logger          zerolog.Logger
	Now             func() time.Time
}

// Engine decodes callback records, fans processing out under a semaphore
// and maps pipeline outcomes to ack, retry or DLQ.
type Engine struct {
	cfg             Config
	processor       Processor
	statusPublisher StatusPublisher
	dlqPublisher    DLQPublisher
	logger          zerolog.Logger

	semaphore *semaphore.Weighted

	now func() time.Time

	randMu sync.Mutex
	rnd    *rand.Rand
}

// NewEngine constructs a worker engine, validating configuration and
// collaborators up front.
func NewEngine(cfg Config, deps Dependencies) (*Engine, error) {
	if cfg.MaxAttempts < 1 {
		return nil, errors.New("worker: max attempts must be >= 1")
	}
	if cfg.WorkerConcurrency < 1 {
		return nil, errors.New("worker: worker concurrency must be >= 1")
	}
	if cfg.MsgMaxBytes < 0 {
		return nil, errors.New("worker: msg max bytes cannot be negative")
	}
	if deps.Processor == nil {
		return nil, errors.New("worker: processor dependency is required")
	}
	if deps.StatusPublisher == nil {
		return nil, errors.New("worker: status publisher dependency is required")
	}
	if deps.DLQPublisher == nil {
		return nil, errors.New("worker: DLQ publisher dependency is required")
	}

	logger := deps.Logger
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	logger = logger.With().Str("component", "worker_engine").Logger()

	nowFunc := deps.Now
	if nowFunc == nil {
		nowFunc = time.Now
	}

	return &Engine{
		cfg:             cfg,
		processor:       deps.Processor,
		statusPublisher: deps.StatusPublisher,
		dlqPublisher:    deps.DLQPublisher,
		logger:          logger,
		semaphore:       semaphore.NewWeighted(int64(cfg.WorkerConcurrency)),
		now:             nowFunc,
		rnd:             rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// HandleRecord gates the record size, decodes the callback bag and triggers
// asynchronous processing with retry handling.
func (e *Engine) HandleRecord(ctx context.Context, record *Record) {
	if record == nil {
		return
	}

	if e.cfg.MsgMaxBytes > 0 && len(record.Value) > e.cfg.MsgMaxBytes {
		err := fmt.Errorf("payload exceeds maximum size: got %d bytes, limit %d bytes", len(record.Value), e.cfg.MsgMaxBytes)
		e.logger.Warn().Str("key", string(record.Key)).Err(err).
			Msg("worker: callback discarded because it exceeds configured size limit")
		e.rejectRecord(ctx, record, nil, err)
		return
	}

	var resp models.GatewayResponse
	if err := json.Unmarshal(record.Value, &resp); err != nil {
		e.logger.Warn().Str("key", string(record.Key)).Err(err).
			Msg("worker: callback payload is not valid JSON")
		e.rejectRecord(ctx, record, nil, fmt.Errorf("decode callback: %w", err))
		return
	}

	if err := e.semaphore.Acquire(ctx, 1); err != nil {
		e.logger.Error().Str("key", string(record.Key)).Err(err).
			Msg("worker: failed to acquire concurrency semaphore")
		return
	}

	go e.processRecord(ctx, record.Clone(), resp)
}

func (e *Engine) processRecord(ctx context.Context, record *Record, resp models.GatewayResponse) {
	defer e.semaphore.Release(1)

	orderNumber, _ := resp.OrderNumber()
	attempt := 1
	firstFailedAt := time.Time{}

	for {
		outcome, err := e.processor.Process(ctx, resp)

		logEvent := e.logger.With().
			Str("order_number", orderNumber).
			Int("attempt", attempt).
			Logger()

		if err == nil {
			logEvent.Info().Str("outcome", string(outcome)).Msg("worker: callback processed")
			e.publishStatus(ctx, orderNumber, string(outcome), attempt, "")
			e.commitRecord(ctx, record)
			return
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logEvent.Warn().Err(err).Msg("worker: context cancelled during processing; deferring commit for redelivery")
			return
		}

		now := e.now()
		if firstFailedAt.IsZero() {
			firstFailedAt = now
		}

		// A duplicate delivery means another invocation owns the order;
		// acknowledge so the gateway retry is not redelivered.
		if errors.Is(err, gateway.ErrDuplicateProcessing) {
			logEvent.Info().Err(err).Msg("worker: duplicate delivery rejected")
			e.publishStatus(ctx, orderNumber, models.CallbackOutcomeDuplicate, attempt, err.Error())
			e.commitRecord(ctx, record)
			return
		}

		if errors.Is(err, gateway.ErrConfiguration) {
			logEvent.Error().Err(err).Msg("worker: configuration error, routing callback to DLQ")
			e.publishStatus(ctx, orderNumber, models.CallbackOutcomeFailed, attempt, err.Error())
			e.publishDLQ(ctx, record, orderNumber, models.FailureTypePermanent, attempt, err, firstFailedAt, now)
			e.commitRecord(ctx, record)
			return
		}

		logEvent.Warn().Err(err).Msg("worker: pipeline returned error")

		if attempt >= e.cfg.MaxAttempts {
			e.publishStatus(ctx, orderNumber, models.CallbackOutcomeFailed, attempt, err.Error())
			failureType := models.FailureTypeTransient
			if !errors.Is(err, gateway.ErrProcessing) {
				failureType = models.FailureTypeUnknown
			}
			e.publishDLQ(ctx, record, orderNumber, failureType, attempt, err, firstFailedAt, now)
			e.commitRecord(ctx, record)
			return
		}

		backoff := e.computeBackoff(attempt)
		if backoff > 0 {
			logEvent.Info().Dur("backoff", backoff).Msg("worker: scheduling retry")
		}
		if !e.wait(ctx, backoff) {
			logEvent.Warn().Msg("worker: context cancelled while waiting for retry; callback will be redelivered")
			return
		}

		attempt++
	}
}

// rejectRecord handles records that fail before processing begins: the
// failure is final, so they go straight to the DLQ and are acknowledged.
func (e *Engine) rejectRecord(ctx context.Context, record *Record, resp models.GatewayResponse, cause error) {
	orderNumber := ""
	if resp != nil {
		orderNumber, _ = resp.OrderNumber()
	}
	now := e.now()
	e.publishStatus(ctx, orderNumber, models.CallbackOutcomeFailed, 0, cause.Error())
	e.publishDLQ(ctx, record, orderNumber, models.FailureTypeValidation, 0, cause, now, now)
	e.commitRecord(ctx, record)
}

func (e *Engine) computeBackoff(attempt int) time.Duration {
	if e.cfg.BaseBackoff <= 0 {
		return 0
	}

	multiplier := math.Pow(2, float64(attempt-1))
	raw := time.Duration(float64(e.cfg.BaseBackoff) * multiplier)
	if e.cfg.MaxBackoff > 0 && raw > e.cfg.MaxBackoff {
		raw = e.cfg.MaxBackoff
	}

	return e.fullJitter(raw)
}

func (e *Engine) fullJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}

	e.randMu.Lock()
	defer e.randMu.Unlock()

	return time.Duration(e.rnd.Int63n(int64(max) + 1))
}

func (e *Engine) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (e *Engine) publishStatus(ctx context.Context, orderNumber, outcome string, attempt int, errMsg string) {
	event := models.CallbackStatusEvent{
		EventID:     uuid.NewString(),
		OrderNumber: orderNumber,
		Outcome:     outcome,
		Attempt:     attempt,
		Error:       errMsg,
		Timestamp:   e.now(),
	}
	if err := e.statusPublisher.PublishStatus(ctx, event); err != nil {
		e.logger.Error().Str("order_number", orderNumber).Str("outcome", outcome).Err(err).
			Msg("worker: failed to publish status event")
	}
}

func (e *Engine) publishDLQ(ctx context.Context, record *Record, orderNumber, failureType string, attempts int, cause error, firstFailedAt, lastAttemptAt time.Time) {
	dlq := models.CallbackDLQRecord{
		EventID:       uuid.NewString(),
		OrderNumber:   orderNumber,
		RawCallback:   json.RawMessage(cloneBytes(record.Value)),
		Attempts:      attempts,
		FailureType:   failureType,
		LastError:     cause.Error(),
		FirstFailedAt: firstFailedAt,
		LastAttemptAt: lastAttemptAt,
	}
	if err := e.dlqPublisher.PublishDLQ(ctx, dlq); err != nil {
		e.logger.Error().Str("order_number", orderNumber).Err(err).
			Msg("worker: failed to publish DLQ record")
	}
}

func (e *Engine) commitRecord(ctx context.Context, record *Record) {
	if err := record.Commit(ctx); err != nil {
		e.logger.Error().
			Str("topic", record.Topic).
			Int32("partition", record.Partition).
			Int64("offset", record.Offset).
			Err(err).
			Msg("worker: failed to commit record offset")
	}
}
