// Package pipeline orchestrates processing of one inbound gateway response:
// lock acquisition, classification, dispatch, persistence and notification,
// with the lock released on every exit path.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/example/payments-gateway/internal/gateway"
	"github.com/example/payments-gateway/internal/lock"
	"github.com/example/payments-gateway/internal/models"
	"github.com/example/payments-gateway/internal/notifier"
	"github.com/example/payments-gateway/internal/response"
	"github.com/example/payments-gateway/internal/store"
)

// Outcome is the terminal result of one pipeline invocation.
type Outcome string

const (
	// OutcomeIgnored marks a malformed notification that was dropped
	// without locking or dispatch.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeDuplicate marks a delivery rejected because the order was
	// already being processed.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeCommitted marks a fully processed response.
	OutcomeCommitted Outcome = "committed"
	// OutcomeFailed marks a processing failure; the order was left as it
	// was before this invocation.
	OutcomeFailed Outcome = "failed"
)

// Dependencies collects the collaborators required by the pipeline.
type Dependencies struct {
	Locks      lock.Locker
	Orders     store.OrderStore
	Notifier   notifier.Notifier
	Dispatcher *response.Dispatcher
	Settings   gateway.Settings
	Logger     zerolog.Logger
}

// Pipeline processes inbound gateway responses exactly once per order.
type Pipeline struct {
	locks      lock.Locker
	orders     store.OrderStore
	notifier   notifier.Notifier
	dispatcher *response.Dispatcher
	settings   gateway.Settings
	logger     zerolog.Logger
}

// New constructs a pipeline, validating that every collaborator is present.
func New(deps Dependencies) (*Pipeline, error) {
	if deps.Locks == nil {
		return nil, errors.New("pipeline: locks dependency is required")
	}
	if deps.Orders == nil {
		return nil, errors.New("pipeline: orders dependency is required")
	}
	if deps.Notifier == nil {
		return nil, errors.New("pipeline: notifier dependency is required")
	}
	if deps.Dispatcher == nil {
		return nil, errors.New("pipeline: dispatcher dependency is required")
	}
	if deps.Settings == nil {
		return nil, errors.New("pipeline: settings dependency is required")
	}

	logger := deps.Logger
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	return &Pipeline{
		locks:      deps.Locks,
		orders:     deps.Orders,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		settings:   deps.Settings,
		logger:     logger,
	}, nil
}

// Process runs one gateway response through the pipeline. Duplicate and
// configuration errors surface verbatim; every other failure is wrapped
// once into gateway.ErrProcessing. The per-order lock is released before
// Process returns, whichever branch was taken.
func (p *Pipeline) Process(ctx context.Context, resp models.GatewayResponse) (Outcome, error) {
	trace := &invocationLog{location: "pipeline.Process"}
	defer trace.emit(p.logger)

	if _, ok := resp.Status(); !ok {
		trace.action = "drop"
		trace.addError("status not set in response, invalid response")
		return OutcomeIgnored, nil
	}

	orderNumber, ok := resp.OrderNumber()
	if !ok {
		trace.action = "fail"
		trace.addError("order_number not set in response")
		return OutcomeFailed, gateway.WrapProcessing(errors.New("order_number not set in response"))
	}
	trace.orderNumber = orderNumber

	acquired, err := p.locks.TryLock(ctx, orderNumber)
	if err != nil {
		trace.action = "fail"
		trace.addError(err.Error())
		return OutcomeFailed, gateway.WrapProcessing(err)
	}
	if !acquired {
		trace.action = "reject"
		trace.addError("order is currently being processed")
		return OutcomeDuplicate, fmt.Errorf("%w: order %s", gateway.ErrDuplicateProcessing, orderNumber)
	}
	defer func() {
		if err := p.locks.Unlock(ctx, orderNumber); err != nil {
			p.logger.Error().Err(err).Str("order_number", orderNumber).Msg("pipeline: lock release failed")
		}
	}()

	// The order is read under the lock so the EmailSent check below cannot
	// run against a snapshot another invocation has since overwritten.
	order, err := p.orders.Load(ctx, orderNumber)
	if err != nil {
		trace.action = "fail"
		trace.addError(err.Error())
		return OutcomeFailed, gateway.WrapProcessing(err)
	}

	resp, err = p.resolveTransactionType(resp, order)
	if err != nil {
		trace.action = "fail"
		trace.addError(err.Error())
		return OutcomeFailed, err
	}

	txn := &response.Transaction{Order: order, StoreID: order.StoreID}

	if err := p.dispatcher.Dispatch(ctx, txn, resp); err != nil {
		trace.action = "fail"
		trace.addError(err.Error())
		if errors.Is(err, gateway.ErrDuplicateProcessing) {
			return OutcomeDuplicate, err
		}
		return OutcomeFailed, gateway.WrapProcessing(err)
	}

	if err := p.orders.Save(ctx, order); err != nil {
		trace.action = "fail"
		trace.addError(err.Error())
		return OutcomeFailed, gateway.WrapProcessing(err)
	}
	trace.action = "commit"

	if response.Successful(resp) && !order.EmailSent {
		if err := p.notifier.SendConfirmation(ctx, order); err != nil {
			trace.addError(err.Error())
			return OutcomeFailed, gateway.WrapProcessing(err)
		}
		order.EmailSent = true
		trace.notified = true
		if err := p.orders.Save(ctx, order); err != nil {
			trace.addError(err.Error())
			return OutcomeFailed, gateway.WrapProcessing(err)
		}
	}

	return OutcomeCommitted, nil
}

// resolveTransactionType fills in the transaction type when the gateway
// omitted it: first from the type recorded on the order when the outbound
// request was created, then from the store's configured default.
func (p *Pipeline) resolveTransactionType(resp models.GatewayResponse, order *models.Order) (models.GatewayResponse, error) {
	if _, ok := resp.TransactionType(); ok {
		return resp, nil
	}

	transactionType := order.PaymentTransactionType
	if transactionType == "" {
		var err error
		transactionType, err = p.settings.DefaultTransactionType(order.StoreID)
		if err != nil {
			return resp, err
		}
	}

	return resp.WithTransactionType(transactionType), nil
}

// invocationLog accumulates the structured debug fields emitted once per
// pipeline invocation.
type invocationLog struct {
	location    string
	orderNumber string
	errors      []string
	action      string
	notified    bool
}

func (t *invocationLog) addError(msg string) {
	t.errors = append(t.errors, msg)
}

func (t *invocationLog) emit(logger zerolog.Logger) {
	logger.Debug().
		Str("location", t.location).
		Str("order_number", t.orderNumber).
		Strs("errors", t.errors).
		Str("action", t.action).
		Bool("notified", t.notified).
		Msg("pipeline: response processed")
}
