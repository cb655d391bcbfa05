package response

import (
	"context"
	"errors"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/example/payments-gateway/internal/models"
)

// Transaction is the order-side context a handler operates on. Handlers
// mutate the order in place; persistence stays with the pipeline.
type Transaction struct {
	Order   *models.Order
	StoreID string
}

// Handler processes a classified gateway response for one transaction
// context. New transaction types are supported by registering a new handler,
// never by extending the dispatcher.
type Handler interface {
	Handle(ctx context.Context, txn *Transaction, resp models.GatewayResponse) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, txn *Transaction, resp models.GatewayResponse) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, txn *Transaction, resp models.GatewayResponse) error {
	return f(ctx, txn, resp)
}

// Dispatcher routes classified responses to the handler registered for
// their transaction type, or to the single unsuccessful-transaction handler
// when the response is not approved.
type Dispatcher struct {
	handlers     map[string]Handler
	unsuccessful Handler
	logger       zerolog.Logger
}

// NewDispatcher constructs a dispatcher from a registry of per-type
// handlers and the unsuccessful-transaction handler. Registration happens
// once at startup; lookup is plain key resolution.
func NewDispatcher(handlers map[string]Handler, unsuccessful Handler, logger zerolog.Logger) (*Dispatcher, error) {
	if unsuccessful == nil {
		return nil, errors.New("dispatcher: unsuccessful handler is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	registry := make(map[string]Handler, len(handlers))
	for transactionType, handler := range handlers {
		if handler == nil {
			continue
		}
		registry[transactionType] = handler
	}

	return &Dispatcher{
		handlers:     registry,
		unsuccessful: unsuccessful,
		logger:       logger,
	}, nil
}

// Dispatch routes the response. Successful responses without a registered
// handler for their transaction type are accepted with a warning; the
// gateway contract treats them as informational.
func (d *Dispatcher) Dispatch(ctx context.Context, txn *Transaction, resp models.GatewayResponse) error {
	if txn == nil || txn.Order == nil {
		return errors.New("dispatcher: transaction context is required")
	}

	if !Successful(resp) {
		return d.unsuccessful.Handle(ctx, txn, resp)
	}

	transactionType, _ := resp.TransactionType()
	handler, ok := d.handlers[transactionType]
	if !ok {
		d.logger.Warn().
			Str("order_number", txn.Order.Number).
			Str("transaction_type", transactionType).
			Msg("dispatcher: no handler registered for transaction type, accepting without action")
		return nil
	}

	return handler.Handle(ctx, txn, resp)
}
