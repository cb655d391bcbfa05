package response

import (
	"context"
	"fmt"
	"strconv"

	"github.com/example/payments-gateway/internal/models"
)

// DefaultHandlers returns the handler registry for the transaction types the
// gateway currently emits.
func DefaultHandlers() map[string]Handler {
	return map[string]Handler{
		models.TransactionTypePurchase:  HandlerFunc(handlePurchase),
		models.TransactionTypeAuthorize: HandlerFunc(handleAuthorize),
		models.TransactionTypeCapture:   HandlerFunc(handleCapture),
		models.TransactionTypeVoid:      HandlerFunc(handleVoid),
		models.TransactionTypeRefund:    HandlerFunc(handleRefund),
	}
}

// UnsuccessfulHandler returns the handler invoked for every declined or
// errored transaction regardless of type.
func UnsuccessfulHandler() Handler {
	return HandlerFunc(handleUnsuccessful)
}

// handlePurchase records an approved sale: funds are authorized and
// captured in one step.
func handlePurchase(_ context.Context, txn *Transaction, resp models.GatewayResponse) error {
	applyGatewayReference(txn.Order, resp)

	amount, err := amountField(resp)
	if err != nil {
		return fmt.Errorf("purchase handler: %w", err)
	}

	txn.Order.AmountCaptured = amount
	txn.Order.State = models.OrderStateProcessing
	txn.Order.FailureMessage = ""
	return nil
}

// handleAuthorize records an approved authorization; capture happens later.
func handleAuthorize(_ context.Context, txn *Transaction, resp models.GatewayResponse) error {
	applyGatewayReference(txn.Order, resp)
	txn.Order.State = models.OrderStatePaymentReview
	txn.Order.FailureMessage = ""
	return nil
}

// handleCapture settles a previously authorized amount.
func handleCapture(_ context.Context, txn *Transaction, resp models.GatewayResponse) error {
	applyGatewayReference(txn.Order, resp)

	amount, err := amountField(resp)
	if err != nil {
		return fmt.Errorf("capture handler: %w", err)
	}

	txn.Order.AmountCaptured += amount
	txn.Order.State = models.OrderStateProcessing
	return nil
}

// handleVoid releases an authorization that will not be captured.
func handleVoid(_ context.Context, txn *Transaction, resp models.GatewayResponse) error {
	applyGatewayReference(txn.Order, resp)
	txn.Order.State = models.OrderStateCanceled
	return nil
}

// handleRefund returns captured funds to the customer.
func handleRefund(_ context.Context, txn *Transaction, resp models.GatewayResponse) error {
	applyGatewayReference(txn.Order, resp)

	amount, err := amountField(resp)
	if err != nil {
		return fmt.Errorf("refund handler: %w", err)
	}

	txn.Order.AmountRefunded += amount
	if txn.Order.AmountRefunded >= txn.Order.AmountCaptured {
		txn.Order.State = models.OrderStateCanceled
	}
	return nil
}

// handleUnsuccessful records the gateway's refusal on the order.
func handleUnsuccessful(_ context.Context, txn *Transaction, resp models.GatewayResponse) error {
	status, _ := resp.Status()
	code, hasCode := resp.ResponseCode()

	message := fmt.Sprintf("gateway declined the transaction: status %s", status)
	if hasCode {
		message = fmt.Sprintf("%s, response code %s", message, code)
	}

	txn.Order.FailureMessage = message
	txn.Order.State = models.OrderStateCanceled
	return nil
}

func applyGatewayReference(order *models.Order, resp models.GatewayResponse) {
	if ref, ok := resp[models.FieldIssuerReference].(string); ok && ref != "" {
		order.GatewayReference = ref
	}
	if code, ok := resp[models.FieldApprovalCode].(string); ok && code != "" {
		order.ApprovalCode = code
	}
}

// amountField reads the transaction amount in minor units. The gateway
// sends it as a JSON number or a decimal string depending on the callback
// variant.
func amountField(resp models.GatewayResponse) (int64, error) {
	raw, ok := resp[models.FieldAmount]
	if !ok {
		return 0, nil
	}

	switch v := raw.(type) {
	case float64:
		return int64(v), nil
	case string:
		amount, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", v)
		}
		return amount, nil
	default:
		return 0, fmt.Errorf("invalid amount type %T", raw)
	}
}
