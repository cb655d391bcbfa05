package response

import (
	"context"
	"strings"
	"testing"

	"github.com/example/payments-gateway/internal/models"
)

func TestHandlePurchase(t *testing.T) {
	txn := &Transaction{Order: newOrder()}
	resp := models.GatewayResponse{
		"status":        "approved",
		"amount":        float64(1500),
		"issuer":        "issuer-ref-1",
		"approval_code": "AP123",
	}

	if err := handlePurchase(context.Background(), txn, resp); err != nil {
		t.Fatalf("handlePurchase returned error: %v", err)
	}
	if txn.Order.AmountCaptured != 1500 {
		t.Fatalf("unexpected captured amount: %d", txn.Order.AmountCaptured)
	}
	if txn.Order.State != models.OrderStateProcessing {
		t.Fatalf("unexpected state: %s", txn.Order.State)
	}
	if txn.Order.GatewayReference != "issuer-ref-1" || txn.Order.ApprovalCode != "AP123" {
		t.Fatalf("gateway references not recorded: %+v", txn.Order)
	}
}

func TestHandleAuthorize(t *testing.T) {
	txn := &Transaction{Order: newOrder()}
	resp := models.GatewayResponse{"status": "approved"}

	if err := handleAuthorize(context.Background(), txn, resp); err != nil {
		t.Fatalf("handleAuthorize returned error: %v", err)
	}
	if txn.Order.State != models.OrderStatePaymentReview {
		t.Fatalf("unexpected state: %s", txn.Order.State)
	}
	if txn.Order.AmountCaptured != 0 {
		t.Fatal("authorization must not capture funds")
	}
}

func TestHandleCaptureAccumulates(t *testing.T) {
	txn := &Transaction{Order: newOrder()}
	txn.Order.AmountCaptured = 500

	resp := models.GatewayResponse{"status": "approved", "amount": "300"}
	if err := handleCapture(context.Background(), txn, resp); err != nil {
		t.Fatalf("handleCapture returned error: %v", err)
	}
	if txn.Order.AmountCaptured != 800 {
		t.Fatalf("unexpected captured amount: %d", txn.Order.AmountCaptured)
	}
}

func TestHandleVoid(t *testing.T) {
	txn := &Transaction{Order: newOrder()}
	txn.Order.State = models.OrderStatePaymentReview

	if err := handleVoid(context.Background(), txn, models.GatewayResponse{"status": "approved"}); err != nil {
		t.Fatalf("handleVoid returned error: %v", err)
	}
	if txn.Order.State != models.OrderStateCanceled {
		t.Fatalf("unexpected state: %s", txn.Order.State)
	}
}

func TestHandleRefund(t *testing.T) {
	txn := &Transaction{Order: newOrder()}
	txn.Order.State = models.OrderStateProcessing
	txn.Order.AmountCaptured = 1000

	resp := models.GatewayResponse{"status": "approved", "amount": float64(400)}
	if err := handleRefund(context.Background(), txn, resp); err != nil {
		t.Fatalf("handleRefund returned error: %v", err)
	}
	if txn.Order.AmountRefunded != 400 {
		t.Fatalf("unexpected refunded amount: %d", txn.Order.AmountRefunded)
	}
	if txn.Order.State != models.OrderStateProcessing {
		t.Fatalf("partial refund must not cancel the order, state is %s", txn.Order.State)
	}

	// Refunding the remainder cancels the order.
	resp = models.GatewayResponse{"status": "approved", "amount": float64(600)}
	if err := handleRefund(context.Background(), txn, resp); err != nil {
		t.Fatalf("second handleRefund returned error: %v", err)
	}
	if txn.Order.AmountRefunded != 1000 {
		t.Fatalf("unexpected refunded amount: %d", txn.Order.AmountRefunded)
	}
	if txn.Order.State != models.OrderStateCanceled {
		t.Fatalf("full refund should cancel the order, state is %s", txn.Order.State)
	}
}

func TestHandleUnsuccessful(t *testing.T) {
	txn := &Transaction{Order: newOrder()}
	resp := models.GatewayResponse{"status": "declined", "response_code": "0051"}

	if err := handleUnsuccessful(context.Background(), txn, resp); err != nil {
		t.Fatalf("handleUnsuccessful returned error: %v", err)
	}
	if txn.Order.State != models.OrderStateCanceled {
		t.Fatalf("unexpected state: %s", txn.Order.State)
	}
	if !strings.Contains(txn.Order.FailureMessage, "declined") || !strings.Contains(txn.Order.FailureMessage, "0051") {
		t.Fatalf("failure message does not describe the refusal: %q", txn.Order.FailureMessage)
	}
}

func TestAmountField(t *testing.T) {
	if amount, err := amountField(models.GatewayResponse{"amount": float64(1234)}); err != nil || amount != 1234 {
		t.Fatalf("numeric amount: got %d, %v", amount, err)
	}
	if amount, err := amountField(models.GatewayResponse{"amount": "5678"}); err != nil || amount != 5678 {
		t.Fatalf("string amount: got %d, %v", amount, err)
	}
	if amount, err := amountField(models.GatewayResponse{}); err != nil || amount != 0 {
		t.Fatalf("missing amount: got %d, %v", amount, err)
	}
	if _, err := amountField(models.GatewayResponse{"amount": "12.50"}); err == nil {
		t.Fatal("expected error for non-integer string amount")
	}
	if _, err := amountField(models.GatewayResponse{"amount": true}); err == nil {
		t.Fatal("expected error for unsupported amount type")
	}
}
