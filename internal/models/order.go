package models

import "time"

// Order states mirrored from the host commerce platform. Only the states the
// gateway integration transitions between are listed here.
const (
	OrderStatePendingPayment = "pending_payment"
	OrderStateProcessing     = "processing"
	OrderStateCanceled       = "canceled"
	OrderStatePaymentReview  = "payment_review"
)

// Order is the slice of the commerce platform's order record this service
// reads and writes. Persistence is owned by the platform; the order travels
// through the pipeline behind the store.OrderStore interface.
type Order struct {
	Number                 string            `json:"order_number"`
	StoreID                string            `json:"store_id"`
	CustomerEmail          string            `json:"customer_email,omitempty"`
	State                  string            `json:"state"`
	Currency               string            `json:"currency"`
	GrandTotal             int64             `json:"grand_total"`
	PaymentTransactionType string            `json:"payment_transaction_type,omitempty"`
	GatewayReference       string            `json:"gateway_reference,omitempty"`
	ApprovalCode           string            `json:"approval_code,omitempty"`
	AmountCaptured         int64             `json:"amount_captured,omitempty"`
	AmountRefunded         int64             `json:"amount_refunded,omitempty"`
	FailureMessage         string            `json:"failure_message,omitempty"`
	EmailSent              bool              `json:"email_sent"`
	UpdatedAt              time.Time         `json:"updated_at"`
	Meta                   map[string]string `json:"meta,omitempty"`
}
