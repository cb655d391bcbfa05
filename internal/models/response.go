package models

// Gateway response field names. The gateway delivers callbacks as a flat
// key/value bag; only the fields below are interpreted by this service, the
// rest are passed through to transaction handlers unmodified.
const (
	FieldStatus          = "status"
	FieldResponseCode    = "response_code"
	FieldTransactionType = "transaction_type"
	FieldOrderNumber     = "order_number"
	FieldCurrency        = "currency"
	FieldAmount          = "amount"
	FieldApprovalCode    = "approval_code"
	FieldIssuerReference = "issuer"
)

// Transaction types supported by the gateway. New types are added by
// registering a handler for them, not by extending this list.
const (
	TransactionTypePurchase  = "purchase"
	TransactionTypeAuthorize = "authorize"
	TransactionTypeCapture   = "capture"
	TransactionTypeVoid      = "void"
	TransactionTypeRefund    = "refund"
)

// GatewayResponse is an inbound gateway notification. Decoded straight from
// the callback JSON, so values keep their wire types (strings and numbers).
type GatewayResponse map[string]any

// Status returns the response status and whether it was present.
func (r GatewayResponse) Status() (string, bool) {
	return r.stringField(FieldStatus)
}

// ResponseCode returns the gateway response code and whether it was present.
func (r GatewayResponse) ResponseCode() (string, bool) {
	return r.stringField(FieldResponseCode)
}

// TransactionType returns the transaction type and whether it was present.
func (r GatewayResponse) TransactionType() (string, bool) {
	return r.stringField(FieldTransactionType)
}

// OrderNumber returns the order number and whether it was present.
func (r GatewayResponse) OrderNumber() (string, bool) {
	return r.stringField(FieldOrderNumber)
}

// WithTransactionType returns a shallow copy of the response with the
// transaction type set. The original bag is left untouched so retries see
// the callback exactly as it was delivered.
func (r GatewayResponse) WithTransactionType(transactionType string) GatewayResponse {
	out := make(GatewayResponse, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	out[FieldTransactionType] = transactionType
	return out
}

// stringField reports presence by key existence. An empty string is a
// present value: the gateway sending `response_code: ""` means the code was
// delivered and must be compared, not that it was omitted.
func (r GatewayResponse) stringField(key string) (string, bool) {
	raw, ok := r[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	return s, true
}
