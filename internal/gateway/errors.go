package gateway

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the gateway integration. Callers classify
// failures with errors.Is rather than matching messages.
var (
	// ErrConfiguration indicates a required store-scoped setting is missing.
	ErrConfiguration = errors.New("gateway configuration missing")
	// ErrDuplicateProcessing signals that the order is already being
	// processed by a concurrent callback delivery. It must reach the caller
	// unwrapped so the delivery can be acknowledged instead of retried.
	ErrDuplicateProcessing = errors.New("order already being processed")
	// ErrProcessing is the uniform wrapper for failures raised while
	// dispatching or persisting a gateway response.
	ErrProcessing = errors.New("failed to process transaction")
	// ErrUnsupportedCurrency is returned when an outbound request carries a
	// currency the store does not accept.
	ErrUnsupportedCurrency = errors.New("currency not supported")
)

// WrapProcessing annotates an error as a processing failure, preserving the
// original cause's message for uniform operator-facing reporting.
func WrapProcessing(err error) error {
	if err == nil {
		return ErrProcessing
	}
	return fmt.Errorf("%w: %v", ErrProcessing, err)
}
