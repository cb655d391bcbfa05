package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/payments-gateway/internal/models"
)

// StoreScopeKey marks the store scope inside an outbound request bag. It
// steers configuration resolution only and is stripped before the body is
// serialized and signed.
const StoreScopeKey = "__store"

// Transfer is an outbound HTTP request descriptor ready for transmission.
// Body holds the exact bytes the digest was computed over; transmitting
// anything else makes the gateway reject the request.
type Transfer struct {
	URI     string
	Method  string
	Headers map[string]string
	Body    []byte
}

// TransferBuilderOption customises the transfer builder.
type TransferBuilderOption func(*TransferBuilder)

// WithClock replaces the timestamp source, used by tests to pin signing
// material.
func WithClock(now func() time.Time) TransferBuilderOption {
	return func(b *TransferBuilder) {
		if now != nil {
			b.now = now
		}
	}
}

// TransferBuilder assembles signed payment-creation transfers. It resolves
// the endpoint and credentials for the request's store scope, gates the
// currency, serializes the body once and signs those exact bytes.
type TransferBuilder struct {
	settings   Settings
	digest     *Digest
	currencies *CurrencyValidator
	logger     zerolog.Logger
	now        func() time.Time
}

// NewTransferBuilder constructs a transfer builder.
func NewTransferBuilder(settings Settings, digest *Digest, currencies *CurrencyValidator, logger zerolog.Logger, opts ...TransferBuilderOption) (*TransferBuilder, error) {
	if settings == nil {
		return nil, errors.New("transfer builder: settings dependency is required")
	}
	if digest == nil {
		return nil, errors.New("transfer builder: digest dependency is required")
	}
	if currencies == nil {
		return nil, errors.New("transfer builder: currency validator dependency is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	b := &TransferBuilder{
		settings:   settings,
		digest:     digest,
		currencies: currencies,
		logger:     logger,
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	return b, nil
}

// Build produces a signed transfer for the payment-creation endpoint. The
// request bag may carry a StoreScopeKey entry selecting the store scope;
// the marker influences resolution only and never reaches the wire.
func (b *TransferBuilder) Build(request map[string]any) (*Transfer, error) {
	if len(request) == 0 {
		return nil, errors.New("transfer builder: request is empty")
	}

	storeID := ""
	if scope, ok := request[StoreScopeKey]; ok {
		if s, ok := scope.(string); ok {
			storeID = s
		}
		trimmed := make(map[string]any, len(request)-1)
		for k, v := range request {
			if k != StoreScopeKey {
				trimmed[k] = v
			}
		}
		request = trimmed
	}

	if currency, ok := request[models.FieldCurrency].(string); ok && currency != "" {
		result, err := b.currencies.Validate(currency, storeID)
		if err != nil {
			return nil, fmt.Errorf("transfer builder: %w", err)
		}
		if !result.Valid {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, result.Messages[0])
		}
	}

	uri, err := b.settings.PaymentCreateURL(storeID)
	if err != nil {
		return nil, fmt.Errorf("transfer builder: %w", err)
	}
	token, err := b.settings.AuthenticityToken(storeID)
	if err != nil {
		return nil, fmt.Errorf("transfer builder: %w", err)
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("transfer builder: serialize request: %w", err)
	}

	timestamp := b.now().Unix()
	digest, err := b.digest.Build(timestamp, body, storeID)
	if err != nil {
		return nil, fmt.Errorf("transfer builder: %w", err)
	}

	b.logger.Debug().
		Str("store_id", storeID).
		Int64("timestamp", timestamp).
		Str("digest", TruncateForLog(digest)).
		Msg("transfer builder: signed payment create request")

	return &Transfer{
		URI:    uri,
		Method: http.MethodPost,
		Headers: map[string]string{
			"Authorization": fmt.Sprintf("WP3-v2 %s %d %s", token, timestamp, digest),
			"Content-Type":  "application/json",
		},
		Body: body,
	}, nil
}
