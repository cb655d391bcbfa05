package notifier

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/rs/zerolog"

	"github.com/example/payments-gateway/internal/models"
)

// MockNotifier records confirmations instead of delivering them. Used in
// development environments and tests.
type MockNotifier struct {
	logger zerolog.Logger

	mu   sync.Mutex
	sent []string
	fail error
}

// NewMockNotifier constructs a mock notifier.
func NewMockNotifier(logger zerolog.Logger) *MockNotifier {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &MockNotifier{logger: logger}
}

// FailWith makes subsequent SendConfirmation calls return err.
func (m *MockNotifier) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

// SendConfirmation implements Notifier.
func (m *MockNotifier) SendConfirmation(_ context.Context, order *models.Order) error {
	if order == nil {
		return errors.New("mock notifier: order is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail != nil {
		return m.fail
	}

	m.sent = append(m.sent, order.Number)
	m.logger.Info().Str("order_number", order.Number).Msg("mock notifier: confirmation recorded")
	return nil
}

// Sent returns the order numbers confirmations were recorded for.
func (m *MockNotifier) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}
