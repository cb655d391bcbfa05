// Package notifier sends order confirmation notifications. The pipeline
// invokes it at most once per order, and only for classified-successful
// gateway responses.
package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/payments-gateway/internal/config"
	"github.com/example/payments-gateway/internal/models"
)

// Notifier delivers an order confirmation to the customer.
type Notifier interface {
	SendConfirmation(ctx context.Context, order *models.Order) error
}

// New constructs the configured notifier backend.
func New(cfg config.NotifierConfig, logger zerolog.Logger) (Notifier, error) {
	backend := strings.TrimSpace(strings.ToLower(cfg.Backend))
	if backend == "" {
		backend = "mock"
	}

	switch backend {
	case "smtp":
		n, err := NewSMTPNotifier(cfg.SMTP, logger)
		if err != nil {
			return nil, fmt.Errorf("notifier: smtp init: %w", err)
		}
		logger.Info().Str("backend", "smtp").Msg("confirmation notifier initialised")
		return n, nil
	case "mock":
		logger.Info().Str("backend", "mock").Msg("confirmation notifier initialised")
		return NewMockNotifier(logger), nil
	default:
		return nil, fmt.Errorf("notifier: unsupported backend %q", cfg.Backend)
	}
}
