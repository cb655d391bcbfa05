package config

import (
	"fmt"
	"strings"

	"github.com/example/payments-gateway/internal/gateway"
)

// paymentCreatePath is the gateway's payment-creation resource, appended to
// the configured base URL.
const paymentCreatePath = "v2/payment/new"

// GatewayConfig implements gateway.Settings, resolving every lookup against
// the per-store configuration. Missing stores or values surface
// gateway.ErrConfiguration so callers can treat them as fatal.

// PaymentCreateURL returns the payment-creation endpoint for the store.
func (g GatewayConfig) PaymentCreateURL(storeID string) (string, error) {
	store, err := g.store(storeID)
	if err != nil {
		return "", err
	}
	base := store.BaseURL
	if base == "" {
		base = g.BaseURL
	}
	if base == "" {
		return "", fmt.Errorf("%w: gateway base URL for store %q", gateway.ErrConfiguration, storeID)
	}
	return strings.TrimRight(base, "/") + "/" + paymentCreatePath, nil
}

// MerchantSecret returns the digest signing key for the store.
func (g GatewayConfig) MerchantSecret(storeID string) (string, error) {
	store, err := g.store(storeID)
	if err != nil {
		return "", err
	}
	if store.MerchantSecret == "" {
		return "", fmt.Errorf("%w: merchant secret for store %q", gateway.ErrConfiguration, storeID)
	}
	return store.MerchantSecret, nil
}

// AuthenticityToken returns the merchant authenticity token for the store.
func (g GatewayConfig) AuthenticityToken(storeID string) (string, error) {
	store, err := g.store(storeID)
	if err != nil {
		return "", err
	}
	if store.AuthenticityToken == "" {
		return "", fmt.Errorf("%w: authenticity token for store %q", gateway.ErrConfiguration, storeID)
	}
	return store.AuthenticityToken, nil
}

// AcceptedCurrencies returns the currency codes the store accepts.
func (g GatewayConfig) AcceptedCurrencies(storeID string) ([]string, error) {
	store, err := g.store(storeID)
	if err != nil {
		return nil, err
	}
	if len(store.Currencies) == 0 {
		return nil, fmt.Errorf("%w: accepted currencies for store %q", gateway.ErrConfiguration, storeID)
	}
	return store.Currencies, nil
}

// DefaultTransactionType returns the configured payment action for the
// store, defaulting to purchase.
func (g GatewayConfig) DefaultTransactionType(storeID string) (string, error) {
	store, err := g.store(storeID)
	if err != nil {
		return "", err
	}
	if store.TransactionType == "" {
		return "purchase", nil
	}
	return store.TransactionType, nil
}

// store resolves the per-store block. An empty store id selects the
// "default" store when one is configured.
func (g GatewayConfig) store(storeID string) (StoreConfig, error) {
	id := storeID
	if id == "" {
		id = "default"
	}
	store, ok := g.Stores[id]
	if !ok {
		return StoreConfig{}, fmt.Errorf("%w: no settings for store %q", gateway.ErrConfiguration, id)
	}
	return store, nil
}
