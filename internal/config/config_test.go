package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/example/payments-gateway/internal/gateway"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("GATEWAY_BASE_URL", "https://gateway.example.com")
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("KAFKA_CALLBACK_TOPIC", "payments.callback")
	t.Setenv("KAFKA_CALLBACK_STATUS_TOPIC", "payments.callback.status")
	t.Setenv("KAFKA_CALLBACK_DLQ_TOPIC", "payments.callback.dlq")
	t.Setenv("CALLBACK_CONSUMER_GROUP", "callback-worker")
	t.Setenv("STORES", "default")
	t.Setenv("STORE_DEFAULT_MERCHANT_SECRET", "merchant-secret")
	t.Setenv("STORE_DEFAULT_AUTHENTICITY_TOKEN", "authenticity-token")
	t.Setenv("STORE_DEFAULT_CURRENCIES", "EUR,USD")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Env != "development" {
		t.Fatalf("unexpected default env: %s", cfg.App.Env)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Fatalf("unexpected default max attempts: %d", cfg.Retry.MaxAttempts)
	}
	if !cfg.Retry.CommitOnSuccessOnly {
		t.Fatal("commit-on-success should default to true")
	}
	if cfg.Lock.Backend != "memory" {
		t.Fatalf("unexpected default lock backend: %s", cfg.Lock.Backend)
	}
	if cfg.Notifier.Backend != "mock" {
		t.Fatalf("unexpected default notifier backend: %s", cfg.Notifier.Backend)
	}

	store, ok := cfg.Gateway.Stores["default"]
	if !ok {
		t.Fatal("default store not loaded")
	}
	if store.MerchantSecret != "merchant-secret" {
		t.Fatalf("unexpected merchant secret: %s", store.MerchantSecret)
	}
	if len(store.Currencies) != 2 || store.Currencies[0] != "EUR" || store.Currencies[1] != "USD" {
		t.Fatalf("unexpected currencies: %v", store.Currencies)
	}
	if store.TransactionType != "purchase" {
		t.Fatalf("unexpected default transaction type: %s", store.TransactionType)
	}
}

func TestLoadReportsAllMissingValues(t *testing.T) {
	t.Setenv("GATEWAY_BASE_URL", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("KAFKA_CALLBACK_TOPIC", "")
	t.Setenv("KAFKA_CALLBACK_STATUS_TOPIC", "")
	t.Setenv("KAFKA_CALLBACK_DLQ_TOPIC", "")
	t.Setenv("CALLBACK_CONSUMER_GROUP", "")
	t.Setenv("STORES", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, key := range []string{"GATEWAY_BASE_URL", "KAFKA_BROKERS", "KAFKA_CALLBACK_TOPIC", "STORES"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("error does not mention %s: %v", key, err)
		}
	}
}

func TestLoadValidatesCrossFieldRules(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOCK_BACKEND", "redis")
	t.Setenv("LOCK_REDIS_ADDR", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "LOCK_REDIS_ADDR") {
		t.Fatalf("expected LOCK_REDIS_ADDR validation error, got %v", err)
	}

	t.Setenv("LOCK_BACKEND", "memory")
	t.Setenv("NOTIFIER_BACKEND", "smtp")
	t.Setenv("SMTP_HOST", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "SMTP_HOST") {
		t.Fatalf("expected SMTP_HOST validation error, got %v", err)
	}
}

func TestLoadRejectsInvalidInteger(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAX_ATTEMPTS", "not-a-number")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "MAX_ATTEMPTS") {
		t.Fatalf("expected MAX_ATTEMPTS validation error, got %v", err)
	}
}

func TestGatewaySettings(t *testing.T) {
	cfg := GatewayConfig{
		BaseURL: "https://gateway.example.com/",
		Stores: map[string]StoreConfig{
			"default": {
				MerchantSecret:    "secret",
				AuthenticityToken: "token",
				Currencies:        []string{"EUR"},
				TransactionType:   "authorize",
			},
			"eu-store": {
				MerchantSecret:    "eu-secret",
				AuthenticityToken: "eu-token",
				BaseURL:           "https://eu.gateway.example.com",
				Currencies:        []string{"EUR"},
			},
		},
	}

	url, err := cfg.PaymentCreateURL("")
	if err != nil {
		t.Fatalf("PaymentCreateURL returned error: %v", err)
	}
	if url != "https://gateway.example.com/v2/payment/new" {
		t.Fatalf("unexpected url: %s", url)
	}

	// Per-store base URL overrides the shared one.
	url, err = cfg.PaymentCreateURL("eu-store")
	if err != nil {
		t.Fatalf("PaymentCreateURL(eu-store) returned error: %v", err)
	}
	if url != "https://eu.gateway.example.com/v2/payment/new" {
		t.Fatalf("unexpected url: %s", url)
	}

	secret, err := cfg.MerchantSecret("eu-store")
	if err != nil || secret != "eu-secret" {
		t.Fatalf("unexpected merchant secret: %s, %v", secret, err)
	}

	txnType, err := cfg.DefaultTransactionType("")
	if err != nil || txnType != "authorize" {
		t.Fatalf("unexpected transaction type: %s, %v", txnType, err)
	}

	// Stores without an explicit type fall back to purchase.
	txnType, err = cfg.DefaultTransactionType("eu-store")
	if err != nil || txnType != "purchase" {
		t.Fatalf("unexpected fallback transaction type: %s, %v", txnType, err)
	}

	if _, err := cfg.MerchantSecret("missing"); !errors.Is(err, gateway.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for unknown store, got %v", err)
	}
}

func TestGatewaySettingsMissingValues(t *testing.T) {
	cfg := GatewayConfig{
		Stores: map[string]StoreConfig{
			"default": {},
		},
	}

	if _, err := cfg.PaymentCreateURL(""); !errors.Is(err, gateway.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for missing base url, got %v", err)
	}
	if _, err := cfg.MerchantSecret(""); !errors.Is(err, gateway.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for missing secret, got %v", err)
	}
	if _, err := cfg.AuthenticityToken(""); !errors.Is(err, gateway.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for missing token, got %v", err)
	}
	if _, err := cfg.AcceptedCurrencies(""); !errors.Is(err, gateway.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for missing currencies, got %v", err)
	}
}
