package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/payments-gateway/internal/config"
	"github.com/example/payments-gateway/internal/models"
)

func TestNewSelectsBackend(t *testing.T) {
	n, err := New(config.NotifierConfig{Backend: "mock"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New(mock) returned error: %v", err)
	}
	if _, ok := n.(*MockNotifier); !ok {
		t.Fatalf("unexpected notifier type: %T", n)
	}

	// Empty backend defaults to mock.
	n, err = New(config.NotifierConfig{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	if _, ok := n.(*MockNotifier); !ok {
		t.Fatalf("unexpected default notifier type: %T", n)
	}

	smtpCfg := config.NotifierConfig{
		Backend: "smtp",
		SMTP:    config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"},
	}
	n, err = New(smtpCfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New(smtp) returned error: %v", err)
	}
	if _, ok := n.(*SMTPNotifier); !ok {
		t.Fatalf("unexpected notifier type: %T", n)
	}

	if _, err := New(config.NotifierConfig{Backend: "carrier-pigeon"}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestMockNotifierRecordsConfirmations(t *testing.T) {
	mock := NewMockNotifier(zerolog.Nop())
	order := &models.Order{Number: "000000123", CustomerEmail: "customer@example.com"}

	if err := mock.SendConfirmation(context.Background(), order); err != nil {
		t.Fatalf("SendConfirmation returned error: %v", err)
	}
	if sent := mock.Sent(); len(sent) != 1 || sent[0] != "000000123" {
		t.Fatalf("unexpected confirmations: %v", sent)
	}

	wantErr := errors.New("forced failure")
	mock.FailWith(wantErr)
	if err := mock.SendConfirmation(context.Background(), order); !errors.Is(err, wantErr) {
		t.Fatalf("expected forced failure, got %v", err)
	}
	if sent := mock.Sent(); len(sent) != 1 {
		t.Fatalf("failed delivery must not be recorded: %v", sent)
	}
}

func TestNewSMTPNotifierValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.SMTPConfig
	}{
		{"missing host", config.SMTPConfig{Port: 587, From: "noreply@example.com"}},
		{"invalid port", config.SMTPConfig{Host: "smtp.example.com", Port: 0, From: "noreply@example.com"}},
		{"missing from", config.SMTPConfig{Host: "smtp.example.com", Port: 587}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewSMTPNotifier(tc.cfg, zerolog.Nop()); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSMTPNotifierRequiresCustomerEmail(t *testing.T) {
	n, err := NewSMTPNotifier(config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSMTPNotifier returned error: %v", err)
	}

	err = n.SendConfirmation(context.Background(), &models.Order{Number: "000000123"})
	if err == nil || !strings.Contains(err.Error(), "customer email") {
		t.Fatalf("expected missing email error, got %v", err)
	}
}

func TestSMTPNotifierBuildMessage(t *testing.T) {
	fixed := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	n, err := NewSMTPNotifier(
		config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"},
		zerolog.Nop(),
		WithSMTPClock(func() time.Time { return fixed }),
	)
	if err != nil {
		t.Fatalf("NewSMTPNotifier returned error: %v", err)
	}

	message := string(n.buildMessage(&models.Order{
		Number:        "000000123",
		CustomerEmail: "customer@example.com",
	}))

	for _, want := range []string{
		"From: noreply@example.com\r\n",
		"To: customer@example.com\r\n",
		"Subject: Order 000000123 confirmed\r\n",
		"Date: " + fixed.Format(time.RFC1123Z) + "\r\n",
	} {
		if !strings.Contains(message, want) {
			t.Fatalf("message missing %q:\n%s", want, message)
		}
	}
	if !strings.Contains(message, "\r\n\r\n") {
		t.Fatal("message has no header/body separator")
	}
}
