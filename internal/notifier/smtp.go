package notifier

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/payments-gateway/internal/config"
	"github.com/example/payments-gateway/internal/models"
)

// Dialer abstracts net.Dialer to simplify testing.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// SMTPOption configures the behaviour of the SMTP notifier.
type SMTPOption func(*SMTPNotifier)

// WithSMTPDialer swaps the network dialer used to establish connections.
func WithSMTPDialer(d Dialer) SMTPOption {
	return func(n *SMTPNotifier) {
		if d != nil {
			n.dialer = d
		}
	}
}

// WithSMTPTLSConfig overrides the TLS configuration used for STARTTLS.
func WithSMTPTLSConfig(cfg *tls.Config) SMTPOption {
	return func(n *SMTPNotifier) {
		n.tlsConfig = cfg
	}
}

// WithSMTPClock replaces the clock used for message timestamps.
func WithSMTPClock(now func() time.Time) SMTPOption {
	return func(n *SMTPNotifier) {
		if now != nil {
			n.now = now
		}
	}
}

// SMTPNotifier sends order confirmation emails over SMTP with STARTTLS.
type SMTPNotifier struct {
	logger    zerolog.Logger
	host      string
	port      int
	from      string
	auth      smtp.Auth
	tlsConfig *tls.Config
	dialer    Dialer
	now       func() time.Time
}

// NewSMTPNotifier constructs a Notifier backed by an SMTP server.
func NewSMTPNotifier(cfg config.SMTPConfig, logger zerolog.Logger, opts ...SMTPOption) (*SMTPNotifier, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp notifier: host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("smtp notifier: invalid port %d", cfg.Port)
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, errors.New("smtp notifier: from address is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	n := &SMTPNotifier{
		logger: logger,
		host:   cfg.Host,
		port:   cfg.Port,
		from:   strings.TrimSpace(cfg.From),
		dialer: &net.Dialer{Timeout: 30 * time.Second},
		now:    time.Now,
		tlsConfig: &tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		},
	}

	if strings.TrimSpace(cfg.User) != "" {
		n.auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}

	return n, nil
}

// SendConfirmation implements Notifier.
func (n *SMTPNotifier) SendConfirmation(ctx context.Context, order *models.Order) error {
	if order == nil {
		return errors.New("smtp notifier: order is required")
	}
	if strings.TrimSpace(order.CustomerEmail) == "" {
		return fmt.Errorf("smtp notifier: order %s has no customer email", order.Number)
	}

	message := n.buildMessage(order)
	if err := n.deliver(ctx, order.CustomerEmail, message); err != nil {
		return err
	}

	n.logger.Info().
		Str("order_number", order.Number).
		Str("recipient", order.CustomerEmail).
		Msg("smtp notifier: confirmation sent")
	return nil
}

func (n *SMTPNotifier) deliver(ctx context.Context, recipient string, message []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := net.JoinHostPort(n.host, strconv.Itoa(n.port))
	conn, err := n.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp notifier: dial: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, n.host)
	if err != nil {
		return fmt.Errorf("smtp notifier: new client: %w", err)
	}
	defer client.Close()

	if n.tlsConfig != nil {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(n.tlsConfig); err != nil {
				return fmt.Errorf("smtp notifier: starttls: %w", err)
			}
		}
	}

	if n.auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(n.auth); err != nil {
				return fmt.Errorf("smtp notifier: auth: %w", err)
			}
		}
	}

	if err := client.Mail(n.from); err != nil {
		return fmt.Errorf("smtp notifier: mail from: %w", err)
	}
	if err := client.Rcpt(recipient); err != nil {
		return fmt.Errorf("smtp notifier: rcpt to %s: %w", recipient, err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp notifier: data: %w", err)
	}
	if _, err := writer.Write(message); err != nil {
		_ = writer.Close()
		return fmt.Errorf("smtp notifier: data write: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("smtp notifier: data close: %w", err)
	}

	if err := client.Quit(); err != nil {
		return fmt.Errorf("smtp notifier: quit: %w", err)
	}

	return ctx.Err()
}

func (n *SMTPNotifier) buildMessage(order *models.Order) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", n.from)
	fmt.Fprintf(&buf, "To: %s\r\n", order.CustomerEmail)
	fmt.Fprintf(&buf, "Subject: Order %s confirmed\r\n", order.Number)
	fmt.Fprintf(&buf, "Date: %s\r\n", n.now().UTC().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	fmt.Fprintf(&buf, "Your payment for order %s was received.\r\n", order.Number)
	return buf.Bytes()
}
